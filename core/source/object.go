package source

import (
	"context"
	"fmt"

	"tablecompare/core/reconcile"
	"tablecompare/core/storage"

	"github.com/minio/minio-go/v7"
)

// Object opens a delimited text file kept in object storage. The object is
// streamed; it is never downloaded in full.
type Object struct {
	client storage.Client
	bucket string
	object string
	opts   CSVOptions
}

// NewObject creates an opener for bucket/object.
func NewObject(client storage.Client, bucket, object string, opts CSVOptions) *Object {
	return &Object{client: client, bucket: bucket, object: object, opts: opts}
}

// NewObjectFromURL creates an opener for an s3://bucket/object URL.
func NewObjectFromURL(client storage.Client, rawURL string, opts CSVOptions) (*Object, error) {
	bucket, object, err := storage.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return NewObject(client, bucket, object, opts), nil
}

// Name returns the object URL.
func (o *Object) Name() string {
	return "s3://" + o.bucket + "/" + o.object
}

// Open checks the object exists, then streams it and reads its header.
// A missing bucket is reported as such rather than as a missing object.
func (o *Object) Open(ctx context.Context) (reconcile.RowSource, error) {
	if _, err := o.client.StatObject(ctx, o.bucket, o.object, minio.StatObjectOptions{}); err != nil {
		if exists, bErr := o.client.BucketExists(ctx, o.bucket); bErr == nil && !exists {
			return nil, fmt.Errorf("bucket %s does not exist", o.bucket)
		}
		return nil, fmt.Errorf("failed to stat object: %w", err)
	}

	body, err := o.client.GetObject(ctx, o.bucket, o.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	src, err := NewCSVSource(body, o.opts)
	if err != nil {
		_ = body.Close()
		return nil, err
	}
	return src, nil
}
