// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so that delimited files kept in AWS S3 or a
// self-hosted MinIO instance can be streamed as comparison sources without
// downloading them first.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Object URLs
//
// Sources stored in a bucket are addressed as s3://bucket/path/to/file.csv.
// ParseURL splits such a URL into bucket and object name.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	bucket, object, err := storage.ParseURL("s3://exports/orders.csv")
//	body, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
package storage
