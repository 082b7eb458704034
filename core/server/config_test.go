package server_test

import (
	"testing"

	"tablecompare/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     server.Config
		wantErr bool
	}{
		{"Default", server.Config{Port: "8080", BodyLimitKB: 64}, false},
		{"Empty port", server.Config{Port: "", BodyLimitKB: 64}, true},
		{"Not a number", server.Config{Port: "http", BodyLimitKB: 64}, true},
		{"Out of range", server.Config{Port: "70000", BodyLimitKB: 64}, true},
		{"No body", server.Config{Port: "8080"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, ":9090", server.Config{Port: "9090"}.Address())
}
