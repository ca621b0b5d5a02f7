package storage

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"blogCMS/internal/config"
)

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.MinIO
		expected string
	}{
		{
			name:     "Адрес сервера без SSL",
			cfg:      config.MinIO{Endpoint: "localhost:9000", BucketName: "images"},
			expected: "http://localhost:9000/images",
		},
		{
			name:     "Адрес сервера с SSL",
			cfg:      config.MinIO{Endpoint: "s3.example.com", BucketName: "media", UseSSL: true},
			expected: "https://s3.example.com/media",
		},
		{
			name:     "Публичный адрес",
			cfg:      config.MinIO{Endpoint: "minio:9000", BucketName: "images", PublicURL: "https://cdn.example.com/"},
			expected: "https://cdn.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PublicBaseURL(tt.cfg))
		})
	}
}

func TestObjectName(t *testing.T) {
	now := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	name := ObjectName(now, ".jpg")

	assert.Regexp(t, regexp.MustCompile(`^uploads/2024/03/[0-9a-f-]{36}\.jpg$`), name)
	assert.NotEqual(t, name, ObjectName(now, ".jpg"))
}

func TestMinIOClient_GetImageURL(t *testing.T) {
	m := &MinIOClient{baseURL: "http://localhost:9000/images"}

	assert.Equal(t, "http://localhost:9000/images/uploads/2024/03/a.jpg", m.GetImageURL("uploads/2024/03/a.jpg"))
}
