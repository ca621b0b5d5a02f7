package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"blogCMS/internal/config"
)

type Storage interface {
	UploadImage(ctx context.Context, file io.Reader, size int64, contentType, ext string) (objectName, imageURL string, err error)
	DeleteImage(ctx context.Context, objectName string) error
	GetImageURL(objectName string) string
}

type MinIOClient struct {
	client  *minio.Client
	bucket  string
	baseURL string
	log     zerolog.Logger
	now     func() time.Time
}

// NewMinIOClient connects to MinIO and creates the bucket when it is missing.
func NewMinIOClient(ctx context.Context, cfg config.MinIO, log zerolog.Logger) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка создания клиента MinIO")
	}

	m := &MinIOClient{
		client:  client,
		bucket:  cfg.BucketName,
		baseURL: PublicBaseURL(cfg),
		log:     log.With().Str("component", "storage").Logger(),
		now:     time.Now,
	}

	found, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка проверки бакета %s", cfg.BucketName)
	}
	if !found {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, errors.Wrapf(err, "ошибка создания бакета %s", cfg.BucketName)
		}
		m.log.Info().Str("bucket", cfg.BucketName).Msg("Бакет создан")
	}

	return m, nil
}

// PublicBaseURL is where stored objects are served from. MINIO_PUBLIC_URL wins
// over the endpoint address.
func PublicBaseURL(cfg config.MinIO) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.BucketName)
}

// ObjectName lays uploads out by month: uploads/<yyyy>/<mm>/<uuid><ext>.
func ObjectName(now time.Time, ext string) string {
	return fmt.Sprintf("uploads/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)
}

func (m *MinIOClient) UploadImage(ctx context.Context, file io.Reader, size int64, contentType, ext string) (string, string, error) {
	now := m.now().UTC()
	objectName := ObjectName(now, ext)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"uploaded-at": now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", errors.Wrap(err, "ошибка загрузки в MinIO")
	}

	return objectName, m.GetImageURL(objectName), nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName,
		minio.RemoveObjectOptions{
			GovernanceBypass: true,
		})
	if err != nil {
		return errors.Wrap(err, "ошибка удаления из MinIO")
	}
	return nil
}

func (m *MinIOClient) GetImageURL(objectName string) string {
	return m.baseURL + "/" + objectName
}
