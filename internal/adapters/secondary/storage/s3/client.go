package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cybersmrt-tony/cnctd.ai/internal/ports/storage"
	"github.com/minio/minio-go/v7"
)

// Client хранилище картинок аватаров в бакете MinIO/S3.
// Ключ объекта: {avatarId}/{category}/{filename}
type Client struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

func NewClient(client *minio.Client, bucket string, log *slog.Logger) storage.IObjectStorage {
	return &Client{
		client: client,
		bucket: bucket,
		log:    log,
	}
}

// Open открывает объект на чтение. storage.ErrObjectNotFound, если ключа нет
func (c *Client) Open(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}

	// GetObject ленивый, ошибка доступа приходит только на Stat или Read
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isNotFound(err) {
			return nil, storage.ErrObjectNotFound
		}
		c.log.Error("failed to stat object",
			"error", err,
			"bucket", c.bucket,
			"key", key)
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	return &storage.Object{
		Body:        obj,
		Size:        info.Size,
		ContentType: info.ContentType,
	}, nil
}

func (c *Client) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := c.client.PutObject(ctx, c.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000",
	})
	if err != nil {
		c.log.Error("failed to put object",
			"error", err,
			"bucket", c.bucket,
			"key", key)
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}
	c.log.Debug("object uploaded", "key", key, "size", size)
	return nil
}

func isNotFound(err error) bool {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
	}
	return false
}
