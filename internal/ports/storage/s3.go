package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

// Object открытый объект хранилища, вызывающий обязан закрыть Body
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// IObjectStorage S3-совместимое хранилище картинок (MinIO)
type IObjectStorage interface {
	Open(ctx context.Context, key string) (*Object, error)
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}
