package storage

import (
	"context"
	"errors"
)

// Storage is a durable key-value store holding serialized values under fixed keys.
// Save overwrites any previous value for the key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

var ErrNotFound = errors.New("key not found")
