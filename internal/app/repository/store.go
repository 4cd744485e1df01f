package repository

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Store is the durable key-value store that holds session state.
type Store interface {
	// Read returns ErrKeyNotFound when the key is absent.
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
