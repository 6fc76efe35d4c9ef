package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrObjectExists is returned by Put when the key is already taken.
	ErrObjectExists = errors.New("object already exists")
	// ErrObjectNotFound is returned by Open and Delete for unknown keys.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidKey rejects keys that would escape the store namespace.
	ErrInvalidKey = errors.New("invalid storage key")
)

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	// Put writes r at key and never overwrites an existing object.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// PublicURL returns the URL anyone can use to fetch key.
	PublicURL(key string) string
}
