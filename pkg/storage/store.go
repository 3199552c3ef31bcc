package storage

import (
	"context"
	"errors"
	"io"

	"gitstore/pkg/types"
)

var (
	ErrNotFound       = errors.New("object not found")
	ErrAmbiguousHash  = errors.New("ambiguous object name")
	ErrPrefixTooShort = errors.New("object name prefix too short")
)

// Backend persists stored object records (compressed canonical bytes)
// keyed by object name. Implementations can be local disk or a bucket.
type Backend interface {
	// Put stores data under hash unless a record already exists there.
	// Records are immutable, so an existing one is never rewritten.
	Put(ctx context.Context, hash types.Hash, data []byte) error

	// Get opens the record for hash, or returns ErrNotFound.
	Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error)

	// Has reports whether a record exists for hash.
	Has(ctx context.Context, hash types.Hash) (bool, error)

	// ExpandHash resolves an abbreviated name to the single matching hash.
	ExpandHash(ctx context.Context, prefix types.HashPrefix) (types.Hash, error)
}

// Walker is implemented by backends that can enumerate their records.
type Walker interface {
	Walk(ctx context.Context, fn func(types.Hash) error) error
}

// ShardKey is the sharded location of a record relative to the store root:
// "aabbcc..." -> "aa/bbcc...".
func ShardKey(hash types.Hash) string {
	dir, file := hash.Shard()
	if dir == "" {
		return file
	}
	return dir + "/" + file
}
