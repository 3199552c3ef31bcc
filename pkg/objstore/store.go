package objstore

import (
	"context"
	"errors"
	"fmt"

	"gitstore/pkg/core"
	"gitstore/pkg/repo"
	"gitstore/pkg/storage"
	"gitstore/pkg/storage/disk"
	"gitstore/pkg/types"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Store reads and writes typed objects as compressed records in a backend.
//
// A nil *Store is valid for Write and performs a dry run: the object name
// is computed and nothing is persisted.
type Store struct {
	backend storage.Backend
	cache   *lru.Cache[types.Hash, core.Object]
	log     *zap.Logger
}

// New wraps backend.
func New(backend storage.Backend, opts ...Option) (*Store, error) {
	c := defaultCfg()
	for _, o := range opts {
		o(c)
	}

	s := &Store{backend: backend, log: c.log}
	if c.cacheSize > 0 {
		cache, err := lru.New[types.Hash, core.Object](c.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create object cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Open returns a store over the loose object directory of r.
func Open(r *repo.Repository, opts ...Option) (*Store, error) {
	root, err := r.Dir(true, repo.ObjectsDir)
	if err != nil {
		return nil, err
	}
	backend, err := disk.NewAdapter(root)
	if err != nil {
		return nil, err
	}
	return New(backend, opts...)
}

// HashObject computes the object name without touching any store.
func HashObject(obj core.Object) types.Hash {
	return core.Hash(obj)
}

// Write stores obj and returns its name. The record is written only if
// none exists yet, so repeated writes leave the file untouched.
func (s *Store) Write(ctx context.Context, obj core.Object) (types.Hash, error) {
	if s == nil {
		return HashObject(obj), nil
	}

	encoded := core.Encode(obj)
	hash := core.HashEncoded(encoded)

	exists, err := s.backend.Has(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("failed to check object %s: %w", hash, err)
	}
	if exists {
		s.log.Debug("object already stored", zap.Stringer("hash", hash))
		return hash, nil
	}

	record, err := compress(encoded)
	if err != nil {
		return "", err
	}
	if err := s.backend.Put(ctx, hash, record); err != nil {
		return "", err
	}

	s.log.Debug("object written",
		zap.Stringer("hash", hash),
		zap.Stringer("type", obj.Type()),
		zap.Int("size", len(obj.Payload())),
		zap.Int("stored", len(record)))
	return hash, nil
}

// Read loads the object named hash. A missing object is (nil, nil).
// Records that fail to decode are reported with core.ErrMalformedObject
// or core.ErrUnknownType and are never repaired. Names that are not
// 40 hex characters fail with types.ErrInvalidHash.
func (s *Store) Read(ctx context.Context, hash types.Hash) (core.Object, error) {
	hash, err := types.ParseHash(string(hash))
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if obj, ok := s.cache.Get(hash); ok {
			return obj, nil
		}
	}

	raw, err := s.readRaw(ctx, hash)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	obj, err := core.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", hash, err)
	}

	if s.cache != nil {
		s.cache.Add(hash, obj)
	}
	return obj, nil
}

// Has reports whether an object is stored.
func (s *Store) Has(ctx context.Context, hash types.Hash) (bool, error) {
	hash, err := types.ParseHash(string(hash))
	if err != nil {
		return false, err
	}
	if s.cache != nil && s.cache.Contains(hash) {
		return true, nil
	}
	return s.backend.Has(ctx, hash)
}

// Header reads only what is needed to report the type and size.
func (s *Store) Header(ctx context.Context, hash types.Hash) (core.Header, error) {
	hash, err := types.ParseHash(string(hash))
	if err != nil {
		return core.Header{}, err
	}
	raw, err := s.readRaw(ctx, hash)
	if err != nil {
		return core.Header{}, err
	}
	hdr, err := core.ParseHeader(raw)
	if err != nil {
		return core.Header{}, fmt.Errorf("object %s: %w", hash, err)
	}
	return hdr, nil
}

// Resolve expands an abbreviated object name.
func (s *Store) Resolve(ctx context.Context, prefix types.HashPrefix) (types.Hash, error) {
	return s.backend.ExpandHash(ctx, prefix)
}

// readRaw returns the decompressed canonical bytes of a record.
func (s *Store) readRaw(ctx context.Context, hash types.Hash) ([]byte, error) {
	rc, err := s.backend.Get(ctx, hash)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	raw, err := decompress(rc)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w: %v", hash, core.ErrMalformedObject, err)
	}
	return raw, nil
}
