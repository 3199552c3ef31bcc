package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gitstore/pkg/storage"
	"gitstore/pkg/types"

	"github.com/google/renameio"
)

// records are never modified after they land
const recordPerm = 0o444

// Adapter implements storage.Backend on the loose object layout:
// <root>/<first 2 hex>/<remaining 38 hex>.
type Adapter struct {
	rootPath string // e.g. /home/user/repo/.git/objects
}

// NewAdapter creates a disk adapter rooted at root, creating it if needed.
func NewAdapter(root string) (*Adapter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object directory: %w", err)
	}
	return &Adapter{rootPath: root}, nil
}

// Root returns the directory holding the shard directories.
func (s *Adapter) Root() string { return s.rootPath }

// layout returns the physical path of a record.
func (s *Adapter) layout(hash types.Hash) string {
	dir, file := hash.Shard()
	return filepath.Join(s.rootPath, dir, file)
}

func (s *Adapter) Put(ctx context.Context, hash types.Hash, data []byte) error {
	if err := hash.Validate(); err != nil {
		return err
	}
	targetPath := s.layout(hash)

	// 1. Write-if-absent: identical name means identical content
	if _, err := os.Stat(targetPath); err == nil {
		return nil
	}

	// 2. Shard directory
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("failed to create shard for %s: %w", hash, err)
	}

	// 3. Temp file in the shard, then rename. Readers either see no
	// record or a complete one.
	if err := renameio.WriteFile(targetPath, data, recordPerm); err != nil {
		return fmt.Errorf("failed to write object %s: %w", hash, err)
	}
	return nil
}

func (s *Adapter) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	if err := hash.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.layout(hash))
	if os.IsNotExist(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Adapter) Has(ctx context.Context, hash types.Hash) (bool, error) {
	if err := hash.Validate(); err != nil {
		return false, err
	}
	fi, err := os.Stat(s.layout(hash))
	if err == nil {
		return fi.Mode().IsRegular(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ExpandHash scans the shard directory named by the first two characters.
func (s *Adapter) ExpandHash(ctx context.Context, prefix types.HashPrefix) (types.Hash, error) {
	p := prefix.Normalize()
	if len(p) < types.MinPrefixLen {
		return "", fmt.Errorf("%w: %q", storage.ErrPrefixTooShort, prefix)
	}
	if p.IsFull() {
		ok, err := s.Has(ctx, types.Hash(p))
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%w: %s", storage.ErrNotFound, p)
		}
		return types.Hash(p), nil
	}

	dir, rest := string(p[:2]), string(p[2:])
	entries, err := os.ReadDir(filepath.Join(s.rootPath, dir))
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, p)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read shard %s: %w", dir, err)
	}

	var matches []types.Hash
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), rest) {
			continue
		}
		h := types.Hash(dir + e.Name())
		if !h.IsValid() {
			continue // leftover temp files
		}
		matches = append(matches, h)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", storage.ErrNotFound, p)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches %d objects", storage.ErrAmbiguousHash, p, len(matches))
	}
}

// Walk calls fn for every record, shard by shard.
func (s *Adapter) Walk(ctx context.Context, fn func(types.Hash) error) error {
	shards, err := os.ReadDir(s.rootPath)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", s.rootPath, err)
	}
	for _, shard := range shards {
		if !shard.IsDir() || len(shard.Name()) != 2 {
			continue // info/, pack/
		}
		entries, err := os.ReadDir(filepath.Join(s.rootPath, shard.Name()))
		if err != nil {
			return fmt.Errorf("failed to list shard %s: %w", shard.Name(), err)
		}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			h := types.Hash(shard.Name() + e.Name())
			if e.IsDir() || !h.IsValid() {
				continue
			}
			if err := fn(h); err != nil {
				return err
			}
		}
	}
	return nil
}

var (
	_ storage.Backend = (*Adapter)(nil)
	_ storage.Walker  = (*Adapter)(nil)
)
