package objstore

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"gitstore/pkg/core"
	"gitstore/pkg/storage"
	"gitstore/pkg/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Corruption describes a record that failed verification.
type Corruption struct {
	Hash types.Hash
	Err  error
}

func (c Corruption) String() string {
	return fmt.Sprintf("%s: %v", c.Hash, c.Err)
}

// Report is the outcome of Verify.
type Report struct {
	Checked int
	Corrupt []Corruption
}

// OK reports whether every checked record was sound.
func (r *Report) OK() bool { return len(r.Corrupt) == 0 }

// Verify reads every record, decodes it and checks that it hashes back
// to its own name. workers <= 0 uses GOMAXPROCS. Corrupt records are
// collected in the report; only I/O and context errors abort the walk.
func (s *Store) Verify(ctx context.Context, workers int) (*Report, error) {
	w, ok := s.backend.(storage.Walker)
	if !ok {
		return nil, fmt.Errorf("backend %T cannot enumerate objects", s.backend)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu     sync.Mutex
		report Report
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	err := w.Walk(gctx, func(hash types.Hash) error {
		g.Go(func() error {
			cerr := s.check(gctx, hash)
			if gctx.Err() != nil {
				return gctx.Err()
			}

			mu.Lock()
			defer mu.Unlock()
			report.Checked++
			if cerr != nil {
				report.Corrupt = append(report.Corrupt, Corruption{Hash: hash, Err: cerr})
				s.log.Warn("corrupt object", zap.Stringer("hash", hash), zap.Error(cerr))
			}
			return nil
		})
		return nil
	})
	if gerr := g.Wait(); err == nil {
		err = gerr
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(report.Corrupt, func(i, j int) bool {
		return report.Corrupt[i].Hash < report.Corrupt[j].Hash
	})
	return &report, nil
}

func (s *Store) check(ctx context.Context, hash types.Hash) error {
	raw, err := s.readRaw(ctx, hash)
	if err != nil {
		return err
	}
	if _, err := core.ParseHeader(raw); err != nil {
		return err
	}
	if got := core.HashEncoded(raw); got != hash {
		return fmt.Errorf("%w: content hashes to %s", core.ErrMalformedObject, got)
	}
	return nil
}
