// pkg/app/app.go
package app

import (
	"context"
	"fmt"
	"io"

	"gitstore/pkg/objstore"
	"gitstore/pkg/repo"
	"gitstore/pkg/storage"
	"gitstore/pkg/storage/cache"
	"gitstore/pkg/storage/disk"
	"gitstore/pkg/storage/s3"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// App is the dependency container handed to commands.
type App struct {
	Repo    *repo.Repository
	Objects *objstore.Store
	Log     *zap.Logger

	closers []io.Closer
}

// New finds the repository enclosing start and assembles the object
// store described by v.
func New(ctx context.Context, v *viper.Viper, start string, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	// 1. Repository handle
	r, err := repo.Find(start, true)
	if err != nil {
		return nil, err
	}
	return FromRepository(ctx, v, r, log)
}

// FromRepository assembles the object store for an already opened repository.
func FromRepository(ctx context.Context, v *viper.Viper, r *repo.Repository, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Repo: r, Log: log}

	// 2. Record backend
	backend, err := initBackend(ctx, v, r, log)
	if err != nil {
		return nil, err
	}

	// 3. Optional Redis existence cache
	if url := v.GetString("cache.redis_url"); url != "" {
		cached, err := cache.NewCachedStore(backend, cache.Config{
			RedisURL: url,
			TTL:      v.GetDuration("cache.ttl"),
		}, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, cached)
		backend = cached
	}

	// 4. Object store
	a.Objects, err = objstore.New(backend,
		objstore.WithLogger(log),
		objstore.WithCacheSize(v.GetInt("cache.lru_size")))
	if err != nil {
		a.Close()
		return nil, err
	}

	log.Debug("repository opened",
		zap.String("worktree", r.Worktree),
		zap.String("storage", v.GetString("storage.type")))
	return a, nil
}

// initBackend picks the record backend by storage.type.
func initBackend(ctx context.Context, v *viper.Viper, r *repo.Repository, log *zap.Logger) (storage.Backend, error) {
	switch t := v.GetString("storage.type"); t {
	case "", "disk":
		root, err := r.Dir(true, repo.ObjectsDir)
		if err != nil {
			return nil, err
		}
		d, err := disk.NewAdapter(root)
		if err != nil {
			return nil, err
		}
		log.Debug("using disk storage", zap.String("root", d.Root()))
		return d, nil

	case "s3":
		cfg := s3.Config{
			Endpoint:        v.GetString("storage.s3.endpoint"),
			Region:          v.GetString("storage.s3.region"),
			Bucket:          v.GetString("storage.s3.bucket"),
			Prefix:          v.GetString("storage.s3.prefix"),
			AccessKeyID:     v.GetString("storage.s3.access_key"),
			SecretAccessKey: v.GetString("storage.s3.secret_key"),
		}
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("storage.s3.bucket is required for s3 storage")
		}
		return s3.NewAdapter(ctx, cfg, log)

	default:
		return nil, fmt.Errorf("unsupported storage type: %q", t)
	}
}

// Close releases connections held by the backend chain.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
