package objstore

import "go.uber.org/zap"

// DefaultCacheSize is the number of decoded objects kept in memory.
const DefaultCacheSize = 256

type cfg struct {
	log       *zap.Logger
	cacheSize int
}

func defaultCfg() *cfg {
	return &cfg{
		log:       zap.NewNop(),
		cacheSize: DefaultCacheSize,
	}
}

// Option configures a Store.
type Option func(*cfg)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(c *cfg) {
		if l != nil {
			c.log = l
		}
	}
}

// WithCacheSize sets the decoded object cache size; zero or less disables it.
func WithCacheSize(n int) Option {
	return func(c *cfg) {
		c.cacheSize = n
	}
}
