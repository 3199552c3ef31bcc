package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. GITSTORE_LOGGER_LEVEL.
const EnvPrefix = "GITSTORE"

// Load builds the tool configuration.
// cfgFile: optional, an explicit config file path.
//
// Precedence: flags bound later by the caller > env > file > defaults.
// A missing config file is not an error.
func Load(cfgFile string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Defaults
	setDefaults(v)

	// 2. Search path
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(".gitstore")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".gitstore"))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("config") // config.yaml
	}

	// 3. Environment (GITSTORE_STORAGE_TYPE, ...)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. File
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	// logging
	v.SetDefault("logger.level", "warn")
	v.SetDefault("logger.format", "console")

	// storage
	v.SetDefault("storage.type", "disk")
	v.SetDefault("storage.s3.region", "us-east-1")

	// caches
	v.SetDefault("cache.lru_size", 256)
	v.SetDefault("cache.ttl", "24h")

	// fsck
	v.SetDefault("verify.workers", runtime.GOMAXPROCS(0))
}
