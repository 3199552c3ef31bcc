package repo

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// FormatVersion is the only repositoryformatversion this store understands.
const FormatVersion = 0

const (
	sectionCore      = "core"
	keyFormatVersion = "repositoryformatversion"
	keyFileMode      = "filemode"
	keyBare          = "bare"
)

// Config is the [core] section of .git/config.
type Config struct {
	FormatVersion int
	FileMode      bool
	Bare          bool
}

// DefaultConfig is what Initialize writes for a fresh repository.
func DefaultConfig() *Config {
	return &Config{FormatVersion: FormatVersion}
}

// LoadConfig parses the INI file at path. A missing file is ErrMissingConfig.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	core := f.Section(sectionCore)

	if !core.HasKey(keyFormatVersion) {
		return nil, fmt.Errorf("%w: core.%s not set", ErrInvalidConfig, keyFormatVersion)
	}
	version, err := core.Key(keyFormatVersion).Int()
	if err != nil {
		return nil, fmt.Errorf("%w: core.%s: %v", ErrInvalidConfig, keyFormatVersion, err)
	}

	cfg := &Config{FormatVersion: version}
	if cfg.FileMode, err = optionalBool(core, keyFileMode); err != nil {
		return nil, err
	}
	if cfg.Bare, err = optionalBool(core, keyBare); err != nil {
		return nil, err
	}
	return cfg, nil
}

func optionalBool(sec *ini.Section, key string) (bool, error) {
	if !sec.HasKey(key) {
		return false, nil
	}
	v, err := sec.Key(key).Bool()
	if err != nil {
		return false, fmt.Errorf("%w: core.%s: %v", ErrInvalidConfig, key, err)
	}
	return v, nil
}

// Validate rejects configurations this store cannot operate on.
func (c *Config) Validate() error {
	if c.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, c.FormatVersion)
	}
	return nil
}

// Save writes the configuration as INI to path.
func (c *Config) Save(path string) error {
	f := ini.Empty()
	core, err := f.NewSection(sectionCore)
	if err != nil {
		return err
	}
	for _, kv := range [][2]string{
		{keyFormatVersion, fmt.Sprint(c.FormatVersion)},
		{keyFileMode, fmt.Sprint(c.FileMode)},
		{keyBare, fmt.Sprint(c.Bare)},
	} {
		if _, err := core.NewKey(kv[0], kv[1]); err != nil {
			return err
		}
	}
	if err := f.SaveTo(path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}
