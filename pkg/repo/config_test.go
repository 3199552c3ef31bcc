package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *Config
		wantErr error
	}{
		{
			name: "Git style",
			body: "[core]\n\trepositoryformatversion = 0\n\tfilemode = true\n\tbare = false\n",
			want: &Config{FormatVersion: 0, FileMode: true},
		},
		{
			name: "Optional booleans omitted",
			body: "[core]\nrepositoryformatversion = 0\n",
			want: &Config{},
		},
		{
			name: "Other version still parses",
			body: "[core]\nrepositoryformatversion = 1\n",
			want: &Config{FormatVersion: 1},
		},
		{
			name:    "Missing version",
			body:    "[core]\nbare = true\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "Non integer version",
			body:    "[core]\nrepositoryformatversion = zero\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "Non boolean filemode",
			body:    "[core]\nrepositoryformatversion = 0\nfilemode = maybe\n",
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.body))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "config"))
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, (&Config{FormatVersion: 1}).Validate(), ErrUnsupportedFormat)
}

func TestConfig_SaveLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config")
	in := &Config{FormatVersion: 0, FileMode: true, Bare: true}
	require.NoError(t, in.Save(p))

	out, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	raw, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[core]")
}
