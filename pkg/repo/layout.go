package repo

import (
	"fmt"
	"os"
	"path/filepath"
)

// Names inside the metadata directory.
const (
	GitDirName      = ".git"
	ConfigName      = "config"
	DescriptionName = "description"
	HeadName        = "HEAD"
	BranchesDir     = "branches"
	ObjectsDir      = "objects"
	RefsDir         = "refs"
	HeadsDir        = "heads"
	TagsDir         = "tags"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Path joins the metadata directory with parts. It never touches the disk.
func (r *Repository) Path(parts ...string) string {
	return filepath.Join(append([]string{r.GitDir}, parts...)...)
}

// File returns the path of a file inside the metadata directory after
// making sure its parent directory exists. With mkdir the parent chain is
// created; without it, a missing parent yields "" and a nil error.
func (r *Repository) File(mkdir bool, parts ...string) (string, error) {
	if len(parts) == 0 {
		return "", fmt.Errorf("repo: file path needs at least one segment")
	}
	dir, err := r.Dir(mkdir, parts[:len(parts)-1]...)
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", nil
	}
	return r.Path(parts...), nil
}

// Dir returns the path of a directory inside the metadata directory.
// An existing file at that path is ErrNotADirectory. A missing directory
// is created when mkdir is set, and reported as "" with a nil error otherwise.
func (r *Repository) Dir(mkdir bool, parts ...string) (string, error) {
	p := r.Path(parts...)

	fi, err := os.Stat(p)
	switch {
	case err == nil:
		if !fi.IsDir() {
			return "", fmt.Errorf("%w: %s", ErrNotADirectory, p)
		}
		return p, nil
	case !os.IsNotExist(err):
		return "", fmt.Errorf("failed to stat %s: %w", p, err)
	}

	if !mkdir {
		return "", nil
	}
	if err := os.MkdirAll(p, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", p, err)
	}
	return p, nil
}
