package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Repository is a handle on a worktree and its metadata directory.
type Repository struct {
	Worktree string
	GitDir   string
	Config   *Config
}

// Open builds a handle for the repository rooted at worktree.
// With force, the metadata directory and config file may be absent;
// Initialize uses this before either exists.
func Open(worktree string, force bool) (*Repository, error) {
	r := &Repository{
		Worktree: worktree,
		GitDir:   filepath.Join(worktree, GitDirName),
	}

	if !force && !isDir(r.GitDir) {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, worktree)
	}

	cf, err := r.File(false, ConfigName)
	if err != nil && !force {
		return nil, err
	}

	switch {
	case cf != "" && fileExists(cf):
		cfg, err := LoadConfig(cf)
		if err != nil {
			if force {
				break
			}
			return nil, err
		}
		r.Config = cfg
	case !force:
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, r.Path(ConfigName))
	}

	if force {
		return r, nil
	}
	if err := r.Config.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Find walks from start up to the filesystem root and opens the first
// directory that contains a metadata directory. When nothing is found it
// returns ErrNotARepository if required, and (nil, nil) otherwise.
//
// Symlinks are resolved once up front; the ascent itself is lexical, so
// it always terminates.
func Find(start string, required bool) (*Repository, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	for {
		if isDir(filepath.Join(dir, GitDirName)) {
			return Open(dir, false)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if required {
		return nil, fmt.Errorf("%w (or any parent up to /): %s", ErrNotARepository, start)
	}
	return nil, nil
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
