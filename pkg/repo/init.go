package repo

import (
	"fmt"
	"os"
)

// DefaultHead is the symbolic ref a fresh repository starts on.
const DefaultHead = "ref: refs/heads/master\n"

const defaultDescription = "Unnamed repository; edit this file 'description' to name the repository.\n"

// Initialize creates an empty repository at path and returns its handle.
// It refuses to touch a path that is a file or that already holds a
// non-empty metadata directory.
func Initialize(path string) (*Repository, error) {
	r, err := Open(path, true)
	if err != nil {
		return nil, err
	}

	// 1. Worktree
	if fi, err := os.Stat(r.Worktree); err == nil {
		if !fi.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrNotADirectory, path)
		}
		if entries, err := os.ReadDir(r.GitDir); err == nil && len(entries) > 0 {
			return nil, fmt.Errorf("%w: %s is not empty", ErrAlreadyInitialized, r.GitDir)
		}
	} else if os.IsNotExist(err) {
		if err := os.MkdirAll(r.Worktree, dirPerm); err != nil {
			return nil, fmt.Errorf("failed to create worktree %s: %w", path, err)
		}
	} else {
		return nil, err
	}

	// 2. Skeleton
	for _, d := range [][]string{
		{BranchesDir},
		{ObjectsDir},
		{RefsDir, TagsDir},
		{RefsDir, HeadsDir},
	} {
		if _, err := r.Dir(true, d...); err != nil {
			return nil, err
		}
	}

	// 3. Files
	if err := r.writeFile([]byte(defaultDescription), DescriptionName); err != nil {
		return nil, err
	}
	if err := r.writeFile([]byte(DefaultHead), HeadName); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cf, err := r.File(true, ConfigName)
	if err != nil {
		return nil, err
	}
	if err := cfg.Save(cf); err != nil {
		return nil, err
	}
	r.Config = cfg

	return r, nil
}

func (r *Repository) writeFile(data []byte, parts ...string) error {
	p, err := r.File(true, parts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return nil
}
