package repo

import "errors"

var (
	ErrNotARepository     = errors.New("not a git repository")
	ErrMissingConfig      = errors.New("configuration file missing")
	ErrInvalidConfig      = errors.New("invalid repository configuration")
	ErrUnsupportedFormat  = errors.New("unsupported repositoryformatversion")
	ErrAlreadyInitialized = errors.New("repository already initialized")
	ErrNotADirectory      = errors.New("not a directory")
)
