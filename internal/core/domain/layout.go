package domain

import "time"

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "rewatch.yaml"

	// DefaultDebounceWindow is the quiet period after the last change before a rebuild starts.
	DefaultDebounceWindow = 50 * time.Millisecond

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
