package shell

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/zerr"
)

// commandModuleName names the synthetic module carrying the command line.
const commandModuleName = "rewatch:command"

// resolveInputs expands patterns against dir into a sorted, deduplicated list
// of absolute file paths. A literal path that does not exist is an error, a
// glob that matches nothing is not.
func resolveInputs(dir string, patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		abs := pattern
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(dir, pattern)
		}

		if !isGlob(pattern) {
			info, err := os.Stat(abs)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return nil, errors.Join(domain.ErrInputNotFound, zerr.With(err, "input", pattern))
				}
				return nil, errors.Join(domain.ErrInputResolutionFailed, zerr.With(err, "input", pattern))
			}
			if !info.IsDir() {
				files = append(files, filepath.Clean(abs))
				continue
			}
			abs = filepath.Join(abs, "**")
		}

		matches, err := doublestar.FilepathGlob(abs, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Join(domain.ErrInputResolutionFailed, zerr.With(err, "input", pattern))
		}
		files = append(files, matches...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// readModules loads every file as a module and appends the command module.
func readModules(files []string, cmd []string) ([]domain.Module, error) {
	modules := make([]domain.Module, 0, len(files)+1)
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Join(domain.ErrInputReadFailed, zerr.With(err, "path", path))
		}
		modules = append(modules, domain.Module{ID: path, Code: string(data)})
	}
	modules = append(modules, domain.Module{
		ID:   domain.SyntheticID(commandModuleName),
		Code: strings.Join(cmd, " "),
	})
	return modules, nil
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
