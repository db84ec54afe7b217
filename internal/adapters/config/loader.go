// Package config provides the configuration loader for rewatch.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/rewatch/internal/core/domain"
	"go.trai.ch/rewatch/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the configuration schema version understood by this loader.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the configuration. path is either the configuration file itself
// or a directory from which rewatch.yaml is searched upwards.
func (l *Loader) Load(path string) (*domain.Config, error) {
	configPath, err := findConfiguration(path)
	if err != nil {
		return nil, err
	}

	var file Rewatchfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if file.Version != "" && file.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("%s declares version %q, expected %q", domain.ConfigFileName, file.Version, SupportedVersion))
	}

	cfg, err := buildConfig(configPath, &file)
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return cfg, nil
}

func findConfiguration(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve configuration path")
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Join(domain.ErrConfigNotFound, zerr.With(err, "path", path))
	}
	if !info.IsDir() {
		return abs, nil
	}

	currentDir := abs
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", errors.Join(domain.ErrConfigNotFound, zerr.With(zerr.New("no configuration file in any parent directory"), "cwd", path))
}

func buildConfig(configPath string, file *Rewatchfile) (*domain.Config, error) {
	if err := validate(file); err != nil {
		return nil, err
	}

	debounce := domain.DefaultDebounceWindow
	if file.Debounce != "" {
		d, err := time.ParseDuration(file.Debounce)
		if err != nil {
			return nil, errors.Join(domain.ErrInvalidConfig, zerr.With(zerr.Wrap(err, "invalid debounce"), "debounce", file.Debounce))
		}
		if d <= 0 {
			return nil, errors.Join(domain.ErrInvalidConfig, zerr.With(zerr.New("debounce must be positive"), "debounce", file.Debounce))
		}
		debounce = d
	}

	root := filepath.Dir(configPath)
	workingDir := resolvePath(root, file.WorkingDir)

	opts := domain.Options{
		Input:       file.Input,
		Cmd:         file.Cmd,
		Output:      resolvePath(workingDir, file.Output),
		Dest:        resolveOptionalPath(workingDir, file.Dest),
		WorkingDir:  workingDir,
		Environment: file.Environment,
		SelfBuild:   file.SelfBuild,
	}
	for _, t := range file.Targets {
		opts.Targets = append(opts.Targets, domain.Target{
			Dest:        resolvePath(workingDir, t.Dest),
			Environment: t.Environment,
		})
	}

	checkVersion := true
	if file.CheckVersion != nil {
		checkVersion = *file.CheckVersion
	}

	return &domain.Config{
		Path:         configPath,
		Options:      opts,
		Debounce:     debounce,
		CheckVersion: checkVersion,
	}, nil
}

func validate(file *Rewatchfile) error {
	var problems []error
	if len(file.Cmd) == 0 {
		problems = append(problems, zerr.New("cmd is required"))
	}
	if len(file.Input) == 0 {
		problems = append(problems, zerr.New("input is required"))
	}
	if file.Output == "" {
		problems = append(problems, zerr.New("output is required"))
	}
	for i, t := range file.Targets {
		if t.Dest == "" {
			problems = append(problems, zerr.With(zerr.New("target dest is required"), "target", i))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.Join(append([]error{domain.ErrInvalidConfig}, problems...)...)
}

// resolvePath makes p absolute relative to base.
func resolvePath(base, p string) string {
	if p == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func resolveOptionalPath(base, p string) string {
	if p == "" {
		return ""
	}
	return resolvePath(base, p)
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by the loader
	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Join(domain.ErrConfigReadFailed, err)
	}

	if err := yaml.Unmarshal(content, target); err != nil {
		return errors.Join(domain.ErrConfigParseFailed, err)
	}
	return nil
}
