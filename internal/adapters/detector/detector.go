// Package detector chooses between the interactive and line-oriented renderers.
package detector

import (
	"errors"
	"os"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto picks a renderer from the environment.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive renderer.
	ModeTUI
	// ModeLinear forces the line-oriented renderer.
	ModeLinear
)

// ErrUnknownMode is returned by ParseMode for unrecognised values.
var ErrUnknownMode = zerr.New("unknown output mode")

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// Environment describes the terminal rewatch runs in.
type Environment struct {
	TTY bool
	CI  bool
}

// Detect inspects stdout and the CI variable.
func Detect() Environment {
	return Environment{
		TTY: term.IsTerminal(int(os.Stdout.Fd())),
		CI:  isTruthy(os.Getenv("CI")),
	}
}

// Mode returns the renderer suited to the environment.
func (e Environment) Mode() OutputMode {
	if !e.TTY || e.CI {
		return ModeLinear
	}
	return ModeTUI
}

// Resolve applies a user requested mode on top of the environment.
func (e Environment) Resolve(requested OutputMode) OutputMode {
	if requested == ModeAuto {
		return e.Mode()
	}
	return requested
}

// ParseMode converts a flag value into an OutputMode. "ci" is an alias for "linear".
func ParseMode(value string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, errors.Join(ErrUnknownMode, zerr.With(errors.New("expected auto, tui or linear"), "mode", value))
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
