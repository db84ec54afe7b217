// Package advisory warns when a newer release of rewatch has been published.
package advisory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.trai.ch/rewatch/internal/build"
	"go.trai.ch/rewatch/internal/core/ports"
	"golang.org/x/mod/semver"
)

// Checker compares the running version with the latest published one.
type Checker struct {
	source  ports.VersionSource
	logger  ports.Logger
	current string
	once    sync.Once
}

// NewChecker creates a Checker for the running version current.
func NewChecker(source ports.VersionSource, logger ports.Logger, current string) *Checker {
	return &Checker{
		source:  source,
		logger:  logger,
		current: current,
	}
}

// Check looks up the latest version and logs a warning when it is newer than
// the running one. Only the first call does anything. Lookup failures and
// unparsable versions are ignored.
func (c *Checker) Check(ctx context.Context) {
	c.once.Do(func() {
		current := canonical(c.current)
		if current == "" {
			return
		}

		latest, err := c.source.Latest(ctx)
		if err != nil {
			return
		}
		if !Newer(current, latest) {
			return
		}

		c.logger.Warn(fmt.Sprintf(
			"rewatch is out of date (you have %s, latest version is %s). Update it with go install %s/cmd/rewatch@latest",
			strings.TrimPrefix(current, "v"),
			strings.TrimPrefix(canonical(latest), "v"),
			build.ModulePath,
		))
	})
}

// Newer reports whether latest is a strictly greater semantic version than current.
// Either version may omit the leading "v".
func Newer(current, latest string) bool {
	c, l := canonical(current), canonical(latest)
	if c == "" || l == "" {
		return false
	}
	return semver.Compare(l, c) > 0
}

// canonical returns v with a "v" prefix, or "" when it is not a valid semantic version.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
