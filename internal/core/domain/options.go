package domain

import (
	"maps"
	"slices"
)

// Cache is the opaque artifact a successful bundle hands to the next build.
type Cache any

// Target overrides the base options for one output.
type Target struct {
	Dest        string
	Environment map[string]string
}

// Options are the user-supplied build options.
type Options struct {
	// Input lists the glob patterns of the build's source files.
	Input []string
	// Cmd is the command producing Output.
	Cmd []string
	// Output is the artifact produced by Cmd.
	Output string
	// Dest is where the artifact is written when no targets are configured.
	Dest string
	// WorkingDir is the directory Cmd runs in and Input is resolved against.
	WorkingDir  string
	Environment map[string]string
	// Targets, when set, replace the default output with one write per target.
	Targets []Target
	// SelfBuild hands each bundle to a consumer instead of writing outputs.
	SelfBuild bool
}

// Clone returns a deep copy of the options.
func (o Options) Clone() Options {
	c := o
	c.Input = slices.Clone(o.Input)
	c.Cmd = slices.Clone(o.Cmd)
	c.Environment = maps.Clone(o.Environment)
	if o.Targets != nil {
		c.Targets = make([]Target, len(o.Targets))
		for i, t := range o.Targets {
			c.Targets[i] = Target{Dest: t.Dest, Environment: maps.Clone(t.Environment)}
		}
	}
	return c
}

// Merge returns a copy of o with the non-zero fields of t applied on top.
// Environment maps are merged key by key, target values winning.
func (o Options) Merge(t Target) Options {
	merged := o.Clone()
	if t.Dest != "" {
		merged.Dest = t.Dest
	}
	if len(t.Environment) > 0 {
		if merged.Environment == nil {
			merged.Environment = make(map[string]string, len(t.Environment))
		}
		maps.Copy(merged.Environment, t.Environment)
	}
	return merged
}

// BuildConfig is the configuration of a single build.
// It is derived afresh for every build and never mutated afterwards.
type BuildConfig struct {
	Options Options
	// Cache is the artifact of the last successful bundle, or nil.
	Cache Cache
}

// NewBuildConfig derives the configuration of the next build from the base options
// and the latest cache. Output-handling fields are stripped since they are
// orchestration concerns the bundler never sees.
func NewBuildConfig(base Options, cache Cache) BuildConfig {
	opts := base.Clone()
	opts.SelfBuild = false
	opts.Targets = nil
	return BuildConfig{Options: opts, Cache: cache}
}
