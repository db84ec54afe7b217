package domain

import "time"

// Config is the loaded project configuration.
type Config struct {
	// Path is the configuration file the values were read from.
	Path    string
	Options Options
	// Debounce is the quiet period before a rebuild starts.
	Debounce time.Duration
	// CheckVersion enables the once-per-process newer-version advisory.
	CheckVersion bool
}
