package domain

import "go.trai.ch/zerr"

var (
	// ErrWatchTargetMissing is returned when a watch is requested for a file that does not exist.
	// It is not fatal: the file is retried on the next reconcile.
	ErrWatchTargetMissing = zerr.New("watch target does not exist")

	// ErrWatchFailed is returned when a file subscription cannot be created for any other reason.
	ErrWatchFailed = zerr.New("failed to watch file")

	// ErrNotifierClosed is returned when a watch is requested after the notifier was closed.
	ErrNotifierClosed = zerr.New("notifier is closed")

	// ErrBundleFailed is returned when the bundler fails to produce a bundle.
	ErrBundleFailed = zerr.New("bundle failed")

	// ErrWriteFailed is returned when writing a bundle output fails.
	ErrWriteFailed = zerr.New("failed to write output")

	// ErrCommandFailed is returned when the build command exits with an error.
	ErrCommandFailed = zerr.New("build command failed")

	// ErrMissingCommand is returned when no build command is configured.
	ErrMissingCommand = zerr.New("no build command configured")

	// ErrInputResolutionFailed is returned when input patterns cannot be resolved.
	ErrInputResolutionFailed = zerr.New("failed to resolve inputs")

	// ErrInputNotFound is returned when an input pattern matches no file.
	ErrInputNotFound = zerr.New("input not found")

	// ErrInputReadFailed is returned when an input file cannot be read.
	ErrInputReadFailed = zerr.New("failed to read input")

	// ErrOutputMissing is returned when the build command did not produce its output.
	ErrOutputMissing = zerr.New("build output not found")

	// ErrConfigNotFound is returned when no configuration file can be found.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when the config file is syntactically valid but unusable.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrVersionCheckFailed is returned when the latest published version cannot be determined.
	ErrVersionCheckFailed = zerr.New("failed to check latest version")

	// ErrBuildFailed is returned by one-shot builds when the build cycle ends with an error.
	ErrBuildFailed = zerr.New("build failed")
)
