package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/finnishtransportagency/raita-sub002/telemetry"
)

// Logger is an interface that defines the logging functions
// that are used during the archive processing.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// DefaultSkipExtensions are the video file extensions that are not relayed by default.
var DefaultSkipExtensions = []string{"mp4", "avi", "mkv", "mov", "wmv", "flv", "webm", "mpg", "mpeg", "m4v"}

// Config is a struct type that holds all config options
type Config struct {
	// logger stream for the processing
	logger Logger

	// maxConcurrentUploads is the number of entry uploads that may be in flight at once.
	// Set value to -1 to disable the bound.
	maxConcurrentUploads int

	// maxEntries is the maximum of entries that are traversed in an archive.
	// Set value to -1 to disable the check.
	maxEntries int64

	// skipExtensions holds lower cased extensions without leading dot
	skipExtensions []string

	// telemetryHook is a function pointer to consume telemetry data after a finished run
	// Important: do not adjust this value after processing started
	telemetryHook telemetry.TelemetryHook

	// denyXz disables the xz decompressor (zip method 95)
	denyXz bool

	// denyZstd disables the zstd decompressor (zip method 93)
	denyZstd bool
}

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style
func NewConfig(opts ...ConfigOption) *Config {
	const (
		maxConcurrentUploads = 16
		maxEntries           = -1
	)

	// disable logging by default
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	config := &Config{
		logger:               logger,
		maxConcurrentUploads: maxConcurrentUploads,
		maxEntries:           maxEntries,
		skipExtensions:       normalizeExtensions(DefaultSkipExtensions),
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// normalizeExtensions lower cases the extensions and strips a leading dot. Empty values are dropped.
func normalizeExtensions(exts []string) []string {
	res := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}
		res = append(res, ext)
	}
	return res
}

// WithLogger options pattern function to set a custom logger
func WithLogger(logger Logger) ConfigOption {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxConcurrentUploads options pattern function to bound the uploads in flight (-1 to disable the bound)
func WithMaxConcurrentUploads(n int) ConfigOption {
	return func(c *Config) {
		if n == 0 || n < -1 {
			return
		}
		c.maxConcurrentUploads = n
	}
}

// WithMaxEntries options pattern function to set maxEntries in the config (-1 to disable check).
// Every traversed entry counts, including directory markers and skipped media files.
func WithMaxEntries(maxEntries int64) ConfigOption {
	return func(c *Config) {
		c.maxEntries = maxEntries
	}
}

// WithSkipExtensions options pattern function to replace the set of skipped media extensions.
// Extensions are matched case-insensitive, with or without a leading dot.
func WithSkipExtensions(exts ...string) ConfigOption {
	return func(c *Config) {
		c.skipExtensions = normalizeExtensions(exts)
	}
}

// WithTelemetryHook options pattern function to set a telemetry hook
func WithTelemetryHook(hook telemetry.TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}

// WithDenyXz options pattern function to disable the xz decompressor
func WithDenyXz(deny bool) ConfigOption {
	return func(c *Config) {
		c.denyXz = deny
	}
}

// WithDenyZstd options pattern function to disable the zstd decompressor
func WithDenyZstd(deny bool) ConfigOption {
	return func(c *Config) {
		c.denyZstd = deny
	}
}

func (c *Config) Logger() Logger {
	return c.logger
}

// MaxConcurrentUploads returns the bound of uploads in flight, -1 if unbounded
func (c *Config) MaxConcurrentUploads() int {
	return c.maxConcurrentUploads
}

// MaxEntries returns the maximum of entries traversed in an archive
func (c *Config) MaxEntries() int64 {
	return c.maxEntries
}

// SkipExtensions returns a copy of the skipped media extensions
func (c *Config) SkipExtensions() []string {
	return append([]string(nil), c.skipExtensions...)
}

// DenyXz returns true if xz compressed entries must not be decompressed
func (c *Config) DenyXz() bool {
	return c.denyXz
}

// DenyZstd returns true if zstd compressed entries must not be decompressed
func (c *Config) DenyZstd() bool {
	return c.denyZstd
}

// CheckMaxEntries checks if counter exceeds the MaxEntries of the config
func (c *Config) CheckMaxEntries(counter int64) error {

	// check if disabled
	if c.MaxEntries() == -1 {
		return nil
	}

	// check value
	if counter > c.MaxEntries() {
		return ErrMaxEntries
	}
	return nil
}

// TelemetryHook returns the telemetry hook
func (c *Config) TelemetryHook() telemetry.TelemetryHook {
	if c.telemetryHook == nil {
		return telemetry.NoopTelemetryHook
	}
	return c.telemetryHook
}
