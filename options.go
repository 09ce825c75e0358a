package grepdex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the embedded client.
type Option func(*clientConfig)

type clientConfig struct {
	dataDir          string
	ripgrepBin       string
	findBin          string
	jqBin            string
	engineTimeout    time.Duration
	extractorCommand string
	extractorArgs    []string
	extractTimeout   time.Duration
	queryCacheSize   int
	logger           *zap.Logger
}

// WithDataDir sets the storage root. Originals go to <dir>/uploads, derived
// artifacts to <dir>/processed.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithEngineBinaries overrides the engine binary names or paths.
func WithEngineBinaries(ripgrep, find, jq string) Option {
	return func(c *clientConfig) {
		if ripgrep != "" {
			c.ripgrepBin = ripgrep
		}
		if find != "" {
			c.findBin = find
		}
		if jq != "" {
			c.jqBin = jq
		}
	}
}

// WithEngineTimeout bounds a single engine invocation.
func WithEngineTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.engineTimeout = d
		}
	}
}

// WithExtractorCommand configures an external partitioner invoked per upload.
// Without it, the built-in plaintext extractor is used.
func WithExtractorCommand(command string, args ...string) Option {
	return func(c *clientConfig) {
		c.extractorCommand = command
		c.extractorArgs = args
	}
}

// WithExtractTimeout bounds a single extraction run.
func WithExtractTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.extractTimeout = d
		}
	}
}

// WithQueryCache enables structured-query result caching with the given size.
func WithQueryCache(size int) Option {
	return func(c *clientConfig) {
		c.queryCacheSize = size
	}
}

// WithLogger sets the client logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}
