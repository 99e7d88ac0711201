package docstore

import "go.uber.org/zap"

// Option is a functional option for configuring a document store.
type Option func(*storeConfig)

type storeConfig struct {
	logger       *zap.SugaredLogger
	strictUnique bool
}

// WithLogger sets the logger used by the store.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *storeConfig) {
		c.logger = logger
	}
}

// WithStrictUnique enforces unique indexes atomically via set-if-absent
// instead of the default check-then-set. With it enabled, Save returns
// ErrConflict when another id already claims the value.
func WithStrictUnique() Option {
	return func(c *storeConfig) {
		c.strictUnique = true
	}
}
