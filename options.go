// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package factorio

import (
	"io"
	"log/slog"
)

// config holds decoding settings. Each entry point starts from its own
// defaults and applies the caller's options on top.
type config struct {
	allowTrailing bool
	maxDepth      int
	logger        *slog.Logger
}

// Option configures a decode call.
type Option func(*config)

// WithTrailingData controls what happens to bytes left after the top-level
// value. When allow is false the decode fails with ErrTrailingData.
//
// Property trees and mod settings reject trailing data by default. Save
// headers ignore it by default, since level-init.dat carries data after the
// header that this package does not model.
func WithTrailingData(allow bool) Option {
	return func(c *config) {
		c.allowTrailing = allow
	}
}

// WithMaxDepth limits how deeply Lists and Dictionaries may nest (default:
// 512). Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithLogger sets a logger that receives Debug records describing the
// decode. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newConfig(allowTrailing bool, opts []Option) *config {
	cfg := &config{
		allowTrailing: allowTrailing,
		maxDepth:      defaultMaxDepth,
		logger:        discardLogger,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// finish applies the trailing data policy once the top-level value has been
// decoded.
func (cfg *config) finish(c *Cursor) error {
	if c.Remaining() == 0 {
		return nil
	}
	if !cfg.allowTrailing {
		return errAt(KindTrailingData, c.Offset(), "")
	}
	cfg.logger.Debug("ignored trailing data", "offset", c.Offset(), "bytes", c.Remaining())
	return nil
}
