/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"log/slog"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/utils/log"
)

const (
	// DefaultIncludeBuiltins represents the default for IncludeBuiltins.
	// When true, registries come with the predeclared scalar types registered.
	DefaultIncludeBuiltins = true
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultIndent represents the default for Indent.
	DefaultIndent = 2
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap and Indent are valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.Indent <= 0 {
		cfg.Indent = DefaultIndent
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		IncludeBuiltins: DefaultIncludeBuiltins,
		MaxUnwrap:       DefaultMaxUnwrap,
		Indent:          DefaultIndent,
		Logger:          log.Default(),
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithIncludeBuiltins sets the IncludeBuiltins option.
func WithIncludeBuiltins(include bool) Option {
	return func(c *apis.Config) {
		c.IncludeBuiltins = include
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithIndent sets the pretty-printing indentation.
// Values below 1 reset to the default.
func WithIndent(n int) Option {
	return func(c *apis.Config) {
		if n < 1 {
			c.Indent = DefaultIndent
			return
		}
		c.Indent = n
	}
}

// WithLogger sets the Logger. A nil logger silences the engine.
func WithLogger(l apis.Logger) Option {
	return func(c *apis.Config) {
		if l == nil {
			c.Logger = apis.NopLogger{}
			return
		}
		c.Logger = l
	}
}

// WithLogLevel replaces the Logger with a stderr logger at level.
func WithLogLevel(level slog.Level) Option {
	return func(c *apis.Config) {
		c.Logger = log.NewDefaultLogger(level)
	}
}
