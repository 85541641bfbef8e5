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

// Package log provides the default apis.Logger, a thin prefixing wrapper over
// log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"dirpx.dev/props/apis"
)

const prefix = "[props] "

// DefaultLogger writes slog text records, prefixing every message.
type DefaultLogger struct {
	logger *slog.Logger
}

// Ensure DefaultLogger implements apis.Logger.
var _ apis.Logger = (*DefaultLogger)(nil)

// NewDefaultLogger logs to stderr at the given level.
func NewDefaultLogger(level slog.Level) *DefaultLogger {
	return New(os.Stderr, level)
}

// New logs to w at the given level.
func New(w io.Writer, level slog.Level) *DefaultLogger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	return &DefaultLogger{logger: logger}
}

// FromSlog wraps an existing slog.Logger.
func FromSlog(l *slog.Logger) *DefaultLogger {
	return &DefaultLogger{logger: l}
}

func (d *DefaultLogger) Debug(msg string, args ...any) {
	d.logger.Debug(prefix+msg, args...)
}

func (d *DefaultLogger) Info(msg string, args ...any) {
	d.logger.Info(prefix+msg, args...)
}

func (d *DefaultLogger) Warn(msg string, args ...any) {
	d.logger.Warn(prefix+msg, args...)
}

func (d *DefaultLogger) Error(msg string, args ...any) {
	d.logger.Error(prefix+msg, args...)
}

var (
	defaultOnce   sync.Once
	defaultLogger *DefaultLogger
)

// Default returns the process-wide stderr logger at slog.LevelWarn.
// The same pointer is returned on every call.
func Default() *DefaultLogger {
	defaultOnce.Do(func() {
		defaultLogger = NewDefaultLogger(slog.LevelWarn)
	})
	return defaultLogger
}
