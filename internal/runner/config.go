// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runner/config.go
// Summary: Runner construction options, functional-options style.

package runner

import (
	"io"
	"log"

	"github.com/syedazeez337/bte/internal/trace"
)

// Config holds the knobs a Runner is built with. Callers use the With*
// options instead of constructing this directly.
type Config struct {
	// TickMillis is the wall-clock duration one logical tick represents
	// when converting a scenario's millisecond fields to tick counts.
	// Never consulted for scheduling correctness, only for this
	// conversion.
	TickMillis float64

	// DefaultStepTimeoutMs applies to wait_for/wait_for_fuzzy/wait_screen
	// steps that don't set their own timeout_ticks.
	DefaultStepTimeoutMs int

	// GlobalTimeoutMs overrides the scenario's own timeout_ms when
	// non-zero.
	GlobalTimeoutMs int

	// TraceFormat selects whether Run records a full (per-step) or sparse
	// (checkpoint + event) trace.
	TraceFormat trace.FormatVersion

	// ScrollbackCapacity bounds the screen's scrollback ring.
	ScrollbackCapacity int

	// MaxReadBytesPerTick bounds how many bytes a single tick drains from
	// the backend before yielding to invariant evaluation, keeping a
	// pathologically chatty child from starving the scheduler.
	MaxReadBytesPerTick int

	Logger *log.Logger
}

// Option configures a Config at Runner construction time.
type Option func(*Config)

// DefaultConfig matches the engine's baseline assumptions: a 10ms tick (the
// "default 10 ms equivalent" quantum), a 5s per-step wait timeout, and a
// full trace.
func DefaultConfig() Config {
	return Config{
		TickMillis:            10,
		DefaultStepTimeoutMs:  5000,
		GlobalTimeoutMs:       0,
		TraceFormat:           trace.FormatFull,
		ScrollbackCapacity:    10000,
		MaxReadBytesPerTick:   1 << 20,
		Logger:                log.New(io.Discard, "", 0),
	}
}

// WithTickMillis overrides the tick-to-millisecond ratio.
func WithTickMillis(ms float64) Option {
	return func(c *Config) { c.TickMillis = ms }
}

// WithDefaultStepTimeoutMs overrides the fallback wait-step timeout.
func WithDefaultStepTimeoutMs(ms int) Option {
	return func(c *Config) { c.DefaultStepTimeoutMs = ms }
}

// WithGlobalTimeoutMs overrides the scenario's own timeout_ms.
func WithGlobalTimeoutMs(ms int) Option {
	return func(c *Config) { c.GlobalTimeoutMs = ms }
}

// WithTraceFormat selects full or sparse trace recording.
func WithTraceFormat(v trace.FormatVersion) Option {
	return func(c *Config) { c.TraceFormat = v }
}

// WithScrollbackCapacity overrides the screen's scrollback row cap.
func WithScrollbackCapacity(n int) Option {
	return func(c *Config) { c.ScrollbackCapacity = n }
}

// WithVerboseLogging routes the runner's debug log to w instead of
// discarding it.
func WithVerboseLogging(w io.Writer) Option {
	return func(c *Config) { c.Logger = log.New(w, "runner: ", log.Ltime|log.Lmicroseconds) }
}
