// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runner/errors.go
// Summary: Sentinel errors for the error taxonomy steps and the scheduler
// surface. Wrapped with fmt.Errorf("%w: ...") so callers can classify with
// errors.Is while still getting a detail message.

package runner

import "errors"

var (
	// ErrSpawnFailed means the backend could not start the child at all.
	ErrSpawnFailed = errors.New("runner: failed to spawn child")

	// ErrGlobalTimeout means the scenario's global timeout elapsed before
	// the current step finished.
	ErrGlobalTimeout = errors.New("runner: global timeout exceeded")

	// ErrStepTimeout means a step's own (or the default) timeout elapsed.
	ErrStepTimeout = errors.New("runner: step timed out")

	// ErrAssertionFailure covers assert_*, wait predicates that errored
	// rather than timed out, and malformed step parameters discovered at
	// run time.
	ErrAssertionFailure = errors.New("runner: assertion failed")

	// ErrInvariantViolation means a per-tick or on-demand invariant check
	// failed; the run terminates immediately.
	ErrInvariantViolation = errors.New("runner: invariant violated")
)
