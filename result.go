// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: result.go
// Summary: Result is the engine's top-level verdict: the trace outcome, an
// exit code a CLI front-end can return verbatim, and whichever trace
// variant was recorded.

package bte

import (
	"github.com/syedazeez337/bte/internal/invariant"
	"github.com/syedazeez337/bte/internal/runner"
	"github.com/syedazeez337/bte/internal/trace"
)

// ExitCode maps a trace.Outcome to the process exit code a front-end
// should return. The four-value table is the one the scenario schema's
// consumers are specified against; every outcome outside it (a spawn
// failure, a replay divergence, a generic assertion/step failure) returns
// 1, the conventional "something went wrong" code.
func ExitCode(outcome trace.Outcome) int {
	switch outcome {
	case trace.OutcomeSuccess:
		return 0
	case trace.OutcomeChildSignaled:
		return -1
	case trace.OutcomeInvariantViolation:
		return -2
	case trace.OutcomeTimeout:
		return -3
	default:
		return 1
	}
}

// Result is what Run returns: the outcome, its exit code, the violation
// that produced it (if any), the underlying error (if any), and the
// recorded trace.
type Result struct {
	Outcome   trace.Outcome
	ExitCode  int
	Violation *invariant.Violation
	Err       error

	FullTrace   *trace.FullTrace
	SparseTrace *trace.SparseTrace
}

func newResult(rr *runner.Result) *Result {
	return &Result{
		Outcome:     rr.Outcome,
		ExitCode:    ExitCode(rr.Outcome),
		Violation:   rr.Violation,
		Err:         rr.Err,
		FullTrace:   rr.FullTrace,
		SparseTrace: rr.SparseTrace,
	}
}

// ReplayResult is what Replay returns: the divergence report plus the exit
// code a front-end should return for it (0 if the replay matched the
// recorded trace exactly, -2 otherwise — a divergence is treated the same
// as an invariant violation would be, since both mean "this run's
// recorded behavior cannot be trusted").
type ReplayResult struct {
	Outcome       trace.Outcome
	ExitCode      int
	Divergences   []trace.Divergence
	FinalHash     uint64
	ChecksChecked int
}

func newReplayResult(rr *trace.ReplayResult) *ReplayResult {
	code := 0
	if rr.Outcome == trace.OutcomeReplayDivergence {
		code = -2
	}
	return &ReplayResult{
		Outcome:       rr.Outcome,
		ExitCode:      code,
		Divergences:   rr.Divergences,
		FinalHash:     rr.FinalHash,
		ChecksChecked: rr.ChecksChecked,
	}
}
