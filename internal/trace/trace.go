// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/trace.go
// Summary: Trace value types: full (per-step) and sparse (checkpoint +
// schedule-event) traces, and the run/trace ID generator. Both variants
// carry the scenario, seed, format version, and a terminal outcome.

package trace

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/syedazeez337/bte/internal/clock"
	"github.com/syedazeez337/bte/internal/scenario"
)

// FormatVersion discriminates the two trace variants on disk.
type FormatVersion uint32

const (
	FormatFull   FormatVersion = 1
	FormatSparse FormatVersion = 2
)

// Outcome is the terminal verdict of a run or replay.
type Outcome string

const (
	OutcomeSuccess            Outcome = "success"
	OutcomeFailed             Outcome = "failed"
	OutcomeTimeout            Outcome = "timeout"
	OutcomeInvariantViolation Outcome = "invariant_violation"
	OutcomeChildSignaled      Outcome = "child_signaled"
	OutcomeSpawnError         Outcome = "spawn_error"
	OutcomeReplayDivergence   Outcome = "replay_divergence"
)

// InvariantResult records one invariant's verdict fired during a step.
type InvariantResult struct {
	Name      string  `json:"name"`
	Tick      uint64  `json:"tick"`
	Violation *string `json:"violation,omitempty"`
}

// StepRecord is one entry of a full trace: everything observable about a
// single step's execution.
type StepRecord struct {
	Index            int               `json:"index"`
	Step             scenario.Step     `json:"step"`
	StartTick        uint64            `json:"start_tick"`
	EndTick          uint64            `json:"end_tick"`
	PreHash          uint64            `json:"pre_hash"`
	PostHash         uint64            `json:"post_hash"`
	BytesRead        []byte            `json:"bytes_read,omitempty"`
	InvariantResults []InvariantResult `json:"invariant_results,omitempty"`
	Outcome          string            `json:"outcome"`
}

// Checkpoint is a sparse-trace tick-aligned state snapshot.
type Checkpoint struct {
	Tick        uint64 `json:"tick"`
	RNGSeed     int64  `json:"rng_seed"`
	RNGDraws    uint64 `json:"rng_draws"`
	ScreenHash  uint64 `json:"screen_hash"`
	ScreenState []byte `json:"screen_state,omitempty"`
	Description string `json:"description,omitempty"`
}

// ScheduleEventKind is the closed set of sparse-trace event kinds.
type ScheduleEventKind string

const (
	EventScheduled   ScheduleEventKind = "scheduled"
	EventDescheduled ScheduleEventKind = "descheduled"
	EventBlockingIO  ScheduleEventKind = "blocking_io"
	EventSignal      ScheduleEventKind = "signal"
	EventPtyRead     ScheduleEventKind = "pty_read"
	EventPtyWrite    ScheduleEventKind = "pty_write"
	EventResize      ScheduleEventKind = "resize"
)

// ScheduleEvent is one entry of a sparse trace's event stream, between two
// checkpoints.
type ScheduleEvent struct {
	Kind   ScheduleEventKind `json:"kind"`
	Tick   uint64            `json:"tick"`
	PID    int               `json:"pid,omitempty"`
	CPU    int               `json:"cpu,omitempty"`
	FD     int               `json:"fd,omitempty"`
	Op     string            `json:"op,omitempty"`
	Signal string            `json:"signal,omitempty"`
	Bytes  []byte            `json:"bytes,omitempty"`
	Cols   int               `json:"cols,omitempty"`
	Rows   int               `json:"rows,omitempty"`
}

// FullTrace is the v1 format: one record per step.
type FullTrace struct {
	Version  FormatVersion     `json:"version"`
	ID       string            `json:"id"`
	Seed     int64             `json:"seed"`
	Scenario scenario.Scenario `json:"scenario"`
	Steps    []StepRecord      `json:"steps"`
	Outcome  Outcome           `json:"outcome"`
}

// SparseTrace is the v2 format: checkpoints plus a schedule-event stream.
type SparseTrace struct {
	Version     FormatVersion     `json:"version"`
	ID          string            `json:"id"`
	Seed        int64             `json:"seed"`
	Scenario    scenario.Scenario `json:"scenario"`
	Checkpoints []Checkpoint      `json:"checkpoints"`
	Events      []ScheduleEvent   `json:"events"`
	Outcome     Outcome           `json:"outcome"`
}

// rngReader adapts a clock.RNG to io.Reader so ulid.Monotonic can draw its
// entropy from the run's own seeded RNG instead of crypto/rand, keeping
// run IDs reproducible under a fixed seed.
type rngReader struct{ rng *clock.RNG }

func (r rngReader) Read(p []byte) (int, error) {
	r.rng.Bytes(p)
	return len(p), nil
}

// NewID generates a trace/run ID. Its random component comes from rng, so
// the same seed always produces the same random component; the ULID's
// timestamp component uses wall-clock time, so IDs from two runs differ
// in it.
func NewID(rng *clock.RNG) (string, error) {
	entropy := ulid.Monotonic(rngReader{rng: rng}, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
