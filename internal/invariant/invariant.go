// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/invariant/invariant.go
// Summary: The Invariant interface and the per-tick Context passed to it.
// Each invariant owns whatever private state it needs (a last-change tick,
// a stability-streak counter) across calls; the runner never inspects that
// state, only the Violation a call returns.

package invariant

import "github.com/syedazeez337/bte/internal/vt"

// Mode selects when the runner evaluates an invariant.
type Mode int

const (
	// PerTick invariants are checked after every tick's event application.
	PerTick Mode = iota
	// OnStepBoundary invariants are skipped by the per-tick pass. The runner
	// does not check them at individual step boundaries; it consults them
	// only through Finalize once the steps have completed.
	OnStepBoundary
	// OnDemand invariants are checked only by an explicit check_invariant step.
	OnDemand
)

func (m Mode) String() string {
	switch m {
	case PerTick:
		return "per_tick"
	case OnStepBoundary:
		return "on_step_boundary"
	case OnDemand:
		return "on_demand"
	default:
		return "unknown"
	}
}

// ProcessStatus is the subset of backend exit-status information an
// invariant needs.
type ProcessStatus struct {
	Alive    bool
	Exited   bool
	ExitCode int
	Signaled bool
	Signal   string
}

// Context is the read-only view of run state an invariant evaluates
// against. The runner constructs one per tick; invariants never mutate it.
type Context struct {
	Screen *vt.Screen
	Tick   uint64

	// BytesThisTick is what the backend produced since the previous tick,
	// empty if nothing arrived.
	BytesThisTick []byte

	// WroteInputThisTick is true on the tick a send_keys/mouse step wrote
	// to the backend.
	WroteInputThisTick bool

	// SignalSentThisTick names the signal a send_signal step delivered
	// this tick, or "" if none was sent.
	SignalSentThisTick string

	Process ProcessStatus
}

// Violation is what Check returns when an invariant's property is broken.
type Violation struct {
	Invariant string
	Detail    string
	Tick      uint64
}

// Invariant is a named, evaluable property of a run.
type Invariant interface {
	Name() string
	Mode() Mode
	// Check is called once per applicable scheduling point. A non-nil
	// return ends the run with InvariantViolation.
	Check(ctx *Context) *Violation
}

// Finalizer is implemented by invariants whose property can only be
// assessed once the run has ended (screen_contains, screen_stable,
// process_terminated_cleanly, terminal_compatibility, custom): Finalize
// renders the verdict once there are no more ticks to observe. For most of
// them Check only tracks state and never itself fails; custom's Check can
// also fail mid-run.
type Finalizer interface {
	Finalize(ctx *Context) *Violation
}
