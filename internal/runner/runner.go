// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runner/runner.go
// Summary: The scheduler: a single-threaded cooperative loop that, once per
// tick, drains whatever the backend produced, feeds it to the parser,
// dispatches the current step's action, evaluates per-tick invariants,
// then advances the clock. Nothing in this package blocks on the backend;
// Output() and Wait() are polled through non-blocking selects fed by the
// backend's own goroutines.
// Usage: NewRunner builds one Runner per scenario run; Run executes it to
// completion and returns the outcome plus trace.

package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/syedazeez337/bte/internal/clock"
	"github.com/syedazeez337/bte/internal/invariant"
	"github.com/syedazeez337/bte/internal/scenario"
	"github.com/syedazeez337/bte/internal/termbackend"
	"github.com/syedazeez337/bte/internal/trace"
	"github.com/syedazeez337/bte/internal/vt"
)

// Result is the outcome of one Run call.
type Result struct {
	Outcome     trace.Outcome
	Violation   *invariant.Violation
	Err         error
	FullTrace   *trace.FullTrace
	SparseTrace *trace.SparseTrace
}

// Runner executes one scenario against a freshly spawned backend.
type Runner struct {
	scenario scenario.Scenario
	cfg      Config

	invariants      []invariant.Invariant
	invariantByName map[string]invariant.Invariant

	clk *clock.Clock
	rng *clock.RNG

	backend termbackend.Backend
	screen  *vt.Screen
	parser  *vt.Parser

	waitCh     chan termbackend.ExitStatus
	exited     bool
	exitStatus termbackend.ExitStatus

	stepOutputBuf      []byte
	lastBytesThisTick  []byte
	wroteInputThisTick bool
	signalSentThisTick string
	pendingViolation   *invariant.Violation

	stepRecords []trace.StepRecord
	checkpoints []trace.Checkpoint
	events      []trace.ScheduleEvent
}

// NewRunner builds a Runner for sc. It validates the scenario's command and
// invariant declarations but does not spawn anything yet; that happens in
// Run.
func NewRunner(sc scenario.Scenario, opts ...Option) (*Runner, error) {
	if err := sc.Command.Validate(); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	invs := make([]invariant.Invariant, 0, len(sc.Invariants))
	byName := make(map[string]invariant.Invariant, len(sc.Invariants))
	for _, spec := range sc.Invariants {
		inv, err := invariant.FromSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("runner: building invariant: %w", err)
		}
		invs = append(invs, inv)
		byName[inv.Name()] = inv
	}

	return &Runner{
		scenario:        sc,
		cfg:             cfg,
		invariants:      invs,
		invariantByName: byName,
		clk:             clock.NewClock(cfg.TickMillis),
		rng:             clock.NewRNG(sc.SeedOrDefault()),
	}, nil
}

// maxTick is used as an unbounded global deadline when no timeout is
// configured.
const maxTick = ^uint64(0)

// Run spawns the scenario's command, drives it through every step, and
// tears it down. ctx cancellation is checked between steps, never inside a
// tick, so a single tick is never interrupted mid-dispatch.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	term := r.scenario.Terminal.Normalized()
	if err := term.Validate(); err != nil {
		return nil, err
	}

	backend, err := termbackend.Spawn(termbackend.CommandSpec{
		Program:    r.scenario.Command.Program,
		Args:       r.scenario.Command.Args,
		Shell:      r.scenario.Command.Shell,
		EnvOverlay: r.scenario.Env,
		Cols:       term.Cols,
		Rows:       term.Rows,
	})
	if err != nil {
		return &Result{Outcome: trace.OutcomeSpawnError, Err: fmt.Errorf("%w: %v", ErrSpawnFailed, err)}, nil
	}
	return r.runWithBackend(ctx, backend, term)
}

// runWithBackend is Run's body, taking an already-spawned backend. Split
// out so tests can drive the scheduler against a fake Backend without a
// real PTY.
func (r *Runner) runWithBackend(ctx context.Context, backend termbackend.Backend, term scenario.Terminal) (*Result, error) {
	r.backend = backend
	r.screen = vt.NewScreen(term.Cols, term.Rows, vt.WithScrollbackCapacity(r.cfg.ScrollbackCapacity))
	r.parser = vt.NewParser(r.screen)

	r.waitCh = make(chan termbackend.ExitStatus, 1)
	go func() {
		st, _ := backend.Wait()
		r.waitCh <- st
	}()

	id, err := trace.NewID(r.rng)
	if err != nil {
		r.cfg.Logger.Printf("trace id generation failed: %v", err)
	}

	globalDeadline := maxTick
	if ms := r.globalTimeoutMs(); ms > 0 {
		globalDeadline = r.clk.ToTicks(ms)
	}

	if r.cfg.TraceFormat == trace.FormatSparse {
		r.events = append(r.events, trace.ScheduleEvent{Kind: trace.EventScheduled, Tick: 0})
	}

	var runErr error
	for idx, step := range r.scenario.Steps {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		rec, stepErr := r.runStep(idx, step, globalDeadline)
		if r.cfg.TraceFormat == trace.FormatFull {
			r.stepRecords = append(r.stepRecords, rec)
		} else {
			r.checkpoints = append(r.checkpoints, trace.Checkpoint{
				Tick:        rec.EndTick,
				RNGSeed:     r.scenario.SeedOrDefault(),
				ScreenHash:  rec.PostHash,
				Description: fmt.Sprintf("step[%d] %s", idx, step.Action()),
			})
		}
		if stepErr != nil {
			runErr = stepErr
			break
		}
	}

	var finalViolation *invariant.Violation
	if runErr == nil {
		finalViolation = r.finalizeInvariants()
	} else if r.pendingViolation != nil {
		finalViolation = r.pendingViolation
	}

	r.pollProcess()
	_ = backend.Close()
	if !r.exited {
		st, _ := backend.Wait()
		r.exited = true
		r.exitStatus = st
	}

	if r.cfg.TraceFormat == trace.FormatSparse {
		r.events = append(r.events, trace.ScheduleEvent{Kind: trace.EventDescheduled, Tick: r.clk.Now()})
	}

	outcome := r.decideOutcome(runErr, finalViolation)
	result := &Result{Outcome: outcome, Violation: finalViolation, Err: runErr}
	switch r.cfg.TraceFormat {
	case trace.FormatSparse:
		result.SparseTrace = &trace.SparseTrace{
			Version:     trace.FormatSparse,
			ID:          id,
			Seed:        r.scenario.SeedOrDefault(),
			Scenario:    r.scenario,
			Checkpoints: r.checkpoints,
			Events:      r.events,
			Outcome:     outcome,
		}
	default:
		result.FullTrace = &trace.FullTrace{
			Version:  trace.FormatFull,
			ID:       id,
			Seed:     r.scenario.SeedOrDefault(),
			Scenario: r.scenario,
			Steps:    r.stepRecords,
			Outcome:  outcome,
		}
	}
	return result, nil
}

func (r *Runner) globalTimeoutMs() int {
	if r.cfg.GlobalTimeoutMs > 0 {
		return r.cfg.GlobalTimeoutMs
	}
	return r.scenario.TimeoutMs
}

// runStep drives step's controller one tick at a time until it finishes,
// errors, times out, or an invariant fires.
func (r *Runner) runStep(idx int, step scenario.Step, globalDeadline uint64) (trace.StepRecord, error) {
	startTick := r.clk.Now()
	preHash := r.screen.StateHash()
	r.stepOutputBuf = r.stepOutputBuf[:0]

	ctrl, err := newStepController(step)
	if err != nil {
		return r.stepRecord(idx, step, startTick, preHash, "failed"), fmt.Errorf("%w: %v", ErrAssertionFailure, err)
	}

	tt := ctrl.timeoutTicks(r)
	if tt == 0 {
		tt = r.clk.ToTicks(r.cfg.DefaultStepTimeoutMs)
	}
	deadline := startTick + tt

	var stepErr error
	for {
		done, derr := r.runTick(func() (bool, error) { return ctrl.poll(r) })
		if r.pendingViolation != nil {
			stepErr = fmt.Errorf("%w: %s", ErrInvariantViolation, r.pendingViolation.Detail)
			break
		}
		if derr != nil {
			stepErr = fmt.Errorf("%w: %v", ErrAssertionFailure, derr)
			break
		}
		if done {
			break
		}
		now := r.clk.Now()
		if now >= globalDeadline {
			stepErr = ErrGlobalTimeout
			break
		}
		if now >= deadline {
			stepErr = ErrStepTimeout
			break
		}
	}

	outcomeStr := "passed"
	switch {
	case errors.Is(stepErr, ErrInvariantViolation):
		outcomeStr = "invariant_violation"
	case errors.Is(stepErr, ErrGlobalTimeout), errors.Is(stepErr, ErrStepTimeout):
		outcomeStr = "timeout"
	case stepErr != nil:
		outcomeStr = "failed"
	}

	rec := r.stepRecord(idx, step, startTick, preHash, outcomeStr)
	return rec, stepErr
}

func (r *Runner) stepRecord(idx int, step scenario.Step, startTick uint64, preHash uint64, outcome string) trace.StepRecord {
	return trace.StepRecord{
		Index:     idx,
		Step:      step,
		StartTick: startTick,
		EndTick:   r.clk.Now(),
		PreHash:   preHash,
		PostHash:  r.screen.StateHash(),
		BytesRead: r.stepOutputBuf,
		Outcome:   outcome,
	}
}

// runTick is the scheduler's per-tick ordering: drain whatever arrived,
// feed the parser, dispatch the step's action, evaluate per-tick
// invariants, advance the clock.
func (r *Runner) runTick(dispatch func() (bool, error)) (bool, error) {
	r.pollProcess()

	data := r.drainOutput()
	if len(data) > r.cfg.MaxReadBytesPerTick {
		data = data[:r.cfg.MaxReadBytesPerTick]
	}
	if len(data) > 0 {
		r.parser.Parse(data)
		r.stepOutputBuf = append(r.stepOutputBuf, data...)
		if r.cfg.TraceFormat == trace.FormatSparse {
			r.events = append(r.events, trace.ScheduleEvent{
				Kind:  trace.EventPtyRead,
				Tick:  r.clk.Now(),
				Bytes: append([]byte(nil), data...),
			})
		}
	}
	r.lastBytesThisTick = data

	done, derr := dispatch()

	r.evaluatePerTickInvariants()
	r.clk.Advance(1)
	r.wroteInputThisTick = false
	r.signalSentThisTick = ""
	return done, derr
}

// pollProcess checks the exit-wait channel without blocking.
func (r *Runner) pollProcess() {
	if r.exited {
		return
	}
	select {
	case st := <-r.waitCh:
		r.exited = true
		r.exitStatus = st
	default:
	}
}

// drainOutput pulls chunks currently buffered on the backend's output
// channel without blocking once it runs dry, and stops pulling once it
// holds MaxReadBytesPerTick bytes so the rest waits for a later tick.
func (r *Runner) drainOutput() []byte {
	var buf []byte
	for len(buf) < r.cfg.MaxReadBytesPerTick {
		select {
		case chunk, ok := <-r.backend.Output():
			if !ok {
				return buf
			}
			buf = append(buf, chunk...)
		default:
			return buf
		}
	}
	return buf
}

// writeAll writes p to the backend, retrying on short writes a bounded
// number of times, and records the write as this tick's input action.
func (r *Runner) writeAll(p []byte) error {
	const maxAttempts = 8
	remaining := p
	for attempt := 0; len(remaining) > 0; attempt++ {
		if attempt >= maxAttempts {
			return fmt.Errorf("runner: write stalled after %d attempts with %d bytes left", maxAttempts, len(remaining))
		}
		n, err := r.backend.Write(remaining)
		if err != nil {
			return err
		}
		remaining = remaining[n:]
	}
	r.wroteInputThisTick = true
	if r.cfg.TraceFormat == trace.FormatSparse {
		r.events = append(r.events, trace.ScheduleEvent{
			Kind:  trace.EventPtyWrite,
			Tick:  r.clk.Now(),
			Bytes: append([]byte(nil), p...),
		})
	}
	return nil
}

func (r *Runner) context() *invariant.Context {
	return &invariant.Context{
		Screen:              r.screen,
		Tick:                r.clk.Now(),
		BytesThisTick:       r.lastBytesThisTick,
		WroteInputThisTick:  r.wroteInputThisTick,
		SignalSentThisTick:  r.signalSentThisTick,
		Process:             r.processStatus(),
	}
}

func (r *Runner) processStatus() invariant.ProcessStatus {
	if !r.exited {
		return invariant.ProcessStatus{Alive: true}
	}
	return invariant.ProcessStatus{
		Alive:    false,
		Exited:   !r.exitStatus.Signaled,
		ExitCode: r.exitStatus.Code,
		Signaled: r.exitStatus.Signaled,
		Signal:   r.exitStatus.Signal,
	}
}

func (r *Runner) evaluatePerTickInvariants() {
	if r.pendingViolation != nil {
		return
	}
	ctx := r.context()
	for _, inv := range r.invariants {
		if inv.Mode() != invariant.PerTick {
			continue
		}
		if v := inv.Check(ctx); v != nil {
			r.pendingViolation = v
			return
		}
	}
}

// finalizeInvariants gives every Finalizer invariant a last look once the
// scenario's steps have all completed without a prior violation.
func (r *Runner) finalizeInvariants() *invariant.Violation {
	ctx := r.context()
	for _, inv := range r.invariants {
		f, ok := inv.(invariant.Finalizer)
		if !ok {
			continue
		}
		if v := f.Finalize(ctx); v != nil {
			return v
		}
	}
	return nil
}

// decideOutcome applies the exit-class priority order: an invariant
// violation always wins, then a global timeout, then any other step
// failure, then the child's own signaled/exited status.
func (r *Runner) decideOutcome(runErr error, violation *invariant.Violation) trace.Outcome {
	switch {
	case violation != nil:
		return trace.OutcomeInvariantViolation
	case errors.Is(runErr, ErrGlobalTimeout):
		return trace.OutcomeTimeout
	case runErr != nil:
		return trace.OutcomeFailed
	case r.exited && r.exitStatus.Signaled:
		return trace.OutcomeChildSignaled
	default:
		return trace.OutcomeSuccess
	}
}
