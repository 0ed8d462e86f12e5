// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/invariant/catalog.go
// Summary: Concrete invariant implementations, one per scenario.
// InvariantSpec variant. FromSpec builds the live evaluator for a
// declared spec.

package invariant

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/syedazeez337/bte/internal/saferegex"
	"github.com/syedazeez337/bte/internal/scenario"
)

// FromSpec constructs the live evaluator for a declared invariant.
func FromSpec(spec scenario.InvariantSpec) (Invariant, error) {
	switch s := spec.(type) {
	case scenario.CursorBoundsInvariant:
		return &CursorBounds{}, nil
	case scenario.NoDeadlockInvariant:
		return &NoDeadlock{TimeoutTicks: uint64(s.TimeoutTicks)}, nil
	case scenario.ScreenContainsInvariant:
		re, err := saferegex.Compile(s.Regex)
		if err != nil {
			return nil, err
		}
		return &ScreenContains{Regex: re}, nil
	case scenario.ScreenNotContainsInvariant:
		re, err := saferegex.Compile(s.Regex)
		if err != nil {
			return nil, err
		}
		return &ScreenNotContains{Regex: re}, nil
	case scenario.ScreenStableInvariant:
		return &ScreenStable{MinTicks: uint64(s.MinTicks)}, nil
	case scenario.ViewportValidInvariant:
		return &ViewportValid{}, nil
	case scenario.ResponseTimeInvariant:
		return &ResponseTime{MaxTicks: uint64(s.MaxTicks)}, nil
	case scenario.MaxLatencyInvariant:
		return &MaxLatency{MaxTicks: uint64(s.MaxTicks)}, nil
	case scenario.SignalHandledInvariant:
		return &SignalHandled{Signal: s.Signal}, nil
	case scenario.NoOutputAfterExitInvariant:
		return &NoOutputAfterExit{}, nil
	case scenario.ProcessTerminatedCleanlyInvariant:
		return &ProcessTerminatedCleanly{AllowedSignals: s.AllowedSignals}, nil
	case scenario.NoDangerousEscapeInvariant:
		return &DangerousEscape{}, nil
	case scenario.TerminalCompatibilityInvariant:
		return &TerminalCompatibility{Term: s.Term, Supported: s.Supported}, nil
	case scenario.CustomInvariant:
		re, err := saferegex.Compile(s.Pattern)
		if err != nil {
			return nil, err
		}
		return &Custom{
			NameField:     s.Name,
			Regex:         re,
			ShouldContain: s.ShouldContain,
			ExpectedRow:   s.ExpectedRow,
			ExpectedCol:   s.ExpectedCol,
		}, nil
	default:
		return nil, fmt.Errorf("invariant: unknown spec type %T", spec)
	}
}

// CursorBounds requires the cursor to stay within the grid at every tick.
type CursorBounds struct{}

func (*CursorBounds) Name() string { return "cursor_bounds" }
func (*CursorBounds) Mode() Mode   { return PerTick }

func (c *CursorBounds) Check(ctx *Context) *Violation {
	cur := ctx.Screen.Cursor()
	rows, cols := ctx.Screen.Rows(), ctx.Screen.Cols()
	if cur.Row < 0 || cur.Row >= rows || cur.Col < 0 || cur.Col > cols {
		return &Violation{
			Invariant: c.Name(),
			Detail:    fmt.Sprintf("cursor (%d,%d) outside [0,%d)x[0,%d]", cur.Row, cur.Col, rows, cols),
			Tick:      ctx.Tick,
		}
	}
	return nil
}

// NoDeadlock fails if the child is alive but neither produced output nor
// mutated the screen for TimeoutTicks consecutive ticks.
type NoDeadlock struct {
	TimeoutTicks uint64

	lastActivityTick uint64
	lastHash         uint64
	haveHash         bool
}

func (*NoDeadlock) Name() string { return "no_deadlock" }
func (*NoDeadlock) Mode() Mode   { return PerTick }

func (n *NoDeadlock) Check(ctx *Context) *Violation {
	hash := ctx.Screen.StateHash()
	if !n.haveHash || hash != n.lastHash || len(ctx.BytesThisTick) > 0 {
		n.lastActivityTick = ctx.Tick
		n.lastHash = hash
		n.haveHash = true
		return nil
	}
	if !ctx.Process.Alive {
		return nil
	}
	if ctx.Tick-n.lastActivityTick >= n.TimeoutTicks {
		return &Violation{
			Invariant: n.Name(),
			Detail:    fmt.Sprintf("no output or screen change for %d ticks", ctx.Tick-n.lastActivityTick),
			Tick:      ctx.Tick,
		}
	}
	return nil
}

// ScreenContains is satisfied if Regex ever matches the screen text before
// the run ends; it never fails mid-run, only at Finalize.
type ScreenContains struct {
	Regex   *regexp.Regexp
	matched bool
}

func (*ScreenContains) Name() string { return "screen_contains" }
func (*ScreenContains) Mode() Mode   { return PerTick }

func (s *ScreenContains) Check(ctx *Context) *Violation {
	if !s.matched && s.Regex.MatchString(ctx.Screen.Text()) {
		s.matched = true
	}
	return nil
}

func (s *ScreenContains) Finalize(ctx *Context) *Violation {
	if s.matched {
		return nil
	}
	return &Violation{
		Invariant: s.Name(),
		Detail:    fmt.Sprintf("pattern %q never matched the screen", s.Regex.String()),
		Tick:      ctx.Tick,
	}
}

// ScreenNotContains fails immediately on the first tick Regex matches the
// screen text.
type ScreenNotContains struct {
	Regex *regexp.Regexp
}

func (*ScreenNotContains) Name() string { return "screen_not_contains" }
func (*ScreenNotContains) Mode() Mode   { return PerTick }

func (s *ScreenNotContains) Check(ctx *Context) *Violation {
	if s.Regex.MatchString(ctx.Screen.Text()) {
		return &Violation{
			Invariant: s.Name(),
			Detail:    fmt.Sprintf("pattern %q matched the screen", s.Regex.String()),
			Tick:      ctx.Tick,
		}
	}
	return nil
}

// ScreenStable is satisfied if the screen hash holds constant for at least
// MinTicks consecutive ticks at some point during the run.
type ScreenStable struct {
	MinTicks uint64

	streak       uint64
	bestStreak   uint64
	lastHash     uint64
	haveHash     bool
}

func (*ScreenStable) Name() string { return "screen_stable" }
func (*ScreenStable) Mode() Mode   { return PerTick }

func (s *ScreenStable) Check(ctx *Context) *Violation {
	hash := ctx.Screen.StateHash()
	if s.haveHash && hash == s.lastHash {
		s.streak++
	} else {
		s.streak = 1
		s.haveHash = true
	}
	s.lastHash = hash
	if s.streak > s.bestStreak {
		s.bestStreak = s.streak
	}
	return nil
}

func (s *ScreenStable) Finalize(ctx *Context) *Violation {
	if s.bestStreak >= s.MinTicks {
		return nil
	}
	return &Violation{
		Invariant: s.Name(),
		Detail:    fmt.Sprintf("longest stable streak was %d ticks, want >= %d", s.bestStreak, s.MinTicks),
		Tick:      ctx.Tick,
	}
}

// ViewportValid requires the screen geometry and scroll region to stay
// within the scenario's configured bounds.
type ViewportValid struct{}

func (*ViewportValid) Name() string { return "viewport_valid" }
func (*ViewportValid) Mode() Mode   { return PerTick }

func (v *ViewportValid) Check(ctx *Context) *Violation {
	cols, rows := ctx.Screen.Cols(), ctx.Screen.Rows()
	if cols < 1 || cols > scenario.MaxGeometry || rows < 1 || rows > scenario.MaxGeometry {
		return &Violation{
			Invariant: v.Name(),
			Detail:    fmt.Sprintf("geometry %dx%d outside [1,%d]", cols, rows, scenario.MaxGeometry),
			Tick:      ctx.Tick,
		}
	}
	top, bottom := ctx.Screen.ScrollRegion()
	if top < 0 || bottom >= rows || top > bottom {
		return &Violation{
			Invariant: v.Name(),
			Detail:    fmt.Sprintf("scroll region [%d,%d] invalid for %d rows", top, bottom, rows),
			Tick:      ctx.Tick,
		}
	}
	return nil
}

// ResponseTime requires the screen hash to change within MaxTicks ticks of
// any backend write.
type ResponseTime struct {
	MaxTicks uint64

	armed        bool
	armedAtTick  uint64
	armedHash    uint64
	haveHash     bool
	lastHash     uint64
}

func (*ResponseTime) Name() string { return "response_time" }
func (*ResponseTime) Mode() Mode   { return PerTick }

func (r *ResponseTime) Check(ctx *Context) *Violation {
	hash := ctx.Screen.StateHash()
	changed := r.haveHash && hash != r.lastHash
	r.lastHash = hash
	r.haveHash = true

	if r.armed && changed {
		r.armed = false
	}
	if ctx.WroteInputThisTick {
		r.armed = true
		r.armedAtTick = ctx.Tick
		r.armedHash = hash
	}
	if r.armed && ctx.Tick-r.armedAtTick > r.MaxTicks {
		v := &Violation{
			Invariant: r.Name(),
			Detail:    fmt.Sprintf("screen unchanged %d ticks after input (limit %d)", ctx.Tick-r.armedAtTick, r.MaxTicks),
			Tick:      ctx.Tick,
		}
		r.armed = false
		return v
	}
	return nil
}

// MaxLatency requires the tick gap between any two successive screen
// mutations to never exceed MaxTicks.
type MaxLatency struct {
	MaxTicks uint64

	lastMutationTick uint64
	lastHash         uint64
	haveHash         bool
}

func (*MaxLatency) Name() string { return "max_latency" }
func (*MaxLatency) Mode() Mode   { return PerTick }

func (m *MaxLatency) Check(ctx *Context) *Violation {
	hash := ctx.Screen.StateHash()
	if !m.haveHash {
		m.haveHash = true
		m.lastHash = hash
		m.lastMutationTick = ctx.Tick
		return nil
	}
	if hash != m.lastHash {
		gap := ctx.Tick - m.lastMutationTick
		m.lastHash = hash
		m.lastMutationTick = ctx.Tick
		if gap > m.MaxTicks {
			return &Violation{
				Invariant: m.Name(),
				Detail:    fmt.Sprintf("%d ticks between mutations (limit %d)", gap, m.MaxTicks),
				Tick:      ctx.Tick,
			}
		}
	}
	return nil
}

// SignalHandled requires that after Signal is sent, the process exits or
// the screen mutates within responseWindowTicks.
type SignalHandled struct {
	Signal string

	armed       bool
	armedAtTick uint64
	armedHash   uint64
	haveHash    bool
}

// responseWindowTicks is the implementation-defined window spec §4.6
// leaves unspecified.
const responseWindowTicks = 50

func (*SignalHandled) Name() string { return "signal_handled" }
func (*SignalHandled) Mode() Mode   { return PerTick }

func (s *SignalHandled) Check(ctx *Context) *Violation {
	hash := ctx.Screen.StateHash()
	if ctx.SignalSentThisTick == s.Signal {
		s.armed = true
		s.armedAtTick = ctx.Tick
		s.armedHash = hash
		s.haveHash = true
		return nil
	}
	if !s.armed {
		s.haveHash = true
		s.armedHash = hash
		return nil
	}
	if !ctx.Process.Alive || hash != s.armedHash {
		s.armed = false
		return nil
	}
	if ctx.Tick-s.armedAtTick > responseWindowTicks {
		s.armed = false
		return &Violation{
			Invariant: s.Name(),
			Detail:    fmt.Sprintf("no exit or screen change within %d ticks of %s", responseWindowTicks, s.Signal),
			Tick:      ctx.Tick,
		}
	}
	return nil
}

// NoOutputAfterExit fails the tick any bytes arrive after the process has
// exited or been signaled.
type NoOutputAfterExit struct{}

func (*NoOutputAfterExit) Name() string { return "no_output_after_exit" }
func (*NoOutputAfterExit) Mode() Mode   { return PerTick }

func (n *NoOutputAfterExit) Check(ctx *Context) *Violation {
	if (ctx.Process.Exited || ctx.Process.Signaled) && len(ctx.BytesThisTick) > 0 {
		return &Violation{
			Invariant: n.Name(),
			Detail:    fmt.Sprintf("%d bytes arrived after process termination", len(ctx.BytesThisTick)),
			Tick:      ctx.Tick,
		}
	}
	return nil
}

// ProcessTerminatedCleanly is assessed only at Finalize: the process must
// have exited 0 or been terminated by a signal in AllowedSignals.
type ProcessTerminatedCleanly struct {
	AllowedSignals []string
}

func (*ProcessTerminatedCleanly) Name() string { return "process_terminated_cleanly" }
func (*ProcessTerminatedCleanly) Mode() Mode   { return OnStepBoundary }

func (p *ProcessTerminatedCleanly) Check(ctx *Context) *Violation { return nil }

func (p *ProcessTerminatedCleanly) Finalize(ctx *Context) *Violation {
	if ctx.Process.Exited && ctx.Process.ExitCode == 0 {
		return nil
	}
	if ctx.Process.Signaled {
		for _, allowed := range p.AllowedSignals {
			if allowed == ctx.Process.Signal {
				return nil
			}
		}
	}
	return &Violation{
		Invariant: p.Name(),
		Detail:    fmt.Sprintf("exited=%v code=%d signaled=%v signal=%s, allowed signals=%v", ctx.Process.Exited, ctx.Process.ExitCode, ctx.Process.Signaled, ctx.Process.Signal, p.AllowedSignals),
		Tick:      ctx.Tick,
	}
}

// dangerousEscapeSequences flags terminal-control sequences a well-behaved
// TUI should never emit unprompted: clipboard exfiltration, device-identity
// probes, and cursor-position reports an app could use to read back state
// it has no business reading.
var dangerousEscapeSequences = []struct {
	pattern []byte
	desc    string
}{
	{[]byte("\x1b]52;"), "OSC 52 clipboard access"},
	{[]byte("\x1b[c"), "primary device attributes request"},
	{[]byte("\x1b[6n"), "cursor position report"},
	{[]byte("\x05"), "ENQ terminal identification"},
}

// DangerousEscape fails the tick any of dangerousEscapeSequences appears in
// the backend's raw output.
type DangerousEscape struct{}

func (*DangerousEscape) Name() string { return "no_dangerous_escape" }
func (*DangerousEscape) Mode() Mode   { return PerTick }

func (d *DangerousEscape) Check(ctx *Context) *Violation {
	for _, seq := range dangerousEscapeSequences {
		if bytes.Contains(ctx.BytesThisTick, seq.pattern) {
			return &Violation{
				Invariant: d.Name(),
				Detail:    fmt.Sprintf("%s in backend output", seq.desc),
				Tick:      ctx.Tick,
			}
		}
	}
	return nil
}

// TerminalCompatibility is assessed only at Finalize: Term must contain one
// of Supported's substrings. Term is the scenario's own declared terminal
// type rather than the host's real $TERM, so the verdict stays a function
// of the scenario alone.
type TerminalCompatibility struct {
	Term      string
	Supported []string
}

func (*TerminalCompatibility) Name() string { return "terminal_compatibility" }
func (*TerminalCompatibility) Mode() Mode   { return OnStepBoundary }

func (t *TerminalCompatibility) Check(ctx *Context) *Violation { return nil }

func (t *TerminalCompatibility) Finalize(ctx *Context) *Violation {
	if len(t.Supported) == 0 {
		return nil
	}
	for _, want := range t.Supported {
		if strings.Contains(t.Term, want) {
			return nil
		}
	}
	return &Violation{
		Invariant: t.Name(),
		Detail:    fmt.Sprintf("term %q not in supported list %v", t.Term, t.Supported),
		Tick:      ctx.Tick,
	}
}

// Custom combines a screen regex with an optional cursor-position check.
type Custom struct {
	NameField     string
	Regex         *regexp.Regexp
	ShouldContain bool
	ExpectedRow   *int
	ExpectedCol   *int

	matched bool
}

func (c *Custom) Name() string { return c.NameField }
func (*Custom) Mode() Mode     { return PerTick }

func (c *Custom) Check(ctx *Context) *Violation {
	matches := c.Regex.MatchString(ctx.Screen.Text())
	if matches {
		c.matched = true
	}
	if !c.ShouldContain && matches {
		return &Violation{
			Invariant: c.Name(),
			Detail:    fmt.Sprintf("pattern %q matched but should_contain=false", c.Regex.String()),
			Tick:      ctx.Tick,
		}
	}
	if matches && (c.ExpectedRow != nil || c.ExpectedCol != nil) {
		cur := ctx.Screen.Cursor()
		if c.ExpectedRow != nil && cur.Row != *c.ExpectedRow {
			return &Violation{
				Invariant: c.Name(),
				Detail:    fmt.Sprintf("cursor row %d, want %d", cur.Row, *c.ExpectedRow),
				Tick:      ctx.Tick,
			}
		}
		if c.ExpectedCol != nil && cur.Col != *c.ExpectedCol {
			return &Violation{
				Invariant: c.Name(),
				Detail:    fmt.Sprintf("cursor col %d, want %d", cur.Col, *c.ExpectedCol),
				Tick:      ctx.Tick,
			}
		}
	}
	return nil
}

func (c *Custom) Finalize(ctx *Context) *Violation {
	if !c.ShouldContain {
		return nil
	}
	if c.matched {
		return nil
	}
	return &Violation{
		Invariant: c.Name(),
		Detail:    fmt.Sprintf("pattern %q never matched and should_contain=true", c.Regex.String()),
		Tick:      ctx.Tick,
	}
}
