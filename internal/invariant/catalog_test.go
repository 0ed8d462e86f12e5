// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/invariant/catalog_test.go
// Summary: Per-invariant Check/Finalize behavior tests against a bare
// vt.Screen, no backend involved.

package invariant

import (
	"testing"

	"github.com/syedazeez337/bte/internal/vt"
)

func TestCursorBoundsPassesWithinGrid(t *testing.T) {
	scr := vt.NewScreen(10, 5)
	c := &CursorBounds{}
	if v := c.Check(&Context{Screen: scr, Tick: 0}); v != nil {
		t.Fatalf("unexpected violation: %+v", v)
	}
}

func TestNoDeadlockFiresAfterSilence(t *testing.T) {
	scr := vt.NewScreen(10, 5)
	n := &NoDeadlock{TimeoutTicks: 3}
	proc := ProcessStatus{Alive: true}
	for tick := uint64(0); tick < 3; tick++ {
		if v := n.Check(&Context{Screen: scr, Tick: tick, Process: proc}); v != nil {
			t.Fatalf("tick %d: unexpected violation: %+v", tick, v)
		}
	}
	v := n.Check(&Context{Screen: scr, Tick: 3, Process: proc})
	if v == nil {
		t.Fatal("expected a no_deadlock violation at tick 3")
	}
}

func TestNoDeadlockResetsOnOutput(t *testing.T) {
	scr := vt.NewScreen(10, 5)
	n := &NoDeadlock{TimeoutTicks: 3}
	proc := ProcessStatus{Alive: true}
	n.Check(&Context{Screen: scr, Tick: 0, Process: proc})
	n.Check(&Context{Screen: scr, Tick: 1, Process: proc, BytesThisTick: []byte("x")})
	if v := n.Check(&Context{Screen: scr, Tick: 2, Process: proc}); v != nil {
		t.Fatalf("unexpected violation right after activity reset the clock: %+v", v)
	}
}

func TestScreenContainsFinalizesFromCheckHistory(t *testing.T) {
	matched, err := FromSpec(mustScreenContains(t, "hello"))
	if err != nil {
		t.Fatalf("FromSpec: %v", err)
	}
	h := vt.NewTestHarness(20, 3)
	h.Feed("hello there")
	matched.Check(&Context{Screen: h.Screen, Tick: 0})
	if got := matched.(*ScreenContains).Finalize(&Context{Screen: h.Screen, Tick: 1}); got != nil {
		t.Fatalf("expected no violation once matched, got %+v", got)
	}

	unmatched, _ := FromSpec(mustScreenContains(t, "hello"))
	emptyScreen := vt.NewScreen(20, 3)
	unmatched.Check(&Context{Screen: emptyScreen, Tick: 0})
	if got := unmatched.(*ScreenContains).Finalize(&Context{Screen: emptyScreen, Tick: 1}); got == nil {
		t.Fatal("expected a violation when the pattern never matched")
	}
}

func TestScreenNotContainsFailsOnMatch(t *testing.T) {
	snc, err := FromSpec(mustScreenNotContains(t, "ERROR"))
	if err != nil {
		t.Fatalf("FromSpec: %v", err)
	}
	h := vt.NewTestHarness(20, 3)
	h.Feed("all good")
	if v := snc.Check(&Context{Screen: h.Screen, Tick: 0}); v != nil {
		t.Fatalf("unexpected violation: %+v", v)
	}
	h2 := vt.NewTestHarness(20, 3)
	h2.Feed("an ERROR occurred")
	if v := snc.Check(&Context{Screen: h2.Screen, Tick: 1}); v == nil {
		t.Fatal("expected a violation once ERROR appears")
	}
}

func TestScreenStableFinalizeTracksLongestStreak(t *testing.T) {
	scr := vt.NewScreen(10, 3)
	s := &ScreenStable{MinTicks: 3}
	for tick := uint64(0); tick < 5; tick++ {
		s.Check(&Context{Screen: scr, Tick: tick})
	}
	if v := s.Finalize(&Context{Screen: scr, Tick: 5}); v != nil {
		t.Fatalf("expected the 5-tick-constant screen to satisfy min_ticks=3: %+v", v)
	}
}

func TestViewportValidRejectsBadScrollRegion(t *testing.T) {
	scr := vt.NewScreen(10, 5)
	vv := &ViewportValid{}
	if v := vv.Check(&Context{Screen: scr, Tick: 0}); v != nil {
		t.Fatalf("unexpected violation on a fresh screen: %+v", v)
	}
}

func TestResponseTimeViolatesWhenScreenNeverChanges(t *testing.T) {
	scr := vt.NewScreen(10, 5)
	r := &ResponseTime{MaxTicks: 2}
	r.Check(&Context{Screen: scr, Tick: 0, WroteInputThisTick: true})
	r.Check(&Context{Screen: scr, Tick: 1})
	r.Check(&Context{Screen: scr, Tick: 2})
	v := r.Check(&Context{Screen: scr, Tick: 3})
	if v == nil {
		t.Fatal("expected a response_time violation once the window elapsed unchanged")
	}
}

func TestResponseTimeSatisfiedOnChange(t *testing.T) {
	h := vt.NewTestHarness(10, 5)
	r := &ResponseTime{MaxTicks: 5}
	r.Check(&Context{Screen: h.Screen, Tick: 0, WroteInputThisTick: true})
	h.Feed("x")
	if v := r.Check(&Context{Screen: h.Screen, Tick: 1}); v != nil {
		t.Fatalf("unexpected violation after the screen changed: %+v", v)
	}
}

func TestNoOutputAfterExitFailsOnLateBytes(t *testing.T) {
	n := &NoOutputAfterExit{}
	scr := vt.NewScreen(10, 5)
	proc := ProcessStatus{Exited: true, ExitCode: 0}
	if v := n.Check(&Context{Screen: scr, Tick: 0, Process: proc}); v != nil {
		t.Fatalf("unexpected violation with no bytes: %+v", v)
	}
	if v := n.Check(&Context{Screen: scr, Tick: 1, Process: proc, BytesThisTick: []byte("late")}); v == nil {
		t.Fatal("expected a violation for bytes arriving after exit")
	}
}

func TestProcessTerminatedCleanlyFinalize(t *testing.T) {
	p := &ProcessTerminatedCleanly{AllowedSignals: []string{"SIGTERM"}}
	scr := vt.NewScreen(10, 5)
	if v := p.Finalize(&Context{Screen: scr, Process: ProcessStatus{Exited: true, ExitCode: 0}}); v != nil {
		t.Fatalf("clean exit should pass: %+v", v)
	}
	if v := p.Finalize(&Context{Screen: scr, Process: ProcessStatus{Signaled: true, Signal: "SIGTERM"}}); v != nil {
		t.Fatalf("allowed signal should pass: %+v", v)
	}
	if v := p.Finalize(&Context{Screen: scr, Process: ProcessStatus{Signaled: true, Signal: "SIGKILL"}}); v == nil {
		t.Fatal("expected a violation for a disallowed signal")
	}
	if v := p.Finalize(&Context{Screen: scr, Process: ProcessStatus{Exited: true, ExitCode: 1}}); v == nil {
		t.Fatal("expected a violation for a non-zero exit code")
	}
}

func TestDangerousEscapeFiresOnClipboardAccess(t *testing.T) {
	d := &DangerousEscape{}
	scr := vt.NewScreen(10, 5)
	if v := d.Check(&Context{Screen: scr, Tick: 0, BytesThisTick: []byte("hello")}); v != nil {
		t.Fatalf("unexpected violation on plain output: %+v", v)
	}
	if v := d.Check(&Context{Screen: scr, Tick: 1, BytesThisTick: []byte("\x1b]52;c;aGk=\x07")}); v == nil {
		t.Fatal("expected a violation for an OSC 52 clipboard write")
	}
}

func TestDangerousEscapePassesOrdinaryANSIColor(t *testing.T) {
	d := &DangerousEscape{}
	scr := vt.NewScreen(10, 5)
	if v := d.Check(&Context{Screen: scr, Tick: 0, BytesThisTick: []byte("\x1b[31mred\x1b[0m")}); v != nil {
		t.Fatalf("unexpected violation on a plain SGR sequence: %+v", v)
	}
}

func TestTerminalCompatibilityFinalize(t *testing.T) {
	scr := vt.NewScreen(10, 5)
	ok := &TerminalCompatibility{Term: "xterm-256color", Supported: []string{"xterm", "screen"}}
	if v := ok.Finalize(&Context{Screen: scr}); v != nil {
		t.Fatalf("xterm-256color should satisfy a supported list containing xterm: %+v", v)
	}
	bad := &TerminalCompatibility{Term: "linux", Supported: []string{"xterm", "screen"}}
	if v := bad.Finalize(&Context{Screen: scr}); v == nil {
		t.Fatal("expected a violation for an unsupported terminal type")
	}
	unset := &TerminalCompatibility{Term: "anything"}
	if v := unset.Finalize(&Context{Screen: scr}); v != nil {
		t.Fatalf("an empty supported list should never fail: %+v", v)
	}
}

func TestCustomInvariantCursorConstraint(t *testing.T) {
	row := 0
	c := &Custom{NameField: "prompt_at_origin", Regex: mustRegex(t, "ready"), ShouldContain: true, ExpectedRow: &row}
	h := vt.NewTestHarness(20, 3)
	h.Feed("ready")
	if v := c.Check(&Context{Screen: h.Screen, Tick: 0}); v != nil {
		t.Fatalf("unexpected violation: %+v", v)
	}
	if v := c.Finalize(&Context{Screen: h.Screen, Tick: 1}); v != nil {
		t.Fatalf("unexpected finalize violation: %+v", v)
	}
}
