// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/replay.go
// Summary: Replays a sparse trace against a fresh parser/screen without
// re-spawning the recorded child: PtyRead events are the only source of
// bytes, and each checkpoint's stored hash must match the replay's own
// StateHash at the same tick.

package trace

import (
	"fmt"

	"github.com/syedazeez337/bte/internal/vt"
)

// Divergence describes one checkpoint where replay produced a different
// screen state than the original run recorded.
type Divergence struct {
	Tick       uint64
	WantHash   uint64
	GotHash    uint64
	WantScreen []byte
}

// ReplayResult is the outcome of replaying a sparse trace.
type ReplayResult struct {
	Outcome      Outcome
	Divergences  []Divergence
	FinalHash    uint64
	ChecksChecked int
}

// Replay drives a fresh vt.Parser/vt.Screen with the PtyRead events of t,
// comparing the resulting state hash against each recorded checkpoint. It
// never touches a real process or pty; all input comes from t.Events.
func Replay(t *SparseTrace) (*ReplayResult, error) {
	if t.Version != FormatSparse {
		return nil, fmt.Errorf("trace: replay requires a sparse trace, got version %d", t.Version)
	}
	term := t.Scenario.Terminal.Normalized()
	screen := vt.NewScreen(term.Cols, term.Rows)
	parser := vt.NewParser(screen)

	result := &ReplayResult{Outcome: OutcomeSuccess}
	checkpoints := make(map[uint64]Checkpoint, len(t.Checkpoints))
	for _, cp := range t.Checkpoints {
		checkpoints[cp.Tick] = cp
	}

	var lastTick uint64
	checkTick := func(tick uint64) {
		cp, ok := checkpoints[tick]
		if !ok {
			return
		}
		result.ChecksChecked++
		got := screen.StateHash()
		if got != cp.ScreenHash {
			result.Divergences = append(result.Divergences, Divergence{
				Tick:       tick,
				WantHash:   cp.ScreenHash,
				GotHash:    got,
				WantScreen: cp.ScreenState,
			})
		}
	}

	for _, ev := range t.Events {
		switch ev.Kind {
		case EventPtyRead:
			if len(ev.Bytes) > 0 {
				parser.Parse(ev.Bytes)
			}
		case EventResize:
			screen.Resize(ev.Cols, ev.Rows)
		}
		checkTick(ev.Tick)
		lastTick = ev.Tick
	}
	// Checkpoints at ticks with no associated event (e.g. a trailing
	// snapshot after the last read) still need to be checked against the
	// screen state as it stood after the last processed event.
	for tick := range checkpoints {
		if tick > lastTick {
			checkTick(tick)
		}
	}

	result.FinalHash = screen.StateHash()
	if len(result.Divergences) > 0 {
		result.Outcome = OutcomeReplayDivergence
	}
	return result, nil
}
