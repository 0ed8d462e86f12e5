// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runner/steps.go
// Summary: One stepController per scenario.Step variant. poll is called
// once per tick from inside the scheduler's dispatch phase; for one-shot
// actions (send_keys, resize, ...) it performs the action on its first
// call and reports done immediately, for wait predicates it reports done
// only once its condition holds.

package runner

import (
	"fmt"
	"regexp"

	"github.com/syedazeez337/bte/internal/fuzzy"
	"github.com/syedazeez337/bte/internal/scenario"
	"github.com/syedazeez337/bte/internal/screenshot"
	"github.com/syedazeez337/bte/internal/saferegex"
	"github.com/syedazeez337/bte/internal/termbackend"
	"github.com/syedazeez337/bte/internal/trace"
)

// stepController drives one step's progress, one tick at a time.
type stepController interface {
	// poll advances the step by one tick and reports whether it has
	// finished, along with any error that should end the run.
	poll(r *Runner) (bool, error)

	// timeoutTicks returns the step's own timeout in ticks, or 0 to fall
	// back to the runner's configured default.
	timeoutTicks(r *Runner) uint64
}

func newStepController(step scenario.Step) (stepController, error) {
	switch s := step.(type) {
	case scenario.SendKeysStep:
		return &sendKeysCtrl{keys: s.Keys}, nil
	case scenario.WaitForStep:
		re, err := saferegex.Compile(s.Regex)
		if err != nil {
			return nil, err
		}
		return &waitForCtrl{re: re, timeout: s.TimeoutTicks}, nil
	case scenario.WaitForFuzzyStep:
		return &waitForFuzzyCtrl{
			text:       s.Text,
			maxDist:    s.MaxDistance,
			minSim:     s.MinSimilarity,
			timeout:    s.TimeoutTicks,
		}, nil
	case scenario.WaitScreenStep:
		re, err := saferegex.Compile(s.Regex)
		if err != nil {
			return nil, err
		}
		return &waitScreenCtrl{re: re, timeout: s.TimeoutTicks}, nil
	case scenario.WaitTicksStep:
		return &waitTicksCtrl{target: s.Ticks}, nil
	case scenario.SendSignalStep:
		return &sendSignalCtrl{name: s.Signal}, nil
	case scenario.ResizeStep:
		return &resizeCtrl{cols: s.Cols, rows: s.Rows}, nil
	case scenario.MouseClickStep:
		return &mouseClickCtrl{s: s}, nil
	case scenario.MouseScrollStep:
		return &mouseScrollCtrl{s: s}, nil
	case scenario.AssertScreenStep:
		re, err := saferegex.Compile(s.Regex)
		if err != nil {
			return nil, err
		}
		return &assertScreenCtrl{re: re, pattern: s.Regex, want: true}, nil
	case scenario.AssertNotScreenStep:
		re, err := saferegex.Compile(s.Regex)
		if err != nil {
			return nil, err
		}
		return &assertScreenCtrl{re: re, pattern: s.Regex, want: false}, nil
	case scenario.AssertCursorStep:
		return &assertCursorCtrl{row: s.Row, col: s.Col}, nil
	case scenario.SnapshotStep:
		return &snapshotCtrl{name: s.Name, full: s.FullCapture}, nil
	case scenario.TakeScreenshotStep:
		return &takeScreenshotCtrl{path: s.Path}, nil
	case scenario.AssertScreenshotStep:
		return &assertScreenshotCtrl{s: s}, nil
	case scenario.CheckInvariantStep:
		return &checkInvariantCtrl{name: s.Name}, nil
	default:
		return nil, fmt.Errorf("runner: unsupported step action %q", step.Action())
	}
}

// oneShot is embedded by controllers that act on their first poll and are
// immediately done; they never time out on their own.
type oneShot struct{}

func (oneShot) timeoutTicks(*Runner) uint64 { return 1 }

type sendKeysCtrl struct {
	oneShot
	keys string
}

func (c *sendKeysCtrl) poll(r *Runner) (bool, error) {
	seq, err := scenario.ExpandKeys(c.keys, r.screen.AppCursorKeys())
	if err != nil {
		return true, err
	}
	return true, r.writeAll(seq)
}

type waitForCtrl struct {
	re      *regexp.Regexp
	timeout int
}

func (c *waitForCtrl) timeoutTicks(*Runner) uint64 { return uint64(c.timeout) }

func (c *waitForCtrl) poll(r *Runner) (bool, error) {
	return c.re.Match(r.stepOutputBuf), nil
}

type waitForFuzzyCtrl struct {
	text    string
	maxDist int
	minSim  float64
	timeout int
}

func (c *waitForFuzzyCtrl) timeoutTicks(*Runner) uint64 { return uint64(c.timeout) }

func (c *waitForFuzzyCtrl) poll(r *Runner) (bool, error) {
	if len(r.stepOutputBuf) == 0 {
		return false, nil
	}
	match, ok := fuzzy.BestWindow(string(r.stepOutputBuf), c.text)
	if !ok {
		return false, nil
	}
	if c.maxDist > 0 && match.Distance <= c.maxDist {
		return true, nil
	}
	if c.minSim > 0 && match.Similarity >= c.minSim {
		return true, nil
	}
	return false, nil
}

type waitScreenCtrl struct {
	re      *regexp.Regexp
	timeout int
}

func (c *waitScreenCtrl) timeoutTicks(*Runner) uint64 { return uint64(c.timeout) }

func (c *waitScreenCtrl) poll(r *Runner) (bool, error) {
	return c.re.MatchString(r.screen.Text()), nil
}

type waitTicksCtrl struct {
	target  int
	elapsed int
}

func (c *waitTicksCtrl) timeoutTicks(*Runner) uint64 {
	if c.target <= 0 {
		return 1
	}
	return uint64(c.target)
}

func (c *waitTicksCtrl) poll(*Runner) (bool, error) {
	if c.target <= 0 {
		return true, nil
	}
	c.elapsed++
	return c.elapsed >= c.target, nil
}

type sendSignalCtrl struct {
	oneShot
	name string
}

func (c *sendSignalCtrl) poll(r *Runner) (bool, error) {
	sig, err := termbackend.ParseSignalName(c.name)
	if err != nil {
		return true, err
	}
	if err := r.backend.SendSignal(sig); err != nil {
		return true, err
	}
	r.signalSentThisTick = c.name
	if r.cfg.TraceFormat == trace.FormatSparse {
		r.events = append(r.events, trace.ScheduleEvent{Kind: trace.EventSignal, Tick: r.clk.Now(), Signal: c.name})
	}
	return true, nil
}

type resizeCtrl struct {
	oneShot
	cols, rows int
}

func (c *resizeCtrl) poll(r *Runner) (bool, error) {
	term := scenario.Terminal{Cols: c.cols, Rows: c.rows}
	if err := term.Validate(); err != nil {
		return true, err
	}
	r.screen.Resize(c.cols, c.rows)
	if r.cfg.TraceFormat == trace.FormatSparse {
		r.events = append(r.events, trace.ScheduleEvent{Kind: trace.EventResize, Tick: r.clk.Now(), Cols: c.cols, Rows: c.rows})
	}
	return true, r.backend.Resize(c.cols, c.rows)
}

type mouseClickCtrl struct {
	oneShot
	s scenario.MouseClickStep
}

func (c *mouseClickCtrl) poll(r *Runner) (bool, error) {
	var out []byte
	if c.s.EnableTracking {
		if mode, sgr := r.screen.MouseTracking(); mode == 0 || !sgr {
			out = append(out, scenario.EnableMouseTrackingSequence()...)
		}
	}
	seq, err := scenario.EncodeMouseClick(c.s.Row, c.s.Col, scenario.MouseButton(c.s.Button))
	if err != nil {
		return true, err
	}
	out = append(out, seq...)
	return true, r.writeAll(out)
}

type mouseScrollCtrl struct {
	oneShot
	s scenario.MouseScrollStep
}

func (c *mouseScrollCtrl) poll(r *Runner) (bool, error) {
	var out []byte
	if c.s.EnableTracking {
		if mode, sgr := r.screen.MouseTracking(); mode == 0 || !sgr {
			out = append(out, scenario.EnableMouseTrackingSequence()...)
		}
	}
	seq, err := scenario.EncodeMouseScroll(c.s.Row, c.s.Col, scenario.ScrollDirection(c.s.Direction))
	if err != nil {
		return true, err
	}
	out = append(out, seq...)
	return true, r.writeAll(out)
}

type assertScreenCtrl struct {
	oneShot
	re      *regexp.Regexp
	pattern string
	want    bool
}

func (c *assertScreenCtrl) poll(r *Runner) (bool, error) {
	matched := c.re.MatchString(r.screen.Text())
	if matched == c.want {
		return true, nil
	}
	if c.want {
		return true, fmt.Errorf("screen does not match %q", c.pattern)
	}
	return true, fmt.Errorf("screen matches %q", c.pattern)
}

type assertCursorCtrl struct {
	oneShot
	row, col int
}

func (c *assertCursorCtrl) poll(r *Runner) (bool, error) {
	cur := r.screen.Cursor()
	if cur.Row != c.row || cur.Col != c.col {
		return true, fmt.Errorf("cursor at (%d,%d), want (%d,%d)", cur.Row, cur.Col, c.row, c.col)
	}
	return true, nil
}

type snapshotCtrl struct {
	oneShot
	name string
	full bool
}

func (c *snapshotCtrl) poll(r *Runner) (bool, error) {
	hash := r.screen.StateHash()
	if r.cfg.TraceFormat == trace.FormatSparse {
		cp := trace.Checkpoint{
			Tick:        r.clk.Now(),
			RNGSeed:     r.scenario.SeedOrDefault(),
			ScreenHash:  hash,
			Description: c.name,
		}
		if c.full {
			cp.ScreenState = []byte(r.screen.Text())
		}
		r.checkpoints = append(r.checkpoints, cp)
	}
	return true, nil
}

type takeScreenshotCtrl struct {
	oneShot
	path string
}

func (c *takeScreenshotCtrl) poll(r *Runner) (bool, error) {
	shot := screenshot.Capture(r.screen)
	return true, screenshot.Save(c.path, shot)
}

type assertScreenshotCtrl struct {
	oneShot
	s scenario.AssertScreenshotStep
}

func (c *assertScreenshotCtrl) poll(r *Runner) (bool, error) {
	baseline, err := screenshot.Load(c.s.Path)
	if err != nil {
		return true, err
	}
	current := screenshot.Capture(r.screen)
	regions := make([]screenshot.Region, len(c.s.IgnoreRegions))
	for i, ig := range c.s.IgnoreRegions {
		regions[i] = screenshot.Region{Row0: ig.Row0, Col0: ig.Col0, Row1: ig.Row1, Col1: ig.Col1}
	}
	diff := screenshot.Compare(baseline, current, screenshot.CompareOptions{
		CompareColors: c.s.CompareColors,
		CompareText:   c.s.CompareText,
		IgnoreRegions: regions,
	})
	if diff > c.s.MaxDifferences {
		return true, fmt.Errorf("screenshot differs in %d cells, want at most %d", diff, c.s.MaxDifferences)
	}
	return true, nil
}

type checkInvariantCtrl struct {
	oneShot
	name string
}

func (c *checkInvariantCtrl) poll(r *Runner) (bool, error) {
	inv, ok := r.invariantByName[c.name]
	if !ok {
		return true, fmt.Errorf("unknown invariant %q", c.name)
	}
	if v := inv.Check(r.context()); v != nil {
		r.pendingViolation = v
	}
	return true, nil
}
