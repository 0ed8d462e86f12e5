// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/steps.go
// Summary: Step is a closed, tagged-variant type: one concrete type per
// scenario action, discriminated on YAML decode by the "action" field.

package scenario

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Step is implemented by every step variant. Action returns the schema's
// discriminator value, e.g. "send_keys".
type Step interface {
	Action() string
}

// StepList decodes a YAML sequence of tagged steps into concrete types.
type StepList []Step

// SendKeysStep writes literal text and/or named key tokens (${Enter},
// ${Ctrl_c}, ...) to the backend.
type SendKeysStep struct {
	Keys string `yaml:"keys" json:"keys"`
}

func (SendKeysStep) Action() string { return "send_keys" }

// WaitForStep blocks until regex matches anything appended to the
// cumulative raw-output buffer since the step began.
type WaitForStep struct {
	Regex      string `yaml:"regex" json:"regex"`
	TimeoutTicks int  `yaml:"timeout_ticks,omitempty" json:"timeout_ticks,omitempty"`
}

func (WaitForStep) Action() string { return "wait_for" }

// WaitForFuzzyStep blocks until some window of stream text is within
// MaxDistance edits of Text, or at least MinSimilarity similar.
type WaitForFuzzyStep struct {
	Text           string  `yaml:"text" json:"text"`
	MaxDistance    int     `yaml:"max_distance,omitempty" json:"max_distance,omitempty"`
	MinSimilarity  float64 `yaml:"min_similarity,omitempty" json:"min_similarity,omitempty"`
	TimeoutTicks   int     `yaml:"timeout_ticks,omitempty" json:"timeout_ticks,omitempty"`
}

func (WaitForFuzzyStep) Action() string { return "wait_for_fuzzy" }

// WaitScreenStep blocks until regex matches the current screen's rendered
// text (rows joined by newline, trailing blanks trimmed).
type WaitScreenStep struct {
	Regex        string `yaml:"regex" json:"regex"`
	TimeoutTicks int    `yaml:"timeout_ticks,omitempty" json:"timeout_ticks,omitempty"`
}

func (WaitScreenStep) Action() string { return "wait_screen" }

// WaitTicksStep advances exactly N ticks, running reads and invariants but
// no step progress.
type WaitTicksStep struct {
	Ticks int `yaml:"ticks" json:"ticks"`
}

func (WaitTicksStep) Action() string { return "wait_ticks" }

// SendSignalStep delivers a named signal to the child's process group.
type SendSignalStep struct {
	Signal string `yaml:"signal" json:"signal"`
}

func (SendSignalStep) Action() string { return "send_signal" }

// ResizeStep changes terminal geometry and informs the backend.
type ResizeStep struct {
	Cols int `yaml:"cols" json:"cols"`
	Rows int `yaml:"rows" json:"rows"`
}

func (ResizeStep) Action() string { return "resize" }

// MouseClickStep synthesizes an SGR-1006 mouse click report, enabling
// tracking first if requested and not already on.
type MouseClickStep struct {
	Row            int    `yaml:"row" json:"row"`
	Col            int    `yaml:"col" json:"col"`
	Button         string `yaml:"button" json:"button"`
	EnableTracking bool   `yaml:"enable_tracking,omitempty" json:"enable_tracking,omitempty"`
}

func (MouseClickStep) Action() string { return "mouse_click" }

// MouseScrollStep synthesizes an SGR-1006 mouse scroll report.
type MouseScrollStep struct {
	Row            int    `yaml:"row" json:"row"`
	Col            int    `yaml:"col" json:"col"`
	Direction      string `yaml:"direction" json:"direction"`
	EnableTracking bool   `yaml:"enable_tracking,omitempty" json:"enable_tracking,omitempty"`
}

func (MouseScrollStep) Action() string { return "mouse_scroll" }

// AssertScreenStep fails the run immediately unless regex matches the
// current screen rendering.
type AssertScreenStep struct {
	Regex string `yaml:"regex" json:"regex"`
}

func (AssertScreenStep) Action() string { return "assert_screen" }

// AssertNotScreenStep fails the run immediately if regex matches the
// current screen rendering.
type AssertNotScreenStep struct {
	Regex string `yaml:"regex" json:"regex"`
}

func (AssertNotScreenStep) Action() string { return "assert_not_screen" }

// AssertCursorStep fails unless the cursor is at exactly (Row, Col).
type AssertCursorStep struct {
	Row int `yaml:"row" json:"row"`
	Col int `yaml:"col" json:"col"`
}

func (AssertCursorStep) Action() string { return "assert_cursor" }

// SnapshotStep records a named checkpoint into the trace. Only a sparse
// trace carries checkpoints; a full trace records the step only as its
// ordinary step record.
type SnapshotStep struct {
	Name           string `yaml:"name" json:"name"`
	FullCapture    bool   `yaml:"full_capture,omitempty" json:"full_capture,omitempty"`
}

func (SnapshotStep) Action() string { return "snapshot" }

// TakeScreenshotStep serializes the current screen to Path via the
// screenshot collaborator.
type TakeScreenshotStep struct {
	Path string `yaml:"path" json:"path"`
}

func (TakeScreenshotStep) Action() string { return "take_screenshot" }

// IgnoreRegion excludes a rectangular cell range from screenshot
// comparison.
type IgnoreRegion struct {
	Row0 int `yaml:"row0" json:"row0"`
	Col0 int `yaml:"col0" json:"col0"`
	Row1 int `yaml:"row1" json:"row1"`
	Col1 int `yaml:"col1" json:"col1"`
}

// AssertScreenshotStep compares the current screen against a baseline
// loaded from Path.
type AssertScreenshotStep struct {
	Path            string         `yaml:"path" json:"path"`
	MaxDifferences  int            `yaml:"max_differences,omitempty" json:"max_differences,omitempty"`
	CompareColors   bool           `yaml:"compare_colors,omitempty" json:"compare_colors,omitempty"`
	CompareText     bool           `yaml:"compare_text,omitempty" json:"compare_text,omitempty"`
	IgnoreRegions   []IgnoreRegion `yaml:"ignore_regions,omitempty" json:"ignore_regions,omitempty"`
}

func (AssertScreenshotStep) Action() string { return "assert_screenshot" }

// CheckInvariantStep forces a one-shot evaluation of the named invariant.
type CheckInvariantStep struct {
	Name string `yaml:"name" json:"name"`
}

func (CheckInvariantStep) Action() string { return "check_invariant" }

// UnmarshalYAML dispatches each sequence element on its "action" field to
// the matching concrete Step type.
func (l *StepList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("scenario: steps must be a sequence, got %v", node.Kind)
	}
	out := make(StepList, 0, len(node.Content))
	for _, item := range node.Content {
		var tag struct {
			Action string `yaml:"action"`
		}
		if err := item.Decode(&tag); err != nil {
			return err
		}
		step, err := decodeStep(tag.Action, item)
		if err != nil {
			return err
		}
		out = append(out, step)
	}
	*l = out
	return nil
}

func decodeStep(action string, node *yaml.Node) (Step, error) {
	switch action {
	case "send_keys":
		var s SendKeysStep
		return s, node.Decode(&s)
	case "wait_for":
		var s WaitForStep
		return s, node.Decode(&s)
	case "wait_for_fuzzy":
		var s WaitForFuzzyStep
		return s, node.Decode(&s)
	case "wait_screen":
		var s WaitScreenStep
		return s, node.Decode(&s)
	case "wait_ticks":
		var s WaitTicksStep
		return s, node.Decode(&s)
	case "send_signal":
		var s SendSignalStep
		return s, node.Decode(&s)
	case "resize":
		var s ResizeStep
		return s, node.Decode(&s)
	case "mouse_click":
		var s MouseClickStep
		return s, node.Decode(&s)
	case "mouse_scroll":
		var s MouseScrollStep
		return s, node.Decode(&s)
	case "assert_screen":
		var s AssertScreenStep
		return s, node.Decode(&s)
	case "assert_not_screen":
		var s AssertNotScreenStep
		return s, node.Decode(&s)
	case "assert_cursor":
		var s AssertCursorStep
		return s, node.Decode(&s)
	case "snapshot":
		var s SnapshotStep
		return s, node.Decode(&s)
	case "take_screenshot":
		var s TakeScreenshotStep
		return s, node.Decode(&s)
	case "assert_screenshot":
		var s AssertScreenshotStep
		return s, node.Decode(&s)
	case "check_invariant":
		var s CheckInvariantStep
		return s, node.Decode(&s)
	default:
		return nil, fmt.Errorf("scenario: unknown step action %q", action)
	}
}

// DecodeStepJSON decodes data into the concrete Step type matching action.
// Used by trace replay, which round-trips steps through JSON rather than
// YAML.
func DecodeStepJSON(action string, data []byte) (Step, error) {
	switch action {
	case "send_keys":
		var s SendKeysStep
		return s, json.Unmarshal(data, &s)
	case "wait_for":
		var s WaitForStep
		return s, json.Unmarshal(data, &s)
	case "wait_for_fuzzy":
		var s WaitForFuzzyStep
		return s, json.Unmarshal(data, &s)
	case "wait_screen":
		var s WaitScreenStep
		return s, json.Unmarshal(data, &s)
	case "wait_ticks":
		var s WaitTicksStep
		return s, json.Unmarshal(data, &s)
	case "send_signal":
		var s SendSignalStep
		return s, json.Unmarshal(data, &s)
	case "resize":
		var s ResizeStep
		return s, json.Unmarshal(data, &s)
	case "mouse_click":
		var s MouseClickStep
		return s, json.Unmarshal(data, &s)
	case "mouse_scroll":
		var s MouseScrollStep
		return s, json.Unmarshal(data, &s)
	case "assert_screen":
		var s AssertScreenStep
		return s, json.Unmarshal(data, &s)
	case "assert_not_screen":
		var s AssertNotScreenStep
		return s, json.Unmarshal(data, &s)
	case "assert_cursor":
		var s AssertCursorStep
		return s, json.Unmarshal(data, &s)
	case "snapshot":
		var s SnapshotStep
		return s, json.Unmarshal(data, &s)
	case "take_screenshot":
		var s TakeScreenshotStep
		return s, json.Unmarshal(data, &s)
	case "assert_screenshot":
		var s AssertScreenshotStep
		return s, json.Unmarshal(data, &s)
	case "check_invariant":
		var s CheckInvariantStep
		return s, json.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("scenario: unknown step action %q", action)
	}
}
