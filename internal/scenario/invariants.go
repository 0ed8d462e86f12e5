// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/invariants.go
// Summary: InvariantSpec is the closed, tagged-variant type for invariant
// declarations in a scenario. internal/invariant turns each spec into a
// live evaluator; this package only carries the declared parameters.

package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// InvariantSpec is implemented by every invariant variant. Type returns the
// schema's discriminator value, e.g. "cursor_bounds".
type InvariantSpec interface {
	Type() string
}

// InvariantList decodes a YAML sequence of tagged invariants into concrete
// types.
type InvariantList []InvariantSpec

type CursorBoundsInvariant struct{}

func (CursorBoundsInvariant) Type() string { return "cursor_bounds" }

type NoDeadlockInvariant struct {
	TimeoutTicks int `yaml:"timeout_ticks" json:"timeout_ticks"`
}

func (NoDeadlockInvariant) Type() string { return "no_deadlock" }

type ScreenContainsInvariant struct {
	Regex string `yaml:"regex" json:"regex"`
}

func (ScreenContainsInvariant) Type() string { return "screen_contains" }

type ScreenNotContainsInvariant struct {
	Regex string `yaml:"regex" json:"regex"`
}

func (ScreenNotContainsInvariant) Type() string { return "screen_not_contains" }

type ScreenStableInvariant struct {
	MinTicks int `yaml:"min_ticks" json:"min_ticks"`
}

func (ScreenStableInvariant) Type() string { return "screen_stable" }

type ViewportValidInvariant struct{}

func (ViewportValidInvariant) Type() string { return "viewport_valid" }

type ResponseTimeInvariant struct {
	MaxTicks int `yaml:"max_ticks" json:"max_ticks"`
}

func (ResponseTimeInvariant) Type() string { return "response_time" }

type MaxLatencyInvariant struct {
	MaxTicks int `yaml:"max_ticks" json:"max_ticks"`
}

func (MaxLatencyInvariant) Type() string { return "max_latency" }

type SignalHandledInvariant struct {
	Signal string `yaml:"signal" json:"signal"`
}

func (SignalHandledInvariant) Type() string { return "signal_handled" }

type NoOutputAfterExitInvariant struct{}

func (NoOutputAfterExitInvariant) Type() string { return "no_output_after_exit" }

type ProcessTerminatedCleanlyInvariant struct {
	AllowedSignals []string `yaml:"allowed_signals,omitempty" json:"allowed_signals,omitempty"`
}

func (ProcessTerminatedCleanlyInvariant) Type() string { return "process_terminated_cleanly" }

type NoDangerousEscapeInvariant struct{}

func (NoDangerousEscapeInvariant) Type() string { return "no_dangerous_escape" }

type TerminalCompatibilityInvariant struct {
	Term      string   `yaml:"term" json:"term"`
	Supported []string `yaml:"supported,omitempty" json:"supported,omitempty"`
}

func (TerminalCompatibilityInvariant) Type() string { return "terminal_compatibility" }

type CustomInvariant struct {
	Name          string `yaml:"name" json:"name"`
	Pattern       string `yaml:"pattern" json:"pattern"`
	ShouldContain bool   `yaml:"should_contain" json:"should_contain"`
	ExpectedRow   *int   `yaml:"expected_row,omitempty" json:"expected_row,omitempty"`
	ExpectedCol   *int   `yaml:"expected_col,omitempty" json:"expected_col,omitempty"`
}

func (CustomInvariant) Type() string { return "custom" }

// UnmarshalYAML dispatches each sequence element on its "type" field to the
// matching concrete InvariantSpec type.
func (l *InvariantList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("scenario: invariants must be a sequence, got %v", node.Kind)
	}
	out := make(InvariantList, 0, len(node.Content))
	for _, item := range node.Content {
		var tag struct {
			Type string `yaml:"type"`
		}
		if err := item.Decode(&tag); err != nil {
			return err
		}
		spec, err := decodeInvariant(tag.Type, item)
		if err != nil {
			return err
		}
		out = append(out, spec)
	}
	*l = out
	return nil
}

func decodeInvariant(kind string, node *yaml.Node) (InvariantSpec, error) {
	switch kind {
	case "cursor_bounds":
		var s CursorBoundsInvariant
		return s, node.Decode(&s)
	case "no_deadlock":
		var s NoDeadlockInvariant
		return s, node.Decode(&s)
	case "screen_contains":
		var s ScreenContainsInvariant
		return s, node.Decode(&s)
	case "screen_not_contains":
		var s ScreenNotContainsInvariant
		return s, node.Decode(&s)
	case "screen_stable":
		var s ScreenStableInvariant
		return s, node.Decode(&s)
	case "viewport_valid":
		var s ViewportValidInvariant
		return s, node.Decode(&s)
	case "response_time":
		var s ResponseTimeInvariant
		return s, node.Decode(&s)
	case "max_latency":
		var s MaxLatencyInvariant
		return s, node.Decode(&s)
	case "signal_handled":
		var s SignalHandledInvariant
		return s, node.Decode(&s)
	case "no_output_after_exit":
		var s NoOutputAfterExitInvariant
		return s, node.Decode(&s)
	case "process_terminated_cleanly":
		var s ProcessTerminatedCleanlyInvariant
		return s, node.Decode(&s)
	case "custom":
		var s CustomInvariant
		return s, node.Decode(&s)
	case "no_dangerous_escape":
		var s NoDangerousEscapeInvariant
		return s, node.Decode(&s)
	case "terminal_compatibility":
		var s TerminalCompatibilityInvariant
		return s, node.Decode(&s)
	default:
		return nil, fmt.Errorf("scenario: unknown invariant type %q", kind)
	}
}
