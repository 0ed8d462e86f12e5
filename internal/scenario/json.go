// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/json.go
// Summary: JSON round-trip for the tagged-variant collections (StepList,
// InvariantList). Command has no JSON shorthand handling. Scenario loading
// itself stays out of scope; this exists so a Scenario value embedded in
// a trace file round-trips through encoding/json.

package scenario

import (
	"encoding/json"
	"fmt"
)

type taggedEnvelope struct {
	Tag    string          `json:"tag"`
	Params json.RawMessage `json:"params"`
}

// MarshalJSON encodes each step as {tag: action, params: <fields>}.
func (l StepList) MarshalJSON() ([]byte, error) {
	envelopes := make([]taggedEnvelope, len(l))
	for i, step := range l {
		params, err := json.Marshal(step)
		if err != nil {
			return nil, fmt.Errorf("scenario: marshal step %d: %w", i, err)
		}
		envelopes[i] = taggedEnvelope{Tag: step.Action(), Params: params}
	}
	return json.Marshal(envelopes)
}

// UnmarshalJSON dispatches each envelope's tag to the matching concrete
// Step type.
func (l *StepList) UnmarshalJSON(data []byte) error {
	var envelopes []taggedEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return err
	}
	out := make(StepList, 0, len(envelopes))
	for _, e := range envelopes {
		step, err := DecodeStepJSON(e.Tag, e.Params)
		if err != nil {
			return err
		}
		out = append(out, step)
	}
	*l = out
	return nil
}

// MarshalJSON encodes each invariant as {tag: type, params: <fields>}.
func (l InvariantList) MarshalJSON() ([]byte, error) {
	envelopes := make([]taggedEnvelope, len(l))
	for i, spec := range l {
		params, err := json.Marshal(spec)
		if err != nil {
			return nil, fmt.Errorf("scenario: marshal invariant %d: %w", i, err)
		}
		envelopes[i] = taggedEnvelope{Tag: spec.Type(), Params: params}
	}
	return json.Marshal(envelopes)
}

// UnmarshalJSON dispatches each envelope's tag to the matching concrete
// InvariantSpec type.
func (l *InvariantList) UnmarshalJSON(data []byte) error {
	var envelopes []taggedEnvelope
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return err
	}
	out := make(InvariantList, 0, len(envelopes))
	for _, e := range envelopes {
		spec, err := decodeInvariantJSON(e.Tag, e.Params)
		if err != nil {
			return err
		}
		out = append(out, spec)
	}
	*l = out
	return nil
}

func decodeInvariantJSON(kind string, data []byte) (InvariantSpec, error) {
	switch kind {
	case "cursor_bounds":
		var s CursorBoundsInvariant
		return s, json.Unmarshal(data, &s)
	case "no_deadlock":
		var s NoDeadlockInvariant
		return s, json.Unmarshal(data, &s)
	case "screen_contains":
		var s ScreenContainsInvariant
		return s, json.Unmarshal(data, &s)
	case "screen_not_contains":
		var s ScreenNotContainsInvariant
		return s, json.Unmarshal(data, &s)
	case "screen_stable":
		var s ScreenStableInvariant
		return s, json.Unmarshal(data, &s)
	case "viewport_valid":
		var s ViewportValidInvariant
		return s, json.Unmarshal(data, &s)
	case "response_time":
		var s ResponseTimeInvariant
		return s, json.Unmarshal(data, &s)
	case "max_latency":
		var s MaxLatencyInvariant
		return s, json.Unmarshal(data, &s)
	case "signal_handled":
		var s SignalHandledInvariant
		return s, json.Unmarshal(data, &s)
	case "no_output_after_exit":
		var s NoOutputAfterExitInvariant
		return s, json.Unmarshal(data, &s)
	case "process_terminated_cleanly":
		var s ProcessTerminatedCleanlyInvariant
		return s, json.Unmarshal(data, &s)
	case "custom":
		var s CustomInvariant
		return s, json.Unmarshal(data, &s)
	case "no_dangerous_escape":
		var s NoDangerousEscapeInvariant
		return s, json.Unmarshal(data, &s)
	case "terminal_compatibility":
		var s TerminalCompatibilityInvariant
		return s, json.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("scenario: unknown invariant type %q", kind)
	}
}
