// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/steprecord_json.go
// Summary: JSON round-trip for StepRecord.Step, a scenario.Step interface
// value. Encodes as {action, params} and dispatches back to the concrete
// type on decode, the same way scenario.StepList dispatches for YAML.

package trace

import (
	"encoding/json"
	"fmt"

	"github.com/syedazeez337/bte/internal/scenario"
)

type stepRecordWire struct {
	Index            int               `json:"index"`
	Action           string            `json:"action"`
	Params           json.RawMessage   `json:"params"`
	StartTick        uint64            `json:"start_tick"`
	EndTick          uint64            `json:"end_tick"`
	PreHash          uint64            `json:"pre_hash"`
	PostHash         uint64            `json:"post_hash"`
	BytesRead        []byte            `json:"bytes_read,omitempty"`
	InvariantResults []InvariantResult `json:"invariant_results,omitempty"`
	Outcome          string            `json:"outcome"`
}

// MarshalJSON encodes the step as {action, params} alongside the record's
// other fields.
func (r StepRecord) MarshalJSON() ([]byte, error) {
	params, err := json.Marshal(r.Step)
	if err != nil {
		return nil, fmt.Errorf("trace: marshal step params: %w", err)
	}
	return json.Marshal(stepRecordWire{
		Index:            r.Index,
		Action:           r.Step.Action(),
		Params:           params,
		StartTick:        r.StartTick,
		EndTick:          r.EndTick,
		PreHash:          r.PreHash,
		PostHash:         r.PostHash,
		BytesRead:        r.BytesRead,
		InvariantResults: r.InvariantResults,
		Outcome:          r.Outcome,
	})
}

// UnmarshalJSON dispatches on the wire's action field to rebuild the
// concrete scenario.Step value.
func (r *StepRecord) UnmarshalJSON(data []byte) error {
	var wire stepRecordWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	step, err := scenario.DecodeStepJSON(wire.Action, wire.Params)
	if err != nil {
		return fmt.Errorf("trace: decode step: %w", err)
	}
	r.Index = wire.Index
	r.Step = step
	r.StartTick = wire.StartTick
	r.EndTick = wire.EndTick
	r.PreHash = wire.PreHash
	r.PostHash = wire.PostHash
	r.BytesRead = wire.BytesRead
	r.InvariantResults = wire.InvariantResults
	r.Outcome = wire.Outcome
	return nil
}
