// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/trace/codec_test.go

package trace

import (
	"bytes"
	"testing"

	"github.com/syedazeez337/bte/internal/scenario"
)

func fixtureScenario() scenario.Scenario {
	seed := int64(42)
	return scenario.Scenario{
		Name:    "echo_test",
		Command: scenario.Command{Shell: "echo hi"},
		Terminal: scenario.Terminal{Cols: 80, Rows: 24},
		Seed:    &seed,
		Steps: scenario.StepList{
			scenario.SendKeysStep{Keys: "hello${Enter}"},
			scenario.WaitForStep{Regex: "hi", TimeoutTicks: 100},
		},
		Invariants: scenario.InvariantList{
			scenario.CursorBoundsInvariant{},
			scenario.ScreenContainsInvariant{Regex: "hi"},
		},
	}
}

func fixtureFullTrace() *FullTrace {
	return &FullTrace{
		Version:  FormatFull,
		ID:       "01J0000000000000000000TEST",
		Seed:     42,
		Scenario: fixtureScenario(),
		Outcome:  OutcomeSuccess,
		Steps: []StepRecord{
			{
				Index:     0,
				Step:      scenario.SendKeysStep{Keys: "hello${Enter}"},
				StartTick: 0,
				EndTick:   1,
				PreHash:   111,
				PostHash:  222,
				BytesRead: []byte("hello\r\n"),
				InvariantResults: []InvariantResult{
					{Name: "cursor_bounds", Tick: 1},
				},
				Outcome: "passed",
			},
			{
				Index:     1,
				Step:      scenario.WaitForStep{Regex: "hi", TimeoutTicks: 100},
				StartTick: 1,
				EndTick:   5,
				PreHash:   222,
				PostHash:  333,
				Outcome:   "passed",
			},
		},
	}
}

func fixtureSparseTrace() *SparseTrace {
	return &SparseTrace{
		Version:  FormatSparse,
		ID:       "01J0000000000000000000TEST",
		Seed:     42,
		Scenario: fixtureScenario(),
		Outcome:  OutcomeSuccess,
		Checkpoints: []Checkpoint{
			{Tick: 0, RNGSeed: 42, RNGDraws: 0, ScreenHash: 111, Description: "start"},
			{Tick: 5, RNGSeed: 42, RNGDraws: 2, ScreenHash: 333, Description: "after wait_for"},
		},
		Events: []ScheduleEvent{
			{Kind: EventPtyWrite, Tick: 0, Bytes: []byte("hello\r\n")},
			{Kind: EventPtyRead, Tick: 1, Bytes: []byte("hi\r\n")},
			{Kind: EventScheduled, Tick: 5},
		},
	}
}

func TestEncodeDecodeFullTraceRoundTrips(t *testing.T) {
	want := fixtureFullTrace()

	var buf bytes.Buffer
	if err := EncodeFull(&buf, want); err != nil {
		t.Fatalf("EncodeFull: %v", err)
	}

	got, err := DecodeFull(&buf)
	if err != nil {
		t.Fatalf("DecodeFull: %v", err)
	}

	if got.ID != want.ID || got.Seed != want.Seed || got.Outcome != want.Outcome {
		t.Fatalf("metadata mismatch: got %+v, want %+v", got, want)
	}
	if len(got.Steps) != len(want.Steps) {
		t.Fatalf("step count = %d, want %d", len(got.Steps), len(want.Steps))
	}
	for i := range want.Steps {
		if got.Steps[i].Step.Action() != want.Steps[i].Step.Action() {
			t.Errorf("step %d action = %q, want %q", i, got.Steps[i].Step.Action(), want.Steps[i].Step.Action())
		}
		if got.Steps[i].PostHash != want.Steps[i].PostHash {
			t.Errorf("step %d post hash = %d, want %d", i, got.Steps[i].PostHash, want.Steps[i].PostHash)
		}
	}
	if got.Scenario.Name != want.Scenario.Name {
		t.Errorf("scenario name = %q, want %q", got.Scenario.Name, want.Scenario.Name)
	}
	if len(got.Scenario.Steps) != len(want.Scenario.Steps) {
		t.Errorf("scenario step count = %d, want %d", len(got.Scenario.Steps), len(want.Scenario.Steps))
	}
}

func TestEncodeDecodeSparseTraceRoundTrips(t *testing.T) {
	want := fixtureSparseTrace()

	var buf bytes.Buffer
	if err := EncodeSparse(&buf, want); err != nil {
		t.Fatalf("EncodeSparse: %v", err)
	}

	got, err := DecodeSparse(&buf)
	if err != nil {
		t.Fatalf("DecodeSparse: %v", err)
	}

	if len(got.Checkpoints) != len(want.Checkpoints) {
		t.Fatalf("checkpoint count = %d, want %d", len(got.Checkpoints), len(want.Checkpoints))
	}
	for i := range want.Checkpoints {
		if got.Checkpoints[i].ScreenHash != want.Checkpoints[i].ScreenHash {
			t.Errorf("checkpoint %d hash = %d, want %d", i, got.Checkpoints[i].ScreenHash, want.Checkpoints[i].ScreenHash)
		}
	}
	if len(got.Events) != len(want.Events) {
		t.Fatalf("event count = %d, want %d", len(got.Events), len(want.Events))
	}
	for i := range want.Events {
		if got.Events[i].Kind != want.Events[i].Kind {
			t.Errorf("event %d kind = %q, want %q", i, got.Events[i].Kind, want.Events[i].Kind)
		}
		if !bytes.Equal(got.Events[i].Bytes, want.Events[i].Bytes) {
			t.Errorf("event %d bytes = %q, want %q", i, got.Events[i].Bytes, want.Events[i].Bytes)
		}
	}
}

func TestDecodeFullRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("NOTATRAC")
	buf.Write([]byte{1, 0, 0, 0})

	if _, err := DecodeFull(&buf); err == nil {
		t.Fatal("expected error for bad magic, got nil")
	}
}

func TestDecodeFullDetectsCorruption(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeFull(&buf, fixtureFullTrace()); err != nil {
		t.Fatalf("EncodeFull: %v", err)
	}
	raw := buf.Bytes()

	// Flip a byte inside the first frame's payload region, well past the
	// header and frame-header prefix, and confirm the CRC trailer catches
	// it.
	corrupt := append([]byte{}, raw...)
	idx := headerSize + frameHeaderSize + 2
	corrupt[idx] ^= 0xFF

	if _, err := DecodeFull(bytes.NewReader(corrupt)); err == nil {
		t.Fatal("expected crc mismatch error, got nil")
	}
}

func TestPeekVersionDoesNotConsumeReader(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeSparse(&buf, fixtureSparseTrace()); err != nil {
		t.Fatalf("EncodeSparse: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())

	v, err := PeekVersion(r)
	if err != nil {
		t.Fatalf("PeekVersion: %v", err)
	}
	if v != FormatSparse {
		t.Errorf("version = %v, want %v", v, FormatSparse)
	}

	got, err := DecodeSparse(r)
	if err != nil {
		t.Fatalf("DecodeSparse after PeekVersion: %v", err)
	}
	if len(got.Checkpoints) == 0 {
		t.Fatal("expected checkpoints after full decode following peek")
	}
}
