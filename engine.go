// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: engine.go
// Summary: The package's two entrypoints — Run drives a scenario against a
// freshly spawned backend to completion, Replay re-derives a sparse
// trace's screen states without touching a process. Package bte is the
// thin, public wrapper a CLI or test harness imports; everything it does
// is delegated to internal/runner and internal/trace.
// Usage: A front-end loads a scenario (LoadScenario or its own decoding),
// calls Run, and maps the returned Result.ExitCode to a process exit.

package bte

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syedazeez337/bte/internal/runner"
	"github.com/syedazeez337/bte/internal/scenario"
	"github.com/syedazeez337/bte/internal/trace"
)

// Run builds a Runner for sc and drives it to completion. ctx cancellation
// is observed between steps.
func Run(ctx context.Context, sc scenario.Scenario, opts ...runner.Option) (*Result, error) {
	r, err := runner.NewRunner(sc, opts...)
	if err != nil {
		return nil, err
	}
	rr, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	return newResult(rr), nil
}

// Replay re-derives a sparse trace's screen states from its recorded
// PtyRead events and compares them against its checkpoints, without
// spawning anything.
func Replay(t *trace.SparseTrace) (*ReplayResult, error) {
	rr, err := trace.Replay(t)
	if err != nil {
		return nil, err
	}
	return newReplayResult(rr), nil
}

// LoadScenario decodes a scenario file. The scenario schema itself is
// defined by internal/scenario's tagged-variant UnmarshalYAML
// implementations; this is just the filesystem step a CLI front-end would
// otherwise have to repeat.
func LoadScenario(path string) (scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenario.Scenario{}, fmt.Errorf("bte: reading scenario %s: %w", path, err)
	}
	var sc scenario.Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return scenario.Scenario{}, fmt.Errorf("bte: decoding scenario %s: %w", path, err)
	}
	return sc, nil
}
