// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/btectl/main.go
// Summary: Command-line front-end for running a scenario file or replaying
// a recorded sparse trace. Wraps package bte end to end: load, run or
// replay, print a verdict, write the trace if asked, exit with the
// engine's own exit code.
// Usage: btectl run -scenario path/to/scenario.yaml [-trace out.trace]
//        btectl replay -trace path/to/sparse.trace

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/syedazeez337/bte"
	"github.com/syedazeez337/bte/internal/runner"
	"github.com/syedazeez337/bte/internal/trace"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: btectl <run|replay> [flags]")
		os.Exit(1)
	}

	var code int
	var err error
	switch os.Args[1] {
	case "run":
		code, err = runCmd(os.Args[2:])
	case "replay":
		code, err = replayCmd(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q (want run or replay)\n", os.Args[1])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "btectl: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

func runCmd(args []string) (int, error) {
	fs := flag.NewFlagSet("btectl run", flag.ContinueOnError)
	scenarioPath := fs.String("scenario", "", "path to the scenario YAML file")
	tracePath := fs.String("trace", "", "path to write the recorded trace (optional)")
	sparse := fs.Bool("sparse", false, "record a sparse trace instead of a full one")
	globalTimeoutMs := fs.Int("timeout-ms", 0, "override the scenario's global timeout")
	verbose := fs.Bool("verbose", false, "print the runner's internal debug log to stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, nil
		}
		return 2, err
	}
	if *scenarioPath == "" {
		return 2, errors.New("-scenario is required")
	}

	sc, err := bte.LoadScenario(*scenarioPath)
	if err != nil {
		return 1, err
	}

	var opts []runner.Option
	if *sparse {
		opts = append(opts, runner.WithTraceFormat(trace.FormatSparse))
	}
	if *globalTimeoutMs > 0 {
		opts = append(opts, runner.WithGlobalTimeoutMs(*globalTimeoutMs))
	}
	if *verbose {
		opts = append(opts, runner.WithVerboseLogging(os.Stderr))
	}

	res, err := bte.Run(context.Background(), sc, opts...)
	if err != nil {
		return 1, err
	}

	fmt.Printf("outcome: %s\n", res.Outcome)
	if res.Violation != nil {
		fmt.Printf("violation: %s: %s\n", res.Violation.Invariant, res.Violation.Detail)
	}
	if res.Err != nil {
		fmt.Printf("error: %v\n", res.Err)
	}

	if *tracePath != "" {
		if err := writeTrace(*tracePath, res); err != nil {
			return res.ExitCode, fmt.Errorf("writing trace: %w", err)
		}
	}

	return res.ExitCode, nil
}

func writeTrace(path string, res *bte.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch {
	case res.FullTrace != nil:
		return trace.EncodeFull(f, res.FullTrace)
	case res.SparseTrace != nil:
		return trace.EncodeSparse(f, res.SparseTrace)
	default:
		return errors.New("run produced no trace")
	}
}

func replayCmd(args []string) (int, error) {
	fs := flag.NewFlagSet("btectl replay", flag.ContinueOnError)
	tracePath := fs.String("trace", "", "path to a recorded sparse trace")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, nil
		}
		return 2, err
	}
	if *tracePath == "" {
		return 2, errors.New("-trace is required")
	}

	f, err := os.Open(*tracePath)
	if err != nil {
		return 1, err
	}
	defer f.Close()

	sparse, err := trace.DecodeSparse(f)
	if err != nil {
		return 1, fmt.Errorf("decoding trace: %w", err)
	}

	res, err := bte.Replay(sparse)
	if err != nil {
		return 1, err
	}

	fmt.Printf("outcome: %s\n", res.Outcome)
	fmt.Printf("checks checked: %d\n", res.ChecksChecked)
	if len(res.Divergences) > 0 {
		fmt.Println("divergences:")
		for _, d := range res.Divergences {
			fmt.Printf("  - tick %d: want hash %x, got %x\n", d.Tick, d.WantHash, d.GotHash)
		}
	}

	return res.ExitCode, nil
}
