// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termbackend/backend.go
// Summary: Backend is the process-under-test's PTY-backed lifecycle:
// spawn, write keystrokes, read output, resize, signal, and tear down.
// Usage: One Backend per run. The runner drains Output() once per tick and
// feeds the bytes to the vt.Parser; it never reads from the PTY itself.

package termbackend

import (
	"fmt"
	"strings"
)

// Signal is a process signal the runner can deliver to the child, named
// instead of using syscall.Signal directly so the scenario schema doesn't
// leak platform-specific signal numbers.
type Signal int

const (
	SignalInterrupt Signal = iota // SIGINT
	SignalTerminate               // SIGTERM
	SignalKill                    // SIGKILL
	SignalHangup                  // SIGHUP
	SignalQuit                    // SIGQUIT
	SignalUser1                   // SIGUSR1
	SignalUser2                   // SIGUSR2
	SignalStop                    // SIGSTOP
	SignalContinue                // SIGCONT
	SignalWindowChange             // SIGWINCH (normally sent by Resize, not directly)
)

func (s Signal) String() string {
	switch s {
	case SignalInterrupt:
		return "INT"
	case SignalTerminate:
		return "TERM"
	case SignalKill:
		return "KILL"
	case SignalHangup:
		return "HUP"
	case SignalQuit:
		return "QUIT"
	case SignalUser1:
		return "USR1"
	case SignalUser2:
		return "USR2"
	case SignalStop:
		return "STOP"
	case SignalContinue:
		return "CONT"
	case SignalWindowChange:
		return "WINCH"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// ParseSignalName maps a scenario's signal name to a Signal. It accepts
// SIGINT, SIGTERM, SIGKILL, SIGSTOP, SIGCONT and SIGHUP, and also SIGQUIT,
// SIGUSR1 and SIGUSR2; SIGWINCH and any other name is an error. The "SIG"
// prefix is optional.
func ParseSignalName(name string) (Signal, error) {
	switch strings.TrimPrefix(name, "SIG") {
	case "INT":
		return SignalInterrupt, nil
	case "TERM":
		return SignalTerminate, nil
	case "KILL":
		return SignalKill, nil
	case "HUP":
		return SignalHangup, nil
	case "QUIT":
		return SignalQuit, nil
	case "USR1":
		return SignalUser1, nil
	case "USR2":
		return SignalUser2, nil
	case "STOP":
		return SignalStop, nil
	case "CONT":
		return SignalContinue, nil
	default:
		return 0, fmt.Errorf("termbackend: unknown signal name %q", name)
	}
}

// ExitStatus describes how the child process ended.
type ExitStatus struct {
	Code     int
	Signaled bool
	Signal   string
}

// CommandSpec is what to run: either Program+Args or a Shell string, never
// both. EnvOverlay is applied on top of the current process's environment.
type CommandSpec struct {
	Program    string
	Args       []string
	Shell      string
	EnvOverlay map[string]string
	Cols, Rows int
}

// Backend is the PTY-backed process lifecycle a scenario drives.
type Backend interface {
	// Output returns the channel output chunks arrive on. It is closed
	// once the child's PTY reaches EOF.
	Output() <-chan []byte

	// Write sends p to the child's stdin (its controlling terminal).
	Write(p []byte) (int, error)

	// Resize informs the child of a new terminal geometry (SIGWINCH).
	Resize(cols, rows int) error

	// SendSignal delivers sig to the child's process group.
	SendSignal(sig Signal) error

	// Wait blocks until the child exits and returns its status. Safe to
	// call more than once; later calls return the same cached result.
	Wait() (ExitStatus, error)

	// Close tears the backend down: SIGTERM, a grace window, then
	// SIGKILL if the child hasn't exited. Idempotent.
	Close() error
}
