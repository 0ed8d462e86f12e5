// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/termbackend/backend_unix.go
// Summary: Unix PTY-backed Backend implementation: spawns the child in
// its own session so a single negative-pid signal reaches the whole
// process group, and drains PTY output on a dedicated goroutine.

package termbackend

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// KillGrace is how long Close waits after SIGTERM before escalating to
// SIGKILL.
const KillGrace = 2 * time.Second

type ptyBackend struct {
	cmd  *exec.Cmd
	ptmx *os.File

	output chan []byte

	mu     sync.Mutex
	closed bool
	status ExitStatus
	waitCh chan struct{}
}

// Spawn starts spec's command under a PTY of spec.Cols x spec.Rows.
func Spawn(spec CommandSpec) (Backend, error) {
	cmd, err := buildCommand(spec)
	if err != nil {
		return nil, err
	}

	ws := &pty.Winsize{Rows: uint16(spec.Rows), Cols: uint16(spec.Cols)}
	ptmx, err := pty.StartWithAttrs(cmd, ws, &sysProcAttrSetsid)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}

	b := &ptyBackend{
		cmd:    cmd,
		ptmx:   ptmx,
		output: make(chan []byte, 256),
		waitCh: make(chan struct{}),
	}
	go b.pump()
	go b.reap()
	return b, nil
}

func buildCommand(spec CommandSpec) (*exec.Cmd, error) {
	var cmd *exec.Cmd
	switch {
	case spec.Shell != "":
		cmd = exec.Command("/bin/sh", "-c", spec.Shell)
	case spec.Program != "":
		cmd = exec.Command(spec.Program, spec.Args...)
	default:
		return nil, fmt.Errorf("spawn: command spec has neither program nor shell")
	}
	env := os.Environ()
	env = append(env,
		"TERM=xterm-256color",
		"COLUMNS="+strconv.Itoa(spec.Cols),
		"LINES="+strconv.Itoa(spec.Rows),
	)
	for k, v := range spec.EnvOverlay {
		env = append(env, k+"="+v)
	}
	cmd.Env = env
	return cmd, nil
}

func (b *ptyBackend) pump() {
	buf := make([]byte, 4096)
	for {
		n, err := b.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			b.output <- chunk
		}
		if err != nil {
			close(b.output)
			return
		}
	}
}

func (b *ptyBackend) reap() {
	err := b.cmd.Wait()
	b.mu.Lock()
	b.status = statusFromErr(b.cmd, err)
	b.mu.Unlock()
	close(b.waitCh)
}

func statusFromErr(cmd *exec.Cmd, err error) ExitStatus {
	if cmd.ProcessState == nil {
		return ExitStatus{Code: -1}
	}
	ws, ok := cmd.ProcessState.Sys().(unix.WaitStatus)
	if !ok {
		return ExitStatus{Code: cmd.ProcessState.ExitCode()}
	}
	if ws.Signaled() {
		return ExitStatus{Signaled: true, Signal: ws.Signal().String(), Code: -1}
	}
	return ExitStatus{Code: ws.ExitStatus()}
}

func (b *ptyBackend) Output() <-chan []byte { return b.output }

func (b *ptyBackend) Write(p []byte) (int, error) {
	return b.ptmx.Write(p)
}

func (b *ptyBackend) Resize(cols, rows int) error {
	return pty.Setsize(b.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

func (b *ptyBackend) SendSignal(sig Signal) error {
	pid := b.cmd.Process.Pid
	return unix.Kill(-pid, signalToUnix(sig))
}

func signalToUnix(sig Signal) unix.Signal {
	switch sig {
	case SignalInterrupt:
		return unix.SIGINT
	case SignalTerminate:
		return unix.SIGTERM
	case SignalKill:
		return unix.SIGKILL
	case SignalHangup:
		return unix.SIGHUP
	case SignalQuit:
		return unix.SIGQUIT
	case SignalUser1:
		return unix.SIGUSR1
	case SignalUser2:
		return unix.SIGUSR2
	case SignalStop:
		return unix.SIGSTOP
	case SignalContinue:
		return unix.SIGCONT
	case SignalWindowChange:
		return unix.SIGWINCH
	default:
		return unix.SIGTERM
	}
}

func (b *ptyBackend) Wait() (ExitStatus, error) {
	<-b.waitCh
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status, nil
}

func (b *ptyBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	pid := b.cmd.Process.Pid
	_ = unix.Kill(-pid, unix.SIGTERM)

	select {
	case <-b.waitCh:
	case <-time.After(KillGrace):
		_ = unix.Kill(-pid, unix.SIGKILL)
		<-b.waitCh
	}
	return b.ptmx.Close()
}

// sysProcAttrSetsid puts the child in its own session so SendSignal's
// negative-pid kill reaches every process it spawned, not just the shell,
// and makes the PTY (the child's stdin, fd 0) that session's controlling
// terminal.
var sysProcAttrSetsid = syscall.SysProcAttr{Setsid: true, Setctty: true}
