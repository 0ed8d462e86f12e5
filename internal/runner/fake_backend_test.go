// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runner/fake_backend_test.go
// Summary: A hand-written termbackend.Backend for driving the scheduler in
// tests without spawning a real PTY. exit (and, for the signals a real
// process would die from, SendSignal) marks the backend terminated by
// closing waitCh, so Wait unblocks for every caller and Close never hangs
// waiting on a child that was never actually spawned.

package runner

import (
	"sync"

	"github.com/syedazeez337/bte/internal/termbackend"
)

type fakeBackend struct {
	mu sync.Mutex

	out chan []byte

	written []byte
	resizes []fakeResize
	signals []termbackend.Signal

	exited bool
	status termbackend.ExitStatus
	waitCh chan struct{}
	closed bool
}

type fakeResize struct{ cols, rows int }

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		out:    make(chan []byte, 64),
		waitCh: make(chan struct{}),
	}
}

var _ termbackend.Backend = (*fakeBackend)(nil)

func (f *fakeBackend) Output() <-chan []byte { return f.out }

func (f *fakeBackend) Write(p []byte) (int, error) {
	f.mu.Lock()
	f.written = append(f.written, p...)
	f.mu.Unlock()
	return len(p), nil
}

func (f *fakeBackend) Resize(cols, rows int) error {
	f.mu.Lock()
	f.resizes = append(f.resizes, fakeResize{cols, rows})
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) SendSignal(sig termbackend.Signal) error {
	f.mu.Lock()
	f.signals = append(f.signals, sig)
	switch sig {
	case termbackend.SignalInterrupt, termbackend.SignalTerminate, termbackend.SignalKill, termbackend.SignalHangup, termbackend.SignalQuit:
		f.exitLocked(termbackend.ExitStatus{Signaled: true, Signal: sig.String(), Code: -1})
	}
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) Wait() (termbackend.ExitStatus, error) {
	<-f.waitCh
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, nil
}

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	f.exitLocked(termbackend.ExitStatus{Code: 0})
	return nil
}

// exitLocked marks the backend terminated; callers must hold f.mu. Safe to
// call more than once.
func (f *fakeBackend) exitLocked(st termbackend.ExitStatus) {
	if f.exited {
		return
	}
	f.exited = true
	f.status = st
	close(f.out)
	close(f.waitCh)
}

// feed queues a chunk of PTY output for the next drain.
func (f *fakeBackend) feed(b []byte) { f.out <- b }

// exit makes the backend observe st as its final status, as if the child
// had exited on its own.
func (f *fakeBackend) exit(st termbackend.ExitStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exitLocked(st)
}
