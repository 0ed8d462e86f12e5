// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/events.go
// Summary: Events the DEC ANSI parser emits to a Handler.
// Usage: Screen implements Handler; nothing else in the engine should.
// Notes: Keeps the parser and the screen model decoupled from each other.

// Package vt implements the VT/ANSI parser and screen model: the DEC ANSI
// parser state machine (see parser.go) and the cell-grid screen it drives
// (see screen*.go). The two halves only talk through the Handler interface
// below so the screen never needs to call back into the parser.
package vt

// Param is a single CSI parameter. Most parameters are a bare integer;
// SGR sub-parameters (38:2::R:G:B) arrive as a colon-delimited sublist and
// are carried in Sub instead.
type Param struct {
	Value int
	Sub   []int
}

// Handler receives the high-level events the parser produces from a raw
// byte stream. Screen implements this interface; nothing else in the
// engine is allowed to.
type Handler interface {
	Print(r rune)
	Execute(b byte)
	CSIDispatch(params []Param, intermediates []byte, final byte, ignoredExcess bool)
	EscDispatch(intermediates []byte, final byte)
	OSCStart()
	OSCPut(b byte)
	OSCEnd()
	DCSHook(params []Param, intermediates []byte, final byte)
	DCSPut(b byte)
	DCSUnhook()
	APCStart()
	APCPut(b byte)
	APCEnd()
}

// NopHandler implements Handler with no-ops; useful for parser-only tests.
type NopHandler struct{}

func (NopHandler) Print(rune)                                    {}
func (NopHandler) Execute(byte)                                  {}
func (NopHandler) CSIDispatch([]Param, []byte, byte, bool)        {}
func (NopHandler) EscDispatch([]byte, byte)                       {}
func (NopHandler) OSCStart()                                     {}
func (NopHandler) OSCPut(byte)                                   {}
func (NopHandler) OSCEnd()                                       {}
func (NopHandler) DCSHook([]Param, []byte, byte)                 {}
func (NopHandler) DCSPut(byte)                                   {}
func (NopHandler) DCSUnhook()                                    {}
func (NopHandler) APCStart()                                     {}
func (NopHandler) APCPut(byte)                                   {}
func (NopHandler) APCEnd()                                       {}
