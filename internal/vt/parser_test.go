// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/parser_test.go
// Summary: Parser state-machine tests, including the incremental-feed
// equivalence property.

package vt

import "testing"

type recordingHandler struct {
	prints []rune
	csis   []string
}

func (r *recordingHandler) Print(c rune)  { r.prints = append(r.prints, c) }
func (r *recordingHandler) Execute(byte)  {}
func (r *recordingHandler) CSIDispatch(params []Param, intermediates []byte, final byte, ignoredExcess bool) {
	r.csis = append(r.csis, string(final))
}
func (r *recordingHandler) EscDispatch([]byte, byte)       {}
func (r *recordingHandler) OSCStart()                      {}
func (r *recordingHandler) OSCPut(byte)                    {}
func (r *recordingHandler) OSCEnd()                        {}
func (r *recordingHandler) DCSHook([]Param, []byte, byte)  {}
func (r *recordingHandler) DCSPut(byte)                    {}
func (r *recordingHandler) DCSUnhook()                     {}
func (r *recordingHandler) APCStart()                      {}
func (r *recordingHandler) APCPut(byte)                    {}
func (r *recordingHandler) APCEnd()                        {}

func TestParserPrintsASCII(t *testing.T) {
	h := &recordingHandler{}
	p := NewParser(h)
	p.Parse([]byte("abc"))
	if string(h.prints) != "abc" {
		t.Fatalf("got %q, want %q", string(h.prints), "abc")
	}
}

func TestParserDecodesUTF8(t *testing.T) {
	h := &recordingHandler{}
	p := NewParser(h)
	p.Parse([]byte("héllo 日本語"))
	want := []rune("héllo 日本語")
	if len(h.prints) != len(want) {
		t.Fatalf("got %d runes, want %d", len(h.prints), len(want))
	}
	for i := range want {
		if h.prints[i] != want[i] {
			t.Fatalf("rune %d: got %q, want %q", i, h.prints[i], want[i])
		}
	}
}

func TestParserIncrementalEquivalence(t *testing.T) {
	input := []byte("\x1b[31mhello\x1b[0m world\x1b[2;3Hx\x1b]0;title\x07done")

	whole := &recordingHandler{}
	NewParser(whole).Parse(input)

	byByte := &recordingHandler{}
	p := NewParser(byByte)
	for _, b := range input {
		p.ParseByte(b)
	}

	if string(whole.prints) != string(byByte.prints) {
		t.Fatalf("prints diverge: whole=%q byByte=%q", string(whole.prints), string(byByte.prints))
	}
	if len(whole.csis) != len(byByte.csis) {
		t.Fatalf("csi count diverges: whole=%v byByte=%v", whole.csis, byByte.csis)
	}
}

// FuzzParserIncrementalEquivalence exercises the same property as
// TestParserIncrementalEquivalence above over arbitrary byte strings: a
// parser fed the whole buffer at once and one fed it a byte at a time must
// reach the same print stream and the same number of dispatched CSIs.
func FuzzParserIncrementalEquivalence(f *testing.F) {
	seeds := [][]byte{
		[]byte("hello"),
		[]byte("\x1b[31mred\x1b[0m"),
		[]byte("\x1b[2;3Hx"),
		[]byte("\x1b]0;title\x07done"),
		[]byte("\x1bPq#0;2;0;0;0#1;2;100;100;100\x1b\\"),
		[]byte("héllo 日本語"),
		{0xFF, 0x1b, '['},
		[]byte("\x1b[?1049h\x1b[?1049l"),
		[]byte("\x05\x1b[c\x1b[6n"),
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		whole := &recordingHandler{}
		NewParser(whole).Parse(data)

		byByte := &recordingHandler{}
		p := NewParser(byByte)
		for _, b := range data {
			p.ParseByte(b)
		}

		if string(whole.prints) != string(byByte.prints) {
			t.Fatalf("prints diverge on %q: whole=%q byByte=%q", data, string(whole.prints), string(byByte.prints))
		}
		if len(whole.csis) != len(byByte.csis) {
			t.Fatalf("csi count diverges on %q: whole=%v byByte=%v", data, whole.csis, byByte.csis)
		}
	})
}

func TestParserMalformedUTF8EmitsReplacement(t *testing.T) {
	h := &recordingHandler{}
	p := NewParser(h)
	// 0xFF is never valid in UTF-8.
	p.Parse([]byte{0xFF, 'a'})
	if len(h.prints) != 2 {
		t.Fatalf("got %d prints, want 2", len(h.prints))
	}
	if h.prints[0] != replacementChar {
		t.Fatalf("got %q, want replacement char", h.prints[0])
	}
	if h.prints[1] != 'a' {
		t.Fatalf("got %q, want 'a'", h.prints[1])
	}
}

func TestParserOverlongSequenceRejected(t *testing.T) {
	h := &recordingHandler{}
	p := NewParser(h)
	// 0xC0 0x80 is an overlong encoding of NUL.
	p.Parse([]byte{0xC0, 0x80, 'z'})
	if len(h.prints) != 2 || h.prints[0] != replacementChar || h.prints[1] != 'z' {
		t.Fatalf("got %v, want [replacement, z]", h.prints)
	}
}

func TestParserCANAbortsEscapeSequence(t *testing.T) {
	h := &recordingHandler{}
	p := NewParser(h)
	p.Parse([]byte("\x1b[31\x18m"))
	// CAN aborts the CSI sequence; the trailing "m" is printed as itself.
	if string(h.prints) != "m" {
		t.Fatalf("got %q, want %q", string(h.prints), "m")
	}
	if len(h.csis) != 0 {
		t.Fatalf("expected no CSI dispatch, got %v", h.csis)
	}
}

func TestParserESCDuringCSIAbortsAndRestarts(t *testing.T) {
	h := &recordingHandler{}
	p := NewParser(h)
	p.Parse([]byte("\x1b[31\x1b[0m"))
	if len(h.csis) != 1 || h.csis[0] != "m" {
		t.Fatalf("expected exactly one CSI 'm' dispatch, got %v", h.csis)
	}
}

func TestParserCSIParamOverflowSetsIgnoredExcess(t *testing.T) {
	var gotIgnored bool
	h := &funcHandler{
		csi: func(params []Param, intermediates []byte, final byte, ignoredExcess bool) {
			gotIgnored = ignoredExcess
		},
	}
	p := NewParser(h)
	// 40 parameters, well past maxParams (32).
	seq := "\x1b["
	for i := 0; i < 40; i++ {
		if i > 0 {
			seq += ";"
		}
		seq += "1"
	}
	seq += "m"
	p.Parse([]byte(seq))
	if !gotIgnored {
		t.Fatal("expected ignoredExcess to be true for a too-long parameter list")
	}
}

// funcHandler adapts individual callback funcs into a Handler for tests
// that only care about one event kind.
type funcHandler struct {
	NopHandler
	csi func(params []Param, intermediates []byte, final byte, ignoredExcess bool)
}

func (f *funcHandler) CSIDispatch(params []Param, intermediates []byte, final byte, ignoredExcess bool) {
	if f.csi != nil {
		f.csi(params, intermediates, final, ignoredExcess)
	}
}
