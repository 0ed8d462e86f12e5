// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/utf8.go
// Summary: Incremental UTF-8 decoder embedded in the parser's Ground state.
// Usage: Only Parser.feedByte touches this type.
// Notes: Rejects overlong encodings and surrogate-range scalars.

package vt

// utf8Decoder is an incremental UTF-8 decoder reachable from Ground on any
// byte >= 0x80. It never blocks on more input than it has: a malformed
// sequence emits U+FFFD and resumes at the next byte.
type utf8Decoder struct {
	need   int // remaining continuation bytes expected
	have   int // continuation bytes consumed so far
	scalar rune
	min    rune // Unicode's minimum valid scalar for this sequence length, for overlong-encoding rejection
}

const replacementChar = '�'

// start begins a new sequence from a lead byte. It returns (r, true) if the
// lead byte is already a complete (ASCII) result or an immediate error, or
// (0, false) if more continuation bytes are required.
func (d *utf8Decoder) start(b byte) (rune, bool) {
	switch {
	case b < 0x80:
		return rune(b), true
	case b&0xE0 == 0xC0:
		d.scalar = rune(b & 0x1F)
		d.need, d.have, d.min = 1, 0, 0x80
		return 0, false
	case b&0xF0 == 0xE0:
		d.scalar = rune(b & 0x0F)
		d.need, d.have, d.min = 2, 0, 0x800
		return 0, false
	case b&0xF8 == 0xF0:
		d.scalar = rune(b & 0x07)
		d.need, d.have, d.min = 3, 0, 0x10000
		return 0, false
	default:
		// Continuation byte or invalid lead byte with no sequence started.
		return replacementChar, true
	}
}

// cont feeds one continuation byte. ok is false if b isn't a valid
// continuation byte (0x80-0xBF); the caller must then reprocess b itself
// (it was not consumed into this sequence).
func (d *utf8Decoder) cont(b byte) (r rune, done bool, ok bool) {
	if b&0xC0 != 0x80 {
		return replacementChar, true, false
	}
	d.scalar = d.scalar<<6 | rune(b&0x3F)
	d.have++
	if d.have < d.need {
		return 0, false, true
	}
	r, lo := d.scalar, d.min
	d.abort()
	if r < lo || r > 0x10FFFF || (r >= 0xD800 && r <= 0xDFFF) {
		return replacementChar, true, true
	}
	return r, true, true
}

func (d *utf8Decoder) abort() {
	d.need, d.have, d.scalar, d.min = 0, 0, 0, 0
}

func (d *utf8Decoder) active() bool { return d.need > 0 }
