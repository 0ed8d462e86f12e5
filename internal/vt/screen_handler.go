// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/screen_handler.go
// Summary: Screen's implementation of the Handler interface — the single
// entry point the parser drives. Routes CSI finals to the specific
// operation, C0 controls to cursor motion, and OSC/DCS/APC strings to
// their accumulation buffers.

package vt

import (
	"strconv"
	"strings"
)

var _ Handler = (*Screen)(nil)

// Print implements Handler.
func (s *Screen) Print(r rune) {
	s.printRune(r)
}

func (s *Screen) printRune(r rune) {
	w := cellWidth(r)
	if w == 0 {
		return
	}
	_, _, _, right := s.effectiveBounds()
	if s.autowrap && (s.pendingWrap || (w == 2 && s.cursor.Col+1 > right)) {
		s.carriageReturn()
		s.lineFeed()
	}
	if s.insertMode {
		s.insertChars(w)
	}
	g := s.activeGrid()
	row := g[s.cursor.Row]
	row[s.cursor.Col] = Cell{Rune: r, Pen: s.pen}
	if w == 2 && s.cursor.Col+1 < s.cols {
		row[s.cursor.Col+1] = Cell{Rune: WidePlaceholder, Pen: s.pen}
	}
	s.MarkDirty(s.cursor.Row)
	s.lastGraphicChar = r
	s.advanceCursor(w)
}

// Execute implements Handler for C0 control codes.
func (s *Screen) Execute(b byte) {
	switch b {
	case 0x08: // BS
		_, _, left, _ := s.effectiveBounds()
		if s.cursor.Col > left {
			s.cursor.Col--
		}
		s.pendingWrap = false
	case 0x09: // HT — next multiple of 8
		_, _, _, right := s.effectiveBounds()
		next := (s.cursor.Col/8 + 1) * 8
		s.cursor.Col = clamp(next, 0, right)
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		s.lineFeed()
	case 0x0D: // CR
		s.carriageReturn()
	case 0x07: // BEL — no audible/visible effect modeled
	}
}

// EscDispatch implements Handler for ESC sequences not routed through CSI.
func (s *Screen) EscDispatch(intermediates []byte, final byte) {
	if len(intermediates) == 0 {
		switch final {
		case '7':
			s.saveCursor()
		case '8':
			s.restoreCursor()
		case 'D':
			s.lineFeed()
		case 'E':
			s.carriageReturn()
			s.lineFeed()
		case 'M':
			s.reverseLineFeed()
		case 'c':
			s.Reset()
		}
		return
	}
	// Character set designation (ESC ( / ) / * / + <set>) is accepted and
	// ignored: only one character set is modeled.
}

// CSIDispatch implements Handler, routing to the operation the final byte
// and any private-mode prefix select.
func (s *Screen) CSIDispatch(params []Param, intermediates []byte, final byte, ignoredExcess bool) {
	private := len(intermediates) > 0 && intermediates[0] == '?'
	arg := func(i, def int) int {
		if i < len(params) && params[i].Value != 0 {
			return params[i].Value
		}
		return def
	}
	n := func(i int) int { return arg(i, 1) }

	if private {
		switch final {
		case 'h', 'l':
			enable := final == 'h'
			for _, p := range params {
				s.setPrivateMode(p.Value, enable)
			}
		}
		return
	}

	switch final {
	case 'A':
		s.moveCursorRel(-n(0), 0)
	case 'B':
		s.moveCursorRel(n(0), 0)
	case 'C':
		s.moveCursorRel(0, n(0))
	case 'D':
		s.moveCursorRel(0, -n(0))
	case 'E':
		s.carriageReturn()
		s.moveCursorRel(n(0), 0)
	case 'F':
		s.carriageReturn()
		s.moveCursorRel(-n(0), 0)
	case 'G':
		s.moveCursor(s.cursor.Row, s.cursorAbsoluteCol(n(0)))
	case 'd':
		s.moveCursor(s.cursorAbsoluteRow(n(0)), s.cursor.Col)
	case 'H', 'f':
		s.moveCursor(s.cursorAbsoluteRow(n(0)), s.cursorAbsoluteCol(n(1)))
	case 'J':
		s.eraseInDisplay(arg(0, 0))
	case 'K':
		s.eraseInLine(arg(0, 0))
	case '@':
		s.insertChars(n(0))
	case 'P':
		s.deleteChars(n(0))
	case 'L':
		s.insertLines(n(0))
	case 'M':
		s.deleteLines(n(0))
	case 'S':
		s.scrollUp(n(0))
	case 'T':
		s.scrollDown(n(0))
	case 'b':
		s.repeatLastGraphic(n(0))
	case 'm':
		s.applySGR(params)
	case 'r':
		s.setScrollRegion(n(0)-1, arg(1, s.rows)-1)
	case 's':
		if s.leftRightMarginMode {
			s.setMarginRegion(arg(0, 1)-1, arg(1, s.cols)-1)
		} else {
			s.saveCursor()
		}
	case 'u':
		s.restoreCursor()
	case 'h', 'l':
		enable := final == 'h'
		for _, p := range params {
			s.setAnsiMode(p.Value, enable)
		}
	}
}

// OSCStart implements Handler.
func (s *Screen) OSCStart() { s.oscBuf = s.oscBuf[:0] }

// OSCPut implements Handler.
func (s *Screen) OSCPut(b byte) { s.oscBuf = append(s.oscBuf, b) }

// OSCEnd implements Handler, dispatching the accumulated OSC string.
func (s *Screen) OSCEnd() {
	payload := string(s.oscBuf)
	s.oscBuf = s.oscBuf[:0]
	ps, pt, ok := strings.Cut(payload, ";")
	if !ok {
		return
	}
	code, err := strconv.Atoi(ps)
	if err != nil {
		return
	}
	switch code {
	case 0, 1, 2:
		s.title = pt
		if s.onTitleChange != nil {
			s.onTitleChange(pt)
		}
	case 10, 11:
		// Default fg/bg query or set; query ("?") is not answered here since
		// answering requires writing back to the child, which is the
		// terminal backend's responsibility, not the screen model's.
		if pt != "?" {
			if c, ok := parseColorSpec(pt); ok {
				if code == 10 {
					s.defaultFG = c
				} else {
					s.defaultBG = c
				}
			}
		}
	case 133:
		switch pt {
		case "A":
			s.promptActive, s.inputActive, s.commandActive = true, false, false
		case "B":
			s.promptActive, s.inputActive = false, true
		case "C":
			s.inputActive, s.commandActive = false, true
		case "D":
			s.commandActive = false
		}
	}
}

// parseColorSpec parses an XParseColor-style "rgb:RRRR/GGGG/BBBB" spec into
// a truecolor Color, taking the high byte of each 16-bit channel.
func parseColorSpec(spec string) (Color, bool) {
	spec = strings.TrimPrefix(spec, "rgb:")
	parts := strings.Split(spec, "/")
	if len(parts) != 3 {
		return Color{}, false
	}
	var vals [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 32)
		if err != nil {
			return Color{}, false
		}
		shift := uint(len(p)-2) * 4
		if len(p) > 2 {
			v >>= shift
		}
		vals[i] = uint8(v)
	}
	return Color{Mode: ColorRGB, R: vals[0], G: vals[1], B: vals[2]}, true
}

// DCSHook, DCSPut, DCSUnhook implement Handler. DCS payloads (Sixel, tmux
// passthrough, termcap queries) are accumulated but not interpreted.
func (s *Screen) DCSHook(params []Param, intermediates []byte, final byte) {
	s.dcsBuf = s.dcsBuf[:0]
}
func (s *Screen) DCSPut(b byte)  { s.dcsBuf = append(s.dcsBuf, b) }
func (s *Screen) DCSUnhook()     { s.dcsBuf = s.dcsBuf[:0] }

// APCStart, APCPut, APCEnd implement Handler. APC payloads are accumulated
// but not interpreted.
func (s *Screen) APCStart()     { s.apcBuf = s.apcBuf[:0] }
func (s *Screen) APCPut(b byte) { s.apcBuf = append(s.apcBuf, b) }
func (s *Screen) APCEnd()       { s.apcBuf = s.apcBuf[:0] }
