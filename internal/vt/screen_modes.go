// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/screen_modes.go
// Summary: DECSET/DECRST private mode catalog and the small set of ANSI
// (non-private) SM/RM modes this screen tracks.

package vt

// setPrivateMode implements DECSET (CSI ? Pm h) when enable is true and
// DECRST (CSI ? Pm l) when enable is false.
func (s *Screen) setPrivateMode(mode int, enable bool) {
	switch mode {
	case 1: // DECCKM — application cursor keys
		s.appCursorKeys = enable
	case 6: // DECOM — origin mode
		s.originMode = enable
		s.moveCursor(0, 0)
	case 7: // DECAWM — autowrap
		s.autowrap = enable
	case 25: // DECTCEM — cursor visibility
		s.cursor.Visible = enable
	case 69: // DECLRMM — left/right margin mode
		s.leftRightMarginMode = enable
		if !enable {
			s.scrollLeft, s.scrollRight = 0, s.cols-1
		}
	case 1000:
		if enable {
			s.mouseMode = 1000
		} else if s.mouseMode == 1000 {
			s.mouseMode = 0
		}
	case 1002:
		if enable {
			s.mouseMode = 1002
		} else if s.mouseMode == 1002 {
			s.mouseMode = 0
		}
	case 1003:
		if enable {
			s.mouseMode = 1003
		} else if s.mouseMode == 1003 {
			s.mouseMode = 0
		}
	case 1006:
		s.mouseSGR = enable
	case 2004: // bracketed paste
		s.bracketedPaste = enable
	case 47, 1047:
		s.setAltScreen(enable, mode == 1047)
	case 1048:
		if enable {
			s.saveCursor()
		} else {
			s.restoreCursor()
		}
	case 1049:
		if enable {
			s.saveCursor()
			s.setAltScreen(true, true)
		} else {
			s.setAltScreen(false, true)
			s.restoreCursor()
		}
	}
}

// setAnsiMode implements the handful of non-private SM/RM modes this
// screen cares about (CSI Pm h / CSI Pm l with no '?' prefix).
func (s *Screen) setAnsiMode(mode int, enable bool) {
	switch mode {
	case 4: // IRM — insert/replace mode
		s.insertMode = enable
	}
}

// EnableMouseTracking mutates the mouse-tracking flags directly, for
// callers that need the screen model to reflect a tracking mode the child
// process is assumed to have requested out of band.
func (s *Screen) EnableMouseTracking(mode int, sgr bool) {
	s.mouseMode = mode
	s.mouseSGR = sgr
}
