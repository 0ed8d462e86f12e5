// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/screen_altscreen.go
// Summary: Alternate screen buffer switching (DECSET 47/1047/1049).

package vt

// setAltScreen switches between the primary and alternate grid. clearOnSwitch
// mirrors 1047/1049's "clear the alt screen on entry" behavior; plain 47
// does not clear.
func (s *Screen) setAltScreen(enable, clearOnSwitch bool) {
	if enable == s.usingAlt {
		return
	}
	if enable {
		if s.altGrid == nil {
			s.altGrid = newGrid(s.cols, s.rows, s.blankCell())
		}
		s.usingAlt = true
		if clearOnSwitch {
			s.Clear()
		}
	} else {
		s.usingAlt = false
	}
	s.MarkAllDirty()
}
