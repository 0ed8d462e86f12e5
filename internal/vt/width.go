// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/width.go
// Summary: Column-width lookup used for cursor advance and wide-cell
// placeholder placement.

package vt

import "github.com/mattn/go-runewidth"

// cellWidth returns how many columns r occupies: 0 for combining/zero-width
// marks, 1 for normal glyphs, 2 for wide (CJK-class) glyphs.
func cellWidth(r rune) int {
	return runewidth.RuneWidth(r)
}
