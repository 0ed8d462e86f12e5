// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/cell.go
// Summary: Cell, Color, Pen, and Attr — the per-position rendition state
// a Screen grid is built from.
// Usage: Consumed by screen*.go when mutating the grid.

package vt

// ColorMode distinguishes how a Color's payload should be interpreted:
// terminal-default, 16-color indexed, 256-color indexed, or truecolor RGB.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota // terminal default, not a concrete RGB
	ColorIndexed16
	ColorIndexed256
	ColorRGB
)

// Color is a foreground or background color carrying an explicit mode tag.
type Color struct {
	Mode    ColorMode
	Index   uint8 // valid for ColorIndexed16 (0-15) and ColorIndexed256 (0-255)
	R, G, B uint8 // valid for ColorRGB
}

// DefaultColor is the sentinel for "terminal default", never a concrete RGB.
var DefaultColor = Color{Mode: ColorDefault}

// Attr is a bitset of SGR text attributes.
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrHidden
	AttrStrikethrough
)

// Pen is the active graphic-rendition state: the colors and attributes
// applied to newly printed cells.
type Pen struct {
	FG, BG Color
	Attrs  Attr
}

// DefaultPen is "blank, default colors".
var DefaultPen = Pen{FG: DefaultColor, BG: DefaultColor}

// Cell is a single screen position. The zero value is not valid; use
// BlankCell for "blank, default colors".
type Cell struct {
	Rune rune // 0 marks the right half of a wide cell (WidePlaceholder)
	Pen  Pen
}

// WidePlaceholder marks the right half of a double-width cell. It carries
// no glyph of its own; the left half's Rune is the one actually rendered.
const WidePlaceholder rune = 0

// BlankCell is the default cell value: a space, default colors, no
// attributes.
var BlankCell = Cell{Rune: ' ', Pen: DefaultPen}

// IsWideRight reports whether c is the placeholder half of a wide cell.
func (c Cell) IsWideRight() bool { return c.Rune == WidePlaceholder }
