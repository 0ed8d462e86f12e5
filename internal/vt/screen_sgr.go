// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/vt/screen_sgr.go
// Summary: SGR (Select Graphic Rendition) parameter processing — the
// colors and text attributes that become the active pen.

package vt

// applySGR processes a CSI ... m parameter list against s.pen. An empty
// list is equivalent to a single 0 (reset).
func (s *Screen) applySGR(params []Param) {
	if len(params) == 0 {
		s.pen = DefaultPen
		return
	}
	for i := 0; i < len(params); i++ {
		p := params[i].Value
		switch {
		case p == 0:
			s.pen = DefaultPen
		case p == 1:
			s.pen.Attrs |= AttrBold
		case p == 2:
			s.pen.Attrs |= AttrFaint
		case p == 3:
			s.pen.Attrs |= AttrItalic
		case p == 4:
			s.pen.Attrs |= AttrUnderline
		case p == 5:
			s.pen.Attrs |= AttrBlink
		case p == 7:
			s.pen.Attrs |= AttrInverse
		case p == 8:
			s.pen.Attrs |= AttrHidden
		case p == 9:
			s.pen.Attrs |= AttrStrikethrough
		case p == 21 || p == 22:
			s.pen.Attrs &^= AttrBold | AttrFaint
		case p == 23:
			s.pen.Attrs &^= AttrItalic
		case p == 24:
			s.pen.Attrs &^= AttrUnderline
		case p == 25:
			s.pen.Attrs &^= AttrBlink
		case p == 27:
			s.pen.Attrs &^= AttrInverse
		case p == 28:
			s.pen.Attrs &^= AttrHidden
		case p == 29:
			s.pen.Attrs &^= AttrStrikethrough
		case p >= 30 && p <= 37:
			s.pen.FG = Color{Mode: ColorIndexed16, Index: uint8(p - 30)}
		case p == 38:
			s.pen.FG = s.parseExtendedColor(params, &i)
		case p == 39:
			s.pen.FG = DefaultColor
		case p >= 40 && p <= 47:
			s.pen.BG = Color{Mode: ColorIndexed16, Index: uint8(p - 40)}
		case p == 48:
			n := s.parseExtendedColor(params, &i)
			s.pen.BG = n
		case p == 49:
			s.pen.BG = DefaultColor
		case p >= 90 && p <= 97:
			s.pen.FG = Color{Mode: ColorIndexed16, Index: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107:
			s.pen.BG = Color{Mode: ColorIndexed16, Index: uint8(p - 100 + 8)}
		}
	}
}

// parseExtendedColor consumes the 38/48 selector form, advancing *i over
// any following bare parameters it consumes (the semicolon-delimited legacy
// form) and reading colon sub-parameters directly off params[*i] (the
// modern form, e.g. 38:2::R:G:B).
func (s *Screen) parseExtendedColor(params []Param, i *int) Color {
	cur := params[*i]
	if len(cur.Sub) > 0 {
		switch cur.Sub[0] {
		case 5:
			if len(cur.Sub) >= 2 {
				return Color{Mode: ColorIndexed256, Index: uint8(cur.Sub[1])}
			}
		case 2:
			// 38:2::R:G:B or 38:2:R:G:B (colorspace id optional)
			vals := cur.Sub[1:]
			if len(vals) == 4 {
				vals = vals[1:]
			}
			if len(vals) == 3 {
				return Color{Mode: ColorRGB, R: uint8(vals[0]), G: uint8(vals[1]), B: uint8(vals[2])}
			}
		}
		return DefaultColor
	}
	if *i+1 >= len(params) {
		return DefaultColor
	}
	switch params[*i+1].Value {
	case 5:
		if *i+2 < len(params) {
			idx := params[*i+2].Value
			*i += 2
			return Color{Mode: ColorIndexed256, Index: uint8(idx)}
		}
	case 2:
		if *i+4 < len(params) {
			r, g, b := params[*i+2].Value, params[*i+3].Value, params[*i+4].Value
			*i += 4
			return Color{Mode: ColorRGB, R: uint8(r), G: uint8(g), B: uint8(b)}
		}
	}
	*i++
	return DefaultColor
}
