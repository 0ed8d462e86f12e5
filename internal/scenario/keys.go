// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/keys.go
// Summary: Expands ${Token} key names in a send_keys string into the byte
// sequences a real terminal would emit, honoring application-cursor-key
// mode for the arrow cluster.

package scenario

import (
	"fmt"
	"strings"
)

// ExpandKeys turns keys (literal UTF-8 interleaved with ${Token} markers)
// into the raw bytes to write to the backend. appCursorKeys selects the
// SS3-prefixed arrow encoding used when the application has enabled DECSET
// 1.
func ExpandKeys(keys string, appCursorKeys bool) ([]byte, error) {
	var out []byte
	rest := keys
	for {
		start := strings.IndexByte(rest, '$')
		if start < 0 || start+1 >= len(rest) || rest[start+1] != '{' {
			out = append(out, rest...)
			break
		}
		out = append(out, rest[:start]...)
		end := strings.IndexByte(rest[start+2:], '}')
		if end < 0 {
			return nil, fmt.Errorf("scenario: unterminated key token in %q", keys)
		}
		token := rest[start+2 : start+2+end]
		seq, err := keySequence(token, appCursorKeys)
		if err != nil {
			return nil, err
		}
		out = append(out, seq...)
		rest = rest[start+2+end+1:]
	}
	return out, nil
}

func keySequence(token string, appCursorKeys bool) ([]byte, error) {
	if appCursorKeys {
		if seq, ok := appCursorKeySeqs[token]; ok {
			return seq, nil
		}
	}
	if seq, ok := namedKeys[token]; ok {
		return seq, nil
	}
	if strings.HasPrefix(token, "Ctrl_") {
		letter := strings.TrimPrefix(token, "Ctrl_")
		if len(letter) == 1 && letter[0] >= 'a' && letter[0] <= 'z' {
			return []byte{letter[0] - 'a' + 1}, nil
		}
	}
	if strings.HasPrefix(token, "Alt_") {
		letter := strings.TrimPrefix(token, "Alt_")
		if len(letter) == 1 {
			return []byte{0x1b, letter[0]}, nil
		}
	}
	return nil, fmt.Errorf("scenario: unknown key token ${%s}", token)
}

// namedKeys covers tokens whose encoding never depends on application
// cursor key mode.
var namedKeys = map[string][]byte{
	"Enter":     {'\r'},
	"Tab":       {'\t'},
	"Escape":    {0x1b},
	"Backspace": {0x7f},
	"Home":      []byte{0x1b, '[', 'H'},
	"End":       []byte{0x1b, '[', 'F'},
	"Insert":    []byte{0x1b, '[', '2', '~'},
	"Delete":    []byte{0x1b, '[', '3', '~'},
	"PageUp":    []byte{0x1b, '[', '5', '~'},
	"PageDown":  []byte{0x1b, '[', '6', '~'},
	"F1":        []byte{0x1b, 'O', 'P'},
	"F2":        []byte{0x1b, 'O', 'Q'},
	"F3":        []byte{0x1b, 'O', 'R'},
	"F4":        []byte{0x1b, 'O', 'S'},
	"F5":        []byte{0x1b, '[', '1', '5', '~'},
	"F6":        []byte{0x1b, '[', '1', '7', '~'},
	"F7":        []byte{0x1b, '[', '1', '8', '~'},
	"F8":        []byte{0x1b, '[', '1', '9', '~'},
	"F9":        []byte{0x1b, '[', '2', '0', '~'},
	"F10":       []byte{0x1b, '[', '2', '1', '~'},
	"F11":       []byte{0x1b, '[', '2', '3', '~'},
	"F12":       []byte{0x1b, '[', '2', '4', '~'},
	"Up":        []byte{0x1b, '[', 'A'},
	"Down":      []byte{0x1b, '[', 'B'},
	"Right":     []byte{0x1b, '[', 'C'},
	"Left":      []byte{0x1b, '[', 'D'},
}

// appCursorKeySeqs overrides the arrow cluster when application cursor key
// mode (DECSET 1) is active: SS3 (ESC O) instead of CSI.
var appCursorKeySeqs = map[string][]byte{
	"Up":    []byte{0x1b, 'O', 'A'},
	"Down":  []byte{0x1b, 'O', 'B'},
	"Right": []byte{0x1b, 'O', 'C'},
	"Left":  []byte{0x1b, 'O', 'D'},
}
