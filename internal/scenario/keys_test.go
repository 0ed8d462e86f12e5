// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/keys_test.go
// Summary: Key-token expansion tests, including application-cursor-key
// mode selection.

package scenario

import (
	"bytes"
	"testing"
)

func TestExpandKeysLiteralAndTokens(t *testing.T) {
	tests := []struct {
		name          string
		keys          string
		appCursorKeys bool
		want          []byte
	}{
		{"plain literal", "hello", false, []byte("hello")},
		{"enter token", "ls${Enter}", false, []byte("ls\r")},
		{"escape token", "${Escape}[A", false, append([]byte{0x1b}, "[A"...)},
		{"ctrl letter", "${Ctrl_c}", false, []byte{0x03}},
		{"alt letter", "${Alt_x}", false, []byte{0x1b, 'x'}},
		{"normal arrow", "${Up}", false, []byte{0x1b, '[', 'A'}},
		{"app cursor arrow", "${Up}", true, []byte{0x1b, 'O', 'A'}},
		{"mixed literal and token", "go${Tab}build", false, []byte("go\tbuild")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandKeys(tt.keys, tt.appCursorKeys)
			if err != nil {
				t.Fatalf("ExpandKeys(%q): %v", tt.keys, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("ExpandKeys(%q) = %v, want %v", tt.keys, got, tt.want)
			}
		})
	}
}

func TestExpandKeysUnknownTokenErrors(t *testing.T) {
	if _, err := ExpandKeys("${Nonsense}", false); err == nil {
		t.Fatal("expected an error for an unknown key token")
	}
}

func TestExpandKeysUnterminatedTokenErrors(t *testing.T) {
	if _, err := ExpandKeys("abc${Enter", false); err == nil {
		t.Fatal("expected an error for an unterminated key token")
	}
}
