// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/invariant/helpers_test.go
// Summary: Small constructors shared across catalog_test.go cases.

package invariant

import (
	"regexp"
	"testing"

	"github.com/syedazeez337/bte/internal/scenario"
)

func mustScreenContains(t *testing.T, pattern string) scenario.InvariantSpec {
	t.Helper()
	return scenario.ScreenContainsInvariant{Regex: pattern}
}

func mustScreenNotContains(t *testing.T, pattern string) scenario.InvariantSpec {
	t.Helper()
	return scenario.ScreenNotContainsInvariant{Regex: pattern}
}

func mustRegex(t *testing.T, pattern string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.Fatalf("regexp.Compile(%q): %v", pattern, err)
	}
	return re
}
