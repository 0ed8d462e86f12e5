// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/saferegex/saferegex.go
// Summary: Compiles user-supplied regex patterns with explicit size and
// complexity limits, rejecting pathological patterns at compile time
// rather than letting them run unbounded at match time. Built on
// regexp/syntax, whose RE2 engine already forbids backtracking; the
// bound enforced here is pattern size, the one axis RE2 leaves open.

package saferegex

import (
	"fmt"
	"regexp"
	"regexp/syntax"
)

// MaxPatternLength bounds the raw source text of a pattern.
const MaxPatternLength = 4096

// MaxProgramSize bounds the compiled instruction count, which keeps
// pathologically nested patterns (deep alternation/repetition) from
// costing an excessive amount of memory even though RE2 guarantees linear
// match time.
const MaxProgramSize = 10000

// Compile parses and compiles pattern, rejecting it if it exceeds the
// configured size or program-complexity bounds.
func Compile(pattern string) (*regexp.Regexp, error) {
	if len(pattern) > MaxPatternLength {
		return nil, fmt.Errorf("saferegex: pattern length %d exceeds limit %d", len(pattern), MaxPatternLength)
	}
	parsed, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, fmt.Errorf("saferegex: %w", err)
	}
	prog, err := syntax.Compile(parsed.Simplify())
	if err != nil {
		return nil, fmt.Errorf("saferegex: %w", err)
	}
	if len(prog.Inst) > MaxProgramSize {
		return nil, fmt.Errorf("saferegex: compiled program size %d exceeds limit %d", len(prog.Inst), MaxProgramSize)
	}
	return regexp.Compile(pattern)
}

// MustCompile is like Compile but panics on error; reserved for
// compile-time-fixed patterns embedded in the engine itself, never for
// scenario-supplied patterns.
func MustCompile(pattern string) *regexp.Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}
