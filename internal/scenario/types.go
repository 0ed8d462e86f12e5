// Copyright © 2026 BTE contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/scenario/types.go
// Summary: In-memory Scenario value the engine consumes: command spec,
// terminal geometry, ordered steps and invariants. Loading a scenario from
// YAML/JSON and validating it against a schema happens upstream of this
// package; this package only defines the shape and decodes it.

package scenario

import "gopkg.in/yaml.v3"

// Scenario is a fully-resolved description of one run. The engine never
// reads a scenario file itself; something upstream loads and validates one
// into this shape.
type Scenario struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Command     Command           `yaml:"command" json:"command"`
	Terminal    Terminal          `yaml:"terminal,omitempty" json:"terminal,omitempty"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Steps       StepList          `yaml:"steps" json:"steps"`
	Invariants  InvariantList     `yaml:"invariants,omitempty" json:"invariants,omitempty"`
	Seed        *int64            `yaml:"seed,omitempty" json:"seed,omitempty"`
	TimeoutMs   int               `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`
	Tags        []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// DefaultSeed is used when a scenario omits Seed.
const DefaultSeed int64 = 42

// SeedOrDefault returns s.Seed if set, else DefaultSeed.
func (s *Scenario) SeedOrDefault() int64 {
	if s.Seed != nil {
		return *s.Seed
	}
	return DefaultSeed
}

// MaxGeometry bounds both dimensions of Terminal, per the scenario schema.
const MaxGeometry = 2000

// Terminal is the initial PTY geometry.
type Terminal struct {
	Cols int `yaml:"cols,omitempty" json:"cols,omitempty"`
	Rows int `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// DefaultTerminal is applied when a scenario omits Terminal entirely.
var DefaultTerminal = Terminal{Cols: 80, Rows: 24}

// Normalized returns t with zero fields replaced by DefaultTerminal's.
func (t Terminal) Normalized() Terminal {
	if t.Cols == 0 {
		t.Cols = DefaultTerminal.Cols
	}
	if t.Rows == 0 {
		t.Rows = DefaultTerminal.Rows
	}
	return t
}

// Validate checks t against the scenario schema's geometry bounds.
func (t Terminal) Validate() error {
	if t.Cols < 1 || t.Cols > MaxGeometry {
		return &ValidationError{Field: "terminal.cols", Detail: "must be between 1 and 2000"}
	}
	if t.Rows < 1 || t.Rows > MaxGeometry {
		return &ValidationError{Field: "terminal.rows", Detail: "must be between 1 and 2000"}
	}
	return nil
}

// Command is the process to launch: either a shell string, or an explicit
// program with arguments. Exactly one form must be populated.
type Command struct {
	Shell   string   `yaml:"shell,omitempty" json:"shell,omitempty"`
	Program string   `yaml:"program,omitempty" json:"program,omitempty"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
}

// UnmarshalYAML accepts the scenario schema's three command forms: a plain
// scalar string (shorthand for Shell), {shell: "..."}, and
// {program: "...", args: [...]}.
func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Shell = node.Value
		return nil
	}
	type expanded struct {
		Shell   string   `yaml:"shell,omitempty"`
		Program string   `yaml:"program,omitempty"`
		Args    []string `yaml:"args,omitempty"`
	}
	var e expanded
	if err := node.Decode(&e); err != nil {
		return err
	}
	c.Shell, c.Program, c.Args = e.Shell, e.Program, e.Args
	return nil
}

// Validate reports a schema error when neither or both command forms are
// populated.
func (c Command) Validate() error {
	hasShell := c.Shell != ""
	hasProgram := c.Program != ""
	if hasShell == hasProgram {
		return &ValidationError{Field: "command", Detail: "exactly one of shell or program must be set"}
	}
	return nil
}

// ValidationError reports a malformed scenario field.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return "scenario: " + e.Field + ": " + e.Detail
}
