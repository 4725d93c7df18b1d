// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Unified argument parsing for all CLI commands in hande.

package cli

import "strings"

// =============================================================================
// ARG PARSER
// =============================================================================

// ArgParser provides unified argument parsing for CLI commands.
// It handles multiple flag formats consistently:
//   - Long flags: --flag value or --flag=value
//   - Short flags: -f value
//   - Boolean flags: --flag (no value needed)
//   - Positional arguments: arguments without flags
//   - Subcommands: first positional argument
type ArgParser struct {
	subcommand string
	flags      map[string]string
	boolFlags  map[string]bool
	positional []string
}

// NewArgParser creates a new argument parser from raw arguments.
//
// Example:
//
//	args := NewArgParser([]string{"delete", "--id", "abc", "--json"})
//	args.Subcommand()     // "delete"
//	args.Flag("id")       // "abc"
//	args.BoolFlag("json") // true
func NewArgParser(raw []string) *ArgParser {
	parser := &ArgParser{
		flags:      make(map[string]string),
		boolFlags:  make(map[string]bool),
		positional: make([]string, 0),
	}

	i := 0
	for i < len(raw) {
		arg := raw[i]

		if strings.HasPrefix(arg, "-") {
			// --flag=value format
			if strings.Contains(arg, "=") {
				parts := strings.SplitN(arg, "=", 2)
				name := strings.TrimLeft(parts[0], "-")
				value := parts[1]
				if value == "true" || value == "false" {
					parser.boolFlags[name] = value == "true"
				} else {
					parser.flags[name] = value
				}
				i++
				continue
			}

			name := strings.TrimLeft(arg, "-")
			if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-") {
				parser.flags[name] = raw[i+1]
				i += 2
			} else {
				parser.boolFlags[name] = true
				i++
			}
		} else {
			parser.positional = append(parser.positional, arg)
			i++
		}
	}

	if len(parser.positional) > 0 {
		parser.subcommand = parser.positional[0]
	}

	return parser
}

// Subcommand returns the first positional argument, or "" if none.
func (p *ArgParser) Subcommand() string {
	return p.subcommand
}

// Flag returns the value of a string flag, or "" if unset.
func (p *ArgParser) Flag(names ...string) string {
	for _, name := range names {
		if v, ok := p.flags[name]; ok {
			return v
		}
	}
	return ""
}

// BoolFlag returns true if the boolean flag was set.
func (p *ArgParser) BoolFlag(names ...string) bool {
	for _, name := range names {
		if p.boolFlags[name] {
			return true
		}
	}
	return false
}

// Positional returns the positional argument at index, or "" if absent.
func (p *ArgParser) Positional(index int) string {
	if index < 0 || index >= len(p.positional) {
		return ""
	}
	return p.positional[index]
}

// PositionalCount returns the number of positional arguments.
func (p *ArgParser) PositionalCount() int {
	return len(p.positional)
}
