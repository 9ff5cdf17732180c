// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// OutputMode controls how much styling CLI output carries.
type OutputMode string

const (
	// ModeRich enables colors, icons, and boxes for interactive terminals.
	ModeRich OutputMode = "rich"

	// ModePlain keeps the icons and layout but no color, for terminals
	// and users that want output without escape sequences.
	ModePlain OutputMode = "plain"

	// ModeMachine emits stable plain text with KEY: prefixes, suitable
	// for scripts and pipelines.
	ModeMachine OutputMode = "machine"
)

var (
	currentMode = ModeRich
	modeMu      sync.RWMutex
)

// GetMode returns the active output mode.
func GetMode() OutputMode {
	modeMu.RLock()
	defer modeMu.RUnlock()
	return currentMode
}

// SetMode sets the active output mode.
func SetMode(mode OutputMode) {
	modeMu.Lock()
	defer modeMu.Unlock()
	currentMode = mode
}

// ParseOutputMode converts a string flag or env value to an OutputMode.
// Unrecognized values fall back to plain, the safe middle ground.
func ParseOutputMode(s string) OutputMode {
	switch strings.ToLower(s) {
	case "rich", "r", "full":
		return ModeRich
	case "plain", "p", "no-color", "nocolor":
		return ModePlain
	case "machine", "m", "quiet", "q":
		return ModeMachine
	default:
		return ModePlain
	}
}

// InitOutput picks the starting mode: the CITECHECK_OUTPUT environment
// variable wins, a non-terminal stdout forces machine mode, and an
// interactive terminal gets the rich treatment.
func InitOutput() {
	if envMode := os.Getenv("CITECHECK_OUTPUT"); envMode != "" {
		SetMode(ParseOutputMode(envMode))
		return
	}

	if !stdoutIsTerminal() {
		SetMode(ModeMachine)
		return
	}

	SetMode(ModeRich)
}

// stdoutIsTerminal reports whether stdout is attached to a terminal,
// Cygwin ptys included.
func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// StdinIsPiped reports whether stdin carries piped input rather than a
// terminal, which is how the CLI decides to read citations from stdin.
func StdinIsPiped() bool {
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// IsInteractive reports whether prompting the user makes sense.
func IsInteractive() bool {
	return GetMode() != ModeMachine && stdoutIsTerminal()
}
