// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package grounding

import "time"

// Config configures which deterministic checks run and how long the set
// may take.
type Config struct {
	// Enabled determines if deterministic checks are enabled at all.
	Enabled bool

	// EnableQuoteCheck enables the straight-quote checker.
	EnableQuoteCheck bool

	// EnableSpacingCheck enables the non-breaking-space checker.
	EnableSpacingCheck bool

	// EnableParentheticalCheck enables the parenthetical capitalization
	// checker.
	EnableParentheticalCheck bool

	// Timeout is the maximum time for the whole check set.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults: every checker on.
//
// Outputs:
//
//	Config - The default configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:                  true,
		EnableQuoteCheck:         true,
		EnableSpacingCheck:       true,
		EnableParentheticalCheck: true,
		Timeout:                  2 * time.Second,
	}
}
