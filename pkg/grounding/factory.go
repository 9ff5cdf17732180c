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

import (
	"context"
	"time"
)

// CheckSet runs a fixed, ordered list of deterministic checkers over a
// citation and aggregates their findings.
//
// Thread Safety: Safe for concurrent use after construction.
type CheckSet struct {
	config   Config
	checkers []Checker
}

// NewCheckSet creates a fully configured CheckSet.
//
// Inputs:
//
//	config - Configuration for the check set. Nil uses defaults.
//
// Outputs:
//
//	*CheckSet - A configured check set ready for use.
//
// Example:
//
//	checks := grounding.NewCheckSet(nil) // use defaults
//	findings := checks.Run(ctx, citationText)
func NewCheckSet(config *Config) *CheckSet {
	if config == nil {
		defaultConfig := DefaultConfig()
		config = &defaultConfig
	}

	var checkers []Checker
	if config.EnableQuoteCheck {
		checkers = append(checkers, NewQuoteChecker())
	}
	if config.EnableSpacingCheck {
		checkers = append(checkers, NewSpacingChecker())
	}
	if config.EnableParentheticalCheck {
		checkers = append(checkers, NewParentheticalChecker())
	}

	return &CheckSet{config: *config, checkers: checkers}
}

// NewCheckSetWithCheckers creates a CheckSet with custom checkers.
//
// Use this when you need to add custom checkers or want fine-grained
// control over checker order.
func NewCheckSetWithCheckers(config Config, checkers ...Checker) *CheckSet {
	return &CheckSet{config: config, checkers: checkers}
}

// Run executes every enabled checker against the citation text in order
// and returns the combined findings. Checkers never error: a citation the
// patterns cannot read simply produces no findings.
//
// Thread Safety: Safe for concurrent use.
func (s *CheckSet) Run(ctx context.Context, citationText string) []Finding {
	if !s.config.Enabled {
		return nil
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	ctx, span := StartCheckSpan(ctx, len(citationText))
	defer span.End()

	input := &CheckInput{CitationText: citationText}

	var findings []Finding
	for _, checker := range s.checkers {
		select {
		case <-ctx.Done():
			return findings
		default:
		}

		start := time.Now()
		found := checker.Check(ctx, input)
		elapsed := time.Since(start)

		RecordCheck(ctx, checker.Name(), len(found), elapsed)
		AddCheckerEvent(span, checker.Name(), len(found), elapsed)

		findings = append(findings, found...)
	}

	return findings
}
