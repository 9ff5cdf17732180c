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
	"fmt"
	"regexp"
	"strings"
)

// nbsp is the non-breaking space the style requires inside bound token
// pairs.
const nbsp = "\u00a0"

// spacingPattern is one token-pair family whose members must be separated
// by a non-breaking space. Each regex matches the pair with a plain ASCII
// space; the pair with an existing non-breaking space will not match.
type spacingPattern struct {
	name string
	re   *regexp.Regexp
}

// spacingPatterns is the fixed pattern set. The families come from the
// house style sheet: the bound pairs that must never split across a line
// break in print.
var spacingPatterns = []spacingPattern{
	// Section or paragraph symbol before its number: "§ 101", "¶¶ 14".
	{"symbol and number", regexp.MustCompile(`(§§?|¶¶?)\x20(\d)`)},

	// Enumeration marker before the item it introduces: "(a) text".
	{"list marker and item", regexp.MustCompile(`(\((?:[a-z]|[ivx]{1,4}|\d{1,2})\))\x20([A-Za-z])`)},

	// Clock time before its meridiem: "9:30 A.M.", "11 p.m.".
	{"time and meridiem", regexp.MustCompile(`(\d(?::\d{2})?)\x20([AaPp]\.?[Mm]\.?)`)},

	// Abbreviated month before the day: "Jan. 5".
	{"month and day", regexp.MustCompile(`\b(Jan\.|Feb\.|Mar\.|Apr\.|Aug\.|Sept\.|Oct\.|Nov\.|Dec\.)\x20(\d)`)},

	// Final word of the first party before "v." in a case name.
	{"party and v.", regexp.MustCompile(`([A-Za-z'.])\x20(v\.)\s`)},

	// Labeled identifier before its value: "No. 21-4567", "art. III".
	{"label and value", regexp.MustCompile(`\b(Nos?\.|arts?\.|Arts?\.|amends?\.|Amends?\.|cls?\.|Cls?\.|pts?\.|Pts?\.|chs?\.|Chs?\.|Stat\.)\x20([0-9IVXLC])`)},
}

// SpacingChecker flags plain spaces inside token pairs that the style
// requires to be bound with a non-breaking space.
type SpacingChecker struct{}

// NewSpacingChecker returns the non-breaking-space checker.
func NewSpacingChecker() *SpacingChecker {
	return &SpacingChecker{}
}

// Name implements Checker.
func (c *SpacingChecker) Name() string {
	return "non_breaking_space"
}

// Check implements Checker. Identical findings (same pattern family, same
// offending text) collapse to one: flagging "§ 5" twice tells an editor
// nothing the first finding did not.
func (c *SpacingChecker) Check(_ context.Context, in *CheckInput) []Finding {
	var findings []Finding
	seen := make(map[Finding]struct{})

	for _, p := range spacingPatterns {
		for _, loc := range p.re.FindAllStringIndex(in.CitationText, -1) {
			current := in.CitationText[loc[0]:loc[1]]
			f := Finding{
				ErrorType: ErrorTypeNBSP,
				Description: fmt.Sprintf(
					"%s must be joined by a non-breaking space", p.name),
				RuleSource: "local_style",
				Confidence: 1.0,
				Current:    strings.TrimSpace(current),
				Correct:    strings.TrimSpace(strings.Replace(current, "\x20", nbsp, 1)),
			}
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			findings = append(findings, f)
		}
	}

	return findings
}
