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
	"unicode"
	"unicode/utf8"
)

// parentheticalPattern captures the contents of each parenthetical in a
// citation. Only the last one is examined: that is where explanatory
// parentheticals sit, after the court-and-year parenthetical.
var parentheticalPattern = regexp.MustCompile(`\(([^)]+)\)`)

// parentheticalExemptPrefixes lists openings that mark a parenthetical as
// something other than an explanatory clause: subsequent history, cross
// references, and quotation attributions keep their own capitalization.
var parentheticalExemptPrefixes = []string{
	"aff'd",
	"aff’d",
	"rev'd",
	"rev’d",
	"cert. denied",
	"sub nom.",
	"Id.",
	"citing",
	"quoting",
	"alterations in original",
}

// ParentheticalChecker flags explanatory parentheticals that open with an
// uppercase letter. House style lowercases them: "(holding that ...)",
// not "(Holding that ...)".
type ParentheticalChecker struct{}

// NewParentheticalChecker returns the parenthetical capitalization
// checker.
func NewParentheticalChecker() *ParentheticalChecker {
	return &ParentheticalChecker{}
}

// Name implements Checker.
func (c *ParentheticalChecker) Name() string {
	return "parenthetical_case"
}

// Check implements Checker. Confidence is 0.9 rather than 1.0: the check
// cannot always distinguish an explanatory clause from a parenthetical
// that legitimately opens with a proper noun.
func (c *ParentheticalChecker) Check(_ context.Context, in *CheckInput) []Finding {
	matches := parentheticalPattern.FindAllStringSubmatch(in.CitationText, -1)
	if len(matches) == 0 {
		return nil
	}

	inner := matches[len(matches)-1][1]
	body := strings.TrimSpace(inner)
	if body == "" {
		return nil
	}

	// Quoted parentheticals reproduce source text verbatim.
	if strings.HasPrefix(body, `"`) || strings.HasPrefix(body, "“") ||
		strings.HasPrefix(body, "'") || strings.HasPrefix(body, "‘") {
		return nil
	}
	for _, prefix := range parentheticalExemptPrefixes {
		if strings.HasPrefix(body, prefix) {
			return nil
		}
	}

	first, size := utf8.DecodeRuneInString(body)
	if !unicode.IsUpper(first) {
		return nil
	}

	lowered := string(unicode.ToLower(first)) + body[size:]
	return []Finding{{
		ErrorType: ErrorTypeParenthetical,
		Description: fmt.Sprintf(
			"explanatory parenthetical should start lowercase: %q", body),
		RuleSource: "local_style",
		Confidence: 0.9,
		Current:    "(" + inner + ")",
		Correct:    "(" + strings.Replace(inner, body, lowered, 1) + ")",
	}}
}
