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
	"strings"
)

// QuoteChecker flags straight quotation marks. Publication style mandates
// curly (typographic) quotes everywhere, including apostrophes, so any
// straight double or single quote in citation text is an error with full
// confidence. The checker reports at most one finding per quote family no
// matter how many occurrences exist; the correction pass fixes the family
// wholesale.
type QuoteChecker struct{}

// NewQuoteChecker returns the quote-style checker.
func NewQuoteChecker() *QuoteChecker {
	return &QuoteChecker{}
}

// Name implements Checker.
func (c *QuoteChecker) Name() string {
	return "curly_quotes"
}

// Check implements Checker.
func (c *QuoteChecker) Check(_ context.Context, in *CheckInput) []Finding {
	var findings []Finding

	if n := strings.Count(in.CitationText, `"`); n > 0 {
		findings = append(findings, Finding{
			ErrorType: ErrorTypeCurlyQuotes,
			Description: fmt.Sprintf(
				"found %d straight double quotation mark(s); style requires curly quotes (“ ”)", n),
			RuleSource: "local_style",
			Confidence: 1.0,
			Current:    `"`,
			Correct:    "“ or ”",
		})
	}

	if n := strings.Count(in.CitationText, "'"); n > 0 {
		findings = append(findings, Finding{
			ErrorType: ErrorTypeCurlyQuotes,
			Description: fmt.Sprintf(
				"found %d straight single quotation mark(s) or apostrophe(s); style requires curly quotes (‘ ’)", n),
			RuleSource: "local_style",
			Confidence: 1.0,
			Current:    "'",
			Correct:    "‘ or ’",
		})
	}

	return findings
}
