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
	"fmt"
	"strings"

	"github.com/AleutianAI/CiteCheck/pkg/rules"
)

// EvidenceReport is the outcome of grounding a set of claimed errors
// against the rule text the model was actually shown.
//
// # Description
//
// Success is all-or-nothing. One fabricated quote is enough to distrust
// every claim in the response, so a single issue fails the whole report
// rather than dropping the offending error and keeping the rest.
type EvidenceReport struct {
	Success bool     `json:"success"`
	Issues  []string `json:"issues,omitempty"`
}

// RequireEvidence verifies that every claimed error quotes the retrieved
// rule text it relies on.
//
// # Description
//
// A model reviewing a citation against style rules must show its work:
// each error it reports carries a rule_text_quote, and that quote must
// appear verbatim (case sensitive, byte for byte) inside the text of one
// of the rules it was given. An empty error list is trivially grounded.
//
// # Inputs
//
//   - errors: the error findings claimed by the model.
//   - retrieved: the rules that were in the model's context.
//
// # Outputs
//
//   - EvidenceReport: Success=true with no issues when every claim is
//     grounded; otherwise Success=false with one issue per failure, each
//     naming the index of the offending error.
func RequireEvidence(errors []Finding, retrieved []rules.Match) EvidenceReport {
	if len(errors) == 0 {
		return EvidenceReport{Success: true}
	}

	var issues []string
	for i, e := range errors {
		quote := e.RuleTextQuote
		if strings.TrimSpace(quote) == "" {
			issues = append(issues, fmt.Sprintf(
				"error %d (%s) has no rule_text_quote", i, e.ErrorType))
			continue
		}
		if !quoteInRules(quote, retrieved) {
			issues = append(issues, fmt.Sprintf(
				"error %d (%s) quotes text not present in any retrieved rule: %q",
				i, e.ErrorType, quote))
		}
	}

	return EvidenceReport{
		Success: len(issues) == 0,
		Issues:  issues,
	}
}

// quoteInRules reports whether quote appears verbatim in the text of any
// retrieved rule. No normalization: a quote that differs by case or by a
// smart quote is not the rule text.
func quoteInRules(quote string, retrieved []rules.Match) bool {
	for _, m := range retrieved {
		if strings.Contains(m.Text, quote) {
			return true
		}
	}
	return false
}
