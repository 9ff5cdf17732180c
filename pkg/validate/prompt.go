// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validate

import (
	"fmt"
	"strings"

	"github.com/AleutianAI/CiteCheck/pkg/cite"
	"github.com/AleutianAI/CiteCheck/pkg/rules"
)

// reviewSystemPrompt pins the model to the verdict schema and to the
// evidence contract: claims must quote the provided rule text verbatim,
// because everything it returns is checked against that text afterward.
const reviewSystemPrompt = `You are a meticulous legal citation reviewer. You receive one citation, the style rules that apply to it, and optional document context. Review the citation ONLY against the provided rules.

Respond with a single JSON object and nothing else:
{
  "is_correct": true or false,
  "errors": [
    {
      "error_type": "snake_case label for the error",
      "description": "what is wrong",
      "local_rule_id": "id of the house rule relied on, if any",
      "general_rule_id": "id of the general rule relied on, if any",
      "rule_source": "local_style" or "general_style",
      "confidence": 0.0 to 1.0,
      "current": "the offending text as it appears",
      "correct": "the corrected text",
      "rule_text_quote": "EXACT verbatim excerpt from a provided rule"
    }
  ],
  "corrected_version": "the full corrected citation, or null if already correct"
}

Hard requirements:
- Every error MUST include "rule_text_quote" copied character-for-character from one of the provided rules. Claims you cannot quote a rule for do not exist.
- House style rules control. Apply general rules only where the house rules are silent.
- If the citation is correct, return is_correct true, an empty errors array, and corrected_version null.`

// buildUserPrompt assembles the retrieved rules, the citation, its
// classified type, and any document context into the user turn.
func buildUserPrompt(req Request, sourceType cite.SourceType, matches []rules.Match) string {
	var b strings.Builder

	b.WriteString(rules.FormatForPrompt(matches))
	b.WriteString("\n\nCITATION TO REVIEW:\n")
	b.WriteString(req.CitationText)
	b.WriteString("\n\nCLASSIFIED SOURCE TYPE: ")
	b.WriteString(string(sourceType))

	if req.FootnoteNumber > 0 {
		fmt.Fprintf(&b, "\nFOOTNOTE NUMBER: %d", req.FootnoteNumber)
	}
	if req.CitationOrdinal > 0 {
		fmt.Fprintf(&b, "\nCITATION ORDINAL WITHIN FOOTNOTE: %d", req.CitationOrdinal)
	}
	if req.Position != "" {
		fmt.Fprintf(&b, "\nPOSITION IN DOCUMENT: %s", req.Position)
	}

	return b.String()
}
