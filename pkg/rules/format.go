// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"fmt"
	"strings"
)

// FormatForPrompt renders retrieved matches as the rule block embedded in
// the validation prompt: the priority (house style) section first, the
// secondary (general manual) section after it, each rule as id, title, and
// full unabridged text. Rule text is never truncated here; the evidence
// contract depends on the model having seen the exact prose it quotes.
func FormatForPrompt(matches []Match) string {
	var local, general []Match
	for _, m := range matches {
		if m.Source == SourceLocal {
			local = append(local, m)
		} else {
			general = append(general, m)
		}
	}

	var b strings.Builder
	writeSection(&b, "HOUSE STYLE RULES (controlling; follow these first)", local)
	b.WriteString("\n")
	writeSection(&b, "GENERAL STYLE RULES (persuasive; apply when the house rules are silent)", general)
	return b.String()
}

func writeSection(b *strings.Builder, heading string, matches []Match) {
	fmt.Fprintf(b, "=== %s ===\n", heading)
	if len(matches) == 0 {
		b.WriteString("(no rules retrieved)\n")
		return
	}
	for _, m := range matches {
		fmt.Fprintf(b, "[%s] %s\n", m.RuleID, m.Title)
		if m.Text != "" {
			b.WriteString(m.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
}
