// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package cite classifies raw legal-citation text into a source type and
// extracts its structured components.
//
// # Description
//
// Classification applies a fixed-priority list of signature tests, each a
// small set of compiled regex/substring checks tuned to one citation family.
// The first signature whose predicate fires determines the source type; its
// extractor pulls the family's fields. A citation that matches no signature
// degrades to SourceUnknown with best-effort partial extraction rather than
// an error: classification never fails.
//
// # Examples
//
//	st, c := cite.Classify("Alice Corp. v. CLS Bank Int'l, 573 U.S. 208 (2014)")
//	// st == cite.SourceSupremeCourt
//	// c.Party1 == "Alice Corp.", c.Volume == "573", c.Reporter == "U.S."
//
// # Limitations
//
// The signatures are heuristics, not a citation grammar. A citation that
// embeds markers from several families (a case parenthetical construing a
// statute, say) resolves to the first family in priority order, which may
// not be the family a human editor would pick.
//
// # Assumptions
//
// Input is a single citation string, already split out of its footnote by
// the caller. Classify is a pure function and safe for unbounded concurrent
// use.
package cite

import "strings"

// Classify resolves citation text to a source type and its extracted
// components. It never returns an error: unrecognized input yields
// SourceUnknown with whatever partial fields (currently the year) could be
// salvaged.
func Classify(text string) (SourceType, Components) {
	// House style binds pairs like "§ 101" and "Corp. v." with U+00A0.
	// The signatures match on ASCII spacing, so fold those before testing.
	trimmed := strings.TrimSpace(strings.ReplaceAll(text, "\u00a0", " "))
	if trimmed == "" {
		return SourceUnknown, Components{}
	}

	for _, sig := range signatures {
		if sig.match(trimmed) {
			return sig.sourceType, sig.extract(trimmed)
		}
	}

	// Best-effort salvage for unknown families.
	var c Components
	c.Year = lastYear(trimmed)
	if p1, p2 := extractParties(trimmed); p1 != "" || p2 != "" {
		c.Party1, c.Party2 = p1, p2
	}
	return SourceUnknown, c
}
