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

import "regexp"

// indexTokenMinLen is the shortest token the inverted index stores.
const indexTokenMinLen = 2

// queryTokenMinLen is the shortest raw-text token the retriever turns into
// a search term. Queries are stricter than the index so two-letter noise
// ("of", "in") never drives scoring, while two-letter rule vocabulary
// ("id", "eg") stays findable through the explicit signal-word list.
const queryTokenMinLen = 3

var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9]+`)

// keywordIndex maps a lowercase token to the flat positions of every record
// whose title or text contains it. Positions are appended in flattening
// order, which keeps retrieval ranking stable for equal scores.
//
// The two corpora get fully independent indexes. Nothing is shared across
// them: priority-ordered retrieval queries each corpus separately and
// applies separate quotas.
type keywordIndex map[string][]int

// buildIndex constructs the inverted index for one corpus's records. It is
// a full rebuild every time; there is no incremental update path.
func buildIndex(records []Record) keywordIndex {
	idx := make(keywordIndex)
	for pos, rec := range records {
		for token := range uniqueTokens(rec.Title+" "+rec.Text, indexTokenMinLen) {
			idx[token] = append(idx[token], pos)
		}
	}
	return idx
}

// uniqueTokens splits text on word boundaries, lowercases, and returns the
// set of tokens at least minLen long. Set semantics: a token repeated in
// one rule still maps that rule's position once.
func uniqueTokens(text string, minLen int) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if len(tok) < minLen {
			continue
		}
		set[toLower(tok)] = struct{}{}
	}
	return set
}

// toLower is an ASCII-only lowercase fast path; rule prose and citation
// text are ASCII in practice, and index/query tokenization must agree.
func toLower(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
