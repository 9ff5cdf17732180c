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
	"regexp"
	"sort"
	"strings"
)

// =============================================================================
// Retrieval Types
// =============================================================================

// MatchTypeKeyword is the only match type the current retriever produces.
// The field exists so future retrieval modes can coexist in one result set.
const MatchTypeKeyword = "keyword"

// Match is one scored retrieval result. Produced fresh per call, never
// persisted.
type Match struct {
	RuleID    string  `json:"rule_id"`
	Source    string  `json:"source"`
	Title     string  `json:"title"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	MatchType string  `json:"match_type"`
}

// Coverage reports what the retriever scanned, matched, and returned per
// corpus, plus the search terms it derived from the citation. It exists so
// an auditor can answer why a rule did or did not surface; it is always
// populated, even for zero-match queries.
type Coverage struct {
	LocalScanned    int      `json:"local_scanned"`
	LocalMatched    int      `json:"local_matched"`
	LocalReturned   int      `json:"local_returned"`
	GeneralScanned  int      `json:"general_scanned"`
	GeneralMatched  int      `json:"general_matched"`
	GeneralReturned int      `json:"general_returned"`
	SearchTerms     []string `json:"search_terms"`
}

// =============================================================================
// Term Extraction
// =============================================================================

// signalWords are Bluebook-style citation signals. Longer phrases precede
// their prefixes so "see also" is recognized as itself and not just "see".
var signalWords = []string{
	"see also", "but see", "see", "cf.", "compare", "e.g.", "accord",
	"supra", "infra", "id.",
}

// Structural cue patterns. Each one that fires contributes fixed tag terms
// that the rule corpora use as vocabulary ("docket", "pincite", ...), which
// lets a citation's shape pull in rules about that shape even when the
// citation shares no literal words with the rule prose.
var (
	docketCuePattern   = regexp.MustCompile(`\bNos?\.\s?\d+[-–]\d+`)
	reporterCuePattern = regexp.MustCompile(`\b\d{1,4}\s+[A-Z][A-Za-z.']{0,30}\.?\s+\d{1,5}\b`)
	pinciteCuePattern  = regexp.MustCompile(`\bat\s+\d{1,5}\b`)
)

// structuralCues maps each cue test to the tag terms it contributes.
var structuralCues = []struct {
	present func(text string) bool
	terms   []string
}{
	{func(t string) bool { return docketCuePattern.MatchString(t) }, []string{"docket", "number"}},
	{func(t string) bool { return reporterCuePattern.MatchString(t) }, []string{"court", "abbreviation", "reporter"}},
	{func(t string) bool { return strings.Contains(t, "(") }, []string{"parenthetical", "explanatory"}},
	{func(t string) bool { return pinciteCuePattern.MatchString(t) }, []string{"page", "pincite"}},
	{func(t string) bool { return strings.Contains(t, " v. ") }, []string{"case", "name"}},
}

// extractTerms derives the deduplicated search-term set for a citation:
// any signal words present, the tag terms of any structural cues that fire,
// and every alphanumeric token of length >= 3. The result is sorted so
// coverage output and prompt text are reproducible run to run.
func extractTerms(text string) []string {
	set := make(map[string]struct{})
	lower := strings.ToLower(text)

	for _, sig := range signalWords {
		if strings.Contains(lower, sig) {
			set[sig] = struct{}{}
		}
	}

	for _, cue := range structuralCues {
		if cue.present(text) {
			for _, term := range cue.terms {
				set[term] = struct{}{}
			}
		}
	}

	for tok := range uniqueTokens(text, queryTokenMinLen) {
		set[tok] = struct{}{}
	}

	terms := make([]string, 0, len(set))
	for t := range set {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// =============================================================================
// Retriever
// =============================================================================

// Retriever ranks rules against citation text by keyword overlap. It holds
// only a reference to an immutable Corpus and is safe for unlimited
// concurrent use.
type Retriever struct {
	corpus *Corpus
}

// NewRetriever wraps an already-built corpus. The corpus must not be nil;
// degraded (no-corpus) operation is the Store's concern, not the
// Retriever's.
func NewRetriever(c *Corpus) *Retriever {
	if c == nil {
		panic("rules: NewRetriever called with nil corpus")
	}
	return &Retriever{corpus: c}
}

// Retrieve returns up to maxLocal house-style matches followed by up to
// maxGeneral general-manual matches for the citation text.
//
// The local corpus is always listed first regardless of relative scores.
// That is a business rule, not a scoring artifact: the house style guide
// controls whenever both corpora speak to a citation, even when a general
// rule scores higher.
//
// Scoring is +1.0 per search term that indexes to a rule; ranking is score
// descending with ties left in flattening order. Flattening order is stable
// but carries no meaning, so equal-score ordering is an accepted source of
// arbitrariness rather than a deliberate secondary key.
//
// Zero matches is not an error: the Match slice is empty and Coverage
// reports zero matched/returned with the terms that were tried.
func (r *Retriever) Retrieve(text string, maxLocal, maxGeneral int) ([]Match, Coverage) {
	terms := extractTerms(text)

	local, localMatched := scoreCorpus(terms, r.corpus.localIndex, r.corpus.Local, maxLocal)
	general, generalMatched := scoreCorpus(terms, r.corpus.generalIndex, r.corpus.General, maxGeneral)

	cov := Coverage{
		LocalScanned:    len(r.corpus.Local),
		LocalMatched:    localMatched,
		LocalReturned:   len(local),
		GeneralScanned:  len(r.corpus.General),
		GeneralMatched:  generalMatched,
		GeneralReturned: len(general),
		SearchTerms:     terms,
	}

	combined := make([]Match, 0, len(local)+len(general))
	combined = append(combined, local...)
	combined = append(combined, general...)
	return combined, cov
}

// scoreCorpus ranks one corpus's records against the term set and applies
// the quota. matched counts every record with a nonzero score, before the
// quota cut.
func scoreCorpus(terms []string, idx keywordIndex, records []Record, quota int) ([]Match, int) {
	scores := make(map[int]float64)
	for _, term := range terms {
		for _, pos := range idx[term] {
			scores[pos] += 1.0
		}
	}

	matched := len(scores)
	if matched == 0 || quota <= 0 {
		return nil, matched
	}

	// Ascending position first, then a stable sort by score, keeps ties in
	// flattening order.
	positions := make([]int, 0, matched)
	for pos := range scores {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	sort.SliceStable(positions, func(i, j int) bool {
		return scores[positions[i]] > scores[positions[j]]
	})

	if len(positions) > quota {
		positions = positions[:quota]
	}

	out := make([]Match, 0, len(positions))
	for _, pos := range positions {
		rec := records[pos]
		out = append(out, Match{
			RuleID:    rec.RuleID,
			Source:    rec.Source,
			Title:     rec.Title,
			Text:      rec.Text,
			Score:     scores[pos],
			MatchType: MatchTypeKeyword,
		})
	}
	return out, matched
}
