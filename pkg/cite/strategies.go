// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package cite

// =============================================================================
// Retrieval Strategies
// =============================================================================

// strategyTable maps each source type to its ordered retrieval-source list.
// Ordering encodes the handbook's retrieval hierarchy: free and official
// sources first, then open databases and general web search, then paid
// proprietary databases last. The identifiers are consumed by the external
// document-retrieval subsystem; this package only owns the ordering.
var strategyTable = map[SourceType][]string{
	SourceSupremeCourt: {
		"supreme_court_website", "courtlistener", "google_scholar",
		"westlaw", "lexis",
	},
	SourceFederalAppellate: {
		"courtlistener", "govinfo", "google_scholar",
		"westlaw", "lexis",
	},
	SourceFederalDistrict: {
		"courtlistener", "govinfo", "google_scholar",
		"westlaw", "lexis",
	},
	SourceFederalStatute: {
		"uscode_house_gov", "govinfo", "cornell_lii",
		"westlaw", "lexis",
	},
	SourceFederalRegulation: {
		"ecfr", "govinfo", "cornell_lii",
		"westlaw", "lexis",
	},
	SourceStateHighCourt: {
		"state_court_website", "courtlistener", "google_scholar",
		"westlaw", "lexis",
	},
	SourceStateAppellate: {
		"state_court_website", "courtlistener", "google_scholar",
		"westlaw", "lexis",
	},
	SourceLawReviewArticle: {
		"journal_website", "ssrn", "google_scholar",
		"heinonline", "westlaw",
	},
	SourceBook: {
		"google_books", "worldcat", "archive_org", "heinonline",
	},
	SourceCongressionalRecord: {
		"congress_gov", "govinfo", "heinonline",
	},
	SourceHouseReport: {
		"congress_gov", "govinfo", "proquest_congressional",
	},
	SourceSenateReport: {
		"congress_gov", "govinfo", "proquest_congressional",
	},
	SourceUnknown: {
		"web_search", "google_scholar", "westlaw",
	},
}

// Strategies returns the ordered retrieval-source identifiers for a source
// type. The lookup never fails: a type missing from the table (which only
// happens if a new SourceType is added without a table entry) falls back to
// the SourceUnknown list. Callers must not mutate the returned slice.
func Strategies(t SourceType) []string {
	if s, ok := strategyTable[t]; ok {
		return s
	}
	return strategyTable[SourceUnknown]
}
