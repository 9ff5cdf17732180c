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
// Source Types
// =============================================================================

// SourceType identifies the family a citation belongs to.
//
// The set is closed: every citation resolves to exactly one SourceType, and
// each type maps to exactly one ordered retrieval-strategy list (see
// Strategies). Unrecognized citations resolve to SourceUnknown rather than
// an error.
//
// Example:
//
//	st, comp := cite.Classify("35 U.S.C. § 101 (2018)")
//	if st == cite.SourceFederalStatute {
//	    fmt.Println(comp.TitleNumber, comp.Section) // "35" "101"
//	}
type SourceType string

const (
	// SourceSupremeCourt is a U.S. Supreme Court decision, cited to U.S.,
	// S. Ct., or L. Ed. reporters.
	SourceSupremeCourt SourceType = "SUPREME_COURT"

	// SourceFederalAppellate is a federal court of appeals decision
	// (F., F.2d, F.3d, F.4th, F. App'x).
	SourceFederalAppellate SourceType = "FEDERAL_APPELLATE"

	// SourceFederalDistrict is a federal district court decision
	// (F. Supp. and successors, F.R.D.).
	SourceFederalDistrict SourceType = "FEDERAL_DISTRICT"

	// SourceFederalStatute is a United States Code provision.
	SourceFederalStatute SourceType = "FEDERAL_STATUTE"

	// SourceFederalRegulation is a Code of Federal Regulations provision.
	SourceFederalRegulation SourceType = "FEDERAL_REGULATION"

	// SourceStateHighCourt is a state court of last resort decision.
	SourceStateHighCourt SourceType = "STATE_HIGH_COURT"

	// SourceStateAppellate is a state intermediate appellate decision.
	SourceStateAppellate SourceType = "STATE_APPELLATE"

	// SourceLawReviewArticle is a signed article in an academic law journal.
	SourceLawReviewArticle SourceType = "LAW_REVIEW_ARTICLE"

	// SourceBook is a monograph or treatise.
	SourceBook SourceType = "BOOK"

	// SourceCongressionalRecord is floor material cited to the
	// Congressional Record.
	SourceCongressionalRecord SourceType = "CONGRESSIONAL_RECORD"

	// SourceHouseReport is a House committee report (H.R. Rep. No.).
	SourceHouseReport SourceType = "HOUSE_REPORT"

	// SourceSenateReport is a Senate committee report (S. Rep. No.).
	SourceSenateReport SourceType = "SENATE_REPORT"

	// SourceUnknown is the fallback for citations no signature recognizes.
	// Downstream consumers must handle it without special-casing crashes.
	SourceUnknown SourceType = "UNKNOWN"
)

// String returns the wire value of the source type.
func (s SourceType) String() string {
	return string(s)
}

// IsCase reports whether the type is a judicial decision family.
func (s SourceType) IsCase() bool {
	switch s {
	case SourceSupremeCourt, SourceFederalAppellate, SourceFederalDistrict,
		SourceStateHighCourt, SourceStateAppellate:
		return true
	default:
		return false
	}
}
