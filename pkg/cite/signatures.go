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

import (
	"regexp"
	"strings"
)

// =============================================================================
// Citation Patterns
// =============================================================================

// Patterns are compiled once at package load. All of them are heuristics
// tuned to the citation families the engine recognizes; none of them is a
// grammar. RE2 has no lookahead, so families whose markers are prefixes of
// one another (U.S. inside U.S.C.) are disambiguated by signature order,
// not by the regexes themselves.
var (
	yearPattern = regexp.MustCompile(`\b(1[6-9]\d{2}|20\d{2})\b`)

	// finalParenPattern captures the contents of a parenthetical that ends
	// with a year, e.g. "(9th Cir. 2021)" or "(2014)". Callers take the
	// last match to find the court/date parenthetical.
	finalParenPattern = regexp.MustCompile(`\(([^)]*?)\s*(1[6-9]\d{2}|20\d{2})\)`)

	// signalPrefixPattern strips an introductory citation signal from a
	// case name ("See Alice Corp. v. ..." -> "Alice Corp. v. ...").
	signalPrefixPattern = regexp.MustCompile(`(?i)^(?:see also|see|but see|cf\.|compare|accord|contra|e\.g\.,?)\s+`)

	statutePattern    = regexp.MustCompile(`\b(\d{1,3})\s+U\.S\.C\.(?:A\.)?\s*§{1,2}\s*([0-9][\w.\-]*(?:\([a-zA-Z0-9]+\))*)`)
	regulationPattern = regexp.MustCompile(`\b(\d{1,3})\s+C\.F\.R\.\s*(?:§{1,2}|pts?\.)\s*([0-9][\d.\-]*)`)

	congRecPattern      = regexp.MustCompile(`\b(\d{1,4})\s+Cong\.\s?Rec\.\s+([SHE]?[\d,]+)`)
	houseReportPattern  = regexp.MustCompile(`\bH\.R\.\s?Rep\.\s?No\.\s?(\d+-\d+)`)
	senateReportPattern = regexp.MustCompile(`\bS\.\s?Rep\.\s?No\.\s?(\d+-\d+)`)

	scotusReporterPattern = regexp.MustCompile(`\b(\d{1,4})\s+(U\.S\.|S\.\s?Ct\.|L\.\s?Ed\.(?:\s?2d)?)\s+(\d{1,5})\b`)
	fedAppellatePattern   = regexp.MustCompile(`\b(\d{1,4})\s+(F\.4th|F\.3d|F\.2d|F\.\s?App'x|F\.)\s+(\d{1,5})\b`)
	fedDistrictPattern    = regexp.MustCompile(`\b(\d{1,4})\s+(F\.\s?Supp\.(?:\s?(?:2d|3d))?|F\.R\.D\.)\s+(\d{1,5})\b`)

	// Regional reporters plus the official reporters of the largest state
	// systems. Bare-series forms (P., A., So.) are constrained by the
	// surrounding volume and page digits.
	stateReporterPattern = regexp.MustCompile(`\b(\d{1,4})\s+(P\.3d|P\.2d|P\.|N\.E\.3d|N\.E\.2d|N\.E\.|N\.W\.2d|N\.W\.|S\.E\.2d|S\.E\.|S\.W\.3d|S\.W\.2d|S\.W\.|So\.\s?3d|So\.\s?2d|So\.|A\.3d|A\.2d|A\.|Cal\.\s?(?:2d|3d|4th|5th)|N\.Y\.3d|N\.Y\.2d|N\.Y\.)\s+(\d{1,5})\b`)

	// articlePattern captures author, title, volume, journal, page, and an
	// optional pincite for the standard law review form:
	// "Author, Title, 100 Harv. L. Rev. 1204, 1210 (1987)".
	articlePattern = regexp.MustCompile(`^\s*([^,]{2,100}),\s+(.{2,200}?),\s+(\d{1,4})\s+([A-Z][A-Za-z.'&\s]{1,60}?)\s+(\d{1,5})(?:,\s*(\d{1,5}))?\s*\((1[6-9]\d{2}|20\d{2})\)`)

	// bookEditionPattern matches the publisher/edition parenthetical of a
	// treatise cite: "(3d ed. 2019)", "(Aspen Publ'g 2005)".
	bookEditionPattern = regexp.MustCompile(`\([^)]*\b(?:eds?\.|ed\.,|rev\.|prtg\.|Press|Publ'g|Univ\.)[^)]*(1[6-9]\d{2}|20\d{2})\)`)

	// bookPlainPattern is the fallback "Author, Title (1980)" shape with no
	// internal commas in the title and nothing trailing the year.
	bookPlainPattern = regexp.MustCompile(`^\s*([^,\d]{2,80}),\s+([^,]{2,200}?)\s+\((1[6-9]\d{2}|20\d{2})\)\s*$`)

	pincitePattern = regexp.MustCompile(`\bat\s+(\d{1,5})\b`)
)

// signature pairs a predicate with its field extractor. Signatures are
// evaluated in the fixed order of the package-level signatures slice;
// the first predicate that fires wins and no later one is consulted.
type signature struct {
	// sourceType is the family this signature recognizes.
	sourceType SourceType

	// match reports whether the text belongs to this family.
	match func(text string) bool

	// extract pulls the family's structured fields. It is only called
	// when match returned true, and must not fail: unextractable fields
	// stay empty.
	extract func(text string) Components
}

// signatures is the fixed-priority evaluation order. Locator families whose
// markers embed other families' markers come first (U.S.C. before U.S.,
// C.F.R. before generic patterns), Supreme Court reporters come before
// generic case reporters, and state appellate comes before state high court
// because its parenthetical marker is the more specific of the two.
var signatures = []signature{
	{SourceFederalRegulation, matchPattern(regulationPattern), extractRegulation},
	{SourceFederalStatute, matchPattern(statutePattern), extractStatute},
	{SourceHouseReport, matchPattern(houseReportPattern), extractHouseReport},
	{SourceSenateReport, matchPattern(senateReportPattern), extractSenateReport},
	{SourceCongressionalRecord, matchPattern(congRecPattern), extractCongRecord},
	{SourceSupremeCourt, matchPattern(scotusReporterPattern), extractCaseWith(scotusReporterPattern)},
	{SourceFederalAppellate, matchPattern(fedAppellatePattern), extractCaseWith(fedAppellatePattern)},
	{SourceFederalDistrict, matchPattern(fedDistrictPattern), extractCaseWith(fedDistrictPattern)},
	{SourceStateAppellate, matchStateAppellate, extractCaseWith(stateReporterPattern)},
	{SourceStateHighCourt, matchPattern(stateReporterPattern), extractCaseWith(stateReporterPattern)},
	{SourceLawReviewArticle, matchArticle, extractArticle},
	{SourceBook, matchBook, extractBook},
}

func matchPattern(re *regexp.Regexp) func(string) bool {
	return re.MatchString
}

// matchStateAppellate requires a state reporter triple plus an appellate
// marker in the court parenthetical ("Ct. App.", "App. Div.", "App. Ct.").
func matchStateAppellate(text string) bool {
	if !stateReporterPattern.MatchString(text) {
		return false
	}
	court, _ := finalParen(text)
	return strings.Contains(court, "App.")
}

func matchArticle(text string) bool {
	m := articlePattern.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	return looksLikeJournal(m[4])
}

func matchBook(text string) bool {
	if bookEditionPattern.MatchString(text) {
		return true
	}
	return bookPlainPattern.MatchString(text)
}

// looksLikeJournal reports whether a captured periodical name carries a
// journal marker. Keeps reporter-like strings (which the case signatures
// already consumed by priority) from being misread as journals.
func looksLikeJournal(name string) bool {
	for _, marker := range []string{"L. Rev.", "L.J.", "J. ", "Rev.", "Q.", "J.L."} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return strings.HasSuffix(strings.TrimSpace(name), "J.")
}

// =============================================================================
// Extractors
// =============================================================================

func extractStatute(text string) Components {
	var c Components
	if m := statutePattern.FindStringSubmatch(text); m != nil {
		c.TitleNumber = m[1]
		c.Section = m[2]
	}
	c.Year = lastYear(text)
	return c
}

func extractRegulation(text string) Components {
	var c Components
	if m := regulationPattern.FindStringSubmatch(text); m != nil {
		c.TitleNumber = m[1]
		c.Section = m[2]
	}
	c.Year = lastYear(text)
	return c
}

func extractCongRecord(text string) Components {
	var c Components
	if m := congRecPattern.FindStringSubmatch(text); m != nil {
		c.Volume = m[1]
		c.Reporter = "Cong. Rec."
		c.Page = m[2]
	}
	c.Year = lastYear(text)
	return c
}

func extractHouseReport(text string) Components {
	return extractReport(text, houseReportPattern)
}

func extractSenateReport(text string) Components {
	return extractReport(text, senateReportPattern)
}

func extractReport(text string, re *regexp.Regexp) Components {
	var c Components
	if m := re.FindStringSubmatch(text); m != nil {
		c.TitleNumber = m[1]
	}
	if m := pincitePattern.FindStringSubmatch(text); m != nil {
		c.Page = m[1]
	}
	c.Year = lastYear(text)
	return c
}

// extractCaseWith builds the extractor for a judicial-decision family: the
// reporter triple comes from the family's own pattern, parties from the
// " v. " split, and court/year from the final parenthetical.
func extractCaseWith(reporter *regexp.Regexp) func(string) Components {
	return func(text string) Components {
		var c Components
		if m := reporter.FindStringSubmatch(text); m != nil {
			c.Volume = m[1]
			c.Reporter = strings.TrimSpace(m[2])
			c.Page = m[3]
		}
		c.Party1, c.Party2 = extractParties(text)
		c.Court, c.Year = finalParen(text)
		return c
	}
}

// extractParties splits a case name around " v. ". The defendant side is
// attempted against progressively looser shapes until one succeeds: up to
// the comma that precedes the volume, then up to the first comma, then the
// whole remainder stripped of the citation tail.
func extractParties(text string) (string, string) {
	idx := strings.Index(text, " v. ")
	if idx < 0 {
		return "", ""
	}

	p1 := strings.TrimSpace(text[:idx])
	p1 = signalPrefixPattern.ReplaceAllString(p1, "")
	p1 = strings.TrimLeft(p1, ", ")

	rest := strings.TrimSpace(text[idx+len(" v. "):])
	for _, re := range partyTailPatterns {
		if m := re.FindStringSubmatch(rest); m != nil {
			return p1, strings.TrimSpace(m[1])
		}
	}
	return p1, strings.TrimSpace(rest)
}

// partyTailPatterns are tried in order against the text after " v. ".
var partyTailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.{1,120}?),\s+\d`),
	regexp.MustCompile(`^([^,(]{1,120}?)\s+\d{1,4}\s`),
	regexp.MustCompile(`^([^,(]{1,120}?)\s*\(`),
}

func extractArticle(text string) Components {
	var c Components
	if m := articlePattern.FindStringSubmatch(text); m != nil {
		c.Author = strings.TrimSpace(m[1])
		c.Title = strings.TrimSpace(m[2])
		c.Volume = m[3]
		c.Journal = strings.TrimSpace(m[4])
		c.Page = m[5]
		c.Year = m[7]
	}
	return c
}

func extractBook(text string) Components {
	var c Components
	if m := bookPlainPattern.FindStringSubmatch(text); m != nil {
		c.Author = strings.TrimSpace(m[1])
		c.Title = strings.TrimSpace(m[2])
		c.Year = m[3]
		return c
	}
	// Edition/publisher form: the title runs from the first comma to the
	// final parenthetical.
	if m := bookEditionPattern.FindStringSubmatch(text); m != nil {
		c.Year = m[1]
	}
	if comma := strings.Index(text, ","); comma > 0 {
		c.Author = strings.TrimSpace(text[:comma])
		rest := text[comma+1:]
		if paren := strings.LastIndex(rest, "("); paren > 0 {
			c.Title = strings.TrimSpace(rest[:paren])
		}
	}
	return c
}

// finalParen returns the contents of the last year-bearing parenthetical,
// split into the text before the year (typically the court) and the year.
func finalParen(text string) (court, year string) {
	all := finalParenPattern.FindAllStringSubmatch(text, -1)
	if len(all) == 0 {
		return "", ""
	}
	last := all[len(all)-1]
	return strings.TrimRight(strings.TrimSpace(last[1]), ","), last[2]
}

// lastYear returns the final 4-digit year in the text, or "".
func lastYear(text string) string {
	all := yearPattern.FindAllString(text, -1)
	if len(all) == 0 {
		return ""
	}
	return all[len(all)-1]
}
