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

import "strings"

// Components holds the structured fields extracted from raw citation text.
//
// Every field is optional; which ones are populated depends on the matched
// signature family. Once the source type is anything other than
// SourceUnknown, at least one discriminating field set is populated (for a
// case: parties or a reporter triple; for a statute: title and section; and
// so on). Components are created once per citation by Classify and never
// mutated afterward.
type Components struct {
	// Party1 and Party2 are the case-name parties around " v. ".
	Party1 string `json:"party1,omitempty"`
	Party2 string `json:"party2,omitempty"`

	// Volume, Reporter, and Page form the reporter triple for cases and
	// the volume/page pair for journals and the Congressional Record.
	Volume   string `json:"volume,omitempty"`
	Reporter string `json:"reporter,omitempty"`
	Page     string `json:"page,omitempty"`

	// Year is the decision, enactment, or publication year.
	Year string `json:"year,omitempty"`

	// Court is the deciding court when the citation names one in its
	// final parenthetical (e.g. "9th Cir.", "Cal. Ct. App.").
	Court string `json:"court,omitempty"`

	// TitleNumber and Section locate statutes and regulations; TitleNumber
	// also carries the report number for congressional reports.
	TitleNumber string `json:"title_number,omitempty"`
	Section     string `json:"section,omitempty"`

	// Author, Title, and Journal describe secondary sources.
	Author  string `json:"author,omitempty"`
	Title   string `json:"title,omitempty"`
	Journal string `json:"journal,omitempty"`
}

// IsEmpty reports whether no field was extracted at all.
func (c Components) IsEmpty() bool {
	return c == Components{}
}

// CaseName renders "Party1 v. Party2" when both parties are present, or the
// single known party otherwise. Used by report and filename generation.
func (c Components) CaseName() string {
	switch {
	case c.Party1 != "" && c.Party2 != "":
		return c.Party1 + " v. " + c.Party2
	case c.Party1 != "":
		return c.Party1
	default:
		return c.Party2
	}
}

// ShortLabel builds a compact human-readable label for logs and reports:
// the case name, the statute locator, or the secondary-source title,
// whichever the extracted fields support.
func (c Components) ShortLabel() string {
	if name := c.CaseName(); name != "" {
		return name
	}
	if c.TitleNumber != "" && c.Section != "" {
		return c.TitleNumber + " § " + c.Section
	}
	if c.Title != "" {
		return c.Title
	}
	var parts []string
	if c.Volume != "" {
		parts = append(parts, c.Volume)
	}
	if c.Reporter != "" {
		parts = append(parts, c.Reporter)
	}
	if c.Page != "" {
		parts = append(parts, c.Page)
	}
	return strings.Join(parts, " ")
}
