// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/AleutianAI/CiteCheck/pkg/cite"
	"github.com/AleutianAI/CiteCheck/pkg/grounding"
	"github.com/AleutianAI/CiteCheck/pkg/rules"
	"github.com/AleutianAI/CiteCheck/pkg/validate"
)

// maybe applies the style only in rich mode so plain mode keeps the
// layout without escape sequences.
func maybe(style lipgloss.Style, s string) string {
	if GetMode() == ModeRich {
		return style.Render(s)
	}
	return s
}

// RenderResult renders one review verdict for the terminal.
//
// Machine mode emits stable prefixed lines; rich and plain modes share
// a layout: verdict line, numbered error blocks, degradation and
// evidence warnings, the corrected citation, and a muted metadata
// footer.
func RenderResult(result *validate.Result) string {
	if GetMode() == ModeMachine {
		return renderResultMachine(result)
	}

	var b strings.Builder

	if result.IsCorrect {
		fmt.Fprintf(&b, "%s %s\n", IconCorrect.Render(), maybe(Styles.Success, "Citation is correct"))
	} else {
		noun := "errors"
		if len(result.Errors) == 1 {
			noun = "error"
		}
		fmt.Fprintf(&b, "%s %s\n", IconError.Render(),
			maybe(Styles.Error, fmt.Sprintf("%d %s found", len(result.Errors), noun)))
	}

	if result.Note != "" {
		fmt.Fprintf(&b, "%s %s\n", IconWarning.Render(), maybe(Styles.Warning, result.Note))
	}
	for _, issue := range result.EvidenceIssues {
		fmt.Fprintf(&b, "%s %s\n", IconWarning.Render(),
			maybe(Styles.Warning, "unverified claim: "+issue))
	}

	for i, f := range result.Errors {
		b.WriteString(renderFinding(i+1, f))
	}

	if result.CorrectedVersion != nil && *result.CorrectedVersion != "" {
		fmt.Fprintf(&b, "\n%s %s\n  %s\n", IconArrow.Render(),
			maybe(Styles.Bold, "Suggested correction:"), *result.CorrectedVersion)
	}

	b.WriteString(maybe(Styles.Muted, fmt.Sprintf("\n%s · %d local / %d general rules consulted · %dms\n",
		result.SourceType,
		result.Coverage.LocalReturned, result.Coverage.GeneralReturned,
		result.ElapsedMS)))

	return b.String()
}

// renderFinding renders one numbered error block.
func renderFinding(n int, f grounding.Finding) string {
	var b strings.Builder

	fmt.Fprintf(&b, "\n  [%d] %s", n, maybe(Styles.Highlight, f.ErrorType))
	if ref := ruleRef(f); ref != "" {
		fmt.Fprintf(&b, "  %s", maybe(Styles.Muted, ref))
	}
	fmt.Fprintf(&b, "  %s\n", maybe(Styles.Muted, fmt.Sprintf("confidence %.2f", f.Confidence)))

	if f.Description != "" {
		fmt.Fprintf(&b, "      %s\n", f.Description)
	}
	if f.Current != "" || f.Correct != "" {
		fmt.Fprintf(&b, "      %s %s %s\n",
			maybe(Styles.Error, f.Current), IconArrow.Render(), maybe(Styles.Success, f.Correct))
	}
	if f.RuleTextQuote != "" {
		fmt.Fprintf(&b, "      %s\n", maybe(Styles.Quote, "“"+f.RuleTextQuote+"”"))
	}
	return b.String()
}

// ruleRef formats the rule attribution of a finding, preferring the
// house rule id.
func ruleRef(f grounding.Finding) string {
	id := f.LocalRuleID
	if id == "" {
		id = f.GeneralRuleID
	}
	if id == "" {
		return ""
	}
	if f.RuleSource != "" {
		return fmt.Sprintf("rule %s (%s)", id, f.RuleSource)
	}
	return "rule " + id
}

func renderResultMachine(result *validate.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "RESULT: correct=%t errors=%d evidence_validated=%t source_type=%s run_id=%s\n",
		result.IsCorrect, len(result.Errors), result.EvidenceValidated, result.SourceType, result.RunID)
	if result.Note != "" {
		fmt.Fprintf(&b, "NOTE: %s\n", result.Note)
	}
	for _, issue := range result.EvidenceIssues {
		fmt.Fprintf(&b, "EVIDENCE: %s\n", issue)
	}
	for i, f := range result.Errors {
		fmt.Fprintf(&b, "ERROR %d: %s\t%s\t%s\n", i+1, f.ErrorType, ruleRef(f), f.Description)
	}
	if result.CorrectedVersion != nil && *result.CorrectedVersion != "" {
		fmt.Fprintf(&b, "CORRECTED: %s\n", *result.CorrectedVersion)
	}
	return b.String()
}

// RenderClassification renders a source type and its extracted
// components, omitting empty fields.
func RenderClassification(sourceType cite.SourceType, c cite.Components) string {
	if GetMode() == ModeMachine {
		var b strings.Builder
		fmt.Fprintf(&b, "SOURCE_TYPE: %s\n", sourceType)
		for _, field := range componentFields(c) {
			fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(strings.ReplaceAll(field.name, " ", "_")), field.value)
		}
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", maybe(Styles.Bold, "Source type:"), maybe(Styles.Highlight, string(sourceType)))
	for _, field := range componentFields(c) {
		fmt.Fprintf(&b, "  %s %s %s\n", IconBullet.Render(), maybe(Styles.Muted, field.name+":"), field.value)
	}
	return b.String()
}

type componentField struct {
	name  string
	value string
}

// componentFields lists the populated component fields in display order.
func componentFields(c cite.Components) []componentField {
	all := []componentField{
		{"party 1", c.Party1},
		{"party 2", c.Party2},
		{"volume", c.Volume},
		{"reporter", c.Reporter},
		{"page", c.Page},
		{"court", c.Court},
		{"title number", c.TitleNumber},
		{"section", c.Section},
		{"author", c.Author},
		{"title", c.Title},
		{"journal", c.Journal},
		{"year", c.Year},
	}
	fields := make([]componentField, 0, len(all))
	for _, f := range all {
		if f.value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// RenderMatches renders rule search results: id, source, score, title,
// and the rule text.
func RenderMatches(matches []rules.Match) string {
	if len(matches) == 0 {
		if GetMode() == ModeMachine {
			return "MATCHES: 0\n"
		}
		return maybe(Styles.Muted, "No rules matched.") + "\n"
	}

	var b strings.Builder
	if GetMode() == ModeMachine {
		fmt.Fprintf(&b, "MATCHES: %d\n", len(matches))
		for _, m := range matches {
			fmt.Fprintf(&b, "%s\t%s\t%.1f\t%s\n", m.RuleID, m.Source, m.Score, m.Title)
		}
		return b.String()
	}

	for _, m := range matches {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			IconSection.Render(),
			maybe(Styles.Highlight, m.RuleID),
			maybe(Styles.Bold, m.Title),
			maybe(Styles.Muted, fmt.Sprintf("(%s, score %.1f)", m.Source, m.Score)))
		if m.Text != "" {
			fmt.Fprintf(&b, "    %s\n", m.Text)
		}
	}
	return b.String()
}

// RenderStatus renders the corpus store status.
func RenderStatus(status rules.StoreStatus) string {
	if GetMode() == ModeMachine {
		var b strings.Builder
		fmt.Fprintf(&b, "LOADED: %t\nDEGRADED: %t\nPATH: %s\nLOCAL_RULES: %d\nGENERAL_RULES: %d\n",
			status.Loaded, status.Degraded, status.Path, status.LocalRules, status.GeneralRules)
		if status.SchemaVersion != "" {
			fmt.Fprintf(&b, "SCHEMA_VERSION: %s\n", status.SchemaVersion)
		}
		if status.LastError != "" {
			fmt.Fprintf(&b, "LAST_ERROR: %s\n", status.LastError)
		}
		return b.String()
	}

	var b strings.Builder
	if status.Loaded {
		fmt.Fprintf(&b, "%s %s\n", IconCorrect.Render(), maybe(Styles.Success, "Corpus loaded"))
	} else {
		fmt.Fprintf(&b, "%s %s\n", IconError.Render(), maybe(Styles.Error, "Corpus not loaded (degraded)"))
	}
	fmt.Fprintf(&b, "  %s %s\n", maybe(Styles.Muted, "path:"), status.Path)
	fmt.Fprintf(&b, "  %s %d local, %d general\n", maybe(Styles.Muted, "rules:"), status.LocalRules, status.GeneralRules)
	if status.SchemaVersion != "" {
		fmt.Fprintf(&b, "  %s %s\n", maybe(Styles.Muted, "schema:"), status.SchemaVersion)
	}
	if !status.LoadedAt.IsZero() {
		fmt.Fprintf(&b, "  %s %s\n", maybe(Styles.Muted, "loaded at:"), status.LoadedAt.Format("2006-01-02 15:04:05"))
	}
	if status.LastError != "" {
		fmt.Fprintf(&b, "  %s %s\n", IconWarning.Render(), maybe(Styles.Warning, status.LastError))
	}
	return b.String()
}
