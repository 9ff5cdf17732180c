// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// generate_rule_docs generates a markdown reference from a rule corpus file.
//
// Usage:
//
//	go run scripts/generate_rule_docs.go style_corpus.json > docs/rule_reference.md
//
// The generated documentation includes:
//   - Full rule inventory for both corpora, in corpus order
//   - Rule IDs suitable for cross-referencing review findings
//   - The general manual's lookup table inventory
//   - Summary statistics
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AleutianAI/CiteCheck/pkg/rules"
)

func main() {
	path := "style_corpus.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	corpus, err := rules.LoadCorpus(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading corpus: %v\n", err)
		os.Exit(1)
	}

	generateMarkdown(path, corpus)
}

// generateMarkdown outputs the full markdown documentation.
func generateMarkdown(path string, corpus *rules.Corpus) {
	fmt.Println("# Citation Rule Reference")
	fmt.Println()
	fmt.Println("## Overview")
	fmt.Println()
	fmt.Printf("This document is generated from `%s` and lists every rule the\n", path)
	fmt.Println("review engine can retrieve and quote as evidence. Rule IDs here match the")
	fmt.Println("`local_rule_id` and `general_rule_id` fields of review findings.")
	fmt.Println()
	fmt.Printf("**Generated:** %s\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))
	if corpus.SchemaVersion != "" {
		fmt.Printf("**Schema:** %s\n", corpus.SchemaVersion)
	}
	fmt.Println()

	writeSection("Local Style Guide", rules.SourceLocal, corpus.Local)
	writeSection("General Style Manual", rules.SourceGeneral, corpus.General)
	writeTables(corpus)
	writeStatistics(corpus)
}

// writeSection emits one corpus as a markdown table.
func writeSection(heading, source string, records []rules.Record) {
	fmt.Printf("## %s (`%s`)\n", heading, source)
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("*No rules in this corpus.*")
		fmt.Println()
		return
	}

	fmt.Println("| Rule ID | Title | Text |")
	fmt.Println("|---------|-------|------|")
	for _, r := range records {
		fmt.Printf("| %s | %s | %s |\n",
			mdEscape(r.RuleID), mdEscape(r.Title), mdEscape(preview(r.Text, 160)))
	}
	fmt.Println()
}

// writeTables lists the general manual's lookup tables by name.
func writeTables(corpus *rules.Corpus) {
	if len(corpus.Tables) == 0 {
		return
	}

	names := make([]string, 0, len(corpus.Tables))
	for name := range corpus.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("## Lookup Tables")
	fmt.Println()
	fmt.Println("The general manual ships the following lookup tables. Retrieval never")
	fmt.Println("consults them; they are available to report tooling only.")
	fmt.Println()
	for _, name := range names {
		fmt.Printf("- `%s`\n", name)
	}
	fmt.Println()
}

// writeStatistics emits the summary block.
func writeStatistics(corpus *rules.Corpus) {
	fmt.Println("## Summary Statistics")
	fmt.Println()
	fmt.Printf("- **Total rules:** %d\n", corpus.Size())
	fmt.Printf("- **Local style rules:** %d\n", len(corpus.Local))
	fmt.Printf("- **General manual rules:** %d\n", len(corpus.General))
	fmt.Printf("- **Lookup tables:** %d\n", len(corpus.Tables))
	fmt.Printf("- **Average rule text:** %d characters\n", averageTextLength(corpus))
	fmt.Println()
}

// averageTextLength reports the mean rule text length across both corpora.
func averageTextLength(corpus *rules.Corpus) int {
	total := 0
	count := 0
	for _, r := range corpus.Local {
		total += len(r.Text)
		count++
	}
	for _, r := range corpus.General {
		total += len(r.Text)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / count
}

// preview truncates text for table cells, collapsing line breaks. The cut
// point backs up to a rune boundary so section symbols and curly quotes
// never get split.
func preview(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= limit {
		return text
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

// mdEscape escapes characters that would break a markdown table cell.
func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
