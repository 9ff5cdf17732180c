// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rules loads the two style-rule corpora, flattens their nested rule
// trees into indexed flat records, and retrieves the rule subset relevant to
// a citation by keyword overlap.
//
// # Description
//
// The corpus file is a single JSON document holding the locally-authored
// house style guide under "local_style" and the general citation manual
// under "general_style". Each corpus is a recursively nested tree of rule
// nodes. Loading flattens both trees and builds one inverted keyword index
// per corpus; the result is immutable and supports unlimited concurrent
// readers. Corpus changes are handled by rebuilding the whole thing and
// swapping it in through a Store, never by incremental index updates.
//
// # Inputs
//
// A caller-supplied path to the corpus JSON. This is the package's only
// file I/O, performed once per (re)load.
//
// # Outputs
//
// Flat []Record per corpus, a keyword index per corpus, and scored Match
// sets with audit Coverage from the Retriever.
package rules

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Corpus source identifiers. Every Record and Match carries exactly one of
// these; evidence findings reference them in their rule_source field.
const (
	// SourceLocal is the locally-authored house style guide. It always
	// takes retrieval priority over the general manual.
	SourceLocal = "local_style"

	// SourceGeneral is the general citation-style manual.
	SourceGeneral = "general_style"
)

// supportedSchemaMajor is the corpus schema major version this engine
// accepts. A corpus declaring another major version fails to load.
const supportedSchemaMajor = "v1"

// ErrCorpusLoad wraps every corpus construction failure so callers can
// switch to degraded (deterministic-only) operation on any load problem.
var ErrCorpusLoad = errors.New("rule corpus load failed")

// node is one element of the nested rule tree as it appears on disk.
// Children may nest arbitrarily deep; a node with empty title and text is a
// pure container and contributes no Record of its own.
type node struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Children []node `json:"children,omitempty"`
}

// corpusSection is one corpus's slot in the on-disk document.
type corpusSection struct {
	Rules []node `json:"rules"`

	// Tables holds the general manual's lookup tables (abbreviations,
	// jurisdiction-specific forms). Retrieval never consults them; they
	// are retained for report tooling.
	Tables map[string]json.RawMessage `json:"tables,omitempty"`
}

// corpusDocument is the full on-disk layout.
type corpusDocument struct {
	SchemaVersion string        `json:"schema_version,omitempty"`
	Local         corpusSection `json:"local_style"`
	General       corpusSection `json:"general_style"`
}

// Record is one flattened rule. RuleID is the dotted hierarchical path,
// unique within its corpus; Text is the only field ever quoted as evidence.
type Record struct {
	RuleID string `json:"rule_id"`
	Source string `json:"source"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// Corpus is the immutable result of one load: both flattened rule lists,
// their keyword indexes, and the general manual's tables. Never mutate a
// Corpus after construction; rebuild and swap instead.
type Corpus struct {
	Local   []Record
	General []Record

	localIndex   keywordIndex
	generalIndex keywordIndex

	Tables        map[string]json.RawMessage
	SchemaVersion string
	LoadedAt      time.Time
}

// LoadCorpus reads and indexes the corpus JSON at path. Any failure (missing
// file, malformed JSON, unsupported schema version) wraps ErrCorpusLoad; the
// caller is expected to treat that as a fatal configuration error and fall
// back to deterministic-only checking.
func LoadCorpus(path string) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrCorpusLoad, path, err)
	}
	return ParseCorpus(raw)
}

// ParseCorpus builds a Corpus from raw JSON bytes. Split out from LoadCorpus
// so tests and embedded corpora can skip the file read.
func ParseCorpus(raw []byte) (*Corpus, error) {
	var doc corpusDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing document: %w", ErrCorpusLoad, err)
	}

	if err := checkSchemaVersion(doc.SchemaVersion); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusLoad, err)
	}

	if len(doc.Local.Rules) == 0 && len(doc.General.Rules) == 0 {
		return nil, fmt.Errorf("%w: document contains no rules in either corpus", ErrCorpusLoad)
	}

	c := &Corpus{
		Local:         flatten(doc.Local.Rules, SourceLocal),
		General:       flatten(doc.General.Rules, SourceGeneral),
		Tables:        doc.General.Tables,
		SchemaVersion: doc.SchemaVersion,
		LoadedAt:      time.Now().UTC(),
	}
	c.localIndex = buildIndex(c.Local)
	c.generalIndex = buildIndex(c.General)
	return c, nil
}

// checkSchemaVersion accepts an absent version (legacy corpora) and any
// version whose major component matches supportedSchemaMajor.
func checkSchemaVersion(version string) error {
	if version == "" {
		return nil
	}
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("schema_version %q is not valid semver", version)
	}
	if semver.Major(v) != supportedSchemaMajor {
		return fmt.Errorf("schema_version %q: major version %s unsupported (engine supports %s)",
			version, semver.Major(v), supportedSchemaMajor)
	}
	return nil
}

// flatten walks a rule tree depth-first. A node contributes a Record iff it
// has a non-empty title or text; recursion always descends into children,
// because container nodes routinely hold their substance in grandchildren.
// Rule ids join parent and child with "." and no leading dot.
func flatten(roots []node, source string) []Record {
	var out []Record
	var walk func(n node, parentID string)
	walk = func(n node, parentID string) {
		id := joinRuleID(parentID, n.ID)
		if strings.TrimSpace(n.Title) != "" || strings.TrimSpace(n.Text) != "" {
			out = append(out, Record{
				RuleID: id,
				Source: source,
				Title:  n.Title,
				Text:   n.Text,
			})
		}
		for _, child := range n.Children {
			walk(child, id)
		}
	}
	for _, root := range roots {
		walk(root, "")
	}
	return out
}

func joinRuleID(parent, id string) string {
	if parent == "" {
		return id
	}
	if id == "" {
		return parent
	}
	return parent + "." + id
}

// Size returns the total flattened record count across both corpora.
func (c *Corpus) Size() int {
	return len(c.Local) + len(c.General)
}
