// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validate orchestrates a full citation review: deterministic
// checks, rule retrieval, the model call, evidence validation, and the
// merged verdict.
//
// # Description
//
// One Validate call walks a fixed phase sequence. Deterministic findings
// never depend on the model, so a dead backend degrades the result
// instead of erasing it: the only outright failure is a model failure
// with nothing deterministic to show.
//
// # Thread Safety
//
// A Validator is safe for concurrent use after construction.
package validate

import (
	"errors"

	"github.com/AleutianAI/CiteCheck/pkg/cite"
	"github.com/AleutianAI/CiteCheck/pkg/grounding"
	"github.com/AleutianAI/CiteCheck/pkg/rules"
)

// ErrLLMUnavailable reports a model failure with no deterministic finding
// to stand in.
var ErrLLMUnavailable = errors.New("model review unavailable")

// ErrInvalidInput reports a request rejected before any review phase ran.
var ErrInvalidInput = errors.New("invalid review input")

// Phase names one step of the review sequence. Phases appear as span
// events, not in results.
type Phase string

const (
	PhaseInit                 Phase = "INIT"
	PhaseDeterministicChecked Phase = "DETERMINISTIC_CHECKED"
	PhaseRulesRetrieved       Phase = "RULES_RETRIEVED"
	PhaseLLMCalled            Phase = "LLM_CALLED"
	PhaseLLMFailed            Phase = "LLM_FAILED"
	PhaseEvidenceChecked      Phase = "EVIDENCE_CHECKED"
	PhaseMerged               Phase = "MERGED"
)

// Request is one citation to review plus optional document context. The
// context fields reach the model prompt only; they never change which
// checks or rules run.
type Request struct {
	CitationText    string `json:"citation_text"`
	FootnoteNumber  int    `json:"footnote_number,omitempty"`
	CitationOrdinal int    `json:"citation_ordinal,omitempty"`
	Position        string `json:"position,omitempty"`
}

// Result is the merged review verdict.
type Result struct {
	// RunID identifies this review for log and trace correlation.
	RunID string `json:"run_id"`

	// IsCorrect is false whenever Errors is non-empty, regardless of the
	// model's own verdict.
	IsCorrect bool `json:"is_correct"`

	// Errors combines deterministic findings (first) and model-claimed
	// errors (after).
	Errors []grounding.Finding `json:"errors"`

	// CorrectedVersion is the model's proposed rewrite, when it gave one.
	CorrectedVersion *string `json:"corrected_version,omitempty"`

	// SourceType and Components come from classification and are always
	// populated, UNKNOWN included.
	SourceType cite.SourceType `json:"source_type"`
	Components cite.Components `json:"components"`

	// Coverage reports what the rule retrieval scanned, matched, and
	// returned. Always present, even when retrieval failed.
	Coverage rules.Coverage `json:"coverage"`

	// EvidenceValidated is true when every model-claimed error quoted
	// retrieved rule text verbatim. False when validation found issues or
	// never ran (model failure path).
	EvidenceValidated bool     `json:"evidence_validated"`
	EvidenceIssues    []string `json:"evidence_issues,omitempty"`

	// Note explains a degraded result, e.g. deterministic-only review
	// after a model failure.
	Note string `json:"note,omitempty"`

	ElapsedMS int64 `json:"elapsed_ms"`
}

// llmVerdict is the JSON schema the model is instructed to return.
type llmVerdict struct {
	IsCorrect        bool                `json:"is_correct"`
	Errors           []grounding.Finding `json:"errors"`
	CorrectedVersion *string             `json:"corrected_version"`
}
