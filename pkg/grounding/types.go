// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package grounding holds the deterministic style checks that run on every
// citation and the evidence contract that keeps model-claimed violations
// honest.
//
// # Description
//
// Two halves share this package because they share the Finding type. The
// deterministic check set is a list of pure-regex checkers that never need
// a model and never fail; their findings merge into whatever the model
// reports. The evidence validator enforces that every model-claimed
// violation quotes, verbatim, a rule that retrieval actually supplied. A
// model is never trusted to cite a rule it was not shown: one ungrounded
// claim invalidates the whole response.
//
// # Thread Safety
//
// Checkers and the evidence validator are stateless; everything here is
// safe for unbounded concurrent use.
package grounding

import "context"

// =============================================================================
// Error Types
// =============================================================================

// Error type identifiers carried in Finding.ErrorType. Deterministic
// checkers emit only these; model findings may add their own vocabulary.
const (
	// ErrorTypeCurlyQuotes flags straight quotation marks where the style
	// requires curly ones.
	ErrorTypeCurlyQuotes = "curly_quotes_error"

	// ErrorTypeNBSP flags a plain space in a token pair that requires a
	// non-breaking space.
	ErrorTypeNBSP = "nbsp_error"

	// ErrorTypeParenthetical flags an uppercase opening letter in a final
	// explanatory parenthetical.
	ErrorTypeParenthetical = "parenthetical_capitalization_error"
)

// =============================================================================
// Findings
// =============================================================================

// Finding is one claimed citation error, whether produced by a
// deterministic checker or by the model.
//
// RuleTextQuote is the evidence-binding field: for model-sourced findings
// it must contain a verbatim substring of a retrieved rule's text, and
// RequireEvidence rejects the whole response when it does not.
// Deterministic findings carry no quote; they never pass through the
// evidence validator because they are grounded in the checker code itself.
type Finding struct {
	ErrorType     string  `json:"error_type"`
	Description   string  `json:"description"`
	LocalRuleID   string  `json:"local_rule_id,omitempty"`
	GeneralRuleID string  `json:"general_rule_id,omitempty"`
	RuleSource    string  `json:"rule_source,omitempty"`
	Confidence    float64 `json:"confidence"`
	Current       string  `json:"current,omitempty"`
	Correct       string  `json:"correct,omitempty"`
	RuleTextQuote string  `json:"rule_text_quote,omitempty"`
}

// =============================================================================
// Checker Interface
// =============================================================================

// CheckInput carries everything a deterministic checker may inspect.
type CheckInput struct {
	// CitationText is the raw citation under review.
	CitationText string
}

// Checker is one deterministic style check.
//
// Check returns zero or more findings and must be pure: no I/O, no state,
// no errors. A checker that finds nothing returns nil.
type Checker interface {
	// Name returns the checker's stable identifier for logs and metrics.
	Name() string

	// Check inspects the input and reports findings.
	Check(ctx context.Context, in *CheckInput) []Finding
}
