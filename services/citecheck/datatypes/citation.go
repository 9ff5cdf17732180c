// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response types for the CiteCheck
// service endpoints.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/AleutianAI/CiteCheck/pkg/cite"
	"github.com/AleutianAI/CiteCheck/pkg/rules"
	"github.com/AleutianAI/CiteCheck/pkg/validate"
	"github.com/AleutianAI/CiteCheck/pkg/validation"
)

// =============================================================================
// Limits
// =============================================================================

const (
	// MaxCitationBytes mirrors the engine-side input limit so handler
	// rejections and engine rejections agree.
	MaxCitationBytes = validation.MaxCitationBytes

	// MaxPositionBytes bounds the free-text document position label.
	MaxPositionBytes = validation.MaxPositionBytes

	// MaxBatchCitations is the hard ceiling on citations per batch
	// request, regardless of what the server config allows.
	MaxBatchCitations = 100
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// citationValidate is the validator instance for citation datatypes.
var citationValidate *validator.Validate

func init() {
	citationValidate = validator.New()
	_ = citationValidate.RegisterValidation("citationtext", validateCitationText)
	_ = citationValidate.RegisterValidation("positiontext", validatePositionText)
}

// validateCitationText runs the engine's citation input validation at the
// binding layer: byte length (not rune count), UTF-8 validity, and control
// characters are all rejected before the request reaches the pipeline.
func validateCitationText(fl validator.FieldLevel) bool {
	return validation.ValidateCitationText(fl.Field().String()) == nil
}

// validatePositionText applies the engine's position label validation.
func validatePositionText(fl validator.FieldLevel) bool {
	return validation.ValidatePosition(fl.Field().String()) == nil
}

// =============================================================================
// Validate Endpoint Types
// =============================================================================

// ValidateCitationRequest is the body for POST /v1/citations/validate.
//
// CitationText is the only required field. FootnoteNumber,
// CitationOrdinal, and Position carry document context that reaches the
// review model's prompt; they never change which checks or rules run.
type ValidateCitationRequest struct {
	RequestID       string `json:"request_id,omitempty" validate:"omitempty,uuid4"`
	CitationText    string `json:"citation_text" validate:"required,citationtext"`
	FootnoteNumber  int    `json:"footnote_number,omitempty" validate:"gte=0"`
	CitationOrdinal int    `json:"citation_ordinal,omitempty" validate:"gte=0"`
	Position        string `json:"position,omitempty" validate:"positiontext"`
}

// Validate checks the request against its struct tags.
func (r *ValidateCitationRequest) Validate() error {
	return citationValidate.Struct(r)
}

// EnsureDefaults fills the request ID when the client did not send one.
func (r *ValidateCitationRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.New().String()
	}
}

// ToReview converts the request to the engine's review input.
func (r *ValidateCitationRequest) ToReview() validate.Request {
	return validate.Request{
		CitationText:    r.CitationText,
		FootnoteNumber:  r.FootnoteNumber,
		CitationOrdinal: r.CitationOrdinal,
		Position:        r.Position,
	}
}

// ValidateCitationResponse wraps one review result with correlation fields.
type ValidateCitationResponse struct {
	RequestID        string          `json:"request_id"`
	Timestamp        int64           `json:"timestamp"`
	Result           validate.Result `json:"result"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}

// NewValidateCitationResponse stamps the response with the request ID and
// the current time.
func NewValidateCitationResponse(requestID string, result validate.Result, elapsed time.Duration) ValidateCitationResponse {
	return ValidateCitationResponse{
		RequestID:        requestID,
		Timestamp:        time.Now().UnixMilli(),
		Result:           result,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}
}

// =============================================================================
// Batch Endpoint Types
// =============================================================================

// BatchValidateRequest is the body for POST /v1/citations/validate/batch.
// Items are reviewed concurrently up to the server's worker bound; one
// citation's model failure never fails the batch.
type BatchValidateRequest struct {
	RequestID string                    `json:"request_id,omitempty" validate:"omitempty,uuid4"`
	Citations []ValidateCitationRequest `json:"citations" validate:"required,min=1,max=100,dive"`
}

// Validate checks the request and every nested citation.
func (r *BatchValidateRequest) Validate() error {
	return citationValidate.Struct(r)
}

// EnsureDefaults fills request IDs for the batch and its items.
func (r *BatchValidateRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.New().String()
	}
	for i := range r.Citations {
		r.Citations[i].EnsureDefaults()
	}
}

// BatchItemResult is one citation's outcome inside a batch response.
// Exactly one of Result and Error is populated.
type BatchItemResult struct {
	Index        int              `json:"index"`
	CitationText string           `json:"citation_text"`
	Result       *validate.Result `json:"result,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// BatchValidateResponse tallies a batch run. Failed counts reviews that
// returned no result at all; citations with style errors count as Flawed.
type BatchValidateResponse struct {
	RequestID        string            `json:"request_id"`
	Timestamp        int64             `json:"timestamp"`
	Items            []BatchItemResult `json:"items"`
	Correct          int               `json:"correct"`
	Flawed           int               `json:"flawed"`
	Failed           int               `json:"failed"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
}

// =============================================================================
// Classify Endpoint Types
// =============================================================================

// ClassifyRequest is the body for POST /v1/citations/classify.
type ClassifyRequest struct {
	CitationText string `json:"citation_text" validate:"required,citationtext"`
}

// Validate checks the request against its struct tags.
func (r *ClassifyRequest) Validate() error {
	return citationValidate.Struct(r)
}

// ClassifyResponse reports the classification without running a review.
type ClassifyResponse struct {
	SourceType cite.SourceType `json:"source_type"`
	Components cite.Components `json:"components"`

	// Strategies lists the retrieval heuristics suited to the source
	// type, in priority order.
	Strategies []string `json:"strategies"`
}

// =============================================================================
// Rules Endpoint Types
// =============================================================================

// RulesSearchResponse is the body for GET /v1/rules/search.
type RulesSearchResponse struct {
	Query    string         `json:"query"`
	Matches  []rules.Match  `json:"matches"`
	Coverage rules.Coverage `json:"coverage"`
}

// CorpusStatusResponse is the body for GET /v1/corpus/status.
type CorpusStatusResponse struct {
	rules.StoreStatus
	Watching bool `json:"watching"`
}

// =============================================================================
// Error Type
// =============================================================================

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
