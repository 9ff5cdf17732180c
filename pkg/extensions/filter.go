// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extensions

import (
	"context"
	"errors"
)

// ErrCitationBlocked is returned when citation text is rejected by the
// filter. Enterprise implementations should wrap this error with the reason.
//
// Example:
//
//	if containsMatterNumber(text) {
//	    return "", fmt.Errorf("citation references an open matter: %w", ErrCitationBlocked)
//	}
var ErrCitationBlocked = errors.New("citation blocked by filter")

// FilterResult contains the outcome of a filter operation.
//
// This struct provides detailed information about what the filter did,
// useful for debugging, audit trails, and user feedback.
//
// Example:
//
//	result := FilterResult{
//	    Original:    "Smith v. Acme Corp., No. 24-cv-1234 (S.D.N.Y.)",
//	    Filtered:    "Smith v. [REDACTED], No. 24-cv-1234 (S.D.N.Y.)",
//	    WasModified: true,
//	    Detections: []Detection{
//	        {Type: "client_name", Location: "characters 9-18", Action: "redacted"},
//	    },
//	}
type FilterResult struct {
	// Original is the input text before filtering.
	Original string

	// Filtered is the text after filtering transformations.
	// If WasModified is false, this equals Original.
	Filtered string

	// WasModified indicates if any transformations were applied.
	WasModified bool

	// WasBlocked indicates if the text was completely rejected.
	// If true, Filtered should not be used.
	WasBlocked bool

	// BlockReason explains why the text was blocked (if WasBlocked).
	BlockReason string

	// Detections lists what the filter found in the text.
	// Useful for audit logging and debugging.
	Detections []Detection
}

// Detection describes a single item found by the filter.
//
// Example:
//
//	detection := Detection{
//	    Type:     "matter_number",
//	    Location: "characters 45-58",
//	    Action:   "redacted",
//	}
type Detection struct {
	// Type categorizes what was detected.
	// Common types: "client_name", "matter_number", "privileged_text",
	// "pii", "prompt_injection"
	Type string

	// Location describes where in the text the item was found.
	// Format is implementation-specific (e.g., "characters 10-20")
	Location string

	// Action describes what was done with the detected item.
	// Values: "redacted", "masked", "replaced", "blocked", "flagged"
	Action string

	// Original is the detected content (only populated in debug mode).
	// WARNING: This may contain privileged material - handle carefully.
	Original string

	// Replacement is what the content was replaced with (if Action is "replaced").
	Replacement string
}

// ReviewFilter transforms review text before and after model processing.
//
// Implementations must be safe for concurrent use by multiple goroutines.
//
// # Filter Pipeline
//
// Text flows through filters at two points:
//
//  1. FilterCitation: Before the citation enters the review pipeline
//     - Redact client names and matter numbers from the surrounding text
//     - Block citations from privileged documents entirely
//     - Detect prompt injection attempts hidden in pasted text
//
//  2. FilterCorrection: Before model-generated text returns to the user
//     - Remove material the model should not have produced
//     - Mask anything the input filter redacted that leaked back through
//
// # Open Source Behavior
//
// The default NopReviewFilter passes all text through unchanged.
// This is appropriate for local deployments where the model runs on the
// same machine as the document.
//
// # Blocking vs Transforming
//
// Filters can either:
//   - Transform: Modify content and allow it through (e.g., redact a name)
//   - Block: Reject the citation entirely (e.g., privileged document)
//
// To block, return a FilterResult with WasBlocked=true and BlockReason set.
// The caller should then return ErrCitationBlocked to the user and log the
// block via AuditLogger. Blocked text never reaches the model.
type ReviewFilter interface {
	// FilterCitation processes citation text before the review pipeline.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - citation: The raw citation text, position label included
	//
	// Returns:
	//   - *FilterResult: The filtered text and metadata
	//   - error: Non-nil only for filter failures (not for blocks)
	//
	// If WasBlocked is true, the caller should:
	//  1. Log the block via AuditLogger
	//  2. Return ErrCitationBlocked to the user
	//  3. NOT run the review
	FilterCitation(ctx context.Context, citation string) (*FilterResult, error)

	// FilterCorrection processes model-generated text before it returns
	// to the user: proposed rewrites and error explanations.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - text: The model-generated text
	//
	// Returns:
	//   - *FilterResult: The filtered text and metadata
	//   - error: Non-nil only for filter failures
	FilterCorrection(ctx context.Context, text string) (*FilterResult, error)
}

// NopReviewFilter is the default review filter for open source.
//
// It passes all text through unchanged without any transformation or
// blocking. This is appropriate for local deployments where the review
// model runs on the same machine as the document.
//
// Thread-safe: This implementation has no mutable state.
//
// Example:
//
//	filter := &NopReviewFilter{}
//	result, err := filter.FilterCitation(ctx, "Smith v. Acme Corp., #24-1234")
//	// result.Filtered == "Smith v. Acme Corp., #24-1234" (unchanged)
//	// result.WasModified == false
//	// err == nil
type NopReviewFilter struct{}

// FilterCitation returns the citation unchanged.
//
// No transformations or blocking are applied.
func (f *NopReviewFilter) FilterCitation(ctx context.Context, citation string) (*FilterResult, error) {
	return &FilterResult{
		Original:    citation,
		Filtered:    citation,
		WasModified: false,
		WasBlocked:  false,
		Detections:  nil,
	}, nil
}

// FilterCorrection returns the text unchanged.
//
// No transformations or blocking are applied.
func (f *NopReviewFilter) FilterCorrection(ctx context.Context, text string) (*FilterResult, error) {
	return &FilterResult{
		Original:    text,
		Filtered:    text,
		WasModified: false,
		WasBlocked:  false,
		Detections:  nil,
	}, nil
}

// Compile-time interface compliance check.
// This ensures NopReviewFilter implements ReviewFilter.
var _ ReviewFilter = (*NopReviewFilter)(nil)
