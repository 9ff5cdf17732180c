// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package extensions

import (
	"context"
	"time"
)

// AuditEvent represents one piece of review activity for compliance logging.
//
// This struct captures the information a firm needs for engagement records,
// conflict audits, and incident investigation: who reviewed what, when, and
// with what outcome.
//
// # Event Categories
//
// Events are categorized by type for filtering and alerting:
//   - Review: "review.completed", "review.degraded", "review.failed"
//   - Policy: "review.blocked" (filter rejected the citation text)
//   - Batch: "batch.completed"
//   - Corpus: "corpus.reloaded", "corpus.degraded"
//
// # Compliance Fields
//
// For engagement records, always populate:
//   - UserID: who submitted the review ("anonymous" if the deployment
//     has no authentication in front of the service)
//   - Timestamp: required for audit trail integrity
//   - ResourceType/ResourceID: required to tie the event to a run
//
// Example:
//
//	event := AuditEvent{
//	    EventType:    "review.completed",
//	    Timestamp:    time.Now().UTC(),
//	    UserID:       "anonymous",
//	    Action:       "review",
//	    ResourceType: "citation",
//	    ResourceID:   result.RunID,
//	    Outcome:      "success",
//	    Metadata: map[string]any{
//	        "request_id":  requestID,
//	        "source_type": string(result.SourceType),
//	        "errors":      len(result.Errors),
//	    },
//	}
type AuditEvent struct {
	// EventType categorizes the event for filtering and alerting.
	// Format: "category.action" (e.g., "review.completed", "review.blocked")
	EventType string

	// Timestamp is when the event occurred (always use UTC).
	// If zero, implementations should set to time.Now().UTC().
	Timestamp time.Time

	// UserID identifies who performed the action.
	// Use "system" for automated actions, "anonymous" if unknown.
	UserID string

	// Action describes what operation was attempted.
	// Common values: "review", "classify", "search", "reload"
	Action string

	// ResourceType is the category of resource involved.
	// Examples: "citation", "batch", "corpus"
	ResourceType string

	// ResourceID is the specific resource instance (optional).
	// For reviews this is the run ID; for batches the request ID.
	ResourceID string

	// Outcome indicates the result of the action.
	// Values: "success", "degraded", "blocked", "failure"
	Outcome string

	// Metadata holds additional event-specific data.
	//
	// Common metadata keys:
	//   - "request_id": client correlation ID
	//   - "source_type": classified citation source type
	//   - "errors": number of citation errors reported
	//   - "duration_ms": review duration
	//   - "block_reason": why the filter rejected the text
	//
	// Citation text itself never belongs in Metadata: for privileged
	// documents the audit trail must not become a second copy of the
	// material it exists to protect.
	Metadata map[string]any
}

// AuditQuery defines criteria for retrieving audit events.
//
// All fields are optional. Only non-zero values are used as filters, and
// multiple fields are combined with AND logic.
//
// Example:
//
//	// Find all blocked reviews in the last hour
//	query := AuditQuery{
//	    EventTypes: []string{"review.blocked"},
//	    StartTime:  time.Now().Add(-time.Hour),
//	    EndTime:    time.Now(),
//	}
//	events, err := auditor.Query(ctx, query)
type AuditQuery struct {
	// EventTypes limits results to specific event types.
	// If empty, all event types are included.
	EventTypes []string

	// UserID limits results to events from a specific user.
	UserID string

	// StartTime is the earliest event timestamp to include (inclusive).
	// If zero, no lower bound is applied.
	StartTime time.Time

	// EndTime is the latest event timestamp to include (exclusive).
	// If zero, no upper bound is applied.
	EndTime time.Time

	// ResourceType limits results to events involving one resource type.
	ResourceType string

	// ResourceID limits results to events involving a specific resource.
	ResourceID string

	// Outcome limits results to events with a specific outcome.
	Outcome string

	// Limit is the maximum number of events to return.
	// If zero, an implementation-specific default is used.
	Limit int

	// Offset is the number of events to skip (for pagination).
	Offset int
}

// AuditLogger records review activity for compliance and analysis.
//
// Implementations must be safe for concurrent use by multiple goroutines.
// The Log method should be non-blocking or have reasonable timeouts so a
// slow audit store never stalls a review.
//
// # Open Source Behavior
//
// The default NopAuditLogger discards all events. This is appropriate for
// local single-user deployments where audit trails aren't required.
//
// # Enterprise Implementation
//
// Enterprise versions send events to SIEM systems, cloud logging, or an
// engagement-records database.
//
// Example enterprise implementation:
//
//	type SplunkAuditLogger struct {
//	    client *splunk.Client
//	    index  string
//	}
//
//	func (l *SplunkAuditLogger) Log(ctx context.Context, event AuditEvent) error {
//	    if event.Timestamp.IsZero() {
//	        event.Timestamp = time.Now().UTC()
//	    }
//	    return l.client.Index(ctx, l.index, event)
//	}
//
// # Async vs Sync Logging
//
// Implementations may buffer events and return immediately, or block until
// the event is persisted. For compliance-critical deployments, sync logging
// is recommended; call Flush before shutdown either way.
type AuditLogger interface {
	// Log records one review activity event.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - event: The audit event to record
	//
	// Returns:
	//   - error: nil on success, error if logging failed
	//
	// Implementations should:
	//  1. Set Timestamp if zero
	//  2. Validate required fields (EventType, UserID)
	//  3. Persist or transmit the event
	//  4. Return quickly (use async if needed)
	Log(ctx context.Context, event AuditEvent) error

	// Query retrieves audit events matching the criteria.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - query: Criteria for selecting events
	//
	// Returns:
	//   - []AuditEvent: Matching events, ordered by Timestamp descending
	//   - error: nil on success, error if the query failed
	//
	// Note: NopAuditLogger returns an empty slice (no events stored).
	Query(ctx context.Context, query AuditQuery) ([]AuditEvent, error)

	// Flush ensures all buffered events are persisted.
	//
	// Call this before application shutdown to prevent event loss.
	// For sync implementations, this may be a no-op.
	Flush(ctx context.Context) error
}

// NopAuditLogger is the default audit logger for open source.
//
// It discards all events without recording them. This is appropriate
// for local single-user deployments where audit trails aren't required.
//
// Thread-safe: This implementation has no mutable state.
type NopAuditLogger struct{}

// Log discards the event without recording it.
//
// Always returns nil (success) regardless of event content.
func (l *NopAuditLogger) Log(ctx context.Context, event AuditEvent) error {
	return nil
}

// Query returns an empty slice (no events are stored).
//
// Always returns nil error with empty results.
func (l *NopAuditLogger) Query(ctx context.Context, query AuditQuery) ([]AuditEvent, error) {
	return []AuditEvent{}, nil
}

// Flush is a no-op since nothing is buffered.
//
// Always returns nil (success).
func (l *NopAuditLogger) Flush(ctx context.Context) error {
	return nil
}

// Compile-time interface compliance check.
// This ensures NopAuditLogger implements AuditLogger.
var _ AuditLogger = (*NopAuditLogger)(nil)
