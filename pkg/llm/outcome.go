// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// OutcomeState tags the three ways a model call can end.
type OutcomeState string

const (
	// OutcomeSuccess means the backend answered and the answer carried
	// decodable JSON.
	OutcomeSuccess OutcomeState = "success"

	// OutcomeTransportFailure means the call never produced usable text:
	// network error, non-2xx status, rate limit, or cancellation.
	OutcomeTransportFailure OutcomeState = "transport_failure"

	// OutcomeParseFailure means the backend answered but no JSON could be
	// extracted from the text.
	OutcomeParseFailure OutcomeState = "parse_failure"
)

// Outcome is the tagged result of one model call. Exactly one of Data,
// Reason, or RawText is meaningful, selected by State.
//
// # Description
//
// Callers branch on State instead of string-matching error text. A
// transport failure is retryable; a parse failure is not (retrying the
// same prompt tends to reproduce the same malformed shape); success
// hands the caller raw JSON to unmarshal into its own schema.
type Outcome struct {
	State   OutcomeState    `json:"state"`
	Data    json.RawMessage `json:"data,omitempty"`
	Reason  string          `json:"reason,omitempty"`
	RawText string          `json:"raw_text,omitempty"`
}

// Complete runs one rate-limited chat call and decodes the response at
// this single point.
//
// # Description
//
// The limiter gate runs first, then the backend call, then JSON
// extraction. Backend errors arm the limiter cooldown so a struggling
// provider is not hammered. Complete never returns a Go error: every
// failure mode is a tagged Outcome.
//
// # Inputs
//
//   - ctx: Context for cancellation and deadline.
//   - client: The backend to call.
//   - limiter: Request pacing. Nil disables pacing.
//   - system: System prompt. Empty omits the system turn.
//   - user: User prompt.
//   - params: Sampling parameters.
//
// # Outputs
//
//   - Outcome: Tagged result. See OutcomeState.
func Complete(ctx context.Context, client Client, limiter *Limiter, system, user string, params GenerationParams) Outcome {
	ctx, span := StartCompletionSpan(ctx, client.Name(), len(system)+len(user))
	defer span.End()

	if limiter != nil {
		if err := limiter.Acquire(ctx); err != nil {
			out := Outcome{State: OutcomeTransportFailure, Reason: "rate limiter: " + err.Error()}
			RecordCompletion(ctx, client.Name(), out.State)
			return out
		}
	}

	var messages []Message
	if system != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: system})
	}
	messages = append(messages, Message{Role: RoleUser, Content: user})

	raw, err := client.Chat(ctx, messages, params)
	if err != nil {
		if limiter != nil {
			limiter.Backoff()
		}
		out := Outcome{State: OutcomeTransportFailure, Reason: err.Error()}
		RecordCompletion(ctx, client.Name(), out.State)
		return out
	}

	data := extractJSON(raw)
	if data == nil {
		out := Outcome{State: OutcomeParseFailure, RawText: raw}
		RecordCompletion(ctx, client.Name(), out.State)
		return out
	}

	out := Outcome{State: OutcomeSuccess, Data: data}
	RecordCompletion(ctx, client.Name(), out.State)
	return out
}

// extractJSON pulls a JSON object out of model text. Tries a direct
// parse, then fenced code blocks, then the outermost brace pair. Returns
// nil when nothing decodable is found.
func extractJSON(response string) json.RawMessage {
	trimmed := strings.TrimSpace(response)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}

	// Look for fenced code blocks.
	startMarkers := []string{"```json\n", "```json\r\n", "```\n", "```\r\n"}
	endMarker := "```"

	for _, startMarker := range startMarkers {
		startIdx := strings.Index(response, startMarker)
		if startIdx == -1 {
			continue
		}

		contentStart := startIdx + len(startMarker)
		remaining := response[contentStart:]
		endIdx := strings.Index(remaining, endMarker)
		if endIdx == -1 {
			continue
		}

		candidate := strings.TrimSpace(remaining[:endIdx])
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate)
		}
	}

	// Fall back to the outermost brace pair.
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx != -1 && endIdx > startIdx {
		candidate := response[startIdx : endIdx+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate)
		}
	}

	return nil
}
