// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/CiteCheck/pkg/cite"
	"github.com/AleutianAI/CiteCheck/pkg/grounding"
	"github.com/AleutianAI/CiteCheck/pkg/llm"
	"github.com/AleutianAI/CiteCheck/pkg/rules"
	"github.com/AleutianAI/CiteCheck/pkg/validation"
)

// Config tunes one Validator.
type Config struct {
	// MaxLocalRules and MaxGeneralRules are the retrieval quotas.
	MaxLocalRules   int
	MaxGeneralRules int

	// Params are the sampling parameters for the review call.
	Params llm.GenerationParams
}

// DefaultConfig returns the standard review configuration: ten rules per
// corpus and near-deterministic sampling.
func DefaultConfig() Config {
	temperature := float32(0.0)
	maxTokens := 2048
	return Config{
		MaxLocalRules:   10,
		MaxGeneralRules: 10,
		Params: llm.GenerationParams{
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		},
	}
}

// Validator runs the full review sequence for one citation at a time.
//
// Thread Safety: Safe for concurrent use after construction.
type Validator struct {
	store   *rules.Store
	client  llm.Client
	limiter *llm.Limiter
	checks  *grounding.CheckSet
	config  Config
	logger  *slog.Logger
}

// NewValidator wires the review pipeline together.
//
// Inputs:
//
//	store - Rule corpus store. Required.
//	client - Model backend. Required.
//	limiter - Request pacing for the backend. Nil disables pacing.
//	checks - Deterministic check set. Nil uses defaults.
//	config - Review configuration.
//	logger - Structured logger. Nil uses slog.Default().
func NewValidator(store *rules.Store, client llm.Client, limiter *llm.Limiter, checks *grounding.CheckSet, config Config, logger *slog.Logger) *Validator {
	if checks == nil {
		checks = grounding.NewCheckSet(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		store:   store,
		client:  client,
		limiter: limiter,
		checks:  checks,
		config:  config,
		logger:  logger,
	}
}

// Validate reviews one citation.
//
// # Description
//
// The sequence is fixed: classify, run deterministic checks, retrieve
// rules, call the model, evidence-check its claims, merge. Rule
// retrieval failure downgrades to an empty rule set and the review
// continues. A model failure downgrades to a deterministic-only result
// when the checks found something; with nothing to show, Validate
// returns ErrLLMUnavailable.
//
// # Inputs
//
//   - ctx: Context for cancellation and deadline.
//   - req: The citation and optional document context.
//
// # Outputs
//
//   - *Result: The merged verdict. Coverage is populated even on the
//     degraded paths.
//   - error: Wraps ErrInvalidInput when the citation or position fails
//     input validation before any phase runs, or ErrLLMUnavailable when
//     the model failed and no deterministic finding exists.
func (v *Validator) Validate(ctx context.Context, req Request) (*Result, error) {
	// Citation text reaches the model prompt verbatim, so it is validated
	// here rather than trusting every caller to have done it.
	if err := validation.ValidateCitationText(req.CitationText); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validation.ValidatePosition(req.Position); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	start := time.Now()
	runID := uuid.New().String()

	ctx, span := StartValidationSpan(ctx, runID, len(req.CitationText))
	defer span.End()

	phase := PhaseInit

	sourceType, components := cite.Classify(req.CitationText)

	findings := v.checks.Run(ctx, req.CitationText)
	phase = v.advance(span, phase, PhaseDeterministicChecked)

	// A degraded store (corpus never loaded) yields no matches and logs the
	// load failure itself; the review continues on whatever the model and
	// the deterministic checks can do without rule context.
	matches, coverage := v.store.Retrieve(req.CitationText, v.config.MaxLocalRules, v.config.MaxGeneralRules)
	phase = v.advance(span, phase, PhaseRulesRetrieved)

	result := &Result{
		RunID:      runID,
		SourceType: sourceType,
		Components: components,
		Coverage:   coverage,
	}

	outcome := llm.Complete(ctx, v.client, v.limiter,
		reviewSystemPrompt, buildUserPrompt(req, sourceType, matches), v.config.Params)

	switch outcome.State {
	case llm.OutcomeSuccess:
		phase = v.advance(span, phase, PhaseLLMCalled)

		var verdict llmVerdict
		if err := json.Unmarshal(outcome.Data, &verdict); err != nil {
			v.logger.Warn("model JSON does not match the verdict schema",
				"run_id", runID, "error", err)
			return v.finishDegraded(ctx, span, phase, result, findings,
				"verdict schema mismatch", start)
		}

		report := grounding.RequireEvidence(verdict.Errors, matches)
		grounding.RecordEvidence(ctx, report)
		result.EvidenceValidated = report.Success
		result.EvidenceIssues = report.Issues
		if !report.Success {
			v.logger.Warn("model claims failed evidence validation",
				"run_id", runID, "issues", len(report.Issues))
		}
		phase = v.advance(span, phase, PhaseEvidenceChecked)

		result.Errors = append(findings, verdict.Errors...)
		result.CorrectedVersion = verdict.CorrectedVersion
		result.IsCorrect = verdict.IsCorrect && len(result.Errors) == 0
		v.advance(span, phase, PhaseMerged)

	case llm.OutcomeTransportFailure:
		return v.finishDegraded(ctx, span, phase, result, findings, outcome.Reason, start)

	case llm.OutcomeParseFailure:
		v.logger.Warn("model returned undecodable text",
			"run_id", runID, "raw_length", len(outcome.RawText))
		return v.finishDegraded(ctx, span, phase, result, findings,
			"model response was not decodable JSON", start)
	}

	result.ElapsedMS = time.Since(start).Milliseconds()
	SetValidationSpanResult(span, result)
	RecordValidation(ctx, "complete", time.Since(start))
	RecordReportedErrors(ctx, result)
	return result, nil
}

// finishDegraded ends a review whose model call produced nothing usable.
// Deterministic findings carry a partial result; without them the review
// fails outright.
func (v *Validator) finishDegraded(ctx context.Context, span trace.Span, phase Phase, result *Result, findings []grounding.Finding, reason string, start time.Time) (*Result, error) {
	v.advance(span, phase, PhaseLLMFailed)

	if len(findings) == 0 {
		RecordValidation(ctx, "failed", time.Since(start))
		return nil, fmt.Errorf("%w: %s", ErrLLMUnavailable, reason)
	}

	result.Errors = findings
	result.IsCorrect = false
	result.Note = fmt.Sprintf("deterministic findings only: %s", reason)
	result.ElapsedMS = time.Since(start).Milliseconds()

	SetValidationSpanResult(span, result)
	RecordValidation(ctx, "degraded", time.Since(start))
	RecordReportedErrors(ctx, result)
	return result, nil
}

// advance records a phase transition as a span event and returns the new
// phase.
func (v *Validator) advance(span trace.Span, from, to Phase) Phase {
	AddPhaseEvent(span, from, to)
	return to
}
