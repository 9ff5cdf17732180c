// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that are embedded
// in model prompts, audit records, or log streams. Using these validators
// prevents prompt-structure corruption and log injection: a citation carrying
// raw control characters can break the framing of the review prompt or split
// a log line into two.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MaxCitationBytes is the largest citation text any surface accepts.
	// Footnote citations run a few hundred bytes; anything near this limit
	// is a paste error or an attack, not a citation.
	MaxCitationBytes = 8 * 1024

	// MaxPositionBytes bounds the free-text document position label.
	MaxPositionBytes = 256
)

// ValidateCitationText validates citation text before it enters the review
// pipeline.
//
// Valid citation text:
//   - Non-empty after trimming whitespace
//   - At most MaxCitationBytes bytes
//   - Valid UTF-8
//   - No control characters other than tab, newline, and carriage return
//
// Tab and line breaks survive because footnote citations arrive wrapped the
// way the source document wrapped them. Everything else in the C0 range, and
// DEL, is rejected.
//
// Returns an error describing the first problem found.
//
// Example:
//
//	if err := validation.ValidateCitationText(text); err != nil {
//	    return nil, fmt.Errorf("invalid citation: %w", err)
//	}
//	// Safe to embed in the review prompt
func ValidateCitationText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("citation text cannot be empty")
	}

	if len(text) > MaxCitationBytes {
		return fmt.Errorf("citation text is %d bytes (limit %d)", len(text), MaxCitationBytes)
	}

	if !utf8.ValidString(text) {
		return fmt.Errorf("citation text is not valid UTF-8")
	}

	for _, r := range text {
		if isForbiddenControl(r) {
			return fmt.Errorf("citation text contains control character %q", r)
		}
	}

	return nil
}

// ValidateCitationTexts validates multiple citation texts.
// Returns an error naming the offending indexes if any fail validation.
func ValidateCitationTexts(texts []string) error {
	var invalid []int
	for i, text := range texts {
		if err := ValidateCitationText(text); err != nil {
			invalid = append(invalid, i)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid citation text at indexes: %v", invalid)
	}
	return nil
}

// SanitizeCitationText trims and validates citation text.
// Returns the trimmed text if valid, or an error if invalid.
//
// Citation text is never case-folded or reflowed: capitalization and internal
// spacing are exactly what the review examines.
//
// Use this when you need both validation and the canonical trimmed form:
//
//	clean, err := validation.SanitizeCitationText(userInput)
//	if err != nil {
//	    return err
//	}
//	// clean has no leading or trailing whitespace and passed validation
func SanitizeCitationText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if err := ValidateCitationText(trimmed); err != nil {
		return "", err
	}
	return trimmed, nil
}

// ValidatePosition validates the optional document position label that
// accompanies a citation ("Part II.A", "note 45", "page 1203").
//
// Empty is valid; the field is optional. A non-empty position must be a
// single line of at most MaxPositionBytes bytes of valid UTF-8 with no
// control characters at all.
func ValidatePosition(position string) error {
	if position == "" {
		return nil
	}

	if len(position) > MaxPositionBytes {
		return fmt.Errorf("position is %d bytes (limit %d)", len(position), MaxPositionBytes)
	}

	if !utf8.ValidString(position) {
		return fmt.Errorf("position is not valid UTF-8")
	}

	for _, r := range position {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("position contains control character %q", r)
		}
	}

	return nil
}

// isForbiddenControl reports whether r is a control character that citation
// text may not carry. Tab, newline, and carriage return are allowed.
func isForbiddenControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || r == 0x7f
}
