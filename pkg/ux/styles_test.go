// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

// Helper to capture stdout
func captureStdout(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// Helper to capture stderr
func captureStderr(f func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	f()

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

// =============================================================================
// Icon.Render Tests
// =============================================================================

func TestIcon_Render_Correct(t *testing.T) {
	result := IconCorrect.Render()
	if result == "" {
		t.Error("expected non-empty result for IconCorrect")
	}
	if !strings.Contains(result, "✓") {
		t.Errorf("expected checkmark in %q", result)
	}
}

func TestIcon_Render_Error(t *testing.T) {
	result := IconError.Render()
	if !strings.Contains(result, "✗") {
		t.Errorf("expected cross in %q", result)
	}
}

func TestIcon_Render_Unstyled(t *testing.T) {
	// Arrow has no semantic color; Render returns it as-is.
	if IconArrow.Render() != "→" {
		t.Errorf("expected plain arrow, got %q", IconArrow.Render())
	}
}

// =============================================================================
// Print Helper Tests (machine mode gives stable text)
// =============================================================================

func TestSuccess_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	out := captureStdout(func() { Success("corpus loaded") })

	if out != "OK: corpus loaded\n" {
		t.Errorf("expected machine success line, got %q", out)
	}
}

func TestWarning_MachineMode_GoesToStderr(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	errOut := captureStderr(func() { Warning("model unavailable") })

	if errOut != "WARN: model unavailable\n" {
		t.Errorf("expected machine warning on stderr, got %q", errOut)
	}
}

func TestError_MachineMode_GoesToStderr(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	errOut := captureStderr(func() { Error("review failed") })

	if errOut != "ERROR: review failed\n" {
		t.Errorf("expected machine error on stderr, got %q", errOut)
	}
}

func TestSuccess_PlainMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModePlain)

	out := captureStdout(func() { Success("citation is correct") })

	if out != "✓ citation is correct\n" {
		t.Errorf("expected plain success line, got %q", out)
	}
}

func TestTitle_MachineMode_Silent(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	out := captureStdout(func() { Title("CiteCheck") })

	if out != "" {
		t.Errorf("expected no title output in machine mode, got %q", out)
	}
}

func TestMuted_MachineMode_Silent(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	out := captureStdout(func() { Muted("12 rules consulted") })

	if out != "" {
		t.Errorf("expected no muted output in machine mode, got %q", out)
	}
}

func TestInfo_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	out := captureStdout(func() { Info("checking 3 citations") })

	if out != "checking 3 citations\n" {
		t.Errorf("expected bare info line, got %q", out)
	}
}

func TestBox_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	out := captureStdout(func() { Box("Verdict", "correct") })

	if out != "Verdict: correct\n" {
		t.Errorf("expected key-value line, got %q", out)
	}
}

// =============================================================================
// ReviewSummary Tests
// =============================================================================

func TestReviewSummary_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	out := captureStdout(func() { ReviewSummary(7, 2, 1) })

	if out != "SUMMARY: correct=7 flawed=2 failed=1 total=10\n" {
		t.Errorf("expected summary line, got %q", out)
	}
}

func TestReviewSummary_PlainMode_HasCounts(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModePlain)

	out := captureStdout(func() { ReviewSummary(7, 2, 1) })

	for _, want := range []string{"7", "correct", "2", "flawed", "1", "failed", "10", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected summary to contain %q, got %q", want, out)
		}
	}
}

// =============================================================================
// ProgressBar Tests
// =============================================================================

func TestProgressBar_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	if got := ProgressBar(3, 10, 20); got != "3/10" {
		t.Errorf("expected '3/10', got %q", got)
	}
}

func TestProgressBar_PlainMode_Percentage(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModePlain)

	out := ProgressBar(5, 10, 20)

	if !strings.Contains(out, "50%") {
		t.Errorf("expected 50%% in %q", out)
	}
}

func TestProgressBar_ZeroTotal(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModePlain)

	// Must not divide by zero.
	out := ProgressBar(0, 0, 20)
	if out == "" {
		t.Error("expected non-empty bar for zero total")
	}
}

func TestRepeatChar(t *testing.T) {
	if got := repeatChar('x', 3); got != "xxx" {
		t.Errorf("expected 'xxx', got %q", got)
	}
	if got := repeatChar('x', 0); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := repeatChar('x', -1); got != "" {
		t.Errorf("expected empty string for negative count, got %q", got)
	}
}
