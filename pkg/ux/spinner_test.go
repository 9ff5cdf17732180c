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
	"errors"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// NewSpinner Tests
// =============================================================================

func TestNewSpinner_ReturnsNonNil(t *testing.T) {
	spin := NewSpinner("Checking citation")
	if spin == nil {
		t.Fatal("expected non-nil spinner")
	}
}

func TestNewSpinner_SetsMessage(t *testing.T) {
	spin := NewSpinner("Checking citation")
	if spin.message != "Checking citation" {
		t.Errorf("expected message 'Checking citation', got %q", spin.message)
	}
}

func TestNewSpinner_DefaultsToDotsType(t *testing.T) {
	spin := NewSpinner("test")
	if spin.spinType != SpinnerDots {
		t.Errorf("expected SpinnerDots default, got %v", spin.spinType)
	}
}

func TestNewSpinner_InitializesChannels(t *testing.T) {
	spin := NewSpinner("test")
	if spin.stop == nil {
		t.Error("expected stop channel to be initialized")
	}
	if spin.done == nil {
		t.Error("expected done channel to be initialized")
	}
}

// =============================================================================
// WithType Tests
// =============================================================================

func TestSpinner_WithType_Pulse(t *testing.T) {
	spin := NewSpinner("test").WithType(SpinnerPulse)
	if spin.spinType != SpinnerPulse {
		t.Errorf("expected SpinnerPulse, got %v", spin.spinType)
	}
}

func TestSpinner_WithType_Chaining(t *testing.T) {
	spin := NewSpinner("test").WithType(SpinnerPulse).WithType(SpinnerDots)
	if spin.spinType != SpinnerDots {
		t.Errorf("expected SpinnerDots after chain, got %v", spin.spinType)
	}
}

// =============================================================================
// Start / Stop Tests
// =============================================================================

func TestSpinner_Start_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	spin := NewSpinner("Reviewing")
	out := captureStdout(func() { spin.Start() })

	if out != "PROGRESS: Reviewing\n" {
		t.Errorf("expected single progress line, got %q", out)
	}

	spin.Stop()
}

func TestSpinner_Stop_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	spin := NewSpinner("Reviewing")
	spin.Start()
	// Must not block or panic even though no animation goroutine ran.
	spin.Stop()
}

func TestSpinner_Start_AlreadyRunning(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	spin := NewSpinner("Reviewing")

	out := captureStdout(func() {
		spin.Start()
		spin.Start()
	})

	if strings.Count(out, "PROGRESS:") != 1 {
		t.Errorf("expected one progress line for double start, got %q", out)
	}

	spin.Stop()
}

func TestSpinner_Stop_NotRunning(t *testing.T) {
	spin := NewSpinner("Reviewing")
	// Stop before Start is a no-op.
	spin.Stop()
}

func TestSpinner_StartStop_RichMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeRich)

	spin := NewSpinner("Reviewing")

	out := captureStdout(func() {
		spin.Start()
		// Give the animation a few frames.
		time.Sleep(200 * time.Millisecond)
		spin.Stop()
	})

	if !strings.Contains(out, "Reviewing") {
		t.Errorf("expected animated frames with the message, got %q", out)
	}
}

// =============================================================================
// UpdateMessage Tests
// =============================================================================

func TestSpinner_UpdateMessage(t *testing.T) {
	spin := NewSpinner("Initial message")

	spin.UpdateMessage("Updated message")

	if spin.message != "Updated message" {
		t.Errorf("expected 'Updated message', got %q", spin.message)
	}
}

// =============================================================================
// StopWith Tests
// =============================================================================

func TestSpinner_StopWithSuccess_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	spin := NewSpinner("Reviewing")
	spin.Start()

	out := captureStdout(func() { spin.StopWithSuccess("citation is correct") })

	if !strings.Contains(out, "OK: citation is correct") {
		t.Errorf("expected OK line, got %q", out)
	}
}

func TestSpinner_StopWithError_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	spin := NewSpinner("Reviewing")
	spin.Start()

	errOut := captureStderr(func() { spin.StopWithError("model unavailable") })

	if !strings.Contains(errOut, "ERROR: model unavailable") {
		t.Errorf("expected ERROR line on stderr, got %q", errOut)
	}
}

func TestSpinner_StopWithWarning_MachineMode(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	spin := NewSpinner("Reviewing")
	spin.Start()

	errOut := captureStderr(func() { spin.StopWithWarning("degraded review") })

	if !strings.Contains(errOut, "WARN: degraded review") {
		t.Errorf("expected WARN line on stderr, got %q", errOut)
	}
}

// =============================================================================
// WithSpinner Tests
// =============================================================================

func TestWithSpinner_Success(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	called := false
	err := WithSpinner("Loading corpus", func() error {
		called = true
		return nil
	})

	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if !called {
		t.Error("expected function to be called")
	}
}

func TestWithSpinner_Error(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	wantErr := errors.New("corpus missing")
	err := WithSpinner("Loading corpus", func() error {
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("expected original error back, got %v", err)
	}
}

// =============================================================================
// ProgressSpinner Tests
// =============================================================================

func TestNewProgressSpinner_SetsTotal(t *testing.T) {
	ps := NewProgressSpinner("Checking", 25)
	if ps.total != 25 {
		t.Errorf("expected total 25, got %d", ps.total)
	}
	if ps.current != 0 {
		t.Errorf("expected current 0, got %d", ps.current)
	}
}

func TestProgressSpinner_Increment_Multiple(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModeMachine)

	ps := NewProgressSpinner("Checking", 10)

	for i := 0; i < 5; i++ {
		ps.Increment()
	}

	if ps.current != 5 {
		t.Errorf("expected current 5, got %d", ps.current)
	}
}

func TestProgressSpinner_Increment_UpdatesMessageOnce(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModePlain)

	ps := NewProgressSpinner("Checking", 5)

	ps.Increment()
	ps.Increment()

	if ps.message != "Checking [2/5]" {
		t.Errorf("expected message 'Checking [2/5]', got %q", ps.message)
	}
	if strings.Count(ps.message, "[") != 1 {
		t.Errorf("expected a single progress suffix, got %q", ps.message)
	}
}

func TestProgressSpinner_SetProgress(t *testing.T) {
	orig := GetMode()
	defer SetMode(orig)
	SetMode(ModePlain)

	ps := NewProgressSpinner("Checking", 10)

	ps.SetProgress(7)

	if ps.current != 7 {
		t.Errorf("expected current 7, got %d", ps.current)
	}
	if ps.message != "Checking [7/10]" {
		t.Errorf("expected message 'Checking [7/10]', got %q", ps.message)
	}
}

// =============================================================================
// Frame Table Tests
// =============================================================================

func TestSpinnerFrames_Exist(t *testing.T) {
	for _, st := range []SpinnerType{SpinnerDots, SpinnerPulse} {
		frames := spinnerFrames[st]
		if len(frames) == 0 {
			t.Errorf("expected frames for spinner type %v", st)
		}
	}
}
