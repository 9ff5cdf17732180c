// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AleutianAI/CiteCheck/pkg/ux"
)

// TestReadCitationLines verifies trimming and blank-line handling
func TestReadCitationLines(t *testing.T) {
	input := "Marbury v. Madison, 5 U.S. 137 (1803)\n\n   17 U.S.C. § 107 (2018)  \n\t\n410 U.S. 113 (1973)\n"

	citations, err := readCitationLines(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readCitationLines failed: %v", err)
	}

	want := []string{
		"Marbury v. Madison, 5 U.S. 137 (1803)",
		"17 U.S.C. § 107 (2018)",
		"410 U.S. 113 (1973)",
	}
	if len(citations) != len(want) {
		t.Fatalf("got %d citations, want %d: %v", len(citations), len(want), citations)
	}
	for i := range want {
		if citations[i] != want[i] {
			t.Errorf("citations[%d] = %q, want %q", i, citations[i], want[i])
		}
	}
}

func TestReadCitationLines_CRLF(t *testing.T) {
	citations, err := readCitationLines(strings.NewReader("first cite\r\nsecond cite\r\n"))
	if err != nil {
		t.Fatalf("readCitationLines failed: %v", err)
	}
	if len(citations) != 2 || citations[0] != "first cite" || citations[1] != "second cite" {
		t.Errorf("CRLF input parsed as %v", citations)
	}
}

func TestReadCitationLines_Empty(t *testing.T) {
	citations, err := readCitationLines(strings.NewReader("\n\n\t\n"))
	if err != nil {
		t.Fatalf("readCitationLines failed: %v", err)
	}
	if len(citations) != 0 {
		t.Errorf("expected no citations, got %v", citations)
	}
}

func TestLoadCitationsFile(t *testing.T) {
	// 1. Write a fixture file
	path := filepath.Join(t.TempDir(), "footnotes.txt")
	content := "Alice Corp. v. CLS Bank Int'l, 573 U.S. 208 (2014)\n\n35 U.S.C. § 101 (2018)\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	// 2. Load it
	citations, err := loadCitationsFile(path)
	if err != nil {
		t.Fatalf("loadCitationsFile failed: %v", err)
	}

	// 3. Verify order and blank-line skipping
	if len(citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(citations))
	}
	if citations[1] != "35 U.S.C. § 101 (2018)" {
		t.Errorf("citations[1] = %q", citations[1])
	}
}

func TestLoadCitationsFile_Missing(t *testing.T) {
	if _, err := loadCitationsFile(filepath.Join(t.TempDir(), "no_such_file.txt")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestGatherCitations_SingleArgJoined(t *testing.T) {
	citations, batch, err := gatherCitations([]string{"410", "U.S.", "113", "(1973)"})
	if err != nil {
		t.Fatalf("gatherCitations failed: %v", err)
	}
	if batch {
		t.Error("a quoted argument should not be a batch")
	}
	if len(citations) != 1 || citations[0] != "410 U.S. 113 (1973)" {
		t.Errorf("citations = %v", citations)
	}
}

func TestGatherCitations_FileIsBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.txt")
	if err := os.WriteFile(path, []byte("solo citation\n"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	checkFile = path
	defer func() { checkFile = "" }()

	citations, batch, err := gatherCitations(nil)
	if err != nil {
		t.Fatalf("gatherCitations failed: %v", err)
	}
	if !batch {
		t.Error("--file input must be a batch even with one line")
	}
	if len(citations) != 1 {
		t.Errorf("citations = %v", citations)
	}
}

func TestGatherCitations_ArgAndFileConflict(t *testing.T) {
	checkFile = "somewhere.txt"
	defer func() { checkFile = "" }()

	if _, _, err := gatherCitations([]string{"a citation"}); err == nil {
		t.Error("expected an error when both a citation and --file are given")
	}
}

func TestApplyOutputFlags_JSONImpliesMachine(t *testing.T) {
	previous := ux.GetMode()
	defer ux.SetMode(previous)

	jsonOutput = true
	defer func() { jsonOutput = false }()

	applyOutputFlags()
	if ux.GetMode() != ux.ModeMachine {
		t.Errorf("mode = %v, want machine", ux.GetMode())
	}
}

func TestApplyOutputFlags_NoColorImpliesPlain(t *testing.T) {
	previous := ux.GetMode()
	defer ux.SetMode(previous)

	noColor = true
	defer func() { noColor = false }()

	applyOutputFlags()
	if ux.GetMode() != ux.ModePlain {
		t.Errorf("mode = %v, want plain", ux.GetMode())
	}
}
