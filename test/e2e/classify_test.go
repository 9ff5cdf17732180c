package e2e

import (
	"encoding/json"
	"strings"
	"testing"
)

// classifyOutput mirrors the --json shape of the classify command. Only
// the fields the assertions touch are declared; extra keys are fine.
type classifyOutput struct {
	SourceType string `json:"source_type"`
	Components struct {
		Party1      string `json:"party1"`
		Party2      string `json:"party2"`
		Volume      string `json:"volume"`
		Reporter    string `json:"reporter"`
		Page        string `json:"page"`
		Year        string `json:"year"`
		TitleNumber string `json:"title_number"`
		Section     string `json:"section"`
	} `json:"components"`
	Strategies []string `json:"strategies"`
}

// TestClassifyJSON_Case runs the classifier end to end on a Supreme Court
// citation and checks that --json produces a parseable report on stdout.
func TestClassifyJSON_Case(t *testing.T) {
	citation := "Alice Corp. v. CLS Bank Int'l, 573 U.S. 208 (2014)"
	stdout, stderr, code := runCLI(t, t.TempDir(), "classify", citation, "--json")

	if code != 0 {
		t.Fatalf("classify exited %d\nstderr: %s", code, stderr)
	}

	var report classifyOutput
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("stdout is not JSON: %v\nstdout: %s", err, stdout)
	}

	if report.SourceType != "SUPREME_COURT" {
		t.Errorf("source_type = %q, want SUPREME_COURT", report.SourceType)
	}
	if report.Components.Party1 != "Alice Corp." {
		t.Errorf("party1 = %q, want Alice Corp.", report.Components.Party1)
	}
	if report.Components.Year != "2014" {
		t.Errorf("year = %q, want 2014", report.Components.Year)
	}
	if len(report.Strategies) == 0 {
		t.Error("expected at least one verification strategy")
	}
}

// TestClassifyJSON_Statute covers the statute path, including the section
// symbol surviving the trip through argv and JSON encoding.
func TestClassifyJSON_Statute(t *testing.T) {
	stdout, stderr, code := runCLI(t, t.TempDir(), "classify", "35 U.S.C. § 101 (2018)", "--json")

	if code != 0 {
		t.Fatalf("classify exited %d\nstderr: %s", code, stderr)
	}

	var report classifyOutput
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("stdout is not JSON: %v\nstdout: %s", err, stdout)
	}

	if report.SourceType != "FEDERAL_STATUTE" {
		t.Errorf("source_type = %q, want FEDERAL_STATUTE", report.SourceType)
	}
	if report.Components.TitleNumber != "35" || report.Components.Section != "101" {
		t.Errorf("title/section = %q/%q, want 35/101",
			report.Components.TitleNumber, report.Components.Section)
	}
}

// TestClassify_GarbageIsStillAnAnswer checks that unrecognizable input is
// reported as UNKNOWN rather than failing the run. Classification has no
// error path; only a missing argument is a usage error.
func TestClassify_GarbageIsStillAnAnswer(t *testing.T) {
	stdout, stderr, code := runCLI(t, t.TempDir(), "classify", "!!! not a citation at all ???", "--json")

	if code != 0 {
		t.Fatalf("classify exited %d\nstderr: %s", code, stderr)
	}

	var report classifyOutput
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("stdout is not JSON: %v\nstdout: %s", err, stdout)
	}
	if report.SourceType != "UNKNOWN" {
		t.Errorf("source_type = %q, want UNKNOWN", report.SourceType)
	}
}

// TestClassify_NoArgument checks the usage error path and its exit code.
func TestClassify_NoArgument(t *testing.T) {
	_, stderr, code := runCLI(t, t.TempDir(), "classify")

	if code != 2 {
		t.Fatalf("expected exit 2 for a missing argument, got %d", code)
	}
	if !strings.Contains(stderr, "pass a citation") {
		t.Errorf("stderr should explain the usage error, got: %s", stderr)
	}
}
