package test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/AleutianAI/CiteCheck/pkg/cite"
	"github.com/AleutianAI/CiteCheck/pkg/grounding"
	"github.com/AleutianAI/CiteCheck/pkg/rules"
	"github.com/AleutianAI/CiteCheck/pkg/validate"
)

// Release pins for v1.0.0. These tests freeze the public behavior the
// release shipped: the classifier's source-type answers, strategy table
// coverage, the deterministic check set, the retrieval contract, and the
// JSON wire shape. Changing one of these is a compatibility break that
// belongs in release notes, not a refactor.

func TestV1_ClassifierPins(t *testing.T) {
	pins := []struct {
		text string
		want cite.SourceType
	}{
		{"Alice Corp. v. CLS Bank Int'l, 573 U.S. 208 (2014)", cite.SourceSupremeCourt},
		{"Ultramercial, Inc. v. Hulu, LLC, 722 F.3d 1335 (Fed. Cir. 2013)", cite.SourceFederalAppellate},
		{"Cybersource Corp. v. Retail Decisions, Inc., 620 F. Supp. 2d 1068 (N.D. Cal. 2009)", cite.SourceFederalDistrict},
		{"35 U.S.C. § 101 (2018)", cite.SourceFederalStatute},
		{"37 C.F.R. § 1.56 (2020)", cite.SourceFederalRegulation},
		{"State v. Loomis, 881 N.W.2d 749 (Wis. 2016)", cite.SourceStateHighCourt},
		{"H.R. Rep. No. 112-98, at 47 (2011)", cite.SourceHouseReport},
		{"John Hart Ely, Democracy and Distrust (1980)", cite.SourceBook},
		{"!!! not a citation at all ???", cite.SourceUnknown},
	}

	for _, pin := range pins {
		got, _ := cite.Classify(pin.text)
		if got != pin.want {
			t.Errorf("Classify(%q) = %s, want %s", pin.text, got, pin.want)
		}
	}
}

func TestV1_EverySourceTypeHasStrategies(t *testing.T) {
	types := []cite.SourceType{
		cite.SourceSupremeCourt,
		cite.SourceFederalAppellate,
		cite.SourceFederalDistrict,
		cite.SourceFederalStatute,
		cite.SourceFederalRegulation,
		cite.SourceStateHighCourt,
		cite.SourceStateAppellate,
		cite.SourceLawReviewArticle,
		cite.SourceBook,
		cite.SourceCongressionalRecord,
		cite.SourceHouseReport,
		cite.SourceSenateReport,
		cite.SourceUnknown,
	}

	for _, st := range types {
		if len(cite.Strategies(st)) == 0 {
			t.Errorf("Strategies(%s) is empty; every source type shipped with guidance", st)
		}
	}

	// Unlisted types fall back to the UNKNOWN strategies rather than nil.
	if len(cite.Strategies(cite.SourceType("NOT_A_TYPE"))) == 0 {
		t.Error("unlisted source types must fall back to the UNKNOWN strategy list")
	}
}

func TestV1_DeterministicCheckSet(t *testing.T) {
	checks := grounding.NewCheckSet(nil)
	ctx := context.Background()

	// Straight apostrophe plus an unbound "v." pair: exactly two findings,
	// quote check first.
	findings := checks.Run(ctx, "Alice Corp. v. CLS Bank Int'l, 573 U.S. 208 (2014)")
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d: %+v", len(findings), findings)
	}
	if findings[0].ErrorType != grounding.ErrorTypeCurlyQuotes {
		t.Errorf("findings[0] = %s, want %s", findings[0].ErrorType, grounding.ErrorTypeCurlyQuotes)
	}
	if findings[1].ErrorType != grounding.ErrorTypeNBSP {
		t.Errorf("findings[1] = %s, want %s", findings[1].ErrorType, grounding.ErrorTypeNBSP)
	}

	// A citation already bound with U+00A0 and free of straight quotes
	// produces nothing.
	if extra := checks.Run(ctx, "35 U.S.C. §\u00a0101 (2018)"); len(extra) != 0 {
		t.Errorf("clean citation produced findings: %+v", extra)
	}
}

func TestV1_RetrievalContract(t *testing.T) {
	doc := `{
  "local_style": {"rules": [
    {"id": "4.7", "title": "Quotation marks",
     "text": "Use curly quotation marks in every case name; straight quotes are an error."}
  ]},
  "general_style": {"rules": [
    {"id": "10.2", "title": "Quotation placement",
     "text": "Quotation marks in footnote case names follow the local manual."}
  ]}
}`
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := rules.NewStore(path, nil)
	if err != nil {
		t.Fatalf("loading corpus: %v", err)
	}

	matches, coverage := store.Retrieve("quotation marks", 10, 10)
	if len(matches) < 2 {
		t.Fatalf("expected both corpora to match, got %+v", matches)
	}

	// The local manual always outranks the general manual in result order,
	// whatever the relative scores say.
	if matches[0].Source != rules.SourceLocal {
		t.Errorf("matches[0].Source = %s, want %s", matches[0].Source, rules.SourceLocal)
	}
	if coverage.LocalScanned != 1 || coverage.GeneralScanned != 1 {
		t.Errorf("coverage scanned %d/%d, want 1/1", coverage.LocalScanned, coverage.GeneralScanned)
	}

	// Wire values for the source labels.
	if rules.SourceLocal != "local_style" || rules.SourceGeneral != "general_style" {
		t.Errorf("source labels changed: %q / %q", rules.SourceLocal, rules.SourceGeneral)
	}
}

func TestV1_ReviewDefaults(t *testing.T) {
	cfg := validate.DefaultConfig()
	if cfg.MaxLocalRules != 10 || cfg.MaxGeneralRules != 10 {
		t.Errorf("rule quotas = %d/%d, want 10/10", cfg.MaxLocalRules, cfg.MaxGeneralRules)
	}
	if cfg.Params.Temperature == nil || *cfg.Params.Temperature != 0 {
		t.Error("review sampling shipped with temperature 0")
	}
	if cfg.Params.MaxTokens == nil || *cfg.Params.MaxTokens != 2048 {
		t.Error("review sampling shipped with max_tokens 2048")
	}
}

// TestV1_ResultWireShape pins the JSON keys of the review result. Clients
// key off these names; renames are breaking.
func TestV1_ResultWireShape(t *testing.T) {
	raw, err := json.Marshal(validate.Result{})
	if err != nil {
		t.Fatal(err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"run_id", "is_correct", "errors", "source_type",
		"components", "coverage", "evidence_validated", "elapsed_ms",
	} {
		if _, ok := keys[want]; !ok {
			t.Errorf("result JSON lost key %q; present keys: %v", want, keys)
		}
	}
}
