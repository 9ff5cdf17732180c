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
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath  string
	corpusPath  string
	backendName string
	modelName   string
	jsonOutput  bool
	noColor     bool
	traceDiag   bool

	checkFile   string
	footnoteNum int
	citationOrd int
	citationPos string

	searchLocal   int
	searchGeneral int

	rootCmd = &cobra.Command{
		Use:   "citecheck",
		Short: "Verify legal citations against a Bluebook-style rule corpus",
		Long: `CiteCheck reviews legal citations the way a law review staffer would:
				classify the citation, retrieve the style rules that apply, run the
				deterministic text checks, and have a language model review the rest.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyOutputFlags()
			loadCLIConfig()
			initCLILogging()
			if traceDiag {
				startDiagnostics()
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			stopDiagnostics()
			if cliLogger != nil {
				cliLogger.Close()
			}
		},
	}

	// --- Review ---
	checkCmd = &cobra.Command{
		Use:   "check [citation]",
		Short: "Review one citation, a file of citations, or piped stdin",
		Long: `check runs the full review pipeline on a citation and reports every
				style error it can pin to a rule. With --file (or citations piped on
				stdin, one per line) it reviews a batch and prints a summary.`,
		Run: runCheck, // Defined in cmd_check.go
	}

	// --- Classification ---
	classifyCmd = &cobra.Command{
		Use:   "classify [citation]",
		Short: "Classify a citation's source type and parsed components",
		Run:   runClassify, // Defined in cmd_classify.go
	}

	// --- Rules ---
	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "Inspect rule retrieval without running a review",
	}
	rulesSearchCmd = &cobra.Command{
		Use:   "search [terms]",
		Short: "Show which corpus rules a citation or query retrieves",
		Run:   runRulesSearch, // Defined in cmd_rules.go
	}

	// --- Corpus ---
	corpusCmd = &cobra.Command{
		Use:   "corpus",
		Short: "Inspect the style rule corpus",
	}
	corpusInfoCmd = &cobra.Command{
		Use:   "info",
		Short: "Show corpus counts, schema version, and load state",
		Run:   runCorpusInfo, // Defined in cmd_corpus.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a citecheck.yaml (default: CITECHECK_CONFIG, ./citecheck.yaml, ~/.citecheck/citecheck.yaml)")
	rootCmd.PersistentFlags().StringVar(&corpusPath, "corpus", "",
		"Path to the style corpus JSON (overrides config)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "",
		"Review model backend: ollama, openai, or anthropic (overrides config)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "",
		"Model name for the selected backend (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Emit JSON instead of rendered output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable styled output")
	rootCmd.PersistentFlags().BoolVar(&traceDiag, "trace", false,
		"Print spans and metrics to stdout for diagnostics")

	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "",
		"Review every citation in a file, one per line")
	checkCmd.Flags().IntVar(&footnoteNum, "footnote", 0,
		"Footnote number the citation appears in")
	checkCmd.Flags().IntVar(&citationOrd, "ordinal", 0,
		"Position of the citation within its footnote")
	checkCmd.Flags().StringVar(&citationPos, "position", "",
		"Free-form note on where the citation sits in the document")

	rootCmd.AddCommand(classifyCmd)

	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesSearchCmd)
	rulesSearchCmd.Flags().IntVar(&searchLocal, "local", 0,
		"Max local rules to return (default from config)")
	rulesSearchCmd.Flags().IntVar(&searchGeneral, "general", 0,
		"Max general rules to return (default from config)")

	rootCmd.AddCommand(corpusCmd)
	corpusCmd.AddCommand(corpusInfoCmd)
}
