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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CiteCheck/pkg/rules"
	"github.com/AleutianAI/CiteCheck/pkg/ux"
)

// searchReport is the --json shape for a retrieval dry-run.
type searchReport struct {
	Query    string         `json:"query"`
	Matches  []rules.Match  `json:"matches"`
	Coverage rules.Coverage `json:"coverage"`
}

func runRulesSearch(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		ux.Error("pass search terms or a citation fragment")
		os.Exit(exitError)
	}
	query := strings.Join(args, " ")

	store := buildStore()

	maxLocal := cliConfig.Retrieval.MaxLocalRules
	if searchLocal > 0 {
		maxLocal = searchLocal
	}
	maxGeneral := cliConfig.Retrieval.MaxGeneralRules
	if searchGeneral > 0 {
		maxGeneral = searchGeneral
	}

	matches, coverage := store.Retrieve(query, maxLocal, maxGeneral)

	if jsonOutput {
		if matches == nil {
			matches = []rules.Match{}
		}
		printJSON(searchReport{Query: query, Matches: matches, Coverage: coverage})
		return
	}

	fmt.Print(ux.RenderMatches(matches))
	printCoverage(coverage)
}

// printCoverage reports how much of each corpus the query touched.
func printCoverage(cov rules.Coverage) {
	if ux.GetMode() == ux.ModeMachine {
		fmt.Printf("COVERAGE: local=%d/%d general=%d/%d\n",
			cov.LocalReturned, cov.LocalScanned, cov.GeneralReturned, cov.GeneralScanned)
		fmt.Printf("TERMS: %s\n", strings.Join(cov.SearchTerms, ","))
		return
	}
	ux.Muted(fmt.Sprintf("%d/%d local · %d/%d general · terms: %s",
		cov.LocalReturned, cov.LocalScanned,
		cov.GeneralReturned, cov.GeneralScanned,
		strings.Join(cov.SearchTerms, ", ")))
}
