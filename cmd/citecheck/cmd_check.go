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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/CiteCheck/pkg/ux"
	"github.com/AleutianAI/CiteCheck/pkg/validate"
)

// checkReport pairs a citation with its review outcome for batch output.
type checkReport struct {
	Citation string           `json:"citation"`
	Result   *validate.Result `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// batchReport is the --json shape for multi-citation runs.
type batchReport struct {
	Items   []checkReport `json:"items"`
	Correct int           `json:"correct"`
	Flawed  int           `json:"flawed"`
	Failed  int           `json:"failed"`
}

func runCheck(cmd *cobra.Command, args []string) {
	citations, batch, err := gatherCitations(args)
	if err != nil {
		ux.Error(err.Error())
		os.Exit(exitError)
	}
	if len(citations) == 0 {
		ux.Error("nothing to review: pass a citation, --file, or pipe citations on stdin")
		os.Exit(exitError)
	}

	store := buildStore()
	reviewer, err := buildReviewer(store)
	if err != nil {
		ux.Error(err.Error())
		os.Exit(exitError)
	}

	if batch {
		os.Exit(checkMany(cmd.Context(), reviewer, citations))
	}
	os.Exit(checkOne(cmd.Context(), reviewer, citations[0]))
}

// gatherCitations resolves the three input sources. A quoted argument is
// a single review; --file and piped stdin are batches even when they
// hold one line, so scripted output stays shape-stable.
func gatherCitations(args []string) (citations []string, batch bool, err error) {
	switch {
	case checkFile != "" && len(args) > 0:
		return nil, false, fmt.Errorf("pass a citation or --file, not both")
	case checkFile != "":
		citations, err = loadCitationsFile(checkFile)
		if err != nil {
			return nil, false, fmt.Errorf("reading %s: %w", checkFile, err)
		}
		return citations, true, nil
	case len(args) > 0:
		return []string{strings.Join(args, " ")}, false, nil
	case ux.StdinIsPiped():
		citations, err = readCitationLines(os.Stdin)
		if err != nil {
			return nil, false, fmt.Errorf("reading stdin: %w", err)
		}
		return citations, true, nil
	default:
		return nil, false, nil
	}
}

func checkOne(ctx context.Context, reviewer *validate.Validator, citation string) int {
	spinner := ux.NewSpinner("Reviewing citation")
	spinner.Start()

	result, err := reviewer.Validate(ctx, validate.Request{
		CitationText:    citation,
		FootnoteNumber:  footnoteNum,
		CitationOrdinal: citationOrd,
		Position:        citationPos,
	})
	if err != nil {
		spinner.StopWithError("Review failed")
		ux.Error(err.Error())
		return exitError
	}
	spinner.Stop()

	if jsonOutput {
		printJSON(result)
	} else {
		fmt.Print(ux.RenderResult(result))
	}

	if !result.IsCorrect {
		return exitFlawed
	}
	return exitOK
}

func checkMany(ctx context.Context, reviewer *validate.Validator, citations []string) int {
	reports := make([]checkReport, len(citations))

	progress := ux.NewProgressSpinner("Reviewing citations", len(citations))
	progress.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cliConfig.Server.BatchWorkers)
	for i, citation := range citations {
		g.Go(func() error {
			result, err := reviewer.Validate(gctx, validate.Request{
				CitationText:    citation,
				CitationOrdinal: i + 1,
			})
			if err != nil {
				reports[i] = checkReport{Citation: citation, Error: err.Error()}
			} else {
				reports[i] = checkReport{Citation: citation, Result: result}
			}
			progress.Increment()
			// A failed review is an item outcome, not a batch failure.
			return nil
		})
	}
	_ = g.Wait()
	progress.Stop()

	var correct, flawed, failed int
	for _, r := range reports {
		switch {
		case r.Error != "":
			failed++
		case r.Result.IsCorrect:
			correct++
		default:
			flawed++
		}
	}

	if jsonOutput {
		printJSON(batchReport{Items: reports, Correct: correct, Flawed: flawed, Failed: failed})
	} else {
		for i, r := range reports {
			renderBatchItem(i+1, r)
		}
		ux.ReviewSummary(correct, flawed, failed)
	}

	return batchExitCode(len(reports), flawed, failed)
}

// batchExitCode maps batch outcomes onto exit codes: every item failing
// is a tool failure, any flaw or partial failure reports flawed, and an
// all-correct run reports OK.
func batchExitCode(total, flawed, failed int) int {
	switch {
	case total > 0 && failed == total:
		return exitError
	case flawed > 0 || failed > 0:
		return exitFlawed
	default:
		return exitOK
	}
}

// renderBatchItem prints one citation's outcome in the current mode.
func renderBatchItem(n int, report checkReport) {
	if ux.GetMode() == ux.ModeMachine {
		fmt.Printf("CITATION %d: %s\n", n, report.Citation)
		if report.Error != "" {
			fmt.Printf("FAILED: %s\n", report.Error)
			return
		}
		fmt.Print(ux.RenderResult(report.Result))
		return
	}

	fmt.Printf("\n[%d] %s\n", n, report.Citation)
	if report.Error != "" {
		ux.Error("review failed: " + report.Error)
		return
	}
	fmt.Print(ux.RenderResult(report.Result))
}
