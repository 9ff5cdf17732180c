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

	"github.com/AleutianAI/CiteCheck/pkg/cite"
	"github.com/AleutianAI/CiteCheck/pkg/ux"
)

// classifyReport is the --json shape for classification.
type classifyReport struct {
	SourceType cite.SourceType `json:"source_type"`
	Components cite.Components `json:"components"`
	Strategies []string        `json:"strategies"`
}

func runClassify(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		ux.Error("pass a citation to classify")
		os.Exit(exitError)
	}
	citation := strings.Join(args, " ")

	// Classification never fails; UNKNOWN is a valid answer.
	sourceType, components := cite.Classify(citation)
	strategies := cite.Strategies(sourceType)

	if jsonOutput {
		printJSON(classifyReport{
			SourceType: sourceType,
			Components: components,
			Strategies: strategies,
		})
		return
	}

	fmt.Print(ux.RenderClassification(sourceType, components))
	if ux.GetMode() == ux.ModeMachine {
		fmt.Printf("STRATEGIES: %s\n", strings.Join(strategies, ","))
	} else {
		fmt.Printf("Strategies: %s\n", strings.Join(strategies, ", "))
	}
}
