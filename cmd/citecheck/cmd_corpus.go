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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/CiteCheck/pkg/ux"
)

func runCorpusInfo(cmd *cobra.Command, args []string) {
	store := buildStore()
	status := store.Status()

	if jsonOutput {
		printJSON(status)
	} else {
		fmt.Print(ux.RenderStatus(status))
	}

	// Scripted health checks key off the exit code.
	if status.Degraded || !status.Loaded {
		os.Exit(exitFlawed)
	}
}
