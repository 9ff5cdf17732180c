// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/CiteCheck/services/citecheck/datatypes"
)

func TestHandleClassify_SupremeCourt(t *testing.T) {
	router := createTestRouter("POST", "/v1/citations/classify", HandleClassify())

	w := performRequest(router, "POST", "/v1/citations/classify",
		datatypes.ClassifyRequest{CitationText: flawedCase})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.ClassifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "SUPREME_COURT", string(resp.SourceType))
	assert.Equal(t, "Alice Corp.", resp.Components.Party1)
	assert.Equal(t, "CLS Bank Int'l", resp.Components.Party2)
	assert.Equal(t, "2014", resp.Components.Year)
	require.NotEmpty(t, resp.Strategies)
	assert.Equal(t, "supreme_court_website", resp.Strategies[0])
}

func TestHandleClassify_Statute(t *testing.T) {
	router := createTestRouter("POST", "/v1/citations/classify", HandleClassify())

	w := performRequest(router, "POST", "/v1/citations/classify",
		datatypes.ClassifyRequest{CitationText: cleanStatute})

	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.ClassifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "FEDERAL_STATUTE", string(resp.SourceType))
	assert.Equal(t, "35", resp.Components.TitleNumber)
	assert.Equal(t, "101", resp.Components.Section)
	assert.Equal(t, "uscode_house_gov", resp.Strategies[0])
}

func TestHandleClassify_UnknownSalvagesYear(t *testing.T) {
	router := createTestRouter("POST", "/v1/citations/classify", HandleClassify())

	w := performRequest(router, "POST", "/v1/citations/classify",
		datatypes.ClassifyRequest{CitationText: "some unrecognizable reference (2021)"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.ClassifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "UNKNOWN", string(resp.SourceType))
	assert.Equal(t, "2021", resp.Components.Year)
	assert.Contains(t, resp.Strategies, "web_search")
}

func TestHandleClassify_MissingText(t *testing.T) {
	router := createTestRouter("POST", "/v1/citations/classify", HandleClassify())

	w := performRequest(router, "POST", "/v1/citations/classify", datatypes.ClassifyRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
