// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"log/slog"
	"sync"
	"time"
)

// Store owns the current corpus snapshot. Each corpus is immutable once
// built; Reload builds a whole new one and swaps the pointer under the
// write lock, so readers always see either the previous complete snapshot
// or the new complete snapshot, never a partial index.
//
// A Store with no snapshot (initial load failed and no reload has succeeded
// yet) operates degraded: Retrieve returns no matches and zero-valued
// coverage so citation checking can continue on deterministic checks alone.
type Store struct {
	mu        sync.RWMutex
	corpus    *Corpus
	retriever *Retriever
	path      string
	loadErr   error

	logger *slog.Logger
}

// StoreStatus is a snapshot of the store's state for status endpoints.
type StoreStatus struct {
	Loaded        bool      `json:"loaded"`
	Degraded      bool      `json:"degraded"`
	Path          string    `json:"path"`
	LocalRules    int       `json:"local_rules"`
	GeneralRules  int       `json:"general_rules"`
	SchemaVersion string    `json:"schema_version,omitempty"`
	LoadedAt      time.Time `json:"loaded_at,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
}

// NewStore creates a store bound to a corpus path and attempts the initial
// load. The returned error is the initial load error (wrapped ErrCorpusLoad)
// when loading failed; the store itself is still usable in degraded mode,
// which is why both values can be non-nil together.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, logger: logger}
	err := s.Reload()
	return s, err
}

// Reload rebuilds the corpus from disk and swaps it in. On failure the
// previous snapshot (if any) stays active and the error is recorded for
// Status; the store never downgrades from a good snapshot to a broken one.
func (s *Store) Reload() error {
	corpus, err := LoadCorpus(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErr = err
		s.logger.Warn("corpus reload failed, keeping previous snapshot",
			"path", s.path, "error", err, "have_snapshot", s.corpus != nil)
		return err
	}
	s.corpus = corpus
	s.retriever = NewRetriever(corpus)
	s.loadErr = nil
	s.logger.Info("corpus loaded",
		"path", s.path,
		"local_rules", len(corpus.Local),
		"general_rules", len(corpus.General),
		"schema_version", corpus.SchemaVersion)
	return nil
}

// Retrieve runs keyword retrieval against the current snapshot. With no
// snapshot it degrades to an empty result with zero-valued coverage that
// still carries the extracted search terms, preserving auditability.
func (s *Store) Retrieve(text string, maxLocal, maxGeneral int) ([]Match, Coverage) {
	s.mu.RLock()
	r := s.retriever
	s.mu.RUnlock()

	if r == nil {
		return nil, Coverage{SearchTerms: extractTerms(text)}
	}
	return r.Retrieve(text, maxLocal, maxGeneral)
}

// Current returns the active snapshot, or nil when degraded.
func (s *Store) Current() *Corpus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corpus
}

// Path returns the corpus file path this store watches and loads.
func (s *Store) Path() string {
	return s.path
}

// Status reports the store's state for health and corpus endpoints.
func (s *Store) Status() StoreStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := StoreStatus{
		Path:     s.path,
		Loaded:   s.corpus != nil,
		Degraded: s.corpus == nil,
	}
	if s.corpus != nil {
		st.LocalRules = len(s.corpus.Local)
		st.GeneralRules = len(s.corpus.General)
		st.SchemaVersion = s.corpus.SchemaVersion
		st.LoadedAt = s.corpus.LoadedAt
	}
	if s.loadErr != nil {
		st.LastError = s.loadErr.Error()
	}
	return st
}
