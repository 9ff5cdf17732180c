// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package extensions defines interfaces for enterprise functionality.
//
// This package provides extension points that allow enterprise deployments
// to add capabilities without modifying the core CiteCheck codebase.
// The open source version uses no-op defaults for all interfaces.
//
// # Design Philosophy
//
// CiteCheck is designed as a fully functional local utility that reviews
// citations offline against a local corpus and model. Firm-wide deployments
// add compliance requirements the local tool does not need: audit trails for
// engagement records, and redaction of privileged material before citation
// text leaves the building for a hosted model. Those features are implemented
// by providing concrete implementations of these interfaces and injecting
// them via ServiceOptions.
//
// # Extension Categories
//
// The package is organized by domain:
//
//   - audit.go: Compliance audit logging of review activity (AuditLogger)
//   - filter.go: Redaction and blocking of review text (ReviewFilter)
//
// # Usage in CiteCheck (Open Source)
//
// The open source version uses no-op implementations:
//
//	opts := extensions.DefaultOptions()
//	routes.SetupRoutes(router, routes.Deps{Extensions: opts, ...})
//
// # Usage in Enterprise Deployments
//
// Enterprise builds provide concrete implementations:
//
//	opts := extensions.ServiceOptions{
//	    AuditLogger:  enterprise.NewSplunkAuditor(config),
//	    ReviewFilter: enterprise.NewPrivilegeFilter(policy),
//	}
//
// # Thread Safety
//
// All interface implementations must be safe for concurrent use.
// Multiple goroutines may call methods simultaneously.
package extensions

// ServiceOptions groups all extension points for service configuration.
//
// Pass this to the route setup to enable enterprise features. All fields
// are optional; nil values are replaced with no-op defaults when
// DefaultOptions() is called.
type ServiceOptions struct {
	// AuditLogger records review activity for compliance.
	// Default: NopAuditLogger (discards all events)
	AuditLogger AuditLogger

	// ReviewFilter redacts or blocks review text before and after the
	// model sees it.
	// Default: NopReviewFilter (passes through unchanged)
	ReviewFilter ReviewFilter
}

// DefaultOptions returns ServiceOptions with no-op defaults.
//
// This is the configuration used by the open source version.
// No audit trail, no redaction, nothing blocked.
//
// Returns:
//   - ServiceOptions with all fields set to no-op implementations
func DefaultOptions() ServiceOptions {
	return ServiceOptions{
		AuditLogger:  &NopAuditLogger{},
		ReviewFilter: &NopReviewFilter{},
	}
}

// WithAudit returns a copy of opts with the given AuditLogger.
// Useful for fluent configuration.
func (opts ServiceOptions) WithAudit(logger AuditLogger) ServiceOptions {
	opts.AuditLogger = logger
	return opts
}

// WithFilter returns a copy of opts with the given ReviewFilter.
func (opts ServiceOptions) WithFilter(filter ReviewFilter) ServiceOptions {
	opts.ReviewFilter = filter
	return opts
}
