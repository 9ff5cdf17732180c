// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the CiteCheck service.
//
// The request-ID middleware gives every request a stable identifier that
// survives the round trip:
//
//	Request
//	   │
//	   ▼
//	RequestID
//	   │
//	   ├─► Use inbound "X-Request-ID" header if present
//	   │
//	   ├─► Otherwise generate a UUID
//	   │
//	   └─► Store in context + echo on the response header
//	           │
//	           ▼
//	       Handler (retrieves via GetRequestID)
//
// Batch clients correlate their submissions with server logs through this
// identifier, so it appears in every access-log line and span.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// =============================================================================
// Context Keys
// =============================================================================

// HeaderRequestID is the HTTP header carrying the request identifier.
const HeaderRequestID = "X-Request-ID"

// requestIDKey is the context key for storing the request identifier.
// Using a dedicated key prevents collisions with other context values.
const requestIDKey = "citecheck_request_id"

// =============================================================================
// Context Helpers
// =============================================================================

// GetRequestID retrieves the request identifier from the Gin context.
//
// # Description
//
// Called by handlers to tag logs and responses with the identifier the
// RequestID middleware assigned. Returns empty string when the middleware
// did not run for this request.
//
// # Thread Safety
//
// Safe to call concurrently (Gin context is request-scoped).
func GetRequestID(c *gin.Context) string {
	if v, exists := c.Get(requestIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// =============================================================================
// Request ID Middleware
// =============================================================================

// RequestID creates a Gin middleware that assigns each request an identifier.
//
// # Description
//
// Honors a client-supplied X-Request-ID header so callers can thread their
// own correlation IDs through the service. When the header is absent or
// blank, a fresh UUID is generated. The identifier is stored in the Gin
// context and echoed on the response header.
//
// # Examples
//
//	v1 := router.Group("/v1")
//	v1.Use(middleware.RequestID())
//
// # Thread Safety
//
// Thread-safe. The returned middleware can be used concurrently.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)

		c.Next()
	}
}
