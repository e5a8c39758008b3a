// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Request Logging

WithLogging wraps a handler with slog request/completion lines:

	mux.HandleFunc("POST /api/polls", middleware.WithLogging(h.CreatePoll))

# JSON Helpers

JSONResponse and ErrorResponse write JSON bodies with the right
Content-Type; ParseJSONBody decodes request bodies.

# CORS

CORS wraps the whole mux, reflects the Origin header, and answers
preflight requests. The SSE stream endpoints rely on it since the
frontend runs on a different origin.

# Client IP

GetClientIP resolves the originating address through X-Forwarded-For
and X-Real-IP before falling back to RemoteAddr. The device
fingerprint (and with it the abuse limiter) keys off this value.
*/
package middleware
