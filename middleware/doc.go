// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Request Logging

WithLogging wraps a handler with structured request/completion logs:

	mux.HandleFunc("GET /topics", middleware.WithLogging(handler.List))

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusForbidden, "one vote per session")
	middleware.ParseJSONBody(r, &req)

ErrorResponse wraps the message in models.ErrorResponse with the standard
status text as the error field.

# CORS

CORS allows the separate-origin frontend to call the API, including the
Authorization header used for wallet session tokens. Preflight OPTIONS
requests are answered directly.

# Client IP

GetClientIP resolves the caller address through X-Forwarded-For and
X-Real-IP before falling back to RemoteAddr.
*/
package middleware
