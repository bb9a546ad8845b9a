// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brokerdesk/brokerdesk/internal/platform/apperr"
	"github.com/brokerdesk/brokerdesk/internal/platform/ctxutil"
	"github.com/brokerdesk/brokerdesk/internal/platform/sec"
	"github.com/brokerdesk/brokerdesk/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
// Returns [validate.ErrInvalidJSON] (a 400 bad-request outcome) if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Session extracts the authenticated session from the request context.
// Returns nil if the request is anonymous.
func Session(request *http.Request) *sec.Session {
	return ctxutil.GetSession(request.Context())
}

// RequiredSession ensures the request is authenticated and returns the session.
// Returns an unauthenticated (401) outcome otherwise.
func RequiredSession(request *http.Request) (*sec.Session, error) {
	session := ctxutil.GetSession(request.Context())
	if session == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return session, nil
}
