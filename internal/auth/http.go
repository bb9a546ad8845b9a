// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brokerdesk/brokerdesk/internal/platform/middleware"
	requestutil "github.com/brokerdesk/brokerdesk/internal/platform/request"
	"github.com/brokerdesk/brokerdesk/internal/platform/respond"
	"github.com/brokerdesk/brokerdesk/internal/platform/validate"
	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

// # Definitions & Constructors

// Handler implements the authentication and role-assumption HTTP endpoints.
//
// # Compatibility
//
// The response shapes below are a wire contract with deployed frontends.
// The switch-role failure bodies in particular ({ok:false, error:
// "cannot_assume", from, to} and {ok:false, error:"bad_request"}) must not
// be folded into the standard error envelope.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login       : Verifies credentials, sets session cookies.
//   - GET  /verify      : Reports the session the server actually sees.
//   - POST /switch-role : Assumes a lower role (policy-checked).
//   - POST /clear-role  : Drops any assumed role.
//   - POST /logout      : Expires all session cookies.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)

	// Session endpoints: anonymous callers get a 401 from RequireAuth.
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Get("/verify", handler.verify)
		r.Post("/switch-role", handler.switchRole)
		r.Post("/clear-role", handler.clearRole)
	})

	// Logout works with or without a valid session: an expired credential
	// must still be clearable.
	router.Post("/logout", handler.logout)

	return router
}

// # Request & Response Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type switchRoleRequest struct {
	Role string `json:"role"`
}

type redirectResponse struct {
	OK       bool   `json:"ok"`
	Redirect string `json:"redirect"`
}

type verifiedUser struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Role  rbac.Role `json:"role"`
}

type verifyResponse struct {
	OK   bool         `json:"ok"`
	User verifiedUser `json:"user"`
}

type switchDeniedResponse struct {
	OK    bool      `json:"ok"`
	Error string    `json:"error"`
	From  rbac.Role `json:"from"`
	To    rbac.Role `json:"to"`
}

type badRequestResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type logoutResponse struct {
	OK      bool   `json:"ok"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// # Endpoints

/*
login authenticates a staff account and establishes the cookie session.

POST /auth/login

Description: Verifies the password, mints the signed session token, and sets
the session_token + user_role cookie pair. The redirect points at the home
area of the account's highest base role.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: {ok, redirect} + Set-Cookie session_token, user_role
  - 400: ErrInvalidJSON or validation failure
  - 401: Invalid email or password (identical for unknown vs wrong)
  - 429: Failed-attempt window exhausted
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), input.Email, input.Password, middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	issueSession(writer, request, result.Token, result.User.HighestRole(), handler.authService.SessionTTL())
	respond.JSON(writer, http.StatusOK, redirectResponse{OK: true, Redirect: result.Redirect})
}

/*
verify reports the identity and effective role the server actually sees.

GET /auth/verify

Description: The frontend calls this on boot to reconcile its readable hint
cookies with the authoritative HttpOnly state. The role field is the
EFFECTIVE role, so an admin browsing as agent reads back "agent".

Response:
  - 200: {ok, user:{id, email, role}}
  - 401: Missing, expired, or tampered credential
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, verifyResponse{
		OK: true,
		User: verifiedUser{
			ID:    session.SubjectID,
			Email: session.Email,
			Role:  session.EffectiveRole(),
		},
	})
}

/*
switchRole assumes a lower role for the current session.

POST /auth/switch-role

Description: Normalizes the requested role, checks the assumption policy
against the caller's highest base role, and on approval sets the
assumed_role + active_role cookie pair. On any failure the response carries
no Set-Cookie header at all, so the browser's role state cannot drift.

Request:
  - Body: switchRoleRequest (Role, any legitimate spelling)

Response:
  - 200: {ok, redirect} + Set-Cookie assumed_role, active_role
  - 400: {ok:false, error:"bad_request"} for malformed body or unknown role
  - 403: {ok:false, error:"cannot_assume", from, to} for policy refusals
  - 401: Unauthenticated
*/
func (handler *Handler) switchRole(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input switchRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.JSON(writer, http.StatusBadRequest, badRequestResponse{OK: false, Error: "bad_request"})
		return
	}

	target, redirect, err := handler.authService.SwitchRole(session, input.Role)
	if err != nil {
		var denied *AssumeDeniedError
		if errors.As(err, &denied) {
			respond.JSON(writer, http.StatusForbidden, switchDeniedResponse{
				OK:    false,
				Error: "cannot_assume",
				From:  denied.From,
				To:    denied.To,
			})
			return
		}
		respond.JSON(writer, http.StatusBadRequest, badRequestResponse{OK: false, Error: "bad_request"})
		return
	}

	issueAssumedRole(writer, request, target)
	respond.JSON(writer, http.StatusOK, redirectResponse{OK: true, Redirect: redirect})
}

/*
clearRole drops any assumed role and returns to the base role.

POST /auth/clear-role

Description: Idempotent; clearing with nothing assumed still succeeds and
redirects to the base role's home. Both assumption cookies are expired with
the same attributes they were set with.

Response:
  - 200: {ok, redirect} + expiring Set-Cookie assumed_role, active_role
  - 401: Unauthenticated
*/
func (handler *Handler) clearRole(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	clearAssumedRole(writer, request)
	respond.JSON(writer, http.StatusOK, redirectResponse{OK: true, Redirect: handler.authService.ClearRole(session)})
}

/*
logout expires the entire cookie session.

POST /auth/logout

Description: Expires all four session cookies. Requires no valid session so
that a browser holding an expired or tampered credential can still clean up.

Response:
  - 200: {ok, success, message} + expiring Set-Cookie for all four cookies
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	clearSession(writer, request)
	respond.JSON(writer, http.StatusOK, logoutResponse{
		OK:      true,
		Success: true,
		Message: "Logged out",
	})
}
