// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package leads

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brokerdesk/brokerdesk/internal/platform/middleware"
	requestutil "github.com/brokerdesk/brokerdesk/internal/platform/request"
	"github.com/brokerdesk/brokerdesk/internal/platform/respond"
	"github.com/brokerdesk/brokerdesk/internal/platform/validate"
	"github.com/brokerdesk/brokerdesk/internal/rbac"
	"github.com/brokerdesk/brokerdesk/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the lead intake and tracking HTTP endpoints.
type Handler struct {
	leadService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{leadService: service}
}

// Routes returns a [chi.Router] configured with lead routes.
//
// All routes require an authenticated session. Intake and detail reads are
// open to every staff role; the agency-wide list and status changes need
// customer_service or above.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth())

	router.Post("/", handler.create)
	router.Get("/{leadID}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(rbac.RoleCustomerService))
		r.Get("/", handler.list)
		r.Patch("/{leadID}/status", handler.updateStatus)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Source   string `json:"source"`
	Notes    string `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// # Endpoints

/*
create captures a new lead owned by the calling staff account.

POST /api/leads

Request:
  - Body: createRequest (FullName, Email required; Phone, Source, Notes optional)

Response:
  - 201: Lead wrapped in the success envelope
  - 400: ErrInvalidJSON or validation failure
  - 401: Unauthenticated
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		MaxLen(FieldFullName, input.FullName, 200).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldSource, input.Source, 120).
		MaxLen(FieldNotes, input.Notes, 4000)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	lead, err := handler.leadService.Create(request.Context(), CreateInput{
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Source:   input.Source,
		Notes:    input.Notes,
		OwnerID:  session.SubjectID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, lead)
}

/*
list returns a paginated page of leads across the whole agency.

GET /api/leads?page=&limit=&q=&source=&status=&owner=

Response:
  - 200: []Lead with pagination metadata
  - 401: Unauthenticated
  - 403: Caller below customer_service
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	filter := Filter{
		Query:      queryParams.Get("q"),
		SourceSlug: queryParams.Get("source"),
		Status:     Status(queryParams.Get("status")),
		OwnerID:    queryParams.Get("owner"),
	}

	page, total, err := handler.leadService.List(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, page, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
get returns a single lead.

GET /api/leads/{leadID}

Response:
  - 200: Lead wrapped in the success envelope
  - 404: Unknown lead
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	lead, err := handler.leadService.Get(request.Context(), requestutil.Param(request, "leadID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, lead)
}

/*
updateStatus moves a lead to a new lifecycle state.

PATCH /api/leads/{leadID}/status

Request:
  - Body: updateStatusRequest (Status)

Response:
  - 204: Updated
  - 400: Unknown status value
  - 403: Caller below customer_service
  - 404: Unknown lead
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	var input updateStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	err := handler.leadService.UpdateStatus(request.Context(), requestutil.Param(request, "leadID"), Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
