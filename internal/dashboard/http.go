// Copyright (c) 2026 BrokerDesk. All rights reserved.
// Author: platform@brokerdesk.io

package dashboard

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/brokerdesk/brokerdesk/internal/platform/request"
	"github.com/brokerdesk/brokerdesk/internal/platform/respond"
	"github.com/brokerdesk/brokerdesk/internal/rbac"
)

// # Definitions & Constructors

// Handler serves the per-area dashboard endpoints.
type Handler struct {
	metricsRepository MetricsRepository
}

// NewHandler constructs a new [Handler] with its repository dependency.
func NewHandler(repo MetricsRepository) *Handler {
	return &Handler{metricsRepository: repo}
}

// Routes returns a [chi.Router] with one dashboard per role area.
//
// The returned router is mounted at the server root BEHIND the route gate, so
// by the time a request reaches a handler here the caller's effective role
// has already been checked against the area prefix. Super_admin's grant list
// covers every area, which is exactly the set of dashboards that exist.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	for _, prefix := range rbac.AllowedPrefixes(rbac.RoleSuperAdmin) {
		router.Get(prefix+"/dashboard", handler.overview(strings.TrimPrefix(prefix, "/")))
	}

	return router
}

/*
overview renders the landing metrics for one role area.

GET /{area}/dashboard

Description: Callers whose effective role is agent see only their own
pipeline; everyone else sees agency-wide counts. The staff headcount is
included only for admin-level callers.

Response:
  - 200: Overview wrapped in the success envelope
  - 401/403: Decided upstream by the route gate
*/
func (handler *Handler) overview(area string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		session, err := requestutil.RequiredSession(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		effective := session.EffectiveRole()

		// Agents only ever see their own pipeline, even on the shared
		// /agent area an admin browses without assuming.
		ownerID := ""
		if effective == rbac.RoleAgent {
			ownerID = session.SubjectID
		}

		total, newCount, wonCount, err := handler.metricsRepository.LeadCounts(request.Context(), ownerID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		metrics := Metrics{
			LeadsTotal: total,
			LeadsNew:   newCount,
			LeadsWon:   wonCount,
		}

		if effective.AtLeast(rbac.RoleAdmin) {
			accounts, err := handler.metricsRepository.ActiveAccountCount(request.Context())
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			metrics.ActiveAccounts = accounts
		}

		respond.OK(writer, Overview{
			Area:           area,
			Role:           string(effective),
			AssumableRoles: rbac.AssumableRoles(session.HighestBaseRole()),
			Metrics:        metrics,
		})
	}
}
