package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/internal/errors"
	"github.com/jrsteele09/ironrent/leads"
	"github.com/rs/zerolog/log"
)

// StatusCount is one tile on the dashboard
type StatusCount struct {
	Status leads.Status
	Count  int
}

// AdminDashboardData summarises the lead pipeline
type AdminDashboardData struct {
	basePage
	Total  int
	Counts []StatusCount
}

// AdminLeadsData lists every lead with its status controls
type AdminLeadsData struct {
	basePage
	Leads    []*leads.Lead
	Statuses []leads.Status
}

func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	dashboardTmpl := mustParseTemplate("admin_dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := s.leads.CountByStatus(r.Context())
		if err != nil {
			log.Err(err).Msg("Failed to count leads")
			http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
			return
		}

		data := AdminDashboardData{basePage: s.basePage(true)}
		for _, status := range leads.Statuses {
			data.Counts = append(data.Counts, StatusCount{Status: status, Count: counts[status]})
			data.Total += counts[status]
		}
		renderPage(w, dashboardTmpl, http.StatusOK, data)
	}
}

func (s *Server) AdminLeadsListHandler() http.HandlerFunc {
	leadsTmpl := mustParseTemplate("admin_leads.html")

	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.leads.List(r.Context())
		if err != nil {
			log.Err(err).Msg("Failed to list leads")
			http.Error(w, "Failed to load leads", http.StatusInternalServerError)
			return
		}
		renderPage(w, leadsTmpl, http.StatusOK, AdminLeadsData{
			basePage: s.basePage(true),
			Leads:    list,
			Statuses: leads.Statuses,
		})
	}
}

// AdminLeadStatusHandler moves a lead to the posted status
func (s *Server) AdminLeadStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := leadIDFromPath(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		status, err := leads.ParseStatus(r.FormValue("status"))
		if err != nil {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}

		if err := s.leads.UpdateStatus(r.Context(), id, status); err != nil {
			writeLeadError(w, err, "update")
			return
		}
		log.Info().Str("lead", id.String()).Str("status", string(status)).Msg("Lead status changed")
		redirectSuccess(w, r, RouteAdminLeads)
	}
}

func (s *Server) AdminLeadDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := leadIDFromPath(w, r)
		if !ok {
			return
		}
		if err := s.leads.Delete(r.Context(), id); err != nil {
			writeLeadError(w, err, "delete")
			return
		}
		log.Info().Str("lead", id.String()).Msg("Lead deleted")
		redirectSuccess(w, r, RouteAdminLeads)
	}
}

func leadIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return pathID(w, r, "lead")
}

func writeLeadError(w http.ResponseWriter, err error, action string) {
	writeRepoError(w, err, action, "lead")
}

// writeRepoError maps a repository failure onto a response. Only unknown
// records are the client's fault.
func writeRepoError(w http.ResponseWriter, err error, action, entity string) {
	if errors.Is(err, errors.ErrNotFound) {
		http.Error(w, strings.ToUpper(entity[:1])+entity[1:]+" not found", http.StatusNotFound)
		return
	}
	log.Err(err).Str("action", action).Str("entity", entity).Msg("Repository error")
	http.Error(w, "Failed to "+action+" "+entity, http.StatusInternalServerError)
}

// pathID parses the {id} path segment. Malformed ids cannot exist, so they
// are reported as not found.
func pathID(w http.ResponseWriter, r *http.Request, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, strings.ToUpper(entity[:1])+entity[1:]+" not found", http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}
