package server

import (
	"net/http"

	"github.com/jrsteele09/ironrent/internal/errors"
	"github.com/jrsteele09/ironrent/leads"
	"github.com/rs/zerolog/log"
)

const leadSentQuery = "lead"

// IndexPageData feeds the public landing page and its enquiry form
type IndexPageData struct {
	basePage
	Sent  bool
	Error string
	Form  leads.Submission
}

func (s *Server) IndexHandler() http.HandlerFunc {
	indexTmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		_, admin := SessionFromContext(r.Context())
		data := IndexPageData{
			basePage: s.basePage(admin),
			Sent:     r.URL.Query().Get(leadSentQuery) == "sent",
		}
		renderPage(w, indexTmpl, http.StatusOK, data)
	}
}

// LeadSubmissionHandler stores an enquiry from the public form (POST /leads)
func (s *Server) LeadSubmissionHandler() http.HandlerFunc {
	indexTmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		sub := leads.Submission{
			Name:     r.FormValue("name"),
			Phone:    r.FormValue("phone"),
			Email:    r.FormValue("email"),
			Machine:  r.FormValue("machine"),
			Interest: r.FormValue("interest"),
			Message:  r.FormValue("message"),
			Source:   r.FormValue("source"),
		}

		lead, err := leads.NewLead(sub, s.nowFunc())
		if err != nil {
			var verr *leads.ValidationError
			if errors.As(err, &verr) {
				renderPage(w, indexTmpl, http.StatusUnprocessableEntity, IndexPageData{
					basePage: s.basePage(false),
					Error:    verr.Message,
					Form:     sub,
				})
				return
			}
			log.Err(err).Msg("Failed to build lead")
			http.Error(w, "Failed to submit enquiry", http.StatusInternalServerError)
			return
		}

		if err := s.leads.Create(r.Context(), lead); err != nil {
			log.Err(err).Msg("Failed to store lead")
			http.Error(w, "Failed to submit enquiry", http.StatusInternalServerError)
			return
		}

		log.Info().Str("lead", lead.ID.String()).Str("source", lead.Source).Msg("New lead")
		if err := s.notifier.NotifyLead(r.Context(), lead); err != nil {
			log.Warn().Err(err).Str("lead", lead.ID.String()).Msg("Failed to send lead notification")
		}
		redirectSuccess(w, r, RouteIndex+"?"+leadSentQuery+"=sent")
	}
}
