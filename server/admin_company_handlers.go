package server

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/company"
	"github.com/jrsteele09/ironrent/internal/errors"
	"github.com/rs/zerolog/log"
)

// AboutPageData lists the published company documents
type AboutPageData struct {
	basePage
	Documents []*company.Document
}

type AdminCompanyData struct {
	basePage
	Documents []*company.Document
}

// DocumentFormData feeds the create and edit document form
type DocumentFormData struct {
	basePage
	Action    string
	IsNew     bool
	ImageURL  string // Current image when editing
	Input     company.DocumentInput
	SortOrder string
	Error     string
}

// AboutHandler is the public page with the active licences and certificates
func (s *Server) AboutHandler() http.HandlerFunc {
	aboutTmpl := mustParseTemplate("about.html")

	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := s.company.ListDocuments(r.Context(), true)
		if err != nil {
			writeRepoError(w, err, "list", "document")
			return
		}
		_, admin := SessionFromContext(r.Context())
		renderPage(w, aboutTmpl, http.StatusOK, AboutPageData{
			basePage:  s.basePage(admin),
			Documents: docs,
		})
	}
}

func (s *Server) AdminCompanyHandler() http.HandlerFunc {
	companyTmpl := mustParseTemplate("admin_company.html")

	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := s.company.ListDocuments(r.Context(), false)
		if err != nil {
			writeRepoError(w, err, "list", "document")
			return
		}
		renderPage(w, companyTmpl, http.StatusOK, AdminCompanyData{
			basePage:  s.basePage(true),
			Documents: docs,
		})
	}
}

func (s *Server) AdminDocumentFormHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("admin_document_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "" {
			renderPage(w, formTmpl, http.StatusOK, DocumentFormData{
				basePage:  s.basePage(true),
				Action:    RouteAdminDocuments,
				IsNew:     true,
				Input:     company.DocumentInput{IsActive: true},
				SortOrder: "0",
			})
			return
		}

		id, ok := pathID(w, r, "document")
		if !ok {
			return
		}
		d, err := s.company.GetDocument(r.Context(), id)
		if err != nil {
			writeRepoError(w, err, "load", "document")
			return
		}
		renderPage(w, formTmpl, http.StatusOK, DocumentFormData{
			basePage: s.basePage(true),
			Action:   documentPath(d.ID),
			ImageURL: d.ImageURL,
			Input: company.DocumentInput{
				Title:    d.Title,
				Number:   d.Number,
				IsActive: d.IsActive,
			},
			SortOrder: strconv.Itoa(d.SortOrder),
		})
	}
}

func (s *Server) AdminDocumentCreateHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("admin_document_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		data := DocumentFormData{basePage: s.basePage(true), Action: RouteAdminDocuments, IsNew: true}

		in, err := documentInputFromForm(r, &data)
		if err != nil {
			failDocument(w, err, formTmpl, data)
			return
		}
		d, err := company.NewDocument(in, s.nowFunc())
		if err != nil {
			failDocument(w, err, formTmpl, data)
			return
		}
		if err := s.company.CreateDocument(r.Context(), d); err != nil {
			writeRepoError(w, err, "create", "document")
			return
		}

		log.Info().Str("document", d.ID.String()).Msg("Document created")
		redirectSuccess(w, r, RouteAdminCompany)
	}
}

func (s *Server) AdminDocumentUpdateHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("admin_document_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "document")
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		d, err := s.company.GetDocument(r.Context(), id)
		if err != nil {
			writeRepoError(w, err, "load", "document")
			return
		}

		data := DocumentFormData{basePage: s.basePage(true), Action: documentPath(id), ImageURL: d.ImageURL}
		in, err := documentInputFromForm(r, &data)
		if err == nil {
			err = d.Apply(in)
		}
		if err != nil {
			failDocument(w, err, formTmpl, data)
			return
		}
		if err := s.company.UpdateDocument(r.Context(), d); err != nil {
			writeRepoError(w, err, "update", "document")
			return
		}

		log.Info().Str("document", d.ID.String()).Msg("Document updated")
		redirectSuccess(w, r, RouteAdminCompany)
	}
}

func (s *Server) AdminDocumentDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "document")
		if !ok {
			return
		}
		if err := s.company.DeleteDocument(r.Context(), id); err != nil {
			writeRepoError(w, err, "delete", "document")
			return
		}
		log.Info().Str("document", id.String()).Msg("Document deleted")
		redirectSuccess(w, r, RouteAdminCompany)
	}
}

// documentInputFromForm also copies the raw values into data so a rejected
// form is shown again as typed
func documentInputFromForm(r *http.Request, data *DocumentFormData) (company.DocumentInput, error) {
	in := company.DocumentInput{
		Title:    r.FormValue("title"),
		Number:   r.FormValue("number"),
		ImageURL: r.FormValue("imageUrl"),
		IsActive: r.FormValue("isActive") == "on",
	}
	data.Input = in
	data.SortOrder = strings.TrimSpace(r.FormValue("sortOrder"))
	if data.SortOrder == "" {
		return in, nil
	}

	order, err := strconv.Atoi(data.SortOrder)
	if err != nil {
		return in, &company.ValidationError{Field: "sortOrder", Message: "Sort order must be a whole number"}
	}
	in.SortOrder = order
	data.Input = in
	return in, nil
}

func failDocument(w http.ResponseWriter, err error, tmpl *template.Template, data DocumentFormData) {
	var verr *company.ValidationError
	if !errors.As(err, &verr) {
		log.Err(err).Msg("Unexpected document error")
		http.Error(w, "Failed to save", http.StatusInternalServerError)
		return
	}
	data.Error = verr.Message
	renderPage(w, tmpl, http.StatusUnprocessableEntity, data)
}

func documentPath(id uuid.UUID) string {
	return RouteAdminDocuments + "/" + id.String()
}
