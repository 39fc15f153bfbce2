package server

import (
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/catalog"
	"github.com/jrsteele09/ironrent/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	msgCategorySlugTaken = "A category with this URL already exists"
	msgMachineSlugTaken  = "A machine with this URL already exists"
)

// MachineRow is one line of the machinery table
type MachineRow struct {
	Machine      *catalog.Machine
	CategoryName string
}

// AdminCatalogData lists categories and machinery
type AdminCatalogData struct {
	basePage
	Categories []catalog.CategorySummary
	Machines   []MachineRow
	Error      string
}

// CategoryFormData feeds the create and edit category form
type CategoryFormData struct {
	basePage
	Action string
	IsNew  bool
	Slug   string // Shown read-only when editing
	Input  catalog.CategoryInput
	Error  string
}

// machineForm keeps the submitted strings so a rejected form can be shown
// again exactly as typed
type machineForm struct {
	Title       string
	Slug        string
	CategoryID  string
	ShiftPrice  string
	HourlyPrice string
	Description string
	Specs       string // One "name: value" pair per line
	ImageURL    string
	Images      string // One URL per line
	IsFeatured  bool
	IsAvailable bool
}

// MachineFormData feeds the create and edit machine form
type MachineFormData struct {
	basePage
	Action     string
	IsNew      bool
	Form       machineForm
	Categories []catalog.CategorySummary
	Error      string
}

func (s *Server) AdminCatalogHandler() http.HandlerFunc {
	catalogTmpl := mustParseTemplate("admin_catalog.html")

	return func(w http.ResponseWriter, r *http.Request) {
		s.renderCatalog(w, r, catalogTmpl, http.StatusOK, "")
	}
}

func (s *Server) renderCatalog(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, msg string) {
	categories, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		writeRepoError(w, err, "list", "category")
		return
	}
	machines, err := s.catalog.ListMachines(r.Context())
	if err != nil {
		writeRepoError(w, err, "list", "machine")
		return
	}

	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	rows := make([]MachineRow, 0, len(machines))
	for _, m := range machines {
		rows = append(rows, MachineRow{Machine: m, CategoryName: names[m.CategoryID]})
	}

	renderPage(w, tmpl, status, AdminCatalogData{
		basePage:   s.basePage(true),
		Categories: categories,
		Machines:   rows,
		Error:      msg,
	})
}

// AdminCategoryFormHandler shows an empty form on /new and the stored
// category otherwise
func (s *Server) AdminCategoryFormHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("admin_category_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "" {
			renderPage(w, formTmpl, http.StatusOK, CategoryFormData{
				basePage: s.basePage(true),
				Action:   RouteAdminCategories,
				IsNew:    true,
			})
			return
		}

		id, ok := pathID(w, r, "category")
		if !ok {
			return
		}
		c, err := s.catalog.GetCategory(r.Context(), id)
		if err != nil {
			writeRepoError(w, err, "load", "category")
			return
		}
		renderPage(w, formTmpl, http.StatusOK, CategoryFormData{
			basePage: s.basePage(true),
			Action:   categoryPath(c.ID),
			Slug:     c.Slug,
			Input: catalog.CategoryInput{
				Name:        c.Name,
				Description: c.Description,
				ImageURL:    c.ImageURL,
			},
		})
	}
}

func (s *Server) AdminCategoryCreateHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("admin_category_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		in := categoryInputFromForm(r)
		data := CategoryFormData{basePage: s.basePage(true), Action: RouteAdminCategories, IsNew: true, Input: in}
		fail := func(status int, msg string) {
			data.Error = msg
			renderPage(w, formTmpl, status, data)
		}

		c, err := catalog.NewCategory(in, s.nowFunc())
		if err != nil {
			failValidation(w, err, fail)
			return
		}
		if err := s.catalog.CreateCategory(r.Context(), c); err != nil {
			if errors.Is(err, errors.ErrConflict) {
				fail(http.StatusConflict, msgCategorySlugTaken)
				return
			}
			writeRepoError(w, err, "create", "category")
			return
		}

		log.Info().Str("category", c.ID.String()).Str("slug", c.Slug).Msg("Category created")
		redirectSuccess(w, r, RouteAdminCatalog)
	}
}

func (s *Server) AdminCategoryUpdateHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("admin_category_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "category")
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		c, err := s.catalog.GetCategory(r.Context(), id)
		if err != nil {
			writeRepoError(w, err, "load", "category")
			return
		}

		in := categoryInputFromForm(r)
		if err := c.Apply(in); err != nil {
			failValidation(w, err, func(status int, msg string) {
				renderPage(w, formTmpl, status, CategoryFormData{
					basePage: s.basePage(true),
					Action:   categoryPath(id),
					Slug:     c.Slug,
					Input:    in,
					Error:    msg,
				})
			})
			return
		}
		if err := s.catalog.UpdateCategory(r.Context(), c); err != nil {
			writeRepoError(w, err, "update", "category")
			return
		}

		log.Info().Str("category", c.ID.String()).Msg("Category updated")
		redirectSuccess(w, r, RouteAdminCatalog)
	}
}

// AdminCategoryDeleteHandler refuses to orphan machinery
func (s *Server) AdminCategoryDeleteHandler() http.HandlerFunc {
	catalogTmpl := mustParseTemplate("admin_catalog.html")

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "category")
		if !ok {
			return
		}
		if err := s.catalog.DeleteCategory(r.Context(), id); err != nil {
			if errors.Is(err, errors.ErrCategoryInUse) {
				s.renderCatalog(w, r, catalogTmpl, http.StatusConflict, "Cannot delete a category that still has machinery")
				return
			}
			writeRepoError(w, err, "delete", "category")
			return
		}

		log.Info().Str("category", id.String()).Msg("Category deleted")
		redirectSuccess(w, r, RouteAdminCatalog)
	}
}

func (s *Server) AdminMachineFormHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("admin_machine_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := s.catalog.ListCategories(r.Context())
		if err != nil {
			writeRepoError(w, err, "list", "category")
			return
		}

		if r.PathValue("id") == "" {
			renderPage(w, formTmpl, http.StatusOK, MachineFormData{
				basePage:   s.basePage(true),
				Action:     RouteAdminMachines,
				IsNew:      true,
				Form:       machineForm{IsAvailable: true},
				Categories: categories,
			})
			return
		}

		id, ok := pathID(w, r, "machine")
		if !ok {
			return
		}
		m, err := s.catalog.GetMachine(r.Context(), id)
		if err != nil {
			writeRepoError(w, err, "load", "machine")
			return
		}
		renderPage(w, formTmpl, http.StatusOK, MachineFormData{
			basePage:   s.basePage(true),
			Action:     machinePath(m.ID),
			Form:       machineFormFrom(m),
			Categories: categories,
		})
	}
}

func (s *Server) AdminMachineCreateHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("admin_machine_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		form := machineFormFromRequest(r)
		data := MachineFormData{basePage: s.basePage(true), Action: RouteAdminMachines, IsNew: true, Form: form}
		fail := func(status int, msg string) {
			data.Error = msg
			data.Categories, _ = s.catalog.ListCategories(r.Context())
			renderPage(w, formTmpl, status, data)
		}

		in, err := s.machineInput(r, form)
		if err != nil {
			failValidation(w, err, fail)
			return
		}
		now := s.nowFunc()
		m, err := catalog.NewMachine(in, now)
		if err != nil {
			failValidation(w, err, fail)
			return
		}

		// A derived slug that is already taken gets a suffix; a typed one is
		// the admin's to fix.
		if strings.TrimSpace(form.Slug) == "" {
			if _, err := s.catalog.MachineBySlug(r.Context(), m.Slug); err == nil {
				m.Slug = fmt.Sprintf("%s-%d", m.Slug, now.Unix())
			}
		}

		if err := s.catalog.CreateMachine(r.Context(), m); err != nil {
			if errors.Is(err, errors.ErrConflict) {
				fail(http.StatusConflict, msgMachineSlugTaken)
				return
			}
			writeRepoError(w, err, "create", "machine")
			return
		}

		log.Info().Str("machine", m.ID.String()).Str("slug", m.Slug).Msg("Machine created")
		redirectSuccess(w, r, RouteAdminCatalog)
	}
}

func (s *Server) AdminMachineUpdateHandler() http.HandlerFunc {
	formTmpl := mustParseTemplate("admin_machine_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "machine")
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		m, err := s.catalog.GetMachine(r.Context(), id)
		if err != nil {
			writeRepoError(w, err, "load", "machine")
			return
		}

		form := machineFormFromRequest(r)
		data := MachineFormData{basePage: s.basePage(true), Action: machinePath(id), Form: form}
		fail := func(status int, msg string) {
			data.Error = msg
			data.Categories, _ = s.catalog.ListCategories(r.Context())
			renderPage(w, formTmpl, status, data)
		}

		in, err := s.machineInput(r, form)
		if err == nil {
			err = m.Apply(in, s.nowFunc())
		}
		if err != nil {
			failValidation(w, err, fail)
			return
		}
		if err := s.catalog.UpdateMachine(r.Context(), m); err != nil {
			if errors.Is(err, errors.ErrConflict) {
				fail(http.StatusConflict, msgMachineSlugTaken)
				return
			}
			writeRepoError(w, err, "update", "machine")
			return
		}

		log.Info().Str("machine", m.ID.String()).Msg("Machine updated")
		redirectSuccess(w, r, RouteAdminCatalog)
	}
}

func (s *Server) AdminMachineDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "machine")
		if !ok {
			return
		}
		if err := s.catalog.DeleteMachine(r.Context(), id); err != nil {
			writeRepoError(w, err, "delete", "machine")
			return
		}
		log.Info().Str("machine", id.String()).Msg("Machine deleted")
		redirectSuccess(w, r, RouteAdminCatalog)
	}
}

// failValidation shows a validation message with 422; anything else is a
// server error.
func failValidation(w http.ResponseWriter, err error, fail func(int, string)) {
	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		log.Err(err).Msg("Unexpected catalog error")
		http.Error(w, "Failed to save", http.StatusInternalServerError)
		return
	}
	fail(http.StatusUnprocessableEntity, verr.Message)
}

// machineInput converts the submitted strings and checks the category exists
func (s *Server) machineInput(r *http.Request, form machineForm) (catalog.MachineInput, error) {
	in := catalog.MachineInput{
		Title:       form.Title,
		Slug:        form.Slug,
		Description: form.Description,
		Specs:       parseSpecs(form.Specs),
		ImageURL:    form.ImageURL,
		Images:      strings.Split(form.Images, "\n"),
		IsFeatured:  form.IsFeatured,
		IsAvailable: form.IsAvailable,
	}

	categoryID, err := uuid.Parse(form.CategoryID)
	if err != nil {
		return in, &catalog.ValidationError{Field: "category", Message: "Choose a category"}
	}
	if _, err := s.catalog.GetCategory(r.Context(), categoryID); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return in, &catalog.ValidationError{Field: "category", Message: "Choose a category"}
		}
		return in, err
	}
	in.CategoryID = categoryID

	in.ShiftPrice, err = strconv.ParseFloat(strings.TrimSpace(form.ShiftPrice), 64)
	if err != nil {
		return in, &catalog.ValidationError{Field: "shiftPrice", Message: "Shift price must be a number"}
	}
	if hourly := strings.TrimSpace(form.HourlyPrice); hourly != "" {
		price, err := strconv.ParseFloat(hourly, 64)
		if err != nil {
			return in, &catalog.ValidationError{Field: "hourlyPrice", Message: "Hourly price must be a number"}
		}
		in.HourlyPrice = &price
	}
	return in, nil
}

func categoryInputFromForm(r *http.Request) catalog.CategoryInput {
	return catalog.CategoryInput{
		Name:        r.FormValue("name"),
		Slug:        r.FormValue("slug"),
		Description: r.FormValue("description"),
		ImageURL:    r.FormValue("imageUrl"),
	}
}

func machineFormFromRequest(r *http.Request) machineForm {
	return machineForm{
		Title:       r.FormValue("title"),
		Slug:        r.FormValue("slug"),
		CategoryID:  r.FormValue("categoryId"),
		ShiftPrice:  r.FormValue("shiftPrice"),
		HourlyPrice: r.FormValue("hourlyPrice"),
		Description: r.FormValue("description"),
		Specs:       r.FormValue("specs"),
		ImageURL:    r.FormValue("imageUrl"),
		Images:      r.FormValue("images"),
		IsFeatured:  r.FormValue("isFeatured") == "on",
		IsAvailable: r.FormValue("isAvailable") == "on",
	}
}

func machineFormFrom(m *catalog.Machine) machineForm {
	form := machineForm{
		Title:       m.Title,
		Slug:        m.Slug,
		CategoryID:  m.CategoryID.String(),
		ShiftPrice:  strconv.FormatFloat(m.ShiftPrice, 'f', -1, 64),
		Description: m.Description,
		Specs:       formatSpecs(m.Specs),
		ImageURL:    m.ImageURL,
		Images:      strings.Join(m.Images, "\n"),
		IsFeatured:  m.IsFeatured,
		IsAvailable: m.IsAvailable,
	}
	if m.HourlyPrice != nil {
		form.HourlyPrice = strconv.FormatFloat(*m.HourlyPrice, 'f', -1, 64)
	}
	return form
}

// parseSpecs reads "name: value" lines; lines without a colon are skipped
func parseSpecs(text string) map[string]string {
	specs := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		specs[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	return specs
}

func formatSpecs(specs map[string]string) string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	slices.Sort(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+": "+specs[name])
	}
	return strings.Join(lines, "\n")
}

func categoryPath(id uuid.UUID) string {
	return RouteAdminCategories + "/" + id.String()
}

func machinePath(id uuid.UUID) string {
	return RouteAdminMachines + "/" + id.String()
}
