// Package company serves the pages of company accounts: postings, their
// applicants and the company profile.
package company

import (
	"net/http"
	"net/url"
	"sort"
	"time"

	"internship-portal/internal/common/validation"
	"internship-portal/internal/models"
	"internship-portal/internal/pages"
	"internship-portal/internal/session"
	"internship-portal/internal/ui"
	"internship-portal/internal/web/middleware"
	"internship-portal/internal/web/render"
)

const recentPostings = 5

type Handler struct {
	pages.Base
}

func NewHandler(deps pages.Dependencies) (*Handler, error) {
	base, err := pages.NewBase(deps, "company")
	if err != nil {
		return nil, err
	}
	return &Handler{Base: base}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return middleware.Chain(fn, session.RequireRole(models.RoleCompany))
	}
	mux.Handle("GET /company/dashboard", guard(h.Dashboard))
	mux.Handle("GET /company/internships", guard(h.Internships))
	mux.Handle("GET /company/internships/new", guard(h.NewInternship))
	mux.Handle("POST /company/internships", guard(h.CreateInternship))
	mux.Handle("GET /company/internships/{id}/edit", guard(h.EditInternship))
	mux.Handle("POST /company/internships/{id}", guard(h.UpdateInternship))
	mux.Handle("POST /company/internships/{id}/delete", guard(h.DeleteInternship))
	mux.Handle("GET /company/internships/{id}/applications", guard(h.Applicants))
	mux.Handle("POST /company/applications/{id}/status", guard(h.UpdateStatus))
	mux.Handle("GET /company/profile", guard(h.Profile))
	mux.Handle("POST /company/profile", guard(h.SaveProfile))
}

type StatusCount struct {
	Status string
	Count  int
}

type dashboardData struct {
	Total        int
	Applications int
	Counts       []StatusCount
	Recent       []models.Internship
}

func countByStatus(items []models.Internship) []StatusCount {
	statuses := []models.InternshipStatus{models.InternshipOpen, models.InternshipClosed, models.InternshipFilled}
	counts := make(map[models.InternshipStatus]int, len(statuses))
	for _, i := range items {
		counts[i.Status]++
	}
	out := make([]StatusCount, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, StatusCount{Status: string(s), Count: counts[s]})
	}
	return out
}

func newestFirst(items []models.Internship) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.Deps.API.CompanyInternships(ctx, session.Token(ctx))
	if err != nil {
		h.Fail(w, r, "dashboard.internships", err)
		return
	}
	newestFirst(items)

	data := dashboardData{
		Total:  len(items),
		Counts: countByStatus(items),
		Recent: items[:min(len(items), recentPostings)],
	}
	for _, i := range items {
		data.Applications += i.ApplicationCount
	}

	h.Render(w, r, render.Page{Name: "company/dashboard", Title: "Dashboard", Nav: "dashboard", Data: data})
}

type postingsData struct {
	Items  []models.Internship
	Total  int
	Filter ui.InternshipFilter
	Pager  ui.Paginator
	Path   string
	Query  url.Values
}

func (h *Handler) Internships(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	items, err := h.Deps.API.CompanyInternships(ctx, session.Token(ctx))
	if err != nil {
		h.Fail(w, r, "internships.list", err)
		return
	}
	newestFirst(items)

	filter := ui.InternshipFilter{Query: query.Get("q"), Status: query.Get("status")}
	matched := filter.Apply(items)
	pager := ui.NewPaginator(len(matched), h.Deps.PageSize, pages.PageNumber(r))

	h.Render(w, r, render.Page{
		Name:  "company/internships",
		Title: "Your postings",
		Nav:   "postings",
		Data: postingsData{
			Items:  ui.Slice(matched, pager),
			Total:  len(matched),
			Filter: filter,
			Pager:  pager,
			Path:   "/company/internships",
			Query:  query,
		},
	})
}

type formData struct {
	ID       string
	Input    models.InternshipInput
	Statuses []models.InternshipStatus
	Errors   map[string]string
}

func (f formData) Action() string {
	if f.ID == "" {
		return "/company/internships"
	}
	return "/company/internships/" + url.PathEscape(f.ID)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, status int, banner string, data formData) {
	title := "Post an internship"
	nav := "new-posting"
	if data.ID != "" {
		title = "Edit posting"
		nav = "postings"
	}
	data.Statuses = []models.InternshipStatus{models.InternshipOpen, models.InternshipClosed, models.InternshipFilled}
	h.Render(w, r, render.Page{
		Name:   "company/internship_form",
		Title:  title,
		Nav:    nav,
		Status: status,
		Error:  banner,
		Data:   data,
	})
}

func (h *Handler) NewInternship(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", formData{Input: models.InternshipInput{Status: models.InternshipOpen}})
}

// readInternship parses the posting form. A deadline that is not a date is
// reported as a field error.
func readInternship(r *http.Request) (models.InternshipInput, map[string]string) {
	in := models.InternshipInput{
		Title:             pages.FormString(r, "title"),
		Description:       pages.FormString(r, "description"),
		Requirements:      pages.FormString(r, "requirements"),
		Location:          pages.FormString(r, "location"),
		Remote:            pages.FormBool(r, "remote"),
		SalaryMin:         pages.FormInt(r, "salary_min"),
		SalaryMax:         pages.FormInt(r, "salary_max"),
		Status:            models.InternshipStatus(pages.FormString(r, "status")),
		OPTEligible:       pages.FormBool(r, "opt_eligible"),
		CPTEligible:       pages.FormBool(r, "cpt_eligible"),
		OffersCertificate: pages.FormBool(r, "offers_certificate"),
	}
	if raw := pages.FormString(r, "deadline"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return in, map[string]string{"deadline": "Enter a valid date"}
		}
		// end of the chosen day, UTC
		d = d.Add(24*time.Hour - time.Second)
		in.Deadline = &d
	}
	return in, nil
}

// validateInternship merges parse and schema errors; nil means valid.
func (h *Handler) validateInternship(in models.InternshipInput, parseErrs map[string]string) (map[string]string, error) {
	result, err := validation.ValidateInternship(in)
	if err != nil {
		return nil, err
	}
	if result.Valid && len(parseErrs) == 0 {
		return nil, nil
	}
	errs := result.FieldErrors()
	if errs == nil {
		errs = map[string]string{}
	}
	for k, v := range parseErrs {
		errs[k] = v
	}
	return errs, nil
}

func (h *Handler) CreateInternship(w http.ResponseWriter, r *http.Request) {
	in, parseErrs := readInternship(r)
	data := formData{Input: in}

	errs, err := h.validateInternship(in, parseErrs)
	if err != nil {
		h.Fail(w, r, "internships.validate", err)
		return
	}
	if errs != nil {
		data.Errors = errs
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", data)
		return
	}

	created, err := h.Deps.API.CreateInternship(r.Context(), session.Token(r.Context()), in)
	if err != nil {
		if pages.NeedsLogin(err) {
			h.Fail(w, r, "internships.create", err)
			return
		}
		h.renderForm(w, r, pages.StatusOf(err), h.Banner("internships.create", err), data)
		return
	}
	h.Log.Info("internship posted", map[string]interface{}{"internshipId": created.ID})
	h.Flash(w, r, "/company/internships", session.FlashSuccess, "Internship posted.")
}

func inputFrom(i models.Internship) models.InternshipInput {
	return models.InternshipInput{
		Title:             i.Title,
		Description:       i.Description,
		Requirements:      i.Requirements,
		Location:          i.Location,
		Remote:            i.Remote,
		SalaryMin:         i.SalaryMin,
		SalaryMax:         i.SalaryMax,
		Deadline:          i.Deadline,
		Status:            i.Status,
		OPTEligible:       i.OPTEligible,
		CPTEligible:       i.CPTEligible,
		OffersCertificate: i.OffersCertificate,
	}
}

func (h *Handler) EditInternship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	internship, err := h.Deps.API.GetInternship(ctx, session.Token(ctx), id)
	if err != nil {
		h.Fail(w, r, "internships.edit", err)
		return
	}
	h.renderForm(w, r, http.StatusOK, "", formData{ID: id, Input: inputFrom(*internship)})
}

func (h *Handler) UpdateInternship(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, parseErrs := readInternship(r)
	data := formData{ID: id, Input: in}

	errs, err := h.validateInternship(in, parseErrs)
	if err != nil {
		h.Fail(w, r, "internships.validate", err)
		return
	}
	if errs != nil {
		data.Errors = errs
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", data)
		return
	}

	if _, err := h.Deps.API.UpdateInternship(r.Context(), session.Token(r.Context()), id, in); err != nil {
		if pages.NeedsLogin(err) {
			h.Fail(w, r, "internships.update", err)
			return
		}
		h.renderForm(w, r, pages.StatusOf(err), h.Banner("internships.update", err), data)
		return
	}
	h.Flash(w, r, "/company/internships", session.FlashSuccess, "Posting updated.")
}

func (h *Handler) DeleteInternship(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.Deps.API.DeleteInternship(ctx, session.Token(ctx), r.PathValue("id")); err != nil {
		h.FlashFailure(w, r, "/company/internships", "internships.delete", err)
		return
	}
	h.Flash(w, r, "/company/internships", session.FlashSuccess, "Posting deleted.")
}

type applicantsData struct {
	Internship *models.Internship
	Items      []models.Application
	Total      int
	Filter     ui.ApplicationFilter
	Statuses   []models.CompanyStatus
	Pager      ui.Paginator
	Path       string
	Query      url.Values
	Back       string
}

func (h *Handler) Applicants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)
	id := r.PathValue("id")
	query := r.URL.Query()

	internship, err := h.Deps.API.GetInternship(ctx, token, id)
	if err != nil {
		h.Fail(w, r, "applicants.internship", err)
		return
	}
	apps, err := h.Deps.API.InternshipApplications(ctx, token, id)
	if err != nil {
		h.Fail(w, r, "applicants.list", err)
		return
	}
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].AppliedAt.After(apps[j].AppliedAt) })

	filter := ui.ApplicationFilter{Status: query.Get("status"), Query: query.Get("q")}
	matched := filter.Apply(apps)
	pager := ui.NewPaginator(len(matched), h.Deps.PageSize, pages.PageNumber(r))

	h.Render(w, r, render.Page{
		Name:  "company/applicants",
		Title: "Applicants: " + internship.Title,
		Nav:   "postings",
		Data: applicantsData{
			Internship: internship,
			Items:      ui.Slice(matched, pager),
			Total:      len(matched),
			Filter:     filter,
			Statuses:   models.CompanyStatuses,
			Pager:      pager,
			Path:       r.URL.Path,
			Query:      query,
			Back:       r.URL.RequestURI(),
		},
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	back := session.SafeNext(r.FormValue("next"), "/company/internships")
	status := models.CompanyStatus(pages.FormString(r, "company_status"))
	if !status.IsValid() {
		h.Flash(w, r, back, session.FlashError, "Unknown application status.")
		return
	}

	if _, err := h.Deps.API.UpdateCompanyStatus(r.Context(), session.Token(r.Context()), r.PathValue("id"), status); err != nil {
		h.FlashFailure(w, r, back, "applicants.status", err)
		return
	}
	h.Flash(w, r, back, session.FlashSuccess, "Application moved to "+ui.StatusLabel(string(status))+".")
}

type profileData struct {
	Profile models.CompanyProfile
	Errors  map[string]string
}

func (h *Handler) renderProfile(w http.ResponseWriter, r *http.Request, status int, banner string, data profileData) {
	h.Render(w, r, render.Page{
		Name:   "company/profile",
		Title:  "Company profile",
		Nav:    "profile",
		Status: status,
		Error:  banner,
		Data:   data,
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.Deps.API.CompanyProfile(ctx, session.Token(ctx))
	if err != nil {
		h.Fail(w, r, "profile.get", err)
		return
	}
	h.renderProfile(w, r, http.StatusOK, "", profileData{Profile: *profile})
}

func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := models.CompanyProfile{
		ID:          pages.FormString(r, "id"),
		UserID:      pages.Session(r).UserID,
		Name:        pages.FormString(r, "name"),
		Industry:    pages.FormString(r, "industry"),
		Website:     pages.FormString(r, "website"),
		Location:    pages.FormString(r, "location"),
		Description: pages.FormString(r, "description"),
		Size:        pages.FormString(r, "size"),
	}
	data := profileData{Profile: p}

	result, err := validation.Validate(validation.FormCompanyProfile, p)
	if err != nil {
		h.Fail(w, r, "profile.validate", err)
		return
	}
	if !result.Valid {
		data.Errors = result.FieldErrors()
		h.renderProfile(w, r, http.StatusUnprocessableEntity, "", data)
		return
	}

	if _, err := h.Deps.API.UpdateCompanyProfile(ctx, session.Token(ctx), p); err != nil {
		if pages.NeedsLogin(err) {
			h.Fail(w, r, "profile.update", err)
			return
		}
		h.renderProfile(w, r, pages.StatusOf(err), h.Banner("profile.update", err), data)
		return
	}
	h.Flash(w, r, "/company/profile", session.FlashSuccess, "Profile saved.")
}
