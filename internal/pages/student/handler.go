// Package student serves the student dashboard, application tracking and
// profile pages.
package student

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"internship-portal/internal/common/validation"
	"internship-portal/internal/models"
	"internship-portal/internal/pages"
	"internship-portal/internal/session"
	"internship-portal/internal/ui"
	"internship-portal/internal/web/middleware"
	"internship-portal/internal/web/render"
)

const (
	recentApplications = 5
	recommendations    = 3
)

type Handler struct {
	pages.Base
}

func NewHandler(deps pages.Dependencies) (*Handler, error) {
	base, err := pages.NewBase(deps, "student")
	if err != nil {
		return nil, err
	}
	return &Handler{Base: base}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return middleware.Chain(fn, session.RequireRole(models.RoleStudent))
	}
	mux.Handle("GET /student/dashboard", guard(h.Dashboard))
	mux.Handle("GET /student/applications", guard(h.Applications))
	mux.Handle("POST /internships/{id}/apply", guard(h.Apply))
	mux.Handle("POST /student/applications/{id}/status", guard(h.UpdateStatus))
	mux.Handle("GET /student/profile", guard(h.Profile))
	mux.Handle("POST /student/profile", guard(h.SaveProfile))
}

// StatusCount is one tile of the dashboard summary.
type StatusCount struct {
	Status string
	Count  int
}

// countByCompanyStatus returns a tile per company-side status, in pipeline
// order, including zero counts.
func countByCompanyStatus(apps []models.Application) []StatusCount {
	counts := make(map[models.CompanyStatus]int, len(models.CompanyStatuses))
	for _, a := range apps {
		counts[a.CompanyStatus]++
	}
	out := make([]StatusCount, 0, len(models.CompanyStatuses))
	for _, s := range models.CompanyStatuses {
		out = append(out, StatusCount{Status: string(s), Count: counts[s]})
	}
	return out
}

type dashboardData struct {
	Total       int
	Counts      []StatusCount
	Recent      []models.Application
	Recommended []models.Internship
	Profile     *models.StudentProfile
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := session.Token(ctx)

	apps, err := h.Deps.API.MyApplications(ctx, token)
	if err != nil {
		h.Fail(w, r, "dashboard.applications", err)
		return
	}

	sort.SliceStable(apps, func(i, j int) bool { return apps[i].AppliedAt.After(apps[j].AppliedAt) })
	data := dashboardData{
		Total:  len(apps),
		Counts: countByCompanyStatus(apps),
		Recent: apps[:min(len(apps), recentApplications)],
	}

	profile, err := h.Deps.API.StudentProfile(ctx, token)
	if err != nil {
		h.Log.Debug("student profile unavailable", map[string]interface{}{"error": err.Error()})
	}
	data.Profile = profile

	open, err := h.Deps.API.ListInternships(ctx, token, models.InternshipQuery{Status: models.InternshipOpen})
	if err != nil {
		h.Log.Debug("recommendations unavailable", map[string]interface{}{"error": err.Error()})
	}
	data.Recommended = recommend(open, apps, profile, h.Deps.Now)

	h.Render(w, r, render.Page{
		Name:  "student/dashboard",
		Title: "Dashboard",
		Nav:   "dashboard",
		Data:  data,
	})
}

// recommend picks open postings the student has not applied to, honoring
// the work-authorization needs in the profile.
func recommend(open []models.Internship, apps []models.Application, profile *models.StudentProfile, now func() time.Time) []models.Internship {
	applied := make(map[string]bool, len(apps))
	for _, a := range apps {
		applied[a.InternshipID] = true
	}
	filter := ui.InternshipFilter{}
	if profile != nil {
		filter.OPTOnly = profile.NeedsOPT
		filter.CPTOnly = profile.NeedsCPT
	}

	out := make([]models.Internship, 0, recommendations)
	for _, i := range filter.Apply(open) {
		if applied[i.ID] || i.DeadlinePassed(now()) {
			continue
		}
		out = append(out, i)
		if len(out) == recommendations {
			break
		}
	}
	return out
}

type applicationsData struct {
	Items    []models.Application
	Total    int
	Filter   ui.ApplicationFilter
	Statuses []models.CompanyStatus
	Pager    ui.Paginator
	Path     string
	Query    url.Values
}

func (h *Handler) Applications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	apps, err := h.Deps.API.MyApplications(ctx, session.Token(ctx))
	if err != nil {
		h.Fail(w, r, "applications.list", err)
		return
	}
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].AppliedAt.After(apps[j].AppliedAt) })

	filter := ui.ApplicationFilter{Status: query.Get("status"), Query: query.Get("q")}
	matched := filter.Apply(apps)
	pager := ui.NewPaginator(len(matched), h.Deps.PageSize, pages.PageNumber(r))

	h.Render(w, r, render.Page{
		Name:  "student/applications",
		Title: "My applications",
		Nav:   "applications",
		Data: applicationsData{
			Items:    ui.Slice(matched, pager),
			Total:    len(matched),
			Filter:   filter,
			Statuses: models.CompanyStatuses,
			Pager:    pager,
			Path:     "/student/applications",
			Query:    query,
		},
	})
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	back := "/internships/" + url.PathEscape(id)
	in := models.ApplicationInput{InternshipID: id, CoverLetter: pages.FormString(r, "cover_letter")}

	result, err := validation.Validate(validation.FormApplication, in)
	if err != nil {
		h.Fail(w, r, "applications.validate", err)
		return
	}
	if !result.Valid {
		h.Flash(w, r, back, session.FlashError, strings.Join(result.GetErrorMessages(), " "))
		return
	}

	if _, err := h.Deps.API.Apply(r.Context(), session.Token(r.Context()), in); err != nil {
		h.FlashFailure(w, r, back, "applications.apply", err)
		return
	}
	h.Flash(w, r, "/student/applications", session.FlashSuccess, "Application submitted.")
}

// studentActions are the transitions a student may request. Whether one is
// allowed from the current state is decided by the backend.
var studentActions = map[models.StudentStatus]string{
	models.StudentWithdrawn: "Application withdrawn.",
	models.StudentAccepted:  "Offer accepted. Congratulations!",
	models.StudentDeclined:  "Offer declined.",
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	back := session.SafeNext(r.FormValue("next"), "/student/applications")
	status := models.StudentStatus(pages.FormString(r, "student_status"))
	msg, ok := studentActions[status]
	if !ok {
		h.Flash(w, r, back, session.FlashError, "Unknown application action.")
		return
	}

	if _, err := h.Deps.API.UpdateStudentStatus(r.Context(), session.Token(r.Context()), r.PathValue("id"), status); err != nil {
		h.FlashFailure(w, r, back, "applications.status", err)
		return
	}
	h.Flash(w, r, back, session.FlashSuccess, msg)
}

type profileData struct {
	Profile models.StudentProfile
	Skills  string
	Errors  map[string]string
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := h.Deps.API.StudentProfile(ctx, session.Token(ctx))
	if err != nil {
		h.Fail(w, r, "profile.get", err)
		return
	}
	h.renderProfile(w, r, http.StatusOK, "", profileData{Profile: *profile, Skills: strings.Join(profile.Skills, ", ")})
}

func (h *Handler) renderProfile(w http.ResponseWriter, r *http.Request, status int, banner string, data profileData) {
	h.Render(w, r, render.Page{
		Name:   "student/profile",
		Title:  "My profile",
		Nav:    "profile",
		Status: status,
		Error:  banner,
		Data:   data,
	})
}

// splitSkills turns the comma separated input into a clean list.
func splitSkills(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := models.StudentProfile{
		UserID:         pages.Session(r).UserID,
		FullName:       pages.FormString(r, "full_name"),
		University:     pages.FormString(r, "university"),
		Major:          pages.FormString(r, "major"),
		GraduationYear: pages.FormInt(r, "graduation_year"),
		Bio:            pages.FormString(r, "bio"),
		Skills:         splitSkills(r.FormValue("skills")),
		ResumeURL:      pages.FormString(r, "resume_url"),
		NeedsOPT:       pages.FormBool(r, "needs_opt"),
		NeedsCPT:       pages.FormBool(r, "needs_cpt"),
	}
	data := profileData{Profile: p, Skills: r.FormValue("skills")}

	result, err := validation.Validate(validation.FormStudentProfile, p)
	if err != nil {
		h.Fail(w, r, "profile.validate", err)
		return
	}
	if !result.Valid {
		data.Errors = result.FieldErrors()
		h.renderProfile(w, r, http.StatusUnprocessableEntity, "", data)
		return
	}

	if _, err := h.Deps.API.UpdateStudentProfile(ctx, session.Token(ctx), p); err != nil {
		if pages.NeedsLogin(err) {
			h.Fail(w, r, "profile.update", err)
			return
		}
		h.renderProfile(w, r, pages.StatusOf(err), h.Banner("profile.update", err), data)
		return
	}
	h.Flash(w, r, "/student/profile", session.FlashSuccess, "Profile saved.")
}
