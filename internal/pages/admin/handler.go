// Package admin serves the administration panel: site statistics, user
// management and the system settings.
package admin

import (
	"net/http"
	"net/url"
	"sort"

	"internship-portal/internal/common/validation"
	"internship-portal/internal/models"
	"internship-portal/internal/pages"
	"internship-portal/internal/session"
	"internship-portal/internal/ui"
	"internship-portal/internal/web/middleware"
	"internship-portal/internal/web/render"
)

type Handler struct {
	pages.Base
}

func NewHandler(deps pages.Dependencies) (*Handler, error) {
	base, err := pages.NewBase(deps, "admin")
	if err != nil {
		return nil, err
	}
	return &Handler{Base: base}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return middleware.Chain(fn, session.RequireRole(models.RoleAdmin))
	}
	mux.Handle("GET /admin/dashboard", guard(h.Dashboard))
	mux.Handle("GET /admin/users", guard(h.Users))
	mux.Handle("POST /admin/users/{id}/delete", guard(h.DeleteUser))
	mux.Handle("POST /admin/users/{id}/active", guard(h.SetActive))
	mux.Handle("GET /admin/settings", guard(h.Settings))
	mux.Handle("POST /admin/settings", guard(h.SaveSettings))
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.Deps.API.Stats(ctx, session.Token(ctx))
	if err != nil {
		h.Fail(w, r, "admin.stats", err)
		return
	}
	h.Render(w, r, render.Page{Name: "admin/dashboard", Title: "Admin dashboard", Nav: "dashboard", Data: stats})
}

type usersData struct {
	Items  []models.User
	Total  int
	Filter ui.UserFilter
	Me     string
	Pager  ui.Paginator
	Path   string
	Query  url.Values
	Back   string
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	users, err := h.Deps.API.Users(ctx, session.Token(ctx))
	if err != nil {
		h.Fail(w, r, "admin.users", err)
		return
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	filter := ui.UserFilter{Role: query.Get("role"), Query: query.Get("q")}
	matched := filter.Apply(users)
	pager := ui.NewPaginator(len(matched), h.Deps.PageSize, pages.PageNumber(r))

	h.Render(w, r, render.Page{
		Name:  "admin/users",
		Title: "Users",
		Nav:   "users",
		Data: usersData{
			Items:  ui.Slice(matched, pager),
			Total:  len(matched),
			Filter: filter,
			Me:     pages.Session(r).UserID,
			Pager:  pager,
			Path:   "/admin/users",
			Query:  query,
			Back:   r.URL.RequestURI(),
		},
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	back := session.SafeNext(r.FormValue("next"), "/admin/users")
	id := r.PathValue("id")
	if id == pages.Session(r).UserID {
		h.Flash(w, r, back, session.FlashError, "You cannot delete your own account.")
		return
	}

	if err := h.Deps.API.DeleteUser(r.Context(), session.Token(r.Context()), id); err != nil {
		h.FlashFailure(w, r, back, "admin.users.delete", err)
		return
	}
	h.Log.Info("user deleted", map[string]interface{}{"userId": id, "actor": pages.Session(r).UserID})
	h.Flash(w, r, back, session.FlashSuccess, "User deleted.")
}

func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	back := session.SafeNext(r.FormValue("next"), "/admin/users")
	id := r.PathValue("id")
	active := pages.FormBool(r, "active")
	if id == pages.Session(r).UserID && !active {
		h.Flash(w, r, back, session.FlashError, "You cannot deactivate your own account.")
		return
	}

	if err := h.Deps.API.SetUserActive(r.Context(), session.Token(r.Context()), id, active); err != nil {
		h.FlashFailure(w, r, back, "admin.users.active", err)
		return
	}
	msg := "User deactivated."
	if active {
		msg = "User activated."
	}
	h.Flash(w, r, back, session.FlashSuccess, msg)
}

type settingsData struct {
	Settings models.SystemSettings
	Errors   map[string]string
}

func (h *Handler) renderSettings(w http.ResponseWriter, r *http.Request, status int, banner string, data settingsData) {
	h.Render(w, r, render.Page{
		Name:   "admin/settings",
		Title:  "System settings",
		Nav:    "settings",
		Status: status,
		Error:  banner,
		Data:   data,
	})
}

func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, err := h.Deps.API.Settings(ctx, session.Token(ctx))
	if err != nil {
		h.Fail(w, r, "admin.settings", err)
		return
	}
	h.renderSettings(w, r, http.StatusOK, "", settingsData{Settings: *s})
}

// SaveSettings updates the flags and then publishes an audit event. The
// update stands even when the event cannot be published.
func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in := models.SystemSettings{
		RegistrationOpen:          pages.FormBool(r, "registration_open"),
		CompanySignupOpen:         pages.FormBool(r, "company_signup_open"),
		MaintenanceMode:           pages.FormBool(r, "maintenance_mode"),
		MaxApplicationsPerStudent: pages.FormInt(r, "max_applications_per_student"),
		Announcement:              pages.FormString(r, "announcement"),
	}
	data := settingsData{Settings: in}

	result, err := validation.Validate(validation.FormSettings, in)
	if err != nil {
		h.Fail(w, r, "admin.settings.validate", err)
		return
	}
	if !result.Valid {
		data.Errors = result.FieldErrors()
		h.renderSettings(w, r, http.StatusUnprocessableEntity, "", data)
		return
	}

	if _, err := h.Deps.API.UpdateSettings(ctx, session.Token(ctx), in); err != nil {
		if pages.NeedsLogin(err) {
			h.Fail(w, r, "admin.settings.update", err)
			return
		}
		h.renderSettings(w, r, pages.StatusOf(err), h.Banner("admin.settings.update", err), data)
		return
	}
	if h.Deps.Notifier != nil {
		actor := pages.Session(r).User()
		if err := h.Deps.Notifier.PublishSettingsChanged(ctx, *actor, in); err != nil {
			h.Log.Warn("settings audit event not published", map[string]interface{}{"error": err.Error()})
		}
	}
	h.Flash(w, r, "/admin/settings", session.FlashSuccess, "Settings saved.")
}
