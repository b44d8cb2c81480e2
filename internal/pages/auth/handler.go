// Package auth serves login, logout and the two registration flows.
package auth

import (
	"net/http"

	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/validation"
	"internship-portal/internal/models"
	"internship-portal/internal/pages"
	"internship-portal/internal/session"
	"internship-portal/internal/web/render"
)

type Handler struct {
	pages.Base
}

func NewHandler(deps pages.Dependencies) (*Handler, error) {
	base, err := pages.NewBase(deps, "auth")
	if err != nil {
		return nil, err
	}
	return &Handler{Base: base}, nil
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)
	mux.HandleFunc("GET /register", h.RegisterChoice)
	mux.HandleFunc("GET /register/student", h.StudentForm)
	mux.HandleFunc("POST /register/student", h.RegisterStudent)
	mux.HandleFunc("GET /register/company", h.CompanyForm)
	mux.HandleFunc("POST /register/company", h.RegisterCompany)
}

type loginData struct {
	Email  string
	Next   string
	Errors map[string]string
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if sess := pages.Session(r); sess.IsAuthenticated() {
		http.Redirect(w, r, sess.Role.DashboardPath(), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, "", loginData{Next: r.URL.Query().Get("next")})
}

func (h *Handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, banner string, data loginData) {
	h.Render(w, r, render.Page{
		Name:   "auth/login",
		Title:  "Log in",
		Nav:    "login",
		Status: status,
		Error:  banner,
		Data:   data,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req := models.LoginRequest{
		Email:    pages.FormString(r, "email"),
		Password: r.FormValue("password"),
	}
	data := loginData{Email: req.Email, Next: r.FormValue("next")}

	result, err := validation.Validate(validation.FormLogin, req)
	if err != nil {
		h.Fail(w, r, "login.validate", err)
		return
	}
	if !result.Valid {
		data.Errors = result.FieldErrors()
		h.renderLogin(w, r, http.StatusUnprocessableEntity, "", data)
		return
	}

	auth, err := h.Deps.API.Login(r.Context(), req)
	if err != nil {
		status := errors.Normalize(err).HTTPStatus()
		banner := h.Banner("login", err)
		if errors.Is(err, errors.ErrCodeUnauthorized) {
			banner = "Invalid email or password."
		}
		h.renderLogin(w, r, status, banner, data)
		return
	}
	if err := h.completeUser(r, auth); err != nil {
		h.renderLogin(w, r, errors.Normalize(err).HTTPStatus(), h.Banner("auth.me", err), data)
		return
	}

	h.startSession(w, r, auth, session.SafeNext(data.Next, auth.User.Role.DashboardPath()), "Welcome back, "+displayName(auth.User)+".")
}

// completeUser fills in the user of a token response that carries only
// the token.
func (h *Handler) completeUser(r *http.Request, auth *models.AuthResponse) error {
	if auth.User.ID != "" {
		return nil
	}
	user, err := h.Deps.API.Me(r.Context(), auth.AccessToken)
	if err != nil {
		return err
	}
	auth.User = *user
	return nil
}

// startSession logs the browser in and redirects to dest with a greeting.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, auth *models.AuthResponse, dest, greeting string) {
	sess, err := h.Deps.Sessions.Start(r.Context(), w, r, auth)
	if err != nil {
		h.Fail(w, r, "session.start", err)
		return
	}
	r = r.WithContext(session.WithSession(r.Context(), sess))
	h.Flash(w, r, dest, session.FlashSuccess, greeting)
}

func displayName(u models.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Deps.Sessions.End(r.Context(), w, r); err != nil {
		h.Log.Warn("failed to end session", map[string]interface{}{"error": err.Error()})
	}
	r = r.WithContext(session.WithSession(r.Context(), nil))
	h.Flash(w, r, "/", session.FlashInfo, "You have been logged out.")
}

type registerData struct {
	Settings *models.PublicSettings
	Student  models.StudentRegistration
	Company  models.CompanyRegistration
	Errors   map[string]string
	Closed   bool
}

// settings fetches the public flags. When the backend cannot answer, the
// forms stay open and the backend has the final say on submit.
func (h *Handler) settings(r *http.Request) *models.PublicSettings {
	s, err := h.Deps.API.PublicSettings(r.Context())
	if err != nil {
		h.Log.Warn("public settings unavailable", map[string]interface{}{"error": err.Error()})
		return &models.PublicSettings{RegistrationOpen: true, CompanySignupOpen: true}
	}
	return s
}

const (
	registrationClosed  = "Registration is currently closed."
	companySignupClosed = "Company sign-up is currently closed."
)

func studentClosed(s *models.PublicSettings) bool {
	return !s.RegistrationOpen
}

func companyClosed(s *models.PublicSettings) bool {
	return !s.RegistrationOpen || !s.CompanySignupOpen
}

func (h *Handler) RegisterChoice(w http.ResponseWriter, r *http.Request) {
	if sess := pages.Session(r); sess.IsAuthenticated() {
		http.Redirect(w, r, sess.Role.DashboardPath(), http.StatusSeeOther)
		return
	}
	s := h.settings(r)
	banner := ""
	if studentClosed(s) {
		banner = registrationClosed
	}
	h.Render(w, r, render.Page{
		Name:  "auth/register",
		Title: "Create an account",
		Nav:   "register",
		Error: banner,
		Data:  registerData{Settings: s, Closed: studentClosed(s)},
	})
}

func (h *Handler) renderStudent(w http.ResponseWriter, r *http.Request, status int, banner string, data registerData) {
	h.Render(w, r, render.Page{
		Name:   "auth/register_student",
		Title:  "Student sign-up",
		Nav:    "register",
		Status: status,
		Error:  banner,
		Data:   data,
	})
}

func (h *Handler) StudentForm(w http.ResponseWriter, r *http.Request) {
	s := h.settings(r)
	data := registerData{Settings: s, Closed: studentClosed(s)}
	banner := ""
	if data.Closed {
		banner = registrationClosed
	}
	h.renderStudent(w, r, http.StatusOK, banner, data)
}

func (h *Handler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	s := h.settings(r)
	in := models.StudentRegistration{
		Email:          pages.FormString(r, "email"),
		Password:       r.FormValue("password"),
		FullName:       pages.FormString(r, "full_name"),
		University:     pages.FormString(r, "university"),
		Major:          pages.FormString(r, "major"),
		GraduationYear: pages.FormInt(r, "graduation_year"),
	}
	data := registerData{Settings: s, Student: in}
	data.Student.Password = ""

	if studentClosed(s) {
		data.Closed = true
		h.renderStudent(w, r, http.StatusForbidden, registrationClosed, data)
		return
	}

	result, err := validation.ValidateStudentRegistration(in, r.FormValue("confirm_password"))
	if err != nil {
		h.Fail(w, r, "register.student.validate", err)
		return
	}
	if !result.Valid {
		data.Errors = result.FieldErrors()
		h.renderStudent(w, r, http.StatusUnprocessableEntity, "", data)
		return
	}

	auth, err := h.Deps.API.RegisterStudent(r.Context(), in)
	if err != nil {
		h.renderStudent(w, r, errors.Normalize(err).HTTPStatus(), h.Banner("register.student", err), data)
		return
	}
	if err := h.completeUser(r, auth); err != nil {
		h.Fail(w, r, "auth.me", err)
		return
	}
	h.startSession(w, r, auth, models.RoleStudent.DashboardPath(), "Your student account is ready.")
}

func (h *Handler) renderCompany(w http.ResponseWriter, r *http.Request, status int, banner string, data registerData) {
	h.Render(w, r, render.Page{
		Name:   "auth/register_company",
		Title:  "Company sign-up",
		Nav:    "register",
		Status: status,
		Error:  banner,
		Data:   data,
	})
}

func (h *Handler) CompanyForm(w http.ResponseWriter, r *http.Request) {
	s := h.settings(r)
	data := registerData{Settings: s, Closed: companyClosed(s)}
	banner := ""
	if data.Closed {
		banner = companySignupClosed
	}
	h.renderCompany(w, r, http.StatusOK, banner, data)
}

func (h *Handler) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	s := h.settings(r)
	in := models.CompanyRegistration{
		Email:       pages.FormString(r, "email"),
		Password:    r.FormValue("password"),
		CompanyName: pages.FormString(r, "company_name"),
		Industry:    pages.FormString(r, "industry"),
		Website:     pages.FormString(r, "website"),
		Location:    pages.FormString(r, "location"),
	}
	data := registerData{Settings: s, Company: in}
	data.Company.Password = ""

	if companyClosed(s) {
		data.Closed = true
		h.renderCompany(w, r, http.StatusForbidden, companySignupClosed, data)
		return
	}

	result, err := validation.ValidateCompanyRegistration(in, r.FormValue("confirm_password"))
	if err != nil {
		h.Fail(w, r, "register.company.validate", err)
		return
	}
	if !result.Valid {
		data.Errors = result.FieldErrors()
		h.renderCompany(w, r, http.StatusUnprocessableEntity, "", data)
		return
	}

	auth, err := h.Deps.API.RegisterCompany(r.Context(), in)
	if err != nil {
		h.renderCompany(w, r, errors.Normalize(err).HTTPStatus(), h.Banner("register.company", err), data)
		return
	}
	if err := h.completeUser(r, auth); err != nil {
		h.Fail(w, r, "auth.me", err)
		return
	}
	h.startSession(w, r, auth, models.RoleCompany.DashboardPath(), "Your company account is ready.")
}
