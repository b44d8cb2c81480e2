// Package pages holds what the per-area page handlers share: the backend
// API surface they consume, their dependencies and the failure handling of
// a page action.
package pages

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/models"
	"internship-portal/internal/session"
	"internship-portal/internal/web/render"
)

// API is the backend surface used by the pages. *apiclient.Client
// implements it.
type API interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	RegisterStudent(ctx context.Context, req models.StudentRegistration) (*models.AuthResponse, error)
	RegisterCompany(ctx context.Context, req models.CompanyRegistration) (*models.AuthResponse, error)
	Me(ctx context.Context, token string) (*models.User, error)
	PublicSettings(ctx context.Context) (*models.PublicSettings, error)

	ListInternships(ctx context.Context, token string, q models.InternshipQuery) ([]models.Internship, error)
	GetInternship(ctx context.Context, token, id string) (*models.Internship, error)
	CreateInternship(ctx context.Context, token string, in models.InternshipInput) (*models.Internship, error)
	UpdateInternship(ctx context.Context, token, id string, in models.InternshipInput) (*models.Internship, error)
	DeleteInternship(ctx context.Context, token, id string) error
	CompanyInternships(ctx context.Context, token string) ([]models.Internship, error)

	Apply(ctx context.Context, token string, in models.ApplicationInput) (*models.Application, error)
	MyApplications(ctx context.Context, token string) ([]models.Application, error)
	InternshipApplications(ctx context.Context, token, internshipID string) ([]models.Application, error)
	UpdateStudentStatus(ctx context.Context, token, applicationID string, status models.StudentStatus) (*models.Application, error)
	UpdateCompanyStatus(ctx context.Context, token, applicationID string, status models.CompanyStatus) (*models.Application, error)

	Conversations(ctx context.Context, token string) ([]models.Conversation, error)
	Thread(ctx context.Context, token, userID string) ([]models.Message, error)
	SendMessage(ctx context.Context, token string, in models.MessageInput) (*models.Message, error)
	MarkRead(ctx context.Context, token, messageID string) error
	UnreadCount(ctx context.Context, token string) (int, error)

	StudentProfile(ctx context.Context, token string) (*models.StudentProfile, error)
	UpdateStudentProfile(ctx context.Context, token string, p models.StudentProfile) (*models.StudentProfile, error)
	CompanyProfile(ctx context.Context, token string) (*models.CompanyProfile, error)
	UpdateCompanyProfile(ctx context.Context, token string, p models.CompanyProfile) (*models.CompanyProfile, error)
	Company(ctx context.Context, id string) (*models.CompanyProfile, error)

	Users(ctx context.Context, token string) ([]models.User, error)
	DeleteUser(ctx context.Context, token, id string) error
	SetUserActive(ctx context.Context, token, id string, active bool) error
	Settings(ctx context.Context, token string) (*models.SystemSettings, error)
	UpdateSettings(ctx context.Context, token string, s models.SystemSettings) (*models.SystemSettings, error)
	Stats(ctx context.Context, token string) (*models.AdminStats, error)
}

// Notifier is implemented by *notify.Notifier.
type Notifier interface {
	SendContact(ctx context.Context, msg models.ContactMessage) error
	PublishSettingsChanged(ctx context.Context, actor models.User, settings models.SystemSettings) error
}

type Dependencies struct {
	API      API
	Sessions *session.Manager
	Renderer *render.Renderer
	Notifier Notifier
	Logger   logger.Logger
	PageSize int
	Now      func() time.Time
}

// Validate fills optional fields and checks the required ones.
func (d *Dependencies) Validate() error {
	if d.API == nil {
		return fmt.Errorf("api client is required")
	}
	if d.Sessions == nil {
		return fmt.Errorf("session manager is required")
	}
	if d.Renderer == nil {
		return fmt.Errorf("renderer is required")
	}
	if d.Logger == nil {
		d.Logger = logger.NewStructured("info", "json")
	}
	if d.PageSize <= 0 {
		d.PageSize = 10
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return nil
}

// Base bundles the dependencies with the helpers every area handler uses.
type Base struct {
	Deps   Dependencies
	Log    logger.Logger
	errors *errors.ErrorHandler
}

func NewBase(deps Dependencies, area string) (Base, error) {
	if err := deps.Validate(); err != nil {
		return Base{}, err
	}
	log := deps.Logger.WithFields(map[string]interface{}{"area": area})
	return Base{Deps: deps, Log: log, errors: errors.NewErrorHandler(log)}, nil
}

// Fail ends a page action that hit err. An expired token logs the user out
// and sends them to the login page; a canceled request writes nothing;
// everything else renders the error banner page.
func (b Base) Fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	stdErr := b.errors.Handle(action, err)
	switch stdErr.Code {
	case errors.ErrCodeRequestCanceled:
		return
	case errors.ErrCodeUnauthorized:
		if endErr := b.Deps.Sessions.End(r.Context(), w, r); endErr != nil {
			b.Log.Warn("failed to end session", map[string]interface{}{"error": endErr.Error()})
		}
		b.Deps.Sessions.SetFlash(w, r.WithContext(session.WithSession(r.Context(), nil)), session.FlashError, errors.BannerMessage(stdErr))
		http.Redirect(w, r, session.LoginURL(r), http.StatusSeeOther)
		return
	}
	b.Deps.Renderer.RenderError(w, r, stdErr)
}

// NeedsLogin reports whether err means the backend no longer accepts the
// session token.
func NeedsLogin(err error) bool {
	return errors.Is(err, errors.ErrCodeUnauthorized)
}

// StatusOf is the response status for a page re-rendered after err.
func StatusOf(err error) int {
	return errors.Normalize(err).HTTPStatus()
}

// Banner returns the user facing text for err after logging it.
func (b Base) Banner(action string, err error) string {
	return errors.BannerMessage(b.errors.Handle(action, err))
}

// Render is a shorthand for the renderer.
func (b Base) Render(w http.ResponseWriter, r *http.Request, p render.Page) {
	b.Deps.Renderer.Render(w, r, p)
}

// Flash stores a message and redirects with 303 (post/redirect/get).
func (b Base) Flash(w http.ResponseWriter, r *http.Request, to, kind, message string) {
	b.Deps.Sessions.SetFlash(w, r, kind, message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// FlashFailure reports a failed form action on the page the user came from.
// An expired login still goes through Fail.
func (b Base) FlashFailure(w http.ResponseWriter, r *http.Request, back, action string, err error) {
	if NeedsLogin(err) {
		b.Fail(w, r, action, err)
		return
	}
	b.Flash(w, r, back, session.FlashError, b.Banner(action, err))
}

// Session returns the session of r. Behind RequireRole it is never nil.
func Session(r *http.Request) *session.Session {
	return session.FromContext(r.Context())
}

// PageNumber reads the 1-based page query parameter. Bad values yield 1;
// the paginator clamps the upper bound.
func PageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// FormBool treats any non-empty value other than "false"/"off"/"0" as true,
// matching HTML checkbox submission.
func FormBool(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.FormValue(key))) {
	case "", "false", "off", "0":
		return false
	}
	return true
}

// FormInt parses an optional integer field; blank or invalid input is 0.
func FormInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(key)))
	if err != nil {
		return 0
	}
	return n
}

// FormString returns the trimmed form value.
func FormString(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
