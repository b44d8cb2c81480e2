// Package render turns page data into HTML using the embedded templates.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"internship-portal/internal/common/errors"
	"internship-portal/internal/common/logger"
	"internship-portal/internal/session"
	"internship-portal/pkg/registry"
)

//go:embed templates
var templateFS embed.FS

// UnreadCounter feeds the unread badge of the messages nav item.
type UnreadCounter interface {
	UnreadCount(ctx context.Context, token string) (int, error)
}

// FlashPopper hands out the pending flash of a session.
type FlashPopper interface {
	PopFlash(ctx context.Context, sess *session.Session) *session.Flash
}

type Options struct {
	AppName  string
	Registry *registry.NavRegistry
	Unread   UnreadCounter
	Flashes  FlashPopper
	Logger   logger.Logger
}

type Renderer struct {
	pages    map[string]*template.Template
	appName  string
	registry *registry.NavRegistry
	unread   UnreadCounter
	flashes  FlashPopper
	log      logger.Logger
	now      func() time.Time
}

// Page describes one render. Name is the template path without extension,
// e.g. "public/home".
type Page struct {
	Name   string
	Title  string
	Nav    string
	Status int
	Error  string
	// Announcement is shown above the content when set.
	Announcement string
	Data         interface{}
}

func New(opts Options) (*Renderer, error) {
	if opts.Registry == nil {
		opts.Registry = registry.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewStructured("info", "json")
	}
	if opts.AppName == "" {
		opts.AppName = "InternHub"
	}

	rd := &Renderer{
		pages:    map[string]*template.Template{},
		appName:  opts.AppName,
		registry: opts.Registry,
		unread:   opts.Unread,
		flashes:  opts.Flashes,
		log:      opts.Logger,
		now:      time.Now,
	}
	if err := rd.parse(); err != nil {
		return nil, err
	}
	return rd, nil
}

var sharedTemplates = map[string]bool{
	"templates/layout.html":   true,
	"templates/partials.html": true,
}

// parse builds one template set per page: the layout and shared partials
// plus the page's own "content" block.
func (rd *Renderer) parse() error {
	base, err := template.New("layout.html").
		Funcs(templateFuncs(func() time.Time { return rd.now() })).
		ParseFS(templateFS, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}

	return fs.WalkDir(templateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" || sharedTemplates[p] {
			return nil
		}
		set, err := base.Clone()
		if err != nil {
			return err
		}
		if _, err := set.ParseFS(templateFS, p); err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, "templates/"), ".html")
		rd.pages[name] = set
		return nil
	})
}

// Has reports whether a page template exists.
func (rd *Renderer) Has(name string) bool {
	_, ok := rd.pages[name]
	return ok
}

// Layout assembles the shared chrome for r.
func (rd *Renderer) Layout(r *http.Request, p Page) Layout {
	ctx := r.Context()
	sess := session.FromContext(ctx)

	l := Layout{
		Title:        p.Title,
		PageTitle:    p.Title,
		CurrentPage:  p.Nav,
		Error:        p.Error,
		Announcement: p.Announcement,
		AppName:      rd.appName,
		Year:         rd.now().Year(),
	}
	if p.Title != "" {
		l.Title = p.Title + " | " + rd.appName
	} else {
		l.Title = rd.appName
	}

	role := ""
	if sess != nil {
		l.CSRFToken = sess.CSRFToken
		if rd.flashes != nil {
			l.Flash = rd.flashes.PopFlash(ctx, sess)
		}
	}
	if sess.IsAuthenticated() {
		l.IsAuthenticated = true
		l.User = sess.User()
		role = string(sess.Role)
	}
	l.Nav = rd.registry.For(role)

	if l.IsAuthenticated && rd.unread != nil && hasBadge(l.Nav, registry.BadgeUnread) {
		n, err := rd.unread.UnreadCount(ctx, sess.Token)
		if err != nil {
			logger.FromContext(ctx, rd.log).Debug("unread badge unavailable", map[string]interface{}{"error": err.Error()})
		}
		l.UnreadCount = n
	}
	return l
}

func hasBadge(items []registry.NavItem, badge string) bool {
	for _, item := range items {
		if item.Badge == badge {
			return true
		}
	}
	return false
}

// Render executes the page into a buffer first so a template failure never
// leaves a half written response.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, p Page) {
	set, ok := rd.pages[p.Name]
	if !ok {
		logger.FromContext(r.Context(), rd.log).Error("unknown page template", map[string]interface{}{"page": p.Name})
		http.Error(w, "page not found", http.StatusInternalServerError)
		return
	}

	view := View{Layout: rd.Layout(r, p), Data: p.Data}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "layout", view); err != nil {
		logger.FromContext(r.Context(), rd.log).Error("template execution failed", map[string]interface{}{
			"page":  p.Name,
			"error": err.Error(),
		})
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	status := p.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError renders the red banner page for err with a status derived
// from it.
func (rd *Renderer) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := errors.Normalize(err)
	rd.Render(w, r, Page{
		Name:   "error",
		Title:  "Something went wrong",
		Status: stdErr.HTTPStatus(),
		Error:  errors.BannerMessage(stdErr),
		Data:   map[string]interface{}{"Code": string(stdErr.Code)},
	})
}

// NotFound renders the 404 page.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rd.Render(w, r, Page{Name: "notfound", Title: "Page not found", Status: http.StatusNotFound})
}
