package render

import (
	"internship-portal/internal/models"
	"internship-portal/internal/session"
	"internship-portal/pkg/registry"
)

// Layout captures the shared chrome: titles, navigation state, auth flags
// and the banners shown above page content.
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *models.User
	Nav             []registry.NavItem
	UnreadCount     int
	Flash           *session.Flash
	Error           string
	Announcement    string
	AppName         string
	Year            int
}

// View is the value every page template executes against.
type View struct {
	Layout Layout
	Data   interface{}
}

// IsCurrent reports whether the nav item id is the active page.
func (l Layout) IsCurrent(id string) bool {
	return l.CurrentPage == id
}

// HasRole is used by templates to switch role specific fragments.
func (l Layout) HasRole(role string) bool {
	return l.User != nil && string(l.User.Role) == role
}
