// pkg/registry/schema.go
package registry

// NavRegistry describes the navigation menus of the layout shell, one menu
// per role plus "public" for anonymous visitors.
type NavRegistry struct {
	Version     string               `json:"version"`
	LastUpdated string               `json:"lastUpdated"`
	Menus       map[string][]NavItem `json:"menus"`
}

type NavItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"`
	// Badge names a counter rendered next to the label, e.g. "unread".
	Badge string `json:"badge,omitempty"`
}

// PublicMenu is the menu key used when nobody is logged in.
const PublicMenu = "public"

// BadgeUnread marks the item that shows the unread message count.
const BadgeUnread = "unread"
