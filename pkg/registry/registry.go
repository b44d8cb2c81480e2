// pkg/registry/registry.go
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed default_nav.json
var defaultNav []byte

// LoadRegistry reads and validates a navigation registry from path.
func LoadRegistry(path string) (*NavRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// Default returns the embedded navigation registry.
func Default() *NavRegistry {
	reg, err := parse(defaultNav)
	if err != nil {
		panic(fmt.Sprintf("embedded navigation registry is invalid: %v", err))
	}
	return reg
}

// LoadOrDefault loads path when set and falls back to the embedded registry.
func LoadOrDefault(path string) (*NavRegistry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadRegistry(path)
}

func parse(data []byte) (*NavRegistry, error) {
	var reg NavRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse navigation registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// For returns the menu of role. Unknown or empty roles get the public menu.
func (r *NavRegistry) For(role string) []NavItem {
	if items, ok := r.Menus[role]; ok && role != "" {
		return items
	}
	return r.Menus[PublicMenu]
}

// Validate checks that a public menu exists, that ids are unique within each
// menu and that every path is absolute.
func (r *NavRegistry) Validate() error {
	if _, ok := r.Menus[PublicMenu]; !ok {
		return fmt.Errorf("navigation registry: missing %q menu", PublicMenu)
	}
	for menu, items := range r.Menus {
		seen := make(map[string]struct{}, len(items))
		for _, item := range items {
			if item.ID == "" || item.Label == "" {
				return fmt.Errorf("navigation registry: menu %q has an item without id or label", menu)
			}
			if _, dup := seen[item.ID]; dup {
				return fmt.Errorf("navigation registry: menu %q has duplicate id %q", menu, item.ID)
			}
			seen[item.ID] = struct{}{}
			if !strings.HasPrefix(item.Path, "/") {
				return fmt.Errorf("navigation registry: item %q path %q must be absolute", item.ID, item.Path)
			}
		}
	}
	return nil
}

// Add appends item to menu. The menu is created when missing.
func (r *NavRegistry) Add(menu string, item NavItem) error {
	if r.Menus == nil {
		r.Menus = map[string][]NavItem{}
	}
	for _, existing := range r.Menus[menu] {
		if existing.ID == item.ID {
			return fmt.Errorf("menu %q already has an item %q", menu, item.ID)
		}
	}
	r.Menus[menu] = append(r.Menus[menu], item)
	return nil
}

// Update sets one field of the item id in menu.
func (r *NavRegistry) Update(menu, id, field, value string) error {
	items := r.Menus[menu]
	for i := range items {
		if items[i].ID != id {
			continue
		}
		switch field {
		case "label":
			items[i].Label = value
		case "path":
			items[i].Path = value
		case "badge":
			items[i].Badge = value
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		return nil
	}
	return fmt.Errorf("menu %q has no item %q", menu, id)
}

// Save validates reg and writes it to path as indented JSON.
func Save(reg *NavRegistry, path string) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
