package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_HasMenuPerRole(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.Validate())

	for _, role := range []string{"student", "company", "admin"} {
		assert.NotEmpty(t, reg.For(role), role)
	}
	assert.Equal(t, reg.Menus[PublicMenu], reg.For(""))
	assert.Equal(t, reg.Menus[PublicMenu], reg.For("unknown"))
}

func TestDefault_MessagesCarryUnreadBadge(t *testing.T) {
	for _, role := range []string{"student", "company"} {
		var badge string
		for _, item := range Default().For(role) {
			if item.ID == "messages" {
				badge = item.Badge
			}
		}
		assert.Equal(t, BadgeUnread, badge, role)
	}
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nav.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"2","menus":{"public":[{"id":"home","label":"Home","path":"/"}]}}`), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2", reg.Version)
	assert.Len(t, reg.For(""), 1)

	_, err = LoadRegistry(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	reg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default().Version, reg.Version)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		reg  NavRegistry
	}{
		{"missing public", NavRegistry{Menus: map[string][]NavItem{"admin": {}}}},
		{"duplicate id", NavRegistry{Menus: map[string][]NavItem{"public": {
			{ID: "a", Label: "A", Path: "/a"}, {ID: "a", Label: "B", Path: "/b"},
		}}}},
		{"relative path", NavRegistry{Menus: map[string][]NavItem{"public": {{ID: "a", Label: "A", Path: "a"}}}}},
		{"missing label", NavRegistry{Menus: map[string][]NavItem{"public": {{ID: "a", Path: "/a"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.reg.Validate())
		})
	}
}

func TestAddUpdateSave(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.Add("student", NavItem{ID: "resources", Label: "Resources", Path: "/resources"}))
	assert.Error(t, reg.Add("student", NavItem{ID: "resources", Label: "Again", Path: "/again"}))

	require.NoError(t, reg.Update("student", "resources", "label", "Career resources"))
	assert.Error(t, reg.Update("student", "resources", "color", "red"))
	assert.Error(t, reg.Update("student", "missing", "label", "x"))

	path := filepath.Join(t.TempDir(), "nested", "nav.json")
	require.NoError(t, Save(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	items := loaded.For("student")
	assert.Equal(t, NavItem{ID: "resources", Label: "Career resources", Path: "/resources"}, items[len(items)-1])
}

func TestSave_RejectsInvalidRegistry(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.Add("admin", NavItem{ID: "audit", Label: "Audit", Path: "audit"}))

	path := filepath.Join(t.TempDir(), "nav.json")
	assert.Error(t, Save(reg, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
