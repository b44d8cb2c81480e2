package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"internship-portal/internal/common/errors"
	"internship-portal/internal/models"
	"internship-portal/internal/pages/pagestest"
	"internship-portal/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendContact(ctx context.Context, msg models.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockNotifier) PublishSettingsChanged(ctx context.Context, actor models.User, s models.SystemSettings) error {
	return m.Called(ctx, actor, s).Error(0)
}

func setup(t *testing.T, backend *http.ServeMux, notifier *mockNotifier) (*pagestest.Env, *session.Session, *http.Cookie) {
	t.Helper()
	env := pagestest.New(t, backend)
	if notifier != nil {
		env.Deps.Notifier = notifier
	}
	h, err := NewHandler(env.Deps)
	require.NoError(t, err)
	h.Register(env.Mux)
	sess, cookie := env.Login(models.RoleAdmin, "admin1")
	return env, sess, cookie
}

func TestDashboard(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("GET /admin/stats", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, models.AdminStats{TotalUsers: 42, TotalStudents: 30, TotalCompanies: 11, OpenInternships: 7})
	})
	env, _, cookie := setup(t, backend, nil)

	rec := env.Get("/admin/dashboard", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "42")
	assert.Contains(t, rec.Body.String(), "7 open")
}

func TestDashboard_BackendTimeoutBanner(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("GET /admin/stats", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusGatewayTimeout, pagestest.Detail("upstream slow"))
	})
	env, _, cookie := setup(t, backend, nil)

	rec := env.Get("/admin/dashboard", cookie)
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "The server took too long to respond.")
}

func TestUsers_FilterByRole(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("GET /admin/users", func(w http.ResponseWriter, r *http.Request) {
		users := []models.User{{ID: "admin1", Name: "Root", Role: models.RoleAdmin, IsActive: true}}
		for i := 1; i <= 12; i++ {
			role := models.RoleStudent
			if i%3 == 0 {
				role = models.RoleCompany
			}
			users = append(users, models.User{
				ID: fmt.Sprintf("u%d", i), Name: fmt.Sprintf("Person %d", i), Role: role, IsActive: true,
				CreatedAt: pagestest.Now.Add(-time.Duration(i) * time.Hour),
			})
		}
		pagestest.JSON(w, http.StatusOK, users)
	})
	env, _, cookie := setup(t, backend, nil)

	rec := env.Get("/admin/users?role=company", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "4 users")
	assert.Contains(t, body, "Person 12<")
	assert.NotContains(t, body, "Person 1<")
}

func TestDeleteUser(t *testing.T) {
	deleted := ""
	backend := http.NewServeMux()
	backend.HandleFunc("DELETE /admin/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	env, sess, cookie := setup(t, backend, nil)

	rec := env.PostForm("/admin/users/admin1/delete", nil, sess, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, deleted)
	assert.Equal(t, session.FlashError, env.Flash(cookie).Kind)

	rec = env.PostForm("/admin/users/u5/delete", url.Values{"next": {"/admin/users?page=2"}}, sess, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/users?page=2", rec.Header().Get("Location"))
	assert.Equal(t, "u5", deleted)
}

func TestSetActive(t *testing.T) {
	var got map[string]bool
	backend := http.NewServeMux()
	backend.HandleFunc("PATCH /admin/users/{id}/active", func(w http.ResponseWriter, r *http.Request) {
		pagestest.Decode(t, r, &got)
		pagestest.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	env, sess, cookie := setup(t, backend, nil)

	rec := env.PostForm("/admin/users/u2/active", url.Values{"active": {"false"}}, sess, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, map[string]bool{"is_active": false}, got)
	assert.Equal(t, "User deactivated.", env.Flash(cookie).Message)
}

func TestSaveSettings(t *testing.T) {
	var got models.SystemSettings
	backend := http.NewServeMux()
	backend.HandleFunc("PUT /admin/settings", func(w http.ResponseWriter, r *http.Request) {
		pagestest.Decode(t, r, &got)
		pagestest.JSON(w, http.StatusOK, got)
	})
	notifier := new(mockNotifier)
	env, sess, cookie := setup(t, backend, notifier)

	t.Run("out of range", func(t *testing.T) {
		rec := env.PostForm("/admin/settings", url.Values{"max_applications_per_student": {"0"}}, sess, cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		notifier.AssertNotCalled(t, "PublishSettingsChanged", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("saved and audited", func(t *testing.T) {
		want := models.SystemSettings{RegistrationOpen: true, MaxApplicationsPerStudent: 15, Announcement: "Career fair Friday"}
		notifier.On("PublishSettingsChanged", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.ID == "admin1" && u.Role == models.RoleAdmin
		}), want).Return(nil).Once()

		rec := env.PostForm("/admin/settings", url.Values{
			"registration_open":            {"1"},
			"max_applications_per_student": {"15"},
			"announcement":                 {"Career fair Friday"},
		}, sess, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, want, got)
		notifier.AssertExpectations(t)
	})

	t.Run("audit failure does not undo the save", func(t *testing.T) {
		notifier.On("PublishSettingsChanged", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.NewNotificationSendFailedError("sns", fmt.Errorf("throttled"))).Once()

		rec := env.PostForm("/admin/settings", url.Values{"max_applications_per_student": {"3"}}, sess, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "Settings saved.", env.Flash(cookie).Message)
	})
}
