package student

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"internship-portal/internal/models"
	"internship-portal/internal/pages/pagestest"
	"internship-portal/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, backend *http.ServeMux) *pagestest.Env {
	t.Helper()
	env := pagestest.New(t, backend)
	h, err := NewHandler(env.Deps)
	require.NoError(t, err)
	h.Register(env.Mux)
	return env
}

func applications(n int) []models.Application {
	statuses := models.CompanyStatuses
	out := make([]models.Application, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, models.Application{
			ID:              fmt.Sprintf("a%d", i),
			InternshipID:    fmt.Sprintf("i%d", i),
			InternshipTitle: fmt.Sprintf("Role %d", i),
			CompanyName:     "Acme",
			StudentStatus:   models.StudentApplied,
			CompanyStatus:   statuses[i%len(statuses)],
			AppliedAt:       pagestest.Now.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}
	return out
}

func TestRoutesRequireStudent(t *testing.T) {
	env := setup(t, http.NewServeMux())

	rec := env.Get("/student/dashboard", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fstudent%2Fdashboard", rec.Header().Get("Location"))

	_, cookie := env.Login(models.RoleCompany, "c1")
	rec = env.Get("/student/dashboard", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/company/dashboard", rec.Header().Get("Location"))
}

func TestDashboard(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("GET /applications/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-s1", r.Header.Get("Authorization"))
		pagestest.JSON(w, http.StatusOK, applications(7))
	})
	backend.HandleFunc("GET /students/me/profile", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, models.StudentProfile{FullName: "Sam", NeedsOPT: true})
	})
	backend.HandleFunc("GET /internships", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, []models.Internship{
			{ID: "i1", Title: "Already applied", Status: models.InternshipOpen, OPTEligible: true},
			{ID: "x1", Title: "No OPT", Status: models.InternshipOpen},
			{ID: "x2", Title: "Great fit", Status: models.InternshipOpen, OPTEligible: true},
		})
	})
	env := setup(t, backend)
	_, cookie := env.Login(models.RoleStudent, "s1")

	rec := env.Get("/student/dashboard", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "View all 7")
	assert.Contains(t, body, "Role 5")
	assert.NotContains(t, body, "Role 6")
	assert.Contains(t, body, "Great fit")
	assert.NotContains(t, body, "No OPT")
	assert.NotContains(t, body, "Already applied")
}

func TestCountByCompanyStatus(t *testing.T) {
	counts := countByCompanyStatus(applications(12))
	require.Len(t, counts, len(models.CompanyStatuses))
	total := 0
	for i, c := range counts {
		assert.Equal(t, string(models.CompanyStatuses[i]), c.Status)
		total += c.Count
	}
	assert.Equal(t, 12, total)
}

func TestRecommend_SkipsExpiredDeadlines(t *testing.T) {
	past := pagestest.Now.Add(-time.Hour)
	open := []models.Internship{
		{ID: "a", Deadline: &past},
		{ID: "b"},
	}
	got := recommend(open, nil, nil, func() time.Time { return pagestest.Now })
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestApplications_FilterAndPaginate(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("GET /applications/me", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, applications(24))
	})
	env := setup(t, backend)
	_, cookie := env.Login(models.RoleStudent, "s1")

	// every 6th application is "offered" (index 3): 3, 9, 15, 21
	rec := env.Get("/student/applications?status=offered", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Role 3<")
	assert.Contains(t, body, "Role 21<")
	assert.NotContains(t, body, "Role 4<")
	assert.Contains(t, body, "Accept offer")

	rec = env.Get("/student/applications?page=3", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Role 24<")
	assert.NotContains(t, rec.Body.String(), "Role 20<")
}

func TestApply(t *testing.T) {
	var got models.ApplicationInput
	backend := http.NewServeMux()
	backend.HandleFunc("POST /applications", func(w http.ResponseWriter, r *http.Request) {
		pagestest.Decode(t, r, &got)
		if got.InternshipID == "dup" {
			pagestest.JSON(w, http.StatusConflict, pagestest.Detail("You already applied"))
			return
		}
		pagestest.JSON(w, http.StatusCreated, models.Application{ID: "a1", InternshipID: got.InternshipID})
	})
	env := setup(t, backend)
	sess, cookie := env.Login(models.RoleStudent, "s1")
	letter := "I am very excited to join your team this summer."

	t.Run("short cover letter", func(t *testing.T) {
		rec := env.PostForm("/internships/i9/apply", url.Values{"cover_letter": {"hi"}}, sess, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/internships/i9", rec.Header().Get("Location"))
		flash := env.Flash(cookie)
		require.NotNil(t, flash)
		assert.Equal(t, session.FlashError, flash.Kind)
	})

	t.Run("submitted", func(t *testing.T) {
		rec := env.PostForm("/internships/i9/apply", url.Values{"cover_letter": {letter}}, sess, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/student/applications", rec.Header().Get("Location"))
		assert.Equal(t, "i9", got.InternshipID)
		assert.Equal(t, letter, got.CoverLetter)
	})

	t.Run("backend conflict flashes reason", func(t *testing.T) {
		rec := env.PostForm("/internships/dup/apply", url.Values{"cover_letter": {letter}}, sess, cookie)
		assert.Equal(t, "/internships/dup", rec.Header().Get("Location"))
		flash := env.Flash(cookie)
		require.NotNil(t, flash)
		assert.Equal(t, "You already applied", flash.Message)
	})
}

func TestUpdateStatus(t *testing.T) {
	var got map[string]string
	backend := http.NewServeMux()
	backend.HandleFunc("PATCH /applications/{id}/student-status", func(w http.ResponseWriter, r *http.Request) {
		pagestest.Decode(t, r, &got)
		pagestest.JSON(w, http.StatusOK, models.Application{ID: r.PathValue("id"), StudentStatus: models.StudentStatus(got["student_status"])})
	})
	env := setup(t, backend)
	sess, cookie := env.Login(models.RoleStudent, "s1")

	rec := env.PostForm("/student/applications/a1/status", url.Values{"student_status": {"withdrawn"}}, sess, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "withdrawn", got["student_status"])
	assert.Equal(t, "Application withdrawn.", env.Flash(cookie).Message)

	got = nil
	rec = env.PostForm("/student/applications/a1/status", url.Values{"student_status": {"applied"}}, sess, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, got)
	assert.Equal(t, session.FlashError, env.Flash(cookie).Kind)
}

func TestExpiredTokenLogsOut(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("GET /students/me/profile", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusUnauthorized, pagestest.Detail("Token expired"))
	})
	env := setup(t, backend)
	_, cookie := env.Login(models.RoleStudent, "s1")

	rec := env.Get("/student/profile", cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?next=%2Fstudent%2Fprofile", rec.Header().Get("Location"))

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	sess, err := env.Sessions.Load(req)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSaveProfile(t *testing.T) {
	var got models.StudentProfile
	backend := http.NewServeMux()
	backend.HandleFunc("PUT /students/me/profile", func(w http.ResponseWriter, r *http.Request) {
		pagestest.Decode(t, r, &got)
		pagestest.JSON(w, http.StatusOK, got)
	})
	env := setup(t, backend)
	sess, cookie := env.Login(models.RoleStudent, "s1")

	t.Run("invalid resume link", func(t *testing.T) {
		rec := env.PostForm("/student/profile", url.Values{
			"full_name": {"Sam Student"}, "university": {"MIT"}, "resume_url": {"ftp://nope"},
		}, sess, cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("saved", func(t *testing.T) {
		rec := env.PostForm("/student/profile", url.Values{
			"full_name": {"Sam Student"}, "university": {"MIT"}, "skills": {"go, sql, ,docker"}, "needs_cpt": {"on"},
		}, sess, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, []string{"go", "sql", "docker"}, got.Skills)
		assert.True(t, got.NeedsCPT)
		assert.False(t, got.NeedsOPT)
	})
}
