package company

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

func setup(t *testing.T, backend *http.ServeMux) (*pagestest.Env, *session.Session, *http.Cookie) {
	t.Helper()
	env := pagestest.New(t, backend)
	h, err := NewHandler(env.Deps)
	require.NoError(t, err)
	h.Register(env.Mux)
	sess, cookie := env.Login(models.RoleCompany, "c1")
	return env, sess, cookie
}

func postings() []models.Internship {
	statuses := []models.InternshipStatus{models.InternshipOpen, models.InternshipOpen, models.InternshipClosed, models.InternshipFilled, models.InternshipOpen, models.InternshipClosed}
	out := make([]models.Internship, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, models.Internship{
			ID:               fmt.Sprintf("p%d", i+1),
			Title:            fmt.Sprintf("Posting %d", i+1),
			Status:           s,
			ApplicationCount: i,
			CreatedAt:        pagestest.Now.Add(-time.Duration(i) * time.Hour),
		})
	}
	return out
}

func validForm() url.Values {
	return url.Values{
		"title":        {"Backend Intern"},
		"description":  {"Build services in Go with the platform team."},
		"location":     {"Remote, US"},
		"status":       {"open"},
		"salary_min":   {"3000"},
		"salary_max":   {"4000"},
		"deadline":     {"2025-06-30"},
		"opt_eligible": {"1"},
	}
}

func TestRoutesRequireCompany(t *testing.T) {
	env, _, _ := setup(t, http.NewServeMux())
	_, cookie := env.Login(models.RoleStudent, "s1")

	rec := env.Get("/company/internships", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student/dashboard", rec.Header().Get("Location"))
}

func TestDashboard(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("GET /companies/me/internships", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, postings())
	})
	env, _, cookie := setup(t, backend)

	rec := env.Get("/company/dashboard", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Posting 5<")
	assert.NotContains(t, body, "Posting 6<")

	counts := countByStatus(postings())
	assert.Equal(t, []StatusCount{{"open", 3}, {"closed", 2}, {"filled", 1}}, counts)
}

func TestInternships_FilterByStatus(t *testing.T) {
	backend := http.NewServeMux()
	backend.HandleFunc("GET /companies/me/internships", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, postings())
	})
	env, _, cookie := setup(t, backend)

	rec := env.Get("/company/internships?status=closed", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Posting 3<")
	assert.Contains(t, rec.Body.String(), "Posting 6<")
	assert.NotContains(t, rec.Body.String(), "Posting 1<")
}

func TestCreateInternship(t *testing.T) {
	var got models.InternshipInput
	backend := http.NewServeMux()
	backend.HandleFunc("POST /internships", func(w http.ResponseWriter, r *http.Request) {
		pagestest.Decode(t, r, &got)
		pagestest.JSON(w, http.StatusCreated, models.Internship{ID: "new1", Title: got.Title})
	})
	env, sess, cookie := setup(t, backend)

	t.Run("salary range inverted", func(t *testing.T) {
		form := validForm()
		form.Set("salary_min", "5000")
		rec := env.PostForm("/company/internships", form, sess, cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Maximum salary must not be below the minimum")
	})

	t.Run("bad deadline", func(t *testing.T) {
		form := validForm()
		form.Set("deadline", "next week")
		rec := env.PostForm("/company/internships", form, sess, cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Enter a valid date")
	})

	t.Run("created", func(t *testing.T) {
		rec := env.PostForm("/company/internships", validForm(), sess, cookie)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/company/internships", rec.Header().Get("Location"))
		assert.Equal(t, "Backend Intern", got.Title)
		assert.True(t, got.OPTEligible)
		assert.False(t, got.CPTEligible)
		require.NotNil(t, got.Deadline)
		assert.Equal(t, "2025-06-30", got.Deadline.UTC().Format("2006-01-02"))
	})
}

func TestEditAndUpdateInternship(t *testing.T) {
	deadline := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	var got models.InternshipInput
	backend := http.NewServeMux()
	backend.HandleFunc("GET /internships/{id}", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, models.Internship{ID: "p1", Title: "Data Intern", Description: "Crunch numbers all day", Location: "NYC", Status: models.InternshipOpen, Deadline: &deadline})
	})
	backend.HandleFunc("PUT /internships/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "locked" {
			pagestest.JSON(w, http.StatusForbidden, pagestest.Detail("Not your posting"))
			return
		}
		pagestest.Decode(t, r, &got)
		pagestest.JSON(w, http.StatusOK, models.Internship{ID: "p1"})
	})
	env, sess, cookie := setup(t, backend)

	rec := env.Get("/company/internships/p1/edit", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Data Intern"`)
	assert.Contains(t, rec.Body.String(), `value="2025-05-01"`)
	assert.Contains(t, rec.Body.String(), `action="/company/internships/p1"`)

	form := validForm()
	form.Set("status", "filled")
	rec = env.PostForm("/company/internships/p1", form, sess, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, models.InternshipFilled, got.Status)

	rec = env.PostForm("/company/internships/locked", validForm(), sess, cookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You do not have permission to do that.")
}

func TestDeleteInternship(t *testing.T) {
	deleted := ""
	backend := http.NewServeMux()
	backend.HandleFunc("DELETE /internships/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	env, sess, cookie := setup(t, backend)

	rec := env.PostForm("/company/internships/p4/delete", nil, sess, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "p4", deleted)
	assert.Equal(t, "Posting deleted.", env.Flash(cookie).Message)
}

func TestApplicantsAndStatus(t *testing.T) {
	var got map[string]string
	backend := http.NewServeMux()
	backend.HandleFunc("GET /internships/{id}", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, models.Internship{ID: "p1", Title: "Data Intern", Status: models.InternshipOpen})
	})
	backend.HandleFunc("GET /internships/{id}/applications", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, []models.Application{
			{ID: "a1", StudentID: "s1", StudentName: "Ana", CompanyStatus: models.CompanyPending, StudentStatus: models.StudentApplied},
			{ID: "a2", StudentID: "s2", StudentName: "Ben", CompanyStatus: models.CompanyInterviewing, StudentStatus: models.StudentApplied},
		})
	})
	backend.HandleFunc("PATCH /applications/{id}/company-status", func(w http.ResponseWriter, r *http.Request) {
		pagestest.Decode(t, r, &got)
		pagestest.JSON(w, http.StatusOK, models.Application{ID: r.PathValue("id")})
	})
	env, sess, cookie := setup(t, backend)

	rec := env.Get("/company/internships/p1/applications?status=interviewing", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Applicants: Data Intern")
	assert.Contains(t, rec.Body.String(), "Ben")
	assert.NotContains(t, rec.Body.String(), "Ana")

	back := "/company/internships/p1/applications?status=interviewing"
	rec = env.PostForm("/company/applications/a2/status", url.Values{"company_status": {"offered"}, "next": {back}}, sess, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, back, rec.Header().Get("Location"))
	assert.Equal(t, "offered", got["company_status"])
	assert.Equal(t, "Application moved to Offered.", env.Flash(cookie).Message)

	rec = env.PostForm("/company/applications/a2/status", url.Values{"company_status": {"promoted"}}, sess, cookie)
	assert.Equal(t, "/company/internships", rec.Header().Get("Location"))
	assert.Equal(t, session.FlashError, env.Flash(cookie).Kind)
}

func TestSaveProfile(t *testing.T) {
	var got models.CompanyProfile
	backend := http.NewServeMux()
	backend.HandleFunc("GET /companies/me/profile", func(w http.ResponseWriter, r *http.Request) {
		pagestest.JSON(w, http.StatusOK, models.CompanyProfile{ID: "co1", Name: "Acme"})
	})
	backend.HandleFunc("PUT /companies/me/profile", func(w http.ResponseWriter, r *http.Request) {
		pagestest.Decode(t, r, &got)
		pagestest.JSON(w, http.StatusOK, got)
	})
	env, sess, cookie := setup(t, backend)

	rec := env.Get("/company/profile", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Acme"`)

	rec = env.PostForm("/company/profile", url.Values{"id": {"co1"}, "name": {"Acme"}, "website": {"acme.com"}}, sess, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.PostForm("/company/profile", url.Values{"id": {"co1"}, "name": {"Acme Rockets"}, "website": {"https://acme.com"}}, sess, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Acme Rockets", got.Name)
	assert.Equal(t, "c1", got.UserID)
}
