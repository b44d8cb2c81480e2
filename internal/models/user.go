package models

import "time"

// Role is the account type the backend assigns at registration.
type Role string

const (
	RoleStudent Role = "student"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// DashboardPath is where a freshly logged-in user of this role lands.
func (r Role) DashboardPath() string {
	switch r {
	case RoleStudent:
		return "/student/dashboard"
	case RoleCompany:
		return "/company/dashboard"
	case RoleAdmin:
		return "/admin/dashboard"
	default:
		return "/"
	}
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentProfile is the editable profile of a student account.
type StudentProfile struct {
	UserID         string   `json:"user_id"`
	FullName       string   `json:"full_name"`
	University     string   `json:"university"`
	Major          string   `json:"major"`
	GraduationYear int      `json:"graduation_year,omitempty"`
	Bio            string   `json:"bio,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	ResumeURL      string   `json:"resume_url,omitempty"`
	NeedsOPT       bool     `json:"needs_opt"`
	NeedsCPT       bool     `json:"needs_cpt"`
}

// CompanyProfile is both the public company page and the company's own
// editable profile.
type CompanyProfile struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id,omitempty"`
	Name        string `json:"name"`
	Industry    string `json:"industry,omitempty"`
	Website     string `json:"website,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Size        string `json:"size,omitempty"`
}
