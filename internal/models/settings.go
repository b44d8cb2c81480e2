package models

// SystemSettings are the site-wide flags editable from the admin panel.
type SystemSettings struct {
	RegistrationOpen          bool   `json:"registration_open"`
	CompanySignupOpen         bool   `json:"company_signup_open"`
	MaintenanceMode           bool   `json:"maintenance_mode"`
	MaxApplicationsPerStudent int    `json:"max_applications_per_student"`
	Announcement              string `json:"announcement,omitempty"`
}

// PublicSettings is the unauthenticated subset exposed to every visitor.
type PublicSettings struct {
	RegistrationOpen  bool   `json:"registration_open"`
	CompanySignupOpen bool   `json:"company_signup_open"`
	MaintenanceMode   bool   `json:"maintenance_mode"`
	Announcement      string `json:"announcement,omitempty"`
}

type AdminStats struct {
	TotalUsers        int `json:"total_users"`
	TotalStudents     int `json:"total_students"`
	TotalCompanies    int `json:"total_companies"`
	TotalInternships  int `json:"total_internships"`
	OpenInternships   int `json:"open_internships"`
	TotalApplications int `json:"total_applications"`
}
