package models

import "time"

type InternshipStatus string

const (
	InternshipOpen   InternshipStatus = "open"
	InternshipClosed InternshipStatus = "closed"
	InternshipFilled InternshipStatus = "filled"
)

func (s InternshipStatus) IsValid() bool {
	switch s {
	case InternshipOpen, InternshipClosed, InternshipFilled:
		return true
	}
	return false
}

// Internship is a posting as returned by the backend.
type Internship struct {
	ID                string           `json:"id"`
	CompanyID         string           `json:"company_id"`
	CompanyName       string           `json:"company_name"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Requirements      string           `json:"requirements,omitempty"`
	Location          string           `json:"location"`
	Remote            bool             `json:"remote"`
	SalaryMin         int              `json:"salary_min,omitempty"`
	SalaryMax         int              `json:"salary_max,omitempty"`
	Deadline          *time.Time       `json:"deadline,omitempty"`
	Status            InternshipStatus `json:"status"`
	OPTEligible       bool             `json:"opt_eligible"`
	CPTEligible       bool             `json:"cpt_eligible"`
	OffersCertificate bool             `json:"offers_certificate"`
	ApplicationCount  int              `json:"application_count,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}

// DeadlinePassed reports whether the application deadline is before now.
func (i Internship) DeadlinePassed(now time.Time) bool {
	return i.Deadline != nil && i.Deadline.Before(now)
}

// InternshipInput is the create/update payload for a posting.
type InternshipInput struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Requirements      string           `json:"requirements,omitempty"`
	Location          string           `json:"location"`
	Remote            bool             `json:"remote"`
	SalaryMin         int              `json:"salary_min,omitempty"`
	SalaryMax         int              `json:"salary_max,omitempty"`
	Deadline          *time.Time       `json:"deadline,omitempty"`
	Status            InternshipStatus `json:"status"`
	OPTEligible       bool             `json:"opt_eligible"`
	CPTEligible       bool             `json:"cpt_eligible"`
	OffersCertificate bool             `json:"offers_certificate"`
}

// InternshipQuery carries the parameters forwarded to GET /internships.
type InternshipQuery struct {
	Search   string
	Location string
	Status   InternshipStatus
}
