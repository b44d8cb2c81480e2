// internal/models/application.go
package models

import "time"

// StudentStatus is the application state as the student sees it.
type StudentStatus string

const (
	StudentApplied   StudentStatus = "applied"
	StudentWithdrawn StudentStatus = "withdrawn"
	StudentAccepted  StudentStatus = "accepted"
	StudentDeclined  StudentStatus = "declined"
)

func (s StudentStatus) IsValid() bool {
	switch s {
	case StudentApplied, StudentWithdrawn, StudentAccepted, StudentDeclined:
		return true
	}
	return false
}

// CompanyStatus is the application state as the company sees it.
type CompanyStatus string

const (
	CompanyPending      CompanyStatus = "pending"
	CompanyReviewing    CompanyStatus = "reviewing"
	CompanyInterviewing CompanyStatus = "interviewing"
	CompanyOffered      CompanyStatus = "offered"
	CompanyRejected     CompanyStatus = "rejected"
	CompanyHired        CompanyStatus = "hired"
)

func (s CompanyStatus) IsValid() bool {
	switch s {
	case CompanyPending, CompanyReviewing, CompanyInterviewing, CompanyOffered, CompanyRejected, CompanyHired:
		return true
	}
	return false
}

// CompanyStatuses lists the company-side states in pipeline order.
var CompanyStatuses = []CompanyStatus{
	CompanyPending, CompanyReviewing, CompanyInterviewing, CompanyOffered, CompanyRejected, CompanyHired,
}

// Application joins a student to an internship. The two status fields move
// independently; transitions are validated by the backend.
type Application struct {
	ID              string        `json:"id"`
	InternshipID    string        `json:"internship_id"`
	StudentID       string        `json:"student_id"`
	InternshipTitle string        `json:"internship_title,omitempty"`
	CompanyName     string        `json:"company_name,omitempty"`
	StudentName     string        `json:"student_name,omitempty"`
	StudentEmail    string        `json:"student_email,omitempty"`
	CoverLetter     string        `json:"cover_letter,omitempty"`
	StudentStatus   StudentStatus `json:"student_status"`
	CompanyStatus   CompanyStatus `json:"company_status"`
	AppliedAt       time.Time     `json:"applied_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type ApplicationInput struct {
	InternshipID string `json:"internship_id"`
	CoverLetter  string `json:"cover_letter"`
}
