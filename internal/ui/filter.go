package ui

import (
	"strings"

	"internship-portal/internal/models"
)

// InternshipFilter narrows an already fetched list of postings. Zero-valued
// fields do not filter.
type InternshipFilter struct {
	Query           string
	Location        string
	Status          string
	OPTOnly         bool
	CPTOnly         bool
	CertificateOnly bool
	RemoteOnly      bool
}

func (f InternshipFilter) IsZero() bool {
	return f == InternshipFilter{}
}

func (f InternshipFilter) Match(i models.Internship) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !containsFold(i.Title, q) && !containsFold(i.CompanyName, q) && !containsFold(i.Description, q) {
			return false
		}
	}
	if loc := strings.ToLower(strings.TrimSpace(f.Location)); loc != "" && !containsFold(i.Location, loc) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(i.Status), f.Status) {
		return false
	}
	if f.OPTOnly && !i.OPTEligible {
		return false
	}
	if f.CPTOnly && !i.CPTEligible {
		return false
	}
	if f.CertificateOnly && !i.OffersCertificate {
		return false
	}
	if f.RemoteOnly && !i.Remote {
		return false
	}
	return true
}

// Flags keeps only the eligibility toggles, for lists whose text search
// already ran on the backend.
func (f InternshipFilter) Flags() InternshipFilter {
	return InternshipFilter{
		OPTOnly:         f.OPTOnly,
		CPTOnly:         f.CPTOnly,
		CertificateOnly: f.CertificateOnly,
		RemoteOnly:      f.RemoteOnly,
	}
}

// Apply keeps matching postings in their original order.
func (f InternshipFilter) Apply(items []models.Internship) []models.Internship {
	return filter(items, f.Match)
}

// ApplicationFilter selects by either side's status.
type ApplicationFilter struct {
	Status string
	Query  string
}

func (f ApplicationFilter) Match(a models.Application) bool {
	if f.Status != "" &&
		!strings.EqualFold(string(a.CompanyStatus), f.Status) &&
		!strings.EqualFold(string(a.StudentStatus), f.Status) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !containsFold(a.InternshipTitle, q) && !containsFold(a.CompanyName, q) && !containsFold(a.StudentName, q) {
			return false
		}
	}
	return true
}

func (f ApplicationFilter) Apply(items []models.Application) []models.Application {
	return filter(items, f.Match)
}

type ConversationFilter struct {
	Query      string
	UnreadOnly bool
}

func (f ConversationFilter) Apply(items []models.Conversation) []models.Conversation {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	return filter(items, func(c models.Conversation) bool {
		if f.UnreadOnly && c.UnreadCount == 0 {
			return false
		}
		return q == "" || containsFold(c.PartnerName, q) || containsFold(c.LastMessage, q)
	})
}

// UserFilter is used by the admin user list.
type UserFilter struct {
	Role  string
	Query string
}

func (f UserFilter) Apply(items []models.User) []models.User {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	return filter(items, func(u models.User) bool {
		if f.Role != "" && !strings.EqualFold(string(u.Role), f.Role) {
			return false
		}
		return q == "" || containsFold(u.Name, q) || containsFold(u.Email, q)
	})
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// containsFold expects needle already lower-cased.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}
