package ui

import (
	"testing"

	"internship-portal/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleInternships() []models.Internship {
	return []models.Internship{
		{ID: "1", Title: "Go Backend Intern", CompanyName: "Acme", Location: "Austin, TX", Status: models.InternshipOpen, OPTEligible: true, Remote: true},
		{ID: "2", Title: "Design Intern", CompanyName: "Pixel", Location: "New York, NY", Status: models.InternshipClosed, CPTEligible: true},
		{ID: "3", Title: "Data Intern", CompanyName: "Acme", Location: "Remote", Status: models.InternshipOpen, OPTEligible: true, CPTEligible: true, OffersCertificate: true},
	}
}

func ids(items []models.Internship) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func TestInternshipFilter_Apply(t *testing.T) {
	items := sampleInternships()

	tests := []struct {
		name   string
		filter InternshipFilter
		want   []string
	}{
		{"zero filter keeps all in order", InternshipFilter{}, []string{"1", "2", "3"}},
		{"query matches company case-insensitively", InternshipFilter{Query: "ACME"}, []string{"1", "3"}},
		{"location", InternshipFilter{Location: "york"}, []string{"2"}},
		{"status", InternshipFilter{Status: "open"}, []string{"1", "3"}},
		{"opt only", InternshipFilter{OPTOnly: true}, []string{"1", "3"}},
		{"cpt and certificate", InternshipFilter{CPTOnly: true, CertificateOnly: true}, []string{"3"}},
		{"remote only", InternshipFilter{RemoteOnly: true}, []string{"1"}},
		{"no match", InternshipFilter{Query: "rust"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(items)))
		})
	}
	assert.True(t, InternshipFilter{}.IsZero())
}

func TestApplicationFilter_Apply(t *testing.T) {
	apps := []models.Application{
		{ID: "a", CompanyStatus: models.CompanyPending, StudentStatus: models.StudentApplied, InternshipTitle: "Go Intern"},
		{ID: "b", CompanyStatus: models.CompanyOffered, StudentStatus: models.StudentApplied, InternshipTitle: "Data Intern"},
		{ID: "c", CompanyStatus: models.CompanyRejected, StudentStatus: models.StudentWithdrawn, InternshipTitle: "Go Platform"},
	}

	got := ApplicationFilter{Status: "offered"}.Apply(apps)
	assert.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	got = ApplicationFilter{Status: "withdrawn"}.Apply(apps)
	assert.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)

	got = ApplicationFilter{Query: "go"}.Apply(apps)
	assert.Len(t, got, 2)
}

func TestConversationAndUserFilters(t *testing.T) {
	convs := []models.Conversation{
		{PartnerID: "1", PartnerName: "Acme Recruiting", UnreadCount: 2},
		{PartnerID: "2", PartnerName: "Jamie Doe"},
	}
	assert.Len(t, ConversationFilter{Query: "acme"}.Apply(convs), 1)
	assert.Len(t, ConversationFilter{UnreadOnly: true}.Apply(convs), 1)

	users := []models.User{
		{ID: "1", Name: "Sam", Email: "sam@uni.edu", Role: models.RoleStudent},
		{ID: "2", Name: "Acme", Email: "hr@acme.io", Role: models.RoleCompany},
	}
	assert.Len(t, UserFilter{Role: "company"}.Apply(users), 1)
	assert.Len(t, UserFilter{Query: "uni.edu"}.Apply(users), 1)
}

func TestInternshipFilter_Flags(t *testing.T) {
	f := InternshipFilter{Query: "go", Location: "Austin", Status: "open", OPTOnly: true, RemoteOnly: true}
	assert.Equal(t, InternshipFilter{OPTOnly: true, RemoteOnly: true}, f.Flags())
	assert.True(t, InternshipFilter{Query: "go"}.Flags().IsZero())
}
