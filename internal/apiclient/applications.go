package apiclient

import (
	"context"
	"net/http"

	"internship-portal/internal/models"
)

func (c *Client) Apply(ctx context.Context, token string, in models.ApplicationInput) (*models.Application, error) {
	var out models.Application
	err := c.do(ctx, call{method: http.MethodPost, route: "/applications", path: "/applications", token: token, body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyApplications(ctx context.Context, token string) ([]models.Application, error) {
	var out []models.Application
	err := c.do(ctx, call{method: http.MethodGet, route: "/applications/me", path: "/applications/me", token: token, out: &out})
	return out, err
}

func (c *Client) InternshipApplications(ctx context.Context, token, internshipID string) ([]models.Application, error) {
	var out []models.Application
	err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/internships/{id}/applications",
		path:   "/internships/" + pathID(internshipID) + "/applications",
		token:  token,
		out:    &out,
	})
	return out, err
}

func (c *Client) UpdateStudentStatus(ctx context.Context, token, applicationID string, status models.StudentStatus) (*models.Application, error) {
	var out models.Application
	err := c.do(ctx, call{
		method: http.MethodPatch,
		route:  "/applications/{id}/student-status",
		path:   "/applications/" + pathID(applicationID) + "/student-status",
		token:  token,
		body:   map[string]string{"student_status": string(status)},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCompanyStatus(ctx context.Context, token, applicationID string, status models.CompanyStatus) (*models.Application, error) {
	var out models.Application
	err := c.do(ctx, call{
		method: http.MethodPatch,
		route:  "/applications/{id}/company-status",
		path:   "/applications/" + pathID(applicationID) + "/company-status",
		token:  token,
		body:   map[string]string{"company_status": string(status)},
		out:    &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
