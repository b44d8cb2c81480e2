package apiclient

import (
	"context"
	"net/http"

	"internship-portal/internal/models"
)

func (c *Client) StudentProfile(ctx context.Context, token string) (*models.StudentProfile, error) {
	var out models.StudentProfile
	err := c.do(ctx, call{method: http.MethodGet, route: "/students/me/profile", path: "/students/me/profile", token: token, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateStudentProfile(ctx context.Context, token string, p models.StudentProfile) (*models.StudentProfile, error) {
	var out models.StudentProfile
	err := c.do(ctx, call{method: http.MethodPut, route: "/students/me/profile", path: "/students/me/profile", token: token, body: p, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompanyProfile(ctx context.Context, token string) (*models.CompanyProfile, error) {
	var out models.CompanyProfile
	err := c.do(ctx, call{method: http.MethodGet, route: "/companies/me/profile", path: "/companies/me/profile", token: token, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCompanyProfile(ctx context.Context, token string, p models.CompanyProfile) (*models.CompanyProfile, error) {
	var out models.CompanyProfile
	err := c.do(ctx, call{method: http.MethodPut, route: "/companies/me/profile", path: "/companies/me/profile", token: token, body: p, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Company is the public profile of a company.
func (c *Client) Company(ctx context.Context, id string) (*models.CompanyProfile, error) {
	var out models.CompanyProfile
	err := c.do(ctx, call{method: http.MethodGet, route: "/companies/{id}", path: "/companies/" + pathID(id), out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
