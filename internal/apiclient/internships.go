package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"internship-portal/internal/models"
)

func (c *Client) ListInternships(ctx context.Context, token string, q models.InternshipQuery) ([]models.Internship, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Location != "" {
		query.Set("location", q.Location)
	}
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}

	var out []models.Internship
	err := c.do(ctx, call{method: http.MethodGet, route: "/internships", path: "/internships", token: token, query: query, out: &out})
	return out, err
}

func (c *Client) GetInternship(ctx context.Context, token, id string) (*models.Internship, error) {
	var out models.Internship
	err := c.do(ctx, call{method: http.MethodGet, route: "/internships/{id}", path: "/internships/" + pathID(id), token: token, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInternship(ctx context.Context, token string, in models.InternshipInput) (*models.Internship, error) {
	var out models.Internship
	err := c.do(ctx, call{method: http.MethodPost, route: "/internships", path: "/internships", token: token, body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateInternship(ctx context.Context, token, id string, in models.InternshipInput) (*models.Internship, error) {
	var out models.Internship
	err := c.do(ctx, call{method: http.MethodPut, route: "/internships/{id}", path: "/internships/" + pathID(id), token: token, body: in, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteInternship(ctx context.Context, token, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, route: "/internships/{id}", path: "/internships/" + pathID(id), token: token})
}

// CompanyInternships lists the postings of the company owning token,
// including closed and filled ones.
func (c *Client) CompanyInternships(ctx context.Context, token string) ([]models.Internship, error) {
	var out []models.Internship
	err := c.do(ctx, call{method: http.MethodGet, route: "/companies/me/internships", path: "/companies/me/internships", token: token, out: &out})
	return out, err
}
