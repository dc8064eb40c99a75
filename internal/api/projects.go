package api

import (
	"context"

	"github.com/zabahd4k/bildy/internal/models"
	"github.com/zabahd4k/bildy/internal/session"
)

type createProjectRequest struct {
	Name        string `json:"name"`
	ProjectCode string `json:"projectCode"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Code        string `json:"code"`
	ClientID    string `json:"clientId"`
}

// ListProjects fetches all projects.
func (c *Client) ListProjects(ctx context.Context, sess session.Session) ([]models.Project, error) {
	var out []models.Project
	if err := c.get(ctx, "/api/project", &sess, &out, "Could not load projects."); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject creates a project attached to an existing client.
// Referential integrity of ClientID is enforced server-side.
func (c *Client) CreateProject(ctx context.Context, sess session.Session, d models.ProjectDraft) (models.Project, error) {
	body := createProjectRequest{
		Name:        d.Name,
		ProjectCode: d.ProjectCode,
		Email:       d.Email,
		Address:     d.Address,
		Code:        d.Code,
		ClientID:    d.ClientID,
	}

	var out models.Project
	if err := c.post(ctx, "/api/project", &sess, body, &out, "Could not create the project."); err != nil {
		return models.Project{}, err
	}
	return out, nil
}
