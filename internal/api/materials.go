package api

import (
	"context"

	"github.com/zabahd4k/bildy/internal/models"
	"github.com/zabahd4k/bildy/internal/session"
)

type createMaterialRequest struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// ListMaterials fetches all materials. The API does not scope this
// collection; client-side filtering by user id is applied by the kind
// descriptor when configured.
func (c *Client) ListMaterials(ctx context.Context, sess session.Session) ([]models.Material, error) {
	var out []models.Material
	if err := c.get(ctx, "/api/material", &sess, &out, "Could not load materials."); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMaterial creates a material owned by the authenticated user.
func (c *Client) CreateMaterial(ctx context.Context, sess session.Session, d models.MaterialDraft) (models.Material, error) {
	body := createMaterialRequest{Name: d.Name, UserID: sess.UserID()}

	var out models.Material
	if err := c.post(ctx, "/api/material", &sess, body, &out, "Could not create the material."); err != nil {
		return models.Material{}, err
	}
	return out, nil
}
