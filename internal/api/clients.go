package api

import (
	"context"
	"strconv"

	"github.com/zabahd4k/bildy/internal/models"
	"github.com/zabahd4k/bildy/internal/session"
)

type createClientRequest struct {
	Name    string         `json:"name"`
	CIF     string         `json:"cif"`
	Address models.Address `json:"address"`
}

// ListClients fetches all clients visible to the authenticated user.
func (c *Client) ListClients(ctx context.Context, sess session.Session) ([]models.Client, error) {
	var out []models.Client
	if err := c.get(ctx, "/api/client", &sess, &out, "Could not load clients."); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateClient creates a client from a validated draft and returns the
// server-echoed record, including its assigned id and derived counts.
func (c *Client) CreateClient(ctx context.Context, sess session.Session, d models.ClientDraft) (models.Client, error) {
	number, err := strconv.Atoi(d.Number)
	if err != nil {
		return models.Client{}, &models.ValidationError{Field: "number", Message: "number must be a whole number"}
	}
	postal, err := strconv.Atoi(d.Postal)
	if err != nil {
		return models.Client{}, &models.ValidationError{Field: "postal", Message: "postal must be a whole number"}
	}

	body := createClientRequest{
		Name: d.Name,
		CIF:  d.CIF,
		Address: models.Address{
			Street:   d.Street,
			Number:   number,
			Postal:   postal,
			City:     d.City,
			Province: d.Province,
		},
	}

	var out models.Client
	if err := c.post(ctx, "/api/client", &sess, body, &out, "Could not create the client."); err != nil {
		return models.Client{}, err
	}
	return out, nil
}
