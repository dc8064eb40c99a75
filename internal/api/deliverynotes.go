package api

import (
	"context"
	"strconv"

	"github.com/zabahd4k/bildy/internal/models"
	"github.com/zabahd4k/bildy/internal/session"
)

type createDeliveryNoteRequest struct {
	ClientID    string  `json:"clientId"`
	ProjectID   string  `json:"projectId"`
	Format      string  `json:"format"`
	Material    string  `json:"material,omitempty"`
	Hours       float64 `json:"hours,omitempty"`
	Description string  `json:"description"`
	WorkDate    string  `json:"workdate"`
}

// ListDeliveryNotes fetches all delivery notes.
func (c *Client) ListDeliveryNotes(ctx context.Context, sess session.Session) ([]models.DeliveryNote, error) {
	var out []models.DeliveryNote
	if err := c.get(ctx, "/api/deliverynote", &sess, &out, "Could not load delivery notes."); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDeliveryNote creates a delivery note in either material or hours
// format. Only the field matching the format is sent.
func (c *Client) CreateDeliveryNote(ctx context.Context, sess session.Session, d models.DeliveryNoteDraft) (models.DeliveryNote, error) {
	body := createDeliveryNoteRequest{
		ClientID:    d.ClientID,
		ProjectID:   d.ProjectID,
		Format:      d.Format,
		Description: d.Description,
		WorkDate:    d.WorkDate,
	}

	switch d.Format {
	case models.FormatMaterial:
		body.Material = d.Material
	case models.FormatHours:
		hours, err := strconv.ParseFloat(d.Hours, 64)
		if err != nil {
			return models.DeliveryNote{}, &models.ValidationError{Field: "hours", Message: "hours must be a number"}
		}
		body.Hours = hours
	}

	var out models.DeliveryNote
	if err := c.post(ctx, "/api/deliverynote", &sess, body, &out, "Could not create the delivery note."); err != nil {
		return models.DeliveryNote{}, err
	}
	return out, nil
}
