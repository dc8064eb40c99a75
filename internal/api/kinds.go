package api

import (
	"context"
	"fmt"

	"github.com/zabahd4k/bildy/internal/models"
	"github.com/zabahd4k/bildy/internal/session"
)

// CreatePolicy decides how a list reflects a successful create.
type CreatePolicy int

const (
	// PolicyRefetch re-lists the collection so server-assigned and derived
	// fields are reflected. This is the default.
	PolicyRefetch CreatePolicy = iota
	// PolicyAppend appends the server-echoed item to the current list
	// without a refetch.
	PolicyAppend
)

// Field is one creatable input of a resource kind, in form order.
type Field struct {
	Name        string
	Placeholder string
}

// Row is a kind-independent list entry for display. UserID is set only for
// kinds whose items carry an owner.
type Row struct {
	ID     string
	Title  string
	Detail string
	UserID string
}

// Kind describes one resource screen: its endpoints adapted to a common row
// shape, its form fields and validation, and its per-kind policies. One
// parametric browser view renders every kind.
type Kind struct {
	Name         string
	Title        string
	Fields       []Field
	CreatePolicy CreatePolicy
	FilterByUser bool

	list     func(ctx context.Context, c *Client, sess session.Session) ([]Row, error)
	create   func(ctx context.Context, c *Client, sess session.Session, values map[string]string) (Row, error)
	validate func(values map[string]string) error
}

// Validate runs the kind's local validation rules over draft values.
// It must be called before Create; a failure means no network call happens.
func (k Kind) Validate(values map[string]string) error {
	return k.validate(values)
}

// Create submits a draft and returns the created row.
func (k Kind) Create(ctx context.Context, c *Client, sess session.Session, values map[string]string) (Row, error) {
	return k.create(ctx, c, sess, values)
}

// List fetches the collection, applying the kind's client-side user filter
// when configured. Filtering is a display convenience; the server remains
// authoritative for access control.
func (k Kind) List(ctx context.Context, c *Client, sess session.Session) ([]Row, error) {
	rows, err := k.list(ctx, c, sess)
	if err != nil {
		return nil, err
	}
	if !k.FilterByUser {
		return rows, nil
	}
	uid := sess.UserID()
	if uid == "" {
		return rows, nil
	}
	filtered := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.UserID == uid {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// KindOptions carries the configurable per-kind behavior.
type KindOptions struct {
	CreatePolicy CreatePolicy
	FilterByUser bool
}

// Kinds returns the resource-kind descriptors in menu order. opts overrides
// the defaults per kind name; absent entries keep refetch-and-unfiltered,
// except materials which default to user filtering.
func Kinds(opts map[string]KindOptions) []Kind {
	kinds := []Kind{clientKind(), materialKind(), projectKind(), deliveryNoteKind()}
	for i := range kinds {
		if o, ok := opts[kinds[i].Name]; ok {
			kinds[i].CreatePolicy = o.CreatePolicy
			kinds[i].FilterByUser = o.FilterByUser
		}
	}
	return kinds
}

func clientKind() Kind {
	return Kind{
		Name:  "client",
		Title: "Clients",
		Fields: []Field{
			{Name: "name", Placeholder: "Client name"},
			{Name: "cif", Placeholder: "CIF"},
			{Name: "street", Placeholder: "Street"},
			{Name: "number", Placeholder: "Number"},
			{Name: "postal", Placeholder: "Postal code"},
			{Name: "city", Placeholder: "City"},
			{Name: "province", Placeholder: "Province"},
		},
		validate: func(values map[string]string) error {
			d := clientDraft(values)
			return d.Validate()
		},
		list: func(ctx context.Context, c *Client, sess session.Session) ([]Row, error) {
			clients, err := c.ListClients(ctx, sess)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, len(clients))
			for i, cl := range clients {
				rows[i] = clientRow(cl)
			}
			return rows, nil
		},
		create: func(ctx context.Context, c *Client, sess session.Session, values map[string]string) (Row, error) {
			d := clientDraft(values)
			if err := d.Validate(); err != nil {
				return Row{}, err
			}
			created, err := c.CreateClient(ctx, sess, d)
			if err != nil {
				return Row{}, err
			}
			return clientRow(created), nil
		},
	}
}

func clientDraft(values map[string]string) models.ClientDraft {
	return models.ClientDraft{
		Name:     values["name"],
		CIF:      values["cif"],
		Street:   values["street"],
		Number:   values["number"],
		Postal:   values["postal"],
		City:     values["city"],
		Province: values["province"],
	}
}

func clientRow(cl models.Client) Row {
	return Row{
		ID:    cl.ID,
		Title: cl.Name,
		Detail: fmt.Sprintf("CIF %s · %s %d, %d %s (%s) · %d projects, %d pending notes",
			cl.CIF, cl.Address.Street, cl.Address.Number, cl.Address.Postal,
			cl.Address.City, cl.Address.Province,
			cl.ActiveProjects, cl.PendingDeliveryNotes),
	}
}

func materialKind() Kind {
	return Kind{
		Name:  "material",
		Title: "Materials",
		Fields: []Field{
			{Name: "name", Placeholder: "Material name"},
		},
		// The API returns materials for every user; scoping happens here.
		FilterByUser: true,
		validate: func(values map[string]string) error {
			d := models.MaterialDraft{Name: values["name"]}
			return d.Validate()
		},
		list: func(ctx context.Context, c *Client, sess session.Session) ([]Row, error) {
			materials, err := c.ListMaterials(ctx, sess)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, len(materials))
			for i, m := range materials {
				rows[i] = materialRow(m)
			}
			return rows, nil
		},
		create: func(ctx context.Context, c *Client, sess session.Session, values map[string]string) (Row, error) {
			d := models.MaterialDraft{Name: values["name"]}
			if err := d.Validate(); err != nil {
				return Row{}, err
			}
			created, err := c.CreateMaterial(ctx, sess, d)
			if err != nil {
				return Row{}, err
			}
			return materialRow(created), nil
		},
	}
}

func materialRow(m models.Material) Row {
	return Row{ID: m.ID, Title: m.Name, UserID: m.UserID}
}

func projectKind() Kind {
	return Kind{
		Name:  "project",
		Title: "Projects",
		Fields: []Field{
			{Name: "name", Placeholder: "Project name"},
			{Name: "projectCode", Placeholder: "Project code"},
			{Name: "email", Placeholder: "Contact email"},
			{Name: "address", Placeholder: "Address"},
			{Name: "code", Placeholder: "Internal code"},
			{Name: "clientId", Placeholder: "Client id"},
		},
		validate: func(values map[string]string) error {
			d := projectDraft(values)
			return d.Validate()
		},
		list: func(ctx context.Context, c *Client, sess session.Session) ([]Row, error) {
			projects, err := c.ListProjects(ctx, sess)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, len(projects))
			for i, p := range projects {
				rows[i] = projectRow(p)
			}
			return rows, nil
		},
		create: func(ctx context.Context, c *Client, sess session.Session, values map[string]string) (Row, error) {
			d := projectDraft(values)
			if err := d.Validate(); err != nil {
				return Row{}, err
			}
			created, err := c.CreateProject(ctx, sess, d)
			if err != nil {
				return Row{}, err
			}
			return projectRow(created), nil
		},
	}
}

func projectDraft(values map[string]string) models.ProjectDraft {
	return models.ProjectDraft{
		Name:        values["name"],
		ProjectCode: values["projectCode"],
		Email:       values["email"],
		Address:     values["address"],
		Code:        values["code"],
		ClientID:    values["clientId"],
	}
}

func projectRow(p models.Project) Row {
	return Row{
		ID:     p.ID,
		Title:  p.Name,
		Detail: fmt.Sprintf("%s · %s · client %s", p.ProjectCode, p.Email, p.ClientID),
	}
}

func deliveryNoteKind() Kind {
	return Kind{
		Name:  "deliverynote",
		Title: "Delivery Notes",
		Fields: []Field{
			{Name: "clientId", Placeholder: "Client id"},
			{Name: "projectId", Placeholder: "Project id"},
			{Name: "format", Placeholder: "material or hours"},
			{Name: "material", Placeholder: "Material (material format)"},
			{Name: "hours", Placeholder: "Hours (hours format)"},
			{Name: "description", Placeholder: "Description"},
			{Name: "workdate", Placeholder: "Work date (YYYY-MM-DD)"},
		},
		validate: func(values map[string]string) error {
			d := deliveryNoteDraft(values)
			return d.Validate()
		},
		list: func(ctx context.Context, c *Client, sess session.Session) ([]Row, error) {
			notes, err := c.ListDeliveryNotes(ctx, sess)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, len(notes))
			for i, n := range notes {
				rows[i] = deliveryNoteRow(n)
			}
			return rows, nil
		},
		create: func(ctx context.Context, c *Client, sess session.Session, values map[string]string) (Row, error) {
			d := deliveryNoteDraft(values)
			if err := d.Validate(); err != nil {
				return Row{}, err
			}
			created, err := c.CreateDeliveryNote(ctx, sess, d)
			if err != nil {
				return Row{}, err
			}
			return deliveryNoteRow(created), nil
		},
	}
}

func deliveryNoteDraft(values map[string]string) models.DeliveryNoteDraft {
	return models.DeliveryNoteDraft{
		ClientID:    values["clientId"],
		ProjectID:   values["projectId"],
		Format:      values["format"],
		Material:    values["material"],
		Hours:       values["hours"],
		Description: values["description"],
		WorkDate:    values["workdate"],
	}
}

func deliveryNoteRow(n models.DeliveryNote) Row {
	detail := n.Description
	switch n.Format {
	case models.FormatMaterial:
		detail = fmt.Sprintf("%s · material: %s · %s", n.WorkDate, n.Material, n.Description)
	case models.FormatHours:
		detail = fmt.Sprintf("%s · %.1f hours · %s", n.WorkDate, n.Hours, n.Description)
	}
	return Row{ID: n.ID, Title: fmt.Sprintf("%s / %s", n.ClientID, n.ProjectID), Detail: detail}
}
