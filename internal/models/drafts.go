package models

import "strings"

// Drafts hold the raw text of an in-progress create form. Fields stay strings
// until submission; Validate trims and checks them, and the API layer converts
// the numeric ones when building the request body.

// ClientDraft is the unsaved form state for a new client.
type ClientDraft struct {
	Name     string `validate:"required"`
	CIF      string `validate:"required,min=9"`
	Street   string `validate:"required"`
	Number   string `validate:"required,number"`
	Postal   string `validate:"required,number"`
	City     string `validate:"required"`
	Province string `validate:"required"`
}

// Validate trims the draft in place and reports the first rule violation.
func (d *ClientDraft) Validate() error {
	trimAll(&d.Name, &d.CIF, &d.Street, &d.Number, &d.Postal, &d.City, &d.Province)
	return checkDraft(d)
}

// MaterialDraft is the unsaved form state for a new material.
type MaterialDraft struct {
	Name string `validate:"required"`
}

func (d *MaterialDraft) Validate() error {
	trimAll(&d.Name)
	return checkDraft(d)
}

// ProjectDraft is the unsaved form state for a new project.
type ProjectDraft struct {
	Name        string `validate:"required"`
	ProjectCode string `validate:"required"`
	Email       string `validate:"required,email"`
	Address     string `validate:"required"`
	Code        string `validate:"required"`
	ClientID    string `validate:"required"`
}

func (d *ProjectDraft) Validate() error {
	trimAll(&d.Name, &d.ProjectCode, &d.Email, &d.Address, &d.Code, &d.ClientID)
	return checkDraft(d)
}

// DeliveryNoteDraft is the unsaved form state for a new delivery note.
// Material and Hours are conditionally required depending on Format.
type DeliveryNoteDraft struct {
	ClientID    string `validate:"required"`
	ProjectID   string `validate:"required"`
	Format      string `validate:"required,oneof=material hours"`
	Material    string `validate:"required_if=Format material"`
	Hours       string `validate:"required_if=Format hours,omitempty,numeric"`
	Description string `validate:"required"`
	WorkDate    string `validate:"required"`
}

func (d *DeliveryNoteDraft) Validate() error {
	trimAll(&d.ClientID, &d.ProjectID, &d.Format, &d.Material, &d.Hours, &d.Description, &d.WorkDate)
	return checkDraft(d)
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
