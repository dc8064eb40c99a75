package models

// Address is the postal address attached to a client.
type Address struct {
	Street   string `json:"street"`
	Number   int    `json:"number"`
	Postal   int    `json:"postal"`
	City     string `json:"city"`
	Province string `json:"province"`
}

// Client represents a customer of the business
type Client struct {
	ID                   string  `json:"_id"`
	Name                 string  `json:"name"`
	CIF                  string  `json:"cif"`
	Address              Address `json:"address"`
	Logo                 string  `json:"logo,omitempty"`
	ActiveProjects       int     `json:"activeProjects"`
	PendingDeliveryNotes int     `json:"pendingDeliveryNotes"`
}

// Material represents a stock material owned by one user
type Material struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Project represents a job carried out for a client
type Project struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	ProjectCode string `json:"projectCode"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Code        string `json:"code"`
	ClientID    string `json:"clientId"`
}

// Delivery note formats accepted by the API.
const (
	FormatMaterial = "material"
	FormatHours    = "hours"
)

// DeliveryNote records materials delivered or hours worked on a project
type DeliveryNote struct {
	ID          string  `json:"_id"`
	ClientID    string  `json:"clientId"`
	ProjectID   string  `json:"projectId"`
	Format      string  `json:"format"`
	Material    string  `json:"material,omitempty"`
	Hours       float64 `json:"hours,omitempty"`
	Description string  `json:"description"`
	WorkDate    string  `json:"workdate"`
}
