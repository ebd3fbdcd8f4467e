// ABOUTME: Resource endpoints consumed by the console's CRUD pages
// ABOUTME: Shipments, invoices, shipping companies, dashboard stats

package api

import (
	"context"
	"net/http"
	"net/url"
)

// CreateShipmentRequest is the POST /shipments payload.
type CreateShipmentRequest struct {
	TrackingNumber       string  `json:"trackingNumber"`
	ShippingCompanyID    string  `json:"shippingCompanyId"`
	Description          string  `json:"description,omitempty"`
	Origin               string  `json:"origin"`
	Destination          string  `json:"destination"`
	Weight               float64 `json:"weight"`
	WeightUnit           string  `json:"weightUnit"`
	ClientID             string  `json:"clientId"`
	TransitType          string  `json:"transitType"`
	AssignedTo           string  `json:"assignedTo,omitempty"`
	ExpectedDeliveryDate string  `json:"expectedDeliveryDate,omitempty"`
	Notes                string  `json:"notes,omitempty"`
}

// CreateCompanyRequest is the POST /companies payload.
type CreateCompanyRequest struct {
	Name        string      `json:"name"`
	ContactInfo ContactInfo `json:"contactInfo"`
}

type shipmentsResponse struct {
	Shipments []Shipment `json:"shipments"`
}

type shipmentResponse struct {
	Shipment *Shipment `json:"shipment"`
}

type invoicesResponse struct {
	Invoices []Invoice `json:"invoices"`
}

type companiesResponse struct {
	Companies []ShippingCompany `json:"companies"`
}

type usersResponse struct {
	Users []User `json:"users"`
}

// ListShipments returns shipments visible to the token's account; the API
// scopes the result to the caller's role.
func (c *Client) ListShipments(ctx context.Context, token string) ([]Shipment, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out shipmentsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/shipments", token, nil, &out); err != nil {
		return nil, classify(err, ErrRequestFailed, "Failed to fetch shipments")
	}
	return out.Shipments, nil
}

// GetShipment returns a single shipment by ID.
func (c *Client) GetShipment(ctx context.Context, token, id string) (*Shipment, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out shipmentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/shipments/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, classify(err, ErrRequestFailed, "Failed to fetch shipment")
	}
	if out.Shipment == nil {
		return nil, &APIError{Kind: ErrRequestFailed, Status: http.StatusOK, Message: "Shipment not found"}
	}
	return out.Shipment, nil
}

// CreateShipment registers a new shipment.
func (c *Client) CreateShipment(ctx context.Context, token string, req CreateShipmentRequest) error {
	if token == "" {
		return ErrNoToken
	}
	if err := c.doJSON(ctx, http.MethodPost, "/shipments", token, req, nil); err != nil {
		return classify(err, ErrRequestFailed, "Failed to create shipment")
	}
	return nil
}

// UpdateShipmentStatus moves a shipment through the clearance pipeline.
func (c *Client) UpdateShipmentStatus(ctx context.Context, token, id, status string) error {
	if token == "" {
		return ErrNoToken
	}
	body := map[string]string{"status": status}
	if err := c.doJSON(ctx, http.MethodPatch, "/shipments/"+url.PathEscape(id), token, body, nil); err != nil {
		return classify(err, ErrRequestFailed, "Failed to update shipment")
	}
	return nil
}

// DeleteShipment removes a shipment.
func (c *Client) DeleteShipment(ctx context.Context, token, id string) error {
	if token == "" {
		return ErrNoToken
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/shipments/"+url.PathEscape(id), token, nil, nil); err != nil {
		return classify(err, ErrRequestFailed, "Failed to delete shipment")
	}
	return nil
}

// ListInvoices returns invoices visible to the token's account.
func (c *Client) ListInvoices(ctx context.Context, token string) ([]Invoice, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out invoicesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/invoices", token, nil, &out); err != nil {
		return nil, classify(err, ErrRequestFailed, "Failed to fetch invoices")
	}
	return out.Invoices, nil
}

// ListCompanies returns the registered shipping lines.
func (c *Client) ListCompanies(ctx context.Context, token string) ([]ShippingCompany, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out companiesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/companies", token, nil, &out); err != nil {
		return nil, classify(err, ErrRequestFailed, "Failed to fetch shipping lines")
	}
	return out.Companies, nil
}

// CreateCompany registers a new shipping line.
func (c *Client) CreateCompany(ctx context.Context, token string, req CreateCompanyRequest) error {
	if token == "" {
		return ErrNoToken
	}
	if err := c.doJSON(ctx, http.MethodPost, "/companies", token, req, nil); err != nil {
		return classify(err, ErrRequestFailed, "Failed to create shipping line")
	}
	return nil
}

// DeleteCompany removes a shipping line.
func (c *Client) DeleteCompany(ctx context.Context, token, id string) error {
	if token == "" {
		return ErrNoToken
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/companies/"+url.PathEscape(id), token, nil, nil); err != nil {
		return classify(err, ErrRequestFailed, "Failed to delete shipping line")
	}
	return nil
}

// ListUsers returns accounts, optionally filtered by role (empty = all).
// Used by the shipment form to pick clients and staff assignees.
func (c *Client) ListUsers(ctx context.Context, token string, role Role) ([]User, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	path := "/users"
	if role != "" {
		path += "?role=" + url.QueryEscape(string(role))
	}
	var out usersResponse
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, classify(err, ErrRequestFailed, "Failed to fetch users")
	}
	return out.Users, nil
}

// DashboardStats returns the admin dashboard aggregates.
func (c *Client) DashboardStats(ctx context.Context, token string) (*DashboardStats, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out DashboardStats
	if err := c.doJSON(ctx, http.MethodGet, "/stats", token, nil, &out); err != nil {
		return nil, classify(err, ErrRequestFailed, "Failed to fetch dashboard data")
	}
	return &out, nil
}
