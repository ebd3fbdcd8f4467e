// ABOUTME: Admin tree handlers: dashboard, shipments CRUD, invoices, shipping lines
// ABOUTME: Thin consumers of the session; all data comes from the Everlast API

package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/everlastcargo/everlast-console/internal/api"
	"github.com/everlastcargo/everlast-console/internal/guard"
)

// token returns a live access token for the authorized session, redirecting
// to login when the session can no longer produce one. Returns "" after
// writing the response in that case.
func (c *Console) token(w http.ResponseWriter, r *http.Request) string {
	a := guard.MustFromContext(r.Context())
	token, err := a.Store.Token(r.Context())
	if err != nil {
		c.logger.Warn("session lost its token", "error", err)
		http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
		return ""
	}
	return token
}

// handleAdminDashboard renders the metrics dashboard.
func (c *Console) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	token := c.token(w, r)
	if token == "" {
		return
	}

	stats, err := a.Store.Client().DashboardStats(r.Context(), token)
	if err != nil {
		c.logger.Error("failed to load dashboard stats", "error", err)
		c.renderDashboard(w, a.Snapshot.User, nil, api.Message(err, "Failed to fetch dashboard data"), c.popFlash(w, r))
		return
	}
	c.renderDashboard(w, a.Snapshot.User, stats, "", c.popFlash(w, r))
}

// handleShipmentsList renders all shipments.
func (c *Console) handleShipmentsList(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	token := c.token(w, r)
	if token == "" {
		return
	}

	shipments, err := a.Store.Client().ListShipments(r.Context(), token)
	if err != nil {
		c.logger.Error("failed to list shipments", "error", err)
		c.renderShipments(w, a.Snapshot.User, nil, api.Message(err, "Failed to fetch shipments"), c.popFlash(w, r))
		return
	}
	c.renderShipments(w, a.Snapshot.User, shipments, "", c.popFlash(w, r))
}

// handleShipmentDetail renders a single shipment.
func (c *Console) handleShipmentDetail(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Shipment ID required", http.StatusBadRequest)
		return
	}
	token := c.token(w, r)
	if token == "" {
		return
	}

	shipment, err := a.Store.Client().GetShipment(r.Context(), token, id)
	if err != nil {
		c.logger.Error("failed to get shipment", "error", err, "shipment_id", id)
		c.setFlash(w, api.Message(err, "Failed to fetch shipment"))
		http.Redirect(w, r, "/admin/shipments", http.StatusSeeOther)
		return
	}
	c.renderShipmentDetail(w, a.Snapshot.User, shipment, c.popFlash(w, r))
}

// handleShipmentStatus moves a shipment through the clearance pipeline.
func (c *Console) handleShipmentStatus(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Shipment ID required", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	status := r.FormValue("status")
	if status == "" {
		http.Error(w, "Status required", http.StatusBadRequest)
		return
	}
	token := c.token(w, r)
	if token == "" {
		return
	}

	if err := a.Store.Client().UpdateShipmentStatus(r.Context(), token, id, status); err != nil {
		c.logger.Error("failed to update shipment status", "error", err, "shipment_id", id)
		c.setFlash(w, api.Message(err, "Failed to update shipment"))
	} else {
		c.setFlash(w, "Shipment updated")
	}
	http.Redirect(w, r, "/admin/shipments/"+id, http.StatusSeeOther)
}

// handleShipmentDelete removes a shipment.
func (c *Console) handleShipmentDelete(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Shipment ID required", http.StatusBadRequest)
		return
	}
	token := c.token(w, r)
	if token == "" {
		return
	}

	if err := a.Store.Client().DeleteShipment(r.Context(), token, id); err != nil {
		c.logger.Error("failed to delete shipment", "error", err, "shipment_id", id)
		c.setFlash(w, api.Message(err, "Failed to delete shipment"))
	} else {
		c.setFlash(w, "Shipment deleted")
	}
	http.Redirect(w, r, "/admin/shipments", http.StatusSeeOther)
}

// handleShipmentCreatePage renders the new-shipment form with client, staff,
// and carrier pickers loaded from the API.
func (c *Console) handleShipmentCreatePage(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	token := c.token(w, r)
	if token == "" {
		return
	}
	client := a.Store.Client()

	clients, err := client.ListUsers(r.Context(), token, api.RoleClient)
	if err != nil {
		c.renderShipmentForm(w, a.Snapshot.User, shipmentFormData{}, api.Message(err, "Failed to fetch users"))
		return
	}
	staff, err := client.ListUsers(r.Context(), token, api.RoleStaff)
	if err != nil {
		c.renderShipmentForm(w, a.Snapshot.User, shipmentFormData{}, api.Message(err, "Failed to fetch users"))
		return
	}
	companies, err := client.ListCompanies(r.Context(), token)
	if err != nil {
		c.renderShipmentForm(w, a.Snapshot.User, shipmentFormData{}, api.Message(err, "Failed to fetch shipping lines"))
		return
	}

	c.renderShipmentForm(w, a.Snapshot.User, shipmentFormData{
		Clients:   clients,
		Staff:     staff,
		Companies: companies,
	}, "")
}

// handleShipmentCreate submits the new-shipment form.
func (c *Console) handleShipmentCreate(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	token := c.token(w, r)
	if token == "" {
		return
	}

	weight, err := strconv.ParseFloat(r.FormValue("weight"), 64)
	if err != nil || weight <= 0 {
		c.renderShipmentForm(w, a.Snapshot.User, shipmentFormData{}, "Weight must be a positive number")
		return
	}

	req := api.CreateShipmentRequest{
		TrackingNumber:       strings.TrimSpace(r.FormValue("tracking_number")),
		ShippingCompanyID:    r.FormValue("shipping_company_id"),
		Description:          strings.TrimSpace(r.FormValue("description")),
		Origin:               strings.TrimSpace(r.FormValue("origin")),
		Destination:          strings.TrimSpace(r.FormValue("destination")),
		Weight:               weight,
		WeightUnit:           r.FormValue("weight_unit"),
		ClientID:             r.FormValue("client_id"),
		TransitType:          r.FormValue("transit_type"),
		AssignedTo:           r.FormValue("assigned_to"),
		ExpectedDeliveryDate: r.FormValue("expected_delivery_date"),
		Notes:                strings.TrimSpace(r.FormValue("notes")),
	}
	if req.TrackingNumber == "" || req.Origin == "" || req.Destination == "" ||
		req.ClientID == "" || req.ShippingCompanyID == "" {
		c.renderShipmentForm(w, a.Snapshot.User, shipmentFormData{}, "Tracking number, origin, destination, client and shipping line are required")
		return
	}

	if err := a.Store.Client().CreateShipment(r.Context(), token, req); err != nil {
		c.logger.Error("failed to create shipment", "error", err)
		c.renderShipmentForm(w, a.Snapshot.User, shipmentFormData{}, api.Message(err, "Failed to create shipment"))
		return
	}

	c.setFlash(w, "Shipment created")
	http.Redirect(w, r, "/admin/shipments", http.StatusSeeOther)
}

// handleInvoices renders all invoices.
func (c *Console) handleInvoices(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	token := c.token(w, r)
	if token == "" {
		return
	}

	invoices, err := a.Store.Client().ListInvoices(r.Context(), token)
	if err != nil {
		c.logger.Error("failed to list invoices", "error", err)
		c.renderInvoices(w, a.Snapshot.User, nil, api.Message(err, "Failed to fetch invoices"), c.popFlash(w, r))
		return
	}
	c.renderInvoices(w, a.Snapshot.User, invoices, "", c.popFlash(w, r))
}

// handleShippingLines renders the registered carriers.
func (c *Console) handleShippingLines(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	token := c.token(w, r)
	if token == "" {
		return
	}

	companies, err := a.Store.Client().ListCompanies(r.Context(), token)
	if err != nil {
		c.logger.Error("failed to list shipping lines", "error", err)
		c.renderShippingLines(w, a.Snapshot.User, nil, api.Message(err, "Failed to fetch shipping lines"), c.popFlash(w, r))
		return
	}
	c.renderShippingLines(w, a.Snapshot.User, companies, "", c.popFlash(w, r))
}

// handleShippingLineCreatePage renders the new-carrier form.
func (c *Console) handleShippingLineCreatePage(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	c.renderShippingLineForm(w, a.Snapshot.User, "")
}

// handleShippingLineCreate submits the new-carrier form.
func (c *Console) handleShippingLineCreate(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	token := c.token(w, r)
	if token == "" {
		return
	}

	req := api.CreateCompanyRequest{
		Name: strings.TrimSpace(r.FormValue("name")),
		ContactInfo: api.ContactInfo{
			Email:   strings.TrimSpace(r.FormValue("email")),
			Phone:   strings.TrimSpace(r.FormValue("phone")),
			Address: strings.TrimSpace(r.FormValue("address")),
		},
	}
	if req.Name == "" {
		c.renderShippingLineForm(w, a.Snapshot.User, "Name is required")
		return
	}

	if err := a.Store.Client().CreateCompany(r.Context(), token, req); err != nil {
		c.logger.Error("failed to create shipping line", "error", err)
		c.renderShippingLineForm(w, a.Snapshot.User, api.Message(err, "Failed to create shipping line"))
		return
	}

	c.setFlash(w, "Shipping line created")
	http.Redirect(w, r, "/admin/shipping-lines", http.StatusSeeOther)
}

// handleShippingLineDelete removes a carrier.
func (c *Console) handleShippingLineDelete(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Shipping line ID required", http.StatusBadRequest)
		return
	}
	token := c.token(w, r)
	if token == "" {
		return
	}

	if err := a.Store.Client().DeleteCompany(r.Context(), token, id); err != nil {
		c.logger.Error("failed to delete shipping line", "error", err, "company_id", id)
		c.setFlash(w, api.Message(err, "Failed to delete shipping line"))
	} else {
		c.setFlash(w, "Shipping line deleted")
	}
	http.Redirect(w, r, "/admin/shipping-lines", http.StatusSeeOther)
}
