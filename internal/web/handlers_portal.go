// ABOUTME: Staff and client portal handlers
// ABOUTME: Role-scoped views over the same shipments and invoices the API serves

package web

import (
	"net/http"

	"github.com/everlastcargo/everlast-console/internal/api"
	"github.com/everlastcargo/everlast-console/internal/guard"
)

// handleStaffHome renders the staff work queue: shipments assigned to the
// signed-in officer first, then the rest of the active pipeline.
func (c *Console) handleStaffHome(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	token := c.token(w, r)
	if token == "" {
		return
	}

	shipments, err := a.Store.Client().ListShipments(r.Context(), token)
	if err != nil {
		c.logger.Error("failed to list shipments", "error", err)
		c.renderStaffHome(w, a.Snapshot.User, nil, nil, api.Message(err, "Failed to fetch shipments"))
		return
	}

	var assigned, active []api.Shipment
	for _, s := range shipments {
		if s.Status == api.ShipmentDelivered || s.Status == api.ShipmentCancelled {
			continue
		}
		if s.Agent != nil && s.Agent.ID == a.Snapshot.User.ID {
			assigned = append(assigned, s)
		} else {
			active = append(active, s)
		}
	}
	c.renderStaffHome(w, a.Snapshot.User, assigned, active, "")
}

// handleClientHome renders the client's own shipments and invoices.
func (c *Console) handleClientHome(w http.ResponseWriter, r *http.Request) {
	a := guard.MustFromContext(r.Context())
	token := c.token(w, r)
	if token == "" {
		return
	}
	client := a.Store.Client()

	shipments, err := client.ListShipments(r.Context(), token)
	if err != nil {
		c.logger.Error("failed to list shipments", "error", err)
		c.renderClientHome(w, a.Snapshot.User, nil, nil, api.Message(err, "Failed to fetch shipments"))
		return
	}
	invoices, err := client.ListInvoices(r.Context(), token)
	if err != nil {
		c.logger.Error("failed to list invoices", "error", err)
		c.renderClientHome(w, a.Snapshot.User, shipments, nil, api.Message(err, "Failed to fetch invoices"))
		return
	}
	c.renderClientHome(w, a.Snapshot.User, shipments, invoices, "")
}
