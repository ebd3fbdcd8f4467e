// ABOUTME: Template rendering functions for the console UI
// ABOUTME: Loads templates from embedded filesystem and renders them

package web

import (
	"html/template"
	"net/http"

	"github.com/everlastcargo/everlast-console/internal/api"
)

// Template data types
type landingData struct {
	Title    string
	User     *api.User
	HomePath string
}

type loginData struct {
	Title string
	Email string
	Error string
}

type registerForm struct {
	Name  string
	Email string
	Phone string
}

type registerData struct {
	Title string
	Form  registerForm
	Error string
}

type dashboardData struct {
	Title string
	User  *api.User
	Stats *api.DashboardStats
	Error string
	Flash string
}

type shipmentsData struct {
	Title     string
	User      *api.User
	Shipments []api.Shipment
	Error     string
	Flash     string
}

type shipmentDetailData struct {
	Title    string
	User     *api.User
	Shipment *api.Shipment
	Statuses []string
	Flash    string
}

type shipmentFormData struct {
	Clients   []api.User
	Staff     []api.User
	Companies []api.ShippingCompany
}

type shipmentFormPageData struct {
	Title string
	User  *api.User
	Form  shipmentFormData
	Error string
}

type invoicesData struct {
	Title    string
	User     *api.User
	Invoices []api.Invoice
	Error    string
	Flash    string
}

type shippingLinesData struct {
	Title     string
	User      *api.User
	Companies []api.ShippingCompany
	Error     string
	Flash     string
}

type shippingLineFormData struct {
	Title string
	User  *api.User
	Error string
}

type staffHomeData struct {
	Title    string
	User     *api.User
	Assigned []api.Shipment
	Active   []api.Shipment
	Error    string
}

type clientHomeData struct {
	Title     string
	User      *api.User
	Shipments []api.Shipment
	Invoices  []api.Invoice
	Error     string
}

// shipmentStatuses is the full pipeline, in order, for the status picker.
var shipmentStatuses = []string{
	api.ShipmentPending,
	api.ShipmentInTransit,
	api.ShipmentAtPort,
	api.ShipmentClearing,
	api.ShipmentCleared,
	api.ShipmentDelivered,
	api.ShipmentCancelled,
}

// renderLanding renders the public landing page.
func (c *Console) renderLanding(w http.ResponseWriter, user *api.User, homePath string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/landing.html"))

	data := landingData{
		Title:    "Everlast Cargo",
		User:     user,
		HomePath: homePath,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render landing page", "error", err)
	}
}

// renderLogin renders the sign-in page.
func (c *Console) renderLogin(w http.ResponseWriter, email, errorMsg string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/login.html"))

	data := loginData{
		Title: "Sign In",
		Email: email,
		Error: errorMsg,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render login page", "error", err)
	}
}

// renderRegister renders the account creation page.
func (c *Console) renderRegister(w http.ResponseWriter, form registerForm, errorMsg string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/register.html"))

	data := registerData{
		Title: "Create Account",
		Form:  form,
		Error: errorMsg,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render register page", "error", err)
	}
}

// renderLoading renders the session-restore placeholder. Sent only when a
// request's own deadline ran out while the session was still bootstrapping;
// the page refreshes itself so the retry lands on a settled session.
func (c *Console) renderLoading(w http.ResponseWriter) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/loading.html"))

	data := struct{ Title string }{Title: "Loading"}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render loading page", "error", err)
	}
}

// renderDashboard renders the admin metrics dashboard.
func (c *Console) renderDashboard(w http.ResponseWriter, user *api.User, stats *api.DashboardStats, errorMsg, flash string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/partials/navbar.html", "templates/dashboard.html"))

	data := dashboardData{
		Title: "Dashboard",
		User:  user,
		Stats: stats,
		Error: errorMsg,
		Flash: flash,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render dashboard", "error", err)
	}
}

// renderShipments renders the shipments list page.
func (c *Console) renderShipments(w http.ResponseWriter, user *api.User, shipments []api.Shipment, errorMsg, flash string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/partials/navbar.html", "templates/shipments.html"))

	data := shipmentsData{
		Title:     "Shipments",
		User:      user,
		Shipments: shipments,
		Error:     errorMsg,
		Flash:     flash,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render shipments page", "error", err)
	}
}

// renderShipmentDetail renders a single shipment with its status controls.
func (c *Console) renderShipmentDetail(w http.ResponseWriter, user *api.User, shipment *api.Shipment, flash string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/partials/navbar.html", "templates/shipment_detail.html"))

	data := shipmentDetailData{
		Title:    "Shipment " + shipment.TrackingNumber,
		User:     user,
		Shipment: shipment,
		Statuses: shipmentStatuses,
		Flash:    flash,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render shipment detail", "error", err)
	}
}

// renderShipmentForm renders the new-shipment form.
func (c *Console) renderShipmentForm(w http.ResponseWriter, user *api.User, form shipmentFormData, errorMsg string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/partials/navbar.html", "templates/shipment_form.html"))

	data := shipmentFormPageData{
		Title: "New Shipment",
		User:  user,
		Form:  form,
		Error: errorMsg,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render shipment form", "error", err)
	}
}

// renderInvoices renders the invoices list page.
func (c *Console) renderInvoices(w http.ResponseWriter, user *api.User, invoices []api.Invoice, errorMsg, flash string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/partials/navbar.html", "templates/invoices.html"))

	data := invoicesData{
		Title:    "Invoices",
		User:     user,
		Invoices: invoices,
		Error:    errorMsg,
		Flash:    flash,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render invoices page", "error", err)
	}
}

// renderShippingLines renders the carriers page.
func (c *Console) renderShippingLines(w http.ResponseWriter, user *api.User, companies []api.ShippingCompany, errorMsg, flash string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/partials/navbar.html", "templates/shipping_lines.html"))

	data := shippingLinesData{
		Title:     "Shipping Lines",
		User:      user,
		Companies: companies,
		Error:     errorMsg,
		Flash:     flash,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render shipping lines page", "error", err)
	}
}

// renderShippingLineForm renders the new-carrier form.
func (c *Console) renderShippingLineForm(w http.ResponseWriter, user *api.User, errorMsg string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/partials/navbar.html", "templates/shipping_line_form.html"))

	data := shippingLineFormData{
		Title: "New Shipping Line",
		User:  user,
		Error: errorMsg,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render shipping line form", "error", err)
	}
}

// renderStaffHome renders the staff work queue.
func (c *Console) renderStaffHome(w http.ResponseWriter, user *api.User, assigned, active []api.Shipment, errorMsg string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/partials/navbar.html", "templates/staff.html"))

	data := staffHomeData{
		Title:    "Work Queue",
		User:     user,
		Assigned: assigned,
		Active:   active,
		Error:    errorMsg,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render staff home", "error", err)
	}
}

// renderClientHome renders the client's shipments and invoices.
func (c *Console) renderClientHome(w http.ResponseWriter, user *api.User, shipments []api.Shipment, invoices []api.Invoice, errorMsg string) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/partials/navbar.html", "templates/client.html"))

	data := clientHomeData{
		Title:     "My Shipments",
		User:      user,
		Shipments: shipments,
		Invoices:  invoices,
		Error:     errorMsg,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("failed to render client home", "error", err)
	}
}
