// ABOUTME: Data types for the Everlast REST API surface consumed by the console
// ABOUTME: Defines the closed Role set, User identity, and resource records

package api

// Role is the closed set of account roles the API can assign. The console
// treats any value outside this set as unauthenticated rather than guessing.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleClient:
		return true
	}
	return false
}

// User is the identity record returned by GET /auth/me.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Image     string `json:"image,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ContactInfo holds a shipping company's contact details.
type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ShippingCompany is a carrier ("shipping line") record.
type ShippingCompany struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ContactInfo ContactInfo `json:"contactInfo"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

// Party is the abbreviated account record embedded in shipments
// (the client who owns the shipment, or the staff agent assigned to it).
type Party struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

// InvoiceSummary is the invoice stub embedded in a shipment record.
type InvoiceSummary struct {
	ID       string `json:"id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"` // paid, unpaid, partial
	DueDate  string `json:"dueDate"`
}

// Shipment statuses as reported by the API.
const (
	ShipmentPending   = "pending"
	ShipmentInTransit = "in_transit"
	ShipmentAtPort    = "at_port"
	ShipmentClearing  = "clearing"
	ShipmentCleared   = "cleared"
	ShipmentDelivered = "delivered"
	ShipmentCancelled = "cancelled"
)

// Shipment is a clearance/forwarding job.
type Shipment struct {
	ID                   string           `json:"id"`
	TrackingNumber       string           `json:"trackingNumber"`
	ShippingCompanyID    string           `json:"shippingCompanyId"`
	Description          string           `json:"description,omitempty"`
	Origin               string           `json:"origin"`
	Destination          string           `json:"destination"`
	Weight               float64          `json:"weight"`
	WeightUnit           string           `json:"weightUnit"`
	Status               string           `json:"status"`
	ClientID             string           `json:"clientId"`
	TransitType          string           `json:"transitType"` // domestic, transit, export
	AssignedTo           string           `json:"assignedTo,omitempty"`
	ExpectedDeliveryDate string           `json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   string           `json:"actualDeliveryDate,omitempty"`
	Notes                string           `json:"notes,omitempty"`
	CreatedAt            string           `json:"createdAt"`
	UpdatedAt            string           `json:"updatedAt"`
	Client               *Party           `json:"client,omitempty"`
	Agent                *Party           `json:"agent,omitempty"`
	ShippingCompany      *ShippingCompany `json:"shippingCompany,omitempty"`
	Invoice              *InvoiceSummary  `json:"invoice,omitempty"`
}

// InvoicePayment is a single payment applied against an invoice.
type InvoicePayment struct {
	ID        string `json:"id"`
	Amount    string `json:"amount"`
	Method    string `json:"method"`
	Status    string `json:"status"`
	PaidAt    string `json:"paidAt"`
	Reference string `json:"reference"`
}

// InvoiceShipment is the shipment stub embedded in an invoice record.
type InvoiceShipment struct {
	TrackingNumber string  `json:"trackingNumber"`
	Description    string  `json:"description"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	Weight         float64 `json:"weight"`
	WeightUnit     string  `json:"weightUnit"`
}

// Invoice is a billing record with its payments.
type Invoice struct {
	ID       string           `json:"id"`
	Amount   string           `json:"amount"`
	Currency string           `json:"currency"`
	Status   string           `json:"status"` // paid, unpaid
	DueDate  string           `json:"dueDate"`
	Notes    string           `json:"notes,omitempty"`
	Client   Party            `json:"client"`
	Shipment InvoiceShipment  `json:"shipment"`
	Payments []InvoicePayment `json:"payments"`
}

// SeriesPoint is a single point in a dashboard time series.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// InvoiceStatusSummary counts invoices by payment state.
type InvoiceStatusSummary struct {
	Paid    int `json:"paid"`
	Unpaid  int `json:"unpaid"`
	Overdue int `json:"overdue"`
}

// Activity is a recent-activity feed entry on the dashboard.
type Activity struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// DashboardStats is the GET /stats payload.
type DashboardStats struct {
	Metrics struct {
		TotalShipments  int    `json:"totalShipments"`
		ActiveShipments int    `json:"activeShipments"`
		TotalClients    int    `json:"totalClients"`
		Revenue         string `json:"revenue"`
	} `json:"metrics"`
	ShipmentsOverTime    []SeriesPoint        `json:"shipmentsOverTime"`
	RevenueTrend         []SeriesPoint        `json:"revenueTrend"`
	InvoiceStatusSummary InvoiceStatusSummary `json:"invoiceStatusSummary"`
	RecentActivities     []Activity           `json:"recentActivities"`
}
