package models

import (
	"time"
)

// Order statuses. Any status may follow any other; there is no enforced
// transition graph.
const (
	StatusProcessing = "Processing"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	Items           []OrderItem `json:"items"`
	TotalPrice      float64     `json:"total_price"`
	TrackingID      string      `json:"tracking_id"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderItemInput is an item as submitted by the client. Quantity and price are
// pointers so a missing field can be told apart from a zero. ImageSrc is kept
// only for the confirmation email; it is never persisted.
type OrderItemInput struct {
	Name     string   `json:"name"`
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
	ImageSrc string   `json:"image_src,omitempty"`
}

// PlaceOrderRequest is the body of POST /api/orders/place. TotalPrice is the
// legacy client-computed total: it must be present, but the server recomputes
// the total from the items and discards it.
type PlaceOrderRequest struct {
	Items           []OrderItemInput `json:"items"`
	TotalPrice      *float64         `json:"total_price"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
}

// TrackedOrder is the restricted projection returned by the public tracking
// endpoint. It never exposes the owning user or the shipping address.
type TrackedOrder struct {
	TrackingID    string      `json:"tracking_id"`
	Status        string      `json:"status"`
	Items         []OrderItem `json:"items"`
	TotalPrice    float64     `json:"total_price"`
	CreatedAt     time.Time   `json:"created_at"`
	CustomerEmail string      `json:"customer_email,omitempty"`
}

// OrderConfirmation carries everything the confirmation email needs.
type OrderConfirmation struct {
	OrderID         int64
	TrackingID      string
	Items           []OrderItemInput
	TotalPrice      float64
	ShippingAddress string
}

type OrderEvent struct {
	OrderID  int64     `json:"order_id"`
	UserID   int64     `json:"user_id"`
	Type     string    `json:"type"` // created, status_updated, deleted
	Status   string    `json:"status"`
	Total    float64   `json:"total"`
	Occurred time.Time `json:"occurred"`
}

type DashboardSummary struct {
	TotalRevenue        float64 `json:"total_revenue"`
	NewOrdersCount      int64   `json:"new_orders_count"`
	TotalCustomersCount int64   `json:"total_customers_count"`
	RecentOrders        []Order `json:"recent_orders"`
}
