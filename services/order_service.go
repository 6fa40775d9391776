package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"time"

	"ordnery-backend/models"
	"ordnery-backend/stores"
)

// OrderStore is the persistence contract the order workflow needs. The MySQL
// implementation lives in stores; tests use in-memory fakes.
type OrderStore interface {
	Insert(o *models.Order) error
	FindByID(id int64) (*models.Order, error)
	FindByIDAndUser(id, userID int64) (*models.Order, error)
	FindByTrackingID(trackingID string) (*models.Order, error)
	FindByUser(userID int64) ([]models.Order, error)
	FindAll() ([]models.Order, error)
	Recent(limit int) ([]models.Order, error)
	UpdateStatus(id int64, status string) (*models.Order, error)
	Delete(id int64) error
	DeliveredRevenue() (float64, error)
	CountByStatus(status string) (int64, error)
}

// OrderMailer sends the order confirmation email.
type OrderMailer interface {
	SendOrderConfirmation(to string, conf models.OrderConfirmation) error
}

// EventPublisher pushes order events onto the broker.
type EventPublisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

// OrderService implements the order lifecycle: placement, public tracking,
// owner and admin queries, status updates and deletion.
type OrderService struct {
	Store  OrderStore
	Mailer OrderMailer
	Events EventPublisher
}

// PlaceOrder validates the request, recomputes the total from the items,
// generates a tracking ID and persists the order with status Processing.
// The confirmation email is sent on a separate goroutine: the caller never
// waits on it, and a delivery failure is logged, not surfaced.
func (s *OrderService) PlaceOrder(userID int64, userEmail string, req *models.PlaceOrderRequest) (*models.Order, error) {
	if userID == 0 || strings.TrimSpace(userEmail) == "" {
		return nil, ErrUnauthorized("user data is incomplete")
	}
	email := strings.ToLower(strings.TrimSpace(userEmail))

	if len(req.Items) == 0 {
		return nil, ErrBadRequest("items array is required and cannot be empty")
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" || item.Quantity == nil || item.Price == nil {
			return nil, ErrBadRequest("each item must have a name (string), quantity (number), and price (number)")
		}
		if *item.Quantity < 1 {
			return nil, ErrBadRequest("item quantity must be a positive integer")
		}
		if *item.Price < 0 {
			return nil, ErrBadRequest("item price must be non-negative")
		}
	}
	if req.TotalPrice == nil {
		return nil, ErrBadRequest("total_price must be a number")
	}

	// The client total is accepted for compatibility but never trusted;
	// the stored total is always recomputed from the items.
	items := make([]models.OrderItem, 0, len(req.Items))
	total := 0.0
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			Name:     item.Name,
			Quantity: *item.Quantity,
			Price:    *item.Price,
		})
		total += *item.Price * float64(*item.Quantity)
	}

	order := &models.Order{
		UserID:          userID,
		CustomerEmail:   email,
		Items:           items,
		TotalPrice:      total,
		TrackingID:      NewTrackingID(),
		Status:          models.StatusProcessing,
		ShippingAddress: req.ShippingAddress.Display(),
	}

	if err := s.Store.Insert(order); err != nil {
		if errors.Is(err, stores.ErrDuplicate) {
			return nil, ErrConflict("tracking id collision, please retry")
		}
		return nil, err
	}

	if s.Mailer != nil {
		conf := models.OrderConfirmation{
			OrderID:         order.ID,
			TrackingID:      order.TrackingID,
			Items:           req.Items,
			TotalPrice:      order.TotalPrice,
			ShippingAddress: shippingOrDefault(order.ShippingAddress),
		}
		go func() {
			if err := s.Mailer.SendOrderConfirmation(email, conf); err != nil {
				log.Printf("[MAILER] Failed to send order confirmation for order %d: %v", conf.OrderID, err)
			}
		}()
	}

	s.publish(order, "created")
	return order, nil
}

// TrackOrder is the public lookup by tracking ID. When the order has a stored
// customer email it must match the supplied one; a mismatch is reported as
// not-found so existence is never leaked. Legacy orders without a stored
// email are returned on the tracking ID alone.
func (s *OrderService) TrackOrder(trackingID, email string) (*models.TrackedOrder, error) {
	trackingID = strings.TrimSpace(trackingID)
	email = strings.ToLower(strings.TrimSpace(email))
	if trackingID == "" || email == "" {
		return nil, ErrBadRequest("tracking ID and billing email are required")
	}

	order, err := s.Store.FindByTrackingID(trackingID)
	if errors.Is(err, stores.ErrNotFound) {
		return nil, ErrNotFound("order")
	}
	if err != nil {
		return nil, err
	}
	if order.CustomerEmail != "" && order.CustomerEmail != email {
		return nil, ErrNotFound("order")
	}

	return &models.TrackedOrder{
		TrackingID:    order.TrackingID,
		Status:        order.Status,
		Items:         order.Items,
		TotalPrice:    order.TotalPrice,
		CreatedAt:     order.CreatedAt,
		CustomerEmail: order.CustomerEmail,
	}, nil
}

// UserOrders returns the caller's orders, newest first.
func (s *OrderService) UserOrders(userID int64) ([]models.Order, error) {
	return s.Store.FindByUser(userID)
}

// OrderByID returns a single order only if it belongs to userID. A mismatched
// owner gets not-found, never forbidden.
func (s *OrderService) OrderByID(orderID, userID int64) (*models.Order, error) {
	order, err := s.Store.FindByIDAndUser(orderID, userID)
	if errors.Is(err, stores.ErrNotFound) {
		return nil, ErrNotFound("order")
	}
	return order, err
}

// AllOrders returns every order, newest first. Admin only.
func (s *OrderService) AllOrders() ([]models.Order, error) {
	return s.Store.FindAll()
}

// UpdateStatus sets a new status on an order. Admin only. No customer email
// is sent on status changes; only the internal order event goes out.
func (s *OrderService) UpdateStatus(orderID int64, status string) (*models.Order, error) {
	if status == "" {
		return nil, ErrBadRequest("status is required")
	}
	if !models.ValidStatus(status) {
		return nil, ErrBadRequest("status must be one of Processing, Shipped, Delivered, Cancelled")
	}

	order, err := s.Store.UpdateStatus(orderID, status)
	if errors.Is(err, stores.ErrNotFound) {
		return nil, ErrNotFound("order")
	}
	if err != nil {
		return nil, err
	}

	s.publish(order, "status_updated")
	return order, nil
}

// DeleteOrder removes an order entirely. Admin only.
func (s *OrderService) DeleteOrder(orderID int64) error {
	order, err := s.Store.FindByID(orderID)
	if errors.Is(err, stores.ErrNotFound) {
		return ErrNotFound("order")
	}
	if err != nil {
		return err
	}

	if err := s.Store.Delete(orderID); err != nil {
		if errors.Is(err, stores.ErrNotFound) {
			return ErrNotFound("order")
		}
		return err
	}

	s.publish(order, "deleted")
	return nil
}

func (s *OrderService) publish(order *models.Order, eventType string) {
	if s.Events == nil {
		return
	}
	event := models.OrderEvent{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Type:     eventType,
		Status:   order.Status,
		Total:    order.TotalPrice,
		Occurred: time.Now(),
	}
	if err := s.Events.PublishOrderEvent(event); err != nil {
		log.Printf("Failed to publish order %s event for order %d: %v", eventType, order.ID, err)
	}
}

// NewTrackingID builds a human-shareable tracking ID from the millisecond
// epoch and a 3-digit random suffix. Uniqueness is best-effort here; the
// store's unique index is the real guarantee.
func NewTrackingID() string {
	return fmt.Sprintf("TRK-%d-%d", time.Now().UnixMilli(), 100+rand.IntN(900))
}

func shippingOrDefault(addr string) string {
	if addr == "" {
		return "Not provided"
	}
	return addr
}
