package stores

import (
	"database/sql"
	"errors"

	"ordnery-backend/models"
)

// OrderStore persists orders and their items over MySQL. Orders and items
// live in separate tables; every read joins them back together.
type OrderStore struct {
	DB *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{DB: db}
}

// Insert writes the order and its items in one transaction and fills in the
// generated ID and timestamps. A tracking-ID collision surfaces as
// ErrDuplicate and nothing is written.
func (s *OrderStore) Insert(o *models.Order) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}

	res, err := tx.Exec(
		`INSERT INTO orders (user_id, customer_email, total_price, tracking_id, status, shipping_address)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		o.UserID, o.CustomerEmail, o.TotalPrice, o.TrackingID, o.Status, o.ShippingAddress,
	)
	if err != nil {
		_ = tx.Rollback()
		return mapMySQLError(err)
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, item := range o.Items {
		if _, err := tx.Exec(
			`INSERT INTO order_items (order_id, name, quantity, price) VALUES (?, ?, ?, ?)`,
			orderID, item.Name, item.Quantity, item.Price,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	o.ID = orderID
	return s.DB.QueryRow(`SELECT created_at, updated_at FROM orders WHERE id = ?`, orderID).
		Scan(&o.CreatedAt, &o.UpdatedAt)
}

func (s *OrderStore) FindByID(id int64) (*models.Order, error) {
	return s.findOne(`WHERE o.id = ?`, id)
}

func (s *OrderStore) FindByIDAndUser(id, userID int64) (*models.Order, error) {
	return s.findOne(`WHERE o.id = ? AND o.user_id = ?`, id, userID)
}

func (s *OrderStore) FindByTrackingID(trackingID string) (*models.Order, error) {
	return s.findOne(`WHERE o.tracking_id = ?`, trackingID)
}

func (s *OrderStore) FindByUser(userID int64) ([]models.Order, error) {
	return s.findMany(`WHERE o.user_id = ?`, 0, userID)
}

func (s *OrderStore) FindAll() ([]models.Order, error) {
	return s.findMany(``, 0)
}

// Recent returns the newest orders for the dashboard.
func (s *OrderStore) Recent(limit int) ([]models.Order, error) {
	return s.findMany(``, limit)
}

// UpdateStatus sets the new status and returns the updated order.
func (s *OrderStore) UpdateStatus(id int64, status string) (*models.Order, error) {
	res, err := s.DB.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		// Either missing or unchanged; only the former is an error.
		if _, err := s.FindByID(id); err != nil {
			return nil, err
		}
	}
	return s.FindByID(id)
}

// Delete removes the order and its items. Hard delete, no audit trail.
func (s *OrderStore) Delete(id int64) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}

	res, err := tx.Exec(`DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if affected == 0 {
		_ = tx.Rollback()
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// DeliveredRevenue sums the totals of all delivered orders.
func (s *OrderStore) DeliveredRevenue() (float64, error) {
	var total float64
	err := s.DB.QueryRow(
		`SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE status = ?`,
		models.StatusDelivered,
	).Scan(&total)
	return total, err
}

func (s *OrderStore) CountByStatus(status string) (int64, error) {
	var n int64
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM orders WHERE status = ?`, status).Scan(&n)
	return n, err
}

func (s *OrderStore) findOne(where string, args ...any) (*models.Order, error) {
	var o models.Order
	err := s.DB.QueryRow(
		`SELECT o.id, o.user_id, o.customer_email, o.total_price, o.tracking_id,
		        o.status, o.shipping_address, o.created_at, o.updated_at
		 FROM orders o `+where, args...,
	).Scan(&o.ID, &o.UserID, &o.CustomerEmail, &o.TotalPrice, &o.TrackingID,
		&o.Status, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.loadItems(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// findMany returns orders newest-first with their items attached. A LEFT JOIN
// keeps orders that somehow lost their items visible.
func (s *OrderStore) findMany(where string, limit int, args ...any) ([]models.Order, error) {
	query := `SELECT o.id, o.user_id, o.customer_email, o.total_price, o.tracking_id,
	                 o.status, o.shipping_address, o.created_at, o.updated_at,
	                 oi.name, oi.quantity, oi.price
	          FROM orders o
	          LEFT JOIN order_items oi ON o.id = oi.order_id ` + where + `
	          ORDER BY o.created_at DESC, o.id DESC, oi.id ASC`

	rows, err := s.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	byID := make(map[int64]*models.Order)
	ids := make([]int64, 0)
	for rows.Next() {
		var (
			o        models.Order
			itemName sql.NullString
			quantity sql.NullInt64
			price    sql.NullFloat64
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.CustomerEmail, &o.TotalPrice, &o.TrackingID,
			&o.Status, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt,
			&itemName, &quantity, &price); err != nil {
			return nil, err
		}

		existing, ok := byID[o.ID]
		if !ok {
			o.Items = []models.OrderItem{}
			byID[o.ID] = &o
			ids = append(ids, o.ID)
			existing = &o
		}
		if itemName.Valid {
			existing.Items = append(existing.Items, models.OrderItem{
				Name:     itemName.String,
				Quantity: int(quantity.Int64),
				Price:    price.Float64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, *byID[id])
		if limit > 0 && len(orders) == limit {
			break
		}
	}
	return orders, nil
}

func (s *OrderStore) loadItems(orderID int64) ([]models.OrderItem, error) {
	rows, err := s.DB.Query(
		`SELECT name, quantity, price FROM order_items WHERE order_id = ? ORDER BY id ASC`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
