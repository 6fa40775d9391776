package stores

import (
	"database/sql"

	"ordnery-backend/models"
)

type ProductStore struct {
	DB *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{DB: db}
}

func (s *ProductStore) Products() ([]models.Product, error) {
	rows, err := s.DB.Query(
		`SELECT id, name, sku, price, stock, status,
		        COALESCE(description, ''), COALESCE(category, ''),
		        created_at, updated_at
		 FROM products ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Stock, &p.Status,
			&p.Description, &p.Category, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
