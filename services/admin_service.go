package services

import (
	"ordnery-backend/models"
)

// ProductStore is the catalogue persistence contract.
type ProductStore interface {
	Products() ([]models.Product, error)
}

// AdminService aggregates the dashboard summary and the admin listings.
type AdminService struct {
	Orders   OrderStore
	Users    UserStore
	Products ProductStore
}

const recentOrdersLimit = 5

// DashboardSummary collects total delivered revenue, the count of orders
// still in Processing, the customer count and the five most recent orders.
func (s *AdminService) DashboardSummary() (*models.DashboardSummary, error) {
	revenue, err := s.Orders.DeliveredRevenue()
	if err != nil {
		return nil, err
	}
	newOrders, err := s.Orders.CountByStatus(models.StatusProcessing)
	if err != nil {
		return nil, err
	}
	customers, err := s.Users.CountUsers()
	if err != nil {
		return nil, err
	}
	recent, err := s.Orders.Recent(recentOrdersLimit)
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		TotalRevenue:        revenue,
		NewOrdersCount:      newOrders,
		TotalCustomersCount: customers,
		RecentOrders:        recent,
	}, nil
}

// ListOrders returns every order, newest first.
func (s *AdminService) ListOrders() ([]models.Order, error) {
	return s.Orders.FindAll()
}

// ListProducts returns the full catalogue.
func (s *AdminService) ListProducts() ([]models.Product, error) {
	return s.Products.Products()
}

// ListUsers returns all customer accounts, credentials stripped by the model.
func (s *AdminService) ListUsers() ([]models.User, error) {
	return s.Users.Users()
}
