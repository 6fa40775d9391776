package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ordnery-backend/services"
)

type AdminController struct {
	Auth  *services.AuthService
	Admin *services.AdminService
}

// Register handles POST /api/admin/register.
func (ctl *AdminController) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	token, admin, err := ctl.Auth.RegisterAdmin(req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "admin": admin})
}

// Login handles POST /api/admin/login.
func (ctl *AdminController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	token, admin, err := ctl.Auth.LoginAdmin(req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "admin": admin})
}

// Dashboard handles GET /api/admin/dashboard.
func (ctl *AdminController) Dashboard(c *gin.Context) {
	summary, err := ctl.Admin.DashboardSummary()
	if err != nil {
		respondError(c, err, "Server Error")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Products handles GET /api/admin/products.
func (ctl *AdminController) Products(c *gin.Context) {
	products, err := ctl.Admin.ListProducts()
	if err != nil {
		respondError(c, err, "Server Error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Orders handles GET /api/admin/orders.
func (ctl *AdminController) Orders(c *gin.Context) {
	orders, err := ctl.Admin.ListOrders()
	if err != nil {
		respondError(c, err, "Server Error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Users handles GET /api/admin/users.
func (ctl *AdminController) Users(c *gin.Context) {
	users, err := ctl.Admin.ListUsers()
	if err != nil {
		respondError(c, err, "Server Error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
