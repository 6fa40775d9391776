package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ordnery-backend/middlewares"
	"ordnery-backend/services"
)

type UserController struct {
	Auth *services.AuthService
}

// Register handles POST /api/users/register.
func (ctl *UserController) Register(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	resent, err := ctl.Auth.RegisterUser(req.Name, req.Email)
	if err != nil {
		respondError(c, err, "Server error during registration")
		return
	}

	if resent {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"msg":     "User already exists but not verified. A new verification link has been sent to your email.",
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"msg":     "Registration successful! A verification link has been sent to your email address.",
	})
}

// VerifyEmail handles GET /api/users/verify-email?token= and redirects the
// browser to the set-password page.
func (ctl *UserController) VerifyEmail(c *gin.Context) {
	redirect, err := ctl.Auth.VerifyEmail(c.Query("token"))
	if err != nil {
		respondError(c, err, "Server error during email verification")
		return
	}
	c.Redirect(http.StatusFound, redirect)
}

// SetPassword handles POST /api/users/set-password.
func (ctl *UserController) SetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	if err := ctl.Auth.SetPassword(req.Token, req.NewPassword); err != nil {
		respondError(c, err, "Server error during password setting")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "msg": "Password set successfully. You can now log in."})
}

// Login handles POST /api/users/login.
func (ctl *UserController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	token, user, err := ctl.Auth.LoginUser(req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Server error during login")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// ForgotPassword handles POST /api/users/forgot-password. The response is
// the same whether or not the account exists.
func (ctl *UserController) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	if err := ctl.Auth.ForgotPassword(req.Email); err != nil {
		respondError(c, err, "Server error during password reset request")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"msg":     "If an account with that email exists, a password reset link has been sent.",
	})
}

// ResetPassword handles POST /api/users/reset-password.
func (ctl *UserController) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "msg": err.Error()})
		return
	}

	if err := ctl.Auth.ResetPassword(req.Token, req.NewPassword); err != nil {
		respondError(c, err, "Server error during password reset")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"msg":     "Password has been reset successfully. You can now log in with your new password.",
	})
}

// Profile handles GET /api/users/profile.
func (ctl *UserController) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":       c.GetInt64(middlewares.CtxUserID),
			"name":     c.GetString(middlewares.CtxUserName),
			"email":    c.GetString(middlewares.CtxUserEmail),
			"is_admin": c.GetBool(middlewares.CtxIsAdmin),
		},
	})
}
