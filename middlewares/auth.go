package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ordnery-backend/services"
	"ordnery-backend/utils"
)

// Context keys set by AuthMiddleware.
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserName  = "userName"
	CtxIsAdmin   = "isAdmin"
)

// AuthMiddleware parses the Bearer token and loads the matching user or
// admin record. The record must still exist; a stale token for a deleted
// account is rejected.
func AuthMiddleware(secret string, users services.UserStore, admins services.AdminStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "Not authorized, no token"})
			return
		}

		id, scope, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "Not authorized, token failed"})
			return
		}

		switch scope {
		case "admin":
			admin, err := admins.FindAdminByID(id)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "Not authorized, token failed"})
				return
			}
			c.Set(CtxUserID, admin.ID)
			c.Set(CtxUserEmail, admin.Email)
			c.Set(CtxUserName, admin.Name)
			c.Set(CtxIsAdmin, true)
		case "user":
			user, err := users.FindUserByID(id)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "Not authorized, token failed"})
				return
			}
			c.Set(CtxUserID, user.ID)
			c.Set(CtxUserEmail, user.Email)
			c.Set(CtxUserName, user.Name)
			c.Set(CtxIsAdmin, false)
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "msg": "Not authorized, token failed"})
			return
		}

		c.Next()
	}
}

// AdminMiddleware rejects callers the auth gate did not mark as admin.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isAdmin, ok := c.Get(CtxIsAdmin); !ok || isAdmin != true {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "msg": "Not authorized as an admin"})
			return
		}
		c.Next()
	}
}
