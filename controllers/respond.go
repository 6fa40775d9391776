package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ordnery-backend/services"
)

// respondError maps typed service errors to HTTP statuses. Anything untyped
// is an internal failure: it is logged with context and the caller only sees
// the generic fallback message.
func respondError(c *gin.Context, err error, fallback string) {
	switch e := err.(type) {
	case services.ErrBadRequest:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": e.Error()})
	case services.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": e.Error()})
	case services.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": e.Error()})
	case services.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": e.Error()})
	case services.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": e.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": fallback})
	}
}
