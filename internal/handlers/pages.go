package handler

import (
	"net/http"

	"invoice-dashboard-backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// Dashboard is the landing page for signed-in users.
func Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"user_id":  auth.UserIDFromContext(c),
		"invoices": "/dashboard/invoices",
	})
}

// Login is the public sign-in page. Sign-in itself is handled by the session
// provider; this only tells the client where to go afterwards.
func Login(c *gin.Context) {
	callback := c.Query("callbackUrl")
	if callback == "" {
		callback = auth.DashboardPath
	}
	c.JSON(http.StatusOK, gin.H{"callbackUrl": callback})
}

// Home is the public landing page.
func Home(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"login": loginPath})
	}
}
