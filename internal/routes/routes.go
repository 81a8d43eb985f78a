package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoice-dashboard-backend/internal/auth"
	handler "invoice-dashboard-backend/internal/handlers"
	"invoice-dashboard-backend/internal/services/invoicing"
)

const apiPrefix = "/api"

type Deps struct {
	Invoices      *invoicing.InvoiceService
	Sessions      auth.SessionLookup
	SessionCookie string
	LoginPath     string
	Log           *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	invoiceHandler := handler.NewInvoiceHandler(d.Invoices)

	// Engine-level so unmatched paths get the same policy; /api is exempt.
	r.Use(auth.Gate(d.Sessions, d.SessionCookie, d.LoginPath, d.Log, apiPrefix+"/"))

	api := r.Group(apiPrefix)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/", handler.Home(d.LoginPath))
	r.GET(d.LoginPath, handler.Login)

	dashboard := r.Group(auth.DashboardPath)
	dashboard.GET("", handler.Dashboard)

	invoices := dashboard.Group("/invoices")
	{
		invoices.GET("", invoiceHandler.List)
		invoices.POST("", invoiceHandler.Create)
		invoices.GET("/:id", invoiceHandler.Get)
		invoices.POST("/:id/edit", invoiceHandler.Update)
		invoices.POST("/:id/delete", invoiceHandler.Delete)
	}
}
