package dto

import (
	"time"

	"invoice-dashboard-backend/internal/models"
)

// DateLayout is the wire format of invoice dates.
const DateLayout = "2006-01-02"

type InvoiceResponse struct {
	ID         string               `json:"id"`
	CustomerID string               `json:"customer_id"`
	Amount     int64                `json:"amount"` // cents
	Status     models.InvoiceStatus `json:"status"`
	Date       string               `json:"date"` // YYYY-MM-DD
}

type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

type GetInvoiceResponse struct {
	Invoice InvoiceResponse `json:"invoice"`
}

func NewInvoiceResponse(inv models.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:         inv.ID.String(),
		CustomerID: inv.CustomerID,
		Amount:     inv.Amount,
		Status:     inv.Status,
		Date:       time.Time(inv.Date).UTC().Format(DateLayout),
	}
}

// NewListInvoicesResponse never yields a null list.
func NewListInvoicesResponse(list []models.Invoice) ListInvoicesResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, NewInvoiceResponse(inv))
	}
	return ListInvoicesResponse{Invoices: out}
}
