package repository

import (
	"context"
	"time"

	"invoice-dashboard-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Insert adds a new invoice. The id is generated on insert; date is the
// calendar day passed in.
func (r *InvoiceRepository) Insert(ctx context.Context, customerID string, amountInCents int64, status models.InvoiceStatus, date time.Time) error {
	invoice := models.Invoice{
		CustomerID: customerID,
		Amount:     amountInCents,
		Status:     status,
		Date:       datatypes.Date(date),
	}
	return r.db.WithContext(ctx).Create(&invoice).Error
}

// Update rewrites customer, amount and status of the invoice with the given id.
// The date column is left untouched.
func (r *InvoiceRepository) Update(ctx context.Context, id, customerID string, amountInCents int64, status models.InvoiceStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"customer_id": customerID,
			"amount":      amountInCents,
			"status":      status,
		}).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Invoice{}).Error
}

// List returns all invoices, newest first.
func (r *InvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Find(&invoices).Error
	return invoices, err
}

// GetByID fetch a single invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
