package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// Valid reports whether s is one of the accepted statuses.
func (s InvoiceStatus) Valid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice is a row of the invoices table. Amount is stored in cents.
// ID and Date are fixed at creation.
type Invoice struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID string         `gorm:"column:customer_id;not null;index" json:"customer_id"`
	Amount     int64          `gorm:"not null" json:"amount"`
	Status     InvoiceStatus  `gorm:"type:varchar(16);not null;index" json:"status"`
	Date       datatypes.Date `gorm:"not null" json:"date"`
}

func (Invoice) TableName() string { return "invoices" }

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
