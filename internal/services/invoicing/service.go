package invoicing

import (
	"context"
	"errors"
	"net/url"
	"time"

	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/validation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListingPath is the invoice list page. Successful writes invalidate it and
// send the user back to it.
const ListingPath = "/dashboard/invoices"

const (
	MsgCreateInvalid = "Missing fiels, failed to create invoice."
	MsgUpdateInvalid = "Missing fields, failed to update invoice."
	MsgCreateFailed  = "DB error: failed to create invoice"
	MsgUpdateFailed  = "DB error: failed to update invoice"
	MsgDeleteFailed  = "DB error: failed to delete invoice"
	MsgDeleted       = "Invoice deleted"
)

var (
	// ErrInvoiceLocked is returned by Delete while deletion is disabled.
	ErrInvoiceLocked = errors.New("unable to touch invoice")
	ErrNotFound      = errors.New("invoice not found")
)

type Store interface {
	Insert(ctx context.Context, customerID string, amountInCents int64, status models.InvoiceStatus, date time.Time) error
	Update(ctx context.Context, id, customerID string, amountInCents int64, status models.InvoiceStatus) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Invoice, error)
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
}

// RouteCache is a per-path listing cache. GetInvoices reports the path's
// generation; SetInvoices must drop the fill if Invalidate ran since.
type RouteCache interface {
	GetInvoices(ctx context.Context, path string) (list []models.Invoice, gen int64, ok bool, err error)
	SetInvoices(ctx context.Context, path string, gen int64, list []models.Invoice) error
	Invalidate(ctx context.Context, path string) error
}

type InvoiceService struct {
	store         Store
	cache         RouteCache
	log           *zap.Logger
	deleteEnabled bool
	now           func() time.Time
}

// NewInvoiceService wires the invoice actions. With deleteEnabled false,
// Delete refuses every call.
func NewInvoiceService(store Store, cache RouteCache, log *zap.Logger, deleteEnabled bool) *InvoiceService {
	return &InvoiceService{
		store:         store,
		cache:         cache,
		log:           log,
		deleteEnabled: deleteEnabled,
		now:           time.Now,
	}
}

// Create validates the form and inserts a new invoice dated today (UTC).
// The previous form state is accepted for symmetry with the form and unused.
func (s *InvoiceService) Create(ctx context.Context, _ State, form url.Values) Result {
	in, errs := validation.ValidateInvoice(form)
	if errs != nil {
		return invalid(errs, MsgCreateInvalid)
	}

	today := s.today()
	if err := s.store.Insert(ctx, in.CustomerID, in.AmountInCents(), in.Status, today); err != nil {
		s.log.Warn("create invoice failed", zap.String("customer_id", in.CustomerID), zap.Error(err))
		return persistenceFailed(MsgCreateFailed)
	}

	s.invalidate(ctx)
	return redirect(ListingPath)
}

// Update validates the form and rewrites customer, amount and status of
// invoice id. The invoice date is never changed.
func (s *InvoiceService) Update(ctx context.Context, id string, _ State, form url.Values) Result {
	in, errs := validation.ValidateInvoice(form)
	if errs != nil {
		return invalid(errs, MsgUpdateInvalid)
	}

	if err := s.store.Update(ctx, id, in.CustomerID, in.AmountInCents(), in.Status); err != nil {
		s.log.Warn("update invoice failed", zap.String("invoice_id", id), zap.Error(err))
		return persistenceFailed(MsgUpdateFailed)
	}

	s.invalidate(ctx)
	return redirect(ListingPath)
}

// Delete removes invoice id. While deletion is disabled it returns
// ErrInvoiceLocked without touching the store or the cache.
func (s *InvoiceService) Delete(ctx context.Context, id string) (Result, error) {
	if !s.deleteEnabled {
		return Result{}, ErrInvoiceLocked
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.log.Warn("delete invoice failed", zap.String("invoice_id", id), zap.Error(err))
		return persistenceFailed(MsgDeleteFailed), nil
	}

	s.invalidate(ctx)
	return ok(MsgDeleted), nil
}

// List returns the invoice listing, served from the route cache when warm.
// The cache is only refilled when its generation was read before the store.
func (s *InvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	cached, gen, hit, cacheErr := s.cache.GetInvoices(ctx, ListingPath)
	if cacheErr != nil {
		s.log.Warn("read invoice listing cache", zap.Error(cacheErr))
	} else if hit {
		return cached, nil
	}

	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if cacheErr != nil {
		return list, nil
	}
	if err := s.cache.SetInvoices(ctx, ListingPath, gen, list); err != nil {
		s.log.Warn("fill invoice listing cache", zap.Error(err))
	}
	return list, nil
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	invoice, err := s.store.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return invoice, err
}

// today is the current UTC calendar day at midnight.
func (s *InvoiceService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *InvoiceService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, ListingPath); err != nil {
		s.log.Warn("invalidate invoice listing", zap.String("path", ListingPath), zap.Error(err))
	}
}
