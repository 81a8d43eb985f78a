package handler

import (
	"errors"
	"net/http"
	"net/url"

	"invoice-dashboard-backend/internal/dto"
	"invoice-dashboard-backend/internal/services/invoicing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxFormMemory = 1 << 20

type InvoiceHandler struct {
	service *invoicing.InvoiceService
}

func NewInvoiceHandler(s *invoicing.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: s}
}

// Create handles the new-invoice form.
func (h *InvoiceHandler) Create(c *gin.Context) {
	form, err := postForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}
	writeResult(c, h.service.Create(c.Request.Context(), invoicing.State{}, form))
}

// Update handles the edit-invoice form.
func (h *InvoiceHandler) Update(c *gin.Context) {
	form, err := postForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}
	writeResult(c, h.service.Update(c.Request.Context(), c.Param("id"), invoicing.State{}, form))
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	res, err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	writeResult(c, res)
}

// List serves the invoice listing page data.
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoices"})
		return
	}
	c.JSON(http.StatusOK, dto.NewListInvoicesResponse(invoices))
}

// Get returns one invoice, used to prefill the edit form. An id that is not a
// UUID cannot name an invoice and is answered like a missing one.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}

	invoice, err := h.service.Get(c.Request.Context(), id.String())
	if errors.Is(err, invoicing.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoice"})
		return
	}
	c.JSON(http.StatusOK, dto.GetInvoiceResponse{Invoice: dto.NewInvoiceResponse(*invoice)})
}

func postForm(c *gin.Context) (url.Values, error) {
	err := c.Request.ParseMultipartForm(maxFormMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	return c.Request.PostForm, nil
}

func writeResult(c *gin.Context, res invoicing.Result) {
	switch res.Kind {
	case invoicing.KindRedirect:
		c.Redirect(http.StatusSeeOther, res.Target)
	case invoicing.KindValidationError:
		c.JSON(http.StatusUnprocessableEntity, res.State)
	case invoicing.KindPersistenceError:
		c.JSON(http.StatusInternalServerError, res.State)
	default:
		c.JSON(http.StatusOK, res.State)
	}
}
