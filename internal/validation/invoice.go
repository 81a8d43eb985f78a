// Package validation checks submitted invoice forms.
//
// Rules are a plain table of field -> check -> message. Every rule runs on
// every call so the caller gets all field errors at once.
package validation

import (
	"math"
	"net/url"
	"strings"

	"invoice-dashboard-backend/internal/models"

	"github.com/shopspring/decimal"
)

const (
	FieldCustomerID = "customerId"
	FieldAmount     = "amount"
	FieldStatus     = "status"
)

// maxCents is the largest amount the bigint amount column holds.
var maxCents = decimal.NewFromInt(math.MaxInt64)

const (
	MsgCustomerID = "please select a customer"
	MsgAmount     = "amount should be greater than $0"
	MsgStatus     = "please select an invoice status"
)

// FieldErrors groups messages by form field name.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// InvoiceInput is a validated invoice form. It never carries id or date.
type InvoiceInput struct {
	CustomerID string
	Amount     decimal.Decimal
	Status     models.InvoiceStatus
}

// AmountInCents converts the validated amount to whole cents.
func (in InvoiceInput) AmountInCents() int64 {
	return in.Amount.Shift(2).Round(0).IntPart()
}

type rule struct {
	field string
	msg   string
	check func(form url.Values, in *InvoiceInput) bool
}

var invoiceRules = []rule{
	{field: FieldCustomerID, msg: MsgCustomerID, check: checkCustomerID},
	{field: FieldAmount, msg: MsgAmount, check: checkAmount},
	{field: FieldStatus, msg: MsgStatus, check: checkStatus},
}

// ValidateInvoice runs the invoice rules against raw form data. Fields other
// than customerId, amount and status are ignored. It returns nil errors on
// success.
func ValidateInvoice(form url.Values) (InvoiceInput, FieldErrors) {
	var in InvoiceInput
	errs := FieldErrors{}
	for _, r := range invoiceRules {
		if !r.check(form, &in) {
			errs.add(r.field, r.msg)
		}
	}
	if len(errs) > 0 {
		return InvoiceInput{}, errs
	}
	return in, nil
}

func formValue(form url.Values, key string) (string, bool) {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func checkCustomerID(form url.Values, in *InvoiceInput) bool {
	v, ok := formValue(form, FieldCustomerID)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return false
	}
	in.CustomerID = v
	return true
}

// checkAmount coerces the submitted amount to a number. A missing or blank
// value coerces to zero and therefore fails, as does an amount whose cents
// do not fit in an int64.
func checkAmount(form url.Values, in *InvoiceInput) bool {
	v, _ := formValue(form, FieldAmount)
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	amount, err := decimal.NewFromString(v)
	if err != nil || !amount.IsPositive() {
		return false
	}
	if amount.Shift(2).Round(0).GreaterThan(maxCents) {
		return false
	}
	in.Amount = amount
	return true
}

func checkStatus(form url.Values, in *InvoiceInput) bool {
	v, _ := formValue(form, FieldStatus)
	status := models.InvoiceStatus(v)
	if !status.Valid() {
		return false
	}
	in.Status = status
	return true
}
