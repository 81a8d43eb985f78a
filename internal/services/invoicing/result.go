package invoicing

import "invoice-dashboard-backend/internal/validation"

type ResultKind int

const (
	KindOk ResultKind = iota
	KindValidationError
	KindPersistenceError
	KindRedirect
)

// State is what the invoice form gets back when an action does not redirect.
type State struct {
	Errors  validation.FieldErrors `json:"errors,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Result is the outcome of an invoice action. Target is set only for
// KindRedirect; State is empty for it.
type Result struct {
	Kind   ResultKind
	State  State
	Target string
}

func ok(message string) Result {
	return Result{Kind: KindOk, State: State{Message: message}}
}

func invalid(errs validation.FieldErrors, message string) Result {
	return Result{Kind: KindValidationError, State: State{Errors: errs, Message: message}}
}

func persistenceFailed(message string) Result {
	return Result{Kind: KindPersistenceError, State: State{Message: message}}
}

func redirect(target string) Result {
	return Result{Kind: KindRedirect, Target: target}
}
