package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

type ListCustomerRequest struct {
	Offset      int
	Limit       int
	Sort        Sort
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListCustomerFilter struct {
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

type ListCustomerResponse struct {
	Customers []Customer `json:"data"`
	Count     int64      `json:"count"`
}

type CreateCustomerRequest struct {
	Name  string `validate:"required,max=200"`
	Email string `validate:"required,email"`
	Phone string `validate:"max=50"`
	Notes string `validate:"max=2000"`
}

type UpdateCustomerRequest struct {
	ID    string `validate:"-"`
	Name  string `validate:"required,max=200"`
	Email string `validate:"required,email"`
	Phone string `validate:"max=50"`
	Notes string `validate:"max=2000"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, string) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	Delete(context.Context, string) error
	ListCreatedAt(context.Context) ([]time.Time, error)
}

var (
	ErrInvalidOwner = errors.New("invalid_owner")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidPhone = errors.New("invalid_phone")
	ErrInvalidNotes = errors.New("invalid_notes")
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidSort  = errors.New("invalid_sort")
	ErrNotFound     = errors.New("not_found")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

// ValidationError carries every rejected field of a request. It unwraps to
// the sentinel of the first field.
type ValidationError struct {
	Fields []FieldError
	err    error
}

func NewValidationError(sentinel error, fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields, err: sentinel}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	if len(msgs) == 0 && e.err != nil {
		return e.err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return e.err }
