package middleware

import "github.com/iliyamo/table-reservation/internal/service"

// Validator adapts the shared request validator to echo's Validator
// interface so handlers can call c.Validate.  Failures wrap
// service.ErrInvalidInput.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

func (*Validator) Validate(i any) error { return service.CheckStruct(i) }
