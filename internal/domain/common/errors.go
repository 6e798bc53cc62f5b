package common

import (
	"errors"
	"fmt"
)

// Business rule rejections. Handlers map these to HTTP status codes.
var (
	ErrNotFound              = errors.New("candidato no encontrado")
	ErrCandidateNotFound     = errors.New("candidato no encontrado")
	ErrDuplicateBallotNumber = errors.New("ya existe un candidato con ese numero")
	ErrAlreadyVoted          = errors.New("el usuario ya ha votado")
	ErrEmailAlreadyUsed      = errors.New("este correo ya ha sido usado para votar")
	ErrVoteInProgress        = errors.New("hay un voto en proceso para esta identidad")
	ErrNotEligible           = errors.New("el votante no cumple los requisitos")
	ErrStoreUnavailable      = errors.New("store unavailable")
)

// ValidationError reports malformed or missing input for a single field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// NewValidationError builds a ValidationError
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError wraps a failed call to the storage backend. The driver message is kept.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// IneligibleError explains why a voter was rejected by the eligibility checks
type IneligibleError struct {
	Reason string
}

func (e *IneligibleError) Error() string {
	return e.Reason
}

func (e *IneligibleError) Unwrap() error {
	return ErrNotEligible
}
