package models

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned on a unique violation
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrNoFieldsToUpdate is returned when an update request carries no fields
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrAlreadyClaimed is returned when a blog post already has an owner
	ErrAlreadyClaimed = errors.New("blog post already claimed")

	// ErrInvalidDomain is returned for hostnames that fail validation
	ErrInvalidDomain = errors.New("invalid domain")

	// ErrNoEligibleDomain is returned when a user has no verified domain to publish on
	ErrNoEligibleDomain = errors.New("no eligible domains found for user")

	// ErrDomainNotEligible is returned when an explicitly requested domain cannot take posts
	ErrDomainNotEligible = errors.New("domain is not eligible for publishing")
)

// SchemaMismatchError reports that a statement referenced a column the live
// table does not have (Postgres 42703). Callers with optional columns can
// drop Column and retry.
type SchemaMismatchError struct {
	Table  string
	Column string
	Err    error
}

func (e *SchemaMismatchError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("column %q does not exist on %s", e.Column, e.Table)
	}
	return fmt.Sprintf("column %q does not exist", e.Column)
}

func (e *SchemaMismatchError) Unwrap() error { return e.Err }

// InvalidDomainsError lists every rejected input of a batch.
type InvalidDomainsError struct {
	Inputs []string
}

func (e *InvalidDomainsError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidDomain, e.Inputs)
}

func (e *InvalidDomainsError) Unwrap() error { return ErrInvalidDomain }

// ErrNoKeywords is returned when a campaign would have no usable keyword
var ErrNoKeywords = errors.New("at least one keyword is required")
