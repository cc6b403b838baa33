package domain

import "errors"

// Catalog errors
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrHeroNotFound     = errors.New("hero not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountNotActive = errors.New("account is not available")
	ErrNoActiveAccounts = errors.New("no active accounts")
	ErrSlugTaken        = errors.New("slug already in use")
)

// Validation errors
var (
	ErrInvalidHeroType      = errors.New("hero type must be legendary or epic")
	ErrInvalidAccountStatus = errors.New("invalid account status")
	ErrNegativePrice        = errors.New("price must be non-negative")
	ErrInvalidRoster        = errors.New("roster references unknown hero")
	ErrInvalidContactMethod = errors.New("invalid contact method")
	ErrMissingName          = errors.New("name is required in both languages")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)
