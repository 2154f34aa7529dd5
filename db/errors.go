package db

import "errors"

// Business-rule errors surfaced to controllers, which map them to 4xx.
// Anything else coming out of the repo is a storage failure.
var (
	ErrValidation        = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock available")
	ErrInvalidTransition = errors.New("illegal request status transition")
)
