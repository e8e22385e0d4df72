package models

import "errors"

// Domain errors. The API boundary translates each of these into a fixed
// status/code pair; anything else is treated as an internal store failure.
var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenMalformed      = errors.New("invalid token")
	ErrUnknownUser         = errors.New("user not found")
	ErrUnknownCrypto       = errors.New("crypto not found")
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient balance")
)
