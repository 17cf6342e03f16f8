package services

import "errors"

var (
	ErrUnknownItem     = errors.New("pizza not found in menu")
	ErrMissingSize     = errors.New("size is required")
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
	ErrEmptyCart       = errors.New("cart is empty")

	ErrMissingCredentials = errors.New("username and password are required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
