package domain

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCartNotFound       = errors.New("cart not found")
	ErrLineNotFound       = errors.New("cart line not found")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenRevoked       = errors.New("token revoked")
)
