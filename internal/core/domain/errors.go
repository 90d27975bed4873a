package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidProduct      = errors.New("invalid product")
	ErrInvalidShippingInfo = errors.New("invalid shipping info")
	ErrInvalidSession      = errors.New("invalid session id")
	ErrStaleQuery          = errors.New("query superseded by a newer one")
)
