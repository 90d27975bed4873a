package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateProduct rejects records that must not reach the engines.
func ValidateProduct(p Product) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidProduct, p.ID, err)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: %q: negative price", ErrInvalidProduct, p.ID)
	}
	return nil
}

func ValidateShippingInfo(s ShippingInfo) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidShippingInfo, err)
	}
	return nil
}
