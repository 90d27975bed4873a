package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingPolicySummarize(t *testing.T) {
	policy := domain.DefaultPricingPolicy()

	t.Run("FreeShippingAboveThreshold", func(t *testing.T) {
		s := policy.Summarize(decimal.NewFromInt(130))
		assert.True(t, s.Shipping.IsZero())
		assert.Equal(t, "10.4", s.Tax.String())
		assert.Equal(t, "140.4", s.Total.String())
	})

	t.Run("FlatFeeAtThreshold", func(t *testing.T) {
		s := policy.Summarize(decimal.NewFromInt(100))
		assert.Equal(t, "10", s.Shipping.String())
		assert.Equal(t, "118", s.Total.String())
	})
}

func TestValidateProduct(t *testing.T) {
	p := product("1", "10")
	p.Images = []string{"https://images.example.com/1.jpg"}
	require.NoError(t, domain.ValidateProduct(p))

	bad := p
	bad.Name = ""
	assert.ErrorIs(t, domain.ValidateProduct(bad), domain.ErrInvalidProduct)

	bad = p
	bad.Price = decimal.NewFromInt(-1)
	assert.ErrorIs(t, domain.ValidateProduct(bad), domain.ErrInvalidProduct)

	bad = p
	bad.Rating = 5.5
	assert.ErrorIs(t, domain.ValidateProduct(bad), domain.ErrInvalidProduct)

	bad = p
	bad.Images = []string{"not a url"}
	assert.ErrorIs(t, domain.ValidateProduct(bad), domain.ErrInvalidProduct)
}

func TestValidateShippingInfo(t *testing.T) {
	s := domain.ShippingInfo{
		FullName: "Jane Roe",
		Email:    "jane@example.com",
		Phone:    "555-0100",
		Address:  "1 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		Country:  domain.DefaultCountry,
	}
	require.NoError(t, domain.ValidateShippingInfo(s))

	s.Email = "jane"
	assert.ErrorIs(t, domain.ValidateShippingInfo(s), domain.ErrInvalidShippingInfo)
}
