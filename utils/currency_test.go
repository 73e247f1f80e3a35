package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[string]string{
		"0":        "₹0.00",
		"947":      "₹947.00",
		"1234.5":   "₹1,234.50",
		"1234567":  "₹1,234,567.00",
		"-2500.75": "-₹2,500.75",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(decimal.RequireFromString(in)), in)
	}
}
