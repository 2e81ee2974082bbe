package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountPercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    int64
		subtotal int64
		want     int64
	}{
		{"ten percent of 100k", 10, 100_000, 10_000},
		{"rounds half up", 15, 12_345, 1_852}, // 1851.75
		{"rounds down below half", 10, 12_344, 1_234},
		{"exact half rounds up", 50, 3, 2}, // 1.5
		{"hundred percent is the whole cart", 100, 45_000, 45_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Discount(DiscountPercentage, tt.value, tt.subtotal))
		})
	}
}

func TestDiscountFixedClampsToSubtotal(t *testing.T) {
	assert.Equal(t, int64(30_000), Discount(DiscountFixed, 50_000, 30_000))
	assert.Equal(t, int64(5_000), Discount(DiscountFixed, 5_000, 30_000))
}

func TestDiscountNeverExceedsSubtotal(t *testing.T) {
	for _, subtotal := range []int64{1, 99, 1_000, 87_654, 1_000_000} {
		for _, value := range []int64{1, 33, 50, 99, 100, 5_000, 2_000_000} {
			for _, typ := range []DiscountType{DiscountPercentage, DiscountFixed} {
				got := Discount(typ, value, subtotal)
				assert.GreaterOrEqual(t, got, int64(0))
				assert.LessOrEqual(t, got, subtotal)
				if typ == DiscountFixed {
					assert.Equal(t, min(value, subtotal), got)
				}
			}
		}
	}
}

func TestDiscountDegenerateInputs(t *testing.T) {
	assert.Zero(t, Discount(DiscountPercentage, 10, 0))
	assert.Zero(t, Discount(DiscountFixed, 0, 10_000))
	assert.Zero(t, Discount(DiscountType("bogus"), 10, 10_000))
}

func TestFormatCOP(t *testing.T) {
	assert.Equal(t, "$0", FormatCOP(0))
	assert.Equal(t, "$950", FormatCOP(950))
	assert.Equal(t, "$50.000", FormatCOP(50_000))
	assert.Equal(t, "$1.250.000", FormatCOP(1_250_000))
	assert.Equal(t, "-$3.500", FormatCOP(-3_500))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, int64(24_000), LineTotal(12_000, 2))
}
