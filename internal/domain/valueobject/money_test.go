package valueobject

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoneyFromFloat(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		want    int64
		wantErr error
	}{
		{name: "cents rounded", amount: 19.99, want: 1999},
		{name: "zero", amount: 0, want: 0},
		{name: "negative", amount: -1, wantErr: ErrNegativeAmount},
		{name: "beyond int64", amount: 1e30, wantErr: ErrAmountOutOfRange},
		{name: "just past the limit", amount: 9.3e16, wantErr: ErrAmountOutOfRange},
		{name: "infinity", amount: math.Inf(1), wantErr: ErrAmountOutOfRange},
		{name: "not a number", amount: math.NaN(), wantErr: ErrAmountOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromFloat(tt.amount, CurrencyEUR)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, NewMoney(tt.want, CurrencyEUR), m)
		})
	}
}

func TestMoney_MultiplyFloat(t *testing.T) {
	tests := []struct {
		name    string
		rate    int64
		factor  float64
		want    int64
		wantErr error
	}{
		{name: "per kg rate", rate: 450, factor: 12.5, want: 5625},
		{name: "zero rate", rate: 0, factor: 1e300, want: 0},
		{name: "overflow", rate: 450, factor: 1e20, wantErr: ErrAmountOutOfRange},
		{name: "negative overflow", rate: 450, factor: -1e20, wantErr: ErrAmountOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMoney(tt.rate, CurrencyUSD).MultiplyFloat(tt.factor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, NewMoney(tt.want, CurrencyUSD), got)
		})
	}
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "USD 56.25", NewMoney(5625, CurrencyUSD).String())
	assert.True(t, Zero(CurrencyUSD).IsZero())
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency(" gbp ")
	require.NoError(t, err)
	assert.Equal(t, CurrencyGBP, c)

	c, err = ParseCurrency("")
	require.NoError(t, err)
	assert.Equal(t, CurrencyUSD, c)

	_, err = ParseCurrency("XYZ")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}
