package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Dimensions
		wantErr error
	}{
		{name: "spaced x", input: "100 x 50 x 30", want: NewDimensions(100, 50, 30)},
		{name: "compact", input: "100x50x30", want: NewDimensions(100, 50, 30)},
		{name: "multiplication sign", input: "12.5×40×8", want: NewDimensions(12.5, 40, 8)},
		{name: "asterisk", input: "10 * 20 * 30", want: NewDimensions(10, 20, 30)},
		{name: "upper case", input: "10X20X30", want: NewDimensions(10, 20, 30)},
		{name: "unit suffix stripped", input: "10cm x 20cm x 30cm", want: NewDimensions(10, 20, 30)},
		{name: "at max", input: "300 x 10 x 10", want: NewDimensions(300, 10, 10)},
		{name: "empty", input: "", wantErr: ErrInvalidDimensions},
		{name: "blank", input: "   ", wantErr: ErrInvalidDimensions},
		{name: "two parts", input: "10 x 20", wantErr: ErrInvalidDimensions},
		{name: "four parts", input: "10 x 20 x 30 x 40", wantErr: ErrInvalidDimensions},
		{name: "zero", input: "0 x 20 x 30", wantErr: ErrInvalidDimensions},
		{name: "missing part", input: "10 x x 30", wantErr: ErrInvalidDimensions},
		{name: "double dot", input: "1.2.3 x 20 x 30", wantErr: ErrInvalidDimensions},
		{name: "letters only", input: "abc", wantErr: ErrInvalidDimensions},
		{name: "over max", input: "301 x 10 x 10", wantErr: ErrDimensionTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDimensions(tt.input, 0)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDimensions_CustomMaximum(t *testing.T) {
	_, err := ParseDimensions("120 x 10 x 10", 100)
	assert.ErrorIs(t, err, ErrDimensionTooLarge)

	d, err := ParseDimensions("120 x 10 x 10", 150)
	require.NoError(t, err)
	assert.Equal(t, 120.0, d.Length)
}

func TestParseDimensions_CanonicalForm(t *testing.T) {
	d, err := ParseDimensions("12.50×40*8", 0)
	require.NoError(t, err)

	assert.Equal(t, "12.5 x 40 x 8", d.String())
	assert.Equal(t, 0.004, d.CBM())
}

func TestCalculateCBM(t *testing.T) {
	assert.Equal(t, 0.15, CalculateCBM("100 x 50 x 30"))
	assert.Equal(t, 0.15, CalculateCBM("100X50X30"))
	assert.Equal(t, 0.000001, CalculateCBM("1 x 1 x 1"))
}

func TestCalculateCBM_SoftFailure(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "10 x 20", "10 x 20 x 30 x 40", "10 x abc x 30", "10 × 20 × 30"} {
		assert.NotPanics(t, func() {
			assert.Zero(t, CalculateCBM(input), "input %q", input)
		})
	}
}

func TestCalculateDimensionalWeight(t *testing.T) {
	assert.Equal(t, 30.0, CalculateDimensionalWeight("100x50x30", 5000))
	assert.Equal(t, 25.0, CalculateDimensionalWeight("100x50x30", 6000))
	assert.Equal(t, 0.33, CalculateDimensionalWeight("11 x 12 x 12.5", 5000))

	assert.Zero(t, CalculateDimensionalWeight("", 5000))
	assert.Zero(t, CalculateDimensionalWeight("not dimensions", 5000))
	assert.Zero(t, CalculateDimensionalWeight("100x50x30", 0))
}

func TestDimensions_IsEmpty(t *testing.T) {
	assert.True(t, Dimensions{}.IsEmpty())
	assert.False(t, NewDimensions(1, 0, 0).IsEmpty())
}
