package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_StringRoundTrip(t *testing.T) {
	cases := []struct {
		scaled int64
		str    string
	}{
		{0, "0.0000"},
		{10_000, "1.0000"},
		{35_000, "3.5000"},
		{1, "0.0001"},
		{-1, "-0.0001"},
		{-125_000, "-12.5000"},
		{1_234_567, "123.4567"},
	}

	for _, tc := range cases {
		q := NewQuantityFromInt64Scaled(tc.scaled)
		assert.Equal(t, tc.str, q.String())

		parsed, err := parseQuantityString(tc.str)
		require.NoError(t, err)
		assert.Equal(t, q, parsed)
	}
}

func TestQuantity_UnmarshalJSON_Number(t *testing.T) {
	var q Quantity
	require.NoError(t, json.Unmarshal([]byte(`3.5`), &q))
	assert.Equal(t, int64(35_000), q.Int64Scaled())
}

func TestQuantity_UnmarshalJSON_String(t *testing.T) {
	var q Quantity
	require.NoError(t, json.Unmarshal([]byte(`"12.25"`), &q))
	assert.Equal(t, int64(122_500), q.Int64Scaled())
}

func TestQuantity_UnmarshalJSON_TruncatesExtraDigits(t *testing.T) {
	var q Quantity
	require.NoError(t, json.Unmarshal([]byte(`1.23456789`), &q))
	assert.Equal(t, int64(12_345), q.Int64Scaled())
}

func TestQuantity_UnmarshalJSON_Null(t *testing.T) {
	q := NewQuantityFromInt64Scaled(42)
	require.NoError(t, json.Unmarshal([]byte(`null`), &q))
	assert.True(t, q.IsZero())
}

func TestQuantity_MarshalJSON_IsNumber(t *testing.T) {
	q := NewQuantityFromFloat64(7.25)
	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, `7.2500`, string(data))
}

func TestQuantity_JSONRoundTrip(t *testing.T) {
	orig := NewQuantityFromFloat64(0.125)
	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var got Quantity
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, orig, got)
}

func TestQuantity_Arithmetic(t *testing.T) {
	a := NewQuantityFromFloat64(2.5)
	b := NewQuantityFromFloat64(4)

	assert.Equal(t, NewQuantityFromFloat64(6.5), a.Add(b))
	assert.Equal(t, NewQuantityFromFloat64(-1.5), a.Sub(b))
	assert.Equal(t, NewQuantityFromFloat64(10), a.Mul(b))
}

func TestQuantity_Mul_FractionalRate(t *testing.T) {
	// 0.35 m2 per unit over 12 produced units.
	rate := NewQuantityFromFloat64(0.35)
	produced := NewQuantityFromFloat64(12)

	assert.Equal(t, NewQuantityFromFloat64(4.2), rate.Mul(produced))
}

func TestQuantity_Signs(t *testing.T) {
	pos := NewQuantityFromFloat64(1)
	neg := NewQuantityFromFloat64(-1)

	assert.True(t, pos.IsPositive())
	assert.True(t, neg.IsNegative())
	assert.True(t, Quantity(0).IsZero())
	assert.Equal(t, pos, neg.Neg())
	assert.Equal(t, pos, neg.Abs())
}

func TestQuantity_Decimal(t *testing.T) {
	q := NewQuantityFromFloat64(3.1415)
	assert.Equal(t, "3.1415", q.Decimal().String())
}

func TestMoney_FromString(t *testing.T) {
	m, err := NewMoneyFromString("149.990000")
	require.NoError(t, err)
	assert.True(t, m.Equal(MustMoney("149.99")))

	_, err = NewMoneyFromString("not a number")
	assert.Error(t, err)
}
