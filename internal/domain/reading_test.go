package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(f float64) *float64 { return &f }

func TestReshape(t *testing.T) {
	testCases := []struct {
		name    string
		payload Payload
		want    Body
	}{
		{
			name:    "Fill-up",
			payload: Payload{KeyOdometer: 52341.0, KeyPrice: 45990.0, KeyQuantity: 12500.0},
			want:    Body{Value1: 52341.0, Value2: float(45.99), Value3: float(12.5)},
		},
		{
			name:    "Numeric AppMessage keys",
			payload: Payload{"0": 100.0, "1": 1000.0, "2": 250.0},
			want:    Body{Value1: 100.0, Value2: float(1), Value3: float(0.25)},
		},
		{
			name:    "Named key wins over alias",
			payload: Payload{KeyOdometer: 7.0, "0": 9.0, KeyPrice: 0.0, KeyQuantity: 0.0},
			want:    Body{Value1: 7.0, Value2: float(0), Value3: float(0)},
		},
		{
			name:    "Integer inputs",
			payload: Payload{KeyOdometer: 1, KeyPrice: int64(2000), KeyQuantity: uint32(3000)},
			want:    Body{Value1: 1, Value2: float(2), Value3: float(3)},
		},
		{
			name:    "Numeric strings are coerced before scaling",
			payload: Payload{KeyOdometer: json.Number("52341"), KeyPrice: " 45990 ", KeyQuantity: json.Number("12500")},
			want:    Body{Value1: json.Number("52341"), Value2: float(45.99), Value3: float(12.5)},
		},
		{
			name:    "String odometer is passed unchanged",
			payload: Payload{KeyOdometer: "52341", KeyPrice: 45990.0, KeyQuantity: 12500.0},
			want:    Body{Value1: "52341", Value2: float(45.99), Value3: float(12.5)},
		},
		{
			name:    "Missing price",
			payload: Payload{KeyOdometer: 52341.0, KeyQuantity: 12500.0},
			want:    Body{Value1: 52341.0, Value2: nil, Value3: float(12.5)},
		},
		{
			name:    "Non-numeric values",
			payload: Payload{KeyOdometer: "far", KeyPrice: true, KeyQuantity: nil},
			want:    Body{Value1: "far"},
		},
		{
			name:    "Boolean odometer",
			payload: Payload{KeyOdometer: true},
			want:    Body{Value1: true},
		},
		{
			name:    "Empty payload",
			payload: Payload{},
			want:    Body{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Reshape(tc.payload))
		})
	}
}

func TestBodyEncodesMissingAsNull(t *testing.T) {
	body := Reshape(Payload{KeyOdometer: 52341.0, KeyQuantity: 12500.0})

	b, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value1":52341,"value2":null,"value3":12.5}`, string(b))
}

func TestBodyEncoding(t *testing.T) {
	var payload Payload
	require.NoError(t, json.Unmarshal([]byte(`{"KEY_ODOMETER":52341,"KEY_PRICE":45990,"KEY_QUANTITY":12500}`), &payload))

	b, err := json.Marshal(Reshape(payload))
	require.NoError(t, err)
	assert.Equal(t, `{"value1":52341,"value2":45.99,"value3":12.5}`, string(b))
}

func TestBodyEncodesOdometerVerbatim(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		want    string
	}{
		{"String", `{"KEY_ODOMETER":"52341","KEY_PRICE":45990,"KEY_QUANTITY":12500}`, `{"value1":"52341","value2":45.99,"value3":12.5}`},
		{"Word", `{"KEY_ODOMETER":"far","KEY_PRICE":45990,"KEY_QUANTITY":12500}`, `{"value1":"far","value2":45.99,"value3":12.5}`},
		{"Missing", `{"KEY_PRICE":45990,"KEY_QUANTITY":12500}`, `{"value1":null,"value2":45.99,"value3":12.5}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var payload Payload
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &payload))

			b, err := json.Marshal(Reshape(payload))
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(b))
		})
	}
}

func TestReshapeDoesNotShareState(t *testing.T) {
	first := Reshape(Payload{KeyOdometer: 1.0, KeyPrice: 1000.0, KeyQuantity: 2000.0})
	second := Reshape(Payload{KeyOdometer: 2.0, KeyPrice: 3000.0, KeyQuantity: 4000.0})

	assert.Equal(t, 1.0, first.Value1)
	assert.Equal(t, 1.0, *first.Value2)
	assert.Equal(t, 2.0, *first.Value3)
	assert.Equal(t, 2.0, second.Value1)
	assert.Equal(t, 3.0, *second.Value2)
	assert.Equal(t, 4.0, *second.Value3)
}

func TestValidate(t *testing.T) {
	v := NewValidation()

	testCases := []struct {
		name    string
		reading Reading
		fields  []string
	}{
		{"Valid reading", Reading{Odometer: float(1), Price: float(2), Quantity: float(3)}, nil},
		{"Missing price", Reading{Odometer: float(1), Quantity: float(3)}, []string{"Price"}},
		{"Negative odometer", Reading{Odometer: float(-1), Price: float(2), Quantity: float(3)}, []string{"Odometer"}},
		{"Empty reading", Reading{}, []string{"Odometer", "Price", "Quantity"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.Validate(tc.reading)
			if tc.fields == nil {
				assert.Empty(t, errs)
				return
			}

			var got []string
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.Equal(t, tc.fields, got)
			assert.True(t, errors.Is(errs, ErrInvalidReading))
		})
	}
}
