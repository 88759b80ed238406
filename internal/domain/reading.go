package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Payload keys sent by the watch application. The watch writes them as
// AppMessage dictionary keys 0, 1 and 2, so the numeric form is accepted too.
const (
	KeyOdometer = "KEY_ODOMETER"
	KeyPrice    = "KEY_PRICE"
	KeyQuantity = "KEY_QUANTITY"
)

var keyAliases = map[string]string{
	KeyOdometer: "0",
	KeyPrice:    "1",
	KeyQuantity: "2",
}

// Price and quantity arrive as integers in thousandths.
const ScaleFactor = 1000.0

// Payload is the dictionary attached to a delivered app message.
type Payload map[string]any

// Lookup returns the value stored under key, falling back to the numeric
// AppMessage key when the named key is absent.
func (p Payload) Lookup(key string) (any, bool) {
	if v, ok := p[key]; ok {
		return v, true
	}
	if alias, ok := keyAliases[key]; ok {
		v, ok := p[alias]
		return v, ok
	}
	return nil, false
}

// Number returns the numeric value stored under key. Missing keys, nulls and
// values that are not numbers or numeric strings yield nil.
func (p Payload) Number(key string) *float64 {
	v, ok := p.Lookup(key)
	if !ok {
		return nil
	}
	return toNumber(v)
}

func toNumber(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	// NaN and Inf cannot be carried in a JSON body
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Reading is the numeric view of a payload, used for strict validation.
type Reading struct {
	Odometer *float64 `json:"odometer" validate:"required,gte=0"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Quantity *float64 `json:"quantity" validate:"required,gte=0"`
}

// ReadingFromPayload extracts the three known fields from p.
func ReadingFromPayload(p Payload) Reading {
	return Reading{
		Odometer: p.Number(KeyOdometer),
		Price:    p.Number(KeyPrice),
		Quantity: p.Number(KeyQuantity),
	}
}

// Body is the JSON document posted to the Maker webhook. Value1 carries the
// odometer exactly as delivered; Value2 and Value3 are null when the input
// was missing or not numeric. No field is ever omitted.
type Body struct {
	Value1 any      `json:"value1"`
	Value2 *float64 `json:"value2"`
	Value3 *float64 `json:"value3"`
}

// Raw returns the value stored under key as delivered, or nil when the key
// is missing. Floats that JSON cannot carry become nil.
func (p Payload) Raw(key string) any {
	v, ok := p.Lookup(key)
	if !ok {
		return nil
	}
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil
		}
	}
	return v
}

func scale(v *float64) *float64 {
	if v == nil {
		return nil
	}
	s := *v / ScaleFactor
	return &s
}

// Reshape builds the webhook body for a payload: odometer unchanged, price
// and quantity divided by ScaleFactor.
func Reshape(p Payload) Body {
	return Body{
		Value1: p.Raw(KeyOdometer),
		Value2: scale(p.Number(KeyPrice)),
		Value3: scale(p.Number(KeyQuantity)),
	}
}
