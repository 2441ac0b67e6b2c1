package aodata

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawItem is one record of the upstream formatted items dump.
type RawItem struct {
	UniqueName       string            `json:"UniqueName"`
	LocalizedNames   map[string]string `json:"LocalizedNames"`
	Tier             OptionalInt       `json:"Tier"`
	ItemType         *string           `json:"ItemType"`
	ItemGroup        *string           `json:"ItemGroup"`
	EnchantmentLevel OptionalInt       `json:"EnchantmentLevel"`
	Quality          OptionalInt       `json:"Quality"`
}

// OptionalInt is an integer field the dump encodes as a number, a numeric
// string or null. Anything else decodes as absent.
type OptionalInt struct {
	Value int
	Valid bool
}

// IntOf returns a present OptionalInt.
func IntOf(v int) OptionalInt {
	return OptionalInt{Value: v, Valid: true}
}

// Ptr returns the value as a pointer, nil when absent.
func (o OptionalInt) Ptr() *int {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// Or returns the value, or def when absent.
func (o OptionalInt) Or(def int) int {
	if !o.Valid {
		return def
	}
	return o.Value
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	*o = OptionalInt{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}

	if v, err := strconv.Atoi(text); err == nil {
		*o = IntOf(v)
		return nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		*o = IntOf(int(f))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.Value)), nil
}
