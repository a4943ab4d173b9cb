package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Rate is a poverty rate in percent. The zero value is a missing rate, so a
// record built without a rate can never pass for a 0% governorate.
type Rate struct {
	value float64
	valid bool
}

// NewRate returns a present rate.
func NewRate(v float64) Rate {
	return Rate{value: v, valid: true}
}

// MissingRate returns an absent rate.
func MissingRate() Rate {
	return Rate{}
}

// Value returns the rate and whether it is present.
func (r Rate) Value() (float64, bool) {
	return r.value, r.valid
}

// Valid reports whether the rate is present.
func (r Rate) Valid() bool {
	return r.valid
}

func (r Rate) String() string {
	if !r.valid {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", r.value)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.value, 'f', -1, 64)), nil
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = MissingRate()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = NewRate(v)
	return nil
}
