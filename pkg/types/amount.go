package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a nullable ringgit value. The backend sends amounts both as JSON
// numbers and as numeric strings.
type Amount struct {
	Value float64
	Valid bool
}

func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// ParseAmount parses form input. Blank input is a null amount.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}

	return NewAmount(v), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = Amount{}
		return nil
	}

	parsed, err := ParseAmount(strings.Trim(s, `"`))
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(a.Value, 'f', -1, 64)), nil
}

// Input renders the amount for an <input> value.
func (a Amount) Input() string {
	if !a.Valid {
		return ""
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

// RM renders the amount for display, "N/A" when null.
func (a Amount) RM() string {
	if !a.Valid {
		return "N/A"
	}
	return fmt.Sprintf("RM %.2f", a.Value)
}

// ID is an identifier the backend sends either as a number or a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*id = ""
		return nil
	}
	*id = ID(strings.Trim(s, `"`))
	return nil
}

func (id ID) String() string {
	return string(id)
}
