package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

var jsonNull = []byte("null")

// Text is an optional text column value. It accepts a JSON string, number or boolean and
// keeps the literal text; null leaves it unset, which binds as SQL NULL.
type Text struct {
	String string
	Valid  bool
}

func NewText(s string) Text {
	return Text{String: s, Valid: true}
}

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = NewText(s)
	case '{', '[':
		return fmt.Errorf("cannot use %s as text", data)
	default:
		// numbers and booleans keep their literal form
		*t = NewText(string(data))
	}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return jsonNull, nil
	}
	return json.Marshal(t.String)
}

// Value implements driver.Valuer.
func (t Text) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.String, nil
}

// Integer is an optional integer column value. It accepts a JSON number or a numeric
// string; null leaves it unset. Fractional values are rejected.
type Integer struct {
	Int64 int64
	Valid bool
}

func NewInteger(n int64) Integer {
	return Integer{Int64: n, Valid: true}
}

func (n *Integer) UnmarshalJSON(data []byte) error {
	*n = Integer{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid integer %s", data)
	}
	if !d.IsInteger() {
		return fmt.Errorf("invalid integer %s: fractional value", data)
	}
	if !d.BigInt().IsInt64() {
		return fmt.Errorf("invalid integer %s: out of range", data)
	}

	*n = NewInteger(d.IntPart())
	return nil
}

func (n Integer) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Int64)
}

// Value implements driver.Valuer.
func (n Integer) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Int64, nil
}
