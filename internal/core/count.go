package core

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Count is a document count that may be absent from the input.
// The zero value is an absent count.
type Count struct {
	Value int64
	Valid bool
}

func NewCount(v int64) Count {
	return Count{Value: v, Valid: true}
}

// Or returns the value, or def when the count is absent.
func (c Count) Or(def int64) int64 {
	if !c.Valid {
		return def
	}
	return c.Value
}

func (c *Count) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*c = Count{}
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = NewCount(v)
	return nil
}

func (c Count) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(c.Value, 10)), nil
}
