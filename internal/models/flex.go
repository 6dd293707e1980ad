package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cast"
)

// FlexString is an identifier the backend sends as either a JSON string or a
// JSON number.
type FlexString string

// UnmarshalJSON accepts strings, numbers and null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = ""
		return nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("failed to decode identifier: %w", err)
	}
	switch t := v.(type) {
	case string:
		*f = FlexString(t)
	case json.Number:
		*f = FlexString(t.String())
	default:
		s, err := cast.ToStringE(t)
		if err != nil {
			return fmt.Errorf("unsupported identifier %s: %w", data, err)
		}
		*f = FlexString(s)
	}
	return nil
}

// String returns the identifier text.
func (f FlexString) String() string {
	return string(f)
}
