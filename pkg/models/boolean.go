package models

import (
	"bytes"
	"encoding/json"
)

// FlexBool is a boolean flag that tolerates the loose encodings some backends
// emit on the wire: native JSON booleans, the literal strings "true"/"false",
// or 0/1 numbers. The string "true" decodes to true; any other string decodes
// to false. It always marshals back to a native JSON boolean, so one
// decode/encode round trip fully normalizes the representation and a second
// pass is a no-op.
type FlexBool bool

// Bool returns the native boolean value.
func (b FlexBool) Bool() bool {
	return bool(b)
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*b = s == "true"

		return nil
	}

	switch string(data) {
	case "true", "1":
		*b = true
	default:
		// false, 0, null and anything else all normalize to false
		*b = false
	}

	return nil
}
