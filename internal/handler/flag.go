package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Flag is an optional boolean that also accepts "true"/"false" strings and
// 1/0. A missing or null value leaves it unset.
type Flag struct {
	Set   bool
	Value bool
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Flag{}
		return nil
	}

	var raw any
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	switch v := raw.(type) {
	case bool:
		*f = Flag{Set: true, Value: v}
		return nil
	case float64:
		if v == 0 || v == 1 {
			*f = Flag{Set: true, Value: v == 1}
			return nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			*f = Flag{Set: true, Value: true}
			return nil
		case "false", "0":
			*f = Flag{Set: true, Value: false}
			return nil
		}
	}

	return fmt.Errorf("%s is not a boolean", data)
}

// Ptr returns nil when the flag was not given.
func (f Flag) Ptr() *bool {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}
