package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The extraction service is not trusted to respect the declared field types,
// so raw items decode through these tolerant types instead of failing the
// whole response on one bad field.

// FlexString accepts a JSON string, number or bool. Anything else decodes to "".
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	case '{', '[':
		*s = ""
	default:
		*s = FlexString(string(data))
	}
	return nil
}

func (s FlexString) String() string { return strings.TrimSpace(string(s)) }

// FlexStrings accepts an array of scalars or a single comma separated string.
type FlexStrings []string

func (s *FlexStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	switch data[0] {
	case '[':
		var raw []FlexString
		if err := json.Unmarshal(data, &raw); err != nil {
			*s = nil
			return nil
		}
		out := make([]string, 0, len(raw))
		for _, r := range raw {
			out = append(out, string(r))
		}
		*s = out
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = strings.Split(v, ",")
	default:
		*s = nil
	}
	return nil
}

// FlexValue keeps a scalar as decoded (float64, string, bool or nil) so the
// validator can coerce it.
type FlexValue struct {
	V any
}

func (f *FlexValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.V = nil
		return nil
	}
	switch data[0] {
	case '{', '[':
		f.V = nil
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.V = v
	return nil
}

func (f FlexValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.V)
}

// IsZero reports whether no value was supplied.
func (f FlexValue) IsZero() bool { return f.V == nil }

// Float returns the value as a float when it is a number or numeric string.
func (f FlexValue) Float() (float64, bool) {
	switch v := f.V.(type) {
	case float64:
		return v, true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Bool interprets true, "true", "yes" and "1" as true.
func (f FlexValue) Bool() bool {
	switch v := f.V.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1":
			return true
		}
	}
	return false
}

// FlexServingOptions accepts an array of {size, price} objects; any other
// shape decodes to nil.
type FlexServingOptions []RawServingOption

func (o *FlexServingOptions) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*o = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*o = nil
		return nil
	}
	out := make([]RawServingOption, 0, len(raw))
	for _, r := range raw {
		var opt RawServingOption
		if err := json.Unmarshal(r, &opt); err == nil {
			out = append(out, opt)
		}
	}
	*o = out
	return nil
}
