package models

import (
	"bytes"
	"encoding/json"
)

// OptionalInt64 distinguishes an absent JSON field from an explicit null:
//   - Present=false: field absent (leave unchanged)
//   - Present=true, Value=nil: field is null (clear)
//   - Present=true, Value=&n: set to n
type OptionalInt64 struct {
	Present bool
	Value   *int64
}

// Set returns an OptionalInt64 holding v (nil means explicit null).
func Set(v *int64) OptionalInt64 {
	return OptionalInt64{Present: true, Value: v}
}

func (o *OptionalInt64) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	o.Value = &n
	return nil
}

func (o OptionalInt64) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
