package db

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

// StringArray stores a []string as a JSON text column.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(err, "marshal string array")
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.Errorf("unsupported type for StringArray: %T", value)
	}
	if len(b) == 0 {
		*a = nil
		return nil
	}
	return errors.Wrap(json.Unmarshal(b, a), "unmarshal string array")
}

// StringMap stores a map[string]string as a JSON text column.
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(err, "marshal string map")
	}
	return string(b), nil
}

func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.Errorf("unsupported type for StringMap: %T", value)
	}
	if len(b) == 0 {
		*m = nil
		return nil
	}
	return errors.Wrap(json.Unmarshal(b, m), "unmarshal string map")
}
