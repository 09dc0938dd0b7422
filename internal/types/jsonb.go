package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is a JSONB column of string key value pairs
type Metadata map[string]string

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = make(Metadata)
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	result := make(Metadata)
	err = json.Unmarshal(bytes, &result)
	*m = result
	return err
}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(make(Metadata))
	}
	return json.Marshal(m)
}

// JSONMap is a JSONB column holding an arbitrary object
type JSONMap map[string]interface{}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(JSONMap)
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	result := make(JSONMap)
	err = json.Unmarshal(bytes, &result)
	*m = result
	return err
}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(make(JSONMap))
	}
	return json.Marshal(m)
}

// StringList is a JSONB column holding an array of strings
type StringList []string

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}

	result := StringList{}
	err = json.Unmarshal(bytes, &result)
	*l = result
	return err
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// RawJSON is a JSONB column kept as raw bytes
type RawJSON json.RawMessage

func (r *RawJSON) Scan(value interface{}) error {
	if value == nil {
		*r = RawJSON("null")
		return nil
	}
	bytes, err := jsonBytes(value)
	if err != nil {
		return err
	}
	*r = append((*r)[0:0], bytes...)
	return nil
}

func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return []byte(r), nil
}

func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *RawJSON) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}
}
