package utils

import (
	"encoding/json"

	ierr "github.com/socialdesk/socialdesk/internal/errors"
)

// ToStruct decodes a loosely typed map, such as a gateway SDK response, into T
// through its json tags.
func ToStruct[T any](value map[string]interface{}) (T, error) {
	var result T

	if value == nil {
		return result, nil
	}

	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return result, ierr.WithError(err).
			WithHint("Failed to marshal map to JSON").
			Mark(ierr.ErrValidation)
	}

	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return result, ierr.WithError(err).
			WithHint("Failed to unmarshal JSON to struct").
			Mark(ierr.ErrValidation)
	}

	return result, nil
}

// ToMap is the inverse of ToStruct
func ToMap[T any](value T) (map[string]interface{}, error) {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to marshal value to JSON").
			Mark(ierr.ErrValidation)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to unmarshal JSON to map").
			Mark(ierr.ErrValidation)
	}

	return result, nil
}
