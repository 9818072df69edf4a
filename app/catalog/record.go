package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrFieldMissing = errors.New("field missing")

// Record is one entry of the backend's "data" array.
type Record struct {
	ID         int                        `json:"id"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// Field returns attributes.<entity>.<field> as a trimmed string.
// ErrFieldMissing covers an absent entity object, an absent field, a
// non-string value and a blank value.
func (r Record) Field(entity, field string) (string, error) {
	raw, ok := r.Attributes[entity]
	if !ok || isNull(raw) {
		return "", fmt.Errorf("%w: %s", ErrFieldMissing, entity)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return "", fmt.Errorf("%w: %s is not an object", ErrFieldMissing, entity)
	}

	value, ok := object[field]
	if !ok || isNull(value) {
		return "", fmt.Errorf("%w: %s.%s", ErrFieldMissing, entity, field)
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("%w: %s.%s is not a string", ErrFieldMissing, entity, field)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s.%s is empty", ErrFieldMissing, entity, field)
	}

	return s, nil
}

// CreatedAt returns attributes.createdAt, or the zero time when absent or unparsable.
func (r Record) CreatedAt() time.Time {
	raw, ok := r.Attributes["createdAt"]
	if !ok {
		return time.Time{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

type page struct {
	Data []Record `json:"data"`
}
