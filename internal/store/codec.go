package store

import (
	"encoding/json"
	"fmt"

	"crosstalk/internal/resource"
)

// Entities, metadata and per-method ranks are persisted as JSON so
// the schema stays independent of the complex separator convention.

func EncodeEntity(e resource.Entity) (string, error) {
	if e == nil {
		return "", nil
	}
	data, err := json.Marshal([]string(e))
	if err != nil {
		return "", fmt.Errorf("encoding entity: %w", err)
	}
	return string(data), nil
}

func DecodeEntity(s string) (resource.Entity, error) {
	if s == "" {
		return nil, nil
	}
	var subunits []string
	if err := json.Unmarshal([]byte(s), &subunits); err != nil {
		return nil, fmt.Errorf("decoding entity: %w", err)
	}
	return resource.Entity(subunits), nil
}

func EncodeStringMap[V any](m map[string]V) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encoding map: %w", err)
	}
	return string(data), nil
}

func DecodeStringMap[V any](s string) (map[string]V, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var m map[string]V
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("decoding map: %w", err)
	}
	return m, nil
}
