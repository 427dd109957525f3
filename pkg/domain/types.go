package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type (
	HeadersJSON map[string]string
	// BodyJSON holds an arbitrary JSON document stored as text.
	BodyJSON json.RawMessage
)

func (h HeadersJSON) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (h *HeadersJSON) Scan(value interface{}) error {
	raw, err := scanBytes(value)
	if err != nil || raw == nil {
		*h = nil
		return err
	}
	if err := json.Unmarshal(raw, h); err != nil {
		*h = nil
	}
	return nil
}

func (b BodyJSON) Value() (driver.Value, error) {
	if len(b) == 0 {
		return nil, nil
	}
	return string(b), nil
}

func (b *BodyJSON) Scan(value interface{}) error {
	raw, err := scanBytes(value)
	if err != nil || raw == nil {
		*b = nil
		return err
	}
	*b = append((*b)[:0], raw...)
	return nil
}

func (b BodyJSON) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return b, nil
}

func (b *BodyJSON) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}
	*b = append((*b)[:0], data...)
	return nil
}

// scanBytes normalises the driver representations of text and json columns.
func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("expected []byte or string, got %T", value)
	}
}

// ScanText exposes scanBytes to entity packages.
func ScanText(value interface{}) ([]byte, error) {
	return scanBytes(value)
}
