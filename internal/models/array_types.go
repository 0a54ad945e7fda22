package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"

	"github.com/lib/pq"
)

// StringArray is a custom type for handling TEXT[] arrays in PostgreSQL
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return pq.Array([]string(a)).Value()
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	slice := (*[]string)(a)
	return pq.Array(slice).Scan(src)
}

// FlexibleStringList handles columns whose historical contents vary between
// a real TEXT[] array, a JSON-encoded array string, and a plain
// comma-separated string. It always scans to an array-or-nil so downstream
// consumers never have to special-case the storage representation.
type FlexibleStringList []string

// Value implements the driver.Valuer interface, always writing a TEXT[]
func (l FlexibleStringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return pq.Array([]string(l)).Value()
}

// Scan implements the sql.Scanner interface
func (l *FlexibleStringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}

	var raw string
	switch v := src.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		slice := (*[]string)(l)
		return pq.Array(slice).Scan(src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*l = nil
		return nil
	}

	// Postgres array literal: {a,b,c}
	if strings.HasPrefix(raw, "{") {
		slice := (*[]string)(l)
		return pq.Array(slice).Scan([]byte(raw))
	}

	// JSON-encoded array: ["a","b"]
	if strings.HasPrefix(raw, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			*l = parsed
			return nil
		}
	}

	// Plain string, possibly comma separated
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		*l = nil
		return nil
	}
	*l = result
	return nil
}

// Contains reports whether the list contains the given value (case-insensitive)
func (l FlexibleStringList) Contains(value string) bool {
	for _, item := range l {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
