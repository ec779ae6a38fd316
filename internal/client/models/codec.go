package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EncodeStrings serialises a string list into the JSON text stored in the
// photos and tags columns. A nil list is stored as "[]".
func EncodeStrings(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode string list: %w", err)
	}
	return string(b), nil
}

// DecodeStrings parses a stored JSON list. Empty text decodes to an empty
// list.
func DecodeStrings(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// TimeLayout is RFC 3339 with a fixed nine-digit fraction, so stored
// timestamps sort lexically in time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime renders t in UTC using TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
