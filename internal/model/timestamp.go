package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Layouts tried in order. Zone-less forms are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp reads the item timestamp formats the API is known to send.
// Empty or unrecognized values give the zero time, which renders as unknown.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// UnmarshalJSON decodes an item leniently: a bad timestamp leaves it zero
// instead of failing the item, and with it the whole list.
func (it *Item) UnmarshalJSON(b []byte) error {
	type plain Item
	var aux struct {
		plain
		Timestamp json.RawMessage `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*it = Item(aux.plain)
	it.Timestamp = time.Time{}

	raw := bytes.TrimSpace(aux.Timestamp)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			it.Timestamp = ParseTimestamp(s)
		}
	}
	return nil
}
