package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is the canonical identifier for items, users and categories.
//
// The server may send identifiers as JSON strings or JSON numbers. Both decode
// to the literal text of the value, so 5 and "5" yield the same ID. Comparison
// is plain equality on that text.
type ID string

// ParseID trims s and returns it as an ID.
func ParseID(s string) ID { return ID(strings.TrimSpace(s)) }

func (id ID) String() string { return string(id) }

// IsZero reports whether the id is absent.
func (id ID) IsZero() bool { return id == "" }

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", b)
	}
	*id = ID(n.String())
	return nil
}
