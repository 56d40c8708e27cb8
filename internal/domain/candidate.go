package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Candidate is a question record before validation. Every field is optional so that the
// validator can report exactly which one is missing. Candidates come from the parser or from
// JSON imports.
type Candidate struct {
	// Ordinal is the question number in the source document, for diagnostics only.
	Ordinal    int       `json:"-"`
	Month      *LooseInt `json:"month"`
	TypeID     *int      `json:"type_id"`
	Content    *string   `json:"content"`
	Options    []Option  `json:"options"`
	Answer     *string   `json:"answer"`
	Analysis   *string   `json:"analysis,omitempty"`
	CategoryID *int64    `json:"category_id,omitempty"`
	Region     *string   `json:"region,omitempty"`
}

// LooseInt holds an integer that may have been written as a number or as a numeric string.
type LooseInt struct {
	raw string
}

// NewLooseInt wraps an already known integer.
func NewLooseInt(v int) *LooseInt {
	return &LooseInt{raw: strconv.Itoa(v)}
}

// NewLooseIntString wraps a textual value, e.g. a regex capture.
func NewLooseIntString(s string) *LooseInt {
	return &LooseInt{raw: s}
}

// Int coerces the value to an int.
func (l *LooseInt) Int() (int, error) {
	if l == nil {
		return 0, fmt.Errorf("value is absent")
	}
	v, err := strconv.Atoi(strings.TrimSpace(l.raw))
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", l.raw)
	}
	return v, nil
}

func (l *LooseInt) String() string {
	if l == nil {
		return "<nil>"
	}
	return l.raw
}

// UnmarshalJSON accepts 5 and "5".
func (l *LooseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		l.raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	l.raw = n.String()
	return nil
}

// MarshalJSON writes the value as a number when it is one.
func (l LooseInt) MarshalJSON() ([]byte, error) {
	if v, err := strconv.Atoi(strings.TrimSpace(l.raw)); err == nil {
		return []byte(strconv.Itoa(v)), nil
	}
	return json.Marshal(l.raw)
}
