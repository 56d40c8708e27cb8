package domain

import (
	"fmt"
	"strings"
	"time"
)

// OptionKey identifies one of the four answer options.
type OptionKey uint8

const (
	OptionA OptionKey = iota
	OptionB
	OptionC
	OptionD
)

// NumOptions is the number of options every stored question carries.
const NumOptions = 4

// OptionKeys lists the keys in storage order.
var OptionKeys = [NumOptions]OptionKey{OptionA, OptionB, OptionC, OptionD}

// Topic type ids.
const (
	TypeSingleChoice   = 1
	TypeMultipleChoice = 2
	TypeTrueFalse      = 3
)

// MissingAnswer marks a question whose answer line was never seen.
const MissingAnswer = "X"

func (k OptionKey) String() string {
	if k > OptionD {
		return fmt.Sprintf("OptionKey(%d)", uint8(k))
	}
	return string(rune('A' + k))
}

// ParseOptionKey maps "A".."D" (case-insensitive) to an OptionKey.
func ParseOptionKey(s string) (OptionKey, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'D' {
		return 0, false
	}
	return OptionKey(s[0] - 'A'), true
}

// Option is a single answer option as it is stored (JSON encoded) with a topic.
type Option struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}

// Topic is a validated and cleaned question, the only shape allowed to reach a TopicSink.
type Topic struct {
	ID         string
	Month      int
	TypeID     int
	Content    string
	Options    [NumOptions]Option
	Answer     string
	Analysis   string
	CategoryID *int64
	Region     string
	CreatedAt  time.Time
}

// OptionSlice returns the options as a slice in A..D order.
func (t *Topic) OptionSlice() []Option {
	out := make([]Option, NumOptions)
	copy(out, t.Options[:])
	return out
}

// DedupKey is the (content, month) pair used to decide whether a topic is already stored.
type DedupKey struct {
	Content string
	Month   int
}

// Key returns the dedup key of the topic.
func (t *Topic) Key() DedupKey {
	return DedupKey{Content: t.Content, Month: t.Month}
}
