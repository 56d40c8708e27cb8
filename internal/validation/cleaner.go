package validation

import (
	"strings"

	"szexam/internal/domain"
)

// Clean turns a candidate that passed Validate into a topic: whitespace runs collapse to a
// single space, the answer is upper-cased, the month becomes an int and options are stored
// in A..D order. Calling it on a candidate that fails Validate panics.
func Clean(c *domain.Candidate) *domain.Topic {
	month, err := c.Month.Int()
	if err != nil {
		panic("validation: Clean called on invalid candidate: " + err.Error())
	}

	t := &domain.Topic{
		Month:      month,
		TypeID:     *c.TypeID,
		Content:    *c.Content,
		Answer:     *c.Answer,
		CategoryID: c.CategoryID,
	}
	for _, opt := range c.Options {
		key, _ := domain.ParseOptionKey(opt.Key)
		t.Options[key] = domain.Option{Key: key.String(), Content: opt.Content}
	}
	if c.Analysis != nil {
		t.Analysis = *c.Analysis
	}
	if c.Region != nil {
		t.Region = strings.TrimSpace(*c.Region)
	}
	return CleanTopic(t)
}

// CleanTopic normalizes an already cleaned topic in place and returns it. It is idempotent.
func CleanTopic(t *domain.Topic) *domain.Topic {
	t.Content = CollapseSpace(t.Content)
	for i := range t.Options {
		t.Options[i].Content = CollapseSpace(t.Options[i].Content)
	}
	t.Answer = strings.ToUpper(strings.TrimSpace(t.Answer))
	if t.Analysis != "" {
		t.Analysis = CollapseSpace(t.Analysis)
	}
	return t
}

// CollapseSpace replaces every whitespace run, line breaks included, with one space and
// trims both ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
