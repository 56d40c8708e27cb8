package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"szexam/internal/domain"
)

// Rule names, reported in domain.ValidationError.Rule.
const (
	RuleRequiredField = "required_field"
	RuleContentLength = "content_length"
	RuleOptions       = "options"
	RuleAnswerMissing = "answer_missing"
	RuleAnswerChars   = "answer_chars"
	RuleMonthRange    = "month_range"
	RuleTypeID        = "type_id"
)

// MinContentLength is the minimum length, in characters, of a question stem after
// whitespace runs are collapsed the way Clean does it.
const MinContentLength = 5

// Validate checks a candidate against the topic schema. Rules run in a fixed order and the
// first violation is returned as a *domain.ValidationError.
func Validate(c *domain.Candidate) error {
	if c == nil {
		return domain.NewValidationError(RuleRequiredField, "candidate is nil")
	}

	// Required fields
	switch {
	case c.Content == nil:
		return missingField("content")
	case c.Options == nil:
		return missingField("options")
	case c.Answer == nil:
		return missingField("answer")
	case c.Month == nil:
		return missingField("month")
	case c.TypeID == nil:
		return missingField("type_id")
	}

	if n := utf8.RuneCountInString(CollapseSpace(*c.Content)); n < MinContentLength {
		return domain.NewValidationError(RuleContentLength,
			fmt.Sprintf("content too short: %d characters, need at least %d", n, MinContentLength))
	}

	if err := validateOptions(c.Options); err != nil {
		return err
	}

	answer := strings.TrimSpace(*c.Answer)
	if answer == "" || answer == domain.MissingAnswer {
		return domain.NewValidationError(RuleAnswerMissing, "answer is missing")
	}
	for _, r := range strings.ToUpper(answer) {
		if r < 'A' || r > 'D' {
			return domain.NewValidationError(RuleAnswerChars,
				fmt.Sprintf("answer %q contains invalid character %q", answer, r))
		}
	}

	month, err := c.Month.Int()
	if err != nil {
		return domain.NewValidationError(RuleMonthRange, fmt.Sprintf("invalid month: %v", err))
	}
	if month < 1 || month > 12 {
		return domain.NewValidationError(RuleMonthRange, fmt.Sprintf("month %d out of range 1-12", month))
	}

	switch *c.TypeID {
	case domain.TypeSingleChoice, domain.TypeMultipleChoice, domain.TypeTrueFalse:
	default:
		return domain.NewValidationError(RuleTypeID, fmt.Sprintf("invalid type_id %d", *c.TypeID))
	}

	return nil
}

func validateOptions(options []domain.Option) error {
	if len(options) != domain.NumOptions {
		return domain.NewValidationError(RuleOptions,
			fmt.Sprintf("need exactly %d options, got %d", domain.NumOptions, len(options)))
	}
	var seen [domain.NumOptions]bool
	for _, opt := range options {
		key, ok := domain.ParseOptionKey(opt.Key)
		if !ok || opt.Key != key.String() {
			return domain.NewValidationError(RuleOptions, fmt.Sprintf("invalid option key %q", opt.Key))
		}
		if seen[key] {
			return domain.NewValidationError(RuleOptions, fmt.Sprintf("duplicate option key %s", opt.Key))
		}
		seen[key] = true
		if strings.TrimSpace(opt.Content) == "" {
			return domain.NewValidationError(RuleOptions, fmt.Sprintf("option %s is empty", opt.Key))
		}
	}
	return nil
}

func missingField(name string) error {
	return domain.NewValidationError(RuleRequiredField, "missing required field: "+name)
}
