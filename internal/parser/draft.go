package parser

import (
	"strings"

	"szexam/internal/domain"
)

type optionSlot struct {
	text string
	set  bool
}

// draft is the question under construction. At most one slot per option key exists by
// construction; complete() is the "exactly four options" check.
type draft struct {
	ordinal   int
	stem      string
	options   [domain.NumOptions]optionSlot
	last      domain.OptionKey
	hasLast   bool
	answer    string
	hasAnswer bool
}

func newDraft(ordinal int, stem string) *draft {
	return &draft{ordinal: ordinal, stem: stem}
}

func (d *draft) optionCount() int {
	n := 0
	for _, slot := range d.options {
		if slot.set {
			n++
		}
	}
	return n
}

func (d *draft) complete() bool {
	return d.optionCount() == domain.NumOptions
}

// setOption inserts or overwrites an option; the key becomes the most recently inserted one.
func (d *draft) setOption(key domain.OptionKey, text string) {
	d.options[key] = optionSlot{text: text, set: true}
	d.last = key
	d.hasLast = true
}

func (d *draft) setAnswer(answer string) {
	d.answer = answer
	d.hasAnswer = true
}

// appendText extends the stem while no option has been seen, otherwise the most recently
// inserted option.
func (d *draft) appendText(text string) {
	if !d.hasLast {
		d.stem = joinSpace(d.stem, text)
		return
	}
	slot := &d.options[d.last]
	slot.text = joinSpace(slot.text, text)
}

// candidate promotes a complete draft. typeID is derived by the caller.
func (d *draft) candidate(month, typeID int) domain.Candidate {
	content := strings.TrimSpace(d.stem)
	answer := domain.MissingAnswer
	if d.hasAnswer {
		answer = d.answer
	}
	options := make([]domain.Option, 0, domain.NumOptions)
	for _, key := range domain.OptionKeys {
		options = append(options, domain.Option{
			Key:     key.String(),
			Content: strings.TrimSpace(d.options[key].text),
		})
	}
	return domain.Candidate{
		Ordinal: d.ordinal,
		Month:   domain.NewLooseInt(month),
		TypeID:  &typeID,
		Content: &content,
		Options: options,
		Answer:  &answer,
	}
}

func joinSpace(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
