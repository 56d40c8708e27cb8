package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"szexam/internal/domain"

	"golang.org/x/text/width"
)

// Kind enumerates the line categories, in classification priority order.
type Kind int

const (
	KindNoise Kind = iota
	KindSection
	KindQuestion
	KindAnswer
	KindOption
	KindContinuation
)

func (k Kind) String() string {
	switch k {
	case KindNoise:
		return "noise"
	case KindSection:
		return "section"
	case KindQuestion:
		return "question"
	case KindAnswer:
		return "answer"
	case KindOption:
		return "option"
	case KindContinuation:
		return "continuation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Line is a classified line. The concrete type is one of Noise, SectionHeader, QuestionStart,
// AnswerLine, OptionLine or Continuation.
type Line interface {
	Kind() Kind
}

// Noise is boilerplate (ads, contact info, page numbers).
type Noise struct{ Text string }

// SectionHeader opens a month section, e.g. "2025年3月时事政治题库".
type SectionHeader struct {
	Year  int
	Month int
}

// QuestionStart is a numbered question line, "12. stem text".
type QuestionStart struct {
	Ordinal int
	Text    string
}

// AnswerLine announces the correct answer, "【正确答案】AB".
type AnswerLine struct{ Answer string }

// OptionLine is "B. option text".
type OptionLine struct {
	Key  domain.OptionKey
	Text string
}

// Continuation is any other text.
type Continuation struct{ Text string }

func (Noise) Kind() Kind         { return KindNoise }
func (SectionHeader) Kind() Kind { return KindSection }
func (QuestionStart) Kind() Kind { return KindQuestion }
func (AnswerLine) Kind() Kind    { return KindAnswer }
func (OptionLine) Kind() Kind    { return KindOption }
func (Continuation) Kind() Kind  { return KindContinuation }

var (
	noisePattern      = regexp.MustCompile(`(?i)师达教育|师有道|华南教师考编|咨询[:：]|微信同号|回复时政|获取最新|周更新一次`)
	pageNumberPattern = regexp.MustCompile(`^\d+$`)
	sectionPattern    = regexp.MustCompile(`(\d{4})年(\d{1,2})月时事政治题库`)
	questionPattern   = regexp.MustCompile(`^(\d+)\.\s*(.*)$`)
	answerPattern     = regexp.MustCompile(`【正确答案】\s*([A-D]+)`)
	optionPattern     = regexp.MustCompile(`^([A-D])\.\s*(.*)$`)

	// numberedItemPattern is looser than questionPattern (spaces before the dot, "、");
	// a continuation matching it is most likely a question start the extractor mangled.
	// A digit right after the separator is a decimal ("3.5亿"), not a question number, and
	// commas never count, so "1,000万" stays option text.
	numberedItemPattern = regexp.MustCompile(`^\d+\s*[.、]\s*[^\d\s]`)
)

// prefixFoldRunes bounds how much of a line foldPrefix looks at.
const prefixFoldRunes = 8

// Classify returns the category of a single line. The first matching category wins:
// noise, section header, question start, answer, option, continuation.
func Classify(raw string) Line {
	line := foldPrefix(strings.TrimSpace(raw))

	if noisePattern.MatchString(line) || pageNumberPattern.MatchString(line) {
		return Noise{Text: line}
	}
	if m := sectionPattern.FindStringSubmatch(line); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return SectionHeader{Year: year, Month: month}
	}
	if m := questionPattern.FindStringSubmatch(line); m != nil {
		if ordinal, err := strconv.Atoi(m[1]); err == nil {
			return QuestionStart{Ordinal: ordinal, Text: strings.TrimSpace(m[2])}
		}
	}
	if m := answerPattern.FindStringSubmatch(line); m != nil {
		return AnswerLine{Answer: m[1]}
	}
	if m := optionPattern.FindStringSubmatch(line); m != nil {
		key, _ := domain.ParseOptionKey(m[1])
		return OptionLine{Key: key, Text: strings.TrimSpace(m[2])}
	}
	return Continuation{Text: line}
}

// looksNumbered reports whether a line begins like a numbered item.
func looksNumbered(line string) bool {
	return numberedItemPattern.MatchString(foldPrefix(line))
}

// foldPrefix narrows full-width digits, latin letters, dots and spaces at the start of the
// line ("１．", "Ａ．") so the ASCII patterns above match them. The rest of the line,
// including full-width punctuation inside the text, is left as is.
func foldPrefix(line string) string {
	var b strings.Builder
	n := 0
	for i, r := range line {
		if n == prefixFoldRunes {
			b.WriteString(line[i:])
			return b.String()
		}
		n++
		if foldable(r) {
			b.WriteString(width.Narrow.String(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func foldable(r rune) bool {
	switch {
	case r >= '０' && r <= '９':
		return true
	case r >= 'Ａ' && r <= 'Ｚ', r >= 'ａ' && r <= 'ｚ':
		return true
	case r == '．', r == '　':
		return true
	}
	return false
}
