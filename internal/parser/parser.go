// Package parser rebuilds quiz questions from the ordered text lines of an exam document.
//
// A Parser is a per-file run context: it owns the current month section and the question
// draft being assembled, and hands every finished question to an EmitFunc as a
// domain.Candidate. Candidates are not validated here.
package parser

import (
	"strings"

	"szexam/internal/domain"

	"go.uber.org/zap"
)

// DefaultMultiSelectMarker marks a stem as a multiple selection question.
const DefaultMultiSelectMarker = "多选"

// EmitFunc receives finalized candidates in document order.
type EmitFunc func(domain.Candidate)

// Config tunes a Parser.
type Config struct {
	// MultiSelectMarker is the stem substring that makes a question type 2.
	MultiSelectMarker string
}

// Stats counts what a Parser saw.
type Stats struct {
	Lines      int
	Noise      int
	NoSection  int
	Sections   int
	Questions  int
	Emitted    int
	Incomplete int
}

// sectionTracker holds the month context of the current document section.
type sectionTracker struct {
	month  int
	active bool
}

func (t *sectionTracker) enter(month int) {
	t.month = month
	t.active = true
}

// Parser assembles questions from classified lines. It is not safe for concurrent use;
// create one per file.
type Parser struct {
	cfg     Config
	logger  *zap.Logger
	emit    EmitFunc
	section sectionTracker
	current *draft
	stats   Stats
}

// New creates a Parser that sends finalized candidates to emit.
func New(cfg Config, logger *zap.Logger, emit EmitFunc) *Parser {
	if cfg.MultiSelectMarker == "" {
		cfg.MultiSelectMarker = DefaultMultiSelectMarker
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{cfg: cfg, logger: logger, emit: emit}
}

// FeedBlock splits a text block into lines and feeds them in order.
func (p *Parser) FeedBlock(block domain.TextBlock) {
	for _, line := range strings.Split(block.Text, "\n") {
		p.FeedLine(line)
	}
}

// FeedLine classifies one line and applies it.
func (p *Parser) FeedLine(raw string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return
	}
	p.stats.Lines++

	switch line := Classify(text).(type) {
	case Noise:
		p.stats.Noise++
	case SectionHeader:
		p.enterSection(line)
	case QuestionStart:
		if !p.requireSection(text) {
			return
		}
		p.flush("next question")
		p.stats.Questions++
		p.current = newDraft(line.Ordinal, line.Text)
	case AnswerLine:
		if !p.requireSection(text) || p.current == nil {
			return
		}
		p.current.setAnswer(line.Answer)
	case OptionLine:
		if !p.requireSection(text) || p.current == nil {
			return
		}
		p.current.setOption(line.Key, line.Text)
	case Continuation:
		if !p.requireSection(text) || p.current == nil {
			return
		}
		if p.current.hasLast && looksNumbered(line.Text) {
			p.logger.Debug("Dropping numbered line after options",
				zap.Int("ordinal", p.current.ordinal),
				zap.String("line", line.Text),
			)
			return
		}
		p.current.appendText(line.Text)
	default:
		panic("parser: unhandled line kind " + line.Kind().String())
	}
}

// Close ends the stream, finalizing or discarding the open draft.
func (p *Parser) Close() {
	p.flush("end of stream")
}

// Stats returns the counters collected so far.
func (p *Parser) Stats() Stats {
	return p.stats
}

// Month returns the current section month and whether a section has been seen.
func (p *Parser) Month() (int, bool) {
	return p.section.month, p.section.active
}

func (p *Parser) enterSection(header SectionHeader) {
	// The open draft belongs to the previous section and never carries over.
	p.flush("section change")
	p.section.enter(header.Month)
	p.stats.Sections++
	p.logger.Info("Found month section", zap.Int("year", header.Year), zap.Int("month", header.Month))
}

func (p *Parser) requireSection(text string) bool {
	if p.section.active {
		return true
	}
	p.stats.NoSection++
	p.logger.Debug("Dropping line outside any month section",
		zap.String("code", string(domain.ErrNoActiveSection)),
		zap.String("line", text),
	)
	return false
}

// flush finalizes the open draft if it has all four options, otherwise discards it.
func (p *Parser) flush(trigger string) {
	d := p.current
	if d == nil {
		return
	}
	p.current = nil

	if !d.complete() {
		p.stats.Incomplete++
		err := domain.NewIncompleteQuestionError(d.ordinal, d.optionCount())
		p.logger.Warn("Discarding incomplete question",
			zap.String("code", string(err.Code)),
			zap.Int("ordinal", d.ordinal),
			zap.Int("options", d.optionCount()),
			zap.String("trigger", trigger),
		)
		return
	}

	typeID := domain.TypeSingleChoice
	if strings.Contains(d.stem, p.cfg.MultiSelectMarker) {
		typeID = domain.TypeMultipleChoice
	}
	p.stats.Emitted++
	if p.emit != nil {
		p.emit(d.candidate(p.section.month, typeID))
	}
}
