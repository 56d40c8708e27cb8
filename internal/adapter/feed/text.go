package feed

import (
	"os"
	"strings"

	"szexam/internal/domain"
)

// TextFeed serves plain text that was extracted ahead of time. A form feed separates pages
// and blank lines separate blocks.
type TextFeed struct {
	pages [][]domain.TextBlock
}

// OpenText reads path into memory.
func OpenText(path string) (*TextFeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileError(path, err)
	}
	return NewTextFeed(string(data)), nil
}

// NewTextFeed splits text into pages and blocks.
func NewTextFeed(text string) *TextFeed {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	rawPages := strings.Split(text, "\f")
	pages := make([][]domain.TextBlock, len(rawPages))
	for i, raw := range rawPages {
		var current []string
		emit := func() {
			if len(current) == 0 {
				return
			}
			pages[i] = append(pages[i], domain.TextBlock{Page: i, Index: len(pages[i]), Text: strings.Join(current, "\n")})
			current = nil
		}
		for _, line := range strings.Split(raw, "\n") {
			if strings.TrimSpace(line) == "" {
				emit()
				continue
			}
			current = append(current, line)
		}
		emit()
	}
	return &TextFeed{pages: pages}
}

// PageCount implements domain.BlockFeed
func (f *TextFeed) PageCount() int {
	return len(f.pages)
}

// Page implements domain.BlockFeed
func (f *TextFeed) Page(i int) ([]domain.TextBlock, error) {
	return f.pages[i], nil
}

// Close implements domain.BlockFeed
func (f *TextFeed) Close() error {
	return nil
}
