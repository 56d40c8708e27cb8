package feed

import (
	"fmt"
	"os"
	"strings"

	"szexam/internal/domain"

	"github.com/ledongthuc/pdf"
)

// PDFFeed reads text rows from a PDF. Each visual row becomes one block, rows ordered
// top-to-bottom and glyph runs within a row left-to-right.
type PDFFeed struct {
	file   *os.File
	reader *pdf.Reader
}

// OpenPDF opens path for reading.
func OpenPDF(path string) (*PDFFeed, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, domain.NewFileError(path, err)
	}
	return &PDFFeed{file: f, reader: r}, nil
}

// PageCount implements domain.BlockFeed
func (f *PDFFeed) PageCount() int {
	return f.reader.NumPage()
}

// Page implements domain.BlockFeed. Malformed content streams surface as errors rather
// than panics.
func (f *PDFFeed) Page(i int) (blocks []domain.TextBlock, err error) {
	defer func() {
		if r := recover(); r != nil {
			blocks, err = nil, fmt.Errorf("page %d: malformed content: %v", i+1, r)
		}
	}()

	page := f.reader.Page(i + 1)
	if page.V.IsNull() {
		return nil, nil
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", i+1, err)
	}

	for _, row := range rows {
		var sb strings.Builder
		for _, t := range row.Content {
			sb.WriteString(t.S)
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		blocks = append(blocks, domain.TextBlock{Page: i, Index: len(blocks), Text: text})
	}
	return blocks, nil
}

// Close implements domain.BlockFeed
func (f *PDFFeed) Close() error {
	return f.file.Close()
}
