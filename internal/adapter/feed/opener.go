// Package feed opens source documents as ordered streams of text blocks.
package feed

import (
	"fmt"
	"path/filepath"
	"strings"

	"szexam/internal/domain"
)

// Opener picks a feed by file extension: .pdf files are parsed, .txt files are read as
// pre-extracted text.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() domain.FeedOpener {
	return Opener{}
}

// Open implements domain.FeedOpener
func (Opener) Open(path string) (domain.BlockFeed, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		f, err := OpenPDF(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	case ".txt":
		f, err := OpenText(path)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, domain.NewFileError(path, fmt.Errorf("unsupported file type %q", filepath.Ext(path)))
	}
}
