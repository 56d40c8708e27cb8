package feed

import (
	"os"
	"path/filepath"
	"testing"

	"szexam/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextFeed(t *testing.T) {
	text := "2025年3月时事政治题库\n\n1. 题干\r\nA. 甲\n\n\f【正确答案】A\n\n\n2. 题干二"
	f := NewTextFeed(text)
	require.Equal(t, 2, f.PageCount())

	first, err := f.Page(0)
	require.NoError(t, err)
	assert.Equal(t, []domain.TextBlock{
		{Page: 0, Index: 0, Text: "2025年3月时事政治题库"},
		{Page: 0, Index: 1, Text: "1. 题干\nA. 甲"},
	}, first)

	second, err := f.Page(1)
	require.NoError(t, err)
	assert.Equal(t, []domain.TextBlock{
		{Page: 1, Index: 0, Text: "【正确答案】A"},
		{Page: 1, Index: 1, Text: "2. 题干二"},
	}, second)
	assert.NoError(t, f.Close())
}

func TestNewTextFeed_Empty(t *testing.T) {
	f := NewTextFeed("")
	require.Equal(t, 1, f.PageCount())
	blocks, err := f.Page(0)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestOpener(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "topics.TXT")
	require.NoError(t, os.WriteFile(txt, []byte("1. 题干"), 0o644))

	f, err := NewOpener().Open(txt)
	require.NoError(t, err)
	assert.Equal(t, 1, f.PageCount())
	require.NoError(t, f.Close())

	_, err = NewOpener().Open(filepath.Join(dir, "topics.docx"))
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrFileUnreadable, domainErr.Code)

	_, err = NewOpener().Open(filepath.Join(dir, "missing.txt"))
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrFileUnreadable, domainErr.Code)

	_, err = NewOpener().Open(filepath.Join(dir, "missing.pdf"))
	require.ErrorAs(t, err, &domainErr)
}

func TestOpenPDF_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))
	_, err := OpenPDF(path)
	assert.Error(t, err)
}
