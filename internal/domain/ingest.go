package domain

import (
	"context"
	"fmt"
)

// TextBlock is a contiguous chunk of extracted page text. Blocks of a page are delivered
// top-to-bottom.
type TextBlock struct {
	Page  int
	Index int
	Text  string
}

// BlockFeed produces the ordered text blocks of one source document.
type BlockFeed interface {
	// PageCount returns the number of pages in the document.
	PageCount() int
	// Page returns the blocks of page i (0-based), sorted top-to-bottom.
	Page(i int) ([]TextBlock, error)
	Close() error
}

// FeedOpener opens a BlockFeed for a source file.
type FeedOpener interface {
	Open(path string) (BlockFeed, error)
}

// InsertStatus is the outcome of a single TopicSink.Insert call.
type InsertStatus int

const (
	InsertStatusInserted InsertStatus = iota
	InsertStatusDuplicate
	InsertStatusFailed
)

func (s InsertStatus) String() string {
	switch s {
	case InsertStatusInserted:
		return "inserted"
	case InsertStatusDuplicate:
		return "duplicate"
	case InsertStatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("InsertStatus(%d)", int(s))
	}
}

// InsertResult carries the outcome of an insert back to the caller. Err is set only when
// Status is InsertStatusFailed.
type InsertResult struct {
	Status InsertStatus
	Err    error
}

// Inserted, Duplicate and Failed build InsertResults.
func Inserted() InsertResult        { return InsertResult{Status: InsertStatusInserted} }
func Duplicate() InsertResult       { return InsertResult{Status: InsertStatusDuplicate} }
func Failed(err error) InsertResult { return InsertResult{Status: InsertStatusFailed, Err: err} }

// TopicSink is the persistence boundary for validated topics. Uniqueness of (content, month)
// is enforced by the sink itself.
type TopicSink interface {
	Exists(ctx context.Context, content string, month int) (bool, error)
	Insert(ctx context.Context, topic *Topic) InsertResult
	// CommitBatch makes every insert since the previous commit durable.
	CommitBatch(ctx context.Context) error
}

// TopicRepository is the read side used by backup and statistics.
type TopicRepository interface {
	ListTopics(ctx context.Context) ([]*Topic, error)
	GetStatistics(ctx context.Context) (*TopicStatistics, error)
}

// TopicStatistics summarises the stored topics.
type TopicStatistics struct {
	TotalCount int            `json:"totalCount"`
	ByType     map[string]int `json:"byType"`
	ByMonth    map[string]int `json:"byMonth"`
	ByRegion   map[string]int `json:"byRegion"`
}

// IngestStats are the counters of an ingestion run. They are cumulative across files.
type IngestStats struct {
	Files       int
	FailedFiles int
	Extracted   int
	Incomplete  int
	Invalid     int
	Inserted    int
	Duplicates  int
	Skipped     int
	// ErrorSamples holds the first few error reasons, capped by configuration.
	ErrorSamples []string
}

// Add folds other into s, keeping at most sampleCap error samples.
func (s *IngestStats) Add(other IngestStats, sampleCap int) {
	s.Files += other.Files
	s.FailedFiles += other.FailedFiles
	s.Extracted += other.Extracted
	s.Incomplete += other.Incomplete
	s.Invalid += other.Invalid
	s.Inserted += other.Inserted
	s.Duplicates += other.Duplicates
	s.Skipped += other.Skipped
	for _, msg := range other.ErrorSamples {
		s.RecordError(msg, sampleCap)
	}
}

// RecordError keeps msg if fewer than sampleCap samples are held.
func (s *IngestStats) RecordError(msg string, sampleCap int) {
	if len(s.ErrorSamples) < sampleCap {
		s.ErrorSamples = append(s.ErrorSamples, msg)
	}
}
