package service

import (
	"context"
	"errors"
	"os"

	"szexam/internal/adapter/feed"
	"szexam/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTopicSink ---
type MockTopicSink struct {
	mock.Mock
}

func (m *MockTopicSink) Exists(ctx context.Context, content string, month int) (bool, error) {
	args := m.Called(ctx, content, month)
	return args.Bool(0), args.Error(1)
}

func (m *MockTopicSink) Insert(ctx context.Context, topic *domain.Topic) domain.InsertResult {
	args := m.Called(ctx, topic)
	return args.Get(0).(domain.InsertResult)
}

func (m *MockTopicSink) CommitBatch(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockTopicRepository ---
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Topic), args.Error(1)
}

func (m *MockTopicRepository) GetStatistics(ctx context.Context) (*domain.TopicStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TopicStatistics), args.Error(1)
}

// stubOpener serves in-memory text documents by path.
type stubOpener map[string]string

func (o stubOpener) Open(path string) (domain.BlockFeed, error) {
	text, ok := o[path]
	if !ok {
		return nil, domain.NewFileError(path, os.ErrNotExist)
	}
	return feed.NewTextFeed(text), nil
}

// brokenFeed returns its pages until failAt, then an error.
type brokenFeed struct {
	pages  [][]domain.TextBlock
	failAt int
	closed bool
}

func (f *brokenFeed) PageCount() int { return len(f.pages) }

func (f *brokenFeed) Page(i int) ([]domain.TextBlock, error) {
	if i == f.failAt {
		return nil, errors.New("corrupt content stream")
	}
	return f.pages[i], nil
}

func (f *brokenFeed) Close() error {
	f.closed = true
	return nil
}

type singleFeedOpener struct {
	feed domain.BlockFeed
}

func (o singleFeedOpener) Open(string) (domain.BlockFeed, error) {
	return o.feed, nil
}

// RollbackTopicSink is a MockTopicSink that also supports Rollback.
type RollbackTopicSink struct {
	MockTopicSink
}

func (m *RollbackTopicSink) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// cancellingFeed cancels the run after serving its first page.
type cancellingFeed struct {
	pages  [][]domain.TextBlock
	cancel context.CancelFunc
}

func (f *cancellingFeed) PageCount() int { return len(f.pages) }

func (f *cancellingFeed) Page(i int) ([]domain.TextBlock, error) {
	if i == 0 {
		f.cancel()
	}
	return f.pages[i], nil
}

func (f *cancellingFeed) Close() error { return nil }
