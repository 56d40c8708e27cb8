package adapter

import (
	"context"
	"time"

	"szexam/internal/domain"
	"szexam/internal/util"

	"go.uber.org/zap"
)

// CachedTopicSink puts a DedupCache in front of a TopicSink. Exists consults the cache
// first and falls through to the sink on a miss or a cache error. Keys reach the cache only
// after the batch that stored them has committed, so a rolled back insert never shows up as
// present.
type CachedTopicSink struct {
	sink    domain.TopicSink
	cache   domain.DedupCache
	ttl     time.Duration
	logger  *zap.Logger
	pending map[int][]string
}

// NewCachedTopicSink wraps sink with cache. ttl bounds the lifetime of each month set.
func NewCachedTopicSink(sink domain.TopicSink, cache domain.DedupCache, ttl time.Duration, logger *zap.Logger) *CachedTopicSink {
	return &CachedTopicSink{
		sink:    sink,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		pending: make(map[int][]string),
	}
}

// Exists implements domain.TopicSink
func (s *CachedTopicSink) Exists(ctx context.Context, content string, month int) (bool, error) {
	hash := util.ContentHash(content)
	hit, err := s.cache.Contains(ctx, month, hash)
	if err != nil {
		s.logger.Warn("Dedup cache lookup failed, falling back to database",
			zap.Int("month", month), zap.Error(err))
	} else if hit {
		s.logger.Debug("Dedup cache hit", zap.Int("month", month))
		return true, nil
	}
	return s.sink.Exists(ctx, content, month)
}

// Insert implements domain.TopicSink
func (s *CachedTopicSink) Insert(ctx context.Context, topic *domain.Topic) domain.InsertResult {
	res := s.sink.Insert(ctx, topic)
	if res.Status != domain.InsertStatusFailed {
		s.pending[topic.Month] = append(s.pending[topic.Month], util.ContentHash(topic.Content))
	}
	return res
}

// CommitBatch implements domain.TopicSink. Cache failures after a successful commit are
// logged and otherwise ignored.
func (s *CachedTopicSink) CommitBatch(ctx context.Context) error {
	pending := s.pending
	s.pending = make(map[int][]string)
	if err := s.sink.CommitBatch(ctx); err != nil {
		return err
	}
	for month, keys := range pending {
		if err := s.cache.Add(ctx, month, s.ttl, keys...); err != nil {
			s.logger.Warn("Failed to record dedup keys in cache",
				zap.Int("month", month), zap.Int("keys", len(keys)), zap.Error(err))
		}
	}
	return nil
}

// Rollback drops pending keys and rolls back the wrapped sink when it supports it.
func (s *CachedTopicSink) Rollback() error {
	s.pending = make(map[int][]string)
	if rb, ok := s.sink.(interface{ Rollback() error }); ok {
		return rb.Rollback()
	}
	return nil
}
