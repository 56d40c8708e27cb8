package repository

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"szexam/internal/domain"
	"szexam/internal/util"
)

// MemoryTopicStore is an in-process TopicSink and TopicRepository. Dry runs use it to
// exercise the whole pipeline without a database.
type MemoryTopicStore struct {
	mu      sync.Mutex
	topics  []*domain.Topic
	keys    map[domain.DedupKey]struct{}
	commits int
}

// NewMemoryTopicStore returns an empty store.
func NewMemoryTopicStore() *MemoryTopicStore {
	return &MemoryTopicStore{keys: make(map[domain.DedupKey]struct{})}
}

// Exists implements domain.TopicSink
func (s *MemoryTopicStore) Exists(_ context.Context, content string, month int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[domain.DedupKey{Content: content, Month: month}]
	return ok, nil
}

// Insert implements domain.TopicSink
func (s *MemoryTopicStore) Insert(_ context.Context, topic *domain.Topic) domain.InsertResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := topic.Key()
	if _, ok := s.keys[key]; ok {
		return domain.Duplicate()
	}
	stored := *topic
	stored.ID = util.NewULID()
	stored.CreatedAt = time.Now()
	s.keys[key] = struct{}{}
	s.topics = append(s.topics, &stored)
	topic.ID = stored.ID
	topic.CreatedAt = stored.CreatedAt
	return domain.Inserted()
}

// CommitBatch implements domain.TopicSink
func (s *MemoryTopicStore) CommitBatch(context.Context) error {
	s.mu.Lock()
	s.commits++
	s.mu.Unlock()
	return nil
}

// Commits returns how many times CommitBatch was called.
func (s *MemoryTopicStore) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// ListTopics implements domain.TopicRepository
func (s *MemoryTopicStore) ListTopics(context.Context) ([]*domain.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Topic, len(s.topics))
	for i, t := range s.topics {
		cp := *t
		out[i] = &cp
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetStatistics implements domain.TopicRepository
func (s *MemoryTopicStore) GetStatistics(context.Context) (*domain.TopicStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &domain.TopicStatistics{
		TotalCount: len(s.topics),
		ByType:     map[string]int{},
		ByMonth:    map[string]int{},
		ByRegion:   map[string]int{},
	}
	for _, t := range s.topics {
		stats.ByType[strconv.Itoa(t.TypeID)]++
		stats.ByMonth[monthKey(t.Month)]++
		if t.Region != "" {
			stats.ByRegion[t.Region]++
		}
	}
	return stats, nil
}
