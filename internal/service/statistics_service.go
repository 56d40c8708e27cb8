package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"szexam/internal/domain"
)

// StatisticsService reports stored topic counts.
type StatisticsService struct {
	repo domain.TopicRepository
}

// NewStatisticsService creates a new instance of StatisticsService.
func NewStatisticsService(repo domain.TopicRepository) *StatisticsService {
	return &StatisticsService{repo: repo}
}

// GetStatistics returns the counts by type, month and region.
func (s *StatisticsService) GetStatistics(ctx context.Context) (*domain.TopicStatistics, error) {
	stats, err := s.repo.GetStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get topic statistics: %w", err)
	}
	return stats, nil
}

// Report writes the statistics as plain text.
func (s *StatisticsService) Report(ctx context.Context, w io.Writer) error {
	stats, err := s.GetStatistics(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Total topics: %d\n", stats.TotalCount)
	writeCounts(w, "By type", stats.ByType)
	writeCounts(w, "By month", stats.ByMonth)
	writeCounts(w, "By region", stats.ByRegion)
	return nil
}

// writeCounts prints counts sorted by key, numerically when every key is a number.
func writeCounts(w io.Writer, title string, counts map[string]int) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(counts) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	keys := make([]string, 0, len(counts))
	numeric := true
	for k := range counts {
		keys = append(keys, k)
		if _, err := strconv.Atoi(k); err != nil {
			numeric = false
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if numeric {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %d\n", k, counts[k])
	}
}
