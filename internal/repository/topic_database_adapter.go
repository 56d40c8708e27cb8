package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"szexam/internal/domain"
	"szexam/internal/repository/models"
	"szexam/internal/util"

	"github.com/jmoiron/sqlx"
)

const (
	existsTopicQuery = `SELECT COUNT(*) FROM topic WHERE content_hash = :1 AND month = :2`

	insertTopicQuery = `INSERT INTO topic (
		id, month, type_id, content, content_hash,
		options, answer, analysis, category_id, region, created_at
	) VALUES (
		:1, :2, :3, :4, :5, :6, :7, :8, :9, :10, :11
	)`

	listTopicsQuery = `SELECT
		id "id",
		month "month",
		type_id "type_id",
		content "content",
		content_hash "content_hash",
		options "options",
		answer "answer",
		analysis "analysis",
		category_id "category_id",
		region "region",
		created_at "created_at"
	FROM topic
	ORDER BY id`

	countTopicsQuery    = `SELECT COUNT(*) FROM topic`
	countByTypeQuery    = `SELECT TO_CHAR(type_id) "key", COUNT(*) "count" FROM topic GROUP BY type_id`
	countByMonthQuery   = `SELECT TO_CHAR(month) "key", COUNT(*) "count" FROM topic GROUP BY month`
	countByRegionQuery  = `SELECT region "key", COUNT(*) "count" FROM topic WHERE region IS NOT NULL GROUP BY region`
	uniqueViolationCode = "ORA-00001"
)

// TopicDatabaseAdapter stores topics in the Oracle TOPIC table. Inserts accumulate in a
// transaction that CommitBatch commits; Exists runs inside that transaction so it sees
// rows inserted earlier in the same batch. It is not safe for concurrent use.
type TopicDatabaseAdapter struct {
	db  *sqlx.DB
	tx  *sqlx.Tx
	now func() time.Time
}

// NewTopicDatabaseAdapter creates a new instance of TopicDatabaseAdapter
func NewTopicDatabaseAdapter(db *sqlx.DB) *TopicDatabaseAdapter {
	return &TopicDatabaseAdapter{db: db, now: time.Now}
}

func (a *TopicDatabaseAdapter) executor() DBTX {
	if a.tx != nil {
		return a.tx
	}
	return a.db
}

// Exists implements domain.TopicSink
func (a *TopicDatabaseAdapter) Exists(ctx context.Context, content string, month int) (bool, error) {
	var count int
	if err := a.executor().GetContext(ctx, &count, existsTopicQuery, util.ContentHash(content), month); err != nil {
		return false, fmt.Errorf("failed to check topic existence: %w", err)
	}
	return count > 0, nil
}

// Insert implements domain.TopicSink. A unique-constraint violation on (content_hash, month)
// is reported as a duplicate.
func (a *TopicDatabaseAdapter) Insert(ctx context.Context, topic *domain.Topic) domain.InsertResult {
	modelTopic := toModelTopic(topic)
	if modelTopic == nil {
		return domain.Failed(fmt.Errorf("cannot insert nil topic"))
	}
	modelTopic.ID = util.NewULID()
	modelTopic.CreatedAt = a.now()

	if a.tx == nil {
		tx, err := a.db.BeginTxx(ctx, nil)
		if err != nil {
			return domain.Failed(fmt.Errorf("failed to begin transaction: %w", err))
		}
		a.tx = tx
	}

	options, err := modelTopic.Options.Value()
	if err != nil {
		return domain.Failed(fmt.Errorf("failed to encode options: %w", err))
	}

	_, err = a.tx.ExecContext(ctx, insertTopicQuery,
		modelTopic.ID,
		modelTopic.Month,
		modelTopic.TypeID,
		modelTopic.Content,
		modelTopic.ContentHash,
		options,
		modelTopic.Answer,
		modelTopic.Analysis,
		modelTopic.CategoryID,
		modelTopic.Region,
		modelTopic.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Duplicate()
		}
		return domain.Failed(fmt.Errorf("failed to insert topic: %w", err))
	}

	topic.ID = modelTopic.ID
	topic.CreatedAt = modelTopic.CreatedAt
	return domain.Inserted()
}

// CommitBatch implements domain.TopicSink
func (a *TopicDatabaseAdapter) CommitBatch(ctx context.Context) error {
	if a.tx == nil {
		return nil
	}
	tx := a.tx
	a.tx = nil
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// Rollback discards uncommitted inserts.
func (a *TopicDatabaseAdapter) Rollback() error {
	if a.tx == nil {
		return nil
	}
	tx := a.tx
	a.tx = nil
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback batch: %w", err)
	}
	return nil
}

// ListTopics implements domain.TopicRepository
func (a *TopicDatabaseAdapter) ListTopics(ctx context.Context) ([]*domain.Topic, error) {
	var rows []models.Topic
	if err := a.db.SelectContext(ctx, &rows, listTopicsQuery); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}

	topics := make([]*domain.Topic, 0, len(rows))
	for i := range rows {
		t, err := toDomainTopic(&rows[i])
		if err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, nil
}

// GetStatistics implements domain.TopicRepository
func (a *TopicDatabaseAdapter) GetStatistics(ctx context.Context) (*domain.TopicStatistics, error) {
	stats := &domain.TopicStatistics{}
	if err := a.db.GetContext(ctx, &stats.TotalCount, countTopicsQuery); err != nil {
		return nil, fmt.Errorf("failed to count topics: %w", err)
	}

	var err error
	if stats.ByType, err = a.countBy(ctx, countByTypeQuery); err != nil {
		return nil, err
	}
	if stats.ByMonth, err = a.countBy(ctx, countByMonthQuery); err != nil {
		return nil, err
	}
	if stats.ByRegion, err = a.countBy(ctx, countByRegionQuery); err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *TopicDatabaseAdapter) countBy(ctx context.Context, query string) (map[string]int, error) {
	var rows []models.TopicCount
	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count topics: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		if !row.Key.Valid {
			continue
		}
		out[row.Key.String] += row.Count
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), uniqueViolationCode)
}

// monthKey formats a month the way statistics keys are written.
func monthKey(month int) string {
	return strconv.Itoa(month)
}
