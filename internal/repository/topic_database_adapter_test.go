package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"szexam/internal/domain"
	"szexam/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a new sqlx.DB instance and sqlmock for repository testing.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func sampleTopic() *domain.Topic {
	return &domain.Topic{
		Month:   3,
		TypeID:  domain.TypeSingleChoice,
		Content: "下列哪项正确？",
		Options: [domain.NumOptions]domain.Option{
			{Key: "A", Content: "选项一"},
			{Key: "B", Content: "选项二"},
			{Key: "C", Content: "选项三"},
			{Key: "D", Content: "选项四"},
		},
		Answer: "B",
	}
}

const optionsJSON = `[{"key":"A","content":"选项一"},{"key":"B","content":"选项二"},{"key":"C","content":"选项三"},{"key":"D","content":"选项四"}]`

func TestTopicDatabaseAdapter_Exists(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTopicDatabaseAdapter(db)
	ctx := context.Background()
	hash := util.ContentHash("下列哪项正确？")

	mock.ExpectQuery(regexp.QuoteMeta(existsTopicQuery)).
		WithArgs(hash, 3).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(existsTopicQuery)).
		WithArgs(hash, 4).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(0))

	exists, err := repo.Exists(ctx, "下列哪项正确？", 3)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "下列哪项正确？", 4)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicDatabaseAdapter_ExistsError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTopicDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(existsTopicQuery)).WillReturnError(errors.New("connection reset"))

	_, err := repo.Exists(context.Background(), "x", 1)
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicDatabaseAdapter_InsertAndCommit(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTopicDatabaseAdapter(db)
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	ctx := context.Background()
	topic := sampleTopic()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertTopicQuery)).
		WithArgs(sqlmock.AnyArg(), 3, 1, "下列哪项正确？", util.ContentHash("下列哪项正确？"),
			optionsJSON, "B", nil, nil, nil, fixed).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// The second insert reuses the open transaction.
	mock.ExpectExec(regexp.QuoteMeta(insertTopicQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res := repo.Insert(ctx, topic)
	assert.Equal(t, domain.InsertStatusInserted, res.Status)
	assert.NoError(t, res.Err)
	assert.Len(t, topic.ID, 26)
	assert.Equal(t, fixed, topic.CreatedAt)

	other := sampleTopic()
	other.Content = "另一道题目的题干"
	assert.Equal(t, domain.InsertStatusInserted, repo.Insert(ctx, other).Status)

	require.NoError(t, repo.CommitBatch(ctx))
	// Nothing pending: commit is a no-op.
	require.NoError(t, repo.CommitBatch(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicDatabaseAdapter_InsertDuplicateAndFailure(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTopicDatabaseAdapter(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(insertTopicQuery)).
		WillReturnError(errors.New("ORA-00001: unique constraint (SZEXAM.UQ_TOPIC_CONTENT_MONTH) violated"))
	mock.ExpectExec(regexp.QuoteMeta(insertTopicQuery)).
		WillReturnError(errors.New("ORA-01400: cannot insert NULL"))
	mock.ExpectRollback()

	res := repo.Insert(ctx, sampleTopic())
	assert.Equal(t, domain.InsertStatusDuplicate, res.Status)

	res = repo.Insert(ctx, sampleTopic())
	assert.Equal(t, domain.InsertStatusFailed, res.Status)
	assert.ErrorContains(t, res.Err, "ORA-01400")

	require.NoError(t, repo.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicDatabaseAdapter_InsertBeginFails(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTopicDatabaseAdapter(db)

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	res := repo.Insert(context.Background(), sampleTopic())
	assert.Equal(t, domain.InsertStatusFailed, res.Status)
	assert.ErrorContains(t, res.Err, "no connection")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicDatabaseAdapter_InsertNil(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewTopicDatabaseAdapter(db)
	assert.Equal(t, domain.InsertStatusFailed, repo.Insert(context.Background(), nil).Status)
}

func TestTopicDatabaseAdapter_ListTopics(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTopicDatabaseAdapter(db)
	now := time.Now()
	id := util.NewULID()

	rows := sqlmock.NewRows([]string{"id", "month", "type_id", "content", "content_hash", "options",
		"answer", "analysis", "category_id", "region", "created_at"}).
		AddRow(id, 3, 1, "下列哪项正确？", util.ContentHash("下列哪项正确？"), optionsJSON, "B", "解析", int64(7), "广东", now)
	mock.ExpectQuery(regexp.QuoteMeta(listTopicsQuery)).WillReturnRows(rows)

	topics, err := repo.ListTopics(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 1)
	got := topics[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, sampleTopic().Options, got.Options)
	assert.Equal(t, "解析", got.Analysis)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, int64(7), *got.CategoryID)
	assert.Equal(t, "广东", got.Region)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopicDatabaseAdapter_ListTopicsBadOptions(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTopicDatabaseAdapter(db)

	rows := sqlmock.NewRows([]string{"id", "month", "type_id", "content", "content_hash", "options",
		"answer", "analysis", "category_id", "region", "created_at"}).
		AddRow("id1", 3, 1, "题干内容很长", "h", `[{"key":"A","content":"x"}]`, "A", nil, nil, nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(listTopicsQuery)).WillReturnRows(rows)

	_, err := repo.ListTopics(context.Background())
	assert.ErrorContains(t, err, "1 options")
}

func TestTopicDatabaseAdapter_GetStatistics(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewTopicDatabaseAdapter(db)

	mock.ExpectQuery(regexp.QuoteMeta(countTopicsQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(countByTypeQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).AddRow("1", 4).AddRow("2", 1))
	mock.ExpectQuery(regexp.QuoteMeta(countByMonthQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).AddRow("3", 5))
	mock.ExpectQuery(regexp.QuoteMeta(countByRegionQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).AddRow("广东", 2))

	stats, err := repo.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalCount)
	assert.Equal(t, map[string]int{"1": 4, "2": 1}, stats.ByType)
	assert.Equal(t, map[string]int{"3": 5}, stats.ByMonth)
	assert.Equal(t, map[string]int{"广东": 2}, stats.ByRegion)
	assert.NoError(t, mock.ExpectationsWereMet())
}
