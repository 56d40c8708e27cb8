package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"szexam/internal/config"
	"szexam/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func backupTopics() []*domain.Topic {
	category := int64(7)
	return []*domain.Topic{
		{
			ID:      "01HZX0000000000000000000A1",
			Month:   3,
			TypeID:  domain.TypeSingleChoice,
			Content: "下列哪项正确？",
			Options: [domain.NumOptions]domain.Option{
				{Key: "A", Content: "选项一"}, {Key: "B", Content: "选项二"},
				{Key: "C", Content: "选项三"}, {Key: "D", Content: "选项四"},
			},
			Answer:    "B",
			CreatedAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:      "01HZX0000000000000000000A2",
			Month:   4,
			TypeID:  domain.TypeMultipleChoice,
			Content: "It's a quote（多选）",
			Options: [domain.NumOptions]domain.Option{
				{Key: "A", Content: "甲"}, {Key: "B", Content: "乙"},
				{Key: "C", Content: "丙"}, {Key: "D", Content: "丁"},
			},
			Answer:     "AB",
			Analysis:   "解析",
			CategoryID: &category,
			Region:     "广东",
			CreatedAt:  time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC),
		},
	}
}

func newTestBackupService(repo domain.TopicRepository, dir, format string) *BackupService {
	svc := NewBackupService(repo, config.BackupConfig{Dir: dir, Format: format}, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC) }
	return svc
}

func TestBackupService_JSON(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTopicRepository)
	repo.On("ListTopics", ctx).Return(backupTopics(), nil)
	dir := filepath.Join(t.TempDir(), "backups")

	path, count, err := newTestBackupService(repo, dir, "json").Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, filepath.Join(dir, "topics_backup_20250506_070809.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc backupDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.TotalCount)
	assert.Equal(t, "2025-05-06T07:08:09Z", doc.BackupTime)
	require.Len(t, doc.Topics, 2)
	assert.Equal(t, "01HZX0000000000000000000A1", doc.Topics[0].ID)
	assert.Len(t, doc.Topics[0].Options, domain.NumOptions)

	// A backup file can be fed back through the importer.
	candidates, err := DecodeCandidates(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	repo.AssertExpectations(t)
}

func TestBackupService_SQL(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTopicRepository)
	repo.On("ListTopics", ctx).Return(backupTopics(), nil)
	dir := t.TempDir()

	path, count, err := newTestBackupService(repo, dir, "sql").Backup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, strings.HasSuffix(path, "topics_backup_20250506_070809.sql"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Equal(t, 2, strings.Count(out, "INSERT INTO topic"))
	assert.Contains(t, out, "'It''s a quote（多选）'")
	assert.Contains(t, out, "'B', NULL, NULL, NULL, TO_TIMESTAMP('2025-03-01 08:00:00.000000'")
	assert.Contains(t, out, "'AB', '解析', 7, '广东'")
}

func TestBackupService_Errors(t *testing.T) {
	ctx := context.Background()

	repo := new(MockTopicRepository)
	repo.On("ListTopics", ctx).Return(nil, errors.New("db down"))
	_, _, err := newTestBackupService(repo, t.TempDir(), "json").Backup(ctx)
	assert.ErrorContains(t, err, "db down")

	repo = new(MockTopicRepository)
	repo.On("ListTopics", ctx).Return([]*domain.Topic{}, nil)
	_, _, err = newTestBackupService(repo, t.TempDir(), "xml").Backup(ctx)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrInvalidInput, domainErr.Code)
}
