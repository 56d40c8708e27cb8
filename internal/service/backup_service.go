package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"szexam/internal/config"
	"szexam/internal/domain"
	"szexam/internal/util"

	"go.uber.org/zap"
)

const backupTimeLayout = "20060102_150405"

// BackupService exports every stored topic to a timestamped file.
type BackupService struct {
	repo   domain.TopicRepository
	cfg    config.BackupConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewBackupService creates a new instance of BackupService.
func NewBackupService(repo domain.TopicRepository, cfg config.BackupConfig, logger *zap.Logger) *BackupService {
	return &BackupService{repo: repo, cfg: cfg, logger: logger, now: time.Now}
}

type backupTopic struct {
	ID         string          `json:"id"`
	Month      int             `json:"month"`
	TypeID     int             `json:"type_id"`
	Content    string          `json:"content"`
	Options    []domain.Option `json:"options"`
	Answer     string          `json:"answer"`
	Analysis   string          `json:"analysis,omitempty"`
	CategoryID *int64          `json:"category_id,omitempty"`
	Region     string          `json:"region,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type backupDocument struct {
	BackupTime string        `json:"backup_time"`
	TotalCount int           `json:"total_count"`
	Topics     []backupTopic `json:"topics"`
}

// Backup writes all topics, ordered by id, to <dir>/topics_backup_<timestamp>.<format> and
// returns the file path and the number of topics written.
func (s *BackupService) Backup(ctx context.Context) (string, int, error) {
	topics, err := s.repo.ListTopics(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("failed to load topics for backup: %w", err)
	}

	now := s.now()
	format := s.cfg.Format
	if format == "" {
		format = "json"
	}

	var data []byte
	switch format {
	case "json":
		data, err = encodeJSONBackup(topics, now)
		if err != nil {
			return "", 0, err
		}
	case "sql":
		data, err = encodeSQLBackup(topics, now)
		if err != nil {
			return "", 0, err
		}
	default:
		return "", 0, domain.NewInvalidInputError(fmt.Sprintf("unsupported backup format %q", format))
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("failed to create backup directory: %w", err)
	}
	path := filepath.Join(s.cfg.Dir, "topics_backup_"+now.Format(backupTimeLayout)+"."+format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write backup: %w", err)
	}

	s.logger.Info("Backup written", zap.String("path", path), zap.Int("topics", len(topics)))
	return path, len(topics), nil
}

func encodeJSONBackup(topics []*domain.Topic, now time.Time) ([]byte, error) {
	doc := backupDocument{
		BackupTime: now.Format(time.RFC3339),
		TotalCount: len(topics),
		Topics:     make([]backupTopic, 0, len(topics)),
	}
	for _, t := range topics {
		doc.Topics = append(doc.Topics, backupTopic{
			ID:         t.ID,
			Month:      t.Month,
			TypeID:     t.TypeID,
			Content:    t.Content,
			Options:    t.OptionSlice(),
			Answer:     t.Answer,
			Analysis:   t.Analysis,
			CategoryID: t.CategoryID,
			Region:     t.Region,
			CreatedAt:  t.CreatedAt,
		})
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	return data, nil
}

func encodeSQLBackup(topics []*domain.Topic, now time.Time) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- topic backup %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&sb, "-- total %d\n\n", len(topics))
	for _, t := range topics {
		options, err := json.Marshal(t.OptionSlice())
		if err != nil {
			return nil, fmt.Errorf("failed to encode options of topic %s: %w", t.ID, err)
		}
		fmt.Fprintf(&sb,
			"INSERT INTO topic (id, month, type_id, content, content_hash, options, answer, analysis, category_id, region, created_at) VALUES (%s, %d, %d, %s, %s, %s, %s, %s, %s, %s, %s);\n",
			sqlString(t.ID),
			t.Month,
			t.TypeID,
			sqlString(t.Content),
			sqlString(util.ContentHash(t.Content)),
			sqlString(string(options)),
			sqlString(t.Answer),
			sqlNullableString(t.Analysis),
			sqlNullableInt(t.CategoryID),
			sqlNullableString(t.Region),
			sqlTimestamp(t.CreatedAt),
		)
	}
	return []byte(sb.String()), nil
}

func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlNullableString(s string) string {
	if s == "" {
		return "NULL"
	}
	return sqlString(s)
}

func sqlNullableInt(v *int64) string {
	if v == nil {
		return "NULL"
	}
	return strconv.FormatInt(*v, 10)
}

func sqlTimestamp(t time.Time) string {
	return "TO_TIMESTAMP('" + t.Format("2006-01-02 15:04:05.000000") + "', 'YYYY-MM-DD HH24:MI:SS.FF6')"
}
