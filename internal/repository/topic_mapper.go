package repository

import (
	"fmt"

	"szexam/internal/domain"
	"szexam/internal/repository/models"
	"szexam/internal/util"
)

func toModelTopic(t *domain.Topic) *models.Topic {
	if t == nil {
		return nil
	}
	return &models.Topic{
		ID:          t.ID,
		Month:       t.Month,
		TypeID:      t.TypeID,
		Content:     t.Content,
		ContentHash: util.ContentHash(t.Content),
		Options:     models.OptionList(t.OptionSlice()),
		Answer:      t.Answer,
		Analysis:    util.StringToNullString(t.Analysis),
		CategoryID:  util.Int64PtrToNullInt64(t.CategoryID),
		Region:      util.StringToNullString(t.Region),
		CreatedAt:   t.CreatedAt,
	}
}

func toDomainTopic(m *models.Topic) (*domain.Topic, error) {
	if m == nil {
		return nil, nil
	}
	if len(m.Options) != domain.NumOptions {
		return nil, fmt.Errorf("topic %s has %d options, want %d", m.ID, len(m.Options), domain.NumOptions)
	}
	t := &domain.Topic{
		ID:         m.ID,
		Month:      m.Month,
		TypeID:     m.TypeID,
		Content:    m.Content,
		Answer:     m.Answer,
		Analysis:   m.Analysis.String,
		CategoryID: util.NullInt64ToPtr(m.CategoryID),
		Region:     m.Region.String,
		CreatedAt:  m.CreatedAt,
	}
	copy(t.Options[:], m.Options)
	return t, nil
}
