package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"szexam/internal/domain"
)

// importDocument is the wrapped import form, {"topics": [...]}. Backups use the same shape.
type importDocument struct {
	Topics []domain.Candidate `json:"topics"`
}

// DecodeCandidates reads import records from r. Both a bare JSON array and an object with a
// "topics" array are accepted.
func DecodeCandidates(r io.Reader) ([]domain.Candidate, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import data: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, domain.NewInvalidInputError("import data is empty")
	}

	if data[0] == '[' {
		var candidates []domain.Candidate
		if err := json.Unmarshal(data, &candidates); err != nil {
			return nil, domain.NewError(domain.ErrInvalidInput, "malformed import array", err)
		}
		return candidates, nil
	}

	var doc importDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.NewError(domain.ErrInvalidInput, "malformed import document", err)
	}
	if doc.Topics == nil {
		return nil, domain.NewInvalidInputError(`import document has no "topics" array`)
	}
	return doc.Topics, nil
}
