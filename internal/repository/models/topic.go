package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"szexam/internal/domain"
)

// OptionList is stored as a JSON array of {"key","content"} objects in a CLOB column.
type OptionList []domain.Option

// Value implements the driver.Valuer interface
func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (o *OptionList) Scan(value interface{}) error {
	if value == nil {
		*o = OptionList{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("OptionList Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*o = OptionList{}
		return nil
	}
	return json.Unmarshal(bytesToParse, (*[]domain.Option)(o))
}

// Topic is a row of the TOPIC table.
type Topic struct {
	ID          string         `db:"id"`
	Month       int            `db:"month"`
	TypeID      int            `db:"type_id"`
	Content     string         `db:"content"`
	ContentHash string         `db:"content_hash"`
	Options     OptionList     `db:"options"`
	Answer      string         `db:"answer"`
	Analysis    sql.NullString `db:"analysis"`
	CategoryID  sql.NullInt64  `db:"category_id"`
	Region      sql.NullString `db:"region"`
	CreatedAt   time.Time      `db:"created_at"`
}

// TopicCount is one row of a GROUP BY count query.
type TopicCount struct {
	Key   sql.NullString `db:"key"`
	Count int            `db:"count"`
}
