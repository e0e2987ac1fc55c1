package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Category is the closed set of prompt categories. CategoryGeneral is the
// designated catch-all and the default for anything that fails validation.
type Category string

const (
	CategoryGeneral      Category = "general"
	CategoryWriting      Category = "writing"
	CategoryCoding       Category = "coding"
	CategoryMarketing    Category = "marketing"
	CategoryProductivity Category = "productivity"
	CategoryEducation    Category = "education"
	CategoryCreative     Category = "creative"
)

// Categories lists every valid category in a fixed order, catch-all first.
var Categories = []Category{
	CategoryGeneral,
	CategoryWriting,
	CategoryCoding,
	CategoryMarketing,
	CategoryProductivity,
	CategoryEducation,
	CategoryCreative,
}

// ParseCategory validates a raw category string against the closed set.
// Parameters:
//   - raw: candidate category value.
// Returns:
//   - Category: the matching category, or CategoryGeneral when raw is
//     outside the set.
//   - bool: true when raw was a valid category.
func ParseCategory(raw string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == raw {
			return c, true
		}
	}
	return CategoryGeneral, false
}

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Prompt represents one stored prompt in the library.
// Content is never empty; Title is at most 100 characters and Content at
// most 5000, enforced upstream by the extraction engine.
type Prompt struct {
	ID          string      `gorm:"type:text;primaryKey" json:"id"`
	Title       string      `gorm:"type:text;not null;index:idx_prompts_title" json:"title"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	Category    Category    `gorm:"type:text;index:idx_prompts_category;default:general" json:"category"`
	SourceLabel string      `gorm:"column:source_label;type:text;index:idx_prompts_source" json:"source_label"`
	Tags        StringArray `gorm:"type:text" json:"tags"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Prompt.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Prompt) TableName() string {
	return "prompts"
}
