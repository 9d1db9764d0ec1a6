package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringArray is a custom type for handling string arrays in JSONB
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	ID          uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description *string     `gorm:"type:text" json:"description"`
	Ingredients StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps       StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	Tags        StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Servings    *int        `json:"servings"`
	PrepMinutes *int        `json:"prep_minutes"`
	CookMinutes *int        `json:"cook_minutes"`
	ImagePath   *string     `gorm:"size:255" json:"image_path"`
	SourceURL   *string     `gorm:"size:255" json:"source_url"`
	IsPublic    bool        `gorm:"not null;default:true" json:"is_public"`
	OwnerID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"owner_id"`
	OwnerName   string      `gorm:"size:255" json:"owner_name"`
	Version     int         `gorm:"not null;default:1" json:"version"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Version == 0 {
		r.Version = 1
	}
	return nil
}

// CanView reports whether the recipe is visible to the given viewer.
// A nil viewer is an anonymous request.
func (r *Recipe) CanView(viewerID *uuid.UUID) bool {
	if r.IsPublic {
		return true
	}
	return viewerID != nil && *viewerID == r.OwnerID
}

// CanEdit reports whether the given viewer owns the recipe.
func (r *Recipe) CanEdit(viewerID *uuid.UUID) bool {
	return viewerID != nil && *viewerID == r.OwnerID
}
