package template

import (
	"time"

	"gorm.io/datatypes"

	"github.com/sharath018/accreditation-data-backend/internal/board"
)

// Template is a data-collection format under one criterion. Its column layout
// lives in Metadata as schema.Metadata JSON; the board is derived through the
// criteria relation.
type Template struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CriteriaID uint           `gorm:"not null;index;uniqueIndex:idx_criteria_code" json:"criteria_id"`
	Criteria   board.Criteria `gorm:"foreignKey:CriteriaID" json:"criteria,omitempty"`
	Code       string         `gorm:"size:50;not null;uniqueIndex:idx_criteria_code" json:"code"`
	Name       string         `gorm:"not null" json:"name"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;not null" json:"metadata"`
	CreatedBy  uint           `json:"created_by"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Template) TableName() string {
	return "templates"
}

// TemplateVersion is an append-only snapshot of a template's metadata, written
// on every create, metadata update and spreadsheet import.
type TemplateVersion struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	TemplateID uint           `gorm:"not null;index" json:"template_id"`
	Version    int            `gorm:"not null" json:"version"`
	Metadata   datatypes.JSON `gorm:"type:jsonb;not null" json:"metadata"`
	CreatedBy  uint           `json:"created_by"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (TemplateVersion) TableName() string {
	return "template_versions"
}
