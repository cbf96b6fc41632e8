package submission

import (
	"time"

	"gorm.io/datatypes"

	"github.com/sharath018/accreditation-data-backend/internal/academicyear"
	"github.com/sharath018/accreditation-data-backend/internal/department"
	"github.com/sharath018/accreditation-data-backend/internal/template"
)

// Submission workflow states.
const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// Workflow actions recorded in SubmissionHistory.
const (
	ActionRowAdded   = "row_added"
	ActionRowUpdated = "row_updated"
	ActionRowDeleted = "row_deleted"
	ActionSubmitted  = "submitted"
	ActionApproved   = "approved"
	ActionRejected   = "rejected"
	ActionWithdrawn  = "withdrawn"
	ActionCarried    = "carried_forward"
)

// DataSubmission is one department's dataset for one template in one
// academic year. The triple is unique; GetOrCreate relies on the index.
type DataSubmission struct {
	ID             uint                      `gorm:"primaryKey" json:"id"`
	TemplateID     uint                      `gorm:"not null;uniqueIndex:idx_submission_scope" json:"template_id"`
	Template       template.Template         `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	DepartmentID   uint                      `gorm:"not null;uniqueIndex:idx_submission_scope" json:"department_id"`
	Department     department.Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	AcademicYearID uint                      `gorm:"not null;uniqueIndex:idx_submission_scope" json:"academic_year_id"`
	AcademicYear   academicyear.AcademicYear `gorm:"foreignKey:AcademicYearID" json:"academic_year,omitempty"`

	Status          string     `gorm:"size:20;not null;default:'draft';index" json:"status"`
	SubmittedBy     *uint      `json:"submitted_by"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	VerifiedBy      *uint      `json:"verified_by"`
	VerifiedAt      *time.Time `json:"verified_at"`
	RejectionReason string     `json:"rejection_reason"`

	CreatedBy uint      `json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DataSubmission) TableName() string {
	return "data_submissions"
}

// SubmissionData is one data row. RowNumber is 1-based and dense within
// (submission, section); the repository renumbers on delete to keep it so.
type SubmissionData struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SubmissionID uint           `gorm:"not null;index:idx_submission_section" json:"submission_id"`
	SectionIndex int            `gorm:"not null;index:idx_submission_section" json:"section_index"`
	RowNumber    int            `gorm:"not null" json:"row_number"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SubmissionData) TableName() string {
	return "submission_data"
}

// SubmissionHistory is the append-only trail of everything done to a
// submission. Diff carries the field-level change set for row edits.
type SubmissionHistory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	SubmissionID uint           `gorm:"not null;index" json:"submission_id"`
	Action       string         `gorm:"size:30;not null" json:"action"`
	UserID       uint           `gorm:"not null" json:"user_id"`
	Diff         datatypes.JSON `gorm:"type:jsonb" json:"diff,omitempty"`
	Details      string         `json:"details,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SubmissionHistory) TableName() string {
	return "submission_history"
}
