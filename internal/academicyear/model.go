package academicyear

import "time"

// Transition statuses shared by AcademicYear.TransitionStatus and
// AcademicYearTransition.Status.
const (
	TransitionPending    = "pending"
	TransitionInProgress = "in_progress"
	TransitionCompleted  = "completed"
	TransitionFailed     = "failed"
)

// AcademicYear is a reporting period. At most one year carries
// is_current = true; SetCurrentYear enforces that transactionally.
type AcademicYear struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:20;unique;not null" json:"name"` // e.g. "2023-24"
	StartDate        time.Time `gorm:"not null" json:"start_date"`
	EndDate          time.Time `gorm:"not null" json:"end_date"`
	IsCurrent        bool      `gorm:"default:false;index" json:"is_current"`
	TransitionStatus string    `gorm:"size:20;default:'pending'" json:"transition_status"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AcademicYear) TableName() string {
	return "academic_years"
}

// AcademicYearTransition is one attempt at moving data from one year into
// the next. Only one pending/in_progress transition may target a year.
type AcademicYearTransition struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	FromYearID  uint       `gorm:"not null;index" json:"from_year_id"`
	FromYear    AcademicYear `gorm:"foreignKey:FromYearID" json:"from_year,omitempty"`
	ToYearID    uint       `gorm:"not null;index" json:"to_year_id"`
	ToYear      AcademicYear `gorm:"foreignKey:ToYearID" json:"to_year,omitempty"`
	Status      string     `gorm:"size:20;default:'pending'" json:"status"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ErrorLog    string     `gorm:"type:text" json:"error_log"`
	ProcessedBy uint       `gorm:"not null" json:"processed_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AcademicYearTransition) TableName() string {
	return "academic_year_transitions"
}
