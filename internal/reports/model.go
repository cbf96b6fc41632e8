package reports

import "time"

// Export kinds stored in ExportRecord.Kind.
const (
	KindTemplateExcel = "template_excel"
	KindBoardExcel    = "board_excel"
	KindStatusPDF     = "status_pdf"
)

// ExportRecord tracks a generated file kept on disk. StoredName carries a
// uuid suffix so repeated exports of the same scope never collide.
type ExportRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Kind           string    `gorm:"size:30;not null" json:"kind"`
	FileName       string    `gorm:"not null" json:"file_name"`
	StoredName     string    `gorm:"not null;unique" json:"stored_name"`
	TemplateID     *uint     `gorm:"index" json:"template_id,omitempty"`
	BoardID        *uint     `gorm:"index" json:"board_id,omitempty"`
	AcademicYearID uint      `gorm:"not null;index" json:"academic_year_id"`
	SizeBytes      int64     `json:"size_bytes"`
	CreatedBy      uint      `json:"created_by"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ExportRecord) TableName() string {
	return "export_records"
}

// StatusSummaryRow is one line of the PDF status report.
type StatusSummaryRow struct {
	TemplateCode   string
	TemplateName   string
	DepartmentName string
	Status         string
	RowCount       int64
	UpdatedAt      time.Time
}
