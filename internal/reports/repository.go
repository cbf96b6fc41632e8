package reports

import (
	"gorm.io/gorm"

	"github.com/sharath018/accreditation-data-backend/internal/submission"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ApprovedRows returns every data row of every approved submission for the
// template in the year, ordered so the export is stable: department, then
// section, then row number.
func (r *Repository) ApprovedRows(templateID, yearID uint) ([]submission.SubmissionData, error) {
	var rows []submission.SubmissionData
	err := r.DB.
		Joins("JOIN data_submissions ON data_submissions.id = submission_data.submission_id").
		Where("data_submissions.template_id = ? AND data_submissions.academic_year_id = ? AND data_submissions.status = ?",
			templateID, yearID, submission.StatusApproved).
		Order("data_submissions.department_id ASC, submission_data.section_index ASC, submission_data.row_number ASC").
		Find(&rows).Error
	return rows, err
}

// StatusSummary feeds the PDF report: one line per submission in the year.
func (r *Repository) StatusSummary(yearID uint) ([]StatusSummaryRow, error) {
	var out []StatusSummaryRow
	err := r.DB.
		Table("data_submissions").
		Select(`templates.code AS template_code,
			templates.name AS template_name,
			departments.name AS department_name,
			data_submissions.status AS status,
			COUNT(submission_data.id) AS row_count,
			data_submissions.updated_at AS updated_at`).
		Joins("JOIN templates ON templates.id = data_submissions.template_id").
		Joins("JOIN departments ON departments.id = data_submissions.department_id").
		Joins("LEFT JOIN submission_data ON submission_data.submission_id = data_submissions.id").
		Where("data_submissions.academic_year_id = ?", yearID).
		Group("templates.code, templates.name, departments.name, data_submissions.status, data_submissions.updated_at").
		Order("templates.code ASC, departments.name ASC").
		Scan(&out).Error
	return out, err
}

func (r *Repository) CreateExportRecord(rec *ExportRecord) error {
	return r.DB.Create(rec).Error
}

func (r *Repository) GetExportRecords(yearID uint, limit, offset int) ([]ExportRecord, int64, error) {
	q := r.DB.Model(&ExportRecord{})
	if yearID != 0 {
		q = q.Where("academic_year_id = ?", yearID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []ExportRecord
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&recs).Error
	return recs, total, err
}

func (r *Repository) GetExportRecordByID(id uint) (ExportRecord, error) {
	var rec ExportRecord
	err := r.DB.First(&rec, id).Error
	return rec, err
}
