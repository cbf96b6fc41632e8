package submission

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// GetOrCreate returns the submission for the (template, department, year)
// triple, creating an empty draft when none exists. The unique index on the
// triple resolves concurrent creates: the loser re-reads the winner's row.
func (r *Repository) GetOrCreate(templateID, departmentID, yearID, createdBy uint) (DataSubmission, bool, error) {
	var sub DataSubmission

	find := func() error {
		return r.DB.
			Where("template_id = ? AND department_id = ? AND academic_year_id = ?",
				templateID, departmentID, yearID).
			First(&sub).Error
	}

	err := find()
	if err == nil {
		return sub, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return sub, false, err
	}

	sub = DataSubmission{
		TemplateID:     templateID,
		DepartmentID:   departmentID,
		AcademicYearID: yearID,
		Status:         StatusDraft,
		CreatedBy:      createdBy,
	}
	if err := r.DB.Create(&sub).Error; err != nil {
		// lost the race: someone else inserted the triple first
		if ferr := find(); ferr == nil {
			return sub, false, nil
		}
		return sub, false, err
	}
	return sub, true, nil
}

func (r *Repository) GetByID(id uint) (DataSubmission, error) {
	var sub DataSubmission
	err := r.DB.
		Preload("Template").
		Preload("Template.Criteria").
		Preload("Template.Criteria.Board").
		Preload("Department").
		Preload("AcademicYear").
		First(&sub, id).Error
	return sub, err
}

// ListFilter narrows the review-queue listing.
type ListFilter struct {
	Status       string
	DepartmentID uint
	TemplateID   uint
	YearID       uint
	Limit        int
	Offset       int
}

func (r *Repository) List(f ListFilter) ([]DataSubmission, int64, error) {
	q := r.DB.Model(&DataSubmission{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DepartmentID != 0 {
		q = q.Where("department_id = ?", f.DepartmentID)
	}
	if f.TemplateID != 0 {
		q = q.Where("template_id = ?", f.TemplateID)
	}
	if f.YearID != 0 {
		q = q.Where("academic_year_id = ?", f.YearID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []DataSubmission
	err := q.
		Preload("Template").
		Preload("Department").
		Preload("AcademicYear").
		Order("updated_at DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&items).Error
	return items, total, err
}

func (r *Repository) Update(sub *DataSubmission) error {
	return r.DB.Save(sub).Error
}

// ====== rows ======

// AddRow appends a row at count+1 for the section. The submission row is
// locked for the duration so concurrent appends cannot pick the same number.
func (r *Repository) AddRow(submissionID uint, sectionIndex int, payload []byte) (SubmissionData, error) {
	var row SubmissionData
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := lockEditable(tx, submissionID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&SubmissionData{}).
			Where("submission_id = ? AND section_index = ?", submissionID, sectionIndex).
			Count(&count).Error; err != nil {
			return err
		}

		row = SubmissionData{
			SubmissionID: submissionID,
			SectionIndex: sectionIndex,
			RowNumber:    int(count) + 1,
			Payload:      payload,
		}
		return tx.Create(&row).Error
	})
	return row, err
}

func (r *Repository) GetRow(rowID uint) (SubmissionData, error) {
	var row SubmissionData
	err := r.DB.First(&row, rowID).Error
	return row, err
}

func (r *Repository) UpdateRow(row *SubmissionData) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := lockEditable(tx, row.SubmissionID); err != nil {
			return err
		}
		return tx.Save(row).Error
	})
}

// lockEditable takes the submission's FOR UPDATE lock and re-checks that
// rows may still change. The service checks the status too, but only before
// the transaction starts; a submit landing in between would otherwise slip
// a row into a submission already under review.
func lockEditable(tx *gorm.DB, submissionID uint) (DataSubmission, error) {
	var sub DataSubmission
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sub, submissionID).Error; err != nil {
		return sub, err
	}
	if !editable(sub.Status) {
		return sub, &apperrors.InvalidTransitionError{
			From:   sub.Status,
			To:     sub.Status,
			Reason: "rows can only be changed while the submission is draft or rejected",
		}
	}
	return sub, nil
}

// DeleteRowAndRenumber removes the row and shifts every later row in the
// same section down by one, keeping numbering dense. One transaction, rows
// locked through the submission row.
func (r *Repository) DeleteRowAndRenumber(rowID uint) (SubmissionData, error) {
	var row SubmissionData
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, rowID).Error; err != nil {
			return err
		}

		if _, err := lockEditable(tx, row.SubmissionID); err != nil {
			return err
		}

		// the first read ran before the lock; while this transaction
		// waited, a concurrent delete may have renumbered the section.
		// Re-read so the shift below uses the row's current number.
		if err := tx.First(&row, rowID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&SubmissionData{}, rowID).Error; err != nil {
			return err
		}

		return tx.Model(&SubmissionData{}).
			Where("submission_id = ? AND section_index = ? AND row_number > ?",
				row.SubmissionID, row.SectionIndex, row.RowNumber).
			UpdateColumn("row_number", gorm.Expr("row_number - 1")).Error
	})
	return row, err
}

func (r *Repository) GetRows(submissionID uint) ([]SubmissionData, error) {
	var rows []SubmissionData
	err := r.DB.
		Where("submission_id = ?", submissionID).
		Order("section_index ASC, row_number ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) GetSectionRows(submissionID uint, sectionIndex int) ([]SubmissionData, error) {
	var rows []SubmissionData
	err := r.DB.
		Where("submission_id = ? AND section_index = ?", submissionID, sectionIndex).
		Order("row_number ASC").
		Find(&rows).Error
	return rows, err
}

// CountRowsPerSection backs the submit precondition on required sections.
func (r *Repository) CountRowsPerSection(submissionID uint) (map[int]int64, error) {
	type sectionCount struct {
		SectionIndex int
		Total        int64
	}
	var counts []sectionCount
	err := r.DB.Model(&SubmissionData{}).
		Select("section_index, COUNT(*) AS total").
		Where("submission_id = ?", submissionID).
		Group("section_index").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	out := make(map[int]int64, len(counts))
	for _, c := range counts {
		out[c.SectionIndex] = c.Total
	}
	return out, nil
}

// ====== history ======

func (r *Repository) AddHistory(h *SubmissionHistory) error {
	return r.DB.Create(h).Error
}

func (r *Repository) GetHistory(submissionID uint) ([]SubmissionHistory, error) {
	var items []SubmissionHistory
	err := r.DB.
		Where("submission_id = ?", submissionID).
		Order("created_at DESC, id DESC").
		Find(&items).Error
	return items, err
}
