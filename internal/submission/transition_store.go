package submission

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/sharath018/accreditation-data-backend/internal/academicyear"
	"github.com/sharath018/accreditation-data-backend/internal/schema"
	"github.com/sharath018/accreditation-data-backend/internal/template"
)

// TransitionStore adapts the submission and template stores to the year
// transition worker.
type TransitionStore struct {
	Repo      *Repository
	Templates *template.Repository
}

var _ academicyear.SubmissionCloner = (*TransitionStore)(nil)

func NewTransitionStore(r *Repository, tr *template.Repository) *TransitionStore {
	return &TransitionStore{Repo: r, Templates: tr}
}

// ListTransitionTemplates returns every template whose metadata declares a
// transition mode. Templates with unparseable metadata fail the run rather
// than being skipped silently.
func (ts *TransitionStore) ListTransitionTemplates() ([]academicyear.TransitionTemplate, error) {
	templates, err := ts.Templates.GetAll()
	if err != nil {
		return nil, err
	}

	var out []academicyear.TransitionTemplate
	for _, t := range templates {
		meta, err := schema.ParseMetadata(t.Metadata)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", t.Code, err)
		}
		if meta.TransitionMode == schema.TransitionNone {
			continue
		}
		out = append(out, academicyear.TransitionTemplate{
			ID:          t.ID,
			Code:        t.Code,
			Mode:        meta.TransitionMode,
			CarryRules:  meta.CarryForwardRules,
			ResetFields: meta.ResetFields,
		})
	}
	return out, nil
}

func (ts *TransitionStore) ListApprovedSubmissions(templateID, yearID uint) ([]academicyear.ApprovedSubmission, error) {
	var subs []DataSubmission
	err := ts.Repo.DB.
		Where("template_id = ? AND academic_year_id = ? AND status = ?", templateID, yearID, StatusApproved).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	out := make([]academicyear.ApprovedSubmission, 0, len(subs))
	for _, s := range subs {
		out = append(out, academicyear.ApprovedSubmission{ID: s.ID, DepartmentID: s.DepartmentID})
	}
	return out, nil
}

// CreateDraft is the idempotent draft maker the transition uses for the new
// year. System-created drafts carry actor 0 semantics through createdBy.
func (ts *TransitionStore) CreateDraft(templateID, departmentID, yearID, actorID uint) (uint, error) {
	sub, _, err := ts.Repo.GetOrCreate(templateID, departmentID, yearID, actorID)
	if err != nil {
		return 0, err
	}
	return sub.ID, nil
}

// CopyRows clones the source rows into the target draft: only rows passing
// every carry rule survive, reset fields are cleared, and numbering restarts
// dense from 1 per section. The whole copy is one transaction.
func (ts *TransitionStore) CopyRows(fromSubmissionID, toSubmissionID uint, rules []schema.CarryRule, resetFields []string) (int, error) {
	rows, err := ts.Repo.GetRows(fromSubmissionID)
	if err != nil {
		return 0, err
	}

	reset := make(map[string]bool, len(resetFields))
	for _, f := range resetFields {
		reset[f] = true
	}

	copied := 0
	err = ts.Repo.DB.Transaction(func(tx *gorm.DB) error {
		// seed from existing counts so a re-run of a partially processed
		// transition keeps numbering dense
		type sectionCount struct {
			SectionIndex int
			Total        int
		}
		var existing []sectionCount
		if err := tx.Model(&SubmissionData{}).
			Select("section_index, COUNT(*) AS total").
			Where("submission_id = ?", toSubmissionID).
			Group("section_index").
			Scan(&existing).Error; err != nil {
			return err
		}
		nextRow := map[int]int{}
		for _, c := range existing {
			nextRow[c.SectionIndex] = c.Total
		}
		for _, row := range rows {
			var payload map[string]any
			if err := json.Unmarshal(row.Payload, &payload); err != nil {
				return fmt.Errorf("submission %d row %d: %w", fromSubmissionID, row.ID, err)
			}
			if !rowPasses(payload, rules) {
				continue
			}

			for field := range reset {
				delete(payload, field)
			}

			raw, err := json.Marshal(payload)
			if err != nil {
				return err
			}

			nextRow[row.SectionIndex]++
			clone := SubmissionData{
				SubmissionID: toSubmissionID,
				SectionIndex: row.SectionIndex,
				RowNumber:    nextRow[row.SectionIndex],
				Payload:      raw,
			}
			if err := tx.Create(&clone).Error; err != nil {
				return err
			}
			copied++
		}

		if copied > 0 {
			h := SubmissionHistory{
				SubmissionID: toSubmissionID,
				Action:       ActionCarried,
				Details:      fmt.Sprintf("%d rows carried forward from submission %d", copied, fromSubmissionID),
			}
			return tx.Create(&h).Error
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}

// rowPasses applies the carry rules: every rule must match, and an empty
// rule list carries everything.
func rowPasses(payload map[string]any, rules []schema.CarryRule) bool {
	for _, rule := range rules {
		val, ok := payload[rule.Field]
		if !ok {
			return false
		}
		str := fmt.Sprintf("%v", val)
		if len(rule.Equals) == 0 {
			continue
		}
		matched := false
		for _, want := range rule.Equals {
			if str == want {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
