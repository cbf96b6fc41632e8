package submission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/auditlog"
	"github.com/sharath018/accreditation-data-backend/internal/auth"
	"github.com/sharath018/accreditation-data-backend/internal/schema"
	"github.com/sharath018/accreditation-data-backend/internal/template"
)

type Service struct {
	Repo         *Repository
	Templates    *template.Service
	AuditService auditlog.Service
}

func NewService(r *Repository, ts *template.Service, as auditlog.Service) *Service {
	return &Service{Repo: r, Templates: ts, AuditService: as}
}

// canAccess gates department-scoped reads and writes. Admins and reviewers
// see every department; heads and faculty only their own.
func canAccess(user auth.User, departmentID uint) bool {
	switch user.Role.RoleName {
	case auth.RoleAdmin, auth.RoleIQACDirector:
		return true
	default:
		return user.OwnsDepartment(departmentID)
	}
}

// editable reports whether row mutations are allowed in the current state.
func editable(status string) bool {
	return status == StatusDraft || status == StatusRejected
}

// GetOrCreate is the idempotent entry point the data-entry screen calls:
// the first visit creates the draft, every later visit returns it.
func (s *Service) GetOrCreate(templateID, departmentID, yearID uint, user auth.User, ip string) (DataSubmission, bool, error) {
	if !canAccess(user, departmentID) {
		return DataSubmission{}, false, &apperrors.ForbiddenError{Reason: "you can only enter data for your own department"}
	}

	// template must exist before a draft is hung off it
	if _, err := s.Templates.GetByID(templateID); err != nil {
		return DataSubmission{}, false, err
	}

	sub, created, err := s.Repo.GetOrCreate(templateID, departmentID, yearID, user.ID)
	if err != nil {
		return sub, false, err
	}

	if created {
		s.AuditService.LogAction(context.Background(), &user.ID, &sub.ID, "SUBMISSION_CREATED",
			map[string]interface{}{"template_id": templateID, "department_id": departmentID, "academic_year_id": yearID},
			ip, "success")
	}
	return sub, created, nil
}

func (s *Service) GetByID(id uint, user auth.User) (DataSubmission, error) {
	sub, err := s.Repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sub, &apperrors.NotFoundError{Resource: "submission", ID: id}
	}
	if err != nil {
		return sub, err
	}
	if !canAccess(user, sub.DepartmentID) {
		return sub, &apperrors.NotFoundError{Resource: "submission", ID: id}
	}
	return sub, nil
}

// List backs both the department dashboard and the reviewer queue.
func (s *Service) List(f ListFilter, user auth.User) ([]DataSubmission, int64, error) {
	// non-privileged users are pinned to their own department
	if user.Role.RoleName != auth.RoleAdmin && user.Role.RoleName != auth.RoleIQACDirector {
		if user.DepartmentID == nil {
			return nil, 0, &apperrors.ValidationError{Fields: []apperrors.FieldError{
				{Field: "department_id", Reason: "user has no department"},
			}}
		}
		f.DepartmentID = *user.DepartmentID
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.Repo.List(f)
}

func (s *Service) GetRows(submissionID uint, user auth.User) ([]SubmissionData, error) {
	if _, err := s.GetByID(submissionID, user); err != nil {
		return nil, err
	}
	return s.Repo.GetRows(submissionID)
}

func (s *Service) GetHistory(submissionID uint, user auth.User) ([]SubmissionHistory, error) {
	if _, err := s.GetByID(submissionID, user); err != nil {
		return nil, err
	}
	return s.Repo.GetHistory(submissionID)
}

func (s *Service) metadataOf(sub *DataSubmission) (*schema.Metadata, error) {
	if len(sub.Template.Metadata) == 0 {
		t, err := s.Templates.GetByID(sub.TemplateID)
		if err != nil {
			return nil, err
		}
		sub.Template = t
	}
	return schema.ParseMetadata(sub.Template.Metadata)
}

func emptyDiff() schema.DiffResult { return schema.DiffResult{} }

func firstHeader(headers []string) string {
	if len(headers) > 0 {
		return headers[0]
	}
	return "(unnamed)"
}

// sectionFor resolves the schema section a row belongs to.
func (s *Service) sectionFor(sub *DataSubmission, sectionIndex int) (*schema.Section, error) {
	meta, err := s.metadataOf(sub)
	if err != nil {
		return nil, err
	}
	if sectionIndex < 0 || sectionIndex >= len(meta.Sections) {
		return nil, &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "section_index", Reason: fmt.Sprintf("template has %d sections", len(meta.Sections))},
		}}
	}
	return &meta.Sections[sectionIndex], nil
}

// mutableSubmission loads the submission and rejects row edits outside
// draft/rejected or from other departments' users.
func (s *Service) mutableSubmission(submissionID uint, user auth.User) (DataSubmission, error) {
	sub, err := s.GetByID(submissionID, user)
	if err != nil {
		return sub, err
	}
	if user.Role.RoleName == auth.RoleIQACDirector && !user.OwnsDepartment(sub.DepartmentID) {
		// reviewers review; they do not edit other departments' data
		return sub, &apperrors.ForbiddenError{Reason: "reviewers cannot edit submission data"}
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

// AddRow validates the payload against the section schema and appends it at
// the next row number.
func (s *Service) AddRow(submissionID uint, sectionIndex int, payload map[string]any, user auth.User, ip string) (SubmissionData, error) {
	sub, err := s.mutableSubmission(submissionID, user)
	if err != nil {
		return SubmissionData{}, err
	}

	sec, err := s.sectionFor(&sub, sectionIndex)
	if err != nil {
		return SubmissionData{}, err
	}
	if err := schema.ValidateRow(sec, payload); err != nil {
		return SubmissionData{}, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return SubmissionData{}, err
	}

	row, err := s.Repo.AddRow(submissionID, sectionIndex, raw)
	if err != nil {
		return row, err
	}

	s.recordHistory(sub.ID, ActionRowAdded, user.ID,
		schema.Diff(map[string]any{}, payload),
		fmt.Sprintf("section %d row %d added", sectionIndex, row.RowNumber))
	s.AuditService.LogAction(context.Background(), &user.ID, &sub.ID, "SUBMISSION_ROW_ADDED",
		map[string]interface{}{"section_index": sectionIndex, "row_number": row.RowNumber}, ip, "success")
	return row, nil
}

// UpdateRow re-validates the whole payload, not just changed fields.
func (s *Service) UpdateRow(submissionID, rowID uint, payload map[string]any, user auth.User, ip string) (SubmissionData, error) {
	sub, err := s.mutableSubmission(submissionID, user)
	if err != nil {
		return SubmissionData{}, err
	}

	row, err := s.Repo.GetRow(rowID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && row.SubmissionID != submissionID) {
		return SubmissionData{}, &apperrors.NotFoundError{Resource: "submission row", ID: rowID}
	}
	if err != nil {
		return SubmissionData{}, err
	}

	sec, err := s.sectionFor(&sub, row.SectionIndex)
	if err != nil {
		return SubmissionData{}, err
	}
	if err := schema.ValidateRow(sec, payload); err != nil {
		return SubmissionData{}, err
	}

	var oldPayload map[string]any
	_ = json.Unmarshal(row.Payload, &oldPayload)

	raw, err := json.Marshal(payload)
	if err != nil {
		return SubmissionData{}, err
	}
	row.Payload = raw
	if err := s.Repo.UpdateRow(&row); err != nil {
		return row, err
	}

	s.recordHistory(sub.ID, ActionRowUpdated, user.ID,
		schema.Diff(oldPayload, payload),
		fmt.Sprintf("section %d row %d updated", row.SectionIndex, row.RowNumber))
	s.AuditService.LogAction(context.Background(), &user.ID, &sub.ID, "SUBMISSION_ROW_UPDATED",
		map[string]interface{}{"row_id": rowID}, ip, "success")
	return row, nil
}

// DeleteRow removes a row and renumbers the rest of its section.
func (s *Service) DeleteRow(submissionID, rowID uint, user auth.User, ip string) error {
	sub, err := s.mutableSubmission(submissionID, user)
	if err != nil {
		return err
	}

	row, err := s.Repo.GetRow(rowID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && row.SubmissionID != submissionID) {
		return &apperrors.NotFoundError{Resource: "submission row", ID: rowID}
	}
	if err != nil {
		return err
	}

	deleted, err := s.Repo.DeleteRowAndRenumber(rowID)
	if err != nil {
		return err
	}

	var oldPayload map[string]any
	_ = json.Unmarshal(deleted.Payload, &oldPayload)

	s.recordHistory(sub.ID, ActionRowDeleted, user.ID,
		schema.Diff(oldPayload, map[string]any{}),
		fmt.Sprintf("section %d row %d deleted", deleted.SectionIndex, deleted.RowNumber))
	s.AuditService.LogAction(context.Background(), &user.ID, &sub.ID, "SUBMISSION_ROW_DELETED",
		map[string]interface{}{"row_id": rowID}, ip, "success")
	return nil
}

func (s *Service) recordHistory(submissionID uint, action string, userID uint, diff schema.DiffResult, details string) {
	var raw []byte
	if !diff.Empty() {
		raw, _ = json.Marshal(diff)
	}
	h := SubmissionHistory{
		SubmissionID: submissionID,
		Action:       action,
		UserID:       userID,
		Diff:         raw,
		Details:      details,
	}
	if err := s.Repo.AddHistory(&h); err != nil {
		// history must never block the data path
		log.Printf("⚠️ history append failed for submission %d: %v", submissionID, err)
	}
}
