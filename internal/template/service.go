package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/auditlog"
	"github.com/sharath018/accreditation-data-backend/internal/schema"
	"github.com/sharath018/accreditation-data-backend/utils"
)

const flatColumnsTTL = 30 * time.Minute

type Service struct {
	Repo         *Repository
	AuditService auditlog.Service
}

func NewService(r *Repository, as auditlog.Service) *Service {
	return &Service{Repo: r, AuditService: as}
}

type CreateInput struct {
	CriteriaID uint
	Code       string
	Name       string
	Metadata   json.RawMessage
}

// Create validates the column schema before anything is persisted. The first
// TemplateVersion snapshot is written alongside the template.
func (s *Service) Create(in CreateInput, userID uint, ip string) (*Template, error) {
	in.Code = strings.ToLower(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" || in.Name == "" {
		return nil, &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "code", Reason: "template code and name are required"},
		}}
	}

	meta, err := schema.ParseMetadata(in.Metadata)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateMetadata(meta); err != nil {
		return nil, err
	}

	t := &Template{
		CriteriaID: in.CriteriaID,
		Code:       in.Code,
		Name:       in.Name,
		Metadata:   []byte(in.Metadata),
		CreatedBy:  userID,
	}
	if err := s.Repo.Create(t); err != nil {
		s.AuditService.LogAction(context.Background(), &userID, nil, "TEMPLATE_CREATE_FAILED",
			map[string]interface{}{"code": in.Code, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.AuditService.LogAction(context.Background(), &userID, nil, "TEMPLATE_CREATED",
		map[string]interface{}{"template_id": t.ID, "code": t.Code, "criteria_id": t.CriteriaID}, ip, "success")
	return t, nil
}

func (s *Service) GetByID(id uint) (Template, error) {
	t, err := s.Repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return t, &apperrors.NotFoundError{Resource: "template", ID: id}
	}
	return t, err
}

func (s *Service) GetByCriteria(criteriaID uint) ([]Template, error) {
	return s.Repo.GetByCriteria(criteriaID)
}

func (s *Service) GetByBoard(boardID uint) ([]Template, error) {
	return s.Repo.GetByBoard(boardID)
}

func (s *Service) GetAll() ([]Template, error) {
	return s.Repo.GetAll()
}

func (s *Service) GetVersions(templateID uint) ([]TemplateVersion, error) {
	if _, err := s.GetByID(templateID); err != nil {
		return nil, err
	}
	return s.Repo.GetVersions(templateID)
}

type UpdateInput struct {
	Name     string
	Metadata json.RawMessage // nil leaves the schema untouched
}

// Update renames and optionally replaces the column schema. Schema changes
// are refused once submissions exist, so captured data never drifts from the
// layout it was validated against.
func (s *Service) Update(id uint, in UpdateInput, userID uint, ip string) (*Template, error) {
	t, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if in.Metadata != nil {
		count, err := s.Repo.CountSubmissionsForTemplate(id)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &apperrors.ConflictError{
				Resource: "template",
				Blocking: count,
				Reason:   fmt.Sprintf("%d submissions already reference this template", count),
			}
		}

		meta, err := schema.ParseMetadata(in.Metadata)
		if err != nil {
			return nil, err
		}
		if err := schema.ValidateMetadata(meta); err != nil {
			return nil, err
		}
		t.Metadata = []byte(in.Metadata)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		t.Name = name
	}

	if err := s.Repo.UpdateWithVersion(&t, userID); err != nil {
		return nil, err
	}
	s.invalidateFlatCache(id)

	s.AuditService.LogAction(context.Background(), &userID, nil, "TEMPLATE_UPDATED",
		map[string]interface{}{"template_id": id, "schema_changed": in.Metadata != nil}, ip, "success")
	return &t, nil
}

// Delete is a protected delete: refused once any submission references the
// template.
func (s *Service) Delete(id uint, userID uint, ip string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	count, err := s.Repo.CountSubmissionsForTemplate(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &apperrors.ConflictError{
			Resource: "template",
			Blocking: count,
			Reason:   fmt.Sprintf("%d submissions already reference this template", count),
		}
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidateFlatCache(id)

	s.AuditService.LogAction(context.Background(), &userID, nil, "TEMPLATE_DELETED",
		map[string]interface{}{"template_id": id}, ip, "success")
	return nil
}

// FlatColumns returns the ordered leaf fields per section, redis-cached.
func (s *Service) FlatColumns(id uint) ([][]schema.FlatColumn, error) {
	key := flatCacheKey(id)
	if cached := utils.CacheGet(key); cached != "" {
		var flat [][]schema.FlatColumn
		if err := json.Unmarshal([]byte(cached), &flat); err == nil {
			return flat, nil
		}
		utils.CacheDelete(key)
	}

	t, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	meta, err := schema.ParseMetadata(t.Metadata)
	if err != nil {
		return nil, err
	}

	flat := schema.FlattenMetadata(meta)
	if data, err := json.Marshal(flat); err == nil {
		utils.CacheSet(key, string(data), flatColumnsTTL)
	}
	return flat, nil
}

func flatCacheKey(id uint) string {
	return fmt.Sprintf("template:%d:flat_columns", id)
}

func (s *Service) invalidateFlatCache(id uint) {
	utils.CacheDelete(flatCacheKey(id))
}
