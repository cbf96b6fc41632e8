package department

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/auditlog"
)

type Service struct {
	Repo         *Repository
	AuditService auditlog.Service
}

func NewService(r *Repository, as auditlog.Service) *Service {
	return &Service{Repo: r, AuditService: as}
}

func (s *Service) Create(d *Department, userID uint, ip string) error {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
	if d.Code == "" || d.Name == "" {
		return &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "code", Reason: "department code and name are required"},
		}}
	}

	if err := s.Repo.Create(d); err != nil {
		s.AuditService.LogAction(context.Background(), &userID, nil, "DEPARTMENT_CREATE_FAILED",
			map[string]interface{}{"code": d.Code, "error": err.Error()}, ip, "failure")
		return err
	}

	s.AuditService.LogAction(context.Background(), &userID, nil, "DEPARTMENT_CREATED",
		map[string]interface{}{"department_id": d.ID, "code": d.Code}, ip, "success")
	return nil
}

func (s *Service) GetAll() ([]Department, error) {
	return s.Repo.GetAll()
}

func (s *Service) GetByID(id uint) (Department, error) {
	d, err := s.Repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return d, &apperrors.NotFoundError{Resource: "department", ID: id}
	}
	return d, err
}

func (s *Service) Update(d *Department, userID uint, ip string) error {
	if _, err := s.GetByID(d.ID); err != nil {
		return err
	}
	if err := s.Repo.Update(d); err != nil {
		return err
	}
	s.AuditService.LogAction(context.Background(), &userID, nil, "DEPARTMENT_UPDATED",
		map[string]interface{}{"department_id": d.ID, "code": d.Code}, ip, "success")
	return nil
}

// Delete refuses while submissions still reference the department.
func (s *Service) Delete(id uint, userID uint, ip string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	count, err := s.Repo.CountSubmissions(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &apperrors.ConflictError{Resource: "department", Blocking: count,
			Reason: "submissions still reference this department"}
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.AuditService.LogAction(context.Background(), &userID, nil, "DEPARTMENT_DELETED",
		map[string]interface{}{"department_id": id}, ip, "success")
	return nil
}
