package board

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

func (s *Service) CreateBoard(b *Board, userID uint, ip string) error {
	b.Code = strings.ToUpper(strings.TrimSpace(b.Code))
	b.Name = strings.TrimSpace(b.Name)
	if b.Code == "" || b.Name == "" {
		return &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "code", Reason: "board code and name are required"},
		}}
	}

	if err := s.Repo.CreateBoard(b); err != nil {
		s.AuditService.LogAction(context.Background(), &userID, nil, "BOARD_CREATE_FAILED",
			map[string]interface{}{"code": b.Code, "error": err.Error()}, ip, "failure")
		return err
	}

	s.AuditService.LogAction(context.Background(), &userID, nil, "BOARD_CREATED",
		map[string]interface{}{"board_id": b.ID, "code": b.Code, "name": b.Name}, ip, "success")
	return nil
}

func (s *Service) GetBoards() ([]Board, error) {
	return s.Repo.GetBoards()
}

func (s *Service) GetBoardByID(id uint) (Board, error) {
	b, err := s.Repo.GetBoardByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b, &apperrors.NotFoundError{Resource: "board", ID: id}
	}
	return b, err
}

// UpdateBoard is blocked once any criteria reference the board.
func (s *Service) UpdateBoard(b *Board, userID uint, ip string) error {
	count, err := s.Repo.CountCriteriaForBoard(b.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &apperrors.ConflictError{Resource: "board", Blocking: count,
			Reason: "board is immutable once criteria reference it"}
	}

	if err := s.Repo.UpdateBoard(b); err != nil {
		return err
	}
	s.AuditService.LogAction(context.Background(), &userID, nil, "BOARD_UPDATED",
		map[string]interface{}{"board_id": b.ID, "code": b.Code}, ip, "success")
	return nil
}

func (s *Service) CreateCriteria(cr *Criteria, userID uint, ip string) error {
	cr.Name = strings.TrimSpace(cr.Name)
	if cr.Name == "" || cr.Number <= 0 {
		return &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "number", Reason: "criteria number and name are required"},
		}}
	}
	if _, err := s.GetBoardByID(cr.BoardID); err != nil {
		return err
	}

	if err := s.Repo.CreateCriteria(cr); err != nil {
		s.AuditService.LogAction(context.Background(), &userID, nil, "CRITERIA_CREATE_FAILED",
			map[string]interface{}{"board_id": cr.BoardID, "number": cr.Number, "error": err.Error()}, ip, "failure")
		return err
	}

	s.AuditService.LogAction(context.Background(), &userID, nil, "CRITERIA_CREATED",
		map[string]interface{}{"criteria_id": cr.ID, "board_id": cr.BoardID, "number": cr.Number}, ip, "success")
	return nil
}

func (s *Service) GetCriteriaByBoard(boardID uint) ([]Criteria, error) {
	return s.Repo.GetCriteriaByBoard(boardID)
}

func (s *Service) GetCriteriaByID(id uint) (Criteria, error) {
	cr, err := s.Repo.GetCriteriaByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cr, &apperrors.NotFoundError{Resource: "criteria", ID: id}
	}
	return cr, err
}

func (s *Service) UpdateCriteria(cr *Criteria, userID uint, ip string) error {
	if _, err := s.GetCriteriaByID(cr.ID); err != nil {
		return err
	}
	if err := s.Repo.UpdateCriteria(cr); err != nil {
		return err
	}
	s.AuditService.LogAction(context.Background(), &userID, nil, "CRITERIA_UPDATED",
		map[string]interface{}{"criteria_id": cr.ID}, ip, "success")
	return nil
}

// DeleteCriteria refuses while templates still reference the criteria.
func (s *Service) DeleteCriteria(id uint, userID uint, ip string) error {
	if _, err := s.GetCriteriaByID(id); err != nil {
		return err
	}

	count, err := s.Repo.CountTemplatesForCriteria(id)
	if err != nil {
		return err
	}
	if count > 0 {
		s.AuditService.LogAction(context.Background(), &userID, nil, "CRITERIA_DELETE_BLOCKED",
			map[string]interface{}{"criteria_id": id, "templates": count}, ip, "failure")
		return &apperrors.ConflictError{Resource: "criteria", Blocking: count,
			Reason: "templates still reference this criteria"}
	}

	if err := s.Repo.DeleteCriteria(id); err != nil {
		return err
	}
	s.AuditService.LogAction(context.Background(), &userID, nil, "CRITERIA_DELETED",
		map[string]interface{}{"criteria_id": id}, ip, "success")
	return nil
}
