package academicyear

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/auditlog"
)

var (
	errFromYearNotCompleted    = errors.New("source year has not completed its own transition")
	errTransitionAlreadyActive = errors.New("another transition is already active for the target year")
)

type Service struct {
	Repo         *Repository
	AuditService auditlog.Service
}

func NewService(r *Repository, as auditlog.Service) *Service {
	return &Service{Repo: r, AuditService: as}
}

func (s *Service) Create(y *AcademicYear, userID uint, ip string) error {
	y.Name = strings.TrimSpace(y.Name)
	if y.Name == "" {
		return &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "name", Reason: "academic year name is required"},
		}}
	}
	if !y.EndDate.After(y.StartDate) {
		return &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "end_date", Reason: "end date must be after start date"},
		}}
	}
	if y.TransitionStatus == "" {
		y.TransitionStatus = TransitionPending
	}

	wantCurrent := y.IsCurrent
	y.IsCurrent = false
	if err := s.Repo.Create(y); err != nil {
		s.AuditService.LogAction(context.Background(), &userID, nil, "ACADEMIC_YEAR_CREATE_FAILED",
			map[string]interface{}{"name": y.Name, "error": err.Error()}, ip, "failure")
		return err
	}
	// the single-current invariant lives in SetCurrent, never in Create
	if wantCurrent {
		if err := s.SetCurrent(y.ID, userID, ip); err != nil {
			return err
		}
		y.IsCurrent = true
	}

	s.AuditService.LogAction(context.Background(), &userID, nil, "ACADEMIC_YEAR_CREATED",
		map[string]interface{}{"year_id": y.ID, "name": y.Name}, ip, "success")
	return nil
}

func (s *Service) GetAll() ([]AcademicYear, error) {
	return s.Repo.GetAll()
}

func (s *Service) GetByID(id uint) (AcademicYear, error) {
	y, err := s.Repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return y, &apperrors.NotFoundError{Resource: "academic year", ID: id}
	}
	return y, err
}

func (s *Service) GetCurrent() (AcademicYear, error) {
	y, err := s.Repo.GetCurrent()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return y, &apperrors.NotFoundError{Resource: "current academic year"}
	}
	return y, err
}

// SetCurrent marks one year current, clearing every other year in the same
// transaction.
func (s *Service) SetCurrent(yearID uint, userID uint, ip string) error {
	if _, err := s.GetByID(yearID); err != nil {
		return err
	}
	if err := s.Repo.SetCurrent(yearID); err != nil {
		s.AuditService.LogAction(context.Background(), &userID, nil, "ACADEMIC_YEAR_SET_CURRENT_FAILED",
			map[string]interface{}{"year_id": yearID, "error": err.Error()}, ip, "failure")
		return err
	}
	s.AuditService.LogAction(context.Background(), &userID, nil, "ACADEMIC_YEAR_SET_CURRENT",
		map[string]interface{}{"year_id": yearID}, ip, "success")
	return nil
}
