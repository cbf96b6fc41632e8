package academicyear

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/auditlog"
	"github.com/sharath018/accreditation-data-backend/internal/schema"
)

// TransitionTemplate is the slice of a template the transition run needs.
type TransitionTemplate struct {
	ID          uint
	Code        string
	Mode        string // schema.TransitionContinuous | schema.TransitionCarryForward
	CarryRules  []schema.CarryRule
	ResetFields []string
}

// ApprovedSubmission identifies one approved submission to clone from.
type ApprovedSubmission struct {
	ID           uint
	DepartmentID uint
}

// SubmissionCloner is the narrow view of the submission store the
// transition needs. The submission package implements it.
type SubmissionCloner interface {
	// ListTransitionTemplates returns every template whose metadata
	// declares a transition mode.
	ListTransitionTemplates() ([]TransitionTemplate, error)
	// ListApprovedSubmissions returns the approved submissions of one
	// template in one year.
	ListApprovedSubmissions(templateID, yearID uint) ([]ApprovedSubmission, error)
	// CreateDraft makes a fresh empty draft submission for the triple;
	// it must not fail when one already exists (idempotent get-or-create).
	CreateDraft(templateID, departmentID, yearID, actorID uint) (uint, error)
	// CopyRows clones the source submission's rows into the target draft,
	// keeping only rows passing the carry rules and clearing resetFields.
	// Returns the number of rows copied.
	CopyRows(fromSubmissionID, toSubmissionID uint, rules []schema.CarryRule, resetFields []string) (int, error)
}

// Dispatcher hands a started transition to the background worker.
type Dispatcher interface {
	DispatchTransition(ctx context.Context, transitionID uint) error
}

type TransitionService struct {
	Repo         *Repository
	Cloner       SubmissionCloner
	Dispatcher   Dispatcher
	AuditService auditlog.Service
}

func NewTransitionService(r *Repository, cloner SubmissionCloner, d Dispatcher, as auditlog.Service) *TransitionService {
	return &TransitionService{Repo: r, Cloner: cloner, Dispatcher: d, AuditService: as}
}

// StartTransition runs only the guard checks and the status flip, inside
// one transaction, then dispatches the long-running processing to the
// background worker. Safe to call from a request handler.
func (s *TransitionService) StartTransition(ctx context.Context, fromYearID, toYearID, actorID uint, ip string) (*AcademicYearTransition, error) {
	if fromYearID == toYearID {
		return nil, &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "to_year_id", Reason: "source and target year must differ"},
		}}
	}

	t, err := s.Repo.CreateTransitionGuarded(fromYearID, toYearID, actorID)
	if err != nil {
		s.AuditService.LogAction(ctx, &actorID, nil, "YEAR_TRANSITION_START_FAILED",
			map[string]interface{}{"from_year_id": fromYearID, "to_year_id": toYearID, "error": err.Error()},
			ip, "failure")
		switch {
		case errors.Is(err, errFromYearNotCompleted):
			return nil, &apperrors.ValidationError{Fields: []apperrors.FieldError{
				{Field: "from_year_id", Reason: err.Error()},
			}}
		case errors.Is(err, errTransitionAlreadyActive):
			return nil, &apperrors.ValidationError{Fields: []apperrors.FieldError{
				{Field: "to_year_id", Reason: err.Error()},
			}}
		}
		return nil, err
	}

	s.AuditService.LogAction(ctx, &actorID, nil, "YEAR_TRANSITION_STARTED",
		map[string]interface{}{"transition_id": t.ID, "from_year_id": fromYearID, "to_year_id": toYearID},
		ip, "success")

	if err := s.Dispatcher.DispatchTransition(ctx, t.ID); err != nil {
		// the transition stays in_progress; the operator can re-dispatch
		log.Printf("⚠️ Failed to dispatch transition %d: %v", t.ID, err)
	}

	return t, nil
}

// ProcessTransition runs the full year-end move. Designed to run outside
// the request path. Any failure flips the transition to failed, rolls the
// target year back to pending and propagates the error.
func (s *TransitionService) ProcessTransition(transitionID uint) error {
	t, err := s.Repo.GetTransitionByID(transitionID)
	if err != nil {
		return &apperrors.NotFoundError{Resource: "transition", ID: transitionID}
	}
	if t.Status != TransitionInProgress {
		return &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "status", Reason: fmt.Sprintf("transition is %s, expected %s", t.Status, TransitionInProgress)},
		}}
	}

	if err := s.runTransition(&t); err != nil {
		if markErr := s.Repo.MarkTransitionFailed(t.ID, t.ToYearID, err.Error()); markErr != nil {
			log.Printf("❌ Failed to record transition %d failure: %v", t.ID, markErr)
		}
		s.AuditService.LogAction(context.Background(), &t.ProcessedBy, nil, "YEAR_TRANSITION_FAILED",
			map[string]interface{}{"transition_id": t.ID, "error": err.Error()}, "", "failure")
		return &apperrors.TransitionFailure{TransitionID: t.ID, Err: err}
	}

	if err := s.Repo.MarkTransitionCompleted(t.ID, t.ToYearID); err != nil {
		return err
	}
	s.AuditService.LogAction(context.Background(), &t.ProcessedBy, nil, "YEAR_TRANSITION_COMPLETED",
		map[string]interface{}{"transition_id": t.ID, "from_year_id": t.FromYearID, "to_year_id": t.ToYearID},
		"", "success")
	log.Printf("✅ Year transition %d completed (%d -> %d)", t.ID, t.FromYearID, t.ToYearID)
	return nil
}

func (s *TransitionService) runTransition(t *AcademicYearTransition) error {
	templates, err := s.Cloner.ListTransitionTemplates()
	if err != nil {
		return fmt.Errorf("list transition templates: %w", err)
	}

	for _, tpl := range templates {
		approved, err := s.Cloner.ListApprovedSubmissions(tpl.ID, t.FromYearID)
		if err != nil {
			return fmt.Errorf("template %s: list approved submissions: %w", tpl.Code, err)
		}

		for _, sub := range approved {
			draftID, err := s.Cloner.CreateDraft(tpl.ID, sub.DepartmentID, t.ToYearID, t.ProcessedBy)
			if err != nil {
				return fmt.Errorf("template %s dept %d: create draft: %w", tpl.Code, sub.DepartmentID, err)
			}

			if tpl.Mode != schema.TransitionCarryForward {
				continue // continuous templates start empty
			}
			copied, err := s.Cloner.CopyRows(sub.ID, draftID, tpl.CarryRules, tpl.ResetFields)
			if err != nil {
				return fmt.Errorf("template %s dept %d: copy rows: %w", tpl.Code, sub.DepartmentID, err)
			}
			log.Printf("📋 Transition %d: copied %d rows for template %s dept %d", t.ID, copied, tpl.Code, sub.DepartmentID)
		}
	}
	return nil
}

func (s *TransitionService) GetTransitions() ([]AcademicYearTransition, error) {
	return s.Repo.GetTransitions()
}

func (s *TransitionService) GetTransitionByID(id uint) (AcademicYearTransition, error) {
	t, err := s.Repo.GetTransitionByID(id)
	if err != nil {
		return t, &apperrors.NotFoundError{Resource: "transition", ID: id}
	}
	return t, nil
}
