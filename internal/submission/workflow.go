package submission

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/auth"
	"github.com/sharath018/accreditation-data-backend/utils"
)

// EventsTopic carries workflow state changes to the notification consumer.
const EventsTopic = "submission-events"

// Event is the kafka payload published on every workflow transition.
type Event struct {
	SubmissionID uint      `json:"submission_id"`
	TemplateID   uint      `json:"template_id"`
	DepartmentID uint      `json:"department_id"`
	YearID       uint      `json:"academic_year_id"`
	Action       string    `json:"action"`
	ActorID      uint      `json:"actor_id"`
	Reason       string    `json:"reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// allowedTransitions is the complete workflow. Anything not listed is an
// InvalidTransitionError, so new states cannot sneak in by accident.
var allowedTransitions = map[string]map[string]bool{
	ActionSubmitted: {StatusDraft: true, StatusRejected: true},
	ActionApproved:  {StatusSubmitted: true},
	ActionRejected:  {StatusSubmitted: true},
	ActionWithdrawn: {StatusSubmitted: true},
}

var targetStatus = map[string]string{
	ActionSubmitted: StatusSubmitted,
	ActionApproved:  StatusApproved,
	ActionRejected:  StatusRejected,
	ActionWithdrawn: StatusDraft,
}

func checkTransition(action, from string) error {
	if !allowedTransitions[action][from] {
		return &apperrors.InvalidTransitionError{
			From:   from,
			To:     targetStatus[action],
			Reason: fmt.Sprintf("%s is not allowed from status %q", action, from),
		}
	}
	return nil
}

// The apply functions carry the full side effects of each action, so every
// caller stamps the same fields.

func applySubmit(sub *DataSubmission, userID uint, now time.Time) {
	sub.Status = StatusSubmitted
	sub.SubmittedBy = &userID
	sub.SubmittedAt = &now
	sub.RejectionReason = ""
}

func applyApprove(sub *DataSubmission, reviewerID uint, now time.Time) {
	sub.Status = StatusApproved
	sub.VerifiedBy = &reviewerID
	sub.VerifiedAt = &now
}

// applyReject records the reviewer the same way approve does; a rejected
// submission must name who verified it.
func applyReject(sub *DataSubmission, reviewerID uint, reason string, now time.Time) {
	sub.Status = StatusRejected
	sub.RejectionReason = reason
	sub.VerifiedBy = &reviewerID
	sub.VerifiedAt = &now
}

func applyWithdraw(sub *DataSubmission) {
	sub.Status = StatusDraft
	sub.SubmittedBy = nil
	sub.SubmittedAt = nil
}

// Submit moves a draft or rejected submission into review. Every required
// section must contain at least one row.
func (s *Service) Submit(submissionID uint, user auth.User, ip string) (DataSubmission, error) {
	sub, err := s.GetByID(submissionID, user)
	if err != nil {
		return sub, err
	}
	if !user.OwnsDepartment(sub.DepartmentID) && user.Role.RoleName != auth.RoleAdmin {
		return sub, &apperrors.ForbiddenError{Reason: "only the owning department can submit"}
	}
	if err := checkTransition(ActionSubmitted, sub.Status); err != nil {
		return sub, err
	}

	if err := s.checkRequiredSections(&sub); err != nil {
		return sub, err
	}

	applySubmit(&sub, user.ID, time.Now())
	if err := s.Repo.Update(&sub); err != nil {
		return sub, err
	}

	s.recordHistory(sub.ID, ActionSubmitted, user.ID, emptyDiff(), "submitted for review")
	s.AuditService.LogAction(context.Background(), &user.ID, &sub.ID, "SUBMISSION_SUBMITTED",
		map[string]interface{}{"template_id": sub.TemplateID}, ip, "success")
	s.publishEvent(&sub, ActionSubmitted, user.ID, "")
	return sub, nil
}

// Approve locks the submission. Reviewer only.
func (s *Service) Approve(submissionID uint, user auth.User, ip string) (DataSubmission, error) {
	sub, err := s.GetByID(submissionID, user)
	if err != nil {
		return sub, err
	}
	if !user.IsReviewer() {
		return sub, &apperrors.ForbiddenError{Reason: "only a reviewer can approve submissions"}
	}
	if err := checkTransition(ActionApproved, sub.Status); err != nil {
		return sub, err
	}

	applyApprove(&sub, user.ID, time.Now())
	if err := s.Repo.Update(&sub); err != nil {
		return sub, err
	}

	s.recordHistory(sub.ID, ActionApproved, user.ID, emptyDiff(), "approved")
	s.AuditService.LogAction(context.Background(), &user.ID, &sub.ID, "SUBMISSION_APPROVED",
		map[string]interface{}{"template_id": sub.TemplateID}, ip, "success")
	s.publishEvent(&sub, ActionApproved, user.ID, "")
	return sub, nil
}

// Reject sends the submission back with a mandatory reason. Reviewer only.
func (s *Service) Reject(submissionID uint, reason string, user auth.User, ip string) (DataSubmission, error) {
	sub, err := s.GetByID(submissionID, user)
	if err != nil {
		return sub, err
	}
	if !user.IsReviewer() {
		return sub, &apperrors.ForbiddenError{Reason: "only a reviewer can reject submissions"}
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return sub, &apperrors.ValidationError{Fields: []apperrors.FieldError{
			{Field: "reason", Reason: "a rejection reason is required"},
		}}
	}
	if err := checkTransition(ActionRejected, sub.Status); err != nil {
		return sub, err
	}

	applyReject(&sub, user.ID, reason, time.Now())
	if err := s.Repo.Update(&sub); err != nil {
		return sub, err
	}

	s.recordHistory(sub.ID, ActionRejected, user.ID, emptyDiff(), "rejected: "+reason)
	s.AuditService.LogAction(context.Background(), &user.ID, &sub.ID, "SUBMISSION_REJECTED",
		map[string]interface{}{"template_id": sub.TemplateID, "reason": reason}, ip, "success")
	s.publishEvent(&sub, ActionRejected, user.ID, reason)
	return sub, nil
}

// Withdraw pulls a submission back to draft before it is reviewed. Only the
// owning department can withdraw.
func (s *Service) Withdraw(submissionID uint, user auth.User, ip string) (DataSubmission, error) {
	sub, err := s.GetByID(submissionID, user)
	if err != nil {
		return sub, err
	}
	if !user.OwnsDepartment(sub.DepartmentID) {
		return sub, &apperrors.ForbiddenError{Reason: "only the owning department can withdraw"}
	}
	if err := checkTransition(ActionWithdrawn, sub.Status); err != nil {
		return sub, err
	}

	applyWithdraw(&sub)
	if err := s.Repo.Update(&sub); err != nil {
		return sub, err
	}

	s.recordHistory(sub.ID, ActionWithdrawn, user.ID, emptyDiff(), "withdrawn back to draft")
	s.AuditService.LogAction(context.Background(), &user.ID, &sub.ID, "SUBMISSION_WITHDRAWN",
		map[string]interface{}{"template_id": sub.TemplateID}, ip, "success")
	s.publishEvent(&sub, ActionWithdrawn, user.ID, "")
	return sub, nil
}

// checkRequiredSections enforces the submit precondition: every section the
// template marks required must hold at least one row.
func (s *Service) checkRequiredSections(sub *DataSubmission) error {
	meta, err := s.metadataOf(sub)
	if err != nil {
		return err
	}

	counts, err := s.Repo.CountRowsPerSection(sub.ID)
	if err != nil {
		return err
	}

	verr := &apperrors.ValidationError{}
	for i, sec := range meta.Sections {
		if sec.Required && counts[i] == 0 {
			name := firstHeader(sec.Headers)
			verr.Add(fmt.Sprintf("section_%d", i),
				fmt.Sprintf("required section %q has no rows", name))
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (s *Service) publishEvent(sub *DataSubmission, action string, actorID uint, reason string) {
	ev := Event{
		SubmissionID: sub.ID,
		TemplateID:   sub.TemplateID,
		DepartmentID: sub.DepartmentID,
		YearID:       sub.AcademicYearID,
		Action:       action,
		ActorID:      actorID,
		Reason:       reason,
		OccurredAt:   time.Now(),
	}
	if err := utils.PublishMessage(context.Background(), EventsTopic, ev); err != nil {
		log.Printf("⚠️ Failed to publish %s event for submission %d: %v", action, sub.ID, err)
	}
}
