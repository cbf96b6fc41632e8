package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/sharath018/accreditation-data-backend/internal/auth"
	"github.com/sharath018/accreditation-data-backend/internal/submission"
	"github.com/sharath018/accreditation-data-backend/internal/template"
	"github.com/sharath018/accreditation-data-backend/utils"
)

type Service struct {
	Repo      *Repository
	Users     auth.Repository
	Templates *template.Service
}

func NewService(r *Repository, users auth.Repository, ts *template.Service) *Service {
	return &Service{Repo: r, Users: users, Templates: ts}
}

// HandleSubmissionEvent fans one workflow event out to the right audience:
// submitted goes to the reviewers, decisions go back to the department.
func (s *Service) HandleSubmissionEvent(ctx context.Context, ev submission.Event) error {
	templateName := fmt.Sprintf("template %d", ev.TemplateID)
	if t, err := s.Templates.GetByID(ev.TemplateID); err == nil {
		templateName = t.Name
	}

	var (
		recipients []uint
		title      string
		body       string
		err        error
	)

	switch ev.Action {
	case submission.ActionSubmitted:
		recipients, err = s.Users.GetUserIDsByRole(auth.RoleIQACDirector)
		title = "Submission awaiting review"
		body = fmt.Sprintf("%q has been submitted for review.", templateName)

	case submission.ActionApproved:
		recipients, err = s.Users.GetDepartmentUserIDs(ev.DepartmentID)
		title = "Submission approved"
		body = fmt.Sprintf("Your %q submission has been approved.", templateName)

	case submission.ActionRejected:
		recipients, err = s.Users.GetDepartmentUserIDs(ev.DepartmentID)
		title = "Submission rejected"
		body = fmt.Sprintf("Your %q submission was rejected: %s", templateName, ev.Reason)

	case submission.ActionWithdrawn:
		recipients, err = s.Users.GetUserIDsByRole(auth.RoleIQACDirector)
		title = "Submission withdrawn"
		body = fmt.Sprintf("The %q submission was withdrawn before review.", templateName)

	default:
		return nil
	}
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	// in-app entries
	items := make([]InAppNotification, 0, len(recipients))
	subID := ev.SubmissionID
	for _, uid := range recipients {
		items = append(items, InAppNotification{
			UserID:       uid,
			Title:        title,
			Body:         body,
			SubmissionID: &subID,
			Action:       ev.Action,
		})
	}
	if err := s.Repo.CreateBatch(items); err != nil {
		return err
	}

	// email, fire and forget
	if emails, err := s.Users.GetUserEmailsByIDs(recipients); err == nil && len(emails) > 0 {
		utils.SendBulkEmailsAsync(emails, title, body)
	}

	// push
	s.sendPush(ctx, recipients, title, body, map[string]string{
		"submission_id": fmt.Sprint(ev.SubmissionID),
		"action":        ev.Action,
	})
	return nil
}

func (s *Service) sendPush(ctx context.Context, userIDs []uint, title, body string, data map[string]string) {
	if !utils.IsFCMEnabled() {
		return
	}

	tokens, err := s.Repo.GetTokensForUsers(userIDs)
	if err != nil || len(tokens) == 0 {
		return
	}

	raw := make([]string, 0, len(tokens))
	for _, t := range tokens {
		raw = append(raw, t.Token)
	}

	dead, err := utils.SendPushToTokens(ctx, raw, title, body, data)
	if err != nil {
		log.Printf("⚠️ FCM push failed: %v", err)
		return
	}
	if len(dead) > 0 {
		if err := s.Repo.DeleteTokens(dead); err != nil {
			log.Printf("⚠️ Failed to prune %d dead FCM tokens: %v", len(dead), err)
		}
	}
}

func (s *Service) GetForUser(userID uint, unreadOnly bool, limit, offset int) ([]InAppNotification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.GetForUser(userID, unreadOnly, limit, offset)
}

func (s *Service) MarkRead(userID, notificationID uint) error {
	return s.Repo.MarkRead(userID, notificationID)
}

func (s *Service) MarkAllRead(userID uint) error {
	return s.Repo.MarkAllRead(userID)
}

func (s *Service) RegisterDeviceToken(userID uint, token, platform string) error {
	return s.Repo.UpsertDeviceToken(&FCMDeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
}
