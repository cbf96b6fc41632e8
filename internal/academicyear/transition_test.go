package academicyear

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
	"github.com/sharath018/accreditation-data-backend/internal/schema"
)

type copyCall struct {
	fromID, toID uint
	rules        []schema.CarryRule
	resetFields  []string
}

// fakeCloner records every call so the tests can assert the exact clone
// plan the transition produced.
type fakeCloner struct {
	templates []TransitionTemplate
	approved  map[uint][]ApprovedSubmission // templateID -> submissions

	drafts    []string // "tpl/dept/year"
	copies    []copyCall
	nextDraft uint

	listErr error
	copyErr error
}

func (f *fakeCloner) ListTransitionTemplates() ([]TransitionTemplate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.templates, nil
}

func (f *fakeCloner) ListApprovedSubmissions(templateID, yearID uint) ([]ApprovedSubmission, error) {
	return f.approved[templateID], nil
}

func (f *fakeCloner) CreateDraft(templateID, departmentID, yearID, actorID uint) (uint, error) {
	f.drafts = append(f.drafts, fmt.Sprintf("%d/%d/%d", templateID, departmentID, yearID))
	f.nextDraft++
	return f.nextDraft, nil
}

func (f *fakeCloner) CopyRows(fromID, toID uint, rules []schema.CarryRule, resetFields []string) (int, error) {
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	f.copies = append(f.copies, copyCall{fromID: fromID, toID: toID, rules: rules, resetFields: resetFields})
	return 3, nil
}

func TestRunTransitionContinuousTemplatesStartEmpty(t *testing.T) {
	cloner := &fakeCloner{
		templates: []TransitionTemplate{
			{ID: 10, Code: "criteria1_courses", Mode: schema.TransitionContinuous},
		},
		approved: map[uint][]ApprovedSubmission{
			10: {{ID: 100, DepartmentID: 1}, {ID: 101, DepartmentID: 2}},
		},
	}
	svc := &TransitionService{Cloner: cloner}

	err := svc.runTransition(&AcademicYearTransition{ID: 1, FromYearID: 5, ToYearID: 6, ProcessedBy: 9})
	require.NoError(t, err)

	assert.Equal(t, []string{"10/1/6", "10/2/6"}, cloner.drafts)
	assert.Empty(t, cloner.copies, "continuous templates must not copy rows")
}

func TestRunTransitionCarryForwardCopiesWithRules(t *testing.T) {
	rules := []schema.CarryRule{{Field: "status", Equals: []string{"ongoing"}}}
	cloner := &fakeCloner{
		templates: []TransitionTemplate{
			{ID: 20, Code: "criteria3_projects", Mode: schema.TransitionCarryForward,
				CarryRules: rules, ResetFields: []string{"remarks"}},
		},
		approved: map[uint][]ApprovedSubmission{
			20: {{ID: 200, DepartmentID: 4}},
		},
	}
	svc := &TransitionService{Cloner: cloner}

	err := svc.runTransition(&AcademicYearTransition{ID: 2, FromYearID: 5, ToYearID: 6, ProcessedBy: 9})
	require.NoError(t, err)

	require.Len(t, cloner.copies, 1)
	call := cloner.copies[0]
	assert.Equal(t, uint(200), call.fromID)
	assert.Equal(t, uint(1), call.toID)
	assert.Equal(t, rules, call.rules)
	assert.Equal(t, []string{"remarks"}, call.resetFields)
}

func TestRunTransitionPropagatesClonerErrors(t *testing.T) {
	cloner := &fakeCloner{listErr: errors.New("boom")}
	svc := &TransitionService{Cloner: cloner}

	err := svc.runTransition(&AcademicYearTransition{ID: 3, FromYearID: 5, ToYearID: 6})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunTransitionCopyFailureNamesTemplate(t *testing.T) {
	cloner := &fakeCloner{
		templates: []TransitionTemplate{
			{ID: 30, Code: "criteria5_awards", Mode: schema.TransitionCarryForward},
		},
		approved: map[uint][]ApprovedSubmission{
			30: {{ID: 300, DepartmentID: 7}},
		},
		copyErr: errors.New("deadlock"),
	}
	svc := &TransitionService{Cloner: cloner}

	err := svc.runTransition(&AcademicYearTransition{ID: 4, FromYearID: 5, ToYearID: 6})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "criteria5_awards")
}

func TestStartTransitionRejectsSameYear(t *testing.T) {
	svc := &TransitionService{}

	_, err := svc.StartTransition(context.Background(), 5, 5, 1, "127.0.0.1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
