package submission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharath018/accreditation-data-backend/internal/apperrors"
)

func TestCheckTransitionTable(t *testing.T) {
	cases := []struct {
		action string
		from   string
		ok     bool
	}{
		{ActionSubmitted, StatusDraft, true},
		{ActionSubmitted, StatusRejected, true},
		{ActionSubmitted, StatusSubmitted, false},
		{ActionSubmitted, StatusApproved, false},

		{ActionApproved, StatusSubmitted, true},
		{ActionApproved, StatusDraft, false},
		{ActionApproved, StatusApproved, false},

		{ActionRejected, StatusSubmitted, true},
		{ActionRejected, StatusDraft, false},
		{ActionRejected, StatusRejected, false},

		{ActionWithdrawn, StatusSubmitted, true},
		{ActionWithdrawn, StatusDraft, false},
		{ActionWithdrawn, StatusApproved, false},
	}

	for _, tc := range cases {
		err := checkTransition(tc.action, tc.from)
		if tc.ok {
			assert.NoError(t, err, "%s from %s", tc.action, tc.from)
			continue
		}
		require.Error(t, err, "%s from %s", tc.action, tc.from)
		var ite *apperrors.InvalidTransitionError
		require.ErrorAs(t, err, &ite)
		assert.Equal(t, tc.from, ite.From)
	}
}

func TestCheckTransitionUnknownAction(t *testing.T) {
	err := checkTransition("archived", StatusApproved)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransition(err))
}

func TestApplySubmitStampsSubmitterAndClearsReason(t *testing.T) {
	sub := DataSubmission{Status: StatusRejected, RejectionReason: "missing rows"}
	now := time.Now()

	applySubmit(&sub, 7, now)

	assert.Equal(t, StatusSubmitted, sub.Status)
	require.NotNil(t, sub.SubmittedBy)
	assert.Equal(t, uint(7), *sub.SubmittedBy)
	require.NotNil(t, sub.SubmittedAt)
	assert.Equal(t, now, *sub.SubmittedAt)
	assert.Empty(t, sub.RejectionReason)
}

func TestApplyApproveStampsVerifier(t *testing.T) {
	sub := DataSubmission{Status: StatusSubmitted}
	now := time.Now()

	applyApprove(&sub, 3, now)

	assert.Equal(t, StatusApproved, sub.Status)
	require.NotNil(t, sub.VerifiedBy)
	assert.Equal(t, uint(3), *sub.VerifiedBy)
	require.NotNil(t, sub.VerifiedAt)
}

func TestApplyRejectStampsVerifierAndReason(t *testing.T) {
	sub := DataSubmission{Status: StatusSubmitted}
	now := time.Now()

	applyReject(&sub, 3, "incomplete", now)

	assert.Equal(t, StatusRejected, sub.Status)
	assert.Equal(t, "incomplete", sub.RejectionReason)
	require.NotNil(t, sub.VerifiedBy, "a rejected submission must name its verifier")
	assert.Equal(t, uint(3), *sub.VerifiedBy)
	require.NotNil(t, sub.VerifiedAt)
	assert.Equal(t, now, *sub.VerifiedAt)
}

func TestApplyWithdrawClearsSubmitter(t *testing.T) {
	uid := uint(7)
	now := time.Now()
	sub := DataSubmission{Status: StatusSubmitted, SubmittedBy: &uid, SubmittedAt: &now}

	applyWithdraw(&sub)

	assert.Equal(t, StatusDraft, sub.Status)
	assert.Nil(t, sub.SubmittedBy)
	assert.Nil(t, sub.SubmittedAt)
}

func TestEditableStatuses(t *testing.T) {
	assert.True(t, editable(StatusDraft))
	assert.True(t, editable(StatusRejected))
	assert.False(t, editable(StatusSubmitted))
	assert.False(t, editable(StatusApproved))
}

func TestTargetStatusCoversEveryAction(t *testing.T) {
	for action := range allowedTransitions {
		_, ok := targetStatus[action]
		assert.True(t, ok, "no target status for action %q", action)
	}
	assert.Equal(t, StatusSubmitted, targetStatus[ActionSubmitted])
	assert.Equal(t, StatusDraft, targetStatus[ActionWithdrawn])
}
