package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControl_BeginFlipsOptimistically(t *testing.T) {
	ctrl := NewControl(Status{IsLiked: false, TotalLikes: 5})
	assert.Equal(t, Idle, ctrl.State())

	shown, err := ctrl.Begin()
	require.NoError(t, err)
	assert.Equal(t, Status{IsLiked: true, TotalLikes: 6}, shown)
	assert.Equal(t, Pending, ctrl.State())
	assert.False(t, ctrl.Enabled())
}

func TestControl_BeginWhilePending(t *testing.T) {
	ctrl := NewControl(Status{IsLiked: false, TotalLikes: 5})
	_, err := ctrl.Begin()
	require.NoError(t, err)

	shown, err := ctrl.Begin()
	assert.ErrorIs(t, err, ErrTogglePending)
	assert.Equal(t, Status{IsLiked: true, TotalLikes: 6}, shown, "second click changes nothing")
	assert.Equal(t, Pending, ctrl.State())
}

func TestControl_SucceedShowsCommittedStatus(t *testing.T) {
	ctrl := NewControl(Status{IsLiked: false, TotalLikes: 5})
	_, _ = ctrl.Begin()

	// Someone else liked meanwhile; the server's count wins.
	require.NoError(t, ctrl.Succeed(Status{IsLiked: true, TotalLikes: 7}))
	assert.Equal(t, Succeeded, ctrl.State())
	assert.Equal(t, Status{IsLiked: true, TotalLikes: 7}, ctrl.Status())
	assert.True(t, ctrl.Enabled())
}

func TestControl_FailRestoresSnapshotExactly(t *testing.T) {
	for _, initial := range []Status{
		{IsLiked: false, TotalLikes: 5},
		{IsLiked: true, TotalLikes: 6},
		{IsLiked: true, TotalLikes: 0},
	} {
		ctrl := NewControl(initial)
		_, _ = ctrl.Begin()

		cause := errors.New("network down")
		require.NoError(t, ctrl.Fail(cause))

		assert.Equal(t, Failed, ctrl.State())
		assert.Equal(t, initial, ctrl.Status())
		assert.Equal(t, cause, ctrl.Err())
	}
}

func TestControl_RetryAfterFailure(t *testing.T) {
	ctrl := NewControl(Status{IsLiked: false, TotalLikes: 5})
	_, _ = ctrl.Begin()
	_ = ctrl.Fail(errors.New("timeout"))

	shown, err := ctrl.Begin()
	require.NoError(t, err)
	assert.Equal(t, Status{IsLiked: true, TotalLikes: 6}, shown)
	assert.Nil(t, ctrl.Err())
}

func TestControl_CompleteOutsidePending(t *testing.T) {
	ctrl := NewControl(Status{})

	assert.ErrorIs(t, ctrl.Succeed(Status{IsLiked: true, TotalLikes: 1}), ErrNotPending)
	assert.ErrorIs(t, ctrl.Fail(errors.New("late")), ErrNotPending)
	assert.Equal(t, Idle, ctrl.State())
	assert.Equal(t, Status{}, ctrl.Status())
}

func TestControl_RefreshIgnoredWhilePending(t *testing.T) {
	ctrl := NewControl(Status{IsLiked: false, TotalLikes: 5})
	assert.True(t, ctrl.Refresh(Status{IsLiked: false, TotalLikes: 8}))
	assert.Equal(t, Status{IsLiked: false, TotalLikes: 8}, ctrl.Status())

	_, _ = ctrl.Begin()
	assert.False(t, ctrl.Refresh(Status{IsLiked: false, TotalLikes: 8}))
	assert.Equal(t, Status{IsLiked: true, TotalLikes: 9}, ctrl.Status())
}

func TestStatus_FlippedNeverNegative(t *testing.T) {
	assert.Equal(t, Status{IsLiked: false, TotalLikes: 0}, Status{IsLiked: true, TotalLikes: 0}.Flipped())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "succeeded", Succeeded.String())
	assert.Equal(t, "failed", Failed.String())
}
