package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
)

func newPendingVisit(t *testing.T) *Visit {
	t.Helper()
	v, err := NewVisit(id.NewVisitID(), id.NewVisitorID(), id.NewEmployeeID(), "quarterly vendor review", time.Now())
	require.NoError(t, err)
	return v
}

func TestNewVisit(t *testing.T) {
	t.Run("enters pending_approval", func(t *testing.T) {
		v := newPendingVisit(t)
		assert.Equal(t, StatusPendingApproval, v.Status)
		assert.Nil(t, v.CheckInTime)
		assert.Nil(t, v.ApprovedAt)
		assert.Empty(t, v.RejectionReason)
	})

	t.Run("requires purpose", func(t *testing.T) {
		_, err := NewVisit(id.NewVisitID(), id.NewVisitorID(), id.NewEmployeeID(), "  ", time.Now())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("requires references", func(t *testing.T) {
		_, err := NewVisit(id.NewVisitID(), id.VisitorID{}, id.NewEmployeeID(), "x", time.Now())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		_, err = NewVisit(id.NewVisitID(), id.NewVisitorID(), id.EmployeeID{}, "x", time.Now())
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestApprovalTransition(t *testing.T) {
	actor := id.NewUserID()
	now := time.Now()

	t.Run("approve stamps decision and check-in together", func(t *testing.T) {
		v := newPendingVisit(t)
		require.NoError(t, v.CanApprove())
		v.ApplyApproval(actor, now)

		assert.Equal(t, StatusCheckedIn, v.Status)
		assert.Equal(t, actor, v.ApprovedBy)
		require.NotNil(t, v.ApprovedAt)
		require.NotNil(t, v.CheckInTime)
		assert.True(t, v.CheckInTime.Equal(now))
		assert.Nil(t, v.CheckOutTime)
	})

	t.Run("approve and reject are mutually exclusive", func(t *testing.T) {
		v := newPendingVisit(t)
		v.ApplyApproval(actor, now)

		err := v.CanReject()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

		err = v.CanApprove()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	t.Run("reject stamps decision and reason, no check-in", func(t *testing.T) {
		v := newPendingVisit(t)
		require.NoError(t, v.CanReject())
		v.ApplyRejection(actor, "host unavailable", now)

		assert.Equal(t, StatusRejected, v.Status)
		assert.Equal(t, "host unavailable", v.RejectionReason)
		assert.Equal(t, actor, v.ApprovedBy)
		require.NotNil(t, v.ApprovedAt)
		assert.Nil(t, v.CheckInTime)
		assert.True(t, v.Status.Terminal())
	})
}

func TestCheckOutTransition(t *testing.T) {
	actor := id.NewUserID()

	t.Run("requires checked_in", func(t *testing.T) {
		v := newPendingVisit(t)
		err := v.CanCheckOut()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	t.Run("rejected visit cannot check out", func(t *testing.T) {
		v := newPendingVisit(t)
		v.ApplyRejection(actor, "no appointment", time.Now())
		assert.True(t, dErrors.HasCode(v.CanCheckOut(), dErrors.CodeInvalidState))
	})

	t.Run("checkout is terminal and ordered after check-in", func(t *testing.T) {
		v := newPendingVisit(t)
		checkIn := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
		v.ApplyApproval(actor, checkIn)

		require.NoError(t, v.CanCheckOut())
		v.ApplyCheckOut(checkIn.Add(95 * time.Minute))

		assert.Equal(t, StatusCheckedOut, v.Status)
		require.NotNil(t, v.CheckOutTime)
		assert.False(t, v.CheckOutTime.Before(*v.CheckInTime))
		assert.True(t, v.Status.Terminal())
		assert.True(t, dErrors.HasCode(v.CanCheckOut(), dErrors.CodeInvalidState))
	})

	t.Run("checkout clamps a backwards clock", func(t *testing.T) {
		v := newPendingVisit(t)
		checkIn := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
		v.ApplyApproval(actor, checkIn)
		v.ApplyCheckOut(checkIn.Add(-time.Minute))
		assert.True(t, v.CheckOutTime.Equal(checkIn))
	})
}

func TestDuration(t *testing.T) {
	actor := id.NewUserID()
	checkIn := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

	t.Run("checked out: check_out minus check_in", func(t *testing.T) {
		v := newPendingVisit(t)
		v.ApplyApproval(actor, checkIn)
		v.ApplyCheckOut(checkIn.Add(2*time.Hour + 35*time.Minute))

		d, ok := v.Duration(checkIn.Add(24 * time.Hour)) // "now" must not matter
		require.True(t, ok)
		assert.Equal(t, "2h 35m", FormatDuration(d))
	})

	t.Run("still checked in: now minus check_in", func(t *testing.T) {
		v := newPendingVisit(t)
		v.ApplyApproval(actor, checkIn)

		d, ok := v.Duration(checkIn.Add(59 * time.Minute))
		require.True(t, ok)
		assert.Equal(t, "0h 59m", FormatDuration(d))
	})

	t.Run("floors, never rounds", func(t *testing.T) {
		assert.Equal(t, "1h 59m", FormatDuration(time.Hour+59*time.Minute+59*time.Second))
		assert.Equal(t, "0h 0m", FormatDuration(30*time.Second))
	})

	t.Run("no duration before check-in", func(t *testing.T) {
		v := newPendingVisit(t)
		_, ok := v.Duration(time.Now())
		assert.False(t, ok)

		v2 := newPendingVisit(t)
		v2.ApplyRejection(actor, "declined", time.Now())
		_, ok = v2.Duration(time.Now())
		assert.False(t, ok)
	})
}
