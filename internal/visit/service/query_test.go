package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/internal/access"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
)

func (f *fixture) registerNamed(t *testing.T, ctx context.Context, name, phone string) *RegisteredVisit {
	t.Helper()
	input := validInput(f.host.ID)
	input.Visitor.FullName = name
	input.Visitor.Phone = phone
	registered, err := f.service.RegisterVisit(ctx, f.reception, input)
	require.NoError(t, err)
	return registered
}

func TestPendingApprovals(t *testing.T) {
	ctx := context.Background()

	t.Run("oldest request first with display fields", func(t *testing.T) {
		f := newFixture(t)
		base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

		first := f.registerNamed(t, requestcontext.WithTime(ctx, base), "First Guest", "555-0001")
		second := f.registerNamed(t, requestcontext.WithTime(ctx, base.Add(time.Minute)), "Second Guest", "555-0002")

		pending, err := f.service.PendingApprovals(ctx, f.cso)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, first.Visit.ID, pending[0].Visit.ID)
		assert.Equal(t, "First Guest", pending[0].VisitorName)
		assert.Equal(t, "Dana Fisher", pending[0].EmployeeName)
		assert.Equal(t, second.Visit.ID, pending[1].Visit.ID)
	})

	t.Run("reception may not view the queue", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.PendingApprovals(ctx, f.reception)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestActiveVisits(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, time.Time) {
		f := newFixture(t)
		base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

		names := []struct {
			name, phone string
			checkIn     time.Time
		}{
			{"Asha Rao", "555-0100", base},
			{"Ben Ortiz", "555-0200", base.Add(time.Hour)},
		}
		for _, n := range names {
			registered := f.registerNamed(t, requestcontext.WithTime(ctx, base), n.name, n.phone)
			_, err := f.service.ApproveVisit(requestcontext.WithTime(ctx, n.checkIn), f.cso, registered.Visit.ID)
			require.NoError(t, err)
		}
		return f, base
	}

	t.Run("latest check-in first with live duration", func(t *testing.T) {
		f, base := setup(t)
		now := base.Add(time.Hour + 59*time.Minute)

		active, err := f.service.ActiveVisits(requestcontext.WithTime(ctx, now), f.reception, "")
		require.NoError(t, err)
		require.Len(t, active, 2)
		assert.Equal(t, "Ben Ortiz", active[0].VisitorName)
		assert.Equal(t, "0h 59m", active[0].Duration)
		assert.Equal(t, "Asha Rao", active[1].VisitorName)
		assert.Equal(t, "1h 59m", active[1].Duration)
	})

	t.Run("search matches name, phone, and host, case-insensitively", func(t *testing.T) {
		f, _ := setup(t)

		byName, err := f.service.ActiveVisits(ctx, f.reception, "asha")
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "Asha Rao", byName[0].VisitorName)

		byPhone, err := f.service.ActiveVisits(ctx, f.reception, "0200")
		require.NoError(t, err)
		require.Len(t, byPhone, 1)
		assert.Equal(t, "Ben Ortiz", byPhone[0].VisitorName)

		byHost, err := f.service.ActiveVisits(ctx, f.reception, "FISHER")
		require.NoError(t, err)
		assert.Len(t, byHost, 2, "both guests visit Dana Fisher")

		nobody, err := f.service.ActiveVisits(ctx, f.reception, "zz-no-match")
		require.NoError(t, err)
		assert.Empty(t, nobody)
	})

	t.Run("cso may not view active visits", func(t *testing.T) {
		f, _ := setup(t)
		_, err := f.service.ActiveVisits(ctx, f.cso, "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()

	t.Run("counts reflect the store, today starts at local midnight", func(t *testing.T) {
		f := newFixture(t)
		midnight := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

		yesterday := f.registerNamed(t, requestcontext.WithTime(ctx, midnight.Add(-2*time.Hour)), "Old Guest", "555-0001")
		_, err := f.service.RejectVisit(ctx, f.cso, yesterday.Visit.ID, "no appointment")
		require.NoError(t, err)

		today := f.registerNamed(t, requestcontext.WithTime(ctx, midnight.Add(9*time.Hour)), "Morning Guest", "555-0002")
		_, err = f.service.ApproveVisit(ctx, f.cso, today.Visit.ID)
		require.NoError(t, err)

		done := f.registerNamed(t, requestcontext.WithTime(ctx, midnight.Add(10*time.Hour)), "Done Guest", "555-0003")
		_, err = f.service.ApproveVisit(ctx, f.cso, done.Visit.ID)
		require.NoError(t, err)
		_, err = f.service.CheckOutVisit(ctx, f.reception, done.Visit.ID)
		require.NoError(t, err)

		f.registerNamed(t, requestcontext.WithTime(ctx, midnight.Add(11*time.Hour)), "Waiting Guest", "555-0004")

		stats, err := f.service.Stats(requestcontext.WithTime(ctx, midnight.Add(12*time.Hour)), f.admin)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalVisitors)
		assert.Equal(t, 1, stats.CurrentlyCheckedIn)
		assert.Equal(t, 1, stats.PendingApprovals)
		assert.Equal(t, 3, stats.VisitorsToday, "yesterday's registration is excluded")
		assert.Equal(t, 1, stats.TotalCheckedOut)
		assert.Equal(t, 1, stats.TotalRejected)
	})

	t.Run("admin only", func(t *testing.T) {
		f := newFixture(t)
		for _, actor := range []access.Actor{f.reception, f.cso} {
			_, err := f.service.Stats(ctx, actor)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
		}
		_, err := f.service.Stats(ctx, access.Actor{ID: id.NewUserID(), Role: "visitor"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestRecentActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first, default and cap limits", func(t *testing.T) {
		f := newFixture(t)
		base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
		for i := 0; i < 12; i++ {
			f.registerNamed(t, requestcontext.WithTime(ctx, base.Add(time.Duration(i)*time.Minute)), "Guest", "555-0100")
		}

		recent, err := f.service.RecentActivity(ctx, f.admin, 0)
		require.NoError(t, err)
		assert.Len(t, recent, 10, "limit defaults to 10")
		assert.True(t, recent[0].Visit.CreatedAt.After(recent[1].Visit.CreatedAt))

		all, err := f.service.RecentActivity(ctx, f.admin, 500)
		require.NoError(t, err)
		assert.Len(t, all, 12, "cap applies to the limit, not the data")

		three, err := f.service.RecentActivity(ctx, f.admin, 3)
		require.NoError(t, err)
		assert.Len(t, three, 3)
	})

	t.Run("admin only", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.RecentActivity(ctx, f.reception, 5)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
