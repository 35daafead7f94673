package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatehouse/internal/visit/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func (s *InMemoryStoreSuite) newVisit(createdAt time.Time) *models.Visit {
	visit, err := models.NewVisit(id.NewVisitID(), id.NewVisitorID(), id.NewEmployeeID(), "delivery", createdAt)
	s.Require().NoError(err)
	return visit
}

func (s *InMemoryStoreSuite) TestCreateAndGet() {
	ctx := context.Background()
	visit := s.newVisit(time.Now())

	s.Run("round trips a record", func() {
		s.NoError(s.store.Create(ctx, visit))
		got, err := s.store.Get(ctx, visit.ID)
		s.NoError(err)
		s.Equal(visit.ID, got.ID)
		s.Equal(models.StatusPendingApproval, got.Status)
	})

	s.Run("duplicate id conflicts", func() {
		s.ErrorIs(s.store.Create(ctx, visit), sentinel.ErrConflict)
	})

	s.Run("missing id is not found", func() {
		_, err := s.store.Get(ctx, id.NewVisitID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned record is a copy", func() {
		got, err := s.store.Get(ctx, visit.ID)
		s.NoError(err)
		got.Purpose = "tampered"

		again, err := s.store.Get(ctx, visit.ID)
		s.NoError(err)
		s.Equal("delivery", again.Purpose)
	})
}

func (s *InMemoryStoreSuite) TestTransition() {
	ctx := context.Background()
	actor := id.NewUserID()

	s.Run("applies the mutation under the expected status", func() {
		visit := s.newVisit(time.Now())
		s.Require().NoError(s.store.Create(ctx, visit))

		now := time.Now()
		updated, err := s.store.Transition(ctx, visit.ID, models.StatusPendingApproval, func(v *models.Visit) error {
			v.ApplyApproval(actor, now)
			return nil
		})
		s.NoError(err)
		s.Equal(models.StatusCheckedIn, updated.Status)

		stored, err := s.store.Get(ctx, visit.ID)
		s.NoError(err)
		s.Equal(models.StatusCheckedIn, stored.Status)
	})

	s.Run("stale expected status loses", func() {
		visit := s.newVisit(time.Now())
		s.Require().NoError(s.store.Create(ctx, visit))
		_, err := s.store.Transition(ctx, visit.ID, models.StatusPendingApproval, func(v *models.Visit) error {
			v.ApplyApproval(actor, time.Now())
			return nil
		})
		s.Require().NoError(err)

		_, err = s.store.Transition(ctx, visit.ID, models.StatusPendingApproval, func(v *models.Visit) error {
			v.ApplyRejection(actor, "late", time.Now())
			return nil
		})
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("unknown visit is not found", func() {
		_, err := s.store.Transition(ctx, id.NewVisitID(), models.StatusPendingApproval, func(*models.Visit) error {
			return nil
		})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("failing mutation leaves the record untouched", func() {
		visit := s.newVisit(time.Now())
		s.Require().NoError(s.store.Create(ctx, visit))

		_, err := s.store.Transition(ctx, visit.ID, models.StatusPendingApproval, func(v *models.Visit) error {
			v.Status = models.StatusCheckedOut
			return sentinel.ErrUnavailable
		})
		s.ErrorIs(err, sentinel.ErrUnavailable)

		stored, err := s.store.Get(ctx, visit.ID)
		s.NoError(err)
		s.Equal(models.StatusPendingApproval, stored.Status)
	})

	s.Run("concurrent transitions have exactly one winner", func() {
		visit := s.newVisit(time.Now())
		s.Require().NoError(s.store.Create(ctx, visit))

		const attempts = 32
		var wg sync.WaitGroup
		results := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.store.Transition(ctx, visit.ID, models.StatusPendingApproval, func(v *models.Visit) error {
					v.ApplyApproval(actor, time.Now())
					return nil
				})
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		winners := 0
		for err := range results {
			if err == nil {
				winners++
			} else {
				s.ErrorIs(err, sentinel.ErrInvalidState)
			}
		}
		s.Equal(1, winners)
	})
}

func (s *InMemoryStoreSuite) TestListPending() {
	ctx := context.Background()
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	newest := s.newVisit(base.Add(2 * time.Hour))
	oldest := s.newVisit(base)
	middle := s.newVisit(base.Add(time.Hour))
	for _, v := range []*models.Visit{newest, oldest, middle} {
		s.Require().NoError(s.store.Create(ctx, v))
	}

	approved := s.newVisit(base.Add(3 * time.Hour))
	s.Require().NoError(s.store.Create(ctx, approved))
	_, err := s.store.Transition(ctx, approved.ID, models.StatusPendingApproval, func(v *models.Visit) error {
		v.ApplyApproval(id.NewUserID(), base.Add(4*time.Hour))
		return nil
	})
	s.Require().NoError(err)

	pending, err := s.store.ListPending(ctx)
	s.NoError(err)
	s.Require().Len(pending, 3)
	s.Equal(oldest.ID, pending[0].ID, "oldest request first")
	s.Equal(middle.ID, pending[1].ID)
	s.Equal(newest.ID, pending[2].ID)
}

func (s *InMemoryStoreSuite) TestListActive() {
	ctx := context.Background()
	actor := id.NewUserID()
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	checkIn := func(v *models.Visit, at time.Time) {
		s.Require().NoError(s.store.Create(ctx, v))
		_, err := s.store.Transition(ctx, v.ID, models.StatusPendingApproval, func(visit *models.Visit) error {
			visit.ApplyApproval(actor, at)
			return nil
		})
		s.Require().NoError(err)
	}

	first := s.newVisit(base)
	second := s.newVisit(base)
	checkIn(first, base.Add(time.Hour))
	checkIn(second, base.Add(2*time.Hour))

	stillPending := s.newVisit(base)
	s.Require().NoError(s.store.Create(ctx, stillPending))

	active, err := s.store.ListActive(ctx)
	s.NoError(err)
	s.Require().Len(active, 2)
	s.Equal(second.ID, active[0].ID, "latest check-in first")
	s.Equal(first.ID, active[1].ID)
}

func (s *InMemoryStoreSuite) TestListRecent() {
	ctx := context.Background()
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	var ids []id.VisitID
	for i := 0; i < 5; i++ {
		v := s.newVisit(base.Add(time.Duration(i) * time.Minute))
		s.Require().NoError(s.store.Create(ctx, v))
		ids = append(ids, v.ID)
	}

	recent, err := s.store.ListRecent(ctx, 3)
	s.NoError(err)
	s.Require().Len(recent, 3)
	s.Equal(ids[4], recent[0].ID)
	s.Equal(ids[3], recent[1].ID)
	s.Equal(ids[2], recent[2].ID)
}

func (s *InMemoryStoreSuite) TestCounts() {
	ctx := context.Background()
	actor := id.NewUserID()
	midnight := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	yesterday := s.newVisit(midnight.Add(-2 * time.Hour))
	today := s.newVisit(midnight.Add(9 * time.Hour))
	alsoToday := s.newVisit(midnight.Add(10 * time.Hour))
	for _, v := range []*models.Visit{yesterday, today, alsoToday} {
		s.Require().NoError(s.store.Create(ctx, v))
	}

	_, err := s.store.Transition(ctx, today.ID, models.StatusPendingApproval, func(v *models.Visit) error {
		v.ApplyApproval(actor, midnight.Add(9*time.Hour))
		return nil
	})
	s.Require().NoError(err)

	pending, err := s.store.CountByStatus(ctx, models.StatusPendingApproval)
	s.NoError(err)
	s.Equal(2, pending)

	checkedIn, err := s.store.CountByStatus(ctx, models.StatusCheckedIn)
	s.NoError(err)
	s.Equal(1, checkedIn)

	createdToday, err := s.store.CountCreatedSince(ctx, midnight)
	s.NoError(err)
	s.Equal(2, createdToday)
}
