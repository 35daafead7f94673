package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gatehouse/internal/access"
	employeemodels "gatehouse/internal/employee/models"
	"gatehouse/internal/visit/models"
	visitormodels "gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// VisitDetail is a visit joined with the display fields the desk screens
// need. Duration is present only while checked in or after checkout.
type VisitDetail struct {
	Visit          *models.Visit `json:"visit"`
	VisitorName    string        `json:"visitor_name"`
	VisitorPhone   string        `json:"visitor_phone"`
	VisitorCompany string        `json:"visitor_company,omitempty"`
	EmployeeName   string        `json:"employee_name"`
	Duration       string        `json:"duration,omitempty"`
}

// DashboardStats are the aggregate counts on the admin dashboard.
type DashboardStats struct {
	TotalVisitors      int `json:"total_visitors"`
	CurrentlyCheckedIn int `json:"currently_checked_in"`
	PendingApprovals   int `json:"pending_approvals"`
	VisitorsToday      int `json:"visitors_today"`
	TotalCheckedOut    int `json:"total_checked_out"`
	TotalRejected      int `json:"total_rejected"`
}

// PendingApprovals lists visits awaiting a decision, oldest request first.
func (s *VisitService) PendingApprovals(ctx context.Context, actor access.Actor) ([]*VisitDetail, error) {
	if err := access.Authorize(actor, access.CapDecideVisit); err != nil {
		return nil, err
	}
	visits, err := s.visits.ListPending(ctx)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return s.join(ctx, visits, "")
}

// ActiveVisits lists checked_in visits, latest check-in first. A non-empty
// search term filters by case-insensitive substring over visitor name,
// visitor phone, and host name; an empty term returns everyone on site.
func (s *VisitService) ActiveVisits(ctx context.Context, actor access.Actor, search string) ([]*VisitDetail, error) {
	if err := access.Authorize(actor, access.CapCheckOutVisit); err != nil {
		return nil, err
	}
	visits, err := s.visits.ListActive(ctx)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	details, err := s.join(ctx, visits, search)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	for _, detail := range details {
		if d, ok := detail.Visit.Duration(now); ok {
			detail.Duration = models.FormatDuration(d)
		}
	}
	return details, nil
}

// Stats gathers the dashboard counts. The six reads fan out concurrently;
// each reflects the latest committed state its connection observes, which is
// all the dashboard promises. "Today" starts at local midnight of the
// request clock.
func (s *VisitService) Stats(ctx context.Context, actor access.Actor) (*DashboardStats, error) {
	if err := access.Authorize(actor, access.CapViewDashboard); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalVisitors, err = s.visitors.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.CurrentlyCheckedIn, err = s.visits.CountByStatus(gctx, models.StatusCheckedIn)
		return err
	})
	g.Go(func() (err error) {
		stats.PendingApprovals, err = s.visits.CountByStatus(gctx, models.StatusPendingApproval)
		return err
	})
	g.Go(func() (err error) {
		stats.VisitorsToday, err = s.visits.CountCreatedSince(gctx, midnight)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCheckedOut, err = s.visits.CountByStatus(gctx, models.StatusCheckedOut)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRejected, err = s.visits.CountByStatus(gctx, models.StatusRejected)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translateStoreErr(err)
	}
	return &stats, nil
}

// RecentActivity lists the most recently created visits with display fields.
// Limit defaults to 10 and caps at 100.
func (s *VisitService) RecentActivity(ctx context.Context, actor access.Actor, limit int) ([]*VisitDetail, error) {
	if err := access.Authorize(actor, access.CapViewDashboard); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	visits, err := s.visits.ListRecent(ctx, limit)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return s.join(ctx, visits, "")
}

// join resolves visitor and employee display fields for a page of visits and
// applies the optional search filter. A dangling reference is an invariant
// breach, not a user error.
func (s *VisitService) join(ctx context.Context, visits []*models.Visit, search string) ([]*VisitDetail, error) {
	visitorIDs := make([]id.VisitorID, 0, len(visits))
	employeeIDs := make([]id.EmployeeID, 0, len(visits))
	for _, visit := range visits {
		visitorIDs = append(visitorIDs, visit.VisitorID)
		employeeIDs = append(employeeIDs, visit.EmployeeID)
	}

	var (
		visitors  map[id.VisitorID]*visitormodels.Visitor
		employees map[id.EmployeeID]*employeemodels.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		visitors, err = s.visitors.GetMany(gctx, visitorIDs)
		return err
	})
	g.Go(func() (err error) {
		employees, err = s.employees.GetMany(gctx, employeeIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translateStoreErr(err)
	}

	search = strings.ToLower(strings.TrimSpace(search))
	details := make([]*VisitDetail, 0, len(visits))
	for _, visit := range visits {
		visitor, ok := visitors[visit.VisitorID]
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "visit %s references a missing visitor", visit.ID)
		}
		employee, ok := employees[visit.EmployeeID]
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "visit %s references a missing employee", visit.ID)
		}
		if search != "" && !matchesSearch(search, visitor, employee) {
			continue
		}
		details = append(details, &VisitDetail{
			Visit:          visit,
			VisitorName:    visitor.FullName,
			VisitorPhone:   visitor.Phone,
			VisitorCompany: visitor.Company,
			EmployeeName:   employee.FullName,
		})
	}
	return details, nil
}

func matchesSearch(search string, visitor *visitormodels.Visitor, employee *employeemodels.Employee) bool {
	return strings.Contains(strings.ToLower(visitor.FullName), search) ||
		strings.Contains(strings.ToLower(visitor.Phone), search) ||
		strings.Contains(strings.ToLower(employee.FullName), search)
}
