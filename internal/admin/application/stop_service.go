package application

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
)

// stopService implements StopService.
type stopService struct {
	repo StopRepository
	now  func() time.Time
}

func NewStopService(repo StopRepository, now func() time.Time) StopService {
	if now == nil {
		now = time.Now
	}
	return &stopService{repo: repo, now: now}
}

func (s *stopService) List(ctx context.Context, filter StopFilter, paging Paging) ([]admindomain.Stop, error) {
	return s.repo.Find(ctx, filter, paging)
}

func (s *stopService) Detail(ctx context.Context, id string) (*admindomain.Stop, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *stopService) Upsert(ctx context.Context, id string, cmd UpsertStopCommand) (*admindomain.Stop, error) {
	stopID, err := admindomain.NewStopID(id)
	if err != nil {
		return nil, err
	}
	routes := admindomain.NewIDList(cmd.RouteIDs)
	if routes == nil {
		routes = admindomain.IDList{}
	}
	stop := &admindomain.Stop{
		ID:        stopID,
		Name:      cmd.Name,
		RouteIDs:  routes,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, stop); err != nil {
		return nil, err
	}
	return stop, nil
}
