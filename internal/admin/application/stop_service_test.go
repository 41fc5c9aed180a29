package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/transit-survey-services/api/internal/admin/application"
	admindomain "github.com/sngm3741/transit-survey-services/api/internal/admin/domain"
)

func TestStopService_Upsert(t *testing.T) {
	repo := &memoryStops{}
	svc := application.NewStopService(repo, func() time.Time { return created })
	ctx := context.Background()

	stop, err := svc.Upsert(ctx, " S100 ", application.UpsertStopCommand{Name: "Central", RouteIDs: []string{"R1", "R1", "R2"}})
	require.NoError(t, err)
	assert.Equal(t, admindomain.StopID("S100"), stop.ID)
	assert.Equal(t, admindomain.IDList{"R1", "R2"}, stop.RouteIDs)

	_, err = svc.Upsert(ctx, "S100", application.UpsertStopCommand{Name: "Central"})
	require.NoError(t, err)

	got, err := svc.Detail(ctx, "S100")
	require.NoError(t, err)
	assert.NotNil(t, got.RouteIDs)
	assert.Empty(t, got.RouteIDs)
}

func TestStopService_UpsertRequiresID(t *testing.T) {
	svc := application.NewStopService(&memoryStops{}, nil)
	_, err := svc.Upsert(context.Background(), "  ", application.UpsertStopCommand{})
	assert.ErrorIs(t, err, admindomain.ErrInvalid)
}

func TestStopService_DetailNotFound(t *testing.T) {
	svc := application.NewStopService(&memoryStops{}, nil)
	_, err := svc.Detail(context.Background(), "missing")
	assert.ErrorIs(t, err, application.ErrNotFound)
}
