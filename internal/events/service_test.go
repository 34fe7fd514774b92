package events_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routecast/routecast/internal/events"
	"github.com/routecast/routecast/internal/geo"
)

func seededService(t *testing.T, clusters []events.AccidentCluster) (*events.Service, *events.MemoryRepository) {
	t.Helper()
	repo := events.NewMemoryRepository()
	repo.SeedAccidents(clusters)
	return events.NewService(events.ServiceConfig{Repository: repo}), repo
}

func TestService_AccidentsNearRoute_WithinRadius(t *testing.T) {
	// Route along a city street; one cluster sits on it, one ~3km away.
	svc, _ := seededService(t, []events.AccidentCluster{
		{ID: "on-route", Lat: 35.6810, Lon: 139.7670, Count: 4},
		{ID: "far-away", Lat: 35.7100, Lon: 139.7670, Count: 9},
	})

	route := []geo.Point{
		{Lat: 35.6800, Lon: 139.7660},
		{Lat: 35.6820, Lon: 139.7680},
	}

	nearby, err := svc.AccidentsNearRoute(context.Background(), route)
	require.NoError(t, err)

	require.Len(t, nearby, 1)
	assert.Equal(t, "on-route", nearby[0].ID)
	assert.Less(t, nearby[0].DistanceKM, 0.5)
}

func TestService_AccidentsNearRoute_FallbackToNearest(t *testing.T) {
	// Every cluster is far from the route; the service falls back to the
	// nearest ones instead of answering empty.
	svc, _ := seededService(t, []events.AccidentCluster{
		{ID: "a", Lat: 36.0, Lon: 140.0, Count: 1},
		{ID: "b", Lat: 37.0, Lon: 141.0, Count: 2},
	})

	route := []geo.Point{{Lat: 35.68, Lon: 139.76}}

	nearby, err := svc.AccidentsNearRoute(context.Background(), route)
	require.NoError(t, err)

	require.Len(t, nearby, 2)
	assert.Equal(t, "a", nearby[0].ID)
	assert.Equal(t, "b", nearby[1].ID)
	assert.Less(t, nearby[0].DistanceKM, nearby[1].DistanceKM)
}

func TestService_AccidentsNearRoute_SortedAndCapped(t *testing.T) {
	clusters := make([]events.AccidentCluster, 0, 25)
	for i := 0; i < 25; i++ {
		clusters = append(clusters, events.AccidentCluster{
			ID:  string(rune('a' + i)),
			Lat: 35.6800 + float64(i)*0.0001, // all within ~300m of the route
			Lon: 139.7660,
		})
	}
	svc, _ := seededService(t, clusters)

	route := []geo.Point{{Lat: 35.6800, Lon: 139.7660}}

	nearby, err := svc.AccidentsNearRoute(context.Background(), route)
	require.NoError(t, err)

	assert.Len(t, nearby, 20)
	for i := 1; i < len(nearby); i++ {
		assert.LessOrEqual(t, nearby[i-1].DistanceKM, nearby[i].DistanceKM)
	}
}

func TestService_AccidentsNearRoute_EmptyRoute(t *testing.T) {
	svc, _ := seededService(t, []events.AccidentCluster{
		{ID: "a", Lat: 35.68, Lon: 139.76},
	})

	nearby, err := svc.AccidentsNearRoute(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, nearby)
}

func TestService_RecordBraking_AndNearest(t *testing.T) {
	repo := events.NewMemoryRepository()
	svc := events.NewService(events.ServiceConfig{Repository: repo})

	ctx := context.Background()

	first, err := svc.RecordBraking(ctx, 35.6800, 139.7660)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.RecordedAt.IsZero())

	second, err := svc.RecordBraking(ctx, 35.7000, 139.7660)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	nearest, err := svc.NearestBrakingEvents(ctx, geo.Point{Lat: 35.6801, Lon: 139.7660})
	require.NoError(t, err)

	require.Len(t, nearest, 2)
	assert.Equal(t, first.ID, nearest[0].ID)
	assert.Less(t, nearest[0].DistanceKM, nearest[1].DistanceKM)
}
