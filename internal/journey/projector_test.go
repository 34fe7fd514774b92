package journey_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routecast/routecast/internal/journey"
)

func TestProject_AverageSpeed(t *testing.T) {
	start := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)

	// One degree of longitude at the equator is ~111.195 km; at that speed
	// each segment takes exactly one hour.
	points := []journey.RoutePoint{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1},
		{Lat: 0, Lon: 2},
	}

	projected := journey.Project(points, 111.19493, start)
	require.Len(t, projected, 3)

	assert.Equal(t, start, projected[0].Timestamp)
	assert.Equal(t, 0.0, projected[0].Lat)
	assert.Equal(t, 0.0, projected[0].Lon)

	assert.WithinDuration(t, start.Add(1*time.Hour), projected[1].Timestamp, time.Second)
	assert.WithinDuration(t, start.Add(2*time.Hour), projected[2].Timestamp, 2*time.Second)
}

func TestProject_TimestampsNonDecreasing(t *testing.T) {
	start := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	points := []journey.RoutePoint{
		{Lat: 35.68, Lon: 139.69},
		{Lat: 35.68, Lon: 139.69}, // duplicate vertex, zero travel time
		{Lat: 35.17, Lon: 136.88},
	}

	projected := journey.Project(points, 40, start)
	require.Len(t, projected, 3)

	for i := 1; i < len(projected); i++ {
		assert.False(t, projected[i].Timestamp.Before(projected[i-1].Timestamp))
	}
}

func TestProject_Empty(t *testing.T) {
	assert.Empty(t, journey.Project(nil, 40, time.Now()))
}

func TestProjectTimed(t *testing.T) {
	start := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	points := []journey.TimedRoutePoint{
		{Lat: 35.68, Lon: 139.69, ElapsedSeconds: 0},
		{Lat: 35.60, Lon: 139.50, ElapsedSeconds: 90},
		{Lat: 35.50, Lon: 139.30, ElapsedSeconds: 330.5},
	}

	projected := journey.ProjectTimed(points, start)
	require.Len(t, projected, 3)

	assert.Equal(t, start, projected[0].Timestamp)
	assert.Equal(t, start.Add(90*time.Second), projected[1].Timestamp)
	assert.Equal(t, start.Add(330500*time.Millisecond), projected[2].Timestamp)
	assert.Equal(t, 35.60, projected[1].Lat)
	assert.Equal(t, 139.50, projected[1].Lon)
}

func TestProjectTimed_Empty(t *testing.T) {
	assert.Empty(t, journey.ProjectTimed(nil, time.Now()))
}

func TestTotalDistanceKM(t *testing.T) {
	now := time.Now()
	points := []journey.ProjectedPoint{
		{Lat: 0, Lon: 0, Timestamp: now},
		{Lat: 0, Lon: 1, Timestamp: now},
		{Lat: 0, Lon: 2, Timestamp: now},
	}

	assert.InDelta(t, 222.39, journey.TotalDistanceKM(points), 0.01)
	assert.Zero(t, journey.TotalDistanceKM(points[:1]))
	assert.Zero(t, journey.TotalDistanceKM(nil))
}
