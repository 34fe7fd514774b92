package journey

import (
	"time"

	"github.com/routecast/routecast/internal/geo"
)

// SamplerConfig bounds the spacing and count of output sample points. Every
// sample point costs one detailed provider call downstream, so the bounds
// exist to cap external traffic per report.
type SamplerConfig struct {
	// DefaultIntervalKM is the target spacing when the route length needs no
	// adjustment. Default: 15.
	DefaultIntervalKM float64

	// MinPoints is the lower sample-count target for dynamic interval
	// selection. Default: 5.
	MinPoints int

	// MaxPoints is the upper sample-count target. Default: 30.
	MaxPoints int

	// HardMinIntervalKM is the spacing floor. It wins over MinPoints, so
	// very short routes may produce fewer samples than the target.
	// Default: 2.
	HardMinIntervalKM float64
}

// DefaultSamplerConfig returns the default sampling bounds.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		DefaultIntervalKM: 15.0,
		MinPoints:         5,
		MaxPoints:         30,
		HardMinIntervalKM: 2.0,
	}
}

// Sampler reduces a projected route to evenly spaced sample points.
type Sampler struct {
	cfg SamplerConfig
}

// NewSampler creates a Sampler, filling zero config fields with defaults.
func NewSampler(cfg SamplerConfig) *Sampler {
	def := DefaultSamplerConfig()
	if cfg.DefaultIntervalKM <= 0 {
		cfg.DefaultIntervalKM = def.DefaultIntervalKM
	}
	if cfg.MinPoints <= 1 {
		cfg.MinPoints = def.MinPoints
	}
	if cfg.MaxPoints <= 1 {
		cfg.MaxPoints = def.MaxPoints
	}
	if cfg.HardMinIntervalKM <= 0 {
		cfg.HardMinIntervalKM = def.HardMinIntervalKM
	}
	return &Sampler{cfg: cfg}
}

// Sample walks the projected route and emits sample points spaced intervalKM
// apart, linearly interpolating position and timestamp inside each segment.
// The first point is always emitted at distance 0. A non-positive intervalKM
// selects the interval dynamically from the route's total length; a
// zero-length route yields exactly one sample and skips interval selection.
func (s *Sampler) Sample(points []ProjectedPoint, intervalKM float64) []SamplePoint {
	if len(points) == 0 {
		return nil
	}

	first := points[0]
	samples := []SamplePoint{{
		Lat:        first.Lat,
		Lon:        first.Lon,
		Timestamp:  first.Timestamp,
		DistanceKM: 0,
	}}

	total := TotalDistanceKM(points)
	if total == 0 {
		return samples
	}

	if intervalKM <= 0 {
		intervalKM = s.SelectInterval(total)
	}

	cumulative := 0.0
	next := intervalKM

	for i := 1; i < len(points); i++ {
		prev, curr := points[i-1], points[i]
		segment := geo.DistanceKM(
			geo.Point{Lat: prev.Lat, Lon: prev.Lon},
			geo.Point{Lat: curr.Lat, Lon: curr.Lon},
		)

		// next > cumulative always holds here, so a zero-length segment
		// never enters the loop.
		for cumulative+segment >= next {
			fraction := (next - cumulative) / segment
			samples = append(samples, SamplePoint{
				Lat:        prev.Lat + fraction*(curr.Lat-prev.Lat),
				Lon:        prev.Lon + fraction*(curr.Lon-prev.Lon),
				Timestamp:  interpolateTime(prev.Timestamp, curr.Timestamp, fraction),
				DistanceKM: next,
			})
			next += intervalKM
		}

		cumulative += segment
	}

	return samples
}

// SelectInterval picks a sampling interval for a route of the given length so
// the resulting point count lands inside [MinPoints, MaxPoints], then clamps
// to the hard floor.
func (s *Sampler) SelectInterval(totalKM float64) float64 {
	interval := s.cfg.DefaultIntervalKM

	num := int(totalKM/interval) + 1
	if num < s.cfg.MinPoints {
		interval = totalKM / float64(s.cfg.MinPoints-1)
	} else if num > s.cfg.MaxPoints {
		interval = totalKM / float64(s.cfg.MaxPoints-1)
	}

	if interval < s.cfg.HardMinIntervalKM {
		interval = s.cfg.HardMinIntervalKM
	}

	return interval
}

// interpolateTime returns the time at the fractional position between a and b.
// Linear in time, like the coordinate interpolation: acceptable at the scale
// of a sampling interval, not geodesically exact.
func interpolateTime(a, b time.Time, fraction float64) time.Time {
	return a.Add(time.Duration(fraction * float64(b.Sub(a))))
}
