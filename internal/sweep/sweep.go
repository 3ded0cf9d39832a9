// Package sweep plans stepped frequency sweeps for instruments that have
// no sweep engine of their own: the caller walks the plan and issues one
// set-frequency command per point.
package sweep

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Point is one step of a sweep.
type Point struct {
	FrequencyHz float64
	Dwell       time.Duration
}

// Plan is an ordered list of sweep points.
type Plan struct {
	Points []Point
}

// Duration is the total dwell time of the plan.
func (p Plan) Duration() time.Duration {
	var d time.Duration
	for _, pt := range p.Points {
		d += pt.Dwell
	}
	return d
}

// Linear returns n frequencies evenly spaced over [startHz, stopHz],
// endpoints included.
func Linear(startHz, stopHz float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("sweep: need at least 2 points, got %d", n)
	}
	return floats.Span(make([]float64, n), startHz, stopHz), nil
}

// Logarithmic returns n frequencies log-spaced over [startHz, stopHz].
// Both endpoints must be positive.
func Logarithmic(startHz, stopHz float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("sweep: need at least 2 points, got %d", n)
	}
	if startHz <= 0 || stopHz <= 0 {
		return nil, fmt.Errorf("sweep: log spacing needs positive endpoints, got [%v, %v]", startHz, stopHz)
	}
	return floats.LogSpan(make([]float64, n), startHz, stopHz), nil
}

// Clip drops points outside [minHz, maxHz], preserving order. Sweeps
// planned wider than a channel's advertised bounds would otherwise fail
// the driver's range check point by point.
func Clip(freqs []float64, minHz, maxHz float64) []float64 {
	out := make([]float64, 0, len(freqs))
	for _, f := range freqs {
		if f >= minHz && f <= maxHz {
			out = append(out, f)
		}
	}
	return out
}

// NewPlan pairs every frequency with the same dwell time.
func NewPlan(freqs []float64, dwell time.Duration) Plan {
	pts := make([]Point, len(freqs))
	for i, f := range freqs {
		pts[i] = Point{FrequencyHz: f, Dwell: dwell}
	}
	return Plan{Points: pts}
}
