// Package botdetect holds heuristics that flag input streams which look
// generated by automation rather than a person.
//
// Every detector is a heartbeat.Detector. Verdicts are advisory: the server
// records them and forces the heartbeat idle, it never rejects one.
package botdetect

import (
	"fmt"
	"math"
	"time"

	"github.com/Tatu1984/hrms-sub001/sdk/heartbeat"
)

// Pattern tags reported to the server.
const (
	PatternPeriodicInterval     = "periodic-interval"
	PatternIdenticalCoordinates = "identical-coordinates"
	PatternNoVariance           = "no-variance"
)

// Chain returns the verdict of the first detector that flags the window.
type Chain []heartbeat.Detector

func (c Chain) Detect(window []heartbeat.InputEvent) heartbeat.Verdict {
	for _, d := range c {
		if v := d.Detect(window); v.Suspicious {
			return v
		}
	}
	return heartbeat.Verdict{}
}

// Default returns every built-in detector with its default thresholds.
func Default() Chain {
	return Chain{
		&PeriodicIntervalDetector{},
		&IdenticalCoordinatesDetector{},
		&NoVarianceDetector{},
	}
}

// PeriodicIntervalDetector flags discrete input (key presses and clicks)
// arriving at near-constant intervals. Human gaps vary widely; a coefficient
// of variation below MaxCV over at least MinEvents events is treated as a
// scripted timer. Pointer moves and scrolls stream at frame rate and key
// auto-repeat fires at a fixed rate, so continuous kinds are ignored and a
// mean gap below MinMeanGap is never flagged.
type PeriodicIntervalDetector struct {
	MinEvents  int           // default 8
	MaxCV      float64       // default 0.05
	MinMeanGap time.Duration // default 250ms
}

func (d *PeriodicIntervalDetector) Detect(window []heartbeat.InputEvent) heartbeat.Verdict {
	minEvents := max(orInt(d.MinEvents, 8), 2)
	maxCV := orFloat(d.MaxCV, 0.05)
	minMeanGap := d.MinMeanGap
	if minMeanGap <= 0 {
		minMeanGap = 250 * time.Millisecond
	}

	var discrete []heartbeat.InputEvent
	for _, ev := range window {
		if ev.Kind == heartbeat.EventKeyPress || ev.Kind == heartbeat.EventClick {
			discrete = append(discrete, ev)
		}
	}
	if len(discrete) < minEvents {
		return heartbeat.Verdict{}
	}

	gaps := make([]float64, 0, len(discrete)-1)
	for i := 1; i < len(discrete); i++ {
		gaps = append(gaps, discrete[i].At.Sub(discrete[i-1].At).Seconds())
	}

	mean, stddev := meanStddev(gaps)
	if mean < minMeanGap.Seconds() {
		return heartbeat.Verdict{}
	}

	cv := stddev / mean
	if cv >= maxCV {
		return heartbeat.Verdict{}
	}

	return heartbeat.Verdict{
		Suspicious: true,
		Pattern:    PatternPeriodicInterval,
		Detail: fmt.Sprintf("cv=%.3f mean=%s n=%d",
			cv, time.Duration(mean*float64(time.Second)).Round(time.Millisecond), len(discrete)),
	}
}

// IdenticalCoordinatesDetector flags pointer events that keep landing on the
// same point.
type IdenticalCoordinatesDetector struct {
	MinEvents int     // pointer events required, default 5
	MinShare  float64 // share of events on the top point, default 0.8
}

func (d *IdenticalCoordinatesDetector) Detect(window []heartbeat.InputEvent) heartbeat.Verdict {
	minEvents := orInt(d.MinEvents, 5)
	minShare := orFloat(d.MinShare, 0.8)

	type point struct{ x, y float64 }
	counts := make(map[point]int)
	total := 0
	var top point
	for _, ev := range window {
		if !ev.Kind.IsPointer() {
			continue
		}
		p := point{ev.X, ev.Y}
		counts[p]++
		total++
		if counts[p] > counts[top] {
			top = p
		}
	}

	if total < minEvents {
		return heartbeat.Verdict{}
	}

	share := float64(counts[top]) / float64(total)
	if share < minShare {
		return heartbeat.Verdict{}
	}

	return heartbeat.Verdict{
		Suspicious: true,
		Pattern:    PatternIdenticalCoordinates,
		Detail:     fmt.Sprintf("x=%g y=%g share=%.2f n=%d", top.x, top.y, share, total),
	}
}

// NoVarianceDetector flags pointer movement where every step has the same
// non-zero delta, as produced by a mouse jiggler.
type NoVarianceDetector struct {
	MinEvents int // pointer moves required, default 6
}

func (d *NoVarianceDetector) Detect(window []heartbeat.InputEvent) heartbeat.Verdict {
	minEvents := max(orInt(d.MinEvents, 6), 2)

	var moves []heartbeat.InputEvent
	for _, ev := range window {
		if ev.Kind == heartbeat.EventPointerMove {
			moves = append(moves, ev)
		}
	}
	if len(moves) < minEvents {
		return heartbeat.Verdict{}
	}

	dx := moves[1].X - moves[0].X
	dy := moves[1].Y - moves[0].Y
	if dx == 0 && dy == 0 {
		return heartbeat.Verdict{}
	}
	for i := 2; i < len(moves); i++ {
		if moves[i].X-moves[i-1].X != dx || moves[i].Y-moves[i-1].Y != dy {
			return heartbeat.Verdict{}
		}
	}

	return heartbeat.Verdict{
		Suspicious: true,
		Pattern:    PatternNoVariance,
		Detail:     fmt.Sprintf("dx=%g dy=%g n=%d", dx, dy, len(moves)),
	}
}

func meanStddev(xs []float64) (mean, stddev float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var variance float64
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(xs))
	return mean, math.Sqrt(variance)
}

func orInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func orFloat(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
