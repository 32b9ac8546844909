package systems

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// clamp01 clamps a value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizeHeading wraps a rotation to [0, 2*Pi).
func normalizeHeading(h float64) float64 {
	const twoPi = 2 * math.Pi
	h = math.Mod(h, twoPi)
	if h < 0 {
		h += twoPi
	}
	return h
}

// Sampling helpers

// randPointInDisc returns a point uniformly distributed in a disc of the given radius.
func randPointInDisc(rng *rand.Rand, radius float64) r2.Vec {
	if radius <= 0 {
		return r2.Vec{}
	}
	r := radius * math.Sqrt(rng.Float64())
	angle := rng.Float64() * 2 * math.Pi
	return r2.Vec{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// randWithSpread returns a value uniformly in [avg - spread/2, avg + spread/2).
func randWithSpread(rng *rand.Rand, avg, spread float64) float64 {
	return avg - spread/2 + rng.Float64()*spread
}
