package components

import "gonum.org/v1/gonum/spatial/r2"

// Motion holds a cell's kinematic state.
type Motion struct {
	Position     r2.Vec
	Velocity     r2.Vec
	Acceleration r2.Vec `inspect:"skip"`
}

// Integrate advances velocity then position by dt using the current acceleration.
func (m *Motion) Integrate(dt float64) {
	m.Velocity = r2.Add(m.Velocity, r2.Scale(dt, m.Acceleration))
	m.Position = r2.Add(m.Position, r2.Scale(dt, m.Velocity))
}

// Speed returns the velocity magnitude.
func (m Motion) Speed() float64 {
	return r2.Norm(m.Velocity)
}
