package components

import "fmt"

// Vitals tracks a cell's resources.
// Energy is spent by receptors and never goes negative; health drains while
// energy is empty and regenerates otherwise.
type Vitals struct {
	Energy    float64 `inspect:"bar,of:MaxEnergy"`
	MaxEnergy float64 `inspect:"skip"` // energy at creation, used for brightness
	Health    float64 `inspect:"bar,of:MaxHealth"`
	MaxHealth float64 `inspect:"skip"`
	Age       float64 `inspect:"label,fmt:%.1fs"` // seconds alive
}

// ConsumeEnergy spends cost energy and returns the affordable fraction in [0, 1].
// A cost the cell cannot fully pay zeroes energy and returns energy/cost.
func (v *Vitals) ConsumeEnergy(cost float64) float64 {
	if !(cost >= 0) {
		panic(fmt.Sprintf("components: invalid energy request %v", cost))
	}
	if cost <= v.Energy {
		v.Energy -= cost
		return 1
	}
	fraction := v.Energy / cost
	v.Energy = 0
	return fraction
}

// UpdateHealth applies one tick of health drain or regeneration.
func (v *Vitals) UpdateHealth(regenRate, dt float64) {
	v.Age += dt
	if v.Energy == 0 {
		v.Health -= regenRate * dt
		return
	}
	v.Health = min(v.Health+regenRate*dt, v.MaxHealth)
}

// Dead reports whether health is exhausted.
func (v Vitals) Dead() bool {
	return v.Health <= 0
}

// Brightness returns the remaining energy ratio clamped to [0, 1].
func (v Vitals) Brightness() float64 {
	if v.MaxEnergy <= 0 {
		return 0
	}
	b := v.Energy / v.MaxEnergy
	if b < 0 {
		return 0
	}
	if b > 1 {
		return 1
	}
	return b
}
