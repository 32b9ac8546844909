// Package registry stores ordered behavior component lists per entity.
//
// Entities are ark ECS handles (index + generation), so a handle that
// outlives its entity is detected instead of aliasing a newer one.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/mlange-42/ark/ecs"
)

// ErrInvalidEntity is returned for handles the registry did not issue or has removed.
var ErrInvalidEntity = errors.New("invalid entity")

// slot holds the components attached to one entity, in attachment order.
type slot[C any] struct {
	items []C
}

// Registry assigns entity handles and stores opaque components of type C.
// Mutation happens at entity creation/removal; ticking only needs read access.
type Registry[C any] struct {
	mu    sync.RWMutex
	world *ecs.World
	slots *ecs.Map1[slot[C]]
	count int
}

// New creates an empty registry.
func New[C any]() *Registry[C] {
	world := ecs.NewWorld()
	return &Registry[C]{
		world: world,
		slots: ecs.NewMap1[slot[C]](world),
	}
}

// CreateEntity allocates a fresh handle with an empty component list.
func (r *Registry[C]) CreateEntity() ecs.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.slots.NewEntity(&slot[C]{})
	r.count++
	return e
}

// Attach appends a component to the entity's list.
func (r *Registry[C]) Attach(e ecs.Entity, c C) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.world.Alive(e) {
		return fmt.Errorf("attach to %v: %w", e, ErrInvalidEntity)
	}
	s := r.slots.Get(e)
	s.items = append(s.items, c)
	return nil
}

// ComponentsOf returns a copy of the entity's components in attachment order.
func (r *Registry[C]) ComponentsOf(e ecs.Entity) ([]C, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.world.Alive(e) {
		return nil, fmt.Errorf("components of %v: %w", e, ErrInvalidEntity)
	}
	return slices.Clone(r.slots.Get(e).items), nil
}

// Remove destroys the entity together with all of its components.
func (r *Registry[C]) Remove(e ecs.Entity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.world.Alive(e) {
		return fmt.Errorf("remove %v: %w", e, ErrInvalidEntity)
	}
	r.world.RemoveEntity(e)
	r.count--
	return nil
}

// Alive reports whether the handle refers to a live entity.
func (r *Registry[C]) Alive(e ecs.Entity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.world.Alive(e)
}

// Len returns the number of live entities.
func (r *Registry[C]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
