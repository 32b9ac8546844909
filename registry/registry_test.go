package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func TestCreateEntityUnique(t *testing.T) {
	r := New[string]()

	a := r.CreateEntity()
	b := r.CreateEntity()
	if a == b {
		t.Fatal("expected distinct handles")
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}

	comps, err := r.ComponentsOf(a)
	if err != nil {
		t.Fatalf("ComponentsOf error: %v", err)
	}
	if len(comps) != 0 {
		t.Errorf("new entity should have no components, got %v", comps)
	}
}

func TestAttachPreservesOrder(t *testing.T) {
	r := New[string]()
	e := r.CreateEntity()

	for _, c := range []string{"base", "attract-red", "attract-blue"} {
		if err := r.Attach(e, c); err != nil {
			t.Fatalf("Attach(%q) error: %v", c, err)
		}
	}

	comps, err := r.ComponentsOf(e)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"base", "attract-red", "attract-blue"}
	if len(comps) != len(want) {
		t.Fatalf("got %d components, want %d", len(comps), len(want))
	}
	for i := range want {
		if comps[i] != want[i] {
			t.Errorf("component %d = %q, want %q", i, comps[i], want[i])
		}
	}
}

func TestComponentsOfReturnsCopy(t *testing.T) {
	r := New[int]()
	e := r.CreateEntity()
	_ = r.Attach(e, 1)

	comps, _ := r.ComponentsOf(e)
	comps[0] = 99

	again, _ := r.ComponentsOf(e)
	if again[0] != 1 {
		t.Errorf("registry storage was mutated through returned slice: %v", again)
	}
}

func TestRemovedEntityIsInvalid(t *testing.T) {
	r := New[int]()
	e := r.CreateEntity()
	_ = r.Attach(e, 7)

	if err := r.Remove(e); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if r.Alive(e) {
		t.Error("removed entity should not be alive")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}

	if err := r.Attach(e, 8); !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("Attach on removed entity: got %v, want ErrInvalidEntity", err)
	}
	if _, err := r.ComponentsOf(e); !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("ComponentsOf on removed entity: got %v, want ErrInvalidEntity", err)
	}
	if err := r.Remove(e); !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("double Remove: got %v, want ErrInvalidEntity", err)
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	r := New[int]()
	old := r.CreateEntity()
	_ = r.Remove(old)

	// The arena may recycle the slot; the old handle must stay invalid.
	fresh := r.CreateEntity()
	_ = r.Attach(fresh, 1)

	if r.Alive(old) {
		t.Error("stale handle reported alive after slot reuse")
	}
	if err := r.Attach(old, 2); !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("Attach via stale handle: got %v, want ErrInvalidEntity", err)
	}

	comps, _ := r.ComponentsOf(fresh)
	if len(comps) != 1 || comps[0] != 1 {
		t.Errorf("fresh entity components = %v, want [1]", comps)
	}
}

func TestConcurrentReads(t *testing.T) {
	r := New[int]()
	entities := make([]ecs.Entity, 0, 16)
	for i := 0; i < 16; i++ {
		e := r.CreateEntity()
		_ = r.Attach(e, i)
		entities = append(entities, e)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				for want, e := range entities {
					comps, err := r.ComponentsOf(e)
					if err != nil {
						errs <- err
						return
					}
					if len(comps) != 1 || comps[0] != want {
						errs <- fmt.Errorf("entity %d: got %v", want, comps)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
