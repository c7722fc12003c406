package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance has its own ComponentRegistry, allowing multiple
// independent ECS systems to coexist without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}
	r.factories[t] = func() iComponentStorage {
		return newGenericComponentStorage[T]()
	}
}

// IsRegistered reports whether the component type has been registered.
func (r *ComponentRegistry) IsRegistered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const (
	genericBlockSize = 64
)

// genericComponentStorage stores components of a specific type `T` in fixed-size blocks.
// Blocks are allocated individually so a component's address never moves while it is attached.
type genericComponentStorage[T any] struct {
	slots     *intmap.Map[EntityId, int]
	blocks    []*[genericBlockSize]T
	owners    []EntityId
	freeSlots []int
}

func newGenericComponentStorage[T any]() *genericComponentStorage[T] {
	return &genericComponentStorage[T]{
		slots: intmap.New[EntityId, int](genericBlockSize),
	}
}

func (cs *genericComponentStorage[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

func (cs *genericComponentStorage[T]) at(slot int) *T {
	return &cs.blocks[slot/genericBlockSize][slot%genericBlockSize]
}

// Set attaches or replaces the component for the entity.
// Returns false if the item is not a T or *T.
func (cs *genericComponentStorage[T]) Set(id EntityId, item any) bool {
	var concreteItem T
	if ptr, ok := item.(*T); ok {
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		return false
	}

	if slot, ok := cs.slots.Get(id); ok {
		*cs.at(slot) = concreteItem
		return true
	}

	var slot int
	if len(cs.freeSlots) > 0 {
		slot = cs.freeSlots[len(cs.freeSlots)-1]
		cs.freeSlots = cs.freeSlots[:len(cs.freeSlots)-1]
		cs.owners[slot] = id
	} else {
		slot = len(cs.owners)
		cs.owners = append(cs.owners, id)
		if slot/genericBlockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		}
	}

	*cs.at(slot) = concreteItem
	cs.slots.Put(id, slot)
	return true
}

// Get returns a pointer to the entity's component, or nil.
func (cs *genericComponentStorage[T]) Get(id EntityId) any {
	slot, ok := cs.slots.Get(id)
	if !ok {
		return nil
	}
	return cs.at(slot)
}

// Delete detaches the entity's component and zeroes its slot.
func (cs *genericComponentStorage[T]) Delete(id EntityId) bool {
	slot, ok := cs.slots.Get(id)
	if !ok {
		return false
	}
	cs.slots.Del(id)

	var zero T
	*cs.at(slot) = zero
	cs.owners[slot] = 0
	cs.freeSlots = append(cs.freeSlots, slot)
	return true
}

// Has checks if the entity has this component.
func (cs *genericComponentStorage[T]) Has(id EntityId) bool {
	return cs.slots.Has(id)
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.slots.Len()
}

// Iter yields the owning entities in slot order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for _, owner := range cs.owners {
			if owner == 0 {
				continue
			}
			if !yield(owner) {
				return
			}
		}
	}
}
