package ecs

import (
	"fmt"
	"reflect"
)

// Add attaches or replaces the T component on the entity.
func Add[T any](s *Storage, id EntityId, component T) error {
	if !s.AddComponent(id, component) {
		return fmt.Errorf("%w: add %s to entity %s", ErrDeadEntity, reflect.TypeFor[T](), id)
	}
	return nil
}

// Get returns the entity's T component, or an error wrapping ErrMissingComponent.
func Get[T any](s *Storage, id EntityId) (*T, error) {
	if comp := ReadComponent[T](s, id); comp != nil {
		return comp, nil
	}
	return nil, missingComponent(id, reflect.TypeFor[T]())
}

// MustGet is like Get but panics when the component is missing.
// Use it where a query has already guaranteed presence.
func MustGet[T any](s *Storage, id EntityId) *T {
	comp, err := Get[T](s, id)
	if err != nil {
		panic(err)
	}
	return comp
}

// Has reports whether the entity has a T component.
func Has[T any](s *Storage, id EntityId) bool {
	return s.HasComponent(id, reflect.TypeFor[T]())
}

// Remove detaches the T component from the entity if present.
func Remove[T any](s *Storage, id EntityId) {
	s.RemoveComponent(id, reflect.TypeFor[T]())
}
