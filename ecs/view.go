package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View represents a query for entities with a specific combination of components
// The type T should be a struct with embedded pointer fields for each component type
// Named fields can be marked as optional using the `ecs:"optional"` struct tag
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
}

// NewView creates a new view for the given struct type
// The struct T should have embedded or named fields that are pointers to component types
// Embedded fields are always required
// Named fields can be marked as optional using the `ecs:"optional"` struct tag
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	types := make([]reflect.Type, 0, structType.NumField())
	optional := make([]bool, 0, structType.NumField())
	fieldOffset := make([]uintptr, 0, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		componentType := fieldType.Elem()
		if storage != nil && !storage.registry.IsRegistered(componentType) {
			panic("component type " + componentType.String() + " not registered")
		}
		types = append(types, componentType)
		fieldOffset = append(fieldOffset, field.Offset)

		// Embedded fields (field.Anonymous) are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}
		optional = append(optional, isOptional)
	}

	return &View[T]{
		storage:     storage,
		types:       types,
		optional:    optional,
		fieldOffset: fieldOffset,
	}
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is dead or missing any required components
// Optional components are set to nil if not present
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	_, ok := v.fill(id, ptr)
	return ok
}

// fill returns the index of the first missing required component on failure, or -1 for a dead entity.
func (v *View[T]) fill(id EntityId, ptr *T) (int, bool) {
	if !v.storage.Alive(id) {
		return -1, false
	}

	// Use unsafe.Pointer to directly access the struct's memory
	// This avoids reflection overhead in the hot path
	structPtr := unsafe.Pointer(ptr)

	for i, componentType := range v.types {
		component := v.storage.GetComponent(id, componentType)

		fieldPtr := unsafe.Add(structPtr, v.fieldOffset[i])

		if component == nil {
			if !v.optional[i] {
				return i, false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// The interface data word is the component pointer itself
		componentPtr := (*iface)(unsafe.Pointer(&component)).data
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}

	return 0, true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// Lookup is like Get but reports why the entity does not match.
// The error wraps ErrDeadEntity or ErrMissingComponent.
func (v *View[T]) Lookup(id EntityId) (*T, error) {
	var result T
	missing, ok := v.fill(id, &result)
	if ok {
		return &result, nil
	}
	if missing < 0 {
		return nil, deadEntity(id)
	}
	return nil, missingComponent(id, v.types[missing])
}

// Matches reports whether the entity is alive and has every required component.
func (v *View[T]) Matches(id EntityId) bool {
	if !v.storage.Alive(id) {
		return false
	}
	for i, typ := range v.types {
		if !v.optional[i] && !v.storage.HasComponent(id, typ) {
			return false
		}
	}
	return true
}

// candidates returns the ids that could match, in ascending index order.
// It scans the smallest required component store, or every entity when the view
// has no required components.
func (v *View[T]) candidates() []EntityId {
	var smallest iComponentStorage
	hasRequired := false
	for i, typ := range v.types {
		if v.optional[i] {
			continue
		}
		hasRequired = true
		storage, ok := v.storage.storages[typ]
		if !ok {
			// No entity has ever carried this component
			return nil
		}
		if smallest == nil || storage.Len() < smallest.Len() {
			smallest = storage
		}
	}

	var ids []EntityId
	if !hasRequired {
		ids = make([]EntityId, 0, v.storage.Len())
		for id := range v.storage.Entities() {
			ids = append(ids, id)
		}
		return ids
	}

	ids = make([]EntityId, 0, smallest.Len())
	for id := range smallest.Iter() {
		ids = append(ids, id)
	}
	sortByIndex(ids)
	return ids
}

// Iter returns an iterator over all entities that have all the required components for this view
// The iterator yields (EntityId, T) pairs where T is the populated view struct
// Optional components are set to nil if not present
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		var result T
		for _, id := range v.candidates() {
			if !v.Fill(id, &result) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
// This is useful when you only care about the component data, not which entity it belongs to
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates a new entity with components copied from the view struct
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	for i := range v.types {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil && !v.optional[i] {
			panic("required component is nil in View.Spawn")
		}
	}

	id := v.storage.Create()
	for i, componentType := range v.types {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil {
			continue
		}
		component := reflect.NewAt(componentType, componentPtr).Interface()
		v.storage.AddComponent(id, component)
	}
	return id
}
