package ecs

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sort"
	"unsafe"
)

// Storage is the main ECS storage. It owns the live entity set and one
// sparse component store per registered component kind.
type Storage struct {
	entities   entityStore
	storages   map[reflect.Type]iComponentStorage
	singletons map[reflect.Type]*singletonEntry
	registry   *ComponentRegistry
}

type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		storages:   make(map[reflect.Type]iComponentStorage),
		singletons: make(map[reflect.Type]*singletonEntry),
		registry:   registry,
	}
}

// Create allocates a new entity with no components.
func (s *Storage) Create() EntityId {
	return s.entities.create()
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	id := s.entities.create()
	for _, comp := range components {
		s.AddComponent(id, comp)
	}
	return id
}

// Alive reports whether the id refers to a live entity.
func (s *Storage) Alive(id EntityId) bool {
	return s.entities.isAlive(id)
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return s.entities.count
}

// Entities returns an iterator over live entities in ascending index order.
func (s *Storage) Entities() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for index := uint32(1); int(index) <= len(s.entities.generations); index++ {
			id, ok := s.entities.liveId(index)
			if !ok {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

// Delete removes the entity and all of its components.
// Deleting an entity that is already dead is a no-op.
func (s *Storage) Delete(id EntityId) {
	if !s.entities.destroy(id) {
		return
	}
	for _, storage := range s.storages {
		storage.Delete(id)
	}
}

// AddComponent attaches the component to the entity, replacing any existing
// component of the same kind. Returns false if the entity is not alive.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	if !s.entities.isAlive(id) {
		return false
	}
	storage := s.storageFor(componentType(component))
	return storage.Set(id, component)
}

// RemoveComponent detaches the component kind from the entity if present.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) {
	if storage, ok := s.storages[compType]; ok {
		storage.Delete(id)
	}
}

// GetComponent returns a pointer to the component for the given entity ID and
// component type, or nil if the entity does not have it.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	storage, ok := s.storages[compType]
	if !ok {
		return nil
	}
	return storage.Get(id)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	storage, ok := s.storages[compType]
	if !ok {
		return false
	}
	return storage.Has(id)
}

// ComponentTypes returns the component kinds attached to the entity, sorted by name.
func (s *Storage) ComponentTypes(id EntityId) []reflect.Type {
	types := make([]reflect.Type, 0, 8)
	for typ, storage := range s.storages {
		if storage.Has(id) {
			types = append(types, typ)
		}
	}
	sort.Sort(byTypeName(types))
	return types
}

// AddSingleton stores an entity-less component. Adding a singleton of a type
// that already exists replaces its value in place.
func (s *Storage) AddSingleton(value any) {
	typ := componentType(value)
	if entry, ok := s.singletons[typ]; ok {
		entry.value.Elem().Set(reflect.Indirect(reflect.ValueOf(value)))
		return
	}

	ptr := reflect.New(typ)
	ptr.Elem().Set(reflect.Indirect(reflect.ValueOf(value)))
	s.singletons[typ] = &singletonEntry{
		value:   ptr,
		dataPtr: ptr.UnsafePointer(),
	}
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	return s.singletons[typ]
}

// storageFor returns the component store for a type, creating it from the registry on first use.
func (s *Storage) storageFor(typ reflect.Type) iComponentStorage {
	if storage, ok := s.storages[typ]; ok {
		return storage
	}
	factory := s.registry.getFactory(typ)
	if factory == nil {
		panic("component type " + typ.String() + " not registered")
	}
	storage := factory()
	s.storages[typ] = storage
	return storage
}

// componentType returns the value type of a component, dereferencing pointers.
func componentType(component any) reflect.Type {
	compType := reflect.TypeOf(component)
	if compType == nil {
		panic("component cannot be nil")
	}
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	return compType
}

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// sortByIndex orders entity ids by index so iteration is reproducible across runs.
func sortByIndex(ids []EntityId) {
	slices.SortFunc(ids, func(a, b EntityId) int {
		switch {
		case a.Index() < b.Index():
			return -1
		case a.Index() > b.Index():
			return 1
		}
		return 0
	})
}

// ComponentReader looks up a component by type. Storage implements it.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T, or nil if it has none.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp := reader.GetComponent(entityId, reflect.TypeFor[T]())
	if comp == nil {
		return nil
	}
	return comp.(*T)
}

func missingComponent(id EntityId, typ reflect.Type) error {
	return fmt.Errorf("%w: entity %s has no %s", ErrMissingComponent, id, typ)
}
