package ecs

import "iter"

// Query wraps a View with a per-pass entity snapshot.
// Execute fixes the set of matching entities; Iter then re-reads their components,
// skipping any entity that was destroyed or lost a required component since Execute.
// Entities created after Execute are not visited until the next Execute.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	cachedEntities []EntityId
	cacheValid     bool
}

// NewQuery creates a new Query for the given storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	return &Query[T]{
		view:    NewView[T](storage),
		storage: storage,
	}
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedEntities = q.cachedEntities[:0]
	q.cacheValid = false
}

// Execute snapshots the entities matching this query.
// Called automatically by the Scheduler before the owning system runs.
func (q *Query[T]) Execute() {
	q.cachedEntities = q.cachedEntities[:0]
	for _, id := range q.view.candidates() {
		if q.view.Matches(id) {
			q.cachedEntities = append(q.cachedEntities, id)
		}
	}
	q.cacheValid = true
}

// Iter returns an iterator over entity IDs and component data.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(EntityId, T) bool) {
		var result T
		for _, id := range q.cachedEntities {
			if !q.view.Fill(id, &result) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for _, item := range q.Iter() {
			if !yield(item) {
				return
			}
		}
	}
}

// Len returns the size of the current snapshot, including entities that may
// since have been destroyed.
func (q *Query[T]) Len() int {
	return len(q.cachedEntities)
}

// Get returns the view struct for an entity, or nil if it does not match.
func (q *Query[T]) Get(id EntityId) *T {
	return q.view.Get(id)
}
