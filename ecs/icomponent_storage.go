package ecs

import (
	"iter"
	"reflect"
)

// iComponentStorage is an interface for a type-erased component storage keyed by entity.
type iComponentStorage interface {
	Set(id EntityId, item any) bool
	Delete(id EntityId) bool
	Get(id EntityId) any
	Has(id EntityId) bool
	Len() int
	Iter() iter.Seq[EntityId]
	Type() reflect.Type
}
