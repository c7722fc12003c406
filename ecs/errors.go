package ecs

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingComponent is returned when an entity lacks a requested component kind.
	ErrMissingComponent = errors.New("ecs: missing component")
	// ErrDeadEntity is returned when an operation targets an entity that is not alive.
	ErrDeadEntity = errors.New("ecs: dead entity")
)

func deadEntity(id EntityId) error {
	return fmt.Errorf("%w: %s", ErrDeadEntity, id)
}
