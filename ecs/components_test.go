package ecs_test

import (
	"reflect"

	"github.com/plus3/yulebrawl/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	DX, DY float64
}

type Health struct {
	Current int
	Max     int
}

type Name string

type Score int32

type Frozen struct{}

type Inventory struct {
	Items []string
}

type Attributes struct {
	Values map[string]int
}

type Target struct {
	Entity ecs.EntityId
}

type Clock struct {
	Ticks int
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Frozen](registry)
	ecs.RegisterComponent[Inventory](registry)
	ecs.RegisterComponent[Attributes](registry)
	ecs.RegisterComponent[Target](registry)
	ecs.RegisterComponent[Clock](registry)
	ecs.RegisterComponent[float64](registry)
	return registry
}

func newTestStorage() *ecs.Storage {
	return ecs.NewStorage(newTestRegistry())
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
