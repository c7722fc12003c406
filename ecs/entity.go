package ecs

import "strconv"

// EntityId encodes both the generation (upper 32 bits) and the entity index (lower 32 bits).
// Index 0 is never issued, so the zero EntityId never refers to a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from a generation and entity index
func NewEntityId(generation uint32, index uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// Index extracts the entity index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Valid reports whether the id could refer to an entity at all.
// It says nothing about liveness; use Storage.Alive for that.
func (e EntityId) Valid() bool {
	return e.Index() != 0
}

func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e.Index()), 10) + "v" + strconv.FormatUint(uint64(e.Generation()), 10)
}

// entityStore tracks entity generations and recycles freed indices.
type entityStore struct {
	generations []uint32 // generations[i-1] is the live generation of index i
	alive       []bool
	free        []uint32
	count       int
}

func (s *entityStore) create() EntityId {
	var index uint32
	if len(s.free) > 0 {
		index = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.generations = append(s.generations, 1)
		s.alive = append(s.alive, false)
		index = uint32(len(s.generations))
	}
	s.alive[index-1] = true
	s.count++
	return NewEntityId(s.generations[index-1], index)
}

// destroy reports whether the entity was alive before the call.
func (s *entityStore) destroy(id EntityId) bool {
	if !s.isAlive(id) {
		return false
	}
	idx := id.Index() - 1
	s.alive[idx] = false
	s.generations[idx]++
	s.free = append(s.free, id.Index())
	s.count--
	return true
}

func (s *entityStore) isAlive(id EntityId) bool {
	index := id.Index()
	if index == 0 || int(index) > len(s.generations) {
		return false
	}
	return s.alive[index-1] && s.generations[index-1] == id.Generation()
}

// liveId returns the current id for an index, if that index is alive.
func (s *entityStore) liveId(index uint32) (EntityId, bool) {
	if index == 0 || int(index) > len(s.generations) || !s.alive[index-1] {
		return 0, false
	}
	return NewEntityId(s.generations[index-1], index), true
}
