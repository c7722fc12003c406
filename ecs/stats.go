package ecs

import "sort"

// StorageStats summarizes the contents of a Storage.
type StorageStats struct {
	TotalEntityCount   int
	ComponentKindCount int
	SingletonCount     int
	ComponentBreakdown []ComponentStats
	SingletonTypes     []string
}

// ComponentStats is the number of live components of one kind.
type ComponentStats struct {
	Type  string
	Count int
}

// CollectStats gathers entity, component and singleton counts.
// Component kinds with no attached components are omitted.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		TotalEntityCount: s.entities.count,
		SingletonCount:   len(s.singletons),
	}

	for typ, storage := range s.storages {
		if storage.Len() == 0 {
			continue
		}
		stats.ComponentBreakdown = append(stats.ComponentBreakdown, ComponentStats{
			Type:  typ.String(),
			Count: storage.Len(),
		})
	}
	sort.Slice(stats.ComponentBreakdown, func(i, j int) bool {
		return stats.ComponentBreakdown[i].Type < stats.ComponentBreakdown[j].Type
	})
	stats.ComponentKindCount = len(stats.ComponentBreakdown)

	for typ := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, typ.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}
