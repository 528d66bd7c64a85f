package ecs

import "sort"

// WorldStats is a snapshot of world occupancy, used by the debug overlay and stress reports.
type WorldStats struct {
	TotalEntityCount int
	RootCount        int
	Capacity         int
	FreeSlots        int
	SingletonCount   int
	SingletonTypes   []string
	KindCounts       [KindCount]int
}

// CollectStats walks the world and gathers occupancy statistics.
func (w *World) CollectStats() *WorldStats {
	stats := &WorldStats{
		TotalEntityCount: w.count,
		Capacity:         len(w.blocks) * entityBlockSize,
		FreeSlots:        len(w.freeSlots),
		SingletonCount:   len(w.singletons),
	}

	for _, e := range w.Entities() {
		if e.parent == 0 {
			stats.RootCount++
		}
		for k, c := range e.components {
			if c != nil {
				stats.KindCounts[k]++
			}
		}
	}

	for t := range w.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	sort.Strings(stats.SingletonTypes)

	return stats
}
