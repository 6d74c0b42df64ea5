package domain

import (
	"sort"
	"time"
)

// GroupTable is a named logical unit of adjacent tables bookable by larger parties
type GroupTable struct {
	ID                  int64
	OutletSeatingTypeID int64
	Name                string
	MinPax              int
	MaxPax              int
	IsActive            bool

	// Sequence is the ordered table list fixed at creation
	Sequence      []int64
	Possibilities []*GroupPossibility

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupPossibility is one contiguous subset of a group's tables that may be allocated together
type GroupPossibility struct {
	ID           int64
	GroupTableID int64
	Index        int
	TableIDs     []int64
	CreatedAt    time.Time
}

// SameTables reports whether the possibility holds exactly the given set of tables, ignoring order
func (p *GroupPossibility) SameTables(tableIDs []int64) bool {
	return SameTableSet(p.TableIDs, tableIDs)
}

// InSequence reports whether tableID is part of the group's sequence
func (g *GroupTable) InSequence(tableID int64) bool {
	for _, id := range g.Sequence {
		if id == tableID {
			return true
		}
	}
	return false
}

// FindPossibility returns the possibility with the given id, or nil
func (g *GroupTable) FindPossibility(possibilityID int64) *GroupPossibility {
	for _, p := range g.Possibilities {
		if p.ID == possibilityID {
			return p
		}
	}
	return nil
}

// SameTableSet compares two table id lists as sets
func SameTableSet(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	x := sortedCopy(a)
	y := sortedCopy(b)
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// HasDuplicateIDs returns true if the list contains the same id twice
func HasDuplicateIDs(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func sortedCopy(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
