package arrange

import (
	"slices"

	"atlas-editor/pkg/geometry"
)

// Entry is one item's placement in a snapshot.
type Entry struct {
	Name   string
	Bounds geometry.Rect
	Z      int
}

// Snapshot is the placement of every item at one moment.
type Snapshot []Entry

// Snapshot captures the bounds and Z of every item.
func (s Scene) Snapshot() Snapshot {
	snap := make(Snapshot, len(s.items))
	for i, it := range s.items {
		snap[i] = Entry{Name: it.Name, Bounds: it.Bounds, Z: it.Z}
	}
	return snap
}

// Restore applies a snapshot by name. Items without an entry keep their
// placement.
func (s *Scene) Restore(snap Snapshot) {
	byName := make(map[string]Entry, len(snap))
	for _, e := range snap {
		byName[e.Name] = e
	}
	for i := range s.items {
		if e, ok := byName[s.items[i].Name]; ok {
			s.items[i].Bounds = e.Bounds
			s.items[i].Z = e.Z
		}
	}
	s.sortOrder()
}

// Log is a LIFO of snapshots. The zero value is empty. Log is a value;
// Push and Pop return the updated log and never write into storage a
// previous value can see.
type Log struct {
	stack []Snapshot
}

// Len returns the number of snapshots.
func (l Log) Len() int { return len(l.stack) }

// Push returns l with snap on top.
func (l Log) Push(snap Snapshot) Log {
	return Log{stack: append(slices.Clip(l.stack), snap)}
}

// Pop returns l without its top snapshot, and that snapshot. ok is false
// when the log is empty.
func (l Log) Pop() (Log, Snapshot, bool) {
	n := len(l.stack)
	if n == 0 {
		return l, nil, false
	}
	return Log{stack: l.stack[:n-1]}, l.stack[n-1], true
}
