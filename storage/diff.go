package storage

import "sort"

// A Change is a resource that differs between two snapshots.
type Change struct {
	Name string
	Type string
}

// Changes are the differences between two snapshots of a stack.
type Changes struct {
	Added   []Change
	Removed []Change
	Changed []Change

	// Unchanged is the number of resources that did not change.
	Unchanged int
}

// Empty reports whether there are no changes.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares two snapshots. A resource is changed if its digest or type
// differs. A nil snapshot has no resources. Changes are sorted by name.
func Diff(prev, next *Snapshot) Changes {
	var before, after map[string]ResourceState
	if prev != nil {
		before = prev.Resources
	}
	if next != nil {
		after = next.Resources
	}

	var c Changes
	for name, r := range after {
		old, ok := before[name]
		switch {
		case !ok:
			c.Added = append(c.Added, Change{Name: name, Type: r.Type})
		case old.Digest != r.Digest || old.Type != r.Type:
			c.Changed = append(c.Changed, Change{Name: name, Type: r.Type})
		default:
			c.Unchanged++
		}
	}
	for name, r := range before {
		if _, ok := after[name]; !ok {
			c.Removed = append(c.Removed, Change{Name: name, Type: r.Type})
		}
	}

	sortChanges(c.Added)
	sortChanges(c.Removed)
	sortChanges(c.Changed)
	return c
}

func sortChanges(cc []Change) {
	sort.Slice(cc, func(i, j int) bool { return cc[i].Name < cc[j].Name })
}
