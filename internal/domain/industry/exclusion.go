package industry

import "sort"

// ExclusionKind says whether an exclusion targets a single item or a whole item group
type ExclusionKind string

const (
	ExclusionItem  ExclusionKind = "item"
	ExclusionGroup ExclusionKind = "group"
)

func (k ExclusionKind) IsValid() bool {
	return k == ExclusionItem || k == ExclusionGroup
}

// Exclusion is an owner-wide entry that forces an item or group to be bought
type Exclusion struct {
	OwnerID  int
	Kind     ExclusionKind
	TargetID int
}

// ExclusionSet holds excluded item ids and group ids. The zero value excludes nothing.
type ExclusionSet struct {
	items  map[int]struct{}
	groups map[int]struct{}
}

// NewExclusionSet creates a set from item and group ids
func NewExclusionSet(itemIDs, groupIDs []int) ExclusionSet {
	s := ExclusionSet{
		items:  make(map[int]struct{}, len(itemIDs)),
		groups: make(map[int]struct{}, len(groupIDs)),
	}
	for _, id := range itemIDs {
		s.items[id] = struct{}{}
	}
	for _, id := range groupIDs {
		s.groups[id] = struct{}{}
	}
	return s
}

// ExclusionSetFromEntries builds a set from owner-wide exclusion entries
func ExclusionSetFromEntries(entries []Exclusion) ExclusionSet {
	var items, groups []int
	for _, e := range entries {
		switch e.Kind {
		case ExclusionItem:
			items = append(items, e.TargetID)
		case ExclusionGroup:
			groups = append(groups, e.TargetID)
		}
	}
	return NewExclusionSet(items, groups)
}

// IsExcluded reports whether the item or its group is excluded
func (s ExclusionSet) IsExcluded(itemID, groupID int) bool {
	if _, ok := s.items[itemID]; ok {
		return true
	}
	_, ok := s.groups[groupID]
	return ok
}

// Merge returns the union of both sets
func (s ExclusionSet) Merge(other ExclusionSet) ExclusionSet {
	return NewExclusionSet(
		append(s.ItemIDs(), other.ItemIDs()...),
		append(s.GroupIDs(), other.GroupIDs()...),
	)
}

// ItemIDs returns the excluded item ids in ascending order
func (s ExclusionSet) ItemIDs() []int {
	return sortedKeys(s.items)
}

// GroupIDs returns the excluded group ids in ascending order
func (s ExclusionSet) GroupIDs() []int {
	return sortedKeys(s.groups)
}

// Equals compares two sets by content
func (s ExclusionSet) Equals(other ExclusionSet) bool {
	return intsEqual(s.ItemIDs(), other.ItemIDs()) && intsEqual(s.GroupIDs(), other.GroupIDs())
}

func (s ExclusionSet) IsEmpty() bool {
	return len(s.items) == 0 && len(s.groups) == 0
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
