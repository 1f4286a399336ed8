package mining

import (
	"sort"
	"strings"
)

// ActivitySet is a set of activity names, always kept sorted so that two
// sets containing the same activities compare and key identically
// regardless of how they were built.
type ActivitySet []string

// NewActivitySet builds a canonical ActivitySet from a (possibly
// unsorted, possibly duplicated) slice of activity names.
func NewActivitySet(activities ...string) ActivitySet {
	seen := make(map[string]bool, len(activities))
	out := make(ActivitySet, 0, len(activities))
	for _, a := range activities {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Key returns a canonical string form suitable for use as a map key.
// Activities are written in sorted order, each followed by a NUL byte, so
// two sets collide only if an activity name itself contains a NUL byte.
func (s ActivitySet) Key() string {
	var b strings.Builder
	for _, a := range s {
		b.WriteString(a)
		b.WriteByte(0)
	}
	return b.String()
}

// Contains reports whether the set contains the given activity.
func (s ActivitySet) Contains(activity string) bool {
	for _, a := range s {
		if a == activity {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every activity in s also appears in other.
func (s ActivitySet) SubsetOf(other ActivitySet) bool {
	for _, a := range s {
		if !other.Contains(a) {
			return false
		}
	}
	return true
}

// Equal reports whether s and other contain exactly the same activities.
// Both sets are assumed canonical (sorted, deduplicated).
func (s ActivitySet) Equal(other ActivitySet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Union returns a new canonical set containing every activity in either
// set.
func (s ActivitySet) Union(other ActivitySet) ActivitySet {
	combined := make([]string, 0, len(s)+len(other))
	combined = append(combined, s...)
	combined = append(combined, other...)
	return NewActivitySet(combined...)
}

// String renders the set as "{a, b, c}".
func (s ActivitySet) String() string {
	return "{" + strings.Join(s, ", ") + "}"
}
