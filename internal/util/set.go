package util

// A Set represents a set of strings.
type Set struct {
	m map[string]struct{}
}

// NewSet returns a Set that contains all of elems
// but no other elements.
func NewSet(elems ...string) Set {
	set := Set{m: make(map[string]struct{}, len(elems))}
	for _, e := range elems {
		set.m[e] = struct{}{}
	}
	return set
}

// Contains reports whether e is an element of set.
func (set Set) Contains(e string) bool {
	_, found := set.m[e]
	return found
}
