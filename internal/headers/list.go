package headers

import "strings"

// Split splits s, the value of a [list-based field], into its elements,
// stripped of any surrounding OWS. Empty elements are dropped.
//
// [list-based field]: https://httpwg.org/specs/rfc9110.html#abnf.extension
func Split(s string) []string {
	var elems []string
	for elem := range strings.SplitSeq(s, ValueSep) {
		elem = TrimOWS(elem)
		if elem == "" {
			continue
		}
		elems = append(elems, elem)
	}
	return elems
}
