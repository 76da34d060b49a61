package headers

import "strings"

// TrimOWS trims all [optional whitespace (OWS)]
// from the start and the end of s.
//
// [optional whitespace (OWS)]: https://httpwg.org/specs/rfc9110.html#whitespace
func TrimOWS(s string) string {
	return strings.Trim(s, ows)
}

const ows = "\t "
