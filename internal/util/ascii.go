package util

// ByteLowercase returns a [byte-lowercase] version of str.
//
// [byte-lowercase]: https://infra.spec.whatwg.org/#byte-lowercase
func ByteLowercase(str string) string {
	for i := range len(str) {
		if 'A' <= str[i] && str[i] <= 'Z' {
			return byteLowercaseFrom(str, i)
		}
	}
	return str // no allocation in the common case
}

func byteLowercaseFrom(str string, i int) string {
	const toLower = 'a' - 'A'
	b := []byte(str)
	for ; i < len(b); i++ {
		if 'A' <= b[i] && b[i] <= 'Z' {
			b[i] += toLower
		}
	}
	return string(b)
}
