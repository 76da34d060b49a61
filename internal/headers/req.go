package headers

import (
	"strings"

	"github.com/jub0bs/rpccors/internal/util"
)

// Reasons returned by [CheckRequestHeaderName].
const (
	ReasonInvalid    = "invalid"
	ReasonForbidden  = "forbidden"
	ReasonProhibited = "prohibited"
)

// CheckRequestHeaderName reports why name is unfit for listing in the
// Access-Control-Allow-Headers response header, or "" if it is fit.
// The result is one of "", [ReasonInvalid], [ReasonForbidden],
// and [ReasonProhibited]. Name comparison is case-insensitive.
func CheckRequestHeaderName(name string) string {
	if !IsValid(name) {
		return ReasonInvalid
	}
	name = util.ByteLowercase(name)
	if IsForbiddenRequestHeaderName(name) {
		return ReasonForbidden
	}
	if IsProhibitedRequestHeaderName(name) {
		return ReasonProhibited
	}
	return ""
}

// IsForbiddenRequestHeaderName reports whether name is a
// forbidden request-header name [per the Fetch standard].
// Browsers never let clients set such headers,
// so allowing them is pointless.
//
// Precondition: name is a valid and [byte-lowercase] header name.
//
// [byte-lowercase]: https://infra.spec.whatwg.org/#byte-lowercase
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#forbidden-header-name
func IsForbiddenRequestHeaderName(name string) bool {
	return discreteForbiddenRequestHeaderNames.Contains(name) ||
		strings.HasPrefix(name, "proxy-") ||
		strings.HasPrefix(name, "sec-")
}

var discreteForbiddenRequestHeaderNames = util.NewSet(forbiddenRequestHeaderNameList...)

var forbiddenRequestHeaderNameList = []string{
	"accept-charset",
	"accept-encoding",
	"access-control-request-headers",
	"access-control-request-method",
	"access-control-request-private-network",
	"connection",
	"content-length",
	"cookie",
	"cookie2",
	"date",
	"dnt",
	"expect",
	"host",
	"keep-alive",
	"origin",
	"referer",
	"set-cookie",
	"te",
	"trailer",
	"transfer-encoding",
	"upgrade",
	"via",
}

// IsProhibitedRequestHeaderName reports whether name is a prohibited
// request-header name. Attempts to allow such request headers almost
// always stem from some misunderstanding of CORS: they are response
// headers.
//
// Precondition: name is a valid and [byte-lowercase] header name.
//
// [byte-lowercase]: https://infra.spec.whatwg.org/#byte-lowercase
func IsProhibitedRequestHeaderName(name string) bool {
	return prohibitedRequestHeaderNames.Contains(name)
}

var prohibitedRequestHeaderNames = util.NewSet(prohibitedRequestHeaderNameList...)

var prohibitedRequestHeaderNameList = []string{
	"access-control-allow-origin",
	"access-control-allow-credentials",
	"access-control-allow-methods",
	"access-control-allow-headers",
	"access-control-allow-private-network",
	"access-control-max-age",
	"access-control-expose-headers",
}
