/*
Package cfgerrors provides functionalities for programmatically handling
configuration errors produced by package [github.com/jub0bs/rpccors].

Most users of package [github.com/jub0bs/rpccors] have no use for this
package. However, services that let operators supply a CORS policy
(e.g. via a configuration file or some admin endpoint) may find this
package useful: it indeed allows them to report policy mistakes via
custom, human-friendly error messages.
*/
package cfgerrors

import (
	"fmt"
	"iter"
)

// An UnacceptableOriginError indicates an unacceptable allowed origin.
// The Reason field may take one of three values:
//   - "missing": no origin was specified;
//   - "invalid": the value is neither "*" nor a valid serialized origin;
//   - "prohibited": the origin is prohibited by this library
//     (the null origin and origins whose scheme is file).
//
// For more details, see [github.com/jub0bs/rpccors.Policy.Validate].
type UnacceptableOriginError struct {
	Value  string // the unacceptable value that was specified
	Reason string // missing | invalid | prohibited
}

func (err *UnacceptableOriginError) Error() string {
	if err.Reason == "missing" {
		return "rpccors: an allowed origin must be specified"
	}
	const tmpl = "rpccors: %s origin %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Value)
}

// An UnacceptableMethodError indicates an unacceptable method.
// The Reason field may take one of two values:
//   - "invalid": the method is invalid;
//   - "forbidden": the method is forbidden by [the Fetch standard].
//
// For more details, see [github.com/jub0bs/rpccors.Policy.Validate].
//
// [the Fetch standard]: https://fetch.spec.whatwg.org
type UnacceptableMethodError struct {
	Value  string // the unacceptable value that was specified
	Reason string // invalid | forbidden
}

func (err *UnacceptableMethodError) Error() string {
	const tmpl = "rpccors: %s method %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Value)
}

// An UnacceptableHeaderNameError indicates an unacceptable request-header
// name. The Reason field may take one of three values:
//   - "invalid": the header name is invalid;
//   - "prohibited": the header name is prohibited by this library;
//   - "forbidden": the header name is forbidden by [the Fetch standard].
//
// For more details, see [github.com/jub0bs/rpccors.Policy.Validate].
//
// [the Fetch standard]: https://fetch.spec.whatwg.org
type UnacceptableHeaderNameError struct {
	Value  string // the unacceptable value that was specified
	Reason string // invalid | prohibited | forbidden
}

func (err *UnacceptableHeaderNameError) Error() string {
	const tmpl = "rpccors: %s request-header name %q"
	return fmt.Sprintf(tmpl, err.Reason, err.Value)
}

// An IncompatibleInvokerError indicates an attempt to decorate an
// operation invoker that doesn't support synchronous invocation.
// Invoker is the dynamic type of the offending invoker.
//
// For more details, see [github.com/jub0bs/rpccors.NewInvoker].
type IncompatibleInvokerError struct {
	Invoker string
}

func (err *IncompatibleInvokerError) Error() string {
	const tmpl = "rpccors: only synchronous invokers are supported, but %s is not"
	return fmt.Sprintf(tmpl, err.Invoker)
}

// All returns an iterator over the CORS-configuration errors contained in
// err's error tree. The order is unspecified and may change from one release
// to the next. All only supports error values returned by
// [github.com/jub0bs/rpccors.Policy.Validate]; it should not be called on
// any other error value.
func All(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		every(err, yield)
	}
}

func every(err error, f func(error) bool) bool {
	switch err := err.(type) {
	// Note that there's no need for any "interface { Unwrap() error }" case
	// because nowhere do we "wrap" errors; we only ever "join" them.
	case interface{ Unwrap() []error }:
		for _, err := range err.Unwrap() {
			if !every(err, f) {
				return false
			}
		}
		return true
	default:
		return f(err)
	}
}
