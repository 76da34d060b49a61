package rpccors

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/jub0bs/rpccors/cfgerrors"
	"github.com/jub0bs/rpccors/internal/headers"
	"github.com/jub0bs/rpccors/internal/methods"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/net/idna"
)

// Default values of the fields of a [Policy].
const (
	DefaultAllowOrigin  = "*"
	DefaultAllowMethods = "POST, OPTIONS, GET"
	DefaultAllowHeaders = "Content-Type, Accept, Authorization, x-requested-with"
)

// A Policy configures a [Behavior].
// Each field holds the value, verbatim, of the eponymous CORS response
// header; empty fields take their default values
// (see [DefaultAllowOrigin], [DefaultAllowMethods], and
// [DefaultAllowHeaders]).
//
// The same policy applies to all requests: Access-Control-Allow-Origin is
// set to AllowOrigin regardless of the request's origin.
//
// Behaviors perform no validation of their policy; supplying well-formed
// values is the caller's responsibility. [Policy.Validate] can help.
type Policy struct {
	AllowOrigin  string `mapstructure:"allow_origin"`
	AllowMethods string `mapstructure:"allow_methods"`
	AllowHeaders string `mapstructure:"allow_headers"`
}

// DefaultPolicy returns the policy whose fields all hold their default
// values.
func DefaultPolicy() Policy {
	return Policy{
		AllowOrigin:  DefaultAllowOrigin,
		AllowMethods: DefaultAllowMethods,
		AllowHeaders: DefaultAllowHeaders,
	}
}

func (p Policy) withDefaults() Policy {
	if p.AllowOrigin == "" {
		p.AllowOrigin = DefaultAllowOrigin
	}
	if p.AllowMethods == "" {
		p.AllowMethods = DefaultAllowMethods
	}
	if p.AllowHeaders == "" {
		p.AllowHeaders = DefaultAllowHeaders
	}
	return p
}

// DecodePolicy decodes settings (as produced by a configuration loader)
// into a policy. Recognized keys are "allow_origin", "allow_methods", and
// "allow_headers"; their values are strings or lists of strings, the
// latter being joined with ", ". Absent keys take their default values.
// Unknown keys result in an error.
//
// DecodePolicy doesn't validate the resulting policy.
func DecodePolicy(settings map[string]any) (Policy, error) {
	p := DefaultPolicy()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  joinLists,
		ErrorUnused: true,
		Result:      &p,
	})
	if err != nil {
		return Policy{}, err
	}
	if err := dec.Decode(settings); err != nil {
		return Policy{}, fmt.Errorf("rpccors: decoding policy: %w", err)
	}
	return p.withDefaults(), nil
}

const listSep = ", "

func joinLists(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if k := from.Kind(); k != reflect.Slice && k != reflect.Array {
		return data, nil
	}
	v := reflect.ValueOf(data)
	elems := make([]string, v.Len())
	for i := range v.Len() {
		s, ok := v.Index(i).Interface().(string)
		if !ok {
			return nil, fmt.Errorf("list element %d is not a string", i)
		}
		elems[i] = s
	}
	return strings.Join(elems, listSep), nil
}

// Validate reports the problems, if any, of p (after defaults have been
// applied) as CORS policy:
//   - AllowOrigin must be either "*" or an [ASCII serialized origin]
//     whose scheme isn't file;
//   - AllowMethods must be a comma-separated list of valid methods,
//     none of which is [forbidden];
//   - AllowHeaders must be a comma-separated list of valid header names,
//     none of which is a [forbidden request-header name]
//     or a CORS response-header name.
//
// The result, if non-nil, joins one or more errors; rely on package
// [github.com/jub0bs/rpccors/cfgerrors] to inspect them.
//
// Behaviors never call Validate;
// it's meant for whoever wires a policy into an endpoint.
//
// [ASCII serialized origin]: https://html.spec.whatwg.org/multipage/browsers.html#ascii-serialisation-of-an-origin
// [forbidden]: https://fetch.spec.whatwg.org/#forbidden-method
// [forbidden request-header name]: https://fetch.spec.whatwg.org/#forbidden-header-name
func (p Policy) Validate() error {
	p = p.withDefaults()
	// Accumulate errors in a slice so as to call errors.Join at most once.
	errs := validateOrigin(nil, p.AllowOrigin)
	errs = validateMethods(errs, p.AllowMethods)
	errs = validateHeaders(errs, p.AllowHeaders)
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validateOrigin(errs []error, origin string) []error {
	if strings.TrimSpace(origin) == "" {
		return append(errs, &cfgerrors.UnacceptableOriginError{Reason: "missing"})
	}
	switch origin {
	case headers.ValueWildcard:
		return errs
	case "null":
		// see https://jub0bs.com/posts/2023-02-08-fearless-cors/#3-do-not-allow-the-null-origin
		err := &cfgerrors.UnacceptableOriginError{
			Value:  origin,
			Reason: "prohibited",
		}
		return append(errs, err)
	}
	invalid := &cfgerrors.UnacceptableOriginError{
		Value:  origin,
		Reason: "invalid",
	}
	u, err := url.Parse(origin)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return append(errs, invalid)
	}
	// Anything beyond scheme, host, and port (path, query, userinfo, etc.)
	// or any non-canonical spelling of those shows here.
	if u.Scheme+"://"+u.Host != origin {
		return append(errs, invalid)
	}
	if u.Scheme == "file" {
		err := &cfgerrors.UnacceptableOriginError{
			Value:  origin,
			Reason: "prohibited",
		}
		return append(errs, err)
	}
	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || 1<<16-1 < n || port[0] == '0' {
			return append(errs, invalid)
		}
	} else if strings.HasSuffix(u.Host, ":") {
		return append(errs, invalid)
	}
	host := u.Hostname()
	if strings.HasPrefix(u.Host, "[") { // IPv6 literal
		return errs
	}
	// Unicode hosts must be specified in Punycode.
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || ascii != host {
		return append(errs, invalid)
	}
	return errs
}

func validateMethods(errs []error, list string) []error {
	for _, name := range headers.Split(list) {
		if !methods.IsValid(name) {
			err := &cfgerrors.UnacceptableMethodError{
				Value:  name,
				Reason: "invalid",
			}
			errs = append(errs, err)
			continue
		}
		if methods.IsForbidden(name) {
			err := &cfgerrors.UnacceptableMethodError{
				Value:  name,
				Reason: "forbidden",
			}
			errs = append(errs, err)
		}
	}
	return errs
}

func validateHeaders(errs []error, list string) []error {
	for _, name := range headers.Split(list) {
		if name == headers.ValueWildcard {
			continue
		}
		if reason := headers.CheckRequestHeaderName(name); reason != "" {
			err := &cfgerrors.UnacceptableHeaderNameError{
				Value:  name,
				Reason: reason,
			}
			errs = append(errs, err)
		}
	}
	return errs
}
