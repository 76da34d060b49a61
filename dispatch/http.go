package dispatch

import "net/http"

// Names under which HTTP-specific properties are stored in a message's
// property bag.
const (
	HTTPRequestPropertyName  = "httpRequest"
	HTTPResponsePropertyName = "httpResponse"
)

// An HTTPRequestProperty exposes the HTTP method and headers of the request
// that carried a message.
type HTTPRequestProperty struct {
	Method string
	Header http.Header // keys in canonical format
}

// An HTTPResponseProperty controls the HTTP status and headers of the
// response that carries a reply.
// A zero StatusCode means http.StatusOK.
type HTTPResponseProperty struct {
	StatusCode int
	Header     http.Header
}

// NewHTTPResponseProperty returns an HTTPResponseProperty with an empty,
// non-nil header map.
func NewHTTPResponseProperty() *HTTPResponseProperty {
	return &HTTPResponseProperty{Header: make(http.Header)}
}

// HTTPRequest returns the HTTP request property of m, if any.
func HTTPRequest(m *Message) (*HTTPRequestProperty, bool) {
	v, found := m.Properties.Get(HTTPRequestPropertyName)
	if !found {
		return nil, false
	}
	prop, ok := v.(*HTTPRequestProperty)
	return prop, ok && prop != nil
}

// HTTPResponse returns the HTTP response property of m, if any.
func HTTPResponse(m *Message) (*HTTPResponseProperty, bool) {
	v, found := m.Properties.Get(HTTPResponsePropertyName)
	if !found {
		return nil, false
	}
	prop, ok := v.(*HTTPResponseProperty)
	return prop, ok && prop != nil
}

// EnsureHTTPResponse returns the HTTP response property of m,
// creating and attaching one if m has none.
func EnsureHTTPResponse(m *Message) *HTTPResponseProperty {
	if m.Properties == nil {
		m.Properties = make(Properties)
	}
	prop, ok := HTTPResponse(m)
	if !ok {
		prop = NewHTTPResponseProperty()
		m.Properties.Set(HTTPResponsePropertyName, prop)
	}
	if prop.Header == nil {
		prop.Header = make(http.Header)
	}
	return prop
}
