package dispatch

import (
	"bytes"
	"io"
)

// A Version identifies the protocol version of a [Message].
// Replies are built with the version of the request they answer.
type Version string

const (
	// VersionHTTP is the version of messages that carry a plain HTTP
	// exchange, without any envelope.
	VersionHTTP Version = "HTTP/None"
	// VersionSOAP12 is the version of messages that carry a SOAP 1.2
	// envelope with WS-Addressing 1.0 headers.
	VersionSOAP12 Version = "Soap12WSAddressing10"
)

// A Message is the unit of work of a [Dispatcher]:
// a request on the way in, a reply on the way out.
type Message struct {
	// ID identifies the message in logs; it may be empty.
	ID      string
	Version Version
	// Action identifies the operation (requests)
	// or the kind of reply (replies).
	Action string
	// Body emits the message body; a nil Body is equivalent to [EmptyBody].
	Body BodyWriter
	// Properties is the message's property bag; never nil for messages
	// obtained from [NewMessage].
	Properties Properties
}

// NewMessage returns a message of the specified version and action
// whose body is written by body.
func NewMessage(version Version, action string, body BodyWriter) *Message {
	return &Message{
		Version:    version,
		Action:     action,
		Body:       body,
		Properties: make(Properties),
	}
}

// WriteBody writes m's body to w.
func (m *Message) WriteBody(w io.Writer) error {
	if m.Body == nil {
		return nil
	}
	return m.Body.WriteBody(w)
}

// IsEmpty reports whether m's body is known to be empty.
func (m *Message) IsEmpty() bool {
	switch b := m.Body.(type) {
	case nil:
		return true
	case emptyBody:
		return true
	case BytesBody:
		return len(b) == 0
	default:
		return false
	}
}

// A BodyWriter writes the contents of a message body.
type BodyWriter interface {
	WriteBody(w io.Writer) error
}

// EmptyBody is a [BodyWriter] that writes nothing.
var EmptyBody BodyWriter = emptyBody{}

type emptyBody struct{}

func (emptyBody) WriteBody(io.Writer) error { return nil }

// BytesBody is a [BodyWriter] backed by an in-memory buffer.
type BytesBody []byte

func (b BytesBody) WriteBody(w io.Writer) error {
	_, err := w.Write(b)
	return err
}

// ReadBody returns the contents of m's body.
func ReadBody(m *Message) ([]byte, error) {
	if b, ok := m.Body.(BytesBody); ok {
		return b, nil
	}
	var buf bytes.Buffer
	if err := m.WriteBody(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Properties is a bag of named, per-message values.
// Properties are not safe for concurrent use; each belongs to one request.
type Properties map[string]any

// Get returns the value stored under name, if any.
func (p Properties) Get(name string) (any, bool) {
	v, found := p[name]
	return v, found
}

// Has reports whether a value is stored under name.
func (p Properties) Has(name string) bool {
	_, found := p[name]
	return found
}

// Set stores v under name, replacing any previous value.
func (p Properties) Set(name string, v any) {
	p[name] = v
}
