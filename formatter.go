package rpccors

import "github.com/jub0bs/rpccors/dispatch"

// A Formatter is a [dispatch.MessageFormatter] that decorates another one
// so as to skip deserialization of preflight requests and substitute the
// reply prepared by an [Inspector] for the serialized result.
//
// A Formatter is safe for concurrent use by multiple goroutines
// if the formatter it decorates is.
type Formatter struct {
	inner dispatch.MessageFormatter
}

// NewFormatter returns a Formatter that decorates inner.
func NewFormatter(inner dispatch.MessageFormatter) *Formatter {
	return &Formatter{inner: inner}
}

// DeserializeRequest leaves params untouched if msg is a preflight request,
// and mirrors msg's [State] in oc's outgoing properties, for SerializeReply
// to find. Otherwise, it delegates to the decorated formatter.
func (f *Formatter) DeserializeRequest(oc *dispatch.OperationContext, msg *dispatch.Message, params []any) error {
	if s, ok := preflightState(msg.Properties); ok {
		if oc.Outgoing == nil {
			oc.Outgoing = make(dispatch.Properties)
		}
		oc.Outgoing.Set(StatePropertyName, s)
		return nil
	}
	return f.inner.DeserializeRequest(oc, msg, params)
}

// SerializeReply returns the reply prepared for a preflight request, if
// DeserializeRequest found one, disregarding params and result.
// Otherwise, it delegates to the decorated formatter.
func (f *Formatter) SerializeReply(oc *dispatch.OperationContext, version dispatch.Version, params []any, result any) (*dispatch.Message, error) {
	if s, ok := preflightState(oc.Outgoing); ok {
		return s.reply, nil
	}
	return f.inner.SerializeReply(oc, version, params, result)
}
