package dispatch

import "context"

// A MessageInspector observes every request that reaches an endpoint
// and every reply that leaves it.
//
// AfterReceiveRequest runs before the request is dispatched to an
// operation; its result is passed back, as correlation, to
// BeforeSendReply, which runs after the operation's reply has been
// serialized. BeforeSendReply returns the reply to send, which may differ
// from the one it was given; reply is nil for one-way operations.
type MessageInspector interface {
	AfterReceiveRequest(req *Message) (correlation any)
	BeforeSendReply(reply *Message, correlation any) *Message
}

// A MessageFormatter turns a request into an operation's arguments
// and an operation's results into a reply.
type MessageFormatter interface {
	// DeserializeRequest populates params from msg.
	// The length of params is determined by the operation's invoker;
	// see [OperationInvoker.AllocateInputs].
	DeserializeRequest(oc *OperationContext, msg *Message, params []any) error
	// SerializeReply builds a reply of the specified version
	// from an operation's outputs and result.
	SerializeReply(oc *OperationContext, version Version, params []any, result any) (*Message, error)
}

// An OperationInvoker calls the business code behind an operation.
//
// The dispatcher calls Invoke if IsSynchronous reports true,
// and InvokeBegin followed by InvokeEnd otherwise.
type OperationInvoker interface {
	IsSynchronous() bool
	AllocateInputs() []any
	Invoke(oc *OperationContext, instance any, inputs []any) (result any, outputs []any, err error)
	InvokeBegin(oc *OperationContext, instance any, inputs []any) (AsyncResult, error)
	InvokeEnd(instance any, ar AsyncResult) (result any, outputs []any, err error)
}

// An AsyncResult represents an invocation in progress.
// Done is closed when InvokeEnd may be called without blocking.
type AsyncResult interface {
	Done() <-chan struct{}
}

// An EndpointBehavior customizes an endpoint's runtime,
// typically by registering message inspectors.
type EndpointBehavior interface {
	ApplyEndpoint(ep *Endpoint)
}

// An OperationBehavior customizes an operation's runtime,
// typically by decorating its formatter and/or invoker.
// An error fails the assembly of the dispatcher.
type OperationBehavior interface {
	ApplyOperation(op *Operation) error
}

// An OperationContext carries per-call state from the inbound to the
// outbound phase of one request. A fresh one is created for every call.
type OperationContext struct {
	// Context is the context of the request being processed.
	Context context.Context
	// Incoming is the property bag of the request being processed.
	Incoming Properties
	// Outgoing holds properties destined for the reply.
	Outgoing Properties
}

// NewOperationContext returns an OperationContext for req.
func NewOperationContext(ctx context.Context, req *Message) *OperationContext {
	if req.Properties == nil {
		req.Properties = make(Properties)
	}
	return &OperationContext{
		Context:  ctx,
		Incoming: req.Properties,
		Outgoing: make(Properties),
	}
}
