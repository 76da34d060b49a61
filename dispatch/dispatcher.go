/*
Package dispatch provides a minimal RPC dispatch pipeline:
an [Endpoint] exposes a set of operations,
each operation decodes its arguments with a [MessageFormatter]
and calls business code through an [OperationInvoker],
and [MessageInspector] values observe every request and reply.

The pipeline is extensible in the manner of interceptor chains:
[EndpointBehavior] and [OperationBehavior] values register inspectors and
decorate formatters and invokers when a [Dispatcher] is assembled.
[NewHandler] exposes a Dispatcher over HTTP.
*/
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Errors returned by [NewDispatcher].
var (
	ErrNilEndpoint        = errors.New("dispatch: nil endpoint")
	ErrMissingFormatter   = errors.New("dispatch: operation has no formatter")
	ErrMissingInvoker     = errors.New("dispatch: operation has no invoker")
	ErrDuplicateOperation = errors.New("dispatch: duplicate operation action")
)

// A Dispatcher routes request messages to the operations of an endpoint.
//
// Dispatchers are safe for concurrent use by multiple goroutines,
// provided that the inspectors, formatters, and invokers of their
// endpoint are.
type Dispatcher struct {
	ep     *Endpoint
	ops    map[string]*Operation // keyed by request action
	logger logrus.FieldLogger
}

// An Option configures a [Dispatcher].
type Option func(*Dispatcher)

// WithLogger sets the logger used by the dispatcher.
// By default, a Dispatcher discards its logs.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// NewDispatcher applies the behaviors of ep and of its operations and
// returns a Dispatcher for ep. Endpoint behaviors are applied first,
// then the behaviors of each operation, in order.
// Any error returned by an operation behavior aborts the assembly.
func NewDispatcher(ep *Endpoint, opts ...Option) (*Dispatcher, error) {
	if ep == nil {
		return nil, ErrNilEndpoint
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	d := Dispatcher{
		ep:     ep,
		ops:    make(map[string]*Operation, len(ep.Operations)),
		logger: discard,
	}
	for _, opt := range opts {
		opt(&d)
	}
	for _, b := range ep.Behaviors {
		b.ApplyEndpoint(ep)
	}
	for _, op := range ep.Operations {
		for _, b := range op.Behaviors {
			if err := b.ApplyOperation(op); err != nil {
				return nil, fmt.Errorf("dispatch: operation %q: %w", op.Name, err)
			}
		}
		if op.Formatter == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingFormatter, op.Name)
		}
		if op.Invoker == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingInvoker, op.Name)
		}
		if _, found := d.ops[op.Action]; found {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateOperation, op.Action)
		}
		d.ops[op.Action] = op
	}
	d.logger.WithFields(logrus.Fields{
		"endpoint":   ep.Address,
		"contract":   ep.Contract.Name,
		"operations": len(d.ops),
		"inspectors": len(ep.Inspectors),
	}).Debug("dispatcher assembled")
	return &d, nil
}

// Endpoint returns the endpoint served by d.
func (d *Dispatcher) Endpoint() *Endpoint {
	return d.ep
}

// Dispatch processes req and returns the reply to send, which is nil
// for one-way operations.
//
// The stages run in a fixed order: every inspector's AfterReceiveRequest
// (in registration order), the operation formatter's DeserializeRequest,
// the operation invoker, the formatter's SerializeReply (unless the
// operation is one-way), and finally every inspector's BeforeSendReply
// (in reverse registration order).
//
// Requests whose action matches no operation yield a 404 reply,
// which still goes through the inspectors.
// If a formatter or invoker fails, Dispatch returns a fault reply along
// with the error, wrapped with the name of the operation. The fault reply
// goes through the inspectors like any other reply; its status code is
// that of the outermost [Fault] in the error's tree, if any, and
// http.StatusInternalServerError otherwise.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Message) (*Message, error) {
	if req.Properties == nil {
		req.Properties = make(Properties)
	}
	log := d.logger.WithFields(logrus.Fields{
		"message_id": req.ID,
		"action":     req.Action,
	})
	correlations := make([]any, len(d.ep.Inspectors))
	for i, insp := range d.ep.Inspectors {
		correlations[i] = insp.AfterReceiveRequest(req)
	}
	reply, err := d.call(ctx, req, log)
	if err != nil {
		log.WithError(err).Warn("operation failed")
		reply = faultReply(req, err)
	}
	for i := len(d.ep.Inspectors) - 1; i >= 0; i-- {
		reply = d.ep.Inspectors[i].BeforeSendReply(reply, correlations[i])
	}
	return reply, err
}

func (d *Dispatcher) call(ctx context.Context, req *Message, log logrus.FieldLogger) (*Message, error) {
	op, found := d.ops[req.Action]
	if !found {
		log.Debug("no operation matches action")
		return unhandledReply(req), nil
	}
	log = log.WithField("operation", op.Name)
	oc := NewOperationContext(ctx, req)
	inputs := op.Invoker.AllocateInputs()
	if err := op.Formatter.DeserializeRequest(oc, req, inputs); err != nil {
		return nil, fmt.Errorf("dispatch: operation %q: deserializing request: %w", op.Name, err)
	}
	result, outputs, err := invoke(oc, op, d.ep.Instance, inputs)
	if err != nil {
		return nil, fmt.Errorf("dispatch: operation %q: %w", op.Name, err)
	}
	if op.OneWay {
		log.Debug("one-way operation completed")
		return nil, nil
	}
	reply, err := op.Formatter.SerializeReply(oc, req.Version, outputs, result)
	if err != nil {
		return nil, fmt.Errorf("dispatch: operation %q: serializing reply: %w", op.Name, err)
	}
	log.Debug("operation completed")
	return reply, nil
}

func invoke(oc *OperationContext, op *Operation, instance any, inputs []any) (any, []any, error) {
	inv := op.Invoker
	if inv.IsSynchronous() {
		return inv.Invoke(oc, instance, inputs)
	}
	ar, err := inv.InvokeBegin(oc, instance, inputs)
	if err != nil {
		return nil, nil, err
	}
	ctx := oc.Context
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ar.Done():
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
	return inv.InvokeEnd(instance, ar)
}

func unhandledReply(req *Message) *Message {
	reply := NewMessage(req.Version, "", EmptyBody)
	EnsureHTTPResponse(reply).StatusCode = http.StatusNotFound
	return reply
}
