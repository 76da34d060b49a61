package rpccors

import (
	"errors"
	"fmt"

	"github.com/jub0bs/rpccors/cfgerrors"
	"github.com/jub0bs/rpccors/dispatch"
)

// ErrAsyncUnsupported is returned by the asynchronous methods of an
// [Invoker]. It matches [errors.ErrUnsupported].
var ErrAsyncUnsupported = fmt.Errorf("rpccors: asynchronous invocation: %w", errors.ErrUnsupported)

// An Invoker is a [dispatch.OperationInvoker] that decorates another one
// so that the business operation never gets called for preflight requests.
// Invokers only support synchronous invocation.
//
// An Invoker is safe for concurrent use by multiple goroutines
// if the invoker it decorates is.
type Invoker struct {
	inner dispatch.OperationInvoker
}

// NewInvoker returns an Invoker that decorates inner.
// If inner is nil or doesn't support synchronous invocation,
// NewInvoker returns a nil *Invoker and a
// [*cfgerrors.IncompatibleInvokerError].
func NewInvoker(inner dispatch.OperationInvoker) (*Invoker, error) {
	if inner == nil || !inner.IsSynchronous() {
		err := &cfgerrors.IncompatibleInvokerError{
			Invoker: fmt.Sprintf("%T", inner),
		}
		return nil, err
	}
	return &Invoker{inner: inner}, nil
}

// IsSynchronous returns true.
func (*Invoker) IsSynchronous() bool {
	return true
}

// AllocateInputs delegates to the decorated invoker.
func (inv *Invoker) AllocateInputs() []any {
	return inv.inner.AllocateInputs()
}

// Invoke returns nil results without calling the decorated invoker if the
// request being processed is a preflight request.
// Otherwise, it delegates to the decorated invoker.
func (inv *Invoker) Invoke(oc *dispatch.OperationContext, instance any, inputs []any) (any, []any, error) {
	if _, ok := preflightState(oc.Incoming); ok {
		return nil, nil, nil
	}
	return inv.inner.Invoke(oc, instance, inputs)
}

// InvokeBegin returns [ErrAsyncUnsupported].
func (*Invoker) InvokeBegin(*dispatch.OperationContext, any, []any) (dispatch.AsyncResult, error) {
	return nil, ErrAsyncUnsupported
}

// InvokeEnd returns [ErrAsyncUnsupported].
func (*Invoker) InvokeEnd(any, dispatch.AsyncResult) (any, []any, error) {
	return nil, nil, ErrAsyncUnsupported
}
