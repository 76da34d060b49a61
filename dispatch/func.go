package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// ErrSynchronousOnly is returned by the asynchronous methods of
// invokers that only support synchronous calls.
var ErrSynchronousOnly = errors.New("dispatch: invoker only supports synchronous calls")

const contentTypeJSON = "application/json"

// Func returns a two-way operation named name that decodes the JSON body
// of its requests (if any) into an In value, calls fn with it, and
// encodes fn's result as the JSON body of its replies.
func Func[In, Out any](name string, fn func(ctx context.Context, in In) (Out, error)) *Operation {
	op := Operation{
		Name:    name,
		Invoker: &FuncInvoker[In, Out]{Fn: fn},
	}
	op.Formatter = NewJSONFormatter(&op)
	return &op
}

// OneWayFunc returns a one-way operation named name that decodes the
// JSON body of its requests (if any) into an In value and calls fn with it.
func OneWayFunc[In any](name string, fn func(ctx context.Context, in In) error) *Operation {
	f := func(ctx context.Context, in In) (struct{}, error) {
		return struct{}{}, fn(ctx, in)
	}
	op := Operation{
		Name:    name,
		OneWay:  true,
		Invoker: &FuncInvoker[In, struct{}]{Fn: f},
	}
	op.Formatter = NewJSONFormatter(&op)
	return &op
}

// A FuncInvoker is a synchronous [OperationInvoker] that calls Fn
// with the single input allocated by AllocateInputs.
type FuncInvoker[In, Out any] struct {
	Fn func(ctx context.Context, in In) (Out, error)
}

func (*FuncInvoker[In, Out]) IsSynchronous() bool { return true }

// AllocateInputs returns a singleton slice holding a pointer to a zero In.
func (*FuncInvoker[In, Out]) AllocateInputs() []any {
	return []any{new(In)}
}

func (inv *FuncInvoker[In, Out]) Invoke(oc *OperationContext, _ any, inputs []any) (any, []any, error) {
	var in In
	if len(inputs) > 0 {
		if p, ok := inputs[0].(*In); ok && p != nil {
			in = *p
		}
	}
	ctx := context.Background()
	if oc != nil && oc.Context != nil {
		ctx = oc.Context
	}
	out, err := inv.Fn(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	return out, nil, nil
}

func (*FuncInvoker[In, Out]) InvokeBegin(*OperationContext, any, []any) (AsyncResult, error) {
	return nil, ErrSynchronousOnly
}

func (*FuncInvoker[In, Out]) InvokeEnd(any, AsyncResult) (any, []any, error) {
	return nil, nil, ErrSynchronousOnly
}

// NewJSONFormatter returns a [MessageFormatter] for op that decodes JSON
// request bodies into the first parameter, which must be a pointer,
// and encodes results as JSON reply bodies whose action is
// op's reply action.
func NewJSONFormatter(op *Operation) MessageFormatter {
	return &jsonFormatter{op: op}
}

type jsonFormatter struct {
	op *Operation
}

func (f *jsonFormatter) DeserializeRequest(_ *OperationContext, msg *Message, params []any) error {
	if len(params) == 0 {
		return nil
	}
	body, err := ReadBody(msg)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, params[0]); err != nil {
		return &Fault{
			StatusCode: http.StatusBadRequest,
			Message:    "malformed JSON body",
			Err:        err,
		}
	}
	return nil
}

func (f *jsonFormatter) SerializeReply(_ *OperationContext, version Version, _ []any, result any) (*Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	reply := NewMessage(version, f.op.ReplyAction, BytesBody(data))
	EnsureHTTPResponse(reply).Header.Set("Content-Type", contentTypeJSON)
	return reply, nil
}
