package rpccors_test

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/jub0bs/rpccors/dispatch"
)

const (
	headerOrigin = "Origin"
	headerACAO   = "Access-Control-Allow-Origin"
	headerACAM   = "Access-Control-Allow-Methods"
	headerACAH   = "Access-Control-Allow-Headers"
)

const (
	testNamespace  = "urn:test"
	actionEcho     = testNamespace + "/Echo"
	actionEchoResp = actionEcho + "Response"
	actionNotify   = testNamespace + "/Notify"
)

type echoMsg struct {
	Text string `json:"text"`
}

// newTestEndpoint returns an endpoint exposing a two-way Echo operation
// and a one-way Notify operation, both of which count their invocations
// in calls.
func newTestEndpoint(calls *atomic.Int32) *dispatch.Endpoint {
	echo := dispatch.Func("Echo", func(_ context.Context, in echoMsg) (echoMsg, error) {
		calls.Add(1)
		return in, nil
	})
	notify := dispatch.OneWayFunc("Notify", func(context.Context, echoMsg) error {
		calls.Add(1)
		return nil
	})
	return dispatch.NewEndpoint("/test", "Test", testNamespace, echo, notify)
}

// newRequest returns a request message carrying an HTTP request property
// with the specified method; if origin is non-empty, the property also
// carries an Origin header.
func newRequest(method, origin, action string, body []byte) *dispatch.Message {
	req := dispatch.NewMessage(dispatch.VersionHTTP, action, dispatch.BytesBody(body))
	req.ID = "req-1"
	hdrs := make(http.Header)
	if origin != "" {
		hdrs.Set(headerOrigin, origin)
	}
	req.Properties.Set(dispatch.HTTPRequestPropertyName, &dispatch.HTTPRequestProperty{
		Method: method,
		Header: hdrs,
	})
	return req
}

type spyInvoker struct {
	async  bool
	calls  atomic.Int32
	result any
}

func (inv *spyInvoker) IsSynchronous() bool { return !inv.async }

func (*spyInvoker) AllocateInputs() []any { return []any{new(string)} }

func (inv *spyInvoker) Invoke(*dispatch.OperationContext, any, []any) (any, []any, error) {
	inv.calls.Add(1)
	return inv.result, nil, nil
}

func (inv *spyInvoker) InvokeBegin(*dispatch.OperationContext, any, []any) (dispatch.AsyncResult, error) {
	inv.calls.Add(1)
	return doneResult{}, nil
}

func (inv *spyInvoker) InvokeEnd(any, dispatch.AsyncResult) (any, []any, error) {
	return inv.result, nil, nil
}

type doneResult struct{}

func (doneResult) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type spyFormatter struct {
	deserialized atomic.Int32
	serialized   atomic.Int32
	reply        *dispatch.Message
}

func (f *spyFormatter) DeserializeRequest(*dispatch.OperationContext, *dispatch.Message, []any) error {
	f.deserialized.Add(1)
	return nil
}

func (f *spyFormatter) SerializeReply(*dispatch.OperationContext, dispatch.Version, []any, any) (*dispatch.Message, error) {
	f.serialized.Add(1)
	return f.reply, nil
}
