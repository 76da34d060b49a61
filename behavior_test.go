package rpccors_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jub0bs/rpccors"
	"github.com/jub0bs/rpccors/cfgerrors"
	"github.com/jub0bs/rpccors/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, p rpccors.Policy, calls *atomic.Int32) http.Handler {
	t.Helper()
	ep := newTestEndpoint(calls)
	rpccors.NewBehavior(p).Attach(ep)
	d, err := dispatch.NewDispatcher(ep)
	require.NoError(t, err)
	return dispatch.NewHandler(d)
}

func TestBehaviorOverHTTP(t *testing.T) {
	cases := []struct {
		desc       string
		method     string
		path       string
		origin     string
		body       string
		wantStatus int
		wantHeader http.Header
		wantBody   string
		wantCalls  int32
	}{
		{
			desc:       "non-CORS request",
			method:     http.MethodPost,
			path:       "/Echo",
			body:       `{"text":"hi"}`,
			wantStatus: http.StatusOK,
			wantHeader: http.Header{
				"Content-Type": {"application/json"},
			},
			wantBody:  `{"text":"hi"}`,
			wantCalls: 1,
		}, {
			desc:       "non-CORS OPTIONS request",
			method:     http.MethodOptions,
			path:       "/Echo",
			wantStatus: http.StatusOK,
			wantHeader: http.Header{
				"Content-Type": {"application/json"},
			},
			wantBody:  `{"text":""}`,
			wantCalls: 1,
		}, {
			desc:       "actual request",
			method:     http.MethodPost,
			path:       "/Echo",
			origin:     "https://client.example",
			body:       `{"text":"hi"}`,
			wantStatus: http.StatusOK,
			wantHeader: http.Header{
				"Content-Type": {"application/json"},
				headerACAO:     {"*"},
			},
			wantBody:  `{"text":"hi"}`,
			wantCalls: 1,
		}, {
			desc:       "preflight request",
			method:     http.MethodOptions,
			path:       "/Echo",
			origin:     "https://client.example",
			body:       "this is not JSON",
			wantStatus: http.StatusOK,
			wantHeader: http.Header{
				headerACAO: {"*"},
				headerACAM: {rpccors.DefaultAllowMethods},
				headerACAH: {rpccors.DefaultAllowHeaders},
			},
		}, {
			desc:       "actual request with malformed body",
			method:     http.MethodPost,
			path:       "/Echo",
			origin:     "https://client.example",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
			wantHeader: http.Header{
				"Content-Type":           {"text/plain; charset=utf-8"},
				"X-Content-Type-Options": {"nosniff"},
				headerACAO:               {"*"},
			},
			wantBody: "Bad Request\n",
		}, {
			desc:       "non-CORS request with malformed body",
			method:     http.MethodPost,
			path:       "/Echo",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
			wantHeader: http.Header{
				"Content-Type":           {"text/plain; charset=utf-8"},
				"X-Content-Type-Options": {"nosniff"},
			},
			wantBody: "Bad Request\n",
		}, {
			desc:       "actual request to one-way operation",
			method:     http.MethodPost,
			path:       "/Notify",
			origin:     "https://client.example",
			body:       `{"text":"hi"}`,
			wantStatus: http.StatusAccepted,
			wantHeader: http.Header{},
			wantCalls:  1,
		}, {
			desc:       "preflight request to one-way operation",
			method:     http.MethodOptions,
			path:       "/Notify",
			origin:     "https://client.example",
			wantStatus: http.StatusOK,
			wantHeader: http.Header{
				headerACAO: {"*"},
				headerACAM: {rpccors.DefaultAllowMethods},
				headerACAH: {rpccors.DefaultAllowHeaders},
			},
		}, {
			desc:       "preflight request to unknown operation",
			method:     http.MethodOptions,
			path:       "/Nope",
			origin:     "https://client.example",
			wantStatus: http.StatusOK,
			wantHeader: http.Header{
				headerACAO: {"*"},
				headerACAM: {rpccors.DefaultAllowMethods},
				headerACAH: {rpccors.DefaultAllowHeaders},
			},
		}, {
			desc:       "actual request to unknown operation",
			method:     http.MethodPost,
			path:       "/Nope",
			origin:     "https://client.example",
			wantStatus: http.StatusNotFound,
			wantHeader: http.Header{
				headerACAO: {"*"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			var calls atomic.Int32
			h := newTestHandler(t, rpccors.Policy{}, &calls)
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.origin != "" {
				req.Header.Set(headerOrigin, tc.origin)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			res := rec.Result()
			assert.Equal(t, tc.wantStatus, res.StatusCode)
			assert.Equal(t, tc.wantHeader, res.Header)
			assert.Equal(t, tc.wantBody, rec.Body.String())
			assert.Equal(t, tc.wantCalls, calls.Load())
		})
	}
}

func TestBehaviorPreflightReplyAction(t *testing.T) {
	var calls atomic.Int32
	ep := newTestEndpoint(&calls)
	rpccors.NewBehavior(rpccors.Policy{}).Attach(ep)
	d, err := dispatch.NewDispatcher(ep)
	require.NoError(t, err)

	req := newRequest(http.MethodOptions, "https://client.example", actionEcho, nil)
	reply, err := d.Dispatch(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, reply)
	assert.Equal(t, actionEchoResp, reply.Action)
	assert.True(t, reply.IsEmpty())
	assert.Zero(t, calls.Load())
}

func TestBehaviorPreflightIsIdempotent(t *testing.T) {
	var calls atomic.Int32
	h := newTestHandler(t, rpccors.Policy{AllowOrigin: "https://client.example"}, &calls)
	var headers []http.Header
	for range 2 {
		req := httptest.NewRequest(http.MethodOptions, "/Echo", nil)
		req.Header.Set(headerOrigin, "https://client.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		headers = append(headers, rec.Header())
	}
	assert.Equal(t, headers[0], headers[1])
	assert.Equal(t, []string{"https://client.example"}, headers[1].Values(headerACAO))
	assert.Zero(t, calls.Load())
}

func TestBehaviorConcurrentRequests(t *testing.T) {
	var calls atomic.Int32
	ep := newTestEndpoint(&calls)
	rpccors.NewBehavior(rpccors.Policy{}).Attach(ep)
	d, err := dispatch.NewDispatcher(ep)
	require.NoError(t, err)

	const n = 64
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			preflight := i%2 == 0
			method := http.MethodPost
			if preflight {
				method = http.MethodOptions
			}
			body := fmt.Sprintf(`{"text":"%d"}`, i)
			req := newRequest(method, "https://client.example", actionEcho, []byte(body))
			reply, err := d.Dispatch(context.Background(), req)
			if !assert.NoError(t, err) || !assert.NotNil(t, reply) {
				return
			}
			prop, ok := dispatch.HTTPResponse(reply)
			if !assert.True(t, ok) {
				return
			}
			assert.Equal(t, []string{"*"}, prop.Header.Values(headerACAO))
			if preflight {
				assert.True(t, reply.IsEmpty())
				assert.Equal(t, []string{rpccors.DefaultAllowMethods}, prop.Header.Values(headerACAM))
				return
			}
			got, err := dispatch.ReadBody(reply)
			assert.NoError(t, err)
			assert.JSONEq(t, body, string(got))
			assert.Empty(t, prop.Header.Values(headerACAM))
		}()
	}
	wg.Wait()
	assert.EqualValues(t, n/2, calls.Load())
}

func TestBehaviorRejectsAsyncInvoker(t *testing.T) {
	inner := spyInvoker{async: true}
	formatter := spyFormatter{}
	op := &dispatch.Operation{
		Name:      "Slow",
		Formatter: &formatter,
		Invoker:   &inner,
	}
	ep := dispatch.NewEndpoint("/test", "Test", testNamespace, op)
	rpccors.NewBehavior(rpccors.Policy{}).Attach(ep)

	_, err := dispatch.NewDispatcher(ep)
	var target *cfgerrors.IncompatibleInvokerError
	require.ErrorAs(t, err, &target)
	assert.Same(t, &inner, op.Invoker)
	assert.Same(t, &formatter, op.Formatter)
}

func TestBehaviorAttach(t *testing.T) {
	var calls atomic.Int32
	ep := newTestEndpoint(&calls)
	b := rpccors.NewBehavior(rpccors.Policy{})
	b.Attach(ep)
	require.Len(t, ep.Behaviors, 1)
	assert.Same(t, b, ep.Behaviors[0])
	for _, op := range ep.Operations {
		require.Len(t, op.Behaviors, 1)
		assert.Same(t, b, op.Behaviors[0])
	}

	_, err := dispatch.NewDispatcher(ep)
	require.NoError(t, err)
	require.Len(t, ep.Inspectors, 1)
	assert.IsType(t, &rpccors.Inspector{}, ep.Inspectors[0])
	for _, op := range ep.Operations {
		assert.IsType(t, &rpccors.Formatter{}, op.Formatter)
		assert.IsType(t, &rpccors.Invoker{}, op.Invoker)
	}
}

func TestBehaviorApplyOperationWithoutFormatter(t *testing.T) {
	op := &dispatch.Operation{Name: "Bare", Invoker: &spyInvoker{}}
	b := rpccors.NewBehavior(rpccors.Policy{})
	require.NoError(t, b.ApplyOperation(op))
	assert.Nil(t, op.Formatter)
	assert.IsType(t, &rpccors.Invoker{}, op.Invoker)
}
