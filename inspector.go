package rpccors

import (
	"net/http"

	"github.com/jub0bs/rpccors/dispatch"
	"github.com/jub0bs/rpccors/internal/headers"
)

// An Inspector is a [dispatch.MessageInspector] that detects cross-origin
// requests on their way in and adds CORS headers to their replies on the
// way out.
//
// Inspectors are safe for concurrent use by multiple goroutines.
type Inspector struct {
	policy   Policy
	contract *dispatch.Contract
}

// NewInspector returns an Inspector that applies p and resolves the reply
// actions of preflight requests against the operations of contract.
// Empty fields of p take their default values.
func NewInspector(p Policy, contract *dispatch.Contract) *Inspector {
	return &Inspector{
		policy:   p.withDefaults(),
		contract: contract,
	}
}

// AfterReceiveRequest returns nil if req is not a cross-origin request,
// i.e. if it lacks an HTTP request property or a non-empty Origin header.
// Otherwise, it stores a fresh [*State] in req's property bag and returns
// that State.
//
// If req is a preflight request (its method is OPTIONS), the State carries
// a reply of the same version as req, with an empty body, whose action is
// the reply action of the operation that matches req's action. If no
// operation matches, that reply has an empty action; this isn't an error,
// because failing preflight would also fail the actual request that the
// browser means to send.
func (insp *Inspector) AfterReceiveRequest(req *dispatch.Message) any {
	prop, ok := dispatch.HTTPRequest(req)
	if !ok {
		return nil
	}
	// Fetch-compliant browsers send at most one Origin header;
	// see https://fetch.spec.whatwg.org/#http-network-or-cache-fetch
	// (step 12).
	origin, _ := headers.First(prop.Header, headers.Origin)
	if origin == "" {
		return nil
	}
	var s State
	if prop.Method == http.MethodOptions {
		s.reply = dispatch.NewMessage(req.Version, insp.replyAction(req.Action), dispatch.EmptyBody)
		s.reply.ID = req.ID
	}
	if req.Properties == nil {
		req.Properties = make(dispatch.Properties)
	}
	req.Properties.Set(StatePropertyName, &s)
	return &s
}

func (insp *Inspector) replyAction(action string) string {
	if insp.contract == nil {
		return ""
	}
	for _, op := range insp.contract.Operations {
		if op.Action == action {
			return op.ReplyAction
		}
	}
	return ""
}

// BeforeSendReply adds CORS headers to the reply of a cross-origin request,
// as identified by correlation (the result of AfterReceiveRequest).
// For other requests, it returns reply unchanged.
//
// The reply to a preflight request is the one prepared by
// AfterReceiveRequest, whatever reply the rest of the pipeline produced;
// it carries Access-Control-Allow-Origin, Access-Control-Allow-Methods,
// and Access-Control-Allow-Headers. Replies to other cross-origin requests
// only carry Access-Control-Allow-Origin. Those headers are added to, not
// set on, the reply's HTTP response property, which BeforeSendReply
// creates if need be.
//
// A nil reply (that of a one-way operation) to a cross-origin request that
// isn't a preflight request remains nil.
func (insp *Inspector) BeforeSendReply(reply *dispatch.Message, correlation any) *dispatch.Message {
	s, ok := correlation.(*State)
	if !ok || s == nil {
		return reply
	}
	if s.reply != nil {
		reply = s.reply
	}
	if reply == nil {
		return nil
	}
	hdrs := dispatch.EnsureHTTPResponse(reply).Header
	hdrs.Add(headers.ACAO, insp.policy.AllowOrigin)
	if s.reply != nil {
		hdrs.Add(headers.ACAM, insp.policy.AllowMethods)
		hdrs.Add(headers.ACAH, insp.policy.AllowHeaders)
	}
	return reply
}
