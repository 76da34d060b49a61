package main

import (
	"context"
	"strings"
	"time"

	"github.com/jub0bs/rpccors/dispatch"
)

const echoNamespace = "urn:corsecho"

type echoRequest struct {
	Text string `json:"text"`
}

type echoReply struct {
	Text string `json:"text"`
	Len  int    `json:"len"`
}

type pingReply struct {
	Time time.Time `json:"time"`
}

func newEchoEndpoint(path string) *dispatch.Endpoint {
	echo := dispatch.Func("Echo", func(_ context.Context, in echoRequest) (echoReply, error) {
		return echoReply{Text: in.Text, Len: len(in.Text)}, nil
	})
	shout := dispatch.Func("Shout", func(_ context.Context, in echoRequest) (echoReply, error) {
		s := strings.ToUpper(in.Text)
		return echoReply{Text: s, Len: len(s)}, nil
	})
	ping := dispatch.Func("Ping", func(context.Context, struct{}) (pingReply, error) {
		return pingReply{Time: time.Now().UTC()}, nil
	})
	return dispatch.NewEndpoint(path, "Echo", echoNamespace, echo, shout, ping)
}
