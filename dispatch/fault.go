package dispatch

import (
	"errors"
	"net/http"
)

// A Fault is an error that maps to a specific HTTP status code
// when it escapes a [Dispatcher] served by [NewHandler].
type Fault struct {
	StatusCode int
	Message    string
	Err        error
}

func (f *Fault) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return f.Message + ": " + f.Err.Error()
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// statusOf returns the status code of the outermost [Fault] in err's tree,
// or http.StatusInternalServerError if there's none.
func statusOf(err error) int {
	var f *Fault
	if errors.As(err, &f) && f.StatusCode != 0 {
		return f.StatusCode
	}
	return http.StatusInternalServerError
}

// faultReply returns the reply that reports err to the sender of req:
// a plain-text body holding the status text, in the manner of [http.Error].
func faultReply(req *Message, err error) *Message {
	status := statusOf(err)
	reply := NewMessage(req.Version, "", BytesBody(http.StatusText(status)+"\n"))
	reply.ID = req.ID
	prop := EnsureHTTPResponse(reply)
	prop.StatusCode = status
	prop.Header.Set("Content-Type", "text/plain; charset=utf-8")
	prop.Header.Set("X-Content-Type-Options", "nosniff")
	return reply
}
