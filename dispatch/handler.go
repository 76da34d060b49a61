package dispatch

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	headerSOAPAction = "Soapaction" // canonical form of SOAPAction
	headerRequestID  = "X-Request-Id"
)

// maxBodyBytes bounds the size of request bodies read by [NewHandler].
const maxBodyBytes = 4 << 20

// NewHandler returns an [http.Handler] that serves d.
//
// Each HTTP request becomes a request [Message] of version [VersionHTTP]
// whose property bag holds an [HTTPRequestProperty]. The message's action
// is the value of the request's SOAPAction header, if any, and
// otherwise the contract namespace followed by a slash and the last
// segment of the request path. The message's ID is the value of the
// request's X-Request-ID header, if any, and otherwise a random UUID.
//
// A nil reply yields a 202 (Accepted) response with an empty body.
// Otherwise, the response's status code and headers are taken from the
// reply's [HTTPResponseProperty] (if any) and the body from the reply's
// [BodyWriter]. Headers are added to, not set on, the response.
// Dispatch errors are logged and answered with the fault reply returned
// by [Dispatcher.Dispatch].
func NewHandler(d *Dispatcher) http.Handler {
	return &handler{d: d}
}

type handler struct {
	d *Dispatcher
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	req := NewMessage(VersionHTTP, h.action(r), BytesBody(body))
	req.ID = r.Header.Get(headerRequestID)
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Properties.Set(HTTPRequestPropertyName, &HTTPRequestProperty{
		Method: r.Method,
		Header: r.Header.Clone(),
	})
	reply, err := h.d.Dispatch(r.Context(), req)
	if err != nil {
		h.d.logger.WithFields(logrus.Fields{
			"message_id": req.ID,
			"action":     req.Action,
		}).WithError(err).Error("dispatch failed")
		if reply == nil {
			status := statusOf(err)
			http.Error(w, http.StatusText(status), status)
			return
		}
	}
	writeReply(w, reply, h.d.logger)
}

func (h *handler) action(r *http.Request) string {
	if a := r.Header.Get(headerSOAPAction); a != "" {
		return strings.Trim(a, `"`)
	}
	p := strings.TrimRight(r.URL.Path, "/")
	i := strings.LastIndexByte(p, '/')
	name := p[i+1:]
	if name == "" {
		return ""
	}
	return h.d.ep.Contract.Namespace + "/" + name
}

func writeReply(w http.ResponseWriter, reply *Message, log logrus.FieldLogger) {
	if reply == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	status := http.StatusOK
	if prop, ok := HTTPResponse(reply); ok {
		for name, values := range prop.Header {
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		if prop.StatusCode != 0 {
			status = prop.StatusCode
		}
	}
	w.WriteHeader(status)
	if err := reply.WriteBody(w); err != nil {
		// Headers are gone; all we can do is report.
		log.WithField("message_id", reply.ID).WithError(err).Error("writing reply body")
	}
}
