package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// genericFaultMessage is shown when the server gave no usable message.
const genericFaultMessage = "the request could not be completed"

// Fault is a failed gateway call: either a non-2xx response or a transport
// error. Message prefers whatever human-readable text the server embedded in
// the fault payload.
type Fault struct {
	Op      string // list, get, create, update, delete
	Status  int    // 0 for transport errors
	Message string
}

func (f *Fault) Error() string {
	if f.Status == 0 {
		return fmt.Sprintf("%s: %s", f.Op, f.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", f.Op, f.Status, f.Message)
}

// NotFound reports whether the fault was a 404.
func (f *Fault) NotFound() bool { return f.Status == http.StatusNotFound }

// faultBody covers the error envelopes the backing store is known to emit.
type faultBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// newFault builds a Fault from a non-2xx response body, preferring the
// server-supplied message over the generic fallback.
func newFault(op string, status int, body []byte) *Fault {
	msg := ""
	var fb faultBody
	if err := json.Unmarshal(body, &fb); err == nil {
		if fb.Error != "" {
			msg = fb.Error
		} else if fb.Message != "" {
			msg = fb.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = genericFaultMessage
	}
	return &Fault{Op: op, Status: status, Message: msg}
}

// FaultMessage extracts the human-readable message for display. Non-gateway
// errors fall back to the generic message so raw transport detail never
// reaches the screen.
func FaultMessage(err error) string {
	var f *Fault
	if errors.As(err, &f) && f.Message != "" {
		return f.Message
	}
	return genericFaultMessage
}
