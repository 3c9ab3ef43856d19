package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// TransportError reports that the external capability was unreachable or rejected the call.
type TransportError struct {
	Op         string
	StatusCode int
	Timeout    bool
	Canceled   bool
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: model call timed out (raise OPENAI_TIMEOUT_SECONDS or retry): %v", e.Op, e.Err)
	case e.Canceled:
		return fmt.Sprintf("%s: canceled: %v", e.Op, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: http status %d: %v", e.Op, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// NoToolCallError reports a response without a call to the expected tool.
type NoToolCallError struct {
	Tool string
	Raw  json.RawMessage
}

func (e *NoToolCallError) Error() string {
	return fmt.Sprintf("model response has no call to %q", e.Tool)
}

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}

// NewTransportError classifies a low-level failure. Deadline and client timeouts
// are flagged as Timeout and caller cancellation as Canceled so callers can map them
// without matching on error text.
func NewTransportError(op string, statusCode int, err error) *TransportError {
	te := &TransportError{Op: op, StatusCode: statusCode, Err: err}
	if err == nil {
		return te
	}
	if errors.Is(err, context.Canceled) {
		te.Canceled = true
		return te
	}
	if errors.Is(err, context.DeadlineExceeded) {
		te.Timeout = true
		return te
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		te.Timeout = true
		return te
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "client.timeout") || strings.Contains(msg, "settimeout") || strings.Contains(msg, "tls handshake timeout") {
		te.Timeout = true
	}
	return te
}
