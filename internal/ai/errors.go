package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"google.golang.org/genai"
)

type Class int

const (
	// ClassTransient: rate limit, overload or timeout. The next model
	// in the cascade gets a chance.
	ClassTransient Class = iota
	// ClassPolicy: the input or output was blocked by content policy.
	ClassPolicy
	// ClassFatal: bad credentials, unknown model, malformed payload.
	// Stops the cascade immediately.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassTransient:
		return "transient"
	case ClassPolicy:
		return "policy"
	default:
		return "fatal"
	}
}

// Error is the classified failure of one model attempt. Classification
// happens once, here at the adapter boundary; the dispatcher never
// inspects message text.
type Error struct {
	Class   Class
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Class, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

func newPolicyError(reason string) *Error {
	return &Error{Class: ClassPolicy, Message: reason}
}

// classify maps a backend or transport failure onto an Error.
func classify(err error) *Error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusServiceUnavailable:
			return &Error{Class: ClassTransient, Code: apiErr.Code, Message: apiErr.Message}
		}
		return &Error{Class: ClassFatal, Code: apiErr.Code, Message: apiErr.Message}
	}

	// A hung or unreachable backend behaves like an overloaded one.
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Class: ClassTransient, Message: "request timed out"}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{Class: ClassTransient, Message: netErr.Error()}
	}

	return &Error{Class: ClassFatal, Message: err.Error()}
}
