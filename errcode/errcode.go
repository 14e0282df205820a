// Package errcode defines the closed set of RPC error codes shared by the
// server's reply envelope and the client's typed error, mirroring the
// original zrpc::RPCError enum and its error_category.
package errcode

import "fmt"

// Code is the wire-stable error code carried in every reply envelope.
type Code uint32

const (
	NoError    Code = 0
	BadPayload Code = 1
	BadMethod  Code = 2
	Unknown    Code = 3
)

func (c Code) String() string {
	switch c {
	case NoError:
		return "no error"
	case BadPayload:
		return "bad payload"
	case BadMethod:
		return "bad method"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("errcode(%d)", uint32(c))
	}
}

// RPCError is the typed error a client raises whenever a reply's code is
// not NoError. Servers never propagate untyped codec or handler panics
// across the wire; those are converted to RPCError{Code: Unknown} at the
// dispatch boundary.
type RPCError struct {
	Code    Code
	Method  string
	Message string
}

func New(code Code, method, message string) *RPCError {
	return &RPCError{Code: code, Method: method, Message: message}
}

func (e *RPCError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("zrpc: %s: %s", e.Method, e.Code)
	}
	return fmt.Sprintf("zrpc: %s: %s: %s", e.Method, e.Code, e.Message)
}

// Is lets errors.Is(err, errcode.New(errcode.BadMethod, "", "")) match
// any *RPCError carrying the same code, whatever its method or message.
// A bare Code is not an error and cannot be passed as the target.
func (e *RPCError) Is(target error) bool {
	other, ok := target.(*RPCError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}
