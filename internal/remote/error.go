package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/mesh-intelligence/courtnote/pkg/types"
)

// Code classifies a remote failure.
type Code string

// Failure codes.
const (
	CodeNotConnected     Code = "not-connected"
	CodeAuthFailed       Code = "auth-failed"
	CodePermissionDenied Code = "permission-denied"
	CodeNotFound         Code = "not-found"
	CodeNetwork          Code = "network"
	CodeQuotaExceeded    Code = "quota-exceeded"
	CodeServer           Code = "server"
	CodeTimeout          Code = "timeout"
	CodeCanceled         Code = "canceled"
	CodeUnknown          Code = "unknown"
)

// Error is returned by every Client method.
type Error struct {
	Op   string
	Kind types.Kind
	ID   string // document id, empty for FetchAll
	Code Code
	Err  error
}

// Error formats the operation, record and code.
func (e *Error) Error() string {
	target := string(e.Kind)
	if e.ID != "" {
		target += "/" + e.ID
	}
	if e.Err == nil {
		return fmt.Sprintf("remote %s %s: %s", e.Op, target, e.Code)
	}
	return fmt.Sprintf("remote %s %s: %s: %v", e.Op, target, e.Code, e.Err)
}

// Unwrap returns the underlying transport or driver error.
func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the Code of the first *Error in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return CodeUnknown
}

// IsNotFound reports whether err is a remote not-found failure.
func IsNotFound(err error) bool {
	return CodeOf(err) == CodeNotFound
}

// wrap builds an *Error for op, classifying err unless it already is one.
func wrap(op string, kind types.Kind, id string, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return &Error{Op: op, Kind: kind, ID: id, Code: classify(err), Err: err}
}

// serverMessages maps fragments of server error text to codes. SurrealDB
// reports most failures as plain strings.
var serverMessages = []struct {
	fragment string
	code     Code
}{
	{"there was a problem with authentication", CodeAuthFailed},
	{"invalid authentication", CodeAuthFailed},
	{"token has expired", CodeAuthFailed},
	{"not enough permissions", CodePermissionDenied},
	{"not allowed", CodePermissionDenied},
	{"iam error", CodePermissionDenied},
	{"expected a single or multiple results but got 0", CodeNotFound},
	{"does not exist", CodeNotFound},
	{"quota", CodeQuotaExceeded},
	{"too many requests", CodeQuotaExceeded},
	{"connection closed", CodeNotConnected},
	{"connection uninitialised", CodeNotConnected},
	{"connection refused", CodeNotConnected},
	{"no such host", CodeNetwork},
	{"broken pipe", CodeNetwork},
	{"connection reset", CodeNetwork},
	{"timeout", CodeTimeout},
	{"timed out", CodeTimeout},
	{"internal error", CodeServer},
}

func classify(err error) Code {
	switch {
	case errors.Is(err, context.Canceled):
		return CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return CodeTimeout
		}
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return CodeNotConnected
		}
		return CodeNetwork
	}

	msg := strings.ToLower(err.Error())
	for _, m := range serverMessages {
		if strings.Contains(msg, m.fragment) {
			return m.code
		}
	}
	return CodeUnknown
}
