package boterror

import (
	"errors"
	"fmt"
)

// Kind classifies a flow failure before it reaches the user. Raw causes are
// logged; users only ever see a short fixed notice chosen by kind.
type Kind string

const (
	KindUnauthenticated   Kind = "unauthenticated"
	KindInvalidCredential Kind = "invalid_credential"
	KindProtocol          Kind = "protocol"
	KindExternal          Kind = "external"
	KindUnauthorized      Kind = "unauthorized"
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind carried by err, or KindExternal when err carries
// none (any unclassified downstream failure is an external failure).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindExternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
