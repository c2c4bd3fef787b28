package httperr

import "errors"

type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindInvalidState    Kind = "invalid_state"
	KindConflict        Kind = "conflict"
	KindInvalidArgument Kind = "invalid_argument"
	KindExternal        Kind = "external_service"
)

// Fault is the typed failure every core operation returns. Message is part of
// the contract: the UI renders it directly.
type Fault struct {
	Kind    Kind
	Code    string
	Message string
}

func (f *Fault) Error() string {
	return f.Code + ": " + f.Message
}

func E(kind Kind, code, message string) *Fault {
	return &Fault{Kind: kind, Code: code, Message: message}
}

func ErrNotFound(code, message string) *Fault        { return E(KindNotFound, code, message) }
func ErrForbidden(code, message string) *Fault       { return E(KindForbidden, code, message) }
func ErrInvalidState(code, message string) *Fault    { return E(KindInvalidState, code, message) }
func ErrConflict(code, message string) *Fault        { return E(KindConflict, code, message) }
func ErrInvalidArgument(code, message string) *Fault { return E(KindInvalidArgument, code, message) }
func ErrExternal(code, message string) *Fault        { return E(KindExternal, code, message) }

func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func IsKind(err error, kind Kind) bool {
	if f, ok := AsFault(err); ok {
		return f.Kind == kind
	}
	return false
}
