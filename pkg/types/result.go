package types

import (
	"encoding/json"
	"errors"
)

// Kind classifies a failed operation.
type Kind int

// Failure kinds. KindNone marks success.
const (
	KindNone Kind = iota
	KindIO
	KindConstraint
	KindNotFound
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIO:
		return "io"
	case KindConstraint:
		return "constraint_violation"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// KindOf maps an error onto its Kind using the sentinel errors of this
// package. A nil error is KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrIO), errors.Is(err, ErrDetached):
		return KindIO
	case errors.Is(err, ErrConstraint), errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidID):
		return KindConstraint
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}

// Result is the outcome of a write. On success ID holds the generated or
// affected identifier and Err is nil. On failure ID is 0 and Err is set.
type Result struct {
	ID  int64
	Err error
}

// Succeeded returns a successful Result carrying id.
func Succeeded(id int64) Result {
	return Result{ID: id}
}

// Failed returns a failed Result. A nil err is treated as an internal failure.
func Failed(err error) Result {
	if err == nil {
		err = errors.New("operation failed")
	}
	return Result{Err: err}
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Kind returns the failure kind, or KindNone on success.
func (r Result) Kind() Kind { return KindOf(r.Err) }

type resultJSON struct {
	Success bool   `json:"success"`
	ID      *int64 `json:"id"`
	Kind    string `json:"kind,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MarshalJSON renders the result as {success, id, kind, error}; id is null
// on failure.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{Success: r.OK()}
	if r.OK() {
		id := r.ID
		out.ID = &id
	} else {
		out.Kind = r.Kind().String()
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}
