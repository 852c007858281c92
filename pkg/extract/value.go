package extract

import (
	"errors"
	"fmt"
)

// ErrGroupNotMatched means the pattern matched but a group a field reads from
// did not take part in the match. That is a configuration error, never a data
// error.
var ErrGroupNotMatched = errors.New("capture group did not participate in match")

// Captures exposes the named groups of a single match.
type Captures interface {
	// Named returns the text of the group and whether it participated.
	Named(group string) (string, bool)
}

type origin int

const (
	originFixed origin = iota + 1
	originMatch
)

// Value is a tagged union: a fixed constant, or a named group plus a parser.
type Value[T any] struct {
	origin origin
	fixed  T
	group  string
	parser Parser[T]
}

// Fixed returns a Value that always yields v.
func Fixed[T any](v T) Value[T] {
	return Value[T]{origin: originFixed, fixed: v}
}

// FromMatch returns a Value read from the named group and parsed with p.
func FromMatch[T any](group string, p Parser[T]) Value[T] {
	return Value[T]{origin: originMatch, group: group, parser: p}
}

// Group returns the capture group this value reads, if any.
func (v Value[T]) Group() (string, bool) {
	return v.group, v.origin == originMatch
}

// IsZero reports whether v was never initialised.
func (v Value[T]) IsZero() bool {
	return v.origin == 0
}

// Extract produces the value for one match.
func (v Value[T]) Extract(c Captures) (T, error) {
	var zero T
	switch v.origin {
	case originFixed:
		return v.fixed, nil
	case originMatch:
		text, ok := c.Named(v.group)
		if !ok {
			return zero, fmt.Errorf("%w: %q", ErrGroupNotMatched, v.group)
		}
		return v.parser.Parse(text)
	default:
		panic("extract: zero Value used")
	}
}
