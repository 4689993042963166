package fieldusage

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the aggregator.
var (
	// ErrUpstreamQuery marks any failure reported by the cluster collaborator.
	ErrUpstreamQuery = errors.New("upstream query failed")
	// ErrAmbiguousIndex is returned when a single index was required but the
	// search pattern matched several.
	ErrAmbiguousIndex = errors.New("too many indices found")
	// ErrNoIndices is returned when a single index was required but the search
	// pattern matched none.
	ErrNoIndices = errors.New("no indices found")
	// ErrPathNotFound signals a broken traversal: a path produced from one tree
	// was looked up in a tree that does not contain it.
	ErrPathNotFound = errors.New("path not found")
)

// UpstreamQueryError wraps a cluster failure with the operation that caused it.
type UpstreamQueryError struct {
	Op     string
	Target string
	Err    error
}

func (e *UpstreamQueryError) Error() string {
	return fmt.Sprintf("unable to %s for %s: %v", e.Op, e.Target, e.Err)
}

// Unwrap exposes the collaborator error.
func (e *UpstreamQueryError) Unwrap() error {
	return e.Err
}

// Is reports ErrUpstreamQuery as a match.
func (e *UpstreamQueryError) Is(target error) bool {
	return target == ErrUpstreamQuery
}

// AmbiguousIndexError lists the indices that made a single-index request ambiguous.
type AmbiguousIndexError struct {
	Indices []string
}

func (e *AmbiguousIndexError) Error() string {
	return fmt.Sprintf(
		"too many indices found, name a single index or use results for all indices. found: [%s]",
		strings.Join(e.Indices, ", "),
	)
}

// Is reports ErrAmbiguousIndex as a match.
func (e *AmbiguousIndexError) Is(target error) bool {
	return target == ErrAmbiguousIndex
}
