// ABOUTME: Sentinel and typed errors for graph store and selection operations.
// ABOUTME: All are precondition failures surfaced before any mutation is applied.
package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGraph indicates a malformed graph value, such as a snapshot
	// with a broken table, dangling endpoints, or a gapped action log.
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrNoActiveSelection indicates an operator that consumes the current
	// selection found none, or found one of the right kind but empty.
	ErrNoActiveSelection = errors.New("no active selection")
)

// NoSuchIdentityError indicates a referenced node or edge id that is absent
// from the respective table.
type NoSuchIdentityError struct {
	Kind string // "node" or "edge"
	ID   int
}

func (e *NoSuchIdentityError) Error() string {
	return fmt.Sprintf("no such %s: %d", e.Kind, e.ID)
}

// WrongSelectionKindError indicates an operator that requires one selection
// kind while the other is active.
type WrongSelectionKindError struct {
	Want SelectionKind
	Got  SelectionKind
}

func (e *WrongSelectionKindError) Error() string {
	return fmt.Sprintf("wrong selection kind: want %s, got %s", e.Want, e.Got)
}
