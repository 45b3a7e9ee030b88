package gibbs

import (
	"errors"
	"fmt"
)

// ErrNotImplemented is returned by Transform.  Folding new documents
// into the trained topic space is unsupported; use FitTransform for
// the training set's document-topic estimate, or Score for held-out
// probability.
var ErrNotImplemented = errors.New("gibbs: transform is not implemented")

// InvalidShapeError reports a malformed or degenerate input matrix,
// such as an empty document or a non-positive topic count.
type InvalidShapeError struct {
	Reason string
}

func (e *InvalidShapeError) Error() string {
	return "gibbs: invalid shape: " + e.Reason
}

// DimensionMismatchError reports a scoring matrix whose vocabulary
// size disagrees with the trained Phi.
type DimensionMismatchError struct {
	Want, Got int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("gibbs: vocabulary size %d does not match trained model (%d)",
		e.Got, e.Want)
}

// InvalidStateError reports a degenerate sampling state, typically an
// all-zero conditional distribution.  It requires caller intervention
// (usually a hyperparameter fix), never a retry.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return "gibbs: invalid state: " + e.Reason
}

// ScoringError reports the failure of a single document's particle
// estimation.  Other documents' results are unaffected.
type ScoringError struct {
	Doc int
	Err error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("gibbs: scoring document %d: %v", e.Doc, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}
