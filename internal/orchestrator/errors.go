package orchestrator

import "errors"

// ErrSynthesisFailed is the hard error from spec §4.5 step 8: an
// information-query synthesis call that returns a task plan instead of a
// conversation reply must never fall back to a generic paraphrase.
var ErrSynthesisFailed = errors.New("orchestrator: synthesis-failed")

// ErrInvalidInput guards the empty-prompt edge case (spec §7).
var ErrInvalidInput = errors.New("orchestrator: invalid-input")
