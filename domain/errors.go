package domain

import (
	"errors"
	"fmt"
)

// InvalidConfigurationError reports bad pipeline parameters. Raised before
// any external call is made.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// TransformUnavailableError reports an exhausted retry budget on one chunk
// transform. Fatal for the run: a missing segment corrupts downstream
// timeline allocation.
type TransformUnavailableError struct {
	ChunkIndex int
	Attempts   int
	Cause      error
}

func (e *TransformUnavailableError) Error() string {
	return fmt.Sprintf("transform unavailable for chunk %d after %d attempts: %v", e.ChunkIndex, e.Attempts, e.Cause)
}

func (e *TransformUnavailableError) Unwrap() error {
	return e.Cause
}

// MalformedSegmentError reports model output that stayed unparseable after
// the single stricter-reformat retry. Fatal for the run.
type MalformedSegmentError struct {
	ChunkIndex int
	Cause      error
}

func (e *MalformedSegmentError) Error() string {
	return fmt.Sprintf("malformed segment for chunk %d: %v", e.ChunkIndex, e.Cause)
}

func (e *MalformedSegmentError) Unwrap() error {
	return e.Cause
}

// ErrRunCancelled marks a caller-initiated cancellation. Distinguished from
// failure: no output is produced.
var ErrRunCancelled = errors.New("run cancelled")

// TransientError marks a provider failure worth retrying (rate limit,
// timeout, 5xx). The gateway retries these locally; they never surface past
// it unless the retry budget runs out.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	return "transient provider error: " + e.Cause.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// IsTransient reports whether err is retryable at the gateway.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
