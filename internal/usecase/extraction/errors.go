package extraction

import "fmt"

// Reason classifies why an extraction run failed. Callers use it to decide
// whether to surface a "try again" or fall back to summary-only output.
type Reason string

const (
	// ReasonTransientExhausted means retries against the completion service
	// ran out without a usable response.
	ReasonTransientExhausted Reason = "transient-exhausted"

	// ReasonInvalidResponse means the model answered but the payload failed
	// parsing or schema validation.
	ReasonInvalidResponse Reason = "invalid-response"

	// ReasonRejectedInput means the transcript was rejected before any call
	// was made.
	ReasonRejectedInput Reason = "rejected-input"
)

// ExtractionError is the typed failure surfaced by the client
type ExtractionError struct {
	Reason Reason
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s)", e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func newError(reason Reason, err error) *ExtractionError {
	return &ExtractionError{Reason: reason, Err: err}
}
