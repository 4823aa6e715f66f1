// services/errors.go
package services

import "errors"

// Engine error taxonomy. Controllers map these onto HTTP status codes:
// ErrNotFound → 404, ErrAlreadyProcessed → 400 (surfaced, not silently
// absorbed), IneligibleError → 400 with the shortfall reason.
var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyProcessed = errors.New("request already processed")
)

// IneligibleError reports why a member fails a rank or incentive threshold.
type IneligibleError struct {
	Reason string
}

func (e *IneligibleError) Error() string {
	return e.Reason
}

// Ineligible wraps a shortfall reason for the caller.
func Ineligible(reason string) error {
	return &IneligibleError{Reason: reason}
}

// IneligibleReason extracts the reason when err is an IneligibleError.
func IneligibleReason(err error) (string, bool) {
	var ie *IneligibleError
	if errors.As(err, &ie) {
		return ie.Reason, true
	}
	return "", false
}
