package activity

import (
	"errors"

	"go.temporal.io/sdk/temporal"
)

// Activity-specific errors for retry classification.
var (
	// ErrActivityValidation is returned when activity input validation
	// fails. Non-retryable: the request is wrong, not the environment.
	ErrActivityValidation = errors.New("activity input validation failed")

	// ErrSourceUnavailable is returned when the batch source cannot serve
	// a partition for transient reasons (storage, network). Retryable.
	ErrSourceUnavailable = errors.New("batch source unavailable")

	// ErrUnknownPartition is returned when the batch source has no data
	// for the requested partition. Non-retryable.
	ErrUnknownPartition = errors.New("unknown partition")
)

// nonRetryable wraps an error as a Temporal non-retryable application error.
// Used for validation failures and configuration mismatches, which no
// number of retries will fix. The tag categorizes the failure for
// monitoring.
func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

// retryable wraps an error as a Temporal application error subject to the
// workflow's retry policy. Used for transient source and I/O failures.
func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationError(msg, tag, cause)
}
