package solwatch

import "errors"

// Sentinel errors returned by the Manager.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClientRequired is returned when no pub/sub client is provided.
	ErrClientRequired = errors.New("at least one pub/sub client is required")

	// ErrNilWatchSpec is returned when Subscribe is called with a nil spec.
	ErrNilWatchSpec = errors.New("watch spec is required")

	// ErrAlreadyStarted is returned when Start is called on a running manager.
	ErrAlreadyStarted = errors.New("manager already started")

	// ErrNotStarted is returned when an operation requires a started manager.
	ErrNotStarted = errors.New("manager not started")

	// ErrManagerClosed is returned when the manager has been stopped.
	ErrManagerClosed = errors.New("manager is stopped")

	// ErrRetriesExhausted is reported on a subscription's Err after every
	// registration attempt failed. It is never returned by Subscribe itself;
	// registration is asynchronous and failures surface only through status
	// and the subscription's terminal state.
	ErrRetriesExhausted = errors.New("registration retries exhausted")
)
