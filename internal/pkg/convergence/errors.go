package convergence

import "errors"

var (
	// ErrApplyFailed wraps a failure reported by the applier during Converge.
	ErrApplyFailed = errors.New("apply failed")

	// ErrObserveFailed wraps a failure reported by the observer.
	ErrObserveFailed = errors.New("observe failed")

	// ErrInvalidLiveState is returned by observers whose live configuration exists but cannot be
	// represented as an interface configuration. The engine counts it as drift.
	ErrInvalidLiveState = errors.New("invalid live configuration")
)
