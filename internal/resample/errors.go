package resample

import "errors"

// Error kinds surfaced by the engine. Callers match them with errors.Is;
// none are retried internally.
var (
	ErrInvalidArgument      = errors.New("resample: invalid argument")
	ErrConcurrentInvocation = errors.New("resample: concurrent invocation")
	ErrWorkerFailed         = errors.New("resample: worker failed")
	ErrCancelled            = errors.New("resample: cancelled")
)
