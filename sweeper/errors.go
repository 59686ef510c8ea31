package sweeper

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ProviderError is a failed listing or region lookup. It aborts the run.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when the run outlives its deadline.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("sweep did not finish within %s", e.Timeout)
	}
	return "sweep did not finish before the invocation deadline"
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

const (
	KindProvider = "provider"
	KindTimeout  = "timeout"
	KindUnknown  = "unknown"
)

// ErrorKind classifies an error that escaped a run, for logging.
func ErrorKind(err error) string {
	var providerErr *ProviderError
	var timeoutErr *TimeoutError
	switch {
	case errors.As(err, &timeoutErr):
		return KindTimeout
	case errors.As(err, &providerErr):
		return KindProvider
	}
	return KindUnknown
}
