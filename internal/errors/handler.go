package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/deepzoom/internal/bigfixed"
	"github.com/agbru/deepzoom/internal/mandelbrot"
)

// ColorProvider supplies terminal colour codes. It keeps this package free
// of a dependency on the ui package.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// DefaultColorProvider returns empty codes for non-terminal output.
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Red() string    { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// IsInputError reports engine failures caused by the requested values
// rather than by the engine itself.
func IsInputError(err error) bool {
	for _, target := range []error{
		bigfixed.ErrOutOfRange,
		bigfixed.ErrInvalidPrecision,
		bigfixed.ErrCapacityExceeded,
		mandelbrot.ErrInvalidArgument,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	var cfg ConfigError
	return errors.As(err, &cfg)
}

// HandleComputationError prints a status line for a failed computation and
// returns the matching exit code.
//
// Parameters:
//   - err: The error that occurred. A nil err prints nothing.
//   - duration: Time spent before the failure; omitted when zero.
//   - out: Destination of the status line.
//   - colors: Colour codes, or nil for none.
//
// Returns:
//   - int: The exit code for err.
func HandleComputationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", suffix)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorCanceled
	case IsInputError(err):
		fmt.Fprintf(out, "%sStatus: Invalid input.%s %v\n", colors.Red(), colors.Reset(), err)
		return ExitErrorConfig
	}
	fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	return ExitErrorGeneric
}
