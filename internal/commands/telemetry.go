package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusRejected     TelemetryStatus = "rejected"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to Telemetry callbacks after each execution.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// statusFor classifies err after it has been wrapped. Validation failures are input
// problems (a rejected donation amount, a schema mismatch) and are reported apart
// from engine failures.
func statusFor(err error, ctxErr error) TelemetryStatus {
	switch {
	case err == nil && ctxErr == nil:
		return TelemetryStatusSuccess
	case err == nil:
		return TelemetryStatusContextError
	case goerrors.IsCategory(err, goerrors.CategoryValidation):
		return TelemetryStatusRejected
	default:
		return TelemetryStatusFailed
	}
}

// DefaultTelemetry logs successes at info, rejections at warn and failures at error.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("command.execute.success", args...)
		case TelemetryStatusRejected:
			entry.Warn("command.execute.rejected", append(args, "error", info.Error)...)
		case TelemetryStatusContextError:
			entry.Error("command.execute.context_error", append(args, "error", info.Error)...)
		default:
			entry.Error("command.execute.failed", append(args, "error", info.Error)...)
		}
	}
}
