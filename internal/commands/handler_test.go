package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/donations"
	"github.com/goliatone/go-sitewidgets/internal/editor"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/testsupport"
)

type testMessage struct{}

func (testMessage) Type() string { return "sitewidgets.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "sitewidgets.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerReportsTelemetry(t *testing.T) {
	var infos []TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("gateway offline")
	},
		WithOperation[testMessage]("donations.submit"),
		WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
			infos = append(infos, info)
		}),
	)

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected error")
	}
	if len(infos) != 1 {
		t.Fatalf("expected one telemetry call, got %d", len(infos))
	}
	info := infos[0]
	if info.Status != TelemetryStatusFailed || info.Operation != "donations.submit" || info.Command != "sitewidgets.test.message" {
		t.Fatalf("unexpected telemetry %+v", info)
	}
	if !goerrors.IsCategory(info.Error, goerrors.CategoryCommand) {
		t.Fatalf("expected categorised error in telemetry, got %v", info.Error)
	}
}

func TestDefaultTelemetryLogsOutcome(t *testing.T) {
	logger := &testsupport.RecordingLogger{}
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return nil
	}, WithTelemetry(DefaultTelemetry[testMessage](logger)))

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	entries := logger.Entries()
	if len(entries) != 1 || entries[0].Level != "info" || entries[0].Message != "command.execute.success" {
		t.Fatalf("unexpected log entries %+v", entries)
	}
	if entries[0].Fields["command"] != "sitewidgets.test.message" {
		t.Fatalf("expected command field, got %+v", entries[0].Fields)
	}
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerCategorisesWidgetErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category goerrors.Category
	}{
		{name: "not found", err: &widgets.NotFoundError{Resource: "instance", Key: "w1"}, category: goerrors.CategoryCommand},
		{name: "disabled", err: fmt.Errorf("sync: %w", widgets.ErrFeatureDisabled), category: goerrors.CategoryCommand},
		{name: "gateway", err: donations.ErrGatewayRequired, category: goerrors.CategoryCommand},
		{name: "schema", err: fmt.Errorf("save: %w", widgets.ErrConfigurationInvalid), category: goerrors.CategoryValidation},
		{name: "editor value", err: editor.ErrInvalidValue, category: goerrors.CategoryValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler[testMessage](func(context.Context, testMessage) error { return tc.err })
			err := h.Execute(context.Background(), testMessage{})
			if !goerrors.IsCategory(err, tc.category) {
				t.Fatalf("expected %v category, got %v", tc.category, err)
			}
		})
	}
}

type widgetMessage struct {
	id  uuid.UUID
	bad bool
}

func (widgetMessage) Type() string { return "sitewidgets.test.widget" }

func (widgetMessage) Validate() error { return nil }

func (m widgetMessage) TargetWidget() uuid.UUID { return m.id }

func TestDefaultTelemetryTagsWidgetAndWarnsOnRejection(t *testing.T) {
	logger := &testsupport.RecordingLogger{}
	id := uuid.New()
	h := NewHandler[widgetMessage](func(_ context.Context, msg widgetMessage) error {
		if msg.bad {
			return widgets.ErrConfigurationInvalid
		}
		return nil
	}, WithTelemetry(DefaultTelemetry[widgetMessage](logger)))

	if err := h.Execute(context.Background(), widgetMessage{id: id}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if err := h.Execute(context.Background(), widgetMessage{id: id, bad: true}); err == nil {
		t.Fatal("expected rejection")
	}

	entries := logger.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %+v", entries)
	}
	if entries[0].Fields["widget_id"] != id.String() {
		t.Fatalf("expected widget id field, got %+v", entries[0].Fields)
	}
	if entries[1].Level != "warn" || entries[1].Message != "command.execute.rejected" {
		t.Fatalf("expected rejection warning, got %+v", entries[1])
	}
}
