package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-sitewidgets/internal/donations"
	"github.com/goliatone/go-sitewidgets/internal/editor"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

// Text codes attached to errors returned from Handler.Execute.
const (
	CodeMessageInvalid  = "COMMAND_VALIDATION_FAILED"
	CodeCanceled        = "COMMAND_CONTEXT_CANCELED"
	CodeTimeout         = "COMMAND_CONTEXT_TIMEOUT"
	CodeContextError    = "COMMAND_CONTEXT_ERROR"
	CodeExecuteFailed   = "COMMAND_EXECUTION_FAILED"
	CodeWidgetNotFound  = "WIDGET_NOT_FOUND"
	CodeWidgetInvalid   = "WIDGET_CONFIGURATION_INVALID"
	CodeFeatureDisabled = "WIDGET_FEATURE_DISABLED"
	CodeGatewayMissing  = "DONATION_GATEWAY_MISSING"
)

type errorRule struct {
	match    func(error) bool
	category goerrors.Category
	code     string
	message  string
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func isAny(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// executeRules run in order; the first match decides the category.
var executeRules = []errorRule{
	{match: widgets.IsNotFound, category: goerrors.CategoryCommand, code: CodeWidgetNotFound, message: "widget not found"},
	{match: is(widgets.ErrFeatureDisabled), category: goerrors.CategoryCommand, code: CodeFeatureDisabled, message: "widgets feature disabled"},
	{match: is(donations.ErrGatewayRequired), category: goerrors.CategoryCommand, code: CodeGatewayMissing, message: "donation gateway not configured"},
	{
		match: isAny(
			widgets.ErrConfigurationInvalid,
			widgets.ErrConfigurationRequired,
			widgets.ErrInstanceOrderInvalid,
			editor.ErrInvalidValue,
			editor.ErrInvalidImageURL,
		),
		category: goerrors.CategoryValidation,
		code:     CodeWidgetInvalid,
		message:  "widget configuration rejected",
	},
}

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(CodeMessageInvalid)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(CodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(CodeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(CodeContextError)
	}
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return wrapContextError(err)
	}
	for _, rule := range executeRules {
		if rule.match(err) {
			return goerrors.Wrap(err, rule.category, rule.message).WithTextCode(rule.code)
		}
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(CodeExecuteFailed)
}
