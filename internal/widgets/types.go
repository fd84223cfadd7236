package widgets

import (
	"errors"

	"github.com/goliatone/go-sitewidgets/internal/validation"
	pubwidgets "github.com/goliatone/go-sitewidgets/widgets"
)

type (
	Definition    = pubwidgets.Definition
	Instance      = pubwidgets.Instance
	ConfigEntry   = pubwidgets.ConfigEntry
	CollectionRow = pubwidgets.CollectionRow
	Item          = pubwidgets.Item
	Mode          = pubwidgets.Mode
	ValueType     = pubwidgets.ValueType

	Service                 = pubwidgets.Service
	RegisterDefinitionInput = pubwidgets.RegisterDefinitionInput
	CreateInstanceInput     = pubwidgets.CreateInstanceInput
	ConfigEntryInput        = pubwidgets.ConfigEntryInput
	CollectionRowInput      = pubwidgets.CollectionRowInput
	UpdateInstanceInput     = pubwidgets.UpdateInstanceInput
	NotFoundError           = pubwidgets.NotFoundError
)

const (
	ModePublic   = pubwidgets.ModePublic
	ModeEditable = pubwidgets.ModeEditable
)

var (
	ErrFeatureDisabled = pubwidgets.ErrFeatureDisabled

	ErrDefinitionNameRequired   = pubwidgets.ErrDefinitionNameRequired
	ErrDefinitionSchemaRequired = pubwidgets.ErrDefinitionSchemaRequired
	ErrDefinitionSchemaInvalid  = pubwidgets.ErrDefinitionSchemaInvalid
	ErrDefinitionExists         = pubwidgets.ErrDefinitionExists
	ErrDefinitionInUse          = pubwidgets.ErrDefinitionInUse

	ErrInstanceIDRequired    = pubwidgets.ErrInstanceIDRequired
	ErrInstanceSiteRequired  = pubwidgets.ErrInstanceSiteRequired
	ErrInstanceTypeRequired  = pubwidgets.ErrInstanceTypeRequired
	ErrInstanceSlotRequired  = pubwidgets.ErrInstanceSlotRequired
	ErrInstanceOrderInvalid  = pubwidgets.ErrInstanceOrderInvalid
	ErrConfigurationRequired = pubwidgets.ErrConfigurationRequired
	ErrConfigurationInvalid  = pubwidgets.ErrConfigurationInvalid

	ErrRendererRequired     = pubwidgets.ErrRendererRequired
	ErrRendererTypeRequired = pubwidgets.ErrRendererTypeRequired
	ErrRendererExists       = pubwidgets.ErrRendererExists
)

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool { return pubwidgets.IsNotFound(err) }

// ConfigurationFieldErrors returns per-field schema messages from a rejected
// CreateInstance call, or nil when err carries none.
func ConfigurationFieldErrors(err error) map[string]string {
	if !errors.Is(err, ErrConfigurationInvalid) || !errors.Is(err, validation.ErrSchemaValidation) {
		return nil
	}
	return validation.FieldErrors(err)
}
