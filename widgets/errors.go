package widgets

import (
	"errors"
	"fmt"
)

var (
	ErrFeatureDisabled = errors.New("widgets: feature disabled")

	ErrDefinitionNameRequired   = errors.New("widgets: definition name required")
	ErrDefinitionSchemaRequired = errors.New("widgets: definition schema required")
	ErrDefinitionSchemaInvalid  = errors.New("widgets: definition schema invalid")
	ErrDefinitionExists         = errors.New("widgets: definition already exists")
	ErrDefinitionInUse          = errors.New("widgets: definition has active instances")

	ErrInstanceIDRequired       = errors.New("widgets: instance id required")
	ErrInstanceSiteRequired     = errors.New("widgets: site id required")
	ErrInstanceTypeRequired     = errors.New("widgets: widget type id required")
	ErrInstanceSlotRequired     = errors.New("widgets: position slot required")
	ErrInstanceOrderInvalid     = errors.New("widgets: order cannot be negative")
	ErrConfigurationRequired    = errors.New("widgets: configuration required")
	ErrConfigurationInvalid     = errors.New("widgets: configuration does not match definition schema")
	ErrRendererRequired         = errors.New("widgets: renderer required")
	ErrRendererTypeRequired     = errors.New("widgets: renderer type required")
	ErrRendererExists           = errors.New("widgets: renderer already registered")
)

// NotFoundError is returned when a widget resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
