package editor

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

// Kind names an editing action. The values match the data-action attribute of editable
// controls.
type Kind string

const (
	KindSetField         Kind = widgets.ActionSetField
	KindSetStyling       Kind = widgets.ActionSetStyling
	KindCollectionAdd    Kind = widgets.ActionCollectionAdd
	KindCollectionUpdate Kind = widgets.ActionCollectionUpdate
	KindCollectionRemove Kind = widgets.ActionCollectionRemove
	KindCollectionMove   Kind = widgets.ActionCollectionMove
	KindUploadImage      Kind = widgets.ActionUploadImage
)

// Action is one edit emitted by an editable control.
type Action struct {
	Kind      Kind
	Field     string
	ItemID    string
	Key       string
	Direction string
	Value     any
}

// Value types accepted in the data-value-type attribute.
const (
	ValueString  = "string"
	ValueNumber  = "number"
	ValueInteger = "integer"
	ValueBoolean = "boolean"
	ValueList    = "list"
)

// ParseControl builds an Action from the data attributes of a control and the raw value
// it submitted. Values are coerced according to data-value-type; a missing type keeps
// the raw string.
func ParseControl(attrs map[string]string, raw string) (Action, error) {
	action := Action{
		Kind:      Kind(strings.TrimSpace(attrs[widgets.AttrAction])),
		Field:     strings.TrimSpace(attrs[widgets.AttrField]),
		ItemID:    strings.TrimSpace(attrs[widgets.AttrItemID]),
		Key:       strings.TrimSpace(attrs[widgets.AttrKey]),
		Direction: strings.TrimSpace(attrs[widgets.AttrDirection]),
	}
	if !action.Kind.valid() {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, action.Kind)
	}
	value, err := CoerceValue(attrs[widgets.AttrValueType], raw)
	if err != nil {
		return Action{}, err
	}
	action.Value = value
	return action, nil
}

// CoerceValue converts a submitted control value to the representation named by
// valueType.
func CoerceValue(valueType, raw string) (any, error) {
	switch strings.TrimSpace(valueType) {
	case "", ValueString:
		return raw, nil
	case ValueNumber:
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		v, err := cast.ToFloat64E(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
		}
		return v, nil
	case ValueInteger:
		if strings.TrimSpace(raw) == "" {
			return nil, nil
		}
		v, err := cast.ToIntE(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw)
		}
		return v, nil
	case ValueBoolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "", "off":
			return false, nil
		case "on":
			return true, nil
		}
		v, err := cast.ToBoolE(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
		}
		return v, nil
	case ValueList:
		out := []any{}
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown value type %q", ErrInvalidValue, valueType)
	}
}

func (k Kind) valid() bool {
	switch k {
	case KindSetField, KindSetStyling, KindCollectionAdd, KindCollectionUpdate,
		KindCollectionRemove, KindCollectionMove, KindUploadImage:
		return true
	}
	return false
}
