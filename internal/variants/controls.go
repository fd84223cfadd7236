package variants

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

// Value type hints for set_field and collection_update controls.
const (
	valueString = "string"
	valueNumber = "number"
	valueInt    = "integer"
	valueBool   = "boolean"
	valueList   = "list"
)

type inputKind string

const (
	inputText     inputKind = "text"
	inputURL      inputKind = "url"
	inputNumber   inputKind = "number"
	inputCheckbox inputKind = "checkbox"
	inputTextarea inputKind = "textarea"
	inputSelect   inputKind = "select"
	inputImage    inputKind = "image"
)

// itemField describes one editable attribute of a collection item.
type itemField struct {
	Key     string
	Label   string
	Input   inputKind
	Options []string
}

func valueTypeFor(kind inputKind) string {
	switch kind {
	case inputNumber:
		return valueNumber
	case inputCheckbox:
		return valueBool
	default:
		return valueString
	}
}

// fieldControl renders a labelled control bound to a top-level configuration field.
func fieldControl(field, label string, kind inputKind, value any, options ...string) view.Node {
	attrs := []view.Attr{
		view.A(widgets.AttrAction, widgets.ActionSetField),
		view.A(widgets.AttrField, field),
		view.A(widgets.AttrValueType, valueTypeFor(kind)),
		view.A("name", field),
	}
	return labelled(label, input(kind, attrs, value, options), "")
}

// listControl edits a list field as comma separated text.
func listControl(field, label string, values []string) view.Node {
	attrs := []view.Attr{
		view.A(widgets.AttrAction, widgets.ActionSetField),
		view.A(widgets.AttrField, field),
		view.A(widgets.AttrValueType, valueList),
		view.A("name", field),
	}
	return labelled(label, input(inputText, attrs, strings.Join(values, ", "), nil), "")
}

// imageControl renders the current image with an upload trigger. itemID is empty for
// top-level fields.
func imageControl(field, itemID, label, value string) view.Node {
	trigger := []view.Attr{
		view.A("type", "file"),
		view.A("accept", "image/*"),
		view.A(widgets.AttrAction, widgets.ActionUploadImage),
		view.A(widgets.AttrField, field),
	}
	if itemID != "" {
		trigger = append(trigger, view.A(widgets.AttrItemID, itemID))
	}
	children := []view.Node{}
	if src := safeImageSrc(value); src != "" {
		children = append(children, view.El("img", view.Attrs("src", src, "alt", "", "class", "widget-control__preview")))
	}
	children = append(children, view.El("input", trigger))
	return labelled(label, view.Fragment(children...), "widget-control--image")
}

func labelled(label string, control view.Node, modifier string) view.Node {
	class := "widget-control"
	if modifier != "" {
		class += " " + modifier
	}
	return view.El("label", view.Attrs("class", class),
		view.El("span", view.Attrs("class", "widget-control__label"), view.Text(label)),
		control,
	)
}

func input(kind inputKind, attrs []view.Attr, value any, options []string) view.Node {
	switch kind {
	case inputTextarea:
		return view.El("textarea", attrs, view.Text(cast.ToString(value)))
	case inputCheckbox:
		attrs = append(attrs, view.A("type", "checkbox"))
		if cast.ToBool(value) {
			attrs = append(attrs, view.A("checked", "checked"))
		}
		return view.El("input", attrs)
	case inputSelect:
		current := cast.ToString(value)
		opts := make([]view.Node, 0, len(options))
		for _, option := range options {
			optAttrs := view.Attrs("value", option)
			if option == current {
				optAttrs = append(optAttrs, view.A("selected", "selected"))
			}
			opts = append(opts, view.El("option", optAttrs, view.Text(option)))
		}
		return view.El("select", attrs, opts...)
	default:
		if kind == inputImage {
			kind = inputURL
		}
		attrs = append(attrs, view.A("type", string(kind)), view.A("value", cast.ToString(value)))
		return view.El("input", attrs)
	}
}

// collectionEditor renders the ordered item list of field with per-item update, move and
// remove controls and a trailing add control.
func collectionEditor(field, title string, items []widgets.Item, fields []itemField, highlight int) view.Node {
	rows := make([]view.Node, 0, len(items))
	for i, item := range items {
		rows = append(rows, collectionItem(field, i, len(items), item, fields, i == highlight))
	}
	return view.El("fieldset", view.Attrs("class", "widget-collection", "data-collection", field),
		view.El("legend", nil, view.Text(title)),
		view.El("ol", view.Attrs("class", "widget-collection__items"), rows...),
		view.El("button", view.Attrs(
			"type", "button",
			"class", "widget-collection__add",
			widgets.AttrAction, widgets.ActionCollectionAdd,
			widgets.AttrField, field,
		), view.Text("Add")),
	)
}

func collectionItem(field string, index, total int, item widgets.Item, fields []itemField, current bool) view.Node {
	attrs := view.Attrs("class", "widget-collection__item", widgets.AttrItemID, item.ID, "data-position", strconv.Itoa(index))
	if current {
		attrs = append(attrs, view.A("aria-current", "true"))
	}

	controls := make([]view.Node, 0, len(fields)+3)
	for _, f := range fields {
		if f.Input == inputImage {
			controls = append(controls, imageControl(field, item.ID, f.Label, cast.ToString(item.Get(f.Key))))
			continue
		}
		controlAttrs := []view.Attr{
			view.A(widgets.AttrAction, widgets.ActionCollectionUpdate),
			view.A(widgets.AttrField, field),
			view.A(widgets.AttrItemID, item.ID),
			view.A(widgets.AttrKey, f.Key),
			view.A(widgets.AttrValueType, valueTypeFor(f.Input)),
		}
		controls = append(controls, labelled(f.Label, input(f.Input, controlAttrs, item.Get(f.Key), f.Options), ""))
	}
	controls = append(controls,
		moveButton(field, item.ID, "up", "Move up", index == 0),
		moveButton(field, item.ID, "down", "Move down", index == total-1),
		view.El("button", view.Attrs(
			"type", "button",
			"class", "widget-collection__remove",
			widgets.AttrAction, widgets.ActionCollectionRemove,
			widgets.AttrField, field,
			widgets.AttrItemID, item.ID,
		), view.Text("Remove")),
	)
	return view.El("li", attrs, controls...)
}

func moveButton(field, itemID, direction, label string, disabled bool) view.Node {
	attrs := view.Attrs(
		"type", "button",
		"class", "widget-collection__move",
		widgets.AttrAction, widgets.ActionCollectionMove,
		widgets.AttrField, field,
		widgets.AttrItemID, itemID,
		widgets.AttrDirection, direction,
	)
	if disabled {
		attrs = append(attrs, view.A("disabled", "disabled"))
	}
	return view.El("button", attrs, view.Text(label))
}

// editorShell wraps the controls of an editable widget. The preview is rendered next to the
// controls so authors see the public output while editing.
func editorShell(typeID string, env widgets.EditableEnv, preview view.Node, controls ...view.Node) view.Node {
	panelAttrs := view.Attrs("class", "widget-editor__controls")
	if !env.UI.SettingsExpanded {
		panelAttrs = append(panelAttrs, view.A("data-collapsed", "true"))
	}
	return view.El("div", view.Attrs("class", "widget-editor widget-editor--"+typeID, "data-status", env.Status),
		view.El("div", view.Attrs("class", "widget-editor__preview"), preview),
		view.El("form", panelAttrs, controls...),
	)
}

func alert(message string, extra ...view.Node) view.Node {
	children := append([]view.Node{view.Text(message)}, extra...)
	return view.El("div", view.Attrs("class", "alert alert--error", "role", "alert"), children...)
}

func clampIndex(index, length int) int {
	if length == 0 {
		return -1
	}
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
