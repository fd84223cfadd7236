package container

import (
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

const tokenPrefix = "token:"

var shadowPresets = map[string]string{
	"sm": "0 1px 2px rgba(0, 0, 0, 0.12)",
	"md": "0 4px 8px rgba(0, 0, 0, 0.16)",
	"lg": "0 12px 24px rgba(0, 0, 0, 0.2)",
}

// styleDecl maps a styling key to the css property it drives.
type styleDecl struct {
	key      string
	property string
	color    bool
	length   bool
}

var styleDecls = []styleDecl{
	{key: "padding", property: "padding", length: true},
	{key: "margin", property: "margin", length: true},
	{key: "backgroundColor", property: "background-color", color: true},
	{key: "textColor", property: "color", color: true},
	{key: "borderRadius", property: "border-radius", length: true},
	{key: "shadow", property: "box-shadow"},
}

// inlineStyle turns the styling sub-object into a style attribute. Unsafe or empty values
// are skipped. tokens resolves "token:<name>" colors; unknown tokens become css variables.
func inlineStyle(styling map[string]any, tokens map[string]string) string {
	if len(styling) == 0 {
		return ""
	}
	parts := make([]string, 0, len(styleDecls))
	for _, decl := range styleDecls {
		raw, ok := styling[decl.key]
		if !ok || raw == nil {
			continue
		}
		var value string
		switch {
		case decl.color:
			value = colorValue(cast.ToString(raw), tokens)
		case decl.length:
			value = lengthValue(raw)
		default:
			value = shadowValue(raw)
		}
		if value == "" {
			continue
		}
		parts = append(parts, decl.property+": "+value)
	}
	return strings.Join(parts, "; ")
}

func colorValue(raw string, tokens map[string]string) string {
	raw = strings.TrimSpace(raw)
	if name, ok := strings.CutPrefix(raw, tokenPrefix); ok {
		name = strings.TrimSpace(name)
		if !safeIdent(name) {
			return ""
		}
		if value, ok := tokens[name]; ok && safeValue(value) {
			return value
		}
		return "var(--" + name + ")"
	}
	if !safeValue(raw) {
		return ""
	}
	return raw
}

func lengthValue(raw any) string {
	switch v := raw.(type) {
	case int, int32, int64, float32, float64:
		n := cast.ToFloat64(v)
		if n < 0 {
			return ""
		}
		return strconv.FormatFloat(n, 'f', -1, 64) + "px"
	}
	value := strings.TrimSpace(cast.ToString(raw))
	if !safeValue(value) {
		return ""
	}
	return value
}

func shadowValue(raw any) string {
	if b, ok := raw.(bool); ok {
		if b {
			return shadowPresets["md"]
		}
		return ""
	}
	value := strings.TrimSpace(cast.ToString(raw))
	switch value {
	case "", "none", "false":
		return ""
	}
	if preset, ok := shadowPresets[value]; ok {
		return preset
	}
	if !safeValue(value) {
		return ""
	}
	return value
}

// safeValue rejects anything that could escape the declaration it is placed in.
func safeValue(value string) bool {
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	if strings.Contains(lower, "url(") || strings.Contains(lower, "expression(") {
		return false
	}
	return !strings.ContainsAny(value, ";{}<>\"'\\")
}

func safeIdent(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// typeClass returns a class-safe form of a widget type identifier.
func typeClass(typeID string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(typeID)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}
