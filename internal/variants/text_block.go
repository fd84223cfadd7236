package variants

import (
	"context"
	"slices"

	"github.com/goliatone/go-sitewidgets/internal/markdown"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

const TypeTextBlock = "text_block"

var alignments = []string{"left", "center", "right"}

var textSchema = widgetconfig.NewSchema(
	widgetconfig.Field{Name: "content", Kind: widgetconfig.KindString, Description: "markdown"},
	widgetconfig.Field{Name: "alignment", Kind: widgetconfig.KindString, Default: "left"},
)

// TextBlock renders author Markdown as sanitized HTML.
type TextBlock struct {
	Markdown *markdown.Renderer
}

func (TextBlock) Type() string { return TypeTextBlock }

func (TextBlock) Schema() widgetconfig.Schema { return textSchema }

func (t TextBlock) RenderPublic(_ context.Context, cfg widgetconfig.Config, env widgets.PublicEnv) view.Node {
	return t.presentation(cfg, env.Logger)
}

func (t TextBlock) RenderEditable(cfg widgetconfig.Config, env widgets.EditableEnv) view.Node {
	return editorShell(TypeTextBlock, env, t.presentation(cfg, nil),
		fieldControl("content", "Content", inputTextarea, cfg.String("content")),
		fieldControl("alignment", "Alignment", inputSelect, cfg.String("alignment"), alignments...),
	)
}

// presentation falls back to the escaped source when conversion fails.
func (t TextBlock) presentation(cfg widgetconfig.Config, logger interfaces.Logger) view.Node {
	alignment := cfg.String("alignment")
	if !slices.Contains(alignments, alignment) {
		alignment = alignments[0]
	}
	attrs := view.Attrs("class", "text-block text-block--"+alignment)

	renderer := t.Markdown
	if renderer == nil {
		renderer = markdown.Default()
	}
	content := cfg.String("content")
	html, err := renderer.Render(content)
	if err != nil {
		if logger != nil {
			logger.Warn("text_block.markdown.failed", "error", err)
		}
		return view.El("div", attrs, view.El("p", nil, view.Text(content)))
	}
	if html == "" {
		return view.El("div", attrs)
	}
	return view.El("div", attrs, view.Raw(html))
}
