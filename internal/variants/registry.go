package variants

import (
	"github.com/goliatone/go-sitewidgets/internal/markdown"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

// Builtins returns the renderers shipped with the engine.
func Builtins(md *markdown.Renderer) []widgets.Renderer {
	return []widgets.Renderer{
		HeroBanner{},
		DonationForm{},
		Menu{},
		TextBlock{Markdown: md},
		StatsPanel{},
		Leaderboard{},
		ContactForm{},
	}
}

// NewRegistry returns a registry holding every built-in renderer with Unknown as the
// fallback.
func NewRegistry(md *markdown.Renderer) *widgets.Registry {
	registry := widgets.NewRegistry(widgets.WithFallback(Unknown{}))
	registry.MustRegister(Builtins(md)...)
	return registry
}
