package container

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	gotheme "github.com/goliatone/go-theme"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/donations"
	"github.com/goliatone/go-sitewidgets/internal/editor"
	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// RenderOptions selects the mode and request state of a render.
type RenderOptions struct {
	Editable bool
	// Session drives editable renders. Without one the editable tree is rendered from the
	// stored configuration.
	Session *editor.Session
	// SessionFor supplies sessions when a whole slot is rendered in editable mode.
	SessionFor func(instanceID uuid.UUID) *editor.Session
	Query      url.Values
	// Donation is the outcome of a submission made through the widget DonationWidgetID.
	// A nil DonationWidgetID applies it to whichever widget is rendered.
	Donation         *donations.Outcome
	DonationWidgetID uuid.UUID
}

// Option configures a Container.
type Option func(*Container)

// WithDonationGateway sets the gateway handed to donation widgets.
func WithDonationGateway(gateway interfaces.DonationGateway) Option {
	return func(c *Container) {
		c.donations = gateway
	}
}

// WithListingFetcher sets the fetcher handed to live listing widgets.
func WithListingFetcher(fetcher interfaces.ListingFetcher) Option {
	return func(c *Container) {
		c.listings = fetcher
	}
}

// WithTheme resolves "token:" styling colors through selection.
func WithTheme(selection *gotheme.Selection) Option {
	return func(c *Container) {
		c.theme = selection
	}
}

// WithLogger overrides the container logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Container places widgets on a page. It resolves configuration, dispatches to the
// renderer registered for the widget type and wraps the result with shared styling. It
// holds no type-specific logic.
type Container struct {
	registry  *widgets.Registry
	donations interfaces.DonationGateway
	listings  interfaces.ListingFetcher
	theme     *gotheme.Selection
	logger    interfaces.Logger
	tokens    map[string]string
}

// New returns a container dispatching through registry.
func New(registry *widgets.Registry, opts ...Option) *Container {
	if registry == nil {
		registry = widgets.NewRegistry()
	}
	c := &Container{
		registry: registry,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.theme != nil {
		c.tokens = c.theme.Tokens()
	}
	return c
}

// Registry returns the renderer registry.
func (c *Container) Registry() *widgets.Registry { return c.registry }

// Resolve returns the renderer for instance and its canonical configuration. Values that
// could not be interpreted are logged and replaced by defaults.
func (c *Container) Resolve(instance *widgets.Instance) (widgets.Renderer, widgetconfig.Result) {
	renderer := c.registry.Lookup(instance.WidgetTypeID)
	result := widgetconfig.Resolve(renderer.Schema(), widgetconfig.SourcesFromInstance(instance))
	if len(result.Issues) > 0 {
		logger := logging.WithWidgetContext(c.logger, instance.ID.String(), instance.WidgetTypeID, "")
		for _, issue := range result.Issues {
			logger.Warn("container.config.issue",
				"field", issue.Field,
				"source", string(issue.Source),
				"reason", issue.Reason,
			)
		}
	}
	return renderer, result
}

// Render produces the wrapped tree of one widget. Public renders skip inactive or hidden
// widgets and never fail: a renderer panic is replaced by the fallback placeholder.
func (c *Container) Render(ctx context.Context, instance *widgets.Instance, opts RenderOptions) view.Node {
	if instance == nil {
		return view.Fragment()
	}
	if !opts.Editable && (!instance.IsActive || !instance.IsVisible) {
		return view.Fragment()
	}

	mode := widgets.ModePublic
	if opts.Editable {
		mode = widgets.ModeEditable
	}
	logger := logging.WithWidgetContext(c.logger.WithContext(ctx), instance.ID.String(), instance.WidgetTypeID, string(mode))

	renderer, result := c.Resolve(instance)
	session := opts.Session
	if session == nil && opts.Editable && opts.SessionFor != nil {
		session = opts.SessionFor(instance.ID)
	}

	var body view.Node
	values := result.Values
	switch {
	case opts.Editable && session != nil:
		values = session.Configuration()
		body = c.safely(logger, instance, func() view.Node { return session.Render() }, mode)
	case opts.Editable:
		cfg := result.Config(renderer.Schema())
		env := widgets.EditableEnv{WidgetID: instance.ID, WidgetType: instance.WidgetTypeID}
		body = c.safely(logger, instance, func() view.Node { return renderer.RenderEditable(cfg, env) }, mode)
	default:
		cfg := result.Config(renderer.Schema())
		env := c.publicEnv(instance, opts, logger)
		body = c.safely(logger, instance, func() view.Node { return renderer.RenderPublic(ctx, cfg, env) }, mode)
	}

	attrs := view.Attrs(
		"class", "widget widget--"+typeClass(instance.WidgetTypeID),
		"data-widget-id", instance.ID.String(),
		"data-mode", string(mode),
	)
	styling, _ := values[widgets.FieldStyling].(map[string]any)
	if style := inlineStyle(styling, c.tokens); style != "" {
		attrs = append(attrs, view.A("style", style))
	}
	return view.El("section", attrs, body)
}

// RenderSlot renders the instances placed in slot ordered by Order. An empty slot name
// renders every instance.
func (c *Container) RenderSlot(ctx context.Context, slot string, instances []*widgets.Instance, opts RenderOptions) view.Node {
	slot = strings.TrimSpace(slot)
	ctx = logging.ContextWithPlacement(ctx, "", slot)
	placed := make([]*widgets.Instance, 0, len(instances))
	for _, instance := range instances {
		if instance == nil || (slot != "" && instance.PositionSlot != slot) {
			continue
		}
		placed = append(placed, instance)
	}
	slices.SortStableFunc(placed, func(a, b *widgets.Instance) int {
		return a.Order - b.Order
	})

	children := make([]view.Node, 0, len(placed))
	for _, instance := range placed {
		instanceOpts := opts
		instanceOpts.Session = nil
		if opts.Donation != nil && opts.DonationWidgetID != instance.ID {
			instanceOpts.Donation = nil
		}
		children = append(children, c.Render(ctx, instance, instanceOpts))
	}
	return view.El("div", view.Attrs("class", "widget-slot", "data-slot", slot), children...)
}

// RenderString renders a widget to HTML.
func (c *Container) RenderString(ctx context.Context, instance *widgets.Instance, opts RenderOptions) (string, error) {
	return view.RenderString(c.Render(ctx, instance, opts))
}

func (c *Container) publicEnv(instance *widgets.Instance, opts RenderOptions, logger interfaces.Logger) widgets.PublicEnv {
	env := widgets.PublicEnv{
		WidgetID:       instance.ID,
		WidgetType:     instance.WidgetTypeID,
		SiteID:         instance.SiteID,
		OrganizationID: instance.OrganizationID,
		Donations:      c.donations,
		Listings:       c.listings,
		Query:          opts.Query,
		Logger:         logger,
	}
	if opts.Donation != nil && (opts.DonationWidgetID == uuid.Nil || opts.DonationWidgetID == instance.ID) {
		env.Donation = opts.Donation
	}
	return env
}

// safely runs render and substitutes the fallback renderer if it panics.
func (c *Container) safely(logger interfaces.Logger, instance *widgets.Instance, render func() view.Node, mode widgets.Mode) (node view.Node) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("container.render.panic", "panic", fmt.Sprint(r))
			node = c.placeholder(instance, mode)
		}
	}()
	return render()
}

func (c *Container) placeholder(instance *widgets.Instance, mode widgets.Mode) (node view.Node) {
	defer func() {
		if r := recover(); r != nil {
			node = view.Fragment()
		}
	}()
	fallback := c.registry.Fallback()
	if mode == widgets.ModeEditable {
		return fallback.RenderEditable(widgetconfig.Config{}, widgets.EditableEnv{WidgetID: instance.ID, WidgetType: instance.WidgetTypeID})
	}
	return fallback.RenderPublic(context.Background(), widgetconfig.Config{}, widgets.PublicEnv{WidgetID: instance.ID, WidgetType: instance.WidgetTypeID})
}
