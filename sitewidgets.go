package sitewidgets

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/container"
	"github.com/goliatone/go-sitewidgets/internal/di"
	"github.com/goliatone/go-sitewidgets/internal/donations"
	"github.com/goliatone/go-sitewidgets/internal/editor"
	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
)

// WidgetService exports the widgets service contract.
type WidgetService = widgets.Service

// Instance exports the stored widget instance model.
type Instance = widgets.Instance

// Registry exports the renderer registry.
type Registry = widgets.Registry

// Renderer exports the widget container used to render instances.
type Renderer = container.Container

// RenderOptions exports the render request options.
type RenderOptions = container.RenderOptions

// Session exports the editing session type.
type Session = editor.Session

// Action exports the editing action type.
type Action = editor.Action

// DonationPayload exports the donor submission type.
type DonationPayload = donations.Payload

// DonationOutcome exports the donor-facing submission result.
type DonationOutcome = donations.Outcome

// Option overrides container collaborators.
type Option = di.Option

var (
	WithBunDB           = di.WithBunDB
	WithCache           = di.WithCache
	WithLoggerProvider  = di.WithLoggerProvider
	WithClock           = di.WithClock
	WithDonationGateway = di.WithDonationGateway
	WithListingFetcher  = di.WithListingFetcher
	WithAssetUploader   = di.WithAssetUploader
	WithWidgetService   = di.WithWidgetService
	WithRegistry        = di.WithRegistry
)

// Module represents the top level widget engine façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Widgets returns the configured widget service.
func (m *Module) Widgets() WidgetService {
	return m.container.WidgetService()
}

// Registry returns the renderer registry.
func (m *Module) Registry() *Registry {
	return m.container.Registry()
}

// Renderer returns the widget container.
func (m *Module) Renderer() *Renderer {
	return m.container.Renderer()
}

// OpenSession starts an editing session for a stored widget.
func (m *Module) OpenSession(ctx context.Context, instanceID uuid.UUID, editable bool) (*Session, error) {
	return m.container.OpenSession(ctx, instanceID, editable)
}

// SubmitDonation validates and submits a donation through the widget's rules.
func (m *Module) SubmitDonation(ctx context.Context, widgetID uuid.UUID, payload DonationPayload) (DonationOutcome, error) {
	return m.container.SubmitDonation(ctx, widgetID, payload)
}

// RenderSlot renders the widgets a site places in slot to HTML. An empty slot renders
// every widget of the site.
func (m *Module) RenderSlot(ctx context.Context, siteID uuid.UUID, slot string, opts RenderOptions) (string, error) {
	var (
		instances []*Instance
		err       error
	)
	if strings.TrimSpace(slot) == "" {
		instances, err = m.container.WidgetService().ListInstancesBySite(ctx, siteID)
	} else {
		instances, err = m.container.WidgetService().ListInstancesBySlot(ctx, siteID, slot)
	}
	if err != nil {
		return "", err
	}
	ctx = logging.ContextWithPlacement(ctx, siteID.String(), "")
	return view.RenderString(m.container.Renderer().RenderSlot(ctx, slot, instances, opts))
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
