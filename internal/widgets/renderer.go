package widgets

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/donations"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// Renderer produces both presentations of one widget type from the same canonical
// configuration.
type Renderer interface {
	Type() string
	Schema() widgetconfig.Schema
	// RenderPublic may perform read-only, idempotent fetches through env collaborators.
	RenderPublic(ctx context.Context, cfg widgetconfig.Config, env PublicEnv) view.Node
	// RenderEditable is side-effect free. Controls it emits carry data-action attributes
	// handled by the editor session.
	RenderEditable(cfg widgetconfig.Config, env EditableEnv) view.Node
}

// PublicEnv carries the collaborators and request state available to public renders.
type PublicEnv struct {
	WidgetID       uuid.UUID
	WidgetType     string
	SiteID         uuid.UUID
	OrganizationID uuid.UUID
	Donations      interfaces.DonationGateway
	Listings       interfaces.ListingFetcher
	Query          url.Values
	Donation       *donations.Outcome
	Logger         interfaces.Logger
}

// UIState is editing state local to one authoring surface.
type UIState struct {
	CurrentSlide     int
	SettingsExpanded bool
}

// EditableEnv carries authoring state for editable renders.
type EditableEnv struct {
	WidgetID   uuid.UUID
	WidgetType string
	UI         UIState
	Status     string
}

// Control actions carried by editable controls in their data-action attribute.
const (
	ActionSetField         = "set_field"
	ActionSetStyling       = "set_styling"
	ActionCollectionAdd    = "collection_add"
	ActionCollectionUpdate = "collection_update"
	ActionCollectionRemove = "collection_remove"
	ActionCollectionMove   = "collection_move"
	ActionUploadImage      = "upload_image"
)

// Control attributes read by the editor session.
const (
	AttrAction    = "data-action"
	AttrField     = "data-field"
	AttrItemID    = "data-item-id"
	AttrKey       = "data-key"
	AttrDirection = "data-direction"
	AttrValueType = "data-value-type"
)

// FieldStyling is the configuration sub-object holding container presentation shared by
// every widget type.
const FieldStyling = "styling"
