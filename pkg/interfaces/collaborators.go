package interfaces

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// WidgetPersister stores a canonical widget configuration. Implementations must
// be idempotent when retried with the same snapshot.
type WidgetPersister interface {
	Save(ctx context.Context, widgetID uuid.UUID, configuration map[string]any) error
}

// WidgetPersisterFunc adapts a function to WidgetPersister.
type WidgetPersisterFunc func(ctx context.Context, widgetID uuid.UUID, configuration map[string]any) error

// Save calls fn.
func (fn WidgetPersisterFunc) Save(ctx context.Context, widgetID uuid.UUID, configuration map[string]any) error {
	return fn(ctx, widgetID, configuration)
}

// PaymentMethod is a payment option offered by the donation gateway.
type PaymentMethod struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// DonationRequest is the payload handed to the donation gateway.
type DonationRequest struct {
	Amount          float64         `json:"amount"`
	Currency        string          `json:"currency"`
	PaymentMethodID string          `json:"payment_method_id"`
	RecurringPeriod string          `json:"recurring_period,omitempty"`
	Donor           map[string]any  `json:"donor"`
	Consents        map[string]bool `json:"consents"`
	WidgetID        uuid.UUID       `json:"widget_id"`
}

// DonationReceipt is the gateway answer for an accepted submission.
type DonationReceipt struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Message     string `json:"message,omitempty"`
}

// DonationGateway is the read/submit collaborator behind donation widgets.
type DonationGateway interface {
	PaymentMethods(ctx context.Context, organizationID uuid.UUID) ([]PaymentMethod, error)
	Submit(ctx context.Context, organizationID uuid.UUID, request DonationRequest) (DonationReceipt, error)
}

// SortOrder controls listing order.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ListingQuery filters a read-only listing fetch.
type ListingQuery struct {
	OrganizationID uuid.UUID
	SiteID         uuid.UUID
	Source         string
	Page           int
	PerPage        int
	SortField      string
	SortOrder      SortOrder
	Search         string
}

// ListingEntry is one row of a listing.
type ListingEntry struct {
	ID     string         `json:"id"`
	Label  string         `json:"label"`
	Value  float64        `json:"value"`
	Fields map[string]any `json:"fields,omitempty"`
}

// Pagination describes the position of a listing page.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListingPage is a listing result with optional pagination metadata.
type ListingPage struct {
	Entries    []ListingEntry `json:"entries"`
	Pagination *Pagination    `json:"pagination,omitempty"`
}

// ListingFetcher serves read-only data for live widgets such as leaderboards.
type ListingFetcher interface {
	Fetch(ctx context.Context, query ListingQuery) (ListingPage, error)
}

// AssetUploader turns a raw file into a durable URL.
type AssetUploader interface {
	Upload(ctx context.Context, name string, body io.Reader) (string, error)
}
