package testsupport

import (
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/util"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// SaveCall is one recorded persister invocation.
type SaveCall struct {
	WidgetID      uuid.UUID
	Configuration map[string]any
}

// RecordingPersister records saves. Err, when set, is returned by every call. OnSave runs
// inside Save before it returns, which lets tests act while a save is in flight.
type RecordingPersister struct {
	mu     sync.Mutex
	calls  []SaveCall
	Err    error
	OnSave func(call SaveCall)
}

var _ interfaces.WidgetPersister = (*RecordingPersister)(nil)

func (p *RecordingPersister) Save(_ context.Context, widgetID uuid.UUID, configuration map[string]any) error {
	call := SaveCall{WidgetID: widgetID, Configuration: util.CloneMap(configuration)}
	p.mu.Lock()
	p.calls = append(p.calls, call)
	err := p.Err
	hook := p.OnSave
	p.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	return err
}

// SetErr changes the error returned by subsequent saves.
func (p *RecordingPersister) SetErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Err = err
}

// Calls returns the recorded saves.
func (p *RecordingPersister) Calls() []SaveCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SaveCall(nil), p.calls...)
}

// RecordingGateway is a DonationGateway double.
type RecordingGateway struct {
	mu         sync.Mutex
	Methods    []interfaces.PaymentMethod
	Receipt    interfaces.DonationReceipt
	Err        error
	MethodsErr error
	requests   []interfaces.DonationRequest
	lookups    int
}

var _ interfaces.DonationGateway = (*RecordingGateway)(nil)

func (g *RecordingGateway) PaymentMethods(context.Context, uuid.UUID) ([]interfaces.PaymentMethod, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups++
	if g.MethodsErr != nil {
		return nil, g.MethodsErr
	}
	return append([]interfaces.PaymentMethod(nil), g.Methods...), nil
}

func (g *RecordingGateway) Submit(_ context.Context, _ uuid.UUID, request interfaces.DonationRequest) (interfaces.DonationReceipt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, request)
	if g.Err != nil {
		return interfaces.DonationReceipt{}, g.Err
	}
	return g.Receipt, nil
}

// Requests returns the submitted donations.
func (g *RecordingGateway) Requests() []interfaces.DonationRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]interfaces.DonationRequest(nil), g.requests...)
}

// Lookups counts PaymentMethods calls.
func (g *RecordingGateway) Lookups() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lookups
}

// RecordingFetcher is a ListingFetcher double.
type RecordingFetcher struct {
	mu      sync.Mutex
	Page    interfaces.ListingPage
	Err     error
	queries []interfaces.ListingQuery
}

var _ interfaces.ListingFetcher = (*RecordingFetcher)(nil)

func (f *RecordingFetcher) Fetch(_ context.Context, query interfaces.ListingQuery) (interfaces.ListingPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.Err != nil {
		return interfaces.ListingPage{}, f.Err
	}
	return f.Page, nil
}

// Queries returns the received queries.
func (f *RecordingFetcher) Queries() []interfaces.ListingQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]interfaces.ListingQuery(nil), f.queries...)
}

// RecordingUploader is an AssetUploader double returning BaseURL + name. During, when
// set, runs while the upload is in flight.
type RecordingUploader struct {
	mu      sync.Mutex
	BaseURL string
	Err     error
	During  func()
	names   []string
}

var _ interfaces.AssetUploader = (*RecordingUploader)(nil)

func (u *RecordingUploader) Upload(_ context.Context, name string, body io.Reader) (string, error) {
	if body != nil {
		if _, err := io.Copy(io.Discard, body); err != nil {
			return "", err
		}
	}
	if u.During != nil {
		u.During()
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.names = append(u.names, name)
	if u.Err != nil {
		return "", u.Err
	}
	return u.BaseURL + name, nil
}

// Names returns the uploaded asset names.
func (u *RecordingUploader) Names() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.names...)
}
