package noop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/adapters/noop"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

func TestAdaptersImplementInterfaces(t *testing.T) {
	var (
		_ interfaces.DonationGateway = noop.DonationGateway()
		_ interfaces.ListingFetcher  = noop.ListingFetcher()
		_ interfaces.AssetUploader   = noop.AssetUploader()
	)
}

func TestAdaptersBehaviour(t *testing.T) {
	ctx := context.Background()

	methods, err := noop.DonationGateway().PaymentMethods(ctx, uuid.New())
	if err != nil || len(methods) != 0 {
		t.Fatalf("expected no payment methods, got %v %v", methods, err)
	}
	if _, err := noop.DonationGateway().Submit(ctx, uuid.New(), interfaces.DonationRequest{Amount: 10}); !errors.Is(err, noop.ErrGatewayNotConfigured) {
		t.Fatalf("expected ErrGatewayNotConfigured, got %v", err)
	}

	page, err := noop.ListingFetcher().Fetch(ctx, interfaces.ListingQuery{PerPage: 5})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(page.Entries) != 0 || page.Pagination == nil || page.Pagination.Page != 1 {
		t.Fatalf("unexpected page %+v", page)
	}

	if _, err := noop.AssetUploader().Upload(ctx, "a.jpg", nil); !errors.Is(err, noop.ErrUploaderNotConfigured) {
		t.Fatalf("expected ErrUploaderNotConfigured, got %v", err)
	}
}
