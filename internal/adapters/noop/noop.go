package noop

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

var (
	ErrGatewayNotConfigured  = errors.New("noop: donation gateway not configured")
	ErrUploaderNotConfigured = errors.New("noop: asset uploader not configured")
)

// DonationGateway returns a gateway that offers no payment methods and refuses
// submissions.
func DonationGateway() interfaces.DonationGateway {
	return donationGateway{}
}

type donationGateway struct{}

func (donationGateway) PaymentMethods(context.Context, uuid.UUID) ([]interfaces.PaymentMethod, error) {
	return nil, nil
}

func (donationGateway) Submit(context.Context, uuid.UUID, interfaces.DonationRequest) (interfaces.DonationReceipt, error) {
	return interfaces.DonationReceipt{}, ErrGatewayNotConfigured
}

// ListingFetcher returns a fetcher that serves empty listings.
func ListingFetcher() interfaces.ListingFetcher {
	return listingFetcher{}
}

type listingFetcher struct{}

func (listingFetcher) Fetch(_ context.Context, query interfaces.ListingQuery) (interfaces.ListingPage, error) {
	return interfaces.ListingPage{
		Entries:    []interfaces.ListingEntry{},
		Pagination: &interfaces.Pagination{Page: max(query.Page, 1), PerPage: query.PerPage},
	}, nil
}

// AssetUploader returns an uploader that rejects every upload.
func AssetUploader() interfaces.AssetUploader {
	return assetUploader{}
}

type assetUploader struct{}

func (assetUploader) Upload(context.Context, string, io.Reader) (string, error) {
	return "", ErrUploaderNotConfigured
}
