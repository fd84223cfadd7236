package editor

import (
	"context"
	"fmt"
	"io"

	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// Upload stores body through uploader and writes the returned URL into field, or into the
// image of collection item itemID. The target is bound before the upload starts so the URL
// follows the item through reorders made while the upload is in flight.
func (s *Session) Upload(ctx context.Context, uploader interfaces.AssetUploader, field, itemID, name string, body io.Reader) (string, error) {
	if !s.editable {
		return "", ErrNotEditable
	}
	if uploader == nil {
		return "", ErrNoUploader
	}
	apply := s.ImageCallback(field, itemID)

	url, err := uploader.Upload(ctx, name, body)
	if err != nil {
		s.logger.Warn("editor.upload.failed", "field", field, "item_id", itemID, "error", err)
		return "", fmt.Errorf("editor: upload %q: %w", name, err)
	}
	if !acceptableImageURL(url) {
		return "", ErrInvalidImageURL
	}
	if !apply(url) {
		return url, ErrUploadDiscarded
	}
	return url, nil
}
