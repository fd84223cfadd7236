package editor

import "errors"

var (
	ErrNotEditable     = errors.New("editor: session is not editable")
	ErrSessionClosed   = errors.New("editor: session closed")
	ErrUnknownAction   = errors.New("editor: unknown action")
	ErrFieldRequired   = errors.New("editor: field required")
	ErrKeyRequired     = errors.New("editor: key required")
	ErrNotCollection   = errors.New("editor: field is not a collection")
	ErrItemNotFound    = errors.New("editor: collection item not found")
	ErrInvalidMove     = errors.New("editor: invalid move direction")
	ErrInvalidValue    = errors.New("editor: value does not match its type")
	ErrInvalidImageURL = errors.New("editor: image url must be a stored asset")
	ErrNoUploader      = errors.New("editor: asset uploader not configured")
	ErrUploadDiscarded = errors.New("editor: uploaded image no longer has a target")
)
