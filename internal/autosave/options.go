package autosave

import (
	"time"

	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

const (
	DefaultDelay       = 500 * time.Millisecond
	DefaultSavedWindow = 2 * time.Second
	DefaultErrorWindow = 4 * time.Second
	DefaultSaveTimeout = 30 * time.Second
)

// Option configures a Controller.
type Option func(*Controller)

// WithDelay sets the settle window that must pass without edits before a flush.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithSavedWindow sets how long the saved status is displayed.
func WithSavedWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.savedWindow = d
		}
	}
}

// WithErrorWindow sets how long the error status is displayed.
func WithErrorWindow(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.errorWindow = d
		}
	}
}

// WithSaveTimeout bounds a single persister call.
func WithSaveTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.saveTimeout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(clock interfaces.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEditable sets whether the controller starts in the authoring surface. A controller
// that is not editable ignores every Schedule call.
func WithEditable(editable bool) Option {
	return func(c *Controller) {
		c.editable = editable
	}
}
