package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/util"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// Status is the save indicator shown next to an editable widget.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// State is a snapshot of the controller.
type State struct {
	Status      Status
	Pending     map[string]any
	LastFlushed map[string]any
	LastSavedAt time.Time
	LastError   error
	InFlight    bool
}

// Controller debounces configuration edits for one widget and flushes the latest snapshot
// through the persister. At most one save runs at a time; snapshots buffered while a save
// is in flight are flushed once it completes.
type Controller struct {
	widgetID  uuid.UUID
	persister interfaces.WidgetPersister
	clock     interfaces.Clock
	logger    interfaces.Logger

	delay       time.Duration
	savedWindow time.Duration
	errorWindow time.Duration
	saveTimeout time.Duration

	mu          sync.Mutex
	editable    bool
	closed      bool
	status      Status
	pending     map[string]any
	version     uint64
	lastFlushed map[string]any
	hasFlushed  bool
	lastSavedAt time.Time
	lastErr     error
	inFlight    bool
	deferred    bool
	settle      interfaces.Timer
	reset       interfaces.Timer
	resetGen    uint64
	listeners   map[int]func(Status)
	nextID      int
}

// New returns a controller saving widgetID through persister.
func New(widgetID uuid.UUID, persister interfaces.WidgetPersister, opts ...Option) *Controller {
	c := &Controller{
		widgetID:    widgetID,
		persister:   persister,
		clock:       interfaces.SystemClock(),
		logger:      logging.NoOp(),
		delay:       DefaultDelay,
		savedWindow: DefaultSavedWindow,
		errorWindow: DefaultErrorWindow,
		saveTimeout: DefaultSaveTimeout,
		editable:    true,
		status:      StatusIdle,
		listeners:   map[int]func(Status){},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.logger = logging.WithFields(c.logger, map[string]any{"widget_id": widgetID.String()})
	return c
}

// Schedule buffers configuration and restarts the settle timer. It returns false, doing
// nothing, when the controller is not editable or has been closed.
func (c *Controller) Schedule(configuration map[string]any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editable || c.closed || c.persister == nil {
		return false
	}
	c.pending = util.CloneMap(configuration)
	if c.pending == nil {
		c.pending = map[string]any{}
	}
	c.version++
	c.armSettleLocked()
	return true
}

// Retry flushes the buffered snapshot immediately, typically after an error.
func (c *Controller) Retry() bool {
	c.mu.Lock()
	if !c.editable || c.closed || c.pending == nil {
		c.mu.Unlock()
		return false
	}
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	c.mu.Unlock()
	c.flush()
	return true
}

// SetEditable switches the controller in or out of the authoring surface. Leaving it
// cancels the settle timer without flushing; a save already in flight completes but
// snapshots buffered behind it are not sent.
func (c *Controller) SetEditable(editable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editable = editable
	if !editable && c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
}

// Close abandons buffered work and stops every timer. A save already in flight is not
// cancelled: its result still updates LastFlushed but no status is emitted.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.pending = nil
	c.deferred = false
	if c.settle != nil {
		c.settle.Stop()
		c.settle = nil
	}
	if c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
	c.listeners = map[int]func(Status){}
	c.logger.Debug("autosave.closed")
}

// Subscribe registers fn for status changes and returns a function removing it.
func (c *Controller) Subscribe(fn func(Status)) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// State returns a copy of the controller state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Status:      c.status,
		Pending:     util.CloneMap(c.pending),
		LastFlushed: util.CloneMap(c.lastFlushed),
		LastSavedAt: c.lastSavedAt,
		LastError:   c.lastErr,
		InFlight:    c.inFlight,
	}
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) armSettleLocked() {
	if c.settle != nil {
		c.settle.Stop()
	}
	c.settle = c.clock.AfterFunc(c.delay, c.flush)
}

func (c *Controller) flush() {
	c.mu.Lock()
	if c.closed || !c.editable {
		c.deferred = false
		c.mu.Unlock()
		return
	}
	c.settle = nil
	if c.inFlight {
		c.deferred = true
		c.mu.Unlock()
		return
	}
	if c.pending == nil {
		c.mu.Unlock()
		return
	}
	if c.hasFlushed && util.EqualMaps(c.pending, c.lastFlushed) {
		c.pending = nil
		c.mu.Unlock()
		c.logger.Debug("autosave.skip_unchanged")
		return
	}

	snapshot := c.pending
	version := c.version
	c.inFlight = true
	notify := c.setStatusLocked(StatusSaving)
	c.mu.Unlock()
	notify()

	ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
	err := c.persister.Save(ctx, c.widgetID, util.CloneMap(snapshot))
	cancel()

	c.mu.Lock()
	c.inFlight = false
	closed := c.closed
	notify = func() {}
	if err == nil {
		c.lastFlushed = snapshot
		c.hasFlushed = true
		c.lastSavedAt = c.clock.Now()
		c.lastErr = nil
		if c.version == version && !closed {
			c.pending = nil
		}
		if !closed {
			notify = c.setStatusLocked(StatusSaved)
			c.armResetLocked(c.savedWindow)
		}
	} else {
		c.lastErr = err
		if !closed {
			notify = c.setStatusLocked(StatusError)
			c.armResetLocked(c.errorWindow)
		}
	}
	again := c.deferred && !closed && c.editable
	c.deferred = false
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("autosave.save_failed", "error", err, "closed", closed)
	} else {
		c.logger.Debug("autosave.saved", "closed", closed)
	}
	notify()

	if again {
		c.flush()
	}
}

func (c *Controller) armResetLocked(window time.Duration) {
	if c.reset != nil {
		c.reset.Stop()
	}
	c.resetGen++
	gen := c.resetGen
	c.reset = c.clock.AfterFunc(window, func() {
		c.mu.Lock()
		if c.closed || gen != c.resetGen || (c.status != StatusSaved && c.status != StatusError) {
			c.mu.Unlock()
			return
		}
		c.reset = nil
		notify := c.setStatusLocked(StatusIdle)
		c.mu.Unlock()
		notify()
	})
}

// setStatusLocked updates the status and returns a function delivering it to subscribers
// once the lock is released.
func (c *Controller) setStatusLocked(status Status) func() {
	if c.status == status {
		return func() {}
	}
	c.status = status
	if status == StatusSaving && c.reset != nil {
		c.reset.Stop()
		c.reset = nil
	}
	listeners := make([]func(Status), 0, len(c.listeners))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	return func() {
		for _, fn := range listeners {
			fn(status)
		}
	}
}
