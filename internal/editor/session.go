package editor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-sitewidgets/internal/autosave"
	"github.com/goliatone/go-sitewidgets/internal/collections"
	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/util"
	"github.com/goliatone/go-sitewidgets/internal/view"
	"github.com/goliatone/go-sitewidgets/internal/widgetconfig"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// itemImageKey is the item attribute written by image callbacks bound to a collection
// item.
const itemImageKey = "image"

// Options configures a Session.
type Options struct {
	Editable    bool
	Logger      interfaces.Logger
	IDGenerator collections.IDGenerator
	UI          widgets.UIState
}

// Session is the authoring state of one widget on one editing surface. It applies control
// actions to the canonical configuration and hands every resulting snapshot to the autosave
// controller. A Session is safe for concurrent use.
type Session struct {
	widgetID   string
	instance   *widgets.Instance
	renderer   widgets.Renderer
	schema     widgetconfig.Schema
	controller *autosave.Controller
	editable   bool
	idGen      collections.IDGenerator
	logger     interfaces.Logger

	mu     sync.Mutex
	values map[string]any
	lists  map[string]*collections.List
	ui     widgets.UIState
	closed bool
}

// NewSession starts editing instance with the configuration already resolved for it.
// A session opened in public mode never schedules saves.
func NewSession(instance *widgets.Instance, renderer widgets.Renderer, result widgetconfig.Result, controller *autosave.Controller, opts Options) *Session {
	s := &Session{
		instance:   instance,
		renderer:   renderer,
		controller: controller,
		editable:   opts.Editable,
		idGen:      opts.IDGenerator,
		logger:     opts.Logger,
		values:     util.CloneMap(result.Values),
		lists:      map[string]*collections.List{},
		ui:         opts.UI,
	}
	if s.values == nil {
		s.values = map[string]any{}
	}
	if renderer != nil {
		s.schema = renderer.Schema()
	}
	if s.logger == nil {
		s.logger = logging.NoOp()
	}
	widgetType := ""
	if instance != nil {
		s.widgetID = instance.ID.String()
		widgetType = instance.WidgetTypeID
	}
	mode := string(widgets.ModePublic)
	if s.editable {
		mode = string(widgets.ModeEditable)
	}
	s.logger = logging.WithWidgetContext(s.logger, s.widgetID, widgetType, mode)
	if controller != nil {
		controller.SetEditable(s.editable)
	}
	return s
}

// Editable reports whether the session accepts actions.
func (s *Session) Editable() bool { return s.editable }

// Apply performs action and schedules the resulting configuration for saving. It returns
// a copy of the configuration after the action. Boundary moves leave the configuration
// untouched and schedule nothing.
func (s *Session) Apply(action Action) (map[string]any, error) {
	if !s.editable {
		return nil, ErrNotEditable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}

	field := strings.TrimSpace(action.Field)
	if field == "" {
		return nil, ErrFieldRequired
	}

	changed, err := s.applyLocked(field, action)
	if err != nil {
		s.logger.Debug("editor.action.rejected", "action", string(action.Kind), "field", field, "error", err)
		return nil, err
	}
	snapshot := util.CloneMap(s.values)
	if changed {
		s.scheduleLocked(snapshot)
	}
	return snapshot, nil
}

func (s *Session) applyLocked(field string, action Action) (bool, error) {
	if err := s.checkImageURLs(field, action); err != nil {
		return false, err
	}
	switch action.Kind {
	case KindSetField:
		s.values[field] = util.CloneValue(action.Value)
		if s.isCollection(field) {
			delete(s.lists, field)
		}
		return true, nil

	case KindSetStyling:
		key := strings.TrimSpace(action.Key)
		if key == "" {
			key = field
		}
		styling, _ := s.values[widgets.FieldStyling].(map[string]any)
		styling = util.CloneMap(styling)
		if styling == nil {
			styling = map[string]any{}
		}
		if action.Value == nil || action.Value == "" {
			delete(styling, key)
		} else {
			styling[key] = action.Value
		}
		s.values[widgets.FieldStyling] = styling
		return true, nil

	case KindUploadImage:
		url, _ := action.Value.(string)
		if !acceptableImageURL(url) {
			return false, ErrInvalidImageURL
		}
		if action.ItemID == "" {
			s.values[field] = url
			return true, nil
		}
		list, err := s.listLocked(field)
		if err != nil {
			return false, err
		}
		items, ok := list.Update(action.ItemID, map[string]any{itemImageKey: url})
		if !ok {
			return false, ErrItemNotFound
		}
		s.values[field] = collections.ToValue(items)
		return true, nil
	}

	list, err := s.listLocked(field)
	if err != nil {
		return false, err
	}
	switch action.Kind {
	case KindCollectionAdd:
		_, items := list.Add()
		s.values[field] = collections.ToValue(items)
		if field == collections.KindSlides {
			s.ui.CurrentSlide = len(items) - 1
		}
		return true, nil

	case KindCollectionUpdate:
		patch, err := itemPatch(action)
		if err != nil {
			return false, err
		}
		items, ok := list.Update(action.ItemID, patch)
		if !ok {
			return false, ErrItemNotFound
		}
		s.values[field] = collections.ToValue(items)
		return true, nil

	case KindCollectionRemove:
		items, ok := list.Remove(action.ItemID)
		if !ok {
			return false, ErrItemNotFound
		}
		s.values[field] = collections.ToValue(items)
		if field == collections.KindSlides && s.ui.CurrentSlide >= len(items) {
			s.ui.CurrentSlide = max(len(items)-1, 0)
		}
		return true, nil

	case KindCollectionMove:
		direction, ok := collections.ParseDirection(action.Direction)
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrInvalidMove, action.Direction)
		}
		items, moved := list.Move(action.ItemID, direction)
		if !moved {
			if collections.IndexOf(items, action.ItemID) < 0 {
				return false, ErrItemNotFound
			}
			return false, nil
		}
		s.values[field] = collections.ToValue(items)
		return true, nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownAction, action.Kind)
}

// checkImageURLs rejects actions that would write a local preview URL into a field or
// item key the schema marks as an image, whatever control sent them.
func (s *Session) checkImageURLs(field string, action Action) error {
	switch action.Kind {
	case KindSetField:
		if s.schema.ImageTarget(field, "") && !storableImageValue(action.Value) {
			return ErrInvalidImageURL
		}
		declared, ok := s.schema.Field(field)
		if !ok || len(declared.ItemImages) == 0 {
			return nil
		}
		for _, item := range collections.FromValue(action.Value) {
			for _, key := range declared.ItemImages {
				if !storableImageValue(item.Get(key)) {
					return ErrInvalidImageURL
				}
			}
		}
	case KindCollectionUpdate:
		patch, err := itemPatch(action)
		if err != nil {
			return nil
		}
		for key, value := range patch {
			if s.schema.ImageTarget(field, key) && !storableImageValue(value) {
				return ErrInvalidImageURL
			}
		}
	}
	return nil
}

// storableImageValue accepts an empty value (clearing the image) or a stored asset URL.
func storableImageValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == "" || acceptableImageURL(v)
	default:
		return false
	}
}

func itemPatch(action Action) (map[string]any, error) {
	if key := strings.TrimSpace(action.Key); key != "" {
		return map[string]any{key: util.CloneValue(action.Value)}, nil
	}
	if patch, ok := action.Value.(map[string]any); ok {
		return util.CloneMap(patch), nil
	}
	return nil, ErrKeyRequired
}

// ImageCallback returns the completion handler of an image upload for field, or for the
// item itemID of collection field when itemID is set. The handler reports whether the url
// was written. Local preview urls (blob:, data:) and empty urls are rejected. A handler
// bound to an item keeps following it across reorders and does nothing once the item has
// been removed.
func (s *Session) ImageCallback(field, itemID string) func(url string) bool {
	field = strings.TrimSpace(field)
	if !s.editable || field == "" {
		return func(string) bool { return false }
	}
	if itemID == "" {
		return func(url string) bool {
			if !acceptableImageURL(url) {
				s.logger.Warn("editor.image.rejected", "field", field)
				return false
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed {
				return false
			}
			s.values[field] = url
			s.scheduleLocked(util.CloneMap(s.values))
			return true
		}
	}

	s.mu.Lock()
	list, err := s.listLocked(field)
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("editor.image.unbound", "field", field, "error", err)
		return func(string) bool { return false }
	}
	bound := list.Bind(itemID)
	return func(url string) bool {
		if !acceptableImageURL(url) {
			s.logger.Warn("editor.image.rejected", "field", field, "item_id", itemID)
			return false
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		// The collection may have been replaced wholesale since the upload started.
		if s.closed || s.lists[field] != list {
			return false
		}
		items, ok := bound(map[string]any{itemImageKey: url})
		if !ok {
			s.logger.Debug("editor.image.item_gone", "field", field, "item_id", itemID)
			return false
		}
		s.values[field] = collections.ToValue(items)
		s.scheduleLocked(util.CloneMap(s.values))
		return true
	}
}

func acceptableImageURL(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	lower := strings.ToLower(url)
	return !strings.HasPrefix(lower, "blob:") && !strings.HasPrefix(lower, "data:")
}

// Configuration returns a copy of the current configuration.
func (s *Session) Configuration() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return util.CloneMap(s.values)
}

// Config returns the current configuration through the renderer schema.
func (s *Session) Config() widgetconfig.Config {
	return widgetconfig.NewConfig(s.schema, s.Configuration())
}

// UI returns the session-local editing state.
func (s *Session) UI() widgets.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui
}

// SetCurrentSlide selects the slide highlighted in the editor. Out of range values are
// clamped.
func (s *Session) SetCurrentSlide(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(collections.FromValue(s.values[collections.KindSlides]))
	switch {
	case count == 0 || index < 0:
		index = 0
	case index >= count:
		index = count - 1
	}
	s.ui.CurrentSlide = index
}

// ToggleSettings expands or collapses the settings panel.
func (s *Session) ToggleSettings() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui.SettingsExpanded = !s.ui.SettingsExpanded
	return s.ui.SettingsExpanded
}

// Env returns the editable render environment for the current state.
func (s *Session) Env() widgets.EditableEnv {
	env := widgets.EditableEnv{UI: s.UI(), Status: string(s.Status())}
	if s.instance != nil {
		env.WidgetID = s.instance.ID
		env.WidgetType = s.instance.WidgetTypeID
	}
	return env
}

// Render produces the editable tree for the current configuration.
func (s *Session) Render() view.Node {
	if s.renderer == nil {
		return view.Fragment()
	}
	return s.renderer.RenderEditable(s.Config(), s.Env())
}

// Status returns the autosave indicator.
func (s *Session) Status() autosave.Status {
	if s.controller == nil {
		return autosave.StatusIdle
	}
	return s.controller.Status()
}

// Retry resends the buffered configuration after a failed save.
func (s *Session) Retry() bool {
	if !s.editable || s.controller == nil {
		return false
	}
	return s.controller.Retry()
}

// Close ends the session. Pending edits that have not settled are dropped and timers are
// stopped; a save already in flight completes on its own.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	if s.controller != nil {
		s.controller.Close()
	}
	s.logger.Debug("editor.session.closed")
}

func (s *Session) isCollection(field string) bool {
	f, ok := s.schema.Field(field)
	return ok && f.Kind == widgetconfig.KindCollection
}

func (s *Session) listLocked(field string) (*collections.List, error) {
	if list, ok := s.lists[field]; ok {
		return list, nil
	}
	if !s.isCollection(field) {
		return nil, fmt.Errorf("%w: %s", ErrNotCollection, field)
	}
	opts := []collections.EditorOption{}
	if s.idGen != nil {
		opts = append(opts, collections.WithIDGenerator(s.idGen))
	}
	list := collections.NewList(collections.NewEditor(field, opts...), collections.FromValue(s.values[field]))
	s.lists[field] = list
	return list, nil
}

func (s *Session) scheduleLocked(snapshot map[string]any) {
	if s.controller == nil {
		return
	}
	if !s.controller.Schedule(snapshot) {
		s.logger.Debug("editor.schedule.ignored")
	}
}
