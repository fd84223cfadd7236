package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/goliatone/go-sitewidgets/internal/identity"
	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/markdown"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// DefaultPattern matches Markdown seed files.
const DefaultPattern = "*.md"

// DefaultBodyField receives the Markdown body when front matter does not name a field.
const DefaultBodyField = "content"

var (
	ErrTypeRequired = errors.New("fixtures: widget type is required")
	ErrSlotRequired = errors.New("fixtures: slot is required")
	ErrSiteRequired = errors.New("fixtures: site is required")
)

// Seed is one widget instance described by a Markdown file with YAML front matter.
type Seed struct {
	Name           string
	Type           string
	Slot           string
	Order          *int
	SiteID         uuid.UUID
	OrganizationID uuid.UUID
	Hidden         bool
	Inactive       bool
	Configuration  map[string]any
}

type frontMatter struct {
	Type         string         `yaml:"type"`
	Slot         string         `yaml:"slot"`
	Order        *int           `yaml:"order"`
	Site         string         `yaml:"site"`
	Organization string         `yaml:"organization"`
	Hidden       bool           `yaml:"hidden"`
	Inactive     bool           `yaml:"inactive"`
	BodyField    string         `yaml:"body_field"`
	Config       map[string]any `yaml:"config"`
}

// Parse decodes a single seed. The Markdown body, when present, is stored under the
// front matter's body_field (content by default) unless config already sets it.
func Parse(name string, source []byte) (Seed, error) {
	var meta frontMatter
	body, err := markdown.ParseFrontMatter(source, &meta)
	if err != nil {
		return Seed{}, fmt.Errorf("fixtures: %s: %w", name, err)
	}

	seed := Seed{
		Name:          name,
		Type:          strings.TrimSpace(meta.Type),
		Slot:          strings.TrimSpace(meta.Slot),
		Order:         meta.Order,
		SiteID:        ResolveID("site", meta.Site),
		Hidden:        meta.Hidden,
		Inactive:      meta.Inactive,
		Configuration: normalizeMap(meta.Config),
	}
	seed.OrganizationID = ResolveID("organization", meta.Organization)

	switch {
	case seed.Type == "":
		return Seed{}, fmt.Errorf("%w: %s", ErrTypeRequired, name)
	case seed.Slot == "":
		return Seed{}, fmt.Errorf("%w: %s", ErrSlotRequired, name)
	case seed.SiteID == uuid.Nil:
		return Seed{}, fmt.Errorf("%w: %s", ErrSiteRequired, name)
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		field := strings.TrimSpace(meta.BodyField)
		if field == "" {
			field = DefaultBodyField
		}
		if _, ok := seed.Configuration[field]; !ok {
			seed.Configuration[field] = text
		}
	}
	return seed, nil
}

// Load parses every file in fsys matching pattern, ordered by name.
func Load(fsys fs.FS, pattern string) ([]Seed, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("fixtures: glob %q: %w", pattern, err)
	}
	sort.Strings(names)

	seeds := make([]Seed, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("fixtures: read %s: %w", name, err)
		}
		seed, err := Parse(path.Base(name), data)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}

// LoadDir is Load over a directory on disk.
func LoadDir(dir, pattern string) ([]Seed, error) {
	return Load(os.DirFS(dir), pattern)
}

// Apply creates an instance for every seed. A seed whose site, slot, order and type
// match an existing instance is skipped, so applying the same fixtures twice is a no-op.
func Apply(ctx context.Context, svc widgets.Service, seeds []Seed, logger interfaces.Logger) ([]*widgets.Instance, error) {
	if logger == nil {
		logger = logging.NoOp()
	}
	created := make([]*widgets.Instance, 0, len(seeds))
	for _, seed := range seeds {
		existing, err := svc.ListInstancesBySlot(ctx, seed.SiteID, seed.Slot)
		if err != nil {
			return created, fmt.Errorf("fixtures: list %s: %w", seed.Name, err)
		}
		if seeded(existing, seed) {
			logger.Debug("fixtures.seed.skipped", "fixture", seed.Name, "slot", seed.Slot)
			continue
		}
		instance, err := svc.CreateInstance(ctx, widgets.CreateInstanceInput{
			SiteID:         seed.SiteID,
			OrganizationID: seed.OrganizationID,
			WidgetTypeID:   seed.Type,
			PositionSlot:   seed.Slot,
			Order:          seed.Order,
			Configuration:  seed.Configuration,
			Hidden:         seed.Hidden,
			Inactive:       seed.Inactive,
		})
		if err != nil {
			return created, fmt.Errorf("fixtures: create %s: %w", seed.Name, err)
		}
		logger.Info("fixtures.seed.created", "fixture", seed.Name, "widget_id", instance.ID.String(), "widget_type", seed.Type)
		created = append(created, instance)
	}
	return created, nil
}

func seeded(existing []*widgets.Instance, seed Seed) bool {
	if seed.Order == nil {
		return false
	}
	for _, instance := range existing {
		if instance.Order == *seed.Order && strings.EqualFold(instance.WidgetTypeID, seed.Type) {
			return true
		}
	}
	return false
}

// ResolveID accepts a literal UUID or derives a stable one from a name. Names are
// slugged first so "Harbor Relief" and "harbor-relief" address the same site.
func ResolveID(kind, value string) uuid.UUID {
	value = strings.TrimSpace(value)
	if value == "" {
		return uuid.Nil
	}
	if id, err := uuid.Parse(value); err == nil {
		return id
	}
	key := strings.ToLower(value)
	if normalized, err := slug.Normalize(value); err == nil && normalized != "" {
		key = normalized
	}
	return identity.UUID("sitewidgets:fixture:" + kind + ":" + key)
}

// normalizeMap converts YAML-decoded maps (which may carry interface keys) into
// map[string]any recursively.
func normalizeMap(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizeMap(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[cast.ToString(key)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}
