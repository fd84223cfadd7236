package widgets

import (
	"context"
	"errors"
	"fmt"
)

// BootstrapConfig describes the startup work for the widget store. Sync, when set,
// replaces the direct Service.SyncRegistry call so callers can route it through a
// command pipeline.
type BootstrapConfig struct {
	Definitions  []RegisterDefinitionInput
	SyncRegistry bool
	Sync         func(context.Context) error
}

// Bootstrap registers configured definitions first so a registry sync can refresh
// builtin entries without clobbering site-declared ones.
func Bootstrap(ctx context.Context, svc Service, cfg BootstrapConfig) error {
	if svc == nil {
		return nil
	}
	if err := EnsureDefinitions(ctx, svc, cfg.Definitions); err != nil {
		return fmt.Errorf("widgets: register configured definitions: %w", err)
	}
	if !cfg.SyncRegistry {
		return nil
	}
	sync := cfg.Sync
	if sync == nil {
		sync = svc.SyncRegistry
	}
	if err := sync(ctx); err != nil {
		return fmt.Errorf("widgets: sync registry: %w", err)
	}
	return nil
}

// EnsureDefinitions registers each named definition, skipping duplicates and
// disabled stores. Blank names are ignored.
func EnsureDefinitions(ctx context.Context, svc Service, definitions []RegisterDefinitionInput) error {
	if svc == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(definitions))
	for _, definition := range definitions {
		if definition.Name == "" {
			continue
		}
		if _, dup := seen[definition.Name]; dup {
			continue
		}
		seen[definition.Name] = struct{}{}
		_, err := svc.RegisterDefinition(ctx, definition)
		switch {
		case err == nil:
		case errors.Is(err, ErrDefinitionExists), errors.Is(err, ErrFeatureDisabled):
		default:
			return fmt.Errorf("%s: %w", definition.Name, err)
		}
	}
	return nil
}
