package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, for example SITEWIDGETS_STORAGE_DSN.
const EnvPrefix = "SITEWIDGETS"

var ErrConfigFileRead = errors.New("sitewidgets config: unable to read config file")

// NewViper returns a viper instance seeded with DefaultConfig and bound to the
// SITEWIDGETS_ environment namespace. Callers may bind flags before decoding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerDefaults(v, DefaultConfig())
	return v
}

// Load reads path (YAML) when provided, applies environment overrides and validates
// the result.
func Load(path string) (Config, error) {
	v := NewViper()
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %v", ErrConfigFileRead, path, err)
		}
	}
	return Decode(v)
}

// Decode unmarshals v on top of DefaultConfig and validates the result.
func Decode(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("sitewidgets config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// registerDefaults makes scalar keys known to viper so AutomaticEnv can override them.
func registerDefaults(v *viper.Viper, cfg Config) {
	defaults := map[string]any{
		"enabled":                           cfg.Enabled,
		"storage.driver":                    cfg.Storage.Driver,
		"storage.dsn":                       cfg.Storage.DSN,
		"storage.migrate":                   cfg.Storage.Migrate,
		"storage.debug":                     cfg.Storage.Debug,
		"cache.enabled":                     cfg.Cache.Enabled,
		"cache.default_ttl":                 cfg.Cache.DefaultTTL,
		"themes.name":                       cfg.Themes.Name,
		"themes.variant":                    cfg.Themes.Variant,
		"themes.version":                    cfg.Themes.Version,
		"widgets.sync_registry":             cfg.Widgets.SyncRegistry,
		"widgets.row_backed_fields":         cfg.Widgets.RowBackedFields,
		"autosave.delay":                    cfg.Autosave.Delay,
		"autosave.saved_window":             cfg.Autosave.SavedWindow,
		"autosave.error_window":             cfg.Autosave.ErrorWindow,
		"autosave.save_timeout":             cfg.Autosave.SaveTimeout,
		"markdown.extensions":               cfg.Markdown.Extensions,
		"markdown.hard_wraps":               cfg.Markdown.HardWraps,
		"fixtures.dir":                      cfg.Fixtures.Dir,
		"fixtures.pattern":                  cfg.Fixtures.Pattern,
		"features.widgets":                  cfg.Features.Widgets,
		"features.donations":                cfg.Features.Donations,
		"features.themes":                   cfg.Features.Themes,
		"features.logger":                   cfg.Features.Logger,
		"commands.enabled":                  cfg.Commands.Enabled,
		"commands.auto_register_dispatcher": cfg.Commands.AutoRegisterDispatcher,
		"commands.timeout":                  cfg.Commands.Timeout,
		"commands.sync_registry_cron":       cfg.Commands.SyncRegistryCron,
		"logging.provider":                  cfg.Logging.Provider,
		"logging.level":                     cfg.Logging.Level,
		"logging.format":                    cfg.Logging.Format,
		"logging.add_source":                cfg.Logging.AddSource,
		"logging.focus":                     cfg.Logging.Focus,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
