package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrThemesFeatureRequired indicates inconsistent theme configuration.
var ErrThemesFeatureRequired = errors.New("sitewidgets config: themes feature must be enabled to configure themes")

// ErrDonationsRequireWidgets keeps donation submission behind the widgets flag.
var ErrDonationsRequireWidgets = errors.New("sitewidgets config: donations feature requires widgets to be enabled")

var ErrStorageDriverUnknown = errors.New("sitewidgets config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("sitewidgets config: storage dsn is required for sql drivers")
var ErrAutosaveWindowInvalid = errors.New("sitewidgets config: autosave durations must be zero or positive")
var ErrCommandTimeoutInvalid = errors.New("sitewidgets config: command timeout must be zero or positive")
var ErrWidgetDefinitionNameRequired = errors.New("sitewidgets config: widget definition name is required")
var ErrLoggingProviderRequired = errors.New("sitewidgets config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("sitewidgets config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitewidgets config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitewidgets config: logging format is invalid")

// Storage drivers understood by the storage opener.
const (
	StorageDriverMemory   = "memory"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// Config aggregates feature flags and adapter bindings for the widget engine.
type Config struct {
	Enabled  bool           `mapstructure:"enabled"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Themes   ThemeConfig    `mapstructure:"themes"`
	Widgets  WidgetConfig   `mapstructure:"widgets"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
	Markdown MarkdownConfig `mapstructure:"markdown"`
	Fixtures FixturesConfig `mapstructure:"fixtures"`
	Features Features       `mapstructure:"features"`
	Commands CommandsConfig `mapstructure:"commands"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	// Migrate creates the widget tables when they are missing.
	Migrate bool `mapstructure:"migrate"`
	Debug   bool `mapstructure:"debug"`
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

// ThemeConfig selects the design tokens used for container styling.
type ThemeConfig struct {
	Name     string                       `mapstructure:"name"`
	Variant  string                       `mapstructure:"variant"`
	Version  string                       `mapstructure:"version"`
	Tokens   map[string]string            `mapstructure:"tokens"`
	Variants map[string]map[string]string `mapstructure:"variants"`
}

// WidgetConfig controls registry bootstrapping and storage normalization.
type WidgetConfig struct {
	SyncRegistry bool `mapstructure:"sync_registry"`
	// RowBackedFields lists collection fields persisted as specialized rows.
	RowBackedFields []string                 `mapstructure:"row_backed_fields"`
	Definitions     []WidgetDefinitionConfig `mapstructure:"definitions"`
}

// WidgetDefinitionConfig mirrors the minimal RegisterDefinitionInput requirements.
type WidgetDefinitionConfig struct {
	Name        string         `mapstructure:"name"`
	Description string         `mapstructure:"description"`
	Schema      map[string]any `mapstructure:"schema"`
	Defaults    map[string]any `mapstructure:"defaults"`
	Category    string         `mapstructure:"category"`
	Icon        string         `mapstructure:"icon"`
}

// AutosaveConfig tunes the debounced save protocol.
type AutosaveConfig struct {
	Delay       time.Duration `mapstructure:"delay"`
	SavedWindow time.Duration `mapstructure:"saved_window"`
	ErrorWindow time.Duration `mapstructure:"error_window"`
	SaveTimeout time.Duration `mapstructure:"save_timeout"`
}

// MarkdownConfig mirrors markdown.Options for the text block renderer.
type MarkdownConfig struct {
	Extensions []string `mapstructure:"extensions"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
}

// FixturesConfig points the seed command at Markdown widget fixtures.
type FixturesConfig struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
}

// Features toggles module functionality.
type Features struct {
	Widgets   bool `mapstructure:"widgets"`
	Donations bool `mapstructure:"donations"`
	Themes    bool `mapstructure:"themes"`
	Logger    bool `mapstructure:"logger"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool          `mapstructure:"enabled"`
	AutoRegisterDispatcher bool          `mapstructure:"auto_register_dispatcher"`
	Timeout                time.Duration `mapstructure:"timeout"`
	// SyncRegistryCron schedules registry resyncs when a cron registrar is supplied.
	SyncRegistryCron string `mapstructure:"sync_registry_cron"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string         `mapstructure:"provider"`
	Level     string         `mapstructure:"level"`
	Format    string         `mapstructure:"format"`
	AddSource bool           `mapstructure:"add_source"`
	Focus     []string       `mapstructure:"focus"`
	Fields    map[string]any `mapstructure:"fields"`
}

// DefaultConfig returns defaults suitable for local authoring against an in-memory store.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Driver: StorageDriverMemory,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Widgets: WidgetConfig{
			SyncRegistry:    true,
			RowBackedFields: []string{"slides"},
		},
		Autosave: AutosaveConfig{
			Delay:       500 * time.Millisecond,
			SavedWindow: 2 * time.Second,
			ErrorWindow: 4 * time.Second,
			SaveTimeout: 30 * time.Second,
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"gfm", "linkify"},
		},
		Fixtures: FixturesConfig{
			Pattern: "*.md",
		},
		Features: Features{
			Widgets:   true,
			Donations: true,
		},
		Commands: CommandsConfig{
			Enabled: true,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !cfg.Features.Themes {
		if strings.TrimSpace(cfg.Themes.Name) != "" {
			return ErrThemesFeatureRequired
		}
	}
	if cfg.Features.Donations && !cfg.Features.Widgets {
		return ErrDonationsRequireWidgets
	}
	switch normalizeDriver(cfg.Storage.Driver) {
	case "", StorageDriverMemory:
	case StorageDriverSQLite, StorageDriverPostgres:
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	for name, value := range map[string]time.Duration{
		"delay":        cfg.Autosave.Delay,
		"saved_window": cfg.Autosave.SavedWindow,
		"error_window": cfg.Autosave.ErrorWindow,
		"save_timeout": cfg.Autosave.SaveTimeout,
	} {
		if value < 0 {
			return fmt.Errorf("%w: %s", ErrAutosaveWindowInvalid, name)
		}
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandTimeoutInvalid
	}
	for i, def := range cfg.Widgets.Definitions {
		if strings.TrimSpace(def.Name) == "" {
			return fmt.Errorf("%w: index %d", ErrWidgetDefinitionNameRequired, i)
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// StorageDriver returns the normalized storage driver, defaulting to memory.
func (cfg Config) StorageDriver() string {
	driver := normalizeDriver(cfg.Storage.Driver)
	if driver == "" {
		return StorageDriverMemory
	}
	return driver
}

func normalizeDriver(driver string) string {
	switch value := strings.ToLower(strings.TrimSpace(driver)); value {
	case "sqlite3":
		return StorageDriverSQLite
	case "postgresql", "pg":
		return StorageDriverPostgres
	default:
		return value
	}
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
