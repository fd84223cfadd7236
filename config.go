package sitewidgets

import "github.com/goliatone/go-sitewidgets/internal/runtimeconfig"

var (
	ErrThemesFeatureRequired        = runtimeconfig.ErrThemesFeatureRequired
	ErrDonationsRequireWidgets      = runtimeconfig.ErrDonationsRequireWidgets
	ErrStorageDriverUnknown         = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired           = runtimeconfig.ErrStorageDSNRequired
	ErrAutosaveWindowInvalid        = runtimeconfig.ErrAutosaveWindowInvalid
	ErrCommandTimeoutInvalid        = runtimeconfig.ErrCommandTimeoutInvalid
	ErrWidgetDefinitionNameRequired = runtimeconfig.ErrWidgetDefinitionNameRequired
	ErrLoggingProviderRequired      = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigFileRead               = runtimeconfig.ErrConfigFileRead
)

type (
	Config                 = runtimeconfig.Config
	StorageConfig          = runtimeconfig.StorageConfig
	CacheConfig            = runtimeconfig.CacheConfig
	ThemeConfig            = runtimeconfig.ThemeConfig
	WidgetConfig           = runtimeconfig.WidgetConfig
	WidgetDefinitionConfig = runtimeconfig.WidgetDefinitionConfig
	AutosaveConfig         = runtimeconfig.AutosaveConfig
	MarkdownConfig         = runtimeconfig.MarkdownConfig
	FixturesConfig         = runtimeconfig.FixturesConfig
	Features               = runtimeconfig.Features
	CommandsConfig         = runtimeconfig.CommandsConfig
	LoggingConfig          = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file (optional) with SITEWIDGETS_ environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
