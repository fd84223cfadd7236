package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	gotheme "github.com/goliatone/go-theme"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-sitewidgets/internal/adapters/noop"
	"github.com/goliatone/go-sitewidgets/internal/adapters/storage"
	"github.com/goliatone/go-sitewidgets/internal/autosave"
	"github.com/goliatone/go-sitewidgets/internal/commands"
	widgetscmd "github.com/goliatone/go-sitewidgets/internal/commands/widgets"
	"github.com/goliatone/go-sitewidgets/internal/container"
	"github.com/goliatone/go-sitewidgets/internal/donations"
	"github.com/goliatone/go-sitewidgets/internal/editor"
	"github.com/goliatone/go-sitewidgets/internal/logging"
	"github.com/goliatone/go-sitewidgets/internal/logging/console"
	"github.com/goliatone/go-sitewidgets/internal/logging/gologger"
	"github.com/goliatone/go-sitewidgets/internal/markdown"
	"github.com/goliatone/go-sitewidgets/internal/runtimeconfig"
	"github.com/goliatone/go-sitewidgets/internal/variants"
	"github.com/goliatone/go-sitewidgets/internal/widgets"
	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// Container wires module dependencies from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	clock          interfaces.Clock

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	definitionRepo widgets.DefinitionRepository
	instanceRepo   widgets.InstanceRepository
	entryRepo      widgets.EntryRepository
	rowRepo        widgets.RowRepository
	configWriter   widgets.ConfigurationWriter

	markdown  *markdown.Renderer
	registry  *widgets.Registry
	theme     *gotheme.Selection
	gateway   interfaces.DonationGateway
	fetcher   interfaces.ListingFetcher
	uploader  interfaces.AssetUploader
	widgetSvc widgets.Service
	donateSvc *donations.Service
	renderer  *container.Container

	syncHandler     *widgetscmd.SyncWidgetRegistryHandler
	saveHandler     *widgetscmd.SaveConfigurationHandler
	donationHandler *widgetscmd.SubmitDonationHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an already opened database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the cache service used by the definition repository.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider selected from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithClock overrides the clock used by autosave controllers and the widget service.
func WithClock(clock interfaces.Clock) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithDonationGateway binds the payment collaborator.
func WithDonationGateway(gateway interfaces.DonationGateway) Option {
	return func(c *Container) {
		c.gateway = gateway
	}
}

// WithListingFetcher binds the collaborator serving live listings.
func WithListingFetcher(fetcher interfaces.ListingFetcher) Option {
	return func(c *Container) {
		c.fetcher = fetcher
	}
}

// WithAssetUploader binds the collaborator storing uploaded images.
func WithAssetUploader(uploader interfaces.AssetUploader) Option {
	return func(c *Container) {
		c.uploader = uploader
	}
}

// WithWidgetService overrides the default widget service binding.
func WithWidgetService(svc widgets.Service) Option {
	return func(c *Container) {
		c.widgetSvc = svc
	}
}

// WithRegistry overrides the renderer registry. The built-in variants are not added.
func WithRegistry(registry *widgets.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if c.clock == nil {
		c.clock = interfaces.SystemClock()
	}
	c.configureCollaborators()
	c.configureTheme()
	c.configureCacheDefaults()
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureRepositories()
	c.configureServices()
	c.configureCommands()

	if err := c.bootstrap(context.Background()); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
			Fields:    c.Config.Logging.Fields,
		})
		if err != nil {
			return fmt.Errorf("di: configure go-logger: %w", err)
		}
		c.loggerProvider = provider
	default:
		level := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureCollaborators() {
	if c.gateway == nil {
		c.gateway = noop.DonationGateway()
	}
	if c.fetcher == nil {
		c.fetcher = noop.ListingFetcher()
	}
	if c.uploader == nil {
		c.uploader = noop.AssetUploader()
	}
}

func (c *Container) configureTheme() {
	if !c.Config.Features.Themes {
		return
	}
	themeCfg := c.Config.Themes
	name := strings.TrimSpace(themeCfg.Name)
	if name == "" {
		return
	}
	manifest := &gotheme.Manifest{
		Name:    name,
		Version: themeCfg.Version,
		Tokens:  cloneTokens(themeCfg.Tokens),
	}
	if len(themeCfg.Variants) > 0 {
		manifest.Variants = make(map[string]gotheme.Variant, len(themeCfg.Variants))
		for variant, tokens := range themeCfg.Variants {
			manifest.Variants[variant] = gotheme.Variant{Tokens: cloneTokens(tokens)}
		}
	}
	c.theme = &gotheme.Selection{
		Theme:    name,
		Variant:  themeCfg.Variant,
		Manifest: manifest,
	}
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if ttl := c.Config.Cache.DefaultTTL; ttl > 0 {
			cfg.TTL = ttl
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || c.Config.StorageDriver() == runtimeconfig.StorageDriverMemory {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := storage.Open(ctx, storage.Config{
		Driver: c.Config.Storage.Driver,
		DSN:    c.Config.Storage.DSN,
		Debug:  c.Config.Storage.Debug,
		Logger: logging.ModuleLogger(c.loggerProvider, "sitewidgets.storage"),
	})
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.cacheService != nil {
			c.definitionRepo = widgets.NewBunDefinitionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.definitionRepo = widgets.NewBunDefinitionRepository(c.bunDB)
		}
		c.instanceRepo = widgets.NewBunInstanceRepository(c.bunDB)
		c.entryRepo = widgets.NewBunEntryRepository(c.bunDB)
		c.rowRepo = widgets.NewBunRowRepository(c.bunDB)
		c.configWriter = widgets.NewBunConfigurationWriter(c.bunDB)
		return
	}
	c.definitionRepo = widgets.NewMemoryDefinitionRepository()
	c.instanceRepo = widgets.NewMemoryInstanceRepository()
	c.entryRepo = widgets.NewMemoryEntryRepository()
	c.rowRepo = widgets.NewMemoryRowRepository()
}

func (c *Container) configureServices() {
	c.markdown = markdown.NewRenderer(markdown.Options{
		Extensions: c.Config.Markdown.Extensions,
		HardWraps:  c.Config.Markdown.HardWraps,
	})
	if c.registry == nil {
		c.registry = variants.NewRegistry(c.markdown)
	}

	if c.widgetSvc == nil {
		if c.Config.Features.Widgets {
			c.widgetSvc = widgets.NewService(
				c.definitionRepo,
				c.instanceRepo,
				c.entryRepo,
				c.rowRepo,
				widgets.WithRegistry(c.registry),
				widgets.WithClock(c.clock.Now),
				widgets.WithLogger(logging.WidgetsLogger(c.loggerProvider)),
				widgets.WithRowBackedFields(c.Config.Widgets.RowBackedFields...),
				widgets.WithConfigurationWriter(c.configWriter),
			)
		} else {
			c.widgetSvc = widgets.NewNoOpService()
		}
	}

	c.donateSvc = donations.NewService(c.gateway, donations.WithLogger(logging.DonationsLogger(c.loggerProvider)))

	containerOpts := []container.Option{
		container.WithDonationGateway(c.gateway),
		container.WithListingFetcher(c.fetcher),
		container.WithLogger(logging.ContainerLogger(c.loggerProvider)),
	}
	if c.theme != nil {
		containerOpts = append(containerOpts, container.WithTheme(c.theme))
	}
	c.renderer = container.New(c.registry, containerOpts...)
}

func (c *Container) configureCommands() {
	cfg := c.Config
	gates := widgetscmd.FeatureGates{
		WidgetsEnabled:   func() bool { return cfg.Features.Widgets },
		DonationsEnabled: func() bool { return cfg.Features.Donations },
	}
	logger := commands.CommandLogger(c.loggerProvider, "widgets")
	timeout := cfg.Commands.Timeout

	c.syncHandler = widgetscmd.NewSyncWidgetRegistryHandler(c.widgetSvc, logger, gates,
		commands.WithTimeout[widgetscmd.SyncWidgetRegistryCommand](timeout),
		commands.WithTelemetry(commands.DefaultTelemetry[widgetscmd.SyncWidgetRegistryCommand](logger)),
	)
	c.syncHandler.SetCronExpression(cfg.Commands.SyncRegistryCron)
	c.saveHandler = widgetscmd.NewSaveConfigurationHandler(c.widgetSvc, logger, gates,
		commands.WithTimeout[widgetscmd.SaveConfigurationCommand](timeout),
	)
	c.donationHandler = widgetscmd.NewSubmitDonationHandler(c.widgetSvc, c.renderer, c.donateSvc, logger, gates,
		commands.WithTimeout[widgetscmd.SubmitDonationCommand](timeout),
		commands.WithTelemetry(commands.DefaultTelemetry[widgetscmd.SubmitDonationCommand](logger)),
	)
}

func (c *Container) bootstrap(ctx context.Context) error {
	if c.bunDB != nil && c.Config.Storage.Migrate {
		if err := storage.Migrate(ctx, c.bunDB); err != nil {
			return err
		}
	}
	if !c.Config.Features.Widgets {
		return nil
	}
	definitions := make([]widgets.RegisterDefinitionInput, 0, len(c.Config.Widgets.Definitions))
	for _, def := range c.Config.Widgets.Definitions {
		definitions = append(definitions, widgets.RegisterDefinitionInput{
			Name:        def.Name,
			Description: optionalString(def.Description),
			Schema:      def.Schema,
			Defaults:    def.Defaults,
			Category:    optionalString(def.Category),
			Icon:        optionalString(def.Icon),
		})
	}
	return widgets.Bootstrap(ctx, c.widgetSvc, widgets.BootstrapConfig{
		Definitions:  definitions,
		SyncRegistry: c.Config.Widgets.SyncRegistry,
		Sync: func(ctx context.Context) error {
			return c.syncHandler.Execute(ctx, widgetscmd.SyncWidgetRegistryCommand{})
		},
	})
}

// OpenSession loads instanceID and starts an editing session whose autosave controller
// persists through the save-configuration command.
func (c *Container) OpenSession(ctx context.Context, instanceID uuid.UUID, editable bool) (*editor.Session, error) {
	instance, err := c.widgetSvc.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	renderer, result := c.renderer.Resolve(instance)
	controller := autosave.New(instance.ID, c.saveHandler.Persister(),
		autosave.WithDelay(c.Config.Autosave.Delay),
		autosave.WithSavedWindow(c.Config.Autosave.SavedWindow),
		autosave.WithErrorWindow(c.Config.Autosave.ErrorWindow),
		autosave.WithSaveTimeout(c.Config.Autosave.SaveTimeout),
		autosave.WithClock(c.clock),
		autosave.WithLogger(logging.AutosaveLogger(c.loggerProvider)),
	)
	return editor.NewSession(instance, renderer, result, controller, editor.Options{
		Editable: editable,
		Logger:   logging.EditorLogger(c.loggerProvider),
	}), nil
}

// SubmitDonation runs the donation command for widgetID and returns its outcome.
func (c *Container) SubmitDonation(ctx context.Context, widgetID uuid.UUID, payload donations.Payload) (donations.Outcome, error) {
	var outcome donations.Outcome
	err := c.donationHandler.Execute(ctx, widgetscmd.SubmitDonationCommand{
		WidgetID: widgetID,
		Payload:  payload,
		Result:   &outcome,
	})
	return outcome, err
}

// Close releases the database handle when the container opened it.
func (c *Container) Close() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) BunDB() *bun.DB { return c.bunDB }

func (c *Container) Registry() *widgets.Registry { return c.registry }

func (c *Container) WidgetService() widgets.Service { return c.widgetSvc }

func (c *Container) Renderer() *container.Container { return c.renderer }

func (c *Container) DonationService() *donations.Service { return c.donateSvc }

func (c *Container) AssetUploader() interfaces.AssetUploader { return c.uploader }

func (c *Container) Theme() *gotheme.Selection { return c.theme }

func (c *Container) SyncRegistryHandler() *widgetscmd.SyncWidgetRegistryHandler {
	return c.syncHandler
}

func (c *Container) SaveConfigurationHandler() *widgetscmd.SaveConfigurationHandler {
	return c.saveHandler
}

func (c *Container) SubmitDonationHandler() *widgetscmd.SubmitDonationHandler {
	return c.donationHandler
}

func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func cloneTokens(tokens map[string]string) map[string]string {
	if len(tokens) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(tokens))
	for key, value := range tokens {
		out[key] = value
	}
	return out
}
