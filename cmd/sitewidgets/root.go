package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sitewidgets "github.com/goliatone/go-sitewidgets"
	"github.com/goliatone/go-sitewidgets/internal/runtimeconfig"
)

// flagBindings maps CLI flags onto configuration keys.
var flagBindings = map[string]string{
	"storage-driver": "storage.driver",
	"storage-dsn":    "storage.dsn",
	"migrate":        "storage.migrate",
	"log-level":      "logging.level",
	"fixtures-dir":   "fixtures.dir",
}

type rootOptions struct {
	configPath string
	verbose    bool
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: runtimeconfig.NewViper()}

	cmd := &cobra.Command{
		Use:           "sitewidgets",
		Short:         "Seed, inspect and render site widgets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			for flag, key := range flagBindings {
				if err := opts.v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return fmt.Errorf("bind --%s: %w", flag, err)
				}
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "V", false, "Enable console logging")
	flags.String("storage-driver", runtimeconfig.StorageDriverMemory, "Storage driver (memory, sqlite, postgres)")
	flags.String("storage-dsn", "", "Storage DSN for sql drivers")
	flags.Bool("migrate", false, "Create widget tables when missing")
	flags.String("log-level", "info", "Log level when --verbose is set")
	flags.String("fixtures-dir", "", "Directory holding Markdown widget fixtures")

	cmd.AddCommand(
		newDefinitionsCmd(opts),
		newSeedCmd(opts),
		newRenderCmd(opts),
	)
	return cmd
}

func (o *rootOptions) config() (sitewidgets.Config, error) {
	if o.configPath != "" {
		o.v.SetConfigFile(o.configPath)
		if err := o.v.ReadInConfig(); err != nil {
			return sitewidgets.Config{}, fmt.Errorf("%w: %s: %v", runtimeconfig.ErrConfigFileRead, o.configPath, err)
		}
	}
	cfg, err := runtimeconfig.Decode(o.v)
	if err != nil {
		return sitewidgets.Config{}, err
	}
	if o.verbose {
		cfg.Features.Logger = true
	}
	return cfg, nil
}

func (o *rootOptions) module() (*sitewidgets.Module, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	return sitewidgets.New(cfg)
}
