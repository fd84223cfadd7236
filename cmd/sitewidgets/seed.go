package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	sitewidgets "github.com/goliatone/go-sitewidgets"
	"github.com/goliatone/go-sitewidgets/internal/fixtures"
	"github.com/goliatone/go-sitewidgets/internal/logging"
)

var errFixturesDirRequired = errors.New("fixtures directory is required")

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [dir]",
		Short: "Create widget instances from Markdown fixtures",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.module()
			if err != nil {
				return err
			}
			defer module.Close()

			dir := module.Container().Config.Fixtures.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			created, err := seed(cmd.Context(), module, dir)
			if err != nil {
				return err
			}
			for _, instance := range created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", instance.ID, instance.WidgetTypeID, instance.PositionSlot)
			}
			return nil
		},
	}
}

func seed(ctx context.Context, module *sitewidgets.Module, dir string) ([]*sitewidgets.Instance, error) {
	if dir == "" {
		return nil, errFixturesDirRequired
	}
	cfg := module.Container().Config
	seeds, err := fixtures.LoadDir(dir, cfg.Fixtures.Pattern)
	if err != nil {
		return nil, err
	}
	logger := logging.ModuleLogger(module.Container().LoggerProvider(), "sitewidgets.fixtures")
	return fixtures.Apply(ctx, module.Widgets(), seeds, logger)
}
