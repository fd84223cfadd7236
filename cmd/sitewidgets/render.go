package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	sitewidgets "github.com/goliatone/go-sitewidgets"
	"github.com/goliatone/go-sitewidgets/internal/fixtures"
)

var errSiteRequired = errors.New("--site is required")

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		site     string
		slot     string
		editable bool
		seedDir  string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the widgets placed in a site slot to HTML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			siteID := fixtures.ResolveID("site", site)
			if siteID == uuid.Nil {
				return errSiteRequired
			}
			module, err := opts.module()
			if err != nil {
				return err
			}
			defer module.Close()

			if seedDir != "" {
				if _, err := seed(cmd.Context(), module, seedDir); err != nil {
					return err
				}
			}
			html, err := module.RenderSlot(cmd.Context(), siteID, slot, sitewidgets.RenderOptions{Editable: editable})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&site, "site", "", "Site UUID or fixture slug")
	flags.StringVar(&slot, "slot", "", "Slot to render; empty renders every slot")
	flags.BoolVar(&editable, "editable", false, "Render editing controls")
	flags.StringVar(&seedDir, "seed", "", "Apply fixtures from this directory before rendering")
	return cmd
}
