package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDefinitionsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "definitions",
		Short: "List the widget definitions published to storage",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := opts.module()
			if err != nil {
				return err
			}
			defer module.Close()

			defs, err := module.Widgets().ListDefinitions(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(defs)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tDESCRIPTION")
			for _, def := range defs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, deref(def.Category), deref(def.Description))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print definitions as JSON")
	return cmd
}

func deref(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}
