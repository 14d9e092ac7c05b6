package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/carcassonne/catalogue"
	"github.com/katalvlaran/carcassonne/tile"
)

func newTilesCmd(a *app) *cobra.Command {
	var source bool
	cmd := &cobra.Command{
		Use:   "tiles",
		Short: "List the tile catalogue",
		Long: `List every tile kind with its copy count and the terrain of its four
edges (left, top, right, bottom) in its unrotated orientation.

With --source the catalogue is written back in the catalogue file format,
a starting point for a custom catalogue.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, name, err := a.catalogue()
			if err != nil {
				return err
			}
			if source {
				return catalogue.Format(cmd.OutOrStdout(), cat)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tCOUNT\tLEFT\tTOP\tRIGHT\tBOTTOM\tMONASTERY")
			for _, k := range cat.Kinds {
				e := k.Template.Edges()
				abbey := ""
				if k.Template.Monastery {
					abbey = "yes"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
					k.Template.Name, k.Count, e[tile.Left], e[tile.Top], e[tile.Right], e[tile.Bottom], abbey)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tiles in %d kinds\n", name, cat.Len(), len(cat.Kinds))
			return err
		},
	}
	cmd.Flags().BoolVar(&source, "source", false, "print the catalogue in its file format")
	return cmd
}
