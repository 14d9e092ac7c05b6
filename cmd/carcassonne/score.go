package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/carcassonne/fitness"
	"github.com/katalvlaran/carcassonne/render"
	"github.com/katalvlaran/carcassonne/tile"
)

func newScoreCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "score <board.json>",
		Short: "Score a saved board",
		Long: `Score a board written by "evolve --out" against the catalogue it was
built from. The breakdown reads:

  c  cells cut off from the largest group (clusters - 1)
  e  facing edges with different terrain
  u  open town edges
  t  separate towns`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var snap tile.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			cat, _, err := a.catalogue()
			if err != nil {
				return err
			}
			b, err := tile.Restore(snap, cat.Templates())
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if !quiet {
				if err := render.ASCII(out, b); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(out, "score %s\n", fitness.EvaluateBoard(b))
			return err
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the score")
	return cmd
}
