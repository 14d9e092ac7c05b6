package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/carcassonne/render"
	"github.com/katalvlaran/carcassonne/store"
	"github.com/katalvlaran/carcassonne/tile"
)

func newRunsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			runs, err := st.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTARTED\tBOARD\tTILES\tGENERATIONS\tSCORE\tCONVERGED\tSEED\tCATALOGUE")
			for _, r := range runs {
				score := "-"
				if r.BestScore >= 0 {
					score = fmt.Sprint(r.BestScore)
				}
				fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%d\t%s\t%v\t%d\t%s\n",
					r.ID, r.Started.Format(time.DateTime), r.Width, r.Height, r.Tiles,
					r.Generations, score, r.Converged, r.Seed, r.Catalogue)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "list at most n runs (0: all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete runs with their progress and board",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			for _, arg := range args {
				id, err := ulid.Parse(arg)
				if err != nil {
					return fmt.Errorf("run id %q: %w", arg, err)
				}
				if err := st.DeleteRun(cmd.Context(), id); err != nil {
					return err
				}
				a.log.Info("run deleted", "run", id)
			}
			return nil
		},
	})
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var (
		asJSON   bool
		progress bool
	)
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored run and its best board",
		Long: `Print the summary and the best board of a stored run. The board is
restored against the catalogue the run used, unless --catalogue is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ulid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("run id %q: %w", args[0], err)
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			ctx := cmd.Context()
			run, err := st.Run(ctx, id)
			if err != nil {
				return err
			}
			snap, err := st.Board(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			path := a.cfg.Catalogue
			if path == "" {
				path = run.Catalogue
			}
			cat, _, err := loadCatalogue(path)
			if err != nil {
				return err
			}
			b, err := tile.Restore(snap, cat.Templates())
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "run %s  seed %d  board %dx%d  population %d  mutation %v\n",
				run.ID, run.Seed, run.Width, run.Height, run.Population, run.MutationRate)
			fmt.Fprintf(out, "score %d after %d generations, converged %v\n",
				run.BestScore, run.Generations, run.Converged)
			if progress {
				if err := printProgress(cmd, st, id); err != nil {
					return err
				}
			}
			return render.ASCII(out, b)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the board snapshot as JSON")
	cmd.Flags().BoolVar(&progress, "progress", false, "also print the stored generations")
	return cmd
}

func printProgress(cmd *cobra.Command, st *store.Store, id ulid.ULID) error {
	gens, err := st.Progress(cmd.Context(), id)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GEN\tBEST\tMEAN\tWORST\tBREAKDOWN")
	for _, g := range gens {
		fmt.Fprintf(tw, "%d\t%d\t%.1f\t%d\t%s\n", g.Generation, g.Score, g.Mean, g.Worst, g.Breakdown)
	}
	return tw.Flush()
}
