// Command carcassonne searches for gap-free, fully matched Carcassonne
// layouts and keeps a log of its runs.
//
//	carcassonne evolve --tui                 live search over the base game
//	carcassonne evolve -g 500 --store runs.db --out best.json
//	carcassonne tiles                        list the catalogue
//	carcassonne score best.json              score a saved board
//	carcassonne runs --store runs.db         list stored runs
//	carcassonne show --store runs.db <id>    print a stored board
//	carcassonne config > run.toml            write the effective run file
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/carcassonne/catalogue"
	"github.com/katalvlaran/carcassonne/config"
	"github.com/katalvlaran/carcassonne/store"
)

// baseCatalogue names the embedded catalogue in the run log.
const baseCatalogue = "base"

var errNoStore = errors.New("no run log configured: set --store or [store] path")

// app carries what every subcommand shares: the logger and the effective
// configuration after the run file and the global flags are applied.
type app struct {
	logLevel      string
	configPath    string
	cataloguePath string
	storePath     string

	log *slog.Logger
	cfg config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "carcassonne",
		Short: "Evolve gap-free Carcassonne tile layouts",
		Long: `Search for an arrangement of every tile of a catalogue on a fixed board
so that all facing edges match, every town is closed and no tile is cut off.

Settings come from built-in defaults, then the run file (--config), then
command-line flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVarP(&a.configPath, "config", "c", "", "TOML run file")
	pf.StringVar(&a.cataloguePath, "catalogue", "", "tile catalogue file (default: embedded base game)")
	pf.StringVar(&a.storePath, "store", "", "SQLite run log")

	root.AddCommand(
		newEvolveCmd(a),
		newTilesCmd(a),
		newScoreCmd(a),
		newRunsCmd(a),
		newShowCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup builds the logger and the effective configuration.
func (a *app) setup(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	a.cfg = config.Default()
	if a.configPath != "" {
		c, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = c
	}
	if cmd.Flags().Changed("catalogue") {
		a.cfg.Catalogue = a.cataloguePath
	}
	if cmd.Flags().Changed("store") {
		a.cfg.Store.Path = a.storePath
	}
	return nil
}

// catalogue loads the configured catalogue and returns the name recorded in
// the run log.
func (a *app) catalogue() (*catalogue.Catalogue, string, error) {
	return loadCatalogue(a.cfg.Catalogue)
}

func loadCatalogue(path string) (*catalogue.Catalogue, string, error) {
	if path == "" || path == baseCatalogue {
		c, err := catalogue.Base()
		return c, baseCatalogue, err
	}
	c, err := catalogue.Load(path)
	return c, path, err
}

func (a *app) openStore() (*store.Store, error) {
	if a.cfg.Store.Path == "" {
		return nil, errNoStore
	}
	return store.Open(a.cfg.Store.Path)
}
