package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/oklog/ulid/v2"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/carcassonne/config"
	"github.com/katalvlaran/carcassonne/evolve"
	"github.com/katalvlaran/carcassonne/render"
	"github.com/katalvlaran/carcassonne/store"
	"github.com/katalvlaran/carcassonne/stream"
	"github.com/katalvlaran/carcassonne/tile"
)

type evolveFlags struct {
	seed            int64
	width, height   int
	population      int
	mutation        float64
	keepOrientation bool
	workers         int
	generations     int
	recordEvery     int
	listen          string
	tui             bool
	out             string
}

// apply copies the flags the user set over the configuration.
func (f *evolveFlags) apply(changed func(string) bool, c *config.Config) {
	if changed("seed") {
		c.Seed = f.seed
	}
	if changed("width") {
		c.Search.Width = f.width
	}
	if changed("height") {
		c.Search.Height = f.height
	}
	if changed("population") {
		c.Search.Population = f.population
	}
	if changed("mutation") {
		c.Search.MutationRate = f.mutation
	}
	if changed("keep-orientation") {
		c.Search.MutateOrientation = !f.keepOrientation
	}
	if changed("workers") {
		c.Search.Workers = f.workers
	}
	if changed("generations") {
		c.Search.MaxGenerations = f.generations
	}
	if changed("record-every") {
		c.Store.RecordEvery = f.recordEvery
	}
	if changed("listen") {
		c.Stream.Listen = f.listen
	}
}

func newEvolveCmd(a *app) *cobra.Command {
	var f evolveFlags
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Search for a layout of the catalogue",
		Long: `Run the evolutionary search until a layout scores 0, the generation
budget is spent or the search is interrupted. The best board is printed as
text art; --out also saves it as JSON.

Examples:
  carcassonne evolve --tui
  carcassonne evolve -W 10 -H 10 -g 2000 --seed 7 --store runs.db
  carcassonne evolve --listen :8080       # progress at ws://host:8080/stream`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.apply(cmd.Flags().Changed, &a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.evolve(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.Int64Var(&f.seed, "seed", 0, "random seed (default: time-based)")
	fl.IntVarP(&f.width, "width", "W", evolve.DefaultWidth, "board width")
	fl.IntVarP(&f.height, "height", "H", evolve.DefaultHeight, "board height")
	fl.IntVarP(&f.population, "population", "p", evolve.DefaultPopulation, "individuals per generation")
	fl.Float64VarP(&f.mutation, "mutation", "m", evolve.DefaultMutationRate, "mutation probability in [0, 1)")
	fl.BoolVar(&f.keepOrientation, "keep-orientation", false, "mutation moves a tile without turning it")
	fl.IntVarP(&f.workers, "workers", "j", runtime.GOMAXPROCS(0), "parallel evaluations")
	fl.IntVarP(&f.generations, "generations", "g", 0, "stop after n generations (0: no limit)")
	fl.IntVar(&f.recordEvery, "record-every", 1, "store every n-th generation in the run log")
	fl.StringVar(&f.listen, "listen", "", "stream progress over websocket at this address")
	fl.BoolVar(&f.tui, "tui", false, "show the live board in the terminal")
	fl.StringVarP(&f.out, "out", "o", "", "write the best board as JSON to this file")
	return cmd
}

func (a *app) evolve(cmd *cobra.Command, f evolveFlags) error {
	cat, catName, err := a.catalogue()
	if err != nil {
		return err
	}
	cfg := a.cfg
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	log := a.log
	engineLog := log
	if f.tui {
		// the screen owns the terminal
		engineLog = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	engine, err := evolve.New(cat.Templates(), cfg.EngineOptions(engineLog)...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := newSession(engine, cfg, engineLog)
	defer s.endSide()
	// The run row is created last, so a stream or terminal failure leaves no
	// unfinished run behind.
	if cfg.Stream.Listen != "" {
		addr, err := s.serve(cfg.Stream.Listen)
		if err != nil {
			s.close(evolve.Result{}, nil)
			return err
		}
		log.Info("streaming progress", "url", "ws://"+addr+"/stream")
	}
	var view *viewSession
	if f.tui {
		if view, err = s.openView(); err != nil {
			s.close(evolve.Result{}, nil)
			return err
		}
		// the screen owns the terminal until the viewer ends
		log = engineLog
	}
	if cfg.Store.Path != "" {
		if err := s.record(ctx, cfg.Store.Path, catName, cat.Len()); err != nil {
			if view != nil {
				view.screen.Fini()
			}
			s.close(evolve.Result{}, nil)
			return err
		}
		log.Info("recording run", "run", s.runID, "store", cfg.Store.Path)
	}

	log.Info("search started",
		"catalogue", catName,
		"tiles", cat.Len(),
		"board", fmt.Sprintf("%dx%d", cfg.Search.Width, cfg.Search.Height),
		"population", cfg.Search.Population,
		"seed", cfg.Seed)

	var (
		res    evolve.Result
		runErr error
		search conc.WaitGroup
	)
	search.Go(func() {
		res, runErr = engine.Run(ctx)
	})
	var viewErr error
	if view != nil {
		// quitting the viewer stops the search
		viewErr = view.run(ctx)
		cancel()
		log = a.log
	}
	search.Wait()

	if viewErr != nil && !errors.Is(viewErr, context.Canceled) {
		s.close(res, nil)
		return viewErr
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		s.close(res, nil)
		return runErr
	}
	board, err := tile.Fill(cfg.Search.Width, cfg.Search.Height, res.Best.Resolved)
	if err != nil {
		s.close(res, nil)
		return err
	}
	s.close(res, board)

	if runErr != nil {
		log.Info("search interrupted", "generations", res.Generations, "best", res.Best.Score)
	}
	return report(cmd.OutOrStdout(), f.out, cfg.Seed, res, board)
}

// report prints the best board and optionally saves it as JSON.
func report(w io.Writer, out string, seed int64, res evolve.Result, board *tile.Board) error {
	if err := render.ASCII(w, board); err != nil {
		return err
	}
	state := "best so far"
	if res.Converged {
		state = "accepted"
	}
	fmt.Fprintf(w, "%s: score %s after %d generations, seed %d\n", state, res.Best.Breakdown, res.Generations, seed)
	if out == "" {
		return nil
	}
	data, err := json.MarshalIndent(board.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, append(data, '\n'), 0o644)
}

// session owns the consumers of one search: the run log, the websocket
// stream and the terminal viewer. Each consumer reads its own mailbox, so
// none of them can hold up the search.
type session struct {
	engine *evolve.Engine
	cfg    config.Config
	log    *slog.Logger

	// last is written on the search goroutine and read after it ends.
	last evolve.Progress

	side    conc.WaitGroup
	sideCtx context.Context
	endSide context.CancelFunc

	st    *store.Store
	runID ulid.ULID

	hub *stream.Hub
	srv *http.Server
}

func newSession(e *evolve.Engine, cfg config.Config, log *slog.Logger) *session {
	s := &session{engine: e, cfg: cfg, log: log}
	s.sideCtx, s.endSide = context.WithCancel(context.Background())
	e.Observe(func(p evolve.Progress) { s.last = p })
	return s
}

// record opens the run log, creates the run row and stores every n-th
// generation in the background.
func (s *session) record(ctx context.Context, path, catName string, tiles int) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	c := s.cfg
	run := &store.Run{
		Seed:         c.Seed,
		Width:        c.Search.Width,
		Height:       c.Search.Height,
		Population:   c.Search.Population,
		MutationRate: c.Search.MutationRate,
		Catalogue:    catName,
		Tiles:        tiles,
	}
	if err := st.CreateRun(ctx, run); err != nil {
		st.Close()
		return err
	}
	s.st, s.runID = st, run.ID

	every := c.Store.RecordEvery
	mb := evolve.NewMailbox()
	s.engine.Observe(func(p evolve.Progress) {
		if p.Generation%every == 0 {
			mb.Put(p)
		}
	})
	s.side.Go(func() {
		for {
			select {
			case <-s.sideCtx.Done():
				return
			case p := <-mb.C():
				err := st.RecordProgress(s.sideCtx, run.ID, p)
				if err != nil && s.sideCtx.Err() == nil {
					s.log.Warn("record progress", "run", run.ID, "generation", p.Generation, "err", err)
				}
			}
		}
	})
	return nil
}

// serve starts the websocket stream and returns the bound address.
func (s *session) serve(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", addr, err)
	}
	s.hub = stream.NewHub()
	mux := http.NewServeMux()
	mux.Handle("/stream", s.hub)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	mb := evolve.NewMailbox()
	s.engine.Observe(mb.Put)
	s.side.Go(func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("stream server", "err", err)
		}
	})
	s.side.Go(func() {
		if err := s.hub.Pump(s.sideCtx, mb.C()); err != nil && s.sideCtx.Err() == nil {
			s.log.Error("stream pump", "err", err)
		}
	})
	return ln.Addr().String(), nil
}

// close stops the consumers and stores the outcome. board is nil when the
// search failed or never started; the run row is then removed.
func (s *session) close(res evolve.Result, board *tile.Board) {
	s.endSide()
	if s.srv != nil {
		if s.last.Board != nil {
			if err := s.hub.Publish(s.last); err != nil {
				s.log.Warn("publish final progress", "err", err)
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.srv.Shutdown(ctx); err != nil {
			s.log.Warn("stream shutdown", "err", err)
		}
		cancel()
	}
	s.side.Wait()

	if s.st == nil {
		return
	}
	defer s.st.Close()
	ctx := context.Background()
	if board == nil {
		if err := s.st.DeleteRun(ctx, s.runID); err != nil {
			s.log.Warn("delete failed run", "run", s.runID, "err", err)
		}
		return
	}
	if s.last.Generation > 0 {
		if err := s.st.RecordProgress(ctx, s.runID, s.last); err != nil {
			s.log.Warn("record final progress", "run", s.runID, "err", err)
		}
	}
	if err := s.st.FinishRun(ctx, s.runID, res, board); err != nil {
		s.log.Warn("finish run", "run", s.runID, "err", err)
	}
}

// viewSession is the terminal viewer of one search.
type viewSession struct {
	screen tcell.Screen
	viewer *render.Viewer
	mb     *evolve.Mailbox
}

func (s *session) openView() (*viewSession, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	v := &viewSession{screen: screen, viewer: render.NewViewer(screen), mb: evolve.NewMailbox()}
	s.engine.Observe(v.mb.Put)
	return v, nil
}

// run shows progress until the user quits or ctx ends, then restores the
// terminal.
func (v *viewSession) run(ctx context.Context) error {
	defer v.screen.Fini()
	return v.viewer.Run(ctx, v.mb.C())
}
