package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/ipcsim/internal/backend/cpu"
	"github.com/san-kum/ipcsim/internal/config"
	"github.com/san-kum/ipcsim/internal/geometry"
	"github.com/san-kum/ipcsim/internal/logging"
	"github.com/san-kum/ipcsim/internal/metrics"
	"github.com/san-kum/ipcsim/internal/storage"
	"github.com/san-kum/ipcsim/internal/viz"
	"github.com/san-kum/ipcsim/internal/world"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	preset     string
	verbose    bool

	frames       int
	bodies       int
	constitution string
	dumpPath     string
	dumpEvery    int
	metricsAddr  string
	asJSON       bool
	exportFrame  int64
	format       string

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ipcsim",
		Short:         "simplicial-complex simulation runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = loadConfig(); err != nil {
				return err
			}
			level := cfg.Log.Level
			if verbose {
				level = "debug"
			}
			logger, err = logging.New(level, cfg.Log.Development)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the demo scene",
		RunE:  runWorld,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 0, "frames to advance (default from config)")
	runCmd.Flags().StringVar(&dumpPath, "dump", "", "sqlite dump file (default from config, in memory if empty)")
	runCmd.Flags().IntVar(&dumpEvery, "every", 0, "dump every n frames (default from config)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "build the demo scene and list the surviving systems",
		RunE:  listSystems,
	}
	addSceneFlags(systemsCmd)
	systemsCmd.Flags().BoolVar(&asJSON, "json", false, "print json")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run the demo scene in a live terminal view",
		RunE:  watchWorld,
	}
	addSceneFlags(watchCmd)
	watchCmd.Flags().IntVar(&frames, "frames", 0, "stop after n frames (default from config, 0 runs forever)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	framesCmd := &cobra.Command{
		Use:   "frames [dump file]",
		Short: "list or export dumped frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listFrames,
	}
	framesCmd.Flags().Int64Var(&exportFrame, "export", -1, "export this frame to stdout")
	framesCmd.Flags().StringVar(&format, "format", "csv", "export format (csv or json)")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return config.Save(args[0], cfg)
			}
			return yaml.NewEncoder(os.Stdout).Encode(cfg)
		},
	}

	rootCmd.AddCommand(runCmd, systemsCmd, watchCmd, presetsCmd, framesCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&bodies, "bodies", 3, "number of cubes")
	cmd.Flags().StringVar(&constitution, "constitution", "abd", "cube constitution (abd or fem)")
}

// loadConfig starts from the preset, or the defaults, and applies the
// config file on top.
func loadConfig() (*config.Config, error) {
	c := config.DefaultConfig()
	if preset != "" {
		if c = config.GetPreset(preset); c == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, sortedPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		c = loaded
	}
	return c, nil
}

func sortedPresets() []string {
	names := config.ListPresets()
	slices.Sort(names)
	return names
}

func defaultObservers() []metrics.Observer {
	return []metrics.Observer{
		metrics.NewDisplacement(),
		metrics.NewEnergy(1),
		metrics.NewEnergyDrift(1),
		metrics.NewStability(1),
	}
}

// session is a bound world over the cpu engine.
type session struct {
	world     *world.World
	engine    *cpu.Engine
	store     storage.Store
	recorder  *metrics.Recorder
	observers []metrics.Observer
}

func openSession(store storage.Store) (*session, error) {
	s, err := demoScene(cfg, bodies, constitution)
	if err != nil {
		return nil, err
	}

	rec := metrics.NewRecorder()
	observers := defaultObservers()
	engine := cpu.NewEngine(
		cpu.WithLogger(logger.Named("engine")),
		cpu.WithMetrics(rec),
		cpu.WithStore(store),
		cpu.WithObservers(observers...),
	)
	w := world.New(engine, world.WithLogger(logger.Named("world")), world.WithMetrics(rec))
	if !w.Init(s) {
		engine.Close()
		return nil, fmt.Errorf("world init failed: %w", engine.Status().Err)
	}
	return &session{world: w, engine: engine, store: store, recorder: rec, observers: observers}, nil
}

func (s *session) Close() error {
	s.engine.Close()
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *session) positions() []geometry.Vector3 {
	return s.engine.Vertices().Positions()
}

func runWorld(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if cmd.Flags().Changed("dump") {
		cfg.Dump.Path = dumpPath
	}
	if cmd.Flags().Changed("every") {
		cfg.Dump.Every = dumpEvery
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err := storage.Open(cfg.Dump.Path)
	if err != nil {
		return err
	}
	sess, err := openSession(store)
	if err != nil {
		_ = store.Close()
		return err
	}
	defer sess.Close()

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:    metricsAddr,
			Handler: promhttp.HandlerFor(sess.recorder.Registry(), promhttp.HandlerOpts{}),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		logger.Info("serving metrics", zap.String("addr", metricsAddr))
	}

	fmt.Printf("running %d %s cube(s) for %d frames...\n", bodies, constitution, cfg.Frames)
	start := time.Now()

	w := sess.world
	history := make([]float64, 0, cfg.Frames)
	dumps := 0
	for i := 0; i < cfg.Frames; i++ {
		if !w.Advance() || !w.Sync() {
			break
		}
		history = append(history, sess.observers[0].Value())
		if cfg.Dump.Enable && cfg.Dump.Every > 0 && int(w.Frame())%cfg.Dump.Every == 0 && w.Dump() {
			dumps++
		}
	}
	if w.IsValid() {
		w.Retrieve()
	}
	elapsed := time.Since(start)

	if !w.IsValid() {
		return fmt.Errorf("world became invalid at frame %d: %w", sess.engine.Frame(), sess.engine.Status().Err)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", w.Frame())
	fmt.Printf("vertices: %d\n", sess.engine.Vertices().Total())
	fmt.Printf("dumps: %d\n", dumps)
	fmt.Println("\nmetrics:")
	for _, o := range sess.observers {
		fmt.Printf("  %s: %.6f\n", o.Name(), o.Value())
	}
	if len(history) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(history, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption(sess.observers[0].Name())))
	}
	return nil
}

func listSystems(cmd *cobra.Command, args []string) error {
	sess, err := openSession(storage.NewMemoryStore())
	if err != nil {
		return err
	}
	defer sess.Close()

	reg := sess.engine.Registry()
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reg)
	}
	fmt.Print(reg.String())
	return nil
}

func watchWorld(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	sess, err := openSession(storage.NewMemoryStore())
	if err != nil {
		return err
	}
	defer sess.Close()

	model := viz.NewWatch(sess.world, sess.positions, uint64(cfg.Frames), sess.observers...)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDT\tFRAMES\tCONTACT\tDUMP\tSANITY")
	for _, name := range sortedPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(tw, "%s\t%g\t%d\t%t\t%t\t%t\n", name, p.Dt, p.Frames, p.Contact.Enable, p.Dump.Enable, p.SanityCheck.Enable)
	}
	return tw.Flush()
}

func listFrames(cmd *cobra.Command, args []string) error {
	path := cfg.Dump.Path
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return errors.New("no dump file: pass one or set dump.path")
	}
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if exportFrame >= 0 {
		d, err := store.Load(uint64(exportFrame))
		if err != nil {
			return err
		}
		switch format {
		case "csv":
			return storage.WriteCSV(os.Stdout, d)
		case "json":
			return storage.WriteJSON(os.Stdout, d)
		}
		return fmt.Errorf("unknown format %q (want csv or json)", format)
	}

	list, err := store.Frames()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no frames")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAME\tSAVED\tVERTICES")
	for _, f := range list {
		d, err := store.Load(f)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\n", d.Frame, d.Timestamp.Format(time.RFC3339), len(d.Positions))
	}
	return tw.Flush()
}
