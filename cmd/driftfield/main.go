package main

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/driftfield/internal/config"
	"github.com/san-kum/driftfield/internal/export"
	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/gui"
	"github.com/san-kum/driftfield/internal/observability"
	"github.com/san-kum/driftfield/internal/storage"
	"github.com/san-kum/driftfield/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	logLevel   string
	// field
	density      float64
	linkDistance float64
	maxSpeed     float64
	trail        float64
	glow         bool
	useGrid      bool
	// motion and render
	fps       int
	reduced   bool
	theme     string
	scanlines bool
	cursor    bool
	width     int
	height    int
	// root
	watch bool
	pick  bool
	// gui
	touch bool
	// render
	duration     time.Duration
	captureEvery int
	gifDelay     int
	outFile      string
	svgFile      string
	jsonFile     string
	scriptFile   string
	noStore      bool
	// bench
	benchIters int
)

// main runs the terminal field when no subcommand is given.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "driftfield",
		Short:        "interactive particle field",
		SilenceUsage: true,
		RunE:         runTerminal,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".driftfield", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level")
	pf.Float64Var(&density, "density", field.DefaultDensity, "square pixels per particle")
	pf.Float64Var(&linkDistance, "link-distance", field.DefaultLinkDistance, "max distance for a connection line")
	pf.Float64Var(&maxSpeed, "speed", field.DefaultMaxSpeed, "max particle speed per frame")
	pf.Float64Var(&trail, "trail", 0, "trail fade per frame (0 clears every frame)")
	pf.BoolVar(&glow, "glow", false, "draw a glow halo around particles")
	pf.BoolVar(&useGrid, "grid", false, "use the spatial grid for link search")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "frame rate")
	pf.BoolVar(&reduced, "reduced-motion", false, "draw one still frame")
	pf.StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	pf.BoolVar(&scanlines, "scanlines", true, "scanline overlay")
	pf.BoolVar(&cursor, "cursor", true, "spring cursor overlay")
	pf.IntVar(&width, "width", config.DefaultWidth, "window or recording width")
	pf.IntVar(&height, "height", config.DefaultHeight, "window or recording height")

	rootCmd.Flags().BoolVar(&watch, "watch", false, "reload the config file on change")
	rootCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset before starting")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the field in a desktop window",
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&touch, "touch", false, "read touch points instead of the mouse")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "record the field headlessly to gif/svg",
		RunE:  runRender,
	}
	renderCmd.Flags().DurationVar(&duration, "time", 5*time.Second, "recording length")
	renderCmd.Flags().IntVar(&captureEvery, "every", 2, "keep every nth frame in the gif (0 for none)")
	renderCmd.Flags().IntVar(&gifDelay, "delay", 3, "gif frame delay in 1/100 s")
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "also write the gif here")
	renderCmd.Flags().StringVar(&svgFile, "svg", "", "also write a final-frame svg here")
	renderCmd.Flags().StringVar(&jsonFile, "json", "", "write the final state as json ('-' for stdout)")
	renderCmd.Flags().StringVar(&scriptFile, "script", "", "input script (yaml)")
	renderCmd.Flags().BoolVar(&noStore, "no-store", false, "do not save the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [run_id]",
		Short: "show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectRun,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(dataDir).Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark link search, brute force against grid",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchIters, "iters", 50, "link passes per size")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "driftfield.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(guiCmd, renderCmd, listCmd, inspectCmd, deleteCmd, benchCmd, presetsCmd, configCmd)
	return rootCmd
}

// resolveConfig layers the preset, then the config file, then any flag
// given explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("density") {
		cfg.Field.Density = density
	}
	if flags.Changed("link-distance") {
		cfg.Field.LinkDistance = linkDistance
	}
	if flags.Changed("speed") {
		cfg.Field.MaxSpeed = maxSpeed
	}
	if flags.Changed("trail") {
		cfg.Field.Trail = trail
	}
	if flags.Changed("glow") {
		cfg.Field.Glow = glow
	}
	if flags.Changed("grid") {
		cfg.Field.UseGrid = useGrid
	}
	if flags.Changed("fps") {
		cfg.Motion.FPS = fps
	}
	if flags.Changed("reduced-motion") {
		cfg.Motion.Reduced = reduced
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = theme
	}
	if flags.Changed("scanlines") {
		cfg.Render.Scanlines = scanlines
	}
	if flags.Changed("cursor") {
		cfg.Render.Cursor = cursor
	}
	if flags.Changed("width") {
		cfg.Render.Width = width
	}
	if flags.Changed("height") {
		cfg.Render.Height = height
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes to the rotating file under the data directory, and to
// stderr as well when console is set.
func newLogger(cfg *config.Config, console bool) (*observability.Logger, error) {
	var sink zapcore.WriteSyncer
	if console {
		sink = zapcore.Lock(os.Stderr)
	}
	return observability.New(cfg.Log, dataDir, sink)
}

func runTerminal(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer logger.Close()

	if pick {
		return viz.Run(viz.NewLauncher(cfg, logger.Logger))
	}

	var reloads <-chan config.Reload
	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		w, err := config.NewWatcher(configFile, config.DefaultDebounce, logger.Logger)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
		reloads = w.Reloads()
	}

	m, err := viz.NewModel(cfg, logger.Logger, reloads)
	if err != nil {
		return err
	}
	logger.Info("terminal session", zap.Int64("seed", viz.Seed(cfg)), zap.String("theme", cfg.Render.Theme))
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer logger.Close()

	return gui.Run(cfg, gui.Options{Touch: touch}, logger.Logger)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer logger.Close()

	var script *export.Script
	if scriptFile != "" {
		script, err = export.LoadScript(scriptFile)
		if err != nil {
			return err
		}
	}

	runSeed := viz.Seed(cfg)
	d, err := export.NewDriver(cfg, runSeed, logger.Logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("rendering %v at %d fps (%dx%d)...\n", duration, cfg.Motion.FPS, cfg.Render.Width, cfg.Render.Height)
	start := time.Now()

	res, err := d.Run(ctx, export.Options{Duration: duration, CaptureEvery: captureEvery, Script: script})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	w, h := d.Raster().Size()
	snapshot := export.NewSVG(w, h, cfg.BackgroundColor())
	d.Snapshot(snapshot)

	if outFile != "" {
		if err := writeTo(outFile, func(f *os.File) error { return d.Raster().WriteGIF(f, gifDelay) }); err != nil {
			return err
		}
	}
	if svgFile != "" {
		if err := writeTo(svgFile, func(f *os.File) error {
			_, err := snapshot.WriteTo(f)
			return err
		}); err != nil {
			return err
		}
	}
	if jsonFile == "-" {
		if err := storage.ExportJSON(os.Stdout, runSeed, duration, res); err != nil {
			return err
		}
	} else if jsonFile != "" {
		if err := writeTo(jsonFile, func(f *os.File) error { return storage.ExportJSON(f, runSeed, duration, res) }); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d (captured %d)\n", res.Frames, res.Captured)
	fmt.Printf("particles: %d, links: %d\n", len(res.Particles), res.Stats.Links)

	if noStore {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.Recording{
		Preset:   preset,
		Seed:     runSeed,
		Duration: duration,
		Config:   cfg,
		Result:   res,
		Raster:   d.Raster(),
		Snapshot: snapshot,
		Delay:    gifDelay,
	})
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func writeTo(path string, fn func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tDURATION\tFRAMES\tPARTICLES\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%.2fs\t%d\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Duration,
			run.Frames,
			run.Particles,
			run.Seed,
		)
	}

	return w.Flush()
}

const speedBins = 40

func inspectRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	particles, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("size: %dx%d, seed: %d\n", meta.Width, meta.Height, meta.Seed)
	fmt.Printf("frames: %d (captured %d), links: %d\n", meta.Frames, meta.Captured, meta.Links)
	fmt.Printf("files: %s\n\n", st.Dir(runID))

	if len(particles) == 0 {
		return fmt.Errorf("no particles to plot")
	}

	maxV := 0.0
	speeds := make([]float64, len(particles))
	for i, p := range particles {
		speeds[i] = math.Hypot(p.VX, p.VY)
		maxV = math.Max(maxV, speeds[i])
	}
	hist := make([]float64, speedBins)
	for _, v := range speeds {
		bin := 0
		if maxV > 0 {
			bin = min(int(v/maxV*speedBins), speedBins-1)
		}
		hist[bin]++
	}

	graph := asciigraph.Plot(hist,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("particle speed distribution (0 to %.3f px/frame)", maxV)),
	)
	fmt.Println(graph)
	return nil
}

type benchResult struct {
	width, height int
	particles     int
	links         int
	match         bool
	brute, grid   time.Duration
}

var benchSizes = [][2]int{{640, 480}, {1280, 800}, {1920, 1080}, {2560, 1440}, {3840, 2160}}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results := make([]benchResult, len(benchSizes))
	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())

	for i, size := range benchSizes {
		g.Go(func() error {
			r := benchResult{width: size[0], height: size[1]}
			var bruteLinks, gridLinks []field.Link
			var err error
			r.particles, bruteLinks, r.brute, err = timeLinks(cfg.Field, false, size[0], size[1], benchIters)
			if err != nil {
				return err
			}
			_, gridLinks, r.grid, err = timeLinks(cfg.Field, true, size[0], size[1], benchIters)
			if err != nil {
				return err
			}
			r.links = len(bruteLinks)
			r.match = slices.Equal(sortLinks(bruteLinks), sortLinks(gridLinks))
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("link search, %d passes per size\n\n", benchIters)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tPARTICLES\tLINKS\tBRUTE/PASS\tGRID/PASS\tSPEEDUP\tMATCH")

	for _, r := range results {
		perBrute := r.brute / time.Duration(max(benchIters, 1))
		perGrid := r.grid / time.Duration(max(benchIters, 1))
		speedup := 0.0
		if r.grid > 0 {
			speedup = float64(r.brute) / float64(r.grid)
		}
		fmt.Fprintf(w, "%dx%d\t%d\t%d\t%v\t%v\t%.1fx\t%v\n",
			r.width, r.height, r.particles, r.links, perBrute, perGrid, speedup, r.match)
	}

	return w.Flush()
}

// timeLinks seeds a fixed field and times iters link passes over it. It
// returns the links of the last pass.
func timeLinks(cfg field.Config, grid bool, w, h, iters int) (int, []field.Link, time.Duration, error) {
	cfg.UseGrid = grid
	f, err := field.New(cfg, 42)
	if err != nil {
		return 0, nil, 0, err
	}
	f.Resize(w, h)

	var links []field.Link
	start := time.Now()
	for i := 0; i < max(iters, 1); i++ {
		links = f.AppendLinks(links[:0])
	}
	return f.Len(), links, time.Since(start), nil
}

func sortLinks(links []field.Link) []field.Link {
	slices.SortFunc(links, func(a, b field.Link) int {
		if a.I != b.I {
			return cmp.Compare(a.I, b.I)
		}
		return cmp.Compare(a.J, b.J)
	})
	return links
}
