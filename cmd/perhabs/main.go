package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/perhabs/internal/anaglyph"
	"github.com/san-kum/perhabs/internal/asset"
	"github.com/san-kum/perhabs/internal/audio"
	"github.com/san-kum/perhabs/internal/clock"
	"github.com/san-kum/perhabs/internal/config"
	"github.com/san-kum/perhabs/internal/exercise"
	"github.com/san-kum/perhabs/internal/export"
	"github.com/san-kum/perhabs/internal/feedback"
	"github.com/san-kum/perhabs/internal/geom"
	"github.com/san-kum/perhabs/internal/gui"
	"github.com/san-kum/perhabs/internal/logging"
	"github.com/san-kum/perhabs/internal/render"
	"github.com/san-kum/perhabs/internal/report"
	"github.com/san-kum/perhabs/internal/speech"
	"github.com/san-kum/perhabs/internal/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	preset     string
	seed       int64
	logLevel   string
	logFile    string
	reportDir  string
	speechCmd  string
	noAudio    bool
	// stimulus
	outFile string
	size    int
	force   bool
)

// main registers the commands and runs the window host when no subcommand
// is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "perhabs",
		Short:        "visual and auditory rehabilitation exercises",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI("")
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "difficulty preset")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (tui defaults to perhabs.log)")
	rootCmd.PersistentFlags().StringVar(&reportDir, "report-dir", "", "save a report for each finished session here")
	rootCmd.PersistentFlags().StringVar(&speechCmd, "speech-cmd", speech.DefaultCommand, "speech synthesizer command line")
	rootCmd.PersistentFlags().BoolVar(&noAudio, "no-audio", false, "disable feedback tones")

	guiCmd := &cobra.Command{
		Use:   "gui [exercise]",
		Short: "run exercises in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := ""
			if len(args) > 0 {
				start = args[0]
			}
			return runGUI(start)
		},
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run exercises in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list exercises",
		RunE:  listExercises,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list difficulty presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config, with --preset applied",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "print the effective config",
		RunE:  showConfig,
	}
	configCmd.AddCommand(configInitCmd, configShowCmd)

	stimulusCmd := &cobra.Command{
		Use:   "stimulus",
		Short: "export a vergence stimulus as SVG",
		RunE:  exportStimulus,
	}
	stimulusCmd.Flags().StringVarP(&outFile, "out", "o", "stimulus.svg", "output file")
	stimulusCmd.Flags().IntVar(&size, "size", 800, "image size in pixels")

	rootCmd.AddCommand(guiCmd, tuiCmd, listCmd, presetsCmd, configCmd, stimulusCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the collaborators shared by both hosts.
type app struct {
	log       *slog.Logger
	store     *config.Store
	frame     *clock.Frame
	exercises []exercise.Exercise
	reports   *report.Writer
	seed      int64
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp wires configuration, logging, speech, audio and remote content
// into one set of exercises. Collaborators that fail to start are replaced
// by silent ones.
func newApp(ctx context.Context, defaultLog string) (*app, error) {
	a := &app{}

	path := logFile
	if path == "" {
		path = defaultLog
	}
	if path != "" {
		log, c, err := logging.NewFile(path, logLevel)
		if err != nil {
			return nil, err
		}
		a.log = log
		a.closers = append(a.closers, func() { c.Close() })
	} else {
		log, err := logging.New(os.Stderr, logLevel)
		if err != nil {
			return nil, err
		}
		a.log = log
	}

	a.store = config.NewStore(a.log)
	a.store.LoadAsync(configFile, preset)
	if configFile != "" {
		if err := a.store.Watch(ctx, configFile, preset); err != nil {
			a.log.Warn("config hot reload disabled", "path", configFile, "err", err)
		}
	}

	a.seed = seed
	if a.seed == 0 {
		a.seed = time.Now().UnixNano()
	}

	var synth speech.Synthesizer = speech.Nop{}
	if speechCmd != "" {
		cmd, err := speech.NewCommand(speechCmd, a.log)
		if err != nil {
			a.log.Warn("speech disabled", "command", speechCmd, "err", err)
		} else {
			synth = cmd
			a.closers = append(a.closers, cmd.Stop)
		}
	}

	var player feedback.Player = feedback.Nop{}
	if !noAudio {
		proc := audio.NewProcessor(a.log)
		if err := proc.Start(); err != nil {
			a.log.Warn("audio disabled", "err", err)
		} else {
			player = proc
			a.closers = append(a.closers, proc.Stop)
		}
	}

	if reportDir != "" {
		a.reports = report.New(reportDir)
		if err := a.reports.Init(); err != nil {
			a.close()
			return nil, fmt.Errorf("report dir: %w", err)
		}
	}

	a.frame = clock.NewFrame(clock.System)
	a.exercises = exercise.NewRegistry().All(exercise.Deps{
		Config:   a.store,
		Clock:    a.frame,
		Seed:     a.seed,
		Logger:   a.log,
		Speech:   synth,
		Fetcher:  asset.NewHTTPFetcher(a.log),
		Feedback: player,
	})
	a.log.Info("perhabs starting", "seed", a.seed, "preset", preset, "config", configFile)
	return a, nil
}

func runGUI(start string) error {
	var kind exercise.Kind
	if start != "" {
		k, err := exercise.ParseKind(start)
		if err != nil {
			return err
		}
		kind = k
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a, err := newApp(ctx, "")
	if err != nil {
		return err
	}
	defer a.close()

	gui.Run(gui.Options{
		Exercises: a.exercises,
		Frame:     a.frame,
		Start:     kind,
		Reports:   a.reports,
		Seed:      a.seed,
		Preset:    preset,
		Logger:    a.log,
	})
	return nil
}

func runTUI() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// The terminal belongs to the UI, so logs always go to a file.
	a, err := newApp(ctx, "perhabs.log")
	if err != nil {
		return err
	}
	defer a.close()

	return tui.Run(tui.Options{
		Exercises: a.exercises,
		Frame:     a.frame,
		Config:    a.store,
		Reports:   a.reports,
		Seed:      a.seed,
		Preset:    preset,
		Logger:    a.log,
	})
}

func listExercises(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tNAME\tDESCRIPTION")
	for _, k := range exercise.Kinds {
		fmt.Fprintf(w, "%s\t%s\t%s\n", k, k.Title(), k.Description())
	}
	return w.Flush()
}

// effectiveConfig loads the config file and preset synchronously, the same
// way the hosts do in the background.
func effectiveConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset != "" {
		if err := config.ApplyPreset(cfg, preset); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "perhabs.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s exists, use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		if err := config.ApplyPreset(cfg, preset); err != nil {
			return err
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}
	return writeYAML(os.Stdout, cfg)
}

func writeYAML(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func exportStimulus(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig()
	if err != nil {
		return err
	}
	log, err := logging.New(os.Stderr, logLevel)
	if err != nil {
		return err
	}

	s := seed
	if s == 0 {
		s = cfg.Seed
	}
	if s == 0 {
		s = time.Now().UnixNano()
	}

	gen := anaglyph.New(cfg.Vergence.Depth, rand.New(rand.NewSource(s)), log)
	gen.SetColors(cfg.EyeColors())
	gen.Next()

	scene := render.NewScene(render.White)
	gen.Draw(scene, geom.Rect{Size: geom.Vec2{X: 1, Y: 1}})
	if err := os.WriteFile(outFile, []byte(export.SceneToSVG(scene, size)), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (focal %s, disparity %d, seed %d)\n", outFile, gen.FocalPosition, gen.Disparity(), s)
	return nil
}
