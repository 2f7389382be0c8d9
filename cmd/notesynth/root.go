package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-notesynth/preset"
	"github.com/cwbudde/algo-notesynth/render"
	"github.com/cwbudde/algo-notesynth/synth"
)

var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "notesynth",
	Short: "Offline note-to-WAV synthesizer",
	Long: `notesynth renders a score of notes and rests to a mono 16-bit WAV file
using one of three engines: harmonic (additive), string (plucked) or sample
(recorded piano playback).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

// Flags shared by all rendering commands.
var (
	flagPreset      string
	flagVerbose     bool
	flagSilent      bool
	flagEngine      string
	flagSampleRate  int
	flagBPM         float64
	flagTranspose   int
	flagRepeat      int
	flagBoost       float64
	flagLegato      float64
	flagPause       float64
	flagTargetPeak  float64
	flagSeed        int64
	flagSampleDir   string
	flagSampleLayer int
)

func init() {
	def := render.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagPreset, "preset", "", "preset JSON file applied before flags")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&flagSilent, "silent", false, "suppress progress output")
	pf.StringVarP(&flagEngine, "sound", "s", string(def.Engine), "engine: harmonic|string|sample")
	pf.IntVar(&flagSampleRate, "sample-rate", def.SampleRate, "output sample rate in Hz (0 = engine native)")
	pf.Float64Var(&flagBPM, "bpm", def.BPM, "tempo in quarter notes per minute")
	pf.IntVar(&flagTranspose, "transpose", def.Transpose, "transpose by semitones")
	pf.IntVar(&flagRepeat, "repeat", def.Repeat, "additional passes over the score")
	pf.Float64Var(&flagBoost, "boost", def.Boost, "loudness of accented notes")
	pf.Float64Var(&flagLegato, "legato", def.Legato, "fraction of a note after which it is damped")
	pf.Float64Var(&flagPause, "pause", def.Pause, "string engine: silent fraction of each note")
	pf.Float64Var(&flagTargetPeak, "target-peak", def.TargetPeak, "normalized peak in 16-bit units")
	pf.Int64Var(&flagSeed, "seed", def.Seed, "string engine noise seed")
	pf.StringVar(&flagSampleDir, "samples", def.SampleDir, "sample library directory")
	pf.IntVar(&flagSampleLayer, "layer", def.SampleLayer, "sample library velocity layer")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogger() {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	if flagSilent {
		level = slog.LevelWarn
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadConfig builds the render config from the preset and explicitly set
// flags, in that order.
func loadConfig(cmd *cobra.Command) (render.Config, error) {
	cfg := render.DefaultConfig()
	if flagPreset != "" {
		p, err := preset.LoadJSON(flagPreset)
		if err != nil {
			return cfg, err
		}
		cfg = *p
	}
	changed := cmd.Flags().Changed
	if changed("sound") {
		kind, err := synth.ParseKind(flagEngine)
		if err != nil {
			return cfg, err
		}
		cfg.Engine = kind
	}
	if changed("sample-rate") {
		cfg.SampleRate = flagSampleRate
	}
	if changed("bpm") {
		cfg.BPM = flagBPM
	}
	if changed("transpose") {
		cfg.Transpose = flagTranspose
	}
	if changed("repeat") {
		cfg.Repeat = flagRepeat
	}
	if changed("boost") {
		cfg.Boost = flagBoost
	}
	if changed("legato") {
		cfg.Legato = flagLegato
	}
	if changed("pause") {
		cfg.Pause = flagPause
	}
	if changed("target-peak") {
		cfg.TargetPeak = flagTargetPeak
	}
	if changed("seed") {
		cfg.Seed = flagSeed
	}
	if changed("samples") {
		cfg.SampleDir = flagSampleDir
	}
	if changed("layer") {
		cfg.SampleLayer = flagSampleLayer
	}
	cfg.Silent = flagSilent
	cfg.Logger = logger
	return cfg, cfg.Validate()
}
