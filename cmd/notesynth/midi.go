package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-notesynth/midifile"
	"github.com/cwbudde/algo-notesynth/render"
)

var (
	midiOutput string
	midiTrack  int
)

func init() {
	midiCmd.Flags().StringVarP(&midiOutput, "output", "o", "out.wav", "output WAV path")
	midiCmd.Flags().IntVarP(&midiTrack, "track", "t", -1, "track index (-1 = first track with notes)")
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi <file.mid>",
	Short: "Render one track of a MIDI file",
	Long: `Reduce one track of a Standard MIDI File to a monophonic score and
render it. The file tempo is used unless --bpm is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		song, err := midifile.ReadFile(args[0], midifile.Options{Track: midiTrack, Logger: logger})
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("bpm") {
			cfg.BPM = song.BPM
		}
		logger.Info("midi track", "track", song.Track, "events", len(song.Score), "bpm", cfg.BPM)
		_, err = render.RenderToFile(song.Score, cfg, midiOutput)
		return err
	},
}
