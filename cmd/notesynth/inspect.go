package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-notesynth/analysis"
	"github.com/cwbudde/algo-notesynth/internal/wavio"
)

var (
	inspectRef  string
	inspectJSON bool
)

func init() {
	inspectCmd.Flags().StringVar(&inspectRef, "ref", "", "reference WAV to compare against")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print JSON")
	rootCmd.AddCommand(inspectCmd)
}

type inspectReport struct {
	Path     string             `json:"path"`
	Channels int                `json:"channels"`
	Stats    analysis.Stats     `json:"stats"`
	Distance *analysis.Distance `json:"distance,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wav>",
	Short: "Report level, length and pitch of a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := inspect(args[0], inspectRef)
		if err != nil {
			return err
		}
		return printReport(cmd.OutOrStdout(), rep, inspectJSON)
	},
}

func inspect(path, ref string) (*inspectReport, error) {
	clip, err := wavio.Read(path)
	if err != nil {
		return nil, err
	}
	x := clip.Mono()
	stats, err := analysis.Measure(x, clip.SampleRate)
	if err != nil {
		return nil, err
	}
	rep := &inspectReport{Path: path, Channels: clip.Channels, Stats: stats}
	if ref == "" {
		return rep, nil
	}

	refClip, err := wavio.Read(ref)
	if err != nil {
		return nil, err
	}
	cand, err := wavio.Resample(x, clip.SampleRate, refClip.SampleRate)
	if err != nil {
		return nil, err
	}
	d := analysis.Compare(refClip.Mono(), cand, refClip.SampleRate)
	rep.Distance = &d
	return rep, nil
}

func printReport(w io.Writer, rep *inspectReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	s := rep.Stats
	fmt.Fprintf(w, "%s\n", rep.Path)
	fmt.Fprintf(w, "  format:    %d ch, %d Hz, %d frames (%v)\n", rep.Channels, s.SampleRate, s.Frames, s.Duration())
	fmt.Fprintf(w, "  peak:      %.4f (%.1f dBFS)\n", s.Peak, s.PeakDB)
	fmt.Fprintf(w, "  rms:       %.4f (%.1f dBFS)\n", s.RMS, s.RMSDB)
	fmt.Fprintf(w, "  lead-in:   %d frames\n", s.LeadingSilence)
	fmt.Fprintf(w, "  dominant:  %.2f Hz\n", s.DominantHz)
	if d := rep.Distance; d != nil {
		fmt.Fprintf(w, "  distance:  score=%.4f similarity=%.4f lag=%d\n", d.Score, d.Similarity, d.LagSamples)
		fmt.Fprintf(w, "             time_rmse=%.4f env_rmse=%.2f dB spec_rmse=%.2f dB\n",
			d.TimeRMSE, d.EnvelopeRMSEDB, d.SpectralRMSEDB)
	}
	return nil
}
