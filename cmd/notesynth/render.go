package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-notesynth/render"
	"github.com/cwbudde/algo-notesynth/score"
)

var (
	renderOutput    string
	renderScoreFile string
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "out.wav", "output WAV path")
	renderCmd.Flags().StringVarP(&renderScoreFile, "file", "f", "", "read the score from a file")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [flags] -- <score>",
	Short: "Render a shorthand score to a WAV file",
	Long: `Render a score written as space separated tokens
<duration><note>[#|b][octave][*], e.g. "4c 4e 4g 1c5*".

Durations: 1 whole, 2 half, 4 quarter, ... Negative values are dotted
(-4 is a dotted quarter). 'r' is a rest. A trailing '*' accents the note.
Put the score after '--' when it contains dotted notes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		line := strings.Join(args, " ")
		if renderScoreFile != "" {
			b, err := os.ReadFile(renderScoreFile)
			if err != nil {
				return err
			}
			line = strings.TrimSpace(string(b) + " " + line)
		}
		if line == "" {
			return fmt.Errorf("%w: empty score", score.ErrMalformedToken)
		}
		_, _, err = render.RenderLine(line, cfg, renderOutput)
		return err
	},
}
