package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-notesynth/render"
)

const replHelp = `Usage: <duration><note> <duration><note> ... [--option=value ...]
Options: --bpm=N --repeat=N --transpose=N --sound=harmonic|string|sample
         --legato=F --boost=F --save --silent
Sample:  4c 4e 4g* -4a 8g 1c5 --bpm=150 --repeat=1
Commands: help, exit

Notes are 'a' through 'g', optionally followed by '#' or 'b' and an octave
(default 4). A trailing '*' accents the note; 'r' is a rest.
Durations: 1 whole, 2 half, 4 quarter, ... Dotted notes are negative:
-2 dotted half, -4 dotted quarter, -8 dotted eighth.`

var (
	replPlayer  string
	replSaveDir string
)

func init() {
	replCmd.Flags().StringVar(&replPlayer, "player", os.Getenv("NOTESYNTH_PLAYER"), "command that plays a WAV file (e.g. aplay)")
	replCmd.Flags().StringVar(&replSaveDir, "save-dir", ".", "directory for renders kept with --save")
	rootCmd.AddCommand(replCmd)
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive score interpreter",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Progress lines would interleave with the prompt.
		cfg.Silent = !flagVerbose
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		r := &repl{
			cfg:     cfg,
			player:  replPlayer,
			saveDir: replSaveDir,
			tempDir: os.TempDir(),
			out:     cmd.OutOrStdout(),
		}
		return r.run(ctx, cmd.InOrStdin())
	},
}

type repl struct {
	cfg     render.Config
	player  string
	saveDir string
	tempDir string
	out     io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, ">>> ")
		if !sc.Scan() {
			fmt.Fprintln(r.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help":
			fmt.Fprintln(r.out, replHelp)
			continue
		}
		if err := r.eval(ctx, line); err != nil {
			fmt.Fprintf(r.out, "error: %v (type 'help' for usage)\n", err)
		}
	}
}

// eval renders one line to a temporary file, plays it and removes it unless
// the line asked to keep it. A file that fails to play is kept.
func (r *repl) eval(ctx context.Context, line string) error {
	path := filepath.Join(r.tempDir, "notesynth-"+uuid.New().String()+".wav")
	_, opts, err := render.RenderLine(line, r.cfg, path)
	if err != nil {
		return err
	}
	if err := r.play(ctx, path); err != nil {
		fmt.Fprintf(r.out, "playback failed: %v; render kept at %s\n", err, path)
		return nil
	}
	if opts.Save {
		dst := filepath.Join(r.saveDir, filepath.Base(path))
		if err := moveFile(path, dst); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "saved %s\n", dst)
		return nil
	}
	return os.Remove(path)
}

func (r *repl) play(ctx context.Context, path string) error {
	if r.player == "" {
		return nil
	}
	fields := strings.Fields(r.player)
	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

func moveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, b, 0o644); err != nil {
		return err
	}
	return os.Remove(src)
}
