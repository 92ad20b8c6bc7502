package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/curlcount/internal/config"
	"github.com/ayusman/curlcount/internal/replay"
	"github.com/ayusman/curlcount/internal/rep"
	"github.com/ayusman/curlcount/internal/session"
	"github.com/ayusman/curlcount/testdata"
)

type replayOptions struct {
	fixture string
	tuning  string
	verbose bool
	json    bool
}

func newReplayCmd() *cobra.Command {
	opts := replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay [recording.jsonl]",
		Short: "Count reps in a landmark recording",
		Long: `replay feeds a JSONL landmark recording through a counting session using
the recording's timestamps, then prints the totals. Each line holds
{"t_ms": <offset>, "pose": [33 landmarks]}. Use --fixture to replay one of
the built-in recordings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.OutOrStdout(), opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.fixture, "fixture", "", fmt.Sprintf("built-in recording %v", testdata.Recordings()))
	f.StringVar(&opts.tuning, "tuning", "", "JSON tuning file")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "print every rep as it happens")
	f.BoolVar(&opts.json, "json", false, "print the summary as JSON")
	return cmd
}

func runReplay(out io.Writer, opts replayOptions, args []string) error {
	var src io.ReadCloser
	switch {
	case len(args) == 1 && opts.fixture != "":
		return errors.New("give either a recording file or --fixture, not both")
	case len(args) == 1:
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		src = f
	case opts.fixture != "":
		f, err := testdata.OpenRecording(opts.fixture)
		if err != nil {
			return err
		}
		src = f
	default:
		return errors.New("a recording file or --fixture is required")
	}
	defer src.Close()

	cfg := rep.DefaultConfig()
	if opts.tuning != "" {
		t, err := config.LoadTuning(opts.tuning)
		if err != nil {
			return err
		}
		cfg = t.Apply(cfg)
	}

	var onResult func(session.Result)
	if opts.verbose {
		onResult = func(res session.Result) {
			if !res.Rep {
				return
			}
			at := res.Timestamp.Sub(replay.Epoch)
			fmt.Fprintf(out, "%8s  rep %-3d %v\n", at, res.TotalReps, res.RepSides)
		}
	}

	sum, err := replay.Run(src, cfg, onResult)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	fmt.Fprintf(out, "frames: %d (%s)\n", sum.Frames, sum.Duration)
	fmt.Fprintf(out, "reps:   %d (right %d, left %d)\n", sum.TotalReps, sum.RightReps, sum.LeftReps)
	return nil
}
