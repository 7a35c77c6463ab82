package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var opts generator
	var output string

	cmd := &cobra.Command{
		Use:   "graphview-gen",
		Short: "Generate csv series data for graphview",
		Long: `Generate synthetic series as csv on stdout or into a file.

 graphview-gen --count 1000 > file.csv

OR

 graphview-gen --interval 50ms --signals sine,randomwalk | graphview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out io.WriteCloser = os.Stdout
			if output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed opening output file %q: %w", output, err)
				}
				out = f
			}
			err := opts.run(cmd.Context(), out)
			if closeErr := out.Close(); closeErr != nil {
				log.Printf("failed closing output: %v", closeErr)
			}
			return err
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringSliceVarP(&opts.kinds, "signals", "s", []string{"sine"}, "Signals to generate, one column each (sine, square, sawtooth, randomwalk)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 0, "Number of rows to write; 0 writes until interrupted")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Delay between rows, e.g. 100ms")
	cmd.Flags().Float64Var(&opts.step, "step", 1, "X distance between rows")
	cmd.Flags().Float64Var(&opts.amplitude, "amplitude", 10, "Amplitude of every signal")
	cmd.Flags().Float64Var(&opts.period, "period", 100, "Period of periodic signals in X units")
	cmd.Flags().Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "Seed for random walks")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file for csv data")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}
