// Command genflood exports the synthetic flood dataset the server trains on,
// so the generator's output can be inspected or used elsewhere.
//
// Usage:
//
//	go run ./cmd/genflood --samples 600 --seed 42 --out data/flood_synthetic.csv
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/flood"
)

type genFlags struct {
	samples  int
	seed     uint64
	out      string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var flags genFlags

	cmd := &cobra.Command{
		Use:   "genflood",
		Short: "Write the synthetic flood training dataset as CSV",
		Args:  cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&flags.samples, "samples", "n", 600, "Number of samples to generate")
	f.Uint64Var(&flags.seed, "seed", 42, "Generator seed")
	f.StringVarP(&flags.out, "out", "o", "-", "Output CSV path, - for stdout")
	f.StringVar(&flags.logLevel, "log-level", "info", "Log level")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, flags genFlags) error {
	if flags.samples <= 0 {
		return fmt.Errorf("--samples must be positive, got %d", flags.samples)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(flags.logLevel)); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	// Logs go to stderr so they never mix with CSV on stdout.
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	samples := flood.Generate(flags.samples, flags.seed)

	var w io.Writer = cmd.OutOrStdout()
	if flags.out != "-" {
		file, err := os.Create(flags.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close()
		w = file
	}

	if err := flood.WriteCSV(w, samples); err != nil {
		return err
	}

	dist := flood.Distribution(samples)
	logger.Info("dataset written",
		"out", flags.out,
		"samples", len(samples),
		"seed", flags.seed,
		domain.SeverityLow.String(), dist[domain.SeverityLow],
		domain.SeverityModerate.String(), dist[domain.SeverityModerate],
		domain.SeverityHigh.String(), dist[domain.SeverityHigh],
	)
	return nil
}
