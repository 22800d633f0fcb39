// Command hazard-train trains the regional hazard classifier offline and
// writes hazard_model.pkl and hazard_label_encoder.pkl into the working
// directory, where the server loads them at startup.
//
// Usage:
//
//	go run ./cmd/hazard-train
//
// The dataset path defaults to data/india_state_hazard_5000.csv and can be
// overridden with HAZARD_DATA_PATH.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/flood-hazard-service/internal/hazard"
)

const previewRows = 5

var rootCmd = &cobra.Command{
	Use:   "hazard-train",
	Short: "Train the hazard classifier and write its artifacts",
	Args:  cobra.NoArgs,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	RunE:         runTrain,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTrain(cmd *cobra.Command, _ []string) error {
	logger := sharedobs.NewLogger(sharedcfg.EnvOrDefault("LOG_LEVEL", "info"), "text")
	out := cmd.OutOrStdout()

	path := sharedcfg.EnvOrDefault("HAZARD_DATA_PATH", "data/india_state_hazard_5000.csv")
	logger.Info("loading dataset", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	samples, err := hazard.ReadDataset(f)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Total samples: %d\n", len(samples))
	if err := hazard.RenderPreview(out, samples, previewRows); err != nil {
		return err
	}

	start := time.Now()
	res, err := hazard.Train(cmd.Context(), samples, hazard.DefaultTrainOptions())
	if err != nil {
		return err
	}
	logger.Info("hazard model trained", "duration", time.Since(start), "classes", res.Encoder.Len())

	if err := hazard.RenderReport(out, res); err != nil {
		return err
	}

	modelPath, encoderPath, err := res.SaveArtifacts(".")
	if err != nil {
		return err
	}
	logger.Info("artifacts written", "model", modelPath, "encoder", encoderPath)
	return nil
}
