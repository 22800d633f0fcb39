// Command validate checks trained hazard artifacts before they are deployed:
// both files load and agree with each other, the label vocabulary is sane,
// and predictions over the training dataset are well formed and accurate.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -model hazard_model.pkl \
//	  -encoder hazard_label_encoder.pkl \
//	  -data data/india_state_hazard_5000.csv \
//	  -min-accuracy 0.8
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/hazard"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxReported caps the per-phase error list so a broken model does not
// print one line per dataset row.
const maxReported = 20

func main() {
	modelPath := flag.String("model", hazard.ModelFile, "path to the hazard model artifact")
	encoderPath := flag.String("encoder", hazard.EncoderFile, "path to the hazard label encoder artifact")
	dataPath := flag.String("data", "", "optional hazard dataset CSV to score the model against")
	minAccuracy := flag.Float64("min-accuracy", 0, "fail when dataset accuracy is below this value")
	flag.Parse()

	os.Exit(run(os.Stdout, *modelPath, *encoderPath, *dataPath, *minAccuracy))
}

func run(out io.Writer, modelPath, encoderPath, dataPath string, minAccuracy float64) int {
	fmt.Fprintln(out, "=== Hazard Artifact Validation ===")
	fmt.Fprintln(out)

	pred, err := hazard.Load(modelPath, encoderPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	var samples []domain.HazardSample
	if dataPath != "" {
		f, err := os.Open(dataPath)
		if err != nil {
			fmt.Fprintf(out, "FATAL: open dataset: %v\n", err)
			return 1
		}
		samples, err = hazard.ReadDataset(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(out, "FATAL: %v\n", err)
			return 1
		}
	}

	phases := []*phase{validateVocabulary(pred)}
	if samples != nil {
		phases = append(phases,
			validateLabelCoverage(pred, samples),
			validatePredictions(out, pred, samples, minAccuracy),
		)
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxReported {
				fmt.Fprintf(out, "  ... %d more\n", len(p.errors)-maxReported)
				break
			}
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// validateVocabulary checks the label encoder holds sorted, unique, non-empty labels.
func validateVocabulary(pred *hazard.Predictor) *phase {
	p := &phase{name: "Label vocabulary"}
	labels := pred.Labels()
	if len(labels) < 2 {
		p.errorf("expected at least 2 hazard labels, got %d", len(labels))
	}
	if !slices.IsSorted(labels) {
		p.errorf("labels are not sorted: %v", labels)
	}
	if len(slices.Compact(slices.Clone(labels))) != len(labels) {
		p.errorf("labels contain duplicates: %v", labels)
	}
	for i, l := range labels {
		if l == "" {
			p.errorf("label %d is empty", i)
		}
	}
	return p
}

// validateLabelCoverage checks every dataset label is known to the encoder
// and every encoder label appears in the dataset.
func validateLabelCoverage(pred *hazard.Predictor, samples []domain.HazardSample) *phase {
	p := &phase{name: "Label coverage"}
	labels := pred.Labels()
	seen := make(map[string]bool, len(labels))
	for i, s := range samples {
		if !slices.Contains(labels, s.Label) {
			p.errorf("row %d: label %q unknown to encoder", i+1, s.Label)
		}
		seen[s.Label] = true
	}
	for _, l := range labels {
		if !seen[l] {
			p.errorf("encoder label %q never appears in dataset", l)
		}
	}
	return p
}

// validatePredictions scores every dataset row, checking each prediction is
// well formed and repeatable, and that overall accuracy meets minAccuracy.
func validatePredictions(out io.Writer, pred *hazard.Predictor, samples []domain.HazardSample, minAccuracy float64) *phase {
	p := &phase{name: "Dataset predictions"}
	labels := pred.Labels()

	var correct, unknownStates int
	for i, s := range samples {
		got, err := pred.Predict(s.HazardFeatures)
		if err != nil {
			p.errorf("row %d: predict: %v", i+1, err)
			continue
		}
		if !slices.Contains(labels, got.Label) {
			p.errorf("row %d: predicted label %q not in vocabulary", i+1, got.Label)
		}
		if got.Confidence <= 0 || got.Confidence > 1 {
			p.errorf("row %d: confidence %v outside (0,1]", i+1, got.Confidence)
		}
		if again, err := pred.Predict(s.HazardFeatures); err != nil || again != got {
			p.errorf("row %d: prediction not repeatable", i+1)
		}
		if got.Label == s.Label {
			correct++
		}
		if !pred.KnownState(s.State) {
			unknownStates++
		}
	}

	accuracy := float64(correct) / float64(len(samples))
	fmt.Fprintf(out, "Rows: %d, accuracy: %.3f, rows with unseen state: %d\n", len(samples), accuracy, unknownStates)
	if accuracy < minAccuracy {
		p.errorf("accuracy %.3f below minimum %.3f", accuracy, minAccuracy)
	}
	return p
}
