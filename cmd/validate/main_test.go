package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/flood-hazard-service/internal/hazard"
)

// writeFixtures writes a small separable dataset and artifacts trained on it.
func writeFixtures(t *testing.T) (modelPath, encoderPath, dataPath string) {
	t.Helper()
	dir := t.TempDir()

	var b strings.Builder
	b.WriteString("state,avg_annual_rain_mm,avg_temp_c,avg_humidity_pct,coastal,mountainous,hazard_label\n")
	states := []string{"Assam", "Goa", "Rajasthan"}
	for i := range 150 {
		rain := 400 + float64(i%50)*50
		coastal := i % 2
		label := "flood-prone"
		switch {
		case rain < 900:
			label = "drought-prone"
		case coastal == 1:
			label = "cyclone-prone"
		}
		fmt.Fprintf(&b, "%s,%.1f,%.1f,%.1f,%d,0,%s\n", states[i%3], rain, 20+float64(i%10), 50+float64(i%30), coastal, label)
	}
	dataPath = filepath.Join(dir, "hazard.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(b.String()), 0o600))

	f, err := os.Open(dataPath)
	require.NoError(t, err)
	defer f.Close()
	samples, err := hazard.ReadDataset(f)
	require.NoError(t, err)

	opts := hazard.DefaultTrainOptions()
	opts.Trees = 20
	res, err := hazard.Train(context.Background(), samples, opts)
	require.NoError(t, err)
	modelPath, encoderPath, err = res.SaveArtifacts(dir)
	require.NoError(t, err)
	return modelPath, encoderPath, dataPath
}

func TestRun_Passes(t *testing.T) {
	modelPath, encoderPath, dataPath := writeFixtures(t)

	var out bytes.Buffer
	code := run(&out, modelPath, encoderPath, dataPath, 0.8)

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All validations passed.")
	assert.Contains(t, out.String(), "Rows: 150")
}

func TestRun_AccuracyThreshold(t *testing.T) {
	modelPath, encoderPath, dataPath := writeFixtures(t)

	var out bytes.Buffer
	code := run(&out, modelPath, encoderPath, dataPath, 1.01)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "below minimum")
}

func TestRun_MissingArtifacts(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	code := run(&out, filepath.Join(dir, "nope.pkl"), filepath.Join(dir, "nope2.pkl"), "", 0)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "FATAL")
}

func TestRun_UnknownDatasetLabel(t *testing.T) {
	modelPath, encoderPath, dataPath := writeFixtures(t)

	data, err := os.ReadFile(dataPath)
	require.NoError(t, err)
	data = append(data, []byte("Goa,3000,27,80,1,0,tsunami-prone\n")...)
	require.NoError(t, os.WriteFile(dataPath, data, 0o600))

	var out bytes.Buffer
	code := run(&out, modelPath, encoderPath, dataPath, 0)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), `"tsunami-prone" unknown to encoder`)
}
