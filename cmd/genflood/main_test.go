package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenflood_WritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "flood.csv")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--samples", "50", "--seed", "7", "--out", out, "--log-level", "error"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 51)
	assert.Equal(t, "FloodSeverity", rows[0][len(rows[0])-1])
}

func TestGenflood_StdoutIsDeterministic(t *testing.T) {
	run := func() string {
		var buf bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"-n", "20", "--log-level", "error"})
		require.NoError(t, cmd.Execute())
		return buf.String()
	}
	assert.Equal(t, run(), run())
}

func TestGenflood_RejectsNonPositiveSamples(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--samples", "0"})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--samples")
}
