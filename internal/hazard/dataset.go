// Package hazard trains, persists and serves the regional hazard classifier:
// a one-hot state encoding plus five numeric columns feeding a class-balanced
// random forest, with a label encoder mapping class indices to hazard names.
package hazard

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
)

// Dataset columns. Any order is accepted; extra columns are ignored.
const (
	colState       = "state"
	colAnnualRain  = "avg_annual_rain_mm"
	colTemp        = "avg_temp_c"
	colHumidity    = "avg_humidity_pct"
	colCoastal     = "coastal"
	colMountainous = "mountainous"
	colLabel       = "hazard_label"
)

var requiredColumns = []string{colState, colAnnualRain, colTemp, colHumidity, colCoastal, colMountainous, colLabel}

// ErrNoRows is returned for a dataset with a header and no data rows.
var ErrNoRows = errors.New("dataset has no rows")

// ReadDataset parses the hazard training CSV. Errors name the offending line
// and column.
func ReadDataset(r io.Reader) ([]domain.HazardSample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("read dataset: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset: header: %w", err)
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := pos[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("read dataset: header missing column(s) %s", strings.Join(missing, ", "))
	}

	var samples []domain.HazardSample
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		line, _ := cr.FieldPos(0)

		s, err := parseRow(rec, pos)
		if err != nil {
			return nil, fmt.Errorf("read dataset: line %d: %w", line, err)
		}
		samples = append(samples, s)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("read dataset: %w", ErrNoRows)
	}
	return samples, nil
}

func parseRow(rec []string, pos map[string]int) (domain.HazardSample, error) {
	field := func(col string) string { return strings.TrimSpace(rec[pos[col]]) }

	var s domain.HazardSample
	var err error

	if s.State = field(colState); s.State == "" {
		return s, fmt.Errorf("column %q: empty value", colState)
	}
	if s.Label = field(colLabel); s.Label == "" {
		return s, fmt.Errorf("column %q: empty value", colLabel)
	}
	if s.AvgAnnualRainMM, err = parseNumber(colAnnualRain, field(colAnnualRain)); err != nil {
		return s, err
	}
	if s.AvgTempC, err = parseNumber(colTemp, field(colTemp)); err != nil {
		return s, err
	}
	if s.AvgHumidityPct, err = parseNumber(colHumidity, field(colHumidity)); err != nil {
		return s, err
	}
	if s.Coastal, err = parseFlag(colCoastal, field(colCoastal)); err != nil {
		return s, err
	}
	if s.Mountainous, err = parseFlag(colMountainous, field(colMountainous)); err != nil {
		return s, err
	}
	return s, nil
}

func parseNumber(col, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %q is not a number", col, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("column %q: %q is not finite", col, v)
	}
	return f, nil
}

// parseFlag accepts "0"/"1" and their float spellings ("1.0").
func parseFlag(col, v string) (int, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || (f != 0 && f != 1) {
		return 0, fmt.Errorf("column %q: %q is not 0 or 1", col, v)
	}
	return int(f), nil
}
