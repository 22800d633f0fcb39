package flood

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
)

// WriteCSV writes samples with a header of domain.FloodFeatureNames followed
// by FloodSeverity.
func WriteCSV(w io.Writer, samples []domain.FloodSample) error {
	cw := csv.NewWriter(w)

	header := append(append([]string{}, domain.FloodFeatureNames...), "FloodSeverity")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	row := make([]string, len(header))
	for i, s := range samples {
		for j, v := range s.Vector() {
			row[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		row[len(row)-1] = strconv.Itoa(int(s.Severity))
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
