package domain

// HazardNumericFeatureNames lists the numeric hazard columns in pipeline order.
// The categorical "state" column is encoded separately.
var HazardNumericFeatureNames = []string{
	"avg_annual_rain_mm",
	"avg_temp_c",
	"avg_humidity_pct",
	"coastal",
	"mountainous",
}

// HazardFeatures describes a region for hazard classification.
type HazardFeatures struct {
	State           string  `json:"state"`
	AvgAnnualRainMM float64 `json:"avg_annual_rain_mm"`
	AvgTempC        float64 `json:"avg_temp_c"`
	AvgHumidityPct  float64 `json:"avg_humidity_pct"`
	Coastal         int     `json:"coastal"`
	Mountainous     int     `json:"mountainous"`
}

// Numeric returns the numeric columns in HazardNumericFeatureNames order.
func (h HazardFeatures) Numeric() []float64 {
	return []float64{
		h.AvgAnnualRainMM,
		h.AvgTempC,
		h.AvgHumidityPct,
		float64(h.Coastal),
		float64(h.Mountainous),
	}
}

// HazardSample is a labeled row of the hazard training dataset.
type HazardSample struct {
	HazardFeatures
	Label string `json:"hazard_label"`
}

// HazardPrediction is the response body of a hazard prediction.
type HazardPrediction struct {
	Label      string  `json:"hazard_label"`
	Confidence float64 `json:"hazard_confidence"`
}
