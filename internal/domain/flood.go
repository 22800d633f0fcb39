package domain

// Severity is the ordinal flood severity class.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityModerate
	SeverityHigh
)

// SeverityClasses is the number of flood severity classes.
const SeverityClasses = 3

// String returns "Low", "Moderate" or "High", and "Unknown" for any other index.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityModerate:
		return "Moderate"
	case SeverityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// FloodFeatureNames lists the classifier's input columns in training order.
var FloodFeatureNames = []string{
	"Rain_mm",
	"Rain3d_mm",
	"RiverLevel_m",
	"DangerLevel_m",
	"SoilMoist_pct",
	"UpstreamRain_mm",
	"TBA_Alert",
}

// FloodFeatures holds the raw measurements of one flood observation.
type FloodFeatures struct {
	RainMM         float64 `json:"rain_mm"`
	Rain3dMM       float64 `json:"rain3d_mm"`
	RiverLevelM    float64 `json:"river_level_m"`
	DangerLevelM   float64 `json:"danger_level_m"`
	SoilMoistPct   float64 `json:"soil_moist_pct"`
	UpstreamRainMM float64 `json:"upstream_rain_mm"`
}

// Alert evaluates the threshold-based alert for these measurements.
func (f FloodFeatures) Alert() int {
	return TBAAlert(f.RainMM, f.Rain3dMM, f.RiverLevelM, f.DangerLevelM)
}

// Vector builds the classifier input row, in FloodFeatureNames order, with
// TBA_Alert recomputed from the measurements.
func (f FloodFeatures) Vector() []float64 {
	return f.vector(f.Alert())
}

func (f FloodFeatures) vector(alert int) []float64 {
	return []float64{
		f.RainMM,
		f.Rain3dMM,
		f.RiverLevelM,
		f.DangerLevelM,
		f.SoilMoistPct,
		f.UpstreamRainMM,
		float64(alert),
	}
}

// FloodSample is a labeled flood observation produced by the synthetic generator.
// TBAAlert was computed before the measurements were rounded for storage.
type FloodSample struct {
	FloodFeatures
	TBAAlert int      `json:"tba_alert"`
	Severity Severity `json:"flood_severity"`
}

// Vector returns the stored training row, using the stored alert flag.
func (s FloodSample) Vector() []float64 {
	return s.vector(s.TBAAlert)
}

// FloodPrediction is the response body of a flood severity prediction.
type FloodPrediction struct {
	SeverityIndex int     `json:"severity_index"`
	SeverityLabel string  `json:"severity_label"`
	TBAAlert      int     `json:"tba_alert"`
	ModelAccuracy float64 `json:"model_accuracy"`
}
