package domain

// Alert thresholds.
const (
	AlertRainMM        = 100.0
	AlertRain3dMM      = 220.0
	AlertDangerMarginM = 0.5
)

// TBAAlert returns 1 when rainfall or river stage crosses an alert threshold,
// 0 otherwise. Training data and live requests must both go through this
// function; the trained model depends on the exact formula.
func TBAAlert(rainMM, rain3dMM, riverLevelM, dangerLevelM float64) int {
	if rainMM > AlertRainMM ||
		riverLevelM > dangerLevelM-AlertDangerMarginM ||
		rain3dMM > AlertRain3dMM {
		return 1
	}
	return 0
}
