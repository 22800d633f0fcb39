// Package flood generates the synthetic flood training set and trains the
// flood severity classifier on it.
package flood

import (
	"math"
	"math/rand/v2"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
)

// DangerLevels are the river danger stages, in meters, the generator draws from.
var DangerLevels = []float64{36.0, 49.5, 50.0, 73.0}

// Generator distribution parameters.
const (
	rainShape = 2.0
	rainScale = 20.0

	antecedentMean = 40.0
	antecedentSD   = 20.0

	riverOffsetMean = -1.0
	riverOffsetSD   = 2.0

	soilBase  = 20.0
	soilSlope = 0.3
	soilSD    = 10.0
	soilMin   = 10.0
	soilMax   = 95.0

	upstreamMean = 10.0
	upstreamSD   = 25.0
)

// Generate draws n labeled flood samples from a source seeded with seed.
// The same seed always yields the same samples. Alert and severity are
// computed on the raw draws; stored measurements are rounded afterwards.
func Generate(n int, seed uint64) []domain.FloodSample {
	if n <= 0 {
		return []domain.FloodSample{}
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x666c6f6f64))

	samples := make([]domain.FloodSample, n)
	for i := range samples {
		danger := DangerLevels[rng.IntN(len(DangerLevels))]
		rain := gamma(rng, rainShape, rainScale)
		rain3d := max(0, rain+normal(rng, antecedentMean, antecedentSD))
		river := danger + normal(rng, riverOffsetMean, riverOffsetSD)
		soil := clamp(soilBase+soilSlope*rain3d+normal(rng, 0, soilSD), soilMin, soilMax)
		upstream := max(0, rain+normal(rng, upstreamMean, upstreamSD))

		samples[i] = domain.FloodSample{
			FloodFeatures: domain.FloodFeatures{
				RainMM:         round(rain, 1),
				Rain3dMM:       round(rain3d, 1),
				RiverLevelM:    round(river, 2),
				DangerLevelM:   danger,
				SoilMoistPct:   round(soil, 1),
				UpstreamRainMM: round(upstream, 1),
			},
			TBAAlert: domain.TBAAlert(rain, rain3d, river, danger),
			Severity: Severity(rain, rain3d, river, danger, soil, upstream),
		}
	}
	return samples
}

// Severity labels a raw observation. The cascade checks High before
// Moderate and the first match wins; several observations satisfy both.
func Severity(rain, rain3d, river, danger, soil, upstream float64) domain.Severity {
	switch {
	case (rain3d > 250 && river > danger) || (rain > 160 && upstream > 180):
		return domain.SeverityHigh
	case (rain3d > 150 && river > danger-1) || (rain > 90 && soil > 60):
		return domain.SeverityModerate
	default:
		return domain.SeverityLow
	}
}

// Distribution counts samples per severity class, indexed by class.
func Distribution(samples []domain.FloodSample) [domain.SeverityClasses]int {
	var counts [domain.SeverityClasses]int
	for _, s := range samples {
		if s.Severity >= 0 && int(s.Severity) < domain.SeverityClasses {
			counts[s.Severity]++
		}
	}
	return counts
}

func normal(rng *rand.Rand, mean, sd float64) float64 {
	return mean + sd*rng.NormFloat64()
}

// gamma draws from Gamma(shape, scale) with the Marsaglia–Tsang method.
func gamma(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1 {
		u := rng.Float64()
		return gamma(rng, shape+1, scale) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x || math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// round rounds half to even at the given number of decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}
