// Package domain models the flood and regional hazard observations scored by
// the prediction service.
//
// # Flood Features
//
// A flood observation carries six raw measurements:
//
//	Rain_mm          rainfall over the last 24 hours
//	Rain3d_mm        cumulative rainfall over 3 days (antecedent accumulation)
//	RiverLevel_m     current river stage, absolute elevation in meters
//	DangerLevel_m    the river's danger stage, absolute elevation in meters
//	SoilMoist_pct    soil saturation, 10–95 %
//	UpstreamRain_mm  rainfall in the upstream catchment
//
// The classifier sees a seventh, derived column: TBA_Alert.
//
// # Threshold-Based Alert
//
// TBA_Alert is 1 when any of these hold (strict comparisons):
//
//	Rain_mm      > 100
//	RiverLevel_m > DangerLevel_m - 0.5
//	Rain3d_mm    > 220
//
// The same function computes the training column and the live request
// column; see [TBAAlert].
//
// # Severity
//
// Flood severity is ordinal: 0 Low, 1 Moderate, 2 High. Labels only exist
// for synthetic training samples; live requests get a predicted index.
//
// # Hazard Labels
//
// Regional hazard classification is independent of flood severity. A region
// is described by its state name, annual rainfall, mean temperature, mean
// humidity and two 0/1 geography flags (coastal, mountainous). The label is
// a free-form category such as "flood-prone" or "drought-prone"; the
// vocabulary comes from the training data.
package domain
