package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldError describes one request field that could not be coerced.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field violation found in a request body,
// in the order the fields are declared by the endpoint.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// ParseFloodRequest coerces a /api/predict body into FloodFeatures.
// All six fields are required and must be finite numbers or numeric strings.
func ParseFloodRequest(body []byte) (FloodFeatures, error) {
	fs, err := decodeObject(body)
	if err != nil {
		return FloodFeatures{}, err
	}

	f := FloodFeatures{
		RainMM:         fs.number("rain_mm"),
		Rain3dMM:       fs.number("rain3d_mm"),
		RiverLevelM:    fs.number("river_level_m"),
		DangerLevelM:   fs.number("danger_level_m"),
		SoilMoistPct:   fs.number("soil_moist_pct"),
		UpstreamRainMM: fs.number("upstream_rain_mm"),
	}
	if err := fs.err(); err != nil {
		return FloodFeatures{}, err
	}
	return f, nil
}

// ParseHazardRequest coerces a /hazard_predict body into HazardFeatures.
// state must be a non-empty string; coastal and mountainous must be 0 or 1.
func ParseHazardRequest(body []byte) (HazardFeatures, error) {
	fs, err := decodeObject(body)
	if err != nil {
		return HazardFeatures{}, err
	}

	h := HazardFeatures{
		State:           fs.text("state"),
		AvgAnnualRainMM: fs.number("avg_annual_rain_mm"),
		AvgTempC:        fs.number("avg_temp_c"),
		AvgHumidityPct:  fs.number("avg_humidity_pct"),
		Coastal:         fs.flag("coastal"),
		Mountainous:     fs.flag("mountainous"),
	}
	if err := fs.err(); err != nil {
		return HazardFeatures{}, err
	}
	return h, nil
}

// fieldSet accumulates coercion failures over a decoded JSON object.
type fieldSet struct {
	values map[string]any
	errs   []FieldError
}

func decodeObject(body []byte) (*fieldSet, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "body", Message: "malformed JSON: " + err.Error()}}}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ValidationError{Fields: []FieldError{{Field: "body", Message: "expected a JSON object, got " + jsonType(v)}}}
	}
	return &fieldSet{values: obj}, nil
}

func (fs *fieldSet) fail(field, format string, args ...any) {
	fs.errs = append(fs.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (fs *fieldSet) err() error {
	if len(fs.errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: fs.errs}
}

// lookup returns the raw value, recording a failure for missing or null keys.
func (fs *fieldSet) lookup(field string) (any, bool) {
	raw, ok := fs.values[field]
	if !ok {
		fs.fail(field, "missing required field")
		return nil, false
	}
	if raw == nil {
		fs.fail(field, "must not be null")
		return nil, false
	}
	return raw, true
}

func (fs *fieldSet) number(field string) float64 {
	raw, ok := fs.lookup(field)
	if !ok {
		return 0
	}

	var s string
	switch x := raw.(type) {
	case json.Number:
		s = x.String()
	case string:
		s = strings.TrimSpace(x)
	default:
		fs.fail(field, "expected a number, got %s", jsonType(raw))
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fs.fail(field, "could not convert %q to a number", s)
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		fs.fail(field, "must be a finite number")
		return 0
	}
	return v
}

func (fs *fieldSet) flag(field string) int {
	raw, ok := fs.lookup(field)
	if !ok {
		return 0
	}

	var v int64
	switch x := raw.(type) {
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			f, ferr := x.Float64()
			if ferr != nil || f != math.Trunc(f) {
				fs.fail(field, "expected an integer, got %s", x.String())
				return 0
			}
			n = int64(f)
		}
		v = n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			fs.fail(field, "could not convert %q to an integer", x)
			return 0
		}
		v = n
	default:
		fs.fail(field, "expected an integer, got %s", jsonType(raw))
		return 0
	}

	if v != 0 && v != 1 {
		fs.fail(field, "must be 0 or 1, got %d", v)
		return 0
	}
	return int(v)
}

func (fs *fieldSet) text(field string) string {
	raw, ok := fs.lookup(field)
	if !ok {
		return ""
	}
	s, isString := raw.(string)
	if !isString {
		fs.fail(field, "expected a string, got %s", jsonType(raw))
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		fs.fail(field, "must not be empty")
	}
	return s
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
