package ml

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownLabel is returned when encoding a label outside the fitted vocabulary.
var ErrUnknownLabel = errors.New("unknown label")

// LabelEncoder maps string labels to dense integer indices in sorted order.
type LabelEncoder struct {
	Classes []string
}

// FitLabelEncoder builds an encoder over the distinct labels.
func FitLabelEncoder(labels []string) *LabelEncoder {
	return &LabelEncoder{Classes: sortedUnique(labels)}
}

// Len returns the vocabulary size.
func (e *LabelEncoder) Len() int { return len(e.Classes) }

// Encode returns the index of label.
func (e *LabelEncoder) Encode(label string) (int, error) {
	i, ok := slices.BinarySearch(e.Classes, label)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return i, nil
}

// EncodeAll encodes every label, failing on the first unknown one.
func (e *LabelEncoder) EncodeAll(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		idx, err := e.Encode(l)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = idx
	}
	return out, nil
}

// Decode returns the label at index i.
func (e *LabelEncoder) Decode(i int) (string, error) {
	if i < 0 || i >= len(e.Classes) {
		return "", fmt.Errorf("label index %d outside [0,%d)", i, len(e.Classes))
	}
	return e.Classes[i], nil
}

// OneHotEncoder expands a categorical column into one indicator column per
// known category. Unknown categories encode to all zeros.
type OneHotEncoder struct {
	Categories []string
}

// FitOneHot builds an encoder over the distinct values.
func FitOneHot(values []string) *OneHotEncoder {
	return &OneHotEncoder{Categories: sortedUnique(values)}
}

// Width returns the number of indicator columns.
func (e *OneHotEncoder) Width() int { return len(e.Categories) }

// Known reports whether v is a fitted category.
func (e *OneHotEncoder) Known(v string) bool {
	_, ok := slices.BinarySearch(e.Categories, v)
	return ok
}

// AppendTo appends the indicator columns for v to dst.
func (e *OneHotEncoder) AppendTo(dst []float64, v string) []float64 {
	start := len(dst)
	dst = append(dst, make([]float64, len(e.Categories))...)
	if i, ok := slices.BinarySearch(e.Categories, v); ok {
		dst[start+i] = 1
	}
	return dst
}

func sortedUnique(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
