package ml

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelEncoder_RoundTrip(t *testing.T) {
	labels := []string{"flood-prone", "drought-prone", "cyclone-prone", "flood-prone", "landslide-prone", "drought-prone"}
	enc := FitLabelEncoder(labels)

	assert.Equal(t, []string{"cyclone-prone", "drought-prone", "flood-prone", "landslide-prone"}, enc.Classes)
	assert.Equal(t, 4, enc.Len())

	for _, l := range labels {
		i, err := enc.Encode(l)
		require.NoError(t, err)
		back, err := enc.Decode(i)
		require.NoError(t, err)
		assert.Equal(t, l, back)
	}

	codes, err := enc.EncodeAll(labels)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 0, 2, 3, 1}, codes)
}

func TestLabelEncoder_Errors(t *testing.T) {
	enc := FitLabelEncoder([]string{"a", "b"})

	_, err := enc.Encode("c")
	require.ErrorIs(t, err, ErrUnknownLabel)
	assert.Contains(t, err.Error(), `"c"`)

	_, err = enc.EncodeAll([]string{"a", "zzz"})
	require.ErrorIs(t, err, ErrUnknownLabel)
	assert.Contains(t, err.Error(), "row 1")

	_, err = enc.Decode(2)
	require.Error(t, err)
	_, err = enc.Decode(-1)
	require.Error(t, err)
}

func TestOneHotEncoder(t *testing.T) {
	enc := FitOneHot([]string{"Kerala", "Assam", "Kerala", "Goa"})
	assert.Equal(t, 3, enc.Width())
	assert.True(t, enc.Known("Goa"))
	assert.False(t, enc.Known("Punjab"))

	assert.Equal(t, []float64{9, 0, 0, 1}, enc.AppendTo([]float64{9}, "Kerala"))
	assert.Equal(t, []float64{1, 0, 0}, enc.AppendTo(nil, "Assam"))
	assert.Equal(t, []float64{0, 0, 0}, enc.AppendTo(nil, "Punjab"), "unknown category encodes to zeros")
}

func TestTrainTestSplit(t *testing.T) {
	train, test, err := TrainTestSplit(600, 0.3, 42)
	require.NoError(t, err)
	assert.Len(t, test, 180)
	assert.Len(t, train, 420)

	all := append(slices.Clone(train), test...)
	slices.Sort(all)
	assert.Equal(t, allIndices(600), all, "train and test partition every index exactly once")

	again, _, err := TrainTestSplit(600, 0.3, 42)
	require.NoError(t, err)
	assert.Equal(t, train, again)

	_, _, err = TrainTestSplit(1, 0.3, 42)
	require.Error(t, err)
	_, _, err = TrainTestSplit(10, 1.5, 42)
	require.Error(t, err)
}

func TestStratifiedSplit(t *testing.T) {
	y := make([]int, 0, 100)
	for range 70 {
		y = append(y, 0)
	}
	for range 20 {
		y = append(y, 1)
	}
	for range 10 {
		y = append(y, 2)
	}

	train, test, err := StratifiedSplit(y, 0.3, 42)
	require.NoError(t, err)
	assert.Len(t, train, 70)
	assert.Len(t, test, 30)

	count := func(idx []int, class int) int {
		var n int
		for _, i := range idx {
			if y[i] == class {
				n++
			}
		}
		return n
	}
	assert.Equal(t, 21, count(test, 0))
	assert.Equal(t, 6, count(test, 1))
	assert.Equal(t, 3, count(test, 2))
	assert.Equal(t, 7, count(train, 2))
}

func TestStratifiedSplit_SingletonClass(t *testing.T) {
	_, _, err := StratifiedSplit([]int{0, 0, 0, 1}, 0.3, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class 1")
}

func TestClassificationReport(t *testing.T) {
	truth := []int{0, 0, 1, 1, 2, 2}
	pred := []int{0, 1, 1, 1, 2, 0}
	r := ClassificationReport(truth, pred, []string{"a", "b", "c"})

	assert.InDelta(t, 4.0/6.0, r.Accuracy, 1e-12)
	assert.Equal(t, 6, r.Total)

	assert.InDelta(t, 0.5, r.Classes[0].Precision, 1e-12)
	assert.InDelta(t, 0.5, r.Classes[0].Recall, 1e-12)
	assert.InDelta(t, 0.5, r.Classes[0].F1, 1e-12)

	assert.InDelta(t, 2.0/3.0, r.Classes[1].Precision, 1e-12)
	assert.InDelta(t, 1.0, r.Classes[1].Recall, 1e-12)
	assert.InDelta(t, 0.8, r.Classes[1].F1, 1e-12)

	assert.InDelta(t, 1.0, r.Classes[2].Precision, 1e-12)
	assert.InDelta(t, 0.5, r.Classes[2].Recall, 1e-12)
	assert.InDelta(t, 2.0/3.0, r.Classes[2].F1, 1e-12)
	assert.Equal(t, 2, r.Classes[2].Support)

	assert.InDelta(t, (0.5+0.8+2.0/3.0)/3, r.MacroAvg.F1, 1e-12)
	assert.InDelta(t, (0.5+0.8+2.0/3.0)/3, r.WeightedAvg.F1, 1e-12, "equal support makes weighted equal macro")
}

func TestClassificationReport_NoPredictionsForClass(t *testing.T) {
	r := ClassificationReport([]int{0, 1}, []int{0, 0}, []string{"a", "b"})
	assert.Zero(t, r.Classes[1].Precision)
	assert.Zero(t, r.Classes[1].F1)
}

func TestArtifact_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "encoder.pkl")
	enc := FitLabelEncoder([]string{"x", "y", "z"})
	require.NoError(t, SaveArtifact(path, "label-encoder", enc))

	var got LabelEncoder
	require.NoError(t, LoadArtifact(path, "label-encoder", &got))
	assert.Equal(t, enc.Classes, got.Classes)

	var wrong RandomForest
	err := LoadArtifact(path, "random-forest", &wrong)
	require.ErrorIs(t, err, ErrArtifactKind)
}

func TestArtifact_Missing(t *testing.T) {
	var got LabelEncoder
	err := LoadArtifact(filepath.Join(t.TempDir(), "absent.pkl"), "label-encoder", &got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load artifact")
}
