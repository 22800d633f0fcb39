package ml

// Accuracy returns the fraction of positions where pred equals truth.
func Accuracy(truth, pred []int) float64 {
	if len(truth) == 0 {
		return 0
	}
	var hit int
	for i := range truth {
		if truth[i] == pred[i] {
			hit++
		}
	}
	return float64(hit) / float64(len(truth))
}

// ClassMetrics holds precision, recall and F1 for one class or average.
type ClassMetrics struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report is a per-class classification report. Metrics with a zero
// denominator are reported as 0.
type Report struct {
	Classes     []ClassMetrics
	Accuracy    float64
	MacroAvg    ClassMetrics
	WeightedAvg ClassMetrics
	Total       int
}

// ClassificationReport scores pred against truth. labels names class index k;
// every class in labels gets a row even if it has no support.
func ClassificationReport(truth, pred []int, labels []string) Report {
	k := len(labels)
	tp := make([]int, k)
	predicted := make([]int, k)
	support := make([]int, k)
	for i := range truth {
		if t := truth[i]; t >= 0 && t < k {
			support[t]++
			if pred[i] == t {
				tp[t]++
			}
		}
		if p := pred[i]; p >= 0 && p < k {
			predicted[p]++
		}
	}

	r := Report{
		Classes:     make([]ClassMetrics, k),
		Accuracy:    Accuracy(truth, pred),
		Total:       len(truth),
		MacroAvg:    ClassMetrics{Label: "macro avg", Support: len(truth)},
		WeightedAvg: ClassMetrics{Label: "weighted avg", Support: len(truth)},
	}
	for c := 0; c < k; c++ {
		m := ClassMetrics{
			Label:     labels[c],
			Precision: ratio(tp[c], predicted[c]),
			Recall:    ratio(tp[c], support[c]),
			Support:   support[c],
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		r.Classes[c] = m

		r.MacroAvg.Precision += m.Precision / float64(k)
		r.MacroAvg.Recall += m.Recall / float64(k)
		r.MacroAvg.F1 += m.F1 / float64(k)
		if r.Total > 0 {
			share := float64(m.Support) / float64(r.Total)
			r.WeightedAvg.Precision += m.Precision * share
			r.WeightedAvg.Recall += m.Recall * share
			r.WeightedAvg.F1 += m.F1 * share
		}
	}
	return r
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
