// Package score compares a simulated burn footprint with a ground-truth mask.
package score

import "fmt"

// Confusion counts cell outcomes. A cell is predicted burned only when its
// state reached 1.
type Confusion struct {
	TP, FP, FN, TN int
}

// Add records one cell.
func (c *Confusion) Add(truth, predicted bool) {
	switch {
	case truth && predicted:
		c.TP++
	case truth:
		c.FN++
	case predicted:
		c.FP++
	default:
		c.TN++
	}
}

// Merge returns the sum of c and o.
func (c Confusion) Merge(o Confusion) Confusion {
	return Confusion{TP: c.TP + o.TP, FP: c.FP + o.FP, FN: c.FN + o.FN, TN: c.TN + o.TN}
}

// Total is the number of recorded cells.
func (c Confusion) Total() int { return c.TP + c.FP + c.FN + c.TN }

// Result holds the derived ratios.
type Result struct {
	Precision float64
	Recall    float64
	F1        float64
	Confusion Confusion
}

func (r Result) String() string {
	return fmt.Sprintf("f1=%.4f precision=%.4f recall=%.4f", r.F1, r.Precision, r.Recall)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Result derives precision, recall and F1. Undefined ratios (empty
// denominators) are reported as 0.
func (c Confusion) Result() Result {
	r := Result{
		Precision: ratio(c.TP, c.TP+c.FP),
		Recall:    ratio(c.TP, c.TP+c.FN),
		Confusion: c,
	}
	if r.Precision > 0 && r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	return r
}

// Footprint scores state against truth cell by cell. The slices must have the
// same length.
func Footprint(state []float64, truth []bool) (Result, error) {
	if len(state) != len(truth) {
		return Result{}, fmt.Errorf("score: %d states vs %d mask cells", len(state), len(truth))
	}
	var c Confusion
	for i, s := range state {
		c.Add(truth[i], s == 1)
	}
	return c.Result(), nil
}
