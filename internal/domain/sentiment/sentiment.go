package sentiment

import "context"

// Score is the raw classifier output for a single text
type Score struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
}

// Result is the fused sentiment for one product.
//
// Pos and Neg are ratios in [0,1] that sum to ~1 (rounding aside).
// Two degenerate shapes are meaningful and distinct: the neutral
// default {0.5, 0.5} means analysis was never attempted (no analyzer,
// no texts), while {0, 0} means every analyzed text failed.
type Result struct {
	Pos     float64 `json:"pos"`
	Neg     float64 `json:"neg"`
	Details []Score `json:"details"`
}

// Neutral returns the default result used when no signal is available
func Neutral() Result {
	return Result{Pos: 0.5, Neg: 0.5}
}

// Analyzer scores a single text. Implementations call an external
// classifier and are expected to fail per-text, not per-batch.
type Analyzer interface {
	AnalyzeText(ctx context.Context, text string) (Score, error)
}
