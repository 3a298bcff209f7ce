package agents

import (
	"context"

	"github.com/shopspring/decimal"

	"hermes/internal/domain/product"
	"hermes/internal/domain/sentiment"
	"hermes/internal/metrics"
	"hermes/pkg/logger"
)

// corpusCap bounds how many texts are scored per product to keep
// external inference volume modest.
const corpusCap = 8

const epsilon = 1e-9

// ReviewAnalysisAgent fuses review sentiment per product.
//
// A nil analyzer means sentiment is disabled; every product then gets
// the neutral default without any external call.
type ReviewAnalysisAgent struct {
	analyzer sentiment.Analyzer
	log      *logger.Logger
}

// NewReviewAnalysisAgent creates a review analysis agent.
// Pass a nil analyzer to disable sentiment analysis entirely.
func NewReviewAnalysisAgent(analyzer sentiment.Analyzer) *ReviewAnalysisAgent {
	return &ReviewAnalysisAgent{
		analyzer: analyzer,
		log:      logger.Get().With("agent", "review_analysis"),
	}
}

// Analyze returns the sentiment result for every product, keyed by
// product ID. Products with no usable text, and all products when the
// analyzer is disabled, get the neutral {0.5, 0.5} default.
func (a *ReviewAnalysisAgent) Analyze(ctx context.Context, products []product.Product) map[string]sentiment.Result {
	results := make(map[string]sentiment.Result, len(products))

	for _, p := range products {
		results[p.ID] = a.analyzeProduct(ctx, p)
	}

	return results
}

// analyzeProduct scores one product's text corpus
func (a *ReviewAnalysisAgent) analyzeProduct(ctx context.Context, p product.Product) sentiment.Result {
	texts := corpus(p)
	if len(texts) == 0 || a.analyzer == nil {
		return sentiment.Neutral()
	}

	if len(texts) > corpusCap {
		texts = texts[:corpusCap]
	}

	var posTotal, negTotal float64
	details := make([]sentiment.Score, 0, len(texts))

	for _, text := range texts {
		score, err := a.analyzer.AnalyzeText(ctx, text)
		if err != nil {
			// A transient per-text failure must not abort the
			// product's whole analysis.
			a.log.Warnf("sentiment failed for %s, skipping text: %v", p.ID, err)
			metrics.SentimentRequests.WithLabelValues("error").Inc()
			continue
		}

		metrics.SentimentRequests.WithLabelValues("success").Inc()
		posTotal += score.Positive
		negTotal += score.Negative
		details = append(details, score)
	}

	// When every text failed the totals stay zero and both ratios
	// degenerate to 0: "tried and got nothing usable", distinct from
	// the neutral default.
	total := posTotal + negTotal
	if total < epsilon {
		total = epsilon
	}

	return sentiment.Result{
		Pos:     round3(posTotal / total),
		Neg:     round3(negTotal / total),
		Details: details,
	}
}

// corpus builds the texts to score: non-empty review texts, falling
// back to the title when there are none.
func corpus(p product.Product) []string {
	var texts []string
	for _, r := range p.Reviews {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	if len(texts) == 0 && p.Title != "" {
		texts = []string{p.Title}
	}
	return texts
}

// round3 rounds to 3 decimal places
func round3(v float64) float64 {
	return decimal.NewFromFloat(v).Round(3).InexactFloat64()
}
