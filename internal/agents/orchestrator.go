package agents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hermes/internal/domain/pricing"
	"hermes/internal/domain/product"
	"hermes/internal/domain/recommendation"
	"hermes/internal/domain/sentiment"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Result is the output of one full pipeline run
type Result struct {
	RunID      uuid.UUID
	Query      string
	Budget     float64
	Products   []product.Product
	Summary    map[string]pricing.Summary
	Sentiments map[string]sentiment.Result
	Ranked     []recommendation.Recommendation
	Elapsed    time.Duration
}

// Orchestrator runs the shopping pipeline:
// search -> price comparison -> review analysis -> recommendation.
// Stages run sequentially; each fully consumes its input before the
// next starts. There is no mid-stage cancellation: a caller that
// wants to abort simply discards the result.
type Orchestrator struct {
	search *SearchAgent
	price  *PriceComparisonAgent
	review *ReviewAnalysisAgent
	reco   *RecommendationAgent
	log    *logger.Logger
}

// NewOrchestrator wires the four pipeline agents together
func NewOrchestrator(
	search *SearchAgent,
	price *PriceComparisonAgent,
	review *ReviewAnalysisAgent,
	reco *RecommendationAgent,
) *Orchestrator {
	return &Orchestrator{
		search: search,
		price:  price,
		review: review,
		reco:   reco,
		log:    logger.Get().With("component", "orchestrator"),
	}
}

// Run executes one pipeline pass for the query.
// Returns ErrNoResults when every provider came back empty; that is a
// user-visible outcome, not an infrastructure failure. A history
// store failure during price comparison propagates as an error.
func (o *Orchestrator) Run(ctx context.Context, query string, budget float64, maxResults int) (*Result, error) {
	start := time.Now()
	runID := uuid.New()
	log := o.log.With("run_id", runID.String(), "query", query)

	log.Infof("searching %d providers", len(o.search.providers))
	products := o.search.Search(ctx, query, maxResults)
	if len(products) == 0 {
		metrics.Searches.WithLabelValues("no_results").Inc()
		return nil, errors.Wrapf(errors.ErrNoResults, "query %q", query)
	}
	log.Infof("found %d products", len(products))

	summary, err := o.price.Compare(ctx, products)
	if err != nil {
		metrics.Searches.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "price comparison")
	}

	sentiments := o.review.Analyze(ctx, products)

	ranked := o.reco.Recommend(products, summary, sentiments, budget)

	elapsed := time.Since(start)
	metrics.Searches.WithLabelValues("ok").Inc()
	metrics.SearchDuration.Observe(elapsed.Seconds())
	log.Infof("pipeline finished in %s (%d groups, %d ranked)", elapsed, len(summary), len(ranked))

	return &Result{
		RunID:      runID,
		Query:      query,
		Budget:     budget,
		Products:   products,
		Summary:    summary,
		Sentiments: sentiments,
		Ranked:     ranked,
		Elapsed:    elapsed,
	}, nil
}
