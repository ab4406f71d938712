package service

import (
	"context"
	"time"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/engine"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// Recommender runs the reward engine and records what it decided.
type Recommender struct {
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewRecommender creates the recommender.
func NewRecommender(metrics *observability.Metrics, logger *zap.Logger) *Recommender {
	return &Recommender{metrics: metrics, logger: logger}
}

// Evaluate ranks every card for the purchase. The engine never fails, so
// neither does this; ctx only carries the trace.
func (r *Recommender) Evaluate(ctx context.Context, p domain.Purchase, s domain.CardSettings) domain.EvaluationResult {
	_, span := tracer.Start(ctx, "Recommender.Evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.Float64("purchase.amount_aed", p.AmountAED),
		attribute.String("purchase.category", string(p.Category)),
		attribute.String("purchase.channel", string(p.Channel)),
		attribute.String("purchase.location", string(p.Location)),
	)

	start := time.Now()
	result := engine.Evaluate(p, s)
	r.metrics.RecordDuration("evaluate", time.Since(start))
	r.metrics.IncrEvaluation(result.BestCard)

	if result.BestCard != nil {
		span.SetAttributes(attribute.String("best_card", string(result.BestCard.CardID)))
		r.logger.Debug("purchase evaluated",
			zap.String("category", string(p.Category)),
			zap.String("best_card", string(result.BestCard.CardID)),
			zap.Float64("effective_rate", result.BestCard.EffectiveRate),
		)
	} else {
		r.logger.Debug("purchase evaluated, no card earns a reward",
			zap.String("category", string(p.Category)),
			zap.Float64("amount_aed", p.AmountAED),
		)
	}
	return result
}
