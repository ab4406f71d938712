package handler

import (
	"net/http"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// evaluateHandler serves POST /v1/evaluate. With full consent the
// evaluation is logged here, so clients using this route must not also
// call /v1/log-card-request for the same purchase.
func evaluateHandler(svc Services, cfg Config, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/evaluate")
		defer span.End()

		var req domain.EvaluateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := req.Purchase.Validate(); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		settings, err := svc.Settings.Resolve(ctx, req.Settings, ProfileTokenFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		result := svc.Recommender.Evaluate(ctx, req.Purchase, settings)

		if consent, ok := consentFromRequest(r, cfg.ConsentCookieName); ok && consent == domain.ConsentFull && svc.Usage != nil {
			resp := svc.Usage.Log(consent, domain.LogCardRequestPayload{
				Purchase: req.Purchase,
				BestCard: result.BestCard,
				Results:  result.Results,
				Settings: settings,
				Consent:  consent,
			}, requestMetadata(r, nil))
			span.SetAttributes(attribute.Bool("usage_log.queued", resp.OK && !resp.Skipped))
		}

		writeJSON(w, http.StatusOK, result)
	}
}
