package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/service"

	"go.uber.org/zap"
)

const consentMaxAge = 365 * 24 * time.Hour

// logCardRequestHandler serves POST /v1/log-card-request. It never answers
// with an error status: logging must not break the page.
func logCardRequestHandler(usage *service.UsageLogger, cfg Config, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/log-card-request")
		defer span.End()

		// The cookie is the source of truth, not the body's consent field.
		consent, ok := consentFromRequest(r, cfg.ConsentCookieName)
		if !ok || consent != domain.ConsentFull {
			writeJSON(w, http.StatusOK, domain.LogCardRequestResponse{OK: true, Skipped: true, Reason: domain.SkipNoConsent})
			return
		}

		var payload domain.LogCardRequestPayload
		if err := decodeJSON(w, r, &payload); err != nil {
			logger.Warn("log-card-request: bad payload", zap.Error(err))
			writeJSON(w, http.StatusOK, domain.LogCardRequestResponse{OK: false, Reason: "invalid_payload"})
			return
		}

		if usage == nil {
			writeJSON(w, http.StatusOK, domain.LogCardRequestResponse{OK: true, Skipped: true, Reason: domain.SkipNoSink})
			return
		}
		writeJSON(w, http.StatusOK, usage.Log(consent, payload, requestMetadata(r, payload.GPSLocation)))
	}
}

func getConsentHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		consent, ok := consentFromRequest(r, cfg.ConsentCookieName)
		writeJSON(w, http.StatusOK, domain.ConsentResponse{Consent: consent, Decided: ok})
	}
}

// setConsentHandler records the cookie-banner decision for one year.
func setConsentHandler(cfg Config, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ConsentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		level, ok := domain.ParseConsent(string(req.Level))
		if !ok {
			handleServiceError(w, &domain.ErrValidation{Field: "level", Message: `must be "full" or "none"`}, logger)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     cfg.ConsentCookieName,
			Value:    string(level),
			Path:     "/",
			MaxAge:   int(consentMaxAge.Seconds()),
			SameSite: http.SameSiteLaxMode,
			Secure:   cfg.SecureCookies,
		})
		writeJSON(w, http.StatusOK, domain.ConsentResponse{Consent: level, Decided: true})
	}
}

func clearConsentHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     cfg.ConsentCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			SameSite: http.SameSiteLaxMode,
			Secure:   cfg.SecureCookies,
		})
		writeJSON(w, http.StatusOK, domain.ConsentResponse{Decided: false})
	}
}
