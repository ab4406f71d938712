package domain

import "time"

// ============================================================
// Usage logging (card_requests)
// ============================================================

// ConsentLevel is the visitor's answer to the cookie banner.
type ConsentLevel string

const (
	ConsentFull ConsentLevel = "full"
	ConsentNone ConsentLevel = "none"
)

// ParseConsent returns the consent level for a raw cookie value.
// ok is false when no decision has been recorded.
func ParseConsent(v string) (level ConsentLevel, ok bool) {
	switch ConsentLevel(v) {
	case ConsentFull:
		return ConsentFull, true
	case ConsentNone:
		return ConsentNone, true
	}
	return "", false
}

// GPSLocation is the precise position captured by the browser, when granted.
type GPSLocation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  float64  `json:"accuracy"`
	Altitude  *float64 `json:"altitude"`
	Heading   *float64 `json:"heading"`
	Speed     *float64 `json:"speed"`
}

// LogCardRequestPayload is the body of POST /v1/log-card-request.
type LogCardRequestPayload struct {
	Purchase    Purchase     `json:"purchase"`
	BestCard    *CardResult  `json:"bestCard"`
	Results     []CardResult `json:"results"`
	Settings    CardSettings `json:"settings"`
	Consent     ConsentLevel `json:"consent"`
	GPSLocation *GPSLocation `json:"gpsLocation,omitempty"`
}

// LogCardRequestResponse never carries an HTTP error status.
type LogCardRequestResponse struct {
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Skip reasons reported by the usage logger.
const (
	SkipNoConsent = "no_consent"
	SkipNoSink    = "no_supabase"
	SkipQueueFull = "queue_full"
	SkipShutdown  = "shutting_down"
)

// RequestMetadata is what the HTTP layer learned about the caller.
// It is only collected with full consent.
type RequestMetadata struct {
	IP        string
	UserAgent string
	Referer   string
	Location  string
	Latitude  *float64
	Longitude *float64
	Headers   map[string]string
}

// CardRequestRecord is one row of the usage log.
type CardRequestRecord struct {
	ID         string
	Purchase   Purchase
	BestCard   *CardResult
	Results    []CardResult
	Settings   CardSettings
	Metadata   RequestMetadata
	IPHash     string
	ReceivedAt time.Time
}

// ConsentRequest is the body of POST /v1/consent.
type ConsentRequest struct {
	Level ConsentLevel `json:"level"`
}

// ConsentResponse reports the visitor's recorded decision.
type ConsentResponse struct {
	Consent ConsentLevel `json:"consent,omitempty"`
	Decided bool         `json:"decided"`
}
