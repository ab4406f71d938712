package supabase

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

const cardRequestsTable = "card_requests"

// cardRequestRow maps a usage record onto the card_requests columns.
type cardRequestRow struct {
	ID string `json:"id"`

	// Purchase info
	AmountAED    float64 `json:"amount_aed"`
	Category     string  `json:"category"`
	Channel      string  `json:"channel"`
	LocationType string  `json:"location_type"`

	// Best card info
	BestCardID             *string  `json:"best_card_id"`
	BestCardName           *string  `json:"best_card_name"`
	BestCardEffectiveRate  *float64 `json:"best_card_effective_rate"`
	BestCardRewardValueAED *float64 `json:"best_card_reward_value_aed"`

	// Full results and settings snapshot
	AllResults           []domain.CardResult `json:"all_results"`
	CardSettingsSnapshot domain.CardSettings `json:"card_settings_snapshot"`

	// Request metadata (full consent only)
	UserAgent *string           `json:"user_agent"`
	IP        *string           `json:"ip"`
	IPHash    *string           `json:"ip_hash"`
	Referer   *string           `json:"referer"`
	Location  *string           `json:"location"`
	Latitude  *float64          `json:"latitude"`
	Longitude *float64          `json:"longitude"`
	Headers   map[string]string `json:"headers"`

	CreatedAt string `json:"created_at"`
}

func toCardRequestRow(rec *domain.CardRequestRecord) cardRequestRow {
	row := cardRequestRow{
		ID:                   rec.ID,
		AmountAED:            rec.Purchase.AmountAED,
		Category:             string(rec.Purchase.Category),
		Channel:              string(rec.Purchase.Channel),
		LocationType:         string(rec.Purchase.Location),
		AllResults:           rec.Results,
		CardSettingsSnapshot: rec.Settings,
		UserAgent:            nullable(rec.Metadata.UserAgent),
		IP:                   nullable(rec.Metadata.IP),
		IPHash:               nullable(rec.IPHash),
		Referer:              nullable(rec.Metadata.Referer),
		Location:             nullable(rec.Metadata.Location),
		Latitude:             rec.Metadata.Latitude,
		Longitude:            rec.Metadata.Longitude,
		Headers:              rec.Metadata.Headers,
		CreatedAt:            rec.ReceivedAt.UTC().Format(time.RFC3339),
	}
	if row.AllResults == nil {
		row.AllResults = []domain.CardResult{}
	}
	if b := rec.BestCard; b != nil {
		id := string(b.CardID)
		name := b.CardName
		rate := b.EffectiveRate
		value := b.RewardValueAED
		row.BestCardID = &id
		row.BestCardName = &name
		row.BestCardEffectiveRate = &rate
		row.BestCardRewardValueAED = &value
	}
	return row
}

// InsertCardRequest writes one usage-log row (implements port.UsageSink).
func (c *Client) InsertCardRequest(ctx context.Context, rec *domain.CardRequestRecord) error {
	ctx, span := tracer.Start(ctx, "Supabase.InsertCardRequest")
	defer span.End()
	span.SetAttributes(
		attribute.String("card_request.id", rec.ID),
		attribute.String("purchase.category", string(rec.Purchase.Category)),
	)

	row := toCardRequestRow(rec)
	return c.execute(ctx, "supabase/card_requests", func() error {
		_, err := c.doRequest(ctx, http.MethodPost, cardRequestsTable, row, preferMinimal)
		return err
	})
}
