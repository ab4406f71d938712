package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

const settingsTable = "card_settings"

// settingsRow maps the card_settings table.
type settingsRow struct {
	ProfileID string              `json:"profile_id"`
	Settings  domain.CardSettings `json:"settings"`
	UpdatedAt string              `json:"updated_at,omitempty"`
}

// GetSettings loads a profile's bundle (implements port.SettingsStore).
func (c *Client) GetSettings(ctx context.Context, profileID string) (*domain.CardSettings, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetSettings")
	defer span.End()
	span.SetAttributes(attribute.String("profile.id", profileID))

	var rows []settingsRow
	err := c.execute(ctx, "supabase/card_settings", func() error {
		path := fmt.Sprintf("%s?%s&select=profile_id,settings&limit=1", settingsTable, eqFilter("profile_id", profileID))
		body, err := c.doRequest(ctx, http.MethodGet, path, nil, "")
		if err != nil {
			return err
		}
		rows = nil
		if len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("failed to decode settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "settings", ID: profileID}
	}
	s := rows[0].Settings
	return &s, nil
}

// PutSettings upserts a profile's bundle.
func (c *Client) PutSettings(ctx context.Context, profileID string, settings domain.CardSettings) error {
	ctx, span := tracer.Start(ctx, "Supabase.PutSettings")
	defer span.End()
	span.SetAttributes(attribute.String("profile.id", profileID))

	row := settingsRow{
		ProfileID: profileID,
		Settings:  settings,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	return c.execute(ctx, "supabase/card_settings", func() error {
		_, err := c.doRequest(ctx, http.MethodPost, settingsTable+"?on_conflict=profile_id", row, preferUpsert)
		return err
	})
}

// DeleteSettings removes a profile's bundle. Deleting a missing profile is not an error.
func (c *Client) DeleteSettings(ctx context.Context, profileID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteSettings")
	defer span.End()
	span.SetAttributes(attribute.String("profile.id", profileID))

	return c.execute(ctx, "supabase/card_settings", func() error {
		path := settingsTable + "?" + eqFilter("profile_id", profileID)
		_, err := c.doRequest(ctx, http.MethodDelete, path, nil, preferMinimal)
		return err
	})
}
