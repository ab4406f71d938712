package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/observability"
	"github.com/boddenberg/whichcard-bfa-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const settingsCacheName = "settings"

// SettingsService manages settings profiles: the per-visitor card settings
// bundle, addressed by a signed profile token.
type SettingsService struct {
	store    port.SettingsStore
	cache    port.Cache[domain.CardSettings]
	tokens   *ProfileTokens
	defaults domain.CardSettings
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewSettingsService creates the settings service. defaults is the bundle
// handed out when a visitor has nothing stored.
func NewSettingsService(
	store port.SettingsStore,
	cache port.Cache[domain.CardSettings],
	tokens *ProfileTokens,
	defaults domain.CardSettings,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SettingsService {
	return &SettingsService{
		store:    store,
		cache:    cache,
		tokens:   tokens,
		defaults: defaults.Clone(),
		metrics:  metrics,
		logger:   logger,
	}
}

// Defaults returns a fresh copy of the default bundle.
func (s *SettingsService) Defaults() domain.CardSettings {
	return s.defaults.Clone()
}

// Get returns the bundle for a profile token. An empty token yields the
// defaults; an invalid one yields *domain.ErrUnauthorized.
func (s *SettingsService) Get(ctx context.Context, token string) (*domain.SettingsResponse, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.Get")
	defer span.End()

	if token == "" {
		return &domain.SettingsResponse{Settings: s.Defaults()}, nil
	}
	profileID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("profile.id", profileID))

	settings, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return &domain.SettingsResponse{ProfileID: profileID, Settings: settings}, nil
}

// Save validates and stores a bundle. A valid token keeps its profile;
// otherwise a new profile is created and a token for it returned.
func (s *SettingsService) Save(ctx context.Context, token string, settings domain.CardSettings) (*domain.SettingsResponse, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.Save")
	defer span.End()

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	profileID := ""
	if token != "" {
		if id, err := s.tokens.Parse(token); err == nil {
			profileID = id
		} else {
			s.logger.Debug("settings save with unusable token, minting a new profile", zap.Error(err))
		}
	}
	if profileID == "" {
		profileID = uuid.NewString()
	}
	span.SetAttributes(attribute.String("profile.id", profileID))

	stored := settings.Clone()
	if err := s.store.PutSettings(ctx, profileID, stored); err != nil {
		s.metrics.IncrExternalError("settings_store")
		return nil, fmt.Errorf("store settings: %w", err)
	}
	s.cache.Set(profileID, stored)

	issued, err := s.tokens.Issue(profileID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("settings profile saved", zap.String("profile_id", profileID))
	return &domain.SettingsResponse{ProfileToken: issued, ProfileID: profileID, Settings: stored.Clone()}, nil
}

// Reset removes the stored bundle so the profile falls back to the defaults.
func (s *SettingsService) Reset(ctx context.Context, token string) (*domain.SettingsResponse, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.Reset")
	defer span.End()

	if token == "" {
		return nil, &domain.ErrUnauthorized{Message: "profile token required"}
	}
	profileID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("profile.id", profileID))

	if err := s.store.DeleteSettings(ctx, profileID); err != nil {
		s.metrics.IncrExternalError("settings_store")
		return nil, fmt.Errorf("delete settings: %w", err)
	}
	s.cache.Delete(profileID)

	s.logger.Info("settings profile reset", zap.String("profile_id", profileID))
	return &domain.SettingsResponse{ProfileID: profileID, Settings: s.Defaults()}, nil
}

// Resolve picks the bundle for an evaluation: inline settings first, then
// the token's stored profile, then the defaults. Inline settings must be
// valid. An unusable token or an unreachable store falls back to the defaults.
func (s *SettingsService) Resolve(ctx context.Context, inline *domain.CardSettings, token string) (domain.CardSettings, error) {
	if inline != nil {
		if err := inline.Validate(); err != nil {
			return domain.CardSettings{}, err
		}
		return inline.Clone(), nil
	}
	if token == "" {
		return s.Defaults(), nil
	}

	profileID, err := s.tokens.Parse(token)
	if err != nil {
		s.logger.Debug("evaluate with unusable profile token, using defaults", zap.Error(err))
		return s.Defaults(), nil
	}
	settings, err := s.load(ctx, profileID)
	if err != nil {
		s.logger.Warn("settings store unavailable, evaluating with defaults",
			zap.String("profile_id", profileID),
			zap.Error(err),
		)
		return s.Defaults(), nil
	}
	return settings, nil
}

// load reads a profile through the cache. Nothing stored means defaults.
func (s *SettingsService) load(ctx context.Context, profileID string) (domain.CardSettings, error) {
	if cached, ok := s.cache.Get(profileID); ok {
		s.metrics.IncrCacheHit(settingsCacheName)
		return cached.Clone(), nil
	}
	s.metrics.IncrCacheMiss(settingsCacheName)

	stored, err := s.store.GetSettings(ctx, profileID)
	var nf *domain.ErrNotFound
	switch {
	case errors.As(err, &nf):
		return s.Defaults(), nil
	case err != nil:
		s.metrics.IncrExternalError("settings_store")
		s.logger.Error("failed to load settings profile",
			zap.String("profile_id", profileID),
			zap.Error(err),
		)
		return domain.CardSettings{}, fmt.Errorf("load settings: %w", err)
	}

	s.cache.Set(profileID, stored.Clone())
	return stored.Clone(), nil
}
