// Package memory provides in-process implementations of the storage ports,
// used when Supabase is disabled and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
)

// SettingsStore keeps settings profiles in a map. Values are cloned on the
// way in and out so callers never share the Ajman category slice.
type SettingsStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.CardSettings
}

// NewSettingsStore creates an empty store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{profiles: make(map[string]domain.CardSettings)}
}

// GetSettings implements port.SettingsStore.
func (s *SettingsStore) GetSettings(ctx context.Context, profileID string) (*domain.CardSettings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings, ok := s.profiles[profileID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "settings", ID: profileID}
	}
	out := settings.Clone()
	return &out, nil
}

// PutSettings implements port.SettingsStore.
func (s *SettingsStore) PutSettings(ctx context.Context, profileID string, settings domain.CardSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profileID] = settings.Clone()
	return nil
}

// DeleteSettings implements port.SettingsStore.
func (s *SettingsStore) DeleteSettings(ctx context.Context, profileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, profileID)
	return nil
}

// Ping implements port.HealthChecker.
func (s *SettingsStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
