// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the engine and
// service layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
)

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// SettingsStore persists a user's card settings bundle by profile id.
// GetSettings returns *domain.ErrNotFound when nothing is stored.
type SettingsStore interface {
	GetSettings(ctx context.Context, profileID string) (*domain.CardSettings, error)
	PutSettings(ctx context.Context, profileID string, settings domain.CardSettings) error
	DeleteSettings(ctx context.Context, profileID string) error
}

// UsageSink receives one usage-log row per evaluation.
// Callers treat it as best effort; errors are logged, never surfaced.
type UsageSink interface {
	InsertCardRequest(ctx context.Context, rec *domain.CardRequestRecord) error
}

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
