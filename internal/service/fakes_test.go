package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
)

// --- Mock usage sink ---

type mockSink struct {
	mu      sync.Mutex
	records []*domain.CardRequestRecord
	err     error
	block   chan struct{}
}

func (m *mockSink) InsertCardRequest(ctx context.Context, rec *domain.CardRequestRecord) error {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockSink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// --- Mock settings store ---

type mockStore struct {
	mu       sync.Mutex
	profiles map[string]domain.CardSettings
	gets     int
	err      error
}

func newMockStore() *mockStore {
	return &mockStore{profiles: map[string]domain.CardSettings{}}
}

func (m *mockStore) GetSettings(_ context.Context, profileID string) (*domain.CardSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.profiles[profileID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "settings", ID: profileID}
	}
	out := s.Clone()
	return &out, nil
}

func (m *mockStore) PutSettings(_ context.Context, profileID string, s domain.CardSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.profiles[profileID] = s.Clone()
	return nil
}

func (m *mockStore) DeleteSettings(_ context.Context, profileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.profiles, profileID)
	return nil
}

var errBoom = errors.New("boom")
