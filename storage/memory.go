package storage

import (
	"context"
	"sync"

	"healthpulse/models"
)

// MemStore keeps the three records in process memory. It backs the "memory"
// backend for local runs and lets the pipeline be tested without a real
// persistence deployment.
type MemStore struct {
	mu        sync.RWMutex
	responses []models.Response
	summary   *models.StatisticsSummary
	settings  *models.Settings
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) LoadResponses(context.Context) ([]models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.responses == nil {
		return nil, nil
	}
	out := make([]models.Response, len(s.responses))
	copy(out, s.responses)
	return out, nil
}

func (s *MemStore) SaveResponses(_ context.Context, responses []models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = make([]models.Response, len(responses))
	copy(s.responses, responses)
	return nil
}

func (s *MemStore) LoadSummary(context.Context) (models.StatisticsSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return models.EmptySummary(), nil
	}
	return *s.summary, nil
}

func (s *MemStore) SaveSummary(_ context.Context, summary models.StatisticsSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &summary
	return nil
}

func (s *MemStore) LoadSettings(context.Context) (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return models.DefaultSettings(), nil
	}
	return *s.settings, nil
}

func (s *MemStore) SaveSettings(_ context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
	return nil
}

func (s *MemStore) Ping(context.Context) error { return nil }

func (s *MemStore) Close(context.Context) error { return nil }
