package services

import (
	"context"
	"sync"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string)                                        {}
func (nopLogger) DebugWithFields(string, map[string]interface{})      {}
func (nopLogger) Info(string)                                         {}
func (nopLogger) InfoWithFields(string, map[string]interface{})       {}
func (nopLogger) Warn(string)                                         {}
func (nopLogger) WarnWithFields(string, map[string]interface{})       {}
func (nopLogger) Error(error, string)                                 {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}

// stubGenerator scripts provider behavior per call. The callback receives
// the 1-based global call number.
type stubGenerator struct {
	mu    sync.Mutex
	calls int
	fn    func(call int, req outbound.GenerateTextRequest) (string, error)
}

func (s *stubGenerator) Generate(_ context.Context, req outbound.GenerateTextRequest) (string, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.mu.Unlock()
	return s.fn(call, req)
}

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubScriptStore struct {
	mu    sync.Mutex
	saved []outbound.StoreScriptRequest
	url   string
	err   error
}

func (s *stubScriptStore) Save(_ context.Context, req outbound.StoreScriptRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, req)
	return s.url, s.err
}

type stubRunCache struct {
	mu      sync.Mutex
	records []domain.RunRecord
}

func (s *stubRunCache) Save(_ context.Context, record domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}
