package mcp

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/cvemirror/internal/core/domain"
	"github.com/custodia-labs/cvemirror/internal/core/ports/driving"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	result     *domain.QueryResult
	raw        map[string]json.RawMessage
	err        error
	lastParams domain.QueryParams
}

func (m *mockQueryService) Query(_ context.Context, params domain.QueryParams) (*domain.QueryResult, error) {
	m.lastParams = params
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.QueryResult{Page: 1, Limit: domain.DefaultPageSize, Results: []domain.RecordSummary{}}, nil
	}
	return m.result, nil
}

func (m *mockQueryService) Search(_ context.Context, _ domain.Query) (*domain.QueryResult, error) {
	return m.result, m.err
}

func (m *mockQueryService) GetRaw(_ context.Context, id string) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	raw, ok := m.raw[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return raw, nil
}

// mockSyncService is a mock implementation of driving.SyncService.
type mockSyncService struct {
	status *driving.SyncStatus
	runs   []domain.SyncRun
	err    error
}

func (m *mockSyncService) FullSync(_ context.Context, _ driving.ProgressFunc) error {
	return m.err
}

func (m *mockSyncService) Status(_ context.Context) (*driving.SyncStatus, error) {
	if m.status == nil {
		return &driving.SyncStatus{}, m.err
	}
	return m.status, m.err
}

func (m *mockSyncService) Runs(_ context.Context, _ int) ([]domain.SyncRun, error) {
	return m.runs, m.err
}
