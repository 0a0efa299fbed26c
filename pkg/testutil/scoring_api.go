package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ecohabit/backend/pkg/api"
)

type ScoringCall struct {
	Path string
	Body api.JSON
}

// MockScoringAPI stands in for the scoring API generator. It records every
// POST and answers 200 unless RespondFunc says otherwise.
type MockScoringAPI struct {
	RespondFunc func(path string, body api.JSON) (*api.Response, error)

	mu    sync.Mutex
	calls []ScoringCall
}

func (m *MockScoringAPI) New(path string, args ...any) api.Client {
	return &mockScoringRequest{scoring: m, path: path}
}

func (m *MockScoringAPI) Calls() []ScoringCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]ScoringCall(nil), m.calls...)
}

type mockScoringRequest struct {
	scoring *MockScoringAPI
	path    string
	body    api.JSON
}

func (r *mockScoringRequest) Header(name, value string) api.Client {
	return r
}

func (r *mockScoringRequest) Query(query api.Parameter) api.Client {
	return r
}

func (r *mockScoringRequest) Body(body api.Body) api.Client {
	r.body, _ = body.(api.JSON)
	return r
}

func (r *mockScoringRequest) POST(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
	r.scoring.mu.Lock()
	r.scoring.calls = append(r.scoring.calls, ScoringCall{Path: r.path, Body: r.body})
	r.scoring.mu.Unlock()

	if r.scoring.RespondFunc != nil {
		return r.scoring.RespondFunc(r.path, r.body)
	}

	return &api.Response{Code: 200, Body: api.JSON{"ok": true}}, nil
}

func (r *mockScoringRequest) GET(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
	return nil, fmt.Errorf("scoring api has no GET %s", r.path)
}

func (r *mockScoringRequest) PUT(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
	return nil, fmt.Errorf("scoring api has no PUT %s", r.path)
}

func (r *mockScoringRequest) PATCH(ctx context.Context, opts ...api.Opt) (*api.Response, error) {
	return nil, fmt.Errorf("scoring api has no PATCH %s", r.path)
}
