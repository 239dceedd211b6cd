package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/patent-litigation-graph/internal/application/account"
	"github.com/turtacn/patent-litigation-graph/internal/application/holder"
	"github.com/turtacn/patent-litigation-graph/internal/application/patent"
	domainlit "github.com/turtacn/patent-litigation-graph/internal/domain/litigation"
	domainpat "github.com/turtacn/patent-litigation-graph/internal/domain/patent"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/auth/token"
)

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Signup(ctx context.Context, in account.SignupInput) (*account.AuthResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*account.AuthResult)
	return r, args.Error(1)
}

func (m *mockAccounts) Login(ctx context.Context, in account.LoginInput) (*account.AuthResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*account.AuthResult)
	return r, args.Error(1)
}

func (m *mockAccounts) Logout(ctx context.Context, c *token.Claims) error {
	return m.Called(ctx, c).Error(0)
}

type mockPatents struct{ mock.Mock }

func (m *mockPatents) Search(ctx context.Context, q string) (*patent.SearchResult, error) {
	args := m.Called(ctx, q)
	r, _ := args.Get(0).(*patent.SearchResult)
	return r, args.Error(1)
}

func (m *mockPatents) Detail(ctx context.Context, id string) (*patent.DetailResult, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*patent.DetailResult)
	return r, args.Error(1)
}

type mockGraphs struct{ mock.Mock }

func (m *mockGraphs) GraphFor(ctx context.Context, name string) (*domainlit.Graph, error) {
	args := m.Called(ctx, name)
	g, _ := args.Get(0).(*domainlit.Graph)
	return g, args.Error(1)
}

func (m *mockGraphs) Import(ctx context.Context, recs []domainlit.Record) (int, error) {
	args := m.Called(ctx, recs)
	return args.Int(0), args.Error(1)
}

func (m *mockGraphs) Warm(ctx context.Context, names []string) (int, error) {
	args := m.Called(ctx, names)
	return args.Int(0), args.Error(1)
}

type mockHolders struct{ mock.Mock }

func (m *mockHolders) Search(ctx context.Context, in holder.SearchInput) (*holder.SearchResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*holder.SearchResult)
	return r, args.Error(1)
}

func (m *mockHolders) Create(ctx context.Context, h *domainpat.PatentHolder) error {
	return m.Called(ctx, h).Error(0)
}

// envelope mirrors the JSON shape written by the response package.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
	Pagination *struct {
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
		Total    int64 `json:"total"`
	} `json:"pagination"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

//Personal.AI order the ending
