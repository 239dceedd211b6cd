package neo4j

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

type MockDriver struct {
	mock.Mock
}

func (m *MockDriver) VerifyConnectivity(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDriver) NewSession(ctx context.Context, config neo4j.SessionConfig) internalSession {
	return m.Called(ctx, config).Get(0).(internalSession)
}

func (m *MockDriver) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockSession hands work a canned transaction.
type MockSession struct {
	mock.Mock
	tx      Transaction
	failErr error
}

func (m *MockSession) ExecuteRead(ctx context.Context, work TransactionWork) (any, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	return work(m.tx)
}

func (m *MockSession) ExecuteWrite(ctx context.Context, work TransactionWork) (any, error) {
	if m.failErr != nil {
		return nil, m.failErr
	}
	return work(m.tx)
}

func (m *MockSession) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type stubTransaction struct {
	result Result
	err    error
	cypher string
}

func (s *stubTransaction) Run(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	s.cypher = cypher
	return s.result, s.err
}

type sliceResult struct {
	records []*neo4j.Record
	idx     int
	err     error
}

func (r *sliceResult) Next(ctx context.Context) bool {
	if r.idx < len(r.records) {
		r.idx++
		return true
	}
	return false
}

func (r *sliceResult) Record() *neo4j.Record {
	if r.idx == 0 || r.idx > len(r.records) {
		return nil
	}
	return r.records[r.idx-1]
}

func (r *sliceResult) Err() error { return r.err }

func (r *sliceResult) Consume(ctx context.Context) (neo4j.ResultSummary, error) { return nil, nil }

func newTestDriver(t *testing.T, session *MockSession, cfg Neo4jConfig) (*Driver, *MockDriver) {
	t.Helper()
	md := new(MockDriver)
	md.On("NewSession", mock.Anything, mock.Anything).Return(session)
	session.On("Close", mock.Anything).Return(nil)
	return newDriverWith(md, cfg, logging.NewNopLogger()), md
}

func TestDriver_HealthCheck_OK(t *testing.T) {
	tx := &stubTransaction{result: &sliceResult{records: []*neo4j.Record{
		{Keys: []string{"health"}, Values: []any{int64(1)}},
	}}}
	d, md := newTestDriver(t, &MockSession{tx: tx}, Neo4jConfig{})
	md.On("VerifyConnectivity", mock.Anything).Return(nil)

	require.NoError(t, d.HealthCheck(context.Background()))
	assert.Equal(t, "RETURN 1 AS health", tx.cypher)
}

func TestDriver_HealthCheck_ConnectivityFailure(t *testing.T) {
	d, md := newTestDriver(t, &MockSession{}, Neo4jConfig{})
	md.On("VerifyConnectivity", mock.Anything).Return(stderrors.New("refused"))

	err := d.HealthCheck(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))
}

func TestDriver_ExecuteRead_WrapsFailureAsStoreUnavailable(t *testing.T) {
	d, _ := newTestDriver(t, &MockSession{failErr: stderrors.New("session expired")}, Neo4jConfig{})

	_, err := d.ExecuteRead(context.Background(), func(tx Transaction) (any, error) { return nil, nil })
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))
}

func TestDriver_ExecuteWrite_ReturnsWorkResult(t *testing.T) {
	d, _ := newTestDriver(t, &MockSession{tx: &stubTransaction{}}, Neo4jConfig{QueryTimeout: time.Second})

	out, err := d.ExecuteWrite(context.Background(), func(tx Transaction) (any, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, out)
}

func TestDriver_SessionUsesConfiguredDatabase(t *testing.T) {
	session := &MockSession{tx: &stubTransaction{}}
	md := new(MockDriver)
	md.On("NewSession", mock.Anything, mock.MatchedBy(func(c neo4j.SessionConfig) bool {
		return c.DatabaseName == "litigation" && c.AccessMode == neo4j.AccessModeRead
	})).Return(session)
	session.On("Close", mock.Anything).Return(nil)
	d := newDriverWith(md, Neo4jConfig{Database: "litigation"}, logging.NewNopLogger())

	_, err := d.ExecuteRead(context.Background(), func(tx Transaction) (any, error) { return nil, nil })
	require.NoError(t, err)
	md.AssertExpectations(t)
}

func TestDriver_CloseIsIdempotent(t *testing.T) {
	md := new(MockDriver)
	md.On("Close", mock.Anything).Return(nil).Once()
	d := newDriverWith(md, Neo4jConfig{}, logging.NewNopLogger())

	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))
	md.AssertNumberOfCalls(t, "Close", 1)
}

func TestCollectRecords(t *testing.T) {
	res := &sliceResult{records: []*neo4j.Record{
		{Keys: []string{"id"}, Values: []any{"c-1"}},
		{Keys: []string{"id"}, Values: []any{"c-2"}},
	}}
	ids, err := CollectRecords(context.Background(), res, func(r *neo4j.Record) (string, error) {
		return StringValue(r, "id"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2"}, ids)

	failing := &sliceResult{err: stderrors.New("stream broken")}
	_, err = CollectRecords(context.Background(), failing, func(r *neo4j.Record) (string, error) { return "", nil })
	assert.Error(t, err)
}

func TestStringList(t *testing.T) {
	rec := &neo4j.Record{
		Keys:   []string{"list", "scalar", "null", "typed"},
		Values: []any{[]any{"Beta LLC", 3, "Gamma"}, "Solo", nil, []string{"x"}},
	}
	assert.Equal(t, []string{"Beta LLC", "Gamma"}, StringList(rec, "list"))
	assert.Equal(t, []string{"Solo"}, StringList(rec, "scalar"))
	assert.Nil(t, StringList(rec, "null"))
	assert.Nil(t, StringList(rec, "absent"))
	assert.Equal(t, []string{"x"}, StringList(rec, "typed"))
	assert.Equal(t, "", StringValue(rec, "null"))
	assert.Equal(t, "Solo", StringValue(rec, "scalar"))
}

//Personal.AI order the ending
