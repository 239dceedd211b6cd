package litigation

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/turtacn/patent-litigation-graph/internal/domain/litigation"
	"github.com/turtacn/patent-litigation-graph/internal/testutil"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
	"github.com/turtacn/patent-litigation-graph/pkg/types/common"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) PlaintiffIDsByName(ctx context.Context, name string) ([]string, error) {
	args := m.Called(ctx, name)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockRepo) DefendantsByPlaintiffID(ctx context.Context, id string) ([]domain.Defendant, error) {
	args := m.Called(ctx, id)
	ds, _ := args.Get(0).([]domain.Defendant)
	return ds, args.Error(1)
}

type mockJoinedRepo struct{ mockRepo }

func (m *mockJoinedRepo) LitigantsByPlaintiffName(ctx context.Context, name string) (*domain.Litigants, error) {
	args := m.Called(ctx, name)
	l, _ := args.Get(0).(*domain.Litigants)
	return l, args.Error(1)
}

type mockWriterRepo struct{ mockRepo }

func (m *mockWriterRepo) SaveRecords(ctx context.Context, records []domain.Record) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) GraphFor(ctx context.Context, name string, build func(ctx context.Context) (*domain.Graph, error)) (*domain.Graph, error) {
	args := m.Called(ctx, name)
	if args.Bool(1) {
		return build(ctx)
	}
	g, _ := args.Get(0).(*domain.Graph)
	return g, args.Error(2)
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, ev common.DomainEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func TestGraphFor_TwoStage(t *testing.T) {
	repo := new(mockRepo)
	repo.On("PlaintiffIDsByName", mock.Anything, "Acme").Return([]string{"p1", "p2"}, nil)
	repo.On("DefendantsByPlaintiffID", mock.Anything, "p1").Return([]domain.Defendant{{"d1"}, {"d2"}}, nil)
	repo.On("DefendantsByPlaintiffID", mock.Anything, "p2").Return([]domain.Defendant{{"d1"}, {"d3"}}, nil)

	svc := NewGraphService(repo, testutil.NewMockLogger())
	g, err := svc.GraphFor(context.Background(), "Acme")
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Equal(t, domain.Node{ID: "Acme", Type: domain.NodeTypePlaintiff}, g.Nodes[0])
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes[1:] {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"d1", "d2", "d3"}, ids)
	assert.Len(t, g.Links, 3)
	repo.AssertExpectations(t)
}

func TestGraphFor_NoPlaintiffIsNilNil(t *testing.T) {
	repo := new(mockRepo)
	repo.On("PlaintiffIDsByName", mock.Anything, "Nobody").Return([]string{}, nil)

	g, err := NewGraphService(repo, testutil.NewMockLogger()).GraphFor(context.Background(), "Nobody")
	assert.NoError(t, err)
	assert.Nil(t, g)
	repo.AssertNotCalled(t, "DefendantsByPlaintiffID", mock.Anything, mock.Anything)
}

func TestGraphFor_BlankNameSkipsStore(t *testing.T) {
	repo := new(mockRepo)
	g, err := NewGraphService(repo, testutil.NewMockLogger()).GraphFor(context.Background(), "  ")
	assert.NoError(t, err)
	assert.Nil(t, g)
	repo.AssertExpectations(t)
}

func TestGraphFor_StoreFailureFirstStage(t *testing.T) {
	repo := new(mockRepo)
	repo.On("PlaintiffIDsByName", mock.Anything, "Acme").Return(nil, stderrors.New("connection refused"))

	log := testutil.NewMockLogger()
	g, err := NewGraphService(repo, log).GraphFor(context.Background(), "Acme")
	assert.Nil(t, g)
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))
	assert.False(t, errors.IsNotFound(err))
	assert.True(t, log.HasMessage("error", "Litigation store lookup failed"))
}

func TestGraphFor_StoreFailureSecondStage(t *testing.T) {
	repo := new(mockRepo)
	repo.On("PlaintiffIDsByName", mock.Anything, "Acme").Return([]string{"p1"}, nil)
	repo.On("DefendantsByPlaintiffID", mock.Anything, "p1").
		Return(nil, errors.New(errors.ErrCodeStoreUnavailable, "neo4j down"))

	_, err := NewGraphService(repo, testutil.NewMockLogger()).GraphFor(context.Background(), "Acme")
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))
}

func TestGraphFor_JoinedQueryMatchesTwoStage(t *testing.T) {
	children := []domain.Defendant{{"d1"}, {"d1"}, {"d2"}}

	twoStage := new(mockRepo)
	twoStage.On("PlaintiffIDsByName", mock.Anything, "root").Return([]string{"p1"}, nil)
	twoStage.On("DefendantsByPlaintiffID", mock.Anything, "p1").Return(children, nil)
	want, err := NewGraphService(twoStage, testutil.NewMockLogger()).GraphFor(context.Background(), "root")
	require.NoError(t, err)

	joined := new(mockJoinedRepo)
	joined.On("LitigantsByPlaintiffName", mock.Anything, "root").
		Return(&domain.Litigants{PlaintiffIDs: []string{"p1"}, Defendants: children}, nil)
	got, err := NewGraphService(joined, testutil.NewMockLogger()).GraphFor(context.Background(), "root")
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Len(t, got.Nodes, 3)
	assert.Len(t, got.Links, 2)
	joined.AssertNotCalled(t, "PlaintiffIDsByName", mock.Anything, mock.Anything)
}

func TestGraphFor_JoinedQueryDisabled(t *testing.T) {
	repo := new(mockJoinedRepo)
	repo.On("PlaintiffIDsByName", mock.Anything, "root").Return([]string{}, nil)

	g, err := NewGraphService(repo, testutil.NewMockLogger(), WithJoinedQuery(false)).GraphFor(context.Background(), "root")
	assert.NoError(t, err)
	assert.Nil(t, g)
	repo.AssertNotCalled(t, "LitigantsByPlaintiffName", mock.Anything, mock.Anything)
}

func TestGraphFor_JoinedNoMatch(t *testing.T) {
	repo := new(mockJoinedRepo)
	repo.On("LitigantsByPlaintiffName", mock.Anything, "x").Return(&domain.Litigants{}, nil)

	g, err := NewGraphService(repo, testutil.NewMockLogger()).GraphFor(context.Background(), "x")
	assert.NoError(t, err)
	assert.Nil(t, g)
}

func TestGraphFor_PublishesGraphBuilt(t *testing.T) {
	repo := new(mockRepo)
	repo.On("PlaintiffIDsByName", mock.Anything, "Acme").Return([]string{"p1"}, nil)
	repo.On("DefendantsByPlaintiffID", mock.Anything, "p1").Return([]domain.Defendant{{"d1"}}, nil)
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev common.DomainEvent) bool {
		e, ok := ev.(*domain.GraphBuiltEvent)
		return ok && e.Root == "Acme" && e.Defendants == 1 && e.Plaintiffs == 1
	})).Return(stderrors.New("broker down"))

	log := testutil.NewMockLogger()
	g, err := NewGraphService(repo, log, WithPublisher(pub)).GraphFor(context.Background(), "Acme")
	require.NoError(t, err, "publish failures are best effort")
	assert.NotNil(t, g)
	pub.AssertExpectations(t)
	assert.True(t, log.HasMessage("warn", "Failed to publish event"))
}

func TestGraphFor_CacheHitSkipsStore(t *testing.T) {
	repo := new(mockRepo)
	cached := domain.BuildGraph("Acme", []domain.Defendant{{"d1"}})
	cache := new(mockCache)
	cache.On("GraphFor", mock.Anything, "Acme").Return(cached, false, nil)

	g, err := NewGraphService(repo, testutil.NewMockLogger(), WithCache(cache)).GraphFor(context.Background(), "Acme")
	require.NoError(t, err)
	assert.Same(t, cached, g)
	repo.AssertNotCalled(t, "PlaintiffIDsByName", mock.Anything, mock.Anything)
}

func TestGraphFor_CacheMissBuilds(t *testing.T) {
	repo := new(mockRepo)
	repo.On("PlaintiffIDsByName", mock.Anything, "Acme").Return([]string{"p1"}, nil)
	repo.On("DefendantsByPlaintiffID", mock.Anything, "p1").Return([]domain.Defendant{{"d1"}}, nil)
	cache := new(mockCache)
	cache.On("GraphFor", mock.Anything, "Acme").Return(nil, true, nil)

	g, err := NewGraphService(repo, testutil.NewMockLogger(), WithCache(cache)).GraphFor(context.Background(), "Acme")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Len(t, g.Nodes, 2)
	repo.AssertExpectations(t)
}

func TestImport_SavesAndInvalidates(t *testing.T) {
	repo := new(mockWriterRepo)
	records := []domain.Record{{ID: "c1", Plaintiffs: []string{"Acme"}, Defendants: []domain.Defendant{{"d1"}}}}
	repo.On("SaveRecords", mock.Anything, records).Return(1, nil)
	cache := new(mockCache)
	cache.On("Invalidate", mock.Anything).Return(nil)

	n, err := NewGraphService(repo, testutil.NewMockLogger(), WithCache(cache)).Import(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestImport_RejectsInvalidRecord(t *testing.T) {
	repo := new(mockWriterRepo)
	_, err := NewGraphService(repo, testutil.NewMockLogger()).Import(context.Background(), []domain.Record{{ID: "c1"}})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	repo.AssertNotCalled(t, "SaveRecords", mock.Anything, mock.Anything)
}

func TestImport_StoreFailure(t *testing.T) {
	repo := new(mockWriterRepo)
	repo.On("SaveRecords", mock.Anything, mock.Anything).Return(0, stderrors.New("write failed"))

	_, err := NewGraphService(repo, testutil.NewMockLogger()).Import(context.Background(),
		[]domain.Record{{ID: "c1", Plaintiffs: []string{"Acme"}}})
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))
}

func TestImport_WithoutWriter(t *testing.T) {
	_, err := NewGraphService(new(mockRepo), testutil.NewMockLogger()).Import(context.Background(),
		[]domain.Record{{ID: "c1", Plaintiffs: []string{"Acme"}}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotImplemented))
}

func TestWarm_CountsGraphsAndSkipsDuplicates(t *testing.T) {
	repo := new(mockRepo)
	repo.On("PlaintiffIDsByName", mock.Anything, "Acme").Return([]string{"p1"}, nil).Once()
	repo.On("DefendantsByPlaintiffID", mock.Anything, "p1").Return([]domain.Defendant{{"d1"}}, nil).Once()
	repo.On("PlaintiffIDsByName", mock.Anything, "Nobody").Return([]string{}, nil).Once()
	repo.On("PlaintiffIDsByName", mock.Anything, "Broken").Return(nil, stderrors.New("down")).Once()

	n, err := NewGraphService(repo, testutil.NewMockLogger()).Warm(context.Background(),
		[]string{"Acme", "Nobody", "Acme", "", "Broken"})
	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.True(t, errors.IsStoreUnavailable(err))
	repo.AssertExpectations(t)
}

//Personal.AI order the ending
