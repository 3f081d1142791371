package content

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-content-cache/internal/airtable"
	"go-content-cache/internal/cache"
	"go-content-cache/internal/cache/l1"
	"go-content-cache/internal/cache/noop"
	"go-content-cache/internal/cache/session"
	"go-content-cache/internal/config"
	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/interfaces/mock"
	"go-content-cache/internal/models"
)

var testTables = map[string]string{
	"ashaar": "Ashaar",
	"shaer":  "Shaer",
}

type fixture struct {
	svc    *Service
	source *mock.MockRecordSource
	rules  *mock.MockCacheRulesClassifier
}

func newFixture(t *testing.T, store interfaces.Store) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	source := mock.NewMockRecordSource(ctrl)
	rules := mock.NewMockCacheRulesClassifier(ctrl)
	if store == nil {
		store = noop.NewNoOpStore()
	}

	pages, err := session.New[models.ListResponse]("pages", session.Config{MaxSize: 10}, zap.NewNop())
	require.NoError(t, err)
	records, err := session.New[models.Record]("records", session.Config{MaxSize: 10}, zap.NewNop())
	require.NoError(t, err)

	svc := NewService(source, cache.NewKeyBuilder(), rules, store, pages, records, Options{
		Tables:          testTables,
		DefaultPageSize: 2,
		MaxPages:        5,
	}, zap.NewNop())

	return fixture{svc: svc, source: source, rules: rules}
}

func cached(strategy models.Strategy) models.CacheInfo {
	return models.CacheInfo{TTL: time.Minute, CacheType: models.CacheTypeShort, Strategy: strategy}
}

func recs(ids ...string) []models.Record {
	out := make([]models.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Record{ID: id, Fields: map[string]interface{}{"unwan": "title " + id}})
	}
	return out
}

func TestService_List_CacheFirst(t *testing.T) {
	f := newFixture(t, nil)
	f.rules.EXPECT().GetCacheInfo("ashaar").Return(cached(models.StrategyCacheFirst)).Times(2)
	f.source.EXPECT().
		ListRecords(gomock.Any(), "Ashaar", models.ListParams{PageSize: 2}).
		Return(&models.ListResponse{Records: recs("r1", "r2"), Offset: "itr2"}, nil).
		Times(1)

	first, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusMiss, first.Cache)
	assert.True(t, first.HasMore)
	assert.Equal(t, "itr2", first.Offset)
	assert.Len(t, first.Records, 2)

	second, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusHit, second.Cache)
	assert.Equal(t, first.Records, second.Records)
}

func TestService_List_UnknownResource(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.List(context.Background(), "blogs", models.ListParams{})
	assert.ErrorIs(t, err, ErrUnknownResource)
	assert.False(t, f.svc.HasResource("blogs"))
	assert.True(t, f.svc.HasResource("ashaar"))
}

func TestService_List_Bypass(t *testing.T) {
	f := newFixture(t, nil)
	f.rules.EXPECT().GetCacheInfo("ashaar").Return(models.CacheInfo{CacheType: models.CacheTypeNone}).Times(2)
	f.source.EXPECT().
		ListRecords(gomock.Any(), "Ashaar", gomock.Any()).
		Return(&models.ListResponse{Records: recs("r1")}, nil).
		Times(2)

	for i := 0; i < 2; i++ {
		res, err := f.svc.List(context.Background(), "ashaar", models.ListParams{PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, models.CacheStatusBypass, res.Cache)
		assert.False(t, res.HasMore)
	}
}

func TestService_List_NetworkFirstFallback(t *testing.T) {
	f := newFixture(t, nil)
	f.rules.EXPECT().GetCacheInfo("ashaar").Return(cached(models.StrategyNetworkFirst)).Times(2)
	gomock.InOrder(
		f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", gomock.Any()).
			Return(&models.ListResponse{Records: recs("r1")}, nil),
		f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", gomock.Any()).
			Return(nil, errors.New("upstream down")),
	)

	_, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)

	res, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusStale, res.Cache)
	assert.Equal(t, "r1", res.Records[0].ID)
}

func TestService_List_StaleWhileRevalidateReachesUpstream(t *testing.T) {
	store, err := l1.NewBigCache(&config.BigCacheConfig{Size: 10, Shards: 16}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := newFixture(t, store)
	f.rules.EXPECT().GetCacheInfo("ashaar").Return(cached(models.StrategyStaleWhileRevalidate)).AnyTimes()
	gomock.InOrder(
		f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", gomock.Any()).
			Return(&models.ListResponse{Records: recs("v1")}, nil).
			Times(1),
		f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", gomock.Any()).
			Return(&models.ListResponse{Records: recs("v2")}, nil).
			AnyTimes(),
	)

	first, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusMiss, first.Cache)
	assert.Equal(t, "v1", first.Records[0].ID)

	// the hit serves v1 and revalidates against the upstream, not the store copy
	second, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusHit, second.Cache)
	assert.Equal(t, "v1", second.Records[0].ID)

	require.Eventually(t, func() bool {
		res, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})
		return err == nil && len(res.Records) == 1 && res.Records[0].ID == "v2"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestService_List_UpstreamError(t *testing.T) {
	f := newFixture(t, nil)
	upstreamErr := &airtable.APIError{StatusCode: 503, Type: "SERVICE_UNAVAILABLE"}
	f.rules.EXPECT().GetCacheInfo("ashaar").Return(cached(models.StrategyCacheFirst))
	f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", gomock.Any()).Return(nil, upstreamErr)

	_, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})

	var apiErr *airtable.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestService_List_PrimesRecordCache(t *testing.T) {
	f := newFixture(t, nil)
	f.rules.EXPECT().GetCacheInfo("ashaar").Return(cached(models.StrategyCacheFirst)).Times(2)
	f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", gomock.Any()).
		Return(&models.ListResponse{Records: recs("r1", "r2")}, nil)

	_, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)

	rec, status, err := f.svc.Get(context.Background(), "ashaar", "r2")
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusHit, status)
	assert.Equal(t, "r2", rec.ID)
}

func TestService_ListAll_MergesPages(t *testing.T) {
	f := newFixture(t, nil)
	f.rules.EXPECT().GetCacheInfo("ashaar").Return(cached(models.StrategyCacheFirst)).AnyTimes()
	gomock.InOrder(
		f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", models.ListParams{PageSize: 2}).
			Return(&models.ListResponse{Records: recs("r1", "r2"), Offset: "itr2"}, nil),
		f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", models.ListParams{PageSize: 2, Offset: "itr2"}).
			Return(&models.ListResponse{Records: recs("r2", "r3")}, nil),
	)

	res, err := f.svc.ListAll(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Records))
	for _, r := range res.Records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids)
	assert.False(t, res.HasMore)
	assert.Empty(t, res.Offset)
	assert.Equal(t, models.CacheStatusMiss, res.Cache)
}

func TestService_ListAll_BoundedByMaxPages(t *testing.T) {
	f := newFixture(t, nil)
	f.rules.EXPECT().GetCacheInfo("ashaar").Return(cached(models.StrategyCacheFirst)).AnyTimes()

	page := 0
	f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ models.ListParams) (*models.ListResponse, error) {
			page++
			return &models.ListResponse{Records: recs(fmt.Sprintf("r%d", page)), Offset: fmt.Sprintf("itr%d", page+1)}, nil
		}).
		Times(5)

	res, err := f.svc.ListAll(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)
	assert.Len(t, res.Records, 5)
	assert.True(t, res.HasMore)
	assert.Equal(t, "itr6", res.Offset)
}

func TestService_Get_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	f.rules.EXPECT().GetCacheInfo("shaer").Return(cached(models.StrategyCacheFirst))
	f.source.EXPECT().GetRecord(gomock.Any(), "Shaer", "missing").
		Return(nil, &airtable.APIError{StatusCode: 404, Type: "NOT_FOUND"})

	_, _, err := f.svc.Get(context.Background(), "shaer", "missing")
	assert.ErrorIs(t, err, airtable.ErrNotFound)
}

func TestService_GetContent(t *testing.T) {
	f := newFixture(t, nil)
	f.rules.EXPECT().GetCacheInfo("shaer").Return(cached(models.StrategyStaleWhileRevalidate))
	f.source.EXPECT().GetRecord(gomock.Any(), "Shaer", "recFaiz").
		Return(&models.Record{ID: "recFaiz", Fields: map[string]interface{}{"shaer": "Faiz Ahmad Faiz"}}, nil)

	content, status, err := f.svc.GetContent(context.Background(), "shaer", "recFaiz")
	require.NoError(t, err)
	assert.Equal(t, models.CacheStatusMiss, status)
	assert.Equal(t, models.KindPoets, content.Kind())
	assert.Equal(t, "recFaiz", content.Base().ID)
}

func TestService_Invalidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	f := newFixture(t, store)

	f.rules.EXPECT().GetCacheInfo(gomock.Any()).Return(cached(models.StrategyCacheFirst)).AnyTimes()
	f.source.EXPECT().ListRecords(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.ListResponse{Records: recs("r1")}, nil).AnyTimes()
	store.EXPECT().Get(gomock.Any()).Return(nil, false).AnyTimes()
	store.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	_, err := f.svc.List(context.Background(), "ashaar", models.ListParams{})
	require.NoError(t, err)
	_, err = f.svc.List(context.Background(), "shaer", models.ListParams{})
	require.NoError(t, err)

	store.EXPECT().DeleteMatching(gomock.Any()).DoAndReturn(func(match func(string) bool) int {
		assert.True(t, match("airtable:ashaar:record:r1"))
		assert.False(t, match("airtable:shaer:record:r1"))
		return 2
	})

	res, err := f.svc.Invalidate("^airtable:ashaar:")
	require.NoError(t, err)
	assert.Equal(t, InvalidateResult{Pages: 1, Records: 1, Store: 2}, res)

	stats := f.svc.Stats()
	assert.Equal(t, 1, stats.Pages.Size)
	assert.Equal(t, 1, stats.Records.Size)

	store.EXPECT().DeleteMatching(gomock.Any()).Return(0)
	res, err = f.svc.Invalidate("")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, 0, f.svc.Stats().Pages.Size)
}

func TestService_Invalidate_MalformedPattern(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Invalidate("([")
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestService_InvalidateResource(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.InvalidateResource("blogs")
	assert.ErrorIs(t, err, ErrUnknownResource)

	res, err := f.svc.InvalidateResource("ashaar")
	require.NoError(t, err)
	assert.Equal(t, InvalidateResult{}, res)
}

func TestService_Warm(t *testing.T) {
	f := newFixture(t, nil)
	f.rules.EXPECT().GetCacheInfo(gomock.Any()).Return(cached(models.StrategyCacheFirst)).AnyTimes()
	f.source.EXPECT().ListRecords(gomock.Any(), "Ashaar", gomock.Any()).
		Return(&models.ListResponse{Records: recs("r1"), Offset: "more"}, nil)
	f.source.EXPECT().ListRecords(gomock.Any(), "Shaer", gomock.Any()).
		Return(nil, errors.New("upstream down"))

	err := f.svc.Warm(context.Background(), []string{"ashaar", "shaer", "blogs"}, 1)

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownResource)
	assert.Equal(t, 1, f.svc.Stats().Pages.Size)
}

func TestWorseStatus(t *testing.T) {
	assert.Equal(t, models.CacheStatusMiss, worseStatus(models.CacheStatusHit, models.CacheStatusMiss))
	assert.Equal(t, models.CacheStatusMiss, worseStatus(models.CacheStatusMiss, models.CacheStatusHit))
	assert.Equal(t, models.CacheStatusStale, worseStatus(models.CacheStatusHit, models.CacheStatusStale))
}
