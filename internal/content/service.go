// Package content serves upstream records through the cache hierarchy:
// session cache, shared byte store, then the record API.
package content

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-content-cache/internal/cache"
	"go-content-cache/internal/cache/session"
	"go-content-cache/internal/cache/strategy"
	"go-content-cache/internal/cache/tiered"
	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/models"
	"go-content-cache/internal/pagination"
)

var (
	// ErrUnknownResource is returned for resources without a configured table
	ErrUnknownResource = errors.New("unknown resource")
	// ErrInvalidPattern is returned for invalidation patterns that do not compile
	ErrInvalidPattern = errors.New("invalid invalidation pattern")
)

// ListResult is one page, or the accumulation of several pages, of a resource
type ListResult struct {
	Records []models.Record
	Offset  string
	HasMore bool
	Cache   models.CacheStatus
}

// InvalidateResult counts the entries removed per layer
type InvalidateResult struct {
	Pages   int `json:"pages"`
	Records int `json:"records"`
	Store   int `json:"store"`
}

// Stats describes both session caches
type Stats struct {
	Pages   session.Stats `json:"pages"`
	Records session.Stats `json:"records"`
}

// Options configures a Service
type Options struct {
	// Tables maps resource names to upstream table names
	Tables          map[string]string
	DefaultPageSize int
	MaxPages        int
}

// Service resolves resources to tables and serves them through the caches
type Service struct {
	source     interfaces.RecordSource
	keys       interfaces.KeyBuilder
	rules      interfaces.CacheRulesClassifier
	store      interfaces.Store
	pages      *strategy.Strategies[models.ListResponse]
	records    *strategy.Strategies[models.Record]
	pageTier   *tiered.Tier[models.ListResponse]
	recordTier *tiered.Tier[models.Record]
	opts       Options
	logger     *zap.Logger
}

// NewService creates a new content Service
func NewService(
	source interfaces.RecordSource,
	keys interfaces.KeyBuilder,
	rules interfaces.CacheRulesClassifier,
	store interfaces.Store,
	pageCache *session.Cache[models.ListResponse],
	recordCache *session.Cache[models.Record],
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = pagination.DefaultPageSize
	}
	return &Service{
		source:     source,
		keys:       keys,
		rules:      rules,
		store:      store,
		pages:      strategy.New(pageCache, logger),
		records:    strategy.New(recordCache, logger),
		pageTier:   tiered.New[models.ListResponse](store, logger),
		recordTier: tiered.New[models.Record](store, logger),
		opts:       opts,
		logger:     logger,
	}
}

// HasResource reports whether a resource is configured
func (s *Service) HasResource(resource string) bool {
	_, ok := s.opts.Tables[resource]
	return ok
}

// List returns one page of a resource
func (s *Service) List(ctx context.Context, resource string, params models.ListParams) (*ListResult, error) {
	table, err := s.table(resource)
	if err != nil {
		return nil, err
	}
	if params.PageSize <= 0 {
		params.PageSize = s.opts.DefaultPageSize
	}

	fetch := func(ctx context.Context) (models.ListResponse, error) {
		resp, err := s.source.ListRecords(ctx, table, params)
		if err != nil {
			return models.ListResponse{}, fmt.Errorf("failed to list %s: %w", resource, err)
		}
		return *resp, nil
	}

	info := s.rules.GetCacheInfo(resource)
	var (
		page   models.ListResponse
		status models.CacheStatus
	)

	if info.Bypass() {
		page, err = fetch(ctx)
		status = models.CacheStatusBypass
	} else {
		key, keyErr := s.keys.ListKey(resource, params)
		if keyErr != nil {
			return nil, fmt.Errorf("failed to build list key: %w", keyErr)
		}
		page, status, err = s.pages.Serve(ctx, info.Strategy, key, s.backPage(info, key, fetch), info.TTL)
		if err == nil && status != models.CacheStatusHit {
			s.primeRecords(resource, page.Records, info)
		}
	}
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Records: page.Records,
		Offset:  page.Offset,
		HasMore: page.Offset != "",
		Cache:   status,
	}, nil
}

// ListAll follows offsets from params until the last page or the configured page limit
func (s *Service) ListAll(ctx context.Context, resource string, params models.ListParams) (*ListResult, error) {
	if _, err := s.table(resource); err != nil {
		return nil, err
	}

	status := models.CacheStatusHit
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = s.opts.DefaultPageSize
	}

	paginator := pagination.NewPaginator(pageSize, func(ctx context.Context, state pagination.State) (pagination.Page[models.Record], error) {
		p := params.WithOffset(state.Offset)
		p.PageSize = state.PageSize
		if state.Offset == "" {
			p.Offset = params.Offset
		}

		res, err := s.List(ctx, resource, p)
		if err != nil {
			return pagination.Page[models.Record]{}, err
		}
		status = worseStatus(status, res.Cache)
		return pagination.Page[models.Record]{Records: res.Records, Offset: res.Offset}, nil
	}, recordKey)

	records, err := paginator.LoadAll(ctx, s.opts.MaxPages)
	if err != nil {
		return nil, err
	}

	state := paginator.State()
	return &ListResult{
		Records: records,
		Offset:  state.Offset,
		HasMore: paginator.HasMore(),
		Cache:   status,
	}, nil
}

// Get returns a single record of a resource
func (s *Service) Get(ctx context.Context, resource, id string) (*models.Record, models.CacheStatus, error) {
	table, err := s.table(resource)
	if err != nil {
		return nil, "", err
	}

	fetch := func(ctx context.Context) (models.Record, error) {
		rec, err := s.source.GetRecord(ctx, table, id)
		if err != nil {
			return models.Record{}, fmt.Errorf("failed to get %s record %s: %w", resource, id, err)
		}
		return *rec, nil
	}

	info := s.rules.GetCacheInfo(resource)
	if info.Bypass() {
		rec, err := fetch(ctx)
		if err != nil {
			return nil, "", err
		}
		return &rec, models.CacheStatusBypass, nil
	}

	key, err := s.keys.RecordKey(resource, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build record key: %w", err)
	}

	rec, status, err := s.records.Serve(ctx, info.Strategy, key, s.backRecord(info, key, fetch), info.TTL)
	if err != nil {
		return nil, "", err
	}
	return &rec, status, nil
}

// GetContent returns a single record decoded into its content variant
func (s *Service) GetContent(ctx context.Context, resource, id string) (models.Content, models.CacheStatus, error) {
	rec, status, err := s.Get(ctx, resource, id)
	if err != nil {
		return nil, "", err
	}

	content, err := models.DecodeContent(models.ContentKind(resource), rec)
	if err != nil {
		return nil, "", err
	}
	return content, status, nil
}

// Invalidate removes keys matching the regular expression pattern from the
// session caches and the shared store. An empty pattern removes everything.
func (s *Service) Invalidate(pattern string) (InvalidateResult, error) {
	if pattern == "" {
		res := InvalidateResult{
			Pages:   s.pages.Cache().Invalidate(""),
			Records: s.records.Cache().Invalidate(""),
			Store:   s.store.DeleteMatching(session.Prefix(cache.KeyPrefix + ":").Match),
		}
		s.logger.Info("Invalidated all cached content", zap.Any("removed", res))
		return res, nil
	}

	matcher, err := session.ParsePattern(pattern)
	if err != nil {
		return InvalidateResult{}, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return s.InvalidateMatching(matcher), nil
}

// InvalidateResource removes every cached page and record of a resource
func (s *Service) InvalidateResource(resource string) (InvalidateResult, error) {
	if _, err := s.table(resource); err != nil {
		return InvalidateResult{}, err
	}
	return s.InvalidateMatching(session.Prefix(cache.ResourcePrefix(resource))), nil
}

// InvalidateMatching removes keys accepted by matcher from every layer
func (s *Service) InvalidateMatching(matcher session.Matcher) InvalidateResult {
	res := InvalidateResult{
		Pages:   s.pages.Cache().InvalidateMatching(matcher),
		Records: s.records.Cache().InvalidateMatching(matcher),
		Store:   s.store.DeleteMatching(matcher.Match),
	}
	s.logger.Info("Invalidated cached content", zap.Any("removed", res))
	return res
}

// PurgeExpired sweeps expired entries from both session caches
func (s *Service) PurgeExpired() int {
	return s.pages.Cache().PurgeExpired() + s.records.Cache().PurgeExpired()
}

// Stats returns a snapshot of both session caches
func (s *Service) Stats() Stats {
	return Stats{
		Pages:   s.pages.Cache().Stats(),
		Records: s.records.Cache().Stats(),
	}
}

// Warm prefetches the first pages of the given resources.
// Failures are logged and joined; warming continues with the next resource.
func (s *Service) Warm(ctx context.Context, resources []string, pages int) error {
	var errs []error

	for _, resource := range resources {
		paginator := pagination.NewPaginator(s.opts.DefaultPageSize, func(ctx context.Context, state pagination.State) (pagination.Page[models.Record], error) {
			res, err := s.List(ctx, resource, models.ListParams{PageSize: state.PageSize, Offset: state.Offset})
			if err != nil {
				return pagination.Page[models.Record]{}, err
			}
			return pagination.Page[models.Record]{Records: res.Records, Offset: res.Offset}, nil
		}, recordKey)

		records, err := paginator.LoadAll(ctx, pages)
		if err != nil {
			s.logger.Warn("Failed to warm resource", zap.String("resource", resource), zap.Error(err))
			errs = append(errs, fmt.Errorf("failed to warm %s: %w", resource, err))
			continue
		}
		s.logger.Info("Warmed resource", zap.String("resource", resource), zap.Int("records", len(records)))
	}

	return errors.Join(errs...)
}

func (s *Service) table(resource string) (string, error) {
	table, ok := s.opts.Tables[resource]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	return table, nil
}

// backPage puts the shared store behind a page fetcher
func (s *Service) backPage(info models.CacheInfo, key string, fetch strategy.Fetcher[models.ListResponse]) strategy.Fetcher[models.ListResponse] {
	if mustReachUpstream(info.Strategy) {
		return s.pageTier.WriteThrough(key, info.StoreTTL(), fetch)
	}
	return s.pageTier.ReadThrough(key, info.StoreTTL(), fetch)
}

func (s *Service) backRecord(info models.CacheInfo, key string, fetch strategy.Fetcher[models.Record]) strategy.Fetcher[models.Record] {
	if mustReachUpstream(info.Strategy) {
		return s.recordTier.WriteThrough(key, info.StoreTTL(), fetch)
	}
	return s.recordTier.ReadThrough(key, info.StoreTTL(), fetch)
}

// mustReachUpstream reports whether every fetch of the strategy has to hit the
// upstream. network-first always does, and a stale-while-revalidate refresh
// would otherwise read back the store copy written with the same TTL.
// Both only write through; the store still serves stale-if-error.
func mustReachUpstream(st models.Strategy) bool {
	return st == models.StrategyNetworkFirst || st == models.StrategyStaleWhileRevalidate
}

// primeRecords seeds the record cache with the records of a freshly fetched page
func (s *Service) primeRecords(resource string, records []models.Record, info models.CacheInfo) {
	recordCache := s.records.Cache()
	for _, rec := range records {
		key, err := s.keys.RecordKey(resource, rec.ID)
		if err != nil {
			continue
		}
		recordCache.Set(key, rec, info.TTL)
	}
}

func recordKey(rec models.Record) string {
	return rec.ID
}

// worseStatus keeps the least cached of two statuses
func worseStatus(a, b models.CacheStatus) models.CacheStatus {
	rank := map[models.CacheStatus]int{
		models.CacheStatusHit:    0,
		models.CacheStatusStale:  1,
		models.CacheStatusMiss:   2,
		models.CacheStatusBypass: 3,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
