package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-content-cache/internal/airtable"
	"go-content-cache/internal/cache"
	"go-content-cache/internal/cache/l1"
	"go-content-cache/internal/cache/l2"
	"go-content-cache/internal/cache/multi"
	"go-content-cache/internal/cache/noop"
	"go-content-cache/internal/cache/session"
	"go-content-cache/internal/cache_rules"
	"go-content-cache/internal/config"
	"go-content-cache/internal/content"
	"go-content-cache/internal/httpserver"
	"go-content-cache/internal/interfaces"
	"go-content-cache/internal/models"
	"go-content-cache/internal/scheduler"
)

// CompositionRoot holds all application dependencies and wires them together.
//
// Initialization order:
// 1. Logger
// 2. Configuration and cache rules
// 3. Shared store tiers (L1 BigCache, L2 KeyDB)
// 4. Session caches and the upstream client
// 5. Content service, janitor and HTTP server
type CompositionRoot struct {
	Config     *config.Config
	Logger     *zap.Logger
	CacheRules interfaces.CacheRulesClassifier

	L1Store interfaces.Store
	L2Store interfaces.Store
	Store   *multi.MultiStore

	PageCache   *session.Cache[models.ListResponse]
	RecordCache *session.Cache[models.Record]

	Upstream       *airtable.Client
	ContentService *content.Service
	Janitor        *scheduler.Scheduler
	HTTPServer     *httpserver.Server

	warmCancel context.CancelFunc
}

// NewCompositionRoot creates and initializes all application dependencies
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.loadCacheRules(); err != nil {
		return nil, fmt.Errorf("failed to load cache rules: %w", err)
	}

	if err := root.initStores(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache stores: %w", err)
	}

	if err := root.initSessionCaches(); err != nil {
		return nil, fmt.Errorf("failed to initialize session caches: %w", err)
	}

	if err := root.initUpstream(); err != nil {
		return nil, fmt.Errorf("failed to initialize upstream client: %w", err)
	}

	root.initServices()

	return root, nil
}

// initLogger builds a production logger, or a development one when LOG_LEVEL=debug
func (r *CompositionRoot) initLogger() error {
	var (
		logger *zap.Logger
		err    error
	)
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("CONTENT_CONFIG_FILE")
	if configPath == "" {
		configPath = "/app/content_config.yaml"
	}

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

func (r *CompositionRoot) loadCacheRules() error {
	rulesPath := os.Getenv("CONTENT_RULES_FILE")
	if rulesPath == "" {
		rulesPath = "/app/cache_rules.yaml"
	}

	cacheRules, err := cache_rules.LoadCacheRulesConfig(rulesPath, r.Logger)
	if err != nil {
		return err
	}

	for _, resource := range cacheRules.GetAllResources() {
		if _, ok := r.Config.TableFor(resource); !ok {
			r.Logger.Warn("Cache rule for unconfigured resource", zap.String("resource", resource))
		}
	}

	r.CacheRules = cache_rules.NewClassifier(r.Logger, cacheRules)
	return nil
}

// initStores builds the shared store: L1 in front of L2, no-op for disabled tiers
func (r *CompositionRoot) initStores() error {
	if r.Config.BigCache.Enabled {
		l1Store, err := l1.NewBigCache(&r.Config.BigCache, r.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize L1 store: %w", err)
		}
		r.L1Store = l1Store
		r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", r.Config.BigCache.Size))
	} else {
		r.L1Store = noop.NewNoOpStore()
		r.Logger.Info("BigCache (L1) disabled")
	}

	r.initL2Store()

	r.Store = multi.NewMultiStore([]interfaces.Store{r.L1Store, r.L2Store}, r.Logger)
	return nil
}

// initL2Store connects to KeyDB; an unreachable KeyDB degrades to no L2 tier
func (r *CompositionRoot) initL2Store() {
	if !r.Config.KeyDB.Enabled {
		r.L2Store = noop.NewNoOpStore()
		r.Logger.Info("KeyDB (L2) disabled")
		return
	}

	redis.SetLogger(newRedisLogger(r.Logger))

	keydbURL, err := GetKeyDBURL(r.Logger)
	if err != nil {
		r.Logger.Warn("KeyDB URL unavailable, falling back to no L2 store", zap.Error(err))
		r.L2Store = noop.NewNoOpStore()
		return
	}

	keydbClient, err := l2.NewRedisKeyDbClient(&r.Config.KeyDB, keydbURL, r.Logger)
	if err != nil {
		r.Logger.Warn("Failed to connect to KeyDB, falling back to no L2 store",
			zap.String("keydb_url", redactURL(keydbURL)),
			zap.Error(err))
		r.L2Store = noop.NewNoOpStore()
		return
	}

	r.L2Store = l2.NewKeyDBCache(&r.Config.KeyDB, keydbClient, r.Logger)
	r.Logger.Info("KeyDB (L2) initialized", zap.String("keydb_url", redactURL(keydbURL)))
}

func (r *CompositionRoot) initSessionCaches() error {
	sc := r.Config.SessionCache

	pages, err := session.New[models.ListResponse]("pages", session.Config{
		TTL:     sc.TTL,
		MaxSize: sc.MaxSize,
	}, r.Logger)
	if err != nil {
		return err
	}

	records, err := session.New[models.Record]("records", session.Config{
		TTL:     sc.TTL,
		MaxSize: sc.MaxRecords,
	}, r.Logger)
	if err != nil {
		return err
	}

	r.PageCache = pages
	r.RecordCache = records
	return nil
}

func (r *CompositionRoot) initUpstream() error {
	apiKey, err := GetAirtableAPIKey(r.Logger)
	if err != nil {
		return err
	}
	r.Upstream = airtable.NewClient(&r.Config.Airtable, apiKey, r.Logger)
	return nil
}

func (r *CompositionRoot) initServices() {
	r.ContentService = content.NewService(
		r.Upstream,
		cache.NewKeyBuilder(),
		r.CacheRules,
		r.Store,
		r.PageCache,
		r.RecordCache,
		content.Options{
			Tables:          r.Config.Airtable.Tables,
			DefaultPageSize: r.Config.Airtable.DefaultPageSize,
			MaxPages:        r.Config.Airtable.MaxPages,
		},
		r.Logger,
	)

	r.Janitor = scheduler.New(r.Config.SessionCache.JanitorInterval, func() {
		if purged := r.ContentService.PurgeExpired(); purged > 0 {
			r.Logger.Debug("Purged expired session entries", zap.Int("purged", purged))
		}
	})

	r.HTTPServer = httpserver.NewServer(
		r.ContentService,
		r.Config.Server,
		r.Config.Airtable.DefaultPageSize,
		r.Logger,
	)
}

// StartBackground starts the session janitor and, when enabled, cache warmup
func (r *CompositionRoot) StartBackground() {
	r.Janitor.Start()

	warm := r.Config.Warmup
	if !warm.Enabled || len(warm.Resources) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), warm.Timeout)
	r.warmCancel = cancel
	go func() {
		defer cancel()
		r.Logger.Info("Warming session caches",
			zap.Strings("resources", warm.Resources),
			zap.Int("pages", warm.Pages))
		if err := r.ContentService.Warm(ctx, warm.Resources, warm.Pages); err != nil {
			r.Logger.Warn("Cache warmup incomplete", zap.Error(err))
			return
		}
		r.Logger.Info("Cache warmup finished")
	}()
}

// Cleanup stops background work and releases all resources
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if r.warmCancel != nil {
		r.warmCancel()
	}
	if r.Janitor != nil {
		r.Janitor.Stop()
	}

	if bc, ok := r.L1Store.(*l1.BigCache); ok {
		if err := bc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L1 store: %w", err))
		}
	}
	if kc, ok := r.L2Store.(*l2.KeyDBCache); ok {
		if err := kc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close L2 store: %w", err))
		}
	}

	if r.Logger != nil {
		// Sync fails on stderr/stdout with some platforms; nothing to recover
		_ = r.Logger.Sync()
	}

	return errors.Join(errs...)
}
