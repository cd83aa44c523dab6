package container

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"address-console/internal/config"
	infraCache "address-console/internal/infrastructure/cache"
	"address-console/internal/infrastructure/catalogapi"
	"address-console/internal/infrastructure/database"
	"address-console/internal/metrics"
	"address-console/internal/shared/middleware"
	"address-console/internal/shared/poller"
	"address-console/pkg/cache"
	"address-console/pkg/jwt"

	addressHandler "address-console/internal/domains/address/handler"
	addressRepo "address-console/internal/domains/address/repository"
	addressService "address-console/internal/domains/address/service"
	consoleHandler "address-console/internal/domains/console/handler"
	consoleService "address-console/internal/domains/console/service"
	"address-console/internal/domains/generation/generator"
	generationHandler "address-console/internal/domains/generation/handler"
	generationRepo "address-console/internal/domains/generation/repository"
	generationService "address-console/internal/domains/generation/service"
	settingsHandler "address-console/internal/domains/settings/handler"
	settingsService "address-console/internal/domains/settings/service"
	tagHandler "address-console/internal/domains/tag/handler"
	tagRepo "address-console/internal/domains/tag/repository"
	tagService "address-console/internal/domains/tag/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của console
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB // nil khi CATALOG_BACKEND=api
	Cache      cache.Cache          // Redis, hoặc in-memory khi Redis tắt/không kết nối được
	Catalog    *catalogapi.Client
	JWTManager *jwt.Manager
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics

	GenerationLimiter *middleware.RateLimiter

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AddressRepo addressRepo.RepositoryInterface
	TagRepo     tagRepo.RepositoryInterface
	PromptRepo  generationRepo.PromptRepository
	Generator   generator.Generator

	// ========================================
	// SERVICE LAYER
	// ========================================
	AddressService    addressService.ServiceInterface
	TagService        tagService.ServiceInterface
	GenerationService generationService.ServiceInterface
	SettingsService   settingsService.ServiceInterface
	ConsoleService    consoleService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	AddressHandler    *addressHandler.AddressHandler
	TagHandler        *tagHandler.TagHandler
	GenerationHandler *generationHandler.GenerationHandler
	SettingsHandler   *settingsHandler.SettingsHandler
	ConsoleHandler    *consoleHandler.ConsoleHandler

	sessionSweeper *poller.Poller
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer load config từ env rồi build dependency graph
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return Build(ctx, cfg)
}

// Build tạo dependency graph theo thứ tự:
// 1. Infrastructure (DB, Cache, catalog client, metrics)
// 2. Repositories theo backend được chọn
// 3. Services
// 4. Handlers
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Str("environment", cfg.App.Environment).
		Str("catalog_backend", cfg.Backend.Catalog).
		Str("generator_backend", cfg.Backend.Generator).
		Msg("Initializing DI container")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: INFRASTRUCTURE
	// ========================================
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Metrics = metrics.New(c.Registry)

	c.Catalog = catalogapi.NewClient(cfg.CatalogAPI.BaseURL, cfg.CatalogAPI.Timeout, catalogapi.WithObserver(c.Metrics))
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer)
	c.GenerationLimiter = middleware.NewRateLimiter(cfg.Generation.RequestsPerMin, cfg.Generation.BurstPerSession)

	if cfg.Backend.Catalog == config.BackendPostgres {
		if err := c.initDatabase(ctx); err != nil {
			return nil, err
		}
	}
	c.initCache(ctx)

	// ========================================
	// STEP 2-4: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	if err := c.initRepositories(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase(ctx context.Context) error {
	dbConfig, err := config.LoadDatabaseConfig(c.Config.Database)
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Info().Msg("Database connected")
	return nil
}

// initCache: Redis failure không critical, console chạy tiếp với in-memory cache
func (c *Container) initCache(ctx context.Context) {
	if !c.Config.Redis.Enabled {
		c.Cache = infraCache.NewMemoryCache()
		log.Info().Msg("Redis disabled, using in-memory cache")
		return
	}

	redisCache := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), using in-memory cache")
		_ = redisCache.Close()
		c.Cache = infraCache.NewMemoryCache()
		return
	}
	c.Cache = redisCache
}

func (c *Container) initRepositories(ctx context.Context) error {
	switch c.Config.Backend.Catalog {
	case config.BackendPostgres:
		c.AddressRepo = addressRepo.NewPostgresRepository(c.DB.Pool)
		c.TagRepo = tagRepo.NewPostgresRepository(c.DB.Pool)
		c.PromptRepo = generationRepo.NewPostgresPromptRepository(c.DB.Pool)
	default:
		c.AddressRepo = addressRepo.NewHTTPRepository(c.Catalog)
		c.TagRepo = tagRepo.NewHTTPRepository(c.Catalog)
		c.PromptRepo = generationRepo.NewHTTPPromptRepository(c.Catalog)
	}

	switch c.Config.Backend.Generator {
	case config.GeneratorGenAI:
		gen, err := generator.NewGenAIGenerator(ctx, c.Config.Generation.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create genai generator: %w", err)
		}
		c.Generator = gen
	default:
		c.Generator = generator.NewAPIGenerator(c.Catalog)
	}
	return nil
}

func (c *Container) initServices() {
	cfg := c.Config

	c.AddressService = addressService.NewAddressService(c.AddressRepo, addressService.Config{
		PageSize:        cfg.Pagination.DisplaySize,
		FetchSize:       cfg.Pagination.FetchSize,
		DefaultLanguage: cfg.Settings.DefaultLanguage,
		OnSessionEnd:    c.evictOperator,
	})

	c.TagService = tagService.NewTagService(c.TagRepo, c.Cache, tagService.Config{
		CacheTTL:        cfg.Tags.CacheTTL,
		RefreshInterval: cfg.Tags.RefreshInterval,
		Languages:       cfg.Tags.Languages,
		ServiceToken:    cfg.CatalogAPI.ServiceToken,
	})

	c.GenerationService = generationService.NewGenerationService(c.Generator, c.PromptRepo, generationService.Config{
		DefaultModel:    cfg.Generation.DefaultModel,
		DefaultEffort:   cfg.Generation.DefaultEffort,
		DefaultCount:    cfg.Generation.DefaultCount,
		MaxCount:        cfg.Generation.MaxCount,
		DefaultLanguage: cfg.Settings.DefaultLanguage,
	})

	c.SettingsService = settingsService.NewSettingsService(c.Cache, settingsService.Config{
		DefaultLanguage: cfg.Settings.DefaultLanguage,
		DefaultTheme:    cfg.Settings.DefaultTheme,
		FlushDelay:      cfg.Settings.FlushDelay,
	})

	c.ConsoleService = consoleService.NewConsoleService(c.AddressService, c.TagService, c.SettingsService)

	if cfg.Session.IdleTTL > 0 {
		c.sessionSweeper = poller.New(cfg.Session.SweepInterval, c.sweepSessions)
	}
}

func (c *Container) initHandlers() {
	c.AddressHandler = addressHandler.NewAddressHandler(c.AddressService)
	c.TagHandler = tagHandler.NewTagHandler(c.TagService, c.Config.Settings.DefaultLanguage)
	c.GenerationHandler = generationHandler.NewGenerationHandler(c.GenerationService)
	c.SettingsHandler = settingsHandler.NewSettingsHandler(c.SettingsService)
	c.ConsoleHandler = consoleHandler.NewConsoleHandler(c.ConsoleService)
}

// ========================================
// LIFECYCLE
// ========================================

// Start chạy các background loop: tag refresher và session sweeper
func (c *Container) Start(ctx context.Context) {
	c.TagService.StartRefresher(ctx)
	if c.sessionSweeper != nil {
		c.sessionSweeper.Start(ctx)
	}
}

func (c *Container) sweepSessions(context.Context) {
	c.AddressService.Sweep(c.Config.Session.IdleTTL)
	if mem, ok := c.Cache.(*infraCache.MemoryCache); ok {
		if n := mem.Sweep(); n > 0 {
			log.Debug().Int("entries", n).Msg("expired memory cache entries removed")
		}
	}
	c.Metrics.SetSessions(c.AddressService.ActiveSessions())
}

// evictOperator bỏ settings trong bộ nhớ khi session address của operator kết thúc
func (c *Container) evictOperator(userID string) {
	if c.SettingsService != nil {
		c.SettingsService.Evict(userID)
	}
}

// Cleanup dừng background loop, flush settings rồi đóng connections.
// Gọi trong graceful shutdown của server.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.TagService != nil {
		c.TagService.StopRefresher()
	}
	if c.sessionSweeper != nil {
		c.sessionSweeper.Stop()
	}

	// settings phải ghi xong trước khi đóng Redis
	if c.SettingsService != nil {
		c.SettingsService.Flush()
	}

	if c.DB != nil {
		c.DB.Close()
		log.Info().Msg("Database connections closed")
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		} else {
			log.Info().Msg("Redis connections closed")
		}
	}
}
