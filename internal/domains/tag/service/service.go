package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"address-console/internal/domains/tag/model"
	"address-console/internal/domains/tag/repository"
	"address-console/internal/infrastructure/catalogapi"
	"address-console/internal/shared/inflight"
	"address-console/internal/shared/poller"
	"address-console/pkg/cache"
)

const cacheKeyPrefix = "console:tags:"

// ServiceInterface đọc tag categories qua cache
type ServiceInterface interface {
	// Categories trả về categories của language; force bỏ qua cache và yêu cầu backend refresh
	Categories(ctx context.Context, userID, language string, force bool) (*model.TagCategories, error)

	// Warm refresh cache cho mọi language được cấu hình
	Warm(ctx context.Context)

	// StartRefresher chạy Warm theo interval cho tới StopRefresher
	StartRefresher(ctx context.Context)
	StopRefresher()
}

type Config struct {
	CacheTTL        time.Duration
	RefreshInterval time.Duration
	Languages       []string
	// ServiceToken là credential dùng cho refresh nền, không gắn với operator nào
	ServiceToken string
}

type tagService struct {
	repo   repository.RepositoryInterface
	cache  cache.Cache
	cfg    Config
	guard  *inflight.Guard
	poller *poller.Poller
}

func NewTagService(repo repository.RepositoryInterface, c cache.Cache, cfg Config) ServiceInterface {
	s := &tagService{
		repo:  repo,
		cache: c,
		cfg:   cfg,
		guard: inflight.New(),
	}
	if cfg.RefreshInterval > 0 {
		s.poller = poller.New(cfg.RefreshInterval, s.Warm)
	}
	return s
}

func cacheKey(language string) string {
	return cacheKeyPrefix + language
}

func (s *tagService) Categories(ctx context.Context, userID, language string, force bool) (*model.TagCategories, error) {
	if len(language) < 2 || len(language) > 16 {
		return nil, model.NewInvalidLanguage(language)
	}

	if !force {
		var cached model.TagCategories
		found, err := s.cache.Get(ctx, cacheKey(language), &cached)
		if err != nil {
			// cache lỗi thì đọc thẳng backend
			log.Warn().Err(err).Str("language", language).Msg("tag cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	ctx, ticket := s.guard.Begin(ctx, "tags:"+userID)
	defer ticket.Done()

	categories, err := s.repo.Categories(ctx, language, force)
	if err != nil {
		if ctx.Err() != nil {
			return nil, inflight.Aborted(ctx)
		}
		return nil, err
	}
	if !ticket.Current() {
		return nil, inflight.Aborted(ctx)
	}

	s.store(ctx, categories)
	return categories, nil
}

func (s *tagService) store(ctx context.Context, categories *model.TagCategories) {
	if err := s.cache.Set(ctx, cacheKey(categories.Language), categories, s.cfg.CacheTTL); err != nil {
		log.Warn().Err(err).Str("language", categories.Language).Msg("tag cache write failed")
	}
}

func (s *tagService) Warm(ctx context.Context) {
	ctx = catalogapi.WithToken(ctx, s.cfg.ServiceToken)

	for _, language := range s.cfg.Languages {
		if ctx.Err() != nil {
			return
		}
		categories, err := s.repo.Categories(ctx, language, false)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Str("language", language).Msg("tag refresh failed")
			}
			continue
		}
		s.store(ctx, categories)
		log.Debug().Str("language", language).Int("categories", len(categories.Categories)).Msg("tag categories refreshed")
	}
}

func (s *tagService) StartRefresher(ctx context.Context) {
	if s.poller == nil {
		return
	}
	log.Info().Dur("interval", s.cfg.RefreshInterval).Strs("languages", s.cfg.Languages).Msg("tag refresher started")
	s.poller.Start(ctx)
}

func (s *tagService) StopRefresher() {
	if s.poller == nil || !s.poller.Running() {
		return
	}
	s.poller.Stop()
	log.Info().Msg("tag refresher stopped")
}
