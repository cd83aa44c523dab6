package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"address-console/internal/domains/settings/model"
	"address-console/internal/shared/debounce"
	"address-console/pkg/cache"
)

const cacheKeyPrefix = "console:settings:"

type ServiceInterface interface {
	// Get đọc settings của operator; chưa có thì trả về defaults
	Get(ctx context.Context, userID string) (*model.Settings, error)

	// Identify ghi profile từ token vào settings khi session bắt đầu
	Identify(ctx context.Context, profile model.UserProfile) (*model.Settings, error)

	// Update áp dụng thay đổi ngay trong bộ nhớ, ghi xuống store sau debounce
	Update(ctx context.Context, userID string, req model.UpdateRequest) (*model.Settings, error)

	// Flush ghi ngay mọi thay đổi đang chờ
	Flush()

	// Evict persist thay đổi đang chờ của operator rồi bỏ state trong bộ nhớ
	Evict(userID string)
}

type Config struct {
	DefaultLanguage string
	DefaultTheme    string
	FlushDelay      time.Duration
}

type settingsService struct {
	store cache.Cache
	cfg   Config

	mu         sync.Mutex
	current    map[string]model.Settings
	debouncers map[string]*debounce.Debouncer
}

func NewSettingsService(store cache.Cache, cfg Config) ServiceInterface {
	return &settingsService{
		store:      store,
		cfg:        cfg,
		current:    make(map[string]model.Settings),
		debouncers: make(map[string]*debounce.Debouncer),
	}
}

func cacheKey(userID string) string {
	return cacheKeyPrefix + userID
}

func (s *settingsService) defaults(userID string) model.Settings {
	return model.Settings{
		Config: model.ConsoleConfig{Language: s.cfg.DefaultLanguage, Theme: s.cfg.DefaultTheme},
		User:   model.UserProfile{ID: userID},
	}
}

func (s *settingsService) Get(ctx context.Context, userID string) (*model.Settings, error) {
	settings, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// load ưu tiên bản trong bộ nhớ vì nó có thể mới hơn bản đã persist
func (s *settingsService) load(ctx context.Context, userID string) (model.Settings, error) {
	s.mu.Lock()
	settings, ok := s.current[userID]
	s.mu.Unlock()
	if ok {
		return settings, nil
	}

	settings = s.defaults(userID)
	found, err := s.store.Get(ctx, cacheKey(userID), &settings)
	if err != nil {
		return model.Settings{}, err
	}
	if !found {
		settings = s.defaults(userID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// một Update chạy song song thắng
	if existing, ok := s.current[userID]; ok {
		return existing, nil
	}
	s.current[userID] = settings
	return settings, nil
}

func (s *settingsService) Identify(ctx context.Context, profile model.UserProfile) (*model.Settings, error) {
	settings, err := s.load(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if settings.User == profile {
		return &settings, nil
	}

	s.mu.Lock()
	settings = s.current[profile.ID]
	settings.User = profile
	s.current[profile.ID] = settings
	s.mu.Unlock()

	s.schedule(profile.ID)
	return &settings, nil
}

func (s *settingsService) Update(ctx context.Context, userID string, req model.UpdateRequest) (*model.Settings, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidSettings(err)
	}
	if _, err := s.load(ctx, userID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	settings := req.Apply(s.current[userID])
	s.current[userID] = settings
	s.mu.Unlock()

	s.schedule(userID)
	return &settings, nil
}

func (s *settingsService) schedule(userID string) {
	s.mu.Lock()
	d, ok := s.debouncers[userID]
	if !ok {
		d = debounce.New(s.cfg.FlushDelay, func() { s.persist(userID) })
		s.debouncers[userID] = d
	}
	s.mu.Unlock()

	d.Reset()
}

func (s *settingsService) persist(userID string) {
	s.mu.Lock()
	settings, ok := s.current[userID]
	s.mu.Unlock()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.Set(ctx, cacheKey(userID), settings, 0); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to persist operator settings")
		return
	}
	log.Debug().Str("user_id", userID).Msg("operator settings persisted")
}

func (s *settingsService) Flush() {
	s.mu.Lock()
	pending := make([]*debounce.Debouncer, 0, len(s.debouncers))
	for _, d := range s.debouncers {
		pending = append(pending, d)
	}
	s.mu.Unlock()

	flushed := 0
	for _, d := range pending {
		if d.Fire() {
			flushed++
		}
	}
	if flushed > 0 {
		log.Info().Int("operators", flushed).Msg("pending settings flushed")
	}
}

func (s *settingsService) Evict(userID string) {
	s.mu.Lock()
	d := s.debouncers[userID]
	s.mu.Unlock()

	if d != nil {
		d.Fire()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Update chen vào sau Fire thì giữ lại, debouncer mới sẽ persist nó
	if s.debouncers[userID] != d || (d != nil && d.Pending()) {
		return
	}
	delete(s.current, userID)
	delete(s.debouncers, userID)
}
