package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"address-console/internal/domains/address/model"
	"address-console/internal/domains/address/pagecache"
	"address-console/internal/shared/inflight"
)

// Request kinds; a new request of a kind aborts the live one of the same kind.
const (
	kindFetch  = "fetch"
	kindCreate = "create"
	kindUpdate = "update"
	kindDelete = "delete"
	kindImport = "import"
	kindExport = "export"
)

// session là state của một operator. mu serialize mọi mutation của cache;
// network call không bao giờ giữ mu.
type session struct {
	mu       sync.Mutex
	cache    pagecache.PageCache
	query    model.ListQuery
	loaded   bool
	lastSeen time.Time

	guard *inflight.Guard
}

func newSession(userID string, pageSize int, language string, now time.Time) *session {
	return &session{
		cache:    pagecache.New(pageSize, pagecache.WithListener(traceTransitions(userID))),
		query:    model.ListQuery{Language: language, Tags: []string{}},
		lastSeen: now,
		guard:    inflight.New(),
	}
}

func traceTransitions(userID string) pagecache.Listener {
	return func(st pagecache.State) {
		log.Debug().
			Str("user_id", userID).
			Str("language", st.Language).
			Int("current_page", st.CurrentPage).
			Int("total_pages", st.TotalPages).
			Int("address_count", st.AddressCount).
			Bool("has_more", st.HasMore).
			Msg("page cache changed")
	}
}

// viewLocked builds the current display page. Caller holds mu.
func (s *session) viewLocked() *model.AddressView {
	held := s.cache.Page()
	return &model.AddressView{
		Addresses:    s.cache.Visible(),
		CurrentPage:  s.cache.CurrentPage(),
		TotalPages:   s.cache.TotalPages(),
		PageSize:     s.cache.PageSize(),
		AddressCount: s.cache.AddressCount(),
		TotalCount:   held.TotalCount,
		HasMore:      held.HasMore,
		Language:     s.query.Language,
		Tags:         append([]string{}, s.query.Tags...),
	}
}

type registry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*session)}
}

func (r *registry) getOrCreate(userID string, create func() *session) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := create()
	r.sessions[userID] = s
	return s
}

func (r *registry) get(userID string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

func (r *registry) remove(userID string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if ok {
		delete(r.sessions, userID)
	}
	return s, ok
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *registry) snapshot() map[string]*session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]*session, len(r.sessions))
	for k, v := range r.sessions {
		out[k] = v
	}
	return out
}
