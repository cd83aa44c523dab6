package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"address-console/internal/domains/address/model"
	"address-console/internal/domains/address/repository"
	"address-console/internal/infrastructure/catalogapi"
	"address-console/internal/shared/inflight"
)

type Config struct {
	PageSize        int
	FetchSize       int
	DefaultLanguage string

	// OnSessionEnd được gọi sau khi session bị xóa (explicit hoặc sweep)
	OnSessionEnd func(userID string)
}

type addressService struct {
	repo     repository.RepositoryInterface
	cfg      Config
	sessions *registry
	now      func() time.Time
}

func NewAddressService(repo repository.RepositoryInterface, cfg Config) ServiceInterface {
	if cfg.PageSize < 1 {
		cfg.PageSize = 16
	}
	if cfg.FetchSize < 1 {
		cfg.FetchSize = 48
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	return &addressService{
		repo:     repo,
		cfg:      cfg,
		sessions: newRegistry(),
		now:      time.Now,
	}
}

// ============================================
// SESSION HELPERS
// ============================================

func (s *addressService) session(userID string) *session {
	sess := s.sessions.getOrCreate(userID, func() *session {
		log.Debug().Str("user_id", userID).Msg("address session started")
		return newSession(userID, s.cfg.PageSize, s.cfg.DefaultLanguage, s.now())
	})
	sess.mu.Lock()
	sess.lastSeen = s.now()
	sess.mu.Unlock()
	return sess
}

func (s *addressService) loadedSession(userID string) (*session, error) {
	sess, ok := s.sessions.get(userID)
	if !ok {
		return nil, model.NewListNotLoaded()
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if !sess.loaded {
		return nil, model.NewListNotLoaded()
	}
	sess.lastSeen = s.now()
	return sess, nil
}

// abortedOr ưu tiên abort khi context đã bị cancel, các lỗi khác giữ nguyên
func abortedOr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return inflight.Aborted(ctx)
	}
	return err
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ============================================
// READ
// ============================================

func (s *addressService) Load(ctx context.Context, userID string, req model.ListRequest) (*model.AddressView, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidQuery(err)
	}

	sess := s.session(userID)

	sess.mu.Lock()
	q := model.ListQuery{Language: req.Language, Tags: normalizeTags(req.Tags)}
	if q.Language == "" {
		q.Language = sess.query.Language
	}
	sess.mu.Unlock()

	return s.load(ctx, sess, q)
}

// load thay cache bằng batch đầu tiên của q và reset về display page 1
func (s *addressService) load(ctx context.Context, sess *session, q model.ListQuery) (*model.AddressView, error) {
	q.Limit = s.cfg.FetchSize
	q.LastDocID = ""

	ctx, ticket := sess.guard.Begin(ctx, kindFetch)
	defer ticket.Done()

	page, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, abortedOr(ctx, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !ticket.Current() {
		return nil, inflight.Aborted(ctx)
	}

	q.Limit = 0
	sess.cache.SelectPage(1)
	sess.cache.Refresh(page)
	sess.query = q
	sess.loaded = true

	return sess.viewLocked(), nil
}

func (s *addressService) LoadMore(ctx context.Context, userID string) (*model.AddressView, error) {
	sess, err := s.loadedSession(userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.fetchNext(ctx, sess); err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked(), nil
}

// fetchNext append batch tiếp theo nếu còn. Trả về số record được append.
func (s *addressService) fetchNext(ctx context.Context, sess *session) (int, error) {
	sess.mu.Lock()
	q := sess.query
	held := sess.cache.Page()
	sess.mu.Unlock()

	if !held.HasMore {
		return 0, nil
	}
	q.Limit = s.cfg.FetchSize
	q.LastDocID = held.LastDocID

	ctx, ticket := sess.guard.Begin(ctx, kindFetch)
	defer ticket.Done()

	page, err := s.repo.List(ctx, q)
	if err != nil {
		return 0, abortedOr(ctx, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !ticket.Current() {
		return 0, inflight.Aborted(ctx)
	}
	sess.cache.AppendPage(page)
	return len(page.Records), nil
}

func (s *addressService) View(ctx context.Context, userID string, page int) (*model.AddressView, error) {
	sess, err := s.loadedSession(userID)
	if err != nil {
		return nil, err
	}

	// load thêm batch cho tới khi page đích đầy hoặc server hết record
	for {
		sess.mu.Lock()
		need := sess.cache.Page().HasMore && page*sess.cache.PageSize() > sess.cache.AddressCount()
		sess.mu.Unlock()

		if !need {
			break
		}
		n, err := s.fetchNext(ctx, sess)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.cache.SelectPage(page)
	return sess.viewLocked(), nil
}

func (s *addressService) Current(userID string) (*model.AddressView, error) {
	sess, err := s.loadedSession(userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.viewLocked(), nil
}

// ============================================
// WRITE
// ============================================

func (s *addressService) Create(ctx context.Context, userID string, req model.AddressUpsertRequest) (*CreateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidAddress(err)
	}

	sess := s.session(userID)
	sess.mu.Lock()
	q := sess.query
	loaded := sess.loaded
	sess.mu.Unlock()

	language := req.Language
	if language == "" {
		language = q.Language
	}

	id, err := s.create(ctx, sess, language, req.ToRecord())
	if err != nil {
		return nil, err
	}

	result := &CreateResult{ID: id}
	if !loaded || language != q.Language {
		return result, nil
	}

	// reload để record mới xuất hiện đúng thứ tự server
	view, err := s.load(ctx, sess, q)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("address_id", id).Msg("reload after create failed")
		return result, nil
	}
	result.View = view
	return result, nil
}

func (s *addressService) create(ctx context.Context, sess *session, language string, record model.AddressRecord) (string, error) {
	ctx, ticket := sess.guard.Begin(ctx, kindCreate)
	defer ticket.Done()

	id, err := s.repo.Create(ctx, language, record)
	if err != nil {
		return "", abortedOr(ctx, err)
	}
	if !ticket.Current() {
		return "", inflight.Aborted(ctx)
	}
	return id, nil
}

func (s *addressService) Update(ctx context.Context, userID, id string, req model.AddressUpsertRequest) (*model.AddressRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.NewInvalidAddressID(id)
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidAddress(err)
	}

	sess := s.session(userID)
	sess.mu.Lock()
	language := req.Language
	if language == "" {
		language = sess.query.Language
	}
	sess.mu.Unlock()

	record := req.ToRecord()
	record.ID = id

	ctx, ticket := sess.guard.Begin(ctx, kindUpdate)
	defer ticket.Done()

	updated, err := s.repo.Update(ctx, language, record)
	if err != nil {
		return nil, abortedOr(ctx, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !ticket.Current() {
		return nil, inflight.Aborted(ctx)
	}
	sess.cache.UpdateSingle(updated)
	return &updated, nil
}

func (s *addressService) Delete(ctx context.Context, userID, id string) (*model.AddressView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.NewInvalidAddressID(id)
	}

	sess := s.session(userID)
	sess.mu.Lock()
	language := sess.query.Language
	sess.mu.Unlock()

	ctx, ticket := sess.guard.Begin(ctx, kindDelete)
	defer ticket.Done()

	deletedID, err := s.repo.Delete(ctx, language, id)
	if err != nil {
		return nil, abortedOr(ctx, err)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !ticket.Current() {
		return nil, inflight.Aborted(ctx)
	}
	sess.cache.DeleteSingle(deletedID)
	return sess.viewLocked(), nil
}

// Import tạo lần lượt các item hợp lệ. Item lỗi (schema hoặc upstream) được báo
// theo index và không chặn các item còn lại; abort dừng cả lượt import.
func (s *addressService) Import(ctx context.Context, userID, language string, raw []byte) (*ImportOutcome, error) {
	candidates, itemErrs, err := model.DecodeImport(raw)
	if err != nil {
		return nil, err
	}

	sess := s.session(userID)
	sess.mu.Lock()
	q := sess.query
	loaded := sess.loaded
	sess.mu.Unlock()
	if language == "" {
		language = q.Language
	}

	result := model.ImportResult{
		Created: []string{},
		Errors:  append([]model.ImportItemError{}, itemErrs...),
	}

	importCtx, ticket := sess.guard.Begin(ctx, kindImport)
	for _, c := range candidates {
		id, err := s.repo.Create(importCtx, language, c.Request.ToRecord())
		if err != nil {
			if importCtx.Err() != nil {
				ticket.Done()
				return nil, inflight.Aborted(importCtx)
			}
			result.Errors = append(result.Errors, model.ImportItemError{Index: c.Index, Message: upstreamMessage(err)})
			continue
		}
		result.Created = append(result.Created, id)
	}
	current := ticket.Current()
	ticket.Done()
	if !current {
		return nil, inflight.ErrAborted
	}

	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].Index < result.Errors[j].Index })

	log.Info().
		Str("user_id", userID).
		Int("created", len(result.Created)).
		Int("failed", len(result.Errors)).
		Msg("address import finished")

	outcome := &ImportOutcome{ImportResult: result}
	if len(result.Created) == 0 || !loaded || language != q.Language {
		return outcome, nil
	}

	view, err := s.load(ctx, sess, q)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("reload after import failed")
		return outcome, nil
	}
	outcome.View = view
	return outcome, nil
}

// ============================================
// EXPORT
// ============================================

func (s *addressService) Export(ctx context.Context, userID string, req model.ListRequest) (*model.ExportResult, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidQuery(err)
	}

	sess := s.session(userID)
	q := model.ListQuery{Language: req.Language, Tags: normalizeTags(req.Tags), Limit: s.cfg.FetchSize}
	if q.Language == "" {
		sess.mu.Lock()
		q.Language = sess.query.Language
		sess.mu.Unlock()
	}

	exportCtx, ticket := sess.guard.Begin(ctx, kindExport)
	defer ticket.Done()

	result := &model.ExportResult{Records: []model.AddressRecord{}, Language: q.Language}
	for {
		page, err := s.repo.List(exportCtx, q)
		if err != nil {
			return nil, abortedOr(exportCtx, err)
		}
		result.Records = append(result.Records, page.Records...)
		result.TotalCount = page.TotalCount

		if len(result.Records) >= model.MaxExportRecords {
			result.Truncated = len(result.Records) > model.MaxExportRecords || page.HasMore
			result.Records = result.Records[:min(len(result.Records), model.MaxExportRecords)]
			break
		}
		if !page.HasMore || len(page.Records) == 0 {
			break
		}
		q.LastDocID = page.LastDocID
	}

	log.Info().
		Str("user_id", userID).
		Str("language", q.Language).
		Int("records", len(result.Records)).
		Bool("truncated", result.Truncated).
		Msg("address export finished")
	return result, nil
}

func upstreamMessage(err error) string {
	var apiErr *catalogapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// ============================================
// LIFECYCLE
// ============================================

func (s *addressService) EndSession(userID string) bool {
	sess, ok := s.sessions.remove(userID)
	if !ok {
		return false
	}
	sess.guard.AbortAll()
	log.Debug().Str("user_id", userID).Msg("address session ended")
	if s.cfg.OnSessionEnd != nil {
		s.cfg.OnSessionEnd(userID)
	}
	return true
}

func (s *addressService) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	ended := 0

	for userID, sess := range s.sessions.snapshot() {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()

		if idle && s.EndSession(userID) {
			ended++
		}
	}
	if ended > 0 {
		log.Info().Int("ended", ended).Dur("max_idle", maxIdle).Msg("idle address sessions swept")
	}
	return ended
}

func (s *addressService) ActiveSessions() int {
	return s.sessions.len()
}
