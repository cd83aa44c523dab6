// Package pagecache holds the address page a session is looking at and
// derives display pagination from a fixed page size.
package pagecache

import (
	"address-console/internal/domains/address/model"
)

// PageCache là interface mà service phụ thuộc vào
type PageCache interface {
	Refresh(page model.AddressPage)
	AppendPage(page model.AddressPage)
	SelectPage(n int)
	UpdateSingle(record model.AddressRecord)
	DeleteSingle(id string)

	CurrentPage() int
	TotalPages() int
	AddressCount() int
	PageSize() int
	Page() model.AddressPage
	Visible() []model.AddressRecord
}

// State là snapshot của cache, gửi cho listener sau mỗi transition
type State struct {
	CurrentPage  int
	TotalPages   int
	AddressCount int
	TotalCount   int
	HasMore      bool
	LastDocID    string
	Language     string
}

// Listener được gọi đúng một lần cho mỗi state transition
type Listener func(State)

type Option func(*Cache)

func WithListener(l Listener) Option {
	return func(c *Cache) { c.listener = l }
}

// Cache is the in-memory PageCache. It is not safe for concurrent use;
// the owning session serializes access.
type Cache struct {
	pageSize    int
	page        model.AddressPage
	currentPage int
	totalPages  int
	listener    Listener
}

var _ PageCache = (*Cache)(nil)

// New tạo cache rỗng. pageSize < 1 được coi là 1.
func New(pageSize int, opts ...Option) *Cache {
	if pageSize < 1 {
		pageSize = 1
	}
	c := &Cache{
		pageSize:    pageSize,
		currentPage: 1,
		totalPages:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TotalPages returns max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size < 1 {
		size = 1
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Refresh thay toàn bộ page. currentPage giữ nguyên, chỉ clamp khi vượt totalPages;
// caller tự reset về 1 nếu cần.
func (c *Cache) Refresh(page model.AddressPage) {
	c.page = page.Clone()
	c.recompute()
	c.notify()
}

// AppendPage nối records, giữ totalCount cũ, lấy hasMore/lastDocId/language từ page mới
func (c *Cache) AppendPage(page model.AddressPage) {
	c.page.Records = append(c.page.Records, model.CloneRecords(page.Records)...)
	c.page.HasMore = page.HasMore
	c.page.LastDocID = page.LastDocID
	c.page.Language = page.Language
	c.recompute()
	c.notify()
}

// SelectPage clamps n into [1, TotalPages]. Selecting the current page is a no-op.
func (c *Cache) SelectPage(n int) {
	n = clamp(n, 1, c.totalPages)
	if n == c.currentPage {
		return
	}
	c.currentPage = n
	c.notify()
}

// UpdateSingle replaces the record with the same id; unknown ids are ignored.
func (c *Cache) UpdateSingle(record model.AddressRecord) {
	for i := range c.page.Records {
		if c.page.Records[i].ID == record.ID {
			c.page.Records[i] = record.Clone()
			c.notify()
			return
		}
	}
}

// DeleteSingle removes the record, decrements totalCount and moves the cursor
// to the new last record.
func (c *Cache) DeleteSingle(id string) {
	idx := -1
	for i := range c.page.Records {
		if c.page.Records[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	c.page.Records = append(c.page.Records[:idx], c.page.Records[idx+1:]...)
	if c.page.TotalCount > 0 {
		c.page.TotalCount--
	}
	c.page.LastDocID = ""
	if n := len(c.page.Records); n > 0 {
		c.page.LastDocID = c.page.Records[n-1].ID
	}
	c.recompute()
	c.notify()
}

func (c *Cache) CurrentPage() int  { return c.currentPage }
func (c *Cache) TotalPages() int   { return c.totalPages }
func (c *Cache) AddressCount() int { return len(c.page.Records) }
func (c *Cache) PageSize() int     { return c.pageSize }

// Page returns a copy of the held page.
func (c *Cache) Page() model.AddressPage {
	return c.page.Clone()
}

// Visible trả về records của display page hiện tại
func (c *Cache) Visible() []model.AddressRecord {
	start := (c.currentPage - 1) * c.pageSize
	if start >= len(c.page.Records) {
		return []model.AddressRecord{}
	}
	end := start + c.pageSize
	if end > len(c.page.Records) {
		end = len(c.page.Records)
	}
	return model.CloneRecords(c.page.Records[start:end])
}

// State snapshots the cache for listeners and logs.
func (c *Cache) State() State {
	return State{
		CurrentPage:  c.currentPage,
		TotalPages:   c.totalPages,
		AddressCount: len(c.page.Records),
		TotalCount:   c.page.TotalCount,
		HasMore:      c.page.HasMore,
		LastDocID:    c.page.LastDocID,
		Language:     c.page.Language,
	}
}

func (c *Cache) recompute() {
	c.totalPages = TotalPages(len(c.page.Records), c.pageSize)
	c.currentPage = clamp(c.currentPage, 1, c.totalPages)
}

func (c *Cache) notify() {
	if c.listener != nil {
		c.listener(c.State())
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
