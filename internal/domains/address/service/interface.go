package service

import (
	"context"
	"time"

	"address-console/internal/domains/address/model"
)

// ServiceInterface là business logic của address console.
// Mỗi operator có một session giữ page cache riêng.
type ServiceInterface interface {
	// Load là filter/language-driven refresh: thay page cache và về display page 1
	Load(ctx context.Context, userID string, req model.ListRequest) (*model.AddressView, error)

	// LoadMore fetch batch tiếp theo theo cursor và append vào cache
	LoadMore(ctx context.Context, userID string) (*model.AddressView, error)

	// View chọn display page, fetch thêm batch nếu page nằm ngoài phần đã load
	View(ctx context.Context, userID string, page int) (*model.AddressView, error)

	// Current trả về view hiện tại của session mà không gọi backend
	Current(userID string) (*model.AddressView, error)

	// Create tạo address rồi reload query hiện tại
	Create(ctx context.Context, userID string, req model.AddressUpsertRequest) (*CreateResult, error)

	// Update thay address theo id và cập nhật record trong cache
	Update(ctx context.Context, userID, id string, req model.AddressUpsertRequest) (*model.AddressRecord, error)

	// Delete xóa address và bỏ record khỏi cache
	Delete(ctx context.Context, userID, id string) (*model.AddressView, error)

	// Import tạo các item hợp lệ trong một JSON array, lỗi báo theo từng item
	Import(ctx context.Context, userID, language string, raw []byte) (*ImportOutcome, error)

	// Export đọc toàn bộ address khớp filter (tối đa MaxExportRecords), không đụng page cache
	Export(ctx context.Context, userID string, req model.ListRequest) (*model.ExportResult, error)

	// EndSession hủy mọi request đang chạy và bỏ session
	EndSession(userID string) bool

	// Sweep kết thúc các session idle lâu hơn maxIdle
	Sweep(maxIdle time.Duration) int

	ActiveSessions() int
}

type CreateResult struct {
	ID   string             `json:"id"`
	View *model.AddressView `json:"view"`
}

type ImportOutcome struct {
	model.ImportResult
	View *model.AddressView `json:"view,omitempty"`
}
