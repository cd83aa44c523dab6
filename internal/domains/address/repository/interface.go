package repository

import (
	"context"

	"address-console/internal/domains/address/model"
)

// RepositoryInterface là data access của address catalog
type RepositoryInterface interface {
	// List fetch một batch theo language, tag filter và cursor
	List(ctx context.Context, q model.ListQuery) (model.AddressPage, error)

	// Create tạo record mới, trả về id do backend sinh
	Create(ctx context.Context, language string, record model.AddressRecord) (string, error)

	// Update thay record theo id, trả về record backend đã stamp updatedAt
	Update(ctx context.Context, language string, record model.AddressRecord) (model.AddressRecord, error)

	// Delete xóa record, trả về id đã xóa
	Delete(ctx context.Context, language, id string) (string, error)
}
