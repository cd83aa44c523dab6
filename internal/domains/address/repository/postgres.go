package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"address-console/internal/domains/address/model"
	"address-console/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgresRepository đọc/ghi thẳng vào catalog database
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{
		pool: pool,
		now:  time.Now,
	}
}

const addressColumns = `id, name, tags, description, building_name, line1, line2, city, region, postal_code, country, created_at, updated_at`

// listQuery dùng keyset pagination theo (created_at, id) giảm dần.
// Tag filter match bất kỳ tag nào được chọn.
const listQuery = `
    SELECT ` + addressColumns + `
    FROM addresses
    WHERE language = $1
      AND (cardinality($2::text[]) = 0 OR tags && $2::text[])
      AND ($3::text = '' OR (created_at, id) < (
            SELECT created_at, id FROM addresses WHERE id = $3::text AND language = $1
          ))
    ORDER BY created_at DESC, id DESC
    LIMIT $4
  `

const countQuery = `
    SELECT COUNT(*)
    FROM addresses
    WHERE language = $1
      AND (cardinality($2::text[]) = 0 OR tags && $2::text[])
  `

func (r *postgresRepository) List(ctx context.Context, q model.ListQuery) (model.AddressPage, error) {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	limit := q.Limit
	if limit < 1 {
		limit = 48
	}

	return database.WithTransactionResult(ctx, r.pool, database.ReadSnapshot, func(tx pgx.Tx) (model.AddressPage, error) {
		var total int
		if err := tx.QueryRow(ctx, countQuery, q.Language, tags).Scan(&total); err != nil {
			return model.AddressPage{}, fmt.Errorf("failed to count addresses: %w", err)
		}

		// fetch thêm 1 row để biết còn trang sau không
		rows, err := tx.Query(ctx, listQuery, q.Language, tags, q.LastDocID, limit+1)
		if err != nil {
			return model.AddressPage{}, fmt.Errorf("failed to list addresses: %w", err)
		}
		defer rows.Close()

		records := make([]model.AddressRecord, 0, limit)
		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				return model.AddressPage{}, fmt.Errorf("failed to scan address: %w", err)
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return model.AddressPage{}, fmt.Errorf("failed to iterate addresses: %w", err)
		}

		return buildPage(records, limit, total, q.Language), nil
	})
}

// buildPage cắt row dư và tính hasMore/lastDocId
func buildPage(records []model.AddressRecord, limit, total int, language string) model.AddressPage {
	page := model.AddressPage{
		Records:    records,
		TotalCount: total,
		Language:   language,
	}
	if len(records) > limit {
		page.Records = records[:limit]
		page.HasMore = true
	}
	if n := len(page.Records); n > 0 {
		page.LastDocID = page.Records[n-1].ID
	}
	return page
}

func (r *postgresRepository) Create(ctx context.Context, language string, record model.AddressRecord) (string, error) {
	query := `
    INSERT INTO addresses
    (id, language, name, tags, description, building_name, line1, line2, city, region, postal_code, country, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
  `
	id := uuid.NewString()
	now := r.now().UnixMilli()
	a := record.Address

	_, err := r.pool.Exec(ctx, query,
		id, language, record.Name, nonNilTags(record.Tags), record.Description,
		a.BuildingName, a.Line1, a.Line2, a.City, a.Region, a.PostalCode, a.Country, now,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert address: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) Update(ctx context.Context, language string, record model.AddressRecord) (model.AddressRecord, error) {
	query := `
    UPDATE addresses
    SET name = $3, tags = $4, description = $5, building_name = $6, line1 = $7, line2 = $8,
        city = $9, region = $10, postal_code = $11, country = $12, updated_at = $13
    WHERE id = $1 AND language = $2
    RETURNING ` + addressColumns

	a := record.Address
	row := r.pool.QueryRow(ctx, query,
		record.ID, language, record.Name, nonNilTags(record.Tags), record.Description,
		a.BuildingName, a.Line1, a.Line2, a.City, a.Region, a.PostalCode, a.Country, r.now().UnixMilli(),
	)

	updated, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AddressRecord{}, model.NewAddressNotFound(record.ID)
		}
		return model.AddressRecord{}, fmt.Errorf("failed to update address: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, language, id string) (string, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND language = $2`, id, language)
	if err != nil {
		return "", fmt.Errorf("failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", model.NewAddressNotFound(id)
	}
	return id, nil
}

func scanRecord(row pgx.Row) (model.AddressRecord, error) {
	var rec model.AddressRecord
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Tags, &rec.Description,
		&rec.Address.BuildingName, &rec.Address.Line1, &rec.Address.Line2,
		&rec.Address.City, &rec.Address.Region, &rec.Address.PostalCode, &rec.Address.Country,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return rec, err
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
