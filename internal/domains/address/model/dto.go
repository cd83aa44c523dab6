package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MaxTagsPerAddress = 32
	MaxImportItems    = 500
	MaxExportRecords  = 5000
)

// ListRequest DTO cho filter-driven refresh
type ListRequest struct {
	Language string   `json:"language"`
	Tags     []string `json:"tags"`
}

func (r ListRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Language, validation.Length(2, 16)),
		validation.Field(&r.Tags, validation.Each(validation.Required, validation.Length(1, 64))),
	)
}

// AddressUpsertRequest DTO cho create/update một address
type AddressUpsertRequest struct {
	Language    string        `json:"language"`
	Name        string        `json:"name"`
	Tags        []string      `json:"tags"`
	Description string        `json:"description"`
	Address     PostalAddress `json:"address"`
}

func (r AddressUpsertRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Language, validation.Length(2, 16)),
		validation.Field(&r.Name, validation.Required.Error("name is required"), validation.Length(1, 200)),
		validation.Field(&r.Tags,
			validation.Length(0, MaxTagsPerAddress),
			validation.Each(validation.Required.Error("tag must not be empty"), validation.Length(1, 64)),
		),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Address),
	)
}

func (a PostalAddress) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Line1, validation.Required.Error("line1 is required")),
		validation.Field(&a.City, validation.Required.Error("city is required")),
		validation.Field(&a.Country, validation.Required.Error("country is required")),
	)
}

// ToRecord trim các field và trả về record chưa có id/timestamps
func (r AddressUpsertRequest) ToRecord() AddressRecord {
	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, strings.TrimSpace(t))
	}
	return AddressRecord{
		Name:        strings.TrimSpace(r.Name),
		Tags:        tags,
		Description: strings.TrimSpace(r.Description),
		Address: PostalAddress{
			BuildingName: strings.TrimSpace(r.Address.BuildingName),
			Line1:        strings.TrimSpace(r.Address.Line1),
			Line2:        strings.TrimSpace(r.Address.Line2),
			City:         strings.TrimSpace(r.Address.City),
			Region:       strings.TrimSpace(r.Address.Region),
			PostalCode:   strings.TrimSpace(r.Address.PostalCode),
			Country:      strings.TrimSpace(r.Address.Country),
		},
	}
}

// importItem chấp nhận id/timestamps (ví dụ JSON export từ generation) nhưng bỏ qua
type importItem struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Tags        []string      `json:"tags"`
	Description string        `json:"description"`
	Address     PostalAddress `json:"address"`
	CreatedAt   int64         `json:"createdAt"`
	UpdatedAt   int64         `json:"updatedAt"`
}

// ImportItemError là lỗi của một phần tử trong JSON import
type ImportItemError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ImportCandidate là một item hợp lệ cùng vị trí của nó trong array
type ImportCandidate struct {
	Index   int
	Request AddressUpsertRequest
}

// ImportResult tổng hợp kết quả import
type ImportResult struct {
	Created []string          `json:"created"`
	Errors  []ImportItemError `json:"errors"`
}

// ExportResult là snapshot đọc theo filter, độc lập với page cache của session
type ExportResult struct {
	Records    []AddressRecord `json:"addresses"`
	TotalCount int             `json:"totalCount"`
	Truncated  bool            `json:"truncated"`
	Language   string          `json:"language"`
}

// DecodeImport parse một JSON array các address.
// Malformed JSON làm fail toàn bộ; lỗi schema/validation được báo theo từng item.
func DecodeImport(raw []byte) ([]ImportCandidate, []ImportItemError, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil, NewInvalidImport(err)
	}
	if len(items) > MaxImportItems {
		return nil, nil, NewInvalidImport(fmt.Errorf("too many items: %d (max %d)", len(items), MaxImportItems))
	}

	valid := make([]ImportCandidate, 0, len(items))
	var itemErrs []ImportItemError

	for i, rawItem := range items {
		dec := json.NewDecoder(bytes.NewReader(rawItem))
		dec.DisallowUnknownFields()

		var item importItem
		if err := dec.Decode(&item); err != nil {
			itemErrs = append(itemErrs, ImportItemError{Index: i, Message: err.Error()})
			continue
		}

		req := AddressUpsertRequest{
			Name:        item.Name,
			Tags:        item.Tags,
			Description: item.Description,
			Address:     item.Address,
		}
		if err := req.Validate(); err != nil {
			itemErrs = append(itemErrs, ImportItemError{Index: i, Message: err.Error()})
			continue
		}
		valid = append(valid, ImportCandidate{Index: i, Request: req})
	}

	return valid, itemErrs, nil
}
