package model

// PostalAddress là địa chỉ bưu chính của một record, nhiều field là optional
type PostalAddress struct {
	BuildingName string `json:"buildingName,omitempty"`
	Line1        string `json:"line1"`
	Line2        string `json:"line2,omitempty"`
	City         string `json:"city"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	Country      string `json:"country"`
}

// AddressRecord là một address trong catalog
// Tags có set semantics khi filter nhưng giữ nguyên thứ tự khi lưu
type AddressRecord struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Tags        []string      `json:"tags"`
	Description string        `json:"description"`
	Address     PostalAddress `json:"address"`
	CreatedAt   int64         `json:"createdAt"` // epoch ms
	UpdatedAt   int64         `json:"updatedAt"` // epoch ms
}

// Clone returns a copy that shares no slices with r.
func (r AddressRecord) Clone() AddressRecord {
	out := r
	if r.Tags != nil {
		out.Tags = append(make([]string, 0, len(r.Tags)), r.Tags...)
	}
	return out
}

// AddressPage là một batch server trả về cùng continuation cursor
type AddressPage struct {
	Records    []AddressRecord `json:"addresses"`
	TotalCount int             `json:"totalCount"`
	HasMore    bool            `json:"hasMore"`
	LastDocID  string          `json:"lastDocId"`
	Language   string          `json:"language"`
}

// Clone returns a deep copy of p.
func (p AddressPage) Clone() AddressPage {
	out := p
	out.Records = CloneRecords(p.Records)
	return out
}

func CloneRecords(in []AddressRecord) []AddressRecord {
	if in == nil {
		return nil
	}
	out := make([]AddressRecord, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// ListQuery mô tả một lần fetch: language partition, tag filter, cursor
type ListQuery struct {
	Language  string   `json:"language"`
	Tags      []string `json:"tags"`
	Limit     int      `json:"-"`
	LastDocID string   `json:"-"`
}

// AddressView is what the console renders for one display page.
type AddressView struct {
	Addresses    []AddressRecord `json:"addresses"`
	CurrentPage  int             `json:"currentPage"`
	TotalPages   int             `json:"totalPages"`
	PageSize     int             `json:"pageSize"`
	AddressCount int             `json:"addressCount"`
	TotalCount   int             `json:"totalCount"`
	HasMore      bool            `json:"hasMore"`
	Language     string          `json:"language"`
	Tags         []string        `json:"tags"`
}
