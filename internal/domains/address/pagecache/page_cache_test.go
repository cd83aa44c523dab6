package pagecache

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"address-console/internal/domains/address/model"
)

func records(prefix string, n int) []model.AddressRecord {
	out := make([]model.AddressRecord, n)
	for i := range out {
		out[i] = model.AddressRecord{
			ID:   fmt.Sprintf("%s-%02d", prefix, i),
			Name: fmt.Sprintf("Address %s %d", prefix, i),
			Tags: []string{"era:victorian"},
		}
	}
	return out
}

func page(recs []model.AddressRecord, total int) model.AddressPage {
	p := model.AddressPage{Records: recs, TotalCount: total, Language: "en"}
	if len(recs) > 0 {
		p.LastDocID = recs[len(recs)-1].ID
	}
	return p
}

type recorder struct {
	states []State
}

func (r *recorder) listen(s State) { r.states = append(r.states, s) }

func TestTotalPages(t *testing.T) {
	for size := 1; size <= 20; size++ {
		for n := 0; n <= 100; n++ {
			want := 1
			if n > 0 {
				want = n / size
				if n%size != 0 {
					want++
				}
			}
			require.Equal(t, want, TotalPages(n, size), "n=%d size=%d", n, size)
		}
	}
}

func TestNew_Empty(t *testing.T) {
	c := New(16)

	assert.Equal(t, 1, c.CurrentPage())
	assert.Equal(t, 1, c.TotalPages())
	assert.Equal(t, 0, c.AddressCount())
	assert.Empty(t, c.Visible())
}

func TestRefresh_Empty(t *testing.T) {
	c := New(16)
	c.Refresh(page(records("a", 40), 40))
	c.SelectPage(2)

	c.Refresh(page(nil, 0))

	assert.Equal(t, 1, c.TotalPages())
	assert.Equal(t, 0, c.AddressCount())
	// clamped because page 2 no longer exists
	assert.Equal(t, 1, c.CurrentPage())

	c2 := New(16)
	c2.Refresh(page(nil, 0))
	assert.Equal(t, 1, c2.TotalPages())
	assert.Equal(t, 1, c2.CurrentPage())
	assert.Equal(t, 0, c2.AddressCount())
}

func TestRefresh_DoesNotResetCurrentPage(t *testing.T) {
	c := New(10)
	c.Refresh(page(records("a", 30), 30))
	c.SelectPage(3)

	c.Refresh(page(records("b", 25), 25))

	assert.Equal(t, 3, c.CurrentPage())
	assert.Equal(t, 3, c.TotalPages())
}

func TestRefresh_CopiesInput(t *testing.T) {
	recs := records("a", 2)
	c := New(16)
	c.Refresh(page(recs, 2))

	recs[0].Name = "mutated"
	recs[0].Tags[0] = "mutated"

	got := c.Page().Records[0]
	assert.Equal(t, "Address a 0", got.Name)
	assert.Equal(t, []string{"era:victorian"}, got.Tags)
}

func TestAppendPage(t *testing.T) {
	c := New(16)
	c.Refresh(page(records("a", 16), 100))

	next := page(records("b", 8), 999)
	next.HasMore = true
	next.Language = "ja"
	c.AppendPage(next)

	p := c.Page()
	assert.Len(t, p.Records, 24)
	assert.Equal(t, 100, p.TotalCount, "totalCount comes from the previous state")
	assert.True(t, p.HasMore)
	assert.Equal(t, "b-07", p.LastDocID)
	assert.Equal(t, "ja", p.Language)
	assert.Equal(t, 2, c.TotalPages())
	assert.Equal(t, "a-00", p.Records[0].ID)
	assert.Equal(t, "b-00", p.Records[16].ID)
}

func TestAppendPage_Associative(t *testing.T) {
	a := records("a", 7)
	b := records("b", 13)

	twice := New(5)
	twice.AppendPage(page(a, 0))
	twice.AppendPage(page(b, 0))

	once := New(5)
	once.AppendPage(page(append(append([]model.AddressRecord{}, a...), b...), 0))

	assert.Equal(t, once.AddressCount(), twice.AddressCount())
	if diff := cmp.Diff(once.Page().Records, twice.Page().Records); diff != "" {
		t.Errorf("record sequence mismatch (-once +twice):\n%s", diff)
	}
}

func TestSelectPage(t *testing.T) {
	rec := &recorder{}
	c := New(16, WithListener(rec.listen))
	c.Refresh(page(records("a", 40), 40))
	require.Len(t, rec.states, 1)

	c.SelectPage(2)
	c.SelectPage(2)
	assert.Len(t, rec.states, 2, "selecting the same page twice is one transition")
	assert.Equal(t, 2, c.CurrentPage())

	c.SelectPage(99)
	assert.Equal(t, 3, c.CurrentPage())
	c.SelectPage(42)
	assert.Len(t, rec.states, 3, "both out-of-range values clamp to the same page")

	c.SelectPage(-5)
	assert.Equal(t, 1, c.CurrentPage())
	assert.Len(t, rec.states, 4)
}

func TestVisible(t *testing.T) {
	c := New(16)
	c.Refresh(page(records("a", 17), 17))

	assert.Len(t, c.Visible(), 16)
	c.SelectPage(2)
	visible := c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "a-16", visible[0].ID)
}

func TestUpdateSingle_RoundTrip(t *testing.T) {
	c := New(16)
	c.Refresh(page(records("a", 3), 3))
	original := c.Page().Records[1]

	changed := original.Clone()
	changed.Name = "Changed"
	changed.Tags = nil
	changed.Description = "new"
	c.UpdateSingle(changed)
	assert.Equal(t, changed, c.Page().Records[1])

	c.UpdateSingle(original)
	if diff := cmp.Diff(original, c.Page().Records[1]); diff != "" {
		t.Errorf("update is not a pure replace (-want +got):\n%s", diff)
	}
}

func TestUpdateSingle_UnknownIsNoop(t *testing.T) {
	rec := &recorder{}
	c := New(16, WithListener(rec.listen))
	c.Refresh(page(records("a", 3), 3))
	before := c.Page()

	c.UpdateSingle(model.AddressRecord{ID: "missing", Name: "x"})

	assert.Equal(t, before, c.Page())
	assert.Len(t, rec.states, 1)
}

func TestDeleteSingle(t *testing.T) {
	c := New(16)
	c.Refresh(page(records("a", 3), 10))

	c.DeleteSingle("a-02")
	p := c.Page()
	assert.Len(t, p.Records, 2)
	assert.Equal(t, 9, p.TotalCount)
	assert.Equal(t, "a-01", p.LastDocID)

	c.DeleteSingle("a-00")
	assert.Equal(t, "a-01", c.Page().LastDocID)

	c.DeleteSingle("missing")
	assert.Equal(t, 8, c.Page().TotalCount)
}

func TestDeleteSingle_AllDrainsCursor(t *testing.T) {
	recs := records("a", 21)
	c := New(4)
	c.Refresh(page(recs, len(recs)))

	for _, r := range recs {
		c.DeleteSingle(r.ID)
	}

	p := c.Page()
	assert.Equal(t, 0, p.TotalCount)
	assert.Equal(t, "", p.LastDocID)
	assert.Equal(t, 1, c.TotalPages())
	assert.Equal(t, 1, c.CurrentPage())
}

func TestDeleteSingle_TotalCountNeverNegative(t *testing.T) {
	c := New(16)
	c.Refresh(page(records("a", 2), 0))

	c.DeleteSingle("a-00")
	assert.Equal(t, 0, c.Page().TotalCount)
}

func TestScenario_DeleteLastRecordOnSecondPage(t *testing.T) {
	rec := &recorder{}
	c := New(16, WithListener(rec.listen))
	c.Refresh(page(records("a", 17), 17))
	require.Equal(t, 2, c.TotalPages())

	c.SelectPage(2)
	require.Equal(t, 2, c.CurrentPage())

	c.DeleteSingle(c.Visible()[0].ID)

	assert.Equal(t, 1, c.TotalPages())
	assert.Equal(t, 1, c.CurrentPage())
	last := rec.states[len(rec.states)-1]
	assert.Equal(t, State{
		CurrentPage:  1,
		TotalPages:   1,
		AddressCount: 16,
		TotalCount:   16,
		LastDocID:    "a-15",
		Language:     "en",
	}, last)
}

func TestNew_InvalidPageSize(t *testing.T) {
	c := New(0)
	assert.Equal(t, 1, c.PageSize())
	c.Refresh(page(records("a", 3), 3))
	assert.Equal(t, 3, c.TotalPages())
}
