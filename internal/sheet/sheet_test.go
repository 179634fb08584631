package sheet

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(f float64) decimal.NullDecimal { return Number(f) }

func rec(price, supply, demand decimal.NullDecimal) Record {
	return Record{Price: price, Supply: supply, Demand: demand}
}

func pt(price, supply, demand float64) Point {
	return Point{
		Price:  decimal.NewFromFloat(price),
		Supply: decimal.NewFromFloat(supply),
		Demand: decimal.NewFromFloat(demand),
	}
}

func TestReconcile_EditSetsField(t *testing.T) {
	store := NewStore(Record{})
	next, changed := Reconcile(store, []Change{{Row: 0, Field: FieldPrice, Old: Empty(), New: num(10)}}, OriginEdit)

	require.True(t, changed)
	want := NewStore(rec(num(10), Empty(), Empty()))
	if diff := cmp.Diff(want, next); diff != "" {
		t.Errorf("store mismatch (-want +got):\n%s", diff)
	}
	// Original untouched.
	r, _ := store.Row(0)
	assert.True(t, r.IsEmpty())
}

func TestReconcile_NoOpKeepsStore(t *testing.T) {
	store := NewStore(rec(num(10), Empty(), Empty()))
	next, changed := Reconcile(store, []Change{{Row: 0, Field: FieldPrice, Old: num(10), New: num(10)}}, OriginEdit)

	assert.False(t, changed)
	assert.True(t, store.Same(next), "no-op batch must return the same store")
}

func TestReconcile_NumericEqualityIsNoOp(t *testing.T) {
	store := NewStore(rec(num(10), Empty(), Empty()))
	v, err := ParseValue("10.00")
	require.NoError(t, err)

	next, changed := store.Apply(Batch{Changes: []Change{{Row: 0, Field: FieldPrice, New: v}}, Origin: OriginEdit})
	assert.False(t, changed)
	assert.True(t, store.Same(next))
}

func TestReconcile_LoadDataIgnored(t *testing.T) {
	store := NewStore(Record{})
	batch := []Change{
		{Row: 0, Field: FieldPrice, Old: Empty(), New: num(10)},
		{Row: 0, Field: FieldDemand, Old: Empty(), New: num(3)},
	}

	next, changed := Reconcile(store, batch, OriginLoadData)
	assert.False(t, changed)
	assert.True(t, store.Same(next))
}

func TestReconcile_NilChangesIgnored(t *testing.T) {
	store := NewStore(Record{})
	next, changed := Reconcile(store, nil, OriginEdit)
	assert.False(t, changed)
	assert.True(t, store.Same(next))
}

func TestReconcile_MissingRowDropped(t *testing.T) {
	store := NewStore(Record{})
	batch := []Change{
		{Row: 5, Field: FieldPrice, New: num(1)},
		{Row: -1, Field: FieldPrice, New: num(1)},
	}
	next, changed := Reconcile(store, batch, OriginPaste)
	assert.False(t, changed)
	assert.True(t, store.Same(next))
}

func TestReconcile_SequentialFold(t *testing.T) {
	store := NewStore(Record{}, Record{})
	batch := []Change{
		{Row: 0, Field: FieldPrice, New: num(1)},
		{Row: 0, Field: FieldPrice, New: num(2)},
		// Sees the accumulated 2, so this is a no-op.
		{Row: 0, Field: FieldPrice, New: num(2)},
		{Row: 1, Field: FieldSupply, New: num(7)},
		{Row: 0, Field: FieldDemand, New: num(4)},
	}

	next, changed := Reconcile(store, batch, OriginPaste)
	require.True(t, changed)
	want := NewStore(
		rec(num(2), Empty(), num(4)),
		rec(Empty(), num(7), Empty()),
	)
	if diff := cmp.Diff(want, next); diff != "" {
		t.Errorf("store mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_ClearToAbsent(t *testing.T) {
	store := NewStore(rec(num(3), num(4), num(5)))
	next, changed := Reconcile(store, []Change{{Row: 0, Field: FieldSupply, Old: num(4), New: Empty()}}, OriginEdit)
	require.True(t, changed)
	r, ok := next.Row(0)
	require.True(t, ok)
	assert.False(t, r.Supply.Valid)
	assert.True(t, r.Price.Valid)
}

func TestReconcile_Idempotent(t *testing.T) {
	store := NewStore(Record{}, rec(num(1), num(2), num(3)))
	batch := Batch{
		Changes: []Change{
			{Row: 0, Field: FieldPrice, New: num(9)},
			{Row: 1, Field: FieldDemand, New: num(8)},
		},
		Origin: OriginEdit,
	}

	once, changed := store.Apply(batch)
	require.True(t, changed)
	twice, changed := once.Apply(batch)
	assert.False(t, changed)
	assert.True(t, once.Same(twice))
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second application changed the store (-once +twice):\n%s", diff)
	}
}

func TestReconcile_UnknownOriginIgnored(t *testing.T) {
	store := NewStore(Record{})
	next, changed := Reconcile(store, []Change{{Row: 0, Field: FieldPrice, New: num(1)}}, Origin(42))
	assert.False(t, changed)
	assert.True(t, store.Same(next))
}

func TestStore_Extend(t *testing.T) {
	store := NewStore(rec(num(1), Empty(), Empty()))
	grown := store.Extend(2)

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 3, grown.Len())
	r, ok := grown.Row(2)
	require.True(t, ok)
	assert.True(t, r.IsEmpty())
	assert.True(t, store.Same(store.Extend(0)))
}

func TestStore_RowsIsACopy(t *testing.T) {
	store := NewStore(rec(num(1), Empty(), Empty()))
	rows := store.Rows()
	rows[0] = rows[0].With(FieldPrice, num(99))

	r, _ := store.Row(0)
	assert.True(t, SameValue(r.Price, num(1)))
}

func TestStore_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewStore(rec(num(10), Empty(), num(2.5))))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"price":"10","supply":null,"demand":"2.5"}]`, string(data))

	data, err = json.Marshal(NewStore())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDerive_Scenario(t *testing.T) {
	rows := []Record{
		rec(num(10), num(2), num(8)),
		rec(num(5), num(1), num(9)),
		rec(Empty(), num(3), Empty()),
	}

	got := Derive(rows)
	want := Series{pt(5, 1, 9), pt(10, 2, 8)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
	// Input untouched.
	assert.True(t, SameValue(rows[0].Price, num(10)))
}

func TestDerive_ExcludesPartialRows(t *testing.T) {
	tests := []struct {
		name string
		row  Record
	}{
		{"missing price", rec(Empty(), num(1), num(1))},
		{"missing supply", rec(num(1), Empty(), num(1))},
		{"missing demand", rec(num(1), num(1), Empty())},
		{"empty", Record{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Derive([]Record{tt.row}))
		})
	}
}

func TestDerive_StableOnEqualPrices(t *testing.T) {
	rows := []Record{
		rec(num(3), num(1), num(1)),
		rec(num(1), num(100), num(0)),
		rec(num(3), num(2), num(2)),
		rec(num(1), num(200), num(0)),
	}

	got := Derive(rows)
	want := Series{pt(1, 100, 0), pt(1, 200, 0), pt(3, 1, 1), pt(3, 2, 2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Price.Cmp(got[i].Price), 0)
	}
}

func TestDerive_Empty(t *testing.T) {
	assert.Empty(t, Derive(nil))
}

func TestSeries_Bounds(t *testing.T) {
	_, ok := Series{}.Bounds()
	assert.False(t, ok)

	b, ok := Series{pt(5, 1, 9), pt(10, 2, 8)}.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{MinPrice: 5, MaxPrice: 10, MinQuantity: 1, MaxQuantity: 9}, b)
}

func TestSeries_BoundsBeyondFloatRange(t *testing.T) {
	huge := Point{
		Price:  decimal.NewFromInt(1),
		Supply: decimal.RequireFromString("1e400"),
		Demand: decimal.NewFromInt(2),
	}
	_, ok := Series{pt(5, 1, 9), huge}.Bounds()
	assert.False(t, ok)

	b, ok := Series{pt(1, 1e300, 2)}.Bounds()
	require.True(t, ok)
	assert.Equal(t, 1e300, b.MaxQuantity)
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue("  ")
	require.NoError(t, err)
	assert.False(t, v.Valid)

	v, err = ParseValue("1,250.5")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", FormatValue(v))

	_, err = ParseValue("abc")
	assert.Error(t, err)

	v, err = ParseValue("1e300")
	require.NoError(t, err)
	assert.True(t, v.Valid)

	_, err = ParseValue("1e400")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")

	_, err = ParseValue(strings.Repeat("9", MaxValueLength+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long")
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseField("volume")
	assert.Error(t, err)
}

func TestOrigin_IsUser(t *testing.T) {
	assert.True(t, OriginEdit.IsUser())
	assert.True(t, OriginPaste.IsUser())
	assert.False(t, OriginLoadData.IsUser())
	assert.False(t, Origin(42).IsUser())
	assert.Equal(t, "loadData", OriginLoadData.String())
}
