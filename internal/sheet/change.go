package sheet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Origin tells why a change batch fired.
type Origin int

const (
	OriginEdit     Origin = iota // a cell typed into or cleared by the user
	OriginPaste                  // a clipboard block pasted by the user
	OriginLoadData               // the grid reloaded its rows programmatically
)

// String returns the origin's tag.
func (o Origin) String() string {
	switch o {
	case OriginEdit:
		return "edit"
	case OriginPaste:
		return "paste"
	case OriginLoadData:
		return "loadData"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// IsUser reports whether the batch came from direct user interaction.
// OriginLoadData and unknown origins are programmatic.
func (o Origin) IsUser() bool {
	return o == OriginEdit || o == OriginPaste
}

// Change is one cell-level edit notification.
type Change struct {
	Row   int
	Field Field
	Old   decimal.NullDecimal
	New   decimal.NullDecimal
}

func (c Change) String() string {
	return fmt.Sprintf("(%d,%s,%s,%s)", c.Row, c.Field, describe(c.Old), describe(c.New))
}

func describe(v decimal.NullDecimal) string {
	if !v.Valid {
		return "null"
	}
	return v.Decimal.String()
}

// Batch is a group of changes delivered together by the grid.
// A nil Changes slice means the grid reported no changes.
type Batch struct {
	Changes []Change
	Origin  Origin
}

// Reconcile folds changes into store and returns the resulting store and
// whether anything changed.
//
// Batches without changes or with OriginLoadData are ignored. Each change is
// applied against the result of the previous ones; changes to rows the store
// does not have, or that leave the value as it is, are dropped. The input
// store is never modified, and when nothing changes the same store is
// returned.
func Reconcile(store Store, changes []Change, origin Origin) (Store, bool) {
	if changes == nil || !origin.IsUser() {
		return store, false
	}

	var next []Record
	for _, c := range changes {
		rows := store.rows
		if next != nil {
			rows = next
		}
		if c.Row < 0 || c.Row >= len(rows) {
			continue
		}
		cur := rows[c.Row]
		if SameValue(cur.Get(c.Field), c.New) {
			continue
		}
		if next == nil {
			next = store.Rows()
		}
		next[c.Row] = cur.With(c.Field, c.New)
	}

	if next == nil {
		return store, false
	}
	return Store{rows: next}, true
}
