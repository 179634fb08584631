package sheet

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Store is the ordered row collection backing the grid. A Store is a value:
// every update returns a new Store and leaves the receiver as it was.
type Store struct {
	rows []Record
}

// NewStore builds a store holding a copy of rows.
func NewStore(rows ...Record) Store {
	if len(rows) == 0 {
		return Store{}
	}
	return Store{rows: append([]Record(nil), rows...)}
}

// Len returns the number of rows.
func (s Store) Len() int { return len(s.rows) }

// Row returns row i, or false if the store has no such row.
func (s Store) Row(i int) (Record, bool) {
	if i < 0 || i >= len(s.rows) {
		return Record{}, false
	}
	return s.rows[i], true
}

// Rows returns a copy of the rows in order.
func (s Store) Rows() []Record {
	return append([]Record(nil), s.rows...)
}

// Extend returns a store with n empty rows appended.
func (s Store) Extend(n int) Store {
	if n <= 0 {
		return s
	}
	rows := make([]Record, len(s.rows), len(s.rows)+n)
	copy(rows, s.rows)
	rows = append(rows, make([]Record, n)...)
	return Store{rows: rows}
}

// Apply reconciles b into the store. See Reconcile.
func (s Store) Apply(b Batch) (Store, bool) {
	return Reconcile(s, b.Changes, b.Origin)
}

// Same reports whether s and o share the same backing rows, i.e. o was
// returned unchanged from an update of s.
func (s Store) Same(o Store) bool {
	if len(s.rows) != len(o.rows) {
		return false
	}
	if len(s.rows) == 0 {
		return true
	}
	return &s.rows[0] == &o.rows[0]
}

// Equal reports whether both stores hold the same values.
func (s Store) Equal(o Store) bool {
	if len(s.rows) != len(o.rows) {
		return false
	}
	for i := range s.rows {
		for _, f := range Fields {
			if !SameValue(s.rows[i].Get(f), o.rows[i].Get(f)) {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the rows as a JSON array.
func (s Store) MarshalJSON() ([]byte, error) {
	if s.rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.rows)
}

// String renders the store compactly, one row per bracket.
func (s Store) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, r := range s.rows {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "{%s %s %s}", describe(r.Price), describe(r.Supply), describe(r.Demand))
	}
	sb.WriteString("]")
	return sb.String()
}
