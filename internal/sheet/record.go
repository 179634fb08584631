// Package sheet holds the row model behind the supply/demand grid: records,
// the row store, edit batch reconciliation and the derived chart series.
package sheet

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Field identifies one column of a Record.
type Field int

const (
	FieldPrice Field = iota
	FieldSupply
	FieldDemand
)

// Fields lists the columns in grid order.
var Fields = [...]Field{FieldPrice, FieldSupply, FieldDemand}

// String returns the field's property name.
func (f Field) String() string {
	switch f {
	case FieldPrice:
		return "price"
	case FieldSupply:
		return "supply"
	case FieldDemand:
		return "demand"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseField maps a property name back to its Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price", "cost":
		return FieldPrice, nil
	case "supply":
		return FieldSupply, nil
	case "demand":
		return FieldDemand, nil
	}
	return 0, fmt.Errorf("unknown field %q", s)
}

// Empty returns the absent value.
func Empty() decimal.NullDecimal {
	return decimal.NullDecimal{}
}

// Number wraps f as a present value.
func Number(f float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(f))
}

// MaxValueLength is the longest cell input ParseValue accepts.
const MaxValueLength = 32

// ParseValue parses cell input. Blank input is the absent value. Values
// must fit a float64, since the chart plots them as one.
func ParseValue(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Empty(), nil
	}
	if utf8.RuneCountInString(s) > MaxValueLength {
		return Empty(), fmt.Errorf("too long: %d characters (max %d)", utf8.RuneCountInString(s), MaxValueLength)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return Empty(), fmt.Errorf("not a number: %q", s)
	}
	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return Empty(), fmt.Errorf("out of range: %q", s)
	}
	return decimal.NewNullDecimal(d), nil
}

// FormatValue renders v for display; absent values render as "".
func FormatValue(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

// SameValue reports whether a and b hold the same cell value.
func SameValue(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// Record is one row of user input. Each field may be absent.
type Record struct {
	Price  decimal.NullDecimal `json:"price"`
	Supply decimal.NullDecimal `json:"supply"`
	Demand decimal.NullDecimal `json:"demand"`
}

// Get returns the value stored under f.
func (r Record) Get(f Field) decimal.NullDecimal {
	switch f {
	case FieldPrice:
		return r.Price
	case FieldSupply:
		return r.Supply
	case FieldDemand:
		return r.Demand
	}
	return Empty()
}

// With returns a copy of r with f set to v.
func (r Record) With(f Field, v decimal.NullDecimal) Record {
	switch f {
	case FieldPrice:
		r.Price = v
	case FieldSupply:
		r.Supply = v
	case FieldDemand:
		r.Demand = v
	}
	return r
}

// Complete reports whether all three fields are present.
func (r Record) Complete() bool {
	return r.Price.Valid && r.Supply.Valid && r.Demand.Valid
}

// IsEmpty reports whether no field is present.
func (r Record) IsEmpty() bool {
	return !r.Price.Valid && !r.Supply.Valid && !r.Demand.Valid
}
