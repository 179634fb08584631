package sheet

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// Point is a fully-populated Record, ready to chart.
type Point struct {
	Price  decimal.Decimal
	Supply decimal.Decimal
	Demand decimal.Decimal
}

// Floats returns the point's coordinates as float64.
func (p Point) Floats() (price, supply, demand float64) {
	return p.Price.InexactFloat64(), p.Supply.InexactFloat64(), p.Demand.InexactFloat64()
}

// Series is the chartable view of a store: complete rows ordered by price.
type Series []Point

// Derive builds the series for rows. Rows missing any field are left out;
// the rest are stably sorted by ascending price, so equal prices keep their
// row order. rows is not modified.
func Derive(rows []Record) Series {
	out := make(Series, 0, len(rows))
	for _, r := range rows {
		if !r.Complete() {
			continue
		}
		out = append(out, Point{
			Price:  r.Price.Decimal,
			Supply: r.Supply.Decimal,
			Demand: r.Demand.Decimal,
		})
	}
	slices.SortStableFunc(out, func(a, b Point) int {
		return a.Price.Cmp(b.Price)
	})
	return out
}

// Bounds is the data domain of a series.
type Bounds struct {
	MinPrice, MaxPrice       float64
	MinQuantity, MaxQuantity float64
}

// Bounds returns the price and quantity domain of s. ok is false for an
// empty series and for a series holding values beyond float64 range.
func (s Series) Bounds() (b Bounds, ok bool) {
	if len(s) == 0 {
		return Bounds{}, false
	}
	for i, p := range s {
		price, supply, demand := p.Floats()
		if !finite(price, supply, demand) {
			return Bounds{}, false
		}
		if i == 0 {
			b = Bounds{MinPrice: price, MaxPrice: price, MinQuantity: supply, MaxQuantity: supply}
		}
		b.MinPrice = min(b.MinPrice, price)
		b.MaxPrice = max(b.MaxPrice, price)
		b.MinQuantity = min(b.MinQuantity, supply, demand)
		b.MaxQuantity = max(b.MaxQuantity, supply, demand)
	}
	return b, true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
