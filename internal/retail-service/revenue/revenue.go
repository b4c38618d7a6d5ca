// Package revenue derives the monthly revenue summary from a snapshot of
// orders. It keeps no state of its own.
package revenue

import (
	"slices"
	"time"

	"github.com/jcmexdev/retail-ledger/internal/retail-service/domain"
)

// Period is the revenue of completed orders dated within one calendar month.
type Period struct {
	Year       int
	Month      time.Month
	Label      string
	Revenue    float64
	OrderCount int
}

type Summary struct {
	// Periods are in the order their first completed order appears in the
	// input, not in calendar order. Use Chronological for time order.
	Periods           []Period
	TotalRevenue      float64
	CompletedOrders   int
	AverageOrderValue float64
}

// LabelFunc renders the display label of a month. It never affects grouping.
type LabelFunc func(year int, month time.Month) string

// DefaultLabel renders labels such as "January 2024".
func DefaultLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}

type monthKey struct {
	year  int
	month time.Month
}

// Summarize groups completed orders by the (year, month) of their order date.
func Summarize(orders []domain.Order) Summary {
	return SummarizeWith(orders, DefaultLabel)
}

func SummarizeWith(orders []domain.Order, label LabelFunc) Summary {
	if label == nil {
		label = DefaultLabel
	}

	var s Summary
	index := make(map[monthKey]int)
	for _, o := range orders {
		if o.Status != domain.StatusCompleted {
			continue
		}

		key := monthKey{year: o.OrderDate.Year(), month: o.OrderDate.Month()}
		i, ok := index[key]
		if !ok {
			i = len(s.Periods)
			index[key] = i
			s.Periods = append(s.Periods, Period{
				Year:  key.year,
				Month: key.month,
				Label: label(key.year, key.month),
			})
		}
		s.Periods[i].Revenue += o.TotalPrice
		s.Periods[i].OrderCount++

		s.TotalRevenue += o.TotalPrice
		s.CompletedOrders++
	}

	if s.CompletedOrders > 0 {
		s.AverageOrderValue = s.TotalRevenue / float64(s.CompletedOrders)
	}
	return s
}

// Chronological returns a copy of the periods sorted oldest first.
func (s Summary) Chronological() []Period {
	out := slices.Clone(s.Periods)
	slices.SortFunc(out, func(a, b Period) int {
		if a.Year != b.Year {
			return a.Year - b.Year
		}
		return int(a.Month) - int(b.Month)
	})
	return out
}

// Period looks up the group for a given month.
func (s Summary) Period(year int, month time.Month) (Period, bool) {
	for _, p := range s.Periods {
		if p.Year == year && p.Month == month {
			return p, true
		}
	}
	return Period{}, false
}

// Clone returns a summary that shares no memory with s.
func (s Summary) Clone() Summary {
	s.Periods = slices.Clone(s.Periods)
	return s
}
