package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format accepted by DateRange.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days. Either side may be empty.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// IsEmpty reports whether neither bound is set.
func (r *DateRange) IsEmpty() bool {
	return r == nil || (strings.TrimSpace(r.Start) == "" && strings.TrimSpace(r.End) == "")
}

// Bounds resolves the range in loc. The start bound is 00:00:00 of the start
// day and the end bound is 23:59:59 of the end day. A zero time means the side
// is open.
func (r *DateRange) Bounds(loc *time.Location) (from, to time.Time, err error) {
	if r.IsEmpty() {
		return time.Time{}, time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}

	if s := strings.TrimSpace(r.Start); s != "" {
		day, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start date %q", ErrInvalidArgument, r.Start)
		}
		from = day
	}
	if e := strings.TrimSpace(r.End); e != "" {
		day, err := time.ParseInLocation(DateLayout, e, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end date %q", ErrInvalidArgument, r.End)
		}
		to = time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, loc)
	}

	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidArgument, r.End, r.Start)
	}
	return from, to, nil
}

// Bucket aggregates a count and the summed total price of a set of orders.
type Bucket struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

func (b *Bucket) add(o Order) {
	b.Count++
	b.Amount = b.Amount.Add(o.TotalPrice)
}

// OrderStats is the per-status breakdown of a merchant's orders.
type OrderStats struct {
	Total    Bucket                 `json:"total"`
	ByStatus map[OrderStatus]Bucket `json:"byStatus"`
	// Revenue is the amount of COMPLETED orders.
	Revenue decimal.Decimal `json:"revenue"`
}

// ComputeOrderStats filters orders by inclusive creation-date bounds and
// aggregates them per status. A nil or empty range includes every order.
// Every known status has a bucket, even when empty.
func ComputeOrderStats(orders []Order, rng *DateRange, loc *time.Location) (OrderStats, error) {
	from, to, err := rng.Bounds(loc)
	if err != nil {
		return OrderStats{}, err
	}

	stats := OrderStats{ByStatus: make(map[OrderStatus]Bucket, len(OrderStatuses))}
	for _, s := range OrderStatuses {
		stats.ByStatus[s] = Bucket{}
	}

	for _, o := range orders {
		if !from.IsZero() && o.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && o.CreatedAt.After(to) {
			continue
		}
		stats.Total.add(o)
		b := stats.ByStatus[o.Status]
		b.add(o)
		stats.ByStatus[o.Status] = b
	}

	stats.Revenue = stats.ByStatus[OrderCompleted].Amount
	return stats, nil
}
