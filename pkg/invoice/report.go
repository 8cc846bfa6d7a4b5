package invoice

import (
	"sort"
	"time"
)

// Month is one row of the collections report.
type Month struct {
	Start     time.Time
	Collected float64
	Pending   float64
}

func (m Month) Label() string {
	return m.Start.Format("Jan 2006")
}

// Summary totals a set of rent and maintenance invoices.
type Summary struct {
	Invoiced  float64
	Collected float64
	Pending   float64
	Overdue   int
}

// Rate is the share of invoiced money already collected, 0..100.
func (s Summary) Rate() float64 {
	if s.Invoiced == 0 {
		return 0
	}
	return s.Collected / s.Invoiced * 100
}

func Summarize(rent []RentInvoice, maintenance []MaintenanceInvoice, now time.Time) Summary {
	var s Summary
	add := func(amount float64, paid bool, due string) {
		s.Invoiced += amount
		if paid {
			s.Collected += amount
			return
		}
		s.Pending += amount
		if t, ok := ParseDate(due); ok && t.Before(now) {
			s.Overdue++
		}
	}
	for _, inv := range rent {
		add(inv.Amount, inv.Paid(), inv.DateDue)
	}
	for _, inv := range maintenance {
		add(inv.TotalAmount, inv.Paid(), inv.DateDue)
	}
	return s
}

// Monthly groups invoices by the month they fall due, oldest first.
// Invoices without a readable due date are skipped.
func Monthly(rent []RentInvoice, maintenance []MaintenanceInvoice) []Month {
	months := make(map[time.Time]*Month)
	add := func(amount float64, paid bool, due string) {
		t, ok := ParseDate(due)
		if !ok {
			return
		}
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := months[start]
		if !ok {
			m = &Month{Start: start}
			months[start] = m
		}
		if paid {
			m.Collected += amount
		} else {
			m.Pending += amount
		}
	}
	for _, inv := range rent {
		add(inv.Amount, inv.Paid(), inv.DateDue)
	}
	for _, inv := range maintenance {
		add(inv.TotalAmount, inv.Paid(), inv.DateDue)
	}

	out := make([]Month, 0, len(months))
	for _, m := range months {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
