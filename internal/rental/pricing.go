// Package rental implements the pricing and stock engine behind the
// contract and equipment services: tiered rate calculation, availability
// checks, quantity-bucket bookkeeping, contract numbering and the derived
// period/financial fields of a contract.
package rental

import (
	"errors"
	"time"

	"locnos-backend/internal/domain"
)

// ErrInvalidRange is returned when the requested end date is not strictly
// after the start date.
var ErrInvalidRange = errors.New("end date must be after start date")

const (
	weeklyThresholdDays  = 5
	monthlyThresholdDays = 25

	daysPerWeek  = 7
	daysPerMonth = 30
)

// Days returns the billable day count for an interval, rounding any partial
// day up. Fails with ErrInvalidRange when end <= start.
func Days(start, end time.Time) (int32, error) {
	if !end.After(start) {
		return 0, ErrInvalidRange
	}
	d := end.Sub(start)
	days := int32(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days, nil
}

// Price computes the rental price for one unit over [start, end) using the
// tier thresholds of the catalog: monthly rate at 25 days or more, weekly
// rate at 5 days or more, daily rate otherwise. A tier only applies when its
// rate is set (> 0).
//
// Tier selection is by day-count threshold, not by lowest cost. At exactly
// 25 days a defined monthly rate wins even when the weekly tier would be
// cheaper.
func Price(p domain.Pricing, start, end time.Time) (int64, error) {
	days, err := Days(start, end)
	if err != nil {
		return 0, err
	}

	switch {
	case p.MonthlyRateCents > 0 && days >= monthlyThresholdDays:
		return p.MonthlyRateCents * int64(ceilDiv(days, daysPerMonth)), nil
	case p.WeeklyRateCents > 0 && days >= weeklyThresholdDays:
		return p.WeeklyRateCents * int64(ceilDiv(days, daysPerWeek)), nil
	default:
		return p.DailyRateCents * int64(days), nil
	}
}

func ceilDiv(n, d int32) int32 {
	return (n + d - 1) / d
}
