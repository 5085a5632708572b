package rental

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"locnos-backend/internal/domain"
)

const contractNumberLen = 10 // YYYYMM + 4-digit sequence

// YearMonth returns the YYYYMM contract-number prefix for t.
func YearMonth(t time.Time) string {
	return t.Format("200601")
}

// NextContractNumber produces the number following last within yearMonth.
// An empty last starts the month at sequence 0001. The caller is expected
// to look up last and insert the new number inside a single transaction;
// without that serialization two concurrent creations can compute the same
// sequence.
func NextContractNumber(yearMonth, last string) (string, error) {
	seq := 1
	if last != "" {
		if len(last) != contractNumberLen || !strings.HasPrefix(last, yearMonth) {
			return "", fmt.Errorf("malformed contract number %q for month %s", last, yearMonth)
		}
		n, err := strconv.Atoi(last[len(yearMonth):])
		if err != nil {
			return "", fmt.Errorf("malformed contract number %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%04d", yearMonth, seq), nil
}

// Derive refreshes every computed field of a contract and must run before
// each save: line subtotals, financial summary, rental days, extra days and
// balance. ExtraDays is only overwritten when the actual return is late;
// otherwise the stored value is left alone.
func Derive(c *domain.Contract) error {
	days, err := Days(c.Period.StartDate, c.Period.EndDate)
	if err != nil {
		return err
	}
	c.Period.RentalDays = days

	if c.Period.ActualEndDate != nil && c.Period.ActualEndDate.After(c.Period.EndDate) {
		extra, err := Days(c.Period.EndDate, *c.Period.ActualEndDate)
		if err != nil {
			return err
		}
		c.Period.ExtraDays = extra
	}

	var subtotal int64
	for i := range c.Items {
		it := &c.Items[i]
		it.SubtotalCents = it.UnitPriceCents * int64(it.Qty)
		subtotal += it.SubtotalCents
	}
	c.Financial.SubtotalCents = subtotal

	if c.Financial.DiscountPercent > 0 {
		c.Financial.DiscountAmountCents = subtotal * int64(c.Financial.DiscountPercent) / 100
	}

	var additional int64
	for _, fee := range c.Financial.AdditionalFees {
		additional += fee.AmountCents
	}

	c.Financial.TotalCents = subtotal -
		c.Financial.DiscountAmountCents +
		c.Financial.LateFeeCents +
		c.Financial.DamageFeeCents +
		additional

	c.Financial.BalanceCents = c.Financial.TotalCents - c.Financial.TotalPaidCents

	switch {
	case c.Financial.TotalPaidCents >= c.Financial.TotalCents && c.Financial.TotalCents > 0:
		c.PaymentStatus = domain.PaymentStatusPaid
	case c.Financial.TotalPaidCents > 0:
		c.PaymentStatus = domain.PaymentStatusPartial
	default:
		c.PaymentStatus = domain.PaymentStatusPending
	}

	return nil
}

// IsOverdue reports whether an active contract is past its planned end date.
func IsOverdue(c *domain.Contract, now time.Time) bool {
	if c.Status != domain.ContractStatusActive {
		return false
	}
	return now.After(c.Period.EndDate)
}

// LateFee computes the fee owed for an overdue contract at feePerDayCents
// per late day. Zero when the contract is not out past its end date. The
// result is not persisted here; the caller decides when to bake it into the
// financials.
func LateFee(c *domain.Contract, now time.Time, feePerDayCents int64) int64 {
	if c.Status != domain.ContractStatusActive && c.Status != domain.ContractStatusOverdue {
		return 0
	}
	if !now.After(c.Period.EndDate) {
		return 0
	}
	late, err := Days(c.Period.EndDate, now)
	if err != nil {
		return 0
	}
	return int64(late) * feePerDayCents
}
