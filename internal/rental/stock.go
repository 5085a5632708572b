package rental

import (
	"fmt"

	"locnos-backend/internal/domain"
)

// CheckAvailability reports whether qty units of e can be booked right now,
// along with the current available count. It does not reserve anything; the
// caller must still perform the reservation as a single atomic conditional
// decrement against the catalog store.
func CheckAvailability(e *domain.Equipment, qty int32) (bool, int32) {
	ok := e.Status == domain.EquipmentStatusAvailable && e.Quantity.Available >= qty
	return ok, e.Quantity.Available
}

// Normalize recomputes Total as the sum of the four buckets, overriding
// whatever the caller supplied. It returns true when the stored total had
// drifted from the bucket sum.
func Normalize(q *domain.Quantity) bool {
	sum := q.Available + q.Rented + q.Reserved + q.Maintenance
	changed := q.Total != sum
	q.Total = sum
	return changed
}

// Validate checks the buckets for corruption. A negative bucket is a
// programming or data error, never something to repair silently.
func Validate(q *domain.Quantity) error {
	if q.Available < 0 || q.Rented < 0 || q.Reserved < 0 || q.Maintenance < 0 {
		return fmt.Errorf("%w: negative bucket in %+v", domain.ErrQuantityInvariant, *q)
	}
	if q.Total != q.Available+q.Rented+q.Reserved+q.Maintenance {
		return fmt.Errorf("%w: total %d != bucket sum", domain.ErrQuantityInvariant, q.Total)
	}
	return nil
}

// Reserve moves n units from available to reserved. Fails with
// ErrInsufficientStock when the available bucket is short.
func Reserve(q *domain.Quantity, n int32) error {
	if n <= 0 {
		return fmt.Errorf("%w: reserve quantity must be positive", domain.ErrQuantityInvariant)
	}
	if q.Available < n {
		return domain.ErrInsufficientStock
	}
	q.Available -= n
	q.Reserved += n
	Normalize(q)
	return nil
}

// ReleaseReservation moves n units back from reserved to available.
func ReleaseReservation(q *domain.Quantity, n int32) error {
	return move(q, &q.Reserved, &q.Available, n)
}

// CommitRental moves n reserved units to rented on pickup.
func CommitRental(q *domain.Quantity, n int32) error {
	return move(q, &q.Reserved, &q.Rented, n)
}

// ReturnRental moves n rented units back to available on return.
func ReturnRental(q *domain.Quantity, n int32) error {
	return move(q, &q.Rented, &q.Available, n)
}

// ScheduleMaintenance takes n units out of the available bucket.
func ScheduleMaintenance(q *domain.Quantity, n int32) error {
	return move(q, &q.Available, &q.Maintenance, n)
}

// CompleteMaintenance returns n units from maintenance to available.
func CompleteMaintenance(q *domain.Quantity, n int32) error {
	return move(q, &q.Maintenance, &q.Available, n)
}

func move(q *domain.Quantity, from, to *int32, n int32) error {
	if n <= 0 {
		return fmt.Errorf("%w: move quantity must be positive", domain.ErrQuantityInvariant)
	}
	if *from < n {
		return fmt.Errorf("%w: bucket holds %d, cannot move %d", domain.ErrQuantityInvariant, *from, n)
	}
	*from -= n
	*to += n
	Normalize(q)
	return nil
}
