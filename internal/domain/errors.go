package domain

import "errors"

var (
	// ErrInsufficientStock is returned when a reservation asks for more
	// units than the available bucket holds at commit time.
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")

	// ErrDuplicateContractNumber is surfaced by the contract store when the
	// unique constraint on contract numbers rejects an insert.
	ErrDuplicateContractNumber = errors.New("contract number already exists")

	// ErrQuantityInvariant flags a corrupted stock state: a negative bucket
	// or a total that cannot be reconciled with the bucket sum.
	ErrQuantityInvariant = errors.New("quantity buckets violate stock invariant")

	ErrNotFound = errors.New("record not found")
)
