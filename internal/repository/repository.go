package repository

import (
	"context"
	"time"

	"locnos-backend/internal/domain"
)

// EquipmentFilter narrows List results. Zero values mean "no filter".
type EquipmentFilter struct {
	CategoryID int32
	Status     string
	Search     string
	Page       int32
	PageSize   int32
}

// ContractFilter narrows contract listings.
type ContractFilter struct {
	PersonID int32
	Status   string
	Number   string
	Page     int32
	PageSize int32
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id int32) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context) ([]domain.Category, error)
}

type PersonRepository interface {
	Create(ctx context.Context, p *domain.Person) error
	GetByID(ctx context.Context, id int32) (*domain.Person, error)
	Update(ctx context.Context, p *domain.Person) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, search string, page, pageSize int32) ([]domain.Person, int32, error)
}

// EquipmentRepository owns the catalog records and their quantity counters.
// The four bucket-moving operations are each a single conditional update so
// that an availability check and its commit can never race.
type EquipmentRepository interface {
	Create(ctx context.Context, e *domain.Equipment) error
	GetByID(ctx context.Context, id int32) (*domain.Equipment, error)
	GetByInternalCode(ctx context.Context, code string) (*domain.Equipment, error)
	Update(ctx context.Context, e *domain.Equipment) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter EquipmentFilter) ([]domain.Equipment, int32, error)
	CountByStatus(ctx context.Context) (map[domain.EquipmentStatus]int32, error)

	// TryReserve decrements available and increments reserved by qty only
	// if available >= qty; otherwise it fails with ErrInsufficientStock
	// without touching the counters.
	TryReserve(ctx context.Context, id, qty int32) error
	ReleaseReservation(ctx context.Context, id, qty int32) error
	CommitRental(ctx context.Context, id, qty int32) error
	ReturnRental(ctx context.Context, id, qty int32) error
}

// ContractRepository owns rental contracts, their line items and payments.
// Create assigns the contract number inside the inserting transaction.
type ContractRepository interface {
	Create(ctx context.Context, c *domain.Contract) error
	GetByID(ctx context.Context, id int32) (*domain.Contract, error)
	GetByNumber(ctx context.Context, number string) (*domain.Contract, error)
	Update(ctx context.Context, c *domain.Contract) error
	List(ctx context.Context, filter ContractFilter) ([]domain.Contract, int32, error)
	CountByStatus(ctx context.Context) (map[domain.ContractStatus]int32, error)

	// MarkOverdue flips active contracts past their end date to overdue and
	// returns the affected contracts for notification purposes.
	MarkOverdue(ctx context.Context, now time.Time) ([]domain.Contract, error)
	ListOverdue(ctx context.Context) ([]domain.Contract, error)

	AddPayment(ctx context.Context, p *domain.Payment) error
	ListPayments(ctx context.Context, contractID int32) ([]domain.Payment, error)
	RevenueSince(ctx context.Context, since time.Time) (int64, error)
}
