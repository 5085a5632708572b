package service

import (
	"context"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.UserRole) (*domain.User, error)
	EnsureAdmin(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, string, *domain.User, error) // access, refresh
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	GetUser(ctx context.Context, userID int32) (*domain.User, error)
}

type CategoryService interface {
	Create(ctx context.Context, c *domain.Category) error
	Get(ctx context.Context, id int32) (*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context) ([]domain.Category, error)
}

type PersonService interface {
	Create(ctx context.Context, p *domain.Person) error
	Get(ctx context.Context, id int32) (*domain.Person, error)
	Update(ctx context.Context, p *domain.Person) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, search string, page, pageSize int32) ([]domain.Person, int32, error)
}

type EquipmentService interface {
	Create(ctx context.Context, e *domain.Equipment) error
	Get(ctx context.Context, id int32) (*domain.Equipment, error)
	Update(ctx context.Context, e *domain.Equipment) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter repository.EquipmentFilter) ([]domain.Equipment, int32, error)

	// CheckAvailability reports whether qty units can be booked now, plus
	// the current available count. It does not reserve.
	CheckAvailability(ctx context.Context, id, qty int32) (bool, int32, error)

	// Quote prices a rental of one unit over [start, end) at the current
	// catalog rates.
	Quote(ctx context.Context, id int32, start, end time.Time) (int64, error)
}

// CreateContractInput is the booking request for a new contract.
type CreateContractInput struct {
	PersonID        int32
	Items           []CreateContractItem
	StartDate       time.Time
	EndDate         time.Time
	DiscountPercent int32
	DiscountCents   int64
	DepositCents    int64
	PaymentMethod   string
	Notes           string
	Quotation       bool // true creates a quotation instead of a pending contract
	CreatedBy       int32
}

type CreateContractItem struct {
	EquipmentID int32
	Qty         int32
}

// ReturnItemInput captures the per-item inspection at return time.
type ReturnItemInput struct {
	ItemID          int32
	Condition       domain.ItemCondition
	Notes           string
	DamageCostCents int64
}

type ContractService interface {
	Create(ctx context.Context, in CreateContractInput) (*domain.Contract, error)
	Get(ctx context.Context, id int32) (*domain.Contract, error)
	List(ctx context.Context, filter repository.ContractFilter) ([]domain.Contract, int32, error)
	Approve(ctx context.Context, contractID, approverID int32) (*domain.Contract, error)
	Pickup(ctx context.Context, contractID int32) (*domain.Contract, error)
	Return(ctx context.Context, contractID int32, items []ReturnItemInput) (*domain.Contract, error)
	Cancel(ctx context.Context, contractID int32, reason string) (*domain.Contract, error)
	RegisterPayment(ctx context.Context, contractID int32, amountCents int64, method, reference string, paidOn time.Time) (*domain.Contract, error)
	ListPayments(ctx context.Context, contractID int32) ([]domain.Payment, error)
}

// DashboardSummary aggregates the numbers the dashboard landing page shows.
type DashboardSummary struct {
	EquipmentByStatus map[domain.EquipmentStatus]int32 `json:"equipment_by_status"`
	ContractsByStatus map[domain.ContractStatus]int32  `json:"contracts_by_status"`
	OverdueContracts  int32                            `json:"overdue_contracts"`
	RevenueMonthCents int64                            `json:"revenue_month_cents"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type EmailService interface {
	SendContractApprovedNotification(ctx context.Context, email, personName, contractNumber string, totalCents int64) error
	SendOverdueReminder(ctx context.Context, email, personName, contractNumber string, endDate time.Time, lateFeeCents int64) error
}
