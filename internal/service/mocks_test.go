package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type MockPersonRepo struct{ mock.Mock }

func (m *MockPersonRepo) Create(ctx context.Context, p *domain.Person) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockPersonRepo) GetByID(ctx context.Context, id int32) (*domain.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}
func (m *MockPersonRepo) Update(ctx context.Context, p *domain.Person) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockPersonRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockPersonRepo) List(ctx context.Context, search string, page, pageSize int32) ([]domain.Person, int32, error) {
	args := m.Called(ctx, search, page, pageSize)
	return args.Get(0).([]domain.Person), args.Get(1).(int32), args.Error(2)
}

type MockEquipmentRepo struct{ mock.Mock }

func (m *MockEquipmentRepo) Create(ctx context.Context, e *domain.Equipment) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockEquipmentRepo) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) GetByInternalCode(ctx context.Context, code string) (*domain.Equipment, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) Update(ctx context.Context, e *domain.Equipment) error {
	return m.Called(ctx, e).Error(0)
}
func (m *MockEquipmentRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockEquipmentRepo) List(ctx context.Context, filter repository.EquipmentFilter) ([]domain.Equipment, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Equipment), args.Get(1).(int32), args.Error(2)
}
func (m *MockEquipmentRepo) CountByStatus(ctx context.Context) (map[domain.EquipmentStatus]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.EquipmentStatus]int32), args.Error(1)
}
func (m *MockEquipmentRepo) TryReserve(ctx context.Context, id, qty int32) error {
	return m.Called(ctx, id, qty).Error(0)
}
func (m *MockEquipmentRepo) ReleaseReservation(ctx context.Context, id, qty int32) error {
	return m.Called(ctx, id, qty).Error(0)
}
func (m *MockEquipmentRepo) CommitRental(ctx context.Context, id, qty int32) error {
	return m.Called(ctx, id, qty).Error(0)
}
func (m *MockEquipmentRepo) ReturnRental(ctx context.Context, id, qty int32) error {
	return m.Called(ctx, id, qty).Error(0)
}

type MockContractRepo struct{ mock.Mock }

func (m *MockContractRepo) Create(ctx context.Context, c *domain.Contract) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockContractRepo) GetByID(ctx context.Context, id int32) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractRepo) GetByNumber(ctx context.Context, number string) (*domain.Contract, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}
func (m *MockContractRepo) Update(ctx context.Context, c *domain.Contract) error {
	return m.Called(ctx, c).Error(0)
}
func (m *MockContractRepo) List(ctx context.Context, filter repository.ContractFilter) ([]domain.Contract, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Contract), args.Get(1).(int32), args.Error(2)
}
func (m *MockContractRepo) CountByStatus(ctx context.Context) (map[domain.ContractStatus]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.ContractStatus]int32), args.Error(1)
}
func (m *MockContractRepo) MarkOverdue(ctx context.Context, now time.Time) ([]domain.Contract, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Contract), args.Error(1)
}
func (m *MockContractRepo) ListOverdue(ctx context.Context) ([]domain.Contract, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Contract), args.Error(1)
}
func (m *MockContractRepo) AddPayment(ctx context.Context, p *domain.Payment) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockContractRepo) ListPayments(ctx context.Context, contractID int32) ([]domain.Payment, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockContractRepo) RevenueSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendContractApprovedNotification(ctx context.Context, email, personName, contractNumber string, totalCents int64) error {
	return m.Called(ctx, email, personName, contractNumber, totalCents).Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, personName, contractNumber string, endDate time.Time, lateFeeCents int64) error {
	return m.Called(ctx, email, personName, contractNumber, endDate, lateFeeCents).Error(0)
}
