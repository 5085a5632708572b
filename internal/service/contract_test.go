package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"locnos-backend/internal/domain"
)

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testEquipment(id int32, available int32) *domain.Equipment {
	return &domain.Equipment{
		ID:           id,
		InternalCode: "EQ-001",
		Name:         "Concrete Mixer",
		Status:       domain.EquipmentStatusAvailable,
		Pricing:      domain.Pricing{DailyRateCents: 8000},
		Quantity:     domain.Quantity{Total: 5, Available: available},
	}
}

func TestContractService_Create(t *testing.T) {
	ctx := context.Background()
	person := &domain.Person{ID: 1, Name: "Maria Silva", Email: "maria@test.com"}

	input := CreateContractInput{
		PersonID:  1,
		Items:     []CreateContractItem{{EquipmentID: 7, Qty: 2}},
		StartDate: testDate(2026, 3, 1),
		EndDate:   testDate(2026, 3, 4),
		CreatedBy: 9,
	}

	t.Run("Success", func(t *testing.T) {
		personRepo := new(MockPersonRepo)
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		emailSvc := new(MockEmailService)
		svc := NewContractService(contractRepo, equipmentRepo, personRepo, emailSvc, 2000)

		personRepo.On("GetByID", ctx, int32(1)).Return(person, nil)
		equipmentRepo.On("GetByID", ctx, int32(7)).Return(testEquipment(7, 5), nil)
		equipmentRepo.On("TryReserve", ctx, int32(7), int32(2)).Return(nil)
		contractRepo.On("Create", ctx, mock.AnythingOfType("*domain.Contract")).
			Run(func(args mock.Arguments) {
				c := args.Get(1).(*domain.Contract)
				c.ID = 42
				c.Number = "2026030001"
			}).Return(nil)

		c, err := svc.Create(ctx, input)
		assert.NoError(t, err)
		assert.NotNil(t, c)
		assert.Equal(t, "2026030001", c.Number)
		assert.Equal(t, domain.ContractStatusPending, c.Status)
		assert.Equal(t, int32(3), c.Period.RentalDays)
		assert.Equal(t, int64(24000), c.Items[0].UnitPriceCents) // 3 days * 80.00
		assert.Equal(t, int64(48000), c.Financial.TotalCents)    // 2 units
		equipmentRepo.AssertExpectations(t)
	})

	t.Run("Quotation does not reserve", func(t *testing.T) {
		personRepo := new(MockPersonRepo)
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		emailSvc := new(MockEmailService)
		svc := NewContractService(contractRepo, equipmentRepo, personRepo, emailSvc, 2000)

		personRepo.On("GetByID", ctx, int32(1)).Return(person, nil)
		equipmentRepo.On("GetByID", ctx, int32(7)).Return(testEquipment(7, 5), nil)
		contractRepo.On("Create", ctx, mock.AnythingOfType("*domain.Contract")).Return(nil)

		quote := input
		quote.Quotation = true
		c, err := svc.Create(ctx, quote)
		assert.NoError(t, err)
		assert.Equal(t, domain.ContractStatusQuotation, c.Status)
		equipmentRepo.AssertNotCalled(t, "TryReserve", ctx, int32(7), int32(2))
	})

	t.Run("Insufficient stock on availability check", func(t *testing.T) {
		personRepo := new(MockPersonRepo)
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		emailSvc := new(MockEmailService)
		svc := NewContractService(contractRepo, equipmentRepo, personRepo, emailSvc, 2000)

		personRepo.On("GetByID", ctx, int32(1)).Return(person, nil)
		equipmentRepo.On("GetByID", ctx, int32(7)).Return(testEquipment(7, 1), nil)

		c, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Nil(t, c)
		equipmentRepo.AssertNotCalled(t, "TryReserve", ctx, int32(7), int32(2))
	})

	t.Run("Reservation race releases earlier lines", func(t *testing.T) {
		personRepo := new(MockPersonRepo)
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		emailSvc := new(MockEmailService)
		svc := NewContractService(contractRepo, equipmentRepo, personRepo, emailSvc, 2000)

		personRepo.On("GetByID", ctx, int32(1)).Return(person, nil)
		equipmentRepo.On("GetByID", ctx, int32(7)).Return(testEquipment(7, 5), nil)
		second := testEquipment(8, 5)
		second.InternalCode = "EQ-002"
		equipmentRepo.On("GetByID", ctx, int32(8)).Return(second, nil)

		// First line reserves fine, second loses the race.
		equipmentRepo.On("TryReserve", ctx, int32(7), int32(2)).Return(nil)
		equipmentRepo.On("TryReserve", ctx, int32(8), int32(1)).Return(domain.ErrInsufficientStock)
		equipmentRepo.On("ReleaseReservation", ctx, int32(7), int32(2)).Return(nil)

		two := input
		two.Items = []CreateContractItem{{EquipmentID: 7, Qty: 2}, {EquipmentID: 8, Qty: 1}}
		c, err := svc.Create(ctx, two)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Nil(t, c)
		equipmentRepo.AssertCalled(t, "ReleaseReservation", ctx, int32(7), int32(2))
		contractRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Duplicate number retried once", func(t *testing.T) {
		personRepo := new(MockPersonRepo)
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		emailSvc := new(MockEmailService)
		svc := NewContractService(contractRepo, equipmentRepo, personRepo, emailSvc, 2000)

		personRepo.On("GetByID", ctx, int32(1)).Return(person, nil)
		equipmentRepo.On("GetByID", ctx, int32(7)).Return(testEquipment(7, 5), nil)
		equipmentRepo.On("TryReserve", ctx, int32(7), int32(2)).Return(nil)

		contractRepo.On("Create", ctx, mock.AnythingOfType("*domain.Contract")).
			Return(domain.ErrDuplicateContractNumber).Once()
		contractRepo.On("Create", ctx, mock.AnythingOfType("*domain.Contract")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Contract).Number = "2026030002"
			}).Return(nil).Once()

		c, err := svc.Create(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, "2026030002", c.Number)
		contractRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("No items", func(t *testing.T) {
		svc := NewContractService(new(MockContractRepo), new(MockEquipmentRepo), new(MockPersonRepo), new(MockEmailService), 2000)
		empty := input
		empty.Items = nil
		_, err := svc.Create(ctx, empty)
		assert.ErrorIs(t, err, ErrNoItems)
	})
}

func TestContractService_Approve(t *testing.T) {
	ctx := context.Background()
	person := &domain.Person{ID: 1, Name: "Maria Silva", Email: "maria@test.com"}

	pending := func() *domain.Contract {
		return &domain.Contract{
			ID:       42,
			Number:   "2026030001",
			PersonID: 1,
			Status:   domain.ContractStatusPending,
			Period: domain.RentalPeriod{
				StartDate: testDate(2026, 3, 1),
				EndDate:   testDate(2026, 3, 4),
			},
			Items: []domain.ContractItem{{ID: 5, EquipmentID: 7, Qty: 2, UnitPriceCents: 24000}},
		}
	}

	t.Run("Success sends notification", func(t *testing.T) {
		personRepo := new(MockPersonRepo)
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		emailSvc := new(MockEmailService)
		svc := NewContractService(contractRepo, equipmentRepo, personRepo, emailSvc, 2000)

		contractRepo.On("GetByID", ctx, int32(42)).Return(pending(), nil)
		contractRepo.On("Update", ctx, mock.AnythingOfType("*domain.Contract")).Return(nil)
		personRepo.On("GetByID", ctx, int32(1)).Return(person, nil)
		emailSvc.On("SendContractApprovedNotification", ctx, "maria@test.com", "Maria Silva", "2026030001", int64(48000)).Return(nil)

		c, err := svc.Approve(ctx, 42, 9)
		assert.NoError(t, err)
		assert.Equal(t, domain.ContractStatusApproved, c.Status)
		assert.NotNil(t, c.ApprovedOn)
		assert.Equal(t, int32(9), *c.ApprovedBy)
		emailSvc.AssertExpectations(t)
	})

	t.Run("Quotation reserves on approval", func(t *testing.T) {
		personRepo := new(MockPersonRepo)
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		emailSvc := new(MockEmailService)
		svc := NewContractService(contractRepo, equipmentRepo, personRepo, emailSvc, 2000)

		q := pending()
		q.Status = domain.ContractStatusQuotation
		contractRepo.On("GetByID", ctx, int32(42)).Return(q, nil)
		equipmentRepo.On("TryReserve", ctx, int32(7), int32(2)).Return(nil)
		contractRepo.On("Update", ctx, mock.AnythingOfType("*domain.Contract")).Return(nil)
		personRepo.On("GetByID", ctx, int32(1)).Return(person, nil)
		emailSvc.On("SendContractApprovedNotification", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Approve(ctx, 42, 9)
		assert.NoError(t, err)
		equipmentRepo.AssertExpectations(t)
	})

	t.Run("Wrong status", func(t *testing.T) {
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, new(MockEquipmentRepo), new(MockPersonRepo), new(MockEmailService), 2000)

		done := pending()
		done.Status = domain.ContractStatusCompleted
		contractRepo.On("GetByID", ctx, int32(42)).Return(done, nil)

		_, err := svc.Approve(ctx, 42, 9)
		assert.ErrorIs(t, err, ErrWrongStatus)
	})
}

func TestContractService_PickupAndReturn(t *testing.T) {
	ctx := context.Background()

	approved := func() *domain.Contract {
		return &domain.Contract{
			ID:       42,
			Number:   "2026030001",
			PersonID: 1,
			Status:   domain.ContractStatusApproved,
			Period: domain.RentalPeriod{
				StartDate: testDate(2026, 3, 1),
				EndDate:   testDate(2026, 3, 4),
			},
			Items: []domain.ContractItem{{ID: 5, EquipmentID: 7, Qty: 2, UnitPriceCents: 24000}},
		}
	}

	t.Run("Pickup activates and commits stock", func(t *testing.T) {
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, equipmentRepo, new(MockPersonRepo), new(MockEmailService), 2000)

		contractRepo.On("GetByID", ctx, int32(42)).Return(approved(), nil)
		equipmentRepo.On("CommitRental", ctx, int32(7), int32(2)).Return(nil)
		contractRepo.On("Update", ctx, mock.AnythingOfType("*domain.Contract")).Return(nil)

		c, err := svc.Pickup(ctx, 42)
		assert.NoError(t, err)
		assert.Equal(t, domain.ContractStatusActive, c.Status)
		assert.NotNil(t, c.Period.ActualStartDate)
		equipmentRepo.AssertExpectations(t)
	})

	t.Run("Pickup requires approval", func(t *testing.T) {
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, new(MockEquipmentRepo), new(MockPersonRepo), new(MockEmailService), 2000)

		c := approved()
		c.Status = domain.ContractStatusPending
		contractRepo.On("GetByID", ctx, int32(42)).Return(c, nil)

		_, err := svc.Pickup(ctx, 42)
		assert.ErrorIs(t, err, ErrWrongStatus)
	})

	t.Run("Pickup failure reverses lines already committed", func(t *testing.T) {
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, equipmentRepo, new(MockPersonRepo), new(MockEmailService), 2000)

		c := approved()
		c.Items = append(c.Items, domain.ContractItem{ID: 6, EquipmentID: 8, Qty: 1, UnitPriceCents: 9000})
		contractRepo.On("GetByID", ctx, int32(42)).Return(c, nil)
		equipmentRepo.On("CommitRental", ctx, int32(7), int32(2)).Return(nil)
		equipmentRepo.On("CommitRental", ctx, int32(8), int32(1)).Return(domain.ErrQuantityInvariant)
		// The first line goes back to reserved so a retry can commit it again.
		equipmentRepo.On("ReturnRental", ctx, int32(7), int32(2)).Return(nil)
		equipmentRepo.On("TryReserve", ctx, int32(7), int32(2)).Return(nil)

		_, err := svc.Pickup(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrQuantityInvariant)
		equipmentRepo.AssertExpectations(t)
		contractRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Return restocks and records condition", func(t *testing.T) {
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, equipmentRepo, new(MockPersonRepo), new(MockEmailService), 2000)

		active := approved()
		active.Status = domain.ContractStatusActive
		// Returned before the planned end, so no late fee applies.
		active.Period.StartDate = time.Now().Add(-48 * time.Hour)
		active.Period.EndDate = time.Now().Add(24 * time.Hour)
		contractRepo.On("GetByID", ctx, int32(42)).Return(active, nil)
		equipmentRepo.On("ReturnRental", ctx, int32(7), int32(2)).Return(nil)
		contractRepo.On("Update", ctx, mock.AnythingOfType("*domain.Contract")).Return(nil)

		c, err := svc.Return(ctx, 42, []ReturnItemInput{
			{ItemID: 5, Condition: domain.ItemConditionDamaged, Notes: "cracked drum", DamageCostCents: 2500},
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.ContractStatusCompleted, c.Status)
		assert.NotNil(t, c.Period.ActualEndDate)
		assert.Equal(t, domain.ItemConditionDamaged, c.Items[0].ReturnCondition)
		assert.Equal(t, int64(2500), c.Financial.DamageFeeCents)
		assert.Equal(t, int64(48000+2500), c.Financial.TotalCents)
	})

	t.Run("Late return charges the daily fee", func(t *testing.T) {
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, equipmentRepo, new(MockPersonRepo), new(MockEmailService), 2000)

		active := approved()
		active.Status = domain.ContractStatusOverdue
		// Planned end just under three days ago; partial days round up,
		// so returning now means 3 extra days.
		active.Period.StartDate = time.Now().Add(-144 * time.Hour)
		active.Period.EndDate = time.Now().Add(-71 * time.Hour)
		contractRepo.On("GetByID", ctx, int32(42)).Return(active, nil)
		equipmentRepo.On("ReturnRental", ctx, int32(7), int32(2)).Return(nil)
		contractRepo.On("Update", ctx, mock.AnythingOfType("*domain.Contract")).Return(nil)

		c, err := svc.Return(ctx, 42, nil)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), c.Period.ExtraDays)
		assert.Equal(t, int64(6000), c.Financial.LateFeeCents) // 3 days * 20.00
		assert.Equal(t, int64(48000+6000), c.Financial.TotalCents)
	})

	t.Run("Return failure re-rents lines already restocked", func(t *testing.T) {
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, equipmentRepo, new(MockPersonRepo), new(MockEmailService), 2000)

		active := approved()
		active.Status = domain.ContractStatusActive
		active.Period.StartDate = time.Now().Add(-48 * time.Hour)
		active.Period.EndDate = time.Now().Add(24 * time.Hour)
		active.Items = append(active.Items, domain.ContractItem{ID: 6, EquipmentID: 8, Qty: 1, UnitPriceCents: 9000})
		contractRepo.On("GetByID", ctx, int32(42)).Return(active, nil)
		equipmentRepo.On("ReturnRental", ctx, int32(7), int32(2)).Return(nil)
		equipmentRepo.On("ReturnRental", ctx, int32(8), int32(1)).Return(domain.ErrQuantityInvariant)
		// The first line goes back to rented so a retry can restock it again.
		equipmentRepo.On("TryReserve", ctx, int32(7), int32(2)).Return(nil)
		equipmentRepo.On("CommitRental", ctx, int32(7), int32(2)).Return(nil)

		_, err := svc.Return(ctx, 42, nil)
		assert.ErrorIs(t, err, domain.ErrQuantityInvariant)
		equipmentRepo.AssertExpectations(t)
		contractRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Unknown return item", func(t *testing.T) {
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, new(MockEquipmentRepo), new(MockPersonRepo), new(MockEmailService), 2000)

		active := approved()
		active.Status = domain.ContractStatusActive
		contractRepo.On("GetByID", ctx, int32(42)).Return(active, nil)

		_, err := svc.Return(ctx, 42, []ReturnItemInput{{ItemID: 99}})
		assert.Error(t, err)
	})
}

func TestContractService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending cancel releases reservations", func(t *testing.T) {
		equipmentRepo := new(MockEquipmentRepo)
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, equipmentRepo, new(MockPersonRepo), new(MockEmailService), 2000)

		c := &domain.Contract{
			ID:     42,
			Status: domain.ContractStatusPending,
			Period: domain.RentalPeriod{StartDate: testDate(2026, 3, 1), EndDate: testDate(2026, 3, 4)},
			Items:  []domain.ContractItem{{ID: 5, EquipmentID: 7, Qty: 2, UnitPriceCents: 24000}},
		}
		contractRepo.On("GetByID", ctx, int32(42)).Return(c, nil)
		equipmentRepo.On("ReleaseReservation", ctx, int32(7), int32(2)).Return(nil)
		contractRepo.On("Update", ctx, mock.AnythingOfType("*domain.Contract")).Return(nil)

		res, err := svc.Cancel(ctx, 42, "customer gave up")
		assert.NoError(t, err)
		assert.Equal(t, domain.ContractStatusCancelled, res.Status)
		assert.Equal(t, "customer gave up", res.InternalNotes)
		equipmentRepo.AssertExpectations(t)
	})

	t.Run("Active contract cannot be cancelled", func(t *testing.T) {
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, new(MockEquipmentRepo), new(MockPersonRepo), new(MockEmailService), 2000)

		c := &domain.Contract{ID: 42, Status: domain.ContractStatusActive}
		contractRepo.On("GetByID", ctx, int32(42)).Return(c, nil)

		_, err := svc.Cancel(ctx, 42, "")
		assert.ErrorIs(t, err, ErrWrongStatus)
	})
}

func TestContractService_RegisterPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		contractRepo := new(MockContractRepo)
		svc := NewContractService(contractRepo, new(MockEquipmentRepo), new(MockPersonRepo), new(MockEmailService), 2000)

		c := &domain.Contract{ID: 42, Status: domain.ContractStatusActive}
		contractRepo.On("GetByID", ctx, int32(42)).Return(c, nil)
		contractRepo.On("AddPayment", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)

		_, err := svc.RegisterPayment(ctx, 42, 10000, "pix", "ref-1", testDate(2026, 3, 2))
		assert.NoError(t, err)
		contractRepo.AssertCalled(t, "AddPayment", ctx, mock.AnythingOfType("*domain.Payment"))
	})

	t.Run("Non-positive amount", func(t *testing.T) {
		svc := NewContractService(new(MockContractRepo), new(MockEquipmentRepo), new(MockPersonRepo), new(MockEmailService), 2000)
		_, err := svc.RegisterPayment(ctx, 42, 0, "cash", "", testDate(2026, 3, 2))
		assert.ErrorIs(t, err, ErrPaymentNonPositive)
	})
}
