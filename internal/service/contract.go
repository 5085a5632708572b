package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/logger"
	"locnos-backend/internal/rental"
	"locnos-backend/internal/repository"
)

var (
	ErrNoItems            = errors.New("contract needs at least one item")
	ErrWrongStatus        = errors.New("contract is not in a status that allows this action")
	ErrPaymentNonPositive = errors.New("payment amount must be positive")
)

type contractService struct {
	contractRepo  repository.ContractRepository
	equipmentRepo repository.EquipmentRepository
	personRepo    repository.PersonRepository
	emailSvc      EmailService
	lateFeePerDay int64
}

func NewContractService(
	contractRepo repository.ContractRepository,
	equipmentRepo repository.EquipmentRepository,
	personRepo repository.PersonRepository,
	emailSvc EmailService,
	lateFeePerDayCents int64,
) ContractService {
	return &contractService{
		contractRepo:  contractRepo,
		equipmentRepo: equipmentRepo,
		personRepo:    personRepo,
		emailSvc:      emailSvc,
		lateFeePerDay: lateFeePerDayCents,
	}
}

// Create books a new contract: prices every line at the current catalog
// rates (snapshotting the unit price), reserves stock through the atomic
// conditional decrement, and numbers + inserts the contract in a single
// transaction. Reservations taken before a failure are rolled back.
func (s *contractService) Create(ctx context.Context, in CreateContractInput) (*domain.Contract, error) {
	if len(in.Items) == 0 {
		return nil, ErrNoItems
	}
	person, err := s.personRepo.GetByID(ctx, in.PersonID)
	if err != nil {
		return nil, fmt.Errorf("loading customer: %w", err)
	}

	status := domain.ContractStatusPending
	if in.Quotation {
		status = domain.ContractStatusQuotation
	}

	contract := &domain.Contract{
		PersonID: person.ID,
		Status:   status,
		Period: domain.RentalPeriod{
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
		},
		Financial: domain.Financial{
			DiscountAmountCents: in.DiscountCents,
			DiscountPercent:     in.DiscountPercent,
			DepositCents:        in.DepositCents,
		},
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		CreatedBy:     in.CreatedBy,
	}

	for _, line := range in.Items {
		equip, err := s.equipmentRepo.GetByID(ctx, line.EquipmentID)
		if err != nil {
			return nil, fmt.Errorf("loading equipment %d: %w", line.EquipmentID, err)
		}
		if ok, available := rental.CheckAvailability(equip, line.Qty); !ok {
			return nil, fmt.Errorf("%w: equipment %s has %d available, %d requested",
				domain.ErrInsufficientStock, equip.InternalCode, available, line.Qty)
		}
		unitPrice, err := rental.Price(equip.Pricing, in.StartDate, in.EndDate)
		if err != nil {
			return nil, err
		}
		contract.Items = append(contract.Items, domain.ContractItem{
			EquipmentID:     equip.ID,
			Qty:             line.Qty,
			UnitPriceCents:  unitPrice,
			PickupCondition: domain.ItemConditionGood,
		})
	}

	if err := rental.Derive(contract); err != nil {
		return nil, err
	}

	// Quotations do not hold stock; everything else reserves immediately.
	if !in.Quotation {
		if err := s.reserveItems(ctx, contract.Items); err != nil {
			return nil, err
		}
	}

	if err := s.createNumbered(ctx, contract); err != nil {
		if !in.Quotation {
			s.releaseItems(ctx, contract.Items)
		}
		return nil, err
	}
	return contract, nil
}

// createNumbered inserts the contract, retrying the number generation once
// if another request claimed the same sequence concurrently.
func (s *contractService) createNumbered(ctx context.Context, c *domain.Contract) error {
	err := s.contractRepo.Create(ctx, c)
	if errors.Is(err, domain.ErrDuplicateContractNumber) {
		logger.WarnContext(ctx, "contract number collision, retrying once", "number", c.Number)
		c.Number = ""
		err = s.contractRepo.Create(ctx, c)
	}
	return err
}

func (s *contractService) reserveItems(ctx context.Context, items []domain.ContractItem) error {
	for i, it := range items {
		if err := s.equipmentRepo.TryReserve(ctx, it.EquipmentID, it.Qty); err != nil {
			// Undo the reservations already taken for earlier lines.
			s.releaseItems(ctx, items[:i])
			if errors.Is(err, domain.ErrInsufficientStock) {
				return fmt.Errorf("%w: equipment %d", domain.ErrInsufficientStock, it.EquipmentID)
			}
			return err
		}
	}
	return nil
}

func (s *contractService) releaseItems(ctx context.Context, items []domain.ContractItem) {
	for _, it := range items {
		if err := s.equipmentRepo.ReleaseReservation(ctx, it.EquipmentID, it.Qty); err != nil {
			logger.ErrorContext(ctx, "failed to release reservation",
				"equipment_id", it.EquipmentID, "qty", it.Qty, "error", err)
		}
	}
}

// uncommitItems reverses CommitRental for the given lines. There is no
// direct rented-to-reserved move, so each line goes rented -> available ->
// reserved. Failures are logged; the units then need a manual correction.
func (s *contractService) uncommitItems(ctx context.Context, items []domain.ContractItem) {
	for _, it := range items {
		if err := s.equipmentRepo.ReturnRental(ctx, it.EquipmentID, it.Qty); err != nil {
			logger.ErrorContext(ctx, "failed to reverse rental commit",
				"equipment_id", it.EquipmentID, "qty", it.Qty, "error", err)
			continue
		}
		if err := s.equipmentRepo.TryReserve(ctx, it.EquipmentID, it.Qty); err != nil {
			logger.ErrorContext(ctx, "failed to re-reserve after reversed commit",
				"equipment_id", it.EquipmentID, "qty", it.Qty, "error", err)
		}
	}
}

// unreturnItems reverses ReturnRental for the given lines, moving them
// available -> reserved -> rented.
func (s *contractService) unreturnItems(ctx context.Context, items []domain.ContractItem) {
	for _, it := range items {
		if err := s.equipmentRepo.TryReserve(ctx, it.EquipmentID, it.Qty); err != nil {
			logger.ErrorContext(ctx, "failed to reverse rental return",
				"equipment_id", it.EquipmentID, "qty", it.Qty, "error", err)
			continue
		}
		if err := s.equipmentRepo.CommitRental(ctx, it.EquipmentID, it.Qty); err != nil {
			logger.ErrorContext(ctx, "failed to re-rent after reversed return",
				"equipment_id", it.EquipmentID, "qty", it.Qty, "error", err)
		}
	}
}

func (s *contractService) Get(ctx context.Context, id int32) (*domain.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if person, err := s.personRepo.GetByID(ctx, c.PersonID); err == nil {
		c.Person = person
	}
	return c, nil
}

func (s *contractService) List(ctx context.Context, filter repository.ContractFilter) ([]domain.Contract, int32, error) {
	return s.contractRepo.List(ctx, filter)
}

func (s *contractService) Approve(ctx context.Context, contractID, approverID int32) (*domain.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case domain.ContractStatusQuotation:
		// A quotation never reserved stock; claim it now.
		if err := s.reserveItems(ctx, c.Items); err != nil {
			return nil, err
		}
	case domain.ContractStatusPending:
	default:
		return nil, fmt.Errorf("%w: %s", ErrWrongStatus, c.Status)
	}

	now := time.Now()
	c.Status = domain.ContractStatusApproved
	c.ApprovedBy = &approverID
	c.ApprovedOn = &now
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}

	if person, err := s.personRepo.GetByID(ctx, c.PersonID); err == nil && person.Email != "" {
		if err := s.emailSvc.SendContractApprovedNotification(ctx, person.Email, person.Name, c.Number, c.Financial.TotalCents); err != nil {
			logger.WarnContext(ctx, "failed to send approval email", "contract", c.Number, "error", err)
		}
	}
	return c, nil
}

// Pickup hands the equipment over: reserved units become rented and the
// actual start date is stamped.
func (s *contractService) Pickup(ctx context.Context, contractID int32) (*domain.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ContractStatusApproved {
		return nil, fmt.Errorf("%w: %s", ErrWrongStatus, c.Status)
	}

	for i, it := range c.Items {
		if err := s.equipmentRepo.CommitRental(ctx, it.EquipmentID, it.Qty); err != nil {
			// Put earlier lines back in the reserved bucket so a retry
			// does not commit them twice.
			s.uncommitItems(ctx, c.Items[:i])
			return nil, err
		}
	}

	now := time.Now()
	c.Status = domain.ContractStatusActive
	c.Period.ActualStartDate = &now
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Return closes out an active or overdue contract: stamps the actual end
// date, applies late and damage fees, and puts the units back in the
// available bucket.
func (s *contractService) Return(ctx context.Context, contractID int32, returns []ReturnItemInput) (*domain.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if c.Status != domain.ContractStatusActive && c.Status != domain.ContractStatusOverdue {
		return nil, fmt.Errorf("%w: %s", ErrWrongStatus, c.Status)
	}

	now := time.Now()
	c.Period.ActualEndDate = &now

	byID := make(map[int32]*domain.ContractItem, len(c.Items))
	for i := range c.Items {
		byID[c.Items[i].ID] = &c.Items[i]
	}
	var damage int64
	for _, ret := range returns {
		it, ok := byID[ret.ItemID]
		if !ok {
			return nil, fmt.Errorf("contract %s has no item %d", c.Number, ret.ItemID)
		}
		it.ReturnCondition = ret.Condition
		it.ReturnNotes = ret.Notes
		it.DamageCostCents = ret.DamageCostCents
		damage += ret.DamageCostCents
	}
	c.Financial.DamageFeeCents = damage

	// Derive recomputes extraDays from the late return; charge them at the
	// configured daily fee.
	if err := rental.Derive(c); err != nil {
		return nil, err
	}
	if c.Period.ExtraDays > 0 {
		c.Financial.LateFeeCents = int64(c.Period.ExtraDays) * s.lateFeePerDay
		if err := rental.Derive(c); err != nil {
			return nil, err
		}
	}

	for i, it := range c.Items {
		if err := s.equipmentRepo.ReturnRental(ctx, it.EquipmentID, it.Qty); err != nil {
			// Move earlier lines back to rented so a retry does not
			// restock them twice.
			s.unreturnItems(ctx, c.Items[:i])
			return nil, err
		}
	}

	c.Status = domain.ContractStatusCompleted
	if err := s.contractRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contractService) Cancel(ctx context.Context, contractID int32, reason string) (*domain.Contract, error) {
	c, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case domain.ContractStatusPending, domain.ContractStatusApproved:
		s.releaseItems(ctx, c.Items)
	case domain.ContractStatusQuotation:
		// nothing reserved
	default:
		return nil, fmt.Errorf("%w: %s", ErrWrongStatus, c.Status)
	}

	c.Status = domain.ContractStatusCancelled
	if reason != "" {
		c.InternalNotes = reason
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contractService) RegisterPayment(ctx context.Context, contractID int32, amountCents int64, method, reference string, paidOn time.Time) (*domain.Contract, error) {
	if amountCents <= 0 {
		return nil, ErrPaymentNonPositive
	}
	if _, err := s.contractRepo.GetByID(ctx, contractID); err != nil {
		return nil, err
	}
	p := &domain.Payment{
		ContractID:  contractID,
		AmountCents: amountCents,
		Method:      method,
		Reference:   reference,
		PaidOn:      paidOn,
	}
	if err := s.contractRepo.AddPayment(ctx, p); err != nil {
		return nil, err
	}
	return s.contractRepo.GetByID(ctx, contractID)
}

func (s *contractService) ListPayments(ctx context.Context, contractID int32) ([]domain.Payment, error) {
	return s.contractRepo.ListPayments(ctx, contractID)
}

// save runs the derivation pass and persists. Every write path goes through
// here so rentalDays, extraDays and balance stay consistent.
func (s *contractService) save(ctx context.Context, c *domain.Contract) error {
	if err := rental.Derive(c); err != nil {
		return err
	}
	return s.contractRepo.Update(ctx, c)
}
