package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/logger"
	"locnos-backend/internal/rental"
	"locnos-backend/internal/repository"
)

var (
	ErrInternalCodeRequired = errors.New("internal code is required")
	ErrDailyRateRequired    = errors.New("daily rate must be greater than zero")
)

type equipmentService struct {
	repo repository.EquipmentRepository
}

func NewEquipmentService(repo repository.EquipmentRepository) EquipmentService {
	return &equipmentService{repo: repo}
}

func (s *equipmentService) Create(ctx context.Context, e *domain.Equipment) error {
	if err := validateEquipment(e); err != nil {
		return err
	}
	if e.Status == "" {
		e.Status = domain.EquipmentStatusAvailable
	}
	if e.Pricing.MinimumPeriod == 0 {
		e.Pricing.MinimumPeriod = 1
		e.Pricing.MinimumPeriodUnit = domain.PeriodUnitDay
	}
	normalizeQuantity(ctx, e)
	if err := rental.Validate(&e.Quantity); err != nil {
		return err
	}
	return s.repo.Create(ctx, e)
}

func (s *equipmentService) Get(ctx context.Context, id int32) (*domain.Equipment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *equipmentService) Update(ctx context.Context, e *domain.Equipment) error {
	if err := validateEquipment(e); err != nil {
		return err
	}
	normalizeQuantity(ctx, e)
	if err := rental.Validate(&e.Quantity); err != nil {
		return err
	}
	return s.repo.Update(ctx, e)
}

func (s *equipmentService) Delete(ctx context.Context, id int32) error {
	return s.repo.Delete(ctx, id)
}

func (s *equipmentService) List(ctx context.Context, filter repository.EquipmentFilter) ([]domain.Equipment, int32, error) {
	return s.repo.List(ctx, filter)
}

func (s *equipmentService) CheckAvailability(ctx context.Context, id, qty int32) (bool, int32, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, 0, err
	}
	ok, available := rental.CheckAvailability(e, qty)
	return ok, available, nil
}

func (s *equipmentService) Quote(ctx context.Context, id int32, start, end time.Time) (int64, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return rental.Price(e.Pricing, start, end)
}

// normalizeQuantity derives total from the buckets, overriding whatever the
// client sent. A disagreeing client total is worth a warning: it usually
// means a stale form or a data-entry bug upstream.
func normalizeQuantity(ctx context.Context, e *domain.Equipment) {
	supplied := e.Quantity.Total
	if rental.Normalize(&e.Quantity) {
		logger.WarnContext(ctx, "caller-supplied quantity total overridden",
			"equipment_code", e.InternalCode,
			"supplied_total", supplied,
			"derived_total", e.Quantity.Total)
	}
}

func validateEquipment(e *domain.Equipment) error {
	if strings.TrimSpace(e.InternalCode) == "" {
		return ErrInternalCodeRequired
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrNameRequired
	}
	if e.Pricing.DailyRateCents <= 0 {
		return ErrDailyRateRequired
	}
	return nil
}
