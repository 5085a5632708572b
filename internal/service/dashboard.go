package service

import (
	"context"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/repository"
)

type dashboardService struct {
	equipmentRepo repository.EquipmentRepository
	contractRepo  repository.ContractRepository
}

func NewDashboardService(equipmentRepo repository.EquipmentRepository, contractRepo repository.ContractRepository) DashboardService {
	return &dashboardService{equipmentRepo: equipmentRepo, contractRepo: contractRepo}
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	equipByStatus, err := s.equipmentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	contractsByStatus, err := s.contractRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	revenue, err := s.contractRepo.RevenueSince(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		EquipmentByStatus: equipByStatus,
		ContractsByStatus: contractsByStatus,
		OverdueContracts:  contractsByStatus[domain.ContractStatusOverdue],
		RevenueMonthCents: revenue,
	}, nil
}
