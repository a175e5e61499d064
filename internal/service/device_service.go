package service

import (
	"context"

	"syapos/internal/dto"
	"syapos/internal/model"
	"syapos/internal/repository"
)

type DeviceService interface {
	Register(ctx context.Context, tenantID, branchID, employeeID int64, req dto.RegisterDeviceRequest) (*dto.DeviceResponse, error)
}

type deviceService struct {
	tokens repository.DeviceTokenRepository
}

func NewDeviceService(tokens repository.DeviceTokenRepository) DeviceService {
	return &deviceService{tokens: tokens}
}

func (s *deviceService) Register(ctx context.Context, tenantID, branchID, employeeID int64, req dto.RegisterDeviceRequest) (*dto.DeviceResponse, error) {
	platform := req.Platform
	if platform == "" {
		platform = "android"
	}
	t := &model.DeviceToken{
		TenantID:   tenantID,
		BranchID:   branchID,
		EmployeeID: employeeID,
		Token:      req.Token,
		Platform:   platform,
		IsActive:   true,
	}
	if err := s.tokens.Save(ctx, t); err != nil {
		return nil, err
	}
	return &dto.DeviceResponse{ID: t.ID, Token: t.Token, Platform: t.Platform, IsActive: t.IsActive}, nil
}
