package services

import (
	"context"

	"go.uber.org/zap"

	"itdesk/internal/entities"
	"itdesk/internal/repositories"
)

type AdminServiceInterface interface {
	GetAdmins(ctx context.Context) ([]entities.AdminShort, error)
}

type AdminService struct {
	adminRepo repositories.AdminRepositoryInterface
	logger    *zap.Logger
}

func NewAdminService(adminRepo repositories.AdminRepositoryInterface, logger *zap.Logger) AdminServiceInterface {
	return &AdminService{adminRepo: adminRepo, logger: logger}
}

// GetAdmins - список для выбора исполнителя; пароли наружу не уходят.
func (s *AdminService) GetAdmins(ctx context.Context) ([]entities.AdminShort, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]entities.AdminShort, 0, len(admins))
	for _, a := range admins {
		result = append(result, a.Short())
	}
	return result, nil
}
