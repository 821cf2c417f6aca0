package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/internal/repositories"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/types"
)

type ClientServiceInterface interface {
	GetClients(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error)
	FindClient(ctx context.Context, id uint64) (*entities.Client, error)
	CreateClient(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error)
	UpdateClient(ctx context.Context, id uint64, payload dto.UpdateClientDTO) (*entities.Client, error)
	DeleteClient(ctx context.Context, id uint64) error
}

type ClientService struct {
	clientRepo repositories.ClientRepositoryInterface
	logger     *zap.Logger
}

func NewClientService(clientRepo repositories.ClientRepositoryInterface, logger *zap.Logger) ClientServiceInterface {
	return &ClientService{clientRepo: clientRepo, logger: logger}
}

func clientNotFound(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError("Клиент не найден")
	}
	return err
}

func (s *ClientService) GetClients(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error) {
	return s.clientRepo.GetClients(ctx, filter)
}

func (s *ClientService) FindClient(ctx context.Context, id uint64) (*entities.Client, error) {
	client, err := s.clientRepo.FindClient(ctx, id)
	if err != nil {
		return nil, clientNotFound(err)
	}
	return client, nil
}

func (s *ClientService) CreateClient(ctx context.Context, payload dto.CreateClientDTO) (*entities.Client, error) {
	name, err := requiredText("name", payload.Name)
	if err != nil {
		return nil, err
	}
	id, err := s.clientRepo.CreateClient(ctx, entities.Client{
		Name:        name,
		ContactInfo: payload.ContactInfo,
		Phone:       payload.Phone,
		Address:     payload.Address,
	})
	if err != nil {
		s.logger.Error("Ошибка при создании клиента", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Клиент создан", zap.Uint64("clientID", id))
	return s.FindClient(ctx, id)
}

func (s *ClientService) UpdateClient(ctx context.Context, id uint64, payload dto.UpdateClientDTO) (*entities.Client, error) {
	client, err := s.FindClient(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Sent.Has("name") {
		if client.Name, err = requiredText("name", payload.Name.String); err != nil {
			return nil, err
		}
	}
	if payload.Sent.Has("contact_info") {
		client.ContactInfo = payload.ContactInfo
	}
	if payload.Sent.Has("phone") {
		client.Phone = payload.Phone
	}
	if payload.Sent.Has("address") {
		client.Address = payload.Address
	}

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		return nil, clientNotFound(err)
	}
	return s.FindClient(ctx, id)
}

func (s *ClientService) DeleteClient(ctx context.Context, id uint64) error {
	if err := s.clientRepo.DeleteClient(ctx, id); err != nil {
		return clientNotFound(err)
	}
	s.logger.Info("Клиент удалён", zap.Uint64("clientID", id))
	return nil
}
