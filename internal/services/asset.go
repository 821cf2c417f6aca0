package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/internal/repositories"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/types"
)

type AssetServiceInterface interface {
	GetAssets(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error)
	FindAsset(ctx context.Context, serial string) (*entities.Asset, error)
	CreateAsset(ctx context.Context, payload dto.CreateAssetDTO) (*entities.Asset, error)
	UpdateAsset(ctx context.Context, serial string, payload dto.UpdateAssetDTO) (*entities.Asset, error)
	DeleteAsset(ctx context.Context, serial string) error
	ImportAssets(ctx context.Context, r io.Reader) (*dto.AssetImportResultDTO, error)
}

type AssetService struct {
	assetRepo  repositories.AssetRepositoryInterface
	ticketRepo repositories.TicketRepositoryInterface
	importer   *AssetImporter
	logger     *zap.Logger
}

func NewAssetService(
	assetRepo repositories.AssetRepositoryInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	importer *AssetImporter,
	logger *zap.Logger,
) AssetServiceInterface {
	return &AssetService{
		assetRepo:  assetRepo,
		ticketRepo: ticketRepo,
		importer:   importer,
		logger:     logger,
	}
}

func assetNotFound(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError("Актив не найден")
	}
	return err
}

func (s *AssetService) GetAssets(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	return s.assetRepo.GetAssets(ctx, filter)
}

// FindAsset возвращает актив вместе с историей его тикетов.
func (s *AssetService) FindAsset(ctx context.Context, serial string) (*entities.Asset, error) {
	asset, err := s.assetRepo.FindAssetBySerial(ctx, serial)
	if err != nil {
		return nil, assetNotFound(err)
	}
	tickets, err := s.ticketRepo.FindTicketsByAsset(ctx, asset.ID)
	if err != nil {
		return nil, err
	}
	asset.Tickets = tickets
	return asset, nil
}

func (s *AssetService) CreateAsset(ctx context.Context, payload dto.CreateAssetDTO) (*entities.Asset, error) {
	serial, err := requiredText("serial_number", payload.SerialNumber)
	if err != nil {
		return nil, err
	}
	name, err := requiredText("name", payload.Name)
	if err != nil {
		return nil, err
	}
	status := payload.Status
	if status == "" {
		status = constants.AssetStatusInStorage
	}

	_, err = s.assetRepo.CreateAsset(ctx, entities.Asset{
		SerialNumber: serial,
		Name:         name,
		Type:         payload.Type,
		Description:  payload.Description,
		Status:       status,
		PurchaseDate: payload.PurchaseDate,
		ClientID:     payload.ClientID,
	})
	if err != nil {
		s.logger.Error("Ошибка при создании актива", zap.String("serial", serial), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Актив создан", zap.String("serial", serial))
	return s.FindAsset(ctx, serial)
}

func (s *AssetService) UpdateAsset(ctx context.Context, serial string, payload dto.UpdateAssetDTO) (*entities.Asset, error) {
	asset, err := s.assetRepo.FindAssetBySerial(ctx, serial)
	if err != nil {
		return nil, assetNotFound(err)
	}

	if payload.Sent.Has("serial_number") {
		if asset.SerialNumber, err = requiredText("serial_number", payload.SerialNumber.String); err != nil {
			return nil, err
		}
	}
	if payload.Sent.Has("name") {
		if asset.Name, err = requiredText("name", payload.Name.String); err != nil {
			return nil, err
		}
	}
	if payload.Sent.Has("type") {
		if !payload.Type.Valid {
			return nil, apperrors.NewBadRequestError("Поле type не может быть пустым")
		}
		asset.Type = payload.Type.String
	}
	if payload.Sent.Has("status") {
		if !payload.Status.Valid {
			return nil, apperrors.NewBadRequestError("Поле status не может быть пустым")
		}
		asset.Status = payload.Status.String
	}
	if payload.Sent.Has("description") {
		asset.Description = payload.Description
	}
	if payload.Sent.Has("purchase_date") {
		asset.PurchaseDate = payload.PurchaseDate
	}
	if payload.Sent.Has("client_id") {
		asset.ClientID = payload.ClientID
	}

	if err := s.assetRepo.UpdateAsset(ctx, *asset); err != nil {
		return nil, assetNotFound(err)
	}
	return s.FindAsset(ctx, asset.SerialNumber)
}

func (s *AssetService) DeleteAsset(ctx context.Context, serial string) error {
	if err := s.assetRepo.DeleteAssetBySerial(ctx, strings.TrimSpace(serial)); err != nil {
		return assetNotFound(err)
	}
	s.logger.Info("Актив удалён", zap.String("serial", serial))
	return nil
}

func (s *AssetService) ImportAssets(ctx context.Context, r io.Reader) (*dto.AssetImportResultDTO, error) {
	return s.importer.Import(ctx, r)
}
