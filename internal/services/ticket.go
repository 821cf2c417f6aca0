package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"itdesk/internal/authz"
	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/internal/repositories"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/utils"
)

type TicketServiceInterface interface {
	GetTickets(ctx context.Context, filter entities.TicketListFilter) ([]entities.Ticket, uint64, error)
	FindTicket(ctx context.Context, id uint64) (*entities.Ticket, error)
	CreateTicket(ctx context.Context, payload dto.CreateTicketDTO) (*entities.Ticket, error)
	UpdateTicket(ctx context.Context, id uint64, payload dto.UpdateTicketDTO) (*entities.Ticket, error)
	DeleteTicket(ctx context.Context, id uint64) error
}

type TicketService struct {
	txManager  repositories.TxManagerInterface
	ticketRepo repositories.TicketRepositoryInterface
	gatekeeper *authz.Gatekeeper
	logger     *zap.Logger
}

func NewTicketService(
	txManager repositories.TxManagerInterface,
	ticketRepo repositories.TicketRepositoryInterface,
	gatekeeper *authz.Gatekeeper,
	logger *zap.Logger,
) TicketServiceInterface {
	return &TicketService{
		txManager:  txManager,
		ticketRepo: ticketRepo,
		gatekeeper: gatekeeper,
		logger:     logger,
	}
}

func ticketNotFound(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError("Тикет не найден")
	}
	return err
}

func (s *TicketService) GetTickets(ctx context.Context, filter entities.TicketListFilter) ([]entities.Ticket, uint64, error) {
	return s.ticketRepo.GetTickets(ctx, filter)
}

func (s *TicketService) FindTicket(ctx context.Context, id uint64) (*entities.Ticket, error) {
	ticket, err := s.ticketRepo.FindTicket(ctx, id)
	if err != nil {
		return nil, ticketNotFound(err)
	}
	return ticket, nil
}

func (s *TicketService) CreateTicket(ctx context.Context, payload dto.CreateTicketDTO) (*entities.Ticket, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	ticket := entities.Ticket{
		Location:    payload.Location,
		AdminID:     payload.AdminID,
		AssetID:     payload.AssetID,
		StartedTime: payload.StartedTime,
		TimeEnd:     payload.TimeEnd,
		Resolution:  payload.Resolution,
		Comments:    payload.Comments,
		Status:      InitialTicketStatus(payload.AdminID),
	}
	if ticket.Company, err = requiredText("company", payload.Company); err != nil {
		return nil, err
	}
	if ticket.Person, err = requiredText("person", payload.Person); err != nil {
		return nil, err
	}
	if ticket.Issue, err = requiredText("issue", payload.Issue); err != nil {
		return nil, err
	}
	if err := refreshTotalTime(&ticket); err != nil {
		return nil, err
	}

	id, err := s.ticketRepo.CreateTicket(ctx, ticket)
	if err != nil {
		s.logger.Error("Ошибка при создании тикета", zap.Uint64("actorID", actorID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Тикет создан",
		zap.Uint64("ticketID", id),
		zap.Uint64("actorID", actorID),
		zap.String("status", ticket.Status),
	)
	return s.ticketRepo.FindTicket(ctx, id)
}

// UpdateTicket: чтение, проверка прав и запись идут в одной транзакции
// под блокировкой строки, так что права проверяются по актуальному исполнителю.
func (s *TicketService) UpdateTicket(ctx context.Context, id uint64, payload dto.UpdateTicketDTO) (*entities.Ticket, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	logger := s.logger.With(zap.Uint64("ticketID", id), zap.Uint64("actorID", actorID))

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		stored, err := s.ticketRepo.FindTicketForUpdate(ctx, tx, id)
		if err != nil {
			return ticketNotFound(err)
		}
		if !s.gatekeeper.CanEditTicket(actorID, stored) {
			logger.Warn("Попытка изменить чужой тикет", zap.Uint64("assignee", stored.AdminID.Uint64))
			return apperrors.NewForbiddenError("Тикет назначен другому сотруднику")
		}

		updated, err := applyTicketPatch(*stored, payload)
		if err != nil {
			return err
		}
		if err := s.ticketRepo.UpdateTicket(ctx, tx, updated); err != nil {
			return ticketNotFound(err)
		}
		if updated.Status != stored.Status {
			logger.Info("Статус тикета изменён", zap.String("from", stored.Status), zap.String("to", updated.Status))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindTicket(ctx, id)
}

func (s *TicketService) DeleteTicket(ctx context.Context, id uint64) error {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return apperrors.ErrUnauthorized
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		stored, err := s.ticketRepo.FindTicketForUpdate(ctx, tx, id)
		if err != nil {
			return ticketNotFound(err)
		}
		if !s.gatekeeper.CanEditTicket(actorID, stored) {
			return apperrors.NewForbiddenError("Тикет назначен другому сотруднику")
		}
		if err := s.ticketRepo.DeleteTicket(ctx, tx, id); err != nil {
			return ticketNotFound(err)
		}
		s.logger.Info("Тикет удалён", zap.Uint64("ticketID", id), zap.Uint64("actorID", actorID))
		return nil
	})
}
