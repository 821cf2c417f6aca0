package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"itdesk/internal/authz"
	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/internal/repositories"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/utils"
)

type TimeLogServiceInterface interface {
	GetTimeLogs(ctx context.Context, filter entities.TimeLogFilter) ([]dto.TimeLogDTO, error)
	RecordAction(ctx context.Context, action string) (*dto.TimeLogDTO, error)
	CreateTimeLog(ctx context.Context, payload dto.CreateTimeLogDTO) (*dto.TimeLogDTO, error)
	UpdateTimeLog(ctx context.Context, id uint64, payload dto.UpdateTimeLogDTO) (*dto.TimeLogDTO, error)
	DeleteTimeLog(ctx context.Context, id uint64) error
	GetPayPeriodSummary(ctx context.Context, adminID uint64, date time.Time) (*dto.PayPeriodSummaryDTO, error)
	Location() *time.Location
}

type TimeLogService struct {
	txManager  repositories.TxManagerInterface
	logRepo    repositories.TimeLogRepositoryInterface
	gatekeeper *authz.Gatekeeper
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

func NewTimeLogService(
	txManager repositories.TxManagerInterface,
	logRepo repositories.TimeLogRepositoryInterface,
	gatekeeper *authz.Gatekeeper,
	loc *time.Location,
	logger *zap.Logger,
) TimeLogServiceInterface {
	if loc == nil {
		loc = time.Local
	}
	return &TimeLogService{
		txManager:  txManager,
		logRepo:    logRepo,
		gatekeeper: gatekeeper,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

var errNoActiveSession = apperrors.NewBadRequestError("Нет открытой смены за сегодня")

func timeLogNotFound(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError("Запись табеля не найдена")
	}
	return err
}

func (s *TimeLogService) Location() *time.Location { return s.loc }

func (s *TimeLogService) today() time.Time {
	return utils.StartOfDay(s.now(), s.loc)
}

func (s *TimeLogService) GetTimeLogs(ctx context.Context, filter entities.TimeLogFilter) ([]dto.TimeLogDTO, error) {
	logs, err := s.logRepo.GetTimeLogs(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]dto.TimeLogDTO, 0, len(logs))
	for _, l := range logs {
		result = append(result, toTimeLogDTO(l))
	}
	return result, nil
}

// RecordAction отмечает приход, уход или обед текущего сотрудника.
// Все действия кроме clock-in работают с открытой сменой этого сотрудника за сегодня.
func (s *TimeLogService) RecordAction(ctx context.Context, action string) (*dto.TimeLogDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !constants.IsClockAction(action) {
		return nil, apperrors.NewBadRequestError("Неизвестное действие: " + action)
	}
	logger := s.logger.With(zap.Uint64("adminID", actorID), zap.String("action", action))

	now := s.now().In(s.loc)
	today := s.today()
	var logID uint64

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		open, err := s.logRepo.FindOpenLog(ctx, tx, actorID, today)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if action == constants.ClockActionIn {
			if open != nil {
				return apperrors.NewHttpError(http.StatusConflict, "Смена уже открыта", apperrors.ErrConflict, nil)
			}
			logID, err = s.logRepo.CreateTimeLog(ctx, tx, entities.TimeLog{
				AdminID: actorID,
				Date:    today,
				TimeIn:  now,
			})
			return err
		}

		if open == nil {
			return errNoActiveSession
		}
		if err := applyClockAction(open, action, now); err != nil {
			return err
		}
		logID = open.ID
		return s.logRepo.UpdateTimeLog(ctx, tx, *open)
	})
	if err != nil {
		logger.Warn("Действие табеля отклонено", zap.Error(err))
		return nil, err
	}
	logger.Info("Действие табеля записано", zap.Uint64("logID", logID))
	return s.findDTO(ctx, logID)
}

// CreateTimeLog - ручной ввод смены. Вносить можно только себе.
func (s *TimeLogService) CreateTimeLog(ctx context.Context, payload dto.CreateTimeLogDTO) (*dto.TimeLogDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if payload.AdminID.Valid && payload.AdminID.Uint64 != actorID {
		return nil, apperrors.NewForbiddenError("Нельзя вносить смены за другого сотрудника")
	}
	if payload.Date == "" {
		return nil, apperrors.NewBadRequestError("Поле date обязательно")
	}
	if !payload.TimeIn.Valid {
		return nil, apperrors.NewBadRequestError("Поле time_in обязательно")
	}
	date, err := time.ParseInLocation(constants.DateLayout, payload.Date, s.loc)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Неверный формат даты, ожидается ГГГГ-ММ-ДД")
	}

	log := entities.TimeLog{
		AdminID:    actorID,
		Date:       date,
		TimeIn:     payload.TimeIn.Time,
		TimeOut:    payload.TimeOut,
		LunchStart: payload.LunchStart,
		LunchEnd:   payload.LunchEnd,
		Mileage:    payload.Mileage.Float64,
	}
	if err := ValidateTimeLog(log); err != nil {
		return nil, err
	}

	id, err := s.logRepo.CreateTimeLog(ctx, nil, log)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Смена внесена вручную", zap.Uint64("logID", id), zap.Uint64("adminID", actorID))
	return s.findDTO(ctx, id)
}

func (s *TimeLogService) UpdateTimeLog(ctx context.Context, id uint64, payload dto.UpdateTimeLogDTO) (*dto.TimeLogDTO, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		stored, err := s.logRepo.FindTimeLogForUpdate(ctx, tx, id)
		if err != nil {
			return timeLogNotFound(err)
		}
		if !s.gatekeeper.CanModifyTimeLog(actorID, stored) {
			return apperrors.NewForbiddenError("Можно изменять только свои записи табеля")
		}

		updated, err := s.applyTimeLogPatch(*stored, payload)
		if err != nil {
			return err
		}
		if err := ValidateTimeLog(updated); err != nil {
			return err
		}
		return s.logRepo.UpdateTimeLog(ctx, tx, updated)
	})
	if err != nil {
		return nil, err
	}
	return s.findDTO(ctx, id)
}

func (s *TimeLogService) applyTimeLogPatch(l entities.TimeLog, p dto.UpdateTimeLogDTO) (entities.TimeLog, error) {
	if p.Sent.Has("date") {
		if !p.Date.Valid {
			return l, apperrors.NewBadRequestError("Поле date не может быть пустым")
		}
		date, err := time.ParseInLocation(constants.DateLayout, p.Date.String, s.loc)
		if err != nil {
			return l, apperrors.NewBadRequestError("Неверный формат даты, ожидается ГГГГ-ММ-ДД")
		}
		l.Date = date
	}
	if p.Sent.Has("time_in") {
		if !p.TimeIn.Valid {
			return l, apperrors.NewBadRequestError("Поле time_in не может быть пустым")
		}
		l.TimeIn = p.TimeIn.Time
	}
	if p.Sent.Has("time_out") {
		l.TimeOut = p.TimeOut
	}
	if p.Sent.Has("lunch_start") {
		l.LunchStart = p.LunchStart
	}
	if p.Sent.Has("lunch_end") {
		l.LunchEnd = p.LunchEnd
	}
	if p.Sent.Has("mileage") {
		l.Mileage = p.Mileage.Float64
	}
	return l, nil
}

func (s *TimeLogService) DeleteTimeLog(ctx context.Context, id uint64) error {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return apperrors.ErrUnauthorized
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		stored, err := s.logRepo.FindTimeLogForUpdate(ctx, tx, id)
		if err != nil {
			return timeLogNotFound(err)
		}
		if !s.gatekeeper.CanModifyTimeLog(actorID, stored) {
			return apperrors.NewForbiddenError("Можно удалять только свои записи табеля")
		}
		if err := s.logRepo.DeleteTimeLog(ctx, tx, id); err != nil {
			return timeLogNotFound(err)
		}
		s.logger.Info("Запись табеля удалена", zap.Uint64("logID", id), zap.Uint64("adminID", actorID))
		return nil
	})
}

// GetPayPeriodSummary - табель сотрудника за расчётный период, в который попадает date.
// Нулевые adminID и date означают текущего сотрудника и сегодняшний день.
func (s *TimeLogService) GetPayPeriodSummary(ctx context.Context, adminID uint64, date time.Time) (*dto.PayPeriodSummaryDTO, error) {
	if adminID == 0 {
		actorID, err := utils.GetUserIDFromCtx(ctx)
		if err != nil {
			return nil, apperrors.ErrUnauthorized
		}
		adminID = actorID
	}
	if date.IsZero() {
		date = s.today()
	}
	start, end := PayPeriod(utils.StartOfDay(date, s.loc))

	logs, err := s.logRepo.GetTimeLogs(ctx, entities.TimeLogFilter{
		AdminID: null.Uint64From(adminID),
		From:    null.TimeFrom(start),
		To:      null.TimeFrom(end),
	})
	if err != nil {
		return nil, err
	}
	return buildPayPeriodSummary(adminID, start, end, logs), nil
}

func (s *TimeLogService) findDTO(ctx context.Context, id uint64) (*dto.TimeLogDTO, error) {
	l, err := s.logRepo.FindTimeLog(ctx, id)
	if err != nil {
		return nil, timeLogNotFound(err)
	}
	d := toTimeLogDTO(*l)
	return &d, nil
}
