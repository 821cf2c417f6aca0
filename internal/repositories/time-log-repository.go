package repositories

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"itdesk/internal/entities"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
)

var timeLogSelectColumns = []string{
	"l.id", "l.admin_id", "l.date", "l.time_in", "l.time_out", "l.lunch_start", "l.lunch_end",
	"l.mileage", "l.created_at", "l.updated_at", "a.name", "a.username",
}

type TimeLogRepositoryInterface interface {
	GetTimeLogs(ctx context.Context, filter entities.TimeLogFilter) ([]entities.TimeLog, error)
	FindTimeLog(ctx context.Context, id uint64) (*entities.TimeLog, error)
	FindTimeLogForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.TimeLog, error)
	// FindOpenLog ищет незакрытую смену сотрудника за конкретный день и блокирует её.
	FindOpenLog(ctx context.Context, tx pgx.Tx, adminID uint64, date time.Time) (*entities.TimeLog, error)
	CreateTimeLog(ctx context.Context, tx pgx.Tx, log entities.TimeLog) (uint64, error)
	UpdateTimeLog(ctx context.Context, tx pgx.Tx, log entities.TimeLog) error
	DeleteTimeLog(ctx context.Context, tx pgx.Tx, id uint64) error
}

type TimeLogRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTimeLogRepository(storage *pgxpool.Pool, logger *zap.Logger) TimeLogRepositoryInterface {
	return &TimeLogRepository{storage: storage, logger: logger}
}

func (r *TimeLogRepository) querier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanTimeLog(row pgx.Row) (*entities.TimeLog, error) {
	var l entities.TimeLog
	var admin entities.AdminShort
	err := row.Scan(
		&l.ID, &l.AdminID, &l.Date, &l.TimeIn, &l.TimeOut, &l.LunchStart, &l.LunchEnd,
		&l.Mileage, &l.CreatedAt, &l.UpdatedAt, &admin.Name, &admin.Username,
	)
	if err != nil {
		return nil, notFoundOr(err)
	}
	admin.ID = l.AdminID
	l.Admin = &admin
	return &l, nil
}

func timeLogBase() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(timeLogSelectColumns...).
		From("time_logs AS l").
		Join("admins a ON a.id = l.admin_id")
}

func dateParam(t time.Time) string {
	return t.Format(constants.DateLayout)
}

func (r *TimeLogRepository) GetTimeLogs(ctx context.Context, filter entities.TimeLogFilter) ([]entities.TimeLog, error) {
	b := timeLogBase()
	if filter.AdminID.Valid {
		b = b.Where(sq.Eq{"l.admin_id": filter.AdminID.Uint64})
	}
	if filter.From.Valid {
		b = b.Where(sq.GtOrEq{"l.date": dateParam(filter.From.Time)})
	}
	if filter.To.Valid {
		b = b.Where(sq.LtOrEq{"l.date": dateParam(filter.To.Time)})
	}
	b = b.OrderBy("l.date DESC", "l.time_in DESC", "l.id DESC")

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения табеля: %w", err)
	}
	defer rows.Close()

	logs := make([]entities.TimeLog, 0)
	for rows.Next() {
		l, err := scanTimeLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func (r *TimeLogRepository) findOne(ctx context.Context, querier Querier, where sq.Sqlizer, forUpdate bool) (*entities.TimeLog, error) {
	b := timeLogBase().Where(where)
	if forUpdate {
		b = b.OrderBy("l.time_in DESC").Limit(1).Suffix("FOR UPDATE OF l")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return scanTimeLog(querier.QueryRow(ctx, query, args...))
}

func (r *TimeLogRepository) FindTimeLog(ctx context.Context, id uint64) (*entities.TimeLog, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"l.id": id}, false)
}

func (r *TimeLogRepository) FindTimeLogForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.TimeLog, error) {
	return r.findOne(ctx, r.querier(tx), sq.Eq{"l.id": id}, true)
}

func (r *TimeLogRepository) FindOpenLog(ctx context.Context, tx pgx.Tx, adminID uint64, date time.Time) (*entities.TimeLog, error) {
	where := sq.And{
		sq.Eq{"l.admin_id": adminID},
		sq.Eq{"l.date": dateParam(date)},
		sq.Eq{"l.time_out": nil},
	}
	return r.findOne(ctx, r.querier(tx), where, true)
}

const (
	timeLogUniqueMessage = "У сотрудника уже есть открытая смена за этот день"
	timeLogFKMessage     = "Сотрудник не существует"
)

func (r *TimeLogRepository) CreateTimeLog(ctx context.Context, tx pgx.Tx, log entities.TimeLog) (uint64, error) {
	query := `
		INSERT INTO time_logs (admin_id, date, time_in, time_out, lunch_start, lunch_end, mileage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.querier(tx).QueryRow(ctx, query,
		log.AdminID, dateParam(log.Date), log.TimeIn, log.TimeOut, log.LunchStart, log.LunchEnd, log.Mileage,
	).Scan(&newID)
	if err != nil {
		return 0, mapPgError(err, timeLogUniqueMessage, timeLogFKMessage)
	}
	return newID, nil
}

func (r *TimeLogRepository) UpdateTimeLog(ctx context.Context, tx pgx.Tx, log entities.TimeLog) error {
	query := `
		UPDATE time_logs
		SET date = $1, time_in = $2, time_out = $3, lunch_start = $4, lunch_end = $5,
		    mileage = $6, updated_at = NOW()
		WHERE id = $7
	`
	result, err := r.querier(tx).Exec(ctx, query,
		dateParam(log.Date), log.TimeIn, log.TimeOut, log.LunchStart, log.LunchEnd, log.Mileage, log.ID,
	)
	if err != nil {
		return mapPgError(err, timeLogUniqueMessage, timeLogFKMessage)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TimeLogRepository) DeleteTimeLog(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := r.querier(tx).Exec(ctx, `DELETE FROM time_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
