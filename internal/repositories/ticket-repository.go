package repositories

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"itdesk/internal/entities"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
)

// Колонки сортировки списка тикетов: ключ - значение параметра sortBy.
var ticketSortMap = map[string]string{
	"id":       "t.id",
	"company":  "t.company",
	"issue":    "t.issue",
	"status":   "t.status",
	"assignee": "a.name",
	"date":     "t.started_time",
}

const DefaultTicketSort = "date"

var ticketSelectColumns = []string{
	"t.id", "t.company", "t.person", "t.location", "t.issue", "t.status",
	"t.admin_id", "t.asset_id", "t.started_time", "t.time_end", "t.total_time",
	"t.resolution", "t.comments", "t.created_at", "t.updated_at",
	"a.id", "a.name", "a.username",
}

type TicketRepositoryInterface interface {
	GetTickets(ctx context.Context, filter entities.TicketListFilter) ([]entities.Ticket, uint64, error)
	FindTicket(ctx context.Context, id uint64) (*entities.Ticket, error)
	FindTicketForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Ticket, error)
	FindTicketsByAsset(ctx context.Context, assetID uint64) ([]entities.Ticket, error)
	CreateTicket(ctx context.Context, ticket entities.Ticket) (uint64, error)
	UpdateTicket(ctx context.Context, tx pgx.Tx, ticket entities.Ticket) error
	DeleteTicket(ctx context.Context, tx pgx.Tx, id uint64) error
}

type TicketRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTicketRepository(storage *pgxpool.Pool, logger *zap.Logger) TicketRepositoryInterface {
	return &TicketRepository{storage: storage, logger: logger}
}

// -----------------------------------------------------------
// SCAN
// -----------------------------------------------------------

func (r *TicketRepository) querier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var t entities.Ticket
	var adminID null.Uint64
	var adminName, adminUsername null.String

	err := row.Scan(
		&t.ID, &t.Company, &t.Person, &t.Location, &t.Issue, &t.Status,
		&t.AdminID, &t.AssetID, &t.StartedTime, &t.TimeEnd, &t.TotalTime,
		&t.Resolution, &t.Comments, &t.CreatedAt, &t.UpdatedAt,
		&adminID, &adminName, &adminUsername,
	)
	if err != nil {
		return nil, notFoundOr(err)
	}

	if adminID.Valid {
		t.Admin = &entities.AdminShort{ID: adminID.Uint64, Name: adminName.String, Username: adminUsername.String}
	}
	return &t, nil
}

func collectTickets(rows pgx.Rows, capacity uint64) ([]entities.Ticket, error) {
	defer rows.Close()
	tickets := make([]entities.Ticket, 0, capacity)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// -----------------------------------------------------------
// LIST
// -----------------------------------------------------------

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func applyTicketWhere(b sq.SelectBuilder, filter entities.TicketListFilter) sq.SelectBuilder {
	if filter.Search != "" {
		pat := "%" + likeEscaper.Replace(filter.Search) + "%"
		b = b.Where(sq.Or{
			sq.ILike{"t.company": pat},
			sq.ILike{"t.issue": pat},
			sq.ILike{"t.person": pat},
		})
	}
	if filter.Status != "" && filter.Status != constants.TicketStatusAll {
		b = b.Where(sq.Eq{"t.status": filter.Status})
	}
	if filter.AdminID.Valid {
		b = b.Where(sq.Eq{"t.admin_id": filter.AdminID.Uint64})
	}
	if filter.From.Valid {
		b = b.Where(sq.GtOrEq{"t.started_time": filter.From.Time})
	}
	if filter.To.Valid {
		b = b.Where(sq.Lt{"t.started_time": filter.To.Time})
	}
	return b
}

// BuildTicketListQueries собирает COUNT и SELECT с одинаковыми условиями.
// К сортировке всегда добавляется t.id в том же направлении, чтобы страницы
// не пересекались при равных значениях ключа.
func BuildTicketListQueries(filter entities.TicketListFilter) (sq.SelectBuilder, sq.SelectBuilder) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(t.id)").From("tickets AS t")
	countBuilder = applyTicketWhere(countBuilder, filter)

	sortCol, ok := ticketSortMap[filter.SortBy]
	if !ok {
		sortCol = ticketSortMap[DefaultTicketSort]
	}
	dir := "DESC"
	if filter.SortAsc {
		dir = "ASC"
	}

	selectBuilder := psql.Select(ticketSelectColumns...).
		From("tickets AS t").
		LeftJoin("admins a ON a.id = t.admin_id")
	selectBuilder = applyTicketWhere(selectBuilder, filter)

	selectBuilder = selectBuilder.OrderBy(fmt.Sprintf("%s %s", sortCol, dir))
	if sortCol != "t.id" {
		selectBuilder = selectBuilder.OrderBy("t.id " + dir)
	}

	if filter.WithPagination {
		selectBuilder = selectBuilder.Limit(filter.Limit).Offset(filter.Offset)
	}

	return countBuilder, selectBuilder
}

func (r *TicketRepository) GetTickets(ctx context.Context, filter entities.TicketListFilter) ([]entities.Ticket, uint64, error) {
	countBuilder, selectBuilder := BuildTicketListQueries(filter)

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта тикетов: %w", err)
	}
	if total == 0 {
		return []entities.Ticket{}, 0, nil
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения тикетов: %w", err)
	}

	tickets, err := collectTickets(rows, filter.Limit)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// -----------------------------------------------------------
// FIND ONE
// -----------------------------------------------------------

func (r *TicketRepository) findOne(ctx context.Context, querier Querier, id uint64, forUpdate bool) (*entities.Ticket, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	queryBuilder := psql.Select(ticketSelectColumns...).
		From("tickets AS t").
		LeftJoin("admins a ON a.id = t.admin_id").
		Where(sq.Eq{"t.id": id})
	if forUpdate {
		queryBuilder = queryBuilder.Suffix("FOR UPDATE OF t")
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanTicket(querier.QueryRow(ctx, query, args...))
}

func (r *TicketRepository) FindTicket(ctx context.Context, id uint64) (*entities.Ticket, error) {
	return r.findOne(ctx, r.storage, id, false)
}

func (r *TicketRepository) FindTicketForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Ticket, error) {
	return r.findOne(ctx, r.querier(tx), id, true)
}

func (r *TicketRepository) FindTicketsByAsset(ctx context.Context, assetID uint64) ([]entities.Ticket, error) {
	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(ticketSelectColumns...).
		From("tickets AS t").
		LeftJoin("admins a ON a.id = t.admin_id").
		Where(sq.Eq{"t.asset_id": assetID}).
		OrderBy("t.started_time DESC", "t.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения тикетов по активу: %w", err)
	}
	return collectTickets(rows, 0)
}

// -----------------------------------------------------------
// CRUD
// -----------------------------------------------------------

const ticketFKMessage = "Указанный сотрудник или актив не существует"

func (r *TicketRepository) CreateTicket(ctx context.Context, ticket entities.Ticket) (uint64, error) {
	query := `
		INSERT INTO tickets (company, person, location, issue, status, admin_id, asset_id,
		                     started_time, time_end, total_time, resolution, comments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.storage.QueryRow(ctx, query,
		ticket.Company, ticket.Person, ticket.Location, ticket.Issue, ticket.Status,
		ticket.AdminID, ticket.AssetID, ticket.StartedTime, ticket.TimeEnd, ticket.TotalTime,
		ticket.Resolution, ticket.Comments,
	).Scan(&newID)
	if err != nil {
		return 0, mapPgError(err, "Тикет уже существует", ticketFKMessage)
	}
	return newID, nil
}

func (r *TicketRepository) UpdateTicket(ctx context.Context, tx pgx.Tx, ticket entities.Ticket) error {
	query := `
		UPDATE tickets
		SET company = $1, person = $2, location = $3, issue = $4, status = $5,
		    admin_id = $6, asset_id = $7, started_time = $8, time_end = $9, total_time = $10,
		    resolution = $11, comments = $12, updated_at = NOW()
		WHERE id = $13
	`
	result, err := r.querier(tx).Exec(ctx, query,
		ticket.Company, ticket.Person, ticket.Location, ticket.Issue, ticket.Status,
		ticket.AdminID, ticket.AssetID, ticket.StartedTime, ticket.TimeEnd, ticket.TotalTime,
		ticket.Resolution, ticket.Comments, ticket.ID,
	)
	if err != nil {
		return mapPgError(err, "Тикет уже существует", ticketFKMessage)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *TicketRepository) DeleteTicket(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := r.querier(tx).Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
