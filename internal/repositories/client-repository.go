package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"itdesk/internal/entities"
	"itdesk/internal/infrastructure/bd"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/types"
)

// ЕДИНАЯ КАРТА ПОЛЕЙ (Фильтр + Сортировка)
var clientMap = map[string]string{
	"id":         "c.id",
	"name":       "c.name",
	"phone":      "c.phone",
	"created_at": "c.created_at",
	"updated_at": "c.updated_at",
}

var clientSelectColumns = []string{
	"c.id", "c.name", "c.contact_info", "c.phone", "c.address", "c.created_at", "c.updated_at",
}

type ClientRepositoryInterface interface {
	GetClients(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error)
	FindClient(ctx context.Context, id uint64) (*entities.Client, error)
	FindClientByName(ctx context.Context, name string) (*entities.Client, error)
	CreateClient(ctx context.Context, client entities.Client) (uint64, error)
	UpdateClient(ctx context.Context, client entities.Client) error
	DeleteClient(ctx context.Context, id uint64) error
}

type ClientRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewClientRepository(storage *pgxpool.Pool, logger *zap.Logger) ClientRepositoryInterface {
	return &ClientRepository{storage: storage, logger: logger}
}

func scanClient(row pgx.Row) (*entities.Client, error) {
	var c entities.Client
	err := row.Scan(&c.ID, &c.Name, &c.ContactInfo, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &c, nil
}

func (r *ClientRepository) GetClients(ctx context.Context, filter types.Filter) ([]entities.Client, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + likeEscaper.Replace(filter.Search) + "%"
			return b.Where(sq.Or{
				sq.ILike{"c.name": pat},
				sq.ILike{"c.contact_info": pat},
				sq.ILike{"c.phone": pat},
			})
		}
		return b
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := applySearch(psql.Select("COUNT(c.id)").From("clients AS c"))
	countBuilder = bd.ApplyListParams(countBuilder, countFilter, clientMap)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта клиентов: %w", err)
	}
	if total == 0 {
		return []entities.Client{}, 0, nil
	}

	baseBuilder := applySearch(psql.Select(clientSelectColumns...).From("clients AS c"))
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, clientMap)
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("c.name ASC")
	}
	baseBuilder = baseBuilder.OrderBy("c.id ASC")

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения клиентов: %w", err)
	}
	defer rows.Close()

	clients := make([]entities.Client, 0, filter.Limit)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		clients = append(clients, *c)
	}
	return clients, total, rows.Err()
}

func (r *ClientRepository) FindClient(ctx context.Context, id uint64) (*entities.Client, error) {
	query := `SELECT id, name, contact_info, phone, address, created_at, updated_at FROM clients WHERE id = $1`
	return scanClient(r.storage.QueryRow(ctx, query, id))
}

// FindClientByName - регистронезависимый поиск по точному имени (для импорта).
func (r *ClientRepository) FindClientByName(ctx context.Context, name string) (*entities.Client, error) {
	query := `SELECT id, name, contact_info, phone, address, created_at, updated_at
	          FROM clients WHERE LOWER(name) = LOWER($1) ORDER BY id LIMIT 1`
	return scanClient(r.storage.QueryRow(ctx, query, name))
}

func (r *ClientRepository) CreateClient(ctx context.Context, client entities.Client) (uint64, error) {
	query := `
		INSERT INTO clients (name, contact_info, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.storage.QueryRow(ctx, query, client.Name, client.ContactInfo, client.Phone, client.Address).Scan(&newID)
	return newID, err
}

func (r *ClientRepository) UpdateClient(ctx context.Context, client entities.Client) error {
	query := `
		UPDATE clients
		SET name = $1, contact_info = $2, phone = $3, address = $4, updated_at = NOW()
		WHERE id = $5
	`
	result, err := r.storage.Exec(ctx, query, client.Name, client.ContactInfo, client.Phone, client.Address, client.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteClient: активы клиента остаются, их client_id обнуляется на уровне БД.
func (r *ClientRepository) DeleteClient(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
