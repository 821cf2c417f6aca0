package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"itdesk/internal/entities"
)

const adminColumns = "id, username, password, name, created_at, updated_at"

type AdminRepositoryInterface interface {
	FindByID(ctx context.Context, id uint64) (*entities.Admin, error)
	FindByUsername(ctx context.Context, username string) (*entities.Admin, error)
	List(ctx context.Context) ([]entities.Admin, error)
	Upsert(ctx context.Context, admin entities.Admin) (uint64, error)
}

type AdminRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAdminRepository(storage *pgxpool.Pool, logger *zap.Logger) AdminRepositoryInterface {
	return &AdminRepository{storage: storage, logger: logger}
}

func scanAdmin(row pgx.Row) (*entities.Admin, error) {
	var a entities.Admin
	err := row.Scan(&a.ID, &a.Username, &a.Password, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &a, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id uint64) (*entities.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return scanAdmin(r.storage.QueryRow(ctx, query, id))
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*entities.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE username = $1`
	return scanAdmin(r.storage.QueryRow(ctx, query, username))
}

func (r *AdminRepository) List(ctx context.Context) ([]entities.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins ORDER BY name ASC, id ASC`
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка сотрудников: %w", err)
	}
	defer rows.Close()

	admins := make([]entities.Admin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, *a)
	}
	return admins, rows.Err()
}

// Upsert создаёт сотрудника или обновляет имя и пароль существующего (по username).
func (r *AdminRepository) Upsert(ctx context.Context, admin entities.Admin) (uint64, error) {
	query := `
		INSERT INTO admins (username, password, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE
		SET password = EXCLUDED.password, name = EXCLUDED.name, updated_at = NOW()
		RETURNING id
	`
	var id uint64
	if err := r.storage.QueryRow(ctx, query, admin.Username, admin.Password, admin.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка сохранения сотрудника: %w", err)
	}
	return id, nil
}
