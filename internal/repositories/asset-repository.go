package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"itdesk/internal/entities"
	"itdesk/internal/infrastructure/bd"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/types"
)

// ЕДИНАЯ КАРТА ПОЛЕЙ (Фильтр + Сортировка)
var assetMap = map[string]string{
	"id":            "a.id",
	"serial_number": "a.serial_number",
	"name":          "a.name",
	"type":          "a.type",
	"status":        "a.status",
	"client_id":     "a.client_id",
	"purchase_date": "a.purchase_date",
	"created_at":    "a.created_at",
}

var assetSelectColumns = []string{
	"a.id", "a.serial_number", "a.name", "a.type", "a.description", "a.status",
	"a.purchase_date", "a.client_id", "a.created_at", "a.updated_at",
	"c.name",
}

const assetSerialConflictMessage = "Актив с таким серийным номером уже существует"

type AssetRepositoryInterface interface {
	GetAssets(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error)
	FindAssetBySerial(ctx context.Context, serial string) (*entities.Asset, error)
	CreateAsset(ctx context.Context, asset entities.Asset) (uint64, error)
	UpdateAsset(ctx context.Context, asset entities.Asset) error
	DeleteAssetBySerial(ctx context.Context, serial string) error
	// UpsertAsset возвращает true, если строка была вставлена, а не обновлена.
	// Пустой Status сохраняет текущий статус актива.
	UpsertAsset(ctx context.Context, asset entities.Asset) (bool, error)
}

type AssetRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAssetRepository(storage *pgxpool.Pool, logger *zap.Logger) AssetRepositoryInterface {
	return &AssetRepository{storage: storage, logger: logger}
}

func scanAsset(row pgx.Row) (*entities.Asset, error) {
	var a entities.Asset
	var clientName null.String
	err := row.Scan(
		&a.ID, &a.SerialNumber, &a.Name, &a.Type, &a.Description, &a.Status,
		&a.PurchaseDate, &a.ClientID, &a.CreatedAt, &a.UpdatedAt,
		&clientName,
	)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if a.ClientID.Valid {
		a.Client = &entities.ClientShort{ID: a.ClientID.Uint64, Name: clientName.String}
	}
	return &a, nil
}

func assetBase(psql sq.StatementBuilderType) sq.SelectBuilder {
	return psql.Select(assetSelectColumns...).
		From("assets AS a").
		LeftJoin("clients c ON c.id = a.client_id")
}

func (r *AssetRepository) GetAssets(ctx context.Context, filter types.Filter) ([]entities.Asset, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applySearch := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Search != "" {
			pat := "%" + likeEscaper.Replace(filter.Search) + "%"
			return b.Where(sq.Or{
				sq.ILike{"a.name": pat},
				sq.ILike{"a.serial_number": pat},
			})
		}
		return b
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := applySearch(psql.Select("COUNT(a.id)").From("assets AS a"))
	countBuilder = bd.ApplyListParams(countBuilder, countFilter, assetMap)

	var total uint64
	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта активов: %w", err)
	}
	if total == 0 {
		return []entities.Asset{}, 0, nil
	}

	baseBuilder := applySearch(assetBase(psql))
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, assetMap)
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("a.name ASC")
	}
	baseBuilder = baseBuilder.OrderBy("a.id ASC")

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения активов: %w", err)
	}
	defer rows.Close()

	assets := make([]entities.Asset, 0, filter.Limit)
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, *a)
	}
	return assets, total, rows.Err()
}

func (r *AssetRepository) FindAssetBySerial(ctx context.Context, serial string) (*entities.Asset, error) {
	query, args, err := assetBase(sq.StatementBuilder.PlaceholderFormat(sq.Dollar)).
		Where(sq.Eq{"a.serial_number": serial}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanAsset(r.storage.QueryRow(ctx, query, args...))
}

func (r *AssetRepository) CreateAsset(ctx context.Context, asset entities.Asset) (uint64, error) {
	query := `
		INSERT INTO assets (serial_number, name, type, description, status, purchase_date, client_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.storage.QueryRow(ctx, query,
		asset.SerialNumber, asset.Name, asset.Type, asset.Description, asset.Status, asset.PurchaseDate, asset.ClientID,
	).Scan(&newID)
	if err != nil {
		return 0, mapPgError(err, assetSerialConflictMessage, "Указанный клиент не существует")
	}
	return newID, nil
}

func (r *AssetRepository) UpdateAsset(ctx context.Context, asset entities.Asset) error {
	query := `
		UPDATE assets
		SET serial_number = $1, name = $2, type = $3, description = $4, status = $5,
		    purchase_date = $6, client_id = $7, updated_at = NOW()
		WHERE id = $8
	`
	result, err := r.storage.Exec(ctx, query,
		asset.SerialNumber, asset.Name, asset.Type, asset.Description, asset.Status,
		asset.PurchaseDate, asset.ClientID, asset.ID,
	)
	if err != nil {
		return mapPgError(err, assetSerialConflictMessage, "Указанный клиент не существует")
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAssetBySerial: связанные тикеты остаются, их asset_id обнуляется на уровне БД.
func (r *AssetRepository) DeleteAssetBySerial(ctx context.Context, serial string) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM assets WHERE serial_number = $1`, serial)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// upsertAssetQuery: пустой статус ($5) означает, что в файле его не было.
// Новый актив тогда попадает на склад ($8), а у существующего статус не меняется.
const upsertAssetQuery = `
	INSERT INTO assets (serial_number, name, type, description, status, purchase_date, client_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5::text, ''), $8::text), $6, $7, NOW(), NOW())
	ON CONFLICT (serial_number)
	DO UPDATE SET
		name = EXCLUDED.name,
		type = EXCLUDED.type,
		description = COALESCE(EXCLUDED.description, assets.description),
		status = CASE WHEN $5::text = '' THEN assets.status ELSE EXCLUDED.status END,
		purchase_date = COALESCE(EXCLUDED.purchase_date, assets.purchase_date),
		client_id = COALESCE(EXCLUDED.client_id, assets.client_id),
		updated_at = NOW()
	RETURNING (xmax = 0) AS is_insert
`

func (r *AssetRepository) UpsertAsset(ctx context.Context, asset entities.Asset) (bool, error) {
	var isInsert bool
	err := r.storage.QueryRow(ctx, upsertAssetQuery,
		asset.SerialNumber, asset.Name, asset.Type, asset.Description, asset.Status, asset.PurchaseDate, asset.ClientID,
		constants.AssetStatusInStorage,
	).Scan(&isInsert)
	if err != nil {
		return false, mapPgError(err, assetSerialConflictMessage, "Указанный клиент не существует")
	}
	return isInsert, nil
}
