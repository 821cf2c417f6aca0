package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/internal/repositories"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
)

// Индексы колонок, найденные по шапке таблицы; -1 - колонки нет.
type assetColumns struct {
	serial, name, typ, status, description, client, purchased int
}

func (c assetColumns) complete() bool {
	return c.serial != -1 && c.name != -1
}

// AssetImporter загружает активы из XLSX. Строки сопоставляются по серийному номеру:
// существующие обновляются, новые создаются.
type AssetImporter struct {
	assetRepo  repositories.AssetRepositoryInterface
	clientRepo repositories.ClientRepositoryInterface
	logger     *zap.Logger
}

func NewAssetImporter(
	assetRepo repositories.AssetRepositoryInterface,
	clientRepo repositories.ClientRepositoryInterface,
	logger *zap.Logger,
) *AssetImporter {
	return &AssetImporter{assetRepo: assetRepo, clientRepo: clientRepo, logger: logger}
}

var purchaseDateLayouts = []string{constants.DateLayout, "02.01.2006", "01/02/2006", "1/2/06"}

func (s *AssetImporter) Import(ctx context.Context, r io.Reader) (*dto.AssetImportResultDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Не удалось прочитать файл XLSX")
	}
	defer f.Close()

	rows, headerRow, cols, found := s.findHeader(f)
	if !found {
		return nil, apperrors.NewBadRequestError("Не найдена шапка таблицы: нужны колонки 'Serial Number' и 'Name'")
	}

	result := &dto.AssetImportResultDTO{Errors: []string{}}
	clients := make(map[string]null.Uint64)

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		serial := safeGet(row, cols.serial)
		if serial == "" || isTrash(serial) {
			result.Skipped++
			continue
		}

		asset, err := s.rowToAsset(ctx, row, cols, clients)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Стр %d [%s]: %v", lineNum, serial, err))
			continue
		}
		asset.SerialNumber = serial

		isInsert, err := s.assetRepo.UpsertAsset(ctx, *asset)
		if err != nil {
			s.logger.Warn("Ошибка импорта строки", zap.Int("line", lineNum), zap.String("serial", serial), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("Стр %d [%s]: %v", lineNum, serial, err))
			continue
		}
		if isInsert {
			result.Created++
		} else {
			result.Updated++
		}
	}

	s.logger.Info("Импорт активов завершён",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// findHeader ищет на всех листах первую строку, похожую на шапку.
func (s *AssetImporter) findHeader(f *excelize.File) ([][]string, int, assetColumns, bool) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for rIdx, row := range rows {
			cols := detectAssetColumns(row)
			if cols.complete() {
				s.logger.Debug("Шапка найдена", zap.String("sheet", sheet), zap.Int("row", rIdx+1))
				return rows, rIdx, cols, true
			}
		}
	}
	return nil, -1, assetColumns{}, false
}

func detectAssetColumns(row []string) assetColumns {
	cols := assetColumns{-1, -1, -1, -1, -1, -1, -1}
	for cIdx, colName := range row {
		c := strings.ToLower(strings.TrimSpace(colName))
		switch {
		case c == "":
		case strings.Contains(c, "serial") || strings.Contains(c, "серийн") || c == "s/n" || c == "sn":
			cols.serial = cIdx
		case strings.Contains(c, "purchase") || strings.Contains(c, "покуп"):
			cols.purchased = cIdx
		case strings.Contains(c, "client") || strings.Contains(c, "клиент"):
			cols.client = cIdx
		case strings.Contains(c, "description") || strings.Contains(c, "описан"):
			cols.description = cIdx
		case strings.Contains(c, "status") || strings.Contains(c, "статус"):
			cols.status = cIdx
		case strings.Contains(c, "type") || c == "тип":
			cols.typ = cIdx
		case strings.Contains(c, "name") || strings.Contains(c, "наименован") || strings.Contains(c, "название"):
			cols.name = cIdx
		}
	}
	return cols
}

func (s *AssetImporter) rowToAsset(ctx context.Context, row []string, cols assetColumns, clients map[string]null.Uint64) (*entities.Asset, error) {
	name := safeGet(row, cols.name)
	if name == "" {
		return nil, fmt.Errorf("пустое наименование")
	}
	asset := &entities.Asset{
		Name:   name,
		Type:   normalizeOption(safeGet(row, cols.typ), constants.AssetTypes, "Other"),
		// пустой или неизвестный статус не затирает текущий, новый актив уходит на склад
		Status: normalizeOption(safeGet(row, cols.status), constants.AssetStatuses, ""),
	}
	if d := safeGet(row, cols.description); d != "" {
		asset.Description = null.StringFrom(d)
	}
	if raw := safeGet(row, cols.purchased); raw != "" {
		date, err := parsePurchaseDate(raw)
		if err != nil {
			return nil, err
		}
		asset.PurchaseDate = null.TimeFrom(date)
	}
	if clientName := safeGet(row, cols.client); clientName != "" {
		id, err := s.resolveClient(ctx, clientName, clients)
		if err != nil {
			return nil, err
		}
		asset.ClientID = id
	}
	return asset, nil
}

// resolveClient ищет клиента по имени; ненайденный клиент не мешает импорту строки.
func (s *AssetImporter) resolveClient(ctx context.Context, name string, cache map[string]null.Uint64) (null.Uint64, error) {
	key := strings.ToLower(name)
	if id, ok := cache[key]; ok {
		return id, nil
	}
	client, err := s.clientRepo.FindClientByName(ctx, name)
	switch {
	case err == nil:
		cache[key] = null.Uint64From(client.ID)
	case errors.Is(err, apperrors.ErrNotFound):
		s.logger.Warn("Клиент из файла не найден, привязка пропущена", zap.String("client", name))
		cache[key] = null.Uint64{}
	default:
		return null.Uint64{}, err
	}
	return cache[key], nil
}

func parsePurchaseDate(raw string) (time.Time, error) {
	for _, layout := range purchaseDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("неверная дата покупки '%s'", raw)
}

// normalizeOption сопоставляет значение из файла с допустимым без учёта регистра.
func normalizeOption(raw string, allowed []string, fallback string) string {
	for _, opt := range allowed {
		if strings.EqualFold(opt, raw) {
			return opt
		}
	}
	return fallback
}

func isTrash(val string) bool {
	v := strings.ToLower(strings.TrimSpace(val))
	return strings.Contains(v, "итого") || strings.Contains(v, "всего") || v == "total"
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
