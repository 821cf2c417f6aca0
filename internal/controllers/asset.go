package controllers

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/services"
	"itdesk/pkg/config"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/filestorage"
	"itdesk/pkg/types"
	"itdesk/pkg/utils"
)

type AssetController struct {
	assetService services.AssetServiceInterface
	fileStorage  filestorage.FileStorageInterface
	logger       *zap.Logger
}

func NewAssetController(
	assetService services.AssetServiceInterface,
	fileStorage filestorage.FileStorageInterface,
	logger *zap.Logger,
) *AssetController {
	return &AssetController{
		assetService: assetService,
		fileStorage:  fileStorage,
		logger:       logger,
	}
}

// serialParam достаёт серийный номер из пути. Если в URL были экранированные
// символы (например %2F), echo отдаёт параметр как есть, и его надо раскодировать.
func serialParam(ctx echo.Context) (string, error) {
	serial := ctx.Param("serialNumber")
	if ctx.Request().URL.RawPath != "" {
		decoded, err := url.PathUnescape(serial)
		if err != nil {
			return "", apperrors.NewBadRequestError("Некорректный серийный номер")
		}
		serial = decoded
	}
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return "", apperrors.NewBadRequestError("Не указан серийный номер")
	}
	return serial, nil
}

func (c *AssetController) GetAssets(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	res, total, err := c.assetService.GetAssets(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetAssets: ошибка при получении списка активов", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список активов успешно получен", http.StatusOK,
		types.NewPagination(total, filter.Page, filter.Limit))
}

func (c *AssetController) FindAsset(ctx echo.Context) error {
	serial, err := serialParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	res, err := c.assetService.FindAsset(ctx.Request().Context(), serial)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Актив успешно найден", http.StatusOK)
}

func (c *AssetController) CreateAsset(ctx echo.Context) error {
	var payload dto.CreateAssetDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateAsset: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.assetService.CreateAsset(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Актив успешно создан", http.StatusCreated)
}

func (c *AssetController) UpdateAsset(ctx echo.Context) error {
	serial, err := serialParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateAssetDTO
	sent, err := utils.BindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	payload.Sent = sent
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.assetService.UpdateAsset(ctx.Request().Context(), serial, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Актив успешно обновлён", http.StatusOK)
}

func (c *AssetController) DeleteAsset(ctx echo.Context) error {
	serial, err := serialParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.assetService.DeleteAsset(ctx.Request().Context(), serial); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Актив успешно удалён", http.StatusOK)
}

// ImportAssets принимает XLSX в поле file. Исходный файл сохраняется в архив
// загрузок, импорт читается уже из сохранённой копии.
func (c *AssetController) ImportAssets(ctx echo.Context) error {
	rules := config.UploadContexts[config.UploadContextAssetImport]

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Файл не передан (поле file)"), c.logger)
	}
	if !rules.AllowsExtension(strings.ToLower(filepath.Ext(fileHeader.Filename))) {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Поддерживаются только файлы .xlsx"), c.logger)
	}
	if fileHeader.Size > rules.MaxSizeBytes() {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Файл слишком большой"), c.logger)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer src.Close()

	storedPath, err := c.fileStorage.Save(src, fileHeader.Filename, rules.PathPrefix)
	if err != nil {
		c.logger.Error("ImportAssets: не удалось сохранить файл", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	stored, err := c.fileStorage.Open(storedPath)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer stored.Close()

	c.logger.Info("ImportAssets: файл принят", zap.String("file", fileHeader.Filename), zap.String("stored", storedPath))
	res, err := c.assetService.ImportAssets(ctx.Request().Context(), stored)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Импорт активов завершён", http.StatusOK)
}
