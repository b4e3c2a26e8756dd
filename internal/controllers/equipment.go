package controllers

import (
	"net/http"
	"strconv"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	service services.EquipmentServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: service,
		logger:           logger,
	}
}

func (c *EquipmentController) parseID(ctx echo.Context, param string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный формат ID оборудования",
			err,
			map[string]interface{}{"param": ctx.Param(param)},
		)
	}
	return id, nil
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	var projectID uint64
	if raw := ctx.QueryParam("project_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.ErrorResponse(
				ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID проекта", err, nil),
				c.logger,
			)
		}
		projectID = parsed
	}

	res, total, err := c.equipmentService.GetEquipments(ctx.Request().Context(), projectID, filter)
	if err != nil {
		c.logger.Error("GetEquipments: ошибка при получении списка оборудования", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Список оборудования успешно получен", http.StatusOK, total)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := c.parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindEquipment: ошибка при поиске оборудования", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Оборудование успешно найдено", http.StatusOK)
}

func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	var payload dto.CreateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateEquipment: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("CreateEquipment: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.CreateEquipment(ctx.Request().Context(), userID, payload)
	if err != nil {
		c.logger.Error("CreateEquipment: ошибка при создании оборудования", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Оборудование успешно создано", http.StatusCreated)
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id, err := c.parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("UpdateEquipment: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		c.logger.Error("UpdateEquipment: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), userID, id, payload)
	if err != nil {
		c.logger.Error("UpdateEquipment: ошибка при обновлении оборудования", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Оборудование успешно обновлено", http.StatusOK)
}

func (c *EquipmentController) bindToggle(ctx echo.Context) (*dto.ToggleEquipmentDTO, error) {
	var payload dto.ToggleEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil)
	}
	if err := ctx.Validate(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *EquipmentController) DisableEquipment(ctx echo.Context) error {
	id, err := c.parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	payload, err := c.bindToggle(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.equipmentService.DisableEquipment(ctx.Request().Context(), userID, id, payload.ToggleDate); err != nil {
		c.logger.Error("DisableEquipment: ошибка при отключении оборудования", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Оборудование успешно отключено", http.StatusOK)
}

func (c *EquipmentController) EnableEquipment(ctx echo.Context) error {
	id, err := c.parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	payload, err := c.bindToggle(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.equipmentService.EnableEquipment(ctx.Request().Context(), userID, id, payload.ToggleDate); err != nil {
		c.logger.Error("EnableEquipment: ошибка при включении оборудования", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Оборудование успешно включено", http.StatusOK)
}

func (c *EquipmentController) ArchiveEquipment(ctx echo.Context) error {
	id, err := c.parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.equipmentService.ArchiveEquipment(ctx.Request().Context(), userID, id); err != nil {
		c.logger.Error("ArchiveEquipment: ошибка при архивировании оборудования", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Оборудование успешно заархивировано", http.StatusOK)
}

func (c *EquipmentController) MakeReadonly(ctx echo.Context) error {
	id, err := c.parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.equipmentService.MakeReadonly(ctx.Request().Context(), userID, id); err != nil {
		c.logger.Error("MakeReadonly: ошибка при блокировке оборудования", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Оборудование переведено в режим только для чтения", http.StatusOK)
}

func (c *EquipmentController) DeleteEquipment(ctx echo.Context) error {
	id, err := c.parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.equipmentService.RemoveEquipment(ctx.Request().Context(), userID, id); err != nil {
		c.logger.Error("DeleteEquipment: ошибка при удалении оборудования", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Оборудование успешно удалено", http.StatusOK)
}

func (c *EquipmentController) LinkEquipment(ctx echo.Context) error {
	id, err := c.parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.LinkEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.equipmentService.LinkEquipment(ctx.Request().Context(), userID, id, payload.DestinationEquipmentID); err != nil {
		c.logger.Error("LinkEquipment: ошибка при связывании оборудования",
			zap.Uint64("source_id", id),
			zap.Uint64("destination_id", payload.DestinationEquipmentID),
			zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Оборудование успешно связано", http.StatusOK)
}

func (c *EquipmentController) UnlinkEquipment(ctx echo.Context) error {
	id, err := c.parseID(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.LinkEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.equipmentService.UnlinkEquipment(ctx.Request().Context(), userID, id, payload.DestinationEquipmentID); err != nil {
		c.logger.Error("UnlinkEquipment: ошибка при отвязке оборудования",
			zap.Uint64("source_id", id),
			zap.Uint64("destination_id", payload.DestinationEquipmentID),
			zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Связь оборудования успешно удалена", http.StatusOK)
}
