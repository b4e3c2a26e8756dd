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

type MaintenanceProcedureController struct {
	procedureService services.MaintenanceProcedureServiceInterface
	logger           *zap.Logger
}

func NewMaintenanceProcedureController(
	service services.MaintenanceProcedureServiceInterface,
	logger *zap.Logger,
) *MaintenanceProcedureController {
	return &MaintenanceProcedureController{
		procedureService: service,
		logger:           logger,
	}
}

func (c *MaintenanceProcedureController) bind(ctx echo.Context) (uint64, *dto.ToggleProcedureDTO, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, nil, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный формат ID регламента",
			err,
			map[string]interface{}{"param": ctx.Param("id")},
		)
	}

	var payload dto.ToggleProcedureDTO
	if err := ctx.Bind(&payload); err != nil {
		return 0, nil, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil)
	}
	if err := ctx.Validate(&payload); err != nil {
		return 0, nil, err
	}
	return id, &payload, nil
}

func (c *MaintenanceProcedureController) FindProcedure(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID регламента", err, nil),
			c.logger,
		)
	}

	res, err := c.procedureService.FindProcedure(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindProcedure: ошибка при поиске регламента", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Регламент успешно найден", http.StatusOK)
}

func (c *MaintenanceProcedureController) DisableProcedure(ctx echo.Context) error {
	id, payload, err := c.bind(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.procedureService.DisableProcedure(ctx.Request().Context(), userID, id, payload.EffectiveDate); err != nil {
		c.logger.Error("DisableProcedure: ошибка при отключении регламента", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Регламент успешно отключён", http.StatusOK)
}

func (c *MaintenanceProcedureController) EnableProcedure(ctx echo.Context) error {
	id, payload, err := c.bind(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.procedureService.EnableProcedure(ctx.Request().Context(), userID, id, payload.EffectiveDate); err != nil {
		c.logger.Error("EnableProcedure: ошибка при включении регламента", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Регламент успешно включён", http.StatusOK)
}
