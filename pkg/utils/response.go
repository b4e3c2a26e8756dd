package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

// Карта доменных ошибок на HTTP-статусы. Всё, чего тут нет, уходит как 500.
var ErrorList = map[error]int{
	apperrors.ErrNotFound:                       http.StatusNotFound,
	apperrors.ErrEquipmentNotFound:              http.StatusNotFound,
	apperrors.ErrSourceEquipmentNotFound:        http.StatusNotFound,
	apperrors.ErrDestinationEquipmentNotFound:   http.StatusNotFound,
	apperrors.ErrEquipmentModelNotFound:         http.StatusBadRequest,
	apperrors.ErrManufacturerNotFound:           http.StatusBadRequest,
	apperrors.ErrCategoryGroupNotFound:          http.StatusBadRequest,
	apperrors.ErrStandardCategoryGroupNotFound:  http.StatusBadRequest,
	apperrors.ErrProcedureNotFound:              http.StatusNotFound,
	apperrors.ErrProjectNotFound:                http.StatusBadRequest,
	apperrors.ErrInvalidStateTransition:         http.StatusBadRequest,
	apperrors.ErrOnlyActiveCanDisable:           http.StatusBadRequest,
	apperrors.ErrOnlyDisabledCanEnable:          http.StatusBadRequest,
	apperrors.ErrEquipmentReadonly:              http.StatusBadRequest,
	apperrors.ErrProjectArchived:                http.StatusBadRequest,
	apperrors.ErrEquipmentNotDeletable:          http.StatusBadRequest,
	apperrors.ErrEquipmentInUse:                 http.StatusConflict,
	apperrors.ErrCrossProjectLink:               http.StatusBadRequest,
	apperrors.ErrSelfLink:                       http.StatusBadRequest,
	apperrors.ErrAccessDenied:                   http.StatusForbidden,
	apperrors.ErrForbidden:                      http.StatusForbidden,
	apperrors.ErrEmptyAuthHeader:                http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:              http.StatusUnauthorized,
	apperrors.ErrInvalidToken:                   http.StatusUnauthorized,
	apperrors.ErrTokenExpired:                   http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:               http.StatusUnauthorized,
	apperrors.ErrUserIDNotFoundInContext:        http.StatusUnauthorized,
	apperrors.ErrBadRequest:                     http.StatusBadRequest,
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message}
	withPagination, _ := strconv.ParseBool(ctx.QueryParam("withPagination"))
	if withPagination && len(total) > 0 {
		filter := ParseFilterFromQuery(ctx.Request().URL.Query())
		totalPages := 0
		if filter.Limit > 0 {
			totalPages = int((total[0] + uint64(filter.Limit) - 1) / uint64(filter.Limit))
		}
		pagination := types.Pagination{
			TotalCount: total[0],
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		}
		response.Body = map[string]interface{}{"list": body, "pagination": pagination}
	} else {
		response.Body = body
	}
	return ctx.JSON(code, response)
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}

		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"status": false, "message": "Ошибка валидации: " + strings.Join(msgs, "; ")})
	}

	for domainErr, statusCode := range ErrorList {
		if errors.Is(err, domainErr) {
			return c.JSON(statusCode, map[string]interface{}{"status": false, "message": domainErr.Error()})
		}
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Внутренняя ошибка сервера",
	})
}
