package errors

import (
	"errors"

	"github.com/finsuite/ledgergateway/internal/api/contract"
	"github.com/finsuite/ledgergateway/internal/api/v1/middleware"
	"github.com/finsuite/ledgergateway/internal/constants"
	"github.com/finsuite/ledgergateway/internal/service"
	"github.com/gofiber/fiber/v2"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(contract.ErrorResponse{
				Code:    constants.ErrCodeOperationFailed,
				Message: fiberErr.Message,
				TrackID: middleware.TrackID(c),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(contract.ErrorResponse{
			Code:    constants.ErrCodeInternalError,
			Message: constants.GetErrorMessage(constants.ErrCodeInternalError),
			TrackID: middleware.TrackID(c),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == fiber.StatusInternalServerError && errorCode != constants.ErrCodeInternalError {
		errorCode = constants.ErrCodeInternalError
	}

	return c.Status(status).JSON(contract.ErrorResponse{
		Code:     errorCode,
		Message:  constants.GetErrorMessage(errorCode),
		TrackID:  middleware.TrackID(c),
		RecordID: err.RecordID,
	})
}
