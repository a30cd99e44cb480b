package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/JoshyLop/intranet-tickets-api/internal/observability"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

// RegisterMiddlewares wires logging, error handling and request timeouts onto
// the app. Order matters: errors raised anywhere below are translated to the
// JSON error envelope before the request logger records the final status.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, requestTimeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if requestTimeout > 0 {
		app.Use(requestTimeoutMiddleware(requestTimeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = apperrors.NewInternal(fmt.Errorf("panic: %v", r))
				}
			}()
			err = c.Next()
		}()
		if err == nil {
			return nil
		}

		appErr := apperrors.FromError(err)
		metrics.RecordError(c.Route().Path, c.Method(), appErr.Code)
		if appErr.HTTPStatus >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(appErr),
			)
		}

		return c.Status(appErr.HTTPStatus).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			},
		})
	}
}
