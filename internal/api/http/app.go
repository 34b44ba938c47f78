package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NewApp builds the fiber application. Immutable makes values read from the
// request safe to retain after the handler returns.
func NewApp(appName string, logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      appName,
		Immutable:    true,
		ErrorHandler: ErrorHandler(logger),
	})
}
