package controllers

import (
	"github.com/gofiber/fiber/v2"
	dbservice "github.com/screenrec/screenrec-server/pkg/services/db"
)

type HealthCheckController struct {
	ds dbservice.RecordingStore
}

func NewHealthCheckController(ds dbservice.RecordingStore) *HealthCheckController {
	return &HealthCheckController{
		ds: ds,
	}
}

func (hc *HealthCheckController) HandleHealthCheck(c *fiber.Ctx) error {
	if err := hc.ds.Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("metadata store unreachable")
	}
	return c.Status(fiber.StatusOK).SendString("Healthy")
}
