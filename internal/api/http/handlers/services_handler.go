package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/service"
)

// ServicesHandler exposes the service catalog.
type ServicesHandler struct {
	catalog *service.CatalogService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(catalog *service.CatalogService) *ServicesHandler {
	return &ServicesHandler{catalog: catalog}
}

// List handles GET /api/v1/service/get-services. limit defaults to 10 and is
// capped at query.MaxLimit (100); larger values are clamped, not rejected.
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	services, q, err := h.catalog.List(c.UserContext(), c.Queries())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewServiceListResponse(services, q))
}

// Get handles GET /api/v1/service/get-service/:id.
func (h *ServicesHandler) Get(c *fiber.Ctx) error {
	s, err := h.catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewServiceResponse(s)})
}

// Create handles POST /api/v1/service/create-service.
func (h *ServicesHandler) Create(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var in service.ServiceInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	s, err := h.catalog.Create(c.UserContext(), identity, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": dto.NewServiceResponse(s)})
}

// Update handles PUT /api/v1/service/update-service/:id.
func (h *ServicesHandler) Update(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var in service.ServiceInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	s, err := h.catalog.Update(c.UserContext(), identity, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewServiceResponse(s)})
}

// Delete handles DELETE /api/v1/service/delete-service/:id.
func (h *ServicesHandler) Delete(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.catalog.Delete(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Service deleted successfully"})
}
