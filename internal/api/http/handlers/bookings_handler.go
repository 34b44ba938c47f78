package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/booking-service/internal/api/dto"
	"github.com/spec-kit/booking-service/internal/service"
)

// BookingsHandler exposes booking endpoints. Every route requires a session.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookings *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

// List handles GET /api/v1/booking/get-bookings.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	bookings, err := h.bookings.List(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(bookings),
		"data":    dto.NewBookingResponses(bookings),
	})
}

// Create handles POST /api/v1/booking/create-booking.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var in service.BookingCreateInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	booking, err := h.bookings.Create(c.UserContext(), identity, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Booking created successfully",
		"booking": dto.NewBookingResponse(booking),
	})
}

// Get handles GET /api/v1/booking/get-booking/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	booking, err := h.bookings.Get(c.UserContext(), identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewBookingResponse(booking)})
}

// Update handles PUT /api/v1/booking/update-booking/:id.
func (h *BookingsHandler) Update(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	var in service.BookingUpdateInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	booking, err := h.bookings.Update(c.UserContext(), identity, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": dto.NewBookingResponse(booking)})
}

// Delete handles DELETE /api/v1/booking/delete-booking/:id.
func (h *BookingsHandler) Delete(c *fiber.Ctx) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.bookings.Delete(c.UserContext(), identity, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Booking deleted successfully"})
}
