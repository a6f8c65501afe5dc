package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rahulverma-dev/commerce-backoffice/internal/authz"
	"github.com/rahulverma-dev/commerce-backoffice/internal/dto"
	"github.com/rahulverma-dev/commerce-backoffice/internal/services"
)

// AddressHandler backs the buyer self-service address book. The buyer guard
// has already run, so the principal is always a buyer here.
type AddressHandler struct {
	addressService *services.AddressService
}

func NewAddressHandler(addressService *services.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

func (h *AddressHandler) List(c *fiber.Ctx) error {
	user, ok := authz.Principal(c)
	if !ok {
		return fiber.ErrNotFound
	}

	addresses, err := h.addressService.List(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list addresses",
		})
	}
	return c.JSON(addresses)
}

func (h *AddressHandler) Create(c *fiber.Ctx) error {
	user, ok := authz.Principal(c)
	if !ok {
		return fiber.ErrNotFound
	}

	var req dto.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	address, err := h.addressService.Create(user.ID, &req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(address)
}

func (h *AddressHandler) Update(c *fiber.Ctx) error {
	user, ok := authz.Principal(c)
	if !ok {
		return fiber.ErrNotFound
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid address id",
		})
	}

	var req dto.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	address, err := h.addressService.Update(user.ID, addressID, &req)
	if err != nil {
		if errors.Is(err, services.ErrAddressNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Address not found",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(address)
}

func (h *AddressHandler) Delete(c *fiber.Ctx) error {
	user, ok := authz.Principal(c)
	if !ok {
		return fiber.ErrNotFound
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid address id",
		})
	}

	if err := h.addressService.Delete(user.ID, addressID); err != nil {
		if errors.Is(err, services.ErrAddressNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Address not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete address",
		})
	}
	return c.JSON(fiber.Map{"message": "Address deleted"})
}

func (h *AddressHandler) SetDefault(c *fiber.Ctx) error {
	user, ok := authz.Principal(c)
	if !ok {
		return fiber.ErrNotFound
	}

	addressID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid address id",
		})
	}

	address, err := h.addressService.SetDefault(user.ID, addressID)
	if err != nil {
		if errors.Is(err, services.ErrAddressNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Address not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to set default address",
		})
	}
	return c.JSON(address)
}

// Profile returns the buyer's own profile, as cached by the guard.
func (h *AddressHandler) Profile(c *fiber.Ctx) error {
	user, ok := authz.Principal(c)
	if !ok || user.BuyerProfile == nil {
		return fiber.ErrNotFound
	}
	return c.JSON(user.BuyerProfile)
}
