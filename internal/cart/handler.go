package cart

import (
	"strconv"

	"github.com/fitsport/fitsport-backend/internal/user"
	"github.com/fitsport/fitsport-backend/internal/variant"
	"github.com/fitsport/fitsport-backend/internal/voucher"
	"github.com/gofiber/fiber/v2"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Put("/api/v1/cart/items/:variantId<[0-9]+>", h.updateItem)
	app.Delete("/api/v1/cart/items/:variantId<[0-9]+>", h.removeItem)
	app.Post("/api/v1/cart/voucher", h.applyVoucher)
	app.Delete("/api/v1/cart/voucher", h.removeVoucher)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.Get(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(cart)
}

type addItemRequest struct {
	VariantID int `json:"variantId"`
	Quantity  int `json:"quantity,omitempty"`
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.VariantID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid variantId"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.AddItem(userID, payload.VariantID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateItem(c *fiber.Ctx) error {
	variantID, _ := strconv.Atoi(c.Params("variantId"))
	payload := new(updateItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.UpdateItem(userID, variantID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	variantID, _ := strconv.Atoi(c.Params("variantId"))

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.RemoveItem(userID, variantID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

type applyVoucherRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyVoucher(c *fiber.Ctx) error {
	payload := new(applyVoucherRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "code is required"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.ApplyVoucher(userID, payload.Code)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) removeVoucher(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.RemoveVoucher(userID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

func cartError(c *fiber.Ctx, err error) error {
	switch err {
	case variant.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "variant not found"})
	case voucher.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "voucher not found"})
	case ErrLineNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case ErrOutOfStock, ErrStockLimit,
		voucher.ErrNotStarted, voucher.ErrExpired, voucher.ErrLimitReached, voucher.ErrBelowMinimum:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
