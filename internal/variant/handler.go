package variant

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes public variant listing and admin variant CRUD.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/product/:id<[0-9]+>/variants", h.listByProduct)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Post("/api/v1/admin/variants", h.create)
	app.Put("/api/v1/admin/variants/:id<[0-9]+>", h.update)
	app.Delete("/api/v1/admin/variants/:id<[0-9]+>", h.delete)
}

func (h *Handler) listByProduct(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	variants, err := h.service.ListByProduct(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(variants)
}

type variantRequest struct {
	ProductID int    `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) create(c *fiber.Ctx) error {
	payload := new(variantRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(Variant{
		ProductID: payload.ProductID,
		Size:      payload.Size,
		Color:     payload.Color,
		Price:     payload.Price,
		Quantity:  payload.Quantity,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(variantRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(id, Variant{
		ProductID: payload.ProductID,
		Size:      payload.Size,
		Color:     payload.Color,
		Price:     payload.Price,
		Quantity:  payload.Quantity,
	})
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "variant not found"})
		case ErrDuplicateVariant:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(updated)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "variant not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
