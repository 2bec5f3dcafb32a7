package product

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/fitsport/fitsport-backend/internal/variant"
	"github.com/gofiber/fiber/v2"
)

// ImageStore is implemented by repositories that persist image bytes.
type ImageStore interface {
	SaveImage(id int, data []byte, imgURL string) error
	GetImage(id int) ([]byte, error)
}

// Handler serves the public catalog and admin product CRUD. The variant
// service enriches product detail responses.
type Handler struct {
	service  *Service
	variants variant.ServiceInterface
	images   ImageStore
}

func NewHandler(s *Service, variants variant.ServiceInterface, images ImageStore) *Handler {
	return &Handler{service: s, variants: variants, images: images}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.list)
	app.Get("/api/v1/product/:id<[0-9]+>", h.getByID)
	app.Get("/api/v1/product/:id<[0-9]+>/image", h.getImage)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Post("/api/v1/admin/products", h.create)
	app.Put("/api/v1/admin/products/:id<[0-9]+>", h.update)
	app.Delete("/api/v1/admin/products/:id<[0-9]+>", h.delete)
	app.Post("/api/v1/admin/products/:id<[0-9]+>/image", h.uploadImage)
}

func (h *Handler) list(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	categoryID, _ := strconv.Atoi(c.Query("categoryId", "0"))

	products, total, err := h.service.List(Filter{
		Search:     c.Query("search"),
		CategoryID: categoryID,
		Featured:   c.QueryBool("featured"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"products": products, "total": total, "page": page, "limit": limit})
}

func (h *Handler) getByID(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	p, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}

	variants, err := h.variants.ListByProduct(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"product": p, "variants": variants})
}

func (h *Handler) getImage(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	if h.images == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "not found"})
	}

	data, err := h.images.GetImage(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "image not available"})
	}
	c.Set("Content-Type", http.DetectContentType(data))
	return c.Send(data)
}

type productRequest struct {
	Name       string `json:"productName"`
	Desc       string `json:"productDesc"`
	CategoryID int    `json:"categoryId"`
	BasePrice  int64  `json:"basePrice"`
	Img        string `json:"productImg"`
	Featured   bool   `json:"featured"`
}

func (h *Handler) create(c *fiber.Ctx) error {
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Create(Product{
		Name:       payload.Name,
		Desc:       payload.Desc,
		CategoryID: payload.CategoryID,
		BasePrice:  payload.BasePrice,
		Img:        payload.Img,
		Featured:   payload.Featured,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	existing, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}

	existing.Name = payload.Name
	existing.Desc = payload.Desc
	existing.CategoryID = payload.CategoryID
	existing.BasePrice = payload.BasePrice
	if payload.Img != "" {
		existing.Img = payload.Img
	}
	existing.Featured = payload.Featured
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	updated, err := h.service.Update(id, existing)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

func (h *Handler) uploadImage(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	if h.images == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"message": "image storage not configured"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "file is required"})
	}
	f, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	// normalize the stored URL to the canonical serving endpoint
	imgURL := "/api/v1/product/" + strconv.Itoa(id) + "/image"
	if err := h.images.SaveImage(id, data, imgURL); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"productImg": imgURL})
}
