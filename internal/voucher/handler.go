package voucher

import (
	"strconv"
	"time"

	"github.com/fitsport/fitsport-backend/internal/user"
	"github.com/gofiber/fiber/v2"
)

// Handler exposes voucher validation/collection plus admin CRUD.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/voucher/validate", h.validate)
	app.Post("/api/v1/voucher/collect", h.collect)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Get("/api/v1/admin/vouchers", h.list)
	app.Post("/api/v1/admin/vouchers", h.create)
	app.Put("/api/v1/admin/vouchers/:id<[0-9]+>", h.update)
	app.Delete("/api/v1/admin/vouchers/:id<[0-9]+>", h.delete)
}

type validateRequest struct {
	Code     string `json:"code"`
	Subtotal int64  `json:"subtotal"`
}

func (h *Handler) validate(c *fiber.Ctx) error {
	payload := new(validateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "code is required"})
	}

	v, discount, err := h.service.Validate(payload.Code, payload.Subtotal, time.Now())
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "voucher not found"})
		case ErrNotStarted, ErrExpired, ErrLimitReached, ErrBelowMinimum:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"code": v.Code, "discount": discount})
}

type collectRequest struct {
	Code string `json:"code"`
}

func (h *Handler) collect(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(collectRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "code is required"})
	}

	v, err := h.service.Collect(payload.Code, userID)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "voucher not found"})
		case ErrAlreadyCollected:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(v)
}

func (h *Handler) list(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	vouchers, total, err := h.service.List(page, limit, c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"vouchers": vouchers, "total": total, "page": page, "limit": limit})
}

type voucherRequest struct {
	Code          string `json:"code"`
	DiscountType  string `json:"discountType"`
	Value         int64  `json:"value"`
	MinOrderValue int64  `json:"minOrderValue"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	UsageLimit    int    `json:"usageLimit"`
}

func (r *voucherRequest) toVoucher() (Voucher, error) {
	v := Voucher{
		Code:          r.Code,
		DiscountType:  r.DiscountType,
		Value:         r.Value,
		MinOrderValue: r.MinOrderValue,
		UsageLimit:    r.UsageLimit,
	}
	if r.StartDate != "" {
		t, err := time.Parse(time.RFC3339, r.StartDate)
		if err != nil {
			return Voucher{}, err
		}
		v.StartDate = t
	}
	if r.EndDate != "" {
		t, err := time.Parse(time.RFC3339, r.EndDate)
		if err != nil {
			return Voucher{}, err
		}
		v.EndDate = t
	}
	return v, nil
}

func (h *Handler) create(c *fiber.Ctx) error {
	payload := new(voucherRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	v, err := payload.toVoucher()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "dates must be RFC3339"})
	}

	created, err := h.service.Create(v)
	if err != nil {
		if err == ErrDuplicateCode {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) update(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(voucherRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	v, err := payload.toVoucher()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "dates must be RFC3339"})
	}

	updated, err := h.service.Update(id, v)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "voucher not found"})
		case ErrDuplicateCode:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(updated)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	if err := h.service.Delete(id); err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "voucher not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
