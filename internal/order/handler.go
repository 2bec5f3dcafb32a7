package order

import (
	"fmt"
	"strconv"

	"github.com/fitsport/fitsport-backend/internal/user"
	"github.com/fitsport/fitsport-backend/internal/variant"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// PaymentGateway builds the external redirect URL for online payments.
type PaymentGateway interface {
	BuildPaymentURL(txnRef string, amount int64, clientIP string) (string, error)
}

// Handler wires checkout and order routes.
type Handler struct {
	service *Service
	gateway PaymentGateway
}

func NewHandler(s *Service, gw PaymentGateway) *Handler {
	return &Handler{service: s, gateway: gw}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/orders/checkout", h.checkout)
	app.Get("/api/v1/orders", h.listOrders)
	app.Get("/api/v1/orders/:code", h.getOrder)
	app.Put("/api/v1/orders/:code/cancel", h.cancelOrder)
}

func (h *Handler) RegisterAdminRoutes(app *fiber.App) {
	app.Get("/api/v1/admin/orders", h.adminList)
	app.Get("/api/v1/admin/orders/export", h.exportOrders)
	app.Get("/api/v1/admin/orders/:id<[0-9]+>", h.adminGet)
	app.Put("/api/v1/admin/orders/:id<[0-9]+>/status", h.adminTransition)
}

type checkoutRequest struct {
	ReceiverName    string `json:"receiverName"`
	ReceiverPhone   string `json:"receiverPhone"`
	ReceiverAddress string `json:"receiverAddress"`
	PaymentMethod   string `json:"paymentMethod"`
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(checkoutRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ReceiverName == "" || payload.ReceiverPhone == "" || payload.ReceiverAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "receiver name, phone and address are required"})
	}

	created, err := h.service.Checkout(userID, Receiver{
		Name:    payload.ReceiverName,
		Phone:   payload.ReceiverPhone,
		Address: payload.ReceiverAddress,
	}, payload.PaymentMethod)
	if err != nil {
		switch err {
		case ErrEmptyCart, ErrInvalidPaymentMethod, variant.ErrInsufficientStock:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		case variant.ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	res := fiber.Map{"order": created}

	if created.PaymentMethod == MethodVNPay {
		if h.gateway == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": "online payment is not configured"})
		}
		payURL, err := h.gateway.BuildPaymentURL(created.TxnRef, created.TotalPrice, c.IP())
		if err != nil {
			log.Error().Err(err).Str("orderCode", created.Code).Msg("could not build payment url")
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": "could not build payment url"})
		}
		res["paymentUrl"] = payURL
	}

	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	o, err := h.service.GetForUser(userID, c.Params("code"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}
	return c.JSON(o)
}

func (h *Handler) cancelOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	o, err := h.service.CancelForUser(userID, c.Params("code"))
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrInvalidStatus:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "only pending orders can be cancelled"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(o)
}

func (h *Handler) adminList(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	orders, total, err := h.service.List(page, limit, c.Query("search"), c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"orders": orders, "total": total, "page": page, "limit": limit})
}

func (h *Handler) adminGet(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	o, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}
	return c.JSON(o)
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) adminTransition(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(transitionRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	o, err := h.service.Transition(id, payload.Status)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrInvalidStatus:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(o)
}

// exportOrders streams the filtered order list as an .xlsx workbook.
func (h *Handler) exportOrders(c *fiber.Ctx) error {
	orders, _, err := h.service.List(1, 100, c.Query("search"), c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Orders"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Code", "Receiver", "Phone", "Address", "Total", "Delivery fee", "Voucher", "Discount", "Status", "Payment", "Payment status", "Created"}
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hdr)
	}
	for row, o := range orders {
		values := []any{o.Code, o.ReceiverName, o.ReceiverPhone, o.ReceiverAddress, o.TotalPrice, o.DeliveryFee, o.VoucherCode, o.VoucherDiscount, o.Status, o.PaymentMethod, o.PaymentStatus, o.CreatedAt}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "orders.xlsx"))
	return c.Send(buf.Bytes())
}
