package vnpay

import (
	"net/url"

	"github.com/fitsport/fitsport-backend/internal/order"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Reconciler is the slice of the order service the callback endpoints use.
type Reconciler interface {
	HandlePaymentResult(txnRef string, success bool) (order.Order, error)
}

// Handler serves the two gateway callbacks: the server-to-server IPN and
// the user-facing return URL. Both verify the signature and run the same
// reconciliation; the already-confirmed guard makes duplicates harmless.
type Handler struct {
	gateway     *Gateway
	orders      Reconciler
	frontendURL string
}

func NewHandler(gateway *Gateway, orders Reconciler, frontendURL string) *Handler {
	return &Handler{gateway: gateway, orders: orders, frontendURL: frontendURL}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/vnpay/ipn", h.ipn)
	app.Get("/api/v1/vnpay/return", h.returnURL)
}

func queryValues(c *fiber.Ctx) url.Values {
	params := url.Values{}
	for k, v := range c.Queries() {
		params.Set(k, v)
	}
	return params
}

// ipn answers with the gateway's response-code protocol: 00 processed,
// 01 order not found, 02 already confirmed, 97 checksum failed.
func (h *Handler) ipn(c *fiber.Ctx) error {
	params := queryValues(c)

	if !h.gateway.VerifyCallback(params) {
		return c.JSON(fiber.Map{"RspCode": "97", "Message": "Checksum failed"})
	}

	txnRef := params.Get("vnp_TxnRef")
	o, err := h.orders.HandlePaymentResult(txnRef, IsSuccess(params))
	if err != nil {
		switch err {
		case order.ErrNotFound:
			return c.JSON(fiber.Map{"RspCode": "01", "Message": "Order not found"})
		case order.ErrAlreadyProcessed:
			return c.JSON(fiber.Map{"RspCode": "02", "Message": "Order already confirmed"})
		default:
			log.Error().Err(err).Str("txnRef", txnRef).Msg("ipn reconciliation failed")
			return c.JSON(fiber.Map{"RspCode": "99", "Message": "Unknown error"})
		}
	}

	log.Info().Str("txnRef", txnRef).Str("paymentStatus", o.PaymentStatus).Msg("ipn processed")
	return c.JSON(fiber.Map{"RspCode": "00", "Message": "Confirm success"})
}

// returnURL runs the same verification as the IPN, then sends the buyer
// back to the storefront with a success/failure flag.
func (h *Handler) returnURL(c *fiber.Ctx) error {
	params := queryValues(c)

	if !h.gateway.VerifyCallback(params) {
		return c.Redirect(h.frontendURL+"/payment/result?payment=invalid", fiber.StatusFound)
	}

	txnRef := params.Get("vnp_TxnRef")
	success := IsSuccess(params)

	if _, err := h.orders.HandlePaymentResult(txnRef, success); err != nil {
		switch err {
		case order.ErrAlreadyProcessed:
			// the IPN got here first; the outcome stands
		case order.ErrNotFound:
			return c.Redirect(h.frontendURL+"/payment/result?payment=notfound", fiber.StatusFound)
		default:
			log.Error().Err(err).Str("txnRef", txnRef).Msg("return-url reconciliation failed")
			return c.Redirect(h.frontendURL+"/payment/result?payment=error", fiber.StatusFound)
		}
	}

	flag := "failed"
	if success {
		flag = "success"
	}
	return c.Redirect(h.frontendURL+"/payment/result?payment="+flag+"&order="+url.QueryEscape(txnRef), fiber.StatusFound)
}
