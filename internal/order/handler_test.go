package order

import (
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/fitsport/fitsport-backend/internal/cart"
	"github.com/fitsport/fitsport-backend/internal/variant"
	"github.com/fitsport/fitsport-backend/internal/voucher"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type stubGateway struct{ url string }

func (g stubGateway) BuildPaymentURL(txnRef string, amount int64, clientIP string) (string, error) {
	return g.url + "?ref=" + txnRef, nil
}

func makeAppWithOrderHandler(h *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			if id, err := strconv.Atoi(v); err == nil {
				tok := &jwt.Token{Claims: jwt.MapClaims{"user_id": id}}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	return app
}

func newHandlerFixture(gw PaymentGateway) (*Handler, *cart.Service, *variant.Service) {
	variantService := variant.NewService(variant.NewInMemoryRepository([]variant.Variant{
		{ID: 1, ProductID: 10, Size: "M", Color: "black", Price: 150000, Quantity: 5, ProductName: "Training tee"},
	}))
	voucherService := voucher.NewService(voucher.NewInMemoryRepository(nil))
	cartService := cart.NewService(cart.NewInMemoryRepository(), variantService, voucherService)
	orderService := NewService(NewInMemoryRepository(nil), cartService, variantService, voucherService, testDeliveryFee)
	return NewHandler(orderService, gw), cartService, variantService
}

func TestCheckoutRoute_COD(t *testing.T) {
	h, carts, _ := newHandlerFixture(nil)
	app := makeAppWithOrderHandler(h)

	if _, err := carts.AddItem(7, 1, 2); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	body := `{"receiverName":"A","receiverPhone":"0901","receiverAddress":"Da Nang","paymentMethod":"COD"}`
	req := httptest.NewRequest("POST", "/api/v1/orders/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d: %s", res.StatusCode, b)
	}
	b, _ := io.ReadAll(res.Body)
	if strings.Contains(string(b), "paymentUrl") {
		t.Fatalf("COD checkout must not return a payment url: %s", b)
	}
	if !strings.Contains(string(b), `"status":"PENDING"`) {
		t.Fatalf("expected PENDING order, got %s", b)
	}
}

func TestCheckoutRoute_VNPayReturnsPaymentURL(t *testing.T) {
	h, carts, _ := newHandlerFixture(stubGateway{url: "https://pay.example"})
	app := makeAppWithOrderHandler(h)

	if _, err := carts.AddItem(7, 1, 1); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	body := `{"receiverName":"A","receiverPhone":"0901","receiverAddress":"Da Nang","paymentMethod":"VNPAY"}`
	req := httptest.NewRequest("POST", "/api/v1/orders/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		b, _ := io.ReadAll(res.Body)
		t.Fatalf("expected 201, got %d: %s", res.StatusCode, b)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "https://pay.example?ref=FS-") {
		t.Fatalf("expected payment url in response, got %s", b)
	}
}

func TestCheckoutRoute_VNPayWithoutGateway(t *testing.T) {
	h, carts, _ := newHandlerFixture(nil)
	app := makeAppWithOrderHandler(h)

	if _, err := carts.AddItem(7, 1, 1); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	body := `{"receiverName":"A","receiverPhone":"0901","receiverAddress":"Da Nang","paymentMethod":"VNPAY"}`
	req := httptest.NewRequest("POST", "/api/v1/orders/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503 when gateway unset, got %d", res.StatusCode)
	}
}

func TestCheckoutRoute_Validation(t *testing.T) {
	h, _, _ := newHandlerFixture(nil)
	app := makeAppWithOrderHandler(h)

	// missing receiver fields
	req := httptest.NewRequest("POST", "/api/v1/orders/checkout", strings.NewReader(`{"paymentMethod":"COD"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for missing receiver, got %d", res.StatusCode)
	}

	// empty cart
	body := `{"receiverName":"A","receiverPhone":"0901","receiverAddress":"Da Nang","paymentMethod":"COD"}`
	req = httptest.NewRequest("POST", "/api/v1/orders/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", res.StatusCode)
	}
}

func TestOrderRoutes_OwnershipAndCancel(t *testing.T) {
	h, carts, _ := newHandlerFixture(nil)
	app := makeAppWithOrderHandler(h)

	if _, err := carts.AddItem(7, 1, 1); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	body := `{"receiverName":"A","receiverPhone":"0901","receiverAddress":"Da Nang","paymentMethod":"COD"}`
	req := httptest.NewRequest("POST", "/api/v1/orders/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, _ := app.Test(req)
	b, _ := io.ReadAll(res.Body)
	code := extractOrderCode(t, string(b))

	// a different user cannot read it
	req = httptest.NewRequest("GET", "/api/v1/orders/"+code, nil)
	req.Header.Set("X-User-ID", "8")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for foreign order, got %d", res.StatusCode)
	}

	// the owner cancels it
	req = httptest.NewRequest("PUT", "/api/v1/orders/"+code+"/cancel", nil)
	req.Header.Set("X-User-ID", "7")
	res, _ = app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for cancel, got %d", res.StatusCode)
	}
	b, _ = io.ReadAll(res.Body)
	if !strings.Contains(string(b), `"status":"CANCELLED"`) {
		t.Fatalf("expected cancelled order, got %s", b)
	}
}

func extractOrderCode(t *testing.T, body string) string {
	t.Helper()
	idx := strings.Index(body, `"orderCode":"`)
	if idx < 0 {
		t.Fatalf("no order code in %s", body)
	}
	rest := body[idx+len(`"orderCode":"`):]
	end := strings.Index(rest, `"`)
	return rest[:end]
}
