package vnpay

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/fitsport/fitsport-backend/internal/order"
	"github.com/gofiber/fiber/v2"
)

type fakeReconciler struct {
	err     error
	lastRef string
	lastOK  bool
	calls   int
}

func (f *fakeReconciler) HandlePaymentResult(txnRef string, success bool) (order.Order, error) {
	f.calls++
	f.lastRef = txnRef
	f.lastOK = success
	if f.err != nil {
		return order.Order{}, f.err
	}
	return order.Order{TxnRef: txnRef, PaymentStatus: order.PaymentSuccess}, nil
}

func signedQuery(g *Gateway, txnRef, respCode, txnStatus string) string {
	params := url.Values{}
	params.Set("vnp_TxnRef", txnRef)
	params.Set("vnp_ResponseCode", respCode)
	params.Set("vnp_TransactionStatus", txnStatus)
	params.Set("vnp_Amount", "33000000")
	query := params.Encode()
	return query + "&vnp_SecureHash=" + g.sign(query)
}

func ipnResponse(t *testing.T, app *fiber.App, target string) map[string]string {
	t.Helper()
	res, err := app.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	out := map[string]string{}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("bad json %s: %v", body, err)
	}
	return out
}

func TestIPN_ConfirmSuccess(t *testing.T) {
	g := testGateway()
	rec := &fakeReconciler{}
	app := fiber.New()
	NewHandler(g, rec, "http://front").RegisterPublicRoutes(app)

	out := ipnResponse(t, app, "/api/v1/vnpay/ipn?"+signedQuery(g, "FS-OK1", "00", "00"))
	if out["RspCode"] != "00" {
		t.Fatalf("expected RspCode 00, got %v", out)
	}
	if rec.lastRef != "FS-OK1" || !rec.lastOK {
		t.Fatalf("reconciler got ref=%s ok=%v", rec.lastRef, rec.lastOK)
	}
}

func TestIPN_ChecksumFailed(t *testing.T) {
	g := testGateway()
	rec := &fakeReconciler{}
	app := fiber.New()
	NewHandler(g, rec, "http://front").RegisterPublicRoutes(app)

	out := ipnResponse(t, app, "/api/v1/vnpay/ipn?vnp_TxnRef=FS-X&vnp_ResponseCode=00&vnp_TransactionStatus=00&vnp_SecureHash=bogus")
	if out["RspCode"] != "97" {
		t.Fatalf("expected RspCode 97, got %v", out)
	}
	if rec.calls != 0 {
		t.Fatal("reconciler must not run on a bad checksum")
	}
}

func TestIPN_OrderNotFound(t *testing.T) {
	g := testGateway()
	rec := &fakeReconciler{err: order.ErrNotFound}
	app := fiber.New()
	NewHandler(g, rec, "http://front").RegisterPublicRoutes(app)

	out := ipnResponse(t, app, "/api/v1/vnpay/ipn?"+signedQuery(g, "FS-MISSING", "00", "00"))
	if out["RspCode"] != "01" {
		t.Fatalf("expected RspCode 01, got %v", out)
	}
}

func TestIPN_AlreadyConfirmed(t *testing.T) {
	g := testGateway()
	rec := &fakeReconciler{err: order.ErrAlreadyProcessed}
	app := fiber.New()
	NewHandler(g, rec, "http://front").RegisterPublicRoutes(app)

	out := ipnResponse(t, app, "/api/v1/vnpay/ipn?"+signedQuery(g, "FS-DUP", "00", "00"))
	if out["RspCode"] != "02" {
		t.Fatalf("expected RspCode 02, got %v", out)
	}
}

func TestReturnURL_RedirectFlags(t *testing.T) {
	g := testGateway()

	cases := []struct {
		name  string
		query string
		rec   *fakeReconciler
		want  string
	}{
		{"success", signedQuery(g, "FS-R1", "00", "00"), &fakeReconciler{}, "payment=success"},
		{"failed", signedQuery(g, "FS-R2", "24", "02"), &fakeReconciler{}, "payment=failed"},
		{"invalid signature", "vnp_TxnRef=FS-R3&vnp_SecureHash=bogus", &fakeReconciler{}, "payment=invalid"},
		{"not found", signedQuery(g, "FS-R4", "00", "00"), &fakeReconciler{err: order.ErrNotFound}, "payment=notfound"},
		{"ipn won the race", signedQuery(g, "FS-R5", "00", "00"), &fakeReconciler{err: order.ErrAlreadyProcessed}, "payment=success"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			NewHandler(g, tc.rec, "http://front").RegisterPublicRoutes(app)

			res, err := app.Test(httptest.NewRequest("GET", "/api/v1/vnpay/return?"+tc.query, nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if res.StatusCode != fiber.StatusFound {
				t.Fatalf("expected 302, got %d", res.StatusCode)
			}
			loc := res.Header.Get("Location")
			if !containsFlag(loc, tc.want) {
				t.Fatalf("expected redirect containing %q, got %s", tc.want, loc)
			}
		})
	}
}

func containsFlag(loc, flag string) bool {
	u, err := url.Parse(loc)
	if err != nil {
		return false
	}
	return u.RawQuery != "" && u.Query().Get("payment") == flag[len("payment="):]
}
