package vnpay

import (
	"net/url"
	"strings"
	"testing"
)

func testGateway() *Gateway {
	return NewGateway("TESTTMN", "testsecret", "https://sandbox.example/pay", "http://localhost:8080/api/v1/vnpay/return")
}

func TestBuildPaymentURL(t *testing.T) {
	g := testGateway()

	raw, err := g.BuildPaymentURL("FS-ABC123", 330000, "203.0.113.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("could not parse url: %v", err)
	}
	q := u.Query()

	if got := q.Get("vnp_Amount"); got != "33000000" {
		t.Fatalf("expected amount scaled by 100, got %s", got)
	}
	if got := q.Get("vnp_TxnRef"); got != "FS-ABC123" {
		t.Fatalf("unexpected txn ref %s", got)
	}
	if q.Get("vnp_SecureHash") == "" {
		t.Fatal("expected a secure hash on the url")
	}

	// the signed query must verify with the same secret
	if !g.VerifyCallback(q) {
		t.Fatal("built url did not verify against its own signature")
	}
}

func TestBuildPaymentURL_Validation(t *testing.T) {
	g := testGateway()

	if _, err := g.BuildPaymentURL("", 1000, "1.2.3.4"); err == nil {
		t.Fatal("expected error for empty txn ref")
	}
	if _, err := g.BuildPaymentURL("FS-X", 0, "1.2.3.4"); err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestVerifyCallback_TamperedParams(t *testing.T) {
	g := testGateway()

	raw, err := g.BuildPaymentURL("FS-ABC123", 100000, "1.2.3.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, _ := url.Parse(raw)
	q := u.Query()

	q.Set("vnp_Amount", "1") // pay less, keep the old hash
	if g.VerifyCallback(q) {
		t.Fatal("tampered params must not verify")
	}

	q2, _ := url.ParseQuery(u.RawQuery)
	q2.Set("vnp_SecureHash", strings.Repeat("0", 128))
	if g.VerifyCallback(q2) {
		t.Fatal("forged hash must not verify")
	}

	q3, _ := url.ParseQuery(u.RawQuery)
	q3.Del("vnp_SecureHash")
	if g.VerifyCallback(q3) {
		t.Fatal("missing hash must not verify")
	}
}

func TestIsSuccess(t *testing.T) {
	cases := []struct {
		code, status string
		want         bool
	}{
		{"00", "00", true},
		{"00", "01", false},
		{"24", "00", false},
		{"", "", false},
	}
	for _, tc := range cases {
		params := url.Values{}
		params.Set("vnp_ResponseCode", tc.code)
		params.Set("vnp_TransactionStatus", tc.status)
		if got := IsSuccess(params); got != tc.want {
			t.Fatalf("IsSuccess(%q, %q) = %v, want %v", tc.code, tc.status, got, tc.want)
		}
	}
}
