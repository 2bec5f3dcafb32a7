package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"strconv"
	"time"
)

// Gateway builds VNPay redirect URLs and verifies callback signatures.
// VNPay signs the sorted, URL-encoded query string with HMAC-SHA512.
type Gateway struct {
	tmnCode    string
	hashSecret string
	payURL     string
	returnURL  string
}

func NewGateway(tmnCode, hashSecret, payURL, returnURL string) *Gateway {
	return &Gateway{tmnCode: tmnCode, hashSecret: hashSecret, payURL: payURL, returnURL: returnURL}
}

func (g *Gateway) sign(query string) string {
	h := hmac.New(sha512.New, []byte(g.hashSecret))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}

// BuildPaymentURL constructs the outbound redirect URL for an order.
// Amount is in currency units; the gateway expects it scaled by 100.
func (g *Gateway) BuildPaymentURL(txnRef string, amount int64, clientIP string) (string, error) {
	if g.tmnCode == "" || g.hashSecret == "" {
		return "", errors.New("vnpay credentials are not configured")
	}
	if txnRef == "" || amount <= 0 {
		return "", errors.New("invalid transaction reference or amount")
	}

	now := time.Now()
	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", g.tmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(amount*100, 10))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", txnRef)
	params.Set("vnp_OrderInfo", "Thanh toan don hang "+txnRef)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", g.returnURL)
	params.Set("vnp_IpAddr", clientIP)
	params.Set("vnp_CreateDate", now.Format("20060102150405"))
	params.Set("vnp_ExpireDate", now.Add(15*time.Minute).Format("20060102150405"))

	// Encode sorts keys, which is exactly the hash-data ordering VNPay
	// expects
	query := params.Encode()
	return g.payURL + "?" + query + "&vnp_SecureHash=" + g.sign(query), nil
}

// VerifyCallback recomputes the secure hash over the callback parameters
// and compares it to the one the gateway sent.
func (g *Gateway) VerifyCallback(params url.Values) bool {
	received := params.Get("vnp_SecureHash")
	if received == "" {
		return false
	}

	filtered := url.Values{}
	for k, vs := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		for _, v := range vs {
			filtered.Add(k, v)
		}
	}

	expected := g.sign(filtered.Encode())
	return hmac.Equal([]byte(expected), []byte(received))
}

// IsSuccess reports whether the callback carries a successful payment:
// both the response code and the transaction status must be "00".
func IsSuccess(params url.Values) bool {
	return params.Get("vnp_ResponseCode") == "00" && params.Get("vnp_TransactionStatus") == "00"
}
