package mail

import (
	"fmt"
	"strings"

	"github.com/fitsport/fitsport-backend/internal/order"
	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail over SMTP.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSender(host string, port int, username, password, from string) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *Sender) SendOrderConfirmation(to string, o order.Order) error {
	if to == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("FitSport order %s confirmed", o.Code))
	m.SetBody("text/html", orderConfirmationBody(o))

	return s.dialer.DialAndSend(m)
}

func orderConfirmationBody(o order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Thank you for your order</h2>")
	fmt.Fprintf(&b, "<p>Order <strong>%s</strong> has been received.</p>", o.Code)
	fmt.Fprintf(&b, "<p>Ship to: %s, %s (%s)</p>", o.ReceiverName, o.ReceiverAddress, o.ReceiverPhone)

	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Product</th><th>Size</th><th>Color</th><th>Qty</th><th>Price</th></tr>")
	for _, d := range o.Details {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td></tr>",
			d.ProductName, d.Size, d.Color, d.Quantity, d.UnitPrice*int64(d.Quantity))
	}
	b.WriteString("</table>")

	if o.VoucherDiscount > 0 {
		fmt.Fprintf(&b, "<p>Voucher %s: -%d</p>", o.VoucherCode, o.VoucherDiscount)
	}
	fmt.Fprintf(&b, "<p>Delivery fee: %d</p>", o.DeliveryFee)
	fmt.Fprintf(&b, "<p><strong>Total: %d VND</strong></p>", o.TotalPrice)
	fmt.Fprintf(&b, "<p>Payment: %s (%s)</p>", o.PaymentMethod, o.PaymentStatus)
	return b.String()
}
