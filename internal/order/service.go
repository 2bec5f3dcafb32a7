package order

import (
	"strings"
	"time"

	"github.com/fitsport/fitsport-backend/internal/cart"
	"github.com/fitsport/fitsport-backend/internal/user"
	"github.com/fitsport/fitsport-backend/internal/variant"
	"github.com/fitsport/fitsport-backend/internal/voucher"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Mailer sends the order confirmation. A nil Mailer disables mail.
type Mailer interface {
	SendOrderConfirmation(to string, o Order) error
}

// Receiver carries the delivery contact details submitted at checkout.
type Receiver struct {
	Name    string
	Phone   string
	Address string
}

// Service implements checkout, the payment reconciliation state machine
// and admin fulfillment transitions.
type Service struct {
	repo        Repository
	carts       cart.ServiceInterface
	variants    variant.ServiceInterface
	vouchers    voucher.ServiceInterface
	users       user.ServiceInterface
	mailer      Mailer
	deliveryFee int64
}

func NewService(repo Repository, carts cart.ServiceInterface, variants variant.ServiceInterface, vouchers voucher.ServiceInterface, deliveryFee int64) *Service {
	return &Service{repo: repo, carts: carts, variants: variants, vouchers: vouchers, deliveryFee: deliveryFee}
}

// EnableMail turns on confirmation mail for paid orders. The user service
// supplies the buyer's email.
func (s *Service) EnableMail(mailer Mailer, users user.ServiceInterface) {
	s.mailer = mailer
	s.users = users
}

// sendConfirmation mails the buyer; failures are logged, never surfaced.
func (s *Service) sendConfirmation(o Order) {
	if s.mailer == nil || s.users == nil || o.UserID <= 0 {
		return
	}
	u, err := s.users.GetByID(o.UserID)
	if err != nil {
		return
	}
	if err := s.mailer.SendOrderConfirmation(u.Email, o); err != nil {
		log.Warn().Err(err).Str("orderCode", o.Code).Msg("order confirmation mail failed")
	}
}

func newOrderCode() string {
	return "FS-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Checkout turns the user's cart into a PENDING order: snapshots every
// line, reserves stock, clears the cart and marks the voucher used. For
// VNPAY the order waits for the gateway callback; COD needs none.
func (s *Service) Checkout(userID int, rcv Receiver, method string) (Order, error) {
	if method != MethodCOD && method != MethodVNPay {
		return Order{}, ErrInvalidPaymentMethod
	}

	c, err := s.carts.Get(userID)
	if err != nil {
		return Order{}, err
	}
	if len(c.Items) == 0 {
		return Order{}, ErrEmptyCart
	}

	now := time.Now()
	c.Recalculate()
	subtotal := c.Subtotal()

	// re-validate the voucher snapshot at the moment of checkout; a stale
	// snapshot must not survive into the order
	var discount int64
	voucherCode := ""
	if c.VoucherCode != "" {
		if _, d, err := s.vouchers.Validate(c.VoucherCode, subtotal, now); err == nil {
			voucherCode = c.VoucherCode
			discount = d
		}
	}

	total := subtotal - discount
	if total < 0 {
		total = 0
	}
	total += s.deliveryFee

	details := make([]Detail, 0, len(c.Items))
	for _, l := range c.Items {
		details = append(details, Detail{
			VariantID:   l.VariantID,
			ProductName: l.ProductName,
			ProductImg:  l.ProductImg,
			Size:        l.Size,
			Color:       l.Color,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		})
	}

	if err := s.reserveStock(details); err != nil {
		return Order{}, err
	}

	code := newOrderCode()
	paymentStatus := PaymentInit
	if method == MethodCOD {
		// COD needs no gateway callback; the order waits for fulfillment
		// with payment collected on delivery
		paymentStatus = PaymentPending
	}

	ts := now.UTC().Format(time.RFC3339)
	o := Order{
		Code:            code,
		UserID:          userID,
		ReceiverName:    rcv.Name,
		ReceiverPhone:   rcv.Phone,
		ReceiverAddress: rcv.Address,
		TotalPrice:      total,
		DeliveryFee:     s.deliveryFee,
		VoucherCode:     voucherCode,
		VoucherDiscount: discount,
		Status:          StatusPending,
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		TxnRef:          code,
		CreatedAt:       ts,
		UpdatedAt:       ts,
		Details:         details,
	}

	created, err := s.repo.Create(o)
	if err != nil {
		// the order row never existed; hand the reserved stock back
		s.restoreStock(details)
		return Order{}, err
	}

	if err := s.carts.Clear(userID); err != nil {
		log.Warn().Err(err).Str("orderCode", created.Code).Msg("could not clear cart after checkout")
	}
	if voucherCode != "" {
		if err := s.vouchers.MarkUsed(voucherCode); err != nil {
			log.Warn().Err(err).Str("voucher", voucherCode).Msg("could not mark voucher used")
		}
	}

	// VNPAY orders are confirmed when the gateway reports success
	if created.PaymentMethod == MethodCOD {
		s.sendConfirmation(created)
	}

	return created, nil
}

// reserveStock decrements each line's variant. When a line fails, the
// lines already decremented are restored before the error is returned.
func (s *Service) reserveStock(details []Detail) error {
	for i, d := range details {
		if err := s.variants.Decrement(d.VariantID, d.Quantity); err != nil {
			s.restoreStock(details[:i])
			return err
		}
	}
	return nil
}

func (s *Service) restoreStock(details []Detail) {
	for _, d := range details {
		if err := s.variants.Restore(d.VariantID, d.Quantity); err != nil {
			log.Error().Err(err).Int("variantId", d.VariantID).Int("qty", d.Quantity).Msg("stock restore failed")
		}
	}
}

// HandlePaymentResult is the reconciliation state machine shared by the
// IPN webhook and the browser return URL. Only an order still in INIT can
// move; anything else is a no-op so duplicate or racing deliveries cannot
// double-apply (a repeated failure would otherwise restore stock twice).
func (s *Service) HandlePaymentResult(txnRef string, success bool) (Order, error) {
	o, err := s.repo.GetByTxnRef(txnRef)
	if err != nil {
		return Order{}, err
	}

	if o.PaymentStatus != PaymentInit {
		return o, ErrAlreadyProcessed
	}

	ts := time.Now().UTC().Format(time.RFC3339)
	if success {
		o.PaymentStatus = PaymentSuccess
		o.Status = StatusPending
	} else {
		s.restoreStock(o.Details)
		o.PaymentStatus = PaymentFailed
		o.Status = StatusCart
	}
	o.UpdatedAt = ts

	if err := s.repo.UpdateStatus(o.ID, o.Status, o.PaymentStatus, ts); err != nil {
		return Order{}, err
	}
	if success {
		s.sendConfirmation(o)
	}
	return o, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(userID int) ([]Order, error) {
	return s.repo.ListByUser(userID)
}

// GetForUser fetches an order by code, enforcing ownership.
func (s *Service) GetForUser(userID int, code string) (Order, error) {
	o, err := s.repo.GetByCode(code)
	if err != nil {
		return Order{}, err
	}
	if o.UserID != userID {
		return Order{}, ErrNotFound
	}
	return o, nil
}

// CancelForUser lets a buyer cancel their own order while it is still
// PENDING; reserved stock goes back on the shelf.
func (s *Service) CancelForUser(userID int, code string) (Order, error) {
	o, err := s.GetForUser(userID, code)
	if err != nil {
		return Order{}, err
	}
	if o.Status != StatusPending {
		return Order{}, ErrInvalidStatus
	}

	s.restoreStock(o.Details)
	ts := time.Now().UTC().Format(time.RFC3339)
	o.Status = StatusCancelled
	o.UpdatedAt = ts
	if err := s.repo.UpdateStatus(o.ID, StatusCancelled, o.PaymentStatus, ts); err != nil {
		return Order{}, err
	}
	return o, nil
}

func (s *Service) GetByID(id int) (Order, error) {
	return s.repo.GetByID(id)
}

func (s *Service) List(page, limit int, search, status string) ([]Order, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(page, limit, search, status)
}

// Transition applies an admin fulfillment transition. Moving to CANCELLED
// restores the reserved stock.
func (s *Service) Transition(id int, to string) (Order, error) {
	if !ValidStatus(to) {
		return Order{}, ErrInvalidStatus
	}

	o, err := s.repo.GetByID(id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(o.Status, to) {
		return Order{}, ErrInvalidStatus
	}

	if to == StatusCancelled {
		s.restoreStock(o.Details)
	}

	ts := time.Now().UTC().Format(time.RFC3339)
	o.Status = to
	o.UpdatedAt = ts
	if err := s.repo.UpdateStatus(o.ID, to, o.PaymentStatus, ts); err != nil {
		return Order{}, err
	}
	return o, nil
}
