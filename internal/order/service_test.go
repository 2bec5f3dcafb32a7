package order

import (
	"testing"
	"time"

	"github.com/fitsport/fitsport-backend/internal/cart"
	"github.com/fitsport/fitsport-backend/internal/user"
	"github.com/fitsport/fitsport-backend/internal/variant"
	"github.com/fitsport/fitsport-backend/internal/voucher"
	"github.com/stretchr/testify/assert"
)

const testDeliveryFee = 30000

type fixture struct {
	orders   *Service
	carts    *cart.Service
	variants *variant.Service
	vouchers *voucher.Service
}

func newFixture(t *testing.T, variants []variant.Variant, vouchers []voucher.Voucher) fixture {
	t.Helper()

	variantService := variant.NewService(variant.NewInMemoryRepository(variants))
	voucherService := voucher.NewService(voucher.NewInMemoryRepository(vouchers))
	cartService := cart.NewService(cart.NewInMemoryRepository(), variantService, voucherService)
	orderService := NewService(NewInMemoryRepository(nil), cartService, variantService, voucherService, testDeliveryFee)

	return fixture{orders: orderService, carts: cartService, variants: variantService, vouchers: voucherService}
}

func stockedVariants() []variant.Variant {
	return []variant.Variant{
		{ID: 1, ProductID: 10, Size: "M", Color: "black", Price: 150000, Quantity: 5, ProductName: "Training tee"},
		{ID: 2, ProductID: 11, Size: "42", Color: "white", Price: 900000, Quantity: 2, ProductName: "Running shoes"},
	}
}

func testReceiver() Receiver {
	return Receiver{Name: "Nguyen Van A", Phone: "0901234567", Address: "1 Le Loi, Da Nang"}
}

func TestCheckout_CODCreatesPendingOrder(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.carts.AddItem(1, 1, 2)
	assert.NoError(t, err)

	o, err := f.orders.Checkout(1, testReceiver(), MethodCOD)
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, int64(300000+testDeliveryFee), o.TotalPrice)
	assert.Len(t, o.Details, 1)
	assert.NotEmpty(t, o.Code)

	// stock reserved, cart cleared
	v, _ := f.variants.GetByID(1)
	assert.Equal(t, 3, v.Quantity)
	c, _ := f.carts.Get(1)
	assert.Empty(t, c.Items)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.orders.Checkout(1, testReceiver(), MethodCOD)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_InvalidMethod(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.orders.Checkout(1, testReceiver(), "BANKWIRE")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestCheckout_VoucherAppliedAndMarkedUsed(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)
	vouchers := []voucher.Voucher{
		{ID: 1, Code: "SAVE10", DiscountType: voucher.TypePercent, Value: 10, StartDate: start, EndDate: end, UsageLimit: 1},
	}
	f := newFixture(t, stockedVariants(), vouchers)

	_, err := f.carts.AddItem(1, 1, 2)
	assert.NoError(t, err)
	_, err = f.carts.ApplyVoucher(1, "SAVE10")
	assert.NoError(t, err)

	o, err := f.orders.Checkout(1, testReceiver(), MethodCOD)
	assert.NoError(t, err)
	assert.Equal(t, "SAVE10", o.VoucherCode)
	assert.Equal(t, int64(30000), o.VoucherDiscount)
	assert.Equal(t, int64(270000+testDeliveryFee), o.TotalPrice)

	// the single use is consumed
	_, _, err = f.vouchers.Validate("SAVE10", 300000, time.Now())
	assert.ErrorIs(t, err, voucher.ErrLimitReached)
}

// failingVariants fails Decrement for one variant id so partial checkout
// rollback can be observed.
type failingVariants struct {
	variant.ServiceInterface
	failID int
}

func (f failingVariants) Decrement(id int, qty int) error {
	if id == f.failID {
		return variant.ErrInsufficientStock
	}
	return f.ServiceInterface.Decrement(id, qty)
}

func TestCheckout_PartialReservationRolledBack(t *testing.T) {
	variantService := variant.NewService(variant.NewInMemoryRepository(stockedVariants()))
	voucherService := voucher.NewService(voucher.NewInMemoryRepository(nil))
	cartService := cart.NewService(cart.NewInMemoryRepository(), variantService, voucherService)
	orderService := NewService(NewInMemoryRepository(nil), cartService,
		failingVariants{ServiceInterface: variantService, failID: 2}, voucherService, testDeliveryFee)

	_, err := cartService.AddItem(1, 1, 2)
	assert.NoError(t, err)
	_, err = cartService.AddItem(1, 2, 1)
	assert.NoError(t, err)

	_, err = orderService.Checkout(1, testReceiver(), MethodCOD)
	assert.ErrorIs(t, err, variant.ErrInsufficientStock)

	// the first line's reservation was handed back
	v, _ := variantService.GetByID(1)
	assert.Equal(t, 5, v.Quantity)
}

func TestHandlePaymentResult_SuccessThenDuplicate(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.carts.AddItem(1, 1, 1)
	assert.NoError(t, err)
	o, err := f.orders.Checkout(1, testReceiver(), MethodVNPay)
	assert.NoError(t, err)
	assert.Equal(t, PaymentInit, o.PaymentStatus)

	confirmed, err := f.orders.HandlePaymentResult(o.TxnRef, true)
	assert.NoError(t, err)
	assert.Equal(t, PaymentSuccess, confirmed.PaymentStatus)
	assert.Equal(t, StatusPending, confirmed.Status)

	// a second delivery of the same result is a no-op
	again, err := f.orders.HandlePaymentResult(o.TxnRef, true)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, PaymentSuccess, again.PaymentStatus)

	// a late failure cannot override the recorded success either
	_, err = f.orders.HandlePaymentResult(o.TxnRef, false)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
}

func TestHandlePaymentResult_FailureRestoresStock(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.carts.AddItem(1, 1, 3)
	assert.NoError(t, err)
	o, err := f.orders.Checkout(1, testReceiver(), MethodVNPay)
	assert.NoError(t, err)

	v, _ := f.variants.GetByID(1)
	assert.Equal(t, 2, v.Quantity)

	failed, err := f.orders.HandlePaymentResult(o.TxnRef, false)
	assert.NoError(t, err)
	assert.Equal(t, PaymentFailed, failed.PaymentStatus)
	assert.Equal(t, StatusCart, failed.Status)

	// the exact reserved quantity is back on the shelf
	v, _ = f.variants.GetByID(1)
	assert.Equal(t, 5, v.Quantity)
}

func TestHandlePaymentResult_DuplicateFailureRestoresOnce(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.carts.AddItem(1, 1, 3)
	assert.NoError(t, err)
	o, err := f.orders.Checkout(1, testReceiver(), MethodVNPay)
	assert.NoError(t, err)

	failed, err := f.orders.HandlePaymentResult(o.TxnRef, false)
	assert.NoError(t, err)
	assert.Equal(t, PaymentFailed, failed.PaymentStatus)

	v, _ := f.variants.GetByID(1)
	assert.Equal(t, 5, v.Quantity)

	// a second delivery of the failure must not restore stock again
	_, err = f.orders.HandlePaymentResult(o.TxnRef, false)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	v, _ = f.variants.GetByID(1)
	assert.Equal(t, 5, v.Quantity)
}

func TestHandlePaymentResult_FailureThenSuccess(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.carts.AddItem(1, 1, 3)
	assert.NoError(t, err)
	o, err := f.orders.Checkout(1, testReceiver(), MethodVNPay)
	assert.NoError(t, err)

	_, err = f.orders.HandlePaymentResult(o.TxnRef, false)
	assert.NoError(t, err)

	// the reservation is gone; a racing success cannot revive the order
	after, err := f.orders.HandlePaymentResult(o.TxnRef, true)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Equal(t, PaymentFailed, after.PaymentStatus)
	assert.Equal(t, StatusCart, after.Status)

	v, _ := f.variants.GetByID(1)
	assert.Equal(t, 5, v.Quantity)
}

func TestHandlePaymentResult_UnknownRef(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.orders.HandlePaymentResult("FS-DOESNOTEXIST", true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelForUser(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.carts.AddItem(1, 1, 2)
	assert.NoError(t, err)
	o, err := f.orders.Checkout(1, testReceiver(), MethodCOD)
	assert.NoError(t, err)

	// another user cannot see or cancel it
	_, err = f.orders.CancelForUser(2, o.Code)
	assert.ErrorIs(t, err, ErrNotFound)

	cancelled, err := f.orders.CancelForUser(1, o.Code)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	v, _ := f.variants.GetByID(1)
	assert.Equal(t, 5, v.Quantity)

	// cancelling twice is rejected
	_, err = f.orders.CancelForUser(1, o.Code)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransition(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.carts.AddItem(1, 1, 1)
	assert.NoError(t, err)
	o, err := f.orders.Checkout(1, testReceiver(), MethodCOD)
	assert.NoError(t, err)

	// skipping ahead is rejected
	_, err = f.orders.Transition(o.ID, StatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	for _, next := range []string{StatusConfirmed, StatusProcessing, StatusShipping, StatusDelivered} {
		o2, err := f.orders.Transition(o.ID, next)
		assert.NoError(t, err)
		assert.Equal(t, next, o2.Status)
	}

	// DELIVERED is terminal
	_, err = f.orders.Transition(o.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTransition_CancelRestoresStock(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)

	_, err := f.carts.AddItem(1, 2, 2)
	assert.NoError(t, err)
	o, err := f.orders.Checkout(1, testReceiver(), MethodCOD)
	assert.NoError(t, err)

	v, _ := f.variants.GetByID(2)
	assert.Equal(t, 0, v.Quantity)

	_, err = f.orders.Transition(o.ID, StatusCancelled)
	assert.NoError(t, err)

	v, _ = f.variants.GetByID(2)
	assert.Equal(t, 2, v.Quantity)
}

type stubUsers struct{}

func (stubUsers) GetByID(id int) (user.User, error) {
	return user.User{ID: id, Email: "buyer@example.com"}, nil
}

type recordingMailer struct {
	sent []string
}

func (m *recordingMailer) SendOrderConfirmation(to string, o Order) error {
	m.sent = append(m.sent, to+":"+o.Code)
	return nil
}

func TestConfirmationMail_CODAndPaymentSuccess(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)
	mailer := &recordingMailer{}
	f.orders.EnableMail(mailer, stubUsers{})

	// COD is confirmed at checkout
	_, err := f.carts.AddItem(1, 1, 1)
	assert.NoError(t, err)
	cod, err := f.orders.Checkout(1, testReceiver(), MethodCOD)
	assert.NoError(t, err)
	assert.Equal(t, []string{"buyer@example.com:" + cod.Code}, mailer.sent)

	// an online order waits for the gateway
	_, err = f.carts.AddItem(1, 1, 1)
	assert.NoError(t, err)
	online, err := f.orders.Checkout(1, testReceiver(), MethodVNPay)
	assert.NoError(t, err)
	assert.Len(t, mailer.sent, 1)

	_, err = f.orders.HandlePaymentResult(online.TxnRef, true)
	assert.NoError(t, err)
	assert.Len(t, mailer.sent, 2)
	assert.Equal(t, "buyer@example.com:"+online.Code, mailer.sent[1])

	// a duplicate success delivery does not resend
	_, err = f.orders.HandlePaymentResult(online.TxnRef, true)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.Len(t, mailer.sent, 2)
}

func TestConfirmationMail_NotSentOnFailure(t *testing.T) {
	f := newFixture(t, stockedVariants(), nil)
	mailer := &recordingMailer{}
	f.orders.EnableMail(mailer, stubUsers{})

	_, err := f.carts.AddItem(1, 1, 1)
	assert.NoError(t, err)
	o, err := f.orders.Checkout(1, testReceiver(), MethodVNPay)
	assert.NoError(t, err)

	_, err = f.orders.HandlePaymentResult(o.TxnRef, false)
	assert.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusShipping, StatusCancelled))
	assert.False(t, CanTransition(StatusPending, StatusShipping))
	assert.False(t, CanTransition(StatusDelivered, StatusCancelled))
	assert.False(t, CanTransition(StatusCancelled, StatusPending))
}
