package cart

import (
	"time"

	"github.com/fitsport/fitsport-backend/internal/variant"
	"github.com/fitsport/fitsport-backend/internal/voucher"
)

// ServiceInterface is the surface the order package relies on.
type ServiceInterface interface {
	Get(userID int) (Cart, error)
	Clear(userID int) error
}

// Service orchestrates cart mutations. Every mutation recomputes line and
// grand totals before saving.
type Service struct {
	repo     Repository
	variants variant.ServiceInterface
	vouchers voucher.ServiceInterface
}

func NewService(repo Repository, variants variant.ServiceInterface, vouchers voucher.ServiceInterface) *Service {
	return &Service{repo: repo, variants: variants, vouchers: vouchers}
}

func (s *Service) Get(userID int) (Cart, error) {
	return s.repo.GetByUser(userID)
}

// AddItem puts qty units of a variant into the cart, accumulating onto an
// existing line. Requests beyond quantity-on-hand are rejected rather than
// clamped so the client can show a stock-limit message.
func (s *Service) AddItem(userID, variantID, qty int) (Cart, error) {
	if qty < 1 {
		qty = 1
	}

	v, err := s.variants.GetByID(variantID)
	if err != nil {
		return Cart{}, err
	}
	if v.Quantity == 0 {
		return Cart{}, ErrOutOfStock
	}

	c, err := s.repo.GetByUser(userID)
	if err != nil {
		return Cart{}, err
	}

	found := false
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			if c.Items[i].Quantity+qty > v.Quantity {
				return Cart{}, ErrStockLimit
			}
			c.Items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		if qty > v.Quantity {
			return Cart{}, ErrStockLimit
		}
		c.Items = append(c.Items, Line{
			VariantID:   v.ID,
			ProductID:   v.ProductID,
			ProductName: v.ProductName,
			ProductImg:  v.ProductImg,
			Size:        v.Size,
			Color:       v.Color,
			UnitPrice:   v.Price,
			Quantity:    qty,
		})
	}

	return s.finish(c)
}

// UpdateItem sets a line's quantity; zero or negative removes the line.
func (s *Service) UpdateItem(userID, variantID, qty int) (Cart, error) {
	c, err := s.repo.GetByUser(userID)
	if err != nil {
		return Cart{}, err
	}

	idx := -1
	for i := range c.Items {
		if c.Items[i].VariantID == variantID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Cart{}, ErrLineNotFound
	}

	if qty <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return s.finish(c)
	}

	v, err := s.variants.GetByID(variantID)
	if err != nil {
		return Cart{}, err
	}
	if qty > v.Quantity {
		return Cart{}, ErrStockLimit
	}
	c.Items[idx].Quantity = qty

	return s.finish(c)
}

func (s *Service) RemoveItem(userID, variantID int) (Cart, error) {
	return s.UpdateItem(userID, variantID, 0)
}

// ApplyVoucher validates the code against the current subtotal and
// snapshots code + discount onto the cart.
func (s *Service) ApplyVoucher(userID int, code string) (Cart, error) {
	c, err := s.repo.GetByUser(userID)
	if err != nil {
		return Cart{}, err
	}

	c.Recalculate()
	v, discount, err := s.vouchers.Validate(code, c.Subtotal(), time.Now())
	if err != nil {
		return Cart{}, err
	}

	c.VoucherCode = v.Code
	c.VoucherDiscount = discount
	return s.finish(c)
}

func (s *Service) RemoveVoucher(userID int) (Cart, error) {
	c, err := s.repo.GetByUser(userID)
	if err != nil {
		return Cart{}, err
	}
	c.VoucherCode = ""
	c.VoucherDiscount = 0
	return s.finish(c)
}

func (s *Service) Clear(userID int) error {
	return s.repo.Clear(userID)
}

// finish refreshes the voucher snapshot against the new subtotal,
// recomputes totals and saves.
func (s *Service) finish(c Cart) (Cart, error) {
	c.Recalculate()

	if c.VoucherCode != "" {
		if _, discount, err := s.vouchers.Validate(c.VoucherCode, c.Subtotal(), time.Now()); err == nil {
			c.VoucherDiscount = discount
		} else {
			// subtotal dropped below the minimum or the window closed:
			// drop the voucher instead of keeping a stale discount
			c.VoucherCode = ""
			c.VoucherDiscount = 0
		}
		c.Recalculate()
	}

	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Save(c)
}
