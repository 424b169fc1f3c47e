package reports

import (
	"fmt"

	"github.com/skip2/go-qrcode"
	"github.com/you/marketsvc/domain"
)

// QRGenerator renders the pickup code a customer shows at the counter
type QRGenerator interface {
	Generate(order *domain.Order) ([]byte, error)
}

// PickupQR encodes a pickup link for an order as a PNG
type PickupQR struct {
	BaseURL string
	Size    int
}

// NewPickupQR creates a generator producing size×size PNGs
func NewPickupQR(baseURL string, size int) *PickupQR {
	if size <= 0 {
		size = 256
	}
	return &PickupQR{BaseURL: baseURL, Size: size}
}

// PickupURL is the payload encoded in the QR code
func (g *PickupQR) PickupURL(order *domain.Order) string {
	return fmt.Sprintf("%s/pickup?order=%s&restaurant=%s", g.BaseURL, order.ID, order.RestaurantID)
}

// Generate implements QRGenerator. Only orders that can still be collected
// get a code.
func (g *PickupQR) Generate(order *domain.Order) ([]byte, error) {
	if order == nil || order.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if order.Status == domain.OrderCancelled || order.Status == domain.OrderPending {
		return nil, fmt.Errorf("%w: no pickup code for a %s order", domain.ErrInvalidTransition, order.Status)
	}
	return qrcode.Encode(g.PickupURL(order), qrcode.Medium, g.Size)
}
