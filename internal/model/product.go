package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product rows may be minted as a side effect of saving document details:
// when a line arrives without a resolvable product id, a product is created
// from the supplied name and price.
type Product struct {
	ID        int             `json:"product_id"`
	Code      string          `json:"product_code"`
	Name      string          `json:"product_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxRate   int             `json:"tax_rate"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
