package cart

import "time"

// Line is a single cart position. Identity is the (ProductID, Weight) pair:
// the same honey in two jar sizes occupies two lines.
type Line struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Weight    int    `json:"weight"`
	Label     string `json:"weight_label"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	PriceRef  string `json:"price_ref,omitempty"`
	Image     string `json:"image,omitempty"`
}

// Cart is the aggregate persisted per client token.
type Cart struct {
	Token     string    `json:"token"`
	Lines     []Line    `json:"lines"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// New creates an empty cart for the given token.
func New(token string, ttl time.Duration) *Cart {
	now := time.Now().UTC()
	return &Cart{
		Token:     token,
		Lines:     []Line{},
		Currency:  "EUR",
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// FindLineIndex returns the index of the line matching the given product and
// weight, or -1.
func (c *Cart) FindLineIndex(productID string, weight int) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].Weight == weight {
			return i
		}
	}
	return -1
}

// Subtotal is the sum of line price × quantity, in cents.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Price * int64(l.Quantity)
	}
	return total
}

// TotalWeight is the combined jar weight of the cart in grams.
func (c *Cart) TotalWeight() int {
	var grams int
	for _, l := range c.Lines {
		grams += l.Weight * l.Quantity
	}
	return grams
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
