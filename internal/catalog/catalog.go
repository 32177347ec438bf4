package catalog

import (
	"fmt"
	"math"
	"sort"
)

// Weight tiers available for every jar, in grams. Prices for the smaller
// tiers are derived from the base 900 g price unless a product declares
// explicit variants.
const (
	Weight250 = 250
	Weight450 = 450
	Weight900 = 900
)

// DefaultWeight is the jar size used when the client does not pick a tier.
const DefaultWeight = Weight900

// WeightVariant is a purchasable size of a product: a weight in grams, a
// display label, a price in cents, and an optional payment-processor price
// reference for checkout.
type WeightVariant struct {
	Weight   int    `json:"weight"`
	Label    string `json:"label"`
	Price    int64  `json:"price"`
	PriceRef string `json:"price_ref,omitempty"`
}

// Product is a catalog entry. Price is the base price in cents for the
// default 900 g jar; PreviousPrice, when non-zero, is the crossed-out price
// shown for discounted products.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         int64           `json:"price"`
	PreviousPrice int64           `json:"previous_price,omitempty"`
	Description   string          `json:"description"`
	Image         string          `json:"image"`
	Tags          []string        `json:"tags"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	SoldOut       bool            `json:"sold_out,omitempty"`
	PriceRef      string          `json:"price_ref,omitempty"`
	Variants      []WeightVariant `json:"variants,omitempty"`
	DefaultWeight int             `json:"default_weight,omitempty"`
}

// WeightLabel formats a weight in grams as a display label.
func WeightLabel(grams int) string {
	return fmt.Sprintf("%d g", grams)
}

// ScalePrice derives the price of a non-default tier from the base 900 g
// price, proportional by weight and rounded to the nearest cent.
func ScalePrice(basePrice int64, grams int) int64 {
	if grams == DefaultWeight {
		return basePrice
	}
	return int64(math.Round(float64(basePrice) * float64(grams) / float64(DefaultWeight)))
}

// SynthesizeVariant builds the variant for a given weight from the product's
// base price. The price reference carries over only for the default weight,
// since the processor price object is tied to a specific amount.
func SynthesizeVariant(p *Product, grams int) WeightVariant {
	v := WeightVariant{
		Weight: grams,
		Label:  WeightLabel(grams),
		Price:  ScalePrice(p.Price, grams),
	}
	if grams == p.defaultWeight() {
		v.PriceRef = p.PriceRef
	}
	return v
}

func (p *Product) defaultWeight() int {
	if p.DefaultWeight != 0 {
		return p.DefaultWeight
	}
	return DefaultWeight
}

// ResolveVariant picks the purchasable variant for the requested weight.
// Resolution order: an explicitly declared variant with that weight, then a
// synthesized variant from the base price. A zero weight resolves to the
// product's default tier (first declared variant, or the default weight).
func ResolveVariant(p *Product, grams int) (WeightVariant, error) {
	if p == nil {
		return WeightVariant{}, fmt.Errorf("resolve variant: nil product")
	}

	if grams == 0 {
		if len(p.Variants) > 0 {
			return p.Variants[0], nil
		}
		grams = p.defaultWeight()
	}

	for _, v := range p.Variants {
		if v.Weight == grams {
			return v, nil
		}
	}

	switch grams {
	case Weight250, Weight450, Weight900:
		// Synthesis needs a base price to scale from; a product with no
		// declared variants and no base price is not purchasable.
		if p.Price <= 0 {
			return WeightVariant{}, fmt.Errorf("resolve variant: product %s has no price", p.ID)
		}
		return SynthesizeVariant(p, grams), nil
	}

	return WeightVariant{}, fmt.Errorf("resolve variant: product %s has no %d g tier", p.ID, grams)
}

// Filter returns the products that carry at least one of the selected tags
// (OR semantics). An empty selection returns the full catalog.
func Filter(products []Product, tags []string) []Product {
	if len(tags) == 0 {
		return products
	}

	selected := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		selected[t] = struct{}{}
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		for _, t := range p.Tags {
			if _, ok := selected[t]; ok {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Tags returns the distinct tags across the given products, sorted.
func Tags(products []Product) []string {
	seen := make(map[string]struct{})
	for _, p := range products {
		for _, t := range p.Tags {
			seen[t] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Catalog is an in-memory product set with lookup by ID.
type Catalog struct {
	products []Product
	byID     map[string]*Product
}

// New builds a catalog from the given products.
func New(products []Product) *Catalog {
	c := &Catalog{
		products: products,
		byID:     make(map[string]*Product, len(products)),
	}
	for i := range c.products {
		c.byID[c.products[i].ID] = &c.products[i]
	}
	return c
}

// Products returns all catalog entries in declaration order.
func (c *Catalog) Products() []Product {
	return c.products
}

// Get returns the product with the given ID, or nil.
func (c *Catalog) Get(id string) *Product {
	return c.byID[id]
}
