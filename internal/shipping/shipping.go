package shipping

import "fmt"

// Breakpoint maps a maximum weight in grams (inclusive) to a shipping cost
// in cents.
type Breakpoint struct {
	MaxWeight int   `json:"max_weight"`
	Cost      int64 `json:"cost"`
}

// Table is an ordered list of weight breakpoints plus an open-ended cost for
// anything heavier than the last breakpoint. An empty shipment costs nothing.
type Table struct {
	breakpoints []Breakpoint
	overflow    int64
}

// NewTable validates and builds a shipping table. Breakpoints must be in
// strictly increasing weight order with non-decreasing costs, and the
// open-ended cost must not undercut the last breakpoint.
func NewTable(breakpoints []Breakpoint, overflow int64) (*Table, error) {
	if len(breakpoints) == 0 {
		return nil, fmt.Errorf("shipping table: at least one breakpoint required")
	}

	prevWeight := 0
	var prevCost int64
	for i, bp := range breakpoints {
		if bp.MaxWeight <= prevWeight {
			return nil, fmt.Errorf("shipping table: breakpoint %d weight %d not increasing", i, bp.MaxWeight)
		}
		if bp.Cost < prevCost {
			return nil, fmt.Errorf("shipping table: breakpoint %d cost %d decreases", i, bp.Cost)
		}
		prevWeight = bp.MaxWeight
		prevCost = bp.Cost
	}
	if overflow < prevCost {
		return nil, fmt.Errorf("shipping table: open-ended cost %d undercuts last breakpoint", overflow)
	}

	return &Table{breakpoints: breakpoints, overflow: overflow}, nil
}

// Default returns the canonical GoldenDrop shipping table:
// up to 500 g 2.90 €, up to 2 kg 4.50 €, up to 5 kg 5.80 €,
// up to 10 kg 6.90 €, anything heavier 11.90 €.
func Default() *Table {
	t, err := NewTable([]Breakpoint{
		{MaxWeight: 500, Cost: 290},
		{MaxWeight: 2000, Cost: 450},
		{MaxWeight: 5000, Cost: 580},
		{MaxWeight: 10000, Cost: 690},
	}, 1190)
	if err != nil {
		panic(err)
	}
	return t
}

// Cost returns the shipping cost in cents for the given total weight in
// grams. Zero weight ships free (nothing to ship).
func (t *Table) Cost(grams int) int64 {
	if grams <= 0 {
		return 0
	}
	for _, bp := range t.breakpoints {
		if grams <= bp.MaxWeight {
			return bp.Cost
		}
	}
	return t.overflow
}

// Breakpoints returns a copy of the table's breakpoints, for display.
func (t *Table) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(t.breakpoints))
	copy(out, t.breakpoints)
	return out
}
