package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalePrice(t *testing.T) {
	tests := []struct {
		name  string
		base  int64
		grams int
		want  int64
	}{
		{"default weight unchanged", 1200, 900, 1200},
		{"450 g is half", 1200, 450, 600},
		{"250 g rounds to nearest cent", 1200, 250, 333},
		{"hojev 450 g", 1500, 450, 750},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ScalePrice(tc.base, tc.grams))
		})
	}
}

func TestResolveVariant_SynthesizedFromBasePrice(t *testing.T) {
	p := &Product{ID: "cvetlicni", Price: 1200, PriceRef: "price_abc"}

	v, err := ResolveVariant(p, 450)
	require.NoError(t, err)
	assert.Equal(t, 450, v.Weight)
	assert.Equal(t, "450 g", v.Label)
	assert.Equal(t, int64(600), v.Price)
	assert.Empty(t, v.PriceRef, "only the default tier carries the price reference")
}

func TestResolveVariant_DefaultTierCarriesPriceRef(t *testing.T) {
	p := &Product{ID: "cvetlicni", Price: 1200, PriceRef: "price_abc"}

	v, err := ResolveVariant(p, 900)
	require.NoError(t, err)
	assert.Equal(t, "price_abc", v.PriceRef)
	assert.Equal(t, int64(1200), v.Price)
}

func TestResolveVariant_ZeroWeightUsesDefault(t *testing.T) {
	p := &Product{ID: "cvetlicni", Price: 1200, PriceRef: "price_abc"}

	v, err := ResolveVariant(p, 0)
	require.NoError(t, err)
	assert.Equal(t, 900, v.Weight)
}

func TestResolveVariant_ExplicitVariantWins(t *testing.T) {
	p := &Product{
		ID:    "lipov",
		Price: 1200,
		Variants: []WeightVariant{
			{Weight: 450, Label: "450 g kozarec", Price: 650, PriceRef: "price_450"},
		},
	}

	v, err := ResolveVariant(p, 450)
	require.NoError(t, err)
	assert.Equal(t, int64(650), v.Price, "declared variant overrides the scaled price")
	assert.Equal(t, "price_450", v.PriceRef)
}

func TestResolveVariant_ZeroWeightPrefersFirstDeclared(t *testing.T) {
	p := &Product{
		ID:    "lipov",
		Price: 1200,
		Variants: []WeightVariant{
			{Weight: 250, Label: "250 g", Price: 350},
			{Weight: 900, Label: "900 g", Price: 1200},
		},
	}

	v, err := ResolveVariant(p, 0)
	require.NoError(t, err)
	assert.Equal(t, 250, v.Weight)
}

func TestResolveVariant_UnpricedProductRejected(t *testing.T) {
	p := &Product{ID: "ghost"}

	for _, grams := range []int{0, 250, 450, 900} {
		_, err := ResolveVariant(p, grams)
		require.Error(t, err, "weight %d must not synthesize a free variant", grams)
		assert.Contains(t, err.Error(), "no price")
	}
}

func TestResolveVariant_UnpricedWithDeclaredVariantStillResolves(t *testing.T) {
	p := &Product{
		ID: "darilo",
		Variants: []WeightVariant{
			{Weight: 450, Label: "450 g", Price: 990, PriceRef: "price_darilo"},
		},
	}

	v, err := ResolveVariant(p, 450)
	require.NoError(t, err)
	assert.Equal(t, int64(990), v.Price)
}

func TestResolveVariant_UnknownWeight(t *testing.T) {
	p := &Product{ID: "cvetlicni", Price: 1200}

	_, err := ResolveVariant(p, 333)
	require.Error(t, err)
}

func TestFilter_EmptySelectionReturnsAll(t *testing.T) {
	products := GoldenDrop().Products()
	assert.Len(t, Filter(products, nil), len(products))
}

func TestFilter_ORSemantics(t *testing.T) {
	products := GoldenDrop().Products()

	// "Lipa" matches only lipov; "Hoja" only hojev; together both.
	got := Filter(products, []string{"Lipa", "Hoja"})
	require.Len(t, got, 2)
	assert.Equal(t, "lipov", got[0].ID)
	assert.Equal(t, "hojev", got[1].ID)
}

func TestFilter_SharedTagMatchesAll(t *testing.T) {
	products := GoldenDrop().Products()
	got := Filter(products, []string{"Slovenski"})
	assert.Len(t, got, len(products))
}

func TestFilter_NoMatches(t *testing.T) {
	products := GoldenDrop().Products()
	assert.Empty(t, Filter(products, []string{"Akacijev"}))
}

func TestTags_SortedDistinct(t *testing.T) {
	products := []Product{
		{ID: "a", Tags: []string{"Svež", "Slovenski"}},
		{ID: "b", Tags: []string{"Slovenski", "Naravni"}},
	}

	assert.Equal(t, []string{"Naravni", "Slovenski", "Svež"}, Tags(products))
}

func TestCatalog_Get(t *testing.T) {
	c := GoldenDrop()
	require.NotNil(t, c.Get("cvetlicni"))
	assert.Equal(t, "Cvetlični med", c.Get("cvetlicni").Name)
	assert.Nil(t, c.Get("missing"))
}

func TestGoldenDrop_SoldOut(t *testing.T) {
	c := GoldenDrop()
	assert.True(t, c.Get("hojev").SoldOut)
	assert.False(t, c.Get("cvetlicni").SoldOut)
}

func TestGoldenDrop_DiscountDisplay(t *testing.T) {
	c := GoldenDrop()
	lipov := c.Get("lipov")
	require.NotNil(t, lipov)
	assert.Equal(t, int64(1400), lipov.PreviousPrice)
	assert.Equal(t, int64(1200), lipov.Price)
}
