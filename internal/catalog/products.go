package catalog

// GoldenDrop returns the built-in honey catalog. Prices are cents; the base
// price is for the 900 g jar and the smaller tiers are derived at resolution
// time. Price references default to the configured processor price objects
// and can be overridden per deployment.
func GoldenDrop() *Catalog {
	return New([]Product{
		{
			ID:          "cvetlicni",
			Name:        "Cvetlični med",
			Price:       1200,
			Description: "Naravni slovenski cvetlični med, pridelan iz nektarja različnih cvetov. Blag, aromatičen in vsestransko uporaben.",
			Image:       "/cvetlicni.png",
			Tags:        []string{"Naravni", "Aromatičen", "Slovenski"},
			Rating:      4.9,
			Reviews:     128,
			PriceRef:    "price_1SWOBhI5iqAVuGDVcHriXpGk",
		},
		{
			ID:            "lipov",
			Name:          "Lipov med",
			Price:         1200,
			PreviousPrice: 1400,
			Description:   "Med iz cvetov lipe, značilno svežega okusa z blagimi mentolnimi notami. Odličen za čaj in pomiritev.",
			Image:         "/Lipov-store.jpg",
			Tags:          []string{"Lipa", "Svež", "Slovenski"},
			Rating:        4.8,
			Reviews:       210,
			PriceRef:      "price_1SWMxhI5iqAVuGDVZixLNmLi",
		},
		{
			ID:          "hojev",
			Name:        "Hojev med",
			Price:       1500,
			Description: "Hojev med je znan po svoji intenzivni aromi in temni barvi. Trenutno ni na zalogi.",
			Image:       "https://images.unsplash.com/photo-1558642452-9d2a7deb7f62?auto=format&fit=crop&q=80&w=800",
			Tags:        []string{"Hoja", "Intenziven", "Slovenski", "Ni na zalogi"},
			Rating:      4.7,
			Reviews:     85,
			SoldOut:     true,
			PriceRef:    "price_hojev_med",
		},
	})
}
