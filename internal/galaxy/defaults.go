/*
Package galaxy
File: defaults.go
Description:
    Built-in reference tables used when no galaxy data file is present.
    Keeping a full default universe baked in means a bare checkout runs
    without any data directory at all.
*/

package galaxy

// DefaultGalaxy returns the built-in data set.
func DefaultGalaxy() GalaxyFile {
	return GalaxyFile{
		Commodities:  defaultCommodities(),
		Systems:      defaultSystems(),
		SupplyHubs:   defaultSupplyHubs(),
		SolDistances: defaultSolDistances(),
	}
}

func defaultCommodities() []Commodity {
	return []Commodity{
		{Name: "Aluminum", Category: "Metals", BasePrice: 340, Rarity: RarityCommon},
		{Name: "Ceramic Composites", Category: "Industrial Materials", BasePrice: 232, Rarity: RarityCommon},
		{Name: "CMM Composites", Category: "Industrial Materials", BasePrice: 3132, Rarity: RarityUncommon},
		{Name: "Computer Components", Category: "Technology", BasePrice: 513, Rarity: RarityCommon},
		{Name: "Copper", Category: "Metals", BasePrice: 481, Rarity: RarityCommon},
		{Name: "Food Cartridges", Category: "Foods", BasePrice: 105, Rarity: RarityCommon},
		{Name: "Fruit and Vegetables", Category: "Foods", BasePrice: 312, Rarity: RarityCommon},
		{Name: "Insulating Membrane", Category: "Industrial Materials", BasePrice: 7837, Rarity: RarityRare},
		{Name: "Liquid Oxygen", Category: "Chemicals", BasePrice: 263, Rarity: RarityCommon},
		{Name: "Medical Diagnostic Equipment", Category: "Medicines", BasePrice: 2848, Rarity: RarityUncommon},
		{Name: "Non-Lethal Weapons", Category: "Weapons", BasePrice: 1837, Rarity: RarityUncommon},
		{Name: "Polymers", Category: "Industrial Materials", BasePrice: 171, Rarity: RarityCommon},
		{Name: "Power Generators", Category: "Machinery", BasePrice: 458, Rarity: RarityCommon},
		{Name: "Semiconductors", Category: "Technology", BasePrice: 967, Rarity: RarityUncommon},
		{Name: "Steel", Category: "Metals", BasePrice: 335, Rarity: RarityCommon},
		{Name: "Superconductors", Category: "Technology", BasePrice: 6609, Rarity: RarityRare},
		{Name: "Titanium", Category: "Metals", BasePrice: 1006, Rarity: RarityUncommon},
		{Name: "Water", Category: "Chemicals", BasePrice: 120, Rarity: RarityCommon},
		{Name: "Water Purifiers", Category: "Machinery", BasePrice: 258, Rarity: RarityCommon},
	}
}

func defaultSystems() []StarSystem {
	names := []string{
		"Sol", "Alpha Centauri", "Barnard's Star", "Wolf 359", "Lalande 21185",
		"Sirius", "Ross 154", "Epsilon Eridani", "Lacaille 9352", "Ross 128",
		"EZ Aquarii", "Procyon", "Luyten 726-8", "Tau Ceti", "Epsilon Indi",
		"Colonia", "Sagittarius A*", "Beagle Point", "Shinrarta Dezhra",
		"LHS 3447", "Eravate", "Matet", "Kremainn", "Beta Hydri", "Wolf 397",
		"LTT 15574", "Hutton Orbital", "Farseer Inc", "Deciat", "Maia",
		"Merope", "Electra", "Asterope", "Taygeta", "Celaeno", "Atlas",
		"Pleione", "HIP 22460", "Witch Head Nebula", "California Nebula",
		"Heart Nebula", "Soul Nebula", "Rosette Nebula", "Eagle Nebula",
		"Horsehead Nebula", "Orion Nebula", "Flame Nebula", "Bubble Nebula",
	}
	systems := make([]StarSystem, len(names))
	for i, n := range names {
		systems[i] = StarSystem{Name: n}
	}
	return systems
}

// defaultSupplyHubs are the major supply stations shipments stage from.
func defaultSupplyHubs() []string {
	return []string{
		"Sol", "Shinrarta Dezhra", "Jameson Memorial",
		"LHS 3447", "Eravate", "Matet", "Kremainn",
		"Beta Hydri", "Wolf 397", "LTT 15574",
	}
}

// defaultSolDistances are measured distances from Sol, in light years.
func defaultSolDistances() map[string]float64 {
	return map[string]float64{
		"Sol":            0,
		"Colonia":        22000,
		"Sagittarius A*": 25900,
		"Beagle Point":   65279,
		"Hutton Orbital": 6784,
		"Barnard's Star": 5.95,
		"Wolf 359":       7.86,
		"Lalande 21185":  8.29,
		"Sirius":         8.59,
		"Ross 154":       9.69,
		"Epsilon Eridani": 10.52,
		"Lacaille 9352":  10.74,
		"Ross 128":       11.03,
		"EZ Aquarii":     11.27,
		"Procyon":        11.46,
		"Luyten 726-8":   12.39,
		"Tau Ceti":       11.94,
		"Epsilon Indi":   11.82,
	}
}
