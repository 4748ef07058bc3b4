/*
Package galaxy
File: models.go
Description:
    Defines the static reference data structures for the colonization universe:
    commodities, star systems, supply hubs and the known distance tables.
    This file serves as the "schema" for the application, mapping directly to
    the YAML data file and JSON API responses.

    No logic is performed here; this file is strictly for type definitions.
*/

package galaxy

// Rarity classifies how hard a commodity is to source.
// It drives the price multiplier in the market pricing model.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
)

// Multiplier returns the price scaling factor for the rarity tier.
// Unknown tiers price like common goods.
func (r Rarity) Multiplier() float64 {
	switch r {
	case RarityUncommon:
		return 1.3
	case RarityRare:
		return 1.8
	default:
		return 1.0
	}
}

// Commodity represents a deliverable good.
type Commodity struct {
	Name      string `yaml:"name" json:"name"`             // Unique display name (e.g., "Food Cartridges")
	Category  string `yaml:"category" json:"category"`     // Grouping (e.g., "Foods", "Metals")
	BasePrice int    `yaml:"base_price" json:"base_price"` // Baseline price in Credits before market multipliers
	Rarity    Rarity `yaml:"rarity" json:"rarity"`         // common / uncommon / rare
}

// StarSystem represents a known destination in the galaxy.
type StarSystem struct {
	Name string `yaml:"name" json:"name"`
}

// GalaxyFile is the root struct mapping to the entire 'galaxy.yaml' data file.
// Every section is optional; missing sections fall back to the built-in tables.
type GalaxyFile struct {
	Commodities []Commodity `yaml:"commodities"`

	Systems []StarSystem `yaml:"systems"`

	// SupplyHubs lists the systems that act as implicit shipment origins.
	SupplyHubs []string `yaml:"supply_hubs"`

	// SolDistances maps SystemName -> distance from Sol in light years.
	// Used to estimate routes between systems with no measured distance.
	SolDistances map[string]float64 `yaml:"sol_distances"`

	// Distances maps SystemName -> SystemName -> measured distance in light years.
	Distances map[string]map[string]float64 `yaml:"distances"`
}
