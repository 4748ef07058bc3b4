/*
Package pricing
File: pricing.go
Description:
    Turns a commodity manifest and destination into a priced quote.

    Two policies exist:
    1. Flat  - the default. A fixed credit rate per unit, bumped for urgent
               primary-port deliveries. Deterministic, what the request path uses.
    2. Market - catalog base prices with market fluctuation, rarity scaling,
               transport/risk/fuel/time fees. Opt-in via configuration.

    Both policies share the same route model (supply hub selection, distance
    lookup and the delivery time heuristic), so every quote carries a delivery
    estimate regardless of how the cargo itself is priced.
*/

package pricing

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/everforgeworks/colony-logistics/internal/galaxy"
)

// Policy selects how cargo is priced.
type Policy string

const (
	PolicyFlat   Policy = "flat"
	PolicyMarket Policy = "market"
)

// Params stores the pricing tuning variables.
type Params struct {
	Policy Policy `yaml:"policy" json:"policy"`

	// Flat policy rates.
	FlatUnitPrice     int `yaml:"flat_unit_price" json:"flat_unit_price"`         // Credits per unit, normal deliveries
	RushUnitPrice     int `yaml:"rush_unit_price" json:"rush_unit_price"`         // Credits per unit, urgent primary-port deliveries
	RushDaysThreshold int `yaml:"rush_days_threshold" json:"rush_days_threshold"` // Rush rate applies at or below this many days left

	// Market policy rates.
	BaseTransportRate float64 `yaml:"base_transport_rate" json:"base_transport_rate"` // Credits per ton per LY
	RiskPremiumRate   float64 `yaml:"risk_premium_rate" json:"risk_premium_rate"`     // Fraction of commodity cost
	FuelCostPerLY     float64 `yaml:"fuel_cost_per_ly" json:"fuel_cost_per_ly"`       // Credits per LY
	TimeValueRate     float64 `yaml:"time_value_rate" json:"time_value_rate"`         // Fraction of commodity cost per 24h block
	UnknownBasePrice  int     `yaml:"unknown_base_price" json:"unknown_base_price"`   // Fallback base price for off-catalog goods
}

// DefaultParams returns the shipped tuning values.
func DefaultParams() Params {
	return Params{
		Policy:            PolicyFlat,
		FlatUnitPrice:     60000,
		RushUnitPrice:     80000,
		RushDaysThreshold: 10,
		BaseTransportRate: 50,
		RiskPremiumRate:   0.15,
		FuelCostPerLY:     100,
		TimeValueRate:     0.02,
		UnknownBasePrice:  500,
	}
}

// Line is one priced row of a quote.
type Line struct {
	Commodity string `json:"commodity"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
	LineCost  int    `json:"line_cost"`
}

// Quote is the priced breakdown of a proposed delivery.
// It is ephemeral: once embedded into a contract it is never recalculated.
type Quote struct {
	Source      string  `json:"source"`      // Supply hub the shipment stages from
	Destination string  `json:"destination"` // Target system
	Distance    float64 `json:"distance_ly"` // Route length in light years

	Lines []Line `json:"lines"`

	CommodityCost int `json:"commodity_cost"`
	TransportFee  int `json:"transport_fee"`
	RiskPremium   int `json:"risk_premium"`
	FuelCost      int `json:"fuel_cost"`
	TimePremium   int `json:"time_premium"`
	TotalCost     int `json:"total_cost"`

	TotalTonnage           int `json:"total_tonnage"` // 1 unit = 1 ton
	EstimatedDeliveryHours int `json:"estimated_delivery_hours"`
}

// Calculator prices quotes against a galaxy catalog.
// Safe for concurrent use; the internal rand source is mutex-guarded.
type Calculator struct {
	params  Params
	catalog *galaxy.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCalculator builds a Calculator with a time-seeded random source.
func NewCalculator(catalog *galaxy.Catalog, params Params) *Calculator {
	return &Calculator{
		params:  params,
		catalog: catalog,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetCatalog swaps in freshly loaded reference data (hot reload).
func (c *Calculator) SetCatalog(catalog *galaxy.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = catalog
}

// CalculateQuote prices a delivery of the given commodities to destination.
// Preconditions enforced by the caller: len(commodities) == len(quantities),
// and every quantity is a positive integer.
func (c *Calculator) CalculateQuote(commodities []string, quantities []int, destination string, primaryPort bool, daysLeft *int) Quote {
	c.mu.Lock()
	defer c.mu.Unlock()

	source, distance := c.nearestSupplyHub(destination)

	totalTonnage := 0
	for _, qty := range quantities {
		totalTonnage += qty
	}
	hours := deliveryTime(distance, totalTonnage)

	q := Quote{
		Source:                 source,
		Destination:            destination,
		Distance:               distance,
		TotalTonnage:           totalTonnage,
		EstimatedDeliveryHours: hours,
	}

	if c.params.Policy == PolicyMarket {
		c.priceMarket(&q, commodities, quantities)
	} else {
		c.priceFlat(&q, commodities, quantities, primaryPort, daysLeft)
	}
	return q
}

// priceFlat applies the fixed per-unit rate. Urgent primary-port deliveries
// (a concrete days-left at or below the threshold) pay the rush rate.
func (c *Calculator) priceFlat(q *Quote, commodities []string, quantities []int, primaryPort bool, daysLeft *int) {
	unit := c.params.FlatUnitPrice
	if primaryPort && daysLeft != nil && *daysLeft <= c.params.RushDaysThreshold {
		unit = c.params.RushUnitPrice
	}

	for i, name := range commodities {
		qty := quantities[i]
		q.Lines = append(q.Lines, Line{
			Commodity: name,
			Quantity:  qty,
			UnitPrice: unit,
			LineCost:  unit * qty,
		})
		q.CommodityCost += unit * qty
	}
	q.TotalCost = q.CommodityCost
}

// priceMarket applies catalog base prices with fluctuation and route fees.
func (c *Calculator) priceMarket(q *Quote, commodities []string, quantities []int) {
	for i, name := range commodities {
		qty := quantities[i]

		base := c.params.UnknownBasePrice
		rarity := galaxy.RarityCommon
		if comm, ok := c.catalog.LookupCommodity(name); ok {
			base = comm.BasePrice
			rarity = comm.Rarity
		}

		// Market fluctuation of +/-10%, then rarity scaling.
		unit := int(float64(base) * c.uniform(0.9, 1.1))
		unit = int(float64(unit) * rarity.Multiplier())

		q.Lines = append(q.Lines, Line{
			Commodity: name,
			Quantity:  qty,
			UnitPrice: unit,
			LineCost:  unit * qty,
		})
		q.CommodityCost += unit * qty
	}

	baseTransport := float64(q.TotalTonnage) * q.Distance * c.params.BaseTransportRate
	q.TransportFee = int(baseTransport * distanceMultiplier(q.Distance))
	q.RiskPremium = int(float64(q.CommodityCost) * c.params.RiskPremiumRate)
	q.FuelCost = int(q.Distance * c.params.FuelCostPerLY)

	if q.EstimatedDeliveryHours > 24 {
		q.TimePremium = int(float64(q.CommodityCost) * c.params.TimeValueRate * (float64(q.EstimatedDeliveryHours) / 24))
	}

	q.TotalCost = q.CommodityCost + q.TransportFee + q.RiskPremium + q.FuelCost + q.TimePremium
}

// distanceMultiplier scales transport fees by route length.
// Brackets are checked top-down; the >500 tier shadows the larger ones,
// matching the shipped tuning.
func distanceMultiplier(distance float64) float64 {
	if distance > 500 {
		return 1.2
	} else if distance > 1000 {
		return 1.5
	} else if distance > 2000 {
		return 2.0
	}
	return 1.0
}

// nearestSupplyHub picks the hub with the shortest route to the destination.
// Returns the hub and the route distance so the caller does not look it up twice.
func (c *Calculator) nearestSupplyHub(destination string) (string, float64) {
	nearest := "Sol"
	best := math.Inf(1)

	for _, hub := range c.catalog.SupplyHubs() {
		d := c.routeDistance(hub, destination)
		if d < best {
			best = d
			nearest = hub
		}
	}
	if math.IsInf(best, 1) {
		best = 0
	}
	return nearest, best
}

// routeDistance returns the measured distance between two systems when the
// matrix has an entry, otherwise an estimate from the Sol distance table.
func (c *Calculator) routeDistance(source, destination string) float64 {
	if d, ok := c.catalog.MeasuredDistance(source, destination); ok {
		return d
	}
	return c.estimateDistance(source, destination)
}

// estimateDistance approximates a route from each endpoint's distance to Sol.
// Systems absent from the table get a random plausible placement.
func (c *Calculator) estimateDistance(source, destination string) float64 {
	if source == destination {
		return 0
	}

	sourceDist, ok := c.catalog.SolDistance(source)
	if !ok {
		sourceDist = c.uniform(50, 500)
	}
	destDist, ok := c.catalog.SolDistance(destination)
	if !ok {
		destDist = c.uniform(50, 500)
	}

	if source == "Sol" {
		return destDist
	}
	if destination == "Sol" {
		return sourceDist
	}

	// Triangle-inequality guess from the Sol baselines.
	estimated := math.Abs(destDist - sourceDist)
	if estimated < 10 {
		estimated = c.uniform(10, 50)
	}
	return estimated
}

// deliveryTime estimates hours for a route: 30 LY per jump at 5 minutes each,
// 30 seconds of cargo handling per ton, plus 2 minutes per jump of overhead.
func deliveryTime(distance float64, tonnage int) int {
	jumps := int(math.Ceil(distance / 30))
	minutes := float64(jumps*5) + float64(tonnage)*0.5 + float64(jumps*2)

	hours := int(math.Ceil(minutes / 60))
	if hours < 1 {
		hours = 1
	}
	return hours
}

func (c *Calculator) uniform(lo, hi float64) float64 {
	return lo + c.rng.Float64()*(hi-lo)
}
