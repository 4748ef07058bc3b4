/*
Package galaxy
File: catalog.go
Description:
    The Catalog holds the loaded reference data and answers every lookup the
    rest of the server needs: commodity validation, destination validation,
    autocomplete suggestions and distance queries.

    A Catalog is built once at startup (or rebuilt on SIGHUP) and treated as
    immutable afterwards, so readers never need a lock on it.
*/

package galaxy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the immutable reference data set for one load of the universe.
type Catalog struct {
	commodities []Commodity
	byName      map[string]int // exact name -> index into commodities
	byLower     map[string]int // lower-cased name -> index

	systems      []StarSystem
	supplyHubs   []string
	solDistances map[string]float64
	distances    map[string]map[string]float64
}

// Load reads the galaxy data file and builds a Catalog.
// A missing file is not an error: the built-in tables are used instead, so the
// server always starts. A file that exists but fails to parse IS an error.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewCatalog(DefaultGalaxy()), nil
	}
	if err != nil {
		return nil, err
	}

	var file GalaxyFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Partial files are fine: any absent section keeps its default table.
	defaults := DefaultGalaxy()
	if len(file.Commodities) == 0 {
		file.Commodities = defaults.Commodities
	}
	if len(file.Systems) == 0 {
		file.Systems = defaults.Systems
	}
	if len(file.SupplyHubs) == 0 {
		file.SupplyHubs = defaults.SupplyHubs
	}
	if len(file.SolDistances) == 0 {
		file.SolDistances = defaults.SolDistances
	}

	return NewCatalog(file), nil
}

// NewCatalog builds the lookup indexes for a data set.
func NewCatalog(file GalaxyFile) *Catalog {
	c := &Catalog{
		commodities:  file.Commodities,
		byName:       make(map[string]int, len(file.Commodities)),
		byLower:      make(map[string]int, len(file.Commodities)),
		systems:      file.Systems,
		supplyHubs:   file.SupplyHubs,
		solDistances: file.SolDistances,
		distances:    file.Distances,
	}
	for i, comm := range file.Commodities {
		c.byName[comm.Name] = i
		c.byLower[strings.ToLower(comm.Name)] = i
	}
	return c
}

// LookupCommodity finds a commodity by name.
// The exact spelling is checked first (fast path), then a case-insensitive match.
func (c *Catalog) LookupCommodity(name string) (Commodity, bool) {
	if i, ok := c.byName[name]; ok {
		return c.commodities[i], true
	}
	if i, ok := c.byLower[strings.ToLower(name)]; ok {
		return c.commodities[i], true
	}
	return Commodity{}, false
}

// ValidCommodity reports whether the name matches a known commodity.
func (c *Catalog) ValidCommodity(name string) bool {
	if name == "" {
		return false
	}
	_, ok := c.LookupCommodity(name)
	return ok
}

// ValidDestination reports whether the name is an acceptable destination.
// Any non-empty system name is accepted: colonization targets are frequently
// freshly-charted systems that no static table knows about yet.
func (c *Catalog) ValidDestination(name string) bool {
	return strings.TrimSpace(name) != ""
}

// Commodities returns the full commodity table in load order.
func (c *Catalog) Commodities() []Commodity {
	out := make([]Commodity, len(c.commodities))
	copy(out, c.commodities)
	return out
}

// CommoditiesByCategory filters the table by category, case-insensitively.
func (c *Catalog) CommoditiesByCategory(category string) []Commodity {
	out := []Commodity{}
	for _, comm := range c.commodities {
		if strings.EqualFold(comm.Category, category) {
			out = append(out, comm)
		}
	}
	return out
}

// CommoditySuggestions returns up to limit commodity names matching a partial
// input, for interactive autocomplete.
func (c *Catalog) CommoditySuggestions(partial string, limit int) []string {
	names := make([]string, len(c.commodities))
	for i, comm := range c.commodities {
		names[i] = comm.Name
	}
	return suggest(names, partial, limit)
}

// SystemSuggestions returns up to limit known system names matching a partial input.
func (c *Catalog) SystemSuggestions(partial string, limit int) []string {
	names := make([]string, len(c.systems))
	for i, sys := range c.systems {
		names[i] = sys.Name
	}
	return suggest(names, partial, limit)
}

// suggest ranks prefix matches (in table order) ahead of substring matches,
// skipping duplicates, capped at limit.
func suggest(names []string, partial string, limit int) []string {
	if partial == "" || limit <= 0 {
		return []string{}
	}
	lower := strings.ToLower(partial)

	out := []string{}
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			out = append(out, name)
		}
	}

	if len(out) < limit {
		for _, name := range names {
			if len(out) >= limit {
				break
			}
			if strings.Contains(strings.ToLower(name), lower) && !contains(out, name) {
				out = append(out, name)
			}
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}

// SupplyHubs returns the fixed list of implied shipment origins.
func (c *Catalog) SupplyHubs() []string {
	return c.supplyHubs
}

// SolDistance returns the recorded distance from Sol for a system, if known.
func (c *Catalog) SolDistance(system string) (float64, bool) {
	d, ok := c.solDistances[system]
	return d, ok
}

// MeasuredDistance returns the distance between two systems from the measured
// distance matrix, if an entry exists.
func (c *Catalog) MeasuredDistance(from, to string) (float64, bool) {
	row, ok := c.distances[from]
	if !ok {
		return 0, false
	}
	d, ok := row[to]
	return d, ok
}
