package market

import (
	"fmt"
	"math"

	"starlanes/internal/prng"
	"starlanes/internal/worldgen"
)

// Config holds the market model parameters.
type Config struct {
	// ReferenceTechRank is the tech rank with no price adjustment. Higher
	// tech stations sell below base price, lower tech above it.
	ReferenceTechRank int `yaml:"reference_tech_rank"`
	// TechPriceFraction is the base-price fraction one tech rank is worth.
	TechPriceFraction float64 `yaml:"tech_price_fraction"`
	// ReferenceMinSize is the station size at which quantities equal their
	// base values; quantity scales with the square of size/reference.
	ReferenceMinSize float64 `yaml:"reference_min_size"`
	// JitterFraction is the standard deviation of price/quantity jitter,
	// as a fraction of the pre-jitter value.
	JitterFraction float64 `yaml:"jitter_fraction"`
}

// DefaultConfig returns the standard market parameters.
func DefaultConfig() Config {
	return Config{
		ReferenceTechRank: 4,
		TechPriceFraction: 0.05,
		ReferenceMinSize:  45,
		JitterFraction:    0.2,
	}
}

// CommodityState is the generated price and quantity for one commodity at
// one station.
type CommodityState struct {
	Price    int `json:"price"`
	Quantity int `json:"quantity"`
}

// Snapshot is a deterministic baseline market table. Treat it as
// immutable: trading mutates an overlay in the session store, never the
// snapshot itself.
type Snapshot struct {
	StationID string                    `json:"station_id"`
	Visit     int64                     `json:"visit"`
	Table     map[string]CommodityState `json:"table"`
}

// Generator derives market snapshots from a commodity catalog.
type Generator struct {
	catalog []Commodity
	cfg     Config
}

// NewGenerator validates the catalog and parameters.
func NewGenerator(catalog []Commodity, cfg Config) (*Generator, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("commodity catalog is empty")
	}
	seen := make(map[string]struct{}, len(catalog))
	for _, c := range catalog {
		if c.Key == "" {
			return nil, fmt.Errorf("commodity with empty key")
		}
		if _, dup := seen[c.Key]; dup {
			return nil, fmt.Errorf("duplicate commodity key %q", c.Key)
		}
		seen[c.Key] = struct{}{}
		if c.BasePrice <= 0 {
			return nil, fmt.Errorf("commodity %q: base price must be positive", c.Key)
		}
		if c.BaseQuantity < 0 {
			return nil, fmt.Errorf("commodity %q: base quantity must be non-negative", c.Key)
		}
		if c.MinTechLevel != "" && worldgen.TechRank(c.MinTechLevel) < 0 {
			return nil, fmt.Errorf("commodity %q: malformed min tech level %q", c.Key, c.MinTechLevel)
		}
	}
	if cfg.ReferenceMinSize <= 0 {
		return nil, fmt.Errorf("reference min size must be positive, got %v", cfg.ReferenceMinSize)
	}
	if cfg.JitterFraction < 0 {
		return nil, fmt.Errorf("jitter fraction must be non-negative, got %v", cfg.JitterFraction)
	}
	return &Generator{catalog: catalog, cfg: cfg}, nil
}

// Catalog returns the commodity definitions, in generation order.
func (g *Generator) Catalog() []Commodity { return g.catalog }

// Generate produces the baseline market table for a station. Pure:
// identical (station identity, worldSeed, visit) inputs always yield an
// identical snapshot. The PRNG is seeded from the station's position and
// the visit suffix, and drawn in catalog order, so the catalog order is
// part of the contract.
func (g *Generator) Generate(st worldgen.Station, worldSeed int64, visit int64) Snapshot {
	rng := prng.New(prng.CombineSeed(worldSeed, st.X, st.Y, visit))

	techRank := worldgen.TechRank(st.TechLevel)
	size := st.Size
	if size <= 0 {
		size = g.cfg.ReferenceMinSize
	}
	sizeScale := (size / g.cfg.ReferenceMinSize) * (size / g.cfg.ReferenceMinSize)

	table := make(map[string]CommodityState, len(g.catalog))
	for _, c := range g.catalog {
		if c.MinTechLevel != "" && techRank < worldgen.TechRank(c.MinTechLevel) {
			continue
		}

		eff := EconomyEffect{PriceDelta: 0, QuantityMultiplier: 1}
		if e, ok := c.Effects[st.Economy]; ok {
			eff = e
		}

		techAdj := float64(techRank-g.cfg.ReferenceTechRank) * g.cfg.TechPriceFraction * c.BasePrice
		price := c.BasePrice + eff.PriceDelta - techAdj
		if price < 1 {
			price = 1
		}
		price += gaussian(rng) * g.cfg.JitterFraction * price
		finalPrice := int(math.Round(price))
		if finalPrice < 1 {
			finalPrice = 1
		}

		mean := c.BaseQuantity * eff.QuantityMultiplier * sizeScale
		if mean <= 0 {
			continue // station neither stocks nor wants this good
		}
		qty := int(math.Round(mean + gaussian(rng)*g.cfg.JitterFraction*mean))
		if qty < 0 {
			qty = 0
		}

		table[c.Key] = CommodityState{Price: finalPrice, Quantity: qty}
	}

	return Snapshot{StationID: st.ID, Visit: visit, Table: table}
}

// gaussian draws a standard normal via Box-Muller. A zero uniform draw is
// rejected so log never sees 0.
func gaussian(rng *prng.PRNG) float64 {
	u1 := rng.Float()
	for u1 == 0 {
		u1 = rng.Float()
	}
	u2 := rng.Float()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
