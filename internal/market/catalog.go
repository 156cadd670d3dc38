// Package market generates deterministic commodity price/quantity tables
// for stations. A table is a pure function of station identity, the world
// seed, and a visit suffix: the game never persists market baselines, only
// the trade deltas players apply on top (see internal/session).
package market

// EconomyEffect biases one commodity at stations of one economy type.
type EconomyEffect struct {
	PriceDelta         float64 `yaml:"price_delta"`
	QuantityMultiplier float64 `yaml:"quantity_multiplier"`
}

// Commodity is the static definition of one tradeable good.
type Commodity struct {
	Key          string                   `yaml:"key"`
	BasePrice    float64                  `yaml:"base_price"`
	BaseQuantity float64                  `yaml:"base_quantity"`
	Unit         string                   `yaml:"unit"`
	Effects      map[string]EconomyEffect `yaml:"effects,omitempty"`
	MinTechLevel string                   `yaml:"min_tech_level,omitempty"` // empty = always available
}

// DefaultCatalog returns the stock commodity definitions. Agricultural
// worlds grow food cheap and plentiful, industrial worlds make machinery,
// high-tech worlds gate the advanced goods.
func DefaultCatalog() []Commodity {
	return []Commodity{
		{
			Key: "food", BasePrice: 10, BaseQuantity: 40, Unit: "t",
			Effects: map[string]EconomyEffect{
				"Agricultural": {PriceDelta: -4, QuantityMultiplier: 2.5},
				"Industrial":   {PriceDelta: 4, QuantityMultiplier: 0.6},
				"Extraction":   {PriceDelta: 5, QuantityMultiplier: 0.4},
			},
		},
		{
			Key: "textiles", BasePrice: 14, BaseQuantity: 30, Unit: "t",
			Effects: map[string]EconomyEffect{
				"Agricultural": {PriceDelta: -2, QuantityMultiplier: 1.8},
				"Industrial":   {PriceDelta: 2, QuantityMultiplier: 0.8},
			},
		},
		{
			Key: "liquor", BasePrice: 22, BaseQuantity: 18, Unit: "t",
			Effects: map[string]EconomyEffect{
				"Agricultural": {PriceDelta: -6, QuantityMultiplier: 2.0},
				"HighTech":     {PriceDelta: 6, QuantityMultiplier: 0.5},
			},
		},
		{
			Key: "minerals", BasePrice: 17, BaseQuantity: 35, Unit: "t",
			Effects: map[string]EconomyEffect{
				"Extraction": {PriceDelta: -7, QuantityMultiplier: 2.8},
				"Refinery":   {PriceDelta: -3, QuantityMultiplier: 1.5},
				"HighTech":   {PriceDelta: 4, QuantityMultiplier: 0.5},
			},
		},
		{
			Key: "alloys", BasePrice: 41, BaseQuantity: 22, Unit: "t",
			MinTechLevel: "TL2",
			Effects: map[string]EconomyEffect{
				"Refinery":   {PriceDelta: -9, QuantityMultiplier: 2.2},
				"Industrial": {PriceDelta: -4, QuantityMultiplier: 1.4},
			},
		},
		{
			Key: "machinery", BasePrice: 56, BaseQuantity: 14, Unit: "t",
			MinTechLevel: "TL3",
			Effects: map[string]EconomyEffect{
				"Industrial":   {PriceDelta: -11, QuantityMultiplier: 2.0},
				"Agricultural": {PriceDelta: 9, QuantityMultiplier: 0.4},
			},
		},
		{
			Key: "medicine", BasePrice: 64, BaseQuantity: 10, Unit: "t",
			MinTechLevel: "TL4",
			Effects: map[string]EconomyEffect{
				"HighTech": {PriceDelta: -10, QuantityMultiplier: 1.8},
			},
		},
		{
			Key: "computers", BasePrice: 88, BaseQuantity: 8, Unit: "t",
			MinTechLevel: "TL5",
			Effects: map[string]EconomyEffect{
				"HighTech":   {PriceDelta: -16, QuantityMultiplier: 2.4},
				"Industrial": {PriceDelta: -4, QuantityMultiplier: 1.2},
			},
		},
		{
			Key: "robotics", BasePrice: 120, BaseQuantity: 6, Unit: "t",
			MinTechLevel: "TL6",
			Effects: map[string]EconomyEffect{
				"HighTech": {PriceDelta: -22, QuantityMultiplier: 2.0},
			},
		},
		{
			Key: "radioactives", BasePrice: 34, BaseQuantity: 16, Unit: "t",
			MinTechLevel: "TL2",
			Effects: map[string]EconomyEffect{
				"Extraction": {PriceDelta: -8, QuantityMultiplier: 2.0},
				"Refinery":   {PriceDelta: -4, QuantityMultiplier: 1.6},
			},
		},
	}
}
