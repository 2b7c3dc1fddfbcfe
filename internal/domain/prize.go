package domain

import (
	"fmt"
	"math"
)

// PrizeType is one entry of the fixed prize catalog for winning buteur
// tickets. ValueMinor is the prize's monetary value in cents.
type PrizeType struct {
	Label       string  `json:"label"`
	ValueMinor  int64   `json:"value_minor"`
	Probability float64 `json:"probability"`
}

// DefaultPrizeCatalog is the house prize table. Probabilities must sum
// to 1; ValidatePrizeCatalog enforces this at startup.
var DefaultPrizeCatalog = []PrizeType{
	{Label: "Café offert", ValueMinor: 250, Probability: 0.50},
	{Label: "Dessert offert", ValueMinor: 600, Probability: 0.30},
	{Label: "Menu du jour offert", ValueMinor: 1500, Probability: 0.15},
	{Label: "Repas pour deux offert", ValueMinor: 6000, Probability: 0.05},
}

// ValidatePrizeCatalog checks that the catalog is non-empty, every
// probability is positive, and the probabilities sum to 1 within
// floating-point tolerance.
func ValidatePrizeCatalog(catalog []PrizeType) error {
	if len(catalog) == 0 {
		return fmt.Errorf("prize catalog is empty")
	}
	var sum float64
	for _, p := range catalog {
		if p.Probability <= 0 {
			return fmt.Errorf("prize %q has non-positive probability %v", p.Label, p.Probability)
		}
		sum += p.Probability
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("prize probabilities sum to %v, want 1", sum)
	}
	return nil
}
