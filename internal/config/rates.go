package config

import "time"

// Rates holds loot rate multipliers.
type Rates struct {
	LootChanceMultiplier float64       `yaml:"loot_chance_multiplier"`
	LootLifetime         time.Duration `yaml:"loot_lifetime"` // 0 = loot stays until the run ends
}

// DefaultRates returns Rates with x1 multipliers and 60s loot lifetime.
func DefaultRates() Rates {
	return Rates{
		LootChanceMultiplier: 1.0,
		LootLifetime:         60 * time.Second,
	}
}
