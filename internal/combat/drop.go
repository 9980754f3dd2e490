package combat

import (
	"math/rand/v2"

	"github.com/udisondev/sentinel/internal/config"
	"github.com/udisondev/sentinel/internal/model"
)

// RollLoot decides whether a defeated agent drops its loot.
//
// Chance is template LootChance × rates.LootChanceMultiplier; a chance of
// 1 or more always drops. Kinds without LootKind never drop.
func RollLoot(tmpl *model.AgentTemplate, rates config.Rates, rng *rand.Rand) (string, bool) {
	if tmpl == nil || tmpl.LootKind == "" {
		return "", false
	}

	chance := tmpl.LootChance * rates.LootChanceMultiplier
	if chance <= 0 {
		return "", false
	}
	if chance < 1 && rng.Float64() >= chance {
		return "", false
	}
	return tmpl.LootKind, true
}
