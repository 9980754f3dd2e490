package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/sentinel/internal/model"
)

// GuardTemplate возвращает шаблон патрульного стражника ближнего боя.
// Каждый вызов создаёт новый экземпляр, тесты могут его менять.
func GuardTemplate() *model.AgentTemplate {
	return &model.AgentTemplate{
		Kind:               "guard",
		Capabilities:       model.Capabilities{CanMeleeAttack: true, CanPatrol: true},
		MaxHealth:          100,
		MoveSpeed:          4,
		RotationSpeed:      180,
		PatrolRadius:       20,
		PatrolArrival:      5,
		DwellTime:          2 * time.Second,
		SightRange:         20,
		ViewAngle:          60,
		PeripheralAngle:    160,
		HearingThreshold:   0.5,
		HearingDecay:       2,
		AlertLinger:        5 * time.Second,
		InvestigationTime:  3 * time.Second,
		InvestigateArrival: 1,
		MaxRotationTime:    2 * time.Second,
		ChaseGrace:         3 * time.Second,
		SearchGrace:        10 * time.Second,
		SearchRadius:       5,
		AlertRadius:        30,
		AttackRange:        3,
		MeleeRange:         3,
		MeleeReach:         2.5,
		AttackDamage:       20,
		AttackCooldown:     1500 * time.Millisecond,
		ImpactOffset:       500 * time.Millisecond,
		ActionDuration:     1500 * time.Millisecond,
		IdleMin:            time.Second,
		IdleMax:            2500 * time.Millisecond,
		HitRecovery:        300 * time.Millisecond,
		DeathRemovalDelay:  15 * time.Second,
		LootChance:         0.5,
		LootKind:           "bandage",
	}
}

// ArcherTemplate возвращает неподвижного лучника, осматривающего сектор.
func ArcherTemplate() *model.AgentTemplate {
	return &model.AgentTemplate{
		Kind:               "archer",
		Capabilities:       model.Capabilities{CanShootRanged: true},
		MaxHealth:          60,
		RotationSpeed:      90,
		DwellTime:          5 * time.Second,
		SightRange:         10,
		ViewAngle:          120,
		PeripheralAngle:    0,
		HearingThreshold:   0.5,
		HearingDecay:       2,
		AlertLinger:        5 * time.Second,
		InvestigationTime:  3 * time.Second,
		MaxRotationTime:    2 * time.Second,
		ChaseGrace:         3 * time.Second,
		SearchGrace:        10 * time.Second,
		AlertRadius:        30,
		AttackRange:        10,
		AttackCooldown:     2 * time.Second,
		Projectile: model.ProjectileSpec{
			Kind:      model.ProjectileArrow,
			Speed:     30,
			Damage:    100,
			HitRadius: 0.5,
			Lifetime:  3 * time.Second,
			MaxRange:  20,
		},
		DeathRemovalDelay: 15 * time.Second,
	}
}

// SpearmanTemplate возвращает копейщика: метает копья издалека и колет вблизи.
func SpearmanTemplate() *model.AgentTemplate {
	return &model.AgentTemplate{
		Kind:               "spearman",
		Capabilities:       model.Capabilities{CanShootRanged: true, CanMeleeAttack: true, CanPatrol: true},
		MaxHealth:          100,
		MoveSpeed:          5,
		RotationSpeed:      180,
		PatrolRadius:       20,
		PatrolArrival:      5,
		DwellTime:          2 * time.Second,
		SightRange:         15,
		ViewAngle:          90,
		PeripheralAngle:    160,
		HearingThreshold:   0.5,
		HearingDecay:       2,
		AlertLinger:        5 * time.Second,
		InvestigationTime:  3 * time.Second,
		InvestigateArrival: 1,
		MaxRotationTime:    2 * time.Second,
		ChaseGrace:         3 * time.Second,
		SearchGrace:        10 * time.Second,
		SearchRadius:       5,
		AlertRadius:        30,
		AttackRange:        13,
		MeleeRange:         3,
		MeleeReach:         2.5,
		AttackDamage:       20,
		AttackCooldown:     2 * time.Second,
		ImpactOffset:       300 * time.Millisecond,
		EvadeDistance:      10,
		Projectile: model.ProjectileSpec{
			Kind:      model.ProjectileSpear,
			Speed:     15,
			Damage:    30,
			HitRadius: 0.2,
			Lifetime:  3 * time.Second,
			MaxRange:  20,
		},
		EnrageHealth:      50,
		EnrageMultiplier:  2,
		DeathRemovalDelay: 15 * time.Second,
	}
}

// PharaohTemplate возвращает босса с циклом фаз.
func PharaohTemplate() *model.AgentTemplate {
	tmpl := GuardTemplate()
	tmpl.Kind = "pharaoh"
	tmpl.Capabilities = model.Capabilities{CanMeleeAttack: true}
	tmpl.MaxHealth = 200
	tmpl.AttackRange = 4
	tmpl.MeleeRange = 4
	tmpl.MeleeReach = 4
	tmpl.LootChance = 0
	tmpl.LootKind = ""
	tmpl.Phases = &model.PhaseTemplate{
		MeleeDuration:      10 * time.Second,
		FlyingDuration:     6 * time.Second,
		VulnerableDuration: 7 * time.Second,
		VolleyInterval:     1500 * time.Millisecond,
		Volley: model.ProjectileSpec{
			Kind:      model.ProjectileRock,
			Speed:     12,
			Damage:    25,
			HitRadius: 0.5,
			Lifetime:  5 * time.Second,
			MaxRange:  40,
		},
		SlamDamage:      30,
		SlamReach:       20,
		SlamImpact:      time.Second,
		SlamDuration:    2 * time.Second,
		SlamCooldownMin: 3 * time.Second,
		SlamCooldownMax: 5 * time.Second,
	}
	return tmpl
}

// NewAgent создаёт агента и падает тест при ошибке валидации шаблона.
func NewAgent(tb testing.TB, id uint32, tmpl *model.AgentTemplate, x, y, heading float64) *model.Agent {
	tb.Helper()

	a, err := model.NewAgent(id, tmpl.Kind, tmpl, model.NewLocation(x, y, heading))
	require.NoError(tb, err)
	return a
}

// NewTarget создаёт игрока-цель со 100 единицами здоровья.
func NewTarget(tb testing.TB, id uint32, x, y float64) *model.Target {
	tb.Helper()
	return model.NewTarget(id, "player", model.NewLocation(x, y, 0), 100, 0)
}
