package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTemplate is returned when agent tuning is rejected at creation time.
var ErrInvalidTemplate = errors.New("invalid agent template")

// Capabilities selects which behaviours of the shared state machine an agent kind uses.
type Capabilities struct {
	CanShootRanged bool
	CanMeleeAttack bool
	CanPatrol      bool
}

// CanAttack reports whether the kind has any attack at all.
func (c Capabilities) CanAttack() bool {
	return c.CanShootRanged || c.CanMeleeAttack
}

// ProjectileKind identifies what a ranged agent throws or shoots.
type ProjectileKind uint8

const (
	ProjectileNone ProjectileKind = iota
	ProjectileArrow
	ProjectileSpear
	ProjectileRock
)

// String returns the projectile kind name
func (k ProjectileKind) String() string {
	switch k {
	case ProjectileArrow:
		return "arrow"
	case ProjectileSpear:
		return "spear"
	case ProjectileRock:
		return "rock"
	default:
		return "none"
	}
}

// ParseProjectileKind converts a config name into a ProjectileKind.
func ParseProjectileKind(name string) (ProjectileKind, error) {
	switch name {
	case "", "none":
		return ProjectileNone, nil
	case "arrow":
		return ProjectileArrow, nil
	case "spear":
		return ProjectileSpear, nil
	case "rock":
		return ProjectileRock, nil
	default:
		return ProjectileNone, fmt.Errorf("unknown projectile kind %q", name)
	}
}

// ProjectileSpec describes the projectile an agent fires.
type ProjectileSpec struct {
	Kind      ProjectileKind
	Speed     float64 // units per second
	Damage    int32
	HitRadius float64
	Lifetime  time.Duration
	MaxRange  float64
}

// PhaseTemplate drives the boss phase cycle Melee → Flying → Vulnerable.
type PhaseTemplate struct {
	MeleeDuration      time.Duration
	FlyingDuration     time.Duration
	VulnerableDuration time.Duration
	VolleyInterval     time.Duration
	Volley             ProjectileSpec

	// Ground slam during Melee. Zero SlamDamage disables it.
	SlamDamage      int32
	SlamReach       float64
	SlamImpact      time.Duration // from slam start to the quake
	SlamDuration    time.Duration // no other action while it plays
	SlamCooldownMin time.Duration
	SlamCooldownMax time.Duration
}

// AgentTemplate is the per-kind tuning shared by every agent of that kind.
// Angles are in degrees, distances in world units, rates per second.
type AgentTemplate struct {
	Kind         string
	Capabilities Capabilities
	MaxHealth    int32

	// Movement
	MoveSpeed     float64
	RotationSpeed float64 // degrees per second
	PatrolRadius  float64
	PatrolArrival float64
	DwellTime     time.Duration

	// Perception
	SightRange       float64
	ViewAngle        float64 // full central cone; detection uses half of it
	PeripheralAngle  float64 // compared against the off-forward angle as is
	HearingThreshold float64
	HearingDecay     float64 // heard intensity lost per second
	AlertLinger      time.Duration

	// Behaviour timers
	InvestigationTime  time.Duration
	InvestigateArrival float64
	MaxRotationTime    time.Duration
	ChaseGrace         time.Duration
	SearchGrace        time.Duration
	SearchRadius       float64
	AlertRadius        float64

	// Combat
	AttackRange    float64
	MeleeRange     float64
	MeleeReach     float64 // per-axis reach checked when the blow lands
	AttackDamage   int32
	AttackCooldown time.Duration
	ImpactOffset   time.Duration
	ActionDuration time.Duration
	IdleMin        time.Duration
	IdleMax        time.Duration
	EvadeDistance  float64
	Projectile     ProjectileSpec
	HitRecovery    time.Duration

	// Enrage widens sight and attack range once health drops to the threshold.
	// Zero EnrageHealth disables it.
	EnrageHealth     int32
	EnrageMultiplier float64

	// Death
	DeathRemovalDelay time.Duration
	LootChance        float64
	LootKind          string

	Phases *PhaseTemplate
}

// Validate rejects tuning that would make the agent misbehave silently.
func (t *AgentTemplate) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: kind %q: %s", ErrInvalidTemplate, t.Kind, fmt.Sprintf(format, args...))
	}

	if t.Kind == "" {
		return fmt.Errorf("%w: empty kind", ErrInvalidTemplate)
	}
	if t.MaxHealth <= 0 {
		return fail("max health must be positive, got %d", t.MaxHealth)
	}
	if t.MoveSpeed < 0 {
		return fail("move speed must not be negative, got %v", t.MoveSpeed)
	}
	if t.Capabilities.CanPatrol && t.MoveSpeed == 0 {
		return fail("patrolling kind needs a positive move speed")
	}
	if t.RotationSpeed <= 0 {
		return fail("rotation speed must be positive, got %v", t.RotationSpeed)
	}
	if t.SightRange <= 0 {
		return fail("sight range must be positive, got %v", t.SightRange)
	}
	if t.ViewAngle <= 0 || t.ViewAngle > 360 {
		return fail("view angle must be in (0, 360], got %v", t.ViewAngle)
	}
	if t.PeripheralAngle < 0 || t.PeripheralAngle > 180 {
		return fail("peripheral angle must be in [0, 180], got %v", t.PeripheralAngle)
	}
	if t.HearingThreshold < 0 {
		return fail("hearing threshold must not be negative, got %v", t.HearingThreshold)
	}
	if t.HearingDecay <= 0 {
		return fail("hearing decay must be positive, got %v", t.HearingDecay)
	}
	if t.AlertRadius < 0 {
		return fail("alert radius must not be negative, got %v", t.AlertRadius)
	}
	if t.InvestigationTime <= 0 || t.MaxRotationTime <= 0 {
		return fail("investigation and rotation times must be positive")
	}
	if t.ChaseGrace <= 0 || t.SearchGrace <= 0 {
		return fail("chase and search grace periods must be positive")
	}
	if t.SearchGrace < t.ChaseGrace {
		return fail("search grace %v is shorter than chase grace %v", t.SearchGrace, t.ChaseGrace)
	}
	if t.Capabilities.CanPatrol && t.PatrolArrival <= 0 {
		return fail("patrol arrival radius must be positive")
	}
	if t.MoveSpeed > 0 && t.InvestigateArrival <= 0 {
		return fail("investigate arrival radius must be positive")
	}
	if t.DwellTime < 0 || t.ImpactOffset < 0 || t.ActionDuration < 0 || t.HitRecovery < 0 {
		return fail("durations must not be negative")
	}
	if t.IdleMax < t.IdleMin || t.IdleMin < 0 {
		return fail("idle range [%v, %v] is invalid", t.IdleMin, t.IdleMax)
	}
	if t.Capabilities.CanAttack() {
		if t.AttackRange <= 0 {
			return fail("attack range must be positive, got %v", t.AttackRange)
		}
		if t.AttackCooldown <= 0 {
			return fail("attack cooldown must be positive, got %v", t.AttackCooldown)
		}
	}
	if t.Capabilities.CanMeleeAttack {
		if t.MeleeRange <= 0 || t.MeleeReach <= 0 {
			return fail("melee range and reach must be positive")
		}
		if t.AttackDamage <= 0 {
			return fail("melee damage must be positive, got %d", t.AttackDamage)
		}
	}
	if t.Capabilities.CanShootRanged {
		if err := t.Projectile.validate(); err != nil {
			return fail("projectile: %v", err)
		}
	}
	if t.EnrageHealth < 0 {
		return fail("enrage health must not be negative, got %d", t.EnrageHealth)
	}
	if t.EnrageHealth > 0 && t.EnrageMultiplier < 1 {
		return fail("enrage multiplier must be at least 1, got %v", t.EnrageMultiplier)
	}
	if t.DeathRemovalDelay < 0 {
		return fail("death removal delay must not be negative")
	}
	if t.LootChance < 0 || t.LootChance > 1 {
		return fail("loot chance must be in [0, 1], got %v", t.LootChance)
	}
	if t.Phases != nil {
		p := t.Phases
		if p.MeleeDuration <= 0 || p.FlyingDuration <= 0 || p.VulnerableDuration <= 0 || p.VolleyInterval <= 0 {
			return fail("phase durations must be positive")
		}
		if err := p.Volley.validate(); err != nil {
			return fail("volley: %v", err)
		}
		if p.SlamDamage < 0 {
			return fail("slam damage must not be negative, got %d", p.SlamDamage)
		}
		if p.SlamDamage > 0 {
			if p.SlamReach <= 0 || p.SlamCooldownMin <= 0 {
				return fail("slam reach and cooldown must be positive")
			}
			if p.SlamCooldownMax < p.SlamCooldownMin {
				return fail("slam cooldown max %v is below min %v", p.SlamCooldownMax, p.SlamCooldownMin)
			}
			if p.SlamImpact < 0 || p.SlamDuration < p.SlamImpact {
				return fail("slam must last at least until its impact")
			}
		}
	}
	return nil
}

func (p ProjectileSpec) validate() error {
	switch {
	case p.Kind == ProjectileNone:
		return errors.New("kind is required")
	case p.Speed <= 0:
		return fmt.Errorf("speed must be positive, got %v", p.Speed)
	case p.Damage <= 0:
		return fmt.Errorf("damage must be positive, got %d", p.Damage)
	case p.HitRadius <= 0:
		return fmt.Errorf("hit radius must be positive, got %v", p.HitRadius)
	case p.Lifetime <= 0:
		return fmt.Errorf("lifetime must be positive, got %v", p.Lifetime)
	case p.MaxRange <= 0:
		return fmt.Errorf("max range must be positive, got %v", p.MaxRange)
	}
	return nil
}
