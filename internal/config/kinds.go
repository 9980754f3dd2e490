package config

import (
	"fmt"
	"time"

	"github.com/udisondev/sentinel/internal/model"
)

// KindConfig is the YAML form of an agent kind's tuning.
type KindConfig struct {
	CanShootRanged bool  `yaml:"can_shoot_ranged"`
	CanMeleeAttack bool  `yaml:"can_melee_attack"`
	CanPatrol      bool  `yaml:"can_patrol"`
	MaxHealth      int32 `yaml:"max_health"`

	MoveSpeed     float64       `yaml:"move_speed"`
	RotationSpeed float64       `yaml:"rotation_speed"` // degrees per second
	PatrolRadius  float64       `yaml:"patrol_radius"`
	PatrolArrival float64       `yaml:"patrol_arrival"`
	DwellTime     time.Duration `yaml:"dwell_time"`

	SightRange       float64       `yaml:"sight_range"`
	ViewAngle        float64       `yaml:"view_angle"`
	PeripheralAngle  float64       `yaml:"peripheral_angle"`
	HearingThreshold float64       `yaml:"hearing_threshold"`
	HearingDecay     float64       `yaml:"hearing_decay"`
	AlertLinger      time.Duration `yaml:"alert_linger"`

	InvestigationTime  time.Duration `yaml:"investigation_time"`
	InvestigateArrival float64       `yaml:"investigate_arrival"`
	MaxRotationTime    time.Duration `yaml:"max_rotation_time"`
	ChaseGrace         time.Duration `yaml:"chase_grace"`
	SearchGrace        time.Duration `yaml:"search_grace"`
	SearchRadius       float64       `yaml:"search_radius"`
	AlertRadius        float64       `yaml:"alert_radius"`

	AttackRange    float64          `yaml:"attack_range"`
	MeleeRange     float64          `yaml:"melee_range"`
	MeleeReach     float64          `yaml:"melee_reach"`
	AttackDamage   int32            `yaml:"attack_damage"`
	AttackCooldown time.Duration    `yaml:"attack_cooldown"`
	ImpactOffset   time.Duration    `yaml:"impact_offset"`
	ActionDuration time.Duration    `yaml:"action_duration"`
	IdleMin        time.Duration    `yaml:"idle_min"`
	IdleMax        time.Duration    `yaml:"idle_max"`
	EvadeDistance  float64          `yaml:"evade_distance"`
	HitRecovery    time.Duration    `yaml:"hit_recovery"`
	Projectile     ProjectileConfig `yaml:"projectile"`

	EnrageHealth     int32   `yaml:"enrage_health"`
	EnrageMultiplier float64 `yaml:"enrage_multiplier"`

	DeathRemovalDelay time.Duration `yaml:"death_removal_delay"`
	LootChance        float64       `yaml:"loot_chance"`
	LootKind          string        `yaml:"loot_kind"`

	Phases *PhaseConfig `yaml:"phases"`
}

// ProjectileConfig is the YAML form of a projectile.
type ProjectileConfig struct {
	Kind      string        `yaml:"kind"`
	Speed     float64       `yaml:"speed"`
	Damage    int32         `yaml:"damage"`
	HitRadius float64       `yaml:"hit_radius"`
	Lifetime  time.Duration `yaml:"lifetime"`
	MaxRange  float64       `yaml:"max_range"`
}

// PhaseConfig is the YAML form of the boss phase cycle.
type PhaseConfig struct {
	MeleeDuration      time.Duration    `yaml:"melee_duration"`
	FlyingDuration     time.Duration    `yaml:"flying_duration"`
	VulnerableDuration time.Duration    `yaml:"vulnerable_duration"`
	VolleyInterval     time.Duration    `yaml:"volley_interval"`
	Volley             ProjectileConfig `yaml:"volley"`

	SlamDamage      int32         `yaml:"slam_damage"`
	SlamReach       float64       `yaml:"slam_reach"`
	SlamImpact      time.Duration `yaml:"slam_impact"`
	SlamDuration    time.Duration `yaml:"slam_duration"`
	SlamCooldownMin time.Duration `yaml:"slam_cooldown_min"`
	SlamCooldownMax time.Duration `yaml:"slam_cooldown_max"`
}

func (p ProjectileConfig) spec() (model.ProjectileSpec, error) {
	kind, err := model.ParseProjectileKind(p.Kind)
	if err != nil {
		return model.ProjectileSpec{}, err
	}
	return model.ProjectileSpec{
		Kind:      kind,
		Speed:     p.Speed,
		Damage:    p.Damage,
		HitRadius: p.HitRadius,
		Lifetime:  p.Lifetime,
		MaxRange:  p.MaxRange,
	}, nil
}

// Template builds and validates the agent template for kind name.
func (k KindConfig) Template(name string) (*model.AgentTemplate, error) {
	projectile, err := k.Projectile.spec()
	if err != nil {
		return nil, fmt.Errorf("kind %q: %w", name, err)
	}

	t := &model.AgentTemplate{
		Kind: name,
		Capabilities: model.Capabilities{
			CanShootRanged: k.CanShootRanged,
			CanMeleeAttack: k.CanMeleeAttack,
			CanPatrol:      k.CanPatrol,
		},
		MaxHealth:          k.MaxHealth,
		MoveSpeed:          k.MoveSpeed,
		RotationSpeed:      k.RotationSpeed,
		PatrolRadius:       k.PatrolRadius,
		PatrolArrival:      k.PatrolArrival,
		DwellTime:          k.DwellTime,
		SightRange:         k.SightRange,
		ViewAngle:          k.ViewAngle,
		PeripheralAngle:    k.PeripheralAngle,
		HearingThreshold:   k.HearingThreshold,
		HearingDecay:       k.HearingDecay,
		AlertLinger:        k.AlertLinger,
		InvestigationTime:  k.InvestigationTime,
		InvestigateArrival: k.InvestigateArrival,
		MaxRotationTime:    k.MaxRotationTime,
		ChaseGrace:         k.ChaseGrace,
		SearchGrace:        k.SearchGrace,
		SearchRadius:       k.SearchRadius,
		AlertRadius:        k.AlertRadius,
		AttackRange:        k.AttackRange,
		MeleeRange:         k.MeleeRange,
		MeleeReach:         k.MeleeReach,
		AttackDamage:       k.AttackDamage,
		AttackCooldown:     k.AttackCooldown,
		ImpactOffset:       k.ImpactOffset,
		ActionDuration:     k.ActionDuration,
		IdleMin:            k.IdleMin,
		IdleMax:            k.IdleMax,
		EvadeDistance:      k.EvadeDistance,
		Projectile:         projectile,
		HitRecovery:        k.HitRecovery,
		EnrageHealth:       k.EnrageHealth,
		EnrageMultiplier:   k.EnrageMultiplier,
		DeathRemovalDelay:  k.DeathRemovalDelay,
		LootChance:         k.LootChance,
		LootKind:           k.LootKind,
	}

	if k.Phases != nil {
		volley, err := k.Phases.Volley.spec()
		if err != nil {
			return nil, fmt.Errorf("kind %q: volley: %w", name, err)
		}
		t.Phases = &model.PhaseTemplate{
			MeleeDuration:      k.Phases.MeleeDuration,
			FlyingDuration:     k.Phases.FlyingDuration,
			VulnerableDuration: k.Phases.VulnerableDuration,
			VolleyInterval:     k.Phases.VolleyInterval,
			Volley:             volley,
			SlamDamage:         k.Phases.SlamDamage,
			SlamReach:          k.Phases.SlamReach,
			SlamImpact:         k.Phases.SlamImpact,
			SlamDuration:       k.Phases.SlamDuration,
			SlamCooldownMin:    k.Phases.SlamCooldownMin,
			SlamCooldownMax:    k.Phases.SlamCooldownMax,
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Templates builds every kind template of the configuration.
func (c Simulation) Templates() (map[string]*model.AgentTemplate, error) {
	out := make(map[string]*model.AgentTemplate, len(c.Kinds))
	for name, k := range c.Kinds {
		t, err := k.Template(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		out[name] = t
	}
	return out, nil
}

// baseKind holds the perception and timer tuning every kind starts from.
func baseKind() KindConfig {
	return KindConfig{
		MaxHealth:          100,
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
		HitRecovery:        300 * time.Millisecond,
		DeathRemovalDelay:  15 * time.Second,
	}
}

// DefaultKinds returns the built-in agent kinds.
func DefaultKinds() map[string]KindConfig {
	guard := baseKind()
	guard.CanMeleeAttack = true
	guard.CanPatrol = true
	guard.MoveSpeed = 4
	guard.AttackRange = 3
	guard.MeleeRange = 3
	guard.MeleeReach = 2.5
	guard.AttackDamage = 20
	guard.AttackCooldown = 1500 * time.Millisecond
	guard.ImpactOffset = 500 * time.Millisecond
	guard.ActionDuration = 1500 * time.Millisecond
	guard.IdleMin = time.Second
	guard.IdleMax = 2500 * time.Millisecond
	guard.LootChance = 0.5
	guard.LootKind = "bandage"

	archer := baseKind()
	archer.CanShootRanged = true
	archer.MaxHealth = 60
	archer.RotationSpeed = 90
	archer.DwellTime = 5 * time.Second
	archer.SightRange = 10
	archer.ViewAngle = 120
	archer.PeripheralAngle = 0
	archer.AttackRange = 10
	archer.AttackCooldown = 2 * time.Second
	archer.Projectile = ProjectileConfig{
		Kind: "arrow", Speed: 30, Damage: 100, HitRadius: 0.5,
		Lifetime: 3 * time.Second, MaxRange: 20,
	}
	archer.LootChance = 0.5
	archer.LootKind = "arrows"

	spearman := baseKind()
	spearman.CanShootRanged = true
	spearman.CanMeleeAttack = true
	spearman.CanPatrol = true
	spearman.MoveSpeed = 5
	spearman.SightRange = 15
	spearman.ViewAngle = 90
	spearman.AttackRange = 13
	spearman.MeleeRange = 3
	spearman.MeleeReach = 2.5
	spearman.AttackDamage = 20
	spearman.AttackCooldown = 2 * time.Second
	spearman.ImpactOffset = 300 * time.Millisecond
	spearman.EvadeDistance = 10
	spearman.Projectile = ProjectileConfig{
		Kind: "spear", Speed: 15, Damage: 30, HitRadius: 0.2,
		Lifetime: 3 * time.Second, MaxRange: 20,
	}
	spearman.EnrageHealth = 50
	spearman.EnrageMultiplier = 2
	spearman.LootChance = 0.5
	spearman.LootKind = "bandage"

	brawler := baseKind()
	brawler.CanMeleeAttack = true
	brawler.MoveSpeed = 4
	brawler.SightRange = 10
	brawler.AttackRange = 2
	brawler.MeleeRange = 2
	brawler.MeleeReach = 2.5
	brawler.AttackDamage = 15
	brawler.AttackCooldown = time.Second
	brawler.ImpactOffset = 400 * time.Millisecond
	brawler.ActionDuration = time.Second
	brawler.IdleMin = time.Second
	brawler.IdleMax = 2500 * time.Millisecond

	pharaoh := guard
	pharaoh.CanPatrol = false
	pharaoh.MaxHealth = 200
	pharaoh.AttackRange = 4
	pharaoh.MeleeRange = 4
	pharaoh.MeleeReach = 4
	pharaoh.AttackDamage = 25
	pharaoh.LootChance = 0
	pharaoh.LootKind = ""
	pharaoh.Phases = &PhaseConfig{
		MeleeDuration:      10 * time.Second,
		FlyingDuration:     6 * time.Second,
		VulnerableDuration: 7 * time.Second,
		VolleyInterval:     1500 * time.Millisecond,
		Volley: ProjectileConfig{
			Kind: "rock", Speed: 12, Damage: 25, HitRadius: 0.5,
			Lifetime: 5 * time.Second, MaxRange: 40,
		},
		SlamDamage:      30,
		SlamReach:       20,
		SlamImpact:      time.Second,
		SlamDuration:    2 * time.Second,
		SlamCooldownMin: 3 * time.Second,
		SlamCooldownMax: 5 * time.Second,
	}

	return map[string]KindConfig{
		"guard":    guard,
		"archer":   archer,
		"spearman": spearman,
		"brawler":  brawler,
		"pharaoh":  pharaoh,
	}
}
