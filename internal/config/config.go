package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/perception"
)

// ErrInvalidConfig is returned when a loaded configuration is rejected.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPath overrides the config file location.
const EnvPath = "SENTINEL_CONFIG"

// DefaultPath is used when EnvPath is not set.
const DefaultPath = "config/sentinel.yaml"

// Simulation holds all configuration for a simulation run.
type Simulation struct {
	LogLevel     string        `yaml:"log_level"`
	TickInterval time.Duration `yaml:"tick_interval"`
	Duration     time.Duration `yaml:"duration"` // 0 = until interrupted
	Seed         uint64        `yaml:"seed"`
	View         bool          `yaml:"view"`

	World     WorldConfig     `yaml:"world"`
	Target    TargetConfig    `yaml:"target"`
	Footsteps FootstepsConfig `yaml:"footsteps"`
	Rates     Rates           `yaml:"rates"`
	Mission   MissionConfig   `yaml:"mission"`
	Database  DatabaseConfig  `yaml:"database"`

	Kinds  map[string]KindConfig `yaml:"kinds"`
	Spawns []SpawnConfig         `yaml:"spawns"`
}

// WorldConfig describes the playable area and its static geometry.
type WorldConfig struct {
	MinX     float64      `yaml:"min_x"`
	MinY     float64      `yaml:"min_y"`
	MaxX     float64      `yaml:"max_x"`
	MaxY     float64      `yaml:"max_y"`
	CellSize float64      `yaml:"cell_size"`
	Walls    []WallConfig `yaml:"walls"`
}

// WallConfig is a solid segment blocking sight and muffling sound.
type WallConfig struct {
	X1        float64 `yaml:"x1"`
	Y1        float64 `yaml:"y1"`
	X2        float64 `yaml:"x2"`
	Y2        float64 `yaml:"y2"`
	Thickness float64 `yaml:"thickness"`
}

// TargetConfig describes the player entity and its scripted route.
type TargetConfig struct {
	Name        string        `yaml:"name"`
	X           float64       `yaml:"x"`
	Y           float64       `yaml:"y"`
	MaxHealth   int32         `yaml:"max_health"`
	HitRecovery time.Duration `yaml:"hit_recovery"`

	// Auto-strike: the target hits the nearest agent within reach.
	AutoStrike     bool          `yaml:"auto_strike"`
	AttackDamage   int32         `yaml:"attack_damage"`
	AttackReach    float64       `yaml:"attack_reach"`
	AttackCooldown time.Duration `yaml:"attack_cooldown"`
	ImpactOffset   time.Duration `yaml:"impact_offset"`

	Route []RouteLeg `yaml:"route"`
}

// RouteLeg is one scripted move of the target.
type RouteLeg struct {
	X        float64       `yaml:"x"`
	Y        float64       `yaml:"y"`
	Gait     string        `yaml:"gait"`
	RunBlend float64       `yaml:"run_blend"`
	Speed    float64       `yaml:"speed"`
	Pause    time.Duration `yaml:"pause"` // idle time after arriving
}

// FootstepsConfig tunes how loud the target is.
type FootstepsConfig struct {
	Walk     float64 `yaml:"walk"`
	Run      float64 `yaml:"run"`
	Crouch   float64 `yaml:"crouch"`
	MaxRange float64 `yaml:"max_range"`
	Decay    float64 `yaml:"decay"`
}

// Footsteps converts to perception tuning.
func (f FootstepsConfig) Footsteps() perception.Footsteps {
	return perception.Footsteps{
		Walk:     f.Walk,
		Run:      f.Run,
		Crouch:   f.Crouch,
		MaxRange: f.MaxRange,
		Decay:    f.Decay,
	}
}

// MissionConfig sets the defeat goal of the run.
type MissionConfig struct {
	Required       int    `yaml:"required"` // 0 = no goal
	Kind           string `yaml:"kind"`     // empty = any kind
	StopOnComplete bool   `yaml:"stop_on_complete"`
}

// DatabaseConfig selects where defeat records go.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"` // none, sqlite or postgres
	SQLitePath string `yaml:"sqlite_path"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// SpawnConfig places agents of one kind.
type SpawnConfig struct {
	ID           int64         `yaml:"id"`
	Kind         string        `yaml:"kind"`
	X            float64       `yaml:"x"`
	Y            float64       `yaml:"y"`
	Heading      float64       `yaml:"heading"` // degrees
	Count        int32         `yaml:"count"`
	Respawn      bool          `yaml:"respawn"`
	RespawnDelay time.Duration `yaml:"respawn_delay"`
	Waypoints    []PointConfig `yaml:"waypoints"` // empty = generated
}

// PointConfig is a plain 2D point.
type PointConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// DefaultSimulation returns a small temple scene with every agent kind.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel:     "info",
		TickInterval: 50 * time.Millisecond,
		Seed:         1,
		World: WorldConfig{
			MinX: -100, MinY: -100, MaxX: 100, MaxY: 100,
			CellSize: 16,
			Walls: []WallConfig{
				{X1: -20, Y1: 10, X2: 20, Y2: 10, Thickness: 0.5},
			},
		},
		Target: TargetConfig{
			Name:           "player",
			X:              0,
			Y:              -60,
			MaxHealth:      100,
			HitRecovery:    300 * time.Millisecond,
			AutoStrike:     true,
			AttackDamage:   50,
			AttackReach:    2.5,
			AttackCooldown: time.Second,
			ImpactOffset:   300 * time.Millisecond,
			Route: []RouteLeg{
				{X: 0, Y: -30, Gait: "walk", Speed: 3},
				{X: 30, Y: -30, Gait: "crouch", Speed: 1.5},
				{X: 30, Y: 30, Gait: "run", RunBlend: 1, Speed: 6, Pause: 2 * time.Second},
			},
		},
		Footsteps: FootstepsConfig(perception.DefaultFootsteps()),
		Rates:     DefaultRates(),
		Database: DatabaseConfig{
			Driver:     "none",
			SQLitePath: "sentinel.db",
			Host:       "localhost",
			Port:       5432,
			User:       "sentinel",
			Password:   "sentinel",
			DBName:     "sentinel",
			SSLMode:    "disable",
		},
		Kinds: DefaultKinds(),
		Spawns: []SpawnConfig{
			{ID: 1, Kind: "guard", X: -30, Y: -20, Count: 2, Respawn: true, RespawnDelay: 30 * time.Second},
			{ID: 2, Kind: "archer", X: 25, Y: 0, Heading: 270, Count: 1},
			{ID: 3, Kind: "spearman", X: 40, Y: 40, Count: 1, Respawn: true, RespawnDelay: 30 * time.Second},
			{ID: 4, Kind: "brawler", X: 0, Y: 30, Count: 1},
			{ID: 5, Kind: "pharaoh", X: 0, Y: 70, Heading: 270, Count: 1},
		},
	}
}

// Path returns the config path from the environment or the default.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadSimulation loads simulation config from a YAML file.
// If the file doesn't exist, returns defaults.
// Kinds present in the file are merged onto the built-in kind of the same name.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	var raw struct {
		Kinds map[string]yaml.Node `yaml:"kinds"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parsing kinds in %s: %w", path, err)
	}
	defaults := DefaultKinds()
	for name, node := range raw.Kinds {
		k := defaults[name]
		if err := node.Decode(&k); err != nil {
			return cfg, fmt.Errorf("parsing kind %q in %s: %w", name, path, err)
		}
		cfg.Kinds[name] = k
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the whole configuration, including every kind template.
func (c Simulation) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fail("%v", err)
	}
	if c.TickInterval <= 0 {
		return fail("tick interval must be positive, got %v", c.TickInterval)
	}
	if c.Duration < 0 {
		return fail("duration must not be negative, got %v", c.Duration)
	}
	w := c.World
	if w.MaxX <= w.MinX || w.MaxY <= w.MinY {
		return fail("world bounds are empty")
	}
	if w.CellSize <= 0 {
		return fail("cell size must be positive, got %v", w.CellSize)
	}
	if c.Target.MaxHealth <= 0 {
		return fail("target max health must be positive, got %d", c.Target.MaxHealth)
	}
	if c.Target.AutoStrike && (c.Target.AttackDamage <= 0 || c.Target.AttackReach <= 0 || c.Target.AttackCooldown <= 0) {
		return fail("target auto-strike needs positive damage, reach and cooldown")
	}
	for i, leg := range c.Target.Route {
		if _, ok := model.ParseGait(leg.Gait); !ok {
			return fail("route leg %d: unknown gait %q", i, leg.Gait)
		}
		if leg.Speed <= 0 {
			return fail("route leg %d: speed must be positive, got %v", i, leg.Speed)
		}
	}
	if c.Footsteps.MaxRange <= 0 || c.Footsteps.Decay <= 0 {
		return fail("footsteps max range and decay must be positive")
	}
	if c.Rates.LootChanceMultiplier < 0 {
		return fail("loot chance multiplier must not be negative")
	}

	switch c.Database.Driver {
	case "", "none", "postgres":
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fail("sqlite driver needs sqlite_path")
		}
	default:
		return fail("unknown database driver %q", c.Database.Driver)
	}

	for name, k := range c.Kinds {
		if _, err := k.Template(name); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	if c.Mission.Kind != "" {
		if _, ok := c.Kinds[c.Mission.Kind]; !ok {
			return fail("mission kind %q is not defined", c.Mission.Kind)
		}
	}

	ids := make(map[int64]struct{}, len(c.Spawns))
	for _, s := range c.Spawns {
		if _, dup := ids[s.ID]; dup {
			return fail("duplicate spawn id %d", s.ID)
		}
		ids[s.ID] = struct{}{}
		if _, ok := c.Kinds[s.Kind]; !ok {
			return fail("spawn %d: unknown kind %q", s.ID, s.Kind)
		}
		if s.Count <= 0 {
			return fail("spawn %d: count must be positive, got %d", s.ID, s.Count)
		}
		if s.X < w.MinX || s.X > w.MaxX || s.Y < w.MinY || s.Y > w.MaxY {
			return fail("spawn %d: (%v, %v) is outside the world", s.ID, s.X, s.Y)
		}
		if s.Respawn && s.RespawnDelay < 0 {
			return fail("spawn %d: respawn delay must not be negative", s.ID)
		}
	}
	return nil
}

// ParseLevel converts a config log level to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
