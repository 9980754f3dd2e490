package ai

import (
	"time"

	"github.com/udisondev/sentinel/internal/model"
)

// Controller represents AI controller interface for agents
type Controller interface {
	// Start starts AI controller
	Start()

	// Stop stops AI controller
	Stop()

	// State returns current behaviour state
	State() model.State

	// Tick advances the controller by dt of simulation time
	Tick(dt time.Duration)
}

// Listener receives stimuli from outside the agent's own tick:
// propagated sounds, ally alerts and incoming damage.
type Listener interface {
	// OnSoundHeard reports a sound of the given attenuated intensity.
	// Returns true if the agent reacted.
	OnSoundHeard(pos model.Location, intensity float64) bool

	// OnAlerted forces investigation of pos unless the agent is already
	// chasing or attacking.
	// Returns true if the agent reacted.
	OnAlerted(pos model.Location) bool

	// NotifyDamage handles agent receiving damage from attackerID standing at from.
	NotifyDamage(attackerID uint32, from model.Location)

	// NotifyDeath reports that combat has killed the agent.
	NotifyDeath()
}

// Presenter flags and triggers.
const (
	FlagWalking     = "is_walking"
	FlagAiming      = "is_aiming"
	FlagHitReaction = "HitReaction"
	FlagDying       = "isDying"
	FlagEnraged     = "is_enraged"
	FlagFlying      = "isFlying"
	FlagVulnerable  = "vulnerable"

	TriggerAttack = "attack"
	TriggerShoot  = "shoot"
	TriggerVolley = "throwRocks"
	TriggerSlam   = "jumpAttack"
)

// Presenter receives fire-and-forget presentation hints.
// The core never reads anything back from it.
type Presenter interface {
	StateChanged(agentID uint32, state model.State)
	SetFlag(agentID uint32, flag string, on bool)
	Trigger(agentID uint32, name string)
}
