package ai

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sentinel/internal/combat"
	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/testutil"
	"github.com/udisondev/sentinel/internal/world"
)

func newTestBoss(t *testing.T, ref *targetRef) (*PhaseController, *recorder, *int) {
	t.Helper()
	b := newTestBrain(t, testutil.PharaohTemplate(), 0, 0, 0, ref, nil)
	rec := newRecorder()
	b.SetPresenter(rec)

	rocks := 0
	b.SetLaunchFunc(func(_ *model.Agent, _ *model.Target, spec model.ProjectileSpec) {
		if spec.Kind == model.ProjectileRock {
			rocks++
		}
	})
	return NewPhaseController(b), rec, &rocks
}

func TestPhaseController_WaitsForEngagement(t *testing.T) {
	ref := &targetRef{}
	boss, _, _ := newTestBoss(t, ref)

	assert.True(t, boss.Brain().Agent().Health().Invincible(), "boss is invincible from creation")

	runTicks(boss, 200)
	assert.Equal(t, PhaseMelee, boss.Phase())
	assert.Equal(t, model.StatePatrolling, boss.State())
}

func TestPhaseController_FullCycle(t *testing.T) {
	ref := &targetRef{t: testutil.NewTarget(t, 0x10000001, 3, 0)}
	boss, rec, rocks := newTestBoss(t, ref)
	health := boss.Brain().Agent().Health()

	boss.Tick(tick)
	require.Equal(t, model.StateAttacking, boss.State())
	assert.Equal(t, PhaseMelee, boss.Phase())

	runTicks(boss, 99)
	assert.Equal(t, PhaseMelee, boss.Phase())
	runTicks(boss, 1)
	require.Equal(t, PhaseFlying, boss.Phase())
	assert.True(t, rec.flags[FlagFlying])
	assert.True(t, health.Invincible())

	runTicks(boss, 59)
	assert.Equal(t, PhaseFlying, boss.Phase())
	runTicks(boss, 1)
	require.Equal(t, PhaseVulnerable, boss.Phase())
	assert.Equal(t, 4, *rocks, "volleys at 0s, 1.5s, 3s and 4.5s of flight")
	assert.False(t, rec.flags[FlagFlying])
	assert.True(t, rec.flags[FlagVulnerable])
	assert.False(t, health.Invincible())

	applied, _ := health.Damage(30)
	assert.Equal(t, int32(30), applied)

	runTicks(boss, 69)
	assert.Equal(t, PhaseVulnerable, boss.Phase())
	runTicks(boss, 1)
	assert.Equal(t, PhaseMelee, boss.Phase())
	assert.True(t, health.Invincible())
	assert.False(t, rec.flags[FlagVulnerable])

	applied, _ = health.Damage(30)
	assert.Zero(t, applied)
	assert.Equal(t, int32(170), health.Current())
}

func TestPhaseController_NoAttacksWhileVulnerable(t *testing.T) {
	ref := &targetRef{t: testutil.NewTarget(t, 0x10000001, 3, 0)}
	boss, _, _ := newTestBoss(t, ref)

	strikes := 0
	boss.Brain().SetAttackFunc(func(*model.Agent, *model.Target) { strikes++ })

	runTicks(boss, 161) // activation, melee and flying
	require.Equal(t, PhaseVulnerable, boss.Phase())

	before := strikes
	runTicks(boss, 69)
	assert.Equal(t, before, strikes)
}

func TestPhaseController_RockNeedsLiveTarget(t *testing.T) {
	target := testutil.NewTarget(t, 0x10000001, 3, 0)
	ref := &targetRef{t: target}
	boss, _, rocks := newTestBoss(t, ref)

	runTicks(boss, 101)
	require.Equal(t, PhaseFlying, boss.Phase())

	ref.t = nil
	runTicks(boss, 30)
	assert.Zero(t, *rocks)
}

func TestBossPhase_String(t *testing.T) {
	assert.Equal(t, "melee", PhaseMelee.String())
	assert.Equal(t, "flying", PhaseFlying.String())
	assert.Equal(t, "vulnerable", PhaseVulnerable.String())
	assert.Equal(t, "unknown", BossPhase(9).String())
}

func TestPhaseController_Reconfigure(t *testing.T) {
	ref := &targetRef{t: testutil.NewTarget(t, 0x10000001, 3, 0)}
	boss, _, _ := newTestBoss(t, ref)

	boss.Tick(tick)
	require.Equal(t, PhaseMelee, boss.Phase())

	retuned := testutil.PharaohTemplate()
	retuned.Phases.MeleeDuration = retuned.Phases.MeleeDuration / 2
	require.NoError(t, boss.Brain().Agent().SetTemplate(retuned))
	boss.Reconfigure()

	runTicks(boss, 50)
	assert.Equal(t, PhaseFlying, boss.Phase())
}

func TestPhaseController_GroundSlam(t *testing.T) {
	target := testutil.NewTarget(t, 0x10000001, 3, 0)
	ref := &targetRef{t: target}
	boss, rec, _ := newTestBoss(t, ref)

	phases := boss.Brain().Agent().Template().Phases
	phases.SlamCooldownMin = 2 * time.Second
	phases.SlamCooldownMax = 2 * time.Second

	sched := combat.NewScheduler()
	resolver := combat.NewResolver(sched, nil, world.NewIDGenerator(), rand.New(rand.NewPCG(1, 2)))
	slams, boxes := 0, 0
	slam := resolver.SlamFunc()
	boss.SetSlamFunc(func(a *model.Agent, tg *model.Target) {
		slams++
		slam(a, tg)
	})
	boss.Brain().SetAttackFunc(func(*model.Agent, *model.Target) { boxes++ })

	advance := func(n int) {
		for range n {
			boss.Tick(tick)
			sched.Advance(tick)
		}
	}

	fired := 0
	for i := 1; i <= 60 && slams == 0; i++ {
		advance(1)
		fired = i
	}
	require.Equal(t, 1, slams, "boss never slammed")
	assert.Greater(t, fired, 20, "slam waits for its cooldown")
	assert.Equal(t, PhaseMelee, boss.Phase())
	assert.Contains(t, rec.triggers, TriggerSlam)
	assert.Equal(t, int32(100), target.Health().Current(), "quake lands at the impact offset")

	before := boxes
	advance(20)
	assert.Equal(t, int32(70), target.Health().Current())
	assert.Equal(t, before, boxes, "no boxing while the slam plays")
	assert.Equal(t, 1, slams)
	assert.Equal(t, model.StateAttacking, boss.State())
}

func TestPhaseController_NoSlamOutsideMelee(t *testing.T) {
	ref := &targetRef{t: testutil.NewTarget(t, 0x10000001, 3, 0)}
	boss, _, _ := newTestBoss(t, ref)

	slams := 0
	boss.SetSlamFunc(func(*model.Agent, *model.Target) { slams++ })

	runTicks(boss, 101)
	require.Equal(t, PhaseFlying, boss.Phase())

	slams = 0
	runTicks(boss, 60+70-1) // flying and vulnerable
	require.Equal(t, PhaseVulnerable, boss.Phase())
	assert.Zero(t, slams)
}

func TestPhaseController_NotifyDeathClearsPhaseFlags(t *testing.T) {
	ref := &targetRef{t: testutil.NewTarget(t, 0x10000001, 3, 0)}
	boss, rec, _ := newTestBoss(t, ref)

	runTicks(boss, 161)
	require.Equal(t, PhaseVulnerable, boss.Phase())
	require.True(t, rec.flags[FlagVulnerable])

	_, killed := boss.Brain().Agent().Health().Damage(500)
	require.True(t, killed)
	require.True(t, boss.Brain().Agent().SetState(model.StateDead))
	boss.NotifyDeath()

	assert.False(t, rec.flags[FlagVulnerable])
	assert.Equal(t, model.StateDead, rec.states[len(rec.states)-1])
}
