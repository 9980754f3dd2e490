package ai

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/sentinel/internal/combat"
	"github.com/udisondev/sentinel/internal/model"
	"github.com/udisondev/sentinel/internal/perception"
	"github.com/udisondev/sentinel/internal/testutil"
	"github.com/udisondev/sentinel/internal/world"
)

type alertFixture struct {
	world   *world.World
	manager *TickManager
	alerter *Alerter
	brains  map[uint32]*Brain
}

func newAlertFixture(t *testing.T) *alertFixture {
	t.Helper()
	w := testutil.NewWorld(t)
	m := NewTickManager(tick)
	return &alertFixture{
		world:   w,
		manager: m,
		alerter: NewAlerter(w, m),
		brains:  make(map[uint32]*Brain),
	}
}

func (f *alertFixture) add(t *testing.T, id uint32, tmpl *model.AgentTemplate, x, y float64) *Brain {
	t.Helper()
	a := testutil.NewAgent(t, id, tmpl, x, y, 0)
	require.NoError(t, f.world.AddAgent(a))
	b := NewBrain(a, nil, f.world.Geometry())
	f.manager.Register(id, b)
	f.brains[id] = b
	return b
}

// addHunter registers a brain that sees ref and alerts allies through the fixture.
func (f *alertFixture) addHunter(t *testing.T, id uint32, x, y float64, ref *targetRef) *Brain {
	t.Helper()
	a := testutil.NewAgent(t, id, testutil.GuardTemplate(), x, y, 0)
	require.NoError(t, f.world.AddAgent(a))
	b := NewBrain(a, ref.get, f.world.Geometry())
	b.SetMoveFunc(f.world.MoveAgent)
	b.SetAlertFunc(f.alerter.AlertFunc())
	f.manager.Register(id, b)
	f.brains[id] = b
	return b
}

func TestAlertNearby_SkipsChasing(t *testing.T) {
	f := newAlertFixture(t)
	origin := f.add(t, 1, testutil.GuardTemplate(), 0, 0)
	a := f.add(t, 2, testutil.GuardTemplate(), 5, 0)
	b := f.add(t, 3, testutil.GuardTemplate(), 0, 5)
	chaser := f.add(t, 4, testutil.GuardTemplate(), -5, 0)
	chaser.NotifyDamage(0x10000002, model.NewLocation(-20, 0, 0))
	require.Equal(t, model.StateChasing, chaser.State())

	spotted := model.NewLocation(12, 8, 0)
	n := f.alerter.AlertNearby(origin.Agent(), spotted, 30)

	assert.Equal(t, 2, n)
	assert.Equal(t, model.StateInvestigating, a.State())
	assert.Equal(t, model.StateInvestigating, b.State())
	assert.Equal(t, spotted, a.InvestigateTarget())
	assert.Equal(t, spotted, b.InvestigateTarget())
	assert.Equal(t, model.StateChasing, chaser.State())
	assert.Equal(t, model.StatePatrolling, origin.State(), "origin is never alerted by itself")
}

func TestAlertNearby_RadiusAndDead(t *testing.T) {
	f := newAlertFixture(t)
	origin := f.add(t, 1, testutil.GuardTemplate(), 0, 0)
	far := f.add(t, 2, testutil.GuardTemplate(), 40, 0)
	dead := f.add(t, 3, testutil.GuardTemplate(), 3, 3)
	require.True(t, dead.Agent().SetState(model.StateDead))

	n := f.alerter.AlertNearby(origin.Agent(), model.NewLocation(1, 1, 0), 30)

	assert.Zero(t, n)
	assert.Equal(t, model.StatePatrolling, far.State())
	assert.Equal(t, model.StateDead, dead.State())
}

func TestAlertNearby_LastCallWins(t *testing.T) {
	f := newAlertFixture(t)
	first := f.add(t, 1, testutil.GuardTemplate(), 0, 0)
	second := f.add(t, 2, testutil.GuardTemplate(), 10, 0)
	listener := f.add(t, 3, testutil.GuardTemplate(), 5, 0)

	f.alerter.AlertNearby(first.Agent(), model.NewLocation(-3, 0, 0), 30)
	f.alerter.AlertNearby(second.Agent(), model.NewLocation(15, 2, 0), 30)

	assert.Equal(t, model.StateInvestigating, listener.State())
	assert.Equal(t, model.NewLocation(15, 2, 0), listener.InvestigateTarget())
}

func TestAlerter_AlertFuncUsesTemplateRadius(t *testing.T) {
	f := newAlertFixture(t)
	origin := f.add(t, 1, testutil.GuardTemplate(), 0, 0)
	near := f.add(t, 2, testutil.GuardTemplate(), 25, 0)
	far := f.add(t, 3, testutil.GuardTemplate(), 0, 35)

	f.alerter.AlertFunc()(origin.Agent(), model.NewLocation(5, 5, 0))

	assert.Equal(t, model.StateInvestigating, near.State())
	assert.Equal(t, model.StatePatrolling, far.State())
}

func TestAlerter_PropagateSound(t *testing.T) {
	f := newAlertFixture(t)

	loose := testutil.GuardTemplate()
	loose.HearingThreshold = 2
	strict := testutil.GuardTemplate()
	strict.HearingThreshold = 3

	hears := f.add(t, 1, loose, 10, 0)
	deaf := f.add(t, 2, strict, 0, 10)
	outOfRange := f.add(t, 3, loose, 0, 60)

	// 5·exp(-0.8) ≈ 2.247 at distance 10
	ev := perception.SoundEvent{SourceID: 0x10000001, Origin: model.NewLocation(0, 0, 0), Intensity: 5, MaxRange: 25}
	n := f.alerter.PropagateSound(ev, f.world.Geometry())

	assert.Equal(t, 1, n)
	assert.Equal(t, model.StateInvestigating, hears.State())
	assert.Equal(t, model.StatePatrolling, deaf.State())
	assert.Equal(t, model.StatePatrolling, outOfRange.State())
}

func TestAlerter_PropagateSoundThroughWall(t *testing.T) {
	f := newAlertFixture(t)
	f.world.Geometry().AddWall(model.NewLocation(5, -10, 0), model.NewLocation(5, 10, 0), 0.5)

	tmpl := testutil.GuardTemplate()
	tmpl.HearingThreshold = 1
	behindWall := f.add(t, 1, tmpl, 10, 0)

	// 5·exp(-0.8)·0.2 ≈ 0.45, below the threshold
	ev := perception.SoundEvent{SourceID: 0x10000001, Origin: model.NewLocation(0, 0, 0), Intensity: 5, MaxRange: 25}
	assert.Zero(t, f.alerter.PropagateSound(ev, f.world.Geometry()))
	assert.Equal(t, model.StatePatrolling, behindWall.State())
}

func TestAlertNearby_SkipsAttacking(t *testing.T) {
	f := newAlertFixture(t)
	origin := f.add(t, 1, testutil.GuardTemplate(), -10, 0)
	fighter := f.add(t, 2, testutil.GuardTemplate(), 0, 0)
	fighter.NotifyDamage(0x10000001, model.NewLocation(2, 0, 0))
	require.Equal(t, model.StateAttacking, fighter.State())

	n := f.alerter.AlertNearby(origin.Agent(), model.NewLocation(2, 0, 0), 30)

	assert.Zero(t, n)
	assert.Equal(t, model.StateAttacking, fighter.State())
	assert.False(t, fighter.OnAlerted(model.NewLocation(5, 5, 0)))
}

func TestAlertNearby_FighterKeepsAttackingWhileAllySpots(t *testing.T) {
	f := newAlertFixture(t)
	ref := &targetRef{t: testutil.NewTarget(t, 0x10000001, 2, 0)}
	fighter := f.addHunter(t, 1, 0, 0, ref)
	spotter := f.addHunter(t, 2, -6, 0, ref)

	strikes := 0
	fighter.SetAttackFunc(func(*model.Agent, *model.Target) { strikes++ })

	for i := range 100 {
		fighter.Tick(tick)
		spotter.Tick(tick)
		require.Equal(t, model.StateAttacking, fighter.State(), "tick %d", i+1)
	}
	assert.Positive(t, strikes)
	assert.True(t, spotter.State().Engaged())
}

func TestAlertNearby_AgentKilledThisTickIsSkipped(t *testing.T) {
	f := newAlertFixture(t)
	origin := f.add(t, 1, testutil.GuardTemplate(), 0, 0)
	victim := f.add(t, 2, testutil.GuardTemplate(), 5, 0)
	player := testutil.NewTarget(t, 0x10000001, 6, 0)
	resolver := combat.NewResolver(combat.NewScheduler(), nil, world.NewIDGenerator(), rand.New(rand.NewPCG(1, 2)))

	out := resolver.ApplyDamage(player, victim.Agent(), victim.Agent().Health().Max())
	require.True(t, out.Killed)

	n := f.alerter.AlertNearby(origin.Agent(), player.Location(), 30)

	assert.Zero(t, n)
	assert.Equal(t, model.StateDead, victim.State())
	assert.False(t, victim.OnAlerted(player.Location()))
	assert.Equal(t, model.StateDead, victim.State())
}

func TestAlertNearby_KilledOriginAlertsNobody(t *testing.T) {
	f := newAlertFixture(t)
	origin := f.add(t, 1, testutil.GuardTemplate(), 0, 0)
	ally := f.add(t, 2, testutil.GuardTemplate(), 5, 0)
	player := testutil.NewTarget(t, 0x10000001, 1, 0)
	resolver := combat.NewResolver(combat.NewScheduler(), nil, world.NewIDGenerator(), rand.New(rand.NewPCG(1, 2)))

	require.True(t, resolver.ApplyDamage(player, origin.Agent(), 100).Killed)

	assert.Zero(t, f.alerter.AlertNearby(origin.Agent(), player.Location(), 30))
	assert.Equal(t, model.StatePatrolling, ally.State())
}
