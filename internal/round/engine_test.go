package round

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/oakwood/tworooms/internal/eventbus"
	"github.com/oakwood/tworooms/internal/model"
	"github.com/oakwood/tworooms/internal/statemachine"
)

type nopLogger struct{}

func (nopLogger) Infow(string, ...any) {}
func (nopLogger) Warnw(string, ...any) {}

func newTestEngine(tieLimit int) (*Engine, *model.Game, *eventbus.Bus) {
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	bus := eventbus.NewBus(g.Journal, g.RoomOf)
	sm := statemachine.New()
	cfg := Config{ParlayDuration: 30 * time.Second, TieLimit: tieLimit}
	e := NewEngine(cfg, sm, bus, NoopScheduler{}, nopLogger{})
	return e, g, bus
}

func seatPlayers(g *model.Game, room model.RoomID, ids ...string) {
	for _, id := range ids {
		if _, ok := g.Players[id]; !ok {
			g.Players[id] = model.NewPlayer(id, id, false)
		}
		g.Players[id].CurrentRoom = room
		g.Room(room).Members = append(g.Room(room).Members, id)
		g.State.Public.RoomAssignments[id] = room
	}
}

func TestStartRound1PausesUntilBothLeadersElected(t *testing.T) {
	e, g, _ := newTestEngine(3)
	g.Config.TotalRounds = 3
	g.Config.RoundDurations = []time.Duration{5 * time.Minute, 5 * time.Minute, 5 * time.Minute}
	seatPlayers(g, model.RoomA, "a1", "a2", "a3")
	seatPlayers(g, model.RoomB, "b1", "b2", "b3")

	e.StartRound(g, 1)

	assert.True(t, g.Room(model.RoomA).LeaderVotingActive)
	assert.True(t, g.Room(model.RoomB).LeaderVotingActive)
	assert.Equal(t, model.TimerPaused, e.roundTimer.State())
	assert.Equal(t, 5*time.Minute, e.roundTimer.Remaining())
}

func TestLeaderElectionMajorityIgnitesRound1Timer(t *testing.T) {
	e, g, _ := newTestEngine(3)
	g.Config.TotalRounds = 3
	g.Config.RoundDurations = []time.Duration{5 * time.Minute, 5 * time.Minute, 5 * time.Minute}
	seatPlayers(g, model.RoomA, "a1", "a2", "a3")
	seatPlayers(g, model.RoomB, "b1", "b2", "b3")
	e.StartRound(g, 1)

	for _, voter := range []string{"a1", "a2", "a3"} {
		_, err := e.CastLeaderVote(g, model.RoomA, voter, "a1")
		require.NoError(t, err)
	}
	assert.Equal(t, "a1", g.Room(model.RoomA).LeaderID)
	assert.True(t, g.Players["a1"].IsLeader)
	// Timer does not ignite until BOTH rooms have a leader.
	assert.Equal(t, model.TimerPaused, e.roundTimer.State())

	for _, voter := range []string{"b1", "b2", "b3"} {
		_, err := e.CastLeaderVote(g, model.RoomB, voter, "b1")
		require.NoError(t, err)
	}
	assert.Equal(t, model.TimerRunning, e.roundTimer.State())
}

func TestLeaderElectionTieThenRandomPickOnThirdTie(t *testing.T) {
	e, g, _ := newTestEngine(3)
	g.Config.TotalRounds = 3
	g.Config.RoundDurations = []time.Duration{5 * time.Minute, 5 * time.Minute, 5 * time.Minute}
	seatPlayers(g, model.RoomA, "x1", "x2", "x3", "y1", "y2", "y3")
	seatPlayers(g, model.RoomB, "b1", "b2")
	e.StartRound(g, 1)

	voteOneTie := func() {
		tie, err := e.CastLeaderVote(g, model.RoomA, "x1", "x1")
		require.NoError(t, err)
		assert.Nil(t, tie)
		tie, err = e.CastLeaderVote(g, model.RoomA, "x2", "x1")
		require.NoError(t, err)
		assert.Nil(t, tie)
		tie, err = e.CastLeaderVote(g, model.RoomA, "x3", "x1")
		require.NoError(t, err)
		assert.Nil(t, tie)
		tie, err = e.CastLeaderVote(g, model.RoomA, "y1", "y1")
		require.NoError(t, err)
		assert.Nil(t, tie)
		tie, err = e.CastLeaderVote(g, model.RoomA, "y2", "y1")
		require.NoError(t, err)
		assert.Nil(t, tie)
		tie, err = e.CastLeaderVote(g, model.RoomA, "y3", "y1")
		require.NoError(t, err)
		require.NotNil(t, tie)
	}

	voteOneTie()
	assert.Equal(t, 1, g.Room(model.RoomA).LeaderVotingTieCount)
	voteOneTie()
	assert.Equal(t, 2, g.Room(model.RoomA).LeaderVotingTieCount)

	// third tie resolves randomly
	_, err := e.CastLeaderVote(g, model.RoomA, "x1", "x1")
	require.NoError(t, err)
	_, err = e.CastLeaderVote(g, model.RoomA, "x2", "x1")
	require.NoError(t, err)
	_, err = e.CastLeaderVote(g, model.RoomA, "x3", "x1")
	require.NoError(t, err)
	_, err = e.CastLeaderVote(g, model.RoomA, "y1", "y1")
	require.NoError(t, err)
	_, err = e.CastLeaderVote(g, model.RoomA, "y2", "y1")
	require.NoError(t, err)
	_, err = e.CastLeaderVote(g, model.RoomA, "y3", "y1")
	require.NoError(t, err)

	leader := g.Room(model.RoomA).LeaderID
	assert.Contains(t, []string{"x1", "y1"}, leader)
	assert.True(t, g.Players[leader].IsLeader)
}

func TestAbdicate(t *testing.T) {
	e, g, _ := newTestEngine(3)
	g.Config.RoundDurations = []time.Duration{5 * time.Minute}
	seatPlayers(g, model.RoomA, "a1", "a2")
	g.Room(model.RoomA).LeaderID = "a1"
	g.Players["a1"].IsLeader = true
	g.State.Public.Leaders[model.RoomA] = "a1"

	err := e.Abdicate(g, model.RoomA, "a1", "a2")
	require.NoError(t, err)
	assert.Equal(t, "a2", g.Room(model.RoomA).LeaderID)
	assert.True(t, g.Players["a2"].IsLeader)
	assert.False(t, g.Players["a1"].IsLeader)
	assert.True(t, g.Players["a1"].CanBeHostage)
}

func TestAbdicateRejectsNonLeader(t *testing.T) {
	e, g, _ := newTestEngine(3)
	seatPlayers(g, model.RoomA, "a1", "a2")
	g.Room(model.RoomA).LeaderID = "a1"

	err := e.Abdicate(g, model.RoomA, "a2", "a1")
	assert.ErrorIs(t, err, ErrNotLeader)
}

func TestSelectHostageToggleAndLimit(t *testing.T) {
	e, g, _ := newTestEngine(3)
	g.State.Public.CurrentRound = 1
	seatPlayers(g, model.RoomA, "leader", "a", "b", "c", "d", "e", "f", "g", "h", "i", "j")
	g.Room(model.RoomA).LeaderID = "leader"
	g.Players["leader"].IsLeader = true

	// 11 players total -> H(11,1) = 2
	require.NoError(t, e.SelectHostage(g, model.RoomA, "leader", "a"))
	assert.Len(t, g.Room(model.RoomA).HostageCandidates, 1)

	require.NoError(t, e.SelectHostage(g, model.RoomA, "leader", "b"))
	assert.Len(t, g.Room(model.RoomA).HostageCandidates, 2)

	err := e.SelectHostage(g, model.RoomA, "leader", "c")
	assert.ErrorIs(t, err, ErrHostageLimitReached)

	// toggle off b
	require.NoError(t, e.SelectHostage(g, model.RoomA, "leader", "b"))
	assert.Len(t, g.Room(model.RoomA).HostageCandidates, 1)

	require.NoError(t, e.SelectHostage(g, model.RoomA, "leader", "c"))
	assert.Len(t, g.Room(model.RoomA).HostageCandidates, 2)
}

func TestLockHostagesRequiresExactCount(t *testing.T) {
	e, g, _ := newTestEngine(3)
	g.State.Public.CurrentRound = 1
	seatPlayers(g, model.RoomA, "leader", "a")
	g.Room(model.RoomA).LeaderID = "leader"

	err := e.LockHostages(g, model.RoomA, "leader")
	assert.ErrorIs(t, err, ErrHostageCountNotMet)

	require.NoError(t, e.SelectHostage(g, model.RoomA, "leader", "a"))
	require.NoError(t, e.LockHostages(g, model.RoomA, "leader"))
	assert.True(t, g.Room(model.RoomA).HostagesLocked)
}

func TestParlayAndHostageExchange(t *testing.T) {
	sm := statemachine.New()
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	bus := eventbus.NewBus(g.Journal, g.RoomOf)
	cfg := Config{ParlayDuration: 30 * time.Second, TieLimit: 3}
	e := NewEngine(cfg, sm, bus, NoopScheduler{}, nopLogger{})

	g.Config.TotalRounds = 3
	g.Config.RoundDurations = []time.Duration{5 * time.Minute, 5 * time.Minute, 5 * time.Minute}
	seatPlayers(g, model.RoomA, "la", "a1")
	seatPlayers(g, model.RoomB, "lb", "b1")
	g.Room(model.RoomA).LeaderID = "la"
	g.Room(model.RoomB).LeaderID = "lb"
	g.Players["la"].IsLeader = true
	g.Players["lb"].IsLeader = true
	g.State.Public.Phase = model.RoundPhase(1)
	g.State.Public.CurrentRound = 1

	require.NoError(t, e.SelectHostage(g, model.RoomA, "la", "a1"))
	require.NoError(t, e.LockHostages(g, model.RoomA, "la"))
	assert.False(t, g.State.Public.ParlayActive, "parlay waits for both rooms to lock")

	require.NoError(t, e.SelectHostage(g, model.RoomB, "lb", "b1"))
	require.NoError(t, e.LockHostages(g, model.RoomB, "lb"))

	// both locked -> parlay started by the second LockHostages call
	assert.True(t, g.State.Public.ParlayActive)

	gen := e.parlayTimerGen
	e.OnParlayExpiry(g, gen)

	assert.False(t, g.State.Public.ParlayActive)
	assert.Equal(t, model.RoomB, g.Players["a1"].CurrentRoom)
	assert.Equal(t, model.RoomA, g.Players["b1"].CurrentRoom)
	assert.True(t, g.Players["a1"].WasSentAsHostage)
	assert.Empty(t, g.Room(model.RoomA).HostageCandidates)
	assert.False(t, g.Room(model.RoomA).HostagesLocked)

	// round advanced to 2 (hostage state cleared unblocks round_complete guard)
	assert.Equal(t, model.RoundPhase(2), g.State.Public.Phase)
	assert.Equal(t, 2, g.State.Public.CurrentRound)
}

func TestLastRoundEndsInResolution(t *testing.T) {
	sm := statemachine.New()
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	bus := eventbus.NewBus(g.Journal, g.RoomOf)
	e := NewEngine(Config{ParlayDuration: time.Second, TieLimit: 3}, sm, bus, NoopScheduler{}, nopLogger{})

	g.Config.TotalRounds = 3
	g.Config.RoundDurations = []time.Duration{time.Minute, time.Minute, time.Minute}
	seatPlayers(g, model.RoomA, "la", "a1")
	seatPlayers(g, model.RoomB, "lb", "b1")
	g.Room(model.RoomA).LeaderID = "la"
	g.Room(model.RoomB).LeaderID = "lb"
	g.State.Public.Phase = model.RoundPhase(3)
	g.State.Public.CurrentRound = 3

	e.EndRound(g, "test")
	assert.Equal(t, model.PhaseResolution, g.State.Public.Phase)
}

func TestEndRoundInvokesResolverOnResolution(t *testing.T) {
	sm := statemachine.New()
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	bus := eventbus.NewBus(g.Journal, g.RoomOf)
	e := NewEngine(Config{ParlayDuration: time.Second, TieLimit: 3}, sm, bus, NoopScheduler{}, nopLogger{})

	var resolved *model.Game
	e.SetResolver(func(g *model.Game) { resolved = g })

	g.Config.TotalRounds = 3
	g.Config.RoundDurations = []time.Duration{time.Minute, time.Minute, time.Minute}
	seatPlayers(g, model.RoomA, "la", "a1")
	seatPlayers(g, model.RoomB, "lb", "b1")
	g.Room(model.RoomA).LeaderID = "la"
	g.Room(model.RoomB).LeaderID = "lb"
	g.State.Public.Phase = model.RoundPhase(3)
	g.State.Public.CurrentRound = 3

	e.EndRound(g, "test")

	assert.Equal(t, model.PhaseResolution, g.State.Public.Phase)
	assert.Same(t, g, resolved)
}

func TestRoundTimerExpiryPausesGame(t *testing.T) {
	sm := statemachine.New()
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	bus := eventbus.NewBus(g.Journal, g.RoomOf)
	e := NewEngine(Config{ParlayDuration: time.Second, TieLimit: 3}, sm, bus, NoopScheduler{}, nopLogger{})

	g.Config.RoundDurations = []time.Duration{time.Millisecond}
	seatPlayers(g, model.RoomA, "la")
	seatPlayers(g, model.RoomB, "lb")
	g.State.Public.Phase = model.RoundPhase(2)
	g.State.Public.CurrentRound = 2
	e.roundTimer = NewTimer(time.Millisecond)
	e.roundTimer.Start()
	time.Sleep(2 * time.Millisecond)

	gen := e.roundTimerGen
	gen++ // simulate a scheduled call with the right generation recorded at schedule time
	e.roundTimerGen = gen
	e.OnRoundTimerExpiry(g, gen, g.State.Public.CurrentRound)

	assert.True(t, g.State.Public.Paused)
	assert.Equal(t, "hostage selection phase", g.State.Public.PauseReason)
	assert.Equal(t, model.TimerStopped, e.roundTimer.State())
}

// An ordinary in-round command (CARD_SHARE, a reveal, a usurp vote in the
// other room, ...) calls g.Touch() and bumps g.Version, but must not cancel
// a live round timer: only a change in round identity (or the timer no
// longer running) should do that.
func TestRoundTimerExpiryToleratesVersionBumpsWithinTheSameRound(t *testing.T) {
	sm := statemachine.New()
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	bus := eventbus.NewBus(g.Journal, g.RoomOf)
	e := NewEngine(Config{ParlayDuration: time.Second, TieLimit: 3}, sm, bus, NoopScheduler{}, nopLogger{})

	g.State.Public.CurrentRound = 2
	e.roundTimer = NewTimer(time.Millisecond)
	e.roundTimer.Start()
	e.roundTimerGen = 1
	time.Sleep(2 * time.Millisecond)

	g.Touch() // an unrelated in-round command fires in between

	e.OnRoundTimerExpiry(g, 1, 2)

	assert.True(t, g.State.Public.Paused)
	assert.Equal(t, model.TimerStopped, e.roundTimer.State())
}

func TestRoundTimerExpiryIsNoOpAfterRoundAdvances(t *testing.T) {
	sm := statemachine.New()
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	bus := eventbus.NewBus(g.Journal, g.RoomOf)
	e := NewEngine(Config{ParlayDuration: time.Second, TieLimit: 3}, sm, bus, NoopScheduler{}, nopLogger{})

	g.State.Public.CurrentRound = 2
	scheduledRound := g.State.Public.CurrentRound
	g.State.Public.CurrentRound = 3 // round moved on before the callback fires

	e.roundTimer = NewTimer(time.Millisecond)
	e.roundTimerGen = 1
	e.OnRoundTimerExpiry(g, 1, scheduledRound)

	assert.False(t, g.State.Public.Paused)
}

// stepScheduler records the most recently scheduled callback instead of
// running it, so tests can step a recurring schedule (round timer tick,
// expiry) one fire at a time without sleeping on wall-clock time.
type stepScheduler struct {
	fire func()
}

func (s *stepScheduler) Schedule(_ time.Duration, fire func()) {
	s.fire = fire
}

func (s *stepScheduler) step() {
	fire := s.fire
	s.fire = nil
	if fire != nil {
		fire()
	}
}

func TestRoundTimerTickPublishesTimerUpdateRoughlyEverySecond(t *testing.T) {
	sm := statemachine.New()
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	bus := eventbus.NewBus(g.Journal, g.RoomOf)
	cfg := Config{ParlayDuration: time.Second, TieLimit: 3, TickInterval: 100 * time.Millisecond, PublishEvery: time.Second}
	e := NewEngine(cfg, sm, bus, NoopScheduler{}, nopLogger{})

	g.State.Public.CurrentRound = 2
	e.roundTimer = NewTimer(time.Hour)
	e.roundTimer.Start()
	e.roundTimerGen = 1

	countTimerUpdates := func() int {
		n := 0
		for _, entry := range g.Journal.Since(0) {
			if entry.Type == model.EventTimerUpdate {
				n++
			}
		}
		return n
	}

	for i := 1; i <= 10; i++ {
		e.onTimerTick(g, 1, 2, i-1)
	}
	assert.Equal(t, 1, countTimerUpdates(), "ten 100ms ticks should publish exactly once at the 1s mark")

	for i := 11; i <= 20; i++ {
		e.onTimerTick(g, 1, 2, i-11)
	}
	assert.Equal(t, 2, countTimerUpdates())
}

func TestRoundTimerTickStopsOnceTimerNoLongerRunning(t *testing.T) {
	sm := statemachine.New()
	g := model.NewGame("g1", "ABCDEF", model.DefaultJournalRetention)
	bus := eventbus.NewBus(g.Journal, g.RoomOf)
	sched := &stepScheduler{}
	cfg := Config{ParlayDuration: time.Second, TieLimit: 3, TickInterval: 100 * time.Millisecond, PublishEvery: time.Second}
	e := NewEngine(cfg, sm, bus, sched, nopLogger{})

	g.State.Public.CurrentRound = 2
	e.roundTimer = NewTimer(time.Hour)
	e.roundTimer.Start()
	e.roundTimerGen = 1

	e.scheduleTimerTick(g, 1, 2, 0)
	require.NotNil(t, sched.fire)

	e.roundTimer.Stop()
	sched.step() // fires onTimerTick; must observe the stopped timer and not reschedule
	assert.Nil(t, sched.fire)
}

func TestEngineGoroutineLeaks(t *testing.T) {
	defer goleak.VerifyNone(t)

	e, g, _ := newTestEngine(3)
	g.Config.TotalRounds = 1
	g.Config.RoundDurations = []time.Duration{time.Hour}
	seatPlayers(g, model.RoomA, "a1", "a2")
	seatPlayers(g, model.RoomB, "b1", "b2")
	e.StartRound(g, 1)
	_, _ = e.CastLeaderVote(g, model.RoomA, "a1", "a1")
}
