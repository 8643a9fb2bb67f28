// Package round owns per-game timers and the sub-phases inside a round:
// leader election, active play, hostage selection, parlay, and hostage
// exchange (§4.4). It publishes events through an eventbus.Bus and never
// handles a client command directly — the Controller is the only caller.
package round

import (
	"errors"
	"fmt"
	"time"

	"github.com/oakwood/tworooms/internal/eventbus"
	"github.com/oakwood/tworooms/internal/model"
	"github.com/oakwood/tworooms/internal/statemachine"
)

var (
	ErrNotLeader            = errors.New("round: actor is not the room's leader")
	ErrNoLeader             = errors.New("round: room has no leader")
	ErrVotingNotActive      = errors.New("round: leader voting is not active")
	ErrVotingAlreadyActive  = errors.New("round: leader voting is already active")
	ErrNotRoomMember        = errors.New("round: actor is not a member of the room")
	ErrHostageLimitReached  = errors.New("round: hostage selection limit reached")
	ErrHostageCountNotMet   = errors.New("round: hostage candidate count does not match the required count")
	ErrInvalidHostageTarget = errors.New("round: hostage target must be a non-leader room member")
)

// TieResult carries the outcome of a concluded vote back to the last voter
// when it ends in a tie that has not yet reached the random-pick threshold
// (§4.4.1 "Leader election").
type TieResult struct {
	TieCount int
	Tied     []string
}

// ResolveFunc is invoked by EndRound when the round_complete transition
// lands on RESOLUTION. It is the Engine's only call back out to the
// Controller, kept as a plain function type (rather than an interface
// living in internal/controller) so internal/round never imports
// internal/controller (§5).
type ResolveFunc func(g *model.Game)

// Engine is created once per running game by the Controller and holds that
// game's round and parlay timers. Every exported method assumes the caller
// already holds the owning Game's single-writer lock (§5); Engine applies
// no locking of its own.
type Engine struct {
	cfg       Config
	sm        *statemachine.Machine
	bus       *eventbus.Bus
	scheduler Scheduler
	log       Logger
	resolve   ResolveFunc

	roundTimer  *Timer
	parlayTimer *Timer

	roundTimerGen  int64
	parlayTimerGen int64
}

// Config is the subset of server configuration the Round Engine consults.
type Config struct {
	ParlayDuration time.Duration
	TieLimit       int

	// TickInterval is the granularity at which the round timer is sampled
	// (§4.4 "tick at 100ms granularity"). Zero uses a 100ms default.
	TickInterval time.Duration
	// PublishEvery is how often, while the round timer runs, a TIMER_UPDATE
	// event is published on the public scope (§4.4 "roughly once per
	// second"). Zero uses a 1s default.
	PublishEvery time.Duration
}

func (c Config) tickInterval() time.Duration {
	if c.TickInterval <= 0 {
		return 100 * time.Millisecond
	}
	return c.TickInterval
}

func (c Config) publishInterval() time.Duration {
	if c.PublishEvery <= 0 {
		return time.Second
	}
	return c.PublishEvery
}

// Logger is the minimal structured-logging surface the Round Engine needs;
// internal/telemetry provides the zap-backed implementation.
type Logger interface {
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
}

// NewEngine returns an Engine for one game.
func NewEngine(cfg Config, sm *statemachine.Machine, bus *eventbus.Bus, scheduler Scheduler, log Logger) *Engine {
	return &Engine{cfg: cfg, sm: sm, bus: bus, scheduler: scheduler, log: log}
}

// SetResolver installs the callback EndRound invokes on reaching RESOLUTION.
// Called once by the Controller right after constructing the Engine.
func (e *Engine) SetResolver(fn ResolveFunc) {
	e.resolve = fn
}

func (e *Engine) publish(typ model.EventType, scope model.Scope, payload map[string]any) {
	e.bus.Publish(model.Event{Type: typ, Scope: scope, Payload: payload, Timestamp: time.Now()})
}

// StartRound begins round k: clears per-round room state, and either
// starts voting (round 1) or starts the timer immediately (round > 1)
// (§4.4.1 "Start of round k").
func (e *Engine) StartRound(g *model.Game, k int) {
	g.State.Public.CurrentRound = k
	g.State.Public.Phase = model.RoundPhase(k)

	for _, room := range g.State.Rooms {
		room.ClearRoundState()
	}

	duration := g.Config.RoundDurations[k-1]
	e.parlayTimer = nil

	if k == 1 {
		e.roundTimer = NewPausedTimer(duration)
		for _, room := range g.State.Rooms {
			room.LeaderVotingActive = true
		}
		// remains paused with remaining = duration until both leaders elected
	} else {
		e.roundTimer = NewTimer(duration)
		e.roundTimer.Start()
	}
	g.State.Public.Timer = e.roundTimer.View()
	g.Touch()

	e.publish(model.EventRoundStarted, model.PublicScope(), map[string]any{"round": k})
	e.scheduleRoundTimerCheck(g)
}

// scheduleRoundTimerCheck arranges for OnRoundTimerExpiry to be invoked
// once the timer's remaining time elapses, and kicks off the recurring
// TIMER_UPDATE tick, if and only if the round timer is running.
func (e *Engine) scheduleRoundTimerCheck(g *model.Game) {
	if e.roundTimer == nil || e.roundTimer.State() != model.TimerRunning {
		return
	}
	e.roundTimerGen++
	gen := e.roundTimerGen
	round := g.State.Public.CurrentRound
	remaining := e.roundTimer.Remaining()
	e.scheduler.Schedule(remaining, func() {
		e.OnRoundTimerExpiry(g, gen, round)
	})
	e.scheduleTimerTick(g, gen, round, 0)
}

// OnRoundTimerExpiry is the scheduled callback for round-timer expiry. It
// is idempotent, keyed on (gen, round): a late fire after the timer was
// restarted, paused for a re-vote, or the round itself moved on is a
// silent no-op. Unlike the game's version counter, round identity is not
// bumped by ordinary in-round commands (CARD_SHARE, reveals, usurp votes,
// ability activation in the other room, …), so a live round timer is no
// longer cancelled by unrelated traffic (§4.4.2, §5 "Cancellation and
// timeouts").
func (e *Engine) OnRoundTimerExpiry(g *model.Game, gen int64, scheduledRound int) {
	if gen != e.roundTimerGen {
		return
	}
	if g.State.Public.CurrentRound != scheduledRound {
		return
	}
	if e.roundTimer == nil || e.roundTimer.State() != model.TimerRunning || !e.roundTimer.Expired() {
		return
	}

	e.roundTimer.Stop()
	g.State.Public.Timer = e.roundTimer.View()
	g.State.Public.Paused = true
	g.State.Public.PauseReason = "hostage selection phase"
	g.Touch()
	e.publish(model.EventGamePaused, model.PublicScope(), map[string]any{"reason": g.State.Public.PauseReason})
}

// scheduleTimerTick arranges for onTimerTick to run after one tick
// interval elapses, carrying forward how many ticks have accrued since the
// last TIMER_UPDATE publish. It re-schedules itself each tick until the
// round timer stops running or a newer (gen, round) supersedes it.
func (e *Engine) scheduleTimerTick(g *model.Game, gen int64, round int, ticksSincePublish int) {
	e.scheduler.Schedule(e.cfg.tickInterval(), func() {
		e.onTimerTick(g, gen, round, ticksSincePublish)
	})
}

// onTimerTick is the recurring ~100ms callback behind the round timer's
// public TIMER_UPDATE feed. It publishes roughly once per second while the
// timer runs, guarded by the same (gen, round) identity check as
// OnRoundTimerExpiry so it stops cleanly once the round ends or restarts
// (§4.4 "tick at 100ms granularity and publish... roughly once per
// second").
func (e *Engine) onTimerTick(g *model.Game, gen int64, round int, ticksSincePublish int) {
	if gen != e.roundTimerGen || g.State.Public.CurrentRound != round {
		return
	}
	if e.roundTimer == nil || e.roundTimer.State() != model.TimerRunning {
		return
	}

	ticksSincePublish++
	if time.Duration(ticksSincePublish)*e.cfg.tickInterval() >= e.cfg.publishInterval() {
		g.State.Public.Timer = e.roundTimer.View()
		e.publish(model.EventTimerUpdate, model.PublicScope(), map[string]any{
			"round":     round,
			"remaining": e.roundTimer.Remaining(),
		})
		ticksSincePublish = 0
	}

	e.scheduleTimerTick(g, gen, round, ticksSincePublish)
}

// CastLeaderVote records voterID's vote for candidateID in room, resolving
// the election if every member has now voted (§4.4.1 "Leader election").
// Returns a non-nil *TieResult when the vote concluded in an unresolved
// tie; err is non-nil only for a genuinely invalid request.
func (e *Engine) CastLeaderVote(g *model.Game, room model.RoomID, voterID, candidateID string) (*TieResult, error) {
	rs := g.Room(room)
	if !rs.HasMember(voterID) || !rs.HasMember(candidateID) {
		return nil, ErrNotRoomMember
	}
	if !rs.LeaderVotingActive {
		return nil, ErrVotingNotActive
	}

	rs.LeaderVotes[voterID] = candidateID
	g.Touch()

	if len(rs.LeaderVotes) < len(rs.Members) {
		return nil, nil
	}

	winners, _ := tallyWinners(rs.LeaderVotes)
	if len(winners) == 1 {
		e.elect(g, room, winners[0], "MAJORITY", 0)
		return nil, nil
	}

	rs.LeaderVotingTieCount++
	if rs.LeaderVotingTieCount >= e.cfg.TieLimit {
		idx, err := randomIndex(len(winners))
		if err != nil {
			return nil, err
		}
		e.elect(g, room, winners[idx], "RANDOM_SELECTION", rs.LeaderVotingTieCount)
		return nil, nil
	}

	tie := &TieResult{TieCount: rs.LeaderVotingTieCount, Tied: winners}
	rs.LeaderVotes = map[string]string{}
	g.Touch()
	e.publish(model.EventVoteTied, model.RoomScope(room), map[string]any{
		"tieCount": tie.TieCount,
		"tied":     tie.Tied,
	})
	return tie, nil
}

func tallyWinners(votes map[string]string) (winners []string, maxVotes int) {
	counts := map[string]int{}
	for _, candidate := range votes {
		counts[candidate]++
	}
	for candidate, n := range counts {
		switch {
		case n > maxVotes:
			maxVotes = n
			winners = []string{candidate}
		case n == maxVotes:
			winners = append(winners, candidate)
		}
	}
	return winners, maxVotes
}

// elect installs candidateID as room's leader via method (MAJORITY or
// RANDOM_SELECTION), clearing any prior leader and resetting voting state
// (§4.4.1 "Elect").
func (e *Engine) elect(g *model.Game, room model.RoomID, candidateID, method string, tieCount int) {
	rs := g.Room(room)

	if prevID := rs.LeaderID; prevID != "" {
		if prev, ok := g.Players[prevID]; ok {
			prev.IsLeader = false
			prev.CanBeHostage = true
		}
	}

	newLeader := g.Players[candidateID]
	newLeader.IsLeader = true
	newLeader.CanBeHostage = false
	rs.LeaderID = candidateID
	if g.State.Public.Leaders == nil {
		g.State.Public.Leaders = map[model.RoomID]string{}
	}
	g.State.Public.Leaders[room] = candidateID

	rs.LeaderVotes = map[string]string{}
	rs.LeaderVotingTieCount = 0
	rs.LeaderVotingActive = false
	g.Touch()

	e.publish(model.EventLeaderElected, model.RoomScope(room), map[string]any{
		"leaderId": candidateID,
		"method":   method,
		"tieCount": tieCount,
	})

	if g.State.Public.CurrentRound == 1 && e.bothRoomsHaveLeader(g) {
		e.roundTimer.Start()
		g.State.Public.Timer = e.roundTimer.View()
		g.Touch()
		e.publish(model.EventGameResumed, model.PublicScope(), map[string]any{"reason": "both leaders elected"})
		e.scheduleRoundTimerCheck(g)
		return
	}

	if g.State.Public.CurrentRound > 1 && e.roundTimer.State() == model.TimerPaused && !e.anyRoomVotingActive(g) {
		e.roundTimer.Resume()
		g.State.Public.Timer = e.roundTimer.View()
		g.Touch()
		e.scheduleRoundTimerCheck(g)
	}
}

func (e *Engine) bothRoomsHaveLeader(g *model.Game) bool {
	return g.Room(model.RoomA).LeaderID != "" && g.Room(model.RoomB).LeaderID != ""
}

func (e *Engine) anyRoomVotingActive(g *model.Game) bool {
	for _, room := range g.State.Rooms {
		if room.LeaderVotingActive {
			return true
		}
	}
	return false
}

// InitiateNewLeaderVote opens a re-vote in room (round > 1 only), pausing
// the round timer (§4.4.1 "Initiate new leader vote").
func (e *Engine) InitiateNewLeaderVote(g *model.Game, room model.RoomID, requesterID string) error {
	rs := g.Room(room)
	if !rs.HasMember(requesterID) {
		return ErrNotRoomMember
	}
	if rs.LeaderID == "" {
		return ErrNoLeader
	}
	if rs.LeaderVotingActive {
		return ErrVotingAlreadyActive
	}

	e.roundTimer.Pause()
	g.State.Public.Timer = e.roundTimer.View()
	rs.LeaderVotingActive = true
	rs.LeaderVotes = map[string]string{}
	rs.LeaderVotingTieCount = 0
	g.Touch()

	e.publish(model.EventVoteCast, model.RoomScope(room), map[string]any{"action": "revote_initiated"})
	return nil
}

// CastUsurpVote records a usurpation vote, promoting candidateID once the
// majority threshold floor(roomSize/2)+1 is reached (§4.4.1 "Usurpation").
func (e *Engine) CastUsurpVote(g *model.Game, room model.RoomID, voterID, candidateID string) error {
	rs := g.Room(room)
	if !rs.HasMember(voterID) || !rs.HasMember(candidateID) {
		return ErrNotRoomMember
	}

	rs.UsurpVotes[voterID] = candidateID
	g.Touch()

	counts := map[string]int{}
	for _, c := range rs.UsurpVotes {
		counts[c]++
	}
	threshold := len(rs.Members)/2 + 1
	for candidate, n := range counts {
		if n < threshold {
			continue
		}
		e.usurp(g, room, candidate)
		return nil
	}
	return nil
}

func (e *Engine) usurp(g *model.Game, room model.RoomID, candidateID string) {
	rs := g.Room(room)
	if prevID := rs.LeaderID; prevID != "" {
		if prev, ok := g.Players[prevID]; ok {
			prev.IsLeader = false
			prev.CanBeHostage = true
		}
	}
	newLeader := g.Players[candidateID]
	newLeader.IsLeader = true
	newLeader.CanBeHostage = false
	newLeader.UsurpedLeadersCount++
	rs.LeaderID = candidateID
	g.State.Public.Leaders[room] = candidateID
	rs.UsurpVotes = map[string]string{}
	g.Touch()

	e.publish(model.EventLeaderUsurped, model.RoomScope(room), map[string]any{"leaderId": candidateID})
}

// Abdicate transfers leadership from leaderID to successorID immediately
// (§4.4.1 "Abdication").
func (e *Engine) Abdicate(g *model.Game, room model.RoomID, leaderID, successorID string) error {
	rs := g.Room(room)
	if rs.LeaderID != leaderID {
		return ErrNotLeader
	}
	if !rs.HasMember(successorID) {
		return ErrNotRoomMember
	}

	leader := g.Players[leaderID]
	leader.IsLeader = false
	leader.CanBeHostage = true

	successor := g.Players[successorID]
	successor.IsLeader = true
	successor.CanBeHostage = false
	rs.LeaderID = successorID
	g.State.Public.Leaders[room] = successorID
	g.Touch()

	e.publish(model.EventLeaderAbdicated, model.RoomScope(room), map[string]any{
		"from": leaderID,
		"to":   successorID,
	})
	return nil
}

// MarkLeaderDisconnected publishes LEADER_DISCONNECTED without demoting the
// leader; the room may re-vote on its own initiative (§4.4.2).
func (e *Engine) MarkLeaderDisconnected(g *model.Game, room model.RoomID, leaderID string) {
	e.publish(model.EventLeaderDisconnected, model.RoomScope(room), map[string]any{"leaderId": leaderID})
}

// SelectHostage toggles targetID's hostage-candidate membership for room,
// enforcing the required count H(playerCount, round) (§4.4.1 "Hostage
// selection").
func (e *Engine) SelectHostage(g *model.Game, room model.RoomID, leaderID, targetID string) error {
	rs := g.Room(room)
	if rs.LeaderID != leaderID {
		return ErrNotLeader
	}
	target, ok := g.Players[targetID]
	if !ok || !rs.HasMember(targetID) || target.IsLeader {
		return ErrInvalidHostageTarget
	}

	required := HostageCount(g.PlayerCount(), g.State.Public.CurrentRound)

	already := false
	for _, id := range rs.HostageCandidates {
		if id == targetID {
			already = true
			break
		}
	}
	if !already && len(rs.HostageCandidates) >= required {
		return fmt.Errorf("%w: %d/%d", ErrHostageLimitReached, len(rs.HostageCandidates), required)
	}

	nowCandidate := rs.ToggleHostageCandidate(targetID)
	g.Touch()

	e.publish(model.EventHostageSelected, model.RoomScope(room), map[string]any{
		"targetId":  targetID,
		"selected":  nowCandidate,
		"current":   len(rs.HostageCandidates),
		"required":  required,
	})
	return nil
}

// LockHostages locks room's hostage selection once it meets the required
// count, and triggers the parlay once both rooms are locked (§4.4.1).
func (e *Engine) LockHostages(g *model.Game, room model.RoomID, leaderID string) error {
	rs := g.Room(room)
	if rs.LeaderID != leaderID {
		return ErrNotLeader
	}
	required := HostageCount(g.PlayerCount(), g.State.Public.CurrentRound)
	if len(rs.HostageCandidates) != required {
		return fmt.Errorf("%w: have %d, need %d", ErrHostageCountNotMet, len(rs.HostageCandidates), required)
	}

	rs.HostagesLocked = true
	g.Touch()
	e.publish(model.EventHostagesLocked, model.RoomScope(room), map[string]any{"count": len(rs.HostageCandidates)})

	if e.bothRoomsLocked(g) {
		e.startParlay(g)
	}
	return nil
}

func (e *Engine) bothRoomsLocked(g *model.Game) bool {
	return g.Room(model.RoomA).HostagesLocked && g.Room(model.RoomB).HostagesLocked
}

// startParlay begins the 30-second parlay window (§4.4.1 "Parlay").
func (e *Engine) startParlay(g *model.Game) {
	g.State.Public.ParlayActive = true
	e.parlayTimer = NewTimer(e.cfg.ParlayDuration)
	e.parlayTimer.Start()
	g.Touch()

	e.publish(model.EventParlayStarted, model.PublicScope(), map[string]any{
		"leaderA": g.Room(model.RoomA).LeaderID,
		"leaderB": g.Room(model.RoomB).LeaderID,
	})

	e.parlayTimerGen++
	gen := e.parlayTimerGen
	e.scheduler.Schedule(e.cfg.ParlayDuration, func() {
		e.OnParlayExpiry(g, gen)
	})
}

// OnParlayExpiry performs the hostage exchange and ends the round
// (§4.4.1 "Hostage exchange", "End round"). Idempotent per gen: a late fire
// after the parlay was superseded (a new round's parlay, or the game
// otherwise moved on) is a silent no-op. Unlike the round timer, parlay has
// no round-identity check of its own to make beyond gen, since exactly one
// parlay is ever in flight per round.
func (e *Engine) OnParlayExpiry(g *model.Game, gen int64) {
	if gen != e.parlayTimerGen {
		return
	}
	if e.parlayTimer == nil {
		return
	}

	e.parlayTimer.Stop()
	g.State.Public.ParlayActive = false
	g.Touch()
	e.publish(model.EventParlayEnded, model.PublicScope(), nil)

	exchangedA := append([]string(nil), g.Room(model.RoomA).HostageCandidates...)
	exchangedB := append([]string(nil), g.Room(model.RoomB).HostageCandidates...)

	e.moveHostages(g, model.RoomA, model.RoomB, exchangedA)
	e.moveHostages(g, model.RoomB, model.RoomA, exchangedB)

	g.Touch()
	e.publish(model.EventHostagesExchanged, model.PublicScope(), map[string]any{
		"fromA": exchangedA,
		"fromB": exchangedB,
	})

	for _, room := range g.State.Rooms {
		room.HostageCandidates = []string{}
		room.HostagesLocked = false
	}
	g.State.Public.Paused = false
	g.State.Public.PauseReason = ""
	g.Touch()

	e.EndRound(g, "HOSTAGES_EXCHANGED")
}

// moveHostages relocates each player in hostages from `from` to `to`,
// updating room membership, the public assignment map, and each player's
// wasSentAsHostage flag (§4.4.1, §3.7 invariant "roomA.size-roomB.size<=1").
func (e *Engine) moveHostages(g *model.Game, from, to model.RoomID, hostages []string) {
	fromRoom := g.Room(from)
	toRoom := g.Room(to)
	for _, playerID := range hostages {
		fromRoom.RemoveMember(playerID)
		toRoom.Members = append(toRoom.Members, playerID)
		if p, ok := g.Players[playerID]; ok {
			p.CurrentRoom = to
			p.WasSentAsHostage = true
		}
		g.State.Public.RoomAssignments[playerID] = to
	}
}

// EndRound publishes ROUND_ENDED and requests the round_complete
// transition. If the next phase is another round it begins it; if it is
// RESOLUTION it invokes the resolver installed via SetResolver, which
// evaluates win conditions and drives the transition on to FINISHED
// (§4.4.1 "End round").
//
// Hostage state is already cleared above before this call, so the state
// machine's round_complete guard observes the post-clear state within the
// same serialized mutation rather than blocking the very transition meant
// to follow a completed exchange.
//
// The round timer is stopped unconditionally on entry, regardless of its
// own gen/round bookkeeping: a round can end early (an ability's
// END_ROUND_EARLY effect, or the last round's hostage exchange, which
// never calls StartRound again to advance CurrentRound), so this is the
// one place that categorically invalidates any still-scheduled expiry or
// tick callback for the round that just ended.
func (e *Engine) EndRound(g *model.Game, reason string) {
	if e.roundTimer != nil {
		e.roundTimer.Stop()
		g.State.Public.Timer = e.roundTimer.View()
	}

	e.publish(model.EventRoundEnded, model.PublicScope(), map[string]any{"reason": reason})

	next, err := e.sm.Transition(g, model.TriggerRoundComplete)
	if err != nil {
		e.log.Warnw("round_complete denied", "game", g.ID, "error", err)
		return
	}

	g.State.Public.Phase = next
	g.Touch()
	e.publish(model.EventPhaseChanged, model.PublicScope(), map[string]any{
		"from":    string(model.RoundPhase(g.State.Public.CurrentRound)),
		"to":      string(next),
		"trigger": string(model.TriggerRoundComplete),
	})

	if k, ok := model.RoundNumber(next); ok {
		e.StartRound(g, k)
		return
	}

	if next == model.PhaseResolution && e.resolve != nil {
		e.resolve(g)
	}
}
