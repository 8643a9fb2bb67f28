// Package controller is the single public entry point for every external
// command (§4.7). It composes the Validator, the State Machine, the Round
// Engine, and the Event Bus; it is the only component that mutates a
// Game (§2, §5).
package controller

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/oakwood/tworooms/internal/catalogue"
	"github.com/oakwood/tworooms/internal/eventbus"
	"github.com/oakwood/tworooms/internal/model"
	"github.com/oakwood/tworooms/internal/round"
	"github.com/oakwood/tworooms/internal/statemachine"
	"github.com/oakwood/tworooms/internal/store"
	"github.com/oakwood/tworooms/internal/telemetry"
	"github.com/oakwood/tworooms/internal/validator"
)

var tracer = telemetry.Tracer("github.com/oakwood/tworooms/internal/controller")

// Logger is the structured-logging surface the Controller and the Round
// Engines it creates need; internal/telemetry supplies the zap-backed
// implementation. Defined as an alias so both packages share one contract.
type Logger = round.Logger

// gameActor owns one game's serialized mutation section (§5 "each Game is
// a single-writer domain"). Every method on Controller that touches a
// Game's state locks its actor first.
type gameActor struct {
	mu     sync.Mutex
	game   *model.Game
	bus    *eventbus.Bus
	engine *round.Engine
}

// Controller composes every other core component behind one external
// surface.
type Controller struct {
	store     *store.Store
	catalogue *catalogue.Catalogue
	validator *validator.Validator
	sm        *statemachine.Machine
	abilities AbilityEngine
	log       Logger
	roundCfg  round.Config

	journalRetention int

	mu     sync.Mutex
	actors map[string]*gameActor
}

// Config bundles the tunables a Controller needs beyond its collaborators.
type Config struct {
	ParlayDuration   time.Duration
	TieLimit         int
	JournalRetention int

	TimerTick         time.Duration
	TimerPublishEvery time.Duration
}

// New returns a Controller. abilities may be nil, in which case
// NullAbilityEngine is used.
func New(st *store.Store, cat *catalogue.Catalogue, cfg Config, abilities AbilityEngine, log Logger) *Controller {
	if abilities == nil {
		abilities = NullAbilityEngine{}
	}
	retention := cfg.JournalRetention
	if retention <= 0 {
		retention = model.DefaultJournalRetention
	}
	return &Controller{
		store:            st,
		catalogue:        cat,
		validator:        validator.New(cat),
		sm:               statemachine.New(),
		abilities:        abilities,
		log:              log,
		roundCfg: round.Config{
			ParlayDuration: cfg.ParlayDuration,
			TieLimit:       cfg.TieLimit,
			TickInterval:   cfg.TimerTick,
			PublishEvery:   cfg.TimerPublishEvery,
		},
		journalRetention: retention,
		actors:           map[string]*gameActor{},
	}
}

// lockingScheduler adapts round.Scheduler to the Engine's documented
// contract: a fired callback must re-enter the owning game's serialized
// executor rather than run against the Game concurrently with anything
// else (§5 "scheduled timer callbacks... re-enter the Controller as a
// fresh unit of work on the game's serialised executor").
type lockingScheduler struct {
	actor *gameActor
}

func (s *lockingScheduler) Schedule(d time.Duration, fire func()) {
	time.AfterFunc(d, func() {
		s.actor.mu.Lock()
		defer s.actor.mu.Unlock()
		fire()
	})
}

// actorFor returns the gameActor for id, constructing one from the store
// if this process has not yet seen the game (e.g. after a restart with a
// persisted store, or on first touch after Create).
func (c *Controller) actorFor(id string) (*gameActor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if a, ok := c.actors[id]; ok {
		return a, nil
	}

	g, err := c.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	a := c.newActorLocked(g)
	c.actors[id] = a
	return a, nil
}

func (c *Controller) newActorLocked(g *model.Game) *gameActor {
	a := &gameActor{game: g}
	a.bus = eventbus.NewBus(g.Journal, func(playerID string) model.RoomID {
		return g.RoomOf(playerID)
	})
	a.engine = round.NewEngine(c.roundCfg, c.sm, a.bus, &lockingScheduler{actor: a}, c.log)
	a.engine.SetResolver(func(g *model.Game) { c.resolveGame(a, g) })
	return a
}

// resolveGame runs the RESOLUTION phase: it invokes the ability engine's
// win-condition evaluation, applies whatever effects it returns, then
// unconditionally drives the game on to FINISHED (§4.4.1 "invoke the
// win-condition evaluator", §4.2 RESOLUTION → FINISHED). It is installed as
// the Round Engine's resolver and is also called directly from
// applyEffects when an EFFECT_INSTANT_WIN lands the game on RESOLUTION
// mid-round.
func (c *Controller) resolveGame(a *gameActor, g *model.Game) {
	effects, err := c.abilities.Evaluate(g, "RESOLUTION")
	if err != nil {
		c.log.Warnw("resolution ability evaluation failed", "game", g.ID, "error", err)
	} else {
		c.applyEffects(a, effects)
	}

	next, err := c.sm.Transition(g, model.TriggerWinConditionsResolved)
	if err != nil {
		c.log.Warnw("win_conditions_resolved denied", "game", g.ID, "error", err)
		return
	}

	from := g.State.Public.Phase
	g.State.Public.Phase = next
	g.Touch()
	a.bus.Publish(model.Event{Type: model.EventPhaseChanged, Scope: model.PublicScope(), Payload: map[string]any{
		"from":    string(from),
		"to":      string(next),
		"trigger": string(model.TriggerWinConditionsResolved),
	}, Timestamp: time.Now()})
	a.bus.Publish(model.Event{Type: model.EventGameFinished, Scope: model.PublicScope(), Payload: map[string]any{
		"effectsApplied": len(effects),
	}, Timestamp: time.Now()})
}

// CreateGame creates a new Game, seats hostName as its host, and returns
// it. JOIN_GAME/CREATE_GAME bootstrap identity before a Command can carry
// a valid PlayerID, so they are dedicated methods rather than Submit
// dispatch targets (§6.1's "(no game yet)"/"anonymous" rows).
func (c *Controller) CreateGame(hostName string) (*model.Game, error) {
	g, err := c.store.Create(c.journalRetention)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	a := c.newActorLocked(g)
	c.actors[g.ID] = a
	c.mu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	host := model.NewPlayer(uuid.NewString(), hostName, true)
	g.Players[host.ID] = host
	g.State.Private.HostID = host.ID
	g.Touch()

	a.bus.Publish(model.Event{Type: model.EventGameCreated, Scope: model.PublicScope(), Timestamp: time.Now()})
	a.bus.Publish(model.Event{Type: model.EventPlayerJoined, Scope: model.PublicScope(),
		Payload: map[string]any{"playerId": host.ID, "displayName": host.DisplayName, "isHost": true}, Timestamp: time.Now()})

	return g, nil
}

// JoinGame seats a new player in the LOBBY of the game identified by its
// room code, returning the created Player.
func (c *Controller) JoinGame(code, playerName string) (*model.Game, *model.Player, error) {
	g, err := c.store.GetByCode(code)
	if err != nil {
		return nil, nil, err
	}
	a, err := c.actorFor(g.ID)
	if err != nil {
		return nil, nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if g.State.Public.Phase != model.PhaseLobby {
		return nil, nil, fmt.Errorf("controller: game %s is not accepting joins", g.ID)
	}
	if playerName == "" {
		return nil, nil, fmt.Errorf("controller: playerName is required")
	}
	if g.PlayerCount() >= 30 {
		return nil, nil, fmt.Errorf("controller: lobby is full")
	}

	p := model.NewPlayer(uuid.NewString(), playerName, false)
	g.Players[p.ID] = p
	g.Touch()

	a.bus.Publish(model.Event{Type: model.EventPlayerJoined, Scope: model.PublicScope(),
		Payload: map[string]any{"playerId": p.ID, "displayName": p.DisplayName, "isHost": false}, Timestamp: time.Now()})

	return g, p, nil
}

// Subscribe registers sub against gameID's bus, replaying everything sub
// missed since acked (§4.5, §6.4).
func (c *Controller) Subscribe(gameID string, sub *eventbus.Subscriber, acked int64) error {
	a, err := c.actorFor(gameID)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bus.Subscribe(sub, acked)
	return nil
}

// Unsubscribe removes sub from gameID's bus.
func (c *Controller) Unsubscribe(gameID, subID string) {
	a, err := c.actorFor(gameID)
	if err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bus.Unsubscribe(subID)
}

// Disconnect marks playerID disconnected without mutating game phase and
// publishes DISCONNECTED (§6's "Connection handling").
func (c *Controller) Disconnect(gameID, playerID string) error {
	a, err := c.actorFor(gameID)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.game.Players[playerID]
	if !ok {
		return fmt.Errorf("controller: unknown player %s", playerID)
	}
	p.Connection = model.Disconnected
	p.LastSeen = time.Now()
	a.game.Touch()
	a.bus.Publish(model.Event{Type: model.EventDisconnected, Scope: model.PublicScope(),
		Payload: map[string]any{"playerId": playerID}, Timestamp: time.Now()})
	return nil
}

// Reconnect associates a new connection token with an existing player and
// publishes CONNECTED (§6's "Reconnect"). The caller is responsible for
// then calling Subscribe with the player's last acknowledged sequence to
// replay what they missed.
func (c *Controller) Reconnect(gameID, playerID, token string) error {
	a, err := c.actorFor(gameID)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.game.Players[playerID]
	if !ok {
		return fmt.Errorf("controller: unknown player %s", playerID)
	}
	p.Connection = model.Connected
	p.ConnectionToken = token
	p.LastSeen = time.Now()
	a.game.Touch()
	a.bus.Publish(model.Event{Type: model.EventConnected, Scope: model.PublicScope(),
		Payload: map[string]any{"playerId": playerID}, Timestamp: time.Now()})
	return nil
}

// Submit validates and applies cmd against gameID's game, serialized
// through that game's actor (§5). It is the entry point for every command
// type except CREATE_GAME and JOIN_GAME (see CreateGame/JoinGame). A panic
// raised while handling cmd is recovered and returned as a denied Result.
func (c *Controller) Submit(gameID string, cmd Command) (out Result) {
	_, span := tracer.Start(context.Background(), "controller.Submit",
		trace.WithAttributes(
			attribute.String("game.id", gameID),
			attribute.String("command.type", string(cmd.Type)),
		))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			c.log.Warnw("command panicked", "game", gameID, "command", string(cmd.Type), "panic", r)
			out = denied(fmt.Sprintf("internal error: %v", r), nil)
		}
	}()

	a, err := c.actorFor(gameID)
	if err != nil {
		return denied("game not found", nil)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	res := c.validator.Validate(a.game, cmd)
	if !res.Accepted() {
		return denied("command rejected", res.Errors())
	}

	payload, err := c.apply(a, cmd)
	if err != nil {
		return denied(err.Error(), nil)
	}
	return ok(payload, res.Warnings())
}

func (c *Controller) apply(a *gameActor, cmd Command) (map[string]any, error) {
	g := a.game
	switch cmd.Type {
	case CmdLeaveGame:
		return nil, c.applyLeaveGame(a, cmd)
	case CmdLockRoom:
		return nil, c.transition(a, model.TriggerLockRoom, model.EventRoomLocked)
	case CmdUnlockRoom:
		return nil, c.transition(a, model.TriggerUnlockRoom, model.EventRoomUnlocked)
	case CmdSelectRoles:
		return nil, c.applySelectRoles(a, cmd)
	case CmdSetRounds:
		return nil, c.applySetRounds(a, cmd)
	case CmdConfirmRoles:
		return nil, c.applyConfirmRoles(a)
	case CmdStartGame:
		return nil, c.applyStartGame(a)
	case CmdNominateLeader:
		return nil, c.applyNominateLeader(a, cmd)
	case CmdInitiateNewLeaderVote:
		room := model.RoomID(cmd.StringPayload("roomId"))
		return nil, a.engine.InitiateNewLeaderVote(g, room, cmd.PlayerID)
	case CmdVoteUsurp:
		room := model.RoomID(cmd.StringPayload("roomId"))
		return nil, a.engine.CastUsurpVote(g, room, cmd.PlayerID, cmd.StringPayload("candidateId"))
	case CmdAbdicate:
		room := model.RoomID(cmd.StringPayload("roomId"))
		return nil, a.engine.Abdicate(g, room, cmd.PlayerID, cmd.StringPayload("successorId"))
	case CmdSelectHostage:
		room := g.RoomOf(cmd.PlayerID)
		return nil, a.engine.SelectHostage(g, room, cmd.PlayerID, cmd.StringPayload("targetPlayerId"))
	case CmdLockHostages:
		room := g.RoomOf(cmd.PlayerID)
		return nil, a.engine.LockHostages(g, room, cmd.PlayerID)
	case CmdCardShare, CmdColorShare, CmdPrivateReveal, CmdPublicReveal:
		return nil, c.applyShare(a, cmd)
	case CmdActivateAbility:
		return c.applyAbilityTrigger(a, cmd, string(cmd.Type))
	default:
		return nil, fmt.Errorf("controller: unhandled command type %s", cmd.Type)
	}
}

func (c *Controller) applyLeaveGame(a *gameActor, cmd Command) error {
	g := a.game
	p, ok := g.Players[cmd.PlayerID]
	if !ok {
		return fmt.Errorf("controller: unknown player %s", cmd.PlayerID)
	}
	p.Connection = model.Disconnected
	g.Touch()
	a.bus.Publish(model.Event{Type: model.EventPlayerLeft, Scope: model.PublicScope(),
		Payload: map[string]any{"playerId": cmd.PlayerID}, Timestamp: time.Now()})
	return nil
}

// transition applies a state-machine-only trigger: compute the next
// phase, mutate g.State.Public.Phase, bump the version, and publish both
// the domain event and PHASE_CHANGED (§4.2 "transition semantics").
func (c *Controller) transition(a *gameActor, trigger model.Trigger, domainEvent model.EventType) error {
	g := a.game
	from := g.State.Public.Phase
	next, err := c.sm.Transition(g, trigger)
	if err != nil {
		return err
	}
	g.State.Public.Phase = next
	g.Touch()
	a.bus.Publish(model.Event{Type: domainEvent, Scope: model.PublicScope(), Timestamp: time.Now()})
	a.bus.Publish(model.Event{Type: model.EventPhaseChanged, Scope: model.PublicScope(),
		Payload: map[string]any{"from": string(from), "to": string(next), "trigger": string(trigger)}, Timestamp: time.Now()})
	return nil
}

func (c *Controller) applySetRounds(a *gameActor, cmd Command) error {
	g := a.game
	n, _ := cmd.IntPayload("totalRounds")
	g.Config.TotalRounds = n
	g.Config.RoundDurations = make([]time.Duration, n)
	// SET_ROUNDS re-derives roundDurations for the new totalRounds from
	// defaultRoundDuration (8m for 3 rounds, 6m otherwise), discarding any
	// prior manual override. The round.defaultDurations config values are
	// not consulted here.
	def := defaultRoundDuration(n)
	for i := range g.Config.RoundDurations {
		g.Config.RoundDurations[i] = def
	}
	g.State.Public.TotalRounds = n
	g.Touch()
	a.bus.Publish(model.Event{Type: model.EventGameConfigUpdated, Scope: model.PublicScope(),
		Payload: map[string]any{"totalRounds": n}, Timestamp: time.Now()})
	return nil
}

func defaultRoundDuration(totalRounds int) time.Duration {
	if totalRounds == 3 {
		return 8 * time.Minute
	}
	return 6 * time.Minute
}

func (c *Controller) applySelectRoles(a *gameActor, cmd Command) error {
	g := a.game
	if g.State.Public.Phase == model.PhaseLocked {
		if err := c.transition(a, model.TriggerStartRoleSelection, model.EventRolesSelected); err != nil {
			return err
		}
	}
	g.Config.SelectedRoles = cmd.StringSlicePayload("roles")
	g.Touch()
	a.bus.Publish(model.Event{Type: model.EventRolesSelected, Scope: model.PublicScope(),
		Payload: map[string]any{"roles": g.Config.SelectedRoles}, Timestamp: time.Now()})
	return nil
}

// applyConfirmRoles implements §4.8's "On confirm_roles" and "On
// roles_distributed" sequences, both driven by the single CONFIRM_ROLES
// command since roles_distributed has no external trigger of its own.
func (c *Controller) applyConfirmRoles(a *gameActor) error {
	g := a.game

	if err := c.transition(a, model.TriggerConfirmRoles, model.EventGameConfigUpdated); err != nil {
		return err
	}

	deck := append([]string(nil), g.Config.SelectedRoles...)
	if err := shuffleStrings(deck); err != nil {
		return err
	}

	if g.Config.BuryCard && len(deck) > g.PlayerCount() {
		g.State.Private.BuriedCard = deck[len(deck)-1]
		deck = deck[:len(deck)-1]
	}
	g.State.Private.DeckConfig = deck

	playerIDs := make([]string, 0, len(g.Players))
	for id := range g.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Strings(playerIDs) // arbitrary but reproducible order (§4.8)

	for i, pid := range playerIDs {
		roleID := deck[i]
		p := g.Players[pid]
		p.CurrentRole = roleID
		p.OriginalRole = roleID
		g.State.Private.RoleAssignments[pid] = roleID

		payload := map[string]any{"characterId": roleID}
		if ch, found := c.catalogue.Lookup(roleID); found {
			payload["displayName"] = ch.DisplayName
			payload["description"] = ch.Description
			payload["team"] = string(ch.Team)
		}
		a.bus.Publish(model.Event{Type: model.EventRoleAssigned, Scope: model.PlayerScope(pid),
			Payload: payload, Timestamp: time.Now()})
	}
	g.Touch()

	if err := c.transition(a, model.TriggerRolesDistributed, model.EventGameConfigUpdated); err != nil {
		return err
	}

	return c.assignRooms(a, playerIDs)
}

// assignRooms implements §4.8's "On roles_distributed" room split: shuffle
// players, mid = floor(n/2), [0,mid) to room A, [mid,end) to room B.
func (c *Controller) assignRooms(a *gameActor, playerIDs []string) error {
	g := a.game
	shuffled := append([]string(nil), playerIDs...)
	if err := shuffleStrings(shuffled); err != nil {
		return err
	}

	mid := len(shuffled) / 2
	assign := func(ids []string, room model.RoomID) {
		rs := g.Room(room)
		for _, pid := range ids {
			rs.Members = append(rs.Members, pid)
			g.Players[pid].CurrentRoom = room
			g.State.Public.RoomAssignments[pid] = room
		}
	}
	assign(shuffled[:mid], model.RoomA)
	assign(shuffled[mid:], model.RoomB)
	g.Touch()

	a.bus.Publish(model.Event{Type: model.EventGameConfigUpdated, Scope: model.PublicScope(),
		Payload: map[string]any{"roomAssignments": g.State.Public.RoomAssignments}, Timestamp: time.Now()})
	return nil
}

func (c *Controller) applyStartGame(a *gameActor) error {
	g := a.game
	from := g.State.Public.Phase
	next, err := c.sm.Transition(g, model.TriggerStartGame)
	if err != nil {
		return err
	}
	g.State.Public.Phase = next
	g.Touch()
	a.bus.Publish(model.Event{Type: model.EventPhaseChanged, Scope: model.PublicScope(),
		Payload: map[string]any{"from": string(from), "to": string(next), "trigger": string(model.TriggerStartGame)}, Timestamp: time.Now()})

	a.engine.StartRound(g, 1)
	return nil
}

func (c *Controller) applyNominateLeader(a *gameActor, cmd Command) error {
	room := model.RoomID(cmd.StringPayload("roomId"))
	_, err := a.engine.CastLeaderVote(a.game, room, cmd.PlayerID, cmd.StringPayload("candidateId"))
	return err
}

func (c *Controller) applyShare(a *gameActor, cmd Command) error {
	g := a.game
	target := cmd.StringPayload("targetPlayerId")
	kind := string(cmd.Type)

	g.State.Private.CardShareLog = append(g.State.Private.CardShareLog, model.CardShareRecord{
		Round:       g.State.Public.CurrentRound,
		InitiatorID: cmd.PlayerID,
		TargetID:    target,
		Kind:        kind,
		At:          time.Now(),
	})
	g.Touch()

	// Role/condition payloads never leave a PLAYER scope (§3.7 "role
	// assignments never appear in any event with a scope other than
	// {playerId} for that exact player"); the room only learns that a
	// share occurred, not its content.
	a.bus.Publish(model.Event{Type: model.EventVoteCast, Scope: model.RoomScope(g.RoomOf(cmd.PlayerID)),
		Payload: map[string]any{"kind": kind, "initiatorId": cmd.PlayerID, "targetId": target}, Timestamp: time.Now()})
	return nil
}

// applyAbilityTrigger runs the AbilityEngine at an explicit player-invoked
// trigger point and applies the returned effects in order (§4.7).
func (c *Controller) applyAbilityTrigger(a *gameActor, cmd Command, trigger string) (map[string]any, error) {
	effects, err := c.abilities.Evaluate(a.game, trigger)
	if err != nil {
		return nil, err
	}
	c.applyEffects(a, effects)
	return map[string]any{"effectsApplied": len(effects)}, nil
}

func (c *Controller) applyEffects(a *gameActor, effects []Effect) {
	g := a.game
	for _, eff := range effects {
		switch eff.Kind {
		case EffectApplyCondition:
			if p, ok := g.Players[eff.PlayerID]; ok {
				p.Conditions = append(p.Conditions, conditionName(eff.Parameters))
			}
		case EffectRemoveCondition:
			if p, ok := g.Players[eff.PlayerID]; ok {
				p.Conditions = removeCondition(p.Conditions, conditionName(eff.Parameters))
			}
		case EffectEndRoundEarly:
			a.engine.EndRound(g, "ABILITY_EFFECT")
			continue
		case EffectInstantWin:
			next, err := c.sm.Transition(g, model.TriggerInstantWin)
			if err != nil {
				c.log.Warnw("instant_win denied", "game", g.ID, "error", err)
				continue
			}
			from := g.State.Public.Phase
			g.State.Public.Phase = next
			g.Touch()
			a.bus.Publish(model.Event{Type: model.EventPhaseChanged, Scope: model.PublicScope(), Payload: map[string]any{
				"from":    string(from),
				"to":      string(next),
				"trigger": string(model.TriggerInstantWin),
			}, Timestamp: time.Now()})
			if next == model.PhaseResolution {
				c.resolveGame(a, g)
			}
			continue
		}
		g.Touch()
		a.bus.Publish(model.Event{Type: model.EventGameConfigUpdated, Scope: model.PlayerScope(eff.PlayerID),
			Payload: map[string]any{"effect": string(eff.Kind)}, Timestamp: time.Now()})
	}
}

func conditionName(params map[string]any) string {
	if v, ok := params["condition"].(string); ok {
		return v
	}
	return ""
}

func removeCondition(conditions []string, name string) []string {
	out := conditions[:0]
	for _, c := range conditions {
		if c != name {
			out = append(out, c)
		}
	}
	return out
}

// shuffleStrings performs a Fisher-Yates shuffle using a cryptographically
// strong uniform random source for each swap, not a deterministic PRNG
// (§4.8 "Shuffle it with Fisher-Yates using a cryptographically strong
// uniform random source for each swap").
func shuffleStrings(s []string) error {
	for i := len(s) - 1; i > 0; i-- {
		j, err := randIntn(i + 1)
		if err != nil {
			return err
		}
		s[i], s[j] = s[j], s[i]
	}
	return nil
}

func randIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
